package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"gorm.io/gorm"

	"github.com/course-platform/catalog-service/internal/events"
	"github.com/course-platform/catalog-service/internal/models"
	"github.com/course-platform/catalog-service/internal/repositories"
	"github.com/course-platform/catalog-service/internal/validator"
)

type ledgerService struct {
	repo           repositories.Repository
	db             *gorm.DB
	logger         *slog.Logger
	validator      *validator.Validator
	eventPublisher events.EventPublisher
}

func NewLedgerService(repo repositories.Repository, db *gorm.DB, logger *slog.Logger, validator *validator.Validator, publisher events.EventPublisher) LedgerService {
	return &ledgerService{
		repo:           repo,
		db:             db,
		logger:         logger,
		validator:      validator,
		eventPublisher: publisher,
	}
}

func (s *ledgerService) RecordPendingPurchase(ctx context.Context, userID string, req *CheckoutRequest) (*models.Purchase, error) {
	s.logger.Info("Recording pending purchase", "user_id", userID, "document_id", req.DocumentID)

	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	doc, err := s.repo.Documentation().GetByID(ctx, nil, req.DocumentID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrDocumentationNotFound
		}
		return nil, fmt.Errorf("failed to get documentation: %w", err)
	}

	// Idempotent: the existing row for (user, document) is the answer,
	// whatever state it is in.
	existing, err := s.repo.Purchase().GetByUserAndDocument(ctx, nil, userID, req.DocumentID)
	if err == nil {
		return existing, nil
	}
	if !repositories.IsNotFoundError(err) {
		return nil, fmt.Errorf("failed to look up purchase: %w", err)
	}

	currency := req.Currency
	if currency == "" {
		currency = doc.Currency
	}

	purchase := &models.Purchase{
		UserID:             userID,
		DocumentID:         req.DocumentID,
		ProviderSessionRef: req.ProviderSessionRef,
		Amount:             req.Amount,
		Currency:           currency,
		Status:             models.PurchasePending,
		PurchaseDate:       time.Now().UTC(),
	}

	if err := s.repo.Purchase().Create(ctx, nil, purchase); err != nil {
		// Lost the race against a concurrent checkout for the same
		// pair. The unique index is the enforcement point; re-read the
		// winner's row.
		if repositories.IsDuplicateKeyError(err) {
			winner, rerr := s.repo.Purchase().GetByUserAndDocument(ctx, nil, userID, req.DocumentID)
			if rerr != nil {
				return nil, fmt.Errorf("failed to re-read purchase after conflict: %w", rerr)
			}
			return winner, nil
		}
		return nil, fmt.Errorf("failed to create purchase: %w", err)
	}

	s.logger.Info("Pending purchase recorded", "purchase_id", purchase.ID, "user_id", userID, "document_id", req.DocumentID)
	return purchase, nil
}

// ApplyProviderEvent reconciles a provider outcome into local state.
// Anomalies that do not block the transition (amount or currency
// mismatch) are returned as a typed error alongside the updated
// purchase so the transport layer can log them; the transition itself
// has already been applied.
func (s *ledgerService) ApplyProviderEvent(ctx context.Context, req *ProviderEventRequest) (*models.Purchase, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	purchase, err := s.repo.Purchase().GetByProviderRef(ctx, nil, req.ProviderSessionRef, req.ProviderPaymentRef)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, &UnknownReferenceError{
				SessionRef: req.ProviderSessionRef,
				PaymentRef: req.ProviderPaymentRef,
			}
		}
		return nil, fmt.Errorf("failed to look up purchase by provider refs: %w", err)
	}

	next, noop, terr := models.NextPurchaseStatus(purchase.Status, req.Outcome)
	if terr != nil {
		return purchase, NewInvalidPurchaseTransition(purchase.Status, req.Outcome)
	}
	if noop {
		s.logger.Info("Provider event already applied",
			"purchase_id", purchase.ID,
			"status", purchase.Status,
			"outcome", req.Outcome,
			"event_id", req.EventID)
		return purchase, nil
	}

	mismatch := s.checkAmountMismatch(purchase, req)

	rows, err := s.repo.Purchase().UpdateStatusGuarded(ctx, nil, purchase.ID, purchase.Status, next, req.ProviderPaymentRef)
	if err != nil {
		return nil, fmt.Errorf("failed to apply purchase transition: %w", err)
	}
	if rows == 0 {
		// A racing delivery moved the status first. Re-read and resolve
		// against the transition table again.
		current, rerr := s.repo.Purchase().GetByID(ctx, nil, purchase.ID)
		if rerr != nil {
			return nil, fmt.Errorf("failed to re-read purchase after guard miss: %w", rerr)
		}
		if _, nowNoop, nerr := models.NextPurchaseStatus(current.Status, req.Outcome); nerr == nil && nowNoop {
			return current, nil
		}
		return current, NewInvalidPurchaseTransition(current.Status, req.Outcome)
	}

	purchase.Status = next
	if req.ProviderPaymentRef != nil {
		purchase.ProviderPaymentRef = req.ProviderPaymentRef
	}

	s.logger.Info("Provider event applied",
		"purchase_id", purchase.ID,
		"status", purchase.Status,
		"outcome", req.Outcome,
		"event_id", req.EventID)

	s.publishPurchaseEvent(ctx, purchase, req.Outcome)
	if mismatch != nil {
		s.publishAnomalyEvent(ctx, purchase, mismatch)
		return purchase, mismatch
	}
	return purchase, nil
}

func (s *ledgerService) HasAccess(ctx context.Context, userID string, documentID uint) (bool, error) {
	doc, err := s.repo.Documentation().GetByID(ctx, nil, documentID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return false, ErrDocumentationNotFound
		}
		return false, fmt.Errorf("failed to get documentation: %w", err)
	}

	// Free content is always accessible.
	if doc.IsFree() {
		return true, nil
	}

	purchase, err := s.repo.Purchase().GetByUserAndDocument(ctx, nil, userID, documentID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return false, nil
		}
		return false, fmt.Errorf("failed to look up purchase: %w", err)
	}

	return purchase.Status == models.PurchaseCompleted, nil
}

func (s *ledgerService) checkAmountMismatch(purchase *models.Purchase, req *ProviderEventRequest) *AmountMismatchError {
	amountDiffers := req.Amount != nil && *req.Amount != purchase.Amount
	currencyDiffers := req.Currency != nil && *req.Currency != purchase.Currency
	if !amountDiffers && !currencyDiffers {
		return nil
	}

	mismatch := &AmountMismatchError{
		PurchaseID:       purchase.ID,
		RecordedAmount:   purchase.Amount,
		RecordedCurrency: purchase.Currency,
		EventAmount:      purchase.Amount,
		EventCurrency:    purchase.Currency,
	}
	if req.Amount != nil {
		mismatch.EventAmount = *req.Amount
	}
	if req.Currency != nil {
		mismatch.EventCurrency = *req.Currency
	}

	s.logger.Warn("Provider event amount mismatch",
		"purchase_id", purchase.ID,
		"recorded_amount", mismatch.RecordedAmount,
		"recorded_currency", mismatch.RecordedCurrency,
		"event_amount", mismatch.EventAmount,
		"event_currency", mismatch.EventCurrency)

	return mismatch
}

// publishPurchaseEvent is best-effort: ledger writes never roll back
// because the broker was unreachable.
func (s *ledgerService) publishPurchaseEvent(ctx context.Context, purchase *models.Purchase, outcome models.ProviderOutcome) {
	if s.eventPublisher == nil {
		return
	}

	eventType := map[models.ProviderOutcome]string{
		models.OutcomeSucceeded: events.EventPurchaseCompleted,
		models.OutcomeFailed:    events.EventPurchaseFailed,
		models.OutcomeRefunded:  events.EventPurchaseRefunded,
	}[outcome]

	event := events.NewEvent(eventType, purchase)
	if err := s.eventPublisher.Publish(ctx, events.TopicPurchases, event); err != nil {
		s.logger.Error("Failed to publish purchase event",
			"purchase_id", purchase.ID,
			"event_type", eventType,
			"error", err)
	}
}

func (s *ledgerService) publishAnomalyEvent(ctx context.Context, purchase *models.Purchase, mismatch *AmountMismatchError) {
	if s.eventPublisher == nil {
		return
	}

	event := events.NewEvent(events.EventPurchaseAmountAnomaly, mismatch)
	if err := s.eventPublisher.Publish(ctx, events.TopicPurchases, event); err != nil {
		s.logger.Error("Failed to publish anomaly event",
			"purchase_id", purchase.ID,
			"error", err)
	}
}
