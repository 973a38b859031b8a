package services

import (
	"errors"
	"fmt"

	"github.com/course-platform/catalog-service/internal/models"
)

// Sentinel errors for missing entities
var (
	ErrCategoryNotFound      = errors.New("category not found")
	ErrCourseNotFound        = errors.New("course not found")
	ErrSectionNotFound       = errors.New("course section not found")
	ErrDocumentationNotFound = errors.New("documentation not found")
	ErrPurchaseNotFound      = errors.New("purchase not found")
	ErrEnrollmentNotFound    = errors.New("enrollment not found")
	ErrProgressNotFound      = errors.New("course progress not found")
	ErrReviewNotFound        = errors.New("review not found")
	ErrUserNotFound          = errors.New("user not found")

	ErrCategoryTitleTaken = errors.New("category title already exists")
	ErrSlugTaken          = errors.New("slug already exists")
	ErrVersionConflict    = errors.New("document was modified concurrently, re-read and retry")
)

// SelfReferenceError rejects a document listing itself as a section.
type SelfReferenceError struct {
	DocumentID uint
}

func (e *SelfReferenceError) Error() string {
	return fmt.Sprintf("document %d cannot reference itself as a section", e.DocumentID)
}

// CycleError rejects a section edit that would close a reference loop.
// Path is the chain of document ids that leads back to the document
// being edited.
type CycleError struct {
	DocumentID uint
	Path       []uint
}

func (e *CycleError) Error() string {
	return fmt.Sprintf("section update on document %d would create a cycle via path %v", e.DocumentID, e.Path)
}

// ConflictError reports a uniqueness violation on concurrent create.
// The caller should re-read and continue with the existing record.
type ConflictError struct {
	Resource string
	Key      string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("%s already exists for %s", e.Resource, e.Key)
}

// InvalidTransitionError reports a state-machine violation. Never
// retried, always logged.
type InvalidTransitionError struct {
	Resource string
	From     string
	Event    string
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("%s in status %q cannot accept %q", e.Resource, e.From, e.Event)
}

// UnknownReferenceError flags a provider event whose session or payment
// reference matches no recorded purchase. Accepted but flagged for
// reconciliation.
type UnknownReferenceError struct {
	SessionRef *string
	PaymentRef *string
}

func (e *UnknownReferenceError) Error() string {
	return fmt.Sprintf("no purchase matches provider refs (session=%v, payment=%v)", deref(e.SessionRef), deref(e.PaymentRef))
}

// AmountMismatchError flags a provider event whose amount or currency
// disagrees with the recorded purchase. Signal only, the transition
// still applies.
type AmountMismatchError struct {
	PurchaseID       uint
	RecordedAmount   float64
	RecordedCurrency string
	EventAmount      float64
	EventCurrency    string
}

func (e *AmountMismatchError) Error() string {
	return fmt.Sprintf("purchase %d recorded %.2f %s but provider reported %.2f %s",
		e.PurchaseID, e.RecordedAmount, e.RecordedCurrency, e.EventAmount, e.EventCurrency)
}

// OutOfRangeError rejects a value outside its documented bounds.
type OutOfRangeError struct {
	Field string
	Value interface{}
	Min   int
	Max   int
}

func (e *OutOfRangeError) Error() string {
	return fmt.Sprintf("%s must be between %d and %d, got %v", e.Field, e.Min, e.Max, e.Value)
}

// DuplicateReviewError rejects a second review for the same course by
// the same user.
type DuplicateReviewError struct {
	UserID   string
	CourseID uint
}

func (e *DuplicateReviewError) Error() string {
	return fmt.Sprintf("user %s already reviewed course %d", e.UserID, e.CourseID)
}

// PermissionError reports an action the caller is not allowed to take.
type PermissionError struct {
	UserID   string
	Resource string
	Action   string
	Reason   string
}

func NewPermissionError(userID, resource, action, reason string) *PermissionError {
	return &PermissionError{
		UserID:   userID,
		Resource: resource,
		Action:   action,
		Reason:   reason,
	}
}

func (e *PermissionError) Error() string {
	return fmt.Sprintf("user %s cannot %s %s: %s", e.UserID, e.Action, e.Resource, e.Reason)
}

// NewInvalidEnrollmentTransition wraps a transition-table rejection.
func NewInvalidEnrollmentTransition(current models.EnrollmentStatus, event models.EnrollmentEvent) *InvalidTransitionError {
	return &InvalidTransitionError{
		Resource: "enrollment",
		From:     string(current),
		Event:    string(event),
	}
}

// NewInvalidPurchaseTransition wraps a transition-table rejection.
func NewInvalidPurchaseTransition(current models.PurchaseStatus, outcome models.ProviderOutcome) *InvalidTransitionError {
	return &InvalidTransitionError{
		Resource: "purchase",
		From:     string(current),
		Event:    string(outcome),
	}
}

func deref(s *string) string {
	if s == nil {
		return "<nil>"
	}
	return *s
}
