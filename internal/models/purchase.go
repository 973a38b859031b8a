package models

import (
	"fmt"
	"time"
)

type PurchaseStatus string

const (
	PurchasePending   PurchaseStatus = "pending"
	PurchaseCompleted PurchaseStatus = "completed"
	PurchaseFailed    PurchaseStatus = "failed"
	PurchaseRefunded  PurchaseStatus = "refunded"
)

// ProviderOutcome is the payment result reported by the provider.
type ProviderOutcome string

const (
	OutcomeSucceeded ProviderOutcome = "succeeded"
	OutcomeFailed    ProviderOutcome = "failed"
	OutcomeRefunded  ProviderOutcome = "refunded"
)

type Purchase struct {
	ID         uint   `json:"id" gorm:"primaryKey"`
	UserID     string `json:"user_id" gorm:"not null;index;size:255;uniqueIndex:idx_user_document"`
	DocumentID uint   `json:"document_id" gorm:"not null;index;uniqueIndex:idx_user_document"`

	// Provider references, set when the checkout session is created
	ProviderSessionRef *string `json:"provider_session_ref" gorm:"size:255;index"`
	ProviderPaymentRef *string `json:"provider_payment_ref" gorm:"size:255;index"`

	Amount   float64        `json:"amount" gorm:"not null" validate:"min=0"`
	Currency string         `json:"currency" gorm:"size:3;not null;default:usd"`
	Status   PurchaseStatus `json:"status" gorm:"default:pending;index"`

	PurchaseDate time.Time `json:"purchase_date" gorm:"index"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Relations
	User     User          `json:"user,omitempty" gorm:"foreignKey:UserID"`
	Document Documentation `json:"document,omitempty" gorm:"foreignKey:DocumentID"`
}

func (Purchase) TableName() string {
	return "purchases"
}

// purchaseTransitions is the full (status, outcome) table. A missing
// entry means the transition is invalid and must not be applied.
var purchaseTransitions = map[PurchaseStatus]map[ProviderOutcome]PurchaseStatus{
	PurchasePending: {
		OutcomeSucceeded: PurchaseCompleted,
		OutcomeFailed:    PurchaseFailed,
	},
	PurchaseCompleted: {
		OutcomeRefunded: PurchaseRefunded,
	},
}

// targetStatus maps an outcome to the status it lands on, used to
// detect re-delivered events that already took effect.
var targetStatus = map[ProviderOutcome]PurchaseStatus{
	OutcomeSucceeded: PurchaseCompleted,
	OutcomeFailed:    PurchaseFailed,
	OutcomeRefunded:  PurchaseRefunded,
}

// NextPurchaseStatus resolves a provider outcome against the current
// purchase status. It returns the next status, whether the event is a
// stale re-delivery (no-op), or an error for transitions that would
// resurrect a dead purchase.
func NextPurchaseStatus(current PurchaseStatus, outcome ProviderOutcome) (next PurchaseStatus, noop bool, err error) {
	if target, ok := targetStatus[outcome]; ok && target == current {
		return current, true, nil
	}
	if next, ok := purchaseTransitions[current][outcome]; ok {
		return next, false, nil
	}
	return current, false, fmt.Errorf("purchase status %q cannot accept outcome %q", current, outcome)
}
