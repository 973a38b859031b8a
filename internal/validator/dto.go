package validator

import (
	"github.com/course-platform/catalog-service/internal/models"
)

// CategoryCreateRequest represents the request structure for creating categories
type CategoryCreateRequest struct {
	Title       string  `json:"title" validate:"required,min=1,max=100"`
	Description *string `json:"description" validate:"omitempty,max=1000"`
	Icon        *string `json:"icon" validate:"omitempty,max=100"`
	BgColor     *string `json:"bg_color" validate:"omitempty,max=100"`
	Order       *int    `json:"order" validate:"omitempty,min=0"`
}

// CategoryUpdateRequest represents the request structure for updating categories
type CategoryUpdateRequest struct {
	Title       *string `json:"title" validate:"omitempty,min=1,max=100"`
	Description *string `json:"description" validate:"omitempty,max=1000"`
	Icon        *string `json:"icon" validate:"omitempty,max=100"`
	BgColor     *string `json:"bg_color" validate:"omitempty,max=100"`
	Order       *int    `json:"order" validate:"omitempty,min=0"`
}

// CourseCreateRequest represents the request structure for creating courses
type CourseCreateRequest struct {
	Title       string             `json:"title" validate:"required,min=1,max=200"`
	Description *string            `json:"description" validate:"omitempty,max=5000"`
	CategoryID  uint               `json:"category_id" validate:"required"`
	Level       models.CourseLevel `json:"level" validate:"omitempty,course_level"`
	Duration    *string            `json:"duration" validate:"omitempty,max=50"`
	Instructor  *string            `json:"instructor" validate:"omitempty,max=200"`
	BgColor     *string            `json:"bg_color" validate:"omitempty,max=100"`
	Price       *float64           `json:"price" validate:"omitempty,min=0"`
	IsPremium   *bool              `json:"is_premium"`
	IsPublished *bool              `json:"is_published"`
}

// CourseUpdateRequest represents the request structure for updating courses
type CourseUpdateRequest struct {
	Title       *string             `json:"title" validate:"omitempty,min=1,max=200"`
	Description *string             `json:"description" validate:"omitempty,max=5000"`
	CategoryID  *uint               `json:"category_id"`
	Level       *models.CourseLevel `json:"level" validate:"omitempty,course_level"`
	Duration    *string             `json:"duration" validate:"omitempty,max=50"`
	Instructor  *string             `json:"instructor" validate:"omitempty,max=200"`
	BgColor     *string             `json:"bg_color" validate:"omitempty,max=100"`
	Price       *float64            `json:"price" validate:"omitempty,min=0"`
	IsPremium   *bool               `json:"is_premium"`
	IsPublished *bool               `json:"is_published"`
}

// SectionCreateRequest represents adding a section to a course
type SectionCreateRequest struct {
	Title   string `json:"title" validate:"required,min=1,max=200"`
	Content string `json:"content" validate:"required"`
	Order   *int   `json:"order" validate:"omitempty,min=0"`
}

// SectionUpdateRequest represents updating a course section
type SectionUpdateRequest struct {
	Title   *string `json:"title" validate:"omitempty,min=1,max=200"`
	Content *string `json:"content"`
	Order   *int    `json:"order" validate:"omitempty,min=0"`
}

// DocumentationCreateRequest represents the request structure for creating documentation
type DocumentationCreateRequest struct {
	Title        string               `json:"title" validate:"required,min=1,max=200"`
	Slug         *string              `json:"slug" validate:"omitempty,slug_format,max=200"`
	Description  *string              `json:"description" validate:"omitempty,max=2000"`
	Content      string               `json:"content" validate:"required"`
	CategoryID   uint                 `json:"category_id" validate:"required"`
	ReadTime     *string              `json:"read_time" validate:"omitempty,max=50"`
	KeyFeatures  []string             `json:"key_features" validate:"omitempty,dive,max=500"`
	CodeExamples []models.CodeExample `json:"code_examples"`
	QuickLinks   []string             `json:"quick_links" validate:"omitempty,dive,max=500"`
	ProTip       *string              `json:"pro_tip" validate:"omitempty,max=2000"`
	Price        *float64             `json:"price" validate:"omitempty,min=0"`
	Currency     *string              `json:"currency" validate:"omitempty,currency_code"`
	IsPublished  *bool                `json:"is_published"`
}

// DocumentationUpdateRequest represents the request structure for updating documentation
type DocumentationUpdateRequest struct {
	Title        *string              `json:"title" validate:"omitempty,min=1,max=200"`
	Description  *string              `json:"description" validate:"omitempty,max=2000"`
	Content      *string              `json:"content"`
	CategoryID   *uint                `json:"category_id"`
	ReadTime     *string              `json:"read_time" validate:"omitempty,max=50"`
	KeyFeatures  []string             `json:"key_features" validate:"omitempty,dive,max=500"`
	CodeExamples []models.CodeExample `json:"code_examples"`
	QuickLinks   []string             `json:"quick_links" validate:"omitempty,dive,max=500"`
	ProTip       *string              `json:"pro_tip" validate:"omitempty,max=2000"`
	Price        *float64             `json:"price" validate:"omitempty,min=0"`
	Currency     *string              `json:"currency" validate:"omitempty,currency_code"`
	IsPublished  *bool                `json:"is_published"`
}

// UpdateSectionsRequest replaces a document's ordered child sections.
// ExpectedVersion carries the version read before editing so concurrent
// graph changes are detected instead of silently merged.
type UpdateSectionsRequest struct {
	SectionIDs      []uint `json:"section_ids" validate:"required"`
	ExpectedVersion int    `json:"expected_version" validate:"required,min=1"`
}

// CheckoutRequest opens a pending purchase for a paid document.
type CheckoutRequest struct {
	DocumentID         uint    `json:"document_id" validate:"required"`
	Amount             float64 `json:"amount" validate:"min=0"`
	Currency           string  `json:"currency" validate:"omitempty,currency_code"`
	ProviderSessionRef *string `json:"provider_session_ref" validate:"omitempty,max=255"`
}

// ProviderEventRequest is the payment provider's webhook payload, already
// verified and decoded by the transport layer.
type ProviderEventRequest struct {
	EventID            string                 `json:"event_id" validate:"required"`
	Outcome            models.ProviderOutcome `json:"outcome" validate:"required,oneof=succeeded failed refunded"`
	ProviderSessionRef *string                `json:"provider_session_ref"`
	ProviderPaymentRef *string                `json:"provider_payment_ref"`
	Amount             *float64               `json:"amount" validate:"omitempty,min=0"`
	Currency           *string                `json:"currency" validate:"omitempty,currency_code"`
}

// EnrollRequest enrolls a user into a course.
type EnrollRequest struct {
	CourseID uint `json:"course_id" validate:"required"`
}

// MarkSectionCompleteRequest records one completed course section.
type MarkSectionCompleteRequest struct {
	SectionID uint `json:"section_id" validate:"required"`
}

// ReviewCreateRequest submits a one-time course review.
type ReviewCreateRequest struct {
	CourseID uint    `json:"course_id" validate:"required"`
	Rating   int     `json:"rating" validate:"required,rating_range"`
	Comment  *string `json:"comment" validate:"omitempty,max=2000"`
}

// NewsletterSubscribeRequest subscribes an email to the newsletter.
type NewsletterSubscribeRequest struct {
	Email string `json:"email" validate:"required,email,max=255"`
}
