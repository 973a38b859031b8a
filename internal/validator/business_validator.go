package validator

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/course-platform/catalog-service/internal/models"
)

var slugPattern = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)

// BusinessValidator handles business rule validation
type BusinessValidator struct {
	validate *validator.Validate
}

// NewBusinessValidator creates a new business validator
func NewBusinessValidator() *BusinessValidator {
	validate := validator.New()

	bv := &BusinessValidator{validate: validate}
	bv.registerBusinessRules()

	return bv
}

// Validate validates business rules for any struct
func (bv *BusinessValidator) Validate(s interface{}) ValidationErrors {
	err := bv.validate.Struct(s)
	if err != nil {
		return ToValidationErrors(err)
	}
	return nil
}

// ValidateDocumentationCreate validates documentation creation business rules
func (bv *BusinessValidator) ValidateDocumentationCreate(req *DocumentationCreateRequest) ValidationErrors {
	var errors ValidationErrors

	errors = append(errors, bv.Validate(req)...)
	errors = append(errors, bv.validateDocumentationPricing(req.Price, req.Currency)...)

	return errors
}

// ValidateDocumentationUpdate validates documentation update business rules
func (bv *BusinessValidator) ValidateDocumentationUpdate(req *DocumentationUpdateRequest) ValidationErrors {
	var errors ValidationErrors

	errors = append(errors, bv.Validate(req)...)
	errors = append(errors, bv.validateDocumentationPricing(req.Price, req.Currency)...)

	return errors
}

// ValidateCourseCreate validates course creation business rules
func (bv *BusinessValidator) ValidateCourseCreate(req *CourseCreateRequest) ValidationErrors {
	var errors ValidationErrors

	errors = append(errors, bv.Validate(req)...)

	// A premium course must carry a positive price
	if req.IsPremium != nil && *req.IsPremium {
		if req.Price == nil || *req.Price <= 0 {
			errors = append(errors, ValidationError{
				Field:   "price",
				Message: "premium courses require a positive price",
				Value:   req.Price,
				Rule:    "business_logic",
			})
		}
	}

	return errors
}

// ValidateSectionUpdate validates a section-graph replacement request.
// Graph-level checks (unknown references, cycles) run against storage in
// the service layer; this covers the request shape.
func (bv *BusinessValidator) ValidateSectionUpdate(parentID uint, req *UpdateSectionsRequest) ValidationErrors {
	var errors ValidationErrors

	errors = append(errors, bv.Validate(req)...)

	for i, id := range req.SectionIDs {
		if id == parentID {
			errors = append(errors, ValidationError{
				Field:   fmt.Sprintf("section_ids[%d]", i),
				Message: "a document cannot reference itself as a section",
				Value:   id,
				Rule:    "self_reference",
			})
		}
	}

	seen := make(map[uint]int, len(req.SectionIDs))
	for i, id := range req.SectionIDs {
		if first, dup := seen[id]; dup {
			errors = append(errors, ValidationError{
				Field:   fmt.Sprintf("section_ids[%d]", i),
				Message: fmt.Sprintf("duplicate of section_ids[%d]", first),
				Value:   id,
				Rule:    "duplicate_reference",
			})
			continue
		}
		seen[id] = i
	}

	return errors
}

func (bv *BusinessValidator) validateDocumentationPricing(price *float64, currency *string) ValidationErrors {
	var errors ValidationErrors

	// Currency without a price is meaningless
	if currency != nil && price == nil {
		errors = append(errors, ValidationError{
			Field:   "currency",
			Message: "cannot be set without a price",
			Value:   *currency,
			Rule:    "business_logic",
		})
	}

	return errors
}

// registerBusinessRules registers custom business rule validators
func (bv *BusinessValidator) registerBusinessRules() {
	// Course level validation
	bv.validate.RegisterValidation("course_level", func(fl validator.FieldLevel) bool {
		level := fl.Field().String()
		validLevels := []models.CourseLevel{models.LevelBeginner, models.LevelIntermediate, models.LevelAdvanced, models.LevelBeginnerToAdvance}
		for _, vl := range validLevels {
			if models.CourseLevel(level) == vl {
				return true
			}
		}
		return false
	})

	// ISO-style three-letter currency code, stored lowercase
	bv.validate.RegisterValidation("currency_code", func(fl validator.FieldLevel) bool {
		code := fl.Field().String()
		if len(code) != 3 {
			return false
		}
		return code == strings.ToLower(code)
	})

	// Review rating validation (1-5 stars)
	bv.validate.RegisterValidation("rating_range", func(fl validator.FieldLevel) bool {
		rating := fl.Field().Int()
		return rating >= 1 && rating <= 5
	})

	// URL slug validation
	bv.validate.RegisterValidation("slug_format", func(fl validator.FieldLevel) bool {
		return slugPattern.MatchString(fl.Field().String())
	})
}
