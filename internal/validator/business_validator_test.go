package validator

import (
	"strings"
	"testing"

	"github.com/course-platform/catalog-service/internal/models"
)

func TestBusinessValidator_ValidateSectionUpdate(t *testing.T) {
	bv := NewBusinessValidator()

	tests := []struct {
		name       string
		parentID   uint
		sectionIDs []uint
		wantErrors int
		wantRule   string
	}{
		{
			name:       "valid list",
			parentID:   1,
			sectionIDs: []uint{2, 3, 4},
			wantErrors: 0,
		},
		{
			name:       "self reference",
			parentID:   1,
			sectionIDs: []uint{2, 1},
			wantErrors: 1,
			wantRule:   "self_reference",
		},
		{
			name:       "duplicate reference",
			parentID:   1,
			sectionIDs: []uint{2, 3, 2},
			wantErrors: 1,
			wantRule:   "duplicate_reference",
		},
		{
			name:       "triple duplicate reported once per repeat",
			parentID:   1,
			sectionIDs: []uint{2, 2, 2},
			wantErrors: 2,
			wantRule:   "duplicate_reference",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errs := bv.ValidateSectionUpdate(tt.parentID, &UpdateSectionsRequest{
				SectionIDs:      tt.sectionIDs,
				ExpectedVersion: 1,
			})
			if len(errs) != tt.wantErrors {
				t.Fatalf("got %d errors %v, want %d", len(errs), errs, tt.wantErrors)
			}
			if tt.wantRule != "" && errs[0].Rule != tt.wantRule {
				t.Errorf("Rule = %q, want %q", errs[0].Rule, tt.wantRule)
			}
		})
	}
}

func TestBusinessValidator_CustomRules(t *testing.T) {
	v := New()

	t.Run("currency_code", func(t *testing.T) {
		type payload struct {
			Currency string `validate:"currency_code"`
		}
		for code, valid := range map[string]bool{
			"usd":  true,
			"eur":  true,
			"USD":  false,
			"us":   false,
			"usdd": false,
		} {
			err := v.Validate(&payload{Currency: code})
			if valid && err != nil {
				t.Errorf("%q rejected: %v", code, err)
			}
			if !valid && err == nil {
				t.Errorf("%q accepted, want rejection", code)
			}
		}
	})

	t.Run("rating_range", func(t *testing.T) {
		type payload struct {
			Rating int `validate:"rating_range"`
		}
		for rating, valid := range map[int]bool{1: true, 5: true, 0: false, 6: false} {
			err := v.Validate(&payload{Rating: rating})
			if valid && err != nil {
				t.Errorf("rating %d rejected: %v", rating, err)
			}
			if !valid && err == nil {
				t.Errorf("rating %d accepted, want rejection", rating)
			}
		}
	})

	t.Run("slug_format", func(t *testing.T) {
		type payload struct {
			Slug string `validate:"slug_format"`
		}
		for slug, valid := range map[string]bool{
			"getting-started":  true,
			"go-101":           true,
			"UPPER":            false,
			"trailing-":        false,
			"double--dash":     false,
			"spaces not valid": false,
		} {
			err := v.Validate(&payload{Slug: slug})
			if valid && err != nil {
				t.Errorf("%q rejected: %v", slug, err)
			}
			if !valid && err == nil {
				t.Errorf("%q accepted, want rejection", slug)
			}
		}
	})
}

func TestBusinessValidator_CourseCreate(t *testing.T) {
	bv := NewBusinessValidator()
	premium := true
	price := 29.99

	t.Run("premium course requires a price", func(t *testing.T) {
		errs := bv.ValidateCourseCreate(&CourseCreateRequest{
			Title:      "Advanced Go",
			CategoryID: 1,
			Level:      models.LevelAdvanced,
			IsPremium:  &premium,
		})
		if len(errs) == 0 {
			t.Fatal("expected an error for premium course without price")
		}
		if !strings.Contains(errs.Error(), "positive price") {
			t.Errorf("unexpected error text: %v", errs)
		}
	})

	t.Run("premium course with a price", func(t *testing.T) {
		errs := bv.ValidateCourseCreate(&CourseCreateRequest{
			Title:      "Advanced Go",
			CategoryID: 1,
			Level:      models.LevelAdvanced,
			IsPremium:  &premium,
			Price:      &price,
		})
		if len(errs) != 0 {
			t.Fatalf("unexpected errors: %v", errs)
		}
	})
}

func TestBusinessValidator_DocumentationPricing(t *testing.T) {
	bv := NewBusinessValidator()
	currency := "usd"

	errs := bv.ValidateDocumentationCreate(&DocumentationCreateRequest{
		Title:      "Orphan Currency",
		Content:    "content",
		CategoryID: 1,
		Currency:   &currency,
	})
	if len(errs) == 0 {
		t.Fatal("expected an error for currency without price")
	}
	if errs[0].Field != "currency" {
		t.Errorf("Field = %q, want currency", errs[0].Field)
	}
}
