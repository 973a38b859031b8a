package services

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/course-platform/catalog-service/internal/models"
	"github.com/course-platform/catalog-service/internal/validator"
)

// newGraphFixture seeds documents 1..n with no edges and returns the
// service wired against the in-memory repository.
func newGraphFixture(t *testing.T, docCount int) (*graphService, *mockRepository) {
	t.Helper()
	repo := newMockRepository()
	for i := 1; i <= docCount; i++ {
		doc := &models.Documentation{
			Title:   fmt.Sprintf("Doc %d", i),
			Slug:    fmt.Sprintf("doc-%d", i),
			Content: "content",
		}
		if err := repo.docs.Create(context.Background(), nil, doc); err != nil {
			t.Fatalf("seed doc %d: %v", i, err)
		}
	}
	service := &graphService{
		repo:      repo,
		logger:    testLogger(t),
		validator: validator.New(),
	}
	return service, repo
}

func TestGraphService_ValidateSelfReference(t *testing.T) {
	service, _ := newGraphFixture(t, 3)

	if err := service.ValidateSelfReference(1, []uint{2, 3}); err != nil {
		t.Errorf("expected no error, got %v", err)
	}

	err := service.ValidateSelfReference(1, []uint{2, 1})
	var selfRef *SelfReferenceError
	if !errors.As(err, &selfRef) {
		t.Fatalf("expected SelfReferenceError, got %v", err)
	}
	if selfRef.DocumentID != 1 {
		t.Errorf("DocumentID = %d, want 1", selfRef.DocumentID)
	}
}

func TestGraphService_UpdateDocumentSections(t *testing.T) {
	ctx := context.Background()

	t.Run("accepts a simple section list", func(t *testing.T) {
		service, repo := newGraphFixture(t, 3)

		resp, err := service.UpdateDocumentSections(ctx, 1, &UpdateSectionsRequest{
			SectionIDs:      []uint{2, 3},
			ExpectedVersion: 1,
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(resp.SectionIDs) != 2 {
			t.Errorf("SectionIDs = %v, want [2 3]", resp.SectionIDs)
		}
		if len(resp.MutualReferences) != 0 {
			t.Errorf("MutualReferences = %v, want none", resp.MutualReferences)
		}
		if resp.Documentation.Version != 2 {
			t.Errorf("Version = %d, want 2", resp.Documentation.Version)
		}

		stored, _ := repo.docs.GetSectionIDs(ctx, nil, 1)
		if len(stored) != 2 || stored[0] != 2 || stored[1] != 3 {
			t.Errorf("stored edges = %v, want [2 3]", stored)
		}
	})

	t.Run("accepts and reports a mutual reference", func(t *testing.T) {
		service, _ := newGraphFixture(t, 2)

		// Doc 1 already lists doc 2; doc 2 now lists doc 1 back.
		if _, err := service.UpdateDocumentSections(ctx, 1, &UpdateSectionsRequest{
			SectionIDs:      []uint{2},
			ExpectedVersion: 1,
		}); err != nil {
			t.Fatalf("first update: %v", err)
		}

		resp, err := service.UpdateDocumentSections(ctx, 2, &UpdateSectionsRequest{
			SectionIDs:      []uint{1},
			ExpectedVersion: 1,
		})
		if err != nil {
			t.Fatalf("mutual reference should be accepted, got %v", err)
		}
		if len(resp.MutualReferences) != 1 || resp.MutualReferences[0] != 1 {
			t.Errorf("MutualReferences = %v, want [1]", resp.MutualReferences)
		}
	})

	t.Run("rejects a self reference", func(t *testing.T) {
		service, _ := newGraphFixture(t, 2)

		_, err := service.UpdateDocumentSections(ctx, 1, &UpdateSectionsRequest{
			SectionIDs:      []uint{1, 2},
			ExpectedVersion: 1,
		})
		var selfRef *SelfReferenceError
		if !errors.As(err, &selfRef) {
			t.Fatalf("expected SelfReferenceError, got %v", err)
		}
	})

	t.Run("rejects a multi-hop cycle with its path", func(t *testing.T) {
		service, repo := newGraphFixture(t, 3)

		// Existing edges: 1 -> 2 -> 3. Listing 1 under 3 closes the loop.
		repo.docs.edges[1] = []uint{2}
		repo.docs.edges[2] = []uint{3}

		_, err := service.UpdateDocumentSections(ctx, 3, &UpdateSectionsRequest{
			SectionIDs:      []uint{1},
			ExpectedVersion: 1,
		})
		var cycle *CycleError
		if !errors.As(err, &cycle) {
			t.Fatalf("expected CycleError, got %v", err)
		}
		if cycle.DocumentID != 3 {
			t.Errorf("DocumentID = %d, want 3", cycle.DocumentID)
		}
		if len(cycle.Path) != 3 || cycle.Path[0] != 1 || cycle.Path[2] != 3 {
			t.Errorf("Path = %v, want [1 2 3]", cycle.Path)
		}
	})

	t.Run("rejects a stale version", func(t *testing.T) {
		service, _ := newGraphFixture(t, 2)

		if _, err := service.UpdateDocumentSections(ctx, 1, &UpdateSectionsRequest{
			SectionIDs:      []uint{2},
			ExpectedVersion: 1,
		}); err != nil {
			t.Fatalf("first update: %v", err)
		}

		// A second editor still holding version 1 loses.
		_, err := service.UpdateDocumentSections(ctx, 1, &UpdateSectionsRequest{
			SectionIDs:      []uint{},
			ExpectedVersion: 1,
		})
		if !errors.Is(err, ErrVersionConflict) {
			t.Fatalf("expected ErrVersionConflict, got %v", err)
		}
	})

	t.Run("rejects unknown section references", func(t *testing.T) {
		service, _ := newGraphFixture(t, 2)

		_, err := service.UpdateDocumentSections(ctx, 1, &UpdateSectionsRequest{
			SectionIDs:      []uint{2, 99},
			ExpectedVersion: 1,
		})
		if !errors.Is(err, ErrDocumentationNotFound) {
			t.Fatalf("expected ErrDocumentationNotFound, got %v", err)
		}
	})

	t.Run("rejects duplicate section references", func(t *testing.T) {
		service, _ := newGraphFixture(t, 2)

		_, err := service.UpdateDocumentSections(ctx, 1, &UpdateSectionsRequest{
			SectionIDs:      []uint{2, 2},
			ExpectedVersion: 1,
		})
		var validationErrs validator.ValidationErrors
		if !errors.As(err, &validationErrs) {
			t.Fatalf("expected ValidationErrors, got %v", err)
		}
	})

	t.Run("missing document", func(t *testing.T) {
		service, _ := newGraphFixture(t, 1)

		_, err := service.UpdateDocumentSections(ctx, 42, &UpdateSectionsRequest{
			SectionIDs:      []uint{1},
			ExpectedVersion: 1,
		})
		if !errors.Is(err, ErrDocumentationNotFound) {
			t.Fatalf("expected ErrDocumentationNotFound, got %v", err)
		}
	})
}

func TestGraphService_GetSections(t *testing.T) {
	ctx := context.Background()
	service, repo := newGraphFixture(t, 3)
	repo.docs.edges[1] = []uint{3, 2}

	ids, err := service.GetSections(ctx, 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(ids) != 2 || ids[0] != 3 || ids[1] != 2 {
		t.Errorf("ids = %v, want [3 2]", ids)
	}

	if _, err := service.GetSections(ctx, 42); !errors.Is(err, ErrDocumentationNotFound) {
		t.Errorf("expected ErrDocumentationNotFound, got %v", err)
	}
}
