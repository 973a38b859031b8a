package services

import (
	"context"
	"fmt"
	"log/slog"

	"gorm.io/gorm"

	"github.com/course-platform/catalog-service/internal/repositories"
	"github.com/course-platform/catalog-service/internal/validator"
)

type graphService struct {
	repo      repositories.Repository
	db        *gorm.DB
	logger    *slog.Logger
	validator *validator.Validator
}

func NewGraphService(repo repositories.Repository, db *gorm.DB, logger *slog.Logger, validator *validator.Validator) GraphService {
	return &graphService{
		repo:      repo,
		db:        db,
		logger:    logger,
		validator: validator,
	}
}

// ValidateSelfReference rejects a document listing itself among its
// proposed sections.
func (s *graphService) ValidateSelfReference(docID uint, proposedSections []uint) error {
	for _, id := range proposedSections {
		if id == docID {
			return &SelfReferenceError{DocumentID: docID}
		}
	}
	return nil
}

func (s *graphService) ValidateNoCycle(ctx context.Context, docID uint, proposedSections []uint) error {
	return s.validateNoCycle(ctx, s.repo, docID, proposedSections)
}

func (s *graphService) FindMutualReferences(ctx context.Context, docID uint, proposedSections []uint) ([]uint, error) {
	return s.findMutualReferences(ctx, s.repo, docID, proposedSections)
}

func (s *graphService) GetSections(ctx context.Context, docID uint) ([]uint, error) {
	if _, err := s.repo.Documentation().GetByID(ctx, nil, docID); err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrDocumentationNotFound
		}
		return nil, fmt.Errorf("failed to get documentation: %w", err)
	}
	return s.repo.Documentation().GetSectionIDs(ctx, nil, docID)
}

func (s *graphService) UpdateDocumentSections(ctx context.Context, docID uint, req *UpdateSectionsRequest) (*DocumentationResponse, error) {
	s.logger.Info("Updating document sections", "document_id", docID, "section_count", len(req.SectionIDs))

	if err := s.ValidateSelfReference(docID, req.SectionIDs); err != nil {
		return nil, err
	}
	if errors := s.validator.GetBusinessValidator().ValidateSectionUpdate(docID, req); len(errors) > 0 {
		return nil, errors
	}

	var response *DocumentationResponse
	err := s.repo.WithTransaction(ctx, func(txRepo repositories.Repository) error {
		doc, err := txRepo.Documentation().GetByID(ctx, nil, docID)
		if err != nil {
			if repositories.IsNotFoundError(err) {
				return ErrDocumentationNotFound
			}
			return fmt.Errorf("failed to get documentation: %w", err)
		}

		// The version read when editing started must still be current.
		if doc.Version != req.ExpectedVersion {
			return ErrVersionConflict
		}

		allExist, err := txRepo.Documentation().ExistAllByID(ctx, nil, req.SectionIDs)
		if err != nil {
			return fmt.Errorf("failed to check section references: %w", err)
		}
		if !allExist {
			return fmt.Errorf("one or more section references: %w", ErrDocumentationNotFound)
		}

		// Cycle check runs inside the same transaction as the write, so
		// the validated snapshot is the committed one.
		if err := s.validateNoCycle(ctx, txRepo, docID, req.SectionIDs); err != nil {
			return err
		}

		mutual, err := s.findMutualReferences(ctx, txRepo, docID, req.SectionIDs)
		if err != nil {
			return fmt.Errorf("failed to check mutual references: %w", err)
		}
		if len(mutual) > 0 {
			s.logger.Warn("document sections contain mutual references",
				"document_id", docID,
				"mutual_references", mutual)
		}

		if err := txRepo.Documentation().ReplaceSections(ctx, nil, docID, req.SectionIDs); err != nil {
			return fmt.Errorf("failed to replace sections: %w", err)
		}

		if err := txRepo.Documentation().UpdateWithVersion(ctx, nil, doc, req.ExpectedVersion); err != nil {
			if repositories.IsNotFoundError(err) {
				return ErrVersionConflict
			}
			return fmt.Errorf("failed to update documentation version: %w", err)
		}

		response = &DocumentationResponse{
			Documentation:    doc,
			SectionIDs:       req.SectionIDs,
			MutualReferences: mutual,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Document sections updated", "document_id", docID, "version", response.Documentation.Version)
	return response, nil
}

// validateNoCycle walks from every proposed child following existing
// section edges; reaching the edited document again over two or more
// edges means the proposal would close a loop. A proposed child whose
// own sections list the edited document directly is a mutual
// reference, reported by findMutualReferences rather than rejected
// here. Depth is bounded by the total node count so a corrupted graph
// cannot hang the traversal.
func (s *graphService) validateNoCycle(ctx context.Context, repo repositories.Repository, docID uint, proposedSections []uint) error {
	total, err := repo.Documentation().Count(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to count documents: %w", err)
	}
	maxDepth := int(total)

	for _, child := range proposedSections {
		children, err := repo.Documentation().GetSectionIDs(ctx, nil, child)
		if err != nil {
			return fmt.Errorf("failed to read sections of document %d: %w", child, err)
		}
		visited := map[uint]bool{child: true}
		for _, next := range children {
			if next == docID {
				continue
			}
			path, found, err := s.findPathTo(ctx, repo, next, docID, maxDepth-1, []uint{child, next}, visited)
			if err != nil {
				return err
			}
			if found {
				return &CycleError{DocumentID: docID, Path: path}
			}
		}
	}
	return nil
}

// findPathTo does a depth-limited DFS from `from`, returning the path
// if `target` is reachable.
func (s *graphService) findPathTo(ctx context.Context, repo repositories.Repository, from, target uint, depthLeft int, path []uint, visited map[uint]bool) ([]uint, bool, error) {
	if from == target {
		return path, true, nil
	}
	if depthLeft <= 0 || visited[from] {
		return nil, false, nil
	}
	visited[from] = true

	children, err := repo.Documentation().GetSectionIDs(ctx, nil, from)
	if err != nil {
		return nil, false, fmt.Errorf("failed to read sections of document %d: %w", from, err)
	}

	for _, child := range children {
		found, ok, err := s.findPathTo(ctx, repo, child, target, depthLeft-1, append(path, child), visited)
		if err != nil || ok {
			return found, ok, err
		}
	}
	return nil, false, nil
}

// findMutualReferences returns proposed children whose own sections
// already contain the edited document. Advisory: mutual cross-linking
// is a valid navigation pattern, only risky for runaway UI recursion.
func (s *graphService) findMutualReferences(ctx context.Context, repo repositories.Repository, docID uint, proposedSections []uint) ([]uint, error) {
	var mutual []uint
	for _, child := range proposedSections {
		children, err := repo.Documentation().GetSectionIDs(ctx, nil, child)
		if err != nil {
			return nil, fmt.Errorf("failed to read sections of document %d: %w", child, err)
		}
		for _, id := range children {
			if id == docID {
				mutual = append(mutual, child)
				break
			}
		}
	}
	return mutual, nil
}
