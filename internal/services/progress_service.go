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

type progressService struct {
	repo           repositories.Repository
	db             *gorm.DB
	logger         *slog.Logger
	validator      *validator.Validator
	eventPublisher events.EventPublisher
}

func NewProgressService(repo repositories.Repository, db *gorm.DB, logger *slog.Logger, validator *validator.Validator, publisher events.EventPublisher) ProgressService {
	return &progressService{
		repo:           repo,
		db:             db,
		logger:         logger,
		validator:      validator,
		eventPublisher: publisher,
	}
}

// ===== ENROLLMENT LIFECYCLE =====

func (s *progressService) Enroll(ctx context.Context, userID string, req *EnrollRequest) (*models.Enrollment, error) {
	s.logger.Info("Enrolling user", "user_id", userID, "course_id", req.CourseID)

	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	course, err := s.repo.Course().GetByID(ctx, nil, req.CourseID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrCourseNotFound
		}
		return nil, fmt.Errorf("failed to get course: %w", err)
	}
	if !course.IsPublished {
		return nil, NewPermissionError(userID, "course", "enroll", "course is not published")
	}

	// Idempotent per (user, course).
	existing, err := s.repo.Enrollment().GetByUserAndCourse(ctx, nil, userID, req.CourseID)
	if err == nil {
		return existing, nil
	}
	if !repositories.IsNotFoundError(err) {
		return nil, fmt.Errorf("failed to look up enrollment: %w", err)
	}

	enrollment := &models.Enrollment{
		UserID:     userID,
		CourseID:   req.CourseID,
		Status:     models.EnrollmentActive,
		EnrolledAt: time.Now().UTC(),
	}

	err = s.repo.WithTransaction(ctx, func(txRepo repositories.Repository) error {
		if err := txRepo.Enrollment().Create(ctx, nil, enrollment); err != nil {
			return err
		}
		return txRepo.Course().IncrementStudentCount(ctx, nil, req.CourseID, 1)
	})
	if err != nil {
		if repositories.IsDuplicateKeyError(err) {
			winner, rerr := s.repo.Enrollment().GetByUserAndCourse(ctx, nil, userID, req.CourseID)
			if rerr != nil {
				return nil, fmt.Errorf("failed to re-read enrollment after conflict: %w", rerr)
			}
			return winner, nil
		}
		return nil, fmt.Errorf("failed to create enrollment: %w", err)
	}

	s.publishEnrollmentEvent(ctx, events.EventEnrollmentCreated, enrollment)
	s.logger.Info("User enrolled", "enrollment_id", enrollment.ID, "user_id", userID, "course_id", req.CourseID)
	return enrollment, nil
}

func (s *progressService) PauseEnrollment(ctx context.Context, userID string, courseID uint) (*models.Enrollment, error) {
	return s.applyEnrollmentEvent(ctx, userID, courseID, models.EnrollmentEventPause)
}

func (s *progressService) CancelEnrollment(ctx context.Context, userID string, courseID uint) (*models.Enrollment, error) {
	enrollment, err := s.applyEnrollmentEvent(ctx, userID, courseID, models.EnrollmentEventCancel)
	if err != nil {
		return nil, err
	}
	s.publishEnrollmentEvent(ctx, events.EventEnrollmentCancelled, enrollment)
	return enrollment, nil
}

func (s *progressService) ReactivateEnrollment(ctx context.Context, userID string, courseID uint) (*models.Enrollment, error) {
	return s.applyEnrollmentEvent(ctx, userID, courseID, models.EnrollmentEventReactivate)
}

func (s *progressService) applyEnrollmentEvent(ctx context.Context, userID string, courseID uint, event models.EnrollmentEvent) (*models.Enrollment, error) {
	enrollment, err := s.repo.Enrollment().GetByUserAndCourse(ctx, nil, userID, courseID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrEnrollmentNotFound
		}
		return nil, fmt.Errorf("failed to get enrollment: %w", err)
	}

	next, terr := models.NextEnrollmentStatus(enrollment.Status, event)
	if terr != nil {
		return nil, NewInvalidEnrollmentTransition(enrollment.Status, event)
	}

	rows, err := s.repo.Enrollment().UpdateStatusGuarded(ctx, nil, enrollment.ID, enrollment.Status, next)
	if err != nil {
		return nil, fmt.Errorf("failed to update enrollment status: %w", err)
	}
	if rows == 0 {
		// Lost a race with another lifecycle change; report against the
		// current state.
		current, rerr := s.repo.Enrollment().GetByID(ctx, nil, enrollment.ID)
		if rerr != nil {
			return nil, fmt.Errorf("failed to re-read enrollment after guard miss: %w", rerr)
		}
		if current.Status == next {
			return current, nil
		}
		return nil, NewInvalidEnrollmentTransition(current.Status, event)
	}

	enrollment.Status = next
	s.logger.Info("Enrollment status changed",
		"enrollment_id", enrollment.ID,
		"user_id", userID,
		"course_id", courseID,
		"status", next)
	return enrollment, nil
}

// ===== PROGRESS =====

func (s *progressService) MarkSectionComplete(ctx context.Context, userID string, courseID uint, req *MarkSectionCompleteRequest) (*ProgressResponse, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	section, err := s.repo.Course().GetSectionByID(ctx, nil, req.SectionID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrSectionNotFound
		}
		return nil, fmt.Errorf("failed to get course section: %w", err)
	}
	if section.CourseID != courseID {
		return nil, ErrSectionNotFound
	}

	var response *ProgressResponse
	err = s.repo.WithTransaction(ctx, func(txRepo repositories.Repository) error {
		totalSections, err := txRepo.Course().CountSections(ctx, nil, courseID)
		if err != nil {
			return fmt.Errorf("failed to count course sections: %w", err)
		}

		progress, err := txRepo.Progress().GetByUserAndCourse(ctx, nil, userID, courseID)
		if err != nil {
			if !repositories.IsNotFoundError(err) {
				return fmt.Errorf("failed to get progress: %w", err)
			}
			progress = &models.CourseProgress{
				UserID:   userID,
				CourseID: courseID,
			}
			if err := progress.SetSectionIDs(nil); err != nil {
				return err
			}
			if err := txRepo.Progress().Create(ctx, nil, progress); err != nil {
				if !repositories.IsDuplicateKeyError(err) {
					return fmt.Errorf("failed to create progress: %w", err)
				}
				progress, err = txRepo.Progress().GetByUserAndCourse(ctx, nil, userID, courseID)
				if err != nil {
					return fmt.Errorf("failed to re-read progress after conflict: %w", err)
				}
			}
		}

		completed, err := progress.SectionIDs()
		if err != nil {
			return fmt.Errorf("failed to decode completed sections: %w", err)
		}

		// Set semantics: re-marking a completed section is a no-op.
		already := false
		for _, id := range completed {
			if id == req.SectionID {
				already = true
				break
			}
		}
		if !already {
			completed = append(completed, req.SectionID)
		}

		pct := models.ProgressPercent(len(completed), totalSections)
		// Progress never decreases, even if the section set shrinks
		// under it.
		if pct < progress.ProgressPercentage {
			pct = progress.ProgressPercentage
		}

		if err := progress.SetSectionIDs(completed); err != nil {
			return err
		}
		progress.ProgressPercentage = pct
		progress.LastAccessedAt = time.Now().UTC()

		if err := txRepo.Progress().Update(ctx, nil, progress); err != nil {
			return fmt.Errorf("failed to update progress: %w", err)
		}

		courseCompleted := false
		if pct >= 100 {
			courseCompleted, err = s.completeEnrollment(ctx, txRepo, userID, courseID)
			if err != nil {
				return err
			}
		}

		response = &ProgressResponse{
			CourseProgress:      progress,
			CompletedSectionIDs: completed,
			CourseCompleted:     courseCompleted,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Section marked complete",
		"user_id", userID,
		"course_id", courseID,
		"section_id", req.SectionID,
		"progress", response.CourseProgress.ProgressPercentage)

	s.publishProgressEvent(ctx, response.CourseProgress)
	return response, nil
}

// completeEnrollment moves an ACTIVE enrollment to COMPLETED when
// progress reaches 100%. PAUSED and CANCELLED enrollments stay put;
// reactivation is an explicit call, never a side effect of progress.
func (s *progressService) completeEnrollment(ctx context.Context, repo repositories.Repository, userID string, courseID uint) (bool, error) {
	enrollment, err := repo.Enrollment().GetByUserAndCourse(ctx, nil, userID, courseID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return false, nil
		}
		return false, fmt.Errorf("failed to get enrollment: %w", err)
	}

	if enrollment.Status != models.EnrollmentActive {
		return enrollment.Status == models.EnrollmentCompleted, nil
	}

	rows, err := repo.Enrollment().UpdateStatusGuarded(ctx, nil, enrollment.ID, models.EnrollmentActive, models.EnrollmentCompleted)
	if err != nil {
		return false, fmt.Errorf("failed to complete enrollment: %w", err)
	}
	if rows == 0 {
		return false, nil
	}

	now := time.Now().UTC()
	enrollment.Status = models.EnrollmentCompleted
	enrollment.CompletedAt = &now
	if err := repo.Enrollment().Update(ctx, nil, enrollment); err != nil {
		return false, fmt.Errorf("failed to set completion time: %w", err)
	}

	s.publishEnrollmentEvent(ctx, events.EventEnrollmentCompleted, enrollment)
	s.logger.Info("Enrollment completed", "enrollment_id", enrollment.ID, "user_id", userID, "course_id", courseID)
	return true, nil
}

func (s *progressService) GetProgress(ctx context.Context, userID string, courseID uint) (*ProgressResponse, error) {
	progress, err := s.repo.Progress().GetByUserAndCourse(ctx, nil, userID, courseID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrProgressNotFound
		}
		return nil, fmt.Errorf("failed to get progress: %w", err)
	}

	completed, err := progress.SectionIDs()
	if err != nil {
		return nil, fmt.Errorf("failed to decode completed sections: %w", err)
	}

	return &ProgressResponse{
		CourseProgress:      progress,
		CompletedSectionIDs: completed,
		CourseCompleted:     progress.ProgressPercentage >= 100,
	}, nil
}

// ===== REVIEWS =====

func (s *progressService) RecordReview(ctx context.Context, userID string, req *CreateReviewRequest) (*models.CourseReview, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}
	if req.Rating < 1 || req.Rating > 5 {
		return nil, &OutOfRangeError{Field: "rating", Value: req.Rating, Min: 1, Max: 5}
	}

	if _, err := s.repo.Course().GetByID(ctx, nil, req.CourseID); err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrCourseNotFound
		}
		return nil, fmt.Errorf("failed to get course: %w", err)
	}

	// Reviews are create-once per (user, course).
	if _, err := s.repo.Review().GetByUserAndCourse(ctx, nil, userID, req.CourseID); err == nil {
		return nil, &DuplicateReviewError{UserID: userID, CourseID: req.CourseID}
	} else if !repositories.IsNotFoundError(err) {
		return nil, fmt.Errorf("failed to look up review: %w", err)
	}

	review := &models.CourseReview{
		UserID:   userID,
		CourseID: req.CourseID,
		Rating:   req.Rating,
		Comment:  req.Comment,
	}

	err := s.repo.WithTransaction(ctx, func(txRepo repositories.Repository) error {
		if err := txRepo.Review().Create(ctx, nil, review); err != nil {
			if repositories.IsDuplicateKeyError(err) {
				return &DuplicateReviewError{UserID: userID, CourseID: req.CourseID}
			}
			return fmt.Errorf("failed to create review: %w", err)
		}

		avg, _, err := txRepo.Review().AverageRating(ctx, nil, req.CourseID)
		if err != nil {
			return fmt.Errorf("failed to compute average rating: %w", err)
		}
		if err := txRepo.Course().UpdateRating(ctx, nil, req.CourseID, avg); err != nil {
			return fmt.Errorf("failed to update course rating: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Review recorded", "review_id", review.ID, "user_id", userID, "course_id", req.CourseID, "rating", req.Rating)
	s.publishReviewEvent(ctx, review)
	return review, nil
}

// ===== EVENTS =====

func (s *progressService) publishEnrollmentEvent(ctx context.Context, eventType string, enrollment *models.Enrollment) {
	if s.eventPublisher == nil {
		return
	}
	event := events.NewEvent(eventType, enrollment)
	if err := s.eventPublisher.Publish(ctx, events.TopicEnrollments, event); err != nil {
		s.logger.Error("Failed to publish enrollment event", "enrollment_id", enrollment.ID, "event_type", eventType, "error", err)
	}
}

func (s *progressService) publishProgressEvent(ctx context.Context, progress *models.CourseProgress) {
	if s.eventPublisher == nil {
		return
	}
	event := events.NewEvent(events.EventProgressUpdated, progress)
	if err := s.eventPublisher.Publish(ctx, events.TopicProgress, event); err != nil {
		s.logger.Error("Failed to publish progress event", "progress_id", progress.ID, "error", err)
	}
}

func (s *progressService) publishReviewEvent(ctx context.Context, review *models.CourseReview) {
	if s.eventPublisher == nil {
		return
	}
	event := events.NewEvent(events.EventReviewCreated, review)
	if err := s.eventPublisher.Publish(ctx, events.TopicProgress, event); err != nil {
		s.logger.Error("Failed to publish review event", "review_id", review.ID, "error", err)
	}
}
