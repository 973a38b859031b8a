package services

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/course-platform/catalog-service/internal/events"
	"github.com/course-platform/catalog-service/internal/models"
	"github.com/course-platform/catalog-service/internal/validator"
)

func newProgressFixture(t *testing.T) (*progressService, *mockRepository, *events.MockEventPublisher) {
	t.Helper()
	repo := newMockRepository()
	publisher := events.NewMockEventPublisher(testLogger(t))
	service := &progressService{
		repo:           repo,
		logger:         testLogger(t),
		validator:      validator.New(),
		eventPublisher: publisher,
	}
	return service, repo, publisher
}

// seedCourse creates a published course with the given number of sections
// and returns the course and the section ids in order.
func seedCourse(t *testing.T, repo *mockRepository, sectionCount int) (*models.Course, []uint) {
	t.Helper()
	ctx := context.Background()

	course := &models.Course{
		Title:       "Go from Scratch",
		IsPublished: true,
	}
	if err := repo.courses.Create(ctx, nil, course); err != nil {
		t.Fatalf("seed course: %v", err)
	}

	sectionIDs := make([]uint, 0, sectionCount)
	for i := 0; i < sectionCount; i++ {
		section := &models.CourseSection{
			CourseID: course.ID,
			Title:    fmt.Sprintf("Section %d", i+1),
			Content:  "content",
			Order:    i,
		}
		if err := repo.courses.CreateSection(ctx, nil, section); err != nil {
			t.Fatalf("seed section %d: %v", i+1, err)
		}
		sectionIDs = append(sectionIDs, section.ID)
	}
	return course, sectionIDs
}

func TestProgressService_Enroll(t *testing.T) {
	ctx := context.Background()

	t.Run("enrolls and increments the student count", func(t *testing.T) {
		service, repo, publisher := newProgressFixture(t)
		course, _ := seedCourse(t, repo, 2)

		enrollment, err := service.Enroll(ctx, "user-1", &EnrollRequest{CourseID: course.ID})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if enrollment.Status != models.EnrollmentActive {
			t.Errorf("Status = %q, want ACTIVE", enrollment.Status)
		}

		stored, err := repo.courses.GetByID(ctx, nil, course.ID)
		if err != nil {
			t.Fatalf("re-read course: %v", err)
		}
		if stored.StudentCount != 1 {
			t.Errorf("StudentCount = %d, want 1", stored.StudentCount)
		}

		published := publisher.GetPublishedEvents()
		if len(published) != 1 || published[0].Type != events.EventEnrollmentCreated {
			t.Errorf("expected one %q event, got %+v", events.EventEnrollmentCreated, published)
		}
	})

	t.Run("repeat enrollment is idempotent", func(t *testing.T) {
		service, repo, _ := newProgressFixture(t)
		course, _ := seedCourse(t, repo, 2)

		first, err := service.Enroll(ctx, "user-1", &EnrollRequest{CourseID: course.ID})
		if err != nil {
			t.Fatalf("first enroll: %v", err)
		}
		second, err := service.Enroll(ctx, "user-1", &EnrollRequest{CourseID: course.ID})
		if err != nil {
			t.Fatalf("second enroll: %v", err)
		}
		if first.ID != second.ID {
			t.Errorf("second enroll created a new row: %d != %d", second.ID, first.ID)
		}

		stored, _ := repo.courses.GetByID(ctx, nil, course.ID)
		if stored.StudentCount != 1 {
			t.Errorf("StudentCount = %d, want 1 after repeat enroll", stored.StudentCount)
		}
	})

	t.Run("unpublished course", func(t *testing.T) {
		service, repo, _ := newProgressFixture(t)
		course := &models.Course{Title: "Draft", IsPublished: false}
		if err := repo.courses.Create(ctx, nil, course); err != nil {
			t.Fatalf("seed course: %v", err)
		}

		_, err := service.Enroll(ctx, "user-1", &EnrollRequest{CourseID: course.ID})
		var perm *PermissionError
		if !errors.As(err, &perm) {
			t.Fatalf("expected PermissionError, got %v", err)
		}
	})

	t.Run("unknown course", func(t *testing.T) {
		service, _, _ := newProgressFixture(t)
		if _, err := service.Enroll(ctx, "user-1", &EnrollRequest{CourseID: 99}); !errors.Is(err, ErrCourseNotFound) {
			t.Fatalf("expected ErrCourseNotFound, got %v", err)
		}
	})
}

func TestProgressService_EnrollmentLifecycle(t *testing.T) {
	ctx := context.Background()

	t.Run("pause and reactivate", func(t *testing.T) {
		service, repo, _ := newProgressFixture(t)
		course, _ := seedCourse(t, repo, 2)
		if _, err := service.Enroll(ctx, "user-1", &EnrollRequest{CourseID: course.ID}); err != nil {
			t.Fatalf("enroll: %v", err)
		}

		paused, err := service.PauseEnrollment(ctx, "user-1", course.ID)
		if err != nil {
			t.Fatalf("pause: %v", err)
		}
		if paused.Status != models.EnrollmentPaused {
			t.Errorf("Status = %q, want PAUSED", paused.Status)
		}

		active, err := service.ReactivateEnrollment(ctx, "user-1", course.ID)
		if err != nil {
			t.Fatalf("reactivate: %v", err)
		}
		if active.Status != models.EnrollmentActive {
			t.Errorf("Status = %q, want ACTIVE", active.Status)
		}
	})

	t.Run("cancel publishes and allows reactivation", func(t *testing.T) {
		service, repo, publisher := newProgressFixture(t)
		course, _ := seedCourse(t, repo, 2)
		if _, err := service.Enroll(ctx, "user-1", &EnrollRequest{CourseID: course.ID}); err != nil {
			t.Fatalf("enroll: %v", err)
		}
		publisher.ClearEvents()

		cancelled, err := service.CancelEnrollment(ctx, "user-1", course.ID)
		if err != nil {
			t.Fatalf("cancel: %v", err)
		}
		if cancelled.Status != models.EnrollmentCancelled {
			t.Errorf("Status = %q, want CANCELLED", cancelled.Status)
		}
		published := publisher.GetPublishedEvents()
		if len(published) != 1 || published[0].Type != events.EventEnrollmentCancelled {
			t.Errorf("expected one %q event, got %+v", events.EventEnrollmentCancelled, published)
		}

		if _, err := service.ReactivateEnrollment(ctx, "user-1", course.ID); err != nil {
			t.Errorf("reactivate after cancel: %v", err)
		}
	})

	t.Run("invalid transitions", func(t *testing.T) {
		service, repo, _ := newProgressFixture(t)
		course, _ := seedCourse(t, repo, 2)
		if _, err := service.Enroll(ctx, "user-1", &EnrollRequest{CourseID: course.ID}); err != nil {
			t.Fatalf("enroll: %v", err)
		}

		// Reactivating an ACTIVE enrollment has no defined transition.
		_, err := service.ReactivateEnrollment(ctx, "user-1", course.ID)
		var transition *InvalidTransitionError
		if !errors.As(err, &transition) {
			t.Fatalf("expected InvalidTransitionError, got %v", err)
		}

		// Pausing a CANCELLED enrollment is also rejected.
		if _, err := service.CancelEnrollment(ctx, "user-1", course.ID); err != nil {
			t.Fatalf("cancel: %v", err)
		}
		if _, err := service.PauseEnrollment(ctx, "user-1", course.ID); !errors.As(err, &transition) {
			t.Fatalf("expected InvalidTransitionError, got %v", err)
		}
	})

	t.Run("missing enrollment", func(t *testing.T) {
		service, repo, _ := newProgressFixture(t)
		course, _ := seedCourse(t, repo, 2)
		if _, err := service.PauseEnrollment(ctx, "user-1", course.ID); !errors.Is(err, ErrEnrollmentNotFound) {
			t.Fatalf("expected ErrEnrollmentNotFound, got %v", err)
		}
	})
}

func TestProgressService_MarkSectionComplete(t *testing.T) {
	ctx := context.Background()

	t.Run("progress climbs to completion", func(t *testing.T) {
		service, repo, publisher := newProgressFixture(t)
		course, sections := seedCourse(t, repo, 4)
		if _, err := service.Enroll(ctx, "user-1", &EnrollRequest{CourseID: course.ID}); err != nil {
			t.Fatalf("enroll: %v", err)
		}
		publisher.ClearEvents()

		wantPct := []int{25, 50, 75, 100}
		for i, sectionID := range sections {
			resp, err := service.MarkSectionComplete(ctx, "user-1", course.ID, &MarkSectionCompleteRequest{SectionID: sectionID})
			if err != nil {
				t.Fatalf("mark section %d: %v", i+1, err)
			}
			if resp.ProgressPercentage != wantPct[i] {
				t.Errorf("after section %d: ProgressPercentage = %d, want %d", i+1, resp.ProgressPercentage, wantPct[i])
			}
			if got := len(resp.CompletedSectionIDs); got != i+1 {
				t.Errorf("after section %d: %d completed sections, want %d", i+1, got, i+1)
			}
			if resp.CourseCompleted != (i == 3) {
				t.Errorf("after section %d: CourseCompleted = %v", i+1, resp.CourseCompleted)
			}
		}

		enrollment, err := repo.enrollments.GetByUserAndCourse(ctx, nil, "user-1", course.ID)
		if err != nil {
			t.Fatalf("re-read enrollment: %v", err)
		}
		if enrollment.Status != models.EnrollmentCompleted {
			t.Errorf("enrollment Status = %q, want COMPLETED", enrollment.Status)
		}
		if enrollment.CompletedAt == nil {
			t.Error("CompletedAt not set")
		}

		var sawCompleted bool
		for _, event := range publisher.GetPublishedEvents() {
			if event.Type == events.EventEnrollmentCompleted {
				sawCompleted = true
			}
		}
		if !sawCompleted {
			t.Errorf("no %q event published", events.EventEnrollmentCompleted)
		}
	})

	t.Run("re-marking a section is a no-op", func(t *testing.T) {
		service, repo, _ := newProgressFixture(t)
		course, sections := seedCourse(t, repo, 4)
		if _, err := service.Enroll(ctx, "user-1", &EnrollRequest{CourseID: course.ID}); err != nil {
			t.Fatalf("enroll: %v", err)
		}

		for i := 0; i < 2; i++ {
			resp, err := service.MarkSectionComplete(ctx, "user-1", course.ID, &MarkSectionCompleteRequest{SectionID: sections[0]})
			if err != nil {
				t.Fatalf("mark attempt %d: %v", i+1, err)
			}
			if resp.ProgressPercentage != 25 {
				t.Errorf("attempt %d: ProgressPercentage = %d, want 25", i+1, resp.ProgressPercentage)
			}
			if len(resp.CompletedSectionIDs) != 1 {
				t.Errorf("attempt %d: %d completed sections, want 1", i+1, len(resp.CompletedSectionIDs))
			}
		}
	})

	t.Run("paused enrollment stays paused at full progress", func(t *testing.T) {
		service, repo, _ := newProgressFixture(t)
		course, sections := seedCourse(t, repo, 1)
		if _, err := service.Enroll(ctx, "user-1", &EnrollRequest{CourseID: course.ID}); err != nil {
			t.Fatalf("enroll: %v", err)
		}
		if _, err := service.PauseEnrollment(ctx, "user-1", course.ID); err != nil {
			t.Fatalf("pause: %v", err)
		}

		resp, err := service.MarkSectionComplete(ctx, "user-1", course.ID, &MarkSectionCompleteRequest{SectionID: sections[0]})
		if err != nil {
			t.Fatalf("mark: %v", err)
		}
		if resp.ProgressPercentage != 100 {
			t.Errorf("ProgressPercentage = %d, want 100", resp.ProgressPercentage)
		}
		if resp.CourseCompleted {
			t.Error("paused enrollment must not auto-complete")
		}

		enrollment, _ := repo.enrollments.GetByUserAndCourse(ctx, nil, "user-1", course.ID)
		if enrollment.Status != models.EnrollmentPaused {
			t.Errorf("enrollment Status = %q, want PAUSED", enrollment.Status)
		}
	})

	t.Run("section from another course", func(t *testing.T) {
		service, repo, _ := newProgressFixture(t)
		course, _ := seedCourse(t, repo, 2)

		other := &models.Course{Title: "Other", IsPublished: true}
		if err := repo.courses.Create(ctx, nil, other); err != nil {
			t.Fatalf("seed other course: %v", err)
		}
		section := &models.CourseSection{CourseID: other.ID, Title: "Intro", Content: "x"}
		if err := repo.courses.CreateSection(ctx, nil, section); err != nil {
			t.Fatalf("seed other section: %v", err)
		}

		_, err := service.MarkSectionComplete(ctx, "user-1", course.ID, &MarkSectionCompleteRequest{SectionID: section.ID})
		if !errors.Is(err, ErrSectionNotFound) {
			t.Fatalf("expected ErrSectionNotFound, got %v", err)
		}
	})
}

func TestProgressService_GetProgress(t *testing.T) {
	ctx := context.Background()

	t.Run("returns completed sections and percentage", func(t *testing.T) {
		service, repo, _ := newProgressFixture(t)
		course, sections := seedCourse(t, repo, 4)
		if _, err := service.Enroll(ctx, "user-1", &EnrollRequest{CourseID: course.ID}); err != nil {
			t.Fatalf("enroll: %v", err)
		}
		if _, err := service.MarkSectionComplete(ctx, "user-1", course.ID, &MarkSectionCompleteRequest{SectionID: sections[0]}); err != nil {
			t.Fatalf("mark: %v", err)
		}

		resp, err := service.GetProgress(ctx, "user-1", course.ID)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if resp.ProgressPercentage != 25 {
			t.Errorf("ProgressPercentage = %d, want 25", resp.ProgressPercentage)
		}
		if len(resp.CompletedSectionIDs) != 1 || resp.CompletedSectionIDs[0] != sections[0] {
			t.Errorf("CompletedSectionIDs = %v, want [%d]", resp.CompletedSectionIDs, sections[0])
		}
		if resp.CourseCompleted {
			t.Error("CourseCompleted = true at 25%")
		}
	})

	t.Run("no progress yet", func(t *testing.T) {
		service, repo, _ := newProgressFixture(t)
		course, _ := seedCourse(t, repo, 2)
		if _, err := service.GetProgress(ctx, "user-1", course.ID); !errors.Is(err, ErrProgressNotFound) {
			t.Fatalf("expected ErrProgressNotFound, got %v", err)
		}
	})
}

func TestProgressService_RecordReview(t *testing.T) {
	ctx := context.Background()
	comment := "solid material"

	t.Run("records a review and updates the course rating", func(t *testing.T) {
		service, repo, publisher := newProgressFixture(t)
		course, _ := seedCourse(t, repo, 2)

		review, err := service.RecordReview(ctx, "user-1", &CreateReviewRequest{
			CourseID: course.ID,
			Rating:   4,
			Comment:  &comment,
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if review.Rating != 4 {
			t.Errorf("Rating = %d, want 4", review.Rating)
		}

		if _, err := service.RecordReview(ctx, "user-2", &CreateReviewRequest{CourseID: course.ID, Rating: 5}); err != nil {
			t.Fatalf("second reviewer: %v", err)
		}

		stored, _ := repo.courses.GetByID(ctx, nil, course.ID)
		if stored.Rating != 4.5 {
			t.Errorf("course Rating = %v, want 4.5", stored.Rating)
		}

		var sawReview bool
		for _, event := range publisher.GetPublishedEvents() {
			if event.Type == events.EventReviewCreated {
				sawReview = true
			}
		}
		if !sawReview {
			t.Errorf("no %q event published", events.EventReviewCreated)
		}
	})

	t.Run("one review per user and course", func(t *testing.T) {
		service, repo, _ := newProgressFixture(t)
		course, _ := seedCourse(t, repo, 2)

		if _, err := service.RecordReview(ctx, "user-1", &CreateReviewRequest{CourseID: course.ID, Rating: 3}); err != nil {
			t.Fatalf("first review: %v", err)
		}
		_, err := service.RecordReview(ctx, "user-1", &CreateReviewRequest{CourseID: course.ID, Rating: 5})
		var dup *DuplicateReviewError
		if !errors.As(err, &dup) {
			t.Fatalf("expected DuplicateReviewError, got %v", err)
		}
	})

	t.Run("rating outside 1..5", func(t *testing.T) {
		service, repo, _ := newProgressFixture(t)
		course, _ := seedCourse(t, repo, 2)

		if _, err := service.RecordReview(ctx, "user-1", &CreateReviewRequest{CourseID: course.ID, Rating: 6}); err == nil {
			t.Fatal("expected a validation error for rating 6")
		}
	})

	t.Run("unknown course", func(t *testing.T) {
		service, _, _ := newProgressFixture(t)
		if _, err := service.RecordReview(ctx, "user-1", &CreateReviewRequest{CourseID: 99, Rating: 4}); !errors.Is(err, ErrCourseNotFound) {
			t.Fatalf("expected ErrCourseNotFound, got %v", err)
		}
	})
}
