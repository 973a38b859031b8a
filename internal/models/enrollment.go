package models

import (
	"fmt"
	"time"
)

type EnrollmentStatus string

const (
	EnrollmentActive    EnrollmentStatus = "ACTIVE"
	EnrollmentCompleted EnrollmentStatus = "COMPLETED"
	EnrollmentCancelled EnrollmentStatus = "CANCELLED"
	EnrollmentPaused    EnrollmentStatus = "PAUSED"
)

// EnrollmentEvent is a lifecycle action applied to an enrollment.
type EnrollmentEvent string

const (
	EnrollmentEventComplete   EnrollmentEvent = "complete"
	EnrollmentEventPause      EnrollmentEvent = "pause"
	EnrollmentEventCancel     EnrollmentEvent = "cancel"
	EnrollmentEventReactivate EnrollmentEvent = "reactivate"
)

type Enrollment struct {
	ID       uint             `json:"id" gorm:"primaryKey"`
	UserID   string           `json:"user_id" gorm:"not null;index;size:255;uniqueIndex:idx_user_course_enrollment"`
	CourseID uint             `json:"course_id" gorm:"not null;index;uniqueIndex:idx_user_course_enrollment"`
	Status   EnrollmentStatus `json:"status" gorm:"default:ACTIVE;index"`

	EnrolledAt  time.Time  `json:"enrolled_at"`
	CompletedAt *time.Time `json:"completed_at"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Relations
	User   User   `json:"user,omitempty" gorm:"foreignKey:UserID"`
	Course Course `json:"course,omitempty" gorm:"foreignKey:CourseID"`
}

func (Enrollment) TableName() string {
	return "enrollments"
}

var enrollmentTransitions = map[EnrollmentStatus]map[EnrollmentEvent]EnrollmentStatus{
	EnrollmentActive: {
		EnrollmentEventComplete: EnrollmentCompleted,
		EnrollmentEventPause:    EnrollmentPaused,
		EnrollmentEventCancel:   EnrollmentCancelled,
	},
	EnrollmentPaused: {
		EnrollmentEventReactivate: EnrollmentActive,
		EnrollmentEventCancel:     EnrollmentCancelled,
	},
	EnrollmentCancelled: {
		EnrollmentEventReactivate: EnrollmentActive,
	},
	// COMPLETED is terminal; re-enrollment is a new record concern,
	// not a status transition.
}

// NextEnrollmentStatus resolves a lifecycle event against the current
// enrollment status, rejecting anything outside the table.
func NextEnrollmentStatus(current EnrollmentStatus, event EnrollmentEvent) (EnrollmentStatus, error) {
	if next, ok := enrollmentTransitions[current][event]; ok {
		return next, nil
	}
	return current, fmt.Errorf("enrollment status %q cannot accept event %q", current, event)
}
