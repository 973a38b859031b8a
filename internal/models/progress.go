package models

import (
	"encoding/json"
	"time"

	"gorm.io/datatypes"
)

// CourseProgress tracks which sections of a course a user finished.
// One row per (user, course); the percentage is derived from the
// completed set and never decreases.
type CourseProgress struct {
	ID       uint   `json:"id" gorm:"primaryKey"`
	UserID   string `json:"user_id" gorm:"not null;index;size:255;uniqueIndex:idx_user_course_progress"`
	CourseID uint   `json:"course_id" gorm:"not null;index;uniqueIndex:idx_user_course_progress"`

	CompletedSections  datatypes.JSON `json:"completed_sections" gorm:"type:jsonb"` // []uint section ids
	ProgressPercentage int            `json:"progress_percentage" gorm:"default:0" validate:"min=0,max=100"`
	LastAccessedAt     time.Time      `json:"last_accessed_at"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Relations
	User   User   `json:"user,omitempty" gorm:"foreignKey:UserID"`
	Course Course `json:"course,omitempty" gorm:"foreignKey:CourseID"`
}

func (CourseProgress) TableName() string {
	return "course_progress"
}

// SectionIDs decodes the completed-sections jsonb column.
func (p *CourseProgress) SectionIDs() ([]uint, error) {
	if len(p.CompletedSections) == 0 {
		return nil, nil
	}
	var ids []uint
	if err := json.Unmarshal(p.CompletedSections, &ids); err != nil {
		return nil, err
	}
	return ids, nil
}

// SetSectionIDs encodes the completed-sections set back to jsonb.
func (p *CourseProgress) SetSectionIDs(ids []uint) error {
	data, err := json.Marshal(ids)
	if err != nil {
		return err
	}
	p.CompletedSections = data
	return nil
}

// ProgressPercent computes floor(100 * completed / total), clamped to
// [0,100]. Zero total sections means zero progress, not a division.
func ProgressPercent(completed, total int) int {
	if total <= 0 {
		return 0
	}
	pct := completed * 100 / total
	if pct > 100 {
		return 100
	}
	if pct < 0 {
		return 0
	}
	return pct
}

type CourseReview struct {
	ID       uint   `json:"id" gorm:"primaryKey"`
	UserID   string `json:"user_id" gorm:"not null;index;size:255;uniqueIndex:idx_user_course_review"`
	CourseID uint   `json:"course_id" gorm:"not null;index;uniqueIndex:idx_user_course_review"`
	Rating   int    `json:"rating" gorm:"not null" validate:"required,min=1,max=5"`
	Comment  *string `json:"comment" gorm:"type:text"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Relations
	User   User   `json:"user,omitempty" gorm:"foreignKey:UserID"`
	Course Course `json:"course,omitempty" gorm:"foreignKey:CourseID"`
}

func (CourseReview) TableName() string {
	return "course_reviews"
}
