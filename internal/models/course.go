package models

import (
	"time"

	"gorm.io/gorm"
)

type CourseLevel string

const (
	LevelBeginner          CourseLevel = "BEGINNER"
	LevelIntermediate      CourseLevel = "INTERMEDIATE"
	LevelAdvanced          CourseLevel = "ADVANCED"
	LevelBeginnerToAdvance CourseLevel = "BEGINNER_TO_ADVANCE"
)

type Course struct {
	ID          uint        `json:"id" gorm:"primaryKey"`
	Title       string      `json:"title" gorm:"not null;size:200;index" validate:"required,max=200"`
	Description *string     `json:"description" gorm:"type:text"`
	CategoryID  uint        `json:"category_id" gorm:"not null;index"`
	Level       CourseLevel `json:"level" gorm:"not null;default:BEGINNER" validate:"omitempty,oneof=BEGINNER INTERMEDIATE ADVANCED BEGINNER_TO_ADVANCE"`

	// Aggregates maintained by the progress/review subsystem
	Rating       float64 `json:"rating" gorm:"default:0" validate:"min=0,max=5"`
	StudentCount int     `json:"student_count" gorm:"default:0" validate:"min=0"`

	Duration   *string  `json:"duration" gorm:"size:50"`
	Instructor *string  `json:"instructor" gorm:"size:200"`
	BgColor    *string  `json:"bg_color" gorm:"size:100"`
	Price      *float64 `json:"price" validate:"omitempty,min=0"`

	IsPremium   bool `json:"is_premium" gorm:"default:false"`
	IsPublished bool `json:"is_published" gorm:"default:false;index"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`

	// Relations
	Category Category        `json:"category,omitempty" gorm:"foreignKey:CategoryID"`
	Sections []CourseSection `json:"sections,omitempty" gorm:"foreignKey:CourseID"`
}

// CourseSection is an ordered unit of course content. Order defines the
// display sequence; ties fall back to insertion order (primary key).
type CourseSection struct {
	ID       uint   `json:"id" gorm:"primaryKey"`
	CourseID uint   `json:"course_id" gorm:"not null;index"`
	Title    string `json:"title" gorm:"not null;size:200" validate:"required,max=200"`
	Content  string `json:"content" gorm:"type:text;not null"`
	Order    int    `json:"order" gorm:"column:display_order;not null;default:0"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Relations
	Course Course `json:"course,omitempty" gorm:"foreignKey:CourseID"`
}

func (Course) TableName() string {
	return "courses"
}

func (CourseSection) TableName() string {
	return "course_sections"
}
