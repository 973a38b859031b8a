package models

import (
	"time"
)

type Category struct {
	ID          uint    `json:"id" gorm:"primaryKey"`
	Title       string  `json:"title" gorm:"uniqueIndex;not null;size:200" validate:"required,max=200"`
	Slug        string  `json:"slug" gorm:"uniqueIndex;not null;size:200" validate:"required,lowercase"`
	Description *string `json:"description" gorm:"type:text"`
	Content     *string `json:"content" gorm:"type:text"`

	// Presentation hints owned by the content editors
	BgColor *string `json:"bg_color" gorm:"size:100"`
	Icon    *string `json:"icon" gorm:"size:100"`
	Order   int     `json:"order" gorm:"column:display_order;default:0"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Relations
	Courses []Course `json:"courses,omitempty" gorm:"foreignKey:CategoryID"`
}

func (Category) TableName() string {
	return "categories"
}
