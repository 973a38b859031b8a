package models

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Documentation struct {
	ID          uint    `json:"id" gorm:"primaryKey"`
	Title       string  `json:"title" gorm:"not null;size:200;index" validate:"required,max=200"`
	Slug        string  `json:"slug" gorm:"uniqueIndex;not null;size:200" validate:"required,lowercase"`
	Description *string `json:"description" gorm:"type:text"`
	Content     string  `json:"content" gorm:"type:text;not null" validate:"required"`
	CategoryID  uint    `json:"category_id" gorm:"not null;index"`
	ReadTime    *string `json:"read_time" gorm:"size:50"`

	// Editor-curated extras, stored as jsonb
	KeyFeatures  datatypes.JSON `json:"key_features" gorm:"type:jsonb"`  // []string
	CodeExamples datatypes.JSON `json:"code_examples" gorm:"type:jsonb"` // []CodeExample
	QuickLinks   datatypes.JSON `json:"quick_links" gorm:"type:jsonb"`   // []string
	ProTip       *string        `json:"pro_tip" gorm:"type:text"`

	// Paid content
	Price         *float64 `json:"price" validate:"omitempty,min=0"`
	Currency      string   `json:"currency" gorm:"size:3;default:usd" validate:"omitempty,currency_code"`
	StripePriceID *string  `json:"stripe_price_id" gorm:"size:255"`

	IsPublished bool `json:"is_published" gorm:"default:true;index"`

	// Version guards optimistic section-graph updates: the version read
	// when validation started must still be current at commit.
	Version int `json:"version" gorm:"default:1"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`

	// Relations
	Category Category       `json:"category,omitempty" gorm:"foreignKey:CategoryID"`
	Sections []DocumentLink `json:"sections,omitempty" gorm:"foreignKey:ParentID"`
}

// CodeExample is one entry of Documentation.CodeExamples.
type CodeExample struct {
	Title       string `json:"title"`
	Code        string `json:"code"`
	Description string `json:"description"`
}

// DocumentLink is a parent→child edge in the documentation section
// graph. Edges, not embedded documents, so the relation stays a plain
// adjacency list and cycle checks are ordinary graph traversals.
type DocumentLink struct {
	ID       uint `json:"id" gorm:"primaryKey"`
	ParentID uint `json:"parent_id" gorm:"not null;index;uniqueIndex:idx_doc_link_edge"`
	ChildID  uint `json:"child_id" gorm:"not null;index;uniqueIndex:idx_doc_link_edge"`
	Position int  `json:"position" gorm:"not null;default:0"`

	CreatedAt time.Time `json:"created_at"`

	// Relations
	Parent Documentation `json:"parent,omitempty" gorm:"foreignKey:ParentID"`
	Child  Documentation `json:"child,omitempty" gorm:"foreignKey:ChildID"`
}

// IsFree reports whether the document is accessible without a purchase.
func (d *Documentation) IsFree() bool {
	return d.Price == nil || *d.Price == 0
}

func (Documentation) TableName() string {
	return "documentations"
}

func (DocumentLink) TableName() string {
	return "documentation_sections"
}
