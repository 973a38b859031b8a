package models

import "time"

type NewsletterSubscriber struct {
	ID    uint   `json:"id" gorm:"primaryKey"`
	Email string `json:"email" gorm:"uniqueIndex;not null;size:255" validate:"required,email"`

	CreatedAt time.Time `json:"created_at"`
}

func (NewsletterSubscriber) TableName() string {
	return "newsletter_subscribers"
}
