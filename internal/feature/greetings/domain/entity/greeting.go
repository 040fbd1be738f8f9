// Package entity defines the domain entities for the greetings feature.
package entity

import "time"

// Greeting represents a birthday greeting post.
type Greeting struct {
	// ID is the unique identifier for the greeting.
	ID uint `gorm:"primaryKey"`

	// AuthorID references the account that created the greeting.
	AuthorID uint `gorm:"index;not null"`

	// RecipientName is the person the greeting is addressed to.
	RecipientName string `gorm:"size:120;not null"`

	// Message is the greeting text.
	Message string `gorm:"type:text;not null"`

	// MediaKeys are object-store keys of media attached to the greeting.
	// Keys must have been uploaded (and screened) before they are attached.
	MediaKeys []string `gorm:"serializer:json;type:text"`

	CreatedAt time.Time
	UpdatedAt time.Time
}
