package models

import (
	"time"
)

// Endorsement moderation states
const (
	StatusPending  = "pending"
	StatusApproved = "approved"
	StatusRejected = "rejected"
)

// Endorsement represents a visitor-submitted endorsement. Email is the
// submitter's address and is never serialized in API responses; it exists so
// the submitter can later prove ownership of the record.
type Endorsement struct {
	ID         string    `json:"id"`
	AuthorName string    `json:"author_name"`
	AuthorRole string    `json:"author_role"`
	Company    string    `json:"company,omitempty"`
	Message    string    `json:"message"`
	Email      string    `json:"-"`
	Status     string    `json:"status"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// HasEmail reports whether the endorsement has a submitter email on file.
func (e *Endorsement) HasEmail() bool {
	return e.Email != ""
}

// EndorsementUpdate carries the submitter-editable fields of an endorsement.
type EndorsementUpdate struct {
	AuthorName string
	AuthorRole string
	Company    string
	Message    string
}
