package models

import (
	"time"
)

// OtpChallenge represents one issued verification attempt window for a
// (endorsement, email) pair. The raw code is never persisted; only its
// peppered digest is stored.
type OtpChallenge struct {
	ID            string     `json:"id"`
	EndorsementID string     `json:"endorsement_id"`
	Email         string     `json:"email"`
	CodeHash      string     `json:"-"` // Never expose the code digest
	ExpiresAt     time.Time  `json:"expires_at"`
	UsedAt        *time.Time `json:"used_at,omitempty"`
	AttemptCount  int        `json:"attempt_count"`
	LockedUntil   *time.Time `json:"locked_until,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
	LastSentAt    time.Time  `json:"last_sent_at"`
}

// IsExpired checks if the challenge has expired
func (c *OtpChallenge) IsExpired() bool {
	return time.Now().After(c.ExpiresAt)
}

// IsUsed checks if the challenge has been consumed or superseded.
// A used challenge is terminal and never validates again.
func (c *OtpChallenge) IsUsed() bool {
	return c.UsedAt != nil
}

// IsLocked checks if the challenge is inside a lockout window. Lockout is not
// terminal: once locked_until passes, attempts are evaluated again.
func (c *OtpChallenge) IsLocked() bool {
	return c.LockedUntil != nil && time.Now().Before(*c.LockedUntil)
}

// IsLive checks if the challenge can still be verified against
func (c *OtpChallenge) IsLive() bool {
	return !c.IsUsed() && !c.IsExpired()
}
