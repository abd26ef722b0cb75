package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestOtpChallenge_IsLive(t *testing.T) {
	now := time.Now()

	live := &OtpChallenge{ExpiresAt: now.Add(5 * time.Minute)}
	assert.True(t, live.IsLive())

	expired := &OtpChallenge{ExpiresAt: now.Add(-1 * time.Minute)}
	assert.False(t, expired.IsLive())

	usedAt := now.Add(-1 * time.Second)
	used := &OtpChallenge{ExpiresAt: now.Add(5 * time.Minute), UsedAt: &usedAt}
	assert.False(t, used.IsLive())
}

func TestOtpChallenge_IsLocked(t *testing.T) {
	now := time.Now()

	unlocked := &OtpChallenge{}
	assert.False(t, unlocked.IsLocked())

	future := now.Add(10 * time.Minute)
	locked := &OtpChallenge{LockedUntil: &future}
	assert.True(t, locked.IsLocked())

	past := now.Add(-10 * time.Minute)
	lapsed := &OtpChallenge{LockedUntil: &past}
	assert.False(t, lapsed.IsLocked(), "a lapsed lockout must not block verification")
}

func TestEndorsement_HasEmail(t *testing.T) {
	assert.True(t, (&Endorsement{Email: "dana@example.com"}).HasEmail())
	assert.False(t, (&Endorsement{}).HasEmail())
}
