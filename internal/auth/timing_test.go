package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestConstantTimeEquals(t *testing.T) {
	assert.True(t, ConstantTimeEquals("abcdef", "abcdef"))
	assert.False(t, ConstantTimeEquals("abcdef", "abcdeg"))
	assert.False(t, ConstantTimeEquals("abc", "abcdef"))
	assert.True(t, ConstantTimeEquals("", ""))
}

func TestTimingDelay_WaitEnforcesFloor(t *testing.T) {
	td := NewTimingDelay(TimingConfig{BaseDelayMs: 20})

	start := time.Now()
	td.Wait(false)
	elapsed := time.Since(start)

	assert.GreaterOrEqual(t, elapsed, 20*time.Millisecond)
}

func TestTimingDelay_SkipsSuccessByDefault(t *testing.T) {
	td := NewTimingDelay(TimingConfig{BaseDelayMs: 50})

	start := time.Now()
	td.Wait(true)
	elapsed := time.Since(start)

	assert.Less(t, elapsed, 20*time.Millisecond)
}

func TestTimingDelay_DelayOnSuccess(t *testing.T) {
	td := NewTimingDelay(TimingConfig{BaseDelayMs: 20, DelayOnSuccess: true})

	start := time.Now()
	td.Wait(true)
	elapsed := time.Since(start)

	assert.GreaterOrEqual(t, elapsed, 20*time.Millisecond)
}

func TestTimingDelay_WaitFromCountsElapsedWork(t *testing.T) {
	td := NewTimingDelay(TimingConfig{BaseDelayMs: 30})

	start := time.Now().Add(-25 * time.Millisecond)
	td.WaitFrom(start, false)
	elapsed := time.Since(start)

	assert.GreaterOrEqual(t, elapsed, 30*time.Millisecond)
	assert.Less(t, elapsed, 60*time.Millisecond, "already-elapsed time must count toward the floor")
}

func TestTimingDelay_WaitFromPastTarget(t *testing.T) {
	td := NewTimingDelay(TimingConfig{BaseDelayMs: 10})

	start := time.Now().Add(-50 * time.Millisecond)
	waitStart := time.Now()
	td.WaitFrom(start, false)

	assert.Less(t, time.Since(waitStart), 10*time.Millisecond)
}
