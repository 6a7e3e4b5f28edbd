package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type recordingDelay struct {
	pauses int
}

func (r *recordingDelay) Pause(min, max time.Duration) {
	r.pauses++
}

func TestZeroDelay_DoesNotSleep(t *testing.T) {
	start := time.Now()
	ZeroDelay{}.Pause(1*time.Hour, 2*time.Hour)
	assert.Less(t, time.Since(start), 100*time.Millisecond)
}

func TestRandomDelay_StaysWithinRange(t *testing.T) {
	start := time.Now()
	RandomDelay{}.Pause(1*time.Millisecond, 10*time.Millisecond)
	elapsed := time.Since(start)

	assert.GreaterOrEqual(t, elapsed, 1*time.Millisecond)
	assert.Less(t, elapsed, 500*time.Millisecond)
}

func TestRandomDelay_DegenerateRange(t *testing.T) {
	start := time.Now()
	RandomDelay{}.Pause(2*time.Millisecond, 2*time.Millisecond)
	assert.GreaterOrEqual(t, time.Since(start), 2*time.Millisecond)
}

func TestSettlePause_UsesInjectedDelays(t *testing.T) {
	delays := &recordingDelay{}
	human := NewHumanBehaviorSimulatorWithDelays(delays)

	human.SettlePause()

	assert.Equal(t, 1, delays.pauses)
}
