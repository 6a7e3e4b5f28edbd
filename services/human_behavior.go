package services

import (
	"math/rand"
	"time"

	"github.com/playwright-community/playwright-go"
)

// DelayProvider supplies the pauses used to make automated interactions look
// human. Injectable so tests can run with zero delay.
type DelayProvider interface {
	Pause(min, max time.Duration)
}

// RandomDelay sleeps for a uniformly random duration within the range.
type RandomDelay struct{}

func (RandomDelay) Pause(min, max time.Duration) {
	if max <= min {
		time.Sleep(min)
		return
	}
	time.Sleep(min + time.Duration(rand.Int63n(int64(max-min))))
}

// ZeroDelay skips all pauses. Used in tests and when stealth timing is off.
type ZeroDelay struct{}

func (ZeroDelay) Pause(min, max time.Duration) {}

// HumanBehaviorSimulator wraps page interactions with randomized timing to
// reduce bot-detection signal. Randomness affects timing only, never outcome.
type HumanBehaviorSimulator struct {
	delays DelayProvider
}

func NewHumanBehaviorSimulator() *HumanBehaviorSimulator {
	return &HumanBehaviorSimulator{delays: RandomDelay{}}
}

func NewHumanBehaviorSimulatorWithDelays(delays DelayProvider) *HumanBehaviorSimulator {
	return &HumanBehaviorSimulator{delays: delays}
}

// TypeLikeHuman clicks the element and types the text one character at a
// time with a randomized per-character delay, then pauses briefly.
func (h *HumanBehaviorSimulator) TypeLikeHuman(element playwright.Locator, text string) error {
	if err := element.Click(); err != nil {
		return err
	}
	if err := element.Clear(); err != nil {
		return err
	}
	for _, ch := range text {
		if err := element.PressSequentially(string(ch)); err != nil {
			return err
		}
		h.delays.Pause(50*time.Millisecond, 150*time.Millisecond)
	}
	h.delays.Pause(100*time.Millisecond, 300*time.Millisecond)
	return nil
}

// ClickLikeHuman performs a click bracketed by randomized pauses.
func (h *HumanBehaviorSimulator) ClickLikeHuman(element playwright.Locator) error {
	h.delays.Pause(200*time.Millisecond, 500*time.Millisecond)
	if err := element.Click(); err != nil {
		return err
	}
	h.delays.Pause(300*time.Millisecond, 700*time.Millisecond)
	return nil
}

// SettlePause is the idle wait between page interactions.
func (h *HumanBehaviorSimulator) SettlePause() {
	h.delays.Pause(1*time.Second, 2*time.Second)
}
