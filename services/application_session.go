package services

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/playwright-community/playwright-go"
)

// terminal states of one apply attempt.
type sessionTerminal int

const (
	terminalSuccess sessionTerminal = iota
	terminalExhausted
	terminalBlocked
	terminalError
)

// defaultApplyEntrySelectors locate the control that opens the application
// form from a job posting page.
func defaultApplyEntrySelectors() []string {
	return []string{
		"button:has-text('Apply Now')",
		"a:has-text('Apply Now')",
		"button:has-text('Apply')",
		"a:has-text('Apply')",
		"button[class*='apply']",
		"a[class*='apply']",
	}
}

// ApplicationSession drives one complete application attempt end-to-end via
// generic browser automation: navigate, find the apply entry point, then loop
// over form steps until a terminal condition.
//
// A session must have exclusive ownership of its BrowserSession while an
// attempt runs; PlatformRouter enforces that with Acquire/Release.
type ApplicationSession struct {
	browser     *BrowserSession
	driver      *FormStepDriver
	human       *HumanBehaviorSimulator
	screenshots *ScreenshotService

	EntrySelectors []string
	MaxSteps       int
	NavTimeout     time.Duration
	AttemptTimeout time.Duration
}

func NewApplicationSession(browser *BrowserSession, driver *FormStepDriver, human *HumanBehaviorSimulator, screenshots *ScreenshotService) *ApplicationSession {
	return &ApplicationSession{
		browser:        browser,
		driver:         driver,
		human:          human,
		screenshots:    screenshots,
		EntrySelectors: defaultApplyEntrySelectors(),
		MaxSteps:       10,
		NavTimeout:     30 * time.Second,
		AttemptTimeout: 5 * time.Minute,
	}
}

// Apply runs one attempt and always returns a well-formed outcome: no error
// from the browser driver, the network, or internal logic escapes past this
// boundary.
func (s *ApplicationSession) Apply(ctx context.Context, req *ApplyRequest) (outcome *ApplicationOutcome) {
	outcome = &ApplicationOutcome{
		AttemptID: uuid.NewString(),
		Method:    MethodBrowserAutomation,
		Platform:  ClassifyPlatform(req.JobURL),
		JobURL:    req.JobURL,
		Timestamp: time.Now().UTC(),
	}

	defer func() {
		if r := recover(); r != nil {
			outcome.Success = false
			outcome.Error = fmt.Sprintf("internal fault during apply attempt: %v", r)
		}
	}()

	ctx, cancel := context.WithTimeout(ctx, s.AttemptTimeout)
	defer cancel()

	log.Printf("Starting browser application to: %s", req.JobURL)

	page, err := s.browser.NewPage()
	if err != nil {
		outcome.Error = fmt.Sprintf("failed to open page: %v", err)
		return outcome
	}
	defer func() {
		s.captureEvidence(page, outcome)
		if err := page.Close(); err != nil {
			log.Printf("Failed to close page: %v", err)
		}
	}()

	if _, err := page.Goto(req.JobURL, playwright.PageGotoOptions{
		Timeout: playwright.Float(float64(s.NavTimeout.Milliseconds())),
	}); err != nil {
		outcome.Error = fmt.Sprintf("navigation failed: %v", err)
		return outcome
	}
	log.Printf("Navigated to: %s", page.URL())

	// Let the page settle, then pause like a human reading the posting.
	s.driver.waitForSettle(page, s.NavTimeout)
	s.human.SettlePause()

	if !s.clickApplyEntry(page) {
		log.Printf("Warning: no Apply button found, assuming form already visible")
	}

	terminal, reason := runStepLoop(ctx, s.MaxSteps,
		func(stepCtx context.Context) StepOutcome {
			return s.driver.DriveStep(stepCtx, page, req)
		},
		func() bool {
			return s.driver.DetectSuccess(page)
		},
	)

	outcome.Success = terminal == terminalSuccess
	outcome.Error = reason
	if outcome.Success {
		log.Printf("✓ Application submitted successfully: %s", req.JobURL)
	} else {
		log.Printf("Application did not complete (%s): %s", reason, req.JobURL)
	}
	return outcome
}

// clickApplyEntry searches the candidate apply controls and clicks the first
// visible one. Absence is non-fatal.
func (s *ApplicationSession) clickApplyEntry(page playwright.Page) bool {
	for _, selector := range s.EntrySelectors {
		button := page.Locator(selector).First()
		if visible, err := button.IsVisible(); err != nil || !visible {
			continue
		}
		if err := s.human.ClickLikeHuman(button); err != nil {
			continue
		}
		log.Printf("✓ Clicked Apply entry: %s", selector)
		return true
	}
	return false
}

// captureEvidence stores a diagnostic screenshot on every terminal path,
// best-effort: failed attempts are the ones most valuable to debug.
func (s *ApplicationSession) captureEvidence(page playwright.Page, outcome *ApplicationOutcome) {
	if s.screenshots == nil {
		return
	}
	label := "application_failed"
	if outcome.Success {
		label = "application_submitted"
	}
	artifact, err := s.screenshots.Capture(page, label)
	if err != nil {
		log.Printf("Failed to capture evidence screenshot: %v", err)
		return
	}
	outcome.Screenshot = artifact
}

// runStepLoop executes the bounded multi-step form state machine. The step
// cap exists to bound worst-case runtime and avoid infinite loops on
// malformed forms.
//
// Termination rules:
//   - a blocked challenge ends the attempt immediately,
//   - a detected success banner ends the attempt successfully regardless of
//     remaining budget,
//   - a step that neither advances nor follows any prior progress means the
//     form is broken or incompatible,
//   - a step that does not advance after earlier progress gets one final
//     success re-check before the attempt is declared exhausted,
//   - running out of budget or attempt deadline declares exhaustion.
func runStepLoop(ctx context.Context, maxSteps int, step func(context.Context) StepOutcome, recheckSuccess func() bool) (sessionTerminal, string) {
	totalFilled := 0
	anyAdvanced := false

	for i := 1; i <= maxSteps; i++ {
		if ctx.Err() != nil {
			return terminalExhausted, "attempt deadline exceeded"
		}

		log.Printf("Processing form step %d", i)
		out := step(ctx)
		totalFilled += out.FieldsFilled

		if out.Challenge == ChallengeBlocked {
			return terminalBlocked, "challenge present and could not be solved"
		}
		if out.TerminalSuccess {
			return terminalSuccess, ""
		}
		if out.Advanced {
			anyAdvanced = true
			continue
		}

		if totalFilled == 0 && !anyAdvanced {
			return terminalError, "no form fields filled and no controls clicked"
		}
		// The last step of some forms shows its confirmation with a lag, so
		// look once more before giving up.
		if recheckSuccess() {
			return terminalSuccess, ""
		}
		return terminalExhausted, "no further steps found and no success confirmation detected"
	}

	return terminalExhausted, "reached maximum form steps without completion"
}
