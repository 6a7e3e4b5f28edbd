package services

import (
	"context"
	"log"
	"strings"
	"time"

	"github.com/playwright-community/playwright-go"
)

// defaultAdvanceSelectors are the controls that move a multi-step form
// forward, in click priority order.
func defaultAdvanceSelectors() []string {
	return []string{
		"button:has-text('Next')",
		"button:has-text('Continue')",
		"button:has-text('Submit Application')",
		"button:has-text('Submit')",
		"button:has-text('Apply')",
		"button[type='submit']",
		"input[type='submit']",
		"a:has-text('Next')",
	}
}

// defaultSuccessIndicators match the confirmation banners employers show
// after a completed submission.
func defaultSuccessIndicators() []string {
	return []string{
		"text=Thank you for your application",
		"text=Application submitted",
		"text=Your application has been submitted",
		"text=Application received",
		"text=We have received your application",
		"text=Thank you for applying",
		"text=Successfully submitted",
		"[class*='success']",
		"[class*='confirmation']",
		"h1:has-text('Thank you')",
		"h2:has-text('Thank you')",
	}
}

var successURLKeywords = []string{"success", "confirmation", "thank", "complete", "submitted", "received"}

// FormStepDriver fully processes one visible state of a possibly multi-step
// application form: fill fields, clear challenges, advance, and look for a
// terminal success banner.
//
// AdvanceSelectors and SuccessIndicators are heuristic allowlists expected to
// need tuning against real-world forms; callers may replace them.
type FormStepDriver struct {
	resolver  *FieldResolver
	human     *HumanBehaviorSimulator
	challenge *ChallengeHandler

	AdvanceSelectors  []string
	SuccessIndicators []string
	SettleTimeout     time.Duration
}

func NewFormStepDriver(resolver *FieldResolver, human *HumanBehaviorSimulator, challenge *ChallengeHandler) *FormStepDriver {
	return &FormStepDriver{
		resolver:          resolver,
		human:             human,
		challenge:         challenge,
		AdvanceSelectors:  defaultAdvanceSelectors(),
		SuccessIndicators: defaultSuccessIndicators(),
		SettleTimeout:     15 * time.Second,
	}
}

// DriveStep processes the current page state and reports what happened.
// Field filling runs exhaustively on every step because later steps may
// re-request or newly reveal fields.
func (d *FormStepDriver) DriveStep(ctx context.Context, page playwright.Page, req *ApplyRequest) StepOutcome {
	d.waitForSettle(page, d.SettleTimeout)
	d.human.SettlePause()

	filled := d.fillFields(page, req)
	log.Printf("Filled %d form fields", filled)

	status := d.challenge.Check(ctx, page)
	if status == ChallengeBlocked {
		log.Printf("Challenge present and unresolved, halting step")
		return StepOutcome{FieldsFilled: filled, Challenge: status}
	}

	advanced := d.clickAdvance(page)
	if advanced {
		d.waitForSettle(page, 5*time.Second)
	}

	return StepOutcome{
		FieldsFilled:    filled,
		Challenge:       status,
		Advanced:        advanced,
		TerminalSuccess: d.DetectSuccess(page),
	}
}

// fillFields walks the semantic field kinds in priority order, filling each
// detected input that has a value available. Missing fields and missing
// values are both skipped silently.
func (d *FormStepDriver) fillFields(page playwright.Page, req *ApplyRequest) int {
	filled := 0
	for _, kind := range d.resolver.Kinds() {
		element, found := d.resolver.Detect(page, kind)
		if !found {
			continue
		}
		if d.fillOne(element, kind, req) {
			filled++
		}
	}
	return filled
}

func (d *FormStepDriver) fillOne(element playwright.Locator, kind FieldKind, req *ApplyRequest) bool {
	switch kind {
	case FieldResumeFile:
		if req.ResumePath == "" {
			return false
		}
		if err := element.SetInputFiles(req.ResumePath); err != nil {
			log.Printf("Failed to upload resume: %v", err)
			return false
		}
		log.Printf("✓ Uploaded resume: %s", req.ResumePath)
		return true

	case FieldCoverLetterFile:
		ok, err := withCoverLetterFile(req, func(path string) error {
			return element.SetInputFiles(path)
		})
		if !ok {
			return false
		}
		if err != nil {
			log.Printf("Failed to upload cover letter: %v", err)
			return false
		}
		log.Printf("✓ Uploaded cover letter document")
		return true

	default:
		value := d.resolver.ValueFor(kind, req)
		if value == "" {
			return false
		}
		if err := d.human.TypeLikeHuman(element, value); err != nil {
			log.Printf("Could not fill %s: %v", kind, err)
			return false
		}
		log.Printf("✓ Filled %s", kind)
		return true
	}
}

// clickAdvance clicks the first visible, enabled advance control.
func (d *FormStepDriver) clickAdvance(page playwright.Page) bool {
	for _, selector := range d.AdvanceSelectors {
		button := page.Locator(selector).First()
		if visible, err := button.IsVisible(); err != nil || !visible {
			continue
		}
		if disabled, err := button.IsDisabled(); err == nil && disabled {
			continue
		}
		if err := d.human.ClickLikeHuman(button); err != nil {
			log.Printf("Failed to click %s: %v", selector, err)
			continue
		}
		log.Printf("✓ Clicked advance control: %s", selector)
		return true
	}
	log.Printf("No advance control found")
	return false
}

// DetectSuccess scans the page, its URL, and its title for submission
// confirmation signals.
func (d *FormStepDriver) DetectSuccess(page playwright.Page) bool {
	pageURL := strings.ToLower(page.URL())
	for _, keyword := range successURLKeywords {
		if strings.Contains(pageURL, keyword) {
			log.Printf("Found success keyword in URL: %s", pageURL)
			return true
		}
	}

	if title, err := page.Title(); err == nil {
		lower := strings.ToLower(title)
		for _, keyword := range successURLKeywords {
			if strings.Contains(lower, keyword) {
				log.Printf("Found success keyword in title: %s", title)
				return true
			}
		}
	}

	for _, indicator := range d.SuccessIndicators {
		element := page.Locator(indicator).First()
		if visible, err := element.IsVisible(); err == nil && visible {
			log.Printf("Found success indicator: %s", indicator)
			return true
		}
	}
	return false
}

// waitForSettle waits for the network to go idle, proceeding regardless of
// whether it does: some pages never fully settle and partial readiness is
// acceptable.
func (d *FormStepDriver) waitForSettle(page playwright.Page, timeout time.Duration) {
	err := page.WaitForLoadState(playwright.PageWaitForLoadStateOptions{
		State:   playwright.LoadStateNetworkidle,
		Timeout: playwright.Float(float64(timeout.Milliseconds())),
	})
	if err != nil {
		log.Printf("Page did not settle within %s, continuing", timeout)
	}
}
