package services

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/playwright-community/playwright-go"
)

// LinkedInEasyApplyAdapter drives LinkedIn Easy Apply postings through a
// dedicated logged-in browser session. It only handles postings with the
// Easy Apply flow; everything else is left to generic automation.
type LinkedInEasyApplyAdapter struct {
	browser *BrowserSession
	driver  *FormStepDriver
	human   *HumanBehaviorSimulator

	email    string
	password string
	loggedIn bool
}

func NewLinkedInEasyApplyAdapter(headless bool, driver *FormStepDriver, human *HumanBehaviorSimulator) *LinkedInEasyApplyAdapter {
	return &LinkedInEasyApplyAdapter{
		browser: NewBrowserSession(headless),
		driver:  driver,
		human:   human,
	}
}

// Setup logs into LinkedIn with the configured credentials. Missing
// credentials are a soft failure: the router falls back to generic
// automation instead of failing the request.
func (a *LinkedInEasyApplyAdapter) Setup(config map[string]string) (bool, error) {
	if a.loggedIn {
		return true, nil
	}

	a.email = config["linkedin_email"]
	a.password = config["linkedin_password"]
	if a.email == "" || a.password == "" {
		log.Printf("Warning: LinkedIn credentials not configured, adapter unavailable")
		return false, nil
	}

	page, err := a.browser.NewPage()
	if err != nil {
		return false, fmt.Errorf("failed to open login page: %w", err)
	}
	defer page.Close()

	if _, err := page.Goto("https://www.linkedin.com/login", playwright.PageGotoOptions{
		Timeout: playwright.Float(30000),
	}); err != nil {
		return false, fmt.Errorf("failed to load login page: %w", err)
	}

	if err := a.human.TypeLikeHuman(page.Locator("input#username").First(), a.email); err != nil {
		return false, fmt.Errorf("failed to enter email: %w", err)
	}
	if err := a.human.TypeLikeHuman(page.Locator("input#password").First(), a.password); err != nil {
		return false, fmt.Errorf("failed to enter password: %w", err)
	}
	if err := a.human.ClickLikeHuman(page.Locator("button[type='submit']").First()); err != nil {
		return false, fmt.Errorf("failed to submit login: %w", err)
	}
	a.driver.waitForSettle(page, 15*time.Second)

	// A login that bounces back to the form means bad credentials or a
	// verification wall.
	if visible, err := page.Locator("input#password").First().IsVisible(); err == nil && visible {
		return false, fmt.Errorf("linkedin login did not complete")
	}

	a.loggedIn = true
	log.Printf("✓ LinkedIn adapter logged in as %s", a.email)
	return true, nil
}

func (a *LinkedInEasyApplyAdapter) ApplyToJob(ctx context.Context, req *ApplyRequest) (*ApplicationOutcome, error) {
	outcome := &ApplicationOutcome{
		AttemptID: uuid.NewString(),
		Method:    MethodBotAdapter,
		Platform:  PlatformLinkedIn,
		JobURL:    req.JobURL,
		Timestamp: time.Now().UTC(),
	}

	page, err := a.browser.NewPage()
	if err != nil {
		return nil, fmt.Errorf("failed to open page: %w", err)
	}
	defer page.Close()

	if _, err := page.Goto(req.JobURL, playwright.PageGotoOptions{
		Timeout: playwright.Float(30000),
	}); err != nil {
		return nil, fmt.Errorf("navigation failed: %w", err)
	}
	a.driver.waitForSettle(page, 15*time.Second)

	easyApply := page.Locator("button.jobs-apply-button, button:has-text('Easy Apply')").First()
	if visible, err := easyApply.IsVisible(); err != nil || !visible {
		return nil, fmt.Errorf("no Easy Apply control on posting")
	}
	if err := a.human.ClickLikeHuman(easyApply); err != nil {
		return nil, fmt.Errorf("failed to open Easy Apply dialog: %w", err)
	}

	terminal, reason := runStepLoop(ctx, 10,
		func(stepCtx context.Context) StepOutcome {
			return a.driver.DriveStep(stepCtx, page, req)
		},
		func() bool {
			return a.driver.DetectSuccess(page)
		},
	)

	outcome.Success = terminal == terminalSuccess
	outcome.Error = reason
	return outcome, nil
}

// ApplyBatch applies sequentially through the shared logged-in session; the
// amortized login is the batch efficiency here. One posting's failure does
// not stop the rest.
func (a *LinkedInEasyApplyAdapter) ApplyBatch(ctx context.Context, reqs []*ApplyRequest) ([]*ApplicationOutcome, error) {
	outcomes := make([]*ApplicationOutcome, len(reqs))
	for i, req := range reqs {
		outcome, err := a.ApplyToJob(ctx, req)
		if err != nil {
			outcome = &ApplicationOutcome{
				AttemptID: uuid.NewString(),
				Method:    MethodBotAdapter,
				Platform:  PlatformLinkedIn,
				JobURL:    req.JobURL,
				Error:     err.Error(),
				Timestamp: time.Now().UTC(),
			}
		}
		outcomes[i] = outcome
	}
	return outcomes, nil
}

func (a *LinkedInEasyApplyAdapter) SupportedPlatforms() []Platform {
	return []Platform{PlatformLinkedIn}
}

func (a *LinkedInEasyApplyAdapter) Cleanup() error {
	a.loggedIn = false
	return a.browser.Close()
}
