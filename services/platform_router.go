package services

import (
	"context"
	"fmt"
	"log"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// ClassifyPlatform derives the hosting platform from the job URL's host.
// Pure and total: a malformed URL classifies as generic.
func ClassifyPlatform(jobURL string) Platform {
	parsed, err := url.Parse(jobURL)
	if err != nil {
		return PlatformGeneric
	}
	host := strings.ToLower(parsed.Hostname())

	switch {
	case strings.Contains(host, "linkedin.com"):
		return PlatformLinkedIn
	case strings.Contains(host, "indeed.com"):
		return PlatformIndeed
	case strings.Contains(host, "greenhouse.io"):
		return PlatformGreenhouse
	case strings.Contains(host, "lever.co"):
		return PlatformLever
	case strings.Contains(host, "workday"), strings.Contains(host, "myworkdayjobs.com"):
		return PlatformWorkday
	default:
		return PlatformGeneric
	}
}

// CompanyFromJobURL guesses the employer name from the job URL, preferring
// the ATS board parameter over the bare domain.
func CompanyFromJobURL(jobURL string) string {
	titler := cases.Title(language.English)

	parsed, err := url.Parse(jobURL)
	if err != nil {
		return ""
	}
	if board := parsed.Query().Get("board"); board != "" {
		return titler.String(board)
	}
	host := strings.TrimPrefix(parsed.Hostname(), "www.")
	if parts := strings.Split(host, "."); len(parts) > 0 && parts[0] != "" {
		return titler.String(parts[0])
	}
	return ""
}

// adapterState tracks the lazily-established setup of one adapter handle.
type adapterState int

const (
	adapterUninitialized adapterState = iota
	adapterReady
	adapterFailed
)

type adapterHandle struct {
	adapter BotAdapter
	state   adapterState
}

// genericApplicator is the fallback automation path. Satisfied by
// *ApplicationSession; a seam for tests.
type genericApplicator interface {
	Apply(ctx context.Context, req *ApplyRequest) *ApplicationOutcome
}

// PlatformRouter is the single entry point of the auto-apply engine. It
// classifies job URLs, delegates to a platform-specific adapter when one is
// registered and sets up successfully, and otherwise falls back to generic
// browser automation.
//
// One router serializes generic attempts through its shared browser session.
// Callers wanting parallel attempts run independent routers.
type PlatformRouter struct {
	mu            sync.Mutex
	adapters      map[Platform]*adapterHandle
	fallback      genericApplicator
	browser       *BrowserSession
	adapterConfig map[string]string
}

// RouterConfig carries the knobs the router and its collaborators need.
type RouterConfig struct {
	Headless         bool
	CaptchaAPIKey    string
	ScreenshotDir    string
	MaxFormSteps     int
	AttemptTimeout   time.Duration
	LinkedInEmail    string
	LinkedInPassword string
}

// NewPlatformRouter wires the production engine: a shared stealth browser
// session, the form machinery, the evidence store, and the adapter registry.
// Platforms without a registered adapter simply fall back to generic
// automation; absence is a first-class state, not an error.
func NewPlatformRouter(cfg RouterConfig) *PlatformRouter {
	var solver CaptchaSolver
	if cfg.CaptchaAPIKey != "" {
		solver = NewTwoCaptchaSolver(cfg.CaptchaAPIKey)
	}

	resolver := NewFieldResolver()
	human := NewHumanBehaviorSimulator()
	challenge := NewChallengeHandler(solver)
	driver := NewFormStepDriver(resolver, human, challenge)
	screenshots := NewScreenshotService(cfg.ScreenshotDir)
	browser := NewBrowserSession(cfg.Headless)

	session := NewApplicationSession(browser, driver, human, screenshots)
	if cfg.MaxFormSteps > 0 {
		session.MaxSteps = cfg.MaxFormSteps
	}
	if cfg.AttemptTimeout > 0 {
		session.AttemptTimeout = cfg.AttemptTimeout
	}

	return &PlatformRouter{
		adapters: map[Platform]*adapterHandle{
			PlatformLinkedIn: {adapter: NewLinkedInEasyApplyAdapter(cfg.Headless, driver, human)},
			// No specialized adapters exist yet for Indeed, Greenhouse,
			// Lever, or Workday; those platforms fall back to generic
			// browser automation.
		},
		fallback: session,
		browser:  browser,
		adapterConfig: map[string]string{
			"linkedin_email":    cfg.LinkedInEmail,
			"linkedin_password": cfg.LinkedInPassword,
		},
	}
}

// The adapter shields convert a panic inside a BotAdapter implementation
// into an ordinary adapter error, so no fault escapes the router.

func adapterApply(ctx context.Context, adapter BotAdapter, req *ApplyRequest) (outcome *ApplicationOutcome, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			outcome, err = nil, fmt.Errorf("adapter fault: %v", rec)
		}
	}()
	return adapter.ApplyToJob(ctx, req)
}

func adapterApplyBatch(ctx context.Context, adapter BotAdapter, reqs []*ApplyRequest) (outcomes []*ApplicationOutcome, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			outcomes, err = nil, fmt.Errorf("adapter fault: %v", rec)
		}
	}()
	return adapter.ApplyBatch(ctx, reqs)
}

func adapterSetup(adapter BotAdapter, config map[string]string) (ok bool, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			ok, err = false, fmt.Errorf("adapter fault: %v", rec)
		}
	}()
	return adapter.Setup(config)
}

func adapterCleanup(adapter BotAdapter) (err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("adapter fault: %v", rec)
		}
	}()
	return adapter.Cleanup()
}

// Apply routes one request and always returns a well-formed outcome: adapter
// setup failures fall back to generic automation, and adapter apply errors
// become failure outcomes rather than propagating.
func (r *PlatformRouter) Apply(ctx context.Context, req *ApplyRequest) *ApplicationOutcome {
	platform := ClassifyPlatform(req.JobURL)
	log.Printf("Detected platform %s for %s", platform, req.JobURL)

	if handle, ok := r.adapters[platform]; ok && r.ensureReady(platform, handle) {
		outcome, err := adapterApply(ctx, handle.adapter, req)
		if err != nil {
			log.Printf("Adapter application failed for %s: %v", platform, err)
			return r.failureOutcome(req, platform, MethodBotAdapter, err)
		}
		return outcome
	}

	return r.genericApply(ctx, req)
}

// ApplyBatch groups requests by platform, uses the adapter's batch capability
// where one is ready, and processes the rest sequentially through Apply.
// Results correspond positionally to the input; one group's failure never
// aborts another group.
func (r *PlatformRouter) ApplyBatch(ctx context.Context, reqs []*ApplyRequest) []*ApplicationOutcome {
	results := make([]*ApplicationOutcome, len(reqs))

	groups := make(map[Platform][]int)
	for i, req := range reqs {
		platform := ClassifyPlatform(req.JobURL)
		groups[platform] = append(groups[platform], i)
	}

	for platform, indexes := range groups {
		handle, ok := r.adapters[platform]
		if ok && r.ensureReady(platform, handle) {
			grouped := make([]*ApplyRequest, len(indexes))
			for j, idx := range indexes {
				grouped[j] = reqs[idx]
			}

			outcomes, err := adapterApplyBatch(ctx, handle.adapter, grouped)
			if err != nil || len(outcomes) != len(indexes) {
				if err != nil {
					log.Printf("Adapter batch failed for %s: %v", platform, err)
				} else {
					err = fmt.Errorf("adapter returned %d results for %d requests", len(outcomes), len(indexes))
				}
				for _, idx := range indexes {
					results[idx] = r.failureOutcome(reqs[idx], platform, MethodBotAdapter, err)
				}
				continue
			}
			for j, idx := range indexes {
				results[idx] = outcomes[j]
			}
			continue
		}

		for _, idx := range indexes {
			results[idx] = r.Apply(ctx, reqs[idx])
		}
	}

	return results
}

// ReleaseAll releases every adapter's held resources and the shared browser
// session. Individual release failures are logged, never raised, so one
// misbehaving adapter cannot block cleanup of the rest.
func (r *PlatformRouter) ReleaseAll() {
	r.mu.Lock()
	defer r.mu.Unlock()

	for platform, handle := range r.adapters {
		if err := adapterCleanup(handle.adapter); err != nil {
			log.Printf("Warning: cleanup failed for %s adapter: %v", platform, err)
		}
		handle.state = adapterUninitialized
	}
	if r.browser != nil {
		if err := r.browser.Close(); err != nil {
			log.Printf("Warning: browser session close failed: %v", err)
		}
	}
}

// ensureReady performs the adapter's idempotent setup, caching the result
// until ReleaseAll resets it. Setup failure is soft: the caller falls back
// to generic automation.
func (r *PlatformRouter) ensureReady(platform Platform, handle *adapterHandle) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	switch handle.state {
	case adapterReady:
		return true
	case adapterFailed:
		return false
	}

	ok, err := adapterSetup(handle.adapter, r.adapterConfig)
	if err != nil || !ok {
		if err != nil {
			log.Printf("Warning: %s adapter setup failed, falling back to browser automation: %v", platform, err)
		} else {
			log.Printf("Warning: no %s adapter available, falling back to browser automation", platform)
		}
		handle.state = adapterFailed
		return false
	}
	handle.state = adapterReady
	return true
}

func (r *PlatformRouter) genericApply(ctx context.Context, req *ApplyRequest) *ApplicationOutcome {
	if r.browser != nil {
		r.browser.Acquire()
		defer r.browser.Release()
	}
	return r.fallback.Apply(ctx, req)
}

func (r *PlatformRouter) failureOutcome(req *ApplyRequest, platform Platform, method ApplyMethod, err error) *ApplicationOutcome {
	return &ApplicationOutcome{
		AttemptID: uuid.NewString(),
		Success:   false,
		Method:    method,
		Platform:  platform,
		JobURL:    req.JobURL,
		Error:     err.Error(),
		Timestamp: time.Now().UTC(),
	}
}
