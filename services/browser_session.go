package services

import (
	"fmt"
	"sync"

	"github.com/playwright-community/playwright-go"
)

// stealthScript scrubs the signals headless Chromium leaks to bot detectors.
const stealthScript = `
	Object.defineProperty(navigator, 'webdriver', {
		get: () => undefined
	});

	Object.defineProperty(navigator, 'plugins', {
		get: () => [1, 2, 3, 4, 5]
	});

	Object.defineProperty(navigator, 'languages', {
		get: () => ['en-US', 'en']
	});

	const originalQuery = window.navigator.permissions.query;
	window.navigator.permissions.query = (parameters) => (
		parameters.name === 'notifications' ?
			Promise.resolve({ state: Notification.permission }) :
			originalQuery(parameters)
	);
`

// BrowserSession owns one browser process plus one context. It is started
// lazily on first page request and reused across sequential apply attempts;
// at most one attempt may drive it at a time (see Acquire/Release). Callers
// must Close it explicitly when all batched work is done.
type BrowserSession struct {
	mu       sync.Mutex
	owner    sync.Mutex // held by the attempt currently driving the session
	pw       *playwright.Playwright
	browser  playwright.Browser
	context  playwright.BrowserContext
	headless bool
}

func NewBrowserSession(headless bool) *BrowserSession {
	return &BrowserSession{headless: headless}
}

// Acquire takes exclusive ownership of the session for one apply attempt.
func (b *BrowserSession) Acquire() {
	b.owner.Lock()
}

// Release returns ownership so the next attempt can reuse the session.
func (b *BrowserSession) Release() {
	b.owner.Unlock()
}

func (b *BrowserSession) ensureStarted() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.context != nil {
		return nil
	}

	pw, err := playwright.Run()
	if err != nil {
		return fmt.Errorf("failed to start playwright: %w", err)
	}

	browser, err := pw.Chromium.Launch(playwright.BrowserTypeLaunchOptions{
		Headless: playwright.Bool(b.headless),
		Args: []string{
			"--no-sandbox",
			"--disable-setuid-sandbox",
			"--disable-blink-features=AutomationControlled",
			"--disable-dev-shm-usage",
			"--disable-features=IsolateOrigins,site-per-process",
		},
	})
	if err != nil {
		pw.Stop()
		return fmt.Errorf("failed to launch browser: %w", err)
	}

	context, err := browser.NewContext(playwright.BrowserNewContextOptions{
		Viewport:   &playwright.Size{Width: 1920, Height: 1080},
		UserAgent:  playwright.String("Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"),
		Locale:     playwright.String("en-US"),
		TimezoneId: playwright.String("America/New_York"),
	})
	if err != nil {
		browser.Close()
		pw.Stop()
		return fmt.Errorf("failed to create browser context: %w", err)
	}

	if err := context.AddInitScript(playwright.Script{Content: playwright.String(stealthScript)}); err != nil {
		context.Close()
		browser.Close()
		pw.Stop()
		return fmt.Errorf("failed to install stealth script: %w", err)
	}

	b.pw = pw
	b.browser = browser
	b.context = context
	return nil
}

// NewPage opens a fresh tab scoped to one apply attempt, starting the
// browser on first use.
func (b *BrowserSession) NewPage() (playwright.Page, error) {
	if err := b.ensureStarted(); err != nil {
		return nil, err
	}
	return b.context.NewPage()
}

// Close tears down the context, browser, and driver. Safe to call on a
// session that never started.
func (b *BrowserSession) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	var firstErr error
	if b.context != nil {
		if err := b.context.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
		b.context = nil
	}
	if b.browser != nil {
		if err := b.browser.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
		b.browser = nil
	}
	if b.pw != nil {
		if err := b.pw.Stop(); err != nil && firstErr == nil {
			firstErr = err
		}
		b.pw = nil
	}
	return firstErr
}
