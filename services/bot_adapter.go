package services

import "context"

// BotAdapter is a platform-specific integration capable of handling the
// entire application flow for one job board, as an alternative to generic
// browser automation.
type BotAdapter interface {
	// Setup initializes the adapter with credentials and settings. A false
	// return without an error means the adapter cannot run in this
	// configuration (e.g. missing credentials); callers fall back to generic
	// automation rather than failing the request.
	Setup(config map[string]string) (bool, error)

	// ApplyToJob applies to a single job. A returned error means the
	// attempt itself failed; the router converts it into a failure outcome.
	ApplyToJob(ctx context.Context, req *ApplyRequest) (*ApplicationOutcome, error)

	// ApplyBatch applies to multiple jobs, amortizing shared work such as a
	// logged-in session. Results correspond positionally to the requests.
	ApplyBatch(ctx context.Context, reqs []*ApplyRequest) ([]*ApplicationOutcome, error)

	// SupportedPlatforms reports which platforms this adapter handles.
	SupportedPlatforms() []Platform

	// Cleanup releases held resources (browser handles, sessions).
	Cleanup() error
}
