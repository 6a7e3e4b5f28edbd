package services

import (
	"time"
)

// Platform identifies the job board or ATS hosting a posting.
type Platform string

const (
	PlatformLinkedIn   Platform = "linkedin"
	PlatformIndeed     Platform = "indeed"
	PlatformGreenhouse Platform = "greenhouse"
	PlatformLever      Platform = "lever"
	PlatformWorkday    Platform = "workday"
	PlatformGeneric    Platform = "generic"
)

// ApplyMethod records which automation path produced an outcome.
type ApplyMethod string

const (
	MethodBotAdapter        ApplyMethod = "bot_adapter"
	MethodBrowserAutomation ApplyMethod = "browser_automation"
)

// ChallengeStatus is the verdict from a single anti-automation check.
type ChallengeStatus string

const (
	ChallengeNone    ChallengeStatus = "none"
	ChallengePassed  ChallengeStatus = "passed"
	ChallengeBlocked ChallengeStatus = "blocked"
)

// UserProfileData carries the semantic values used to fill application forms.
type UserProfileData struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	FullName  string `json:"full_name"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	Address   string `json:"address"`
	City      string `json:"city"`
	State     string `json:"state"`
	ZipCode   string `json:"zip_code"`
	LinkedIn  string `json:"linkedin_url"`
	Portfolio string `json:"portfolio_url"`

	// Free-text answers keyed by question, for fields outside the schema.
	ExtraQA map[string]string `json:"extra_qa,omitempty"`
}

// ApplyRequest is the input for one job-application attempt. It is treated as
// immutable for the duration of the attempt.
type ApplyRequest struct {
	JobURL      string           `json:"job_url" binding:"required"`
	Profile     *UserProfileData `json:"profile"`
	ResumePath  string           `json:"resume_path,omitempty"`
	CoverLetter string           `json:"cover_letter,omitempty"`
}

// StepOutcome is the result of driving one step of a multi-step form.
type StepOutcome struct {
	FieldsFilled    int
	Challenge       ChallengeStatus
	Advanced        bool
	TerminalSuccess bool
}

// ApplicationOutcome is the final, durable result of one ApplyRequest. Every
// request produces exactly one outcome; failures are carried in Error, never
// as a panic or a propagated error.
type ApplicationOutcome struct {
	AttemptID  string      `json:"attempt_id"`
	Success    bool        `json:"success"`
	Method     ApplyMethod `json:"method"`
	Platform   Platform    `json:"platform"`
	JobURL     string      `json:"job_url"`
	Error      string      `json:"error,omitempty"`
	Screenshot string      `json:"screenshot,omitempty"`
	Timestamp  time.Time   `json:"timestamp"`
}
