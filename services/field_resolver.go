package services

import (
	"github.com/playwright-community/playwright-go"
)

// FieldKind is a semantic field concept, independent of how a particular
// form labels or structures its inputs.
type FieldKind string

const (
	FieldFirstName       FieldKind = "first_name"
	FieldLastName        FieldKind = "last_name"
	FieldFullName        FieldKind = "full_name"
	FieldEmail           FieldKind = "email"
	FieldPhone           FieldKind = "phone"
	FieldAddress         FieldKind = "address"
	FieldCity            FieldKind = "city"
	FieldState           FieldKind = "state"
	FieldZip             FieldKind = "zip"
	FieldLinkedIn        FieldKind = "linkedin_url"
	FieldWebsite         FieldKind = "website_url"
	FieldResumeFile      FieldKind = "resume_file"
	FieldCoverLetterText FieldKind = "cover_letter_text"
	FieldCoverLetterFile FieldKind = "cover_letter_file"
	FieldUnknown         FieldKind = "unknown"
)

type fieldRule struct {
	Kind      FieldKind
	Selectors []string
}

// defaultFieldRules lists detection rules in fill priority order: name and
// contact fields first, then address, professional links, and uploads.
// Per kind, selectors run most-specific first because real-world forms are
// wildly inconsistent.
func defaultFieldRules() []fieldRule {
	return []fieldRule{
		{FieldFirstName, []string{
			"input[name='first_name']",
			"input[name='firstName']",
			"input[name*='first']",
			"input[id*='first']",
			"input[placeholder*='First']",
			"input[aria-label*='First Name']",
		}},
		{FieldLastName, []string{
			"input[name='last_name']",
			"input[name='lastName']",
			"input[name*='last']",
			"input[id*='last']",
			"input[placeholder*='Last']",
			"input[aria-label*='Last Name']",
		}},
		{FieldFullName, []string{
			"input[name='full_name']",
			"input[name='fullName']",
			"input[name='name']",
			"input[placeholder*='Full Name']",
			"input[placeholder*='Your Name']",
		}},
		{FieldEmail, []string{
			"input[type='email']",
			"input[name*='email']",
			"input[id*='email']",
			"input[placeholder*='Email']",
		}},
		{FieldPhone, []string{
			"input[type='tel']",
			"input[name*='phone']",
			"input[id*='phone']",
			"input[placeholder*='Phone']",
		}},
		{FieldAddress, []string{
			"input[name*='address']",
			"input[id*='address']",
		}},
		{FieldCity, []string{
			"input[name*='city']",
			"input[id*='city']",
		}},
		{FieldState, []string{
			"input[name*='state']",
			"input[id*='state']",
		}},
		{FieldZip, []string{
			"input[name*='zip']",
			"input[name*='postal']",
		}},
		{FieldLinkedIn, []string{
			"input[name*='linkedin']",
			"input[id*='linkedin']",
			"input[placeholder*='LinkedIn']",
		}},
		{FieldWebsite, []string{
			"input[name*='website']",
			"input[name*='portfolio']",
		}},
		{FieldResumeFile, []string{
			"input[type='file'][name*='resume']",
			"input[type='file'][id*='resume']",
			"input[type='file'][name*='cv']",
			"input[type='file']",
		}},
		{FieldCoverLetterText, []string{
			"textarea[name*='cover']",
			"textarea[id*='cover']",
		}},
		{FieldCoverLetterFile, []string{
			"input[type='file'][name*='cover']",
			"input[type='file'][id*='cover']",
		}},
	}
}

// FieldResolver maps semantic field kinds to page locators and to concrete
// values from the apply request. Detection returns present/absent, never an
// error: a selector that matches nothing is normal operation.
type FieldResolver struct {
	rules []fieldRule
}

func NewFieldResolver() *FieldResolver {
	return &FieldResolver{rules: defaultFieldRules()}
}

// Kinds returns the semantic field kinds in fill priority order.
func (r *FieldResolver) Kinds() []FieldKind {
	kinds := make([]FieldKind, 0, len(r.rules))
	for _, rule := range r.rules {
		kinds = append(kinds, rule.Kind)
	}
	return kinds
}

// Detect returns the first visible element matching one of the kind's
// selectors, or false if none matches.
func (r *FieldResolver) Detect(page playwright.Page, kind FieldKind) (playwright.Locator, bool) {
	for _, rule := range r.rules {
		if rule.Kind != kind {
			continue
		}
		for _, selector := range rule.Selectors {
			element := page.Locator(selector).First()
			if count, err := element.Count(); err != nil || count == 0 {
				continue
			}
			// File inputs are frequently hidden behind styled drop zones,
			// so presence is enough for them.
			if kind == FieldResumeFile || kind == FieldCoverLetterFile {
				return element, true
			}
			if visible, err := element.IsVisible(); err == nil && visible {
				return element, true
			}
		}
		return nil, false
	}
	return nil, false
}

// ValueFor looks up the value for a semantic kind from the request. An empty
// return means "skip this field", never an error.
func (r *FieldResolver) ValueFor(kind FieldKind, req *ApplyRequest) string {
	profile := req.Profile
	if profile == nil {
		profile = &UserProfileData{}
	}
	switch kind {
	case FieldFirstName:
		return profile.FirstName
	case FieldLastName:
		return profile.LastName
	case FieldFullName:
		return profile.FullName
	case FieldEmail:
		return profile.Email
	case FieldPhone:
		return profile.Phone
	case FieldAddress:
		return profile.Address
	case FieldCity:
		return profile.City
	case FieldState:
		return profile.State
	case FieldZip:
		return profile.ZipCode
	case FieldLinkedIn:
		return profile.LinkedIn
	case FieldWebsite:
		return profile.Portfolio
	case FieldResumeFile:
		return req.ResumePath
	case FieldCoverLetterText:
		return req.CoverLetter
	}
	return ""
}
