package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFieldResolver_ValueFor(t *testing.T) {
	req := &ApplyRequest{
		JobURL: "https://careers.acme.com/job/1",
		Profile: &UserProfileData{
			FirstName: "Ada",
			LastName:  "Lovelace",
			FullName:  "Ada Lovelace",
			Email:     "ada@example.com",
			Phone:     "555-0100",
			Address:   "12 Analytical Way",
			City:      "London",
			State:     "LDN",
			ZipCode:   "E1 6AN",
			LinkedIn:  "https://linkedin.com/in/ada",
			Portfolio: "https://ada.dev",
		},
		ResumePath:  "/tmp/resume.pdf",
		CoverLetter: "Dear hiring team,",
	}

	resolver := NewFieldResolver()

	tests := []struct {
		kind FieldKind
		want string
	}{
		{FieldFirstName, "Ada"},
		{FieldLastName, "Lovelace"},
		{FieldFullName, "Ada Lovelace"},
		{FieldEmail, "ada@example.com"},
		{FieldPhone, "555-0100"},
		{FieldAddress, "12 Analytical Way"},
		{FieldCity, "London"},
		{FieldState, "LDN"},
		{FieldZip, "E1 6AN"},
		{FieldLinkedIn, "https://linkedin.com/in/ada"},
		{FieldWebsite, "https://ada.dev"},
		{FieldResumeFile, "/tmp/resume.pdf"},
		{FieldCoverLetterText, "Dear hiring team,"},
		{FieldUnknown, ""},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, resolver.ValueFor(tt.kind, req), "kind: %s", tt.kind)
	}
}

func TestFieldResolver_ValueFor_NilProfile(t *testing.T) {
	resolver := NewFieldResolver()
	req := &ApplyRequest{JobURL: "https://careers.acme.com/job/1"}

	assert.Empty(t, resolver.ValueFor(FieldEmail, req))
	assert.Empty(t, resolver.ValueFor(FieldResumeFile, req))
}

func TestFieldResolver_KindsPriorityOrder(t *testing.T) {
	kinds := NewFieldResolver().Kinds()

	assert.Equal(t, FieldFirstName, kinds[0])
	assert.Equal(t, FieldLastName, kinds[1])

	index := map[FieldKind]int{}
	for i, kind := range kinds {
		index[kind] = i
	}

	// Contact details come before uploads so that validation-on-blur forms
	// see the identity fields first.
	assert.Less(t, index[FieldEmail], index[FieldResumeFile])
	assert.Less(t, index[FieldPhone], index[FieldCoverLetterText])
	assert.NotContains(t, kinds, FieldUnknown)
}
