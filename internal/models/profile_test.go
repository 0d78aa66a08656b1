package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractionResultIsEmpty(t *testing.T) {
	var nilResult *ExtractionResult
	assert.True(t, nilResult.IsEmpty())
	assert.True(t, (&ExtractionResult{}).IsEmpty())
	assert.True(t, (&ExtractionResult{FullName: "   "}).IsEmpty())

	assert.False(t, (&ExtractionResult{FullName: "John Doe"}).IsEmpty())
	assert.False(t, (&ExtractionResult{ConnectionsCount: 500}).IsEmpty())
	assert.False(t, (&ExtractionResult{Skills: []string{"Go"}}).IsEmpty())
	assert.False(t, (&ExtractionResult{Experience: []ExperienceItem{{Title: "Engineer"}}}).IsEmpty())
}

func TestStoredProfileListColumns(t *testing.T) {
	var p StoredProfile

	p.SetSkillsList([]string{"Go", "SQL"})
	assert.Equal(t, []string{"Go", "SQL"}, p.SkillsList())

	p.SetExperienceList([]ExperienceItem{{Title: "Engineer", Company: "Acme"}})
	items := p.ExperienceList()
	assert.Len(t, items, 1)
	assert.Equal(t, "Acme", items[0].Company)

	// Malformed or absent column content decodes to nil, never an error.
	p.Skills = "{broken"
	assert.Nil(t, p.SkillsList())
	p.Education = ""
	assert.Nil(t, p.EducationList())
}

func TestFetchErrorMessage(t *testing.T) {
	err := &FetchError{StatusCode: 999}
	assert.Equal(t, "profile fetch failed with status 999", err.Error())
}

func TestPersistenceErrorUnwrap(t *testing.T) {
	inner := assert.AnError
	err := &PersistenceError{Err: inner}
	assert.ErrorIs(t, err, inner)
	assert.Contains(t, err.Error(), "failed to save profile data")
}
