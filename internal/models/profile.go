package models

import (
	"encoding/json"
	"strings"
	"time"
)

// ExperienceItem represents one entry in a profile's experience section.
type ExperienceItem struct {
	Title       string `json:"title"`
	Company     string `json:"company"`
	Duration    string `json:"duration"`
	Description string `json:"description"`
}

// ExtractionResult holds the fields produced by a single scrape attempt.
// A zero value ("" / nil / 0) means no strategy produced that field;
// such fields never overwrite previously stored data.
type ExtractionResult struct {
	FullName          string
	Headline          string
	AboutSection      string
	CurrentPosition   string
	Company           string
	ProfilePictureURL string
	Location          string
	Connections       string // text form, e.g. "500+"
	Followers         string // text form, e.g. "1,200"
	ConnectionsCount  int
	Skills            []string
	Experience        []ExperienceItem
	Education         []string
}

// IsEmpty reports whether no field was extracted at all.
func (r *ExtractionResult) IsEmpty() bool {
	if r == nil {
		return true
	}
	for _, s := range []string{
		r.FullName, r.Headline, r.AboutSection, r.CurrentPosition,
		r.Company, r.ProfilePictureURL, r.Location, r.Connections, r.Followers,
	} {
		if strings.TrimSpace(s) != "" {
			return false
		}
	}
	return r.ConnectionsCount == 0 &&
		len(r.Skills) == 0 && len(r.Experience) == 0 && len(r.Education) == 0
}

// ScrapeOutcome is the success/failure envelope returned to callers.
// Data is set when Success is true, Error when it is false.
type ScrapeOutcome struct {
	Success bool
	Data    *ExtractionResult
	Error   string
}

// Data source tags recorded on stored profiles.
const (
	SourceScraper   = "scraper"
	SourceExtension = "extension"
	SourceManual    = "manual"
)

// StoredProfile mirrors one row of the linkedin_profiles table.
// There is at most one per user. Skills, Experience and Education are
// persisted as JSON text columns.
type StoredProfile struct {
	ID                  int64
	UserID              int64
	FullName            string
	Headline            string
	AboutSection        string
	CurrentPosition     string
	Company             string
	ProfilePictureURL   string
	Location            string
	Connections         string
	Followers           string
	ConnectionsCount    int
	Skills              string // JSON array of strings
	Experience          string // JSON array of ExperienceItem
	Education           string // JSON array of strings
	LinkedInURL         string
	DataSource          string
	ExtractionTimestamp time.Time
	LastUpdated         time.Time
}

// SkillsList decodes the Skills column. Malformed JSON yields nil.
func (p *StoredProfile) SkillsList() []string {
	return decodeStringList(p.Skills)
}

// SetSkillsList encodes skills into the Skills column.
func (p *StoredProfile) SetSkillsList(skills []string) {
	p.Skills = encodeList(skills)
}

// ExperienceList decodes the Experience column. Malformed JSON yields nil.
func (p *StoredProfile) ExperienceList() []ExperienceItem {
	if p.Experience == "" {
		return nil
	}
	var items []ExperienceItem
	if err := json.Unmarshal([]byte(p.Experience), &items); err != nil {
		return nil
	}
	return items
}

// SetExperienceList encodes experience entries into the Experience column.
func (p *StoredProfile) SetExperienceList(items []ExperienceItem) {
	p.Experience = encodeList(items)
}

// EducationList decodes the Education column. Malformed JSON yields nil.
func (p *StoredProfile) EducationList() []string {
	return decodeStringList(p.Education)
}

// SetEducationList encodes education entries into the Education column.
func (p *StoredProfile) SetEducationList(entries []string) {
	p.Education = encodeList(entries)
}

func decodeStringList(raw string) []string {
	if raw == "" {
		return nil
	}
	var list []string
	if err := json.Unmarshal([]byte(raw), &list); err != nil {
		return nil
	}
	return list
}

func encodeList(v any) string {
	data, err := json.Marshal(v)
	if err != nil {
		return ""
	}
	return string(data)
}
