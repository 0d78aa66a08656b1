package extract

import (
	"encoding/json"
	"regexp"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"

	"linkedin-importer/internal/models"
)

// Caps bounding extraction cost and payload size.
const (
	maxSkills     = 10
	maxExperience = 3
	maxEducation  = 3
)

// Extractor runs every field extractor against a Document. Each field is
// independently fault-isolated: a panic or missing element in one
// field's strategies is logged and treated as "nothing extracted", and
// the remaining fields are still attempted.
type Extractor struct {
	log *logrus.Logger
}

// New creates an Extractor logging strategy failures to log.
func New(log *logrus.Logger) *Extractor {
	if log == nil {
		log = logrus.New()
	}
	return &Extractor{log: log}
}

// Extract runs all field extractors and returns the collected result.
func (e *Extractor) Extract(doc Document) *models.ExtractionResult {
	res := &models.ExtractionResult{}

	e.field("full_name", func() { res.FullName = extractName(doc) })
	e.field("headline", func() { res.Headline = extractHeadline(doc, res.FullName) })
	e.field("about_section", func() { res.AboutSection = extractAbout(doc) })
	e.field("position_company", func() { extractPositionCompany(doc, res) })
	e.field("profile_picture_url", func() { res.ProfilePictureURL = extractPicture(doc) })
	e.field("location", func() { res.Location = extractLocation(doc) })
	e.field("connections_followers", func() { extractStats(doc, res) })
	e.field("skills", func() { res.Skills = extractSkills(doc) })
	e.field("experience", func() { extractExperience(doc, res) })
	e.field("education", func() { res.Education = extractEducation(doc) })
	e.field("structured_data", func() { applyStructuredData(doc, res) })

	return res
}

// field runs one extractor, containing any panic so that a broken
// strategy cannot abort the other fields.
func (e *Extractor) field(name string, fn func()) {
	defer func() {
		if r := recover(); r != nil {
			e.log.WithFields(logrus.Fields{
				"field": name,
				"panic": r,
			}).Warn("field extraction failed")
		}
	}()
	fn()
}

// firstText walks an ordered selector list and returns the first
// trimmed element text accepted by valid. A nil valid accepts any
// non-empty text.
func firstText(doc Document, selectors []string, valid func(string) bool) string {
	for _, selector := range selectors {
		for _, el := range doc.FindAll(selector) {
			text := strings.TrimSpace(el.Text())
			if text == "" {
				continue
			}
			if valid == nil || valid(text) {
				return text
			}
		}
	}
	return ""
}

func metaContent(doc Document, selector string) string {
	el := doc.Find(selector)
	if el == nil {
		return ""
	}
	return strings.TrimSpace(el.Attr("content"))
}

var (
	nameSplitRe       = regexp.MustCompile(` - |:|\|`)
	positionSplitRe   = regexp.MustCompile(`^(.*?)\s+(?:at|@)\s+(.+?)(?:\s*\||$)`)
	statCountRe       = regexp.MustCompile(`(?i)(\d+(?:,\d+)*\+?)\s*(connections?|followers?)`)
	connectionsRe     = regexp.MustCompile(`(?i)(\d+(?:,\d+)*\+?)\s*connections?`)
	followersRe       = regexp.MustCompile(`(?i)(\d+(?:,\d+)*\+?)\s*followers?`)
	capitalizedPlace  = regexp.MustCompile(`^[A-Z][a-z]+(?:,\s*[A-Z][a-z]+)*$`)
	digitsRe          = regexp.MustCompile(`\d+`)
	locationIndicator = []string{
		"city", "state", "country", "region", "area", "district",
		"province", "county", "territory",
	}
)

var nameSelectors = []string{
	"h1.break-words",
	`h1[class*="break-words"]`,
	".top-card-layout__title",
	".pv-text-details__left-panel h1",
	"h1.text-heading-xlarge",
}

func extractName(doc Document) string {
	if name := firstText(doc, nameSelectors, nil); name != "" {
		return cleanName(name)
	}

	// Meta tag fallback: og:title carries "Name | LinkedIn".
	if title := metaContent(doc, `meta[property="og:title"]`); title != "" {
		name, _, _ := strings.Cut(title, " | ")
		return cleanName(name)
	}

	return ""
}

// cleanName strips trailing titles and descriptions, keeping only the
// segment before the first separator.
func cleanName(raw string) string {
	return strings.TrimSpace(nameSplitRe.Split(raw, 2)[0])
}

var headlineSelectors = []string{
	"div.text-body-medium.break-words",
	".top-card-layout__headline",
	".pv-text-details__left-panel .text-body-medium",
	".top-card__subline-item",
	"h2.top-card-layout__headline",
}

func extractHeadline(doc Document, fullName string) string {
	headline := firstText(doc, headlineSelectors, func(text string) bool {
		return len(text) > 10 // ensure it's substantial
	})
	if headline != "" {
		return headline
	}

	// Meta description fallback: descriptions read "First Last: headline | ...".
	desc := metaContent(doc, `meta[name="description"]`)
	if desc == "" || fullName == "" {
		return ""
	}
	first, _, _ := strings.Cut(fullName, " ")
	re, err := regexp.Compile(regexp.QuoteMeta(first) + `.*?:\s*(.*?)(?:\s*\|\s*|$)`)
	if err != nil {
		return ""
	}
	if m := re.FindStringSubmatch(desc); len(m) > 1 {
		return strings.TrimSpace(m[1])
	}
	return ""
}

var aboutSelectors = []string{
	"#about + * .full-width",
	".pv-shared-text-with-see-more .full-width span",
	`section[data-section="summary"] .pv-shared-text-with-see-more`,
	".core-section-container__content .full-width span",
}

func extractAbout(doc Document) string {
	// Prefer the expanded text variant inside the about section: the
	// visible copy lives in spans marked aria-hidden="true".
	if section := doc.Find("section#about"); section != nil {
		if container := section.Find(`div[class*="inline-show-more-text"]`); container != nil {
			var parts []string
			for _, span := range container.FindAll(`span[aria-hidden="true"]`) {
				if text := strings.TrimSpace(span.Text()); text != "" {
					parts = append(parts, text)
				}
			}
			if len(parts) > 0 {
				return strings.Join(parts, "\n")
			}
			if text := strings.TrimSpace(container.Text()); text != "" {
				return text
			}
		}
	}

	if about := firstText(doc, aboutSelectors, func(text string) bool {
		return len(text) > 50
	}); about != "" {
		return about
	}

	// Meta fallback, truncated to keep the payload bounded.
	if desc := metaContent(doc, `meta[property="og:description"]`); desc != "" {
		if len(desc) > 500 {
			desc = desc[:500]
		}
		return desc
	}

	return ""
}

var positionSelectors = []string{
	".top-card-layout__headline",
	".pv-text-details__left-panel .text-body-medium",
	`section#experience ul li:first-child .t-bold span[aria-hidden="true"]`,
	"section#experience .pv-entity__summary-info h3",
	".top-card__position",
}

var companySelectors = []string{
	`section#experience ul li:first-child .t-normal span[aria-hidden="true"]`,
	"section#experience .pv-entity__secondary-title",
	".top-card__position-info .top-card__flavor-line",
}

func extractPositionCompany(doc Document, res *models.ExtractionResult) {
	res.CurrentPosition = firstText(doc, positionSelectors, func(text string) bool {
		// Avoid texts in the "at Company" form; those belong to the company line.
		prefix := strings.ToLower(text)
		if len(prefix) > 10 {
			prefix = prefix[:10]
		}
		return !strings.Contains(prefix, "at")
	})

	res.Company = firstText(doc, companySelectors, nil)
	if res.Company != "" {
		res.Company = cleanCompany(res.Company)
	}

	// Derive both from the headline when no dedicated selector matched:
	// "Title at Company", "Title @ Company", trailing "| ..." trimmed.
	if res.CurrentPosition == "" && res.Headline != "" {
		if m := positionSplitRe.FindStringSubmatch(res.Headline); len(m) > 2 {
			res.CurrentPosition = strings.TrimSpace(m[1])
			if res.Company == "" {
				res.Company = strings.TrimSpace(m[2])
			}
		}
	}
}

// cleanCompany drops employment-type suffixes such as "Acme · Full-time".
func cleanCompany(raw string) string {
	raw, _, _ = strings.Cut(raw, "·")
	raw, _, _ = strings.Cut(raw, "•")
	return strings.TrimSpace(raw)
}

var pictureSelectors = []string{
	"img.profile-photo-edit__preview",
	".top-card__avatar img",
	".pv-top-card-profile-picture__image",
	".profile-photo-edit img",
	`img[data-delayed-url*="profile-picture"]`,
}

func extractPicture(doc Document) string {
	for _, selector := range pictureSelectors {
		for _, el := range doc.FindAll(selector) {
			src := el.Attr("src")
			if src == "" {
				continue
			}
			if strings.Contains(src, "profile") || strings.Contains(src, "avatar") {
				return src
			}
		}
	}
	return ""
}

var locationSelectors = []string{
	".top-card__subline-item",
	".pv-text-details__left-panel .text-body-small",
	".top-card-layout__first-subline",
	"span.text-body-small",
}

func extractLocation(doc Document) string {
	return firstText(doc, locationSelectors, isLocation)
}

// isLocation filters out the stat lines and calls to action that share
// the location's selectors on public profiles.
func isLocation(text string) bool {
	lower := strings.ToLower(text)
	if statCountRe.MatchString(lower) || strings.HasPrefix(lower, "join") {
		return false
	}
	if len(text) <= 3 || len(text) >= 100 {
		return false
	}
	for _, indicator := range locationIndicator {
		if strings.Contains(lower, indicator) {
			return true
		}
	}
	return capitalizedPlace.MatchString(text)
}

var statsSelectors = []string{
	".top-card__subline-item",
	".pv-text-details__left-panel .text-body-small",
	"span.t-bold",
	".top-card-layout__first-subline",
	`a[href*="connections"]`,
}

func extractStats(doc Document, res *models.ExtractionResult) {
	for _, selector := range statsSelectors {
		for _, el := range doc.FindAll(selector) {
			text := strings.ToLower(strings.TrimSpace(el.Text()))
			if text == "" {
				continue
			}

			if res.Followers == "" && strings.Contains(text, "follower") {
				if m := followersRe.FindStringSubmatch(text); len(m) > 1 {
					res.Followers = m[1]
				}
			}

			if res.Connections == "" && strings.Contains(text, "connection") {
				if m := connectionsRe.FindStringSubmatch(text); len(m) > 1 {
					res.Connections = m[1]
				}
			}
		}
	}

	if res.Connections != "" {
		res.ConnectionsCount = parseCount(res.Connections)
	}
}

// parseCount reads the leading digit group of a stat like "1,234+".
func parseCount(stat string) int {
	stat = strings.ReplaceAll(stat, ",", "")
	m := digitsRe.FindString(stat)
	if m == "" {
		return 0
	}
	n, err := strconv.Atoi(m)
	if err != nil {
		return 0
	}
	return n
}

func extractSkills(doc Document) []string {
	section := doc.Find(`section[data-section="skills"]`)
	if section == nil {
		section = doc.Find("section#skills")
	}
	if section == nil {
		return nil
	}

	var skills []string
	seen := make(map[string]bool)
	for _, el := range section.FindAll(".mr1.hoverable-link-text.t-bold span") {
		skill := strings.TrimSpace(el.Text())
		if skill == "" || seen[skill] {
			continue
		}
		seen[skill] = true
		skills = append(skills, skill)
		if len(skills) >= maxSkills {
			break
		}
	}
	return skills
}

func extractExperience(doc Document, res *models.ExtractionResult) {
	section := doc.Find(`section[data-section="experience"]`)
	if section == nil {
		section = doc.Find("section#experience")
	}
	if section == nil {
		return
	}

	items := section.FindAll(".pvs-list__item--line-separated")
	if len(items) == 0 {
		items = section.FindAll("ul > li")
	}

	for i, item := range items {
		if len(res.Experience) >= maxExperience {
			break
		}

		title := elementText(item, ".mr1.t-bold span")
		company := elementText(item, ".t-14.t-normal span")
		if title == "" && company == "" {
			continue
		}

		duration := "Present"
		if spans := item.FindAll(".t-14.t-normal.t-black--light span"); len(spans) > 0 {
			if text := strings.TrimSpace(spans[len(spans)-1].Text()); text != "" {
				duration = text
			}
		}

		res.Experience = append(res.Experience, models.ExperienceItem{
			Title:       title,
			Company:     cleanCompany(company),
			Duration:    duration,
			Description: title + " at " + cleanCompany(company),
		})

		// The first entry is the current role.
		if i == 0 {
			if res.CurrentPosition == "" {
				res.CurrentPosition = title
			}
			if res.Company == "" {
				res.Company = cleanCompany(company)
			}
		}
	}
}

func extractEducation(doc Document) []string {
	section := doc.Find(`section[data-section="education"]`)
	if section == nil {
		section = doc.Find("section#education")
	}
	if section == nil {
		return nil
	}

	items := section.FindAll(".pvs-list__item--line-separated")
	if len(items) == 0 {
		items = section.FindAll("ul > li")
	}

	var schools []string
	for _, item := range items {
		if len(schools) >= maxEducation {
			break
		}
		if school := elementText(item, ".mr1.t-bold span"); school != "" {
			schools = append(schools, school)
		}
	}
	return schools
}

func elementText(el Element, selector string) string {
	child := el.Find(selector)
	if child == nil {
		return ""
	}
	return strings.TrimSpace(child.Text())
}

// personSchema is the subset of the JSON-LD Person block used as a last
// resort for fields every other strategy missed.
type personSchema struct {
	Type        string `json:"@type"`
	Name        string `json:"name"`
	Description string `json:"description"`
	JobTitle    string `json:"jobTitle"`
}

func applyStructuredData(doc Document, res *models.ExtractionResult) {
	if res.FullName != "" && res.AboutSection != "" && res.CurrentPosition != "" {
		return
	}

	for _, script := range doc.FindAll(`script[type="application/ld+json"]`) {
		var person personSchema
		if err := json.Unmarshal([]byte(script.Text()), &person); err != nil {
			continue
		}
		if person.Type != "Person" {
			continue
		}
		if res.FullName == "" && person.Name != "" {
			res.FullName = cleanName(person.Name)
		}
		if res.AboutSection == "" && person.Description != "" {
			res.AboutSection = person.Description
		}
		if res.CurrentPosition == "" && person.JobTitle != "" {
			res.CurrentPosition = person.JobTitle
		}
	}
}
