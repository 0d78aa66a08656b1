package extract

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"linkedin-importer/internal/models"
)

const profileFixture = `<!DOCTYPE html>
<html>
<head>
  <title>John Doe | LinkedIn</title>
</head>
<body>
  <h1 class="break-words">John Doe - Senior Software Engineer</h1>
  <div class="text-body-medium break-words">Senior Software Engineer at Acme Corp</div>
  <div class="top-card__avatar"><img src="https://media.example.com/image/profile-photo.jpg"></div>
  <span class="top-card__subline-item">500+ connections</span>
  <span class="top-card__subline-item">1,234 followers</span>
  <span class="top-card__subline-item">San Francisco Bay Area</span>
  <section id="about">
    <div class="inline-show-more-text--is-collapsed">
      <span aria-hidden="true">Building distributed systems.</span>
      <span aria-hidden="true">Occasional conference speaker.</span>
    </div>
  </section>
  <section id="experience">
    <ul>
      <li class="pvs-list__item--line-separated">
        <div class="mr1 t-bold"><span aria-hidden="true">Senior Software Engineer</span></div>
        <span class="t-14 t-normal"><span aria-hidden="true">Acme Corp · Full-time</span></span>
        <span class="t-14 t-normal t-black--light"><span aria-hidden="true">Jan 2020 - Present · 5 yrs</span></span>
      </li>
      <li class="pvs-list__item--line-separated">
        <div class="mr1 t-bold"><span aria-hidden="true">Software Engineer</span></div>
        <span class="t-14 t-normal"><span aria-hidden="true">Widgets Inc</span></span>
        <span class="t-14 t-normal t-black--light"><span aria-hidden="true">2016 - 2020 · 4 yrs</span></span>
      </li>
    </ul>
  </section>
  <section id="skills">
    <div class="mr1 hoverable-link-text t-bold"><span>Go</span></div>
    <div class="mr1 hoverable-link-text t-bold"><span>Distributed Systems</span></div>
    <div class="mr1 hoverable-link-text t-bold"><span>SQL</span></div>
    <div class="mr1 hoverable-link-text t-bold"><span>Go</span></div>
  </section>
  <section id="education">
    <ul>
      <li class="pvs-list__item--line-separated">
        <div class="mr1 t-bold"><span aria-hidden="true">Stanford University</span></div>
      </li>
    </ul>
  </section>
</body>
</html>`

const metaOnlyFixture = `<!DOCTYPE html>
<html>
<head>
  <meta property="og:title" content="Jane Smith - Product Lead | LinkedIn">
  <meta name="description" content="Jane Smith: Product Lead at Widgets Inc | View profile">
  <meta property="og:description" content="Experienced product leader.">
</head>
<body><main></main></body>
</html>`

const structuredDataFixture = `<!DOCTYPE html>
<html>
<body>
  <script type="application/ld+json">{not valid json</script>
  <script type="application/ld+json">{"@type":"Organization","name":"Acme Corp"}</script>
  <script type="application/ld+json">{"@type":"Person","name":"Ada Lovelace - Analyst","description":"Works on analytical engines.","jobTitle":"Analyst"}</script>
</body>
</html>`

func parseFixture(t *testing.T, markup string) Document {
	t.Helper()
	doc, err := NewHTMLDocument(strings.NewReader(markup))
	require.NoError(t, err)
	return doc
}

func TestExtractFullProfile(t *testing.T) {
	doc := parseFixture(t, profileFixture)
	got := New(nil).Extract(doc)

	want := &models.ExtractionResult{
		FullName:          "John Doe",
		Headline:          "Senior Software Engineer at Acme Corp",
		AboutSection:      "Building distributed systems.\nOccasional conference speaker.",
		CurrentPosition:   "Senior Software Engineer",
		Company:           "Acme Corp",
		ProfilePictureURL: "https://media.example.com/image/profile-photo.jpg",
		Location:          "San Francisco Bay Area",
		Connections:       "500+",
		Followers:         "1,234",
		ConnectionsCount:  500,
		Skills:            []string{"Go", "Distributed Systems", "SQL"},
		Experience: []models.ExperienceItem{
			{
				Title:       "Senior Software Engineer",
				Company:     "Acme Corp",
				Duration:    "Jan 2020 - Present · 5 yrs",
				Description: "Senior Software Engineer at Acme Corp",
			},
			{
				Title:       "Software Engineer",
				Company:     "Widgets Inc",
				Duration:    "2016 - 2020 · 4 yrs",
				Description: "Software Engineer at Widgets Inc",
			},
		},
		Education: []string{"Stanford University"},
	}

	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("extraction mismatch (-want +got):\n%s", diff)
	}
}

func TestExtractMetaFallbacks(t *testing.T) {
	doc := parseFixture(t, metaOnlyFixture)
	got := New(nil).Extract(doc)

	assert.Equal(t, "Jane Smith", got.FullName)
	assert.Equal(t, "Product Lead at Widgets Inc", got.Headline)
	assert.Equal(t, "Product Lead", got.CurrentPosition)
	assert.Equal(t, "Widgets Inc", got.Company)
	assert.Equal(t, "Experienced product leader.", got.AboutSection)
}

func TestExtractStructuredData(t *testing.T) {
	doc := parseFixture(t, structuredDataFixture)
	got := New(nil).Extract(doc)

	assert.Equal(t, "Ada Lovelace", got.FullName)
	assert.Equal(t, "Works on analytical engines.", got.AboutSection)
	assert.Equal(t, "Analyst", got.CurrentPosition)
}

func TestExtractEmptyPage(t *testing.T) {
	doc := parseFixture(t, "<html><body><p>Sign in to continue</p></body></html>")
	got := New(nil).Extract(doc)
	assert.True(t, got.IsEmpty())
}

func TestSkillsCap(t *testing.T) {
	var b strings.Builder
	b.WriteString(`<html><body><section id="skills">`)
	for _, s := range []string{
		"Go", "Python", "Rust", "SQL", "Kafka", "Redis",
		"Kubernetes", "Terraform", "AWS", "GCP", "Azure", "C",
	} {
		b.WriteString(`<div class="mr1 hoverable-link-text t-bold"><span>` + s + `</span></div>`)
	}
	b.WriteString(`</section></body></html>`)

	doc := parseFixture(t, b.String())
	skills := extractSkills(doc)
	assert.Len(t, skills, maxSkills)
	assert.Equal(t, "Go", skills[0])
	assert.NotContains(t, skills, "Azure")
}

// panicDoc simulates a selector engine failure on any selector that
// contains the given substring.
type panicDoc struct {
	inner  Document
	substr string
}

func (p panicDoc) Find(selector string) Element {
	if strings.Contains(selector, p.substr) {
		panic("selector engine crashed")
	}
	return p.inner.Find(selector)
}

func (p panicDoc) FindAll(selector string) []Element {
	if strings.Contains(selector, p.substr) {
		panic("selector engine crashed")
	}
	return p.inner.FindAll(selector)
}

func TestFieldFaultIsolation(t *testing.T) {
	logger, hook := logtest.NewNullLogger()
	doc := panicDoc{inner: parseFixture(t, profileFixture), substr: "experience"}

	got := New(logger).Extract(doc)

	// The crashing strategies lose their fields; everything else survives.
	assert.Equal(t, "John Doe", got.FullName)
	assert.Equal(t, "Senior Software Engineer at Acme Corp", got.Headline)
	assert.Equal(t, []string{"Go", "Distributed Systems", "SQL"}, got.Skills)
	assert.Empty(t, got.Experience)

	require.NotEmpty(t, hook.Entries)
	assert.Equal(t, "field extraction failed", hook.LastEntry().Message)
	assert.Equal(t, "experience", hook.LastEntry().Data["field"])
}

func TestCleanName(t *testing.T) {
	tests := []struct{ in, want string }{
		{"John Doe - Senior Engineer", "John Doe"},
		{"John Doe: Building things", "John Doe"},
		{"John Doe | LinkedIn", "John Doe"},
		{"John Doe", "John Doe"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, cleanName(tt.in), "cleanName(%q)", tt.in)
	}
}

func TestParseCount(t *testing.T) {
	tests := []struct {
		in   string
		want int
	}{
		{"500+", 500},
		{"1,234", 1234},
		{"12", 12},
		{"", 0},
		{"n/a", 0},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, parseCount(tt.in), "parseCount(%q)", tt.in)
	}
}

func TestIsLocation(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"San Francisco Bay Area", true},
		{"Paris, France", true},
		{"Berlin", true},
		{"Greater Boston area", true},
		{"500+ connections", false},
		{"1,234 followers", false},
		{"Join now to see", false},
		{"NY", false},
		{strings.Repeat("x", 120), false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, isLocation(tt.in), "isLocation(%q)", tt.in)
	}
}
