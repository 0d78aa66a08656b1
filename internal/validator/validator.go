// Package validator normalizes and validates LinkedIn profile URLs.
// Validation is purely syntactic; no network access is performed.
package validator

import (
	"net/url"
	"strings"

	"linkedin-importer/internal/models"
)

const (
	platformDomain = "linkedin.com"
	profileMarker  = "/in/"
)

// ValidateProfileURL checks that raw points at a LinkedIn profile page
// and returns the normalized absolute URL. A missing scheme is repaired
// by prepending https://.
func ValidateProfileURL(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", &models.InvalidURLError{Reason: "URL is required"}
	}

	if !strings.HasPrefix(raw, "http://") && !strings.HasPrefix(raw, "https://") {
		raw = "https://" + raw
	}

	parsed, err := url.Parse(raw)
	if err != nil {
		return "", &models.InvalidURLError{Reason: "URL is malformed"}
	}

	if !strings.Contains(parsed.Host, platformDomain) {
		return "", &models.InvalidURLError{Reason: "must be a LinkedIn URL"}
	}

	if !strings.Contains(parsed.Path, profileMarker) {
		return "", &models.InvalidURLError{Reason: "must be a LinkedIn profile URL (linkedin.com/in/username)"}
	}

	return raw, nil
}

// ProfileSlug extracts the public identifier from a profile URL, e.g.
// "johndoe" from linkedin.com/in/johndoe. Returns "" when absent.
func ProfileSlug(profileURL string) string {
	idx := strings.Index(profileURL, profileMarker)
	if idx < 0 {
		return ""
	}
	slug := profileURL[idx+len(profileMarker):]
	if cut := strings.IndexAny(slug, "/?#"); cut >= 0 {
		slug = slug[:cut]
	}
	if decoded, err := url.QueryUnescape(slug); err == nil {
		return decoded
	}
	return slug
}
