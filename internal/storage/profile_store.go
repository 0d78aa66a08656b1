// Package storage implements the merge/upsert contract between an
// extraction result and a user's stored profile.
package storage

import (
	"strings"
	"sync"
	"time"

	"linkedin-importer/internal/database"
	"linkedin-importer/internal/models"
)

// ProfileStore reconciles extraction results with stored profiles.
// Writes are serialized: at most one merge runs at a time, which keeps
// the single-writer-per-account discipline without row locking.
type ProfileStore struct {
	db       *database.DB
	profiles *database.ProfileRepository
	users    *database.UserRepository
	mutex    sync.Mutex

	now func() time.Time // injectable for tests
}

// NewProfileStore creates a store over the given database.
func NewProfileStore(db *database.DB) *ProfileStore {
	return &ProfileStore{
		db:       db,
		profiles: database.NewProfileRepository(db),
		users:    database.NewUserRepository(db),
		now:      time.Now,
	}
}

// Upsert merges a scrape result into the user's stored profile. Fields
// the result did not produce are left untouched; the whole operation
// commits atomically or not at all.
func (ps *ProfileStore) Upsert(userID int64, res *models.ExtractionResult, sourceURL string) error {
	return ps.merge(userID, res, sourceURL, models.SourceScraper)
}

// SaveManual stores user-entered profile data through the same merge
// path, tagged as a manual import.
func (ps *ProfileStore) SaveManual(userID int64, res *models.ExtractionResult, sourceURL string) error {
	return ps.merge(userID, res, sourceURL, models.SourceManual)
}

// Find returns the stored profile for a user, or nil when none exists.
func (ps *ProfileStore) Find(userID int64) (*models.StoredProfile, error) {
	return ps.profiles.FindByUserID(userID)
}

func (ps *ProfileStore) merge(userID int64, res *models.ExtractionResult, sourceURL, source string) error {
	ps.mutex.Lock()
	defer ps.mutex.Unlock()

	tx, err := ps.db.Begin()
	if err != nil {
		return &models.PersistenceError{Err: err}
	}
	defer tx.Rollback()

	existing, err := ps.profiles.FindByUserIDTx(tx, userID)
	if err != nil {
		return &models.PersistenceError{Err: err}
	}

	now := ps.now()

	if existing != nil {
		applyResult(existing, res)
		existing.LinkedInURL = sourceURL
		existing.DataSource = source
		existing.LastUpdated = now
		if err := ps.profiles.UpdateTx(tx, existing); err != nil {
			return &models.PersistenceError{Err: err}
		}
	} else {
		created := &models.StoredProfile{
			UserID:              userID,
			LinkedInURL:         sourceURL,
			DataSource:          source,
			ExtractionTimestamp: now,
			LastUpdated:         now,
		}
		applyResult(created, res)
		if err := ps.profiles.CreateTx(tx, created); err != nil {
			return &models.PersistenceError{Err: err}
		}
	}

	if err := ps.users.SetProfileURLTx(tx, userID, sourceURL); err != nil {
		return &models.PersistenceError{Err: err}
	}

	if err := tx.Commit(); err != nil {
		return &models.PersistenceError{Err: err}
	}
	return nil
}

// applyResult copies every present field of the result onto the stored
// profile. The field list is deliberately explicit: only known fields
// are merged, and empty values never clobber stored data.
func applyResult(p *models.StoredProfile, res *models.ExtractionResult) {
	if res == nil {
		return
	}

	setNonEmpty(&p.FullName, res.FullName)
	setNonEmpty(&p.Headline, res.Headline)
	setNonEmpty(&p.AboutSection, res.AboutSection)
	setNonEmpty(&p.CurrentPosition, res.CurrentPosition)
	setNonEmpty(&p.Company, res.Company)
	setNonEmpty(&p.ProfilePictureURL, res.ProfilePictureURL)
	setNonEmpty(&p.Location, res.Location)
	setNonEmpty(&p.Connections, res.Connections)
	setNonEmpty(&p.Followers, res.Followers)

	if res.ConnectionsCount > 0 {
		p.ConnectionsCount = res.ConnectionsCount
	}
	if len(res.Skills) > 0 {
		p.SetSkillsList(res.Skills)
	}
	if len(res.Experience) > 0 {
		p.SetExperienceList(res.Experience)
	}
	if len(res.Education) > 0 {
		p.SetEducationList(res.Education)
	}
}

func setNonEmpty(dst *string, value string) {
	if trimmed := strings.TrimSpace(value); trimmed != "" {
		*dst = trimmed
	}
}
