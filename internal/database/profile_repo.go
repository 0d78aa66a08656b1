package database

import (
	"database/sql"
	"errors"

	"linkedin-importer/internal/models"
)

const profileColumns = `id, user_id, full_name, headline, about_section,
	current_position, company, profile_picture_url, location,
	connections, followers, connections_count, skills, experience,
	education, linkedin_url, data_source, extraction_timestamp, last_updated`

// ProfileRepository handles stored profile rows
type ProfileRepository struct {
	db *sql.DB
}

// NewProfileRepository creates a new profile repository
func NewProfileRepository(db *DB) *ProfileRepository {
	return &ProfileRepository{db: db.GetConn()}
}

// FindByUserID returns the stored profile for a user, or nil when none exists
func (pr *ProfileRepository) FindByUserID(userID int64) (*models.StoredProfile, error) {
	row := pr.db.QueryRow(`SELECT `+profileColumns+` FROM linkedin_profiles WHERE user_id = ?`, userID)
	return scanProfile(row)
}

// FindByUserIDTx is FindByUserID within a transaction
func (pr *ProfileRepository) FindByUserIDTx(tx *sql.Tx, userID int64) (*models.StoredProfile, error) {
	row := tx.QueryRow(`SELECT `+profileColumns+` FROM linkedin_profiles WHERE user_id = ?`, userID)
	return scanProfile(row)
}

// CreateTx inserts a new profile row within a transaction
func (pr *ProfileRepository) CreateTx(tx *sql.Tx, p *models.StoredProfile) error {
	res, err := tx.Exec(`
		INSERT INTO linkedin_profiles (
			user_id, full_name, headline, about_section, current_position,
			company, profile_picture_url, location, connections, followers,
			connections_count, skills, experience, education, linkedin_url,
			data_source, extraction_timestamp, last_updated
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		p.UserID, p.FullName, p.Headline, p.AboutSection, p.CurrentPosition,
		p.Company, p.ProfilePictureURL, p.Location, p.Connections, p.Followers,
		p.ConnectionsCount, p.Skills, p.Experience, p.Education, p.LinkedInURL,
		p.DataSource, p.ExtractionTimestamp, p.LastUpdated,
	)
	if err != nil {
		return err
	}
	if id, err := res.LastInsertId(); err == nil {
		p.ID = id
	}
	return nil
}

// UpdateTx rewrites a profile row within a transaction
func (pr *ProfileRepository) UpdateTx(tx *sql.Tx, p *models.StoredProfile) error {
	_, err := tx.Exec(`
		UPDATE linkedin_profiles SET
			full_name = ?, headline = ?, about_section = ?,
			current_position = ?, company = ?, profile_picture_url = ?,
			location = ?, connections = ?, followers = ?,
			connections_count = ?, skills = ?, experience = ?, education = ?,
			linkedin_url = ?, data_source = ?, last_updated = ?
		WHERE user_id = ?
	`,
		p.FullName, p.Headline, p.AboutSection,
		p.CurrentPosition, p.Company, p.ProfilePictureURL,
		p.Location, p.Connections, p.Followers,
		p.ConnectionsCount, p.Skills, p.Experience, p.Education,
		p.LinkedInURL, p.DataSource, p.LastUpdated,
		p.UserID,
	)
	return err
}

func scanProfile(row *sql.Row) (*models.StoredProfile, error) {
	var p models.StoredProfile
	err := row.Scan(
		&p.ID, &p.UserID, &p.FullName, &p.Headline, &p.AboutSection,
		&p.CurrentPosition, &p.Company, &p.ProfilePictureURL, &p.Location,
		&p.Connections, &p.Followers, &p.ConnectionsCount, &p.Skills,
		&p.Experience, &p.Education, &p.LinkedInURL, &p.DataSource,
		&p.ExtractionTimestamp, &p.LastUpdated,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}
