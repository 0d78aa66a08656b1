package database

import (
	"database/sql"
	"errors"
	"fmt"

	"linkedin-importer/internal/models"
)

// UserRepository handles user account operations
type UserRepository struct {
	db *sql.DB
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *DB) *UserRepository {
	return &UserRepository{db: db.GetConn()}
}

// FindByID returns the account with the given id
func (ur *UserRepository) FindByID(id int64) (*models.Account, error) {
	var account models.Account
	var url sql.NullString
	err := ur.db.QueryRow(`
		SELECT id, email, linkedin_profile_url FROM users WHERE id = ?
	`, id).Scan(&account.ID, &account.Email, &url)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("user %d not found", id)
	}
	if err != nil {
		return nil, err
	}
	account.LinkedInURL = url.String
	return &account, nil
}

// Create inserts a new account and returns its id
func (ur *UserRepository) Create(email string) (int64, error) {
	res, err := ur.db.Exec(`INSERT INTO users (email) VALUES (?)`, email)
	if err != nil {
		return 0, fmt.Errorf("failed to insert user %s: %w", email, err)
	}
	return res.LastInsertId()
}

// SetProfileURLTx records the user's linked profile URL within a transaction
func (ur *UserRepository) SetProfileURLTx(tx *sql.Tx, id int64, url string) error {
	_, err := tx.Exec(`
		UPDATE users SET linkedin_profile_url = ? WHERE id = ?
	`, url, id)
	return err
}
