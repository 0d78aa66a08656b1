package database

import (
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// DB represents the database connection
type DB struct {
	conn *sql.DB
}

// New creates a new database connection
func New(dbPath string) (*DB, error) {
	// Add connection parameters for better performance
	conn, err := sql.Open("sqlite3", fmt.Sprintf("%s?_journal_mode=WAL&_synchronous=NORMAL&_cache_size=10000&_timeout=5000", dbPath))
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Set connection pool settings
	conn.SetMaxOpenConns(1) // SQLite doesn't support multiple writers
	conn.SetMaxIdleConns(1)
	conn.SetConnMaxLifetime(time.Hour)

	db := &DB{conn: conn}

	// Initialize schema
	if err := db.InitSchema(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return db, nil
}

// NewFromConn wraps an existing connection without touching the schema.
// Used by tests that inject their own connection.
func NewFromConn(conn *sql.DB) *DB {
	return &DB{conn: conn}
}

// InitSchema creates all necessary tables if they don't exist yet
func (db *DB) InitSchema() error {
	createQueries := []string{
		`CREATE TABLE IF NOT EXISTS users (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			email TEXT UNIQUE NOT NULL,
			linkedin_profile_url TEXT,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)`,

		`CREATE TABLE IF NOT EXISTS linkedin_profiles (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			user_id INTEGER UNIQUE NOT NULL REFERENCES users(id),
			full_name TEXT NOT NULL DEFAULT '',
			headline TEXT NOT NULL DEFAULT '',
			about_section TEXT NOT NULL DEFAULT '',
			current_position TEXT NOT NULL DEFAULT '',
			company TEXT NOT NULL DEFAULT '',
			profile_picture_url TEXT NOT NULL DEFAULT '',
			location TEXT NOT NULL DEFAULT '',
			connections TEXT NOT NULL DEFAULT '',
			followers TEXT NOT NULL DEFAULT '',
			connections_count INTEGER NOT NULL DEFAULT 0,
			skills TEXT NOT NULL DEFAULT '',
			experience TEXT NOT NULL DEFAULT '',
			education TEXT NOT NULL DEFAULT '',
			linkedin_url TEXT NOT NULL DEFAULT '',
			data_source TEXT NOT NULL DEFAULT 'scraper',
			extraction_timestamp TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			last_updated TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE INDEX IF NOT EXISTS idx_profiles_user_id ON linkedin_profiles(user_id)`,
	}

	for _, query := range createQueries {
		if _, err := db.conn.Exec(query); err != nil {
			return fmt.Errorf("failed to create table: %w", err)
		}
	}

	return nil
}

// Close closes the database connection
func (db *DB) Close() error {
	return db.conn.Close()
}

// Begin starts a new transaction
func (db *DB) Begin() (*sql.Tx, error) {
	return db.conn.Begin()
}

// GetConn returns the underlying connection (for repositories)
func (db *DB) GetConn() *sql.DB {
	return db.conn
}
