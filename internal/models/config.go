package models

import "time"

// Config represents the application configuration
type Config struct {
	DBPath             string
	ChromePath         string
	Headless           bool
	ScrapeDelay        time.Duration // inter-request delay, never below 2s
	RequestTimeout     time.Duration // HTTP fallback request timeout
	ContentWaitTimeout time.Duration // bounded wait for the main landmark
	MaxJobs            int64         // concurrent scrape jobs in the runner
	LogLevel           string
}

// Account represents a registered user whose profile URL is being linked
type Account struct {
	ID          int64
	Email       string
	LinkedInURL string
}
