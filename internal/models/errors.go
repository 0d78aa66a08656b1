package models

import (
	"errors"
	"fmt"
)

// Sentinel errors shared across the extraction pipeline.
var (
	// ErrDriverSetup means no browser could be acquired by any strategy.
	ErrDriverSetup = errors.New("browser driver setup failed")

	// ErrNoData means the fallback engine fetched the page but every
	// extracted field came back empty.
	ErrNoData = errors.New("no profile data could be extracted")
)

// InvalidURLError reports a malformed profile URL. It is surfaced to the
// caller verbatim and never retried.
type InvalidURLError struct {
	Reason string
}

func (e *InvalidURLError) Error() string {
	return "invalid profile URL: " + e.Reason
}

// FetchError reports a non-200 response from the fallback engine.
type FetchError struct {
	StatusCode int
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("profile fetch failed with status %d", e.StatusCode)
}

// PersistenceError wraps a storage failure during merge/upsert. The
// transaction has already been rolled back when it is returned.
type PersistenceError struct {
	Err error
}

func (e *PersistenceError) Error() string {
	return "failed to save profile data: " + e.Err.Error()
}

func (e *PersistenceError) Unwrap() error { return e.Err }
