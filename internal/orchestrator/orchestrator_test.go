package orchestrator

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"linkedin-importer/internal/models"
)

type stubEngine struct {
	res   *models.ExtractionResult
	err   error
	calls int
}

func (s *stubEngine) Scrape(_ context.Context, _ string) (*models.ExtractionResult, error) {
	s.calls++
	return s.res, s.err
}

type stubStore struct {
	err   error
	calls int

	userID    int64
	res       *models.ExtractionResult
	sourceURL string
}

func (s *stubStore) Upsert(userID int64, res *models.ExtractionResult, sourceURL string) error {
	s.calls++
	s.userID = userID
	s.res = res
	s.sourceURL = sourceURL
	return s.err
}

func TestExtractAndStorePrimarySucceeds(t *testing.T) {
	res := &models.ExtractionResult{FullName: "John Doe"}
	primary := &stubEngine{res: res}
	fallback := &stubEngine{res: &models.ExtractionResult{FullName: "wrong engine"}}
	store := &stubStore{}

	o := New(primary, fallback, store, nil)
	out := o.ExtractAndStore(context.Background(), 42, "linkedin.com/in/johndoe")

	require.True(t, out.Success)
	assert.Same(t, res, out.Data)
	assert.Empty(t, out.Error)

	assert.Equal(t, 1, primary.calls)
	assert.Equal(t, 0, fallback.calls, "fallback must not run when primary succeeds")

	// The URL reaching the store is the normalized one.
	assert.Equal(t, 1, store.calls)
	assert.Equal(t, int64(42), store.userID)
	assert.Equal(t, "https://linkedin.com/in/johndoe", store.sourceURL)
}

func TestExtractAndStoreFallsBackOnce(t *testing.T) {
	res := &models.ExtractionResult{FullName: "John Doe"}
	primary := &stubEngine{err: models.ErrDriverSetup}
	fallback := &stubEngine{res: res}
	store := &stubStore{}

	o := New(primary, fallback, store, nil)
	out := o.ExtractAndStore(context.Background(), 42, "https://www.linkedin.com/in/johndoe")

	require.True(t, out.Success)
	assert.Same(t, res, out.Data)
	assert.Equal(t, 1, primary.calls)
	assert.Equal(t, 1, fallback.calls)
	assert.Equal(t, 1, store.calls)
}

func TestExtractAndStoreBothEnginesFail(t *testing.T) {
	primary := &stubEngine{err: models.ErrDriverSetup}
	fallback := &stubEngine{err: &models.FetchError{StatusCode: 999}}
	store := &stubStore{}

	o := New(primary, fallback, store, nil)
	out := o.ExtractAndStore(context.Background(), 42, "https://www.linkedin.com/in/johndoe")

	require.False(t, out.Success)
	assert.Nil(t, out.Data)
	assert.Contains(t, out.Error, "Manual Import")
	assert.Contains(t, out.Error, "anti-bot")
	assert.Equal(t, 0, store.calls, "nothing must be stored when extraction fails")
}

func TestExtractAndStoreInvalidURL(t *testing.T) {
	primary := &stubEngine{}
	fallback := &stubEngine{}
	store := &stubStore{}

	o := New(primary, fallback, store, nil)
	out := o.ExtractAndStore(context.Background(), 42, "https://example.com/in/johndoe")

	require.False(t, out.Success)
	assert.Equal(t, "invalid profile URL: must be a LinkedIn URL", out.Error)
	assert.Equal(t, 0, primary.calls, "invalid input must not reach an engine")
	assert.Equal(t, 0, fallback.calls)
	assert.Equal(t, 0, store.calls)
}

func TestExtractAndStorePersistenceFailure(t *testing.T) {
	primary := &stubEngine{res: &models.ExtractionResult{FullName: "John Doe"}}
	fallback := &stubEngine{}
	store := &stubStore{err: &models.PersistenceError{Err: errors.New("disk I/O error")}}

	o := New(primary, fallback, store, nil)
	out := o.ExtractAndStore(context.Background(), 42, "https://www.linkedin.com/in/johndoe")

	require.False(t, out.Success)
	assert.Contains(t, out.Error, "disk I/O error")
}

func TestExtractAndStoreNilResultTriggersFallback(t *testing.T) {
	// A nil result with a nil error is still a failed extraction.
	primary := &stubEngine{}
	fallback := &stubEngine{res: &models.ExtractionResult{FullName: "John Doe"}}
	store := &stubStore{}

	o := New(primary, fallback, store, nil)
	out := o.ExtractAndStore(context.Background(), 42, "https://www.linkedin.com/in/johndoe")

	require.True(t, out.Success)
	assert.Equal(t, 1, fallback.calls)
}
