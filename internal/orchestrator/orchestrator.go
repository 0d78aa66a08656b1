// Package orchestrator composes the two extraction engines and the
// profile store into the single extract-and-store operation exposed to
// callers.
package orchestrator

import (
	"context"

	"github.com/sirupsen/logrus"

	"linkedin-importer/internal/models"
	"linkedin-importer/internal/validator"
)

// terminalFailure is the user-visible message when both engines fail.
const terminalFailure = "LinkedIn profile extraction failed. This might be due to:\n" +
	"• Browser compatibility issues\n" +
	"• LinkedIn's anti-bot measures\n" +
	"• Network connectivity issues\n\n" +
	"Please use the Manual Import option instead."

// Engine is one complete extraction pathway.
type Engine interface {
	Scrape(ctx context.Context, profileURL string) (*models.ExtractionResult, error)
}

// Store persists extraction results for a user.
type Store interface {
	Upsert(userID int64, res *models.ExtractionResult, sourceURL string) error
}

// Orchestrator validates the URL, tries the browser engine, falls back
// to the HTTP engine, and merges whichever result succeeded. It holds no
// extraction logic and no state between invocations.
type Orchestrator struct {
	primary  Engine
	fallback Engine
	store    Store
	log      *logrus.Logger
}

// New wires the orchestrator from its collaborators.
func New(primary, fallback Engine, store Store, log *logrus.Logger) *Orchestrator {
	if log == nil {
		log = logrus.New()
	}
	return &Orchestrator{
		primary:  primary,
		fallback: fallback,
		store:    store,
		log:      log,
	}
}

// ExtractAndStore runs one full extraction for (userID, rawURL) and
// merges the result into the user's stored profile. Exactly one of
// Data/Error is populated on the returned outcome.
func (o *Orchestrator) ExtractAndStore(ctx context.Context, userID int64, rawURL string) models.ScrapeOutcome {
	profileURL, err := validator.ValidateProfileURL(rawURL)
	if err != nil {
		// Malformed input is surfaced verbatim; no engine is invoked.
		return models.ScrapeOutcome{Error: err.Error()}
	}

	res, err := o.primary.Scrape(ctx, profileURL)
	if err != nil || res == nil {
		o.log.WithFields(logrus.Fields{
			"user_id": userID,
			"url":     profileURL,
			"error":   err,
		}).Warn("browser extraction failed, trying HTTP fallback")

		res, err = o.fallback.Scrape(ctx, profileURL)
		if err != nil || res == nil {
			o.log.WithFields(logrus.Fields{
				"user_id": userID,
				"url":     profileURL,
				"error":   err,
			}).Error("both extraction engines failed")
			return models.ScrapeOutcome{Error: terminalFailure}
		}
	}

	if err := o.store.Upsert(userID, res, profileURL); err != nil {
		o.log.WithFields(logrus.Fields{
			"user_id": userID,
			"error":   err,
		}).Error("profile merge failed")
		return models.ScrapeOutcome{Error: err.Error()}
	}

	o.log.WithFields(logrus.Fields{
		"user_id": userID,
		"url":     profileURL,
	}).Info("profile extracted and stored")

	return models.ScrapeOutcome{Success: true, Data: res}
}
