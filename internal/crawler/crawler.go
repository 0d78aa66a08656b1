// Package crawler implements the HTTP-backed fallback extraction engine.
// It fetches the profile page once with a browser-identifying client,
// parses the markup statically and runs the same field extractors used
// by the browser engine.
package crawler

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"

	"linkedin-importer/internal/extract"
	"linkedin-importer/internal/models"
)

// Engine is the single-shot HTTP fallback.
type Engine struct {
	client    *http.Client
	log       *logrus.Logger
	extractor *extract.Extractor
}

// New creates the fallback engine with a tuned transport and a bounded
// request timeout.
func New(cfg models.Config, log *logrus.Logger) *Engine {
	if log == nil {
		log = logrus.New()
	}

	transport := &http.Transport{
		MaxIdleConns:           4,
		MaxIdleConnsPerHost:    2,
		IdleConnTimeout:        30 * time.Second,
		ForceAttemptHTTP2:      true,
		MaxResponseHeaderBytes: 1 << 20, // 1MB limit
		ResponseHeaderTimeout:  10 * time.Second,
		ExpectContinueTimeout:  1 * time.Second,
	}

	timeout := cfg.RequestTimeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}

	return &Engine{
		client: &http.Client{
			Timeout:   timeout,
			Transport: transport,
		},
		log:       log,
		extractor: extract.New(log),
	}
}

// Scrape issues one GET against the validated URL and extracts whatever
// the static markup carries. A non-200 status fails with a FetchError;
// an all-empty extraction fails with ErrNoData rather than reporting a
// vacuous success.
func (e *Engine) Scrape(ctx context.Context, profileURL string) (res *models.ExtractionResult, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("fallback engine panic: %v", r)
		}
	}()

	e.log.WithField("url", profileURL).Info("extracting profile via HTTP fallback")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, profileURL, nil)
	if err != nil {
		return nil, fmt.Errorf("request creation failed: %w", err)
	}
	setHeaders(req)

	resp, err := e.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &models.FetchError{StatusCode: resp.StatusCode}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response failed: %w", err)
	}

	doc, err := extract.NewHTMLDocument(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("parsing markup failed: %w", err)
	}

	res = e.extractor.Extract(doc)
	if res.IsEmpty() {
		return nil, models.ErrNoData
	}
	return res, nil
}

// setHeaders makes the request look like an ordinary browser navigation.
func setHeaders(req *http.Request) {
	req.Header.Set("User-Agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36")
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,image/webp,image/apng,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")
	req.Header.Set("Connection", "keep-alive")
	req.Header.Set("Upgrade-Insecure-Requests", "1")
	req.Header.Set("Sec-Fetch-Dest", "document")
	req.Header.Set("Sec-Fetch-Mode", "navigate")
	req.Header.Set("Sec-Fetch-Site", "none")
	req.Header.Set("Cache-Control", "max-age=0")
}
