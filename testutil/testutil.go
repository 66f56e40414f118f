// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package testutil

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/danielhkuo/pollbox/markup"
	"github.com/danielhkuo/pollbox/store"
)

// NewTestDatabase returns an empty database with the production sanitizer
// and a silent logger
func NewTestDatabase(t *testing.T) *store.PollDatabase {
	t.Helper()
	return store.NewPollDatabase(
		store.WithSanitizer(markup.Sanitize),
		store.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
	)
}

// CreateTestPoll adds a poll and returns its ID
func CreateTestPoll(t *testing.T, db *store.PollDatabase, title string, options ...string) string {
	t.Helper()

	if options == nil {
		options = []string{}
	}
	pollID, err := db.Add(store.PollConfig{Title: &title, Options: options})
	if err != nil {
		t.Fatalf("Failed to create test poll: %v", err)
	}
	return pollID
}

// CastTestVote records a vote directly on the store
func CastTestVote(t *testing.T, db *store.PollDatabase, pollID, voter string, choices ...bool) {
	t.Helper()

	poll, err := db.Get(pollID)
	if err != nil {
		t.Fatalf("Failed to get test poll: %v", err)
	}
	if err := poll.RecordVote(voter, choices); err != nil {
		t.Fatalf("Failed to cast test vote: %v", err)
	}
}

// StrPtr returns a pointer to s
func StrPtr(s string) *string {
	return &s
}

// MakeRequest creates an HTTP test request
func MakeRequest(method, path string, body interface{}, headers map[string]string) *http.Request {
	var req *http.Request
	if body != nil {
		jsonBody, _ := json.Marshal(body)
		req = httptest.NewRequest(method, path, bytes.NewReader(jsonBody))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}

	for k, v := range headers {
		req.Header.Set(k, v)
	}

	return req
}

// WithURLParam attaches a chi route parameter so a handler can be called
// without going through the router
func WithURLParam(req *http.Request, key, value string) *http.Request {
	rctx := chi.RouteContext(req.Context())
	if rctx == nil {
		rctx = chi.NewRouteContext()
		req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
	}
	rctx.URLParams.Add(key, value)
	return req
}

// AssertStatus checks that the response has the expected status code
func AssertStatus(t *testing.T, w *httptest.ResponseRecorder, expected int) {
	t.Helper()
	if w.Code != expected {
		t.Errorf("Expected status %d, got %d. Body: %s", expected, w.Code, w.Body.String())
	}
}

// AssertJSON decodes the response body into the provided struct
func AssertJSON(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.NewDecoder(w.Body).Decode(v); err != nil {
		t.Fatalf("Failed to decode JSON response: %v", err)
	}
}
