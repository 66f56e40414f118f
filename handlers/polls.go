// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/danielhkuo/pollbox/metrics"
	"github.com/danielhkuo/pollbox/middleware"
	"github.com/danielhkuo/pollbox/models"
	"github.com/danielhkuo/pollbox/pollid"
	"github.com/danielhkuo/pollbox/store"
)

// MaxVoterLength is the longest accepted voter name, in bytes
const MaxVoterLength = 64

// DirtyMarker is told whenever the database changed and needs saving
type DirtyMarker interface {
	MarkDirty()
}

// PollHandler serves every /polls route
type PollHandler struct {
	db      *store.PollDatabase
	metrics *metrics.Metrics
	dirty   DirtyMarker
}

// NewPollHandler wires a handler to db. m and dirty may be nil.
func NewPollHandler(db *store.PollDatabase, m *metrics.Metrics, dirty DirtyMarker) *PollHandler {
	return &PollHandler{db: db, metrics: m, dirty: dirty}
}

func (h *PollHandler) markDirty() {
	if h.dirty != nil {
		h.dirty.MarkDirty()
	}
}

func (h *PollHandler) reject(reason string) {
	if h.metrics != nil && reason != "" {
		h.metrics.Reject(reason)
	}
}

// lookup resolves the {id} path parameter. Malformed IDs are answered with
// 404 without touching the database.
func (h *PollHandler) lookup(w http.ResponseWriter, r *http.Request) (string, *store.Poll, bool) {
	pollID := chi.URLParam(r, "id")
	if !pollid.Valid(pollID) {
		h.writeStoreError(w, r, pollID, fmt.Errorf("%w: malformed id", store.ErrNotFound))
		return pollID, nil, false
	}

	poll, err := h.db.Get(pollID)
	if err != nil {
		h.writeStoreError(w, r, pollID, err)
		return pollID, nil, false
	}
	return pollID, poll, true
}

// CreatePoll handles POST /polls
func (h *PollHandler) CreatePoll(w http.ResponseWriter, r *http.Request) {
	var req models.CreatePollRequest
	if err := middleware.ParseJSONBody(w, r, &req); err != nil {
		h.reject(metrics.ReasonValidation)
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	pollID, err := h.db.Add(store.PollConfig{Title: req.Title, Options: req.Options})
	if err != nil {
		h.writeStoreError(w, r, "", err)
		return
	}

	if h.metrics != nil {
		h.metrics.PollsCreated.Inc()
	}
	h.markDirty()

	slog.Info("poll created",
		"request_id", middleware.RequestID(r.Context()),
		"poll_id", pollID,
		"options", len(req.Options),
	)

	middleware.JSONResponse(w, http.StatusCreated, models.CreatePollResponse{
		PollID: pollID,
	})
}

// GetPoll handles GET /polls/{id}
func (h *PollHandler) GetPoll(w http.ResponseWriter, r *http.Request) {
	pollID, poll, ok := h.lookup(w, r)
	if !ok {
		return
	}

	votes := poll.Votes()
	resp := models.Poll{
		PollID:    pollID,
		Title:     poll.Title(),
		Options:   poll.Options(),
		Votes:     make([]models.Vote, len(votes)),
		MaxVoters: store.MaxVotersPerPoll,
	}
	for i, v := range votes {
		resp.Votes[i] = models.Vote{Voter: v.Voter, Choices: v.Choices}
	}

	middleware.JSONResponse(w, http.StatusOK, resp)
}

// SubmitVote handles POST /polls/{id}/votes
func (h *PollHandler) SubmitVote(w http.ResponseWriter, r *http.Request) {
	pollID, poll, ok := h.lookup(w, r)
	if !ok {
		return
	}

	var req models.SubmitVoteRequest
	if err := middleware.ParseJSONBody(w, r, &req); err != nil {
		h.reject(metrics.ReasonValidation)
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	voter := strings.TrimSpace(req.Voter)
	if voter == "" {
		h.reject(metrics.ReasonValidation)
		middleware.ErrorResponse(w, http.StatusBadRequest, "voter is required")
		return
	}
	if len(voter) > MaxVoterLength {
		h.reject(metrics.ReasonValidation)
		middleware.ErrorResponse(w, http.StatusBadRequest, fmt.Sprintf("voter must be at most %d bytes", MaxVoterLength))
		return
	}
	if req.Choices == nil {
		h.reject(metrics.ReasonValidation)
		middleware.ErrorResponse(w, http.StatusBadRequest, "choices is required")
		return
	}

	if err := poll.RecordVote(voter, req.Choices); err != nil {
		h.writeStoreError(w, r, pollID, err)
		return
	}

	if h.metrics != nil {
		h.metrics.VotesRecorded.Inc()
	}
	h.markDirty()

	count := poll.VoteCount()
	slog.Info("vote recorded",
		"request_id", middleware.RequestID(r.Context()),
		"poll_id", pollID,
		"vote_count", count,
	)

	middleware.JSONResponse(w, http.StatusCreated, models.SubmitVoteResponse{
		Message:   "Vote recorded",
		VoteCount: count,
	})
}
