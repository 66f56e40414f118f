// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/danielhkuo/pollbox/metrics"
	"github.com/danielhkuo/pollbox/middleware"
	"github.com/danielhkuo/pollbox/store"
)

// statusFor maps a store error to an HTTP status and a rejection reason.
// reason is empty for errors that are not the client's fault.
func statusFor(err error) (status int, reason string) {
	switch {
	case errors.Is(err, store.ErrValidation):
		return http.StatusBadRequest, metrics.ReasonValidation
	case errors.Is(err, store.ErrNotFound):
		return http.StatusNotFound, metrics.ReasonNotFound
	case errors.Is(err, store.ErrCapacity):
		return http.StatusConflict, metrics.ReasonCapacity
	case errors.Is(err, store.ErrCollision):
		return http.StatusConflict, metrics.ReasonCollision
	default:
		return http.StatusInternalServerError, ""
	}
}

// writeStoreError logs err, counts the rejection, and writes the JSON error
func (h *PollHandler) writeStoreError(w http.ResponseWriter, r *http.Request, pollID string, err error) {
	status, reason := statusFor(err)
	reqID := middleware.RequestID(r.Context())

	if status == http.StatusInternalServerError {
		slog.Error("poll operation failed", "request_id", reqID, "poll_id", pollID, "error", err)
		middleware.ErrorResponse(w, status, "Internal error")
		return
	}

	slog.Info("poll request rejected", "request_id", reqID, "poll_id", pollID, "reason", reason, "error", err)
	h.reject(reason)
	middleware.ErrorResponse(w, status, messageFor(err))
}

func messageFor(err error) string {
	switch {
	case errors.Is(err, store.ErrNotFound):
		return "Poll not found"
	case errors.Is(err, store.ErrCapacity):
		return "Capacity reached"
	case errors.Is(err, store.ErrCollision):
		return "Could not allocate a poll ID, try again"
	default:
		return err.Error()
	}
}
