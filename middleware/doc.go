// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package middleware provides HTTP middleware and helper functions.

# Request Logging

Wrap a router with request logging:

	r := chi.NewRouter()
	r.Use(middleware.WithLogging(m))

Each request gets an X-Request-ID (kept from the client when present,
otherwise a fresh UUID), which is echoed in the response and available to
handlers via middleware.RequestID(ctx). Start and completion are logged
with method, route, status, and duration_ms. When a *metrics.Metrics is
supplied, requests are counted by method, route pattern, and status.

# Rate Limiting

Limit how fast a single client may submit votes:

	r.With(middleware.RateLimit(30, 5, cfg.TrustProxy, m)).Post("/polls/{id}/votes", h.SubmitVote)

Each client IP gets its own token bucket (golang.org/x/time/rate). Refused
requests get 429 Too Many Requests. Idle buckets are dropped after ten
minutes.

# CORS Middleware

Enable cross-origin requests for frontend access:

	r.Use(middleware.CORS)

Allows methods GET, POST, OPTIONS with headers Content-Type and
X-Request-ID. Preflight requests are answered directly.

# JSON Helpers

Write JSON responses:

	middleware.JSONResponse(w, http.StatusOK, data)
	middleware.ErrorResponse(w, http.StatusBadRequest, "message")

Parse JSON request bodies:

	var req models.CreatePollRequest
	if err := middleware.ParseJSONBody(w, r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

Bodies larger than MaxBodyBytes or followed by extra data are rejected.

# Client IP Extraction

Get the client IP. By default this is the connecting peer; the
X-Forwarded-For and X-Real-IP headers are honoured only when trustProxy
is true, since any client can set them:

	ip := middleware.GetClientIP(r, cfg.TrustProxy)

Used as the rate limiter key.
*/
package middleware
