// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package router defines HTTP routes for the pollbox API.

# Route Registration

NewRouter creates a configured chi router with all endpoints:

	r := router.NewRouter(db, cfg, m, s)

Every request passes through Recoverer, a 30s timeout, request logging
with metrics, and CORS. With cfg.TrustProxy set, RealIP runs first so the
forwarded client address is logged and rate limited instead of the proxy's.

# Endpoints

Service:

	GET /health  - {"status":"ok","polls":N}
	GET /metrics - Prometheus exposition
	GET /        - Banner

Polls (public, the poll ID is the only secret):

	POST /polls              - Create poll
	GET  /polls/{id}         - Poll with every vote
	GET  /polls/{id}/results - Yes/no tally and leaders
	POST /polls/{id}/votes   - Cast a vote (rate limited per client IP)

The vote route is limited to cfg.VoteRate votes per minute with a burst of
cfg.VoteBurst per client.
*/
package router
