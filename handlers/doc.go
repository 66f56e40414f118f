// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package handlers contains HTTP request handlers for the pollbox API.

# Handler Types

A single PollHandler serves every poll route. It is created with the
shared database, an optional metrics instance, and an optional DirtyMarker
(the background saver):

	h := handlers.NewPollHandler(db, m, s)

# Routes

	POST /polls              → CreatePoll (returns poll_id)
	GET  /polls/{id}         → GetPoll (title, options, every vote)
	GET  /polls/{id}/results → GetResults (yes/no tally and leaders)
	POST /polls/{id}/votes   → SubmitVote

Poll IDs that are not 64 lowercase hex characters are answered with 404
without taking the database lock.

# Voting

A vote is a voter name and one yes/no answer per option, in option order:

	{"voter": "Alice", "choices": [true, false, true]}

Voter names are trimmed and must be 1 to MaxVoterLength bytes. They are
stored exactly as sent; only titles and options are sanitized. The same
name may vote more than once; there is no voter identity beyond the name.

# Error Mapping

Store errors become HTTP statuses in one place (statusFor):

	store.ErrValidation → 400 Bad Request
	store.ErrNotFound   → 404 Not Found
	store.ErrCapacity   → 409 Conflict
	store.ErrCollision  → 409 Conflict
	anything else       → 500 Internal Server Error

Client-side rejections are counted in pollbox_rejections_total by reason.
*/
package handlers
