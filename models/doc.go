// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package models defines request, response, and domain types for the API.

# Request Types

Types for parsing incoming JSON:

  - CreatePollRequest: title, options
  - SubmitVoteRequest: voter, choices ([]bool, one per option)

# Response Types

Types for JSON responses:

  - CreatePollResponse: poll_id
  - SubmitVoteResponse: message, vote_count
  - HealthResponse: status, polls
  - ErrorResponse: error, message

# Domain Types

  - Poll: title, options, votes in casting order, max_voters
  - Vote: voter name and choices
  - PollResults: per-option yes/no tally and the leading options
*/
package models
