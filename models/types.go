// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package models

// Request types

// Title is a pointer so an absent key can be told apart from an empty one
type CreatePollRequest struct {
	Title   *string  `json:"title"`
	Options []string `json:"options"`
}

// choices[i] answers options[i]
type SubmitVoteRequest struct {
	Voter   string `json:"voter"`
	Choices []bool `json:"choices"`
}

// Response types

type CreatePollResponse struct {
	PollID string `json:"poll_id"`
}

type SubmitVoteResponse struct {
	Message   string `json:"message"`
	VoteCount int    `json:"vote_count"`
}

type HealthResponse struct {
	Status string `json:"status"`
	Polls  int    `json:"polls"`
}

// Domain types

type Vote struct {
	Voter   string `json:"voter"`
	Choices []bool `json:"choices"`
}

type Poll struct {
	PollID    string   `json:"poll_id"`
	Title     string   `json:"title"`
	Options   []string `json:"options"`
	Votes     []Vote   `json:"votes"`
	MaxVoters int      `json:"max_voters"`
}

// Result types

type OptionTally struct {
	Option string `json:"option"`
	Yes    int    `json:"yes"`
	No     int    `json:"no"`
}

type PollResults struct {
	PollID     string        `json:"poll_id"`
	TotalVotes int           `json:"total_votes"`
	Tally      []OptionTally `json:"tally"`
	Leaders    []string      `json:"leaders"` // options with the most yes votes
}

// Error response

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
