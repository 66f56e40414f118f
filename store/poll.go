// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"fmt"
	"slices"
	"sync"
)

// Limits
const (
	MaxPolls         = 100
	MaxVotersPerPoll = 40
)

// Sanitizer cleans user-supplied text before it is stored
type Sanitizer func(string) string

// PollConfig is the input to poll creation. A nil Title or nil Options
// means the key was absent.
type PollConfig struct {
	Title   *string
	Options []string
}

// Vote is one voter's ballot. Choices[i] answers Options()[i].
type Vote struct {
	Voter   string
	Choices []bool
}

// Poll holds one poll's configuration and its vote ledger.
// Title and options never change after NewPoll.
type Poll struct {
	title   string
	options []string

	mu    sync.Mutex
	votes []Vote
}

// NewPoll validates cfg and sanitizes the title and every option.
// A nil sanitize leaves text untouched.
func NewPoll(cfg PollConfig, sanitize Sanitizer) (*Poll, error) {
	if cfg.Title == nil || cfg.Options == nil {
		return nil, fmt.Errorf("%w: configuration needs both title and options", ErrValidation)
	}
	if sanitize == nil {
		sanitize = func(s string) string { return s }
	}

	options := make([]string, len(cfg.Options))
	for i, opt := range cfg.Options {
		options[i] = sanitize(opt)
	}

	return &Poll{
		title:   sanitize(*cfg.Title),
		options: options,
		votes:   []Vote{},
	}, nil
}

// Title returns the sanitized title
func (p *Poll) Title() string {
	return p.title
}

// Options returns a copy of the poll's options in order
func (p *Poll) Options() []string {
	return slices.Clone(p.options)
}

// RecordVote appends a ballot. The capacity and shape checks happen under
// the same lock as the append.
func (p *Poll) RecordVote(voter string, choices []bool) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if len(p.votes) >= MaxVotersPerPoll {
		return fmt.Errorf("%w: poll already has %d votes", ErrCapacity, MaxVotersPerPoll)
	}
	if len(choices) != len(p.options) {
		return fmt.Errorf("%w: got %d choices for %d options", ErrValidation, len(choices), len(p.options))
	}

	p.votes = append(p.votes, Vote{Voter: voter, Choices: slices.Clone(choices)})
	return nil
}

// Votes returns a copy of all ballots in the order they were cast
func (p *Poll) Votes() []Vote {
	p.mu.Lock()
	defer p.mu.Unlock()

	votes := make([]Vote, len(p.votes))
	for i, v := range p.votes {
		votes[i] = Vote{Voter: v.Voter, Choices: slices.Clone(v.Choices)}
	}
	return votes
}

// VoteCount returns how many votes have been recorded
func (p *Poll) VoteCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.votes)
}
