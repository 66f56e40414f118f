// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"fmt"
	"log/slog"
	"maps"
	"slices"
	"sync"

	"github.com/danielhkuo/pollbox/pollid"
)

// IDGenerator produces candidate poll IDs
type IDGenerator func() (string, error)

// Option configures a PollDatabase
type Option func(*PollDatabase)

// WithSanitizer sets the function applied to titles and options
func WithSanitizer(s Sanitizer) Option {
	return func(d *PollDatabase) {
		d.sanitize = s
	}
}

// WithIDGenerator replaces pollid.Generate
func WithIDGenerator(g IDGenerator) Option {
	return func(d *PollDatabase) {
		d.newID = g
	}
}

// WithLogger replaces slog.Default for load and save messages
func WithLogger(l *slog.Logger) Option {
	return func(d *PollDatabase) {
		if l != nil {
			d.logger = l
		}
	}
}

// PollDatabase maps poll IDs to polls.
// mu guards entries and version only; each Poll guards its own votes.
type PollDatabase struct {
	mu      sync.Mutex
	entries map[string]*Poll
	version int

	// serializes Load and Save
	persistMu sync.Mutex

	sanitize Sanitizer
	newID    IDGenerator
	logger   *slog.Logger
}

// NewPollDatabase returns an empty database
func NewPollDatabase(opts ...Option) *PollDatabase {
	d := &PollDatabase{
		entries: make(map[string]*Poll),
		version: DatabaseVersion,
		newID:   pollid.Generate,
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Add creates a poll from cfg and returns its new ID.
// The poll is built before the lock is taken; only the capacity check,
// the collision check and the insert are serialized.
func (d *PollDatabase) Add(cfg PollConfig) (string, error) {
	poll, err := NewPoll(cfg, d.sanitize)
	if err != nil {
		return "", err
	}

	id, err := d.newID()
	if err != nil {
		return "", fmt.Errorf("generating poll ID: %w", err)
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	if len(d.entries) >= MaxPolls {
		return "", fmt.Errorf("%w: database already holds %d polls", ErrCapacity, MaxPolls)
	}
	if _, exists := d.entries[id]; exists {
		return "", fmt.Errorf("%w: %s", ErrCollision, id)
	}
	d.entries[id] = poll

	return id, nil
}

// Get returns the poll stored under id. The database lock is released
// before returning; voting only takes the poll's own lock.
func (d *PollDatabase) Get(id string) (*Poll, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	poll, ok := d.entries[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return poll, nil
}

// Len returns the number of polls
func (d *PollDatabase) Len() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.entries)
}

// IDs returns all poll IDs, sorted
func (d *PollDatabase) IDs() []string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return slices.Sorted(maps.Keys(d.entries))
}

// Version returns the schema version of the in-memory state
func (d *PollDatabase) Version() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.version
}
