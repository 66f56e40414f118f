// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package saver

import (
	"context"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/danielhkuo/pollbox/metrics"
	"github.com/danielhkuo/pollbox/store"
)

// Saver writes the database to disk when it has changed
type Saver struct {
	db       *store.PollDatabase
	path     string
	interval time.Duration
	metrics  *metrics.Metrics

	dirty atomic.Bool
}

// New returns a saver writing db to path every interval. m may be nil.
func New(db *store.PollDatabase, path string, interval time.Duration, m *metrics.Metrics) *Saver {
	return &Saver{db: db, path: path, interval: interval, metrics: m}
}

// MarkDirty records that the database changed since the last save
func (s *Saver) MarkDirty() {
	s.dirty.Store(true)
}

// Dirty reports whether there are unsaved changes
func (s *Saver) Dirty() bool {
	return s.dirty.Load()
}

// Flush saves the database if it changed since the last successful save.
// A failed save leaves the saver dirty so the next tick tries again.
func (s *Saver) Flush() error {
	if !s.dirty.Swap(false) {
		return nil
	}

	start := time.Now()
	err := s.db.Save(s.path)
	if s.metrics != nil {
		s.metrics.ObserveSave(time.Since(start), err)
	}
	if err != nil {
		s.dirty.Store(true)
		return err
	}
	return nil
}

// Run saves on every tick until ctx is cancelled, then makes a final save.
// It returns the error of that final save.
func (s *Saver) Run(ctx context.Context) error {
	slog.Info("saver started", "path", s.path, "interval", s.interval.String())

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			err := s.Flush()
			if err != nil {
				slog.Error("final save failed", "path", s.path, "error", err)
			}
			slog.Info("saver stopped", "path", s.path)
			return err

		case <-ticker.C:
			if err := s.Flush(); err != nil {
				slog.Error("periodic save failed", "path", s.path, "error", err)
			}
		}
	}
}
