// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package saver persists the poll database in the background.

# Usage

	s := saver.New(db, cfg.DataFile, cfg.SaveInterval, m)
	go s.Run(ctx)

Handlers call s.MarkDirty() after every change. On each tick the saver
writes the database with store.(*PollDatabase).Save if anything changed;
idle ticks do nothing. When ctx is cancelled Run makes one final save and
returns its error.

A failed save is logged and retried on the next tick. Save durations are
recorded in pollbox_save_duration_seconds when metrics are supplied.
*/
package saver
