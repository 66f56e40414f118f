// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package store is the in-process poll store.

# Polls

A Poll has a title, an ordered list of options and an append-only list of
votes. Each vote answers every option with a bool, positionally:

	poll.RecordVote("alice", []bool{true, false})

A poll accepts at most MaxVotersPerPoll (40) votes. The capacity check, the
shape check and the append run under the poll's own mutex.

# Database

PollDatabase maps generated IDs to polls and holds at most MaxPolls (100):

	db := store.NewPollDatabase(store.WithSanitizer(markup.Sanitize))

	title := "Lunch?"
	id, err := db.Add(store.PollConfig{Title: &title, Options: []string{"Pizza", "Sushi"}})

	poll, err := db.Get(id)

The database mutex only covers the ID map. Voting on one poll never blocks
another poll, nor Add or Get.

# Persistence

Save and Load move the whole database to and from a single MessagePack file:

	envelope  {version, payload}
	payload   {version, entries: id -> poll}
	poll      {version, title, options, votes: [{voter, choices}]}

All three versions must equal ContentVersion, DatabaseVersion and
PollVersion respectively. There is no migration path: a mismatch fails
with ErrVersion and the in-memory state is left as it was.

# Errors

	ErrValidation  malformed config or vote
	ErrCapacity    poll or voter limit reached
	ErrCollision   generated ID already present
	ErrNotFound    unknown poll ID
	ErrVersion     persisted version mismatch
	ErrIO          file read/write failure
	ErrDecode      undecodable or inconsistent file

Nothing is retried internally.
*/
package store
