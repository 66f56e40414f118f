// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"

	"github.com/ugorji/go/codec"

	"github.com/danielhkuo/pollbox/pollid"
)

// Schema versions written on save and required on load
const (
	ContentVersion  = 1
	DatabaseVersion = 1
	PollVersion     = 1
)

var msgpackHandle = &codec.MsgpackHandle{WriteExt: true}

// On-disk records. Locks never appear here; Load builds fresh ones.

type envelope struct {
	Version int    `codec:"version"`
	Payload []byte `codec:"payload"`
}

type databaseRecord struct {
	Version int                   `codec:"version"`
	Entries map[string]pollRecord `codec:"entries"`
}

type pollRecord struct {
	Version int          `codec:"version"`
	Title   string       `codec:"title"`
	Options []string     `codec:"options"`
	Votes   []voteRecord `codec:"votes"`
}

type voteRecord struct {
	Voter   string `codec:"voter"`
	Choices []bool `codec:"choices"`
}

func encode(v any) ([]byte, error) {
	var b []byte
	if err := codec.NewEncoderBytes(&b, msgpackHandle).Encode(v); err != nil {
		return nil, err
	}
	return b, nil
}

// decode fails unless v accounts for every byte of data
func decode(data []byte, v any) error {
	dec := codec.NewDecoderBytes(data, msgpackHandle)
	if err := dec.Decode(v); err != nil {
		return err
	}
	if n := dec.NumBytesRead(); n != len(data) {
		return fmt.Errorf("%d trailing bytes after record", len(data)-n)
	}
	return nil
}

// Save writes a snapshot of the whole database to path, replacing any
// existing file. The snapshot is taken under the database lock.
func (d *PollDatabase) Save(path string) error {
	d.persistMu.Lock()
	defer d.persistMu.Unlock()

	data, count, err := d.encodeSnapshot()
	if err != nil {
		return err
	}

	if err := writeFileAtomic(path, data); err != nil {
		return fmt.Errorf("%w: writing %s: %w", ErrIO, path, err)
	}

	d.logger.Info("polls saved", "count", count, "path", path)
	return nil
}

// Load replaces the in-memory state with the contents of path. Nothing
// changes unless the whole file decodes and every version matches.
func (d *PollDatabase) Load(path string) error {
	d.persistMu.Lock()
	defer d.persistMu.Unlock()

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("%w: reading %s: %w", ErrIO, path, err)
	}

	entries, version, err := decodeDatabase(data)
	if err != nil {
		return err
	}

	d.mu.Lock()
	d.entries = entries
	d.version = version
	d.mu.Unlock()

	d.logger.Info("polls loaded", "count", len(entries), "path", path)
	return nil
}

// Lock order is database then poll. RecordVote never takes the database
// lock, so holding both here cannot deadlock.
func (d *PollDatabase) encodeSnapshot() ([]byte, int, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	rec := databaseRecord{
		Version: d.version,
		Entries: make(map[string]pollRecord, len(d.entries)),
	}
	for id, poll := range d.entries {
		rec.Entries[id] = poll.record()
	}

	payload, err := encode(rec)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: encoding database: %w", ErrIO, err)
	}
	data, err := encode(envelope{Version: ContentVersion, Payload: payload})
	if err != nil {
		return nil, 0, fmt.Errorf("%w: encoding envelope: %w", ErrIO, err)
	}

	return data, len(rec.Entries), nil
}

func decodeDatabase(data []byte) (map[string]*Poll, int, error) {
	var env envelope
	if err := decode(data, &env); err != nil {
		return nil, 0, fmt.Errorf("%w: envelope: %w", ErrDecode, err)
	}
	if env.Version != ContentVersion {
		return nil, 0, fmt.Errorf("%w: content version %d, want %d", ErrVersion, env.Version, ContentVersion)
	}

	var rec databaseRecord
	if err := decode(env.Payload, &rec); err != nil {
		return nil, 0, fmt.Errorf("%w: database payload: %w", ErrDecode, err)
	}
	if rec.Version != DatabaseVersion {
		return nil, 0, fmt.Errorf("%w: database version %d, want %d", ErrVersion, rec.Version, DatabaseVersion)
	}
	if len(rec.Entries) > MaxPolls {
		return nil, 0, fmt.Errorf("%w: %d polls exceeds limit of %d", ErrDecode, len(rec.Entries), MaxPolls)
	}

	entries := make(map[string]*Poll, len(rec.Entries))
	for id, pr := range rec.Entries {
		if !pollid.Valid(id) {
			return nil, 0, fmt.Errorf("%w: malformed poll ID %q", ErrDecode, id)
		}
		if pr.Version != PollVersion {
			return nil, 0, fmt.Errorf("%w: poll %s version %d, want %d", ErrVersion, id, pr.Version, PollVersion)
		}
		poll, err := pollFromRecord(pr)
		if err != nil {
			return nil, 0, fmt.Errorf("%w: poll %s: %w", ErrDecode, id, err)
		}
		entries[id] = poll
	}

	return entries, rec.Version, nil
}

func (p *Poll) record() pollRecord {
	p.mu.Lock()
	defer p.mu.Unlock()

	votes := make([]voteRecord, len(p.votes))
	for i, v := range p.votes {
		votes[i] = voteRecord{Voter: v.Voter, Choices: slices.Clone(v.Choices)}
	}
	return pollRecord{
		Version: PollVersion,
		Title:   p.title,
		Options: slices.Clone(p.options),
		Votes:   votes,
	}
}

// pollFromRecord rebuilds a poll with a fresh lock. Stored text was
// sanitized on creation and is not sanitized again.
func pollFromRecord(pr pollRecord) (*Poll, error) {
	if len(pr.Votes) > MaxVotersPerPoll {
		return nil, fmt.Errorf("%d votes exceeds limit of %d", len(pr.Votes), MaxVotersPerPoll)
	}

	options := make([]string, len(pr.Options))
	copy(options, pr.Options)

	votes := make([]Vote, len(pr.Votes))
	for i, v := range pr.Votes {
		if len(v.Choices) != len(options) {
			return nil, fmt.Errorf("vote %d has %d choices for %d options", i, len(v.Choices), len(options))
		}
		votes[i] = Vote{Voter: v.Voter, Choices: slices.Clone(v.Choices)}
	}

	return &Poll{title: pr.Title, options: options, votes: votes}, nil
}

// dataFileMode is used when there is no previous file to copy the mode from
const dataFileMode fs.FileMode = 0o644

// writeFileAtomic writes to a temp file next to path and renames it over
// path. path holds either the old or the new snapshot, never a mix. The
// mode of an existing file is kept.
func writeFileAtomic(path string, data []byte) error {
	dir, base := filepath.Split(path)
	if dir == "" {
		dir = "."
	}

	mode := dataFileMode
	if fi, err := os.Stat(path); err == nil {
		mode = fi.Mode().Perm()
	}

	f, err := os.CreateTemp(dir, "."+base+".*.tmp")
	if err != nil {
		return err
	}
	tmp := f.Name()

	if err := f.Chmod(mode); err != nil {
		f.Close()
		os.Remove(tmp)
		return err
	}
	if _, err := f.Write(data); err != nil {
		f.Close()
		os.Remove(tmp)
		return err
	}
	if err := f.Sync(); err != nil {
		f.Close()
		os.Remove(tmp)
		return err
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return err
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return err
	}
	return syncDir(dir)
}

// syncDir makes the rename itself durable
func syncDir(dir string) error {
	d, err := os.Open(dir)
	if err != nil {
		return err
	}
	defer d.Close()
	return d.Sync()
}
