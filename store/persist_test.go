// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"testing"
)

// seedDatabase creates n polls with a few votes each
func seedDatabase(t *testing.T, n int) *PollDatabase {
	t.Helper()

	db := NewPollDatabase()
	for i := 0; i < n; i++ {
		id, err := db.Add(PollConfig{
			Title:   strPtr("Poll " + string(rune('A'+i))),
			Options: []string{"Mon", "Tue", "Wed"},
		})
		if err != nil {
			t.Fatalf("Failed to add poll: %v", err)
		}
		poll, _ := db.Get(id)
		for v := 0; v <= i; v++ {
			voter := "voter-" + string(rune('a'+v))
			if err := poll.RecordVote(voter, []bool{v%2 == 0, v%3 == 0, true}); err != nil {
				t.Fatalf("Failed to record vote: %v", err)
			}
		}
	}
	return db
}

// assertSameState compares two databases poll by poll
func assertSameState(t *testing.T, want, got *PollDatabase) {
	t.Helper()

	if !slices.Equal(want.IDs(), got.IDs()) {
		t.Fatalf("IDs differ: want %v, got %v", want.IDs(), got.IDs())
	}
	for _, id := range want.IDs() {
		wp, _ := want.Get(id)
		gp, err := got.Get(id)
		if err != nil {
			t.Fatalf("Get(%s) after load: %v", id, err)
		}
		if wp.Title() != gp.Title() {
			t.Errorf("poll %s title: want %q, got %q", id, wp.Title(), gp.Title())
		}
		if !slices.Equal(wp.Options(), gp.Options()) {
			t.Errorf("poll %s options: want %v, got %v", id, wp.Options(), gp.Options())
		}
		wv, gv := wp.Votes(), gp.Votes()
		if len(wv) != len(gv) {
			t.Fatalf("poll %s vote count: want %d, got %d", id, len(wv), len(gv))
		}
		for i := range wv {
			if wv[i].Voter != gv[i].Voter || !slices.Equal(wv[i].Choices, gv[i].Choices) {
				t.Errorf("poll %s vote %d: want %+v, got %+v", id, i, wv[i], gv[i])
			}
		}
	}
}

// writeEnvelope writes a hand-built file for the version gate tests
func writeEnvelope(t *testing.T, path string, contentVersion int, rec databaseRecord) {
	t.Helper()

	payload, err := encode(rec)
	if err != nil {
		t.Fatal(err)
	}
	data, err := encode(envelope{Version: contentVersion, Payload: payload})
	if err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		t.Fatal(err)
	}
}

const testID = "aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa"

func TestSaveLoad_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "polls.db")
	original := seedDatabase(t, 5)

	if err := original.Save(path); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	restored := NewPollDatabase()
	if err := restored.Load(path); err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	assertSameState(t, original, restored)
	if restored.Version() != DatabaseVersion {
		t.Errorf("Expected version %d, got %d", DatabaseVersion, restored.Version())
	}
}

func TestSaveLoad_EmptyDatabase(t *testing.T) {
	path := filepath.Join(t.TempDir(), "polls.db")

	if err := NewPollDatabase().Save(path); err != nil {
		t.Fatal(err)
	}

	restored := seedDatabase(t, 2)
	if err := restored.Load(path); err != nil {
		t.Fatal(err)
	}
	if restored.Len() != 0 {
		t.Errorf("Expected load to replace state with an empty database, got %d polls", restored.Len())
	}
}

func TestLoad_FreshLocksAndLimits(t *testing.T) {
	path := filepath.Join(t.TempDir(), "polls.db")
	original := seedDatabase(t, 1)
	if err := original.Save(path); err != nil {
		t.Fatal(err)
	}

	restored := NewPollDatabase()
	if err := restored.Load(path); err != nil {
		t.Fatal(err)
	}

	id := restored.IDs()[0]
	poll, _ := restored.Get(id)
	if err := poll.RecordVote("after-load", []bool{false, false, false}); err != nil {
		t.Fatalf("Vote after load failed: %v", err)
	}
	if err := poll.RecordVote("bad", []bool{true}); !errors.Is(err, ErrValidation) {
		t.Errorf("Expected ErrValidation after load, got %v", err)
	}

	// restored polls still count toward the database limit
	for restored.Len() < MaxPolls {
		if _, err := restored.Add(lunchConfig()); err != nil {
			t.Fatal(err)
		}
	}
	if _, err := restored.Add(lunchConfig()); !errors.Is(err, ErrCapacity) {
		t.Errorf("Expected ErrCapacity, got %v", err)
	}
}

func TestSave_OverwritesAndLeavesNoTempFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "polls.db")

	if err := os.WriteFile(path, []byte("stale contents"), 0o600); err != nil {
		t.Fatal(err)
	}

	db := seedDatabase(t, 3)
	if err := db.Save(path); err != nil {
		t.Fatal(err)
	}
	if err := db.Save(path); err != nil {
		t.Fatal(err)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 || entries[0].Name() != "polls.db" {
		var names []string
		for _, e := range entries {
			names = append(names, e.Name())
		}
		t.Errorf("Expected only polls.db in %s, got %v", dir, names)
	}

	restored := NewPollDatabase()
	if err := restored.Load(path); err != nil {
		t.Fatal(err)
	}
	assertSameState(t, db, restored)
}

func TestSave_FileMode(t *testing.T) {
	dir := t.TempDir()

	fresh := filepath.Join(dir, "fresh.db")
	if err := seedDatabase(t, 1).Save(fresh); err != nil {
		t.Fatal(err)
	}
	fi, err := os.Stat(fresh)
	if err != nil {
		t.Fatal(err)
	}
	if fi.Mode().Perm() != 0o644 {
		t.Errorf("new file: want mode 0644, got %v", fi.Mode().Perm())
	}

	existing := filepath.Join(dir, "existing.db")
	if err := os.WriteFile(existing, nil, 0o640); err != nil {
		t.Fatal(err)
	}
	if err := os.Chmod(existing, 0o640); err != nil {
		t.Fatal(err)
	}
	if err := seedDatabase(t, 1).Save(existing); err != nil {
		t.Fatal(err)
	}
	fi, err = os.Stat(existing)
	if err != nil {
		t.Fatal(err)
	}
	if fi.Mode().Perm() != 0o640 {
		t.Errorf("existing file: want mode 0640 kept, got %v", fi.Mode().Perm())
	}
}

func TestSave_IOError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing-dir", "polls.db")

	err := seedDatabase(t, 1).Save(path)
	if !errors.Is(err, ErrIO) {
		t.Errorf("Expected ErrIO, got %v", err)
	}
}

func TestLoad_Failures(t *testing.T) {
	validPoll := pollRecord{
		Version: PollVersion,
		Title:   "Lunch?",
		Options: []string{"Pizza", "Sushi"},
		Votes:   []voteRecord{{Voter: "alice", Choices: []bool{true, false}}},
	}
	tooManyVotes := validPoll
	tooManyVotes.Votes = make([]voteRecord, MaxVotersPerPoll+1)
	for i := range tooManyVotes.Votes {
		tooManyVotes.Votes[i] = voteRecord{Voter: "v", Choices: []bool{true, true}}
	}
	badShape := validPoll
	badShape.Votes = []voteRecord{{Voter: "bob", Choices: []bool{true}}}
	oldPoll := validPoll
	oldPoll.Version = PollVersion + 1

	tooManyPolls := make(map[string]pollRecord)
	for i := 0; i <= MaxPolls; i++ {
		id := []byte(testID)
		id[0] = "0123456789abcdef"[i%16]
		id[1] = "0123456789abcdef"[i/16]
		tooManyPolls[string(id)] = validPoll
	}

	tests := []struct {
		name    string
		write   func(t *testing.T, path string)
		wantErr error
	}{
		{
			name:    "missing file",
			write:   func(t *testing.T, path string) {},
			wantErr: ErrIO,
		},
		{
			name: "garbage",
			write: func(t *testing.T, path string) {
				// a msgpack string where a map is expected
				os.WriteFile(path, []byte{0xa5, 'h', 'e', 'l', 'l', 'o'}, 0o600)
			},
			wantErr: ErrDecode,
		},
		{
			name: "empty file",
			write: func(t *testing.T, path string) {
				os.WriteFile(path, nil, 0o600)
			},
			wantErr: ErrDecode,
		},
		{
			name: "trailing data after envelope",
			write: func(t *testing.T, path string) {
				writeEnvelope(t, path, ContentVersion, databaseRecord{
					Version: DatabaseVersion,
					Entries: map[string]pollRecord{testID: validPoll},
				})
				f, err := os.OpenFile(path, os.O_APPEND|os.O_WRONLY, 0)
				if err != nil {
					t.Fatal(err)
				}
				f.Write([]byte{0xc3, 0xde, 0xad})
				f.Close()
			},
			wantErr: ErrDecode,
		},
		{
			name: "trailing data after payload",
			write: func(t *testing.T, path string) {
				// an empty database followed by bytes that would have been its polls
				payload, err := encode(databaseRecord{Version: DatabaseVersion, Entries: map[string]pollRecord{}})
				if err != nil {
					t.Fatal(err)
				}
				rest, err := encode(map[string]pollRecord{testID: validPoll})
				if err != nil {
					t.Fatal(err)
				}
				data, err := encode(envelope{Version: ContentVersion, Payload: append(payload, rest...)})
				if err != nil {
					t.Fatal(err)
				}
				os.WriteFile(path, data, 0o600)
			},
			wantErr: ErrDecode,
		},
		{
			name: "content version",
			write: func(t *testing.T, path string) {
				writeEnvelope(t, path, ContentVersion+1, databaseRecord{
					Version: DatabaseVersion,
					Entries: map[string]pollRecord{testID: validPoll},
				})
			},
			wantErr: ErrVersion,
		},
		{
			name: "database version",
			write: func(t *testing.T, path string) {
				writeEnvelope(t, path, ContentVersion, databaseRecord{
					Version: DatabaseVersion + 1,
					Entries: map[string]pollRecord{testID: validPoll},
				})
			},
			wantErr: ErrVersion,
		},
		{
			name: "poll version",
			write: func(t *testing.T, path string) {
				writeEnvelope(t, path, ContentVersion, databaseRecord{
					Version: DatabaseVersion,
					Entries: map[string]pollRecord{testID: oldPoll},
				})
			},
			wantErr: ErrVersion,
		},
		{
			name: "vote shape",
			write: func(t *testing.T, path string) {
				writeEnvelope(t, path, ContentVersion, databaseRecord{
					Version: DatabaseVersion,
					Entries: map[string]pollRecord{testID: badShape},
				})
			},
			wantErr: ErrDecode,
		},
		{
			name: "too many votes",
			write: func(t *testing.T, path string) {
				writeEnvelope(t, path, ContentVersion, databaseRecord{
					Version: DatabaseVersion,
					Entries: map[string]pollRecord{testID: tooManyVotes},
				})
			},
			wantErr: ErrDecode,
		},
		{
			name: "too many polls",
			write: func(t *testing.T, path string) {
				writeEnvelope(t, path, ContentVersion, databaseRecord{
					Version: DatabaseVersion,
					Entries: tooManyPolls,
				})
			},
			wantErr: ErrDecode,
		},
		{
			name: "malformed id",
			write: func(t *testing.T, path string) {
				writeEnvelope(t, path, ContentVersion, databaseRecord{
					Version: DatabaseVersion,
					Entries: map[string]pollRecord{"../etc/passwd": validPoll},
				})
			},
			wantErr: ErrDecode,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "polls.db")
			tt.write(t, path)

			db := seedDatabase(t, 2)
			before := db.IDs()

			err := db.Load(path)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("Load() error = %v, want %v", err, tt.wantErr)
			}

			// prior state untouched
			if !slices.Equal(db.IDs(), before) {
				t.Errorf("Load() changed state on failure: before %v, after %v", before, db.IDs())
			}
		})
	}
}

func TestLoad_MissingFileKeepsNotExist(t *testing.T) {
	err := NewPollDatabase().Load(filepath.Join(t.TempDir(), "nope.db"))
	if !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("Expected fs.ErrNotExist in chain, got %v", err)
	}
}

func TestLoad_AcceptsHandBuiltFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "polls.db")
	writeEnvelope(t, path, ContentVersion, databaseRecord{
		Version: DatabaseVersion,
		Entries: map[string]pollRecord{
			testID: {
				Version: PollVersion,
				Title:   "Lunch?",
				Options: []string{"Pizza", "Sushi"},
				Votes: []voteRecord{
					{Voter: "alice", Choices: []bool{true, false}},
					{Voter: "bob", Choices: []bool{false, true}},
				},
			},
		},
	})

	db := NewPollDatabase()
	if err := db.Load(path); err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	poll, err := db.Get(testID)
	if err != nil {
		t.Fatal(err)
	}
	votes := poll.Votes()
	if len(votes) != 2 || votes[0].Voter != "alice" || votes[1].Voter != "bob" {
		t.Errorf("Expected votes in original order, got %+v", votes)
	}
}
