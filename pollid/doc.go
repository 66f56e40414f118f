// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package pollid generates poll identifiers.

# Generation

An identifier is the SHA-256 digest of 32 random bytes, hex encoded:

	id, err := pollid.Generate() // 64 lowercase hex characters

The random bytes are hashed before use so the identifier always has the same
width and alphabet, whatever the entropy source hands back.

Generate never retries. Deciding what to do with a duplicate is up to the
caller (see store.PollDatabase.Add).

# Validation

Valid checks the shape only:

	if !pollid.Valid(id) {
		// reject without a lookup
	}
*/
package pollid
