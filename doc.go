// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package main provides the entry point for the pollbox API server.

pollbox is a small group polling service: anyone can create a poll with a
title and a list of options, share its ID, and collect one yes/no answer
per option from each voter. Everything lives in memory and is saved to a
single file.

# Starting the Server

	go run . -p 3318 -f polls.db

Or with environment variables (a .env file is read too):

	PORT=3318 POLL_DATA_FILE=/var/lib/pollbox/polls.db go run .

# Configuration

  - PORT (-p): Server port (default: 3318)
  - POLL_DATA_FILE (-f): Database file (default: polls.db)
  - SAVE_INTERVAL (-save-interval): How often changes are saved (default: 30s)
  - VOTE_RATE (-vote-rate): Votes per minute per client IP (default: 30)
  - VOTE_BURST (-vote-burst): Vote burst per client IP (default: 5)
  - TRUST_PROXY (-trust-proxy): Take client IPs from X-Forwarded-For (default: false)
  - -env-file: Env file to load (default: .env, missing file ignored)

# Limits

A server holds at most 100 polls and each poll accepts at most 40 votes.
There is no deletion and no authentication; the poll ID is the only secret.

# Lifecycle

On start the database file is loaded if it exists. A file that cannot be
read, decoded, or that carries a different format version stops startup
rather than being overwritten. Changes are saved in the background every
SAVE_INTERVAL and once more on SIGINT/SIGTERM after in-flight requests
finish.

# Architecture

  - store: Polls, the poll database, and its versioned file format
  - pollid: Poll ID generation and validation
  - markup: Stripping markup from user text
  - handlers: HTTP request handlers
  - router: Route definitions using chi
  - middleware: Logging, rate limiting, CORS, JSON helpers
  - metrics: Prometheus collectors
  - saver: Background persistence
  - models: Request/response types
  - cliparse: Configuration parsing

See package documentation for each component.
*/
package main
