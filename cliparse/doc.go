// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package cliparse handles command-line argument parsing and configuration.

# Configuration

ParseFlags returns a Config struct with all settings:

	cfg, err := cliparse.ParseFlags(os.Args[1:])

# Config Fields

  - Port: Server listen port (default: 3318)
  - DataFile: Database file loaded at startup and saved periodically (default: polls.db)
  - SaveInterval: Time between background saves (default: 30s, minimum 1s)
  - VoteRate: Votes per minute allowed per client IP (default: 30)
  - VoteBurst: Votes a client may cast back to back (default: 5)
  - EnvFile: Env file read before the environment (default: .env)

# CLI Flags

	-p             Server port
	-f             Database file
	-save-interval Save interval (Go duration, e.g. 30s)
	-vote-rate     Votes per minute per client
	-vote-burst    Vote burst per client
	-env-file      Env file path ("" disables)

# Environment Variables

Flags fall back to environment variables:

	PORT           → -p
	POLL_DATA_FILE → -f
	SAVE_INTERVAL  → -save-interval
	VOTE_RATE      → -vote-rate
	VOTE_BURST     → -vote-burst

CLI flags take precedence over environment variables. Variables from the env
file (loaded with godotenv) never override variables already set. A missing
env file is not an error.
*/
package cliparse
