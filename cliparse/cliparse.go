// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package cliparse

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Defaults
const (
	DefaultPort         = 3318
	DefaultDataFile     = "polls.db"
	DefaultSaveInterval = 30 * time.Second
	DefaultVoteRate     = 30.0 // votes per minute per client
	DefaultVoteBurst    = 5
	DefaultEnvFile      = ".env"
)

type Config struct {
	Port         int
	DataFile     string
	SaveInterval time.Duration
	VoteRate     float64
	VoteBurst    int
	EnvFile      string

	// TrustProxy makes X-Forwarded-For and X-Real-IP decide the client
	// address. Only set it behind a proxy that overwrites those headers.
	TrustProxy bool
}

// ParseFlags reads flags, then the env file, then environment variables.
// Flags win over the environment; the environment wins over defaults.
func ParseFlags(args []string) (Config, error) {
	var cfg Config

	fs := flag.NewFlagSet("pollbox", flag.ContinueOnError)

	fs.IntVar(&cfg.Port, "p", 0, "Server port")
	fs.StringVar(&cfg.DataFile, "f", "", "Database file")
	fs.DurationVar(&cfg.SaveInterval, "save-interval", 0, "How often to save the database")
	fs.Float64Var(&cfg.VoteRate, "vote-rate", 0, "Votes per minute allowed per client")
	fs.IntVar(&cfg.VoteBurst, "vote-burst", 0, "Vote burst allowed per client")
	fs.BoolVar(&cfg.TrustProxy, "trust-proxy", false, "Take client IPs from X-Forwarded-For/X-Real-IP")
	fs.StringVar(&cfg.EnvFile, "env-file", DefaultEnvFile, "Env file to load (missing file is ignored)")

	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	if err := loadEnvFile(cfg.EnvFile); err != nil {
		return Config{}, err
	}

	// Fall back to environment variables
	if cfg.Port == 0 {
		port, err := envInt("PORT", DefaultPort)
		if err != nil {
			return Config{}, err
		}
		cfg.Port = port
	}
	if cfg.Port < 1 || cfg.Port > 65535 {
		return Config{}, fmt.Errorf("invalid port %d", cfg.Port)
	}

	if cfg.DataFile == "" {
		cfg.DataFile = os.Getenv("POLL_DATA_FILE")
	}
	if cfg.DataFile == "" {
		cfg.DataFile = DefaultDataFile
	}

	if cfg.SaveInterval == 0 {
		if s := os.Getenv("SAVE_INTERVAL"); s != "" {
			d, err := time.ParseDuration(s)
			if err != nil {
				return Config{}, errors.New("invalid SAVE_INTERVAL env variable")
			}
			cfg.SaveInterval = d
		} else {
			cfg.SaveInterval = DefaultSaveInterval
		}
	}
	if cfg.SaveInterval < time.Second {
		return Config{}, errors.New("save interval must be at least 1s")
	}

	if cfg.VoteRate == 0 {
		if s := os.Getenv("VOTE_RATE"); s != "" {
			r, err := strconv.ParseFloat(s, 64)
			if err != nil {
				return Config{}, errors.New("invalid VOTE_RATE env variable")
			}
			cfg.VoteRate = r
		} else {
			cfg.VoteRate = DefaultVoteRate
		}
	}
	if cfg.VoteRate <= 0 {
		return Config{}, errors.New("vote rate must be positive")
	}

	if cfg.VoteBurst == 0 {
		burst, err := envInt("VOTE_BURST", DefaultVoteBurst)
		if err != nil {
			return Config{}, err
		}
		cfg.VoteBurst = burst
	}
	if cfg.VoteBurst < 1 {
		return Config{}, errors.New("vote burst must be at least 1")
	}

	if !cfg.TrustProxy {
		if s := os.Getenv("TRUST_PROXY"); s != "" {
			b, err := strconv.ParseBool(s)
			if err != nil {
				return Config{}, errors.New("invalid TRUST_PROXY env variable")
			}
			cfg.TrustProxy = b
		}
	}

	return cfg, nil
}

// loadEnvFile sets variables from path without overriding ones already set
func loadEnvFile(path string) error {
	if path == "" {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("failed to load env file %s: %w", path, err)
	}
	return nil
}

func envInt(key string, def int) (int, error) {
	s := os.Getenv(key)
	if s == "" {
		return def, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("invalid %s env variable", key)
	}
	return n, nil
}
