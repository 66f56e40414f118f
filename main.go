package main

import (
	"context"
	"errors"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/danielhkuo/pollbox/cliparse"
	"github.com/danielhkuo/pollbox/markup"
	"github.com/danielhkuo/pollbox/metrics"
	"github.com/danielhkuo/pollbox/router"
	"github.com/danielhkuo/pollbox/saver"
	"github.com/danielhkuo/pollbox/store"
)

const shutdownTimeout = 10 * time.Second

func main() {
	var err error

	// Parse configuration
	cfg, err := cliparse.ParseFlags(os.Args[1:])
	if err != nil {
		slog.Error("Error parsing flags", "error", err)
		os.Exit(1)
	}

	db := store.NewPollDatabase(store.WithSanitizer(markup.Sanitize))

	// Restore polls from the last run, if any
	err = db.Load(cfg.DataFile)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		slog.Info("no database file yet, starting empty", "path", cfg.DataFile)
	case err != nil:
		slog.Error("database load failed", "path", cfg.DataFile, "error", err)
		os.Exit(1)
	}

	m := metrics.New(db.Len)
	s := saver.New(db, cfg.DataFile, cfg.SaveInterval, m)

	ctx, cancel := context.WithCancel(context.Background())
	saverDone := make(chan error, 1)
	go func() {
		saverDone <- s.Run(ctx)
	}()

	// Create server
	server := http.Server{
		Handler:           router.NewRouter(db, cfg, m, s),
		Addr:              ":" + strconv.Itoa(cfg.Port),
		ReadHeaderTimeout: 10 * time.Second,
	}

	// signal.Notify requires the channel to be buffered
	ctrlc := make(chan os.Signal, 1)
	signal.Notify(ctrlc, os.Interrupt, syscall.SIGTERM)
	go func() {
		// Wait for Ctrl-C signal
		<-ctrlc
		slog.Info("shutting down")

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer shutdownCancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			slog.Error("graceful shutdown failed", "error", err)
			server.Close()
		}
	}()

	// Start server
	slog.Info("Listening", "port", cfg.Port, "data_file", cfg.DataFile)
	err = server.ListenAndServe()
	if err != nil && err != http.ErrServerClosed {
		slog.Error("Server closed", "error", err)
	} else {
		slog.Info("Server closed", "error", err)
	}

	// Final save once no handler can change the database any more
	cancel()
	if err := <-saverDone; err != nil {
		os.Exit(1)
	}
}
