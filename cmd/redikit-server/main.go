// Command redikit-server runs a Redis-compatible RESP server, optionally
// loading a snapshot at startup and reporting as a replication master or
// slave depending on --replicaof.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/avbdev/redikit/internal/rdb"
	"github.com/avbdev/redikit/internal/redisconf"
	"github.com/avbdev/redikit/internal/server"
	"github.com/avbdev/redikit/internal/store"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var (
		dir        string
		dbFilename string
		port       int
		replicaof  string
	)

	cmd := &cobra.Command{
		Use:   "redikit-server",
		Short: "A Redis-compatible RESP server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(dir, dbFilename, port, replicaof)
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&dir, "dir", "", "directory for the snapshot file")
	flags.StringVar(&dbFilename, "dbfilename", "", "snapshot filename")
	flags.IntVar(&port, "port", 6379, "listening port")
	flags.StringVar(&replicaof, "replicaof", "", `"<host> <port>" of the master to replicate`)

	return cmd
}

func run(dir, dbFilename string, port int, replicaof string) error {
	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen}).
		With().Timestamp().Logger()
	log.Logger = logger

	ks := store.NewKeyspace()

	if dir != "" && dbFilename != "" {
		if err := loadSnapshot(ks, filepath.Join(dir, dbFilename), logger); err != nil {
			return fmt.Errorf("load snapshot: %w", err)
		}
	}

	cfg := redisconf.NewConfig(redisconf.Options{Dir: dir, DBFilename: dbFilename, Port: port})

	var repl *redisconf.ReplicationInfo
	if replicaof != "" {
		if _, _, err := parseReplicaOf(replicaof); err != nil {
			return fmt.Errorf("parse --replicaof: %w", err)
		}
		repl = redisconf.NewSlaveReplicationInfo()
	} else {
		repl = redisconf.NewMasterReplicationInfo()
	}

	addr := fmt.Sprintf("127.0.0.1:%d", port)
	srv := server.NewServer(addr, ks, cfg, repl, logger)
	if err := srv.Listen(); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	serveErr := make(chan error, 1)
	go func() { serveErr <- srv.Serve() }()

	select {
	case <-ctx.Done():
		logger.Info().Msg("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	case err := <-serveErr:
		return err
	}
}

func loadSnapshot(ks *store.Keyspace, path string, logger zerolog.Logger) error {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return err
	}
	defer f.Close()

	snap, err := rdb.Decode(f)
	if err != nil {
		return err
	}

	entries := make([]store.Entry, len(snap.Entries))
	for i, e := range snap.Entries {
		entries[i] = store.Entry{Key: e.Key, Value: e.Value, Expiration: e.Expiration}
	}
	ks.Load(entries)
	logger.Info().Int("entries", len(entries)).Str("path", path).Msg("loaded snapshot")
	return nil
}

func parseReplicaOf(v string) (host string, port string, err error) {
	parts := strings.Fields(v)
	if len(parts) != 2 {
		return "", "", fmt.Errorf("expected \"<host> <port>\", got %q", v)
	}
	return parts[0], parts[1], nil
}
