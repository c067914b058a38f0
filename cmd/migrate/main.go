package main

import (
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strconv"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"

	"github.com/Haleralex/jobportal/internal/config"
	"github.com/Haleralex/jobportal/internal/infrastructure/persistence"
	"github.com/Haleralex/jobportal/internal/pkg/logger"
)

const usage = `usage: migrate [flags] <command> [arg]

commands:
  up [n]        apply all or n pending migrations
  down [n]      roll back all or n migrations
  force <v>     set the version without running migrations
  version       print the current version
  drop          drop every table`

func main() {
	dir := flag.String("path", "./migrations", "Directory with *.up.sql / *.down.sql files")
	databaseURL := flag.String("database-url", "", "PostgreSQL URL; defaults to database.url from config")
	flag.Usage = func() { fmt.Fprintln(flag.CommandLine.Output(), usage); flag.PrintDefaults() }
	flag.Parse()

	log := logger.New(&logger.Config{Level: "info", Format: "text", Service: "migrate"})

	if err := run(log, *dir, *databaseURL, flag.Args()); err != nil {
		log.Error("Migration failed", logger.Err(err))
		os.Exit(1)
	}
}

func run(log *slog.Logger, dir, databaseURL string, args []string) error {
	command, arg := "up", ""
	if len(args) > 0 {
		command = args[0]
	}
	if len(args) > 1 {
		arg = args[1]
	}

	if databaseURL == "" {
		cfg, err := config.LoadFromEnv()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		databaseURL = cfg.Database.URL
	}
	if databaseURL == "" {
		return errors.New("database URL is required: pass -database-url or set DATABASE_URL")
	}
	// SQLite stores create their tables on open.
	if scheme := persistence.Scheme(databaseURL); scheme != "postgres" && scheme != "postgresql" {
		return fmt.Errorf("migrations apply to PostgreSQL only, got scheme %q", scheme)
	}

	m, err := migrate.New("file://"+dir, databaseURL)
	if err != nil {
		return fmt.Errorf("open migrations: %w", err)
	}
	defer m.Close()
	m.Log = migrateLogger{log}

	switch command {
	case "up", "down":
		n, err := optionalInt(arg)
		if err != nil {
			return err
		}
		err = step(m, command, n)
		if errors.Is(err, migrate.ErrNoChange) {
			log.Info("No migrations to apply")
			return nil
		}
		if err != nil {
			return fmt.Errorf("%s: %w", command, err)
		}

	case "force":
		v, err := strconv.Atoi(arg)
		if err != nil {
			return fmt.Errorf("force requires a version: %w", err)
		}
		if err := m.Force(v); err != nil {
			return fmt.Errorf("force: %w", err)
		}

	case "version":
		// reported below

	case "drop":
		if err := m.Drop(); err != nil {
			return fmt.Errorf("drop: %w", err)
		}
		log.Info("All tables dropped")
		return nil

	default:
		return fmt.Errorf("unknown command %q\n%s", command, usage)
	}

	version, dirty, err := m.Version()
	if errors.Is(err, migrate.ErrNilVersion) {
		log.Info("No migrations applied yet")
		return nil
	}
	if err != nil {
		return fmt.Errorf("read version: %w", err)
	}
	log.Info("Schema version", slog.Uint64("version", uint64(version)), slog.Bool("dirty", dirty))
	return nil
}

func step(m *migrate.Migrate, command string, n int) error {
	switch {
	case n == 0 && command == "up":
		return m.Up()
	case n == 0:
		return m.Down()
	case command == "up":
		return m.Steps(n)
	default:
		return m.Steps(-n)
	}
}

func optionalInt(s string) (int, error) {
	if s == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("invalid step count %q", s)
	}
	return n, nil
}

// migrateLogger routes migrate's progress output into slog.
type migrateLogger struct {
	log *slog.Logger
}

func (l migrateLogger) Printf(format string, v ...any) {
	l.log.Info(fmt.Sprintf(format, v...))
}

func (l migrateLogger) Verbose() bool { return true }
