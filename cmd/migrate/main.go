// Command migrate manages the realty database schema. It shares the
// server's configuration, so the connection comes from config.toml or
// the REALTY_DATABASE_* environment variables.
package main

import (
	"database/sql"
	"flag"
	"fmt"
	"os"
	"strconv"

	_ "github.com/lib/pq"
	"go.uber.org/zap"

	"github.com/realty/backend/internal/infrastructure/config"
	"github.com/realty/backend/internal/infrastructure/logger"
	"github.com/realty/backend/internal/infrastructure/migration"
)

const usageText = `realty schema migration tool

Usage:
  migrate [flags] <command> [arguments]

Commands:
  up                  apply every pending migration
  down                roll back every applied migration
  step <n>            apply n migrations, negative n rolls back
  to <version>        migrate up or down to an exact version
  version             print the current schema version
  force <version>     overwrite the recorded version (requires -yes)
  drop                drop every database object (requires -yes)
  new <name> [notes]  scaffold an empty up/down migration pair
  list                list the migration pairs in the directory

Flags:
  -dir string        migrations directory (default "migrations")
  -log-level string  debug, info, warn or error (default "info")
  -yes               confirm the destructive force and drop commands
`

func main() {
	dir := flag.String("dir", "migrations", "migrations directory")
	level := flag.String("log-level", "info", "log level")
	yes := flag.Bool("yes", false, "confirm destructive commands")
	flag.Usage = func() { fmt.Fprint(os.Stderr, usageText) }
	flag.Parse()

	log, err := logger.New(&logger.Config{Level: *level, Format: "console", Output: "stderr"})
	if err != nil {
		fmt.Fprintln(os.Stderr, "migrate:", err)
		os.Exit(1)
	}
	defer func() {
		_ = logger.Sync(log)
	}()

	if err := run(flag.Args(), *dir, *yes, log); err != nil {
		log.Fatal("migrate failed", zap.Error(err))
	}
}

func run(args []string, dir string, confirmed bool, log *zap.Logger) error {
	if len(args) == 0 {
		flag.Usage()
		return fmt.Errorf("no command given")
	}
	cmd, rest := args[0], args[1:]

	// new and list work on the directory alone
	switch cmd {
	case "new":
		if len(rest) == 0 {
			return fmt.Errorf("usage: migrate new <name> [notes]")
		}
		notes := ""
		if len(rest) > 1 {
			notes = rest[1]
		}
		p, err := migration.Scaffold(dir, rest[0], notes)
		if err != nil {
			return err
		}
		log.Info("migration scaffolded",
			zap.String("up", p.UpPath),
			zap.String("down", p.DownPath),
		)
		return nil

	case "list":
		names, err := migration.List(dir)
		if err != nil {
			return err
		}
		if len(names) == 0 {
			fmt.Println("no migrations in", dir)
			return nil
		}
		for _, name := range names {
			fmt.Println(name)
		}
		return nil
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}

	db, err := sql.Open("postgres", cfg.Database.DSN())
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		return fmt.Errorf("ping database: %w", err)
	}

	mg, err := migration.New(db, dir, log)
	if err != nil {
		return err
	}
	defer mg.Close()

	switch cmd {
	case "up":
		return mg.Up()

	case "down":
		return mg.Down()

	case "step":
		n, err := intArg(rest, "migrate step <n>")
		if err != nil {
			return err
		}
		return mg.Steps(n)

	case "to":
		v, err := intArg(rest, "migrate to <version>")
		if err != nil {
			return err
		}
		if v < 0 {
			return fmt.Errorf("version must not be negative")
		}
		return mg.To(uint(v))

	case "version":
		v, dirty, err := mg.Version()
		if err != nil {
			return err
		}
		if v == 0 {
			fmt.Println("no migrations applied")
			return nil
		}
		fmt.Printf("version %d dirty=%v\n", v, dirty)
		return nil

	case "force":
		v, err := intArg(rest, "migrate force <version>")
		if err != nil {
			return err
		}
		if !confirmed {
			return fmt.Errorf("force rewrites the recorded schema version, rerun with -yes")
		}
		return mg.Force(v)

	case "drop":
		if !confirmed {
			return fmt.Errorf("drop destroys all data, rerun with -yes")
		}
		return mg.Drop()

	default:
		flag.Usage()
		return fmt.Errorf("unknown command %q", cmd)
	}
}

func intArg(rest []string, usage string) (int, error) {
	if len(rest) == 0 {
		return 0, fmt.Errorf("usage: %s", usage)
	}
	n, err := strconv.Atoi(rest[0])
	if err != nil {
		return 0, fmt.Errorf("%q is not a number, usage: %s", rest[0], usage)
	}
	return n, nil
}
