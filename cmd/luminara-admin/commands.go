package main

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/luminara/journey-api/config"
	"github.com/luminara/journey-api/internal/adapters/directory"
	"github.com/luminara/journey-api/internal/bootstrap"
	"github.com/luminara/journey-api/internal/data"
	domainauth "github.com/luminara/journey-api/internal/domain/auth"
	"github.com/luminara/journey-api/internal/ports"
)

const (
	defaultMigrationTimeout = 5 * time.Minute
	defaultCommandTimeout   = 30 * time.Second
)

type migrateOptions struct {
	Timeout time.Duration
}

type createUserOptions struct {
	Name     string
	Email    string
	Password string
}

type purgeOptions struct {
	MaxAge time.Duration
}

type showOptions struct {
	Scope string
}

func runMigrations(cmdCtx *commandContext, args []string) error {
	opts, err := parseMigrateFlags(args)
	if err != nil {
		return err
	}
	return withDatabase(cmdCtx, opts.Timeout, func(ctx context.Context, db *sql.DB) error {
		cmdCtx.Logger.Info("running database migrations")
		if migrateErr := bootstrap.RunMigrations(ctx, db, cmdCtx.Logger); migrateErr != nil {
			return migrateErr
		}
		cmdCtx.Logger.Info("migrations completed successfully")
		return nil
	})
}

func runCreateUser(cmdCtx *commandContext, args []string) error {
	opts, err := parseCreateUserFlags(args)
	if err != nil {
		return err
	}
	return withDatabase(cmdCtx, defaultCommandTimeout, func(ctx context.Context, db *sql.DB) error {
		auth, err := directory.New(directory.Options{Accounts: data.NewCredentialRepo(db)})
		if err != nil {
			return err
		}
		user, err := auth.Register(ctx, domainauth.Registration{
			Name:     opts.Name,
			Email:    opts.Email,
			Password: opts.Password,
		})
		if err != nil {
			return fmt.Errorf("create user: %w", err)
		}
		return writef(cmdCtx.Out, "created %s <%s> (%s)\n", user.Name, user.Email, user.ID)
	})
}

func runPurgeState(cmdCtx *commandContext, args []string) error {
	opts, err := parsePurgeFlags(args)
	if err != nil {
		return err
	}
	return withDatabase(cmdCtx, defaultCommandTimeout, func(ctx context.Context, db *sql.DB) error {
		removed, err := data.NewStateRepo(db).PurgeIdle(ctx, opts.MaxAge)
		if err != nil {
			return err
		}
		return writef(cmdCtx.Out, "purged %d state records idle for more than %s\n", removed, opts.MaxAge)
	})
}

func runShowState(cmdCtx *commandContext, args []string) error {
	opts, err := parseShowFlags(args)
	if err != nil {
		return err
	}
	if cmdCtx.Config.Store.Backend == config.StoreBackendMemory {
		return errors.New("show-state needs a persistent store backend (redis or postgres)")
	}

	ctx, cancel := commandContextWithTimeout(cmdCtx.Ctx, defaultCommandTimeout)
	defer cancel()

	deps := bootstrap.StoreDeps{Config: cmdCtx.Config.Store, Logger: cmdCtx.Logger}
	dbCfg := bootstrap.DatabaseConfig{
		DBConfig:    cmdCtx.Config.Postgres,
		RedisConfig: cmdCtx.Config.Redis,
		Logger:      cmdCtx.Logger,
	}
	switch cmdCtx.Config.Store.Backend {
	case config.StoreBackendPostgres:
		db, err := bootstrap.ConnectDB(ctx, dbCfg)
		if err != nil {
			return fmt.Errorf("connect db: %w", err)
		}
		defer closeQuietly(cmdCtx, "db", db.Close)
		deps.DB = db
	case config.StoreBackendRedis:
		client, err := bootstrap.ConnectRedis(ctx, dbCfg)
		if err != nil {
			return fmt.Errorf("connect redis: %w", err)
		}
		defer closeQuietly(cmdCtx, "redis", client.Close)
		deps.RedisClient = client
	}

	store, err := bootstrap.BuildStateStore(deps)
	if err != nil {
		return err
	}
	return printState(ctx, cmdCtx, store, opts.Scope)
}

func printState(ctx context.Context, cmdCtx *commandContext, store ports.StateStore, scope string) error {
	for _, key := range []string{ports.KeyUserSession, ports.KeyJourneyState} {
		raw, err := store.Load(ctx, scope, key)
		switch {
		case errors.Is(err, ports.ErrNotFound):
			if werr := writef(cmdCtx.Out, "%s: <none>\n", key); werr != nil {
				return werr
			}
			continue
		case err != nil:
			return fmt.Errorf("load %s: %w", key, err)
		}
		if werr := writef(cmdCtx.Out, "%s:\n%s\n", key, indentJSON(raw)); werr != nil {
			return werr
		}
	}
	return nil
}

func indentJSON(raw []byte) string {
	var out strings.Builder
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return string(raw)
	}
	enc := json.NewEncoder(&out)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return string(raw)
	}
	return strings.TrimRight(out.String(), "\n")
}

func withDatabase(
	cmdCtx *commandContext,
	timeout time.Duration,
	f func(context.Context, *sql.DB) error,
) error {
	ctx, cancel := commandContextWithTimeout(cmdCtx.Ctx, timeout)
	defer cancel()

	db, err := bootstrap.ConnectDB(ctx, bootstrap.DatabaseConfig{
		DBConfig: cmdCtx.Config.Postgres,
		Logger:   cmdCtx.Logger,
	})
	if err != nil {
		return fmt.Errorf("connect db: %w", err)
	}
	defer closeQuietly(cmdCtx, "db", db.Close)

	return f(ctx, db)
}

func commandContextWithTimeout(parent context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	ctx, cancel := context.WithTimeout(ctx, timeout)
	return ctx, func() {
		cancel()
		stop()
	}
}

func closeQuietly(cmdCtx *commandContext, what string, closeFn func() error) {
	if err := closeFn(); err != nil {
		cmdCtx.Logger.Warn(what+" close failed", "error", err)
	}
}

func parseMigrateFlags(args []string) (migrateOptions, error) {
	fs := flag.NewFlagSet("migrate", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)

	opts := migrateOptions{}
	fs.DurationVar(&opts.Timeout, "timeout", defaultMigrationTimeout,
		"Maximum duration to wait for migrations to complete")

	if err := fs.Parse(args); err != nil {
		return migrateOptions{}, err
	}
	if opts.Timeout <= 0 {
		return migrateOptions{}, errors.New("--timeout must be greater than zero")
	}
	return opts, nil
}

func parseCreateUserFlags(args []string) (createUserOptions, error) {
	fs := flag.NewFlagSet("create-user", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)

	opts := createUserOptions{}
	fs.StringVar(&opts.Name, "name", "", "Display name")
	fs.StringVar(&opts.Email, "email", "", "Sign-in email")
	fs.StringVar(&opts.Password, "password", "", "Password (falls back to LUMINARA_ADMIN_PASSWORD)")

	if err := fs.Parse(args); err != nil {
		return createUserOptions{}, err
	}
	if opts.Password == "" {
		opts.Password = os.Getenv("LUMINARA_ADMIN_PASSWORD")
	}
	opts.Name = strings.TrimSpace(opts.Name)
	opts.Email = strings.TrimSpace(opts.Email)

	if opts.Name == "" || opts.Email == "" || opts.Password == "" {
		return createUserOptions{}, errors.New("--name, --email and --password are required")
	}
	return opts, nil
}

func parsePurgeFlags(args []string) (purgeOptions, error) {
	fs := flag.NewFlagSet("purge-state", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)

	opts := purgeOptions{}
	fs.DurationVar(&opts.MaxAge, "max-age", 30*24*time.Hour, "Delete records not written for this long")

	if err := fs.Parse(args); err != nil {
		return purgeOptions{}, err
	}
	if opts.MaxAge <= 0 {
		return purgeOptions{}, errors.New("--max-age must be greater than zero")
	}
	return opts, nil
}

func parseShowFlags(args []string) (showOptions, error) {
	fs := flag.NewFlagSet("show-state", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)

	opts := showOptions{}
	fs.StringVar(&opts.Scope, "scope", "", "Session scope (the session_id cookie value)")

	if err := fs.Parse(args); err != nil {
		return showOptions{}, err
	}
	opts.Scope = strings.TrimSpace(opts.Scope)
	if opts.Scope == "" {
		return showOptions{}, errors.New("--scope is required")
	}
	return opts, nil
}
