package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"time"

	"ledger-service/internal/config"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
)

var dbStatus atomic.Bool

// CheckHealth pings db and logs when reachability changes between calls.
func CheckHealth(ctx context.Context, db *sqlx.DB) error {
	var err error
	if db == nil {
		err = errors.New("database is not connected")
	} else if pingErr := db.PingContext(ctx); pingErr != nil {
		err = fmt.Errorf("failed to ping database: %w", pingErr)
	}

	healthy := err == nil
	if was := dbStatus.Swap(healthy); was != healthy {
		if healthy {
			slog.Info("database is reachable again")
		} else {
			slog.Warn("database became unreachable", "error", err)
		}
	}
	return err
}

// DSN builds a lib/pq connection string for the given database name.
func DSN(cfg config.PostgresConfig, dbname string) string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		cfg.Host, cfg.Port, cfg.Username, cfg.Password, dbname)
}

// ConnectAndCreateDB connects to the maintenance database, creates the ledger
// database when missing and bootstraps it from schema.sql.
func ConnectAndCreateDB(cfg config.PostgresConfig) (*sqlx.DB, error) {
	slog.Info("connecting to PostgreSQL", "host", cfg.Host, "port", cfg.Port, "user", cfg.Username, "dbname", cfg.DBname)

	defaultDB, err := sql.Open("postgres", DSN(cfg, "postgres"))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to default postgres db: %w", err)
	}
	defer defaultDB.Close()

	var exists bool
	err = defaultDB.QueryRow(`SELECT EXISTS(SELECT 1 FROM pg_database WHERE datname = $1)`, cfg.DBname).Scan(&exists)
	if err != nil {
		return nil, fmt.Errorf("failed to check if database exists: %w", err)
	}

	if !exists {
		if _, err = defaultDB.Exec(fmt.Sprintf(`CREATE DATABASE "%s"`, cfg.DBname)); err != nil {
			return nil, fmt.Errorf("failed to create database %s: %w", cfg.DBname, err)
		}
		slog.Info("database created", "dbname", cfg.DBname)
	}

	db, err := sqlx.Connect("postgres", DSN(cfg, cfg.DBname))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to target database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(30 * time.Minute)

	if !exists {
		if err := executeSchema(db); err != nil {
			// manual schema setup stays possible
			slog.Warn("failed to execute schema.sql", "error", err)
		}
	}

	dbStatus.Store(true)
	return db, nil
}

func findSchema() (string, error) {
	locations := []string{
		"schema.sql",
		"../schema.sql",
		"/app/schema.sql",
		filepath.Join(os.Getenv("PWD"), "schema.sql"),
	}
	for _, location := range locations {
		if _, err := os.Stat(location); err == nil {
			return location, nil
		}
	}
	return "", fmt.Errorf("schema.sql not found in any expected locations: %v", locations)
}

// SplitStatements breaks a schema file into executable statements, dropping
// blanks and comment-only chunks.
func SplitStatements(schema string) []string {
	var statements []string
	for _, raw := range strings.Split(schema, ";") {
		var kept []string
		for _, line := range strings.Split(raw, "\n") {
			trimmed := strings.TrimSpace(line)
			if trimmed == "" || strings.HasPrefix(trimmed, "--") {
				continue
			}
			kept = append(kept, line)
		}
		if stmt := strings.TrimSpace(strings.Join(kept, "\n")); stmt != "" {
			statements = append(statements, stmt)
		}
	}
	return statements
}

func executeSchema(db *sqlx.DB) error {
	path, err := findSchema()
	if err != nil {
		return err
	}
	content, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read schema.sql from %s: %w", path, err)
	}

	slog.Info("executing schema", "path", path)

	successCount := 0
	for i, statement := range SplitStatements(string(content)) {
		if _, err := db.Exec(statement); err != nil {
			slog.Warn("failed to execute schema statement", "index", i+1, "error", err,
				"statement", statement[:min(100, len(statement))])
			continue
		}
		successCount++
	}

	slog.Info("schema execution completed", "statements", successCount)
	return nil
}

// RetryConnectOnFailed keeps reconnecting until the database answers, sleeping
// wait between attempts. It only runs at startup.
func RetryConnectOnFailed(wait time.Duration, db **sqlx.DB, cfg config.PostgresConfig) {
	for {
		if *db != nil {
			err := (*db).Ping()
			if err == nil {
				slog.Info("database connection is healthy, no retry needed")
				return
			}
			slog.Warn("failed to ping database, retrying", "error", err)
		}

		newDB, err := ConnectAndCreateDB(cfg)
		if err == nil {
			*db = newDB
			slog.Info("database retry connection succeeded")
			return
		}
		slog.Error("failed to retry connect database", "error", err, "next_retry", wait)
		time.Sleep(wait)
	}
}
