package database

import (
	"database/sql"
	"errors"
	"fmt"
	"log"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/lib/pq"
)

// ensureDatabase creates the target database if it does not exist, by
// connecting to the "postgres" maintenance database with the same
// credentials taken from databaseURL.
func ensureDatabase(databaseURL string) error {
	u, err := url.Parse(databaseURL)
	if err != nil {
		return fmt.Errorf("parse database url: %w", err)
	}
	dbName := strings.TrimPrefix(u.Path, "/")
	if dbName == "" {
		return errors.New("database name is empty in url")
	}

	u.Path = "/postgres"
	db, err := sql.Open("postgres", u.String())
	if err != nil {
		return fmt.Errorf("open admin connection: %w", err)
	}
	defer db.Close()

	var exists bool
	err = db.QueryRow("SELECT true FROM pg_database WHERE datname = $1", dbName).Scan(&exists)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("check database existence: %w", err)
	}
	if exists {
		return nil
	}
	if _, err := db.Exec("CREATE DATABASE " + pq.QuoteIdentifier(dbName)); err != nil {
		return fmt.Errorf("create database %q: %w", dbName, err)
	}
	log.Printf("database: created %q", dbName)
	return nil
}

// migrationsDir locates database/migrations relative to cwd or its parent
// (the latter when running from bin/).
func migrationsDir() string {
	cwd, _ := os.Getwd()
	for _, d := range []string{
		filepath.Join(cwd, "database", "migrations"),
		filepath.Join(cwd, "..", "database", "migrations"),
	} {
		if _, err := os.Stat(d); err == nil {
			abs, _ := filepath.Abs(d)
			return abs
		}
	}
	return ""
}

// MigrateUp runs all pending SQL migrations (golang-migrate), creating the
// database first if needed.
func MigrateUp(databaseURL string) error {
	if err := ensureDatabase(databaseURL); err != nil {
		return fmt.Errorf("ensure database: %w", err)
	}
	dir := migrationsDir()
	if dir == "" {
		return errors.New("migrations dir not found (tried cwd and parent)")
	}
	m, err := migrate.New("file://"+filepath.ToSlash(dir), databaseURL)
	if err != nil {
		return fmt.Errorf("migrate new: %w", err)
	}
	defer m.Close()
	if err := m.Up(); err != nil {
		if errors.Is(err, migrate.ErrNoChange) {
			log.Println("migrate: no pending migrations")
			return nil
		}
		return err
	}
	log.Println("migrate: up ok")
	return nil
}

// CreateMigration writes an empty up/down pair into database/migrations.
func CreateMigration(name string) error {
	dir := migrationsDir()
	if dir == "" {
		cwd, _ := os.Getwd()
		dir = filepath.Join(cwd, "database", "migrations")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	base := fmt.Sprintf("%d_%s", time.Now().Unix(), name)
	up := filepath.Join(dir, base+".up.sql")
	down := filepath.Join(dir, base+".down.sql")
	if err := os.WriteFile(up, []byte("-- migration up: "+name+"\n"), 0o644); err != nil {
		return err
	}
	return os.WriteFile(down, []byte("-- migration down: "+name+"\n"), 0o644)
}
