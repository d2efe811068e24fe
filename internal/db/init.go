package db

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"github.com/RezaEskandarii/remindfire/internal/constants"
	"github.com/RezaEskandarii/remindfire/internal/lock"
	"io/fs"
	"log"
	"sort"
	"time"
)

//go:embed migrations/*.sql
var migrations embed.FS

const schema = "remindfire_schema"

// Init creates the schema and runs the embedded migrations in file name order.
// Only one instance migrates at a time; the others wait on the migration lock.
func Init(ctx context.Context, db *sql.DB, distributedLock lock.DistributedLockManager) error {
	migrationLock := constants.MigrationLock

	lockCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()
	if err := lock.AcquireWithin(lockCtx, distributedLock, migrationLock, 500*time.Millisecond); err != nil {
		return err
	}
	defer distributedLock.Release(ctx, migrationLock)

	if err := db.PingContext(ctx); err != nil {
		return fmt.Errorf("ping database: %w", err)
	}

	if _, err := db.ExecContext(ctx, fmt.Sprintf("CREATE SCHEMA IF NOT EXISTS %s", schema)); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}

	scripts, err := readSQLScripts()
	if err != nil {
		return err
	}
	for _, script := range scripts {
		log.Printf("running migration %s", script.name)
		if _, err := db.ExecContext(ctx, script.body); err != nil {
			return fmt.Errorf("migration %s: %w", script.name, err)
		}
	}
	return nil
}

type sqlScript struct {
	name string
	body string
}

func readSQLScripts() ([]sqlScript, error) {
	entries, err := fs.ReadDir(migrations, "migrations")
	if err != nil {
		return nil, err
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Name() < entries[j].Name() })

	var scripts []sqlScript
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		content, err := migrations.ReadFile("migrations/" + entry.Name())
		if err != nil {
			return nil, err
		}
		scripts = append(scripts, sqlScript{name: entry.Name(), body: string(content)})
	}
	return scripts, nil
}
