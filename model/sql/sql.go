package sql

import (
	"database/sql"
	"embed"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/jmoiron/sqlx"
	migrate "github.com/rubenv/sql-migrate"
)

//go:embed migrations/*
var embeddedMigrations embed.FS

const (
	maxRetries = 3
	retryDelay = 150 * time.Millisecond
)

func New(dsn string) (*sqlx.DB, error) {
	db, err := sqlx.Connect("mysql", dsn)
	if err != nil {
		return nil, err
	}

	migrationSource := &migrate.EmbedFileSystemMigrationSource{FileSystem: embeddedMigrations, Root: "migrations"}
	_, err = migrate.Exec(db.DB, "mysql", migrationSource, migrate.Up)
	if err != nil {
		return nil, err
	}

	db = db.Unsafe()
	db.SetMaxIdleConns(100)
	db.SetMaxOpenConns(100)
	db.SetConnMaxIdleTime(10 * time.Minute)

	return db, nil
}

// withRetry re-runs fn on transient failures. The retry budget is small;
// whatever survives it is returned to the caller, who fails closed.
func withRetry(fn func() error) error {
	var err error
	for attempt := 0; attempt < maxRetries; attempt++ {
		err = fn()
		if err == nil || err == sql.ErrNoRows {
			return err
		}
		time.Sleep(retryDelay * time.Duration(attempt+1))
	}
	return err
}

func NewNullString(s string) sql.NullString {
	if len(s) == 0 {
		return sql.NullString{}
	}
	return sql.NullString{
		String: s,
		Valid:  true,
	}
}
