// Package storage persists the client session in a local SQLite file.
package storage

import (
	"context"
	"database/sql"
	"embed"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/dtroode/roleauth/internal/client/session"
	"github.com/pressly/goose/v3"

	_ "modernc.org/sqlite"
)

//go:embed migrations/*.sql
var migrations embed.FS

const (
	keyToken = "token"
	keyUser  = "user"
)

// Store is a SQLite backed session.Persister.
type Store struct {
	db *sql.DB
}

// Open opens (creating if needed) the database at dsn and migrates it.
func Open(ctx context.Context, dsn string) (*Store, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open session db: %w", err)
	}
	db.SetMaxOpenConns(1)

	if err := migrate(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}

	return New(db), nil
}

// New wraps an already migrated database.
func New(db *sql.DB) *Store {
	return &Store{db: db}
}

func migrate(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations)
	goose.SetLogger(goose.NopLogger())
	if err := goose.SetDialect("sqlite3"); err != nil {
		return fmt.Errorf("failed to set goose dialect: %w", err)
	}
	if err := goose.UpContext(ctx, db, "migrations"); err != nil {
		return fmt.Errorf("failed to migrate session db: %w", err)
	}
	return nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// SaveSession writes token and user in one transaction.
func (s *Store) SaveSession(ctx context.Context, token string, user session.User) error {
	raw, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("failed to encode user: %w", err)
	}

	return withTx(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		if err := set(ctx, tx, keyToken, []byte(token)); err != nil {
			return err
		}
		return set(ctx, tx, keyUser, raw)
	})
}

// ClearSession removes token and user in one transaction.
func (s *Store) ClearSession(ctx context.Context) error {
	return withTx(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, `DELETE FROM metadata WHERE key IN (?, ?)`, keyToken, keyUser)
		if err != nil {
			return fmt.Errorf("failed to clear session: %w", err)
		}
		return nil
	})
}

// LoadSession reads whatever part of the session is stored. An undecodable
// user is reported as missing.
func (s *Store) LoadSession(ctx context.Context) (string, *session.User, error) {
	token, err := s.get(ctx, keyToken)
	if err != nil {
		return "", nil, err
	}

	raw, err := s.get(ctx, keyUser)
	if err != nil {
		return "", nil, err
	}
	if raw == nil {
		return string(token), nil, nil
	}

	var user session.User
	if err := json.Unmarshal(raw, &user); err != nil {
		return string(token), nil, nil
	}
	return string(token), &user, nil
}

func (s *Store) get(ctx context.Context, key string) ([]byte, error) {
	var value []byte
	err := s.db.QueryRowContext(ctx, `SELECT value FROM metadata WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get metadata[%s]: %w", key, err)
	}
	return value, nil
}

func set(ctx context.Context, tx *sql.Tx, key string, value []byte) error {
	_, err := tx.ExecContext(ctx, `
		INSERT INTO metadata (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value
	`, key, value)
	if err != nil {
		return fmt.Errorf("failed to set metadata[%s]: %w", key, err)
	}
	return nil
}

// withTx runs fn inside a transaction, committing on success and rolling
// back on error or panic.
func withTx(ctx context.Context, db *sql.DB, fn func(ctx context.Context, tx *sql.Tx) error) (err error) {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
		if err != nil {
			_ = tx.Rollback()
			return
		}
		if cerr := tx.Commit(); cerr != nil {
			err = fmt.Errorf("failed to commit transaction: %w", cerr)
		}
	}()

	return fn(ctx, tx)
}
