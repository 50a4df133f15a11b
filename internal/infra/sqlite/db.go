// Package sqlite implements the user and ledger stores on an embedded
// SQLite database. Writes go through a bulkhead (SQLite serializes
// writers) and transient lock errors are retried with backoff.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/neurobudget/neurobudget-api/internal/infra/resilience"

	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS users (
	id            TEXT PRIMARY KEY,
	email         TEXT NOT NULL UNIQUE,
	password_hash TEXT NOT NULL,
	first_name    TEXT NOT NULL,
	last_name     TEXT NOT NULL,
	role          TEXT NOT NULL,
	enabled       INTEGER NOT NULL DEFAULT 1,
	created_at    TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS accounts (
	id              TEXT PRIMARY KEY,
	user_id         TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
	name            TEXT NOT NULL,
	type            TEXT NOT NULL,
	balance         TEXT NOT NULL,
	credit_limit    TEXT,
	minimum_payment TEXT,
	currency        TEXT NOT NULL,
	active          INTEGER NOT NULL DEFAULT 1,
	created_at      TEXT NOT NULL,
	updated_at      TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_accounts_user ON accounts(user_id);

CREATE TABLE IF NOT EXISTS transactions (
	id               TEXT PRIMARY KEY,
	account_id       TEXT NOT NULL REFERENCES accounts(id) ON DELETE CASCADE,
	transaction_date TEXT NOT NULL,
	description      TEXT NOT NULL,
	merchant         TEXT NOT NULL,
	amount           TEXT NOT NULL,
	type             TEXT NOT NULL,
	category         TEXT NOT NULL,
	emotion          TEXT,
	trigger_tag      TEXT,
	notes            TEXT NOT NULL DEFAULT '',
	is_credit_spend  INTEGER NOT NULL DEFAULT 0,
	is_recurring     INTEGER NOT NULL DEFAULT 0,
	created_at       TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_transactions_account ON transactions(account_id);
CREATE INDEX IF NOT EXISTS idx_transactions_date ON transactions(transaction_date);
CREATE INDEX IF NOT EXISTS idx_transactions_emotion ON transactions(emotion);
CREATE INDEX IF NOT EXISTS idx_transactions_trigger ON transactions(trigger_tag);
`

// Store wraps the embedded database and implements port.UserStore and
// port.LedgerStore.
type Store struct {
	db       *sql.DB
	writers  *resilience.Bulkhead
	retryCfg resilience.Config
	logger   *zap.Logger
}

// Open opens (creating if needed) the database at path, applies the schema
// and returns a ready Store. Foreign keys are enforced and WAL mode is
// enabled so readers never block behind the writer.
func Open(path string, maxWriters int, retryCfg resilience.Config, logger *zap.Logger) (*Store, error) {
	dsn := fmt.Sprintf("file:%s?_pragma=foreign_keys(1)&_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)", path)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}

	return &Store{
		db:       db,
		writers:  resilience.NewBulkhead(maxWriters),
		retryCfg: retryCfg,
		logger:   logger,
	}, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// isBusy reports whether err is a transient SQLite lock error worth retrying.
func isBusy(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "SQLITE_BUSY") || strings.Contains(msg, "database is locked")
}

// withWriteTx runs fn inside a write transaction, bounded by the writer
// bulkhead and retried on transient lock errors. fn must be idempotent
// because it may run more than once.
func (s *Store) withWriteTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	if err := s.writers.Acquire(ctx); err != nil {
		return err
	}
	defer s.writers.Release()

	return resilience.Retry(ctx, s.retryCfg, isBusy, func() error {
		tx, err := s.db.BeginTx(ctx, nil)
		if err != nil {
			return err
		}
		if err := fn(tx); err != nil {
			tx.Rollback()
			return err
		}
		return tx.Commit()
	})
}
