package db

import (
	"context"
	"database/sql"
	"fmt"
	"hash/fnv"
	"sync"
)

// AdvisoryLock is a named, cross-process mutual-exclusion primitive backed
// by a Postgres session advisory lock. The lock lives on a dedicated
// connection, so it is released automatically if the holding process dies
// and its session is torn down.
type AdvisoryLock struct {
	db   *sql.DB
	key  int64
	name string

	mu   sync.Mutex
	conn *sql.Conn
}

// NewAdvisoryLock derives a stable 64-bit lock key from the given name.
func NewAdvisoryLock(db *sql.DB, name string) *AdvisoryLock {
	h := fnv.New64a()
	_, _ = h.Write([]byte(name))
	return &AdvisoryLock{
		db:   db,
		key:  int64(h.Sum64()),
		name: name,
	}
}

// TryAcquire attempts to take the lock without waiting. It returns false
// when another session already holds it.
func (l *AdvisoryLock) TryAcquire(ctx context.Context) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.conn != nil {
		return true, nil
	}

	conn, err := l.db.Conn(ctx)
	if err != nil {
		return false, fmt.Errorf("failed to obtain connection for advisory lock %q: %w", l.name, err)
	}

	var acquired bool
	if err := conn.QueryRowContext(ctx, `SELECT pg_try_advisory_lock($1)`, l.key).Scan(&acquired); err != nil {
		_ = conn.Close()
		return false, fmt.Errorf("failed to try advisory lock %q: %w", l.name, err)
	}
	if !acquired {
		_ = conn.Close()
		return false, nil
	}

	l.conn = conn
	return true, nil
}

// Release unlocks and returns the connection to the pool. Safe to call when
// the lock was never acquired.
func (l *AdvisoryLock) Release(ctx context.Context) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.conn == nil {
		return nil
	}
	conn := l.conn
	l.conn = nil

	_, err := conn.ExecContext(ctx, `SELECT pg_advisory_unlock($1)`, l.key)
	if closeErr := conn.Close(); closeErr != nil && err == nil {
		err = closeErr
	}
	if err != nil {
		return fmt.Errorf("failed to release advisory lock %q: %w", l.name, err)
	}
	return nil
}
