// Package txn backs the gateway's POST transaction with a postgres pool.
package txn

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/joeydtaylor/steeze-gateway/pkg/core"
)

type beginner interface {
	Begin(ctx context.Context) (pgx.Tx, error)
}

// Manager opens one pgx transaction per mutating request.
type Manager struct {
	db beginner
}

func NewManager(pool *pgxpool.Pool) *Manager { return &Manager{db: pool} }

func (m *Manager) Begin(ctx context.Context) (core.Tx, error) {
	tx, err := m.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("pgx begin: %w", err)
	}
	return &Tx{tx: tx}, nil
}

// Tx adapts pgx.Tx to core.Tx. Close rolls back anything not committed and
// may be called any number of times.
type Tx struct {
	tx pgx.Tx

	mu   sync.Mutex
	done bool
}

func (t *Tx) Commit(ctx context.Context) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.done {
		return pgx.ErrTxClosed
	}
	t.done = true
	return t.tx.Commit(ctx)
}

func (t *Tx) Close(ctx context.Context) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.done {
		return nil
	}
	t.done = true
	if err := t.tx.Rollback(ctx); err != nil && !errors.Is(err, pgx.ErrTxClosed) {
		return err
	}
	return nil
}

// Pgx exposes the underlying transaction to handlers.
func (t *Tx) Pgx() pgx.Tx { return t.tx }

// From returns the pgx transaction behind a call's Tx, if there is one.
func From(tx core.Tx) (pgx.Tx, bool) {
	t, ok := tx.(*Tx)
	if !ok || t == nil {
		return nil, false
	}
	return t.tx, true
}
