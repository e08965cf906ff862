package core

import "context"

// Tx is a unit of work opened around a mutating handler. Close must be safe
// after Commit; Close without Commit discards the work.
type Tx interface {
	Commit(ctx context.Context) error
	Close(ctx context.Context) error
}

type TxManager interface {
	Begin(ctx context.Context) (Tx, error)
}

// NoopTxManager is used when no database is configured.
type NoopTxManager struct{}

func (NoopTxManager) Begin(context.Context) (Tx, error) { return noopTx{}, nil }

type noopTx struct{}

func (noopTx) Commit(context.Context) error { return nil }
func (noopTx) Close(context.Context) error  { return nil }
