package repositories

import "context"

// UnitOfWork runs ledger mutations inside a single store transaction.
// fn's error (or a failed commit) rolls back every write made through tx.
type UnitOfWork interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context, tx LedgerTx) error) error
}
