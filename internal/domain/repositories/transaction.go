package repositories

import "context"

// TxFn is a function executed within a database transaction. The context it
// receives carries the transaction; repositories pick it up automatically.
type TxFn func(ctx context.Context) error

// TransactionManager runs a function inside a single transaction, committing
// on success and rolling back on error.
type TransactionManager interface {
	ExecTx(ctx context.Context, fn TxFn) error
}
