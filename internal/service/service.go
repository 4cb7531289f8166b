// internal/service/service.go
package service

import (
	"context"
	"fmt"

	"walpay-wallet/internal/repository"
	"walpay-wallet/pkg/db"
)

// TxRunner bundles the connection and transaction hooks every service needs.
// Begin, Commit and Rollback are injected so tests can substitute a mock
// TxController for a real *sqlx.Tx.
type TxRunner struct {
	Beginner db.DBTxBeginner       // For starting transactions (e.g., *sqlx.DB)
	Reader   repository.DBExecutor // For non-transactional reads (e.g., *sqlx.DB)
	Begin    db.BeginTxFunc
	Commit   db.CommitTxFunc
	Rollback db.RollbackTxFunc
}

// NewTxRunner wires the default pkg/db transaction helpers around conn.
func NewTxRunner(conn interface {
	db.DBTxBeginner
	repository.DBExecutor
}) TxRunner {
	return TxRunner{
		Beginner: conn,
		Reader:   conn,
		Begin:    db.BeginTx,
		Commit:   db.CommitTx,
		Rollback: db.RollbackTx,
	}
}

// withTx runs fn as one atomic unit. Any error from fn rolls the whole unit back.
func (r TxRunner) withTx(ctx context.Context, op string, fn func(q repository.DBExecutor) error) error {
	txController, err := r.Begin(ctx, r.Beginner)
	if err != nil {
		return fmt.Errorf("%s: failed to begin transaction: %w", op, err)
	}
	defer r.Rollback(txController)

	txExecutor, ok := txController.(repository.DBExecutor)
	if !ok {
		return fmt.Errorf("%s: transaction controller does not implement DBExecutor", op)
	}

	if err := fn(txExecutor); err != nil {
		return err
	}

	if err := r.Commit(txController); err != nil {
		return fmt.Errorf("%s: failed to commit transaction: %w", op, err)
	}
	return nil
}
