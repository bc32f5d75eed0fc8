// Package trm scopes one storage transaction per request: Do opens a
// transaction, carries it through the context so repository helpers pick
// it up, and commits or rolls back when the callback returns.
package trm

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
)

type Transaction interface {
	Commit() error
	Rollback() error
}

type Manager interface {
	BeginTx(ctx context.Context) (context.Context, Transaction, error)
	Do(ctx context.Context, callback func(ctx context.Context) error) error
}

type txKey struct{}

// ExtractTx returns the transaction carried by ctx, or nil when the
// caller runs outside one. Repositories fall back to the pool then.
func ExtractTx(ctx context.Context) *sqlx.Tx {
	tx, _ := ctx.Value(txKey{}).(*sqlx.Tx)
	return tx
}

type txManager struct {
	db *sqlx.DB
}

func NewManager(db *sqlx.DB) Manager {
	return &txManager{db: db}
}

func (m *txManager) BeginTx(ctx context.Context) (context.Context, Transaction, error) {
	tx, err := m.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	return context.WithValue(ctx, txKey{}, tx), tx, nil
}

// Do runs callback inside a transaction. The rollback in the deferred
// path also fires when callback panics.
func (m *txManager) Do(ctx context.Context, callback func(ctx context.Context) error) error {
	ctx, tx, err := m.BeginTx(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if err := callback(ctx); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}
