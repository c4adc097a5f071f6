// Package tx carries an open database transaction on a context so stores
// called inside storage.DB.WithTx join it instead of using the pool.
package tx

import (
	"context"
	"database/sql"
)

type activeTxKey struct{}

// Inject returns ctx carrying t. A nil t leaves ctx unchanged.
func Inject(ctx context.Context, t *sql.Tx) context.Context {
	if t == nil {
		return ctx
	}
	return context.WithValue(ctx, activeTxKey{}, t)
}

// Active returns the transaction carried by ctx.
func Active(ctx context.Context) (*sql.Tx, bool) {
	t, ok := ctx.Value(activeTxKey{}).(*sql.Tx)
	return t, ok && t != nil
}
