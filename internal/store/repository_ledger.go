package store

import (
	"context"
	"fmt"
	"strings"
	"time"
)

type LedgerFilter struct {
	AccountID string
	Kind      string
	From      *time.Time
	To        *time.Time
	// Descending flips the id ordering; the AfterID cursor then walks
	// backwards.
	Descending bool
}

// ListLedgerTransactions pages the append-only ledger with a keyset
// cursor, so the sequence is restartable from any id without drift.
func (s *Store) ListLedgerTransactions(ctx context.Context, f LedgerFilter, limit int, afterID int64) ([]LedgerTransaction, error) {
	if limit <= 0 {
		limit = 50
	}
	var cond []string
	var args []any
	add := func(expr string, v any) {
		args = append(args, v)
		cond = append(cond, fmt.Sprintf(expr, len(args)))
	}
	if f.AccountID != "" {
		add(`account_id = $%d`, f.AccountID)
	}
	if f.Kind != "" {
		add(`kind = $%d`, f.Kind)
	}
	if f.From != nil {
		add(`created_at >= $%d`, *f.From)
	}
	if f.To != nil {
		add(`created_at <= $%d`, *f.To)
	}
	if afterID > 0 {
		if f.Descending {
			add(`id < $%d`, afterID)
		} else {
			add(`id > $%d`, afterID)
		}
	}
	order := "ASC"
	if f.Descending {
		order = "DESC"
	}
	q := `SELECT id, account_id, amount, kind, COALESCE(reference_id, ''), balance_before, balance_after, created_at FROM ledger_transactions`
	if len(cond) > 0 {
		q += ` WHERE ` + strings.Join(cond, " AND ")
	}
	args = append(args, limit)
	q += fmt.Sprintf(` ORDER BY id %s LIMIT $%d`, order, len(args))

	rows, err := s.Pool.Query(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]LedgerTransaction, 0, limit)
	for rows.Next() {
		var lt LedgerTransaction
		if err := rows.Scan(&lt.ID, &lt.AccountID, &lt.Amount, &lt.Kind, &lt.ReferenceID, &lt.BalanceBefore, &lt.BalanceAfter, &lt.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, lt)
	}
	return out, rows.Err()
}
