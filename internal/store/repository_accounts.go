package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
)

const selectAccountSQL = `SELECT id, balance, total_wagered, total_won, last_daily_claim_at, last_bailout_claim_at, created_at, updated_at FROM accounts`

func scanAccount(row pgx.Row) (*Account, error) {
	var a Account
	err := row.Scan(&a.ID, &a.Balance, &a.TotalWagered, &a.TotalWon, &a.LastDailyClaimAt, &a.LastBailoutClaimAt, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (s *Store) GetAccount(ctx context.Context, accountID string) (*Account, error) {
	a, err := scanAccount(s.Pool.QueryRow(ctx, selectAccountSQL+` WHERE id = $1`, accountID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: account %s", ErrNotFound, accountID)
		}
		return nil, err
	}
	return a, nil
}

func (s *Store) GetAccountBalance(ctx context.Context, accountID string) (int64, error) {
	var bal int64
	if err := s.Pool.QueryRow(ctx, `SELECT balance FROM accounts WHERE id = $1`, accountID).Scan(&bal); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, fmt.Errorf("%w: account %s", ErrNotFound, accountID)
		}
		return 0, err
	}
	return bal, nil
}

// EnsureAccount is an upsert-by-identity: unseen ids get a row with the
// starting balance plus the ledger transaction that granted it, existing
// ids are returned untouched.
func (s *Store) EnsureAccount(ctx context.Context, accountID string, starting int64) (*Account, bool, error) {
	tx, err := s.Pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, false, err
	}
	defer tx.Rollback(ctx)

	tag, err := tx.Exec(ctx, `INSERT INTO accounts (id, balance) VALUES ($1, $2) ON CONFLICT (id) DO NOTHING`, accountID, starting)
	if err != nil {
		return nil, false, mapPgError(err)
	}
	created := tag.RowsAffected() == 1
	if created && starting > 0 {
		if err := appendLedgerTx(ctx, tx, accountID, starting, KindAdminAdjustment, "", 0, starting); err != nil {
			return nil, false, mapPgError(err)
		}
	}
	a, err := scanAccount(tx.QueryRow(ctx, selectAccountSQL+` WHERE id = $1`, accountID))
	if err != nil {
		return nil, false, mapPgError(err)
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, false, mapPgError(err)
	}
	return a, created, nil
}

func (s *Store) Credit(ctx context.Context, accountID string, amount int64, kind, refID string) (int64, error) {
	tx, err := s.Pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return 0, err
	}
	defer tx.Rollback(ctx)

	newBal, err := creditTx(ctx, tx, accountID, amount, kind, refID)
	if err != nil {
		return 0, mapPgError(err)
	}
	if err := tx.Commit(ctx); err != nil {
		return 0, mapPgError(err)
	}
	return newBal, nil
}

func (s *Store) Debit(ctx context.Context, accountID string, amount int64, kind, refID string) (int64, error) {
	tx, err := s.Pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return 0, err
	}
	defer tx.Rollback(ctx)

	newBal, err := debitTx(ctx, tx, accountID, amount, kind, refID)
	if err != nil {
		return 0, mapPgError(err)
	}
	if err := tx.Commit(ctx); err != nil {
		return 0, mapPgError(err)
	}
	return newBal, nil
}

// Adjust applies a signed administrative balance change. Negative deltas
// observe the same balance floor as any other debit.
func (s *Store) Adjust(ctx context.Context, accountID string, delta int64, refID string) (int64, error) {
	if delta == 0 {
		return 0, fmt.Errorf("%w: zero adjustment", ErrInvalidAmount)
	}
	if delta > 0 {
		return s.Credit(ctx, accountID, delta, KindAdminAdjustment, refID)
	}
	return s.Debit(ctx, accountID, -delta, KindAdminAdjustment, refID)
}

// Transfer moves amount between two accounts in one transaction, locking
// the account rows in ascending id order.
func (s *Store) Transfer(ctx context.Context, fromID, toID string, amount int64) (int64, int64, error) {
	if amount <= 0 {
		return 0, 0, fmt.Errorf("%w: transfer of %d", ErrInvalidAmount, amount)
	}
	if fromID == toID {
		return 0, 0, fmt.Errorf("%w: transfer to self", ErrInvalidAmount)
	}
	tx, err := s.Pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return 0, 0, err
	}
	defer tx.Rollback(ctx)

	first, second := fromID, toID
	if second < first {
		first, second = second, first
	}
	if _, err := lockAccountBalance(ctx, tx, first); err != nil {
		return 0, 0, mapPgError(err)
	}
	if _, err := lockAccountBalance(ctx, tx, second); err != nil {
		return 0, 0, mapPgError(err)
	}

	fromBal, err := debitTx(ctx, tx, fromID, amount, KindTransferSent, toID)
	if err != nil {
		return 0, 0, mapPgError(err)
	}
	toBal, err := creditTx(ctx, tx, toID, amount, KindTransferReceived, fromID)
	if err != nil {
		return 0, 0, mapPgError(err)
	}
	if err := tx.Commit(ctx); err != nil {
		return 0, 0, mapPgError(err)
	}
	return fromBal, toBal, nil
}

// ClaimDaily credits the daily bonus when the last claim is unset or on a
// strictly earlier UTC calendar day. The timestamp update and the credit
// commit together.
func (s *Store) ClaimDaily(ctx context.Context, accountID string, amount int64, now time.Time) (int64, error) {
	tx, err := s.Pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return 0, err
	}
	defer tx.Rollback(ctx)

	var last *time.Time
	row := tx.QueryRow(ctx, `SELECT last_daily_claim_at FROM accounts WHERE id = $1 FOR UPDATE`, accountID)
	if err := row.Scan(&last); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, fmt.Errorf("%w: account %s", ErrNotFound, accountID)
		}
		return 0, err
	}
	if last != nil && sameUTCDay(*last, now) {
		return 0, fmt.Errorf("%w: daily bonus already claimed on %s", ErrAlreadyClaimed, last.UTC().Format("2006-01-02"))
	}
	if _, err := tx.Exec(ctx, `UPDATE accounts SET last_daily_claim_at = $1, updated_at = now() WHERE id = $2`, now, accountID); err != nil {
		return 0, err
	}
	newBal, err := creditTx(ctx, tx, accountID, amount, KindDailyBonus, "")
	if err != nil {
		return 0, mapPgError(err)
	}
	if err := tx.Commit(ctx); err != nil {
		return 0, mapPgError(err)
	}
	return newBal, nil
}

// ClaimBailout credits the emergency amount only for accounts at exactly
// zero that have not already claimed a bailout today.
func (s *Store) ClaimBailout(ctx context.Context, accountID string, amount int64, now time.Time) (int64, error) {
	tx, err := s.Pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return 0, err
	}
	defer tx.Rollback(ctx)

	var bal int64
	var last *time.Time
	row := tx.QueryRow(ctx, `SELECT balance, last_bailout_claim_at FROM accounts WHERE id = $1 FOR UPDATE`, accountID)
	if err := row.Scan(&bal, &last); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, fmt.Errorf("%w: account %s", ErrNotFound, accountID)
		}
		return 0, err
	}
	if bal != 0 {
		return 0, fmt.Errorf("%w: balance is %d, bailout requires 0", ErrNotEligible, bal)
	}
	if last != nil && sameUTCDay(*last, now) {
		return 0, fmt.Errorf("%w: bailout already claimed today", ErrNotEligible)
	}
	if _, err := tx.Exec(ctx, `UPDATE accounts SET last_bailout_claim_at = $1, updated_at = now() WHERE id = $2`, now, accountID); err != nil {
		return 0, err
	}
	newBal, err := creditTx(ctx, tx, accountID, amount, KindBailout, "")
	if err != nil {
		return 0, mapPgError(err)
	}
	if err := tx.Commit(ctx); err != nil {
		return 0, mapPgError(err)
	}
	return newBal, nil
}

func (s *Store) ListLeaderboard(ctx context.Context, limit, offset int) ([]LeaderboardEntry, error) {
	if limit <= 0 {
		limit = 10
	}
	rows, err := s.Pool.Query(ctx,
		`SELECT id, balance, total_wagered, total_won FROM accounts ORDER BY balance DESC, id ASC LIMIT $1 OFFSET $2`,
		limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]LeaderboardEntry, 0, limit)
	for rows.Next() {
		var e LeaderboardEntry
		if err := rows.Scan(&e.AccountID, &e.Balance, &e.TotalWagered, &e.TotalWon); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}
