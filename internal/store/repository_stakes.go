package store

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
)

const selectStakeSQL = `SELECT id, account_id, bet_id, option, amount, payout, status, created_at FROM stakes`

func scanStake(row pgx.Row) (*Stake, error) {
	var st Stake
	err := row.Scan(&st.ID, &st.AccountID, &st.BetID, &st.Option, &st.Amount, &st.Payout, &st.Status, &st.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &st, nil
}

// PlaceStake validates against the locked bet, debits the account, appends
// the stake and bumps the cached pool as one atomic unit. A failed debit
// leaves no stake behind.
func (s *Store) PlaceStake(ctx context.Context, accountID string, betID int64, option string, amount int64) (*Stake, int64, error) {
	tx, err := s.Pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, 0, err
	}
	defer tx.Rollback(ctx)

	bet, err := lockBet(ctx, tx, betID)
	if err != nil {
		return nil, 0, mapPgError(err)
	}
	if bet.Status != BetStatusOpen {
		return nil, 0, fmt.Errorf("%w: bet %d is %s", ErrBetNotOpen, betID, bet.Status)
	}
	if !bet.HasOption(option) {
		return nil, 0, fmt.Errorf("%w: %q not in %v", ErrInvalidOption, option, bet.Options)
	}
	if amount < bet.MinStake {
		return nil, 0, fmt.Errorf("%w: %d below min stake %d", ErrInvalidAmount, amount, bet.MinStake)
	}
	if bet.MaxStake != nil && amount > *bet.MaxStake {
		return nil, 0, fmt.Errorf("%w: %d above max stake %d", ErrInvalidAmount, amount, *bet.MaxStake)
	}

	var exists bool
	if err := tx.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM stakes WHERE account_id = $1 AND bet_id = $2)`, accountID, betID).Scan(&exists); err != nil {
		return nil, 0, err
	}
	if exists {
		return nil, 0, fmt.Errorf("%w: account %s already staked on bet %d", ErrDuplicateStake, accountID, betID)
	}

	stakeID := NewStakeID()
	newBal, err := debitTx(ctx, tx, accountID, amount, KindStakePlaced, stakeID)
	if err != nil {
		return nil, 0, mapPgError(err)
	}
	stake, err := scanStake(tx.QueryRow(ctx,
		`INSERT INTO stakes (id, account_id, bet_id, option, amount) VALUES ($1, $2, $3, $4, $5)
		 RETURNING id, account_id, bet_id, option, amount, payout, status, created_at`,
		stakeID, accountID, betID, option, amount))
	if err != nil {
		return nil, 0, mapPgError(err)
	}
	if _, err := tx.Exec(ctx, `UPDATE bets SET total_pool = total_pool + $1 WHERE id = $2`, amount, betID); err != nil {
		return nil, 0, mapPgError(err)
	}
	if _, err := tx.Exec(ctx, `UPDATE accounts SET total_wagered = total_wagered + $1 WHERE id = $2`, amount, accountID); err != nil {
		return nil, 0, mapPgError(err)
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, 0, mapPgError(err)
	}
	return stake, newBal, nil
}

func (s *Store) GetStake(ctx context.Context, stakeID string) (*Stake, error) {
	st, err := scanStake(s.Pool.QueryRow(ctx, selectStakeSQL+` WHERE id = $1`, stakeID))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, fmt.Errorf("%w: stake %s", ErrNotFound, stakeID)
		}
		return nil, err
	}
	return st, nil
}

func (s *Store) ListStakesByBet(ctx context.Context, betID int64) ([]Stake, error) {
	rows, err := s.Pool.Query(ctx, selectStakeSQL+` WHERE bet_id = $1 ORDER BY id ASC`, betID)
	if err != nil {
		return nil, err
	}
	return collectStakes(rows)
}

func (s *Store) ListStakesByAccount(ctx context.Context, accountID string, limit, offset int) ([]Stake, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.Pool.Query(ctx, selectStakeSQL+` WHERE account_id = $1 ORDER BY id DESC LIMIT $2 OFFSET $3`, accountID, limit, offset)
	if err != nil {
		return nil, err
	}
	return collectStakes(rows)
}

func collectStakes(rows pgx.Rows) ([]Stake, error) {
	defer rows.Close()
	out := []Stake{}
	for rows.Next() {
		st, err := scanStake(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *st)
	}
	return out, rows.Err()
}
