package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
)

// Two serialization domains guard every read-modify-write: the account row
// (balances) and the bet row (status + stake set). Both are row locks taken
// inside the operation's transaction, so conflicting operations on the same
// key are totally ordered while unrelated keys proceed in parallel.
//
// Operations that touch several accounts (transfer, resolution,
// cancellation) acquire account locks in ascending id order.

func lockAccountBalance(ctx context.Context, tx pgx.Tx, accountID string) (int64, error) {
	var bal int64
	row := tx.QueryRow(ctx, `SELECT balance FROM accounts WHERE id = $1 FOR UPDATE`, accountID)
	if err := row.Scan(&bal); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, fmt.Errorf("%w: account %s", ErrNotFound, accountID)
		}
		return 0, err
	}
	return bal, nil
}

// creditTx adds amount to the locked account balance and appends exactly
// one ledger row with matching before/after values.
func creditTx(ctx context.Context, tx pgx.Tx, accountID string, amount int64, kind, refID string) (int64, error) {
	if amount <= 0 {
		return 0, fmt.Errorf("%w: credit of %d", ErrInvalidAmount, amount)
	}
	bal, err := lockAccountBalance(ctx, tx, accountID)
	if err != nil {
		return 0, err
	}
	newBal := bal + amount
	if err := applyBalance(ctx, tx, accountID, newBal); err != nil {
		return 0, err
	}
	if err := appendLedgerTx(ctx, tx, accountID, amount, kind, refID, bal, newBal); err != nil {
		return 0, err
	}
	return newBal, nil
}

// debitTx subtracts amount, failing with ErrInsufficientFunds before any
// write when the locked balance cannot cover it.
func debitTx(ctx context.Context, tx pgx.Tx, accountID string, amount int64, kind, refID string) (int64, error) {
	if amount <= 0 {
		return 0, fmt.Errorf("%w: debit of %d", ErrInvalidAmount, amount)
	}
	bal, err := lockAccountBalance(ctx, tx, accountID)
	if err != nil {
		return 0, err
	}
	if bal < amount {
		return 0, fmt.Errorf("%w: balance %d, need %d", ErrInsufficientFunds, bal, amount)
	}
	newBal := bal - amount
	if err := applyBalance(ctx, tx, accountID, newBal); err != nil {
		return 0, err
	}
	if err := appendLedgerTx(ctx, tx, accountID, -amount, kind, refID, bal, newBal); err != nil {
		return 0, err
	}
	return newBal, nil
}

func applyBalance(ctx context.Context, tx pgx.Tx, accountID string, newBal int64) error {
	_, err := tx.Exec(ctx, `UPDATE accounts SET balance = $1, updated_at = now() WHERE id = $2`, newBal, accountID)
	return err
}

func appendLedgerTx(ctx context.Context, tx pgx.Tx, accountID string, amount int64, kind, refID string, before, after int64) error {
	var ref any
	if refID != "" {
		ref = refID
	}
	_, err := tx.Exec(ctx,
		`INSERT INTO ledger_transactions (account_id, amount, kind, reference_id, balance_before, balance_after)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		accountID, amount, kind, ref, before, after)
	return err
}

// lockBet locks the bet row and is the single place the lapsed-lockAt
// transition happens: a bet observed OPEN past its lockAt flips to LOCKED
// before the caller sees it.
func lockBet(ctx context.Context, tx pgx.Tx, betID int64) (*Bet, error) {
	bet, err := scanBet(tx.QueryRow(ctx, selectBetSQL+` WHERE id = $1 FOR UPDATE`, betID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: bet %d", ErrNotFound, betID)
		}
		return nil, err
	}
	if bet.Status == BetStatusOpen && bet.LockAt != nil && !bet.LockAt.After(time.Now()) {
		if _, err := tx.Exec(ctx, `UPDATE bets SET status = $1 WHERE id = $2`, BetStatusLocked, betID); err != nil {
			return nil, err
		}
		bet.Status = BetStatusLocked
	}
	return bet, nil
}
