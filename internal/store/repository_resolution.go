package store

import (
	"context"
	"fmt"
	"time"

	"pointsbook/internal/book"

	"github.com/jackc/pgx/v5"
)

type Resolution struct {
	Bet     *Bet
	Winners int
	Losers  int
	PaidOut int64
	Dust    int64
	Payouts []book.Payout
}

type Cancellation struct {
	Bet      *Bet
	Refunded int
	Returned int64
}

// ResolveBet converts a LOCKED bet plus its pending stakes into payouts in
// one transaction: every winning stake's credit posts and the bet reaches
// RESOLVED, or the whole batch rolls back and the bet stays LOCKED.
// Account rows are credited in ascending id order.
func (s *Store) ResolveBet(ctx context.Context, betID int64, winningOption string) (*Resolution, error) {
	tx, err := s.Pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	bet, err := lockBet(ctx, tx, betID)
	if err != nil {
		return nil, mapPgError(err)
	}
	switch bet.Status {
	case BetStatusLocked:
	case BetStatusResolved, BetStatusArchived:
		return nil, fmt.Errorf("%w: bet %d", ErrAlreadyResolved, betID)
	default:
		return nil, fmt.Errorf("%w: bet %d is %s", ErrNotLocked, betID, bet.Status)
	}
	if !bet.HasOption(winningOption) {
		return nil, fmt.Errorf("%w: %q not in %v", ErrInvalidOption, winningOption, bet.Options)
	}

	stakes, err := pendingStakesForUpdate(ctx, tx, betID)
	if err != nil {
		return nil, mapPgError(err)
	}
	settlement := book.Settle(stakes, winningOption)

	res := &Resolution{Bet: bet, PaidOut: settlement.PaidOut, Dust: settlement.Dust, Payouts: settlement.Payouts}
	payoutByStake := make(map[string]int64, len(settlement.Payouts))
	for _, p := range settlement.Payouts {
		payoutByStake[p.StakeID] = p.Amount
	}
	for _, st := range stakes {
		amount, won := payoutByStake[st.ID]
		if !won {
			res.Losers++
			if _, err := tx.Exec(ctx, `UPDATE stakes SET status = $1, payout = 0 WHERE id = $2`, StakeStatusLost, st.ID); err != nil {
				return nil, mapPgError(err)
			}
			continue
		}
		res.Winners++
		if _, err := creditTx(ctx, tx, st.Account, amount, KindPayout, st.ID); err != nil {
			return nil, mapPgError(err)
		}
		if _, err := tx.Exec(ctx, `UPDATE stakes SET status = $1, payout = $2 WHERE id = $3`, StakeStatusWon, amount, st.ID); err != nil {
			return nil, mapPgError(err)
		}
		if _, err := tx.Exec(ctx, `UPDATE accounts SET total_won = total_won + $1 WHERE id = $2`, amount, st.Account); err != nil {
			return nil, mapPgError(err)
		}
	}

	now := time.Now().UTC()
	if _, err := tx.Exec(ctx, `UPDATE bets SET status = $1, resolved_at = $2, winning_option = $3 WHERE id = $4`,
		BetStatusResolved, now, winningOption, betID); err != nil {
		return nil, mapPgError(err)
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, mapPgError(err)
	}
	bet.Status = BetStatusResolved
	bet.ResolvedAt = &now
	bet.WinningOption = &winningOption
	return res, nil
}

// CancelBet refunds every pending stake in full and marks the bet
// CANCELLED, in one transaction. Permitted from OPEN or LOCKED only.
// The cached pool is left as a historical field.
func (s *Store) CancelBet(ctx context.Context, betID int64) (*Cancellation, error) {
	tx, err := s.Pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	bet, err := lockBet(ctx, tx, betID)
	if err != nil {
		return nil, mapPgError(err)
	}
	if bet.Status != BetStatusOpen && bet.Status != BetStatusLocked {
		return nil, fmt.Errorf("%w: cannot cancel bet in status %s", ErrInvalidTransition, bet.Status)
	}

	stakes, err := pendingStakesForUpdate(ctx, tx, betID)
	if err != nil {
		return nil, mapPgError(err)
	}
	out := &Cancellation{Bet: bet}
	for _, st := range stakes {
		if _, err := creditTx(ctx, tx, st.Account, st.Amount, KindRefund, st.ID); err != nil {
			return nil, mapPgError(err)
		}
		if _, err := tx.Exec(ctx, `UPDATE stakes SET status = $1 WHERE id = $2`, StakeStatusRefunded, st.ID); err != nil {
			return nil, mapPgError(err)
		}
		// The refund undoes the wager, so the stat follows.
		if _, err := tx.Exec(ctx, `UPDATE accounts SET total_wagered = total_wagered - $1 WHERE id = $2`, st.Amount, st.Account); err != nil {
			return nil, mapPgError(err)
		}
		out.Refunded++
		out.Returned += st.Amount
	}
	if _, err := tx.Exec(ctx, `UPDATE bets SET status = $1 WHERE id = $2`, BetStatusCancelled, betID); err != nil {
		return nil, mapPgError(err)
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, mapPgError(err)
	}
	bet.Status = BetStatusCancelled
	return out, nil
}

// pendingStakesForUpdate reads the bet's open book ordered by account id,
// which is also the order account rows get locked in during settlement.
func pendingStakesForUpdate(ctx context.Context, tx pgx.Tx, betID int64) ([]book.Stake, error) {
	rows, err := tx.Query(ctx,
		`SELECT id, account_id, option, amount FROM stakes WHERE bet_id = $1 AND status = $2 ORDER BY account_id ASC FOR UPDATE`,
		betID, StakeStatusPending)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []book.Stake{}
	for rows.Next() {
		var st book.Stake
		if err := rows.Scan(&st.ID, &st.Account, &st.Option, &st.Amount); err != nil {
			return nil, err
		}
		out = append(out, st)
	}
	return out, rows.Err()
}
