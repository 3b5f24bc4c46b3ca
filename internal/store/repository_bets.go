package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
)

const selectBetSQL = `SELECT id, creator_id, kind, title, options, status, min_stake, max_stake, total_pool, lock_at, created_at, resolved_at, winning_option FROM bets`

func scanBet(row pgx.Row) (*Bet, error) {
	var b Bet
	err := row.Scan(&b.ID, &b.CreatorID, &b.Kind, &b.Title, &b.Options, &b.Status, &b.MinStake, &b.MaxStake, &b.TotalPool, &b.LockAt, &b.CreatedAt, &b.ResolvedAt, &b.WinningOption)
	if err != nil {
		return nil, err
	}
	return &b, nil
}

type NewBet struct {
	CreatorID string
	Kind      string
	Title     string
	Options   []string
	MinStake  int64
	MaxStake  *int64
	LockAt    *time.Time
}

func (s *Store) CreateBet(ctx context.Context, nb NewBet) (*Bet, error) {
	row := s.Pool.QueryRow(ctx,
		`INSERT INTO bets (creator_id, kind, title, options, min_stake, max_stake, lock_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 RETURNING id, creator_id, kind, title, options, status, min_stake, max_stake, total_pool, lock_at, created_at, resolved_at, winning_option`,
		nb.CreatorID, nb.Kind, nb.Title, nb.Options, nb.MinStake, nb.MaxStake, nb.LockAt)
	bet, err := scanBet(row)
	if err != nil {
		return nil, mapPgError(err)
	}
	return bet, nil
}

func (s *Store) GetBet(ctx context.Context, betID int64) (*Bet, error) {
	// Lapsed lockAt is applied on read so callers never observe a stale
	// OPEN bet. The single-statement update is atomic with respect to the
	// per-bet domain.
	if _, err := s.Pool.Exec(ctx,
		`UPDATE bets SET status = $1 WHERE id = $2 AND status = $3 AND lock_at IS NOT NULL AND lock_at <= now()`,
		BetStatusLocked, betID, BetStatusOpen); err != nil {
		return nil, mapPgError(err)
	}
	bet, err := scanBet(s.Pool.QueryRow(ctx, selectBetSQL+` WHERE id = $1`, betID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: bet %d", ErrNotFound, betID)
		}
		return nil, err
	}
	return bet, nil
}

func (s *Store) ListBets(ctx context.Context, status string, limit, offset int) ([]Bet, error) {
	if limit <= 0 {
		limit = 50
	}
	var rows pgx.Rows
	var err error
	if status != "" {
		rows, err = s.Pool.Query(ctx, selectBetSQL+` WHERE status = $1 ORDER BY id DESC LIMIT $2 OFFSET $3`, status, limit, offset)
	} else {
		rows, err = s.Pool.Query(ctx, selectBetSQL+` ORDER BY id DESC LIMIT $1 OFFSET $2`, limit, offset)
	}
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]Bet, 0, limit)
	for rows.Next() {
		b, err := scanBet(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *b)
	}
	return out, rows.Err()
}

// LockBet transitions OPEN -> LOCKED. Any other current status rejects the
// transition.
func (s *Store) LockBet(ctx context.Context, betID int64) (*Bet, error) {
	tx, err := s.Pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	bet, err := lockBet(ctx, tx, betID)
	if err != nil {
		return nil, mapPgError(err)
	}
	if bet.Status != BetStatusOpen {
		return nil, fmt.Errorf("%w: cannot lock bet in status %s", ErrInvalidTransition, bet.Status)
	}
	if _, err := tx.Exec(ctx, `UPDATE bets SET status = $1 WHERE id = $2`, BetStatusLocked, betID); err != nil {
		return nil, mapPgError(err)
	}
	bet.Status = BetStatusLocked
	if err := tx.Commit(ctx); err != nil {
		return nil, mapPgError(err)
	}
	return bet, nil
}

// ArchiveBet is pure bookkeeping after payouts or refunds are fully
// posted. Nothing is reachable from ARCHIVED.
func (s *Store) ArchiveBet(ctx context.Context, betID int64) (*Bet, error) {
	tx, err := s.Pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	bet, err := lockBet(ctx, tx, betID)
	if err != nil {
		return nil, mapPgError(err)
	}
	if bet.Status != BetStatusResolved && bet.Status != BetStatusCancelled {
		return nil, fmt.Errorf("%w: cannot archive bet in status %s", ErrInvalidTransition, bet.Status)
	}
	if _, err := tx.Exec(ctx, `UPDATE bets SET status = $1 WHERE id = $2`, BetStatusArchived, betID); err != nil {
		return nil, mapPgError(err)
	}
	bet.Status = BetStatusArchived
	if err := tx.Commit(ctx); err != nil {
		return nil, mapPgError(err)
	}
	return bet, nil
}
