package store

import (
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
)

var (
	ErrNotFound           = errors.New("not_found")
	ErrInsufficientFunds  = errors.New("insufficient_funds")
	ErrInvalidAmount      = errors.New("invalid_amount")
	ErrInvalidOption      = errors.New("invalid_option")
	ErrBetNotOpen         = errors.New("bet_not_open")
	ErrNotLocked          = errors.New("bet_not_locked")
	ErrAlreadyResolved    = errors.New("already_resolved")
	ErrInvalidTransition  = errors.New("invalid_transition")
	ErrAlreadyClaimed     = errors.New("already_claimed")
	ErrNotEligible        = errors.New("not_eligible")
	ErrDuplicateStake     = errors.New("duplicate_stake")
	ErrConcurrentConflict = errors.New("concurrent_conflict")
)

// mapPgError translates storage-level failures the caller can act on.
// Serialization failures and deadlocks are safe to retry; anything else is
// surfaced unchanged and the transaction has rolled back.
func mapPgError(err error) error {
	if err == nil {
		return nil
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "40001", "40P01":
			return fmt.Errorf("%w: sqlstate %s", ErrConcurrentConflict, pgErr.Code)
		case "23505":
			if strings.Contains(pgErr.ConstraintName, "stakes") {
				return ErrDuplicateStake
			}
		}
	}
	return err
}
