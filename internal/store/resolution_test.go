package store

import (
	"context"
	"errors"
	"testing"
)

func setupThreeWayBet(t *testing.T) (*Store, context.Context, func(), int64) {
	t.Helper()
	st, ctx, cleanup := openStore(t)
	mustEnsureAccount(t, st, ctx, "creator", 0)
	mustEnsureAccount(t, st, ctx, "A", 1000)
	mustEnsureAccount(t, st, ctx, "B", 1000)
	mustEnsureAccount(t, st, ctx, "C", 1000)
	bet := mustCreateBet(t, st, ctx, "creator")
	mustPlaceStake(t, st, ctx, "A", bet.ID, "yes", 100)
	mustPlaceStake(t, st, ctx, "B", bet.ID, "yes", 50)
	mustPlaceStake(t, st, ctx, "C", bet.ID, "no", 200)
	if _, err := st.LockBet(ctx, bet.ID); err != nil {
		t.Fatalf("lock: %v", err)
	}
	return st, ctx, cleanup, bet.ID
}

func TestResolvePayoutCorrectness(t *testing.T) {
	st, ctx, cleanup, betID := setupThreeWayBet(t)
	defer cleanup()

	res, err := st.ResolveBet(ctx, betID, "yes")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if res.Winners != 2 || res.Losers != 1 {
		t.Fatalf("winners/losers = %d/%d, want 2/1", res.Winners, res.Losers)
	}
	if res.PaidOut != 349 || res.Dust != 1 {
		t.Fatalf("paid/dust = %d/%d, want 349/1", res.PaidOut, res.Dust)
	}

	balA, _ := st.GetAccountBalance(ctx, "A")
	balB, _ := st.GetAccountBalance(ctx, "B")
	balC, _ := st.GetAccountBalance(ctx, "C")
	if balA != 1133 || balB != 1066 || balC != 800 {
		t.Fatalf("balances = %d/%d/%d, want 1133/1066/800", balA, balB, balC)
	}

	stakes, err := st.ListStakesByBet(ctx, betID)
	if err != nil {
		t.Fatalf("list stakes: %v", err)
	}
	for _, s := range stakes {
		switch s.AccountID {
		case "A":
			if s.Status != StakeStatusWon || s.Payout != 233 {
				t.Fatalf("A stake: %+v", s)
			}
		case "B":
			if s.Status != StakeStatusWon || s.Payout != 116 {
				t.Fatalf("B stake: %+v", s)
			}
		case "C":
			if s.Status != StakeStatusLost || s.Payout != 0 {
				t.Fatalf("C stake: %+v", s)
			}
		}
	}

	bet, err := st.GetBet(ctx, betID)
	if err != nil {
		t.Fatalf("get bet: %v", err)
	}
	if bet.Status != BetStatusResolved || bet.WinningOption == nil || *bet.WinningOption != "yes" || bet.ResolvedAt == nil {
		t.Fatalf("bet not fully resolved: %+v", bet)
	}

	a, _ := st.GetAccount(ctx, "A")
	if a.TotalWon != 233 {
		t.Fatalf("A total won = %d, want 233", a.TotalWon)
	}
}

func TestResolveTwiceFailsWithoutChangingPayouts(t *testing.T) {
	st, ctx, cleanup, betID := setupThreeWayBet(t)
	defer cleanup()

	if _, err := st.ResolveBet(ctx, betID, "yes"); err != nil {
		t.Fatalf("resolve: %v", err)
	}
	balA, _ := st.GetAccountBalance(ctx, "A")

	if _, err := st.ResolveBet(ctx, betID, "no"); !errors.Is(err, ErrAlreadyResolved) {
		t.Fatalf("expected ErrAlreadyResolved, got %v", err)
	}
	balA2, _ := st.GetAccountBalance(ctx, "A")
	if balA != balA2 {
		t.Fatalf("failed re-resolve moved a balance: %d -> %d", balA, balA2)
	}
}

func TestResolveRequiresLockedBet(t *testing.T) {
	st, ctx, cleanup := openStore(t)
	defer cleanup()

	mustEnsureAccount(t, st, ctx, "creator", 0)
	bet := mustCreateBet(t, st, ctx, "creator")
	if _, err := st.ResolveBet(ctx, bet.ID, "yes"); !errors.Is(err, ErrNotLocked) {
		t.Fatalf("resolving an open bet, got %v", err)
	}
	if _, err := st.LockBet(ctx, bet.ID); err != nil {
		t.Fatalf("lock: %v", err)
	}
	if _, err := st.ResolveBet(ctx, bet.ID, "maybe"); !errors.Is(err, ErrInvalidOption) {
		t.Fatalf("unknown winning option, got %v", err)
	}
}

func TestResolveEmptyWinner(t *testing.T) {
	st, ctx, cleanup := openStore(t)
	defer cleanup()

	mustEnsureAccount(t, st, ctx, "creator", 0)
	mustEnsureAccount(t, st, ctx, "A", 100)
	mustEnsureAccount(t, st, ctx, "B", 100)
	bet := mustCreateBet(t, st, ctx, "creator")
	mustPlaceStake(t, st, ctx, "A", bet.ID, "no", 60)
	mustPlaceStake(t, st, ctx, "B", bet.ID, "no", 40)
	if _, err := st.LockBet(ctx, bet.ID); err != nil {
		t.Fatalf("lock: %v", err)
	}

	res, err := st.ResolveBet(ctx, bet.ID, "yes")
	if err != nil {
		t.Fatalf("resolve with no winners must succeed: %v", err)
	}
	if res.Winners != 0 || res.Losers != 2 || res.PaidOut != 0 {
		t.Fatalf("unexpected resolution: %+v", res)
	}
	stakes, _ := st.ListStakesByBet(ctx, bet.ID)
	for _, s := range stakes {
		if s.Status != StakeStatusLost {
			t.Fatalf("stake %s status = %s, want lost", s.ID, s.Status)
		}
	}
	if balA, _ := st.GetAccountBalance(ctx, "A"); balA != 40 {
		t.Fatalf("forfeited stake must stay debited, balance %d", balA)
	}
}

func TestCancelRefundsEveryStake(t *testing.T) {
	st, ctx, cleanup := openStore(t)
	defer cleanup()

	mustEnsureAccount(t, st, ctx, "creator", 0)
	mustEnsureAccount(t, st, ctx, "A", 100)
	mustEnsureAccount(t, st, ctx, "B", 100)
	bet := mustCreateBet(t, st, ctx, "creator")
	mustPlaceStake(t, st, ctx, "A", bet.ID, "yes", 100)
	mustPlaceStake(t, st, ctx, "B", bet.ID, "no", 50)

	out, err := st.CancelBet(ctx, bet.ID)
	if err != nil {
		t.Fatalf("cancel: %v", err)
	}
	if out.Refunded != 2 || out.Returned != 150 {
		t.Fatalf("refunded/returned = %d/%d, want 2/150", out.Refunded, out.Returned)
	}
	if balA, _ := st.GetAccountBalance(ctx, "A"); balA != 100 {
		t.Fatalf("A balance = %d, want 100", balA)
	}
	if balB, _ := st.GetAccountBalance(ctx, "B"); balB != 100 {
		t.Fatalf("B balance = %d, want 100", balB)
	}
	stakes, _ := st.ListStakesByBet(ctx, bet.ID)
	for _, s := range stakes {
		if s.Status != StakeStatusRefunded {
			t.Fatalf("stake %s status = %s, want refunded", s.ID, s.Status)
		}
	}
	refunds, _ := st.ListLedgerTransactions(ctx, LedgerFilter{Kind: KindRefund}, 10, 0)
	if len(refunds) != 2 {
		t.Fatalf("expected 2 refund rows, got %d", len(refunds))
	}
	// Cancellation is terminal: no resolution afterwards.
	if _, err := st.ResolveBet(ctx, bet.ID, "yes"); !errors.Is(err, ErrNotLocked) {
		t.Fatalf("resolve after cancel, got %v", err)
	}
	if _, err := st.CancelBet(ctx, bet.ID); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("double cancel, got %v", err)
	}
}
