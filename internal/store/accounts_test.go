package store

import (
	"errors"
	"testing"
	"time"
)

func TestEnsureAccountIdempotent(t *testing.T) {
	st, ctx, cleanup := openStore(t)
	defer cleanup()

	a, created, err := st.EnsureAccount(ctx, "alice", 1000)
	if err != nil {
		t.Fatalf("ensure: %v", err)
	}
	if !created || a.Balance != 1000 {
		t.Fatalf("expected fresh account with 1000, got created=%v balance=%d", created, a.Balance)
	}

	// The starting grant must be on the ledger.
	txs, err := st.ListLedgerTransactions(ctx, LedgerFilter{AccountID: "alice"}, 10, 0)
	if err != nil {
		t.Fatalf("list ledger: %v", err)
	}
	if len(txs) != 1 || txs[0].Kind != KindAdminAdjustment || txs[0].BalanceAfter != 1000 {
		t.Fatalf("unexpected initial ledger: %+v", txs)
	}

	b, created, err := st.EnsureAccount(ctx, "alice", 9999)
	if err != nil {
		t.Fatalf("re-ensure: %v", err)
	}
	if created || b.Balance != 1000 {
		t.Fatalf("second ensure must be a no-op, got created=%v balance=%d", created, b.Balance)
	}
}

func TestDebitInsufficientFunds(t *testing.T) {
	st, ctx, cleanup := openStore(t)
	defer cleanup()

	mustEnsureAccount(t, st, ctx, "bob", 100)
	if _, err := st.Debit(ctx, "bob", 150, KindAdminAdjustment, ""); !errors.Is(err, ErrInsufficientFunds) {
		t.Fatalf("expected ErrInsufficientFunds, got %v", err)
	}
	bal, err := st.GetAccountBalance(ctx, "bob")
	if err != nil {
		t.Fatalf("balance: %v", err)
	}
	if bal != 100 {
		t.Fatalf("failed debit must not move the balance, got %d", bal)
	}
	// And no ledger row either.
	txs, _ := st.ListLedgerTransactions(ctx, LedgerFilter{AccountID: "bob"}, 10, 0)
	if len(txs) != 1 {
		t.Fatalf("expected only the initial grant on the ledger, got %d rows", len(txs))
	}
}

func TestCreditDebitLedgerPair(t *testing.T) {
	st, ctx, cleanup := openStore(t)
	defer cleanup()

	mustEnsureAccount(t, st, ctx, "carol", 0)
	if _, err := st.Credit(ctx, "carol", 500, KindAdminAdjustment, "seed"); err != nil {
		t.Fatalf("credit: %v", err)
	}
	if _, err := st.Debit(ctx, "carol", 200, KindAdminAdjustment, "spend"); err != nil {
		t.Fatalf("debit: %v", err)
	}
	txs, err := st.ListLedgerTransactions(ctx, LedgerFilter{AccountID: "carol"}, 10, 0)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(txs) != 2 {
		t.Fatalf("expected 2 ledger rows, got %d", len(txs))
	}
	if txs[0].Amount != 500 || txs[0].BalanceBefore != 0 || txs[0].BalanceAfter != 500 {
		t.Fatalf("credit row wrong: %+v", txs[0])
	}
	if txs[1].Amount != -200 || txs[1].BalanceBefore != 500 || txs[1].BalanceAfter != 300 {
		t.Fatalf("debit row wrong: %+v", txs[1])
	}
}

func TestClaimDailyCalendarWindow(t *testing.T) {
	st, ctx, cleanup := openStore(t)
	defer cleanup()

	mustEnsureAccount(t, st, ctx, "dave", 0)
	day1 := time.Date(2025, 3, 1, 23, 50, 0, 0, time.UTC)

	bal, err := st.ClaimDaily(ctx, "dave", 100, day1)
	if err != nil {
		t.Fatalf("first claim: %v", err)
	}
	if bal != 100 {
		t.Fatalf("balance = %d, want 100", bal)
	}
	// Same calendar day, even hours later.
	if _, err := st.ClaimDaily(ctx, "dave", 100, day1.Add(5*time.Minute)); !errors.Is(err, ErrAlreadyClaimed) {
		t.Fatalf("expected ErrAlreadyClaimed, got %v", err)
	}
	// Ten minutes later it is the next UTC day.
	if _, err := st.ClaimDaily(ctx, "dave", 100, day1.Add(15*time.Minute)); err != nil {
		t.Fatalf("next-day claim: %v", err)
	}
}

func TestClaimBailoutEligibility(t *testing.T) {
	st, ctx, cleanup := openStore(t)
	defer cleanup()

	mustEnsureAccount(t, st, ctx, "erin", 10)
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

	if _, err := st.ClaimBailout(ctx, "erin", 50, now); !errors.Is(err, ErrNotEligible) {
		t.Fatalf("non-zero balance must be ineligible, got %v", err)
	}
	if _, err := st.Debit(ctx, "erin", 10, KindAdminAdjustment, ""); err != nil {
		t.Fatalf("drain: %v", err)
	}
	bal, err := st.ClaimBailout(ctx, "erin", 50, now)
	if err != nil {
		t.Fatalf("bailout: %v", err)
	}
	if bal != 50 {
		t.Fatalf("balance = %d, want 50", bal)
	}
	if _, err := st.Debit(ctx, "erin", 50, KindAdminAdjustment, ""); err != nil {
		t.Fatalf("drain again: %v", err)
	}
	if _, err := st.ClaimBailout(ctx, "erin", 50, now.Add(time.Hour)); !errors.Is(err, ErrNotEligible) {
		t.Fatalf("same-day second bailout must fail, got %v", err)
	}
	if _, err := st.ClaimBailout(ctx, "erin", 50, now.Add(24*time.Hour)); err != nil {
		t.Fatalf("next-day bailout: %v", err)
	}
}

func TestTransferAtomic(t *testing.T) {
	st, ctx, cleanup := openStore(t)
	defer cleanup()

	mustEnsureAccount(t, st, ctx, "frank", 300)
	mustEnsureAccount(t, st, ctx, "grace", 0)

	fromBal, toBal, err := st.Transfer(ctx, "frank", "grace", 120)
	if err != nil {
		t.Fatalf("transfer: %v", err)
	}
	if fromBal != 180 || toBal != 120 {
		t.Fatalf("balances = %d/%d, want 180/120", fromBal, toBal)
	}
	sent, _ := st.ListLedgerTransactions(ctx, LedgerFilter{AccountID: "frank", Kind: KindTransferSent}, 10, 0)
	recv, _ := st.ListLedgerTransactions(ctx, LedgerFilter{AccountID: "grace", Kind: KindTransferReceived}, 10, 0)
	if len(sent) != 1 || len(recv) != 1 {
		t.Fatalf("expected one sent and one received row, got %d/%d", len(sent), len(recv))
	}
	if sent[0].ReferenceID != "grace" || recv[0].ReferenceID != "frank" {
		t.Fatalf("transfer rows must reference the counterparty: %+v %+v", sent[0], recv[0])
	}

	if _, _, err := st.Transfer(ctx, "frank", "grace", 1000); !errors.Is(err, ErrInsufficientFunds) {
		t.Fatalf("expected ErrInsufficientFunds, got %v", err)
	}
	if _, _, err := st.Transfer(ctx, "frank", "frank", 10); !errors.Is(err, ErrInvalidAmount) {
		t.Fatalf("self transfer must fail, got %v", err)
	}
}

func TestAdjustSigned(t *testing.T) {
	st, ctx, cleanup := openStore(t)
	defer cleanup()

	mustEnsureAccount(t, st, ctx, "heidi", 100)
	if bal, err := st.Adjust(ctx, "heidi", 40, "bonus"); err != nil || bal != 140 {
		t.Fatalf("positive adjust = %d, %v", bal, err)
	}
	if bal, err := st.Adjust(ctx, "heidi", -140, "fine"); err != nil || bal != 0 {
		t.Fatalf("negative adjust = %d, %v", bal, err)
	}
	if _, err := st.Adjust(ctx, "heidi", -1, "overdraw"); !errors.Is(err, ErrInsufficientFunds) {
		t.Fatalf("adjust below zero must fail, got %v", err)
	}
}

func TestLeaderboardOrder(t *testing.T) {
	st, ctx, cleanup := openStore(t)
	defer cleanup()

	mustEnsureAccount(t, st, ctx, "a", 10)
	mustEnsureAccount(t, st, ctx, "b", 30)
	mustEnsureAccount(t, st, ctx, "c", 20)

	entries, err := st.ListLeaderboard(ctx, 2, 0)
	if err != nil {
		t.Fatalf("leaderboard: %v", err)
	}
	if len(entries) != 2 || entries[0].AccountID != "b" || entries[1].AccountID != "c" {
		t.Fatalf("unexpected leaderboard: %+v", entries)
	}
}

func TestGetAccountNotFound(t *testing.T) {
	st, ctx, cleanup := openStore(t)
	defer cleanup()

	if _, err := st.GetAccount(ctx, "nobody"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
