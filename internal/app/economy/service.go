package economy

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"pointsbook/internal/cache"
	"pointsbook/internal/config"
	"pointsbook/internal/store"
)

const leaderboardMaxRows = 100

type Service struct {
	store *store.Store
	cfg   config.EconomyConfig
	lb    *cache.Leaderboard
}

func NewService(st *store.Store, cfg config.EconomyConfig, lb *cache.Leaderboard) *Service {
	return &Service{store: st, cfg: cfg, lb: lb}
}

// Ensure creates the account with the configured starting balance if it
// does not exist yet. Safe to call on every interaction.
func (s *Service) Ensure(ctx context.Context, accountID string) (*AccountResponse, error) {
	if accountID == "" {
		return nil, ErrInvalidRequest
	}
	acc, created, err := s.store.EnsureAccount(ctx, accountID, s.cfg.StartingBalance)
	if err != nil {
		return nil, err
	}
	out := accountResponse(acc)
	out.Created = created
	return out, nil
}

func (s *Service) Get(ctx context.Context, accountID string) (*AccountResponse, error) {
	if accountID == "" {
		return nil, ErrInvalidRequest
	}
	acc, err := s.store.GetAccount(ctx, accountID)
	if err != nil {
		return nil, err
	}
	return accountResponse(acc), nil
}

func (s *Service) ClaimDaily(ctx context.Context, accountID string) (*ClaimResponse, error) {
	if accountID == "" {
		return nil, ErrInvalidRequest
	}
	if _, _, err := s.store.EnsureAccount(ctx, accountID, s.cfg.StartingBalance); err != nil {
		return nil, err
	}
	balance, err := s.store.ClaimDaily(ctx, accountID, s.cfg.DailyBonus, time.Now().UTC())
	if err != nil {
		return nil, err
	}
	return &ClaimResponse{AccountID: accountID, Amount: s.cfg.DailyBonus, Balance: balance}, nil
}

func (s *Service) ClaimBailout(ctx context.Context, accountID string) (*ClaimResponse, error) {
	if accountID == "" {
		return nil, ErrInvalidRequest
	}
	if _, _, err := s.store.EnsureAccount(ctx, accountID, s.cfg.StartingBalance); err != nil {
		return nil, err
	}
	balance, err := s.store.ClaimBailout(ctx, accountID, s.cfg.BailoutAmount, time.Now().UTC())
	if err != nil {
		return nil, err
	}
	return &ClaimResponse{AccountID: accountID, Amount: s.cfg.BailoutAmount, Balance: balance}, nil
}

func (s *Service) Transfer(ctx context.Context, fromID string, req TransferRequest) (*TransferResponse, error) {
	if fromID == "" || req.ToAccountID == "" {
		return nil, ErrInvalidRequest
	}
	if _, _, err := s.store.EnsureAccount(ctx, fromID, s.cfg.StartingBalance); err != nil {
		return nil, err
	}
	if _, _, err := s.store.EnsureAccount(ctx, req.ToAccountID, s.cfg.StartingBalance); err != nil {
		return nil, err
	}
	fromBal, toBal, err := s.store.Transfer(ctx, fromID, req.ToAccountID, req.Amount)
	if err != nil {
		return nil, err
	}
	return &TransferResponse{
		FromAccountID: fromID,
		ToAccountID:   req.ToAccountID,
		Amount:        req.Amount,
		FromBalance:   fromBal,
		ToBalance:     toBal,
	}, nil
}

// History pages an account's ledger with a keyset cursor on transaction id.
func (s *Service) History(ctx context.Context, accountID, kind string, limit int, afterID int64, descending bool) (*LedgerResponse, error) {
	if accountID == "" {
		return nil, ErrInvalidRequest
	}
	if _, err := s.store.GetAccount(ctx, accountID); err != nil {
		return nil, err
	}
	f := store.LedgerFilter{AccountID: accountID, Kind: kind, Descending: descending}
	items, err := s.store.ListLedgerTransactions(ctx, f, limit+1, afterID)
	if err != nil {
		return nil, err
	}
	return ledgerResponse(items, limit), nil
}

// GlobalLedger is the admin view across all accounts and an optional
// single account, kind, and creation time window.
func (s *Service) GlobalLedger(ctx context.Context, accountID, kind string, from, to *time.Time, limit int, afterID int64) (*LedgerResponse, error) {
	f := store.LedgerFilter{AccountID: accountID, Kind: kind, From: from, To: to}
	items, err := s.store.ListLedgerTransactions(ctx, f, limit+1, afterID)
	if err != nil {
		return nil, err
	}
	return ledgerResponse(items, limit), nil
}

func (s *Service) Leaderboard(ctx context.Context, limit, offset int) (*LeaderboardResponse, error) {
	if limit <= 0 || limit > leaderboardMaxRows {
		limit = leaderboardMaxRows
	}
	if offset < 0 {
		offset = 0
	}
	var cached LeaderboardResponse
	hit, err := s.lb.Get(ctx, limit, offset, &cached)
	if err != nil {
		log.Warn().Err(err).Msg("leaderboard cache read failed")
	}
	if hit {
		return &cached, nil
	}
	entries, err := s.store.ListLeaderboard(ctx, limit, offset)
	if err != nil {
		return nil, err
	}
	out := &LeaderboardResponse{Items: make([]LeaderboardRow, 0, len(entries)), Limit: limit, Offset: offset}
	for i, e := range entries {
		out.Items = append(out.Items, LeaderboardRow{
			Rank:         offset + i + 1,
			AccountID:    e.AccountID,
			Balance:      e.Balance,
			TotalWagered: e.TotalWagered,
			TotalWon:     e.TotalWon,
		})
	}
	if err := s.lb.Set(ctx, limit, offset, out); err != nil {
		log.Warn().Err(err).Msg("leaderboard cache write failed")
	}
	return out, nil
}

// Adjust applies a signed admin correction. Zero deltas are rejected.
func (s *Service) Adjust(ctx context.Context, req AdjustRequest) (*AdjustResponse, error) {
	if req.AccountID == "" {
		return nil, ErrInvalidRequest
	}
	balance, err := s.store.Adjust(ctx, req.AccountID, req.Delta, req.Reason)
	if err != nil {
		return nil, err
	}
	log.Info().Str("account_id", req.AccountID).Int64("delta", req.Delta).
		Str("reason", req.Reason).Msg("admin adjustment applied")
	return &AdjustResponse{AccountID: req.AccountID, Delta: req.Delta, Balance: balance}, nil
}

func accountResponse(acc *store.Account) *AccountResponse {
	return &AccountResponse{
		AccountID:          acc.ID,
		Balance:            acc.Balance,
		TotalWagered:       acc.TotalWagered,
		TotalWon:           acc.TotalWon,
		LastDailyClaimAt:   acc.LastDailyClaimAt,
		LastBailoutClaimAt: acc.LastBailoutClaimAt,
		CreatedAt:          acc.CreatedAt,
	}
}

func ledgerResponse(items []store.LedgerTransaction, limit int) *LedgerResponse {
	hasMore := len(items) > limit
	if hasMore {
		items = items[:limit]
	}
	out := &LedgerResponse{Items: make([]LedgerItem, 0, len(items)), HasMore: hasMore}
	for _, lt := range items {
		out.Items = append(out.Items, LedgerItem{
			ID:            lt.ID,
			AccountID:     lt.AccountID,
			Amount:        lt.Amount,
			Kind:          lt.Kind,
			ReferenceID:   lt.ReferenceID,
			BalanceBefore: lt.BalanceBefore,
			BalanceAfter:  lt.BalanceAfter,
			CreatedAt:     lt.CreatedAt,
		})
	}
	if hasMore && len(out.Items) > 0 {
		out.NextID = out.Items[len(out.Items)-1].ID
	}
	return out
}
