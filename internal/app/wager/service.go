package wager

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"pointsbook/internal/config"
	"pointsbook/internal/store"
)

const (
	maxTitleLen  = 200
	maxOptions   = 20
	maxOptionLen = 100
	listMaxLimit = 100
	listDefLimit = 20
)

type Service struct {
	store *store.Store
	cfg   config.EconomyConfig
}

func NewService(st *store.Store, cfg config.EconomyConfig) *Service {
	return &Service{store: st, cfg: cfg}
}

// Create validates and opens a new bet. Binary bets default their options
// to yes/no; every other kind must supply at least two distinct options.
func (s *Service) Create(ctx context.Context, req CreateBetRequest) (*BetResponse, error) {
	if req.CreatorID == "" {
		return nil, ErrInvalidRequest
	}
	title := strings.TrimSpace(req.Title)
	if title == "" || len(title) > maxTitleLen {
		return nil, ErrInvalidRequest
	}
	kind := req.Kind
	if kind == "" {
		kind = store.BetKindBinary
	}
	switch kind {
	case store.BetKindBinary, store.BetKindMulti, store.BetKindOverUnder, store.BetKindOdds:
	default:
		return nil, ErrInvalidRequest
	}
	options, err := normalizeOptions(kind, req.Options)
	if err != nil {
		return nil, err
	}
	minStake := req.MinStake
	if minStake <= 0 {
		minStake = s.cfg.DefaultMinStake
	}
	if req.MaxStake != nil && *req.MaxStake < minStake {
		return nil, ErrInvalidRequest
	}
	if req.LockAt != nil && !req.LockAt.After(time.Now()) {
		return nil, ErrInvalidRequest
	}
	if _, _, err := s.store.EnsureAccount(ctx, req.CreatorID, s.cfg.StartingBalance); err != nil {
		return nil, err
	}
	bet, err := s.store.CreateBet(ctx, store.NewBet{
		CreatorID: req.CreatorID,
		Kind:      kind,
		Title:     title,
		Options:   options,
		MinStake:  minStake,
		MaxStake:  req.MaxStake,
		LockAt:    req.LockAt,
	})
	if err != nil {
		return nil, err
	}
	log.Info().Int64("bet_id", bet.ID).Str("creator_id", bet.CreatorID).
		Str("kind", bet.Kind).Msg("bet created")
	return betResponse(bet), nil
}

func (s *Service) Get(ctx context.Context, betID int64) (*BetResponse, error) {
	bet, err := s.store.GetBet(ctx, betID)
	if err != nil {
		return nil, err
	}
	return betResponse(bet), nil
}

func (s *Service) List(ctx context.Context, status string, limit, offset int) (*BetsResponse, error) {
	if status != "" {
		switch status {
		case store.BetStatusOpen, store.BetStatusLocked, store.BetStatusResolved,
			store.BetStatusCancelled, store.BetStatusArchived:
		default:
			return nil, ErrInvalidRequest
		}
	}
	if limit <= 0 || limit > listMaxLimit {
		limit = listDefLimit
	}
	if offset < 0 {
		offset = 0
	}
	bets, err := s.store.ListBets(ctx, status, limit, offset)
	if err != nil {
		return nil, err
	}
	out := &BetsResponse{Items: make([]BetResponse, 0, len(bets)), Limit: limit, Offset: offset}
	for i := range bets {
		out.Items = append(out.Items, *betResponse(&bets[i]))
	}
	return out, nil
}

func (s *Service) Lock(ctx context.Context, betID int64) (*BetResponse, error) {
	bet, err := s.store.LockBet(ctx, betID)
	if err != nil {
		return nil, err
	}
	log.Info().Int64("bet_id", bet.ID).Msg("bet locked")
	return betResponse(bet), nil
}

func (s *Service) Resolve(ctx context.Context, betID int64, req ResolveBetRequest) (*ResolveBetResponse, error) {
	if req.WinningOption == "" {
		return nil, ErrInvalidRequest
	}
	res, err := s.store.ResolveBet(ctx, betID, req.WinningOption)
	if err != nil {
		return nil, err
	}
	out := &ResolveBetResponse{
		Bet:     *betResponse(res.Bet),
		Winners: res.Winners,
		Losers:  res.Losers,
		PaidOut: res.PaidOut,
		Dust:    res.Dust,
		Payouts: make([]PayoutDetail, 0, len(res.Payouts)),
	}
	for _, p := range res.Payouts {
		out.Payouts = append(out.Payouts, PayoutDetail{
			StakeID:   p.StakeID,
			AccountID: p.Account,
			Amount:    p.Amount,
		})
	}
	log.Info().Int64("bet_id", betID).Str("winning_option", req.WinningOption).
		Int("winners", res.Winners).Int64("paid_out", res.PaidOut).
		Int64("dust", res.Dust).Msg("bet resolved")
	return out, nil
}

func (s *Service) Cancel(ctx context.Context, betID int64) (*CancelBetResponse, error) {
	c, err := s.store.CancelBet(ctx, betID)
	if err != nil {
		return nil, err
	}
	log.Info().Int64("bet_id", betID).Int("refunded", c.Refunded).
		Int64("returned", c.Returned).Msg("bet cancelled")
	return &CancelBetResponse{Bet: *betResponse(c.Bet), Refunded: c.Refunded, Returned: c.Returned}, nil
}

func (s *Service) Archive(ctx context.Context, betID int64) (*BetResponse, error) {
	bet, err := s.store.ArchiveBet(ctx, betID)
	if err != nil {
		return nil, err
	}
	return betResponse(bet), nil
}

func (s *Service) PlaceStake(ctx context.Context, betID int64, req PlaceStakeRequest) (*PlaceStakeResponse, error) {
	if req.AccountID == "" || req.Option == "" {
		return nil, ErrInvalidRequest
	}
	if _, _, err := s.store.EnsureAccount(ctx, req.AccountID, s.cfg.StartingBalance); err != nil {
		return nil, err
	}
	stake, balance, err := s.store.PlaceStake(ctx, req.AccountID, betID, req.Option, req.Amount)
	if err != nil {
		return nil, err
	}
	log.Info().Str("stake_id", stake.ID).Int64("bet_id", betID).
		Str("account_id", req.AccountID).Int64("amount", req.Amount).Msg("stake placed")
	return &PlaceStakeResponse{Stake: *stakeResponse(stake), Balance: balance}, nil
}

func (s *Service) StakesByBet(ctx context.Context, betID int64) (*StakesResponse, error) {
	if _, err := s.store.GetBet(ctx, betID); err != nil {
		return nil, err
	}
	stakes, err := s.store.ListStakesByBet(ctx, betID)
	if err != nil {
		return nil, err
	}
	return stakesResponse(stakes), nil
}

func (s *Service) StakesByAccount(ctx context.Context, accountID string, limit, offset int) (*StakesResponse, error) {
	if accountID == "" {
		return nil, ErrInvalidRequest
	}
	if limit <= 0 || limit > listMaxLimit {
		limit = listDefLimit
	}
	if offset < 0 {
		offset = 0
	}
	stakes, err := s.store.ListStakesByAccount(ctx, accountID, limit, offset)
	if err != nil {
		return nil, err
	}
	return stakesResponse(stakes), nil
}

func normalizeOptions(kind string, raw []string) ([]string, error) {
	if kind == store.BetKindBinary && len(raw) == 0 {
		return []string{"yes", "no"}, nil
	}
	out := make([]string, 0, len(raw))
	seen := make(map[string]struct{}, len(raw))
	for _, o := range raw {
		o = strings.TrimSpace(o)
		if o == "" || len(o) > maxOptionLen {
			return nil, ErrInvalidRequest
		}
		if _, dup := seen[o]; dup {
			return nil, ErrInvalidRequest
		}
		seen[o] = struct{}{}
		out = append(out, o)
	}
	if len(out) < 2 || len(out) > maxOptions {
		return nil, ErrInvalidRequest
	}
	return out, nil
}

func betResponse(b *store.Bet) *BetResponse {
	return &BetResponse{
		BetID:         b.ID,
		CreatorID:     b.CreatorID,
		Kind:          b.Kind,
		Title:         b.Title,
		Options:       b.Options,
		Status:        b.Status,
		MinStake:      b.MinStake,
		MaxStake:      b.MaxStake,
		TotalPool:     b.TotalPool,
		LockAt:        b.LockAt,
		CreatedAt:     b.CreatedAt,
		ResolvedAt:    b.ResolvedAt,
		WinningOption: b.WinningOption,
	}
}

func stakeResponse(st *store.Stake) *StakeResponse {
	return &StakeResponse{
		StakeID:   st.ID,
		AccountID: st.AccountID,
		BetID:     st.BetID,
		Option:    st.Option,
		Amount:    st.Amount,
		Payout:    st.Payout,
		Status:    st.Status,
		CreatedAt: st.CreatedAt,
	}
}

func stakesResponse(stakes []store.Stake) *StakesResponse {
	out := &StakesResponse{Items: make([]StakeResponse, 0, len(stakes))}
	for i := range stakes {
		out.Items = append(out.Items, *stakeResponse(&stakes[i]))
	}
	return out
}
