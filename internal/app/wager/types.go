package wager

import "time"

type CreateBetRequest struct {
	CreatorID string     `json:"creator_id"`
	Kind      string     `json:"kind,omitempty"`
	Title     string     `json:"title"`
	Options   []string   `json:"options,omitempty"`
	MinStake  int64      `json:"min_stake,omitempty"`
	MaxStake  *int64     `json:"max_stake,omitempty"`
	LockAt    *time.Time `json:"lock_at,omitempty"`
}

type BetResponse struct {
	BetID         int64      `json:"bet_id"`
	CreatorID     string     `json:"creator_id"`
	Kind          string     `json:"kind"`
	Title         string     `json:"title"`
	Options       []string   `json:"options"`
	Status        string     `json:"status"`
	MinStake      int64      `json:"min_stake"`
	MaxStake      *int64     `json:"max_stake,omitempty"`
	TotalPool     int64      `json:"total_pool"`
	LockAt        *time.Time `json:"lock_at,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
	ResolvedAt    *time.Time `json:"resolved_at,omitempty"`
	WinningOption *string    `json:"winning_option,omitempty"`
}

type BetsResponse struct {
	Items  []BetResponse `json:"items"`
	Limit  int           `json:"limit"`
	Offset int           `json:"offset"`
}

type PlaceStakeRequest struct {
	AccountID string `json:"account_id"`
	Option    string `json:"option"`
	Amount    int64  `json:"amount"`
}

type StakeResponse struct {
	StakeID   string    `json:"stake_id"`
	AccountID string    `json:"account_id"`
	BetID     int64     `json:"bet_id"`
	Option    string    `json:"option"`
	Amount    int64     `json:"amount"`
	Payout    int64     `json:"payout"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
}

type PlaceStakeResponse struct {
	Stake   StakeResponse `json:"stake"`
	Balance int64         `json:"balance"`
}

type StakesResponse struct {
	Items []StakeResponse `json:"items"`
}

type ResolveBetRequest struct {
	WinningOption string `json:"winning_option"`
}

type ResolveBetResponse struct {
	Bet     BetResponse    `json:"bet"`
	Winners int            `json:"winners"`
	Losers  int            `json:"losers"`
	PaidOut int64          `json:"paid_out"`
	Dust    int64          `json:"dust"`
	Payouts []PayoutDetail `json:"payouts"`
}

type PayoutDetail struct {
	StakeID   string `json:"stake_id"`
	AccountID string `json:"account_id"`
	Amount    int64  `json:"amount"`
}

type CancelBetResponse struct {
	Bet      BetResponse `json:"bet"`
	Refunded int         `json:"refunded"`
	Returned int64       `json:"returned"`
}
