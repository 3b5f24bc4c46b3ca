package economy

import "time"

type AccountResponse struct {
	AccountID          string     `json:"account_id"`
	Balance            int64      `json:"balance"`
	TotalWagered       int64      `json:"total_wagered"`
	TotalWon           int64      `json:"total_won"`
	LastDailyClaimAt   *time.Time `json:"last_daily_claim_at,omitempty"`
	LastBailoutClaimAt *time.Time `json:"last_bailout_claim_at,omitempty"`
	CreatedAt          time.Time  `json:"created_at"`
	Created            bool       `json:"created,omitempty"`
}

type ClaimResponse struct {
	AccountID string `json:"account_id"`
	Amount    int64  `json:"amount"`
	Balance   int64  `json:"balance"`
}

type TransferRequest struct {
	ToAccountID string `json:"to_account_id"`
	Amount      int64  `json:"amount"`
}

type TransferResponse struct {
	FromAccountID string `json:"from_account_id"`
	ToAccountID   string `json:"to_account_id"`
	Amount        int64  `json:"amount"`
	FromBalance   int64  `json:"from_balance"`
	ToBalance     int64  `json:"to_balance"`
}

type LedgerItem struct {
	ID            int64     `json:"id"`
	AccountID     string    `json:"account_id"`
	Amount        int64     `json:"amount"`
	Kind          string    `json:"kind"`
	ReferenceID   string    `json:"reference_id,omitempty"`
	BalanceBefore int64     `json:"balance_before"`
	BalanceAfter  int64     `json:"balance_after"`
	CreatedAt     time.Time `json:"created_at"`
}

type LedgerResponse struct {
	Items   []LedgerItem `json:"items"`
	NextID  int64        `json:"next_id,omitempty"`
	HasMore bool         `json:"has_more"`
}

type LeaderboardRow struct {
	Rank         int    `json:"rank"`
	AccountID    string `json:"account_id"`
	Balance      int64  `json:"balance"`
	TotalWagered int64  `json:"total_wagered"`
	TotalWon     int64  `json:"total_won"`
}

type LeaderboardResponse struct {
	Items  []LeaderboardRow `json:"items"`
	Limit  int              `json:"limit"`
	Offset int              `json:"offset"`
}

type AdjustRequest struct {
	AccountID string `json:"account_id"`
	Delta     int64  `json:"delta"`
	Reason    string `json:"reason,omitempty"`
}

type AdjustResponse struct {
	AccountID string `json:"account_id"`
	Delta     int64  `json:"delta"`
	Balance   int64  `json:"balance"`
}
