package store

import "time"

const (
	BetStatusDraft     = "draft"
	BetStatusOpen      = "open"
	BetStatusLocked    = "locked"
	BetStatusResolved  = "resolved"
	BetStatusCancelled = "cancelled"
	BetStatusArchived  = "archived"
)

const (
	BetKindBinary    = "binary"
	BetKindMulti     = "multi"
	BetKindOverUnder = "overunder"
	BetKindOdds      = "odds"
)

const (
	StakeStatusPending  = "pending"
	StakeStatusWon      = "won"
	StakeStatusLost     = "lost"
	StakeStatusRefunded = "refunded"
)

const (
	KindStakePlaced      = "stake_placed"
	KindPayout           = "payout"
	KindRefund           = "refund"
	KindDailyBonus       = "daily_bonus"
	KindBailout          = "bailout"
	KindAdminAdjustment  = "admin_adjustment"
	KindTransferSent     = "transfer_sent"
	KindTransferReceived = "transfer_received"
)

type Account struct {
	ID                 string
	Balance            int64
	TotalWagered       int64
	TotalWon           int64
	LastDailyClaimAt   *time.Time
	LastBailoutClaimAt *time.Time
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

type Bet struct {
	ID            int64
	CreatorID     string
	Kind          string
	Title         string
	Options       []string
	Status        string
	MinStake      int64
	MaxStake      *int64
	TotalPool     int64
	LockAt        *time.Time
	CreatedAt     time.Time
	ResolvedAt    *time.Time
	WinningOption *string
}

// HasOption reports membership in the bet's fixed option set.
func (b *Bet) HasOption(option string) bool {
	for _, o := range b.Options {
		if o == option {
			return true
		}
	}
	return false
}

type Stake struct {
	ID        string
	AccountID string
	BetID     int64
	Option    string
	Amount    int64
	Payout    int64
	Status    string
	CreatedAt time.Time
}

// LedgerTransaction rows are append-only. For one account, replaying them
// in id order from the first BalanceBefore reproduces the current balance.
type LedgerTransaction struct {
	ID            int64
	AccountID     string
	Amount        int64
	Kind          string
	ReferenceID   string
	BalanceBefore int64
	BalanceAfter  int64
	CreatedAt     time.Time
}

type LeaderboardEntry struct {
	AccountID    string
	Balance      int64
	TotalWagered int64
	TotalWon     int64
}
