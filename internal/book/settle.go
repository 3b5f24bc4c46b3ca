// Package book holds the pure settlement arithmetic for a wager book:
// pool totals, proportional floor-division payouts and the retained dust.
package book

type Stake struct {
	ID      string
	Account string
	Option  string
	Amount  int64
}

type Payout struct {
	StakeID string
	Account string
	Amount  int64
}

type Settlement struct {
	TotalPool   int64
	WinningPool int64
	Payouts     []Payout
	PaidOut     int64
	// Dust is the truncation remainder of the floor divisions. It is
	// retained by the house, never distributed, so payout totals are
	// reproducible: PaidOut + Dust == TotalPool whenever anyone backed
	// the winning option.
	Dust int64
}

// Settle partitions stakes by the winning option and computes each
// winner's proportional share of the whole pool:
//
//	payout = floor(stake * totalPool / winningPool)
//
// When nobody backed the winning option the settlement has no payouts and
// the entire pool is forfeited; that is a defined terminal case, not an
// error.
func Settle(stakes []Stake, winningOption string) Settlement {
	var out Settlement
	for _, st := range stakes {
		out.TotalPool += st.Amount
		if st.Option == winningOption {
			out.WinningPool += st.Amount
		}
	}
	if out.WinningPool == 0 {
		return out
	}
	out.Payouts = make([]Payout, 0, len(stakes))
	for _, st := range stakes {
		if st.Option != winningOption {
			continue
		}
		amount := st.Amount * out.TotalPool / out.WinningPool
		out.Payouts = append(out.Payouts, Payout{StakeID: st.ID, Account: st.Account, Amount: amount})
		out.PaidOut += amount
	}
	out.Dust = out.TotalPool - out.PaidOut
	return out
}
