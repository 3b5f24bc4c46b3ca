package store

import (
	"math/rand"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

var (
	stakeEntropy   = ulid.Monotonic(rand.New(rand.NewSource(time.Now().UnixNano())), 0)
	stakeEntropyMu sync.Mutex
)

// NewStakeID returns a lexicographically sortable stake identifier.
func NewStakeID() string {
	stakeEntropyMu.Lock()
	defer stakeEntropyMu.Unlock()
	return ulid.MustNew(ulid.Timestamp(time.Now()), stakeEntropy).String()
}
