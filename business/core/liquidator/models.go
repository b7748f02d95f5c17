package liquidator

import (
	"fmt"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/common"
)

// State represents the stage of a liquidation auction.
type State uint8

// Set of liquidation states in the order the liquidator enumerates them.
const (
	StateActive State = iota
	StateFinished
)

// String implements the fmt.Stringer interface.
func (s State) String() string {
	switch s {
	case StateActive:
		return "active"
	case StateFinished:
		return "finished"
	}
	return fmt.Sprintf("unknown(%d)", uint8(s))
}

// Liquidation represents an auction of the collateral of a loan the bank
// handed over to the liquidator.
type Liquidation struct {
	ID               uint64
	LoanID           uint64
	CollateralAmount *big.Int // Wei.
	LoanAmount       *big.Int // Dollar base units.
	StartTime        time.Time
	EndTime          time.Time
	BestBid          *big.Int // Dollar base units.
	BestBidder       common.Address
	State            State
}

// Exists reports whether the liquidator has an auction under the id. The
// liquidator returns an empty record for unknown ids.
func (l Liquidation) Exists() bool {
	return !l.StartTime.IsZero()
}

// Ended reports whether the auction time is over at the specified moment.
func (l Liquidation) Ended(now time.Time) bool {
	return !now.Before(l.EndTime)
}

func unixTime(v *big.Int) time.Time {
	if v == nil || v.Sign() == 0 || !v.IsInt64() {
		return time.Time{}
	}
	return time.Unix(v.Int64(), 0).UTC()
}
