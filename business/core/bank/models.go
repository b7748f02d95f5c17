package bank

import (
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

// State represents the life cycle stage of a loan as the bank reports it.
type State uint8

// Set of loan states in the order the bank enumerates them.
const (
	StateActive State = iota
	StateUnderLiquidation
	StateLiquidated
	StateSettled
)

var stateNames = []string{"active", "under liquidation", "liquidated", "settled"}

// String implements the fmt.Stringer interface.
func (s State) String() string {
	if int(s) < len(stateNames) {
		return stateNames[s]
	}
	return fmt.Sprintf("unknown(%d)", uint8(s))
}

// Loan represents a loan record held by the bank.
type Loan struct {
	ID         uint64
	Recipient  common.Address
	Collateral *big.Int
	Amount     *big.Int
	State      State
}

// Exists reports whether the bank has a loan under the id. The bank returns
// an empty record for unknown ids.
func (l Loan) Exists() bool {
	return l.Recipient != (common.Address{})
}

// Variables represents the system parameters the oracles vote on.
type Variables struct {
	CollateralRatio     *big.Int // Thousandths.
	CollateralPrice     *big.Int // Dollars per ether scaled by 1e18.
	LiquidationDuration *big.Int // Seconds.
}
