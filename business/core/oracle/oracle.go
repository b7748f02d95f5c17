// Package oracle provides the client side of the oracles contract: voting
// on the system variables and managing oracle scores.
package oracle

import (
	"context"
	"errors"
	"fmt"
	"math/big"

	"github.com/ardanlabs/erc20bank/business/contracts"
	"github.com/ardanlabs/erc20bank/foundation/units"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
)

// ErrOneVariable is returned when a vote does not name exactly one variable.
var ErrOneVariable = errors.New("you should set one variable per vote")

// Variable identifies the system variable a vote is for. The values are
// the codes the oracles contract expects.
type Variable uint8

// Set of variables that can be voted on.
const (
	CollateralPrice Variable = iota
	CollateralRatio
	LiquidationDuration
)

var variableNames = []string{"collateral price", "collateral ratio", "liquidation duration"}

// String implements the fmt.Stringer interface.
func (v Variable) String() string {
	if int(v) < len(variableNames) {
		return variableNames[v]
	}
	return fmt.Sprintf("unknown(%d)", uint8(v))
}

// Vote represents an encoded vote ready to be submitted.
type Vote struct {
	Variable Variable
	Value    *big.Int
}

// NewVote constructs a vote from the command line values. Exactly one of
// the values must be set: a price in dollars per ether, a ratio, or a
// duration in minutes.
func NewVote(price string, ratio string, duration string) (Vote, error) {
	var set int
	for _, s := range []string{price, ratio, duration} {
		if s != "" {
			set++
		}
	}

	if set != 1 {
		return Vote{}, ErrOneVariable
	}

	var vote Vote
	var err error

	switch {
	case price != "":
		vote.Variable = CollateralPrice
		vote.Value, err = units.Parse(price, units.PriceDecimals)

	case ratio != "":
		vote.Variable = CollateralRatio
		vote.Value, err = units.Parse(ratio, units.RatioDecimals)

	default:
		vote.Variable = LiquidationDuration
		vote.Value, err = units.ParseMinutes(duration)
	}

	if err != nil {
		return Vote{}, fmt.Errorf("%s: %w", vote.Variable, err)
	}

	if err := units.Positive(vote.Value); err != nil {
		return Vote{}, fmt.Errorf("%s %w", vote.Variable, err)
	}

	return vote, nil
}

// =============================================================================

// EvHandler defines a function that is called to report progress.
type EvHandler func(v string, args ...any)

// Core manages the set of operations against the oracles contract.
type Core struct {
	oracles contracts.Binding
	ev      EvHandler
}

// NewCore constructs an oracle core for use.
func NewCore(oracles contracts.Binding, ev EvHandler) *Core {
	if ev == nil {
		ev = func(v string, args ...any) {}
	}

	return &Core{
		oracles: oracles,
		ev:      ev,
	}
}

// Vote submits the vote.
func (c *Core) Vote(ctx context.Context, vote Vote) (*types.Receipt, error) {
	c.ev("oracle: vote: %s: %s", vote.Variable, vote.Value)

	return c.oracles.Transact(ctx, nil, "vote", uint8(vote.Variable), vote.Value)
}

// SetScore sets the score of the oracle.
func (c *Core) SetScore(ctx context.Context, oracle common.Address, score *big.Int) (*types.Receipt, error) {
	if oracle == (common.Address{}) {
		return nil, errors.New("oracle address is required")
	}

	if err := units.NonNegative(score); err != nil {
		return nil, fmt.Errorf("score %w", err)
	}

	c.ev("oracle: set score: %s: %s", oracle, score)

	return c.oracles.Transact(ctx, nil, "setScore", oracle, score)
}

// FinishRecruiting closes the recruiting of new oracles.
func (c *Core) FinishRecruiting(ctx context.Context) (*types.Receipt, error) {
	c.ev("oracle: finish recruiting")

	return c.oracles.Transact(ctx, nil, "finishRecruiting")
}
