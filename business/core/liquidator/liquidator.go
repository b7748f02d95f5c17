// Package liquidator provides the client side of the liquidator contract
// that auctions the collateral of under collateralized loans.
package liquidator

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"sort"
	"time"

	"github.com/ardanlabs/erc20bank/business/contracts"
	"github.com/ardanlabs/erc20bank/foundation/units"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
)

// Set of errors returned by the checks performed before submitting a
// transaction.
var (
	ErrInvalidLiquidationID = errors.New("invalid liquidation id")
	ErrLiquidationFinished  = errors.New("the liquidation finished")
	ErrLiquidationRunning   = errors.New("the liquidation time is not over")
	ErrInsufficientBalance  = errors.New("insufficient balance")
	ErrExceedsDeposit       = errors.New("the amount exceeds the deposit")
)

// EvHandler defines a function that is called to report progress.
type EvHandler func(v string, args ...any)

// Clock returns the time auctions are measured against. The contract uses
// the timestamp of the latest block.
type Clock func(ctx context.Context) (time.Time, error)

// Config represents the systems the core needs.
type Config struct {
	Account        common.Address
	Liquidator     contracts.Binding
	EtherDollar    contracts.Binding
	DollarDecimals int32
	EvHandler      EvHandler
	Clock          Clock
}

// Core manages the set of operations against the liquidator.
type Core struct {
	account     common.Address
	liquidator  contracts.Binding
	etherDollar contracts.Token
	decimals    int32
	ev          EvHandler
	clock       Clock
}

// NewCore constructs a liquidator core for use.
func NewCore(cfg Config) *Core {
	ev := cfg.EvHandler
	if ev == nil {
		ev = func(v string, args ...any) {}
	}

	clock := cfg.Clock
	if clock == nil {
		clock = func(ctx context.Context) (time.Time, error) { return time.Now(), nil }
	}

	return &Core{
		account:     cfg.Account,
		liquidator:  cfg.Liquidator,
		etherDollar: contracts.Token{Binding: cfg.EtherDollar},
		decimals:    cfg.DollarDecimals,
		ev:          ev,
		clock:       clock,
	}
}

// DollarDecimals returns the number of decimals of the Ether dollar.
func (c *Core) DollarDecimals() int32 {
	return c.decimals
}

// Account returns the account transactions are signed with.
func (c *Core) Account() common.Address {
	return c.account
}

// =============================================================================
// Transactions

// PlaceBid offers the amount of Ether dollar for the collateral under
// auction.
func (c *Core) PlaceBid(ctx context.Context, liquidationID uint64, amount *big.Int) (*types.Receipt, error) {
	if err := units.Positive(amount); err != nil {
		return nil, fmt.Errorf("dollar %w", err)
	}

	liq, err := c.existingLiquidation(ctx, liquidationID)
	if err != nil {
		return nil, err
	}

	if liq.State != StateActive {
		return nil, ErrLiquidationFinished
	}

	balance, err := c.etherDollar.BalanceOf(ctx, c.account)
	if err != nil {
		return nil, fmt.Errorf("dollar balance: %w", err)
	}

	if balance.Cmp(amount) < 0 {
		return nil, ErrInsufficientBalance
	}

	c.ev("Approving %s dollars transfer from your account by the liquidator", units.Format(amount, c.decimals))
	if _, err := c.etherDollar.Approve(ctx, c.liquidator.Address(), amount); err != nil {
		return nil, fmt.Errorf("approve dollar: %w", err)
	}

	c.ev("Place bid")
	return c.liquidator.Transact(ctx, nil, "placeBid", new(big.Int).SetUint64(liquidationID), amount)
}

// StopLiquidation closes an auction whose time is over.
func (c *Core) StopLiquidation(ctx context.Context, liquidationID uint64) (*types.Receipt, error) {
	liq, err := c.existingLiquidation(ctx, liquidationID)
	if err != nil {
		return nil, err
	}

	if liq.State != StateActive {
		return nil, ErrLiquidationFinished
	}

	now, err := c.clock(ctx)
	if err != nil {
		return nil, err
	}

	if !liq.Ended(now) {
		return nil, ErrLiquidationRunning
	}

	return c.liquidator.Transact(ctx, nil, "stopLiquidation", new(big.Int).SetUint64(liquidationID))
}

// Withdraw takes the amount of Ether dollar out of the signer's deposit.
func (c *Core) Withdraw(ctx context.Context, amount *big.Int) (*types.Receipt, error) {
	if err := units.Positive(amount); err != nil {
		return nil, fmt.Errorf("dollar %w", err)
	}

	deposit, err := c.Deposit(ctx, c.account)
	if err != nil {
		return nil, err
	}

	if deposit.Cmp(amount) < 0 {
		return nil, ErrExceedsDeposit
	}

	return c.liquidator.Transact(ctx, nil, "withdraw", amount)
}

// =============================================================================
// Queries

// Liquidation returns the auction for the specified id. Unknown ids return
// a liquidation that does not exist.
func (c *Core) Liquidation(ctx context.Context, liquidationID uint64) (Liquidation, error) {
	values, err := c.liquidator.Call(ctx, "liquidations", new(big.Int).SetUint64(liquidationID))
	if err != nil {
		return Liquidation{}, fmt.Errorf("liquidation %d: %w", liquidationID, err)
	}

	var ints [6]*big.Int
	for i := range ints {
		if ints[i], err = contracts.BigInt(values, i); err != nil {
			return Liquidation{}, fmt.Errorf("liquidation %d: %w", liquidationID, err)
		}
	}

	bidder, err := contracts.Address(values, 6)
	if err != nil {
		return Liquidation{}, fmt.Errorf("liquidation %d: %w", liquidationID, err)
	}

	state, err := contracts.Uint8(values, 7)
	if err != nil {
		return Liquidation{}, fmt.Errorf("liquidation %d: %w", liquidationID, err)
	}

	liq := Liquidation{
		ID:               liquidationID,
		LoanID:           ints[0].Uint64(),
		CollateralAmount: ints[1],
		LoanAmount:       ints[2],
		StartTime:        unixTime(ints[3]),
		EndTime:          unixTime(ints[4]),
		BestBid:          ints[5],
		BestBidder:       bidder,
		State:            State(state),
	}

	return liq, nil
}

// ActiveLiquidations returns the auctions still taking bids, sorted by id.
func (c *Core) ActiveLiquidations(ctx context.Context) ([]Liquidation, error) {
	logs, err := c.liquidator.Logs(ctx, "LiquidationStarted")
	if err != nil {
		return nil, err
	}

	ids := make(map[uint64]struct{})
	for _, log := range logs {
		id, err := contracts.TopicInt(log, 1)
		if err != nil {
			return nil, err
		}

		if !id.IsUint64() {
			return nil, fmt.Errorf("liquidation id %s out of range", id)
		}
		ids[id.Uint64()] = struct{}{}
	}

	var result []Liquidation
	for id := range ids {
		liq, err := c.Liquidation(ctx, id)
		if err != nil {
			return nil, err
		}

		if liq.Exists() && liq.State == StateActive {
			result = append(result, liq)
		}
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].ID < result[j].ID
	})

	return result, nil
}

// Deposit returns the Ether dollar the liquidator holds for the account.
func (c *Core) Deposit(ctx context.Context, account common.Address) (*big.Int, error) {
	values, err := c.liquidator.Call(ctx, "deposits", account)
	if err != nil {
		return nil, fmt.Errorf("deposit: %w", err)
	}

	return contracts.BigInt(values, 0)
}

// =============================================================================

func (c *Core) existingLiquidation(ctx context.Context, liquidationID uint64) (Liquidation, error) {
	liq, err := c.Liquidation(ctx, liquidationID)
	if err != nil {
		return Liquidation{}, err
	}

	if !liq.Exists() {
		return Liquidation{}, ErrInvalidLiquidationID
	}

	return liq, nil
}
