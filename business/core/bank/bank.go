// Package bank provides the client side of the Ether dollar bank: reading
// loans and system variables, and submitting the loan life cycle
// transactions after checking them the way the contract will.
package bank

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"sort"

	"github.com/ardanlabs/erc20bank/business/contracts"
	"github.com/ardanlabs/erc20bank/business/sys/addressbook"
	"github.com/ardanlabs/erc20bank/foundation/units"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
)

// Wallet represents the ether account transactions are signed with.
type Wallet interface {
	Address() common.Address
	Balance(ctx context.Context, account common.Address) (*big.Int, error)
	TransactionCost(value *big.Int) *big.Int
	SendEther(ctx context.Context, to common.Address, wei *big.Int) (*types.Receipt, error)
}

// EvHandler defines a function that is called to report progress.
type EvHandler func(v string, args ...any)

// Config represents the systems the core needs.
type Config struct {
	Wallet         Wallet
	Bank           contracts.Binding
	EtherDollar    contracts.Binding
	Collateral     contracts.Binding
	DollarDecimals int32
	EvHandler      EvHandler
}

// Core manages the set of operations against the bank.
type Core struct {
	wallet      Wallet
	bank        contracts.Binding
	etherDollar contracts.Token
	collateral  contracts.Token
	decimals    int32
	ev          EvHandler
}

// NewCore constructs a bank core for use.
func NewCore(cfg Config) *Core {
	ev := cfg.EvHandler
	if ev == nil {
		ev = func(v string, args ...any) {}
	}

	return &Core{
		wallet:      cfg.Wallet,
		bank:        cfg.Bank,
		etherDollar: contracts.Token{Binding: cfg.EtherDollar},
		collateral:  contracts.Token{Binding: cfg.Collateral},
		decimals:    cfg.DollarDecimals,
		ev:          ev,
	}
}

// DollarDecimals returns the number of decimals of the Ether dollar.
func (c *Core) DollarDecimals() int32 {
	return c.decimals
}

// =============================================================================
// Transactions

// SendEther transfers ether to the bank.
func (c *Core) SendEther(ctx context.Context, wei *big.Int) (*types.Receipt, error) {
	if err := units.Positive(wei); err != nil {
		return nil, fmt.Errorf("ether %w", err)
	}

	balance, err := c.wallet.Balance(ctx, c.wallet.Address())
	if err != nil {
		return nil, fmt.Errorf("ether balance: %w", err)
	}

	if balance.Cmp(c.wallet.TransactionCost(wei)) < 0 {
		return nil, ErrInsufficientEther
	}

	return c.wallet.SendEther(ctx, c.bank.Address(), wei)
}

// GetLoan deposits the collateral and borrows the amount of Ether dollar.
func (c *Core) GetLoan(ctx context.Context, collateral *big.Int, amount *big.Int) (*types.Receipt, error) {
	if err := units.Positive(collateral); err != nil {
		return nil, fmt.Errorf("collateral %w", err)
	}

	if err := units.NonNegative(amount); err != nil {
		return nil, fmt.Errorf("dollar %w", err)
	}

	v, err := c.Variables(ctx)
	if err != nil {
		return nil, err
	}

	if err := CheckLoanRequest(collateral, amount, c.decimals, v); err != nil {
		return nil, err
	}

	if err := c.approveCollateral(ctx, collateral); err != nil {
		return nil, err
	}

	return c.bank.Transact(ctx, nil, "getLoan", amount)
}

// IncreaseCollateral deposits more collateral for the loan.
func (c *Core) IncreaseCollateral(ctx context.Context, loanID uint64, collateral *big.Int) (*types.Receipt, error) {
	if err := units.Positive(collateral); err != nil {
		return nil, fmt.Errorf("collateral %w", err)
	}

	if _, err := c.existingLoan(ctx, loanID); err != nil {
		return nil, err
	}

	if err := c.approveCollateral(ctx, collateral); err != nil {
		return nil, err
	}

	return c.bank.Transact(ctx, nil, "increaseCollateral", new(big.Int).SetUint64(loanID))
}

// DecreaseCollateral withdraws collateral from the loan. A nil amount is
// accepted for a repaid loan, whose collateral is withdrawn in full.
func (c *Core) DecreaseCollateral(ctx context.Context, loanID uint64, collateral *big.Int) (*types.Receipt, error) {
	loan, err := c.existingLoan(ctx, loanID)
	if err != nil {
		return nil, err
	}

	v, err := c.Variables(ctx)
	if err != nil {
		return nil, err
	}

	amount, err := CheckDecrease(loan, collateral, c.decimals, v)
	switch {
	case errors.Is(err, units.ErrNotPositive):
		return nil, fmt.Errorf("collateral %w", err)
	case err != nil:
		return nil, err
	}

	return c.bank.Transact(ctx, nil, "decreaseCollateral", new(big.Int).SetUint64(loanID), amount)
}

// SettleLoan pays back the amount of Ether dollar for the loan.
func (c *Core) SettleLoan(ctx context.Context, loanID uint64, amount *big.Int) (*types.Receipt, error) {
	if err := units.NonNegative(amount); err != nil {
		return nil, fmt.Errorf("dollar %w", err)
	}

	balance, err := c.Balance(ctx, c.wallet.Address())
	if err != nil {
		return nil, err
	}

	loan, err := c.existingLoan(ctx, loanID)
	if err != nil {
		return nil, err
	}

	if err := CheckSettle(balance, loan, amount); err != nil {
		return nil, err
	}

	c.ev("Approving %s dollars transfer from your account by the contract", units.Format(amount, c.decimals))
	if _, err := c.etherDollar.Approve(ctx, c.bank.Address(), amount); err != nil {
		return nil, fmt.Errorf("approve dollar: %w", err)
	}

	c.ev("Settle loan")
	return c.bank.Transact(ctx, nil, "settleLoan", new(big.Int).SetUint64(loanID), amount)
}

// Liquidate starts the liquidation of an under collateralized loan.
func (c *Core) Liquidate(ctx context.Context, loanID uint64) (*types.Receipt, error) {
	v, err := c.Variables(ctx)
	if err != nil {
		return nil, err
	}

	loan, err := c.existingLoan(ctx, loanID)
	if err != nil {
		return nil, err
	}

	if err := CheckLiquidate(loan, c.decimals, v); err != nil {
		return nil, err
	}

	return c.bank.Transact(ctx, nil, "liquidate", new(big.Int).SetUint64(loanID))
}

// =============================================================================
// Queries

// Variables returns the current system variables.
func (c *Core) Variables(ctx context.Context) (Variables, error) {
	ratio, err := c.readUint(ctx, "collateralRatio")
	if err != nil {
		return Variables{}, err
	}

	price, err := c.readUint(ctx, "collateralPrice")
	if err != nil {
		return Variables{}, err
	}

	duration, err := c.readUint(ctx, "liquidationDuration")
	if err != nil {
		return Variables{}, err
	}

	v := Variables{
		CollateralRatio:     ratio,
		CollateralPrice:     price,
		LiquidationDuration: duration,
	}

	return v, nil
}

// Loan returns the loan for the specified id. Unknown ids return a loan
// that does not exist.
func (c *Core) Loan(ctx context.Context, loanID uint64) (Loan, error) {
	values, err := c.bank.Call(ctx, "loans", new(big.Int).SetUint64(loanID))
	if err != nil {
		return Loan{}, fmt.Errorf("loan %d: %w", loanID, err)
	}

	recipient, err := contracts.Address(values, 0)
	if err != nil {
		return Loan{}, fmt.Errorf("loan %d: %w", loanID, err)
	}

	collateral, err := contracts.BigInt(values, 1)
	if err != nil {
		return Loan{}, fmt.Errorf("loan %d: %w", loanID, err)
	}

	amount, err := contracts.BigInt(values, 2)
	if err != nil {
		return Loan{}, fmt.Errorf("loan %d: %w", loanID, err)
	}

	state, err := contracts.Uint8(values, 3)
	if err != nil {
		return Loan{}, fmt.Errorf("loan %d: %w", loanID, err)
	}

	loan := Loan{
		ID:         loanID,
		Recipient:  recipient,
		Collateral: collateral,
		Amount:     amount,
		State:      State(state),
	}

	return loan, nil
}

// Loans returns the loans the bank issued, sorted by id. A non-nil
// recipient limits the result to that account's loans.
func (c *Core) Loans(ctx context.Context, recipient *common.Address) ([]Loan, error) {
	var query [][]any
	if recipient != nil {
		query = append(query, []any{*recipient})
	}

	logs, err := c.bank.Logs(ctx, "LoanGot", query...)
	if err != nil {
		return nil, err
	}

	ids := make(map[uint64]struct{})
	for _, log := range logs {
		id, err := contracts.TopicInt(log, 2)
		if err != nil {
			return nil, err
		}

		if !id.IsUint64() {
			return nil, fmt.Errorf("loan id %s out of range", id)
		}
		ids[id.Uint64()] = struct{}{}
	}

	loans := make([]Loan, 0, len(ids))
	for id := range ids {
		loan, err := c.Loan(ctx, id)
		if err != nil {
			return nil, err
		}
		loans = append(loans, loan)
	}

	sort.Slice(loans, func(i, j int) bool {
		return loans[i].ID < loans[j].ID
	})

	return loans, nil
}

// LiquidatableLoans returns the active loans whose collateral no longer
// covers them.
func (c *Core) LiquidatableLoans(ctx context.Context) ([]Loan, error) {
	v, err := c.Variables(ctx)
	if err != nil {
		return nil, err
	}

	loans, err := c.Loans(ctx, nil)
	if err != nil {
		return nil, err
	}

	var result []Loan
	for _, loan := range loans {
		if Liquidatable(loan, c.decimals, v) {
			result = append(result, loan)
		}
	}

	return result, nil
}

// MinCollateral returns the collateral in wei the bank requires for a loan
// of the amount.
func (c *Core) MinCollateral(ctx context.Context, amount *big.Int) (*big.Int, error) {
	if err := units.NonNegative(amount); err != nil {
		return nil, fmt.Errorf("dollar %w", err)
	}

	values, err := c.bank.Call(ctx, "minCollateral", amount)
	if err != nil {
		return nil, err
	}

	return contracts.BigInt(values, 0)
}

// Balance returns the Ether dollar balance of the account.
func (c *Core) Balance(ctx context.Context, account common.Address) (*big.Int, error) {
	bal, err := c.etherDollar.BalanceOf(ctx, account)
	if err != nil {
		return nil, fmt.Errorf("dollar balance: %w", err)
	}
	return bal, nil
}

// Allowance returns the Ether dollar the spender may transfer from the owner.
func (c *Core) Allowance(ctx context.Context, owner common.Address, spender common.Address) (*big.Int, error) {
	allowance, err := c.etherDollar.Allowance(ctx, owner, spender)
	if err != nil {
		return nil, fmt.Errorf("dollar allowance: %w", err)
	}
	return allowance, nil
}

// Account returns the account transactions are signed with.
func (c *Core) Account() common.Address {
	return c.wallet.Address()
}

// =============================================================================

// Addresses asks the bank for the addresses of the contracts it works with.
// The bank and collateral roles are left for the caller to fill in.
func Addresses(ctx context.Context, bank contracts.Binding) (addressbook.Book, error) {
	var book addressbook.Book

	roles := []struct {
		role   contracts.Role
		method string
	}{
		{contracts.Oracles, "oraclesAddr"},
		{contracts.Liquidator, "liquidatorAddr"},
		{contracts.EtherDollar, "etherDollarAddr"},
	}

	for _, r := range roles {
		values, err := bank.Call(ctx, r.method)
		if err != nil {
			return addressbook.Book{}, err
		}

		addr, err := contracts.Address(values, 0)
		if err != nil {
			return addressbook.Book{}, fmt.Errorf("%s: %w", r.method, err)
		}
		if err := book.Set(r.role, addr); err != nil {
			return addressbook.Book{}, err
		}
	}

	return book, nil
}

// =============================================================================

func (c *Core) readUint(ctx context.Context, method string) (*big.Int, error) {
	values, err := c.bank.Call(ctx, method)
	if err != nil {
		return nil, err
	}

	v, err := contracts.BigInt(values, 0)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", method, err)
	}

	return v, nil
}

func (c *Core) existingLoan(ctx context.Context, loanID uint64) (Loan, error) {
	loan, err := c.Loan(ctx, loanID)
	if err != nil {
		return Loan{}, err
	}

	if !loan.Exists() {
		return Loan{}, ErrInvalidLoanID
	}

	return loan, nil
}

func (c *Core) approveCollateral(ctx context.Context, collateral *big.Int) error {
	c.ev("Approving %s collateral transfer from your account by the contract", units.FormatEther(collateral))

	if _, err := c.collateral.Approve(ctx, c.bank.Address(), collateral); err != nil {
		return fmt.Errorf("approve collateral: %w", err)
	}

	return nil
}
