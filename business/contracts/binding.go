package contracts

import (
	"context"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
)

// Binding represents the behavior required to work with a deployed
// contract by method name. The ethereum.Contract type implements it.
type Binding interface {
	Address() common.Address
	Call(ctx context.Context, method string, args ...any) ([]any, error)
	Transact(ctx context.Context, value *big.Int, method string, args ...any) (*types.Receipt, error)
	Logs(ctx context.Context, event string, query ...[]any) ([]types.Log, error)
}

// Token provides the ERC-20 calls the clients need on top of a binding.
type Token struct {
	Binding
}

// BalanceOf returns the token balance of the account in base units.
func (t Token) BalanceOf(ctx context.Context, account common.Address) (*big.Int, error) {
	values, err := t.Call(ctx, "balanceOf", account)
	if err != nil {
		return nil, err
	}
	return BigInt(values, 0)
}

// Allowance returns how much the spender may transfer from the owner.
func (t Token) Allowance(ctx context.Context, owner common.Address, spender common.Address) (*big.Int, error) {
	values, err := t.Call(ctx, "allowance", owner, spender)
	if err != nil {
		return nil, err
	}
	return BigInt(values, 0)
}

// Approve allows the spender to transfer the amount from the signer.
func (t Token) Approve(ctx context.Context, spender common.Address, amount *big.Int) (*types.Receipt, error) {
	return t.Transact(ctx, nil, "approve", spender, amount)
}

// =============================================================================

// BigInt extracts the unsigned integer output at the specified position.
func BigInt(values []any, i int) (*big.Int, error) {
	if i >= len(values) {
		return nil, fmt.Errorf("output %d missing, got %d outputs", i, len(values))
	}

	v, ok := values[i].(*big.Int)
	if !ok {
		return nil, fmt.Errorf("output %d is %T, not an integer", i, values[i])
	}

	return v, nil
}

// Address extracts the address output at the specified position.
func Address(values []any, i int) (common.Address, error) {
	if i >= len(values) {
		return common.Address{}, fmt.Errorf("output %d missing, got %d outputs", i, len(values))
	}

	v, ok := values[i].(common.Address)
	if !ok {
		return common.Address{}, fmt.Errorf("output %d is %T, not an address", i, values[i])
	}

	return v, nil
}

// Uint8 extracts the small integer output at the specified position. Enum
// values are returned this way.
func Uint8(values []any, i int) (uint8, error) {
	if i >= len(values) {
		return 0, fmt.Errorf("output %d missing, got %d outputs", i, len(values))
	}

	v, ok := values[i].(uint8)
	if !ok {
		return 0, fmt.Errorf("output %d is %T, not a uint8", i, values[i])
	}

	return v, nil
}

// TopicInt decodes the indexed integer argument at the specified topic
// position of a log. Position 0 holds the event id.
func TopicInt(log types.Log, i int) (*big.Int, error) {
	if i >= len(log.Topics) {
		return nil, fmt.Errorf("log %s has %d topics, need %d", log.TxHash.Hex(), len(log.Topics), i+1)
	}

	return new(big.Int).SetBytes(log.Topics[i].Bytes()), nil
}
