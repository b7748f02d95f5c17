package ethereum

import (
	"context"
	"fmt"
	"math/big"

	geth "github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
)

// Contract binds an ABI to a deployed address so methods can be called and
// transacted by name.
type Contract struct {
	client  *Client
	address common.Address
	abi     abi.ABI
}

// NewContract constructs a contract binding for use.
func NewContract(client *Client, address common.Address, contractABI abi.ABI) *Contract {
	return &Contract{
		client:  client,
		address: address,
		abi:     contractABI,
	}
}

// Address returns the address the contract is deployed at.
func (c *Contract) Address() common.Address {
	return c.address
}

// Call executes the read-only method and returns the unpacked outputs in
// the order the ABI declares them.
func (c *Contract) Call(ctx context.Context, method string, args ...any) ([]any, error) {
	data, err := c.abi.Pack(method, args...)
	if err != nil {
		return nil, fmt.Errorf("pack %s: %w", method, err)
	}

	output, err := c.client.Call(ctx, c.address, data)
	if err != nil {
		return nil, fmt.Errorf("call %s: %w", method, err)
	}

	values, err := c.abi.Unpack(method, output)
	if err != nil {
		return nil, fmt.Errorf("unpack %s: %w", method, err)
	}

	return values, nil
}

// Transact signs and submits a transaction invoking the method and waits
// for its receipt.
func (c *Contract) Transact(ctx context.Context, value *big.Int, method string, args ...any) (*types.Receipt, error) {
	data, err := c.abi.Pack(method, args...)
	if err != nil {
		return nil, fmt.Errorf("pack %s: %w", method, err)
	}

	return c.client.SendTransaction(ctx, c.address, value, data)
}

// Logs returns every log of the named event emitted by the contract since
// block 1. The query values filter the indexed arguments in declaration
// order, a nil entry matching anything.
func (c *Contract) Logs(ctx context.Context, event string, query ...[]any) ([]types.Log, error) {
	ev, exists := c.abi.Events[event]
	if !exists {
		return nil, fmt.Errorf("event %q not found in abi", event)
	}

	topics, err := abi.MakeTopics(query...)
	if err != nil {
		return nil, fmt.Errorf("topics %s: %w", event, err)
	}

	q := geth.FilterQuery{
		Addresses: []common.Address{c.address},
		Topics:    append([][]common.Hash{{ev.ID}}, topics...),
	}

	return c.client.Logs(ctx, q)
}
