// Package contractstest provides an in-memory stand-in for deployed
// contracts so the core packages can be tested without a node.
package contractstest

import (
	"context"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
)

// Tx records a transaction submitted to a binding.
type Tx struct {
	Contract string
	Method   string
	Value    *big.Int
	Args     []any
}

// Chain records the transactions of every binding it creates in the order
// they were submitted.
type Chain struct {
	Txs []Tx
}

// Bind constructs a binding that records into the chain.
func (c *Chain) Bind(name string, addr common.Address) *Binding {
	return &Binding{
		name:   name,
		addr:   addr,
		chain:  c,
		views:  make(map[string]func(args ...any) ([]any, error)),
		events: make(map[string][]types.Log),
		fail:   make(map[string]error),
	}
}

// Methods returns the contract.method names of the recorded transactions.
func (c *Chain) Methods() []string {
	names := make([]string, len(c.Txs))
	for i, tx := range c.Txs {
		names[i] = tx.Contract + "." + tx.Method
	}
	return names
}

// =============================================================================

// Binding implements contracts.Binding over canned responses.
type Binding struct {
	name   string
	addr   common.Address
	chain  *Chain
	views  map[string]func(args ...any) ([]any, error)
	events map[string][]types.Log
	fail   map[string]error
}

// OnCall registers the response for a view method.
func (b *Binding) OnCall(method string, fn func(args ...any) ([]any, error)) *Binding {
	b.views[method] = fn
	return b
}

// Returns registers fixed outputs for a view method.
func (b *Binding) Returns(method string, values ...any) *Binding {
	return b.OnCall(method, func(args ...any) ([]any, error) {
		return values, nil
	})
}

// Emit adds a log for the named event with the specified indexed topics.
func (b *Binding) Emit(event string, topics ...common.Hash) *Binding {
	log := types.Log{
		Address: b.addr,
		Topics:  append([]common.Hash{crypto.Keccak256Hash([]byte(event))}, topics...),
	}
	b.events[event] = append(b.events[event], log)
	return b
}

// FailTransact makes transactions of the method return the error.
func (b *Binding) FailTransact(method string, err error) *Binding {
	b.fail[method] = err
	return b
}

// Address implements contracts.Binding.
func (b *Binding) Address() common.Address {
	return b.addr
}

// Call implements contracts.Binding.
func (b *Binding) Call(ctx context.Context, method string, args ...any) ([]any, error) {
	fn, exists := b.views[method]
	if !exists {
		return nil, fmt.Errorf("%s: no response registered for %s", b.name, method)
	}
	return fn(args...)
}

// Transact implements contracts.Binding.
func (b *Binding) Transact(ctx context.Context, value *big.Int, method string, args ...any) (*types.Receipt, error) {
	if err, exists := b.fail[method]; exists {
		return nil, err
	}

	b.chain.Txs = append(b.chain.Txs, Tx{
		Contract: b.name,
		Method:   method,
		Value:    value,
		Args:     args,
	})

	receipt := types.Receipt{
		Status: types.ReceiptStatusSuccessful,
		TxHash: crypto.Keccak256Hash([]byte(fmt.Sprintf("%s.%s.%d", b.name, method, len(b.chain.Txs)))),
	}

	return &receipt, nil
}

// Logs implements contracts.Binding. Only the event name keys the logs,
// the indexed query is matched against the recorded topics.
func (b *Binding) Logs(ctx context.Context, event string, query ...[]any) ([]types.Log, error) {
	topics, err := abi.MakeTopics(query...)
	if err != nil {
		return nil, err
	}

	var logs []types.Log
	for _, log := range b.events[event] {
		if match(log, topics) {
			logs = append(logs, log)
		}
	}

	return logs, nil
}

func match(log types.Log, topics [][]common.Hash) bool {
	for i, want := range topics {
		if len(want) == 0 {
			continue
		}

		if i+1 >= len(log.Topics) {
			return false
		}

		found := false
		for _, h := range want {
			if log.Topics[i+1] == h {
				found = true
				break
			}
		}

		if !found {
			return false
		}
	}

	return true
}

// =============================================================================

// AddressTopic encodes an address as an indexed topic.
func AddressTopic(addr common.Address) common.Hash {
	return common.BytesToHash(addr.Bytes())
}

// IntTopic encodes an integer as an indexed topic.
func IntTopic(v int64) common.Hash {
	return common.BigToHash(big.NewInt(v))
}
