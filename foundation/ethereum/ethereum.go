// Package ethereum provides the plumbing for talking to an Ethereum node:
// deriving the account for a private key, building and signing transactions
// with a fixed gas configuration, executing read-only calls and reading logs.
package ethereum

import (
	"context"
	"crypto/ecdsa"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"time"

	geth "github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi/bind/v2"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/ethclient"
)

// ErrNoPrivateKey is returned when a transaction is requested from a client
// that was constructed without a private key.
var ErrNoPrivateKey = errors.New("no private key provided")

// RevertedError is returned when a transaction was mined but the contract
// execution failed.
type RevertedError struct {
	Hash common.Hash
}

// Error implements the error interface.
func (re *RevertedError) Error() string {
	return fmt.Sprintf("transaction %s reverted", re.Hash.Hex())
}

// IsReverted checks if an error of type RevertedError exists.
func IsReverted(err error) bool {
	var re *RevertedError
	return errors.As(err, &re)
}

// =============================================================================

// Backend is the set of node behavior the client needs. Both the ethclient
// and the simulated backend satisfy it.
type Backend interface {
	ChainID(ctx context.Context) (*big.Int, error)
	PendingNonceAt(ctx context.Context, account common.Address) (uint64, error)
	SendTransaction(ctx context.Context, tx *types.Transaction) error
	TransactionReceipt(ctx context.Context, txHash common.Hash) (*types.Receipt, error)
	CallContract(ctx context.Context, call geth.CallMsg, blockNumber *big.Int) ([]byte, error)
	FilterLogs(ctx context.Context, q geth.FilterQuery) ([]types.Log, error)
	BalanceAt(ctx context.Context, account common.Address, blockNumber *big.Int) (*big.Int, error)
	CodeAt(ctx context.Context, account common.Address, blockNumber *big.Int) ([]byte, error)
	HeaderByNumber(ctx context.Context, number *big.Int) (*types.Header, error)
}

// EvHandler defines a function that is called when events occur in the
// processing of transactions.
type EvHandler func(v string, args ...any)

// Config represents the configuration required to construct a client.
type Config struct {
	PrivateKey *ecdsa.PrivateKey
	Gas        uint64
	GasPrice   *big.Int
	ChainID    *big.Int
	EvHandler  EvHandler
}

// Client signs and submits transactions and performs calls against a node.
type Client struct {
	backend    Backend
	closer     func()
	privateKey *ecdsa.PrivateKey
	address    common.Address
	chainID    *big.Int
	gas        uint64
	gasPrice   *big.Int
	evHandler  EvHandler
}

// Dial connects to the node at the specified url and constructs a client.
func Dial(ctx context.Context, url string, cfg Config) (*Client, error) {
	ec, err := ethclient.DialContext(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("dial %s: %w", url, err)
	}

	client, err := New(ctx, ec, cfg)
	if err != nil {
		ec.Close()
		return nil, err
	}
	client.closer = ec.Close

	return client, nil
}

// New constructs a client over the specified backend. When no chain id is
// configured the node is asked for it.
func New(ctx context.Context, backend Backend, cfg Config) (*Client, error) {
	ev := cfg.EvHandler
	if ev == nil {
		ev = func(v string, args ...any) {}
	}

	chainID := cfg.ChainID
	if chainID == nil || chainID.Sign() == 0 {
		id, err := backend.ChainID(ctx)
		if err != nil {
			return nil, fmt.Errorf("chain id: %w", err)
		}
		chainID = id
	}

	gasPrice := cfg.GasPrice
	if gasPrice == nil {
		gasPrice = big.NewInt(0)
	}

	client := Client{
		backend:    backend,
		closer:     func() {},
		privateKey: cfg.PrivateKey,
		chainID:    chainID,
		gas:        cfg.Gas,
		gasPrice:   gasPrice,
		evHandler:  ev,
	}

	if cfg.PrivateKey != nil {
		client.address = crypto.PubkeyToAddress(cfg.PrivateKey.PublicKey)
	}

	return &client, nil
}

// Close releases the connection to the node.
func (c *Client) Close() {
	c.closer()
}

// Address returns the account of the private key. The zero address is
// returned when the client has no private key.
func (c *Client) Address() common.Address {
	return c.address
}

// HasPrivateKey reports whether the client is able to sign transactions.
func (c *Client) HasPrivateKey() bool {
	return c.privateKey != nil
}

// ChainID returns the chain id transactions are signed for.
func (c *Client) ChainID() *big.Int {
	return new(big.Int).Set(c.chainID)
}

// Balance returns the ether balance in wei for the specified account.
func (c *Client) Balance(ctx context.Context, account common.Address) (*big.Int, error) {
	return c.backend.BalanceAt(ctx, account, nil)
}

// TransactionCost returns the maximum amount of wei a transaction carrying
// the specified value can cost with the configured gas.
func (c *Client) TransactionCost(value *big.Int) *big.Int {
	cost := new(big.Int).Mul(c.gasPrice, new(big.Int).SetUint64(c.gas))
	if value != nil {
		cost.Add(cost, value)
	}
	return cost
}

// SendTransaction builds a transaction with the configured gas and gas price,
// signs it, submits it and blocks until the receipt is available. A mined
// transaction whose execution failed is reported as a RevertedError along
// with its receipt.
func (c *Client) SendTransaction(ctx context.Context, to common.Address, value *big.Int, data []byte) (*types.Receipt, error) {
	if c.privateKey == nil {
		return nil, ErrNoPrivateKey
	}

	if value == nil {
		value = big.NewInt(0)
	}

	nonce, err := c.backend.PendingNonceAt(ctx, c.address)
	if err != nil {
		return nil, fmt.Errorf("nonce: %w", err)
	}

	tx := types.NewTx(&types.LegacyTx{
		Nonce:    nonce,
		GasPrice: c.gasPrice,
		Gas:      c.gas,
		To:       &to,
		Value:    value,
		Data:     data,
	})

	signedTx, err := types.SignTx(tx, types.LatestSignerForChainID(c.chainID), c.privateKey)
	if err != nil {
		return nil, fmt.Errorf("sign: %w", err)
	}

	c.evHandler("ethereum: send: from[%s] to[%s] nonce[%d] value[%s] hash[%s]", c.address, to, nonce, value, signedTx.Hash())

	if err := c.backend.SendTransaction(ctx, signedTx); err != nil {
		return nil, fmt.Errorf("send: %w", err)
	}

	receipt, err := c.WaitReceipt(ctx, signedTx.Hash())
	if err != nil {
		return nil, err
	}

	if receipt.Status == types.ReceiptStatusFailed {
		return receipt, &RevertedError{Hash: signedTx.Hash()}
	}

	return receipt, nil
}

// SendEther transfers the specified amount of wei to the account.
func (c *Client) SendEther(ctx context.Context, to common.Address, wei *big.Int) (*types.Receipt, error) {
	return c.SendTransaction(ctx, to, wei, nil)
}

// WaitReceipt blocks until the receipt for the transaction exists. Errors
// from the node, such as an index that is still catching up, do not end
// the wait. Only the context bounds it.
func (c *Client) WaitReceipt(ctx context.Context, hash common.Hash) (*types.Receipt, error) {
	receipt, err := bind.WaitMined(ctx, c.backend, hash)
	if err != nil {
		return nil, fmt.Errorf("receipt %s: %w", hash.Hex(), err)
	}

	c.evHandler("ethereum: receipt: hash[%s] block[%s] status[%d]", hash, receipt.BlockNumber, receipt.Status)

	return receipt, nil
}

// BlockTime returns the timestamp of the latest block. Contracts compare
// deadlines against it, not against the local clock.
func (c *Client) BlockTime(ctx context.Context) (time.Time, error) {
	header, err := c.backend.HeaderByNumber(ctx, nil)
	if err != nil {
		return time.Time{}, fmt.Errorf("latest header: %w", err)
	}

	return time.Unix(int64(header.Time), 0).UTC(), nil
}

// Call executes a read-only call against the contract at the specified
// address from the client's account.
func (c *Client) Call(ctx context.Context, to common.Address, data []byte) ([]byte, error) {
	msg := geth.CallMsg{
		From: c.address,
		To:   &to,
		Data: data,
	}

	return c.backend.CallContract(ctx, msg, nil)
}

// Logs returns the logs matching the query. Some providers do not support
// installing filters, so logs are always requested directly. A query
// without a starting block searches from block 1.
func (c *Client) Logs(ctx context.Context, q geth.FilterQuery) ([]types.Log, error) {
	if q.FromBlock == nil {
		q.FromBlock = big.NewInt(1)
	}

	logs, err := c.backend.FilterLogs(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("logs: %w", err)
	}

	c.evHandler("ethereum: logs: addresses[%v] found[%d]", q.Addresses, len(logs))

	return logs, nil
}

// =============================================================================

// PrivateKeyFromHex decodes a hex encoded private key with an optional 0x
// prefix.
func PrivateKeyFromHex(key string) (*ecdsa.PrivateKey, error) {
	key = strings.TrimPrefix(strings.TrimSpace(key), "0x")

	privateKey, err := crypto.HexToECDSA(key)
	if err != nil {
		return nil, fmt.Errorf("invalid private key: %w", err)
	}

	return privateKey, nil
}

// AddressFromHex returns the checksum account for the hex encoded private key.
func AddressFromHex(key string) (common.Address, error) {
	privateKey, err := PrivateKeyFromHex(key)
	if err != nil {
		return common.Address{}, err
	}

	return crypto.PubkeyToAddress(privateKey.PublicKey), nil
}

// ParseAddress validates and converts a hex string into an address.
func ParseAddress(s string) (common.Address, error) {
	s = strings.TrimSpace(s)
	if !common.IsHexAddress(s) {
		return common.Address{}, fmt.Errorf("%q is not an address", s)
	}

	return common.HexToAddress(s), nil
}
