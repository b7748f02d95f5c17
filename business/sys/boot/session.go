package boot

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/ardanlabs/erc20bank/business/contracts"
	"github.com/ardanlabs/erc20bank/business/core/bank"
	"github.com/ardanlabs/erc20bank/business/sys/addressbook"
	"github.com/ardanlabs/erc20bank/foundation/ethereum"
	"github.com/ethereum/go-ethereum/common"
	"go.uber.org/zap"
)

// ErrContractAddress is returned when the contract addresses could not be
// resolved from the bank named by ERC20BANK_CONTRACTADDRESS.
var ErrContractAddress = errors.New("resolving " + EnvContractAddress)

// Session is the client context every command works with: the node
// connection, the signing account and the contract address book.
type Session struct {
	Log        *zap.SugaredLogger
	Config     Config
	Out        io.Writer
	PrivateKey string

	client *ethereum.Client
	book   addressbook.Book
}

// NewSession constructs a session that is not connected yet.
func NewSession(log *zap.SugaredLogger, cfg Config, out io.Writer) *Session {
	return &Session{
		Log:    log,
		Config: cfg,
		Out:    out,
	}
}

// Connect dials the node and resolves the address book. A private key set
// on the session takes precedence over ERC20BANK_PRIVATEKEY. Connecting an
// already connected session does nothing.
func (s *Session) Connect(ctx context.Context) error {
	if err := s.dial(ctx); err != nil {
		return err
	}

	if s.book.Validate() == nil {
		return nil
	}

	bankAddr, fromEnv := s.bankAddress()
	collateral := s.parseAddress(s.Config.CollateralAddress)

	book, err := addressbook.Resolve(ctx, s.Config.AddressBook, bankAddr, collateral, s.lookup(s.client))
	if err != nil {
		if fromEnv {
			return fmt.Errorf("%w: %w", ErrContractAddress, err)
		}
		return err
	}
	s.book = book

	return nil
}

// Refresh resolves the contract addresses from the bank again and rewrites
// the address book. The current file is only consulted for addresses the
// configuration leaves out, so a book that no longer decodes is replaced.
func (s *Session) Refresh(ctx context.Context) (addressbook.Book, error) {
	if err := s.dial(ctx); err != nil {
		return addressbook.Book{}, err
	}

	current := s.book
	if current.Bank == (common.Address{}) {
		book, err := addressbook.Load(s.Config.AddressBook)
		if err != nil {
			s.Log.Warnw("refresh", "path", s.Config.AddressBook, "ERROR", err)
		}
		current = book
	}

	bankAddr, fromEnv := s.bankAddress()
	if bankAddr == (common.Address{}) {
		bankAddr = current.Bank
	}

	collateral := s.parseAddress(s.Config.CollateralAddress)
	if collateral == (common.Address{}) {
		collateral = current.Collateral
	}

	book, err := addressbook.Refresh(ctx, s.Config.AddressBook, bankAddr, collateral, s.lookup(s.client))
	if err != nil {
		if fromEnv {
			return addressbook.Book{}, fmt.Errorf("%w: %w", ErrContractAddress, err)
		}
		return addressbook.Book{}, err
	}
	s.book = book

	return book, nil
}

// Close releases the node connection.
func (s *Session) Close() {
	if s.client != nil {
		s.client.Close()
	}
}

// Client returns the node client of a connected session.
func (s *Session) Client() *ethereum.Client {
	return s.client
}

// Book returns the address book of a connected session.
func (s *Session) Book() addressbook.Book {
	return s.book
}

// RequireKey checks the session signs with a private key.
func (s *Session) RequireKey() error {
	if s.client == nil || !s.client.HasPrivateKey() {
		return ethereum.ErrNoPrivateKey
	}
	return nil
}

// Binding returns the contract deployed for the role.
func (s *Session) Binding(role contracts.Role) (contracts.Binding, error) {
	if s.client == nil {
		return nil, errors.New("session is not connected")
	}

	addr := s.book.Get(role)
	if addr == (common.Address{}) {
		return nil, fmt.Errorf("no address for %s", role)
	}

	a, err := contracts.ABI(role)
	if err != nil {
		return nil, err
	}

	return ethereum.NewContract(s.client, addr, a), nil
}

// Progress reports a step of a multi transaction command to the user.
func (s *Session) Progress(v string, args ...any) {
	msg := fmt.Sprintf(v, args...)
	s.Log.Infow("progress", "msg", msg)
	fmt.Fprintln(s.Out, msg)
}

// =============================================================================

// dial constructs the node client once per session.
func (s *Session) dial(ctx context.Context) error {
	if s.client != nil {
		return nil
	}

	ethCfg := ethereum.Config{
		Gas:       s.Config.Gas,
		GasPrice:  s.Config.gasPrice(),
		ChainID:   s.Config.chainID(),
		EvHandler: s.logEvent,
	}

	key := s.PrivateKey
	if key == "" {
		key = s.Config.PrivateKey
	}

	if key != "" {
		pk, err := ethereum.PrivateKeyFromHex(key)
		if err != nil {
			return err
		}
		ethCfg.PrivateKey = pk
	}

	s.Log.Infow("connect", "rpc", s.Config.RPC.URL)

	client, err := ethereum.Dial(ctx, s.Config.RPC.URL, ethCfg)
	if err != nil {
		return err
	}
	s.client = client

	s.Log.Infow("connect", "chainid", client.ChainID(), "account", client.Address())

	return nil
}

func (s *Session) logEvent(v string, args ...any) {
	s.Log.Debugw("ethereum", "msg", fmt.Sprintf(v, args...))
}

func (s *Session) bankAddress() (common.Address, bool) {
	if s.Config.ContractAddress != "" {
		return s.parseAddress(s.Config.ContractAddress), true
	}
	return s.parseAddress(s.Config.BankAddress), false
}

func (s *Session) parseAddress(hex string) common.Address {
	if hex == "" {
		return common.Address{}
	}

	addr, err := ethereum.ParseAddress(hex)
	if err != nil {
		s.Log.Warnw("address", "value", hex, "ERROR", err)
		return common.Address{}
	}

	return addr
}

func (s *Session) lookup(client *ethereum.Client) addressbook.Lookup {
	return func(ctx context.Context, bankAddr common.Address) (addressbook.Book, error) {
		a, err := contracts.ABI(contracts.Bank)
		if err != nil {
			return addressbook.Book{}, err
		}

		return bank.Addresses(ctx, ethereum.NewContract(client, bankAddr, a))
	}
}
