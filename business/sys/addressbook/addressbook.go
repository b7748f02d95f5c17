// Package addressbook maintains the file that maps each contract role to
// its deployed address. The file is written the first time the addresses
// are resolved from the bank contract and reused by every later run.
package addressbook

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/ardanlabs/erc20bank/business/contracts"
	"github.com/ethereum/go-ethereum/common"
)

// DefaultPath is where the address book lives unless configured otherwise.
const DefaultPath = "~/.erc20bank.json"

// Book holds the deployed address of every contract role.
type Book struct {
	Bank        common.Address
	Oracles     common.Address
	Liquidator  common.Address
	EtherDollar common.Address
	Collateral  common.Address
}

// Get returns the address for the role.
func (b Book) Get(role contracts.Role) common.Address {
	switch role {
	case contracts.Bank:
		return b.Bank
	case contracts.Oracles:
		return b.Oracles
	case contracts.Liquidator:
		return b.Liquidator
	case contracts.EtherDollar:
		return b.EtherDollar
	case contracts.Collateral:
		return b.Collateral
	}
	return common.Address{}
}

// Set assigns the address for the role.
func (b *Book) Set(role contracts.Role, addr common.Address) error {
	switch role {
	case contracts.Bank:
		b.Bank = addr
	case contracts.Oracles:
		b.Oracles = addr
	case contracts.Liquidator:
		b.Liquidator = addr
	case contracts.EtherDollar:
		b.EtherDollar = addr
	case contracts.Collateral:
		b.Collateral = addr
	default:
		return fmt.Errorf("unknown contract role %q", role)
	}
	return nil
}

// Validate checks every role has an address.
func (b Book) Validate() error {
	var missing []string
	for _, role := range contracts.Roles {
		if b.Get(role) == (common.Address{}) {
			missing = append(missing, string(role))
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("address book missing %s", strings.Join(missing, ", "))
	}

	return nil
}

// MarshalJSON writes the book keyed by role with checksum addresses.
func (b Book) MarshalJSON() ([]byte, error) {
	m := make(map[contracts.Role]string, len(contracts.Roles))
	for _, role := range contracts.Roles {
		m[role] = b.Get(role).Hex()
	}
	return json.Marshal(m)
}

// UnmarshalJSON reads a book keyed by role. Unknown roles are ignored.
func (b *Book) UnmarshalJSON(data []byte) error {
	var m map[contracts.Role]string
	if err := json.Unmarshal(data, &m); err != nil {
		return err
	}

	for _, role := range contracts.Roles {
		s, exists := m[role]
		if !exists {
			continue
		}

		if !common.IsHexAddress(s) {
			return fmt.Errorf("role %s: %q is not an address", role, s)
		}
		b.Set(role, common.HexToAddress(s))
	}

	return nil
}

// =============================================================================

// Lookup asks the bank deployed at the specified address for the addresses
// of the contracts it works with.
type Lookup func(ctx context.Context, bank common.Address) (Book, error)

// Load reads the address book at the specified path.
func Load(path string) (Book, error) {
	path, err := Expand(path)
	if err != nil {
		return Book{}, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return Book{}, fmt.Errorf("reading address book: %w", err)
	}

	var book Book
	if err := json.Unmarshal(data, &book); err != nil {
		return Book{}, fmt.Errorf("decoding address book %s: %w", path, err)
	}

	return book, nil
}

// Save writes the address book to the specified path.
func Save(path string, book Book) error {
	path, err := Expand(path)
	if err != nil {
		return err
	}

	data, err := json.MarshalIndent(book, "", "  ")
	if err != nil {
		return err
	}

	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("writing address book: %w", err)
	}

	return nil
}

// Resolve returns the address book at the specified path. When the file
// does not exist the addresses are looked up from the bank and the file is
// written for the next run.
func Resolve(ctx context.Context, path string, bank common.Address, collateral common.Address, lookup Lookup) (Book, error) {
	book, err := Load(path)
	switch {
	case err == nil:
		return book, book.Validate()

	case !errors.Is(err, fs.ErrNotExist):
		return Book{}, err
	}

	return Refresh(ctx, path, bank, collateral, lookup)
}

// Refresh looks the addresses up from the bank and overwrites the file at
// the specified path.
func Refresh(ctx context.Context, path string, bank common.Address, collateral common.Address, lookup Lookup) (Book, error) {
	if bank == (common.Address{}) {
		return Book{}, errors.New("no bank address configured")
	}

	book, err := lookup(ctx, bank)
	if err != nil {
		return Book{}, fmt.Errorf("looking up contract addresses: %w", err)
	}
	book.Bank = bank
	book.Collateral = collateral

	if err := book.Validate(); err != nil {
		return Book{}, err
	}

	if err := Save(path, book); err != nil {
		return Book{}, err
	}

	return book, nil
}

// Expand replaces a leading ~ with the home directory of the user.
func Expand(path string) (string, error) {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path, nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("home directory: %w", err)
	}

	return filepath.Join(home, strings.TrimPrefix(path, "~")), nil
}
