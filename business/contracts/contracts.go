// Package contracts holds the ABIs of the contracts the clients work with
// and the roles they are known by in the address book.
package contracts

import (
	"bytes"
	"embed"
	"fmt"
	"sync"

	"github.com/ethereum/go-ethereum/accounts/abi"
)

//go:embed abi/*.json
var files embed.FS

// Role names a contract of the system. The values match the keys of the
// address book file.
type Role string

// Set of known roles.
const (
	Bank        Role = "erc20bank"
	Oracles     Role = "oracles"
	Liquidator  Role = "liquidator"
	EtherDollar Role = "etherdollar"
	Collateral  Role = "collateral"
)

// Roles lists every role in a stable order.
var Roles = []Role{Bank, Oracles, Liquidator, EtherDollar, Collateral}

// abiFile maps each role to the ABI it is deployed with. Both tokens are
// plain ERC-20 contracts.
var abiFile = map[Role]string{
	Bank:        "abi/erc20bank.json",
	Oracles:     "abi/oracles.json",
	Liquidator:  "abi/liquidator.json",
	EtherDollar: "abi/erc20.json",
	Collateral:  "abi/erc20.json",
}

var (
	mu     sync.Mutex
	parsed = make(map[Role]abi.ABI)
)

// ABI returns the parsed ABI for the role. Parsing happens once per role.
func ABI(role Role) (abi.ABI, error) {
	mu.Lock()
	defer mu.Unlock()

	if a, exists := parsed[role]; exists {
		return a, nil
	}

	name, exists := abiFile[role]
	if !exists {
		return abi.ABI{}, fmt.Errorf("unknown contract role %q", role)
	}

	data, err := files.ReadFile(name)
	if err != nil {
		return abi.ABI{}, fmt.Errorf("reading abi %s: %w", name, err)
	}

	a, err := abi.JSON(bytes.NewReader(data))
	if err != nil {
		return abi.ABI{}, fmt.Errorf("parsing abi %s: %w", name, err)
	}
	parsed[role] = a

	return a, nil
}
