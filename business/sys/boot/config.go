// Package boot provides the configuration and session support shared by the
// command line clients.
package boot

import (
	"errors"
	"fmt"
	"io/fs"
	"math/big"
	"os"

	"github.com/ardanlabs/conf/v3"
	"github.com/joho/godotenv"
)

// Prefix is the prefix of every environment variable the clients read.
const Prefix = "ERC20BANK"

// Environment variables kept under the names users already export.
const (
	EnvPrivateKey      = Prefix + "_PRIVATEKEY"
	EnvContractAddress = Prefix + "_CONTRACTADDRESS"
)

// Config represents the configuration of the clients.
type Config struct {
	conf.Version
	RPC struct {
		URL string `conf:"default:http://localhost:8545"`
	}
	Gas               uint64 `conf:"default:300000"`
	GasPrice          uint64 `conf:"default:20000000000"`
	ChainID           int64  `conf:"default:0"`
	BankAddress       string
	CollateralAddress string
	AddressBook       string `conf:"default:~/.erc20bank.json"`
	DollarDecimals    int32  `conf:"default:2"`
	LogLevel          string `conf:"default:warn"`
	PrivateKey        string `conf:"-"`
	ContractAddress   string `conf:"-"`
}

// LoadConfig reads the .env files of the working directory and then the
// environment. Values in .env.local take precedence over .env.
func LoadConfig(build string, desc string) (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("loading .env: %w", err)
	}

	if err := godotenv.Overload(".env.local"); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("loading .env.local: %w", err)
	}

	cfg := Config{
		Version: conf.Version{
			Build: build,
			Desc:  desc,
		},
	}

	// cobra owns the command line.
	args := os.Args
	os.Args = os.Args[:1]
	defer func() { os.Args = args }()

	if _, err := conf.Parse(Prefix, &cfg); err != nil {
		return Config{}, fmt.Errorf("parsing config: %w", err)
	}

	cfg.PrivateKey = os.Getenv(EnvPrivateKey)
	cfg.ContractAddress = os.Getenv(EnvContractAddress)

	return cfg, nil
}

// Display returns the configuration in a form for display. The private key
// is never part of it.
func (cfg Config) Display() (string, error) {
	out, err := conf.String(&cfg)
	if err != nil {
		return "", fmt.Errorf("generating config for output: %w", err)
	}
	return out, nil
}

func (cfg Config) gasPrice() *big.Int {
	return new(big.Int).SetUint64(cfg.GasPrice)
}

func (cfg Config) chainID() *big.Int {
	if cfg.ChainID <= 0 {
		return nil
	}
	return big.NewInt(cfg.ChainID)
}
