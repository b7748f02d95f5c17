package boot

import (
	"errors"
	"io"

	"github.com/ardanlabs/erc20bank/business/sys/validate"
	"github.com/ardanlabs/erc20bank/foundation/console"
	"github.com/ardanlabs/erc20bank/foundation/ethereum"
	"github.com/ethereum/go-ethereum/core/types"
)

// Messages shown for the failures users can act on.
const (
	MsgPrivateKey      = "Run:\n\texport " + EnvPrivateKey + "=\"your ethereum private key\""
	MsgContractAddress = "First edit the " + EnvContractAddress + " and try again"
	MsgReverted        = "Reverted!\nError occured during contract execution"
)

// Receipt writes the hash of a mined transaction.
func Receipt(w io.Writer, receipt *types.Receipt) {
	console.Success(w, "tx: %s", receipt.TxHash.Hex())
}

// Report writes the error of a failed command in the form users expect.
func Report(w io.Writer, err error) {
	switch {
	case errors.Is(err, ethereum.ErrNoPrivateKey):
		console.Failure(w, "%s", MsgPrivateKey)

	case errors.Is(err, ErrContractAddress):
		console.Failure(w, "%s", MsgContractAddress)

	case ethereum.IsReverted(err):
		var re *ethereum.RevertedError
		errors.As(err, &re)
		console.Failure(w, "tx: %s", re.Hash.Hex())
		console.Failure(w, "%s", MsgReverted)

	case validate.IsFieldErrors(err):
		var fe validate.FieldErrors
		errors.As(err, &fe)
		for _, fld := range fe {
			console.Failure(w, "%s", fld.Error)
		}

	default:
		console.Failure(w, "%s", capitalize(err.Error()))
	}
}

func capitalize(s string) string {
	if s == "" || s[0] < 'a' || s[0] > 'z' {
		return s
	}
	return string(s[0]-'a'+'A') + s[1:]
}
