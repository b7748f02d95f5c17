// This program is the borrower's client of the Ether dollar bank.
package main

import (
	"github.com/ardanlabs/erc20bank/app/cli/cliapp"
	"github.com/ardanlabs/erc20bank/app/cli/erc20bank/cmd"
)

// build is the git version of this program. It is set using build flags in the makefile.
var build = "develop"

func main() {
	cliapp.Main("ERC20BANK", build, "Ether dollar bank client", cmd.Root)
}
