// This program is the liquidation auction client of the Ether dollar bank.
package main

import (
	"github.com/ardanlabs/erc20bank/app/cli/cliapp"
	"github.com/ardanlabs/erc20bank/app/cli/liquidator/cmd"
)

// build is the git version of this program. It is set using build flags in the makefile.
var build = "develop"

func main() {
	cliapp.Main("LIQUIDATOR", build, "Ether dollar liquidator client", cmd.Root)
}
