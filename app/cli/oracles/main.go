// This program is the oracles' client of the Ether dollar bank.
package main

import (
	"github.com/ardanlabs/erc20bank/app/cli/cliapp"
	"github.com/ardanlabs/erc20bank/app/cli/oracles/cmd"
)

// build is the git version of this program. It is set using build flags in the makefile.
var build = "develop"

func main() {
	cliapp.Main("ORACLES", build, "Ether dollar oracles client", cmd.Root)
}
