// Package cmd contains the erc20bank commands.
package cmd

import (
	"context"

	"github.com/ardanlabs/erc20bank/app/cli/cliapp"
	"github.com/ardanlabs/erc20bank/business/contracts"
	"github.com/ardanlabs/erc20bank/business/core/bank"
	"github.com/ardanlabs/erc20bank/business/sys/boot"
	"github.com/spf13/cobra"
)

// Root constructs the erc20bank command tree.
func Root(sess *boot.Session) *cobra.Command {
	root := cliapp.Root(sess, "erc20bank", "Borrow Ether dollar against collateral")

	root.AddCommand(
		sendEthCmd(sess),
		getLoanCmd(sess),
		increaseCollateralCmd(sess),
		decreaseCollateralCmd(sess),
		settleLoanCmd(sess),
		liquidateCmd(sess),
		minCollateralCmd(sess),
		getBalanceCmd(sess),
		allowanceCmd(sess),
		showCmd(sess),
		loansListCmd(sess),
		liquidatableLoansCmd(sess),
		getVariablesCmd(sess),
		addressesCmd(sess),
	)

	return root
}

func newCore(sess *boot.Session) (*bank.Core, error) {
	b, err := sess.Binding(contracts.Bank)
	if err != nil {
		return nil, err
	}

	dollar, err := sess.Binding(contracts.EtherDollar)
	if err != nil {
		return nil, err
	}

	collateral, err := sess.Binding(contracts.Collateral)
	if err != nil {
		return nil, err
	}

	cfg := bank.Config{
		Wallet:         sess.Client(),
		Bank:           b,
		EtherDollar:    dollar,
		Collateral:     collateral,
		DollarDecimals: sess.Config.DollarDecimals,
		EvHandler:      sess.Progress,
	}

	return bank.NewCore(cfg), nil
}

// signed runs the function with a bank core after checking the session can
// sign transactions.
func signed(sess *boot.Session, fn func(ctx context.Context, core *bank.Core) error) func(cmd *cobra.Command, args []string) error {
	return func(cmd *cobra.Command, args []string) error {
		if err := sess.RequireKey(); err != nil {
			return err
		}
		return withCore(sess, fn)(cmd, args)
	}
}

// withCore runs the function with a bank core.
func withCore(sess *boot.Session, fn func(ctx context.Context, core *bank.Core) error) func(cmd *cobra.Command, args []string) error {
	return func(cmd *cobra.Command, args []string) error {
		core, err := newCore(sess)
		if err != nil {
			return err
		}
		return fn(cmd.Context(), core)
	}
}
