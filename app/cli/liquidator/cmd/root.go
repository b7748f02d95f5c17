// Package cmd contains the liquidator commands.
package cmd

import (
	"context"

	"github.com/ardanlabs/erc20bank/app/cli/cliapp"
	"github.com/ardanlabs/erc20bank/business/contracts"
	"github.com/ardanlabs/erc20bank/business/core/liquidator"
	"github.com/ardanlabs/erc20bank/business/sys/boot"
	"github.com/spf13/cobra"
)

// Root constructs the liquidator command tree.
func Root(sess *boot.Session) *cobra.Command {
	root := cliapp.Root(sess, "liquidator", "Bid on the collateral of liquidated loans")

	root.AddCommand(
		activeLiquidationsCmd(sess),
		showCmd(sess),
		placeBidCmd(sess),
		stopLiquidationCmd(sess),
		getDepositCmd(sess),
		withdrawCmd(sess),
	)

	return root
}

func newCore(sess *boot.Session) (*liquidator.Core, error) {
	liq, err := sess.Binding(contracts.Liquidator)
	if err != nil {
		return nil, err
	}

	dollar, err := sess.Binding(contracts.EtherDollar)
	if err != nil {
		return nil, err
	}

	cfg := liquidator.Config{
		Account:        sess.Client().Address(),
		Liquidator:     liq,
		EtherDollar:    dollar,
		DollarDecimals: sess.Config.DollarDecimals,
		EvHandler:      sess.Progress,
		Clock:          sess.Client().BlockTime,
	}

	return liquidator.NewCore(cfg), nil
}

// signed runs the function with a liquidator core after checking the
// session can sign transactions.
func signed(sess *boot.Session, fn func(ctx context.Context, core *liquidator.Core) error) func(cmd *cobra.Command, args []string) error {
	return func(cmd *cobra.Command, args []string) error {
		if err := sess.RequireKey(); err != nil {
			return err
		}
		return withCore(sess, fn)(cmd, args)
	}
}

// withCore runs the function with a liquidator core.
func withCore(sess *boot.Session, fn func(ctx context.Context, core *liquidator.Core) error) func(cmd *cobra.Command, args []string) error {
	return func(cmd *cobra.Command, args []string) error {
		core, err := newCore(sess)
		if err != nil {
			return err
		}
		return fn(cmd.Context(), core)
	}
}
