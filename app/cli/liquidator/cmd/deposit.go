package cmd

import (
	"context"

	"github.com/ardanlabs/erc20bank/app/cli/cliapp"
	"github.com/ardanlabs/erc20bank/business/core/liquidator"
	"github.com/ardanlabs/erc20bank/business/sys/boot"
	"github.com/ardanlabs/erc20bank/foundation/console"
	"github.com/ardanlabs/erc20bank/foundation/units"
	"github.com/spf13/cobra"
)

func getDepositCmd(sess *boot.Session) *cobra.Command {
	cmd := cobra.Command{
		Use:   "get-deposit",
		Short: "Get the Ether dollar the liquidator holds for the account",
		RunE: signed(sess, func(ctx context.Context, core *liquidator.Core) error {
			deposit, err := core.Deposit(ctx, core.Account())
			if err != nil {
				return err
			}

			console.Success(sess.Out, "Deposit: %s dollar", units.Format(deposit, core.DollarDecimals()))
			console.Blank(sess.Out)
			return nil
		}),
	}

	return &cmd
}

func withdrawCmd(sess *boot.Session) *cobra.Command {
	var input struct {
		Dollar string `flag:"dollar" validate:"required"`
	}

	cmd := cobra.Command{
		Use:   "withdraw",
		Short: "Withdraw Ether dollar from the deposit",
		RunE: signed(sess, func(ctx context.Context, core *liquidator.Core) error {
			if err := cliapp.Check(input); err != nil {
				return err
			}

			amount, err := cliapp.ParseAmount("dollar", input.Dollar, core.DollarDecimals())
			if err != nil {
				return err
			}

			receipt, err := core.Withdraw(ctx, amount)
			if err != nil {
				return err
			}

			boot.Receipt(sess.Out, receipt)
			return nil
		}),
	}

	cmd.Flags().StringVar(&input.Dollar, "dollar", "", "The amount of dollars to withdraw.")

	return &cmd
}
