package cmd

import (
	"context"

	"github.com/ardanlabs/erc20bank/app/cli/cliapp"
	"github.com/ardanlabs/erc20bank/business/core/bank"
	"github.com/ardanlabs/erc20bank/business/sys/boot"
	"github.com/ardanlabs/erc20bank/foundation/units"
	"github.com/spf13/cobra"
)

func sendEthCmd(sess *boot.Session) *cobra.Command {
	var input struct {
		Ether string `flag:"ether" validate:"required"`
	}

	cmd := cobra.Command{
		Use:   "send-eth",
		Short: "Send ether to the bank",
		RunE: signed(sess, func(ctx context.Context, core *bank.Core) error {
			if err := cliapp.Check(input); err != nil {
				return err
			}

			wei, err := cliapp.ParseAmount("ether", input.Ether, units.EtherDecimals)
			if err != nil {
				return err
			}

			receipt, err := core.SendEther(ctx, wei)
			if err != nil {
				return err
			}

			boot.Receipt(sess.Out, receipt)
			return nil
		}),
	}

	cmd.Flags().StringVar(&input.Ether, "ether", "", "The amount of ether to send.")

	return &cmd
}

func getLoanCmd(sess *boot.Session) *cobra.Command {
	var input struct {
		Collateral string `flag:"collateral" validate:"required"`
		Dollar     string `flag:"dollar" validate:"required"`
	}

	cmd := cobra.Command{
		Use:   "get-loan",
		Short: "Get Ether dollar against collateral",
		RunE: signed(sess, func(ctx context.Context, core *bank.Core) error {
			if err := cliapp.Check(input); err != nil {
				return err
			}

			collateral, err := cliapp.ParseAmount("collateral", input.Collateral, units.EtherDecimals)
			if err != nil {
				return err
			}

			amount, err := cliapp.ParseAmount("dollar", input.Dollar, core.DollarDecimals())
			if err != nil {
				return err
			}

			receipt, err := core.GetLoan(ctx, collateral, amount)
			if err != nil {
				return err
			}

			boot.Receipt(sess.Out, receipt)
			return nil
		}),
	}

	cmd.Flags().StringVar(&input.Collateral, "collateral", "", "The collateral amount.")
	cmd.Flags().StringVar(&input.Dollar, "dollar", "", "The loan amount in dollars.")

	return &cmd
}

func increaseCollateralCmd(sess *boot.Session) *cobra.Command {
	var input struct {
		Collateral string `flag:"collateral" validate:"required"`
		LoanID     string `flag:"loan-id" validate:"required,number"`
	}

	cmd := cobra.Command{
		Use:   "increase-collateral",
		Short: "Add collateral to a loan",
		RunE: signed(sess, func(ctx context.Context, core *bank.Core) error {
			if err := cliapp.Check(input); err != nil {
				return err
			}

			loanID, err := cliapp.ParseID("loan-id", input.LoanID)
			if err != nil {
				return err
			}

			collateral, err := cliapp.ParseAmount("collateral", input.Collateral, units.EtherDecimals)
			if err != nil {
				return err
			}

			receipt, err := core.IncreaseCollateral(ctx, loanID, collateral)
			if err != nil {
				return err
			}

			boot.Receipt(sess.Out, receipt)
			return nil
		}),
	}

	cmd.Flags().StringVar(&input.Collateral, "collateral", "", "The collateral amount.")
	cmd.Flags().StringVar(&input.LoanID, "loan-id", "", "The loan id.")

	return &cmd
}

func decreaseCollateralCmd(sess *boot.Session) *cobra.Command {
	var input struct {
		Collateral string `flag:"collateral"`
		LoanID     string `flag:"loan-id" validate:"required,number"`
	}

	cmd := cobra.Command{
		Use:   "decrease-collateral",
		Short: "Withdraw collateral from a loan",
		Long:  "Withdraw collateral from a loan. A repaid loan returns all of its collateral.",
		RunE: signed(sess, func(ctx context.Context, core *bank.Core) error {
			if err := cliapp.Check(input); err != nil {
				return err
			}

			loanID, err := cliapp.ParseID("loan-id", input.LoanID)
			if err != nil {
				return err
			}

			collateral, err := cliapp.ParseAmount("collateral", input.Collateral, units.EtherDecimals)
			if err != nil {
				return err
			}

			receipt, err := core.DecreaseCollateral(ctx, loanID, collateral)
			if err != nil {
				return err
			}

			boot.Receipt(sess.Out, receipt)
			return nil
		}),
	}

	cmd.Flags().StringVar(&input.Collateral, "collateral", "", "The collateral amount.")
	cmd.Flags().StringVar(&input.LoanID, "loan-id", "", "The loan id.")

	return &cmd
}

func settleLoanCmd(sess *boot.Session) *cobra.Command {
	var input struct {
		Dollar string `flag:"dollar" validate:"required"`
		LoanID string `flag:"loan-id" validate:"required,number"`
	}

	cmd := cobra.Command{
		Use:   "settle-loan",
		Short: "Pay back Ether dollar for a loan",
		RunE: signed(sess, func(ctx context.Context, core *bank.Core) error {
			if err := cliapp.Check(input); err != nil {
				return err
			}

			loanID, err := cliapp.ParseID("loan-id", input.LoanID)
			if err != nil {
				return err
			}

			amount, err := cliapp.ParseAmount("dollar", input.Dollar, core.DollarDecimals())
			if err != nil {
				return err
			}

			receipt, err := core.SettleLoan(ctx, loanID, amount)
			if err != nil {
				return err
			}

			boot.Receipt(sess.Out, receipt)
			return nil
		}),
	}

	cmd.Flags().StringVar(&input.Dollar, "dollar", "", "The amount of dollars to pay back.")
	cmd.Flags().StringVar(&input.LoanID, "loan-id", "", "The loan id.")

	return &cmd
}

func liquidateCmd(sess *boot.Session) *cobra.Command {
	var input struct {
		LoanID string `flag:"loan-id" validate:"required,number"`
	}

	cmd := cobra.Command{
		Use:   "liquidate",
		Short: "Start the liquidation of an under collateralized loan",
		RunE: signed(sess, func(ctx context.Context, core *bank.Core) error {
			if err := cliapp.Check(input); err != nil {
				return err
			}

			loanID, err := cliapp.ParseID("loan-id", input.LoanID)
			if err != nil {
				return err
			}

			receipt, err := core.Liquidate(ctx, loanID)
			if err != nil {
				return err
			}

			boot.Receipt(sess.Out, receipt)
			return nil
		}),
	}

	cmd.Flags().StringVar(&input.LoanID, "loan-id", "", "The loan id.")

	return &cmd
}
