package cmd

import (
	"context"
	"io"
	"time"

	"github.com/ardanlabs/erc20bank/app/cli/cliapp"
	"github.com/ardanlabs/erc20bank/business/core/liquidator"
	"github.com/ardanlabs/erc20bank/business/sys/boot"
	"github.com/ardanlabs/erc20bank/foundation/console"
	"github.com/ardanlabs/erc20bank/foundation/units"
	"github.com/spf13/cobra"
)

func activeLiquidationsCmd(sess *boot.Session) *cobra.Command {
	cmd := cobra.Command{
		Use:   "active-liquidations",
		Short: "List the auctions taking bids",
		RunE: withCore(sess, func(ctx context.Context, core *liquidator.Core) error {
			liqs, err := core.ActiveLiquidations(ctx)
			if err != nil {
				return err
			}

			for _, liq := range liqs {
				printLiquidation(sess.Out, liq, core.DollarDecimals())
			}

			if len(liqs) == 0 {
				console.Success(sess.Out, "There is no active liquidation.")
				console.Blank(sess.Out)
			}

			return nil
		}),
	}

	return &cmd
}

func showCmd(sess *boot.Session) *cobra.Command {
	var input struct {
		LiquidationID string `flag:"liquidation-id" validate:"required,number"`
	}

	cmd := cobra.Command{
		Use:   "show",
		Short: "Show the specified liquidation",
		RunE: withCore(sess, func(ctx context.Context, core *liquidator.Core) error {
			if err := cliapp.Check(input); err != nil {
				return err
			}

			id, err := cliapp.ParseID("liquidation-id", input.LiquidationID)
			if err != nil {
				return err
			}

			liq, err := core.Liquidation(ctx, id)
			if err != nil {
				return err
			}

			if !liq.Exists() {
				console.Failure(sess.Out, "There is no liquidation.")
				console.Blank(sess.Out)
				return nil
			}

			printLiquidation(sess.Out, liq, core.DollarDecimals())
			return nil
		}),
	}

	cmd.Flags().StringVar(&input.LiquidationID, "liquidation-id", "", "The liquidation id.")

	return &cmd
}

func placeBidCmd(sess *boot.Session) *cobra.Command {
	var input struct {
		LiquidationID string `flag:"liquidation-id" validate:"required,number"`
		Dollar        string `flag:"dollar" validate:"required"`
	}

	cmd := cobra.Command{
		Use:   "place-bid",
		Short: "Bid Ether dollar on the collateral of a liquidation",
		RunE: signed(sess, func(ctx context.Context, core *liquidator.Core) error {
			if err := cliapp.Check(input); err != nil {
				return err
			}

			id, err := cliapp.ParseID("liquidation-id", input.LiquidationID)
			if err != nil {
				return err
			}

			amount, err := cliapp.ParseAmount("dollar", input.Dollar, core.DollarDecimals())
			if err != nil {
				return err
			}

			receipt, err := core.PlaceBid(ctx, id, amount)
			if err != nil {
				return err
			}

			boot.Receipt(sess.Out, receipt)
			return nil
		}),
	}

	cmd.Flags().StringVar(&input.LiquidationID, "liquidation-id", "", "The liquidation id.")
	cmd.Flags().StringVar(&input.Dollar, "dollar", "", "The bid in dollars.")

	return &cmd
}

func stopLiquidationCmd(sess *boot.Session) *cobra.Command {
	var input struct {
		LiquidationID string `flag:"liquidation-id" validate:"required,number"`
	}

	cmd := cobra.Command{
		Use:   "stop-liquidation",
		Short: "Close an auction whose time is over",
		RunE: signed(sess, func(ctx context.Context, core *liquidator.Core) error {
			if err := cliapp.Check(input); err != nil {
				return err
			}

			id, err := cliapp.ParseID("liquidation-id", input.LiquidationID)
			if err != nil {
				return err
			}

			receipt, err := core.StopLiquidation(ctx, id)
			if err != nil {
				return err
			}

			boot.Receipt(sess.Out, receipt)
			return nil
		}),
	}

	cmd.Flags().StringVar(&input.LiquidationID, "liquidation-id", "", "The liquidation id.")

	return &cmd
}

// =============================================================================

func printLiquidation(w io.Writer, liq liquidator.Liquidation, decimals int32) {
	console.Success(w, "liquidationId:\t%d", liq.ID)
	console.Success(w, "loanId:\t\t%d", liq.LoanID)
	console.Success(w, "collateral:\t%s ether", units.FormatEther(liq.CollateralAmount))
	console.Success(w, "amount:\t\t%s dollar", units.Format(liq.LoanAmount, decimals))
	console.Success(w, "endTime:\t%s", liq.EndTime.Format(time.RFC3339))
	console.Success(w, "bestBid:\t%s dollar", units.Format(liq.BestBid, decimals))
	console.Success(w, "bestBidder:\t%s", liq.BestBidder.Hex())
	console.Success(w, "state:\t\t%s", liq.State)
	console.Blank(w)
}
