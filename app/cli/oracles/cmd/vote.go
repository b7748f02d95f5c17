package cmd

import (
	"context"
	"fmt"
	"math/big"

	"github.com/ardanlabs/erc20bank/app/cli/cliapp"
	"github.com/ardanlabs/erc20bank/business/core/oracle"
	"github.com/ardanlabs/erc20bank/business/sys/boot"
	"github.com/ethereum/go-ethereum/common"
	"github.com/spf13/cobra"
)

func voteCmd(sess *boot.Session) *cobra.Command {
	var input struct {
		CollateralPrice     string `flag:"collateral-price"`
		CollateralRatio     string `flag:"collateral-ratio"`
		LiquidationDuration string `flag:"liquidation-duration"`
	}

	cmd := cobra.Command{
		Use:   "vote",
		Short: "Vote on a variable of the bank",
		RunE: signed(sess, func(ctx context.Context, core *oracle.Core) error {
			vote, err := oracle.NewVote(input.CollateralPrice, input.CollateralRatio, input.LiquidationDuration)
			if err != nil {
				return err
			}

			receipt, err := core.Vote(ctx, vote)
			if err != nil {
				return err
			}

			boot.Receipt(sess.Out, receipt)
			return nil
		}),
	}

	cmd.Flags().StringVar(&input.CollateralPrice, "collateral-price", "", "The ether price in Ether dollar.")
	cmd.Flags().StringVar(&input.CollateralRatio, "collateral-ratio", "", "The collateral ratio.")
	cmd.Flags().StringVar(&input.LiquidationDuration, "liquidation-duration", "", "The liquidation duration in minutes.")

	return &cmd
}

func setScoreCmd(sess *boot.Session) *cobra.Command {
	var input struct {
		Oracle string `flag:"oracle" validate:"required,eth_addr"`
		Score  string `flag:"score" validate:"required,number"`
	}

	cmd := cobra.Command{
		Use:   "set-score",
		Short: "Edit the score of an oracle",
		RunE: signed(sess, func(ctx context.Context, core *oracle.Core) error {
			if err := cliapp.Check(input); err != nil {
				return err
			}

			score, ok := new(big.Int).SetString(input.Score, 10)
			if !ok {
				return fmt.Errorf("score: %q is not a number", input.Score)
			}

			receipt, err := core.SetScore(ctx, common.HexToAddress(input.Oracle), score)
			if err != nil {
				return err
			}

			boot.Receipt(sess.Out, receipt)
			return nil
		}),
	}

	cmd.Flags().StringVar(&input.Oracle, "oracle", "", "The oracle's address.")
	cmd.Flags().StringVar(&input.Score, "score", "", "The oracle's score.")

	return &cmd
}

func finishRecruitingCmd(sess *boot.Session) *cobra.Command {
	cmd := cobra.Command{
		Use:   "finish-recruiting",
		Short: "Set recruiting as finished",
		RunE: signed(sess, func(ctx context.Context, core *oracle.Core) error {
			receipt, err := core.FinishRecruiting(ctx)
			if err != nil {
				return err
			}

			boot.Receipt(sess.Out, receipt)
			return nil
		}),
	}

	return &cmd
}
