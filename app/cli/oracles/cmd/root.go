// Package cmd contains the oracles commands.
package cmd

import (
	"context"

	"github.com/ardanlabs/erc20bank/app/cli/cliapp"
	"github.com/ardanlabs/erc20bank/business/contracts"
	"github.com/ardanlabs/erc20bank/business/core/oracle"
	"github.com/ardanlabs/erc20bank/business/sys/boot"
	"github.com/spf13/cobra"
)

// Root constructs the oracles command tree.
func Root(sess *boot.Session) *cobra.Command {
	root := cliapp.Root(sess, "oracles", "Vote on the variables of the Ether dollar bank")

	root.AddCommand(
		voteCmd(sess),
		setScoreCmd(sess),
		finishRecruitingCmd(sess),
	)

	return root
}

// signed runs the function with an oracle core after checking the session
// can sign transactions.
func signed(sess *boot.Session, fn func(ctx context.Context, core *oracle.Core) error) func(cmd *cobra.Command, args []string) error {
	return func(cmd *cobra.Command, args []string) error {
		if err := sess.RequireKey(); err != nil {
			return err
		}

		b, err := sess.Binding(contracts.Oracles)
		if err != nil {
			return err
		}

		return fn(cmd.Context(), oracle.NewCore(b, sess.Progress))
	}
}
