package cmd

import (
	"github.com/ardanlabs/erc20bank/app/cli/cliapp"
	"github.com/ardanlabs/erc20bank/business/contracts"
	"github.com/ardanlabs/erc20bank/business/sys/addressbook"
	"github.com/ardanlabs/erc20bank/business/sys/boot"
	"github.com/ardanlabs/erc20bank/foundation/console"
	"github.com/spf13/cobra"
)

func addressesCmd(sess *boot.Session) *cobra.Command {
	var refresh bool

	cmd := cobra.Command{
		Use:   "addresses",
		Short: "Show the contract addresses",
		Long:  "Show the contract addresses. With --refresh the addresses are asked from the bank again and the address book is rewritten.",
		RunE: func(cmd *cobra.Command, args []string) error {
			if refresh {
				book, err := sess.Refresh(cmd.Context())
				if err != nil {
					return err
				}
				printBook(sess, book)
				return nil
			}

			if err := sess.Connect(cmd.Context()); err != nil {
				return err
			}

			printBook(sess, sess.Book())
			return nil
		},
	}

	cmd.Flags().BoolVar(&refresh, "refresh", false, "Ask the bank for the addresses again.")

	// The book is read here, after --refresh is known, so a broken file can
	// be rewritten.
	return cliapp.Offline(&cmd)
}

func printBook(sess *boot.Session, book addressbook.Book) {
	for _, role := range contracts.Roles {
		console.Field(sess.Out, string(role), book.Get(role).Hex())
	}
	console.Blank(sess.Out)
}
