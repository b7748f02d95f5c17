package cmd

import (
	"context"
	"io"

	"github.com/ardanlabs/erc20bank/app/cli/cliapp"
	"github.com/ardanlabs/erc20bank/business/core/bank"
	"github.com/ardanlabs/erc20bank/business/sys/boot"
	"github.com/ardanlabs/erc20bank/foundation/console"
	"github.com/ardanlabs/erc20bank/foundation/units"
	"github.com/ethereum/go-ethereum/common"
	"github.com/spf13/cobra"
)

func minCollateralCmd(sess *boot.Session) *cobra.Command {
	var input struct {
		Dollar string `flag:"dollar" validate:"required"`
	}

	cmd := cobra.Command{
		Use:   "min-collateral",
		Short: "Count the minimum collateral for a loan",
		RunE: withCore(sess, func(ctx context.Context, core *bank.Core) error {
			if err := cliapp.Check(input); err != nil {
				return err
			}

			amount, err := cliapp.ParseAmount("dollar", input.Dollar, core.DollarDecimals())
			if err != nil {
				return err
			}

			wei, err := core.MinCollateral(ctx, amount)
			if err != nil {
				return err
			}

			console.Success(sess.Out, "Minimum collateral for getting %s dollars loan is %s", units.Format(amount, core.DollarDecimals()), units.FormatEther(wei))
			console.Blank(sess.Out)
			return nil
		}),
	}

	cmd.Flags().StringVar(&input.Dollar, "dollar", "", "The loan amount in dollars.")

	return &cmd
}

func getBalanceCmd(sess *boot.Session) *cobra.Command {
	cmd := cobra.Command{
		Use:   "get-balance",
		Short: "Get the Ether dollar balance of the account",
		RunE: signed(sess, func(ctx context.Context, core *bank.Core) error {
			balance, err := core.Balance(ctx, core.Account())
			if err != nil {
				return err
			}

			console.Success(sess.Out, "Balance: %s dollar", units.Format(balance, core.DollarDecimals()))
			console.Blank(sess.Out)
			return nil
		}),
	}

	return &cmd
}

func allowanceCmd(sess *boot.Session) *cobra.Command {
	var input struct {
		Owner   string `flag:"owner" validate:"required,eth_addr"`
		Spender string `flag:"spender" validate:"required,eth_addr"`
	}

	cmd := cobra.Command{
		Use:   "allowance",
		Short: "Get the Ether dollar the spender may transfer from the owner",
		RunE: withCore(sess, func(ctx context.Context, core *bank.Core) error {
			if err := cliapp.Check(input); err != nil {
				return err
			}

			allowance, err := core.Allowance(ctx, common.HexToAddress(input.Owner), common.HexToAddress(input.Spender))
			if err != nil {
				return err
			}

			console.Success(sess.Out, "Allowance: %s dollar", units.Format(allowance, core.DollarDecimals()))
			console.Blank(sess.Out)
			return nil
		}),
	}

	cmd.Flags().StringVar(&input.Owner, "owner", "", "The owner's address.")
	cmd.Flags().StringVar(&input.Spender, "spender", "", "The spender's address.")

	return &cmd
}

func showCmd(sess *boot.Session) *cobra.Command {
	var input struct {
		LoanID string `flag:"loan-id" validate:"required,number"`
	}

	cmd := cobra.Command{
		Use:   "show",
		Short: "Show the specified loan",
		RunE: withCore(sess, func(ctx context.Context, core *bank.Core) error {
			if err := cliapp.Check(input); err != nil {
				return err
			}

			loanID, err := cliapp.ParseID("loan-id", input.LoanID)
			if err != nil {
				return err
			}

			loan, err := core.Loan(ctx, loanID)
			if err != nil {
				return err
			}

			if !loan.Exists() {
				console.Failure(sess.Out, "There is no loan.")
				console.Blank(sess.Out)
				return nil
			}

			printLoan(sess.Out, loan, core.DollarDecimals(), true)
			return nil
		}),
	}

	cmd.Flags().StringVar(&input.LoanID, "loan-id", "", "The loan id.")

	return &cmd
}

func loansListCmd(sess *boot.Session) *cobra.Command {
	cmd := cobra.Command{
		Use:   "loans-list",
		Short: "List the loans of the account",
		RunE: signed(sess, func(ctx context.Context, core *bank.Core) error {
			account := core.Account()

			loans, err := core.Loans(ctx, &account)
			if err != nil {
				return err
			}

			for _, loan := range loans {
				printLoan(sess.Out, loan, core.DollarDecimals(), true)
			}

			if len(loans) == 0 {
				console.Success(sess.Out, "There is no loan.")
				console.Blank(sess.Out)
			}

			return nil
		}),
	}

	return &cmd
}

func liquidatableLoansCmd(sess *boot.Session) *cobra.Command {
	cmd := cobra.Command{
		Use:   "liquidatable-loans",
		Short: "List the loans that can be liquidated",
		RunE: withCore(sess, func(ctx context.Context, core *bank.Core) error {
			loans, err := core.LiquidatableLoans(ctx)
			if err != nil {
				return err
			}

			for _, loan := range loans {
				printLoan(sess.Out, loan, core.DollarDecimals(), false)
			}

			if len(loans) == 0 {
				console.Success(sess.Out, "There is no liquidatable loan.")
				console.Blank(sess.Out)
			}

			return nil
		}),
	}

	return &cmd
}

func getVariablesCmd(sess *boot.Session) *cobra.Command {
	cmd := cobra.Command{
		Use:   "get-variables",
		Short: "Get the current value of the system variables",
		RunE: withCore(sess, func(ctx context.Context, core *bank.Core) error {
			v, err := core.Variables(ctx)
			if err != nil {
				return err
			}

			console.Field(sess.Out, "collateralRatio", units.Format(v.CollateralRatio, units.RatioDecimals))
			console.Field(sess.Out, "collateralPrice", units.Format(v.CollateralPrice, units.PriceDecimals)+" ether dollar")
			console.Field(sess.Out, "liquidationDuration", units.FormatMinutes(v.LiquidationDuration)+" minute")
			console.Blank(sess.Out)
			return nil
		}),
	}

	return &cmd
}

// =============================================================================

func printLoan(w io.Writer, loan bank.Loan, decimals int32, state bool) {
	console.Success(w, "loanId:\t\t%d", loan.ID)
	console.Success(w, "collateral:\t%s ether", units.FormatEther(loan.Collateral))
	console.Success(w, "amount:\t\t%s dollar", units.Format(loan.Amount, decimals))
	if state {
		console.Success(w, "state:\t\t%s", loan.State)
	}
	console.Blank(w)
}
