package cliapp_test

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/ardanlabs/erc20bank/app/cli/cliapp"
	"github.com/ardanlabs/erc20bank/business/sys/boot"
	"github.com/ardanlabs/erc20bank/foundation/ethereum"
	"github.com/ardanlabs/erc20bank/foundation/logger"
	"github.com/ardanlabs/erc20bank/foundation/units"
	"github.com/spf13/cobra"
)

// Success and failure markers.
const (
	success = "✓"
	failed  = "✗"
)

func Test_Parse(t *testing.T) {
	t.Log("Given the need to parse command line values.")
	{
		t.Logf("\tTest 0:\tWhen parsing ids.")
		{
			id, err := cliapp.ParseID("loan-id", "12")
			if err != nil || id != 12 {
				t.Fatalf("\t%s\tTest 0:\tShould parse 12, got %d %v.", failed, id, err)
			}
			t.Logf("\t%s\tTest 0:\tShould parse 12.", success)

			if _, err := cliapp.ParseID("loan-id", "-1"); err == nil {
				t.Fatalf("\t%s\tTest 0:\tShould reject a negative id.", failed)
			}
			t.Logf("\t%s\tTest 0:\tShould reject a negative id.", success)
		}

		t.Logf("\tTest 1:\tWhen parsing amounts.")
		{
			v, err := cliapp.ParseAmount("dollar", "10.5", 2)
			if err != nil || v.Int64() != 1050 {
				t.Fatalf("\t%s\tTest 1:\tShould parse 1050 cents, got %v %v.", failed, v, err)
			}
			t.Logf("\t%s\tTest 1:\tShould parse 1050 cents.", success)

			v, err = cliapp.ParseAmount("collateral", "", units.EtherDecimals)
			if err != nil || v != nil {
				t.Fatalf("\t%s\tTest 1:\tShould return nil for an empty value, got %v %v.", failed, v, err)
			}
			t.Logf("\t%s\tTest 1:\tShould return nil for an empty value.", success)

			if _, err := cliapp.ParseAmount("dollar", "0.001", 2); err == nil {
				t.Fatalf("\t%s\tTest 1:\tShould reject fractions of a cent.", failed)
			}
			t.Logf("\t%s\tTest 1:\tShould reject fractions of a cent.", success)
		}

		t.Logf("\tTest 2:\tWhen an amount starts or ends with the point.")
		{
			for _, s := range []string{".5", "5."} {
				input := struct {
					Ether string `flag:"ether" validate:"required"`
				}{Ether: s}

				if err := cliapp.Check(input); err != nil {
					t.Fatalf("\t%s\tTest 2:\tShould accept %q: %s", failed, s, err)
				}

				if _, err := cliapp.ParseAmount("ether", s, units.EtherDecimals); err != nil {
					t.Fatalf("\t%s\tTest 2:\tShould parse %q: %s", failed, s, err)
				}
			}
			t.Logf("\t%s\tTest 2:\tShould accept both forms.", success)
		}
	}
}

func Test_Offline(t *testing.T) {
	var out bytes.Buffer
	sess := boot.NewSession(logger.NewNop(), boot.Config{}, &out)

	var ran bool
	root := cliapp.Root(sess, "test", "test")
	root.AddCommand(cliapp.Offline(&cobra.Command{
		Use: "local",
		RunE: func(cmd *cobra.Command, args []string) error {
			ran = true
			return nil
		},
	}))

	t.Log("Given the need to run commands without a node.")
	{
		t.Logf("\tTest 0:\tWhen running an offline command.")
		{
			root.SetArgs([]string{"local"})
			if err := root.ExecuteContext(context.Background()); err != nil {
				t.Fatalf("\t%s\tTest 0:\tShould run without connecting: %s", failed, err)
			}

			if !ran {
				t.Fatalf("\t%s\tTest 0:\tShould run the command.", failed)
			}
			t.Logf("\t%s\tTest 0:\tShould run the command.", success)

			if err := sess.RequireKey(); !errors.Is(err, ethereum.ErrNoPrivateKey) {
				t.Fatalf("\t%s\tTest 0:\tShould not have connected, got %v.", failed, err)
			}
			t.Logf("\t%s\tTest 0:\tShould not have connected.", success)
		}
	}
}
