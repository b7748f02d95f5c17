package cmd_test

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ardanlabs/erc20bank/app/cli/erc20bank/cmd"
	"github.com/ardanlabs/erc20bank/business/sys/boot"
	"github.com/ardanlabs/erc20bank/foundation/logger"
	"github.com/google/go-cmp/cmp"
)

// Success and failure markers.
const (
	success = "✓"
	failed  = "✗"
)

func Test_Commands(t *testing.T) {
	var out bytes.Buffer
	root := cmd.Root(boot.NewSession(logger.NewNop(), boot.Config{}, &out))

	var names []string
	for _, c := range root.Commands() {
		names = append(names, c.Name())
	}

	exp := []string{
		"addresses", "allowance", "config", "decrease-collateral", "get-balance",
		"get-loan", "get-variables", "increase-collateral", "liquidatable-loans",
		"liquidate", "loans-list", "min-collateral", "send-eth", "settle-loan", "show",
	}

	t.Log("Given the need to offer every bank command.")
	{
		if diff := cmp.Diff(exp, names); diff != "" {
			t.Fatalf("\t%s\tShould register every command, diff:\n%s", failed, diff)
		}
		t.Logf("\t%s\tShould register every command.", success)

		if root.PersistentFlags().Lookup("private-key") == nil {
			t.Fatalf("\t%s\tShould accept a private key on every command.", failed)
		}
		t.Logf("\t%s\tShould accept a private key on every command.", success)
	}
}

func Test_AddressesRefresh(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "unavailable", http.StatusInternalServerError)
	}))
	defer srv.Close()

	newRoot := func(t *testing.T, args ...string) error {
		var cfg boot.Config
		cfg.RPC.URL = srv.URL
		cfg.ChainID = 1337
		cfg.BankAddress = "0x00000000000000000000000000000000000b0001"
		cfg.AddressBook = filepath.Join(t.TempDir(), "book.json")

		if err := os.WriteFile(cfg.AddressBook, []byte("{broken"), 0600); err != nil {
			t.Fatalf("Should be able to write the address book: %s", err)
		}

		var out bytes.Buffer
		sess := boot.NewSession(logger.NewNop(), cfg, &out)
		defer sess.Close()

		root := cmd.Root(sess)
		root.SetArgs(args)

		return root.ExecuteContext(context.Background())
	}

	t.Log("Given the need to repair a broken address book.")
	{
		t.Logf("\tTest 0:\tWhen showing the addresses.")
		{
			err := newRoot(t, "addresses")
			if err == nil || !strings.Contains(err.Error(), "decoding address book") {
				t.Fatalf("\t%s\tTest 0:\tShould report the broken book, got %v.", failed, err)
			}
			t.Logf("\t%s\tTest 0:\tShould report the broken book.", success)
		}

		t.Logf("\tTest 1:\tWhen refreshing the addresses.")
		{
			err := newRoot(t, "addresses", "--refresh")
			if err == nil || strings.Contains(err.Error(), "decoding address book") {
				t.Fatalf("\t%s\tTest 1:\tShould skip the broken book, got %v.", failed, err)
			}
			t.Logf("\t%s\tTest 1:\tShould skip the broken book.", success)

			if !strings.Contains(err.Error(), "looking up contract addresses") {
				t.Fatalf("\t%s\tTest 1:\tShould ask the bank again, got %v.", failed, err)
			}
			t.Logf("\t%s\tTest 1:\tShould ask the bank again.", success)
		}
	}
}
