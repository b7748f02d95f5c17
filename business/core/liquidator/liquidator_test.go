package liquidator_test

import (
	"context"
	"errors"
	"math/big"
	"testing"
	"time"

	"github.com/ardanlabs/erc20bank/business/contracts/contractstest"
	"github.com/ardanlabs/erc20bank/business/core/liquidator"
	"github.com/ethereum/go-ethereum/common"
	"github.com/google/go-cmp/cmp"
)

// Success and failure markers.
const (
	success = "\u2713"
	failed  = "\u2717"
)

var (
	liquidatorAddr = common.HexToAddress("0x00000000000000000000000000000000000c0001")
	dollarAddr     = common.HexToAddress("0x00000000000000000000000000000000000c0002")
	signer         = common.HexToAddress("0xdd6B972ffcc631a62CAE1BB9d80b7ff429c8ebA4")
	now            = time.Date(2024, time.March, 1, 12, 0, 0, 0, time.UTC)
)

type auction struct {
	loanID uint64
	end    time.Time
	state  liquidator.State
}

type fixture struct {
	chain      *contractstest.Chain
	liquidator *contractstest.Binding
	dollar     *contractstest.Binding
	core       *liquidator.Core
}

func newFixture(auctions map[uint64]auction) *fixture {
	var chain contractstest.Chain

	f := fixture{
		chain:      &chain,
		liquidator: chain.Bind("liquidator", liquidatorAddr),
		dollar:     chain.Bind("etherdollar", dollarAddr),
	}

	f.liquidator.
		Returns("deposits", big.NewInt(5000)).
		OnCall("liquidations", func(args ...any) ([]any, error) {
			zero := big.NewInt(0)

			a, exists := auctions[args[0].(*big.Int).Uint64()]
			if !exists {
				return []any{zero, zero, zero, zero, zero, zero, common.Address{}, uint8(0)}, nil
			}

			start := big.NewInt(a.end.Add(-time.Hour).Unix())
			end := big.NewInt(a.end.Unix())
			return []any{new(big.Int).SetUint64(a.loanID), big.NewInt(1e18), big.NewInt(20000), start, end, big.NewInt(100), signer, uint8(a.state)}, nil
		})

	f.dollar.Returns("balanceOf", big.NewInt(10000))

	f.core = liquidator.NewCore(liquidator.Config{
		Account:        signer,
		Liquidator:     f.liquidator,
		EtherDollar:    f.dollar,
		DollarDecimals: 2,
		Clock:          func(ctx context.Context) (time.Time, error) { return now, nil },
	})

	return &f
}

var auctions = map[uint64]auction{
	1: {loanID: 7, end: now.Add(time.Hour), state: liquidator.StateActive},
	2: {loanID: 8, end: now.Add(-time.Hour), state: liquidator.StateFinished},
	3: {loanID: 9, end: now.Add(-time.Minute), state: liquidator.StateActive},
}

// =============================================================================

func Test_Liquidation(t *testing.T) {
	ctx := context.Background()
	f := newFixture(auctions)

	t.Log("Given the need to read a liquidation.")
	{
		t.Logf("\tTest 0:\tWhen the liquidation exists.")
		{
			liq, err := f.core.Liquidation(ctx, 1)
			if err != nil {
				t.Fatalf("\t%s\tTest 0:\tShould be able to read the liquidation: %s", failed, err)
			}

			exp := liquidator.Liquidation{
				ID:               1,
				LoanID:           7,
				CollateralAmount: big.NewInt(1e18),
				LoanAmount:       big.NewInt(20000),
				StartTime:        now,
				EndTime:          now.Add(time.Hour),
				BestBid:          big.NewInt(100),
				BestBidder:       signer,
				State:            liquidator.StateActive,
			}

			opt := cmp.Comparer(func(a, b *big.Int) bool { return a.Cmp(b) == 0 })
			if diff := cmp.Diff(exp, liq, opt); diff != "" {
				t.Fatalf("\t%s\tTest 0:\tShould decode every field, diff:\n%s", failed, diff)
			}
			t.Logf("\t%s\tTest 0:\tShould decode every field.", success)
		}

		t.Logf("\tTest 1:\tWhen the liquidation does not exist.")
		{
			liq, err := f.core.Liquidation(ctx, 42)
			if err != nil {
				t.Fatalf("\t%s\tTest 1:\tShould be able to read the liquidation: %s", failed, err)
			}

			if liq.Exists() {
				t.Fatalf("\t%s\tTest 1:\tShould report the liquidation as missing.", failed)
			}
			t.Logf("\t%s\tTest 1:\tShould report the liquidation as missing.", success)
		}
	}
}

func Test_ActiveLiquidations(t *testing.T) {
	f := newFixture(auctions)
	f.liquidator.
		Emit("LiquidationStarted", contractstest.IntTopic(3), contractstest.IntTopic(9)).
		Emit("LiquidationStarted", contractstest.IntTopic(2), contractstest.IntTopic(8)).
		Emit("LiquidationStarted", contractstest.IntTopic(1), contractstest.IntTopic(7))

	t.Log("Given the need to list the auctions taking bids.")
	{
		t.Logf("\tTest 0:\tWhen some auctions finished.")
		{
			got, err := f.core.ActiveLiquidations(context.Background())
			if err != nil {
				t.Fatalf("\t%s\tTest 0:\tShould be able to list liquidations: %s", failed, err)
			}

			var ids []uint64
			for _, liq := range got {
				ids = append(ids, liq.ID)
			}

			if diff := cmp.Diff([]uint64{1, 3}, ids); diff != "" {
				t.Fatalf("\t%s\tTest 0:\tShould get the active ones in id order, diff:\n%s", failed, diff)
			}
			t.Logf("\t%s\tTest 0:\tShould get the active ones in id order.", success)
		}
	}
}

func Test_PlaceBid(t *testing.T) {
	ctx := context.Background()

	type table struct {
		name   string
		id     uint64
		amount int64
		err    error
	}

	tt := []table{
		{name: "unknown", id: 42, amount: 100, err: liquidator.ErrInvalidLiquidationID},
		{name: "finished", id: 2, amount: 100, err: liquidator.ErrLiquidationFinished},
		{name: "poor", id: 1, amount: 20000, err: liquidator.ErrInsufficientBalance},
	}

	t.Log("Given the need to bid on an auction.")
	{
		for testID, tst := range tt {
			t.Logf("\tTest %d:\tWhen bidding on a %s liquidation.", testID, tst.name)
			{
				f := newFixture(auctions)

				_, err := f.core.PlaceBid(ctx, tst.id, big.NewInt(tst.amount))
				if !errors.Is(err, tst.err) {
					t.Fatalf("\t%s\tTest %d:\tShould get %v, got %v.", failed, testID, tst.err, err)
				}
				t.Logf("\t%s\tTest %d:\tShould get %v.", success, testID, tst.err)

				if len(f.chain.Txs) != 0 {
					t.Fatalf("\t%s\tTest %d:\tShould not submit anything, got %v.", failed, testID, f.chain.Methods())
				}
				t.Logf("\t%s\tTest %d:\tShould not submit anything.", success, testID)
			}
		}

		t.Logf("\tTest %d:\tWhen bidding on an active liquidation.", len(tt))
		{
			f := newFixture(auctions)

			if _, err := f.core.PlaceBid(ctx, 1, big.NewInt(500)); err != nil {
				t.Fatalf("\t%s\tTest %d:\tShould be able to bid: %s", failed, len(tt), err)
			}

			exp := []string{"etherdollar.approve", "liquidator.placeBid"}
			if diff := cmp.Diff(exp, f.chain.Methods()); diff != "" {
				t.Fatalf("\t%s\tTest %d:\tShould approve then bid, diff:\n%s", failed, len(tt), diff)
			}
			t.Logf("\t%s\tTest %d:\tShould approve then bid.", success, len(tt))

			if spender := f.chain.Txs[0].Args[0]; spender != liquidatorAddr {
				t.Fatalf("\t%s\tTest %d:\tShould approve the liquidator, got %v.", failed, len(tt), spender)
			}
			t.Logf("\t%s\tTest %d:\tShould approve the liquidator.", success, len(tt))
		}
	}
}

func Test_StopLiquidation(t *testing.T) {
	ctx := context.Background()

	type table struct {
		name string
		id   uint64
		err  error
	}

	tt := []table{
		{name: "running", id: 1, err: liquidator.ErrLiquidationRunning},
		{name: "finished", id: 2, err: liquidator.ErrLiquidationFinished},
		{name: "unknown", id: 42, err: liquidator.ErrInvalidLiquidationID},
		{name: "expired", id: 3},
	}

	t.Log("Given the need to close an auction.")
	{
		for testID, tst := range tt {
			t.Logf("\tTest %d:\tWhen stopping a %s liquidation.", testID, tst.name)
			{
				f := newFixture(auctions)

				_, err := f.core.StopLiquidation(ctx, tst.id)
				if !errors.Is(err, tst.err) {
					t.Fatalf("\t%s\tTest %d:\tShould get %v, got %v.", failed, testID, tst.err, err)
				}
				t.Logf("\t%s\tTest %d:\tShould get %v.", success, testID, tst.err)

				submitted := len(f.chain.Txs) == 1
				if submitted != (tst.err == nil) {
					t.Fatalf("\t%s\tTest %d:\tShould submit only when allowed, got %v.", failed, testID, f.chain.Methods())
				}
				t.Logf("\t%s\tTest %d:\tShould submit only when allowed.", success, testID)
			}
		}
	}
}

func Test_StopLiquidationClock(t *testing.T) {
	ctx := context.Background()

	t.Log("Given the need to measure auctions by the chain clock.")
	{
		t.Logf("\tTest 0:\tWhen the latest block is past the end of the auction.")
		{
			f := newFixture(auctions)
			core := liquidator.NewCore(liquidator.Config{
				Account:     signer,
				Liquidator:  f.liquidator,
				EtherDollar: f.dollar,
				Clock:       func(ctx context.Context) (time.Time, error) { return now.Add(2 * time.Hour), nil },
			})

			if _, err := core.StopLiquidation(ctx, 1); err != nil {
				t.Fatalf("\t%s\tTest 0:\tShould stop the auction: %s", failed, err)
			}
			t.Logf("\t%s\tTest 0:\tShould stop the auction.", success)
		}

		t.Logf("\tTest 1:\tWhen the latest block can not be read.")
		{
			f := newFixture(auctions)
			errHeader := errors.New("latest header: unavailable")
			core := liquidator.NewCore(liquidator.Config{
				Account:     signer,
				Liquidator:  f.liquidator,
				EtherDollar: f.dollar,
				Clock:       func(ctx context.Context) (time.Time, error) { return time.Time{}, errHeader },
			})

			if _, err := core.StopLiquidation(ctx, 3); !errors.Is(err, errHeader) {
				t.Fatalf("\t%s\tTest 1:\tShould return the clock error, got %v.", failed, err)
			}
			t.Logf("\t%s\tTest 1:\tShould return the clock error.", success)

			if len(f.chain.Txs) != 0 {
				t.Fatalf("\t%s\tTest 1:\tShould not submit, got %v.", failed, f.chain.Methods())
			}
			t.Logf("\t%s\tTest 1:\tShould not submit.", success)
		}
	}
}

func Test_Withdraw(t *testing.T) {
	ctx := context.Background()

	t.Log("Given the need to withdraw from the deposit.")
	{
		t.Logf("\tTest 0:\tWhen the deposit covers the amount.")
		{
			f := newFixture(nil)

			if _, err := f.core.Withdraw(ctx, big.NewInt(5000)); err != nil {
				t.Fatalf("\t%s\tTest 0:\tShould be able to withdraw: %s", failed, err)
			}

			if diff := cmp.Diff([]string{"liquidator.withdraw"}, f.chain.Methods()); diff != "" {
				t.Fatalf("\t%s\tTest 0:\tShould submit the withdrawal, diff:\n%s", failed, diff)
			}
			t.Logf("\t%s\tTest 0:\tShould submit the withdrawal.", success)
		}

		t.Logf("\tTest 1:\tWhen the amount exceeds the deposit.")
		{
			f := newFixture(nil)

			if _, err := f.core.Withdraw(ctx, big.NewInt(5001)); !errors.Is(err, liquidator.ErrExceedsDeposit) {
				t.Fatalf("\t%s\tTest 1:\tShould get ErrExceedsDeposit, got %v.", failed, err)
			}
			t.Logf("\t%s\tTest 1:\tShould get ErrExceedsDeposit.", success)
		}
	}
}
