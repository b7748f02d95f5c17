package contracts_test

import (
	"testing"

	"github.com/ardanlabs/erc20bank/business/contracts"
)

// Success and failure markers.
const (
	success = "\u2713"
	failed  = "\u2717"
)

func Test_ABI(t *testing.T) {
	methods := map[contracts.Role][]string{
		contracts.Bank:        {"oraclesAddr", "liquidatorAddr", "etherDollarAddr", "collateralRatio", "collateralPrice", "liquidationDuration", "minCollateral", "loans", "getLoan", "increaseCollateral", "decreaseCollateral", "settleLoan", "liquidate"},
		contracts.Oracles:     {"vote", "setScore", "finishRecruiting"},
		contracts.Liquidator:  {"liquidations", "deposits", "placeBid", "stopLiquidation", "withdraw"},
		contracts.EtherDollar: {"balanceOf", "allowance", "approve"},
		contracts.Collateral:  {"balanceOf", "allowance", "approve"},
	}

	t.Log("Given the need to encode calls for every contract role.")
	{
		for testID, role := range contracts.Roles {
			t.Logf("\tTest %d:\tWhen handling the %s role.", testID, role)
			{
				a, err := contracts.ABI(role)
				if err != nil {
					t.Fatalf("\t%s\tTest %d:\tShould be able to parse the abi: %s", failed, testID, err)
				}
				t.Logf("\t%s\tTest %d:\tShould be able to parse the abi.", success, testID)

				for _, m := range methods[role] {
					if _, exists := a.Methods[m]; !exists {
						t.Fatalf("\t%s\tTest %d:\tShould have method %s.", failed, testID, m)
					}
				}
				t.Logf("\t%s\tTest %d:\tShould have every method the clients use.", success, testID)
			}
		}

		t.Logf("\tTest %d:\tWhen handling an unknown role.", len(contracts.Roles))
		{
			if _, err := contracts.ABI("treasury"); err == nil {
				t.Fatalf("\t%s\tTest %d:\tShould reject the role.", failed, len(contracts.Roles))
			}
			t.Logf("\t%s\tTest %d:\tShould reject the role.", success, len(contracts.Roles))
		}
	}
}
