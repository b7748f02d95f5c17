package validate_test

import (
	"testing"

	"github.com/ardanlabs/erc20bank/business/sys/validate"
)

// Success and failure markers.
const (
	success = "\u2713"
	failed  = "\u2717"
)

type input struct {
	Ether   string `flag:"ether" validate:"required,numeric"`
	Owner   string `flag:"owner" validate:"required,eth_addr"`
	Minutes int64  `flag:"liquidation-duration" validate:"gte=0"`
}

func Test_Check(t *testing.T) {
	type table struct {
		name   string
		input  input
		fields []string
	}

	tt := []table{
		{
			name:  "valid",
			input: input{Ether: "1.5", Owner: "0xdd6B972ffcc631a62CAE1BB9d80b7ff429c8ebA4", Minutes: 60},
		},
		{
			name:   "missing",
			input:  input{Owner: "0xdd6B972ffcc631a62CAE1BB9d80b7ff429c8ebA4"},
			fields: []string{"ether"},
		},
		{
			name:   "malformed",
			input:  input{Ether: "one", Owner: "0x1234", Minutes: -1},
			fields: []string{"ether", "owner", "liquidation-duration"},
		},
	}

	t.Log("Given the need to validate command input.")
	{
		for testID, tst := range tt {
			f := func(t *testing.T) {
				t.Logf("\tTest %d:\tWhen handling %s input.", testID, tst.name)
				{
					err := validate.Check(tst.input)

					if len(tst.fields) == 0 {
						if err != nil {
							t.Fatalf("\t%s\tTest %d:\tShould accept the input: %s", failed, testID, err)
						}
						t.Logf("\t%s\tTest %d:\tShould accept the input.", success, testID)
						return
					}

					var fe validate.FieldErrors
					if !validate.IsFieldErrors(err) {
						t.Fatalf("\t%s\tTest %d:\tShould get field errors, got %v.", failed, testID, err)
					}
					fe = err.(validate.FieldErrors)

					fields := fe.Fields()
					for _, name := range tst.fields {
						if _, exists := fields[name]; !exists {
							t.Fatalf("\t%s\tTest %d:\tShould report the %s flag, got %v.", failed, testID, name, fields)
						}
					}
					t.Logf("\t%s\tTest %d:\tShould report every bad flag by name.", success, testID)
				}
			}

			t.Run(tst.name, f)
		}
	}
}
