package bank

import (
	"errors"
	"math/big"

	"github.com/ardanlabs/erc20bank/foundation/units"
)

// Set of errors returned by the checks performed before submitting a
// transaction. They mirror checks the bank contract performs itself.
var (
	ErrInvalidLoanID          = errors.New("invalid loan id")
	ErrInsufficientCollateral = errors.New("insufficient collateral")
	ErrSufficientCollateral   = errors.New("sufficient collateral")
	ErrInsufficientBalance    = errors.New("insufficient balance")
	ErrInsufficientEther      = errors.New("insufficient ether to cover the value and gas")
	ErrExceedsLoan            = errors.New("the amount exceeds the loan")
)

// CompareCollateral compares the dollar value of the collateral against the
// ratio times the loan amount. It returns -1 when the collateral is worth
// less, 0 when equal and +1 when worth more.
//
//	collateral/1e18 × price/1e18  ?  ratio/1000 × amount/10^decimals
func CompareCollateral(collateral *big.Int, amount *big.Int, decimals int32, v Variables) int {
	lhs := new(big.Int).Mul(collateral, v.CollateralPrice)
	lhs.Mul(lhs, units.Scale(units.RatioDecimals))
	lhs.Mul(lhs, units.Scale(decimals))

	rhs := new(big.Int).Mul(v.CollateralRatio, amount)
	rhs.Mul(rhs, units.Scale(units.EtherDecimals+units.PriceDecimals))

	return lhs.Cmp(rhs)
}

// CheckLoanRequest validates the collateral covers the requested amount.
func CheckLoanRequest(collateral *big.Int, amount *big.Int, decimals int32, v Variables) error {
	if CompareCollateral(collateral, amount, decimals, v) < 0 {
		return ErrInsufficientCollateral
	}
	return nil
}

// CheckDecrease validates a collateral withdrawal and returns the amount of
// collateral to withdraw. A fully repaid loan withdraws all its collateral
// regardless of the requested amount.
func CheckDecrease(loan Loan, decrease *big.Int, decimals int32, v Variables) (*big.Int, error) {
	if loan.Amount.Sign() == 0 {
		return new(big.Int).Set(loan.Collateral), nil
	}

	if err := units.Positive(decrease); err != nil {
		return nil, err
	}

	remaining := new(big.Int).Sub(loan.Collateral, decrease)
	if remaining.Sign() < 0 || CompareCollateral(remaining, loan.Amount, decimals, v) < 0 {
		return nil, ErrInsufficientCollateral
	}

	return decrease, nil
}

// CheckSettle validates the signer can pay the amount and the amount does
// not exceed what is owed.
func CheckSettle(balance *big.Int, loan Loan, amount *big.Int) error {
	if balance.Cmp(amount) < 0 {
		return ErrInsufficientBalance
	}

	if loan.Amount.Cmp(amount) < 0 {
		return ErrExceedsLoan
	}

	return nil
}

// CheckLiquidate validates the loan is under collateralized. A loan whose
// collateral is worth exactly the required amount may be liquidated.
func CheckLiquidate(loan Loan, decimals int32, v Variables) error {
	if CompareCollateral(loan.Collateral, loan.Amount, decimals, v) > 0 {
		return ErrSufficientCollateral
	}
	return nil
}

// Liquidatable reports whether the loan is active and its collateral is
// worth less than the ratio requires.
func Liquidatable(loan Loan, decimals int32, v Variables) bool {
	return loan.State == StateActive && CompareCollateral(loan.Collateral, loan.Amount, decimals, v) < 0
}
