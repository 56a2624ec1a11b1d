/**
 * @description
 * Reducing-balance amortization math shared by the underwriter's EMI preview
 * and the billing engine's cycle generation. Both callers must go through
 * MonthlyInstallment so the previewed and the billed installment can never
 * drift apart.
 */

package domain

import "github.com/shopspring/decimal"

var (
	one           = decimal.NewFromInt(1)
	hundred       = decimal.NewFromInt(100)
	monthsPerYear = decimal.NewFromInt(12)
)

// MonthlyRate converts an annual percentage rate to a monthly fraction.
func MonthlyRate(annualRatePercent decimal.Decimal) decimal.Decimal {
	return annualRatePercent.Div(hundred).Div(monthsPerYear)
}

// MonthlyInstallment computes the EMI for a loan under reducing-balance
// amortization: EMI = P*r*(1+r)^n / ((1+r)^n - 1), rounded to two places.
//
// The formula is undefined at r = 0; validation guarantees a positive rate,
// but a zero rate degrades to the straight-line installment P/n rather than
// dividing by zero.
func MonthlyInstallment(principal, annualRatePercent decimal.Decimal, termMonths int) decimal.Decimal {
	n := decimal.NewFromInt(int64(termMonths))
	r := MonthlyRate(annualRatePercent)
	if r.IsZero() {
		return principal.Div(n).Round(2)
	}
	growth := one.Add(r).Pow(n) // (1+r)^n
	return principal.Mul(r).Mul(growth).Div(growth.Sub(one)).Round(2)
}

// CycleSplit splits one billing cycle's installment into its interest and
// principal components against the given outstanding-principal basis.
// The returned outstanding never goes below zero.
func CycleSplit(basis, annualRatePercent, emi decimal.Decimal) (interest, principalComponent, outstanding decimal.Decimal) {
	interest = basis.Mul(MonthlyRate(annualRatePercent)).Round(2)
	principalComponent = emi.Sub(interest)
	outstanding = basis.Sub(principalComponent)
	if outstanding.IsNegative() {
		outstanding = decimal.Zero
	}
	return interest, principalComponent, outstanding
}
