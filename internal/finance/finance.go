// Package finance holds the pure contract arithmetic. Every function here is
// stateless; persistence and rounding-for-display belong to the callers.
package finance

import "fmt"

// DefaultPenaltyRate is the percent-per-day penalty applied when a contract
// runs past its due date and no explicit rate is configured.
const DefaultPenaltyRate = 1.0

// Interest computes simple pro-rata interest: principal * rate * days / 100.
// The rate is entered as a monthly percentage but multiplied by a day count,
// exactly as the shop has always billed it. Do not "correct" the formula
// without the owner's sign-off.
func Interest(principal, ratePercent float64, days int) float64 {
	return principal * ratePercent * float64(days) / 100
}

// Penalty computes the overdue charge: principal * rate * overdueDays / 100
func Penalty(principal float64, overdueDays int, penaltyRate float64) float64 {
	return principal * penaltyRate * float64(overdueDays) / 100
}

// RedemptionTotal is the payoff amount a customer owes to close a contract
func RedemptionTotal(pawnAmount, interest, fee, penalty, discount float64) float64 {
	return pawnAmount + interest + fee + penalty - discount
}

// RedemptionTotalAfterTax is the payoff variant with withholding tax taken
// off the top. Kept as a separate operation; receipt and summary call sites
// differ on which form they need.
func RedemptionTotalAfterTax(pawnAmount, interest, fee, penalty, discount, withholdingTax float64) float64 {
	return pawnAmount + interest + fee + penalty - discount - withholdingTax
}

// FormatContractNumber renders a business key as prefix + zero-padded
// four-digit sequence, e.g. "CN" + 1 -> "CN0001".
func FormatContractNumber(prefix string, sequence int) string {
	return fmt.Sprintf("%s%04d", prefix, sequence)
}

// FormatCustomerCode renders a customer business key the same way
func FormatCustomerCode(prefix string, sequence int) string {
	return fmt.Sprintf("%s%04d", prefix, sequence)
}
