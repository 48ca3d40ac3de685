// Package interest computes projected and accrued interest for fixed deposits.
//
// All arithmetic is exact decimal arithmetic. Results are rounded to two places
// only by Present, so previews recomputed on every keystroke never accumulate
// rounding error.
package interest

import (
	"time"

	"github.com/shopspring/decimal"
)

var (
	monthsPerYear = decimal.NewFromInt(12)
	daysPerYear   = decimal.NewFromInt(365)
)

// ProjectedInterest returns principal × annualRate × termMonths / 12
func ProjectedInterest(principal, annualRate decimal.Decimal, termMonths int) decimal.Decimal {
	if termMonths <= 0 {
		return decimal.Zero
	}
	return principal.Mul(annualRate).Mul(decimal.NewFromInt(int64(termMonths))).Div(monthsPerYear)
}

// ExpectedTotalReturn is principal plus interest
func ExpectedTotalReturn(principal, interest decimal.Decimal) decimal.Decimal {
	return principal.Add(interest)
}

// HeldDays returns the number of whole days between start and now, never negative
func HeldDays(start, now time.Time) int {
	if start.IsZero() || !now.After(start) {
		return 0
	}
	return int(now.Sub(start).Hours() / 24)
}

// EarlyWithdrawalInterest accrues interest at the demand rate over the days held.
// The demand rate is supplied by the backend; it is never guessed here.
func EarlyWithdrawalInterest(principal, demandRate decimal.Decimal, start, now time.Time) decimal.Decimal {
	days := HeldDays(start, now)
	if days == 0 {
		return decimal.Zero
	}
	return principal.Mul(demandRate).Mul(decimal.NewFromInt(int64(days))).Div(daysPerYear)
}

// Present rounds a monetary value to two places for display
func Present(d decimal.Decimal) string {
	return d.StringFixed(2)
}

// Quote gathers the figures shown for a certificate. Early figures are only
// populated when a demand rate is known.
type Quote struct {
	Principal    decimal.Decimal
	TermRate     decimal.Decimal
	TermMonths   int
	TermInterest decimal.Decimal
	TermTotal    decimal.Decimal

	HasEarly      bool
	DemandRate    decimal.Decimal
	HeldDays      int
	EarlyInterest decimal.Decimal
	EarlyTotal    decimal.Decimal
}

// NewQuote computes the term projection for principal at annualRate over termMonths
func NewQuote(principal, annualRate decimal.Decimal, termMonths int) Quote {
	termInterest := ProjectedInterest(principal, annualRate, termMonths)
	return Quote{
		Principal:    principal,
		TermRate:     annualRate,
		TermMonths:   termMonths,
		TermInterest: termInterest,
		TermTotal:    ExpectedTotalReturn(principal, termInterest),
	}
}

// WithEarlyWithdrawal adds the early-withdrawal projection at demandRate for a
// certificate started at start and withdrawn at now.
func (q Quote) WithEarlyWithdrawal(demandRate decimal.Decimal, start, now time.Time) Quote {
	q.HasEarly = true
	q.DemandRate = demandRate
	q.HeldDays = HeldDays(start, now)
	q.EarlyInterest = EarlyWithdrawalInterest(q.Principal, demandRate, start, now)
	q.EarlyTotal = ExpectedTotalReturn(q.Principal, q.EarlyInterest)
	return q
}
