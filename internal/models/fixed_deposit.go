package models

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// FixedDepositStatus is the backend status code of a fixed-deposit certificate
type FixedDepositStatus int

const (
	FixedDepositInProgress FixedDepositStatus = 0
	FixedDepositMatured    FixedDepositStatus = 1
	FixedDepositWithdrawn  FixedDepositStatus = 2
)

func (s FixedDepositStatus) String() string {
	switch s {
	case FixedDepositInProgress:
		return "in_progress"
	case FixedDepositMatured:
		return "matured"
	case FixedDepositWithdrawn:
		return "withdrawn"
	default:
		return fmt.Sprintf("unknown(%d)", int(s))
	}
}

// IsTerminal reports whether no transition can leave this status
func (s FixedDepositStatus) IsTerminal() bool {
	return s == FixedDepositWithdrawn
}

// FixedDeposit is a client copy of a fixed-deposit certificate
type FixedDeposit struct {
	FDID       int64              `json:"fdId"`
	CardID     string             `json:"cardId"`
	Principal  decimal.Decimal    `json:"principal"`
	AnnualRate decimal.Decimal    `json:"annualRate"`
	TermMonths int                `json:"term"`
	StartTime  Timestamp          `json:"startTime"`
	EndTime    Timestamp          `json:"endTime"`
	AutoRenew  bool               `json:"autoRenew"`
	Status     FixedDepositStatus `json:"status"`
}

// PastEndTime reports whether now has reached the certificate's end time
func (f FixedDeposit) PastEndTime(now time.Time) bool {
	return !f.EndTime.IsZero() && !now.Before(f.EndTime.Time)
}

// EffectiveStatus folds time-derived maturity into the server-reported status.
// It is recomputed on every call and never stored.
func (f FixedDeposit) EffectiveStatus(now time.Time) FixedDepositStatus {
	if f.Status == FixedDepositInProgress && f.PastEndTime(now) {
		return FixedDepositMatured
	}
	return f.Status
}

// Elapsed returns the fraction of the term that has passed, clamped to [0, 1]
func (f FixedDeposit) Elapsed(now time.Time) float64 {
	if f.StartTime.IsZero() || f.EndTime.IsZero() {
		return 0
	}
	total := f.EndTime.Sub(f.StartTime.Time)
	if total <= 0 {
		return 1
	}
	done := now.Sub(f.StartTime.Time)
	switch {
	case done <= 0:
		return 0
	case done >= total:
		return 1
	default:
		return float64(done) / float64(total)
	}
}

// FixedDepositTerm is one entry of the backend's fixed-deposit product catalogue
type FixedDepositTerm struct {
	TermMonths int             `json:"term"`
	AnnualRate decimal.Decimal `json:"rate"`
	Label      string          `json:"label,omitempty"`
}

// DemandRate is the institution's current demand deposit rate, applied on early withdrawal
type DemandRate struct {
	AnnualRate    decimal.Decimal `json:"rate"`
	EffectiveFrom Timestamp       `json:"effectiveFrom"`
}

// FixedDepositSettlement is the backend's answer to an early or mature withdrawal
type FixedDepositSettlement struct {
	FDID        int64           `json:"fdId"`
	CardID      string          `json:"cardId"`
	Principal   decimal.Decimal `json:"principal"`
	Interest    decimal.Decimal `json:"interest"`
	TotalAmount decimal.Decimal `json:"totalAmount"`
	SettledAt   Timestamp       `json:"settleTime"`
}
