package lifecycle

import (
	"errors"
	"testing"
	"time"

	"github.com/willfong/bankfront/internal/models"
)

func TestCardOperations(t *testing.T) {
	tests := []struct {
		status models.CardStatus
		kind   models.PrincipalKind
		want   []models.Operation
	}{
		{models.CardStatusNormal, models.KindAdministrator, []models.Operation{models.OpFreeze, models.OpReportLost}},
		{models.CardStatusNormal, models.KindCustomer, []models.Operation{models.OpDeposit, models.OpWithdraw, models.OpCreateFixedDeposit, models.OpUnbind}},
		{models.CardStatusLost, models.KindAdministrator, []models.Operation{models.OpCancelLost}},
		{models.CardStatusLost, models.KindCustomer, nil},
		{models.CardStatusFrozen, models.KindAdministrator, []models.Operation{models.OpUnfreeze}},
		{models.CardStatusFrozen, models.KindCustomer, nil},
		{models.CardStatusNormal, models.KindSignedOut, nil},
	}

	for _, tt := range tests {
		t.Run(tt.status.String()+"/"+tt.kind.String(), func(t *testing.T) {
			got := CardOperations(tt.status, tt.kind)
			if got.Len() != len(tt.want) {
				t.Fatalf("Expected %d operations, got %s", len(tt.want), got)
			}
			for _, op := range tt.want {
				if !got.Has(op) {
					t.Errorf("Expected %s in %s", op, got)
				}
			}
		})
	}
}

func TestCancelledIsTerminalForEveryRole(t *testing.T) {
	for _, kind := range []models.PrincipalKind{models.KindSignedOut, models.KindCustomer, models.KindAdministrator} {
		if ops := CardOperations(models.CardStatusCancelled, kind); ops.Len() != 0 {
			t.Errorf("Expected no operations on cancelled card for %s, got %s", kind, ops)
		}
	}
}

func TestFixedDepositOperations(t *testing.T) {
	now := time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC)
	future := models.NewTimestamp(now.Add(24 * time.Hour))
	past := models.NewTimestamp(now.Add(-24 * time.Hour))

	tests := []struct {
		name string
		fd   models.FixedDeposit
		want []models.Operation
	}{
		{"in progress", models.FixedDeposit{Status: models.FixedDepositInProgress, EndTime: future}, []models.Operation{models.OpEarlyWithdraw}},
		{"in progress past end", models.FixedDeposit{Status: models.FixedDepositInProgress, EndTime: past}, []models.Operation{models.OpEarlyWithdraw, models.OpMatureWithdraw}},
		{"server matured", models.FixedDeposit{Status: models.FixedDepositMatured, EndTime: past}, []models.Operation{models.OpMatureWithdraw}},
		{"withdrawn", models.FixedDeposit{Status: models.FixedDepositWithdrawn, EndTime: past}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FixedDepositOperations(tt.fd, now)
			if got.Len() != len(tt.want) {
				t.Fatalf("Expected %d operations, got %s", len(tt.want), got)
			}
			for _, op := range tt.want {
				if !got.Has(op) {
					t.Errorf("Expected %s in %s", op, got)
				}
			}
		})
	}
}

func TestPastEndTimeAlwaysOffersMatureWithdraw(t *testing.T) {
	now := time.Now()
	for _, status := range []models.FixedDepositStatus{models.FixedDepositInProgress, models.FixedDepositMatured} {
		fd := models.FixedDeposit{Status: status, EndTime: models.NewTimestamp(now.Add(-time.Minute))}
		if !FixedDepositOperations(fd, now).Has(models.OpMatureWithdraw) {
			t.Errorf("Expected mature-withdraw for %s certificate past its end time", status)
		}
	}
}

func TestMaturityIsRecomputedFromClock(t *testing.T) {
	end := time.Date(2026, 7, 1, 0, 0, 0, 0, time.UTC)
	fd := models.FixedDeposit{Status: models.FixedDepositInProgress, EndTime: models.NewTimestamp(end)}

	if FixedDepositOperations(fd, end.Add(-time.Nanosecond)).Has(models.OpMatureWithdraw) {
		t.Error("mature-withdraw offered before end time")
	}
	if !FixedDepositOperations(fd, end).Has(models.OpMatureWithdraw) {
		t.Error("mature-withdraw not offered at end time")
	}
}

func TestNewAuditableRequest(t *testing.T) {
	normal := models.Card{CardID: "6222", Status: models.CardStatusNormal}

	req, err := NewAuditableRequest(normal, models.OpFreeze, models.ReasonSuspicious, "  unusual activity ")
	if err != nil {
		t.Fatalf("Expected freeze on normal card to be legal: %v", err)
	}
	if req.TargetType != models.TargetCard || req.TargetID != "6222" || req.ReasonDetail != "unusual activity" {
		t.Errorf("Unexpected request: %+v", req)
	}

	frozen := models.Card{CardID: "6222", Status: models.CardStatusFrozen}
	if _, err := NewAuditableRequest(frozen, models.OpFreeze, models.ReasonSuspicious, "again"); !errors.Is(err, ErrOperationNotLegal) {
		t.Errorf("Expected ErrOperationNotLegal, got %v", err)
	}

	cancelled := models.Card{CardID: "6222", Status: models.CardStatusCancelled}
	if _, err := NewAuditableRequest(cancelled, models.OpUnfreeze, models.ReasonOther, "x"); !errors.Is(err, ErrOperationNotLegal) {
		t.Errorf("Expected ErrOperationNotLegal on cancelled card, got %v", err)
	}
}

func TestDescribe(t *testing.T) {
	if DescribeCard(models.CardStatusFrozen) != "冻结" {
		t.Errorf("Unexpected label %q", DescribeCard(models.CardStatusFrozen))
	}
	if CardCustomerNotice(models.CardStatusNormal) != "" {
		t.Error("normal card should have no notice")
	}

	now := time.Now()
	fd := models.FixedDeposit{Status: models.FixedDepositInProgress, EndTime: models.NewTimestamp(now.Add(-time.Hour))}
	if DescribeFixedDeposit(fd, now) != "已到期" {
		t.Errorf("Expected derived matured label, got %q", DescribeFixedDeposit(fd, now))
	}
}
