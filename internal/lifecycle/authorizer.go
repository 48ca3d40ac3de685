// Package lifecycle decides which operations a surface may offer on a bank card or
// fixed-deposit certificate, given its status and the principal's role.
//
// Every function here is pure. Fixed-deposit maturity is derived from the clock on
// each call so the offered actions can never drift from wall-clock time.
package lifecycle

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/willfong/bankfront/internal/models"
)

// ErrOperationNotLegal is returned when a request is built for an operation the
// current status does not permit. Reaching it means the caller skipped the check.
var ErrOperationNotLegal = errors.New("operation not legal for current status")

// OperationSet is an unordered set of legal operations
type OperationSet map[models.Operation]struct{}

func newSet(ops ...models.Operation) OperationSet {
	set := make(OperationSet, len(ops))
	for _, op := range ops {
		set[op] = struct{}{}
	}
	return set
}

// Has reports whether op is in the set
func (s OperationSet) Has(op models.Operation) bool {
	_, ok := s[op]
	return ok
}

// Len returns the number of operations
func (s OperationSet) Len() int {
	return len(s)
}

// Sorted returns the operations in a stable order for display
func (s OperationSet) Sorted() []models.Operation {
	out := make([]models.Operation, 0, len(s))
	for op := range s {
		out = append(out, op)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

func (s OperationSet) String() string {
	ops := s.Sorted()
	parts := make([]string, len(ops))
	for i, op := range ops {
		parts[i] = string(op)
	}
	return "{" + strings.Join(parts, ", ") + "}"
}

// CardOperations returns the operations legal for a card in the given status
// when driven by a principal of the given kind.
func CardOperations(status models.CardStatus, kind models.PrincipalKind) OperationSet {
	switch kind {
	case models.KindAdministrator:
		switch status {
		case models.CardStatusNormal:
			return newSet(models.OpFreeze, models.OpReportLost)
		case models.CardStatusLost:
			return newSet(models.OpCancelLost)
		case models.CardStatusFrozen:
			return newSet(models.OpUnfreeze)
		}
	case models.KindCustomer:
		if status == models.CardStatusNormal {
			return newSet(models.OpDeposit, models.OpWithdraw, models.OpCreateFixedDeposit, models.OpUnbind)
		}
	}
	return newSet()
}

// FixedDepositOperations returns the operations legal for a certificate at time now.
// An in-progress certificate past its end time is treated as matured, in addition
// to still allowing early withdrawal.
func FixedDepositOperations(fd models.FixedDeposit, now time.Time) OperationSet {
	switch fd.Status {
	case models.FixedDepositInProgress:
		if fd.PastEndTime(now) {
			return newSet(models.OpEarlyWithdraw, models.OpMatureWithdraw)
		}
		return newSet(models.OpEarlyWithdraw)
	case models.FixedDepositMatured:
		return newSet(models.OpMatureWithdraw)
	default:
		return newSet()
	}
}

// RequireCardOperation returns ErrOperationNotLegal unless op is legal for the card
func RequireCardOperation(card models.Card, kind models.PrincipalKind, op models.Operation) error {
	if !CardOperations(card.Status, kind).Has(op) {
		return fmt.Errorf("%w: %s on %s card as %s", ErrOperationNotLegal, op, card.Status, kind)
	}
	return nil
}

// RequireFixedDepositOperation returns ErrOperationNotLegal unless op is legal at now
func RequireFixedDepositOperation(fd models.FixedDeposit, now time.Time, op models.Operation) error {
	if !FixedDepositOperations(fd, now).Has(op) {
		return fmt.Errorf("%w: %s on %s certificate", ErrOperationNotLegal, op, fd.EffectiveStatus(now))
	}
	return nil
}

// NewAuditableRequest builds an administrator request for card, refusing
// operations the card's current status does not allow.
func NewAuditableRequest(card models.Card, op models.Operation, reason models.ReasonType, detail string) (models.AuditableOperationRequest, error) {
	if err := RequireCardOperation(card, models.KindAdministrator, op); err != nil {
		return models.AuditableOperationRequest{}, err
	}
	return models.AuditableOperationRequest{
		TargetType:   models.TargetCard,
		TargetID:     card.CardID,
		Operation:    op,
		ReasonType:   reason,
		ReasonDetail: strings.TrimSpace(detail),
	}, nil
}
