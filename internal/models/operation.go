package models

// Operation names an action a surface may offer on an instrument
type Operation string

const (
	// Customer card operations
	OpDeposit            Operation = "deposit"
	OpWithdraw           Operation = "withdraw"
	OpCreateFixedDeposit Operation = "create-fixed-deposit"
	OpUnbind             Operation = "unbind"

	// Administrator card operations
	OpFreeze     Operation = "freeze"
	OpUnfreeze   Operation = "unfreeze"
	OpReportLost Operation = "report-lost"
	OpCancelLost Operation = "cancel-lost"

	// Fixed-deposit operations
	OpEarlyWithdraw  Operation = "early-withdraw"
	OpMatureWithdraw Operation = "mature-withdraw"

	// OpBindCard is offered by the card list itself, not by a card's status
	OpBindCard Operation = "bind-card"
)

// IsAdministrative reports whether the operation is an audited administrator action
func (o Operation) IsAdministrative() bool {
	switch o {
	case OpFreeze, OpUnfreeze, OpReportLost, OpCancelLost:
		return true
	default:
		return false
	}
}

// IsDebit reports whether the operation moves money out of the card
func (o Operation) IsDebit() bool {
	return o == OpWithdraw || o == OpCreateFixedDeposit
}
