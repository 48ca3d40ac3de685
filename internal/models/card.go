package models

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// CardStatus is the backend status code of a bank card
type CardStatus int

const (
	CardStatusNormal    CardStatus = 0
	CardStatusLost      CardStatus = 1
	CardStatusFrozen    CardStatus = 2
	CardStatusCancelled CardStatus = 3
)

func (s CardStatus) String() string {
	switch s {
	case CardStatusNormal:
		return "normal"
	case CardStatusLost:
		return "lost"
	case CardStatusFrozen:
		return "frozen"
	case CardStatusCancelled:
		return "cancelled"
	default:
		return fmt.Sprintf("unknown(%d)", int(s))
	}
}

// IsTerminal reports whether no transition can leave this status
func (s CardStatus) IsTerminal() bool {
	return s == CardStatusCancelled
}

// Known reports whether s is one of the defined statuses
func (s CardStatus) Known() bool {
	return s >= CardStatusNormal && s <= CardStatusCancelled
}

// ErrInconsistentSnapshot is returned for a card whose balances do not add up
var ErrInconsistentSnapshot = errors.New("inconsistent card snapshot")

// Card is a short-lived client copy of a bank card snapshot owned by the backend ledger
type Card struct {
	CardID           string          `json:"cardId"`
	OwnerUserID      int64           `json:"userId"`
	Balance          decimal.Decimal `json:"balance"`
	AvailableBalance decimal.Decimal `json:"availableBalance"`
	FrozenAmount     decimal.Decimal `json:"frozenAmount"`
	Status           CardStatus      `json:"status"`
	CardType         string          `json:"cardType,omitempty"`
	BindTime         Timestamp       `json:"bindTime"`
}

// Validate checks available = balance - frozen and available >= 0
func (c Card) Validate() error {
	if !c.AvailableBalance.Equal(c.Balance.Sub(c.FrozenAmount)) {
		return fmt.Errorf("%w: card %s available %s != balance %s - frozen %s",
			ErrInconsistentSnapshot, c.CardID, c.AvailableBalance, c.Balance, c.FrozenAmount)
	}
	if c.AvailableBalance.IsNegative() {
		return fmt.Errorf("%w: card %s available balance %s is negative",
			ErrInconsistentSnapshot, c.CardID, c.AvailableBalance)
	}
	if !c.Status.Known() {
		return fmt.Errorf("%w: card %s has status %s", ErrInconsistentSnapshot, c.CardID, c.Status)
	}
	return nil
}

// CanDebit reports whether amount fits in the available balance of this snapshot
func (c Card) CanDebit(amount decimal.Decimal) bool {
	return c.AvailableBalance.GreaterThanOrEqual(amount)
}

// WithConfirmedBalance returns a copy reflecting a balance the backend just confirmed.
// The frozen amount is kept, so the available balance follows the new balance.
func (c Card) WithConfirmedBalance(balance decimal.Decimal) Card {
	c.Balance = balance
	c.AvailableBalance = balance.Sub(c.FrozenAmount)
	return c
}

// MaskedID renders the card number with all but the last four digits hidden
func (c Card) MaskedID() string {
	if len(c.CardID) <= 4 {
		return c.CardID
	}
	return "**** " + c.CardID[len(c.CardID)-4:]
}
