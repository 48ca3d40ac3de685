package models

import "github.com/shopspring/decimal"

// TransactionResult is the backend's authoritative answer to a deposit or withdrawal
type TransactionResult struct {
	TransactionID    string          `json:"transactionId"`
	CardID           string          `json:"cardId"`
	Amount           decimal.Decimal `json:"amount"`
	BalanceAfter     decimal.Decimal `json:"balance"`
	AvailableBalance decimal.Decimal `json:"availableBalance"`
	Remark           string          `json:"remark,omitempty"`
	TransactionTime  Timestamp       `json:"transTime"`
}

// OperationAck is returned by administrator actions. Status is nil when the
// backend did not report the new card status.
type OperationAck struct {
	TargetID string      `json:"targetId"`
	Status   *CardStatus `json:"status,omitempty"`
	Message  string      `json:"message,omitempty"`
}

// CardStatus returns the reported status and whether there was one
func (a OperationAck) CardStatus() (CardStatus, bool) {
	if a.Status == nil {
		return CardStatusNormal, false
	}
	return *a.Status, true
}
