package models

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestCardValidate(t *testing.T) {
	tests := []struct {
		name    string
		card    Card
		wantErr bool
	}{
		{"consistent", Card{CardID: "6222000011112222", Balance: dec("800"), FrozenAmount: dec("300"), AvailableBalance: dec("500")}, false},
		{"nothing frozen", Card{CardID: "1", Balance: dec("10.50"), FrozenAmount: dec("0"), AvailableBalance: dec("10.5")}, false},
		{"available drifted", Card{CardID: "2", Balance: dec("800"), FrozenAmount: dec("300"), AvailableBalance: dec("800")}, true},
		{"negative available", Card{CardID: "3", Balance: dec("100"), FrozenAmount: dec("200"), AvailableBalance: dec("-100")}, true},
		{"unknown status", Card{CardID: "4", Balance: dec("1"), FrozenAmount: dec("0"), AvailableBalance: dec("1"), Status: 9}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.card.Validate()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, ErrInconsistentSnapshot) {
				t.Errorf("Expected ErrInconsistentSnapshot, got %v", err)
			}
		})
	}
}

func TestCardWithConfirmedBalance(t *testing.T) {
	card := Card{CardID: "1", Balance: dec("800"), FrozenAmount: dec("300"), AvailableBalance: dec("500")}

	updated := card.WithConfirmedBalance(dec("300"))

	if !updated.AvailableBalance.Equal(dec("0")) {
		t.Errorf("Expected available 0, got %s", updated.AvailableBalance)
	}
	if err := updated.Validate(); err != nil {
		t.Errorf("Expected optimistic copy to stay consistent, got %v", err)
	}
	if !card.Balance.Equal(dec("800")) {
		t.Error("WithConfirmedBalance must not mutate the original snapshot")
	}
}

func TestCardStatus(t *testing.T) {
	if !CardStatusCancelled.IsTerminal() {
		t.Error("Cancelled must be terminal")
	}
	for _, s := range []CardStatus{CardStatusNormal, CardStatusLost, CardStatusFrozen} {
		if s.IsTerminal() {
			t.Errorf("%s must not be terminal", s)
		}
	}
	if CardStatus(7).String() != "unknown(7)" {
		t.Errorf("Expected unknown(7), got %s", CardStatus(7))
	}
}

func TestCardMaskedID(t *testing.T) {
	card := Card{CardID: "6222020200112233"}
	if card.MaskedID() != "**** 2233" {
		t.Errorf("Expected '**** 2233', got %q", card.MaskedID())
	}
}
