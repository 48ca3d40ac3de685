package api

import (
	"context"
	"net/http"
	"net/url"

	"github.com/shopspring/decimal"
	"github.com/willfong/bankfront/internal/models"
)

const (
	PathCards      = "/cards"
	PathBindCard   = "/cards/bind"
	PathAdminCards = "/admin/cards"
	PathDeposit    = "/transactions/deposit"
	PathWithdraw   = "/transactions/withdraw"
)

// TransactionRequest is the body of a deposit or withdrawal
type TransactionRequest struct {
	CardID       string          `json:"cardId"`
	Amount       decimal.Decimal `json:"amount"`
	CardPassword string          `json:"cardPassword"`
	Remark       string          `json:"remark,omitempty"`
}

// BindCardRequest is the body of a card binding
type BindCardRequest struct {
	CardID       string `json:"cardId"`
	CardPassword string `json:"cardPassword"`
}

type unbindRequest struct {
	CardPassword string `json:"cardPassword"`
}

// ListCards returns the signed-in customer's cards
func (c *Client) ListCards(ctx context.Context) ([]models.Card, error) {
	return call[[]models.Card](ctx, c, http.MethodGet, PathCards, nil)
}

// GetCard returns a fresh snapshot of one card
func (c *Client) GetCard(ctx context.Context, cardID string) (models.Card, error) {
	return call[models.Card](ctx, c, http.MethodGet, PathCards+"/"+url.PathEscape(cardID), nil)
}

// AdminListCards returns every card visible to an administrator
func (c *Client) AdminListCards(ctx context.Context) ([]models.Card, error) {
	return call[[]models.Card](ctx, c, http.MethodGet, PathAdminCards, nil)
}

// BindCard attaches an existing card to the signed-in customer
func (c *Client) BindCard(ctx context.Context, req BindCardRequest) (models.Card, error) {
	return call[models.Card](ctx, c, http.MethodPost, PathBindCard, req)
}

// UnbindCard detaches a card from the signed-in customer
func (c *Client) UnbindCard(ctx context.Context, cardID, cardPassword string) error {
	path := PathCards + "/" + url.PathEscape(cardID) + "/unbind"
	_, err := call[Empty](ctx, c, http.MethodPost, path, unbindRequest{CardPassword: cardPassword})
	return err
}

// Deposit credits a card
func (c *Client) Deposit(ctx context.Context, req TransactionRequest) (models.TransactionResult, error) {
	return call[models.TransactionResult](ctx, c, http.MethodPost, PathDeposit, req)
}

// Withdraw debits a card
func (c *Client) Withdraw(ctx context.Context, req TransactionRequest) (models.TransactionResult, error) {
	return call[models.TransactionResult](ctx, c, http.MethodPost, PathWithdraw, req)
}
