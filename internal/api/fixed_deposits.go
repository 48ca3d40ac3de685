package api

import (
	"context"
	"net/http"
	"strconv"

	"github.com/shopspring/decimal"
	"github.com/willfong/bankfront/internal/models"
)

const (
	PathFixedDeposits      = "/fixed-deposits"
	PathCreateFixedDeposit = "/fixed-deposits/create"
	PathFixedDepositTerms  = "/fixed-deposits/terms"
	PathDemandRate         = "/rates/demand"
)

// CreateFixedDepositRequest is the body of a certificate purchase
type CreateFixedDepositRequest struct {
	CardID       string          `json:"cardId"`
	Principal    decimal.Decimal `json:"principal"`
	TermMonths   int             `json:"term"`
	CardPassword string          `json:"cardPassword"`
	AutoRenew    bool            `json:"autoRenew"`
}

type cardPasswordRequest struct {
	CardPassword string `json:"cardPassword"`
}

func fixedDepositPath(fdID int64, action string) string {
	return PathFixedDeposits + "/" + strconv.FormatInt(fdID, 10) + "/" + action
}

// ListFixedDeposits returns the signed-in customer's certificates
func (c *Client) ListFixedDeposits(ctx context.Context) ([]models.FixedDeposit, error) {
	return call[[]models.FixedDeposit](ctx, c, http.MethodGet, PathFixedDeposits, nil)
}

// Terms returns the fixed-deposit product catalogue
func (c *Client) Terms(ctx context.Context) ([]models.FixedDepositTerm, error) {
	return call[[]models.FixedDepositTerm](ctx, c, http.MethodGet, PathFixedDepositTerms, nil)
}

// DemandRate returns the rate applied on early withdrawal
func (c *Client) DemandRate(ctx context.Context) (models.DemandRate, error) {
	return call[models.DemandRate](ctx, c, http.MethodGet, PathDemandRate, nil)
}

// CreateFixedDeposit opens a certificate funded from a card
func (c *Client) CreateFixedDeposit(ctx context.Context, req CreateFixedDepositRequest) (models.FixedDeposit, error) {
	return call[models.FixedDeposit](ctx, c, http.MethodPost, PathCreateFixedDeposit, req)
}

// EarlyWithdraw settles a certificate before its end time
func (c *Client) EarlyWithdraw(ctx context.Context, fdID int64, cardPassword string) (models.FixedDepositSettlement, error) {
	return call[models.FixedDepositSettlement](ctx, c, http.MethodPost, fixedDepositPath(fdID, "early-withdraw"), cardPasswordRequest{CardPassword: cardPassword})
}

// MatureWithdraw settles a matured certificate
func (c *Client) MatureWithdraw(ctx context.Context, fdID int64, cardPassword string) (models.FixedDepositSettlement, error) {
	return call[models.FixedDepositSettlement](ctx, c, http.MethodPost, fixedDepositPath(fdID, "mature"), cardPasswordRequest{CardPassword: cardPassword})
}
