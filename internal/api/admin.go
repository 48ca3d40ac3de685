package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/willfong/bankfront/internal/models"
)

const (
	PathFreeze     = "/security/admin/freeze"
	PathLostReport = "/security/admin/lost-report"
)

type lostReportRequest struct {
	CardID       string            `json:"cardId"`
	Operation    string            `json:"operation"`
	ReasonType   models.ReasonType `json:"reasonType"`
	ReasonDetail string            `json:"reasonDetail"`
}

// Freeze submits a freeze or unfreeze request
func (c *Client) Freeze(ctx context.Context, req models.AuditableOperationRequest) (models.OperationAck, error) {
	if req.Operation != models.OpFreeze && req.Operation != models.OpUnfreeze {
		return models.OperationAck{}, fmt.Errorf("freeze endpoint does not accept %q", req.Operation)
	}
	return call[models.OperationAck](ctx, c, http.MethodPost, PathFreeze, req)
}

// LostReport submits a report-lost or cancel-lost request
func (c *Client) LostReport(ctx context.Context, req models.AuditableOperationRequest) (models.OperationAck, error) {
	body := lostReportRequest{
		CardID:       req.TargetID,
		ReasonType:   req.ReasonType,
		ReasonDetail: req.ReasonDetail,
	}
	switch req.Operation {
	case models.OpReportLost:
		body.Operation = "report"
	case models.OpCancelLost:
		body.Operation = "cancel"
	default:
		return models.OperationAck{}, fmt.Errorf("lost-report endpoint does not accept %q", req.Operation)
	}
	return call[models.OperationAck](ctx, c, http.MethodPost, PathLostReport, body)
}
