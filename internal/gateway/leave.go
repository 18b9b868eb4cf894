package gateway

import (
	"context"
	"net/http"
	"strings"

	"github.com/noah-isme/intranet-portal-client/internal/models"
)

// LeaveGateway wraps /leave.
type LeaveGateway struct {
	base
}

func NewLeaveGateway(deps Deps) *LeaveGateway {
	return &LeaveGateway{base: newBase("leave", deps)}
}

func (g *LeaveGateway) MyRequests(ctx context.Context) ([]models.LeaveRequest, error) {
	return list[models.LeaveRequest](ctx, g.base, "leave.my_requests", "/leave/my-requests")
}

// Pending lists requests awaiting the signed-in approver.
func (g *LeaveGateway) Pending(ctx context.Context) ([]models.LeaveRequest, error) {
	return list[models.LeaveRequest](ctx, g.base, "leave.pending", "/leave/pending")
}

func (g *LeaveGateway) Create(ctx context.Context, req models.CreateLeaveRequest) (*models.LeaveRequest, error) {
	if err := g.check("leave.create", req); err != nil {
		return nil, err
	}
	return one[models.LeaveRequest](ctx, g.base, "leave.create", http.MethodPost, "/leave", req)
}

func (g *LeaveGateway) Approve(ctx context.Context, id string) (bool, error) {
	if err := g.checkID("leave.approve", id); err != nil {
		return false, err
	}
	return action(ctx, g.base, "leave.approve", http.MethodPost, path("leave", id, "approve"), nil)
}

func (g *LeaveGateway) Reject(ctx context.Context, id, reason string) (bool, error) {
	if err := g.checkID("leave.reject", id); err != nil {
		return false, err
	}
	req := models.RejectRequest{RejectionReason: strings.TrimSpace(reason)}
	if err := g.check("leave.reject", req); err != nil {
		return false, err
	}
	return action(ctx, g.base, "leave.reject", http.MethodPost, path("leave", id, "reject"), req)
}

// Cancel withdraws a pending request.
func (g *LeaveGateway) Cancel(ctx context.Context, id string) (bool, error) {
	if err := g.checkID("leave.cancel", id); err != nil {
		return false, err
	}
	return action(ctx, g.base, "leave.cancel", http.MethodDelete, path("leave", id), nil)
}
