package gateway

import (
	"context"
	"net/http"
	"strings"

	"github.com/noah-isme/intranet-portal-client/internal/models"
)

// ApprovalGateway wraps /approvals.
type ApprovalGateway struct {
	base
}

func NewApprovalGateway(deps Deps) *ApprovalGateway {
	return &ApprovalGateway{base: newBase("approvals", deps)}
}

// MyRequests lists approvals the signed-in user submitted.
func (g *ApprovalGateway) MyRequests(ctx context.Context) ([]models.Approval, error) {
	return list[models.Approval](ctx, g.base, "approvals.my_requests", "/approvals/my-requests")
}

// MyPending lists approvals waiting on the signed-in user.
func (g *ApprovalGateway) MyPending(ctx context.Context) ([]models.Approval, error) {
	return list[models.Approval](ctx, g.base, "approvals.my_pending", "/approvals/my-pending")
}

func (g *ApprovalGateway) Get(ctx context.Context, id string) (*models.Approval, error) {
	if err := g.checkID("approvals.get", id); err != nil {
		return nil, err
	}
	return one[models.Approval](ctx, g.base, "approvals.get", http.MethodGet, path("approvals", id), nil)
}

func (g *ApprovalGateway) Create(ctx context.Context, req models.CreateApprovalRequest) (*models.Approval, error) {
	if err := g.check("approvals.create", req); err != nil {
		return nil, err
	}
	return one[models.Approval](ctx, g.base, "approvals.create", http.MethodPost, "/approvals", req)
}

func (g *ApprovalGateway) Approve(ctx context.Context, id string) (bool, error) {
	if err := g.checkID("approvals.approve", id); err != nil {
		return false, err
	}
	return action(ctx, g.base, "approvals.approve", http.MethodPost, path("approvals", id, "approve"), nil)
}

// Reject requires a non-empty reason; nothing is sent without one.
func (g *ApprovalGateway) Reject(ctx context.Context, id, reason string) (bool, error) {
	if err := g.checkID("approvals.reject", id); err != nil {
		return false, err
	}
	req := models.RejectRequest{RejectionReason: strings.TrimSpace(reason)}
	if err := g.check("approvals.reject", req); err != nil {
		return false, err
	}
	return action(ctx, g.base, "approvals.reject", http.MethodPost, path("approvals", id, "reject"), req)
}

func (g *ApprovalGateway) Delete(ctx context.Context, id string) (bool, error) {
	if err := g.checkID("approvals.delete", id); err != nil {
		return false, err
	}
	ok, err := action(ctx, g.base, "approvals.delete", http.MethodDelete, path("approvals", id), nil)
	if ok {
		g.attachments.Invalidate(ctx, "approval", id)
	}
	return ok, err
}

// Attachment fetches the file body lazily.
func (g *ApprovalGateway) Attachment(ctx context.Context, id string) (*models.AttachmentPayload, error) {
	return fetchAttachment(ctx, g.base, "approval", id)
}
