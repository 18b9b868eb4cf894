package gateway

import (
	"context"
	"net/http"

	"github.com/noah-isme/intranet-portal-client/internal/models"
)

// MeetingGateway wraps /meetings.
type MeetingGateway struct {
	base
}

func NewMeetingGateway(deps Deps) *MeetingGateway {
	return &MeetingGateway{base: newBase("meetings", deps)}
}

func (g *MeetingGateway) List(ctx context.Context) ([]models.Meeting, error) {
	return list[models.Meeting](ctx, g.base, "meetings.list", "/meetings")
}

func (g *MeetingGateway) Get(ctx context.Context, id string) (*models.Meeting, error) {
	if err := g.checkID("meetings.get", id); err != nil {
		return nil, err
	}
	return one[models.Meeting](ctx, g.base, "meetings.get", http.MethodGet, path("meetings", id), nil)
}

func (g *MeetingGateway) Create(ctx context.Context, req models.MeetingRequest) (*models.Meeting, error) {
	if err := g.check("meetings.create", req); err != nil {
		return nil, err
	}
	return one[models.Meeting](ctx, g.base, "meetings.create", http.MethodPost, "/meetings", req)
}

// Update replaces the meeting and drops any cached attachment body.
func (g *MeetingGateway) Update(ctx context.Context, id string, req models.MeetingRequest) (*models.Meeting, error) {
	if err := g.checkID("meetings.update", id); err != nil {
		return nil, err
	}
	if err := g.check("meetings.update", req); err != nil {
		return nil, err
	}
	out, err := one[models.Meeting](ctx, g.base, "meetings.update", http.MethodPut, path("meetings", id), req)
	if err == nil {
		g.attachments.Invalidate(ctx, "meeting", id)
	}
	return out, err
}

func (g *MeetingGateway) Delete(ctx context.Context, id string) (bool, error) {
	if err := g.checkID("meetings.delete", id); err != nil {
		return false, err
	}
	ok, err := action(ctx, g.base, "meetings.delete", http.MethodDelete, path("meetings", id), nil)
	if ok {
		g.attachments.Invalidate(ctx, "meeting", id)
	}
	return ok, err
}

func (g *MeetingGateway) Attachment(ctx context.Context, id string) (*models.AttachmentPayload, error) {
	return fetchAttachment(ctx, g.base, "meeting", id)
}
