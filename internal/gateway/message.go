package gateway

import (
	"context"
	"net/http"

	"github.com/noah-isme/intranet-portal-client/internal/models"
)

// MessageGateway wraps /messages.
type MessageGateway struct {
	base
}

func NewMessageGateway(deps Deps) *MessageGateway {
	return &MessageGateway{base: newBase("messages", deps)}
}

func (g *MessageGateway) Inbox(ctx context.Context) ([]models.Message, error) {
	return list[models.Message](ctx, g.base, "messages.inbox", "/messages/inbox")
}

func (g *MessageGateway) Sent(ctx context.Context) ([]models.Message, error) {
	return list[models.Message](ctx, g.base, "messages.sent", "/messages/sent")
}

func (g *MessageGateway) Get(ctx context.Context, id string) (*models.Message, error) {
	if err := g.checkID("messages.get", id); err != nil {
		return nil, err
	}
	return one[models.Message](ctx, g.base, "messages.get", http.MethodGet, path("messages", id), nil)
}

func (g *MessageGateway) Send(ctx context.Context, req models.SendMessageRequest) (*models.Message, error) {
	if err := g.check("messages.send", req); err != nil {
		return nil, err
	}
	return one[models.Message](ctx, g.base, "messages.send", http.MethodPost, "/messages", req)
}

func (g *MessageGateway) MarkRead(ctx context.Context, id string) (bool, error) {
	if err := g.checkID("messages.mark_read", id); err != nil {
		return false, err
	}
	return action(ctx, g.base, "messages.mark_read", http.MethodPut, path("messages", id, "read"), nil)
}

func (g *MessageGateway) Delete(ctx context.Context, id string) (bool, error) {
	if err := g.checkID("messages.delete", id); err != nil {
		return false, err
	}
	return action(ctx, g.base, "messages.delete", http.MethodDelete, path("messages", id), nil)
}

// UnreadCount returns 0 alongside the error when the call fails.
func (g *MessageGateway) UnreadCount(ctx context.Context) (int, error) {
	out, err := one[models.UnreadCount](ctx, g.base, "messages.unread_count", http.MethodGet, "/messages/unread-count", nil)
	if err != nil || out == nil {
		return 0, err
	}
	return out.Count, nil
}
