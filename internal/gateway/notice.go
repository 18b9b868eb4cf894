package gateway

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/noah-isme/intranet-portal-client/internal/models"
)

// NoticeGateway wraps /notices.
type NoticeGateway struct {
	base
}

func NewNoticeGateway(deps Deps) *NoticeGateway {
	return &NoticeGateway{base: newBase("notices", deps)}
}

func (g *NoticeGateway) List(ctx context.Context) ([]models.Notice, error) {
	return list[models.Notice](ctx, g.base, "notices.list", "/notices")
}

func (g *NoticeGateway) Get(ctx context.Context, id string) (*models.Notice, error) {
	if err := g.checkID("notices.get", id); err != nil {
		return nil, err
	}
	return one[models.Notice](ctx, g.base, "notices.get", http.MethodGet, path("notices", id), nil)
}

func (g *NoticeGateway) Create(ctx context.Context, req models.NoticeRequest) (*models.Notice, error) {
	if err := g.check("notices.create", req); err != nil {
		return nil, err
	}
	return one[models.Notice](ctx, g.base, "notices.create", http.MethodPost, "/notices", req)
}

func (g *NoticeGateway) Update(ctx context.Context, id string, req models.NoticeRequest) (*models.Notice, error) {
	if err := g.checkID("notices.update", id); err != nil {
		return nil, err
	}
	if err := g.check("notices.update", req); err != nil {
		return nil, err
	}
	out, err := one[models.Notice](ctx, g.base, "notices.update", http.MethodPut, path("notices", id), req)
	if err == nil {
		g.attachments.Invalidate(ctx, "notice", id)
	}
	return out, err
}

func (g *NoticeGateway) Delete(ctx context.Context, id string) (bool, error) {
	if err := g.checkID("notices.delete", id); err != nil {
		return false, err
	}
	ok, err := action(ctx, g.base, "notices.delete", http.MethodDelete, path("notices", id), nil)
	if ok {
		g.attachments.Invalidate(ctx, "notice", id)
	}
	return ok, err
}

// SearchByTitle is a server-side title search.
func (g *NoticeGateway) SearchByTitle(ctx context.Context, title string) ([]models.Notice, error) {
	endpoint := withQuery("/notices/search", url.Values{"title": {title}})
	return list[models.Notice](ctx, g.base, "notices.search", endpoint)
}

// Filter queries /notices/filter; zero-valued fields are omitted.
func (g *NoticeGateway) Filter(ctx context.Context, f models.NoticeFilter) ([]models.Notice, error) {
	q := url.Values{}
	if f.Department != "" {
		q.Set("department", f.Department)
	}
	if f.IsImportant != nil {
		q.Set("isImportant", strconv.FormatBool(*f.IsImportant))
	}
	if f.Page > 0 {
		q.Set("page", strconv.Itoa(f.Page))
	}
	if f.Size > 0 {
		q.Set("size", strconv.Itoa(f.Size))
	}
	return list[models.Notice](ctx, g.base, "notices.filter", withQuery("/notices/filter", q))
}

func (g *NoticeGateway) Attachment(ctx context.Context, id string) (*models.AttachmentPayload, error) {
	return fetchAttachment(ctx, g.base, "notice", id)
}
