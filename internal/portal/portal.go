// Package portal assembles the client context shared by every view: one
// token store, one API client and the gateways built on it.
package portal

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/noah-isme/intranet-portal-client/internal/attachment"
	"github.com/noah-isme/intranet-portal-client/internal/client"
	"github.com/noah-isme/intranet-portal-client/internal/codec"
	"github.com/noah-isme/intranet-portal-client/internal/gateway"
	"github.com/noah-isme/intranet-portal-client/internal/listview"
	"github.com/noah-isme/intranet-portal-client/internal/models"
	"github.com/noah-isme/intranet-portal-client/internal/session"
	"github.com/noah-isme/intranet-portal-client/internal/telemetry"
	"github.com/noah-isme/intranet-portal-client/pkg/cache"
	"github.com/noah-isme/intranet-portal-client/pkg/config"
	"github.com/noah-isme/intranet-portal-client/pkg/eventloop"
	"github.com/noah-isme/intranet-portal-client/pkg/logger"
	"github.com/noah-isme/intranet-portal-client/pkg/storage"
	"github.com/noah-isme/intranet-portal-client/pkg/workers"
)

// Portal is constructed once per process and handed to views by reference.
type Portal struct {
	Config  *config.Config
	Logger  *zap.Logger
	Tokens  *session.TokenStore
	API     *client.APIClient
	Metrics *telemetry.Metrics

	Validate    *validator.Validate
	Attachments *attachment.Cache
	Downloads   *storage.LocalStorage

	Auth       *gateway.AuthGateway
	Approvals  *gateway.ApprovalGateway
	Meetings   *gateway.MeetingGateway
	Notices    *gateway.NoticeGateway
	Employees  *gateway.EmployeeGateway
	Attendance *gateway.AttendanceGateway
	Leave      *gateway.LeaveGateway
	Messages   *gateway.MessageGateway

	Loop *eventloop.Loop
	Pool *workers.Pool

	redis *redis.Client
}

// Option customises construction.
type Option func(*buildOptions)

type buildOptions struct {
	clientOpts  *client.Options
	redisClient *redis.Client
	store       attachment.ContentStore
}

// WithClientOptions overrides the options derived from cfg, e.g. to inject an
// httptest client.
func WithClientOptions(opts client.Options) Option {
	return func(b *buildOptions) { b.clientOpts = &opts }
}

// WithContentStore supplies the attachment store instead of dialing Redis.
func WithContentStore(store attachment.ContentStore) Option {
	return func(b *buildOptions) { b.store = store }
}

// New wires every component from cfg. Redis is only dialed when the
// attachment cache is enabled and no store was supplied; an unreachable
// Redis disables the cache rather than failing startup.
func New(ctx context.Context, cfg *config.Config, l *zap.Logger, opts ...Option) (*Portal, error) {
	if cfg == nil {
		return nil, errors.New("portal: nil config")
	}
	l = logger.OrNop(l)

	var b buildOptions
	for _, opt := range opts {
		opt(&b)
	}

	p := &Portal{
		Config:   cfg,
		Logger:   l,
		Tokens:   session.NewTokenStore(),
		Metrics:  telemetry.New(),
		Validate: gateway.NewValidator(),
	}

	clientOpts := client.OptionsFromConfig(cfg)
	if b.clientOpts != nil {
		clientOpts = *b.clientOpts
	}
	p.API = client.New(clientOpts, p.Tokens, codec.New(l), p.Metrics, l)

	store := b.store
	if store == nil && cfg.Attachment.CacheEnabled {
		rdb, err := cache.NewRedis(ctx, cfg.Redis)
		if err != nil {
			l.Warn("attachment cache disabled", zap.Error(err))
		} else {
			p.redis = rdb
			store = attachment.NewRedisStore(rdb)
		}
	}
	p.Attachments = attachment.NewCache(store, cfg.Attachment.CacheTTL, p.Metrics, l)

	downloads, err := storage.NewLocalStorage(cfg.Attachment.DownloadDir)
	if err != nil {
		p.closeRedis()
		return nil, fmt.Errorf("portal: %w", err)
	}
	p.Downloads = downloads

	deps := gateway.Deps{API: p.API, Validate: p.Validate, Attachments: p.Attachments, Logger: l}
	p.Auth = gateway.NewAuthGateway(deps)
	p.Approvals = gateway.NewApprovalGateway(deps)
	p.Meetings = gateway.NewMeetingGateway(deps)
	p.Notices = gateway.NewNoticeGateway(deps)
	p.Employees = gateway.NewEmployeeGateway(deps)
	p.Attendance = gateway.NewAttendanceGateway(deps)
	p.Leave = gateway.NewLeaveGateway(deps)
	p.Messages = gateway.NewMessageGateway(deps)

	p.Loop = eventloop.New(0, l)
	p.Pool = workers.NewPool("portal-api", workers.PoolConfig{Workers: cfg.Workers.PoolSize, Logger: l})

	return p, nil
}

// Start runs the event loop and worker pool until ctx is cancelled. It
// returns once the loop has drained.
func (p *Portal) Start(ctx context.Context) {
	p.Pool.Start(ctx)
	p.Loop.Run(ctx)
}

// Close stops the worker pool and releases Redis. The event loop stops with
// the context passed to Start.
func (p *Portal) Close() error {
	p.Pool.Stop()
	return p.closeRedis()
}

func (p *Portal) closeRedis() error {
	if p.redis == nil {
		return nil
	}
	err := p.redis.Close()
	p.redis = nil
	return err
}

// SaveAttachment writes a loaded attachment into the download directory.
func (p *Portal) SaveAttachment(payload *models.AttachmentPayload) (string, error) {
	if payload == nil {
		return "", errors.New("portal: no attachment to save")
	}
	return attachment.SaveTo(p.Downloads, *payload)
}

// NewListController returns a controller sized from configuration.
func NewListController[T models.Record](p *Portal, opts ...listview.Option) *listview.Controller[T] {
	opts = append([]listview.Option{listview.WithPageSize(p.Config.List.DefaultPageSize)}, opts...)
	return listview.NewController[T](opts...)
}

// NewLoader binds a fresh controller to the portal's loop and pool.
func NewLoader[T models.Record](p *Portal, name string, opts ...listview.Option) *listview.Loader[T] {
	return listview.NewLoader(name, NewListController[T](p, opts...), p.Pool, p.Loop, p.Metrics, p.Logger)
}
