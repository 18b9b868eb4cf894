// Package devserver is a sandbox implementation of the portal API backed by
// in-memory stores. It powers gateway tests and local development.
package devserver

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/intranet-portal-client/pkg/config"
	appErrors "github.com/noah-isme/intranet-portal-client/pkg/errors"
	"github.com/noah-isme/intranet-portal-client/pkg/logger"
	"github.com/noah-isme/intranet-portal-client/pkg/middleware/cors"
	"github.com/noah-isme/intranet-portal-client/pkg/middleware/requestid"
	"github.com/noah-isme/intranet-portal-client/pkg/response"
)

// Option customises a Server.
type Option func(*Server)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *Server) { s.now = now; s.tokens.now = now }
}

// WithStore replaces the seeded store.
func WithStore(store *Store) Option {
	return func(s *Server) { s.store = store }
}

// WithTruncatedLists makes every list endpoint answer like ?truncate=true.
func WithTruncatedLists() Option {
	return func(s *Server) { s.truncateMode = truncateRaw }
}

// WithTruncatedEnvelopes makes every list endpoint answer like
// ?truncate=envelope.
func WithTruncatedEnvelopes() Option {
	return func(s *Server) { s.truncateMode = truncateEnvelope }
}

const (
	truncateRaw      = "raw"
	truncateEnvelope = "envelope"
)

// Server is the sandbox portal backend.
type Server struct {
	router       *gin.Engine
	store        *Store
	tokens       *tokenIssuer
	validate     *validator.Validate
	logger       *zap.Logger
	now          func() time.Time
	truncateMode string
}

// New builds the router under /api. A nil store gets the demo seed.
func New(cfg config.DevServerConfig, l *zap.Logger, opts ...Option) (*Server, error) {
	gin.SetMode(gin.ReleaseMode)
	secret := cfg.JWTSecret
	if secret == "" {
		secret = "dev_secret"
	}
	ttl := cfg.TokenTTL
	if ttl <= 0 {
		ttl = 8 * time.Hour
	}

	s := &Server{
		tokens:   &tokenIssuer{secret: []byte(secret), ttl: ttl, now: time.Now},
		validate: validator.New(validator.WithRequiredStructEnabled()),
		logger:   logger.OrNop(l),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.store == nil {
		store, err := Seed(s.now())
		if err != nil {
			return nil, err
		}
		s.store = store
	}

	s.router = gin.New()
	s.router.Use(gin.Recovery(), requestid.Middleware(), accessLog(s.logger), cors.New(cfg.AllowedOrigins))
	s.routes()
	return s, nil
}

// Handler exposes the router for http.Server or httptest.
func (s *Server) Handler() http.Handler { return s.router }

// Store exposes the backing store.
func (s *Server) Store() *Store { return s.store }

func (s *Server) routes() {
	s.router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := s.router.Group("/api")
	api.POST("/auth/login", s.login)

	authed := api.Group("")
	authed.Use(s.tokens.requireAuth())
	authed.POST("/auth/change-password", s.changePassword)

	approvals := authed.Group("/approvals")
	approvals.GET("/my-requests", s.myApprovalRequests)
	approvals.GET("/my-pending", s.myPendingApprovals)
	approvals.GET("/:id", s.getApproval)
	approvals.POST("", s.createApproval)
	approvals.POST("/:id/approve", s.approveApproval)
	approvals.POST("/:id/reject", s.rejectApproval)
	approvals.DELETE("/:id", s.deleteApproval)
	approvals.GET("/:id/attachment", s.approvalAttachment)

	meetings := authed.Group("/meetings")
	meetings.GET("", s.listMeetings)
	meetings.GET("/:id", s.getMeeting)
	meetings.POST("", s.createMeeting)
	meetings.PUT("/:id", s.updateMeeting)
	meetings.DELETE("/:id", s.deleteMeeting)
	meetings.GET("/:id/attachment", s.meetingAttachment)

	notices := authed.Group("/notices")
	notices.GET("", s.listNotices)
	notices.GET("/search", s.searchNotices)
	notices.GET("/filter", s.filterNotices)
	notices.GET("/:id", s.getNotice)
	notices.POST("", s.createNotice)
	notices.PUT("/:id", s.updateNotice)
	notices.DELETE("/:id", s.deleteNotice)
	notices.GET("/:id/attachment", s.noticeAttachment)

	employees := authed.Group("/employees")
	employees.GET("", s.listEmployees)
	employees.GET("/search", s.searchEmployees)
	employees.GET("/:id", s.getEmployee)
	adminOnly := requireRoles("only administrators can manage employees", RoleAdmin)
	employees.POST("", adminOnly, s.createEmployee)
	employees.PUT("/:id", adminOnly, s.updateEmployee)
	employees.DELETE("/:id", adminOnly, s.deleteEmployee)

	attendance := authed.Group("/attendance")
	attendance.GET("", s.attendanceByDate)
	attendance.GET("/my", s.myAttendance)
	attendance.GET("/today", s.todayAttendance)
	attendance.POST("/check-in", s.checkIn)
	attendance.POST("/check-out", s.checkOut)

	leave := authed.Group("/leave")
	leave.GET("/my-requests", s.myLeave)
	leave.GET("/pending", s.pendingLeave)
	leave.POST("", s.createLeave)
	leave.POST("/:id/approve", s.approveLeave)
	leave.POST("/:id/reject", s.rejectLeave)
	leave.DELETE("/:id", s.cancelLeave)

	messages := authed.Group("/messages")
	messages.GET("/inbox", s.inbox)
	messages.GET("/sent", s.sentMessages)
	messages.GET("/unread-count", s.unreadCount)
	messages.GET("/:id", s.getMessage)
	messages.POST("", s.sendMessage)
	messages.PUT("/:id/read", s.markRead)
	messages.DELETE("/:id", s.deleteMessage)
}

// accessLog writes one http_request line per request.
func accessLog(l *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		fields := []zap.Field{
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
		}
		if reqID := requestid.Value(c); reqID != "" {
			fields = append(fields, zap.String("request_id", reqID))
		}
		l.Info("http_request", fields...)
	}
}

// bind decodes and validates a JSON body, answering 400 on failure.
func (s *Server) bind(c *gin.Context, dest interface{}) bool {
	if err := c.ShouldBindJSON(dest); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return false
	}
	if err := s.validate.Struct(dest); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return false
	}
	return true
}

// list answers with an enveloped array. ?truncate=true sends a raw array cut
// inside its last element; ?truncate=envelope cuts the enveloped body inside
// the last element of data.
func (s *Server) list(c *gin.Context, items interface{}, pagination *response.Pagination) {
	mode := s.truncateMode
	switch q := c.Query("truncate"); {
	case q == truncateEnvelope:
		mode = truncateEnvelope
	case q != "":
		if on, _ := strconv.ParseBool(q); on {
			mode = truncateRaw
		}
	}
	if mode == "" {
		response.JSON(c, http.StatusOK, items, pagination)
		return
	}

	body, err := json.Marshal(items)
	if err != nil {
		response.Error(c, appErrors.FromError(err))
		return
	}
	cut := truncateArray(body)
	if mode == truncateRaw {
		response.Raw(c, http.StatusOK, cut)
		return
	}
	if len(cut) == len(body) {
		response.JSON(c, http.StatusOK, items, pagination)
		return
	}
	response.Raw(c, http.StatusOK, append([]byte(`{"success":true,"data":`), cut...))
}

// truncateArray cuts body halfway through its final element, the shape a
// dropped chunked response leaves behind. Arrays with fewer than two
// elements are returned unchanged.
func truncateArray(body []byte) []byte {
	var elems []json.RawMessage
	if err := json.Unmarshal(body, &elems); err != nil || len(elems) < 2 {
		return body
	}
	last := elems[len(elems)-1]
	cut := len(body) - 1 - len(last)/2
	return body[:cut]
}
