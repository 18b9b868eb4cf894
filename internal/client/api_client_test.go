package client

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/noah-isme/intranet-portal-client/internal/codec"
	"github.com/noah-isme/intranet-portal-client/internal/models"
	"github.com/noah-isme/intranet-portal-client/internal/session"
	"github.com/noah-isme/intranet-portal-client/internal/telemetry"
	"github.com/noah-isme/intranet-portal-client/pkg/config"
	appErrors "github.com/noah-isme/intranet-portal-client/pkg/errors"
)

func newTestClient(t *testing.T, handler http.HandlerFunc, opts Options) (*APIClient, *session.TokenStore) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	opts.BaseURL = srv.URL + "/api"
	tokens := session.NewTokenStore()
	return New(opts, tokens, codec.New(zap.NewNop()), telemetry.New(), zap.NewNop()), tokens
}

func respond(status int, body string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = io.WriteString(w, body)
	}
}

func TestBuildRequestHeaders(t *testing.T) {
	api := New(Options{BaseURL: "http://portal.local/api/"}, session.NewTokenStore(), nil, nil, nil)

	req, err := api.BuildRequest(context.Background(), http.MethodGet, "/notices/search?title=a%20b", nil)
	require.NoError(t, err)
	assert.Equal(t, "http://portal.local/api/notices/search?title=a%20b", req.URL.String())
	assert.Equal(t, "application/json", req.Header.Get("Content-Type"))
	assert.Equal(t, "application/json", req.Header.Get("Accept"))
	assert.NotEmpty(t, req.Header.Get("X-Request-ID"))
	assert.Empty(t, req.Header.Get("Authorization"))

	api.Tokens().Set("opaque-token")
	req, err = api.BuildRequest(context.Background(), http.MethodPost, "approvals", map[string]string{"title": "x"})
	require.NoError(t, err)
	assert.Equal(t, "Bearer opaque-token", req.Header.Get("Authorization"))
	assert.Equal(t, "http://portal.local/api/approvals", req.URL.String())
	body, _ := io.ReadAll(req.Body)
	assert.JSONEq(t, `{"title":"x"}`, string(body))
}

func TestUnwrapEnvelopeData(t *testing.T) {
	api, _ := newTestClient(t, respond(http.StatusOK, `{"data":[{"id":"1","title":"A"},{"id":"2","title":"B"}],"message":"ok"}`), Options{})

	notices, err := Call[[]models.Notice](context.Background(), api, http.MethodGet, "/notices", nil)
	require.NoError(t, err)
	require.NotNil(t, notices)
	assert.Len(t, *notices, 2)
	assert.Equal(t, "B", (*notices)[1].Title)
}

func TestUnwrapRawBodyFallback(t *testing.T) {
	api, _ := newTestClient(t, respond(http.StatusOK, `{"title":"x"}`), Options{})

	notice, err := Call[models.Notice](context.Background(), api, http.MethodGet, "/notices/1", nil)
	require.NoError(t, err)
	require.NotNil(t, notice)
	assert.Equal(t, "x", notice.Title)
}

func TestUnwrapNumericIDs(t *testing.T) {
	api, _ := newTestClient(t, respond(http.StatusOK, `{"data":[{"id":1,"title":"a"},{"id":"nt-2","title":"b"}]}`), Options{})

	notices, err := Call[[]models.Notice](context.Background(), api, http.MethodGet, "/notices", nil)
	require.NoError(t, err)
	require.NotNil(t, notices)
	require.Len(t, *notices, 2)
	assert.Equal(t, "1", (*notices)[0].ID)
	assert.Equal(t, "nt-2", (*notices)[1].ID)

	api, _ = newTestClient(t, respond(http.StatusOK, `{"token":"t","userId":5}`), Options{})
	login, err := Call[models.LoginResponse](context.Background(), api, http.MethodPost, "/auth/login", nil)
	require.NoError(t, err)
	require.NotNil(t, login)
	assert.Equal(t, "5", login.UserID)
}

func TestUnwrapNoPayload(t *testing.T) {
	for name, body := range map[string]string{"empty body": "", "null data": `{"data":null,"message":"deleted"}`} {
		t.Run(name, func(t *testing.T) {
			api, _ := newTestClient(t, respond(http.StatusOK, body), Options{})
			out, err := Call[models.Notice](context.Background(), api, http.MethodDelete, "/notices/1", nil)
			require.NoError(t, err)
			assert.Nil(t, out)
		})
	}
}

func TestUnwrapTruncatedEnvelope(t *testing.T) {
	cases := map[string]string{
		"cut inside data":  `{"success":true,"data":[{"id":"1","title":"A"},{"id":"2","ti`,
		"cut after data":   `{"success":true,"data":[{"id":"1","title":"A"}],"pagination":{"pa`,
		"brackets in text": `{"data":[{"id":"1","title":"[A] {draft}"},{"id":`,
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			api, _ := newTestClient(t, respond(http.StatusOK, body), Options{})
			notices, err := Call[[]models.Notice](context.Background(), api, http.MethodGet, "/notices", nil)
			require.NoError(t, err)
			require.NotNil(t, notices)
			require.Len(t, *notices, 1)
			assert.Equal(t, "1", (*notices)[0].ID)
		})
	}
}

func TestTruncatedDataIgnoresNestedKeys(t *testing.T) {
	_, ok := truncatedData([]byte(`{"meta":{"data":[1,2`))
	assert.False(t, ok)

	tail, ok := truncatedData([]byte(`{"data" : [{"a":1},{"a"`))
	require.True(t, ok)
	assert.Equal(t, `[{"a":1},{"a"`, string(tail))
}

func TestUnwrapTruncatedRawArray(t *testing.T) {
	api, _ := newTestClient(t, respond(http.StatusOK, `[{"id":"1","title":"A"},{"id":"2","ti`), Options{})

	notices, err := Call[[]models.Notice](context.Background(), api, http.MethodGet, "/notices", nil)
	require.NoError(t, err)
	require.Len(t, *notices, 1)
	assert.Equal(t, "A", (*notices)[0].Title)
}

func TestUnwrapClassifiesFailures(t *testing.T) {
	cases := []struct {
		name    string
		status  int
		body    string
		target  *appErrors.Error
		message string
	}{
		{name: "unauthorized", status: http.StatusUnauthorized, body: `{"message":"token expired"}`, target: appErrors.ErrAuth, message: "please log in again"},
		{name: "validation verbatim", status: http.StatusBadRequest, body: `{"message":"rejection reason is required"}`, target: appErrors.ErrValidation, message: "rejection reason is required"},
		{name: "validation error object", status: http.StatusConflict, body: `{"error":{"code":"CONFLICT","message":"already processed"}}`, target: appErrors.ErrValidation, message: "already processed"},
		{name: "validation no body", status: http.StatusNotFound, body: ``, target: appErrors.ErrValidation, message: "Not Found"},
		{name: "upstream", status: http.StatusServiceUnavailable, body: `oops`, target: appErrors.ErrUpstream, message: "server error, try again later"},
		{name: "business rejection", status: http.StatusOK, body: `{"success":false,"message":"approval window closed"}`, target: appErrors.ErrBusiness, message: "approval window closed"},
		{name: "business error key", status: http.StatusOK, body: `{"data":null,"error":"duplicate request"}`, target: appErrors.ErrBusiness, message: "duplicate request"},
		{name: "malformed", status: http.StatusOK, body: `{"data":{"id":`, target: appErrors.ErrMalformedResponse, message: "could not parse server response"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			api, _ := newTestClient(t, respond(tc.status, tc.body), Options{})
			out, err := Call[models.Approval](context.Background(), api, http.MethodPost, "/approvals/1/approve", nil)
			require.Error(t, err)
			assert.Nil(t, out)
			assert.True(t, errors.Is(err, tc.target), "got %v", err)
			assert.Equal(t, tc.message, appErrors.UserMessage(err))
			if tc.status != http.StatusOK {
				assert.Equal(t, tc.status, appErrors.FromError(err).Status)
			}
		})
	}
}

func TestSendNetworkFailure(t *testing.T) {
	srv := httptest.NewServer(respond(http.StatusOK, "{}"))
	base := srv.URL
	srv.Close()

	api := New(Options{BaseURL: base, ConnectTimeout: time.Second}, nil, nil, nil, nil)
	_, err := Call[models.Notice](context.Background(), api, http.MethodGet, "/notices", nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, appErrors.ErrNetwork))
	assert.True(t, appErrors.IsNetwork(err))
}

func TestNoAutomaticRetry(t *testing.T) {
	var hits int32
	api, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		w.WriteHeader(http.StatusBadGateway)
	}, Options{})

	err := Exec(context.Background(), api, http.MethodPost, "/attendance/check-in", nil)
	assert.True(t, errors.Is(err, appErrors.ErrUpstream))
	assert.Equal(t, int32(1), atomic.LoadInt32(&hits))
}

func TestBreakerFailsFastWhenOpen(t *testing.T) {
	var hits int32
	api, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		w.WriteHeader(http.StatusInternalServerError)
	}, Options{Breaker: config.BreakerConfig{Enabled: true, FailureThreshold: 2, OpenTimeout: time.Minute}})

	for i := 0; i < 2; i++ {
		err := Exec(context.Background(), api, http.MethodGet, "/meetings", nil)
		assert.True(t, errors.Is(err, appErrors.ErrUpstream))
	}
	err := Exec(context.Background(), api, http.MethodGet, "/meetings", nil)
	assert.True(t, errors.Is(err, appErrors.ErrBreakerOpen))
	assert.True(t, appErrors.IsNetwork(err))
	assert.Equal(t, int32(2), atomic.LoadInt32(&hits))
}

func TestSendsStoredTokenAndRecordsMetrics(t *testing.T) {
	var gotAuth string
	api, tokens := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		assert.Equal(t, "/api/approvals/my-pending", r.URL.Path)
		_, _ = io.WriteString(w, `{"data":[]}`)
	}, Options{})
	tokens.Set("abc")

	out, err := Call[[]models.Approval](context.Background(), api, http.MethodGet, "/approvals/my-pending", nil)
	require.NoError(t, err)
	assert.Empty(t, *out)
	assert.Equal(t, "Bearer abc", gotAuth)
	assert.Equal(t, uint64(1), api.metrics.Snapshot().Requests)
}
