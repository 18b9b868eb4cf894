package devserver

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/intranet-portal-client/pkg/config"
)

var fixedNow = time.Date(2024, 5, 6, 8, 30, 0, 0, time.UTC)

func newTestServer(t *testing.T, opts ...Option) *Server {
	t.Helper()
	opts = append([]Option{WithClock(func() time.Time { return fixedNow })}, opts...)
	srv, err := New(config.DevServerConfig{JWTSecret: "test-secret", TokenTTL: time.Hour}, nil, opts...)
	require.NoError(t, err)
	return srv
}

func do(t *testing.T, srv *Server, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)
	return rec
}

func login(t *testing.T, srv *Server, code string) string {
	t.Helper()
	rec := do(t, srv, http.MethodPost, "/api/auth/login", "", map[string]string{"employeeCode": code, "password": SeedPassword})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var env struct {
		Data struct {
			Token string `json:"token"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	require.NotEmpty(t, env.Data.Token)
	return env.Data.Token
}

func TestLoginIssuesToken(t *testing.T) {
	srv := newTestServer(t)
	token := login(t, srv, "EMP003")

	claims, err := srv.tokens.validate(token)
	require.NoError(t, err)
	assert.Equal(t, FinEmpID, claims.UserID)
	assert.Equal(t, RoleEmployee, claims.Role)
}

func TestLoginRejectsBadPassword(t *testing.T) {
	srv := newTestServer(t)
	rec := do(t, srv, http.MethodPost, "/api/auth/login", "", map[string]string{"employeeCode": "EMP003", "password": "nope"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "invalid employee code or password")
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	srv := newTestServer(t)
	rec := do(t, srv, http.MethodGet, "/api/notices", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = do(t, srv, http.MethodGet, "/api/notices", "not-a-jwt", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestExpiredTokenRejected(t *testing.T) {
	now := fixedNow
	srv := newTestServer(t, WithClock(func() time.Time { return now }))
	token := login(t, srv, "EMP003")
	now = now.Add(2 * time.Hour)

	rec := do(t, srv, http.MethodGet, "/api/notices", token, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestListsOmitAttachmentContent(t *testing.T) {
	srv := newTestServer(t)
	token := login(t, srv, "EMP003")

	rec := do(t, srv, http.MethodGet, "/api/approvals/my-requests", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"attachmentFilename":"laptop-quote.pdf"`)
	assert.NotContains(t, rec.Body.String(), "attachmentContent")

	rec = do(t, srv, http.MethodGet, "/api/approvals/ap-1/attachment", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "attachmentContent")
}

func TestTruncateFlagCutsRawArray(t *testing.T) {
	srv := newTestServer(t)
	token := login(t, srv, "EMP003")

	rec := do(t, srv, http.MethodGet, "/api/notices?truncate=true", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.True(t, len(body) > 0 && body[0] == '[')
	assert.False(t, json.Valid(rec.Body.Bytes()))
}

func TestTruncateEnvelopeCutsDataArray(t *testing.T) {
	srv := newTestServer(t)
	token := login(t, srv, "EMP003")

	rec := do(t, srv, http.MethodGet, "/api/notices?truncate=envelope", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, bytes.HasPrefix(rec.Body.Bytes(), []byte(`{"success":true,"data":[`)))
	assert.False(t, json.Valid(rec.Body.Bytes()))
}

func TestTruncateArray(t *testing.T) {
	assert.Equal(t, `[{"a":1},{"a"`, string(truncateArray([]byte(`[{"a":1},{"a":2}]`))))
	assert.Equal(t, `[{"a":1}]`, string(truncateArray([]byte(`[{"a":1}]`))))
}

func TestApprovingProcessedApprovalIsRejected(t *testing.T) {
	srv := newTestServer(t)
	token := login(t, srv, "EMP002")

	rec := do(t, srv, http.MethodPost, "/api/approvals/ap-1/approve", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"APPROVED"`)

	rec = do(t, srv, http.MethodPost, "/api/approvals/ap-1/approve", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"success":false`)
	assert.Contains(t, rec.Body.String(), "approval already processed")
}

func TestOnlyApproverMayDecide(t *testing.T) {
	srv := newTestServer(t)
	token := login(t, srv, "EMP004")
	rec := do(t, srv, http.MethodPost, "/api/approvals/ap-1/approve", token, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestFilterNoticesPaginates(t *testing.T) {
	srv := newTestServer(t)
	token := login(t, srv, "EMP003")

	rec := do(t, srv, http.MethodGet, "/api/notices/filter?page=1&size=2", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var env struct {
		Data []struct {
			ID string `json:"id"`
		} `json:"data"`
		Pagination struct {
			Total int `json:"total"`
		} `json:"pagination"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	require.Len(t, env.Data, 1)
	assert.Equal(t, "nt-3", env.Data[0].ID)
	assert.Equal(t, 3, env.Pagination.Total)
}

func TestCheckInTwiceIsRejected(t *testing.T) {
	srv := newTestServer(t)
	token := login(t, srv, "EMP004")

	rec := do(t, srv, http.MethodPost, "/api/attendance/check-in", token, map[string]string{"note": "on site"})
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Contains(t, rec.Body.String(), AttendancePresent)

	rec = do(t, srv, http.MethodPost, "/api/attendance/check-in", token, nil)
	assert.Contains(t, rec.Body.String(), "already checked in today")
}

func TestRequestIDEchoed(t *testing.T) {
	srv := newTestServer(t)
	req := httptest.NewRequest(http.MethodPost, "/api/auth/login", bytes.NewReader([]byte(`{}`)))
	req.Header.Set("X-Request-ID", "abc-123")
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	assert.Equal(t, "abc-123", rec.Header().Get("X-Request-ID"))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestEmployeeManagementIsAdminOnly(t *testing.T) {
	srv := newTestServer(t)
	body := map[string]string{"employeeCode": "EMP010", "name": "Tono", "email": "tono@portal.local", "departmentId": "d-it", "position": "Engineer", "role": "EMPLOYEE"}

	rec := do(t, srv, http.MethodPost, "/api/employees", login(t, srv, "EMP002"), body)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Contains(t, rec.Body.String(), "only administrators can manage employees")

	rec = do(t, srv, http.MethodDelete, "/api/employees/"+AdminID, login(t, srv, "EMP001"), nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "you cannot delete your own account")
}

func TestHealthAndPreflight(t *testing.T) {
	srv := newTestServer(t)
	rec := do(t, srv, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = do(t, srv, http.MethodOptions, "/api/notices", "", nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}
