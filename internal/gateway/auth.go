package gateway

import (
	"context"
	"net/http"

	"github.com/noah-isme/intranet-portal-client/internal/models"
	"github.com/noah-isme/intranet-portal-client/internal/session"
	appErrors "github.com/noah-isme/intranet-portal-client/pkg/errors"
)

// AuthGateway signs users in and out.
type AuthGateway struct {
	base
}

func NewAuthGateway(deps Deps) *AuthGateway {
	return &AuthGateway{base: newBase("auth", deps)}
}

// Login posts credentials and stores the returned token. The previous
// session is kept when login fails.
func (g *AuthGateway) Login(ctx context.Context, employeeCode, password string) (*models.LoginResponse, error) {
	req := models.LoginRequest{EmployeeCode: employeeCode, Password: password}
	if err := g.check("auth.login", req); err != nil {
		return nil, err
	}
	resp, err := one[models.LoginResponse](ctx, g.base, "auth.login", http.MethodPost, "/auth/login", req)
	if err != nil {
		return nil, err
	}
	if resp == nil || resp.Token == "" {
		appErr := appErrors.Clone(appErrors.ErrAuth, "login response carried no token")
		g.warn("auth.login", "/auth/login", appErr)
		return nil, appErr
	}
	g.api.Tokens().Set(resp.Token)
	return resp, nil
}

// Logout forgets the stored session. The server keeps no session state.
func (g *AuthGateway) Logout() {
	g.api.Tokens().Clear()
}

// ChangePassword is used by the first-login flow.
func (g *AuthGateway) ChangePassword(ctx context.Context, oldPassword, newPassword string) (bool, error) {
	req := models.ChangePasswordRequest{OldPassword: oldPassword, NewPassword: newPassword}
	if err := g.check("auth.change_password", req); err != nil {
		return false, err
	}
	return action(ctx, g.base, "auth.change_password", http.MethodPost, "/auth/change-password", req)
}

// Session returns the current session snapshot, or nil when signed out.
func (g *AuthGateway) Session() *session.Session {
	return g.api.Tokens().Snapshot()
}
