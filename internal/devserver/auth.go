package devserver

import (
	"fmt"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	appErrors "github.com/noah-isme/intranet-portal-client/pkg/errors"
	"github.com/noah-isme/intranet-portal-client/pkg/response"
)

const (
	contextUserKey = "currentUser"
	issuer         = "portal-devserver"
)

// tokenClaims mirrors the claims the production portal issues.
type tokenClaims struct {
	UserID       string `json:"userId"`
	EmployeeCode string `json:"employeeCode"`
	Role         string `json:"role"`
	DepartmentID string `json:"departmentId"`
	jwt.RegisteredClaims
}

type tokenIssuer struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func (t *tokenIssuer) issue(a account) (string, error) {
	issuedAt := t.now().UTC()
	claims := &tokenClaims{
		UserID:       a.ID,
		EmployeeCode: a.EmployeeCode,
		Role:         a.Role,
		DepartmentID: a.DepartmentID,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   a.ID,
			ExpiresAt: jwt.NewNumericDate(issuedAt.Add(t.ttl)),
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			NotBefore: jwt.NewNumericDate(issuedAt),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(t.secret)
}

func (t *tokenIssuer) validate(raw string) (*tokenClaims, error) {
	token, err := jwt.ParseWithClaims(raw, &tokenClaims{}, func(token *jwt.Token) (interface{}, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return t.secret, nil
	}, jwt.WithTimeFunc(t.now), jwt.WithIssuer(issuer))
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrAuth.Code, appErrors.ErrAuth.Status, "invalid token")
	}
	claims, ok := token.Claims.(*tokenClaims)
	if !ok || !token.Valid {
		return nil, appErrors.Clone(appErrors.ErrAuth, "invalid token claims")
	}
	return claims, nil
}

// requireAuth protects routes by requiring a valid bearer token.
func (t *tokenIssuer) requireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			response.Error(c, appErrors.Clone(appErrors.ErrAuth, "missing bearer token"))
			c.Abort()
			return
		}

		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			response.Error(c, appErrors.Clone(appErrors.ErrAuth, "invalid authorization header"))
			c.Abort()
			return
		}

		claims, err := t.validate(parts[1])
		if err != nil {
			response.Error(c, err)
			c.Abort()
			return
		}

		c.Set(contextUserKey, claims)
		c.Next()
	}
}

func currentUser(c *gin.Context) *tokenClaims {
	v, ok := c.Get(contextUserKey)
	if !ok {
		return nil
	}
	claims, _ := v.(*tokenClaims)
	return claims
}

// HashPassword hashes a sandbox password at the minimum bcrypt cost.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

func checkPassword(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
