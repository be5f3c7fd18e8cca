package middleware

import (
	"context"

	"github.com/google/uuid"
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"

	"marketplace/internal/auth"
	apperrors "marketplace/internal/errors"
	"marketplace/internal/model"
)

const (
	// TokenCookie is the session cookie set on login.
	TokenCookie = "token"

	userIDKey = "auth_user_id"
)

// PrincipalResolver loads the current identity behind a verified token subject.
type PrincipalResolver interface {
	ResolvePrincipal(ctx context.Context, userID uuid.UUID) (auth.Principal, error)
}

// AuthMiddleware authenticates requests and enforces role allow-lists.
type AuthMiddleware struct {
	jwt      *auth.JWTService
	resolver PrincipalResolver
}

// NewAuthMiddleware creates the auth middleware.
func NewAuthMiddleware(jwtService *auth.JWTService, resolver PrincipalResolver) *AuthMiddleware {
	return &AuthMiddleware{jwt: jwtService, resolver: resolver}
}

// Protect requires a valid token from the Authorization header or the session
// cookie, and puts the resolved principal on the request context.
func (m *AuthMiddleware) Protect() echo.MiddlewareFunc {
	extract := echojwt.WithConfig(echojwt.Config{
		TokenLookup: "header:" + echo.HeaderAuthorization + ":Bearer ,cookie:" + TokenCookie,
		ContextKey:  userIDKey,
		ParseTokenFunc: func(_ echo.Context, token string) (interface{}, error) {
			id, err := m.jwt.Verify(token)
			if err != nil {
				return nil, err
			}
			return id, nil
		},
		ErrorHandler: func(echo.Context, error) error {
			return apperrors.ErrNotAuthorized
		},
	})

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return extract(func(c echo.Context) error {
			userID, ok := c.Get(userIDKey).(uuid.UUID)
			if !ok {
				return apperrors.ErrNotAuthorized
			}

			ctx := c.Request().Context()
			p, err := m.resolver.ResolvePrincipal(ctx, userID)
			if err != nil {
				return err
			}
			c.SetRequest(c.Request().WithContext(auth.WithPrincipal(ctx, p)))
			return next(c)
		})
	}
}

// RequireRoles rejects authenticated principals whose role is not listed.
func RequireRoles(roles ...model.Role) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			p, err := auth.Authenticated(c.Request().Context())
			if err != nil {
				return err
			}
			if err := auth.RequireRole(p, roles...); err != nil {
				return err
			}
			return next(c)
		}
	}
}
