package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/blogweb/blog-api/internal/api/middleware"
	"github.com/blogweb/blog-api/internal/core/domain"
)

// ctxClaims extracts the claims injected by the Auth middleware. Claims
// without an email cannot address an account and are rejected with 401.
func ctxClaims(c echo.Context) (*domain.Claims, error) {
	claims, _ := c.Get(middleware.ClaimsKey).(*domain.Claims)
	if claims == nil {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
	}
	if claims.Email == "" {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "token missing account identity")
	}
	return claims, nil
}
