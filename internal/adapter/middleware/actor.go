package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"peervest/pkg/id"
)

const actorContextKey = "peervest.actor"

// ActorExtractor pulls the calling participant's identity from X-Actor-Id.
// Role checks happen in the usecases; this only establishes who is calling.
// Endpoints that require no actor (health, metrics, reads) skip it.
func ActorExtractor() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			actor := strings.TrimSpace(c.Request().Header.Get("X-Actor-Id"))
			if actor == "" {
				return c.JSON(http.StatusUnauthorized, map[string]string{"error": "missing X-Actor-Id"})
			}
			if !id.Valid(actor) {
				return c.JSON(http.StatusUnauthorized, map[string]string{"error": "invalid X-Actor-Id"})
			}
			c.Set(actorContextKey, actor)
			return next(c)
		}
	}
}

// ActorID returns the actor set by ActorExtractor, or "" if absent.
func ActorID(c echo.Context) string {
	if v, ok := c.Get(actorContextKey).(string); ok {
		return v
	}
	return ""
}
