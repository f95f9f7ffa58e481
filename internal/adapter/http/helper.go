package http

import (
	"strings"

	"github.com/labstack/echo/v4"
)

// ActorIDHeader carries the authenticated actor id, set by the auth layer in
// front of this service.
const ActorIDHeader = "X-Actor-Id"

func actorID(c echo.Context) string {
	return strings.TrimSpace(c.Request().Header.Get(ActorIDHeader))
}

func containsFieldMsg(list []FieldError, field, substr string) bool {
	for _, e := range list {
		if e.Field == field && strings.Contains(e.Message, substr) {
			return true
		}
	}
	return false
}
