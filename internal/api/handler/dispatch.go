package handler

import (
	"fmt"
	"net/http"
	"sort"
	"strings"

	"github.com/labstack/echo/v4"
)

// Methods maps HTTP verbs to the handlers registered for a single path.
type Methods map[string]echo.HandlerFunc

// Dispatch returns a handler that routes by request method. Verbs missing
// from m get 405 with an Allow header listing the supported ones.
func Dispatch(m Methods) echo.HandlerFunc {
	allowed := make([]string, 0, len(m))
	for verb := range m {
		allowed = append(allowed, verb)
	}
	sort.Strings(allowed)
	allow := strings.Join(allowed, ", ")

	return func(c echo.Context) error {
		method := c.Request().Method
		if h, ok := m[method]; ok {
			return h(c)
		}
		c.Response().Header().Set(echo.HeaderAllow, allow)
		return echo.NewHTTPError(http.StatusMethodNotAllowed, fmt.Sprintf("Method %s Not Allowed", method))
	}
}
