package handler

import (
	"strconv"

	"github.com/labstack/echo/v4"
)

const maxRunsLimit = 500

// parseLimitParam reads ?limit=, returning def when absent.
func parseLimitParam(c echo.Context, def int) (int, error) {
	raw := c.QueryParam("limit")
	if raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return 0, strconv.ErrSyntax
	}
	if n > maxRunsLimit {
		n = maxRunsLimit
	}
	return n, nil
}

// idToString renders snowflake IDs as strings so JS clients keep full precision.
func idToString(id int64) string {
	return strconv.FormatInt(id, 10)
}
