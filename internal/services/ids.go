package services

import (
	"strconv"
	"strings"

	"github.com/ericman314/pinewood-server/internal/platform/apierr"
)

func parseID(raw string) (int64, error) {
	return strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
}

// ParseRequiredID parses a numeric identifier from a query string value.
func ParseRequiredID(field, raw string) (int64, error) {
	if strings.TrimSpace(raw) == "" {
		return 0, apierr.Required(field)
	}
	id, err := parseID(raw)
	if err != nil || id < 0 {
		return 0, apierr.Invalid(field + " must be a number")
	}
	return id, nil
}

func int64String(id int64) string {
	return strconv.FormatInt(id, 10)
}
