package http

import (
	"net/http"
	"strconv"
	"time"

	"farmbook/pkg/config"
	apperrors "farmbook/pkg/errors"
)

func ExtractLimitOffset(r *http.Request) (int, int64, error) {
	query := r.URL.Query()

	limit := 0
	if s := query.Get("limit"); s != "" {
		v, err := strconv.Atoi(s)
		if err != nil {
			return 0, 0, apperrors.InvalidInput("invalid limit parameter: " + s)
		}
		limit = v
	}

	var offset int64 = 0
	if s := query.Get("offset"); s != "" {
		v, err := strconv.Atoi(s)
		if err != nil {
			return 0, 0, apperrors.InvalidInput("invalid offset parameter: " + s)
		}
		offset = int64(v)
	}

	limit = config.NormalizePaginationLimit(limit)
	offset = config.NormalizeOffset(offset)

	return limit, offset, nil
}

// ExtractTimeParam parses an optional RFC3339 or date-only query parameter.
func ExtractTimeParam(r *http.Request, name string) (*time.Time, error) {
	s := r.URL.Query().Get(name)
	if s == "" {
		return nil, nil
	}

	if parsed, err := time.Parse(time.RFC3339, s); err == nil {
		return &parsed, nil
	}
	if parsed, err := time.Parse("2006-01-02", s); err == nil {
		return &parsed, nil
	}
	return nil, apperrors.InvalidInput("invalid " + name + " parameter, must be RFC3339 or YYYY-MM-DD")
}
