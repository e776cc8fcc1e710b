package api

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/nimburion/blogapi/pkg/controller"
	"github.com/nimburion/blogapi/pkg/repository"
	"github.com/nimburion/blogapi/pkg/server/router"
)

const dateOnly = "2006-01-02"

// parseBlogQuery reads the GET /api/blogs parameters into a BlogQuery.
//
// Cosa fa: valida userId e categoryId, le date (RFC 3339 o YYYY-MM-DD in UTC),
// page (>= 1) e limit (1..MaxPageSize), applicando i default.
// Cosa NON fa: non verifica che utente e categoria esistano.
//
// Esempio minimo:
//
//	query, err := parseBlogQuery(c, h.paging.DefaultPageSize, h.paging.MaxPageSize)
func parseBlogQuery(c router.Context, defaultLimit, maxLimit int) (repository.BlogQuery, error) {
	var query repository.BlogQuery

	userID, err := controller.ParseObjectID("userId", c.Query("userId"))
	if err != nil {
		return query, err
	}
	categoryID, err := controller.ParseObjectID("categoryId", c.Query("categoryId"))
	if err != nil {
		return query, err
	}
	query.User = userID
	query.Category = categoryID
	query.Keywords = c.Query("keywords")

	if query.Start, err = parseDate("startDate", c.Query("startDate")); err != nil {
		return query, err
	}
	if query.End, err = parseDate("endDate", c.Query("endDate")); err != nil {
		return query, err
	}
	if query.Start != nil && query.End != nil && query.Start.After(*query.End) {
		return query, controller.NewValidationError("startDate must not be after endDate", map[string]interface{}{
			"startDate": c.Query("startDate"),
			"endDate":   c.Query("endDate"),
		})
	}

	page, err := parseInt("page", c.Query("page"), 1, 1, 0)
	if err != nil {
		return query, err
	}
	limit, err := parseInt("limit", c.Query("limit"), defaultLimit, 1, maxLimit)
	if err != nil {
		return query, err
	}
	query.Pagination = repository.Pagination{Page: page, PageSize: limit}
	return query, nil
}

// parseDate returns nil for an empty value.
func parseDate(name, raw string) (*time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	if t, err := time.Parse(time.RFC3339Nano, raw); err == nil {
		t = t.UTC()
		return &t, nil
	}
	if t, err := time.ParseInLocation(dateOnly, raw, time.UTC); err == nil {
		return &t, nil
	}
	return nil, controller.NewValidationError(fmt.Sprintf("Invalid %s: %s", name, raw), nil)
}

// parseInt returns fallback for an empty value. hi <= 0 means unbounded.
func parseInt(name, raw string, fallback, lo, hi int) (int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < lo || (hi > 0 && n > hi) {
		msg := fmt.Sprintf("Invalid %s: %s (must be an integer >= %d)", name, raw, lo)
		if hi > 0 {
			msg = fmt.Sprintf("Invalid %s: %s (must be an integer between %d and %d)", name, raw, lo, hi)
		}
		return 0, controller.NewValidationError(msg, nil)
	}
	return n, nil
}
