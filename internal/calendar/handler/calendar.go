package handler

import (
	"net/http"
	"time"

	"github.com/julienschmidt/httprouter"

	"farmbook/internal/calendar/service"
	httputil "farmbook/pkg/http"
	"farmbook/pkg/logger"
	"farmbook/pkg/model"
)

type CalendarHandler struct {
	service service.CalendarService
	log     *logger.Logger
}

func NewCalendarHandler(service service.CalendarService, log *logger.Logger) *CalendarHandler {
	return &CalendarHandler{
		service: service,
		log:     log,
	}
}

// Query returns the merged calendar for a window. Without explicit bounds it
// covers one month starting now.
func (h *CalendarHandler) Query(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	from, err := httputil.ExtractTimeParam(r, "from")
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Query", "operation", "WriteError", "error", writeErr)
		}
		return
	}
	to, err := httputil.ExtractTimeParam(r, "to")
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Query", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	limit, offset, err := httputil.ExtractLimitOffset(r)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Query", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	windowStart := time.Now().UTC()
	if from != nil {
		windowStart = *from
	}
	windowEnd := windowStart.AddDate(0, 1, 0)
	if to != nil {
		windowEnd = *to
	}

	query := r.URL.Query()
	filters := model.CalendarFilters{
		Category:        query.Get("category"),
		Status:          model.ActivityStatus(query.Get("status")),
		PublicOnly:      query.Get("public_only") == "true",
		IncludeBookings: query.Get("include_bookings") == "true",
		Limit:           limit,
		Offset:          offset,
	}

	entries, totalCount, err := h.service.Query(r.Context(), windowStart, windowEnd, filters)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Query", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WritePaginated(w, entries, totalCount, limit, offset); err != nil {
		h.log.Error("failed to write paginated response", "handler", "Query", "operation", "WritePaginated", "error", err)
	}
}

func (h *CalendarHandler) RegisterRoutes(router *httprouter.Router) {
	router.GET("/api/v1/calendar", h.Query)
}
