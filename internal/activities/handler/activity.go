package handler

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/julienschmidt/httprouter"

	"farmbook/internal/activities/service"
	httputil "farmbook/pkg/http"
	"farmbook/pkg/logger"
	"farmbook/pkg/model"
)

type ActivityHandler struct {
	service service.ActivityService
	log     *logger.Logger
}

func NewActivityHandler(service service.ActivityService, log *logger.Logger) *ActivityHandler {
	return &ActivityHandler{
		service: service,
		log:     log,
	}
}

func (h *ActivityHandler) GetByID(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	id := ps.ByName("id")
	if id == "" {
		if err := httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{
			Error: "ID parameter is required",
		}); err != nil {
			h.log.Error("failed to write bad request response", "handler", "GetByID", "operation", "WriteJSON", "error", err)
		}
		return
	}

	activity, err := h.service.GetByID(r.Context(), id)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "GetByID", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteSuccess(w, activity); err != nil {
		h.log.Error("failed to write success response", "handler", "GetByID", "operation", "WriteSuccess", "error", err)
	}
}

func (h *ActivityHandler) GetAll(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	limit, offset, err := httputil.ExtractLimitOffset(r)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "GetAll", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	activities, totalCount, err := h.service.GetAll(r.Context(), limit, offset)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "GetAll", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WritePaginated(w, activities, totalCount, limit, offset); err != nil {
		h.log.Error("failed to write paginated response", "handler", "GetAll", "operation", "WritePaginated", "error", err)
	}
}

// GetOccurrences returns the expanded occurrences of one activity inside a
// query window. Defaults to the next configured window length from now when
// no bounds are supplied.
func (h *ActivityHandler) GetOccurrences(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	id := ps.ByName("id")

	from, err := httputil.ExtractTimeParam(r, "from")
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "GetOccurrences", "operation", "WriteError", "error", writeErr)
		}
		return
	}
	to, err := httputil.ExtractTimeParam(r, "to")
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "GetOccurrences", "operation", "WriteError", "error", writeErr)
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

	occurrences, err := h.service.GetOccurrences(r.Context(), id, windowStart, windowEnd)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "GetOccurrences", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteSuccess(w, occurrences); err != nil {
		h.log.Error("failed to write success response", "handler", "GetOccurrences", "operation", "WriteSuccess", "error", err)
	}
}

// Validate dry-runs an activity configuration without persisting it.
func (h *ActivityHandler) Validate(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var activity model.Activity
	if err := json.NewDecoder(r.Body).Decode(&activity); err != nil {
		if writeErr := httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{
			Error: "Invalid request body",
		}); writeErr != nil {
			h.log.Error("failed to write JSON response", "handler", "Validate", "operation", "WriteJSON", "error", writeErr)
		}
		return
	}

	if err := h.service.ValidateConfig(&activity); err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Validate", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	httputil.WriteNoContent(w)
}

func (h *ActivityHandler) RegisterRoutes(router *httprouter.Router) {
	router.GET("/api/v1/activities", h.GetAll)
	router.GET("/api/v1/activities/:id", h.GetByID)
	router.GET("/api/v1/activities/:id/occurrences", h.GetOccurrences)
	router.POST("/api/v1/activities/validate", h.Validate)
}
