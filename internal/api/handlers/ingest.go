package handlers

import (
	"context"
	"net/http"

	"github.com/pratik-mahalle/voltcast-alerts/internal/api/dto"
	"github.com/pratik-mahalle/voltcast-alerts/internal/api/middleware"
	"github.com/pratik-mahalle/voltcast-alerts/internal/domain/rule"
	"github.com/pratik-mahalle/voltcast-alerts/internal/pkg/errors"
	"github.com/pratik-mahalle/voltcast-alerts/internal/pkg/logger"
	"github.com/pratik-mahalle/voltcast-alerts/internal/pkg/utils"
	"github.com/pratik-mahalle/voltcast-alerts/internal/pkg/validator"
)

// Ingester evaluates one measurement and queues its violations
type Ingester interface {
	Process(ctx context.Context, m rule.Measurement) (int, error)
}

type IngestHandler struct {
	ingester  Ingester
	logger    *logger.Logger
	validator *validator.Validator
}

func NewIngestHandler(ingester Ingester, log *logger.Logger, val *validator.Validator) *IngestHandler {
	return &IngestHandler{ingester: ingester, logger: log, validator: val}
}

// Ingest evaluates a pushed measurement
// @Summary Ingest measurement
// @Description Evaluate a measurement against the user's active rules. Alerts are delivered asynchronously.
// @Tags Ingestion
// @Accept json
// @Produce json
// @Param request body dto.IngestRequest true "Measurement"
// @Success 200 {object} utils.MessageResponse "Data processed"
// @Failure 400 {object} utils.ErrorResponse "Invalid request"
// @Failure 500 {object} utils.ErrorResponse "Internal server error"
// @Router /api/v1/data/ingest [post]
func (h *IngestHandler) Ingest(w http.ResponseWriter, r *http.Request) {
	var req dto.IngestRequest
	if appErr := decodeJSON(w, r, &req); appErr != nil {
		utils.WriteError(w, appErr)
		return
	}

	if errs := h.validator.Validate(req); len(errs) > 0 {
		utils.WriteError(w, errors.ValidationError("Validation failed", errs))
		return
	}

	queued, err := h.ingester.Process(r.Context(), req.ToMeasurement())
	if err != nil {
		writeAppError(w, err, "Failed to process data")
		return
	}

	middleware.AddLogField(w, "violations", queued)
	utils.WriteMessage(w, http.StatusOK, "Data processed")
}
