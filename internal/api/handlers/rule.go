package handlers

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/pratik-mahalle/voltcast-alerts/internal/api/dto"
	"github.com/pratik-mahalle/voltcast-alerts/internal/api/middleware"
	"github.com/pratik-mahalle/voltcast-alerts/internal/domain/rule"
	"github.com/pratik-mahalle/voltcast-alerts/internal/pkg/errors"
	"github.com/pratik-mahalle/voltcast-alerts/internal/pkg/logger"
	"github.com/pratik-mahalle/voltcast-alerts/internal/pkg/utils"
	"github.com/pratik-mahalle/voltcast-alerts/internal/pkg/validator"
)

type RuleHandler struct {
	service   rule.Service
	logger    *logger.Logger
	validator *validator.Validator
}

func NewRuleHandler(service rule.Service, log *logger.Logger, val *validator.Validator) *RuleHandler {
	return &RuleHandler{service: service, logger: log, validator: val}
}

// Create stores a new alert rule
// @Summary Create alert rule
// @Description Create an active threshold rule for a user's metric
// @Tags Rules
// @Accept json
// @Produce json
// @Param request body dto.CreateRuleRequest true "Rule definition"
// @Success 201 {object} dto.RuleDTO "Created rule"
// @Failure 400 {object} utils.ErrorResponse "Invalid request"
// @Failure 500 {object} utils.ErrorResponse "Internal server error"
// @Security BearerAuth
// @Router /alert/api/v1/rules [post]
func (h *RuleHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateRuleRequest
	if appErr := decodeJSON(w, r, &req); appErr != nil {
		utils.WriteError(w, appErr)
		return
	}

	if errs := h.validator.Validate(req); len(errs) > 0 {
		utils.WriteError(w, errors.ValidationError("Validation failed", errs))
		return
	}

	created, err := h.service.Create(r.Context(), req.ToInput())
	if err != nil {
		writeAppError(w, err, "Failed to create rule")
		return
	}

	middleware.AddLogField(w, "rule_id", created.ID)
	utils.WriteJSON(w, http.StatusCreated, dto.ToRuleDTO(created))
}

// ListForUser returns a user's active rules
// @Summary List user rules
// @Description List the active alert rules owned by a user
// @Tags Rules
// @Produce json
// @Param user_id path string true "User ID"
// @Success 200 {array} dto.RuleDTO "Active rules"
// @Failure 500 {object} utils.ErrorResponse "Internal server error"
// @Security BearerAuth
// @Router /alert/api/v1/rules/{user_id} [get]
func (h *RuleHandler) ListForUser(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "user_id")

	rules, err := h.service.ListForUser(r.Context(), userID)
	if err != nil {
		writeAppError(w, err, "Failed to list rules")
		return
	}

	utils.WriteJSON(w, http.StatusOK, dto.ToRuleDTOs(rules))
}

// Deactivate soft-deletes a rule
// @Summary Deactivate rule
// @Description Mark a rule inactive. Repeating the call succeeds.
// @Tags Rules
// @Produce json
// @Param rule_id path int true "Rule ID"
// @Success 200 {object} utils.MessageResponse "Rule deactivated"
// @Failure 400 {object} utils.ErrorResponse "Invalid rule id"
// @Failure 404 {object} utils.ErrorResponse "Rule not found"
// @Failure 500 {object} utils.ErrorResponse "Internal server error"
// @Security BearerAuth
// @Router /alert/api/v1/rules/{rule_id} [delete]
func (h *RuleHandler) Deactivate(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "rule_id"), 10, 64)
	if err != nil {
		utils.WriteError(w, errors.BadRequest("Invalid rule id"))
		return
	}

	if err := h.service.Deactivate(r.Context(), id); err != nil {
		writeAppError(w, err, "Failed to deactivate rule")
		return
	}

	utils.WriteMessage(w, http.StatusOK, "Rule deactivated")
}
