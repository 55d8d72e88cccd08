package settlement

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/LuccaDangelo/RachAi/internal/money"
	"github.com/LuccaDangelo/RachAi/pkg/middleware"
	"github.com/LuccaDangelo/RachAi/pkg/response"
	"github.com/LuccaDangelo/RachAi/pkg/validate"
)

// Handler handles HTTP requests for settlement operations
type Handler struct {
	service *Service
}

// NewHandler creates a new settlement handler
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Routes returns the router for settlement endpoints
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Get("/group/{groupId}", h.GroupSettlements)
	r.Post("/payments", h.RecordPayment)
	r.Get("/summary", h.MyDebts)

	return r
}

// GroupSettlements handles GET /settlements/group/{groupId}
// @Summary      Get group settlements
// @Description  Get a group's balances, suggested settlement plan and payment history
// @Tags         settlements
// @Produce      json
// @Param        groupId path int true "Group ID"
// @Success      200 {object} response.APIResponse{data=GroupSettlementsResponse}
// @Failure      404 {object} response.APIResponse
// @Router       /settlements/group/{groupId} [get]
func (h *Handler) GroupSettlements(w http.ResponseWriter, r *http.Request) {
	groupID, err := strconv.ParseInt(chi.URLParam(r, "groupId"), 10, 64)
	if err != nil {
		response.BadRequest(w, "Invalid group ID")
		return
	}

	actorID, ok := middleware.GetUserID(r.Context())
	if !ok {
		response.Unauthorized(w, "Authentication required")
		return
	}

	result, err := h.service.GroupSettlements(r.Context(), actorID, groupID)
	if err != nil {
		if errors.Is(err, ErrGroupNotFound) {
			response.NotFound(w, err.Error())
			return
		}
		response.InternalError(w, "Failed to compute settlements")
		return
	}

	response.JSON(w, http.StatusOK, result)
}

// RecordPayment handles POST /settlements/payments
// @Summary      Record a settlement payment
// @Description  Record that the authenticated user paid another participant; must match a suggested settlement
// @Tags         settlements
// @Accept       json
// @Produce      json
// @Param        request body RecordPaymentRequest true "Payment record request"
// @Success      201 {object} response.APIResponse{data=PaymentResponse}
// @Failure      400 {object} response.APIResponse
// @Failure      404 {object} response.APIResponse
// @Failure      422 {object} response.APIResponse
// @Router       /settlements/payments [post]
func (h *Handler) RecordPayment(w http.ResponseWriter, r *http.Request) {
	actorID, ok := middleware.GetUserID(r.Context())
	if !ok {
		response.Unauthorized(w, "Authentication required")
		return
	}

	var req RecordPaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}

	if fields := validate.Struct(&req); fields != nil {
		response.ValidationFailed(w, fields)
		return
	}

	payment, err := h.service.RecordPayment(r.Context(), actorID, &req)
	if err != nil {
		switch {
		case errors.Is(err, ErrGroupNotFound):
			response.NotFound(w, err.Error())
		case errors.Is(err, money.ErrInvalidAmount),
			errors.Is(err, money.ErrTooManyDecimals),
			errors.Is(err, ErrNonPositiveAmount),
			errors.Is(err, ErrSelfPayment):
			response.BadRequest(w, err.Error())
		case errors.Is(err, ErrReceiverNotMember),
			errors.Is(err, ErrNoMatchingDebt):
			response.UnprocessableEntity(w, err.Error())
		default:
			response.InternalError(w, "Failed to record payment")
		}
		return
	}

	response.JSON(w, http.StatusCreated, payment.ToResponse())
}

// MyDebts handles GET /settlements/summary
// @Summary      Get my debts summary
// @Description  Aggregate the authenticated user's suggested settlements across all their groups
// @Tags         settlements
// @Produce      json
// @Success      200 {object} response.APIResponse{data=DebtsSummaryResponse}
// @Router       /settlements/summary [get]
func (h *Handler) MyDebts(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		response.Unauthorized(w, "Authentication required")
		return
	}

	summary, err := h.service.MyDebts(r.Context(), userID)
	if err != nil {
		response.InternalError(w, "Failed to build debts summary")
		return
	}

	response.JSON(w, http.StatusOK, summary)
}
