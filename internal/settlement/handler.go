package settlement

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/divvyhq/divvy/internal/expense"
	"github.com/divvyhq/divvy/internal/group"
	"github.com/divvyhq/divvy/pkg/middleware"
	"github.com/divvyhq/divvy/pkg/response"
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

	r.Post("/", h.SettleUp)
	r.Get("/group/{groupId}/plan", h.Plan)

	return r
}

// Plan handles GET /settlements/group/{groupId}/plan
// @Summary      Get a group's settlement plan
// @Description  The pairwise transfers that would zero every balance, computed fresh from the current balance snapshot
// @Tags         settlements
// @Produce      json
// @Param        groupId path int true "Group ID"
// @Success      200 {object} response.APIResponse{data=PlanResponse}
// @Failure      404 {object} response.APIResponse
// @Router       /settlements/group/{groupId}/plan [get]
func (h *Handler) Plan(w http.ResponseWriter, r *http.Request) {
	groupID, err := strconv.ParseInt(chi.URLParam(r, "groupId"), 10, 64)
	if err != nil {
		response.BadRequest(w, "Invalid group ID")
		return
	}

	plan, err := h.service.Plan(r.Context(), groupID)
	if err != nil {
		if errors.Is(err, group.ErrGroupNotFound) {
			response.NotFound(w, err.Error())
			return
		}
		response.InternalError(w, "Failed to compute settlement plan")
		return
	}

	response.JSON(w, http.StatusOK, plan)
}

// SettleUp handles POST /settlements
// @Summary      Record a settle-up payment
// @Description  The acting user pays the receiver; the settlement entry, balance deltas and both personal mirrors commit atomically
// @Tags         settlements
// @Accept       json
// @Produce      json
// @Param        request body CreateSettlementRequest true "Settlement request"
// @Success      201 {object} response.APIResponse{data=expense.ExpenseResponse}
// @Failure      400 {object} response.APIResponse
// @Failure      404 {object} response.APIResponse
// @Failure      409 {object} response.APIResponse
// @Router       /settlements [post]
func (h *Handler) SettleUp(w http.ResponseWriter, r *http.Request) {
	payerID, ok := middleware.GetUserID(r.Context())
	if !ok {
		response.Unauthorized(w, "Missing user identity")
		return
	}

	var req CreateSettlementRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}

	result, err := h.service.SettleUp(r.Context(), payerID, &req)
	if err != nil {
		if errors.Is(err, group.ErrGroupNotFound) {
			response.NotFound(w, err.Error())
			return
		}
		if errors.Is(err, ErrCannotSettleSelf) {
			response.Conflict(w, err.Error())
			return
		}
		if errors.Is(err, ErrNotMember) || errors.Is(err, ErrNonPositiveAmount) {
			response.BadRequest(w, err.Error())
			return
		}
		response.InternalError(w, "Failed to record settlement")
		return
	}

	resp := result.Expense.ToResponse()
	resp.Shares = make([]*expense.ShareResponse, len(result.Shares))
	for i, s := range result.Shares {
		resp.Shares[i] = s.ToResponse()
	}

	response.JSON(w, http.StatusCreated, resp)
}
