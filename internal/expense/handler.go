package expense

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/divvyhq/divvy/internal/expense/split"
	"github.com/divvyhq/divvy/internal/group"
	"github.com/divvyhq/divvy/pkg/middleware"
	"github.com/divvyhq/divvy/pkg/response"
)

// Handler handles HTTP requests for expense operations
type Handler struct {
	service *Service
}

// NewHandler creates a new expense handler
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Routes returns the router for expense endpoints
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Post("/", h.Create)
	r.Get("/{id}", h.GetByID)
	r.Put("/{id}", h.Update)
	r.Delete("/{id}", h.Delete)

	// Group-based listing
	r.Get("/group/{groupId}", h.ListByGroup)

	return r
}

// splitError maps split validation failures to 422 before anything was
// persisted; everything else falls through to the caller.
func splitError(w http.ResponseWriter, err error) bool {
	switch {
	case errors.Is(err, split.ErrSplitMismatch),
		errors.Is(err, split.ErrNoParticipants),
		errors.Is(err, split.ErrNonPositiveAmount),
		errors.Is(err, split.ErrMissingShare),
		errors.Is(err, split.ErrNegativeShare),
		errors.Is(err, split.ErrUnknownPolicy):
		response.UnprocessableEntity(w, err.Error())
		return true
	}
	return false
}

// Create handles POST /expenses
// @Summary      Record a shared expense
// @Description  Computes the share map (EQUAL or EXACT), persists the entry, applies balance deltas and writes the acting user's personal mirror atomically
// @Tags         expenses
// @Accept       json
// @Produce      json
// @Param        request body CreateExpenseRequest true "Expense creation request"
// @Success      201 {object} response.APIResponse{data=ExpenseResponse}
// @Failure      400 {object} response.APIResponse
// @Failure      422 {object} response.APIResponse
// @Router       /expenses [post]
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	actorID, ok := middleware.GetUserID(r.Context())
	if !ok {
		response.Unauthorized(w, "Missing user identity")
		return
	}

	var req CreateExpenseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}

	result, err := h.service.Create(r.Context(), actorID, &req)
	if err != nil {
		if splitError(w, err) {
			return
		}
		if errors.Is(err, group.ErrGroupNotFound) {
			response.NotFound(w, err.Error())
			return
		}
		if errors.Is(err, ErrNotMember) {
			response.BadRequest(w, err.Error())
			return
		}
		response.InternalError(w, "Failed to record expense")
		return
	}

	response.JSON(w, http.StatusCreated, toResponseWithShares(result))
}

// GetByID handles GET /expenses/{id}
// @Summary      Get an entry by ID
// @Description  Get an entry with its per-member share map
// @Tags         expenses
// @Produce      json
// @Param        id path int true "Expense ID"
// @Success      200 {object} response.APIResponse{data=ExpenseResponse}
// @Failure      404 {object} response.APIResponse
// @Router       /expenses/{id} [get]
func (h *Handler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		response.BadRequest(w, "Invalid expense ID")
		return
	}

	result, err := h.service.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, ErrExpenseNotFound) {
			response.NotFound(w, err.Error())
			return
		}
		response.InternalError(w, "Failed to get expense")
		return
	}

	response.JSON(w, http.StatusOK, toResponseWithShares(result))
}

// Update handles PUT /expenses/{id}
// @Summary      Edit a shared expense
// @Description  Replaces the entry's full state; the old balance contribution is reversed and the new one applied in one transaction
// @Tags         expenses
// @Accept       json
// @Produce      json
// @Param        id path int true "Expense ID"
// @Param        request body UpdateExpenseRequest true "Full new state"
// @Success      200 {object} response.APIResponse{data=ExpenseResponse}
// @Failure      404 {object} response.APIResponse
// @Failure      409 {object} response.APIResponse
// @Failure      422 {object} response.APIResponse
// @Router       /expenses/{id} [put]
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		response.BadRequest(w, "Invalid expense ID")
		return
	}

	var req UpdateExpenseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}

	result, err := h.service.Update(r.Context(), id, &req)
	if err != nil {
		if splitError(w, err) {
			return
		}
		if errors.Is(err, ErrExpenseNotFound) {
			response.NotFound(w, err.Error())
			return
		}
		if errors.Is(err, ErrCannotEditSettlement) {
			response.Conflict(w, err.Error())
			return
		}
		if errors.Is(err, ErrNotMember) {
			response.BadRequest(w, err.Error())
			return
		}
		response.InternalError(w, "Failed to update expense")
		return
	}

	response.JSON(w, http.StatusOK, toResponseWithShares(result))
}

// Delete handles DELETE /expenses/{id}
// @Summary      Delete an entry
// @Description  Reverses the entry's balance contribution and removes its personal mirrors
// @Tags         expenses
// @Produce      json
// @Param        id path int true "Expense ID"
// @Success      200 {object} response.APIResponse
// @Failure      404 {object} response.APIResponse
// @Router       /expenses/{id} [delete]
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		response.BadRequest(w, "Invalid expense ID")
		return
	}

	if err := h.service.Delete(r.Context(), id); err != nil {
		if errors.Is(err, ErrExpenseNotFound) {
			response.NotFound(w, err.Error())
			return
		}
		response.InternalError(w, "Failed to delete expense")
		return
	}

	response.JSON(w, http.StatusOK, map[string]string{"message": "Expense deleted successfully"})
}

// ListByGroup handles GET /expenses/group/{groupId}
// @Summary      List a group's entries
// @Description  Entries ordered by calendar date descending, expenses and settlements alike
// @Tags         expenses
// @Produce      json
// @Param        groupId path int true "Group ID"
// @Param        page query int false "Page number" default(1)
// @Param        per_page query int false "Items per page" default(20)
// @Success      200 {object} response.APIResponse{data=[]ExpenseResponse}
// @Router       /expenses/group/{groupId} [get]
func (h *Handler) ListByGroup(w http.ResponseWriter, r *http.Request) {
	groupID, err := strconv.ParseInt(chi.URLParam(r, "groupId"), 10, 64)
	if err != nil {
		response.BadRequest(w, "Invalid group ID")
		return
	}

	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	perPage, _ := strconv.Atoi(r.URL.Query().Get("per_page"))

	if page < 1 {
		page = 1
	}
	if perPage < 1 {
		perPage = 20
	}

	expenses, total, err := h.service.ListByGroup(r.Context(), groupID, page, perPage)
	if err != nil {
		response.InternalError(w, "Failed to list expenses")
		return
	}

	expenseResponses := make([]*ExpenseResponse, len(expenses))
	for i, e := range expenses {
		expenseResponses[i] = e.ToResponse()
	}

	totalPages := (total + perPage - 1) / perPage
	meta := &response.Meta{
		Page:       page,
		PerPage:    perPage,
		Total:      total,
		TotalPages: totalPages,
	}

	response.JSONWithMeta(w, http.StatusOK, expenseResponses, meta)
}

func toResponseWithShares(result *ExpenseWithShares) *ExpenseResponse {
	resp := result.Expense.ToResponse()
	resp.Shares = make([]*ShareResponse, len(result.Shares))
	for i, s := range result.Shares {
		resp.Shares[i] = s.ToResponse()
	}
	return resp
}
