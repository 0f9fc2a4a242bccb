package mirror

import (
	"database/sql"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/divvyhq/divvy/pkg/middleware"
	"github.com/divvyhq/divvy/pkg/response"
)

// Handler serves the acting user's personal expense log
type Handler struct {
	db   *sql.DB
	repo *Repository
}

// NewHandler creates a new mirror handler
func NewHandler(db *sql.DB, repo *Repository) *Handler {
	return &Handler{db: db, repo: repo}
}

// Routes returns the router for personal log endpoints
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Get("/", h.List)

	return r
}

// List handles GET /me/expenses
// @Summary      List the acting user's personal log
// @Description  Shadow records of the shared expenses and settlements the user was involved in, newest first
// @Tags         personal
// @Produce      json
// @Param        page query int false "Page number" default(1)
// @Param        per_page query int false "Items per page" default(20)
// @Success      200 {object} response.APIResponse{data=[]EntryResponse}
// @Router       /me/expenses [get]
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		response.Unauthorized(w, "Missing user identity")
		return
	}

	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	perPage, _ := strconv.Atoi(r.URL.Query().Get("per_page"))

	if page < 1 {
		page = 1
	}
	if perPage < 1 || perPage > 100 {
		perPage = 20
	}

	entries, total, err := h.repo.ListByUser(r.Context(), h.db, userID, perPage, (page-1)*perPage)
	if err != nil {
		response.InternalError(w, "Failed to list personal expenses")
		return
	}

	entryResponses := make([]*EntryResponse, len(entries))
	for i, e := range entries {
		entryResponses[i] = e.ToResponse()
	}

	totalPages := (total + perPage - 1) / perPage
	meta := &response.Meta{
		Page:       page,
		PerPage:    perPage,
		Total:      total,
		TotalPages: totalPages,
	}

	response.JSONWithMeta(w, http.StatusOK, entryResponses, meta)
}
