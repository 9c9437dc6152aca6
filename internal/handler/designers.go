package handler

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/konveksio/api/internal/database"
)

// DesignerStore defines the database methods needed by designer handlers.
// Satisfied by *database.Queries.
type DesignerStore interface {
	ListDesigners(ctx context.Context) ([]database.Designer, error)
	CreateDesigner(ctx context.Context, arg database.CreateDesignerParams) (database.Designer, error)
	UpdateDesigner(ctx context.Context, arg database.UpdateDesignerParams) (database.Designer, error)
	DeleteDesigner(ctx context.Context, id uuid.UUID) (uuid.UUID, error)
}

// DesignerHandler handles the freelance designer directory CRUD endpoints.
type DesignerHandler struct {
	store DesignerStore
}

// NewDesignerHandler creates a new DesignerHandler.
func NewDesignerHandler(store DesignerStore) *DesignerHandler {
	return &DesignerHandler{store: store}
}

// RegisterReadRoutes registers the read-only designer endpoints.
func (h *DesignerHandler) RegisterReadRoutes(r chi.Router) {
	r.Get("/", h.List)
}

// RegisterWriteRoutes registers the admin-gated designer endpoints.
func (h *DesignerHandler) RegisterWriteRoutes(r chi.Router) {
	r.Post("/", h.Create)
	r.Put("/{id}", h.Update)
	r.Delete("/{id}", h.Delete)
}

// --- Request / Response types ---

type designerRequest struct {
	Name          string `json:"name"`
	Phone         string `json:"phone"`
	LinkPortfolio string `json:"link_portfolio"`
}

type designerResponse struct {
	ID            uuid.UUID `json:"id"`
	Name          string    `json:"name"`
	Phone         *string   `json:"phone"`
	LinkPortfolio *string   `json:"link_portfolio"`
	CreatedAt     time.Time `json:"created_at"`
}

func toDesignerResponse(d database.Designer) designerResponse {
	resp := designerResponse{ID: d.ID, Name: d.Name, CreatedAt: d.CreatedAt}
	if d.Phone.Valid {
		resp.Phone = &d.Phone.String
	}
	if d.LinkPortfolio.Valid {
		resp.LinkPortfolio = &d.LinkPortfolio.String
	}
	return resp
}

// --- Handlers ---

// List returns all designers ordered by name.
func (h *DesignerHandler) List(w http.ResponseWriter, r *http.Request) {
	designers, err := h.store.ListDesigners(r.Context())
	if err != nil {
		log.Printf("ERROR: list designers: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	resp := make([]designerResponse, len(designers))
	for i, d := range designers {
		resp[i] = toDesignerResponse(d)
	}

	writeJSON(w, http.StatusOK, resp)
}

// Create adds a new designer.
func (h *DesignerHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req designerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	if req.Name == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "name is required"})
		return
	}

	designer, err := h.store.CreateDesigner(r.Context(), database.CreateDesignerParams{
		Name:          req.Name,
		Phone:         textOrNull(req.Phone),
		LinkPortfolio: textOrNull(req.LinkPortfolio),
	})
	if err != nil {
		log.Printf("ERROR: create designer: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	writeJSON(w, http.StatusCreated, toDesignerResponse(designer))
}

// Update modifies an existing designer.
func (h *DesignerHandler) Update(w http.ResponseWriter, r *http.Request) {
	designerID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid designer ID"})
		return
	}

	var req designerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	if req.Name == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "name is required"})
		return
	}

	designer, err := h.store.UpdateDesigner(r.Context(), database.UpdateDesignerParams{
		ID:            designerID,
		Name:          req.Name,
		Phone:         textOrNull(req.Phone),
		LinkPortfolio: textOrNull(req.LinkPortfolio),
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "designer not found"})
			return
		}
		log.Printf("ERROR: update designer: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	writeJSON(w, http.StatusOK, toDesignerResponse(designer))
}

// Delete removes a designer.
func (h *DesignerHandler) Delete(w http.ResponseWriter, r *http.Request) {
	designerID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid designer ID"})
		return
	}

	if _, err := h.store.DeleteDesigner(r.Context(), designerID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "designer not found"})
			return
		}
		log.Printf("ERROR: delete designer: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
