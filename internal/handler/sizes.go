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

// SizeStore defines the database methods needed by size handlers.
// Satisfied by *database.Queries.
type SizeStore interface {
	ListSizes(ctx context.Context) ([]database.Size, error)
	CreateSize(ctx context.Context, arg database.CreateSizeParams) (database.Size, error)
	UpdateSize(ctx context.Context, arg database.UpdateSizeParams) (database.Size, error)
	DeleteSize(ctx context.Context, id uuid.UUID) (uuid.UUID, error)
}

// SizeHandler handles size master data CRUD endpoints. Order details
// reference sizes by ID, so resellers read the list when placing orders.
type SizeHandler struct {
	store SizeStore
}

// NewSizeHandler creates a new SizeHandler.
func NewSizeHandler(store SizeStore) *SizeHandler {
	return &SizeHandler{store: store}
}

// RegisterReadRoutes registers the read-only size endpoints.
func (h *SizeHandler) RegisterReadRoutes(r chi.Router) {
	r.Get("/", h.List)
}

// RegisterWriteRoutes registers the admin-gated size endpoints.
func (h *SizeHandler) RegisterWriteRoutes(r chi.Router) {
	r.Post("/", h.Create)
	r.Put("/{id}", h.Update)
	r.Delete("/{id}", h.Delete)
}

// --- Request / Response types ---

type sizeRequest struct {
	Name      string `json:"name"`
	SortOrder int32  `json:"sort_order"`
}

type sizeResponse struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	SortOrder int32     `json:"sort_order"`
	CreatedAt time.Time `json:"created_at"`
}

func toSizeResponse(s database.Size) sizeResponse {
	return sizeResponse{ID: s.ID, Name: s.Name, SortOrder: s.SortOrder, CreatedAt: s.CreatedAt}
}

// --- Handlers ---

// List returns all sizes in display order.
func (h *SizeHandler) List(w http.ResponseWriter, r *http.Request) {
	sizes, err := h.store.ListSizes(r.Context())
	if err != nil {
		log.Printf("ERROR: list sizes: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	resp := make([]sizeResponse, len(sizes))
	for i, s := range sizes {
		resp[i] = toSizeResponse(s)
	}

	writeJSON(w, http.StatusOK, resp)
}

// Create adds a new size.
func (h *SizeHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req sizeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	if req.Name == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "name is required"})
		return
	}

	size, err := h.store.CreateSize(r.Context(), database.CreateSizeParams{
		Name:      req.Name,
		SortOrder: req.SortOrder,
	})
	if err != nil {
		log.Printf("ERROR: create size: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	writeJSON(w, http.StatusCreated, toSizeResponse(size))
}

// Update modifies an existing size.
func (h *SizeHandler) Update(w http.ResponseWriter, r *http.Request) {
	sizeID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid size ID"})
		return
	}

	var req sizeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	if req.Name == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "name is required"})
		return
	}

	size, err := h.store.UpdateSize(r.Context(), database.UpdateSizeParams{
		ID:        sizeID,
		Name:      req.Name,
		SortOrder: req.SortOrder,
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "size not found"})
			return
		}
		log.Printf("ERROR: update size: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	writeJSON(w, http.StatusOK, toSizeResponse(size))
}

// Delete removes a size. Fails with 409 if any order detail references it.
func (h *SizeHandler) Delete(w http.ResponseWriter, r *http.Request) {
	sizeID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid size ID"})
		return
	}

	if _, err := h.store.DeleteSize(r.Context(), sizeID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "size not found"})
			return
		}
		if isForeignKeyViolation(err) {
			writeJSON(w, http.StatusConflict, map[string]string{"error": "size is referenced by existing orders"})
			return
		}
		log.Printf("ERROR: delete size: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
