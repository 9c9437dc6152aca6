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

// GarmentTypeStore defines the database methods needed by garment type
// handlers. Satisfied by *database.Queries.
type GarmentTypeStore interface {
	ListGarmentTypes(ctx context.Context) ([]database.GarmentType, error)
	CreateGarmentType(ctx context.Context, arg database.CreateGarmentTypeParams) (database.GarmentType, error)
	UpdateGarmentType(ctx context.Context, arg database.UpdateGarmentTypeParams) (database.GarmentType, error)
	DeleteGarmentType(ctx context.Context, id uuid.UUID) (uuid.UUID, error)
}

// GarmentTypeHandler handles garment type master data ("jenis") CRUD
// endpoints. Type codes feed invoice number composition.
type GarmentTypeHandler struct {
	store GarmentTypeStore
}

// NewGarmentTypeHandler creates a new GarmentTypeHandler.
func NewGarmentTypeHandler(store GarmentTypeStore) *GarmentTypeHandler {
	return &GarmentTypeHandler{store: store}
}

// RegisterReadRoutes registers the read-only garment type endpoints.
func (h *GarmentTypeHandler) RegisterReadRoutes(r chi.Router) {
	r.Get("/", h.List)
}

// RegisterWriteRoutes registers the admin-gated garment type endpoints.
func (h *GarmentTypeHandler) RegisterWriteRoutes(r chi.Router) {
	r.Post("/", h.Create)
	r.Put("/{id}", h.Update)
	r.Delete("/{id}", h.Delete)
}

// --- Request / Response types ---

type garmentTypeRequest struct {
	Code string `json:"code"`
	Name string `json:"name"`
}

type garmentTypeResponse struct {
	ID        uuid.UUID `json:"id"`
	Code      string    `json:"code"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

func toGarmentTypeResponse(g database.GarmentType) garmentTypeResponse {
	return garmentTypeResponse{ID: g.ID, Code: g.Code, Name: g.Name, CreatedAt: g.CreatedAt}
}

// --- Handlers ---

// List returns all garment types ordered by code.
func (h *GarmentTypeHandler) List(w http.ResponseWriter, r *http.Request) {
	types, err := h.store.ListGarmentTypes(r.Context())
	if err != nil {
		log.Printf("ERROR: list garment types: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	resp := make([]garmentTypeResponse, len(types))
	for i, g := range types {
		resp[i] = toGarmentTypeResponse(g)
	}

	writeJSON(w, http.StatusOK, resp)
}

// Create adds a new garment type.
func (h *GarmentTypeHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req garmentTypeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	if req.Code == "" || req.Name == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "code and name are required"})
		return
	}

	gt, err := h.store.CreateGarmentType(r.Context(), database.CreateGarmentTypeParams{
		Code: req.Code,
		Name: req.Name,
	})
	if err != nil {
		if isUniqueViolation(err) {
			writeJSON(w, http.StatusConflict, map[string]string{"error": "garment type code already exists"})
			return
		}
		log.Printf("ERROR: create garment type: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	writeJSON(w, http.StatusCreated, toGarmentTypeResponse(gt))
}

// Update modifies an existing garment type.
func (h *GarmentTypeHandler) Update(w http.ResponseWriter, r *http.Request) {
	typeID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid garment type ID"})
		return
	}

	var req garmentTypeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	if req.Code == "" || req.Name == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "code and name are required"})
		return
	}

	gt, err := h.store.UpdateGarmentType(r.Context(), database.UpdateGarmentTypeParams{
		ID:   typeID,
		Code: req.Code,
		Name: req.Name,
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "garment type not found"})
			return
		}
		if isUniqueViolation(err) {
			writeJSON(w, http.StatusConflict, map[string]string{"error": "garment type code already exists"})
			return
		}
		log.Printf("ERROR: update garment type: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	writeJSON(w, http.StatusOK, toGarmentTypeResponse(gt))
}

// Delete removes a garment type.
func (h *GarmentTypeHandler) Delete(w http.ResponseWriter, r *http.Request) {
	typeID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid garment type ID"})
		return
	}

	if _, err := h.store.DeleteGarmentType(r.Context(), typeID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "garment type not found"})
			return
		}
		log.Printf("ERROR: delete garment type: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
