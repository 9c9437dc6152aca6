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

// MaterialStore defines the database methods needed by material handlers.
// Satisfied by *database.Queries; narrow interface for testability.
type MaterialStore interface {
	ListMaterials(ctx context.Context) ([]database.Material, error)
	CreateMaterial(ctx context.Context, arg database.CreateMaterialParams) (database.Material, error)
	UpdateMaterial(ctx context.Context, arg database.UpdateMaterialParams) (database.Material, error)
	DeleteMaterial(ctx context.Context, id uuid.UUID) (uuid.UUID, error)
}

// MaterialHandler handles fabric master data ("bahan") CRUD endpoints.
// Material codes feed invoice number composition. The list is readable by
// every authenticated role; writes are admin-and-up.
type MaterialHandler struct {
	store MaterialStore
}

// NewMaterialHandler creates a new MaterialHandler.
func NewMaterialHandler(store MaterialStore) *MaterialHandler {
	return &MaterialHandler{store: store}
}

// RegisterReadRoutes registers the read-only material endpoints.
func (h *MaterialHandler) RegisterReadRoutes(r chi.Router) {
	r.Get("/", h.List)
}

// RegisterWriteRoutes registers the admin-gated material endpoints.
func (h *MaterialHandler) RegisterWriteRoutes(r chi.Router) {
	r.Post("/", h.Create)
	r.Put("/{id}", h.Update)
	r.Delete("/{id}", h.Delete)
}

// --- Request / Response types ---

type materialRequest struct {
	Code string `json:"code"`
	Name string `json:"name"`
}

type materialResponse struct {
	ID        uuid.UUID `json:"id"`
	Code      string    `json:"code"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

func toMaterialResponse(m database.Material) materialResponse {
	return materialResponse{ID: m.ID, Code: m.Code, Name: m.Name, CreatedAt: m.CreatedAt}
}

// --- Handlers ---

// List returns all materials ordered by code.
func (h *MaterialHandler) List(w http.ResponseWriter, r *http.Request) {
	materials, err := h.store.ListMaterials(r.Context())
	if err != nil {
		log.Printf("ERROR: list materials: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	resp := make([]materialResponse, len(materials))
	for i, m := range materials {
		resp[i] = toMaterialResponse(m)
	}

	writeJSON(w, http.StatusOK, resp)
}

// Create adds a new material.
func (h *MaterialHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req materialRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	if req.Code == "" || req.Name == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "code and name are required"})
		return
	}

	material, err := h.store.CreateMaterial(r.Context(), database.CreateMaterialParams{
		Code: req.Code,
		Name: req.Name,
	})
	if err != nil {
		if isUniqueViolation(err) {
			writeJSON(w, http.StatusConflict, map[string]string{"error": "material code already exists"})
			return
		}
		log.Printf("ERROR: create material: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	writeJSON(w, http.StatusCreated, toMaterialResponse(material))
}

// Update modifies an existing material.
func (h *MaterialHandler) Update(w http.ResponseWriter, r *http.Request) {
	materialID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid material ID"})
		return
	}

	var req materialRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	if req.Code == "" || req.Name == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "code and name are required"})
		return
	}

	material, err := h.store.UpdateMaterial(r.Context(), database.UpdateMaterialParams{
		ID:   materialID,
		Code: req.Code,
		Name: req.Name,
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "material not found"})
			return
		}
		if isUniqueViolation(err) {
			writeJSON(w, http.StatusConflict, map[string]string{"error": "material code already exists"})
			return
		}
		log.Printf("ERROR: update material: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	writeJSON(w, http.StatusOK, toMaterialResponse(material))
}

// Delete removes a material. Existing orders keep their bahan_code; the
// reference is a soft code, not a foreign key.
func (h *MaterialHandler) Delete(w http.ResponseWriter, r *http.Request) {
	materialID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid material ID"})
		return
	}

	if _, err := h.store.DeleteMaterial(r.Context(), materialID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "material not found"})
			return
		}
		log.Printf("ERROR: delete material: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
