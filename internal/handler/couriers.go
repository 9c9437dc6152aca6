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

// CourierStore defines the database methods needed by courier handlers.
// Satisfied by *database.Queries.
type CourierStore interface {
	ListCouriers(ctx context.Context) ([]database.Courier, error)
	CreateCourier(ctx context.Context, arg database.CreateCourierParams) (database.Courier, error)
	UpdateCourier(ctx context.Context, arg database.UpdateCourierParams) (database.Courier, error)
	DeleteCourier(ctx context.Context, id uuid.UUID) (uuid.UUID, error)
}

// CourierHandler handles courier master data CRUD endpoints.
type CourierHandler struct {
	store CourierStore
}

// NewCourierHandler creates a new CourierHandler.
func NewCourierHandler(store CourierStore) *CourierHandler {
	return &CourierHandler{store: store}
}

// RegisterReadRoutes registers the read-only courier endpoints.
func (h *CourierHandler) RegisterReadRoutes(r chi.Router) {
	r.Get("/", h.List)
}

// RegisterWriteRoutes registers the admin-gated courier endpoints.
func (h *CourierHandler) RegisterWriteRoutes(r chi.Router) {
	r.Post("/", h.Create)
	r.Put("/{id}", h.Update)
	r.Delete("/{id}", h.Delete)
}

// --- Request / Response types ---

type courierRequest struct {
	Code string `json:"code"`
	Name string `json:"name"`
}

type courierResponse struct {
	ID        uuid.UUID `json:"id"`
	Code      string    `json:"code"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

func toCourierResponse(c database.Courier) courierResponse {
	return courierResponse{ID: c.ID, Code: c.Code, Name: c.Name, CreatedAt: c.CreatedAt}
}

// --- Handlers ---

// List returns all couriers ordered by code.
func (h *CourierHandler) List(w http.ResponseWriter, r *http.Request) {
	couriers, err := h.store.ListCouriers(r.Context())
	if err != nil {
		log.Printf("ERROR: list couriers: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	resp := make([]courierResponse, len(couriers))
	for i, c := range couriers {
		resp[i] = toCourierResponse(c)
	}

	writeJSON(w, http.StatusOK, resp)
}

// Create adds a new courier.
func (h *CourierHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req courierRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	if req.Code == "" || req.Name == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "code and name are required"})
		return
	}

	courier, err := h.store.CreateCourier(r.Context(), database.CreateCourierParams{
		Code: req.Code,
		Name: req.Name,
	})
	if err != nil {
		if isUniqueViolation(err) {
			writeJSON(w, http.StatusConflict, map[string]string{"error": "courier code already exists"})
			return
		}
		log.Printf("ERROR: create courier: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	writeJSON(w, http.StatusCreated, toCourierResponse(courier))
}

// Update modifies an existing courier.
func (h *CourierHandler) Update(w http.ResponseWriter, r *http.Request) {
	courierID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid courier ID"})
		return
	}

	var req courierRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	if req.Code == "" || req.Name == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "code and name are required"})
		return
	}

	courier, err := h.store.UpdateCourier(r.Context(), database.UpdateCourierParams{
		ID:   courierID,
		Code: req.Code,
		Name: req.Name,
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "courier not found"})
			return
		}
		if isUniqueViolation(err) {
			writeJSON(w, http.StatusConflict, map[string]string{"error": "courier code already exists"})
			return
		}
		log.Printf("ERROR: update courier: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	writeJSON(w, http.StatusOK, toCourierResponse(courier))
}

// Delete removes a courier.
func (h *CourierHandler) Delete(w http.ResponseWriter, r *http.Request) {
	courierID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid courier ID"})
		return
	}

	if _, err := h.store.DeleteCourier(r.Context(), courierID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "courier not found"})
			return
		}
		log.Printf("ERROR: delete courier: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
