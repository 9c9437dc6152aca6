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

// LearningStore defines the database methods needed by learning resource
// handlers. Satisfied by *database.Queries.
type LearningStore interface {
	ListLearnings(ctx context.Context) ([]database.Learning, error)
	CreateLearning(ctx context.Context, arg database.CreateLearningParams) (database.Learning, error)
	UpdateLearning(ctx context.Context, arg database.UpdateLearningParams) (database.Learning, error)
	DeleteLearning(ctx context.Context, id uuid.UUID) (uuid.UUID, error)
}

// LearningHandler handles onboarding material CRUD endpoints. The list is
// readable by every authenticated role; writes are admin-and-up.
type LearningHandler struct {
	store LearningStore
}

// NewLearningHandler creates a new LearningHandler.
func NewLearningHandler(store LearningStore) *LearningHandler {
	return &LearningHandler{store: store}
}

// RegisterReadRoutes registers the read-only learning endpoints.
func (h *LearningHandler) RegisterReadRoutes(r chi.Router) {
	r.Get("/", h.List)
}

// RegisterWriteRoutes registers the admin-gated learning endpoints.
func (h *LearningHandler) RegisterWriteRoutes(r chi.Router) {
	r.Post("/", h.Create)
	r.Put("/{id}", h.Update)
	r.Delete("/{id}", h.Delete)
}

// --- Request / Response types ---

type learningRequest struct {
	Title       string `json:"title"`
	Url         string `json:"url"`
	Description string `json:"description"`
}

type learningResponse struct {
	ID          uuid.UUID `json:"id"`
	Title       string    `json:"title"`
	Url         string    `json:"url"`
	Description *string   `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
}

func toLearningResponse(l database.Learning) learningResponse {
	resp := learningResponse{ID: l.ID, Title: l.Title, Url: l.Url, CreatedAt: l.CreatedAt}
	if l.Description.Valid {
		resp.Description = &l.Description.String
	}
	return resp
}

// --- Handlers ---

// List returns all learning resources, newest first.
func (h *LearningHandler) List(w http.ResponseWriter, r *http.Request) {
	learnings, err := h.store.ListLearnings(r.Context())
	if err != nil {
		log.Printf("ERROR: list learnings: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	resp := make([]learningResponse, len(learnings))
	for i, l := range learnings {
		resp[i] = toLearningResponse(l)
	}

	writeJSON(w, http.StatusOK, resp)
}

// Create adds a new learning resource.
func (h *LearningHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req learningRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	if req.Title == "" || req.Url == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "title and url are required"})
		return
	}

	learning, err := h.store.CreateLearning(r.Context(), database.CreateLearningParams{
		Title:       req.Title,
		Url:         req.Url,
		Description: textOrNull(req.Description),
	})
	if err != nil {
		log.Printf("ERROR: create learning: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	writeJSON(w, http.StatusCreated, toLearningResponse(learning))
}

// Update modifies an existing learning resource.
func (h *LearningHandler) Update(w http.ResponseWriter, r *http.Request) {
	learningID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid learning ID"})
		return
	}

	var req learningRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	if req.Title == "" || req.Url == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "title and url are required"})
		return
	}

	learning, err := h.store.UpdateLearning(r.Context(), database.UpdateLearningParams{
		ID:          learningID,
		Title:       req.Title,
		Url:         req.Url,
		Description: textOrNull(req.Description),
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "learning not found"})
			return
		}
		log.Printf("ERROR: update learning: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	writeJSON(w, http.StatusOK, toLearningResponse(learning))
}

// Delete removes a learning resource.
func (h *LearningHandler) Delete(w http.ResponseWriter, r *http.Request) {
	learningID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid learning ID"})
		return
	}

	if _, err := h.store.DeleteLearning(r.Context(), learningID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "learning not found"})
			return
		}
		log.Printf("ERROR: delete learning: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
