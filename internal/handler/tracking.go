package handler

import (
	"context"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/konveksio/api/internal/database"
)

// TrackingStore defines the database methods needed by the public tracking
// endpoint. Satisfied by *database.Queries.
type TrackingStore interface {
	GetOrderByInvoice(ctx context.Context, invoiceID string) (database.Order, error)
	GetUserByID(ctx context.Context, id uuid.UUID) (database.User, error)
	ListOrderProgressByOrder(ctx context.Context, orderID uuid.UUID) ([]database.ListOrderProgressRow, error)
}

// TrackingHandler serves the unauthenticated order tracking page. End
// customers get the invoice number from their reseller; the response
// carries no money fields and no account identifiers.
type TrackingHandler struct {
	store TrackingStore
}

// NewTrackingHandler creates a new TrackingHandler.
func NewTrackingHandler(store TrackingStore) *TrackingHandler {
	return &TrackingHandler{store: store}
}

// RegisterRoutes registers tracking endpoints on the given Chi router.
func (h *TrackingHandler) RegisterRoutes(r chi.Router) {
	r.Get("/tracking/{invoiceId}", h.Track)
}

type trackingResponse struct {
	InvoiceID    string                     `json:"invoice_id"`
	Title        string                     `json:"title"`
	Status       string                     `json:"status"`
	OrderedBy    string                     `json:"ordered_by"`
	ShipmentCode *string                    `json:"shipment_code"`
	LinkTracking *string                    `json:"link_tracking"`
	StartAt      *time.Time                 `json:"start_at"`
	FinishAt     *time.Time                 `json:"finish_at"`
	Progress     []trackingProgressResponse `json:"progress"`
}

type trackingProgressResponse struct {
	Status       string    `json:"status"`
	LinkProgress *string   `json:"link_progress"`
	UpdatedBy    string    `json:"updated_by"`
	CreatedAt    time.Time `json:"created_at"`
}

// Track handles GET /tracking/{invoiceId}.
func (h *TrackingHandler) Track(w http.ResponseWriter, r *http.Request) {
	invoiceID := chi.URLParam(r, "invoiceId")
	if invoiceID == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invoice ID is required"})
		return
	}

	order, err := h.store.GetOrderByInvoice(r.Context(), invoiceID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "order not found"})
			return
		}
		log.Printf("ERROR: get order by invoice: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	owner, err := h.store.GetUserByID(r.Context(), order.CreatedBy)
	if err != nil {
		log.Printf("ERROR: get order owner: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	progress, err := h.store.ListOrderProgressByOrder(r.Context(), order.ID)
	if err != nil {
		log.Printf("ERROR: list order progress: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	resp := trackingResponse{
		InvoiceID: order.InvoiceID,
		Title:     order.Title,
		Status:    order.Status,
		OrderedBy: owner.Name,
		Progress:  make([]trackingProgressResponse, len(progress)),
	}
	if order.ShipmentCode.Valid {
		resp.ShipmentCode = &order.ShipmentCode.String
	}
	if order.LinkTracking.Valid {
		resp.LinkTracking = &order.LinkTracking.String
	}
	if order.StartAt.Valid {
		resp.StartAt = &order.StartAt.Time
	}
	if order.FinishAt.Valid {
		resp.FinishAt = &order.FinishAt.Time
	}

	for i, p := range progress {
		row := trackingProgressResponse{
			Status:    p.Status,
			UpdatedBy: p.CreatedByName,
			CreatedAt: p.CreatedAt.Time,
		}
		if p.LinkProgress.Valid {
			row.LinkProgress = &p.LinkProgress.String
		}
		resp.Progress[i] = row
	}

	writeJSON(w, http.StatusOK, resp)
}
