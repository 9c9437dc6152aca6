package handler

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/konveksio/api/internal/database"
	"github.com/konveksio/api/internal/enum"
	"github.com/konveksio/api/internal/middleware"
	"github.com/konveksio/api/internal/service"
	"github.com/shopspring/decimal"
)

// OrderServicer defines the workflow engine methods needed by order handlers.
// Satisfied by *service.OrderService; narrow interface for testability.
type OrderServicer interface {
	CreateOrder(ctx context.Context, req service.CreateOrderRequest) (*service.CreateOrderResult, error)
	Advance(ctx context.Context, orderID uuid.UUID, targetStatus string, actor service.Actor, evidenceLink string) (database.Order, error)
	Settle(ctx context.Context, req service.SettleRequest) (database.Order, error)
}

// OrderStore defines the database methods needed by order read/edit handlers.
// Satisfied by *database.Queries; narrow interface for testability.
type OrderStore interface {
	GetOrder(ctx context.Context, id uuid.UUID) (database.Order, error)
	ListOrders(ctx context.Context, arg database.ListOrdersParams) ([]database.Order, error)
	ListOrderDetailsByOrder(ctx context.Context, orderID uuid.UUID) ([]database.OrderDetail, error)
	ListOrderProgressByOrder(ctx context.Context, orderID uuid.UUID) ([]database.ListOrderProgressRow, error)
	UpdateOrderInfo(ctx context.Context, arg database.UpdateOrderInfoParams) (database.Order, error)
	DeleteOrder(ctx context.Context, id uuid.UUID) (uuid.UUID, error)
}

// OrderHandler handles order endpoints.
type OrderHandler struct {
	svc   OrderServicer
	store OrderStore
}

// NewOrderHandler creates a new OrderHandler.
func NewOrderHandler(svc OrderServicer, store OrderStore) *OrderHandler {
	return &OrderHandler{svc: svc, store: store}
}

// --- Request / Response types ---

type createOrderRequest struct {
	Title          string                     `json:"title"`
	Description    string                     `json:"description"`
	TotalAmount    string                     `json:"total_amount"`
	DpAmount       string                     `json:"dp_amount"`
	ProofDp        string                     `json:"proof_dp"`
	LinkMockup     string                     `json:"link_mockup"`
	LinkCollar     string                     `json:"link_collar"`
	LinkLayout     string                     `json:"link_layout"`
	LinkSharedrive string                     `json:"link_sharedrive"`
	BahanCode      string                     `json:"bahan_code"`
	JenisCode      string                     `json:"jenis_code"`
	StartAt        string                     `json:"start_at"`
	FinishAt       string                     `json:"finish_at"`
	Details        []createOrderDetailRequest `json:"order_details"`
}

type createOrderDetailRequest struct {
	SizeID   string `json:"size_id"`
	Quantity int32  `json:"quantity"`
}

type updateOrderRequest struct {
	Title          string `json:"title"`
	Description    string `json:"description"`
	TotalAmount    string `json:"total_amount"`
	DpAmount       string `json:"dp_amount"`
	ProofDp        string `json:"proof_dp"`
	LinkMockup     string `json:"link_mockup"`
	LinkCollar     string `json:"link_collar"`
	LinkLayout     string `json:"link_layout"`
	LinkSharedrive string `json:"link_sharedrive"`
	BahanCode      string `json:"bahan_code"`
	JenisCode      string `json:"jenis_code"`
	ShipmentCode   string `json:"shipment_code"`
	ShipmentCost   string `json:"shipment_cost"`
	LinkTracking   string `json:"link_tracking"`
	StartAt        string `json:"start_at"`
	FinishAt       string `json:"finish_at"`
}

type updateStatusRequest struct {
	Status       string `json:"status"`
	LinkProgress string `json:"link_progress"`
}

type settleOrderRequest struct {
	SettlementAmount string `json:"settlement_amount"`
	ProofSettlement  string `json:"proof_settlement"`
	LinkProgress     string `json:"link_progress"`
}

type orderResponse struct {
	ID               uuid.UUID             `json:"id"`
	InvoiceID        string                `json:"invoice_id"`
	Title            string                `json:"title"`
	Description      *string               `json:"description"`
	Status           string                `json:"status"`
	TotalAmount      string                `json:"total_amount"`
	DpAmount         string                `json:"dp_amount"`
	SettlementAmount string                `json:"settlement_amount"`
	ProofDp          *string               `json:"proof_dp"`
	ProofSettlement  *string               `json:"proof_settlement"`
	LinkMockup       *string               `json:"link_mockup"`
	LinkCollar       *string               `json:"link_collar"`
	LinkLayout       *string               `json:"link_layout"`
	LinkSharedrive   *string               `json:"link_sharedrive"`
	BahanCode        string                `json:"bahan_code"`
	JenisCode        string                `json:"jenis_code"`
	ShipmentCode     *string               `json:"shipment_code"`
	ShipmentCost     *string               `json:"shipment_cost"`
	LinkTracking     *string               `json:"link_tracking"`
	StartAt          *time.Time            `json:"start_at"`
	FinishAt         *time.Time            `json:"finish_at"`
	CreatedBy        uuid.UUID             `json:"created_by"`
	CreatedAt        time.Time             `json:"created_at"`
	UpdatedAt        time.Time             `json:"updated_at"`
	Details          []orderDetailResponse `json:"order_details,omitempty"`
}

type orderDetailResponse struct {
	ID       uuid.UUID `json:"id"`
	SizeID   uuid.UUID `json:"size_id"`
	Quantity int32     `json:"quantity"`
}

type progressResponse struct {
	ID           uuid.UUID       `json:"id"`
	Status       string          `json:"status"`
	LinkProgress *string         `json:"link_progress"`
	User         userRefResponse `json:"user"`
	CreatedAt    time.Time       `json:"created_at"`
}

type userRefResponse struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
}

// orderDetailViewResponse extends orderResponse with the ledger for the
// GET detail endpoint.
type orderDetailViewResponse struct {
	orderResponse
	Progress []progressResponse `json:"progress"`
}

type orderListResponse struct {
	Orders []orderResponse `json:"orders"`
	Limit  int             `json:"limit"`
	Offset int             `json:"offset"`
}

// --- Handlers ---

// Create handles POST /orders.
func (h *OrderHandler) Create(w http.ResponseWriter, r *http.Request) {
	claims := middleware.ClaimsFromContext(r.Context())
	if claims == nil {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "not authenticated"})
		return
	}

	var req createOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	details := make([]service.CreateOrderDetailRequest, len(req.Details))
	for i, d := range req.Details {
		details[i] = service.CreateOrderDetailRequest{SizeID: d.SizeID, Quantity: d.Quantity}
	}

	result, err := h.svc.CreateOrder(r.Context(), service.CreateOrderRequest{
		Title:          req.Title,
		Description:    req.Description,
		TotalAmount:    req.TotalAmount,
		DpAmount:       req.DpAmount,
		ProofDp:        req.ProofDp,
		LinkMockup:     req.LinkMockup,
		LinkCollar:     req.LinkCollar,
		LinkLayout:     req.LinkLayout,
		LinkSharedrive: req.LinkSharedrive,
		BahanCode:      req.BahanCode,
		JenisCode:      req.JenisCode,
		StartAt:        req.StartAt,
		FinishAt:       req.FinishAt,
		CreatedBy:      claims.UserID,
		Details:        details,
	})
	if err != nil {
		writeOrderError(w, "create order", err)
		return
	}

	resp := dbOrderToResponse(result.Order)
	resp.Details = make([]orderDetailResponse, len(result.Details))
	for i, d := range result.Details {
		resp.Details[i] = orderDetailResponse{ID: d.ID, SizeID: d.SizeID, Quantity: d.Quantity}
	}
	writeJSON(w, http.StatusCreated, resp)
}

// List handles GET /orders. Resellers only ever see their own orders.
func (h *OrderHandler) List(w http.ResponseWriter, r *http.Request) {
	claims := middleware.ClaimsFromContext(r.Context())
	if claims == nil {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "not authenticated"})
		return
	}

	limit := 20
	if s := r.URL.Query().Get("limit"); s != "" {
		if v, err := strconv.Atoi(s); err == nil && v > 0 {
			limit = v
		}
	}
	if limit > 100 {
		limit = 100
	}

	offset := 0
	if s := r.URL.Query().Get("offset"); s != "" {
		if v, err := strconv.Atoi(s); err == nil && v >= 0 {
			offset = v
		}
	}

	params := database.ListOrdersParams{
		Limit:  int32(limit),
		Offset: int32(offset),
	}

	if claims.Role == enum.RoleReseller {
		params.CreatedBy = pgtype.UUID{Bytes: claims.UserID, Valid: true}
	}
	if s := r.URL.Query().Get("status"); s != "" {
		if !enum.IsValidOrderStatus(s) {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid status"})
			return
		}
		params.Status = pgtype.Text{String: s, Valid: true}
	}
	if s := r.URL.Query().Get("start_date"); s != "" {
		t, err := time.Parse("2006-01-02", s)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid start_date format, use YYYY-MM-DD"})
			return
		}
		params.StartDate = pgtype.Timestamptz{Time: t, Valid: true}
	}
	if s := r.URL.Query().Get("end_date"); s != "" {
		t, err := time.Parse("2006-01-02", s)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid end_date format, use YYYY-MM-DD"})
			return
		}
		params.EndDate = pgtype.Timestamptz{Time: t.AddDate(0, 0, 1), Valid: true}
	}

	orders, err := h.store.ListOrders(r.Context(), params)
	if err != nil {
		log.Printf("ERROR: list orders: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	resp := make([]orderResponse, len(orders))
	for i, o := range orders {
		resp[i] = dbOrderToResponse(o)
	}

	writeJSON(w, http.StatusOK, orderListResponse{Orders: resp, Limit: limit, Offset: offset})
}

// Get handles GET /orders/{id}: the order, its size breakdown and the full
// progress ledger, newest entry first.
func (h *OrderHandler) Get(w http.ResponseWriter, r *http.Request) {
	claims := middleware.ClaimsFromContext(r.Context())
	if claims == nil {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "not authenticated"})
		return
	}

	orderID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid order ID"})
		return
	}

	order, err := h.store.GetOrder(r.Context(), orderID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "order not found"})
			return
		}
		log.Printf("ERROR: get order: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	if claims.Role == enum.RoleReseller && order.CreatedBy != claims.UserID {
		writeJSON(w, http.StatusForbidden, map[string]string{"error": "access denied for this order"})
		return
	}

	details, err := h.store.ListOrderDetailsByOrder(r.Context(), orderID)
	if err != nil {
		log.Printf("ERROR: list order details: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	progress, err := h.store.ListOrderProgressByOrder(r.Context(), orderID)
	if err != nil {
		log.Printf("ERROR: list order progress: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	resp := orderDetailViewResponse{orderResponse: dbOrderToResponse(order)}
	resp.Details = make([]orderDetailResponse, len(details))
	for i, d := range details {
		resp.Details[i] = orderDetailResponse{ID: d.ID, SizeID: d.SizeID, Quantity: d.Quantity}
	}
	resp.Progress = make([]progressResponse, len(progress))
	for i, p := range progress {
		resp.Progress[i] = toProgressResponse(p)
	}

	writeJSON(w, http.StatusOK, resp)
}

// Update handles PUT /orders/{id}. Non-status fields only, and only while
// the order is still REQUESTED; production never runs against silently
// changed specs.
func (h *OrderHandler) Update(w http.ResponseWriter, r *http.Request) {
	claims := middleware.ClaimsFromContext(r.Context())
	if claims == nil {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "not authenticated"})
		return
	}

	orderID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid order ID"})
		return
	}

	var req updateOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	if req.Title == "" || req.BahanCode == "" || req.JenisCode == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "title, bahan_code and jenis_code are required"})
		return
	}

	total, err := decimal.NewFromString(req.TotalAmount)
	if err != nil || total.LessThanOrEqual(decimal.Zero) {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid total_amount"})
		return
	}
	dp := decimal.Zero
	if req.DpAmount != "" {
		dp, err = decimal.NewFromString(req.DpAmount)
		if err != nil || dp.IsNegative() {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid dp_amount"})
			return
		}
	}
	if dp.GreaterThan(total) {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "dp_amount must not exceed total_amount"})
		return
	}

	shipmentCost := pgtype.Numeric{}
	if req.ShipmentCost != "" {
		c, err := decimal.NewFromString(req.ShipmentCost)
		if err != nil || c.IsNegative() {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid shipment_cost"})
			return
		}
		shipmentCost = decimalToNumeric(c)
	}

	startAt, err := parseOptionalDate(req.StartAt)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid start_at, use RFC3339"})
		return
	}
	finishAt, err := parseOptionalDate(req.FinishAt)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid finish_at, use RFC3339"})
		return
	}

	current, err := h.store.GetOrder(r.Context(), orderID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "order not found"})
			return
		}
		log.Printf("ERROR: get order for update: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	if !canEditOrder(claims.Role, claims.UserID, current.CreatedBy) {
		writeJSON(w, http.StatusForbidden, map[string]string{"error": "insufficient permissions"})
		return
	}

	updated, err := h.store.UpdateOrderInfo(r.Context(), database.UpdateOrderInfoParams{
		ID:             orderID,
		Title:          req.Title,
		Description:    textOrNull(req.Description),
		TotalAmount:    decimalToNumeric(total),
		DpAmount:       decimalToNumeric(dp),
		ProofDp:        textOrNull(req.ProofDp),
		LinkMockup:     textOrNull(req.LinkMockup),
		LinkCollar:     textOrNull(req.LinkCollar),
		LinkLayout:     textOrNull(req.LinkLayout),
		LinkSharedrive: textOrNull(req.LinkSharedrive),
		BahanCode:      req.BahanCode,
		JenisCode:      req.JenisCode,
		ShipmentCode:   textOrNull(req.ShipmentCode),
		ShipmentCost:   shipmentCost,
		LinkTracking:   textOrNull(req.LinkTracking),
		StartAt:        startAt,
		FinishAt:       finishAt,
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			// The SQL only matches REQUESTED orders; the row exists, so
			// the order has already entered production.
			writeJSON(w, http.StatusConflict, map[string]string{"error": "order can only be edited while REQUESTED"})
			return
		}
		log.Printf("ERROR: update order: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	writeJSON(w, http.StatusOK, dbOrderToResponse(updated))
}

// UpdateStatus handles PATCH /orders/{id}/status: one workflow transition.
func (h *OrderHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	claims := middleware.ClaimsFromContext(r.Context())
	if claims == nil {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "not authenticated"})
		return
	}

	orderID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid order ID"})
		return
	}

	var req updateStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	if req.Status == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "status is required"})
		return
	}

	actor := service.Actor{ID: claims.UserID, Role: claims.Role}
	updated, err := h.svc.Advance(r.Context(), orderID, req.Status, actor, req.LinkProgress)
	if err != nil {
		writeOrderError(w, "advance order", err)
		return
	}

	writeJSON(w, http.StatusOK, dbOrderToResponse(updated))
}

// Settle handles POST /orders/{id}/settlement: the terminal transition with
// exact payment reconciliation.
func (h *OrderHandler) Settle(w http.ResponseWriter, r *http.Request) {
	claims := middleware.ClaimsFromContext(r.Context())
	if claims == nil {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "not authenticated"})
		return
	}

	orderID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid order ID"})
		return
	}

	var req settleOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	updated, err := h.svc.Settle(r.Context(), service.SettleRequest{
		OrderID:         orderID,
		Actor:           service.Actor{ID: claims.UserID, Role: claims.Role},
		Amount:          req.SettlementAmount,
		ProofSettlement: req.ProofSettlement,
		EvidenceLink:    req.LinkProgress,
	})
	if err != nil {
		writeOrderError(w, "settle order", err)
		return
	}

	writeJSON(w, http.StatusOK, dbOrderToResponse(updated))
}

// Delete handles DELETE /orders/{id}. Hard delete, cascades details and
// ledger. Routed super_admin-only.
func (h *OrderHandler) Delete(w http.ResponseWriter, r *http.Request) {
	orderID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid order ID"})
		return
	}

	if _, err := h.store.DeleteOrder(r.Context(), orderID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "order not found"})
			return
		}
		log.Printf("ERROR: delete order: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// --- Helpers ---

func canEditOrder(role string, userID, ownerID uuid.UUID) bool {
	switch role {
	case enum.RoleSuperAdmin, enum.RoleAdmin:
		return true
	case enum.RoleReseller:
		return userID == ownerID
	}
	return false
}

// writeOrderError maps workflow engine errors to HTTP status codes.
func writeOrderError(w http.ResponseWriter, op string, err error) {
	switch {
	case errors.Is(err, service.ErrOrderNotFound):
		writeJSON(w, http.StatusNotFound, map[string]string{"error": err.Error()})
	case errors.Is(err, service.ErrForbidden):
		writeJSON(w, http.StatusForbidden, map[string]string{"error": err.Error()})
	case errors.Is(err, service.ErrInvalidTransition), errors.Is(err, service.ErrConflict):
		writeJSON(w, http.StatusConflict, map[string]string{"error": err.Error()})
	case isOrderValidationError(err):
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
	default:
		log.Printf("ERROR: %s: %v", op, err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
	}
}

// isOrderValidationError checks if the error is a known validation error
// from the service layer that should result in 400 Bad Request.
func isOrderValidationError(err error) bool {
	return errors.Is(err, service.ErrTitleRequired) ||
		errors.Is(err, service.ErrBahanRequired) ||
		errors.Is(err, service.ErrJenisRequired) ||
		errors.Is(err, service.ErrInvalidTotalAmount) ||
		errors.Is(err, service.ErrInvalidDpAmount) ||
		errors.Is(err, service.ErrDpExceedsTotal) ||
		errors.Is(err, service.ErrEmptyDetails) ||
		errors.Is(err, service.ErrInvalidQuantity) ||
		errors.Is(err, service.ErrInvalidSizeID) ||
		errors.Is(err, service.ErrInvalidDate) ||
		errors.Is(err, service.ErrMaterialNotFound) ||
		errors.Is(err, service.ErrGarmentTypeNotFound) ||
		errors.Is(err, service.ErrInvalidStatus) ||
		errors.Is(err, service.ErrAmountRequired) ||
		errors.Is(err, service.ErrInsufficientAmount) ||
		errors.Is(err, service.ErrOverpayment)
}

func toProgressResponse(p database.ListOrderProgressRow) progressResponse {
	resp := progressResponse{
		ID:        p.ID,
		Status:    p.Status,
		User:      userRefResponse{ID: p.CreatedBy, Name: p.CreatedByName},
		CreatedAt: p.CreatedAt.Time,
	}
	if p.LinkProgress.Valid {
		resp.LinkProgress = &p.LinkProgress.String
	}
	return resp
}

// dbOrderToResponse converts a database.Order to an orderResponse.
func dbOrderToResponse(o database.Order) orderResponse {
	resp := orderResponse{
		ID:               o.ID,
		InvoiceID:        o.InvoiceID,
		Title:            o.Title,
		Status:           o.Status,
		TotalAmount:      numericToString(o.TotalAmount),
		DpAmount:         numericToString(o.DpAmount),
		SettlementAmount: numericToString(o.SettlementAmount),
		BahanCode:        o.BahanCode,
		JenisCode:        o.JenisCode,
		CreatedBy:        o.CreatedBy,
		CreatedAt:        o.CreatedAt,
		UpdatedAt:        o.UpdatedAt,
	}

	if o.Description.Valid {
		resp.Description = &o.Description.String
	}
	if o.ProofDp.Valid {
		resp.ProofDp = &o.ProofDp.String
	}
	if o.ProofSettlement.Valid {
		resp.ProofSettlement = &o.ProofSettlement.String
	}
	if o.LinkMockup.Valid {
		resp.LinkMockup = &o.LinkMockup.String
	}
	if o.LinkCollar.Valid {
		resp.LinkCollar = &o.LinkCollar.String
	}
	if o.LinkLayout.Valid {
		resp.LinkLayout = &o.LinkLayout.String
	}
	if o.LinkSharedrive.Valid {
		resp.LinkSharedrive = &o.LinkSharedrive.String
	}
	if o.ShipmentCode.Valid {
		resp.ShipmentCode = &o.ShipmentCode.String
	}
	if o.ShipmentCost.Valid {
		s := numericToString(o.ShipmentCost)
		resp.ShipmentCost = &s
	}
	if o.LinkTracking.Valid {
		resp.LinkTracking = &o.LinkTracking.String
	}
	if o.StartAt.Valid {
		resp.StartAt = &o.StartAt.Time
	}
	if o.FinishAt.Valid {
		resp.FinishAt = &o.FinishAt.Time
	}

	return resp
}

func textOrNull(s string) pgtype.Text {
	if s == "" {
		return pgtype.Text{}
	}
	return pgtype.Text{String: s, Valid: true}
}

func parseOptionalDate(s string) (pgtype.Timestamptz, error) {
	if s == "" {
		return pgtype.Timestamptz{}, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return pgtype.Timestamptz{}, err
	}
	return pgtype.Timestamptz{Time: t, Valid: true}, nil
}

func decimalToNumeric(d decimal.Decimal) pgtype.Numeric {
	var n pgtype.Numeric
	_ = n.Scan(d.StringFixed(2))
	return n
}

func numericToString(n pgtype.Numeric) string {
	if !n.Valid {
		return "0.00"
	}
	val, err := n.Value()
	if err != nil || val == nil {
		return "0.00"
	}
	d, err := decimal.NewFromString(val.(string))
	if err != nil {
		return "0.00"
	}
	return d.StringFixed(2)
}
