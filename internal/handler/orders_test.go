package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/konveksio/api/internal/auth"
	"github.com/konveksio/api/internal/database"
	"github.com/konveksio/api/internal/enum"
	"github.com/konveksio/api/internal/handler"
	"github.com/konveksio/api/internal/middleware"
	"github.com/konveksio/api/internal/service"
)

// --- Mock service ---

type mockOrderService struct {
	createOrderFn func(ctx context.Context, req service.CreateOrderRequest) (*service.CreateOrderResult, error)
	advanceFn     func(ctx context.Context, orderID uuid.UUID, targetStatus string, actor service.Actor, evidenceLink string) (database.Order, error)
	settleFn      func(ctx context.Context, req service.SettleRequest) (database.Order, error)
}

func (m *mockOrderService) CreateOrder(ctx context.Context, req service.CreateOrderRequest) (*service.CreateOrderResult, error) {
	return m.createOrderFn(ctx, req)
}
func (m *mockOrderService) Advance(ctx context.Context, orderID uuid.UUID, targetStatus string, actor service.Actor, evidenceLink string) (database.Order, error) {
	return m.advanceFn(ctx, orderID, targetStatus, actor, evidenceLink)
}
func (m *mockOrderService) Settle(ctx context.Context, req service.SettleRequest) (database.Order, error) {
	return m.settleFn(ctx, req)
}

// --- Mock store ---

type mockOrderStore struct {
	getOrderFn        func(ctx context.Context, id uuid.UUID) (database.Order, error)
	listOrdersFn      func(ctx context.Context, arg database.ListOrdersParams) ([]database.Order, error)
	listDetailsFn     func(ctx context.Context, orderID uuid.UUID) ([]database.OrderDetail, error)
	listProgressFn    func(ctx context.Context, orderID uuid.UUID) ([]database.ListOrderProgressRow, error)
	updateOrderInfoFn func(ctx context.Context, arg database.UpdateOrderInfoParams) (database.Order, error)
	deleteOrderFn     func(ctx context.Context, id uuid.UUID) (uuid.UUID, error)
}

func (m *mockOrderStore) GetOrder(ctx context.Context, id uuid.UUID) (database.Order, error) {
	return m.getOrderFn(ctx, id)
}
func (m *mockOrderStore) ListOrders(ctx context.Context, arg database.ListOrdersParams) ([]database.Order, error) {
	return m.listOrdersFn(ctx, arg)
}
func (m *mockOrderStore) ListOrderDetailsByOrder(ctx context.Context, orderID uuid.UUID) ([]database.OrderDetail, error) {
	return m.listDetailsFn(ctx, orderID)
}
func (m *mockOrderStore) ListOrderProgressByOrder(ctx context.Context, orderID uuid.UUID) ([]database.ListOrderProgressRow, error) {
	return m.listProgressFn(ctx, orderID)
}
func (m *mockOrderStore) UpdateOrderInfo(ctx context.Context, arg database.UpdateOrderInfoParams) (database.Order, error) {
	return m.updateOrderInfoFn(ctx, arg)
}
func (m *mockOrderStore) DeleteOrder(ctx context.Context, id uuid.UUID) (uuid.UUID, error) {
	return m.deleteOrderFn(ctx, id)
}

// --- Test helpers ---

const testJWTSecret = "test-secret-for-orders"

func setupOrderRouter(svc *mockOrderService, store *mockOrderStore) *chi.Mux {
	h := handler.NewOrderHandler(svc, store)
	r := chi.NewRouter()
	r.Group(func(r chi.Router) {
		r.Use(middleware.Authenticate(testJWTSecret))
		r.Route("/orders", func(r chi.Router) {
			r.Post("/", h.Create)
			r.Get("/", h.List)
			r.Get("/{id}", h.Get)
			r.Put("/{id}", h.Update)
			r.Patch("/{id}/status", h.UpdateStatus)
			r.Post("/{id}/settlement", h.Settle)
			r.With(middleware.RequireRole(enum.RoleSuperAdmin)).Delete("/{id}", h.Delete)
		})
	})
	return r
}

func doAuthRequest(t *testing.T, router http.Handler, method, path string, body interface{}, claims *auth.Claims) *httptest.ResponseRecorder {
	t.Helper()

	token, err := auth.GenerateToken(testJWTSecret, claims.UserID, claims.Name, claims.Role)
	if err != nil {
		t.Fatalf("generate token: %v", err)
	}

	var req *http.Request
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal request: %v", err)
		}
		req = httptest.NewRequest(method, path, bytes.NewReader(b))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	req.Header.Set("Authorization", "Bearer "+token)

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	return rr
}

func decodeBody(t *testing.T, rr *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var resp map[string]interface{}
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return resp
}

func testNumeric(val string) pgtype.Numeric {
	var n pgtype.Numeric
	_ = n.Scan(val)
	return n
}

func claimsFor(role string) *auth.Claims {
	return &auth.Claims{UserID: uuid.New(), Name: "Test User", Role: role}
}

func testOrder(createdBy uuid.UUID) database.Order {
	now := time.Now()
	return database.Order{
		ID:          uuid.New(),
		InvoiceID:   "KOS25911HDR",
		Title:       "Jersey Futsal FC Garuda",
		Status:      enum.OrderStatusRequested,
		TotalAmount: testNumeric("1500000.00"),
		DpAmount:    testNumeric("500000.00"),
		BahanCode:   "HDR",
		JenisCode:   "KOS",
		CreatedBy:   createdBy,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// --- Create ---

func TestOrderCreate_HappyPath(t *testing.T) {
	claims := claimsFor(enum.RoleReseller)

	var captured service.CreateOrderRequest
	svc := &mockOrderService{
		createOrderFn: func(ctx context.Context, req service.CreateOrderRequest) (*service.CreateOrderResult, error) {
			captured = req
			order := testOrder(req.CreatedBy)
			return &service.CreateOrderResult{
				Order: order,
				Details: []database.OrderDetail{
					{ID: uuid.New(), OrderID: order.ID, SizeID: uuid.New(), Quantity: 10},
				},
			}, nil
		},
	}

	router := setupOrderRouter(svc, &mockOrderStore{})
	rr := doAuthRequest(t, router, "POST", "/orders", map[string]interface{}{
		"title":        "Jersey Futsal FC Garuda",
		"total_amount": "1500000",
		"dp_amount":    "500000",
		"bahan_code":   "HDR",
		"jenis_code":   "KOS",
		"order_details": []map[string]interface{}{
			{"size_id": uuid.New().String(), "quantity": 10},
		},
	}, claims)

	if rr.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201: %s", rr.Code, rr.Body.String())
	}
	if captured.CreatedBy != claims.UserID {
		t.Errorf("created_by = %s, want the authenticated user %s", captured.CreatedBy, claims.UserID)
	}

	resp := decodeBody(t, rr)
	if resp["invoice_id"] != "KOS25911HDR" {
		t.Errorf("invoice_id = %v, want KOS25911HDR", resp["invoice_id"])
	}
	if resp["status"] != enum.OrderStatusRequested {
		t.Errorf("status = %v, want REQUESTED", resp["status"])
	}
}

func TestOrderCreate_NoAuth(t *testing.T) {
	router := setupOrderRouter(&mockOrderService{}, &mockOrderStore{})

	req := httptest.NewRequest("POST", "/orders", bytes.NewReader([]byte(`{}`)))
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", rr.Code)
	}
}

func TestOrderCreate_InvalidBody(t *testing.T) {
	router := setupOrderRouter(&mockOrderService{}, &mockOrderStore{})
	rr := doAuthRequest(t, router, "POST", "/orders", "not json", claimsFor(enum.RoleAdmin))

	if rr.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rr.Code)
	}
}

func TestOrderCreate_ValidationError(t *testing.T) {
	svc := &mockOrderService{
		createOrderFn: func(ctx context.Context, req service.CreateOrderRequest) (*service.CreateOrderResult, error) {
			return nil, service.ErrDpExceedsTotal
		},
	}

	router := setupOrderRouter(svc, &mockOrderStore{})
	rr := doAuthRequest(t, router, "POST", "/orders", map[string]interface{}{
		"title": "x",
	}, claimsFor(enum.RoleAdmin))

	if rr.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400: %s", rr.Code, rr.Body.String())
	}
}

// --- List ---

func TestOrderList_ResellerScopedToOwnOrders(t *testing.T) {
	claims := claimsFor(enum.RoleReseller)

	var captured database.ListOrdersParams
	store := &mockOrderStore{
		listOrdersFn: func(ctx context.Context, arg database.ListOrdersParams) ([]database.Order, error) {
			captured = arg
			return []database.Order{testOrder(claims.UserID)}, nil
		},
	}

	router := setupOrderRouter(&mockOrderService{}, store)
	rr := doAuthRequest(t, router, "GET", "/orders", nil, claims)

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rr.Code)
	}
	if !captured.CreatedBy.Valid || captured.CreatedBy.Bytes != claims.UserID {
		t.Errorf("reseller list must filter by creator, got %+v", captured.CreatedBy)
	}
}

func TestOrderList_AdminSeesAll(t *testing.T) {
	var captured database.ListOrdersParams
	store := &mockOrderStore{
		listOrdersFn: func(ctx context.Context, arg database.ListOrdersParams) ([]database.Order, error) {
			captured = arg
			return nil, nil
		},
	}

	router := setupOrderRouter(&mockOrderService{}, store)
	rr := doAuthRequest(t, router, "GET", "/orders?status=PRINTING&limit=5", nil, claimsFor(enum.RoleAdmin))

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rr.Code)
	}
	if captured.CreatedBy.Valid {
		t.Error("admin list must not be creator scoped")
	}
	if !captured.Status.Valid || captured.Status.String != enum.OrderStatusPrinting {
		t.Errorf("status filter = %+v, want PRINTING", captured.Status)
	}
	if captured.Limit != 5 {
		t.Errorf("limit = %d, want 5", captured.Limit)
	}
}

func TestOrderList_InvalidStatusFilter(t *testing.T) {
	router := setupOrderRouter(&mockOrderService{}, &mockOrderStore{})
	rr := doAuthRequest(t, router, "GET", "/orders?status=SHIPPED", nil, claimsFor(enum.RoleAdmin))

	if rr.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rr.Code)
	}
}

// --- Get ---

func TestOrderGet_WithLedger(t *testing.T) {
	claims := claimsFor(enum.RoleAdmin)
	order := testOrder(uuid.New())

	store := &mockOrderStore{
		getOrderFn: func(ctx context.Context, id uuid.UUID) (database.Order, error) {
			return order, nil
		},
		listDetailsFn: func(ctx context.Context, orderID uuid.UUID) ([]database.OrderDetail, error) {
			return []database.OrderDetail{{ID: uuid.New(), OrderID: order.ID, SizeID: uuid.New(), Quantity: 12}}, nil
		},
		listProgressFn: func(ctx context.Context, orderID uuid.UUID) ([]database.ListOrderProgressRow, error) {
			return []database.ListOrderProgressRow{
				{ID: uuid.New(), Status: enum.OrderStatusRequested, CreatedBy: order.CreatedBy, CreatedByName: "Reseller A", CreatedAt: pgtype.Timestamptz{Time: time.Now(), Valid: true}},
			}, nil
		},
	}

	router := setupOrderRouter(&mockOrderService{}, store)
	rr := doAuthRequest(t, router, "GET", "/orders/"+order.ID.String(), nil, claims)

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rr.Code, rr.Body.String())
	}
	resp := decodeBody(t, rr)
	progress, ok := resp["progress"].([]interface{})
	if !ok || len(progress) != 1 {
		t.Fatalf("progress = %v, want one entry", resp["progress"])
	}
}

func TestOrderGet_NotFound(t *testing.T) {
	store := &mockOrderStore{
		getOrderFn: func(ctx context.Context, id uuid.UUID) (database.Order, error) {
			return database.Order{}, pgx.ErrNoRows
		},
	}

	router := setupOrderRouter(&mockOrderService{}, store)
	rr := doAuthRequest(t, router, "GET", "/orders/"+uuid.New().String(), nil, claimsFor(enum.RoleAdmin))

	if rr.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rr.Code)
	}
}

func TestOrderGet_ResellerCannotSeeOthers(t *testing.T) {
	order := testOrder(uuid.New())
	store := &mockOrderStore{
		getOrderFn: func(ctx context.Context, id uuid.UUID) (database.Order, error) {
			return order, nil
		},
	}

	router := setupOrderRouter(&mockOrderService{}, store)
	rr := doAuthRequest(t, router, "GET", "/orders/"+order.ID.String(), nil, claimsFor(enum.RoleReseller))

	if rr.Code != http.StatusForbidden {
		t.Errorf("status = %d, want 403", rr.Code)
	}
}

// --- UpdateStatus ---

func TestOrderUpdateStatus_HappyPath(t *testing.T) {
	claims := claimsFor(enum.RoleAdmin)
	order := testOrder(uuid.New())

	var gotTarget, gotLink string
	var gotActor service.Actor
	svc := &mockOrderService{
		advanceFn: func(ctx context.Context, orderID uuid.UUID, targetStatus string, actor service.Actor, evidenceLink string) (database.Order, error) {
			gotTarget, gotLink, gotActor = targetStatus, evidenceLink, actor
			updated := order
			updated.Status = targetStatus
			return updated, nil
		},
	}

	router := setupOrderRouter(svc, &mockOrderStore{})
	rr := doAuthRequest(t, router, "PATCH", "/orders/"+order.ID.String()+"/status", map[string]interface{}{
		"status":        enum.OrderStatusApproved,
		"link_progress": "https://drive.example.com/dp.jpg",
	}, claims)

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rr.Code, rr.Body.String())
	}
	if gotTarget != enum.OrderStatusApproved {
		t.Errorf("target = %s, want APPROVED", gotTarget)
	}
	if gotLink != "https://drive.example.com/dp.jpg" {
		t.Errorf("link = %s, want evidence URL", gotLink)
	}
	if gotActor.ID != claims.UserID || gotActor.Role != enum.RoleAdmin {
		t.Errorf("actor = %+v, want the authenticated admin", gotActor)
	}
}

func TestOrderUpdateStatus_MissingStatus(t *testing.T) {
	router := setupOrderRouter(&mockOrderService{}, &mockOrderStore{})
	rr := doAuthRequest(t, router, "PATCH", "/orders/"+uuid.New().String()+"/status",
		map[string]interface{}{}, claimsFor(enum.RoleAdmin))

	if rr.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rr.Code)
	}
}

func TestOrderUpdateStatus_ErrorMapping(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode int
	}{
		{"not found", service.ErrOrderNotFound, http.StatusNotFound},
		{"forbidden", service.ErrForbidden, http.StatusForbidden},
		{"invalid transition", service.ErrInvalidTransition, http.StatusConflict},
		{"lost race", service.ErrConflict, http.StatusConflict},
		{"unknown status", service.ErrInvalidStatus, http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &mockOrderService{
				advanceFn: func(ctx context.Context, orderID uuid.UUID, targetStatus string, actor service.Actor, evidenceLink string) (database.Order, error) {
					return database.Order{}, tt.err
				},
			}
			router := setupOrderRouter(svc, &mockOrderStore{})
			rr := doAuthRequest(t, router, "PATCH", "/orders/"+uuid.New().String()+"/status",
				map[string]interface{}{"status": enum.OrderStatusApproved}, claimsFor(enum.RoleAdmin))

			if rr.Code != tt.wantCode {
				t.Errorf("status = %d, want %d", rr.Code, tt.wantCode)
			}
		})
	}
}

// --- Settle ---

func TestOrderSettle_HappyPath(t *testing.T) {
	claims := claimsFor(enum.RoleAdmin)
	order := testOrder(uuid.New())
	order.Status = enum.OrderStatusWaitingSettlement

	var captured service.SettleRequest
	svc := &mockOrderService{
		settleFn: func(ctx context.Context, req service.SettleRequest) (database.Order, error) {
			captured = req
			updated := order
			updated.Status = enum.OrderStatusCompleted
			updated.SettlementAmount = testNumeric("1000000.00")
			return updated, nil
		},
	}

	router := setupOrderRouter(svc, &mockOrderStore{})
	rr := doAuthRequest(t, router, "POST", "/orders/"+order.ID.String()+"/settlement", map[string]interface{}{
		"settlement_amount": "1000000",
		"proof_settlement":  "https://drive.example.com/transfer.jpg",
	}, claims)

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rr.Code, rr.Body.String())
	}
	if captured.Amount != "1000000" {
		t.Errorf("amount = %s, want 1000000", captured.Amount)
	}
	resp := decodeBody(t, rr)
	if resp["status"] != enum.OrderStatusCompleted {
		t.Errorf("status = %v, want COMPLETED", resp["status"])
	}
}

func TestOrderSettle_ExactnessErrors(t *testing.T) {
	for _, svcErr := range []error{service.ErrInsufficientAmount, service.ErrOverpayment} {
		svc := &mockOrderService{
			settleFn: func(ctx context.Context, req service.SettleRequest) (database.Order, error) {
				return database.Order{}, svcErr
			},
		}
		router := setupOrderRouter(svc, &mockOrderStore{})
		rr := doAuthRequest(t, router, "POST", "/orders/"+uuid.New().String()+"/settlement",
			map[string]interface{}{"settlement_amount": "1"}, claimsFor(enum.RoleAdmin))

		if rr.Code != http.StatusBadRequest {
			t.Errorf("%v: status = %d, want 400", svcErr, rr.Code)
		}
	}
}

// --- Update ---

func TestOrderUpdate_ConflictOnceInProduction(t *testing.T) {
	order := testOrder(uuid.New())
	order.Status = enum.OrderStatusPrinting

	store := &mockOrderStore{
		getOrderFn: func(ctx context.Context, id uuid.UUID) (database.Order, error) {
			return order, nil
		},
		updateOrderInfoFn: func(ctx context.Context, arg database.UpdateOrderInfoParams) (database.Order, error) {
			// The guarded UPDATE only matches REQUESTED rows.
			return database.Order{}, pgx.ErrNoRows
		},
	}

	router := setupOrderRouter(&mockOrderService{}, store)
	rr := doAuthRequest(t, router, "PUT", "/orders/"+order.ID.String(), map[string]interface{}{
		"title":        "New title",
		"total_amount": "2000000",
		"bahan_code":   "HDR",
		"jenis_code":   "KOS",
	}, claimsFor(enum.RoleAdmin))

	if rr.Code != http.StatusConflict {
		t.Errorf("status = %d, want 409: %s", rr.Code, rr.Body.String())
	}
}

func TestOrderUpdate_ResellerOwnOrderOnly(t *testing.T) {
	order := testOrder(uuid.New())
	store := &mockOrderStore{
		getOrderFn: func(ctx context.Context, id uuid.UUID) (database.Order, error) {
			return order, nil
		},
	}

	router := setupOrderRouter(&mockOrderService{}, store)
	rr := doAuthRequest(t, router, "PUT", "/orders/"+order.ID.String(), map[string]interface{}{
		"title":        "New title",
		"total_amount": "2000000",
		"bahan_code":   "HDR",
		"jenis_code":   "KOS",
	}, claimsFor(enum.RoleReseller))

	if rr.Code != http.StatusForbidden {
		t.Errorf("status = %d, want 403", rr.Code)
	}
}

// --- Delete ---

func TestOrderDelete_SuperAdminOnly(t *testing.T) {
	orderID := uuid.New()
	store := &mockOrderStore{
		deleteOrderFn: func(ctx context.Context, id uuid.UUID) (uuid.UUID, error) {
			return id, nil
		},
	}
	router := setupOrderRouter(&mockOrderService{}, store)

	rr := doAuthRequest(t, router, "DELETE", "/orders/"+orderID.String(), nil, claimsFor(enum.RoleAdmin))
	if rr.Code != http.StatusForbidden {
		t.Errorf("admin delete: status = %d, want 403", rr.Code)
	}

	rr = doAuthRequest(t, router, "DELETE", "/orders/"+orderID.String(), nil, claimsFor(enum.RoleSuperAdmin))
	if rr.Code != http.StatusNoContent {
		t.Errorf("super_admin delete: status = %d, want 204", rr.Code)
	}
}
