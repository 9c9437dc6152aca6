package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/konveksio/api/internal/database"
	"github.com/konveksio/api/internal/enum"
	"github.com/shopspring/decimal"
)

// Errors returned by the order service. Handlers map these to HTTP codes.
var (
	ErrTitleRequired       = errors.New("title is required")
	ErrBahanRequired       = errors.New("bahan_code is required")
	ErrJenisRequired       = errors.New("jenis_code is required")
	ErrInvalidTotalAmount  = errors.New("invalid total_amount")
	ErrInvalidDpAmount     = errors.New("invalid dp_amount")
	ErrDpExceedsTotal      = errors.New("dp_amount must not exceed total_amount")
	ErrEmptyDetails        = errors.New("order_details are required")
	ErrInvalidQuantity     = errors.New("quantity must be > 0")
	ErrInvalidSizeID       = errors.New("invalid size_id")
	ErrInvalidDate         = errors.New("invalid date, use RFC3339")
	ErrMaterialNotFound    = errors.New("bahan_code not found")
	ErrGarmentTypeNotFound = errors.New("jenis_code not found")

	ErrOrderNotFound     = errors.New("order not found")
	ErrInvalidStatus     = errors.New("invalid status")
	ErrInvalidTransition = errors.New("status transition not allowed")
	ErrForbidden         = errors.New("role not authorized for this transition")
	ErrConflict          = errors.New("order status changed, please retry")

	ErrAmountRequired     = errors.New("settlement amount is required")
	ErrInsufficientAmount = errors.New("settlement amount is insufficient")
	ErrOverpayment        = errors.New("settlement amount exceeds remaining balance")
)

// TxBeginner starts a new database transaction.
type TxBeginner interface {
	Begin(ctx context.Context) (pgx.Tx, error)
}

// OrderStore defines the DB methods needed by the workflow engine.
// Satisfied by *database.Queries (and its WithTx variant).
type OrderStore interface {
	GetMaterialByCode(ctx context.Context, code string) (database.Material, error)
	GetGarmentTypeByCode(ctx context.Context, code string) (database.GarmentType, error)
	NextInvoiceSequence(ctx context.Context, day pgtype.Date) (int32, error)
	CreateOrder(ctx context.Context, arg database.CreateOrderParams) (database.Order, error)
	CreateOrderDetail(ctx context.Context, arg database.CreateOrderDetailParams) (database.OrderDetail, error)
	GetOrder(ctx context.Context, id uuid.UUID) (database.Order, error)
	GetOrderForUpdate(ctx context.Context, id uuid.UUID) (database.Order, error)
	UpdateOrderStatus(ctx context.Context, arg database.UpdateOrderStatusParams) (database.Order, error)
	SettleOrder(ctx context.Context, arg database.SettleOrderParams) (database.Order, error)
	InsertOrderProgress(ctx context.Context, arg database.InsertOrderProgressParams) (database.OrderProgress, error)
}

// NewOrderStore creates an OrderStore from a DBTX (pool or tx).
type NewOrderStore func(db database.DBTX) OrderStore

// Actor is the authenticated user performing an operation, taken from the
// request's JWT claims.
type Actor struct {
	ID   uuid.UUID
	Role string
}

// OrderService owns every write to an order's status, money fields and
// progress ledger. No other code path mutates them.
type OrderService struct {
	pool     TxBeginner
	newStore NewOrderStore
	now      func() time.Time
}

// NewOrderService creates a new OrderService.
func NewOrderService(pool TxBeginner, newStore NewOrderStore) *OrderService {
	return &OrderService{pool: pool, newStore: newStore, now: time.Now}
}

// CreateOrderRequest is the validated input for placing an order.
type CreateOrderRequest struct {
	Title          string
	Description    string
	TotalAmount    string
	DpAmount       string
	ProofDp        string
	LinkMockup     string
	LinkCollar     string
	LinkLayout     string
	LinkSharedrive string
	BahanCode      string
	JenisCode      string
	StartAt        string // RFC3339
	FinishAt       string // RFC3339
	CreatedBy      uuid.UUID
	Details        []CreateOrderDetailRequest
}

// CreateOrderDetailRequest is one size × quantity row.
type CreateOrderDetailRequest struct {
	SizeID   string
	Quantity int32
}

// CreateOrderResult is the created order with its detail rows.
type CreateOrderResult struct {
	Order   database.Order
	Details []database.OrderDetail
}

// CreateOrder validates the request, derives the invoice number from the
// per-day sequence, and writes the order, its details and the first
// REQUESTED ledger entry in one transaction.
func (s *OrderService) CreateOrder(ctx context.Context, req CreateOrderRequest) (*CreateOrderResult, error) {
	if req.Title == "" {
		return nil, ErrTitleRequired
	}
	if req.BahanCode == "" {
		return nil, ErrBahanRequired
	}
	if req.JenisCode == "" {
		return nil, ErrJenisRequired
	}

	total, err := decimal.NewFromString(req.TotalAmount)
	if err != nil || total.LessThanOrEqual(decimal.Zero) {
		return nil, ErrInvalidTotalAmount
	}
	dp := decimal.Zero
	if req.DpAmount != "" {
		dp, err = decimal.NewFromString(req.DpAmount)
		if err != nil || dp.IsNegative() {
			return nil, ErrInvalidDpAmount
		}
	}
	if dp.GreaterThan(total) {
		return nil, ErrDpExceedsTotal
	}

	if len(req.Details) == 0 {
		return nil, ErrEmptyDetails
	}
	type detailRow struct {
		sizeID   uuid.UUID
		quantity int32
	}
	details := make([]detailRow, len(req.Details))
	for i, d := range req.Details {
		if d.Quantity <= 0 {
			return nil, fmt.Errorf("details[%d]: %w", i, ErrInvalidQuantity)
		}
		sizeID, err := uuid.Parse(d.SizeID)
		if err != nil {
			return nil, fmt.Errorf("details[%d]: %w", i, ErrInvalidSizeID)
		}
		details[i] = detailRow{sizeID: sizeID, quantity: d.Quantity}
	}

	startAt, err := parseOptionalTime(req.StartAt)
	if err != nil {
		return nil, fmt.Errorf("start_at: %w", ErrInvalidDate)
	}
	finishAt, err := parseOptionalTime(req.FinishAt)
	if err != nil {
		return nil, fmt.Errorf("finish_at: %w", ErrInvalidDate)
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	store := s.newStore(tx)

	if _, err := store.GetMaterialByCode(ctx, req.BahanCode); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrMaterialNotFound
		}
		return nil, fmt.Errorf("get material: %w", err)
	}
	if _, err := store.GetGarmentTypeByCode(ctx, req.JenisCode); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrGarmentTypeNotFound
		}
		return nil, fmt.Errorf("get garment type: %w", err)
	}

	now := s.now()
	seq, err := store.NextInvoiceSequence(ctx, pgtype.Date{Time: now, Valid: true})
	if err != nil {
		return nil, fmt.Errorf("next invoice sequence: %w", err)
	}
	invoiceID := buildInvoiceID(req.JenisCode, req.BahanCode, now, seq)

	order, err := store.CreateOrder(ctx, database.CreateOrderParams{
		InvoiceID:      invoiceID,
		Title:          req.Title,
		Description:    textOrNull(req.Description),
		Status:         enum.OrderStatusRequested,
		TotalAmount:    decimalToNumeric(total),
		DpAmount:       decimalToNumeric(dp),
		ProofDp:        textOrNull(req.ProofDp),
		LinkMockup:     textOrNull(req.LinkMockup),
		LinkCollar:     textOrNull(req.LinkCollar),
		LinkLayout:     textOrNull(req.LinkLayout),
		LinkSharedrive: textOrNull(req.LinkSharedrive),
		BahanCode:      req.BahanCode,
		JenisCode:      req.JenisCode,
		StartAt:        startAt,
		FinishAt:       finishAt,
		CreatedBy:      req.CreatedBy,
	})
	if err != nil {
		return nil, fmt.Errorf("create order: %w", err)
	}

	var detailResults []database.OrderDetail
	for i, d := range details {
		row, err := store.CreateOrderDetail(ctx, database.CreateOrderDetailParams{
			OrderID:  order.ID,
			SizeID:   d.sizeID,
			Quantity: d.quantity,
		})
		if err != nil {
			return nil, fmt.Errorf("create order detail[%d]: %w", i, err)
		}
		detailResults = append(detailResults, row)
	}

	// First ledger entry, same transaction as the order row.
	if _, err := store.InsertOrderProgress(ctx, database.InsertOrderProgressParams{
		OrderID:   order.ID,
		Status:    enum.OrderStatusRequested,
		CreatedBy: req.CreatedBy,
	}); err != nil {
		return nil, fmt.Errorf("insert progress: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit tx: %w", err)
	}

	return &CreateOrderResult{Order: order, Details: detailResults}, nil
}

// buildInvoiceID composes the human-readable invoice identifier:
// jenis code + 2-digit year + month + day (no zero padding) + daily
// sequence + bahan code. The first order of 2025-09-01 for jenis KOS and
// bahan HDR gets KOS25911HDR.
func buildInvoiceID(jenisCode, bahanCode string, now time.Time, seq int32) string {
	return fmt.Sprintf("%s%02d%d%d%d%s",
		jenisCode, now.Year()%100, int(now.Month()), now.Day(), seq, bahanCode)
}

func parseOptionalTime(s string) (pgtype.Timestamptz, error) {
	if s == "" {
		return pgtype.Timestamptz{}, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return pgtype.Timestamptz{}, err
	}
	return pgtype.Timestamptz{Time: t, Valid: true}, nil
}

// --- Helpers ---

func textOrNull(s string) pgtype.Text {
	if s == "" {
		return pgtype.Text{}
	}
	return pgtype.Text{String: s, Valid: true}
}

func numericToDecimal(n pgtype.Numeric) decimal.Decimal {
	if !n.Valid {
		return decimal.Zero
	}
	val, err := n.Value()
	if err != nil || val == nil {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(val.(string))
	if err != nil {
		return decimal.Zero
	}
	return d
}

func decimalToNumeric(d decimal.Decimal) pgtype.Numeric {
	var n pgtype.Numeric
	_ = n.Scan(d.StringFixed(2))
	return n
}
