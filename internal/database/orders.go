package database

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

const orderColumns = `id, invoice_id, title, description, status,
	total_amount, dp_amount, settlement_amount, proof_dp, proof_settlement,
	link_mockup, link_collar, link_layout, link_sharedrive,
	bahan_code, jenis_code, shipment_code, shipment_cost, link_tracking,
	start_at, finish_at, created_by, created_at, updated_at`

func scanOrder(row interface{ Scan(dest ...any) error }) (Order, error) {
	var o Order
	err := row.Scan(
		&o.ID, &o.InvoiceID, &o.Title, &o.Description, &o.Status,
		&o.TotalAmount, &o.DpAmount, &o.SettlementAmount, &o.ProofDp, &o.ProofSettlement,
		&o.LinkMockup, &o.LinkCollar, &o.LinkLayout, &o.LinkSharedrive,
		&o.BahanCode, &o.JenisCode, &o.ShipmentCode, &o.ShipmentCost, &o.LinkTracking,
		&o.StartAt, &o.FinishAt, &o.CreatedBy, &o.CreatedAt, &o.UpdatedAt,
	)
	return o, err
}

type CreateOrderParams struct {
	InvoiceID      string
	Title          string
	Description    pgtype.Text
	Status         string
	TotalAmount    pgtype.Numeric
	DpAmount       pgtype.Numeric
	ProofDp        pgtype.Text
	LinkMockup     pgtype.Text
	LinkCollar     pgtype.Text
	LinkLayout     pgtype.Text
	LinkSharedrive pgtype.Text
	BahanCode      string
	JenisCode      string
	StartAt        pgtype.Timestamptz
	FinishAt       pgtype.Timestamptz
	CreatedBy      uuid.UUID
}

const createOrder = `INSERT INTO orders (
	invoice_id, title, description, status, total_amount, dp_amount, proof_dp,
	link_mockup, link_collar, link_layout, link_sharedrive,
	bahan_code, jenis_code, start_at, finish_at, created_by
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
RETURNING ` + orderColumns

func (q *Queries) CreateOrder(ctx context.Context, arg CreateOrderParams) (Order, error) {
	row := q.db.QueryRow(ctx, createOrder,
		arg.InvoiceID, arg.Title, arg.Description, arg.Status,
		arg.TotalAmount, arg.DpAmount, arg.ProofDp,
		arg.LinkMockup, arg.LinkCollar, arg.LinkLayout, arg.LinkSharedrive,
		arg.BahanCode, arg.JenisCode, arg.StartAt, arg.FinishAt, arg.CreatedBy,
	)
	return scanOrder(row)
}

const getOrder = `SELECT ` + orderColumns + ` FROM orders WHERE id = $1`

func (q *Queries) GetOrder(ctx context.Context, id uuid.UUID) (Order, error) {
	return scanOrder(q.db.QueryRow(ctx, getOrder, id))
}

// GetOrderForUpdate locks the order row for the duration of the surrounding
// transaction, serializing concurrent settlement attempts.
const getOrderForUpdate = `SELECT ` + orderColumns + ` FROM orders WHERE id = $1 FOR NO KEY UPDATE`

func (q *Queries) GetOrderForUpdate(ctx context.Context, id uuid.UUID) (Order, error) {
	return scanOrder(q.db.QueryRow(ctx, getOrderForUpdate, id))
}

const getOrderByInvoice = `SELECT ` + orderColumns + ` FROM orders WHERE invoice_id = $1`

func (q *Queries) GetOrderByInvoice(ctx context.Context, invoiceID string) (Order, error) {
	return scanOrder(q.db.QueryRow(ctx, getOrderByInvoice, invoiceID))
}

type ListOrdersParams struct {
	Status    pgtype.Text
	CreatedBy pgtype.UUID
	StartDate pgtype.Timestamptz
	EndDate   pgtype.Timestamptz
	Limit     int32
	Offset    int32
}

const listOrders = `SELECT ` + orderColumns + ` FROM orders
WHERE ($1::text IS NULL OR status = $1)
  AND ($2::uuid IS NULL OR created_by = $2)
  AND ($3::timestamptz IS NULL OR created_at >= $3)
  AND ($4::timestamptz IS NULL OR created_at < $4)
ORDER BY created_at DESC
LIMIT $5 OFFSET $6`

func (q *Queries) ListOrders(ctx context.Context, arg ListOrdersParams) ([]Order, error) {
	rows, err := q.db.Query(ctx, listOrders,
		arg.Status, arg.CreatedBy, arg.StartDate, arg.EndDate, arg.Limit, arg.Offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var orders []Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, o)
	}
	return orders, rows.Err()
}

type UpdateOrderStatusParams struct {
	ID             uuid.UUID
	Status         string
	ExpectedStatus string
}

// UpdateOrderStatus is a compare-and-swap: it only writes if the current
// status still matches what the caller read. pgx.ErrNoRows means a
// concurrent writer won the race.
const updateOrderStatus = `UPDATE orders
SET status = $2, updated_at = NOW()
WHERE id = $1 AND status = $3
RETURNING ` + orderColumns

func (q *Queries) UpdateOrderStatus(ctx context.Context, arg UpdateOrderStatusParams) (Order, error) {
	return scanOrder(q.db.QueryRow(ctx, updateOrderStatus, arg.ID, arg.Status, arg.ExpectedStatus))
}

type SettleOrderParams struct {
	ID               uuid.UUID
	SettlementAmount pgtype.Numeric
	ProofSettlement  pgtype.Text
	ExpectedStatus   string
}

// SettleOrder records the final payment and moves the order to COMPLETED in
// one statement, guarded by the same CAS as UpdateOrderStatus.
const settleOrder = `UPDATE orders
SET settlement_amount = $2, proof_settlement = $3, status = 'COMPLETED', updated_at = NOW()
WHERE id = $1 AND status = $4
RETURNING ` + orderColumns

func (q *Queries) SettleOrder(ctx context.Context, arg SettleOrderParams) (Order, error) {
	return scanOrder(q.db.QueryRow(ctx, settleOrder,
		arg.ID, arg.SettlementAmount, arg.ProofSettlement, arg.ExpectedStatus))
}

type UpdateOrderInfoParams struct {
	ID             uuid.UUID
	Title          string
	Description    pgtype.Text
	TotalAmount    pgtype.Numeric
	DpAmount       pgtype.Numeric
	ProofDp        pgtype.Text
	LinkMockup     pgtype.Text
	LinkCollar     pgtype.Text
	LinkLayout     pgtype.Text
	LinkSharedrive pgtype.Text
	BahanCode      string
	JenisCode      string
	ShipmentCode   pgtype.Text
	ShipmentCost   pgtype.Numeric
	LinkTracking   pgtype.Text
	StartAt        pgtype.Timestamptz
	FinishAt       pgtype.Timestamptz
}

// UpdateOrderInfo edits non-status fields. Restricted to REQUESTED orders so
// production never runs against silently changed specifications.
const updateOrderInfo = `UPDATE orders
SET title = $2, description = $3, total_amount = $4, dp_amount = $5, proof_dp = $6,
    link_mockup = $7, link_collar = $8, link_layout = $9, link_sharedrive = $10,
    bahan_code = $11, jenis_code = $12, shipment_code = $13, shipment_cost = $14,
    link_tracking = $15, start_at = $16, finish_at = $17, updated_at = NOW()
WHERE id = $1 AND status = 'REQUESTED'
RETURNING ` + orderColumns

func (q *Queries) UpdateOrderInfo(ctx context.Context, arg UpdateOrderInfoParams) (Order, error) {
	return scanOrder(q.db.QueryRow(ctx, updateOrderInfo,
		arg.ID, arg.Title, arg.Description, arg.TotalAmount, arg.DpAmount, arg.ProofDp,
		arg.LinkMockup, arg.LinkCollar, arg.LinkLayout, arg.LinkSharedrive,
		arg.BahanCode, arg.JenisCode, arg.ShipmentCode, arg.ShipmentCost,
		arg.LinkTracking, arg.StartAt, arg.FinishAt))
}

const deleteOrder = `DELETE FROM orders WHERE id = $1 RETURNING id`

// DeleteOrder hard-deletes an order; details and ledger rows cascade.
// Administrative escape hatch only, never part of the workflow.
func (q *Queries) DeleteOrder(ctx context.Context, id uuid.UUID) (uuid.UUID, error) {
	var deleted uuid.UUID
	err := q.db.QueryRow(ctx, deleteOrder, id).Scan(&deleted)
	return deleted, err
}

// NextInvoiceSequence bumps the per-day invoice counter atomically and
// returns the new sequence number. The upsert serializes concurrent order
// creations on the same day, so two orders can never derive the same number.
const nextInvoiceSequence = `INSERT INTO invoice_counters (day, seq)
VALUES ($1::date, 1)
ON CONFLICT (day) DO UPDATE SET seq = invoice_counters.seq + 1
RETURNING seq`

func (q *Queries) NextInvoiceSequence(ctx context.Context, day pgtype.Date) (int32, error) {
	var seq int32
	err := q.db.QueryRow(ctx, nextInvoiceSequence, day).Scan(&seq)
	return seq, err
}

type CreateOrderDetailParams struct {
	OrderID  uuid.UUID
	SizeID   uuid.UUID
	Quantity int32
}

const createOrderDetail = `INSERT INTO order_details (order_id, size_id, quantity)
VALUES ($1, $2, $3)
RETURNING id, order_id, size_id, quantity`

func (q *Queries) CreateOrderDetail(ctx context.Context, arg CreateOrderDetailParams) (OrderDetail, error) {
	var d OrderDetail
	err := q.db.QueryRow(ctx, createOrderDetail, arg.OrderID, arg.SizeID, arg.Quantity).
		Scan(&d.ID, &d.OrderID, &d.SizeID, &d.Quantity)
	return d, err
}

const listOrderDetails = `SELECT id, order_id, size_id, quantity
FROM order_details WHERE order_id = $1 ORDER BY id`

func (q *Queries) ListOrderDetailsByOrder(ctx context.Context, orderID uuid.UUID) ([]OrderDetail, error) {
	rows, err := q.db.Query(ctx, listOrderDetails, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var details []OrderDetail
	for rows.Next() {
		var d OrderDetail
		if err := rows.Scan(&d.ID, &d.OrderID, &d.SizeID, &d.Quantity); err != nil {
			return nil, err
		}
		details = append(details, d)
	}
	return details, rows.Err()
}
