package database

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

type InsertOrderProgressParams struct {
	OrderID      uuid.UUID
	Status       string
	LinkProgress pgtype.Text
	CreatedBy    uuid.UUID
}

// InsertOrderProgress appends one ledger entry. There is deliberately no
// update or delete statement for order_progress anywhere in this package.
const insertOrderProgress = `INSERT INTO order_progress (order_id, status, link_progress, created_by)
VALUES ($1, $2, $3, $4)
RETURNING id, order_id, status, link_progress, created_by, created_at`

func (q *Queries) InsertOrderProgress(ctx context.Context, arg InsertOrderProgressParams) (OrderProgress, error) {
	var p OrderProgress
	err := q.db.QueryRow(ctx, insertOrderProgress,
		arg.OrderID, arg.Status, arg.LinkProgress, arg.CreatedBy).
		Scan(&p.ID, &p.OrderID, &p.Status, &p.LinkProgress, &p.CreatedBy, &p.CreatedAt)
	return p, err
}

// ListOrderProgressRow joins each ledger entry with the minimal actor
// projection needed for display.
type ListOrderProgressRow struct {
	ID            uuid.UUID
	Status        string
	LinkProgress  pgtype.Text
	CreatedBy     uuid.UUID
	CreatedByName string
	CreatedAt     pgtype.Timestamptz
}

const listOrderProgress = `SELECT p.id, p.status, p.link_progress, p.created_by, u.name, p.created_at
FROM order_progress p
JOIN users u ON u.id = p.created_by
WHERE p.order_id = $1
ORDER BY p.created_at DESC, p.id DESC`

// ListOrderProgressByOrder returns the full ledger, most recent first.
func (q *Queries) ListOrderProgressByOrder(ctx context.Context, orderID uuid.UUID) ([]ListOrderProgressRow, error) {
	rows, err := q.db.Query(ctx, listOrderProgress, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []ListOrderProgressRow
	for rows.Next() {
		var e ListOrderProgressRow
		if err := rows.Scan(&e.ID, &e.Status, &e.LinkProgress, &e.CreatedBy, &e.CreatedByName, &e.CreatedAt); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
