package database

import (
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

type User struct {
	ID             uuid.UUID
	Name           string
	Email          string
	HashedPassword string
	Role           string
	Phone          pgtype.Text
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// Material is a fabric ("bahan") referenced by orders via code.
type Material struct {
	ID        uuid.UUID
	Code      string
	Name      string
	CreatedAt time.Time
}

// GarmentType is a product type ("jenis") referenced by orders via code.
type GarmentType struct {
	ID        uuid.UUID
	Code      string
	Name      string
	CreatedAt time.Time
}

// Size is a garment size ("ukuran") used in order detail rows.
type Size struct {
	ID        uuid.UUID
	Name      string
	SortOrder int32
	CreatedAt time.Time
}

type Courier struct {
	ID        uuid.UUID
	Code      string
	Name      string
	CreatedAt time.Time
}

type Designer struct {
	ID            uuid.UUID
	Name          string
	Phone         pgtype.Text
	LinkPortfolio pgtype.Text
	CreatedAt     time.Time
}

// Learning is a tutorial/resource entry shown to resellers.
type Learning struct {
	ID          uuid.UUID
	Title       string
	Url         string
	Description pgtype.Text
	CreatedAt   time.Time
}

type Order struct {
	ID               uuid.UUID
	InvoiceID        string
	Title            string
	Description      pgtype.Text
	Status           string
	TotalAmount      pgtype.Numeric
	DpAmount         pgtype.Numeric
	SettlementAmount pgtype.Numeric
	ProofDp          pgtype.Text
	ProofSettlement  pgtype.Text
	LinkMockup       pgtype.Text
	LinkCollar       pgtype.Text
	LinkLayout       pgtype.Text
	LinkSharedrive   pgtype.Text
	BahanCode        string
	JenisCode        string
	ShipmentCode     pgtype.Text
	ShipmentCost     pgtype.Numeric
	LinkTracking     pgtype.Text
	StartAt          pgtype.Timestamptz
	FinishAt         pgtype.Timestamptz
	CreatedBy        uuid.UUID
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// OrderDetail is one size × quantity row of an order.
type OrderDetail struct {
	ID       uuid.UUID
	OrderID  uuid.UUID
	SizeID   uuid.UUID
	Quantity int32
}

// OrderProgress is one append-only ledger entry. Rows are inserted in the
// same transaction as the order status write and never updated or deleted.
type OrderProgress struct {
	ID           uuid.UUID
	OrderID      uuid.UUID
	Status       string
	LinkProgress pgtype.Text
	CreatedBy    uuid.UUID
	CreatedAt    time.Time
}
