package database

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/pashagolub/pgxmock/v3"
)

func newMockQueries(t *testing.T) (pgxmock.PgxPoolIface, *Queries) {
	t.Helper()
	mock, err := pgxmock.NewPool(pgxmock.QueryMatcherOption(pgxmock.QueryMatcherEqual))
	if err != nil {
		t.Fatalf("create mock pool: %v", err)
	}
	t.Cleanup(mock.Close)
	return mock, New(mock)
}

func TestUpdateOrderStatus_LostRace(t *testing.T) {
	mock, q := newMockQueries(t)

	orderID := uuid.New()
	mock.ExpectQuery(updateOrderStatus).
		WithArgs(orderID, "APPROVED", "REQUESTED").
		WillReturnError(pgx.ErrNoRows)

	_, err := q.UpdateOrderStatus(context.Background(), UpdateOrderStatusParams{
		ID:             orderID,
		Status:         "APPROVED",
		ExpectedStatus: "REQUESTED",
	})
	if !errors.Is(err, pgx.ErrNoRows) {
		t.Errorf("got error %v, want pgx.ErrNoRows when the guard matches no row", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Error(err)
	}
}

func TestNextInvoiceSequence_CountsUpPerDay(t *testing.T) {
	mock, q := newMockQueries(t)

	day := pgtype.Date{Time: time.Date(2025, 9, 1, 0, 0, 0, 0, time.UTC), Valid: true}
	mock.ExpectQuery(nextInvoiceSequence).
		WithArgs(day).
		WillReturnRows(pgxmock.NewRows([]string{"seq"}).AddRow(int32(1)))
	mock.ExpectQuery(nextInvoiceSequence).
		WithArgs(day).
		WillReturnRows(pgxmock.NewRows([]string{"seq"}).AddRow(int32(2)))

	first, err := q.NextInvoiceSequence(context.Background(), day)
	if err != nil {
		t.Fatalf("first bump: %v", err)
	}
	second, err := q.NextInvoiceSequence(context.Background(), day)
	if err != nil {
		t.Fatalf("second bump: %v", err)
	}
	if first != 1 || second != 2 {
		t.Errorf("sequences = %d, %d, want 1, 2", first, second)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Error(err)
	}
}

func TestListOrderProgressByOrder_ScansJoinedRows(t *testing.T) {
	mock, q := newMockQueries(t)

	orderID := uuid.New()
	actorID := uuid.New()
	now := pgtype.Timestamptz{Time: time.Now(), Valid: true}

	rows := pgxmock.NewRows([]string{"id", "status", "link_progress", "created_by", "name", "created_at"}).
		AddRow(uuid.New(), "PRINTING", pgtype.Text{String: "https://drive.example.com/print.jpg", Valid: true}, actorID, "Printing Crew", now).
		AddRow(uuid.New(), "REQUESTED", pgtype.Text{}, actorID, "Printing Crew", now)

	mock.ExpectQuery(listOrderProgress).WithArgs(orderID).WillReturnRows(rows)

	entries, err := q.ListOrderProgressByOrder(context.Background(), orderID)
	if err != nil {
		t.Fatalf("list progress: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("got %d entries, want 2", len(entries))
	}
	if entries[0].Status != "PRINTING" || entries[0].CreatedByName != "Printing Crew" {
		t.Errorf("first entry = %+v, want PRINTING by Printing Crew", entries[0])
	}
	if entries[1].LinkProgress.Valid {
		t.Error("second entry should have no progress link")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Error(err)
	}
}

func TestInsertOrderProgress_ReturnsEntry(t *testing.T) {
	mock, q := newMockQueries(t)

	orderID := uuid.New()
	actorID := uuid.New()
	entryID := uuid.New()
	now := time.Now()

	mock.ExpectQuery(insertOrderProgress).
		WithArgs(orderID, "APPROVED", pgtype.Text{}, actorID).
		WillReturnRows(pgxmock.NewRows([]string{"id", "order_id", "status", "link_progress", "created_by", "created_at"}).
			AddRow(entryID, orderID, "APPROVED", pgtype.Text{}, actorID, now))

	entry, err := q.InsertOrderProgress(context.Background(), InsertOrderProgressParams{
		OrderID:   orderID,
		Status:    "APPROVED",
		CreatedBy: actorID,
	})
	if err != nil {
		t.Fatalf("insert progress: %v", err)
	}
	if entry.ID != entryID || entry.Status != "APPROVED" {
		t.Errorf("entry = %+v, want %s APPROVED", entry, entryID)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Error(err)
	}
}
