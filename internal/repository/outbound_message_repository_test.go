package repository

import (
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"

	appErrors "github.com/torqueworks/garage-reminders/internal/errors"
	"github.com/torqueworks/garage-reminders/internal/model"
)

func setupTestDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to open sqlmock: %v", err)
	}
	return db, mock, func() { db.Close() }
}

var messageColumns = []string{
	"id", "shop_id", "customer_id", "vehicle_id", "service_record_id", "category", "direction",
	"body", "status", "provider_message_id", "last_error", "ai_generated", "scheduled_at", "sent_at", "created_at", "updated_at",
}

func messageRow(rows *sqlmock.Rows, id int, scheduledAt time.Time) *sqlmock.Rows {
	now := time.Now()
	return rows.AddRow(id, 1, 1, nil, nil, model.CategoryDueSoon, model.DirectionOutbound,
		"reminder body", model.StatusQueued, "", "", false, scheduledAt, nil, now, now)
}

func TestOutboundMessageCreateAssignsID(t *testing.T) {
	db, mock, cleanup := setupTestDB(t)
	defer cleanup()
	repo := &OutboundMessageRepository{DB: db}

	mock.ExpectQuery("INSERT INTO outbound_messages").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(42))

	msg := &model.OutboundMessage{
		ShopID:      1,
		CustomerID:  1,
		Category:    model.CategoryDueSoon,
		Body:        "reminder body",
		Status:      model.StatusQueued,
		ScheduledAt: time.Now(),
	}
	if err := repo.Create(msg); err != nil {
		t.Fatalf("Create() error: %v", err)
	}
	if msg.ID != 42 {
		t.Errorf("expected ID 42, got %d", msg.ID)
	}
	if msg.Direction != model.DirectionOutbound {
		t.Errorf("expected direction defaulted to outbound, got %q", msg.Direction)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestOutboundMessageCreateMapsUniqueViolation(t *testing.T) {
	db, mock, cleanup := setupTestDB(t)
	defer cleanup()
	repo := &OutboundMessageRepository{DB: db}

	mock.ExpectQuery("INSERT INTO outbound_messages").
		WillReturnError(&pq.Error{Code: "23505", Constraint: "outbound_messages_unique_queued"})

	srID := 100
	msg := &model.OutboundMessage{
		ShopID:          1,
		CustomerID:      7,
		ServiceRecordID: &srID,
		Category:        model.CategoryOverdue,
		Status:          model.StatusQueued,
	}
	err := repo.Create(msg)
	if !appErrors.IsDuplicateReminder(err) {
		t.Errorf("expected duplicate reminder error, got %v", err)
	}
}

func TestOutboundMessageGetByIDNotFoundReturnsNil(t *testing.T) {
	db, mock, cleanup := setupTestDB(t)
	defer cleanup()
	repo := &OutboundMessageRepository{DB: db}

	mock.ExpectQuery("SELECT (.+) FROM outbound_messages").
		WithArgs(99).
		WillReturnError(sql.ErrNoRows)

	msg, err := repo.GetByID(99)
	if err != nil {
		t.Fatalf("GetByID() error: %v", err)
	}
	if msg != nil {
		t.Errorf("expected nil for missing message, got %+v", msg)
	}
}

func TestListDueQueuedFiltersAndOrders(t *testing.T) {
	db, mock, cleanup := setupTestDB(t)
	defer cleanup()
	repo := &OutboundMessageRepository{DB: db}

	now := time.Now()
	rows := sqlmock.NewRows(messageColumns)
	messageRow(rows, 1, now.Add(-2*time.Hour))
	messageRow(rows, 2, now.Add(-1*time.Hour))

	mock.ExpectQuery("SELECT (.+) FROM outbound_messages WHERE status=(.+) ORDER BY scheduled_at ASC").
		WithArgs(model.StatusQueued, model.DirectionOutbound, now).
		WillReturnRows(rows)

	msgs, err := repo.ListDueQueued(now)
	if err != nil {
		t.Fatalf("ListDueQueued() error: %v", err)
	}
	if len(msgs) != 2 {
		t.Fatalf("expected 2 messages, got %d", len(msgs))
	}
	if msgs[0].ID != 1 || msgs[1].ID != 2 {
		t.Errorf("expected oldest first, got IDs %d, %d", msgs[0].ID, msgs[1].ID)
	}
}

func TestFindExistingReminderNoMatchReturnsNil(t *testing.T) {
	db, mock, cleanup := setupTestDB(t)
	defer cleanup()
	repo := &OutboundMessageRepository{DB: db}

	mock.ExpectQuery("SELECT (.+) FROM outbound_messages").
		WillReturnError(sql.ErrNoRows)

	msg, err := repo.FindExistingReminder(1, 100, time.Now().Add(-14*24*time.Hour))
	if err != nil {
		t.Fatalf("FindExistingReminder() error: %v", err)
	}
	if msg != nil {
		t.Errorf("expected nil when nothing suppresses, got %+v", msg)
	}
}

func TestMarkSentUpdatesStatusAndProviderID(t *testing.T) {
	db, mock, cleanup := setupTestDB(t)
	defer cleanup()
	repo := &OutboundMessageRepository{DB: db}

	mock.ExpectExec("UPDATE outbound_messages").
		WithArgs(model.StatusSent, "prov-123", 7).
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := repo.MarkSent(7, "prov-123"); err != nil {
		t.Fatalf("MarkSent() error: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestMarkFailedRecordsLastError(t *testing.T) {
	db, mock, cleanup := setupTestDB(t)
	defer cleanup()
	repo := &OutboundMessageRepository{DB: db}

	mock.ExpectExec("UPDATE outbound_messages").
		WithArgs(model.StatusFailed, "provider rejected", 7).
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := repo.MarkFailed(7, "provider rejected"); err != nil {
		t.Fatalf("MarkFailed() error: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestStatsByShopFillsMissingStatuses(t *testing.T) {
	db, mock, cleanup := setupTestDB(t)
	defer cleanup()
	repo := &OutboundMessageRepository{DB: db}

	rows := sqlmock.NewRows([]string{"status", "count"}).
		AddRow(model.StatusSent, 12).
		AddRow(model.StatusQueued, 3)
	mock.ExpectQuery("SELECT status, COUNT").
		WithArgs(1).
		WillReturnRows(rows)

	stats, err := repo.StatsByShop(1)
	if err != nil {
		t.Fatalf("StatsByShop() error: %v", err)
	}
	if stats[model.StatusSent] != 12 || stats[model.StatusQueued] != 3 {
		t.Errorf("unexpected counts: %+v", stats)
	}
	// statuses with no rows still show up as zeros
	if _, ok := stats[model.StatusFailed]; !ok {
		t.Error("expected failed status present with zero count")
	}
	if _, ok := stats[model.StatusUndelivered]; !ok {
		t.Error("expected undelivered status present with zero count")
	}
}
