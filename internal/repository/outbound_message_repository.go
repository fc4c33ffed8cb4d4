package repository

import (
    "database/sql"
    "fmt"
    "time"

    "github.com/lib/pq"

    appErrors "github.com/torqueworks/garage-reminders/internal/errors"
    "github.com/torqueworks/garage-reminders/internal/model"
)

type OutboundMessageRepositoryInterface interface {
    Create(msg *model.OutboundMessage) error
    GetByID(id int) (*model.OutboundMessage, error)
    FindExistingReminder(customerID, serviceRecordID int, sentSince time.Time) (*model.OutboundMessage, error)
    ListDueQueued(now time.Time) ([]*model.OutboundMessage, error)
    ListByStatus(shopID int, status string, limit int) ([]*model.OutboundMessage, error)
    MarkSent(id int, providerMessageID string) error
    MarkFailed(id int, lastError string) error
    UpdateStatus(id int, status string) error
    StatsByShop(shopID int) (map[string]int, error)
}

type OutboundMessageRepository struct {
    DB *sql.DB
}

const uniqueViolation = "23505"

// Create inserts a new outbound message and returns the created ID. The
// partial unique index on (customer_id, service_record_id, category) WHERE
// status='queued' backs the at-most-one-queued invariant; a violation comes
// back as ErrDuplicateReminder so callers can treat it as an idempotent skip.
func (r *OutboundMessageRepository) Create(msg *model.OutboundMessage) error {
    now := time.Now()
    msg.CreatedAt = now
    msg.UpdatedAt = now
    if msg.Direction == "" {
        msg.Direction = model.DirectionOutbound
    }

    query := `
        INSERT INTO outbound_messages
        (shop_id, customer_id, vehicle_id, service_record_id, category, direction, body, status, scheduled_at, ai_generated, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
        RETURNING id
    `
    err := r.DB.QueryRow(
        query,
        msg.ShopID,
        msg.CustomerID,
        msg.VehicleID,
        msg.ServiceRecordID,
        msg.Category,
        msg.Direction,
        msg.Body,
        msg.Status,
        msg.ScheduledAt,
        msg.AIGenerated,
        msg.CreatedAt,
        msg.UpdatedAt,
    ).Scan(&msg.ID)
    if err != nil {
        if pqErr, ok := err.(*pq.Error); ok && string(pqErr.Code) == uniqueViolation {
            srID := 0
            if msg.ServiceRecordID != nil {
                srID = *msg.ServiceRecordID
            }
            return appErrors.NewDuplicateReminder(msg.CustomerID, srID)
        }
        return err
    }
    return nil
}

// GetByID fetches an outbound message by its ID
func (r *OutboundMessageRepository) GetByID(id int) (*model.OutboundMessage, error) {
    query := selectMessage + ` WHERE id=$1`
    row := r.DB.QueryRow(query, id)
    msg, err := scanMessage(row)
    if err != nil {
        if err == sql.ErrNoRows {
            return nil, nil
        }
        return nil, err
    }
    return msg, nil
}

// FindExistingReminder returns a message that should suppress a new reminder
// for the same due event: any still-queued one, or one sent since the given
// cutoff. Returns nil when the due event has no pending or recent reminder.
func (r *OutboundMessageRepository) FindExistingReminder(customerID, serviceRecordID int, sentSince time.Time) (*model.OutboundMessage, error) {
    query := selectMessage + `
        WHERE customer_id=$1 AND service_record_id=$2
          AND (status=$3 OR (status IN ($4, $5, $6) AND sent_at >= $7))
        ORDER BY created_at DESC
        LIMIT 1
    `
    row := r.DB.QueryRow(query, customerID, serviceRecordID,
        model.StatusQueued, model.StatusSent, model.StatusDelivered, model.StatusUndelivered, sentSince)
    msg, err := scanMessage(row)
    if err != nil {
        if err == sql.ErrNoRows {
            return nil, nil
        }
        return nil, err
    }
    return msg, nil
}

// ListDueQueued returns queued outbound messages whose scheduled_at has
// passed, oldest first so the dispatcher drains fairly.
func (r *OutboundMessageRepository) ListDueQueued(now time.Time) ([]*model.OutboundMessage, error) {
    query := selectMessage + `
        WHERE status=$1 AND direction=$2 AND scheduled_at <= $3
        ORDER BY scheduled_at ASC
    `
    rows, err := r.DB.Query(query, model.StatusQueued, model.DirectionOutbound, now)
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    return scanMessages(rows)
}

// ListByStatus lists a shop's messages, optionally filtered by status
func (r *OutboundMessageRepository) ListByStatus(shopID int, status string, limit int) ([]*model.OutboundMessage, error) {
    if limit < 1 {
        limit = 50
    }
    query := selectMessage + ` WHERE shop_id=$1`
    args := []interface{}{shopID}
    argPos := 2
    if status != "" {
        query += fmt.Sprintf(" AND status=$%d", argPos)
        args = append(args, status)
        argPos++
    }
    query += fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d", argPos)
    args = append(args, limit)

    rows, err := r.DB.Query(query, args...)
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    return scanMessages(rows)
}

// MarkSent records a successful transport hand-off
func (r *OutboundMessageRepository) MarkSent(id int, providerMessageID string) error {
    query := `
        UPDATE outbound_messages
        SET status=$1, provider_message_id=$2, last_error='', sent_at=NOW(), updated_at=NOW()
        WHERE id=$3
    `
    _, err := r.DB.Exec(query, model.StatusSent, providerMessageID, id)
    return err
}

// MarkFailed records a terminal transport failure. No retry count: failure is
// final for this instance, a later evaluation run decides about the due event.
func (r *OutboundMessageRepository) MarkFailed(id int, lastError string) error {
    query := `
        UPDATE outbound_messages
        SET status=$1, last_error=$2, updated_at=NOW()
        WHERE id=$3
    `
    _, err := r.DB.Exec(query, model.StatusFailed, lastError, id)
    return err
}

// UpdateStatus sets an arbitrary status, used by provider delivery callbacks
func (r *OutboundMessageRepository) UpdateStatus(id int, status string) error {
    query := `UPDATE outbound_messages SET status=$1, updated_at=NOW() WHERE id=$2`
    _, err := r.DB.Exec(query, status, id)
    return err
}

// StatsByShop counts a shop's outbound messages by status
func (r *OutboundMessageRepository) StatsByShop(shopID int) (map[string]int, error) {
    query := `SELECT status, COUNT(*) FROM outbound_messages WHERE shop_id=$1 GROUP BY status`
    rows, err := r.DB.Query(query, shopID)
    if err != nil {
        return nil, err
    }
    defer rows.Close()

    stats := map[string]int{
        model.StatusQueued:      0,
        model.StatusSent:        0,
        model.StatusDelivered:   0,
        model.StatusFailed:      0,
        model.StatusUndelivered: 0,
    }
    for rows.Next() {
        var status string
        var count int
        if err := rows.Scan(&status, &count); err != nil {
            return nil, err
        }
        stats[status] = count
    }
    return stats, rows.Err()
}

// ====================== scan helpers ======================

const selectMessage = `
        SELECT id, shop_id, customer_id, vehicle_id, service_record_id, category, direction,
               body, status, provider_message_id, last_error, ai_generated, scheduled_at, sent_at, created_at, updated_at
        FROM outbound_messages`

type rowScanner interface {
    Scan(dest ...interface{}) error
}

func scanMessage(row rowScanner) (*model.OutboundMessage, error) {
    var msg model.OutboundMessage
    err := row.Scan(
        &msg.ID, &msg.ShopID, &msg.CustomerID, &msg.VehicleID, &msg.ServiceRecordID,
        &msg.Category, &msg.Direction, &msg.Body, &msg.Status,
        &msg.ProviderMessageID, &msg.LastError, &msg.AIGenerated,
        &msg.ScheduledAt, &msg.SentAt, &msg.CreatedAt, &msg.UpdatedAt,
    )
    if err != nil {
        return nil, err
    }
    return &msg, nil
}

func scanMessages(rows *sql.Rows) ([]*model.OutboundMessage, error) {
    msgs := []*model.OutboundMessage{}
    for rows.Next() {
        msg, err := scanMessage(rows)
        if err != nil {
            return nil, err
        }
        msgs = append(msgs, msg)
    }
    return msgs, rows.Err()
}

var _ OutboundMessageRepositoryInterface = (*OutboundMessageRepository)(nil)
