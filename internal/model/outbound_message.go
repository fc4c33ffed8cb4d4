// internal/model/outbound_message.go
package model

import "time"

// Message statuses. failed is terminal for the instance; delivered/undelivered
// arrive later via provider status callbacks.
const (
    StatusQueued      = "queued"
    StatusSent        = "sent"
    StatusDelivered   = "delivered"
    StatusFailed      = "failed"
    StatusUndelivered = "undelivered"
)

const (
    DirectionOutbound = "outbound"
    DirectionInbound  = "inbound"
)

// Reminder categories, least to most urgent.
const (
    CategoryDueSoon = "due_soon"
    CategoryDueNow  = "due_now"
    CategoryOverdue = "overdue"
)

type OutboundMessage struct {
    ID                int        `db:"id" json:"id"`
    ShopID            int        `db:"shop_id" json:"shop_id"`
    CustomerID        int        `db:"customer_id" json:"customer_id"`
    VehicleID         *int       `db:"vehicle_id" json:"vehicle_id,omitempty"`
    ServiceRecordID   *int       `db:"service_record_id" json:"service_record_id,omitempty"`
    Category          string     `db:"category" json:"category,omitempty"` // empty for manual sends
    Direction         string     `db:"direction" json:"direction"`
    Body              string     `db:"body" json:"body"` // fully rendered text, never a template
    Status            string     `db:"status" json:"status"`
    ProviderMessageID string     `db:"provider_message_id" json:"provider_message_id,omitempty"`
    LastError         string     `db:"last_error" json:"last_error,omitempty"`
    AIGenerated       bool       `db:"ai_generated" json:"ai_generated"`
    ScheduledAt       time.Time  `db:"scheduled_at" json:"scheduled_at"`
    SentAt            *time.Time `db:"sent_at" json:"sent_at,omitempty"`
    CreatedAt         time.Time  `db:"created_at" json:"created_at"`
    UpdatedAt         time.Time  `db:"updated_at" json:"updated_at"`
}
