// internal/model/reminder_template.go
package model

import "time"

type ReminderTemplate struct {
    ID        int        `db:"id" json:"id"`
    ShopID    int        `db:"shop_id" json:"shop_id"`
    Name      string     `db:"name" json:"name"`
    Body      string     `db:"body" json:"body"` // plain text with {placeholder} tokens
    IsDefault bool       `db:"is_default" json:"is_default"`
    CreatedAt time.Time  `db:"created_at" json:"created_at"`
    UpdatedAt *time.Time `db:"updated_at" json:"updated_at,omitempty"`
}
