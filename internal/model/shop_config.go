// internal/model/shop_config.go
package model

// ShopConfig is the per-organization reminder configuration. It is read-only
// inside the reminder core; the settings UI owns writes.
type ShopConfig struct {
    ID                int    `db:"id" json:"id"`
    Name              string `db:"name" json:"name"`
    RemindersEnabled  bool   `db:"reminders_enabled" json:"reminders_enabled"`
    QuietHoursStart   int    `db:"quiet_hours_start" json:"quiet_hours_start"` // hour of day, 0-23
    QuietHoursEnd     int    `db:"quiet_hours_end" json:"quiet_hours_end"`
    AIPersonalization bool   `db:"ai_personalization" json:"ai_personalization"`
    AITone            string `db:"ai_tone" json:"ai_tone"` // e.g. friendly, professional
}
