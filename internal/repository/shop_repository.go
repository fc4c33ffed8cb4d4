package repository

import (
	"database/sql"

	appErrors "github.com/torqueworks/garage-reminders/internal/errors"
	"github.com/torqueworks/garage-reminders/internal/model"
)

// ShopRepositoryInterface defines methods used by the reminder services
type ShopRepositoryInterface interface {
	GetByID(id int) (*model.ShopConfig, error)
	ListReminderEligible() ([]model.ShopConfig, error)
}

// ShopRepository is the concrete implementation
type ShopRepository struct {
	DB *sql.DB
}

// GetByID fetches a shop's reminder configuration by ID
func (r *ShopRepository) GetByID(id int) (*model.ShopConfig, error) {
	query := `
        SELECT id, name, reminders_enabled, quiet_hours_start, quiet_hours_end, ai_personalization, ai_tone
        FROM shops
        WHERE id = $1
    `
	var s model.ShopConfig
	err := r.DB.QueryRow(query, id).Scan(
		&s.ID, &s.Name, &s.RemindersEnabled,
		&s.QuietHoursStart, &s.QuietHoursEnd,
		&s.AIPersonalization, &s.AITone,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.NewShopNotFound(id)
		}
		return nil, err
	}
	return &s, nil
}

// ListReminderEligible fetches all shops that have reminders switched on
func (r *ShopRepository) ListReminderEligible() ([]model.ShopConfig, error) {
	query := `
        SELECT id, name, reminders_enabled, quiet_hours_start, quiet_hours_end, ai_personalization, ai_tone
        FROM shops
        WHERE reminders_enabled = true
        ORDER BY id
    `
	rows, err := r.DB.Query(query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	shops := []model.ShopConfig{}
	for rows.Next() {
		var s model.ShopConfig
		if err := rows.Scan(
			&s.ID, &s.Name, &s.RemindersEnabled,
			&s.QuietHoursStart, &s.QuietHoursEnd,
			&s.AIPersonalization, &s.AITone,
		); err != nil {
			return nil, err
		}
		shops = append(shops, s)
	}
	return shops, rows.Err()
}

var _ ShopRepositoryInterface = (*ShopRepository)(nil)
