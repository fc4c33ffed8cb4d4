package repository

import (
    "database/sql"
    "time"

    appErrors "github.com/torqueworks/garage-reminders/internal/errors"
    "github.com/torqueworks/garage-reminders/internal/model"
)

type TemplateRepositoryInterface interface {
    Create(t *model.ReminderTemplate) error
    Update(t *model.ReminderTemplate) error
    Delete(id int) error
    GetByID(id int) (*model.ReminderTemplate, error)
    ListByShop(shopID int) ([]model.ReminderTemplate, error)
    GetDefault(shopID int) (*model.ReminderTemplate, error)
    SetDefault(shopID, templateID int) error
}

type TemplateRepository struct {
    DB *sql.DB
}

// ====================== Template CRUD ======================

func (r *TemplateRepository) Create(t *model.ReminderTemplate) error {
    t.CreatedAt = time.Now()
    query := `
        INSERT INTO reminder_templates (shop_id, name, body, is_default, created_at)
        VALUES ($1, $2, $3, $4, $5)
        RETURNING id
    `
    return r.DB.QueryRow(query, t.ShopID, t.Name, t.Body, t.IsDefault, t.CreatedAt).Scan(&t.ID)
}

func (r *TemplateRepository) Update(t *model.ReminderTemplate) error {
    query := `
        UPDATE reminder_templates
        SET name=$1, body=$2, updated_at=NOW()
        WHERE id=$3
    `
    _, err := r.DB.Exec(query, t.Name, t.Body, t.ID)
    return err
}

func (r *TemplateRepository) Delete(id int) error {
    _, err := r.DB.Exec(`DELETE FROM reminder_templates WHERE id=$1`, id)
    return err
}

func (r *TemplateRepository) GetByID(id int) (*model.ReminderTemplate, error) {
    query := `
        SELECT id, shop_id, name, body, is_default, created_at, updated_at
        FROM reminder_templates WHERE id=$1
    `
    var t model.ReminderTemplate
    err := r.DB.QueryRow(query, id).Scan(&t.ID, &t.ShopID, &t.Name, &t.Body, &t.IsDefault, &t.CreatedAt, &t.UpdatedAt)
    if err != nil {
        if err == sql.ErrNoRows {
            return nil, appErrors.NewTemplateNotFound(id)
        }
        return nil, err
    }
    return &t, nil
}

func (r *TemplateRepository) ListByShop(shopID int) ([]model.ReminderTemplate, error) {
    query := `
        SELECT id, shop_id, name, body, is_default, created_at, updated_at
        FROM reminder_templates
        WHERE shop_id=$1
        ORDER BY id DESC
    `
    rows, err := r.DB.Query(query, shopID)
    if err != nil {
        return nil, err
    }
    defer rows.Close()

    templates := []model.ReminderTemplate{}
    for rows.Next() {
        var t model.ReminderTemplate
        if err := rows.Scan(&t.ID, &t.ShopID, &t.Name, &t.Body, &t.IsDefault, &t.CreatedAt, &t.UpdatedAt); err != nil {
            return nil, err
        }
        templates = append(templates, t)
    }
    return templates, rows.Err()
}

// GetDefault returns the shop's default template, or nil if none is marked
func (r *TemplateRepository) GetDefault(shopID int) (*model.ReminderTemplate, error) {
    query := `
        SELECT id, shop_id, name, body, is_default, created_at, updated_at
        FROM reminder_templates
        WHERE shop_id=$1 AND is_default=true
        LIMIT 1
    `
    var t model.ReminderTemplate
    err := r.DB.QueryRow(query, shopID).Scan(&t.ID, &t.ShopID, &t.Name, &t.Body, &t.IsDefault, &t.CreatedAt, &t.UpdatedAt)
    if err != nil {
        if err == sql.ErrNoRows {
            return nil, nil
        }
        return nil, err
    }
    return &t, nil
}

// SetDefault marks one template as the shop default. At most one default per
// shop, so the previous default is cleared in the same transaction.
func (r *TemplateRepository) SetDefault(shopID, templateID int) error {
    tx, err := r.DB.Begin()
    if err != nil {
        return err
    }

    if _, err := tx.Exec(`UPDATE reminder_templates SET is_default=false WHERE shop_id=$1 AND is_default=true`, shopID); err != nil {
        tx.Rollback()
        return err
    }

    res, err := tx.Exec(`UPDATE reminder_templates SET is_default=true, updated_at=NOW() WHERE id=$1 AND shop_id=$2`, templateID, shopID)
    if err != nil {
        tx.Rollback()
        return err
    }
    if n, _ := res.RowsAffected(); n == 0 {
        tx.Rollback()
        return appErrors.NewTemplateNotFound(templateID)
    }

    return tx.Commit()
}

var _ TemplateRepositoryInterface = (*TemplateRepository)(nil)
