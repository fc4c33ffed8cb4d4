// internal/controller/template_controller.go
package controller

import (
    "encoding/json"
    "errors"
    "net/http"
    "strconv"

    "github.com/go-chi/chi/v5"

    appErrors "github.com/torqueworks/garage-reminders/internal/errors"
    "github.com/torqueworks/garage-reminders/internal/model"
    "github.com/torqueworks/garage-reminders/internal/repository"
)

type TemplateController struct {
    TemplateRepo repository.TemplateRepositoryInterface
}

func (c *TemplateController) CreateTemplate(w http.ResponseWriter, r *http.Request) {
    var body struct {
        ShopID    int    `json:"shop_id"`
        Name      string `json:"name"`
        Body      string `json:"body"`
        IsDefault bool   `json:"is_default"`
    }
    if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
        http.Error(w, "invalid body", http.StatusBadRequest)
        return
    }
    if body.ShopID == 0 || body.Name == "" || body.Body == "" {
        http.Error(w, "shop_id, name and body are required", http.StatusBadRequest)
        return
    }

    t := &model.ReminderTemplate{
        ShopID: body.ShopID,
        Name:   body.Name,
        Body:   body.Body,
    }
    if err := c.TemplateRepo.Create(t); err != nil {
        http.Error(w, err.Error(), http.StatusInternalServerError)
        return
    }

    // marking default is a separate step so at most one stays default
    if body.IsDefault {
        if err := c.TemplateRepo.SetDefault(t.ShopID, t.ID); err != nil {
            http.Error(w, err.Error(), http.StatusInternalServerError)
            return
        }
        t.IsDefault = true
    }

    w.Header().Set("Content-Type", "application/json")
    json.NewEncoder(w).Encode(t)
}

func (c *TemplateController) ListTemplates(w http.ResponseWriter, r *http.Request) {
    shopID, _ := strconv.Atoi(r.URL.Query().Get("shop_id"))
    if shopID < 1 {
        http.Error(w, "shop_id query parameter is required", http.StatusBadRequest)
        return
    }

    templates, err := c.TemplateRepo.ListByShop(shopID)
    if err != nil {
        http.Error(w, err.Error(), http.StatusInternalServerError)
        return
    }

    w.Header().Set("Content-Type", "application/json")
    json.NewEncoder(w).Encode(map[string]interface{}{
        "data": templates,
    })
}

func (c *TemplateController) UpdateTemplate(w http.ResponseWriter, r *http.Request) {
    idStr := chi.URLParam(r, "id")
    id, err := strconv.Atoi(idStr)
    if err != nil {
        http.Error(w, "invalid template id", http.StatusBadRequest)
        return
    }

    var body struct {
        Name string `json:"name"`
        Body string `json:"body"`
    }
    if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
        http.Error(w, "invalid body", http.StatusBadRequest)
        return
    }

    t, err := c.TemplateRepo.GetByID(id)
    if err != nil {
        writeTemplateError(w, err)
        return
    }

    if body.Name != "" {
        t.Name = body.Name
    }
    if body.Body != "" {
        t.Body = body.Body
    }
    if err := c.TemplateRepo.Update(t); err != nil {
        http.Error(w, err.Error(), http.StatusInternalServerError)
        return
    }

    w.Header().Set("Content-Type", "application/json")
    json.NewEncoder(w).Encode(t)
}

func (c *TemplateController) DeleteTemplate(w http.ResponseWriter, r *http.Request) {
    idStr := chi.URLParam(r, "id")
    id, err := strconv.Atoi(idStr)
    if err != nil {
        http.Error(w, "invalid template id", http.StatusBadRequest)
        return
    }

    if err := c.TemplateRepo.Delete(id); err != nil {
        http.Error(w, err.Error(), http.StatusInternalServerError)
        return
    }
    w.WriteHeader(http.StatusNoContent)
}

func (c *TemplateController) SetDefaultTemplate(w http.ResponseWriter, r *http.Request) {
    idStr := chi.URLParam(r, "id")
    id, err := strconv.Atoi(idStr)
    if err != nil {
        http.Error(w, "invalid template id", http.StatusBadRequest)
        return
    }

    var body struct {
        ShopID int `json:"shop_id"`
    }
    if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
        http.Error(w, "invalid body", http.StatusBadRequest)
        return
    }

    if err := c.TemplateRepo.SetDefault(body.ShopID, id); err != nil {
        writeTemplateError(w, err)
        return
    }

    w.Header().Set("Content-Type", "application/json")
    json.NewEncoder(w).Encode(map[string]interface{}{
        "template_id": id,
        "is_default":  true,
    })
}

func writeTemplateError(w http.ResponseWriter, err error) {
    var notFound *appErrors.ErrTemplateNotFound
    if errors.As(err, &notFound) {
        http.Error(w, err.Error(), http.StatusNotFound)
        return
    }
    http.Error(w, err.Error(), http.StatusInternalServerError)
}
