// internal/service/composer.go
package service

import (
    "context"
    "log"

    "github.com/torqueworks/garage-reminders/internal/ai"
    "github.com/torqueworks/garage-reminders/internal/model"
    "github.com/torqueworks/garage-reminders/internal/repository"
)

// TextGenerator is the optional AI collaborator
type TextGenerator interface {
    Generate(ctx context.Context, req ai.GenerationRequest) (string, error)
}

// Built-in last-resort templates per reminder category. The fallback chain
// bottoms out here, so a due reminder always gets a body.
var builtinTemplates = map[string]string{
    model.CategoryDueSoon: "Hi {first_name}, your {vehicle} is due for {service_type} around {due_date}. Reply or call {shop_name} to book a time.",
    model.CategoryDueNow:  "Hi {first_name}, your {vehicle} is due for {service_type} now. {shop_name} has openings this week if you'd like to come in.",
    model.CategoryOverdue: "Hi {first_name}, our records show the {service_type} on your {vehicle} is overdue. Give {shop_name} a call and we'll get you scheduled.",
}

const builtinFallback = "Hi {first_name}, your {vehicle} is due for {service_type}. Contact {shop_name} to schedule."

// Composer produces the body text for one due event. Strategy order: AI
// personalization (when the shop enables it), the shop's default custom
// template, then the built-in template for the reminder category.
type Composer struct {
    TemplateRepo repository.TemplateRepositoryInterface
    Generator    TextGenerator
}

type ComposeResult struct {
    Body        string
    AIGenerated bool
}

// Compose never fails: AI and template-lookup errors fall through to the next
// strategy and only get logged.
func (c *Composer) Compose(ctx context.Context, shop model.ShopConfig, event model.DueEvent) ComposeResult {
    if shop.AIPersonalization && c.Generator != nil {
        body, err := c.Generator.Generate(ctx, ai.GenerationRequest{
            Tone:        shop.AITone,
            ShopName:    shop.Name,
            FirstName:   event.Customer.FirstName,
            Vehicle:     event.Vehicle.Descriptor(),
            ServiceType: event.Service.ServiceType,
            Category:    event.Category,
        })
        if err == nil {
            return ComposeResult{Body: body, AIGenerated: true}
        }
        log.Println("⚠️ AI generation failed, falling back to template:", err)
    }

    data := ReminderData(shop, event)

    if c.TemplateRepo != nil {
        tmpl, err := c.TemplateRepo.GetDefault(shop.ID)
        if err != nil {
            log.Println("⚠️ failed to load default template for shop", shop.ID, ":", err)
        } else if tmpl != nil {
            return ComposeResult{Body: RenderTemplate(tmpl.Body, data)}
        }
    }

    tmpl, ok := builtinTemplates[event.Category]
    if !ok {
        tmpl = builtinFallback
    }
    if event.Category == model.CategoryDueSoon && data["due_date"] == "" {
        // mileage-only due events have no date to mention
        tmpl = builtinFallback
    }
    return ComposeResult{Body: RenderTemplate(tmpl, data)}
}
