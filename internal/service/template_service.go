// internal/service/template_service.go
package service

import (
    "strconv"
    "strings"

    "github.com/torqueworks/garage-reminders/internal/model"
)

// RenderTemplate replaces every {key} placeholder that has a value in data.
// Placeholders without a matching key stay in the output as literal text, so
// rendering is total: any template in, some string out, never an error.
func RenderTemplate(template string, data map[string]string) string {
    result := template
    for k, v := range data {
        result = strings.ReplaceAll(result, "{"+k+"}", v)
    }
    return result
}

// ReminderData builds the placeholder map for one due event.
func ReminderData(shop model.ShopConfig, event model.DueEvent) map[string]string {
    data := map[string]string{
        "first_name":   event.Customer.FirstName,
        "last_name":    event.Customer.LastName,
        "shop_name":    shop.Name,
        "vehicle":      event.Vehicle.Descriptor(),
        "service_type": event.Service.ServiceType,
        "category":     event.Category,
    }
    if event.Service.NextDueDate != nil {
        data["due_date"] = event.Service.NextDueDate.Format("January 2")
    }
    if event.Service.NextDueMileage != nil {
        data["due_mileage"] = strconv.Itoa(*event.Service.NextDueMileage)
    }
    return data
}
