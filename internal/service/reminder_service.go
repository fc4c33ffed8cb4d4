// internal/service/reminder_service.go
package service

import (
    "context"
    "fmt"
    "log"
    "time"

    "github.com/google/uuid"

    appErrors "github.com/torqueworks/garage-reminders/internal/errors"
    "github.com/torqueworks/garage-reminders/internal/model"
    "github.com/torqueworks/garage-reminders/internal/repository"
)

// Urgency thresholds. The service record's next-due date and mileage are both
// checked; the more urgent classification wins.
const (
    DueNowWindow   = 3 * 24 * time.Hour
    DueSoonWindow  = 14 * 24 * time.Hour
    DueNowMileage  = 150
    DueSoonMileage = 500
)

// ReminderCycle is how long a sent reminder suppresses a new one for the same
// (customer, service record). One lookahead window: if the due event is still
// outstanding after that, the next evaluation run reminds again.
const ReminderCycle = DueSoonWindow

type ReminderService struct {
    ShopRepo     repository.ShopRepositoryInterface
    CustomerRepo repository.CustomerRepositoryInterface
    OutboundRepo repository.OutboundMessageRepositoryInterface
    Composer     *Composer

    // Now is swappable for tests; defaults to time.Now
    Now func() time.Time
}

// EvaluateResult is the per-shop summary of one evaluation pass
type EvaluateResult struct {
    ShopID      int      `json:"shop_id"`
    Queued      int      `json:"queued"`
    AIGenerated int      `json:"ai_generated"`
    Errors      []string `json:"errors"`
}

// EvaluateSummary aggregates an evaluate-all run across shops
type EvaluateSummary struct {
    RunID       string   `json:"run_id"`
    Shops       int      `json:"shops"`
    Queued      int      `json:"queued"`
    AIGenerated int      `json:"ai_generated"`
    Errors      []string `json:"errors"`
}

func (s *ReminderService) now() time.Time {
    if s.Now != nil {
        return s.Now()
    }
    return time.Now()
}

// ClassifyUrgency places a service record into a reminder category relative to
// the current date and the vehicle's recorded mileage. Empty string means not
// due. Records with neither a next-due date nor mileage never classify.
func ClassifyUrgency(sr model.ServiceRecord, currentMileage int, now time.Time) string {
    category := ""

    if sr.NextDueDate != nil {
        until := sr.NextDueDate.Sub(now)
        switch {
        case until < 0:
            category = model.CategoryOverdue
        case until <= DueNowWindow:
            category = model.CategoryDueNow
        case until <= DueSoonWindow:
            category = model.CategoryDueSoon
        }
    }

    if sr.NextDueMileage != nil && currentMileage > 0 {
        remaining := *sr.NextDueMileage - currentMileage
        var byMileage string
        switch {
        case remaining <= 0:
            byMileage = model.CategoryOverdue
        case remaining <= DueNowMileage:
            byMileage = model.CategoryDueNow
        case remaining <= DueSoonMileage:
            byMileage = model.CategoryDueSoon
        }
        if urgencyRank(byMileage) > urgencyRank(category) {
            category = byMileage
        }
    }

    return category
}

func urgencyRank(category string) int {
    switch category {
    case model.CategoryOverdue:
        return 3
    case model.CategoryDueNow:
        return 2
    case model.CategoryDueSoon:
        return 1
    }
    return 0
}

// EvaluateShop runs one evaluation pass for a single shop: classify every
// (customer, vehicle, latest service) candidate, skip tuples that already have
// a queued or recently sent reminder, compose and enqueue the rest. One bad
// record never blocks the remaining customers; its error goes into the result.
func (s *ReminderService) EvaluateShop(ctx context.Context, shop model.ShopConfig) EvaluateResult {
    result := EvaluateResult{ShopID: shop.ID, Errors: []string{}}

    if !shop.RemindersEnabled {
        return result
    }

    candidates, err := s.CustomerRepo.ListServiceCandidates(shop.ID)
    if err != nil {
        result.Errors = append(result.Errors, fmt.Sprintf("shop %d: failed to load candidates: %v", shop.ID, err))
        return result
    }

    now := s.now()
    sentSince := now.Add(-ReminderCycle)

    for _, cand := range candidates {
        category := ClassifyUrgency(cand.Service, cand.Vehicle.Mileage, now)
        if category == "" {
            continue
        }

        existing, err := s.OutboundRepo.FindExistingReminder(cand.Customer.ID, cand.Service.ID, sentSince)
        if err != nil {
            result.Errors = append(result.Errors, fmt.Sprintf("customer %d: reminder lookup failed: %v", cand.Customer.ID, err))
            continue
        }
        if existing != nil {
            continue // already pending or recently sent for this due event
        }

        event := model.DueEvent{
            Customer: cand.Customer,
            Vehicle:  cand.Vehicle,
            Service:  cand.Service,
            Category: category,
        }

        composed := s.Composer.Compose(ctx, shop, event)

        scheduledAt := now
        if IsQuietNow(shop, now) {
            scheduledAt = NextOpenTime(shop, now)
        }

        vehicleID := cand.Vehicle.ID
        serviceID := cand.Service.ID
        msg := &model.OutboundMessage{
            ShopID:          shop.ID,
            CustomerID:      cand.Customer.ID,
            VehicleID:       &vehicleID,
            ServiceRecordID: &serviceID,
            Category:        category,
            Direction:       model.DirectionOutbound,
            Body:            composed.Body,
            Status:          model.StatusQueued,
            AIGenerated:     composed.AIGenerated,
            ScheduledAt:     scheduledAt,
        }

        if err := s.OutboundRepo.Create(msg); err != nil {
            if appErrors.IsDuplicateReminder(err) {
                // concurrent evaluation run beat us to it, not an error
                continue
            }
            result.Errors = append(result.Errors, fmt.Sprintf("customer %d: failed to enqueue reminder: %v", cand.Customer.ID, err))
            continue
        }

        result.Queued++
        if composed.AIGenerated {
            result.AIGenerated++
        }
    }

    return result
}

// EvaluateAll runs the evaluation pass over every reminder-eligible shop.
// Only a failure to list the shops aborts the run; per-shop problems land in
// the summary's error list.
func (s *ReminderService) EvaluateAll(ctx context.Context) (*EvaluateSummary, error) {
    shops, err := s.ShopRepo.ListReminderEligible()
    if err != nil {
        return nil, fmt.Errorf("failed to list shops: %w", err)
    }

    summary := &EvaluateSummary{RunID: uuid.NewString(), Errors: []string{}}
    for _, shop := range shops {
        res := s.EvaluateShop(ctx, shop)
        summary.Shops++
        summary.Queued += res.Queued
        summary.AIGenerated += res.AIGenerated
        summary.Errors = append(summary.Errors, res.Errors...)
    }

    log.Printf("📋 Evaluation run %s: %d shops, %d queued (%d AI), %d errors\n",
        summary.RunID, summary.Shops, summary.Queued, summary.AIGenerated, len(summary.Errors))
    return summary, nil
}
