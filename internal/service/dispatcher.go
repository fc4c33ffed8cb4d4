// internal/service/dispatcher.go
package service

import (
    "context"
    "fmt"
    "log"
    "time"

    "github.com/google/uuid"

    "github.com/torqueworks/garage-reminders/internal/model"
    "github.com/torqueworks/garage-reminders/internal/repository"
    "github.com/torqueworks/garage-reminders/internal/sms"
)

// Dispatcher drains the outbound queue: every queued message whose scheduled
// time has passed gets one send attempt, oldest first.
type Dispatcher struct {
    ShopRepo     repository.ShopRepositoryInterface
    CustomerRepo repository.CustomerRepositoryInterface
    OutboundRepo repository.OutboundMessageRepositoryInterface
    Sender       sms.Sender

    Now func() time.Time
}

// DrainResult is the summary of one drain pass
type DrainResult struct {
    RunID   string   `json:"run_id"`
    Sent    int      `json:"sent"`
    Failed  int      `json:"failed"`
    Skipped int      `json:"skipped"`
    Errors  []string `json:"errors"`
}

func (d *Dispatcher) now() time.Time {
    if d.Now != nil {
        return d.Now()
    }
    return time.Now()
}

// Drain processes all due queued messages. A transport failure marks that one
// message failed (terminal, no requeue) and moves on; quiet-hour hits leave
// the message queued for the next drain. Only the initial queue load aborts.
func (d *Dispatcher) Drain(ctx context.Context) (*DrainResult, error) {
    now := d.now()
    msgs, err := d.OutboundRepo.ListDueQueued(now)
    if err != nil {
        return nil, fmt.Errorf("failed to load queue: %w", err)
    }

    result := &DrainResult{RunID: uuid.NewString(), Errors: []string{}}
    for _, msg := range msgs {
        switch d.dispatch(ctx, msg, now) {
        case outcomeSent:
            result.Sent++
        case outcomeFailed:
            result.Failed++
        case outcomeSkipped:
            result.Skipped++
        case outcomeError:
            // data-access problem, message left queued for the next drain
            result.Skipped++
            result.Errors = append(result.Errors, fmt.Sprintf("message %d: dispatch error", msg.ID))
        }
    }

    log.Printf("📤 Drain run %s: %d sent, %d failed, %d skipped\n", result.RunID, result.Sent, result.Failed, result.Skipped)
    return result, nil
}

// DispatchOne sends a single queued message immediately if it is due. Used by
// the manual-send consumer; shares the drain's per-message logic.
func (d *Dispatcher) DispatchOne(ctx context.Context, messageID int) error {
    msg, err := d.OutboundRepo.GetByID(messageID)
    if err != nil {
        return err
    }
    if msg == nil {
        log.Println("⚠️ Message not found for ID:", messageID)
        return nil
    }
    if msg.Status != model.StatusQueued {
        return nil // already handled elsewhere
    }

    now := d.now()
    if msg.ScheduledAt.After(now) {
        return nil // not due yet, the drain loop will pick it up
    }
    if d.dispatch(ctx, msg, now) == outcomeError {
        return fmt.Errorf("dispatch of message %d hit a data-access error", messageID)
    }
    return nil
}

type outcome int

const (
    outcomeSent outcome = iota
    outcomeFailed
    outcomeSkipped
    outcomeError
)

func (d *Dispatcher) dispatch(ctx context.Context, msg *model.OutboundMessage, now time.Time) outcome {
    shop, err := d.ShopRepo.GetByID(msg.ShopID)
    if err != nil {
        log.Println("⚠️ failed to load shop", msg.ShopID, "for message", msg.ID, ":", err)
        return outcomeError
    }

    // quiet hours re-check: time has passed since enqueue
    if IsQuietNow(*shop, now) {
        return outcomeSkipped
    }

    customer, err := d.CustomerRepo.GetByID(msg.CustomerID)
    if err != nil {
        log.Println("⚠️ failed to load customer", msg.CustomerID, "for message", msg.ID, ":", err)
        return outcomeError
    }
    if customer == nil || customer.Phone == "" {
        // nowhere to deliver, terminal
        if err := d.OutboundRepo.MarkFailed(msg.ID, "customer has no phone number"); err != nil {
            log.Println("⚠️ failed to mark message failed:", err)
            return outcomeError
        }
        return outcomeFailed
    }

    providerID, err := d.Sender.Send(ctx, customer.Phone, msg.Body)
    if err != nil {
        log.Println("⚠️ transport failed for message", msg.ID, ":", err)
        if updErr := d.OutboundRepo.MarkFailed(msg.ID, err.Error()); updErr != nil {
            log.Println("⚠️ failed to record transport failure:", updErr)
            return outcomeError
        }
        return outcomeFailed
    }

    if err := d.OutboundRepo.MarkSent(msg.ID, providerID); err != nil {
        log.Println("⚠️ failed to mark message sent:", err)
        return outcomeError
    }
    return outcomeSent
}
