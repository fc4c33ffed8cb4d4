package queue

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/torqueworks/garage-reminders/internal/service"
)

// TopicReminderSends carries outbound message IDs for immediate dispatch
const TopicReminderSends = "reminder_sends"

// Queue interface
type Queue interface {
	Publish(topic string, payload any) error
	Subscribe(topic string, handler func(payload any) error) error
}

// InMemoryQueue is an in-process pub/sub queue with retry, used by the API
// server so manual sends go out without waiting for the next drain tick.
type InMemoryQueue struct {
	mu       sync.Mutex
	handlers map[string][]func(payload any) error
}

// NewInMemoryQueue creates a new queue
func NewInMemoryQueue() *InMemoryQueue {
	return &InMemoryQueue{
		handlers: make(map[string][]func(payload any) error),
	}
}

// JobPayload wraps a message payload with retry info
type JobPayload struct {
	Payload    any
	RetryCount int
	MaxRetries int
}

// Publish sends a message to all subscribers
func (q *InMemoryQueue) Publish(topic string, payload any) error {
	q.mu.Lock()
	handlers := q.handlers[topic]
	q.mu.Unlock()

	if len(handlers) == 0 {
		return fmt.Errorf("no subscribers for topic %s", topic)
	}

	job := JobPayload{
		Payload:    payload,
		RetryCount: 0,
		MaxRetries: 3,
	}

	for _, handler := range handlers {
		go q.processJob(handler, job)
	}

	return nil
}

// processJob handles retries and errors. Handlers only error on data-access
// problems, never on transport failure, so retrying here cannot double-send.
func (q *InMemoryQueue) processJob(handler func(payload any) error, job JobPayload) {
	for job.RetryCount <= job.MaxRetries {
		err := handler(job.Payload)
		if err == nil {
			return // ACK
		}

		job.RetryCount++
		log.Printf("Job failed (attempt %d/%d): %+v, error: %v\n", job.RetryCount, job.MaxRetries, job.Payload, err)

		if job.RetryCount > job.MaxRetries {
			log.Printf("Job permanently failed after %d attempts: %+v\n", job.MaxRetries, job.Payload)
			return // message stays queued, the periodic drain picks it up
		}

		// Exponential backoff before retry
		time.Sleep(time.Duration(job.RetryCount*500) * time.Millisecond)
	}
}

// Subscribe adds a handler for a topic
func (q *InMemoryQueue) Subscribe(topic string, handler func(payload any) error) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	q.handlers[topic] = append(q.handlers[topic], handler)
	return nil
}

// StartReminderSendSubscriber wires the dispatcher to the reminder_sends topic
func StartReminderSendSubscriber(q Queue, dispatcher *service.Dispatcher) {
	go func() {
		err := q.Subscribe(TopicReminderSends, func(payload any) error {
			msgID, ok := payload.(int)
			if !ok {
				log.Println("⚠️ Invalid payload type, expected int")
				return nil // drop, nothing to retry
			}

			log.Println("📩 Dispatching outbound message ID:", msgID)
			return dispatcher.DispatchOne(context.Background(), msgID)
		})

		if err != nil {
			log.Println("⚠️ Failed to start subscriber for reminder_sends:", err)
		}
	}()
}
