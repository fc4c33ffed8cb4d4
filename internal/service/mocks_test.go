package service_test

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/torqueworks/garage-reminders/internal/ai"
	appErrors "github.com/torqueworks/garage-reminders/internal/errors"
	"github.com/torqueworks/garage-reminders/internal/model"
)

// --- Mock repositories shared by the service tests ---

type MockShopRepo struct {
	Shops map[int]*model.ShopConfig
	Err   error
}

func (m *MockShopRepo) GetByID(id int) (*model.ShopConfig, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	shop, ok := m.Shops[id]
	if !ok {
		return nil, appErrors.NewShopNotFound(id)
	}
	return shop, nil
}

func (m *MockShopRepo) ListReminderEligible() ([]model.ShopConfig, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	shops := []model.ShopConfig{}
	for _, s := range m.Shops {
		if s.RemindersEnabled {
			shops = append(shops, *s)
		}
	}
	return shops, nil
}

type MockCustomerRepo struct {
	Customers  map[int]*model.Customer
	Vehicles   map[int]*model.Vehicle
	Candidates []model.ServiceCandidate
	ListErr    error
}

func (m *MockCustomerRepo) GetByID(id int) (*model.Customer, error) {
	return m.Customers[id], nil
}

func (m *MockCustomerRepo) GetVehicle(id int) (*model.Vehicle, error) {
	return m.Vehicles[id], nil
}

func (m *MockCustomerRepo) ListServiceCandidates(shopID int) ([]model.ServiceCandidate, error) {
	if m.ListErr != nil {
		return nil, m.ListErr
	}
	return m.Candidates, nil
}

// MockOutboundRepo stores messages in memory
type MockOutboundRepo struct {
	mu     sync.Mutex
	nextID int
	Msgs   map[int]*model.OutboundMessage

	// CreateErrFor makes Create fail for one customer ID
	CreateErrFor map[int]error
}

func NewMockOutboundRepo() *MockOutboundRepo {
	return &MockOutboundRepo{Msgs: map[int]*model.OutboundMessage{}, CreateErrFor: map[int]error{}}
}

func (m *MockOutboundRepo) Create(msg *model.OutboundMessage) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err, ok := m.CreateErrFor[msg.CustomerID]; ok {
		return err
	}
	m.nextID++
	msg.ID = m.nextID
	copied := *msg
	m.Msgs[msg.ID] = &copied
	return nil
}

func (m *MockOutboundRepo) GetByID(id int) (*model.OutboundMessage, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.Msgs[id], nil
}

func (m *MockOutboundRepo) FindExistingReminder(customerID, serviceRecordID int, sentSince time.Time) (*model.OutboundMessage, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, msg := range m.Msgs {
		if msg.CustomerID != customerID || msg.ServiceRecordID == nil || *msg.ServiceRecordID != serviceRecordID {
			continue
		}
		if msg.Status == model.StatusQueued {
			return msg, nil
		}
		if msg.SentAt != nil && !msg.SentAt.Before(sentSince) {
			return msg, nil
		}
	}
	return nil, nil
}

func (m *MockOutboundRepo) ListDueQueued(now time.Time) ([]*model.OutboundMessage, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	due := []*model.OutboundMessage{}
	for _, msg := range m.Msgs {
		if msg.Status == model.StatusQueued && !msg.ScheduledAt.After(now) {
			due = append(due, msg)
		}
	}
	// oldest scheduled first
	for i := 0; i < len(due); i++ {
		for j := i + 1; j < len(due); j++ {
			if due[j].ScheduledAt.Before(due[i].ScheduledAt) {
				due[i], due[j] = due[j], due[i]
			}
		}
	}
	return due, nil
}

func (m *MockOutboundRepo) ListByStatus(shopID int, status string, limit int) ([]*model.OutboundMessage, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []*model.OutboundMessage{}
	for _, msg := range m.Msgs {
		if msg.ShopID == shopID && (status == "" || msg.Status == status) {
			out = append(out, msg)
		}
	}
	return out, nil
}

func (m *MockOutboundRepo) MarkSent(id int, providerMessageID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	msg := m.Msgs[id]
	msg.Status = model.StatusSent
	msg.ProviderMessageID = providerMessageID
	now := time.Now()
	msg.SentAt = &now
	return nil
}

func (m *MockOutboundRepo) MarkFailed(id int, lastError string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	msg := m.Msgs[id]
	msg.Status = model.StatusFailed
	msg.LastError = lastError
	return nil
}

func (m *MockOutboundRepo) UpdateStatus(id int, status string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Msgs[id].Status = status
	return nil
}

func (m *MockOutboundRepo) StatsByShop(shopID int) (map[string]int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	stats := map[string]int{}
	for _, msg := range m.Msgs {
		if msg.ShopID == shopID {
			stats[msg.Status]++
		}
	}
	return stats, nil
}

type MockTemplateRepo struct {
	Default    *model.ReminderTemplate
	DefaultErr error
}

func (m *MockTemplateRepo) Create(t *model.ReminderTemplate) error { return nil }
func (m *MockTemplateRepo) Update(t *model.ReminderTemplate) error { return nil }
func (m *MockTemplateRepo) Delete(id int) error                    { return nil }
func (m *MockTemplateRepo) GetByID(id int) (*model.ReminderTemplate, error) {
	return nil, appErrors.NewTemplateNotFound(id)
}
func (m *MockTemplateRepo) ListByShop(shopID int) ([]model.ReminderTemplate, error) {
	return []model.ReminderTemplate{}, nil
}
func (m *MockTemplateRepo) GetDefault(shopID int) (*model.ReminderTemplate, error) {
	if m.DefaultErr != nil {
		return nil, m.DefaultErr
	}
	return m.Default, nil
}
func (m *MockTemplateRepo) SetDefault(shopID, templateID int) error { return nil }

// FakeGenerator fakes the AI collaborator
type FakeGenerator struct {
	Text string
	Err  error
}

func (f *FakeGenerator) Generate(ctx context.Context, req ai.GenerationRequest) (string, error) {
	if f.Err != nil {
		return "", f.Err
	}
	return f.Text, nil
}

// FakeSender records send attempts and can fail specific phone numbers
type FakeSender struct {
	mu      sync.Mutex
	Sent    []string // phone numbers, in attempt order
	FailFor map[string]bool
	nextID  int
}

func (f *FakeSender) Send(ctx context.Context, toPhone, body string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Sent = append(f.Sent, toPhone)
	if f.FailFor[toPhone] {
		return "", fmt.Errorf("provider rejected %s", toPhone)
	}
	f.nextID++
	return fmt.Sprintf("prov-%d", f.nextID), nil
}
