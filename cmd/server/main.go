// cmd/server/main.go
package main

import (
	"log"
	"net/http"
	"os"

	"github.com/go-chi/chi/v5"
	"github.com/joho/godotenv"

	"github.com/torqueworks/garage-reminders/internal/ai"
	"github.com/torqueworks/garage-reminders/internal/controller"
	"github.com/torqueworks/garage-reminders/internal/db"
	"github.com/torqueworks/garage-reminders/internal/handler"
	"github.com/torqueworks/garage-reminders/internal/queue"
	"github.com/torqueworks/garage-reminders/internal/repository"
	"github.com/torqueworks/garage-reminders/internal/service"
	"github.com/torqueworks/garage-reminders/internal/sms"
)

func main() {
	// Load .env
	if err := godotenv.Load(); err != nil {
		log.Println("⚠️ No .env file found, relying on OS environment variables")
	}

	// Init DB
	db.Init()
	q := queue.NewInMemoryQueue()

	shopRepo := &repository.ShopRepository{DB: db.DB}
	customerRepo := &repository.CustomerRepository{DB: db.DB}
	templateRepo := &repository.TemplateRepository{DB: db.DB}
	outboundRepo := &repository.OutboundMessageRepository{DB: db.DB}

	composer := &service.Composer{
		TemplateRepo: templateRepo,
		Generator:    newGenerator(),
	}

	reminderService := &service.ReminderService{
		ShopRepo:     shopRepo,
		CustomerRepo: customerRepo,
		OutboundRepo: outboundRepo,
		Composer:     composer,
	}

	dispatcher := &service.Dispatcher{
		ShopRepo:     shopRepo,
		CustomerRepo: customerRepo,
		OutboundRepo: outboundRepo,
		Sender:       newSender(),
	}
	queue.StartReminderSendSubscriber(q, dispatcher)

	reminderController := &controller.ReminderController{
		ReminderService: reminderService,
		Dispatcher:      dispatcher,
		ShopRepo:        shopRepo,
		CustomerRepo:    customerRepo,
		OutboundRepo:    outboundRepo,
		Queue:           q,
	}

	templateController := &controller.TemplateController{
		TemplateRepo: templateRepo,
	}

	messageHandler := handler.NewMessageHandler(outboundRepo)

	r := chi.NewRouter()

	// Template routes
	r.Post("/templates", templateController.CreateTemplate)
	r.Get("/templates", templateController.ListTemplates)
	r.Put("/templates/{id}", templateController.UpdateTemplate)
	r.Delete("/templates/{id}", templateController.DeleteTemplate)
	r.Post("/templates/{id}/default", templateController.SetDefaultTemplate)

	// Reminder routes
	r.Post("/reminders/run", reminderController.RunEvaluation)
	r.Post("/reminders/dispatch", reminderController.RunDispatch)
	r.Post("/shops/{id}/reminder-preview", reminderController.ReminderPreview)
	r.Get("/shops/{id}/reminder-stats", messageHandler.GetShopReminderStatsHandler)

	// Message routes
	r.Post("/messages", reminderController.ManualSend)
	r.Get("/messages", messageHandler.ListMessagesHandler)

	log.Println("🚀 Server running on :8080")
	log.Fatal(http.ListenAndServe(":8080", r))
}

func newGenerator() service.TextGenerator {
	apiKey := os.Getenv("OPENAI_API_KEY")
	if apiKey == "" {
		log.Println("⚠️ OPENAI_API_KEY not set, AI personalization disabled")
		return nil
	}
	return ai.NewOpenAIClient(apiKey, os.Getenv("OPENAI_MODEL"))
}

func newSender() sms.Sender {
	baseURL := os.Getenv("SMS_PROVIDER_URL")
	if baseURL == "" {
		log.Println("⚠️ SMS_PROVIDER_URL not set, using mock sender")
		return sms.NewMockSender()
	}
	return sms.NewHTTPSender(baseURL, os.Getenv("SMS_PROVIDER_API_KEY"))
}
