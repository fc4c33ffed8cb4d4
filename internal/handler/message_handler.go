// internal/handler/message_handler.go
package handler

import (
	"encoding/json"
	"log"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/torqueworks/garage-reminders/internal/repository"
)

// MessageHandler holds the dependencies for queue-browsing HTTP handlers
type MessageHandler struct {
	OutboundRepo repository.OutboundMessageRepositoryInterface
}

// NewMessageHandler creates a new MessageHandler with the given repository
func NewMessageHandler(repo repository.OutboundMessageRepositoryInterface) *MessageHandler {
	return &MessageHandler{
		OutboundRepo: repo,
	}
}

// ListMessagesHandler returns a shop's outbound messages, newest first,
// optionally filtered by status
func (h *MessageHandler) ListMessagesHandler(w http.ResponseWriter, r *http.Request) {
	shopID, _ := strconv.Atoi(r.URL.Query().Get("shop_id"))
	if shopID < 1 {
		http.Error(w, "shop_id query parameter is required", http.StatusBadRequest)
		return
	}

	status := r.URL.Query().Get("status")
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	msgs, err := h.OutboundRepo.ListByStatus(shopID, status, limit)
	if err != nil {
		http.Error(w, "failed to fetch messages: "+err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"data": msgs,
	})
}

// GetShopReminderStatsHandler returns a shop's message counts by status
func (h *MessageHandler) GetShopReminderStatsHandler(w http.ResponseWriter, r *http.Request) {
	idStr := chi.URLParam(r, "id")
	id, err := strconv.Atoi(idStr)
	if err != nil {
		http.Error(w, "invalid shop id", http.StatusBadRequest)
		return
	}

	log.Println("📥 Stats requested for shop ID:", id)

	stats, err := h.OutboundRepo.StatsByShop(id)
	if err != nil {
		log.Println("❌ Error fetching stats:", err)
		http.Error(w, "failed to fetch stats: "+err.Error(), http.StatusInternalServerError)
		return
	}

	total := 0
	for _, count := range stats {
		total += count
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"shop_id": id,
		"total":   total,
		"stats":   stats,
	})
}
