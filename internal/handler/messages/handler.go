package messages

import (
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	diaryService "github.com/martijnpeper/dagboek-bot/backend/internal/service/diary"
	"github.com/martijnpeper/dagboek-bot/backend/pkg/utils"
)

// Handler exposes the recent sandbox messages over HTTP.
type Handler struct {
	source diaryService.Source
	limit  int
}

// New creates the message listing handler.
func New(source diaryService.Source, limit int) *Handler {
	return &Handler{source: source, limit: limit}
}

// RegisterRoutes mounts the listing endpoint.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/get_messages", h.handleList)
}

type listedMessage struct {
	ID       string `json:"id"`
	From     string `json:"from"`
	Body     string `json:"body"`
	DateSent string `json:"date_sent"`
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	msgs, err := h.source.FetchRecent(r.Context(), h.limit)
	if err != nil {
		log.Printf("[twilio] message fetch failed: %v", err)
		utils.RespondError(w, http.StatusBadGateway, "failed to fetch messages")
		return
	}

	listed := make([]listedMessage, 0, len(msgs))
	for _, msg := range msgs {
		item := listedMessage{
			ID:   msg.ID,
			From: msg.From,
			Body: msg.Body,
		}
		if !msg.SentAt.IsZero() {
			item.DateSent = msg.SentAt.Format(time.RFC3339)
		}
		listed = append(listed, item)
	}

	utils.RespondJSON(w, http.StatusOK, listed)
}
