package webhook

import (
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/martijnpeper/dagboek-bot/backend/internal/service/responder"
	"github.com/martijnpeper/dagboek-bot/backend/pkg/utils"
)

// Handler answers inbound WhatsApp webhook calls with canned replies.
type Handler struct{}

// New creates the webhook handler.
func New() *Handler {
	return &Handler{}
}

// RegisterRoutes mounts the webhook endpoint.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/webhook", h.handleIncoming)
}

func (h *Handler) handleIncoming(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid form payload")
		return
	}

	body := r.PostFormValue("Body")
	sender := r.PostFormValue("From")

	reply := responder.Reply(body)
	log.Printf("[webhook] message from %s, replying with %q", sender, reply)

	utils.RespondJSON(w, http.StatusOK, map[string]string{"message": reply})
}
