package diary

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"

	diaryModel "github.com/martijnpeper/dagboek-bot/backend/internal/model/diary"
	"github.com/martijnpeper/dagboek-bot/backend/internal/model/message"
	diaryService "github.com/martijnpeper/dagboek-bot/backend/internal/service/diary"
	"github.com/martijnpeper/dagboek-bot/backend/pkg/utils"
)

// Lister reads back persisted entries.
type Lister interface {
	ListEntries(ctx context.Context) ([]diaryModel.Entry, error)
}

// Handler drives the diary generation pipeline over HTTP.
type Handler struct {
	pipeline *diaryService.Service
	lister   Lister
}

// New creates the diary handler.
func New(pipeline *diaryService.Service, lister Lister) *Handler {
	return &Handler{pipeline: pipeline, lister: lister}
}

// RegisterRoutes mounts the generation and listing endpoints.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/generate_diary", h.handleGenerate)
	r.Get("/entries", h.handleListEntries)
}

type generateRequest struct {
	Messages []string `json:"messages"`
}

type personaEntry struct {
	Author string `json:"author"`
	Entry  string `json:"entry,omitempty"`
	Error  string `json:"error,omitempty"`
}

// handleGenerate accepts an optional explicit message list. Without one it
// fetches recent sandbox messages and applies the trailing window.
func (h *Handler) handleGenerate(w http.ResponseWriter, r *http.Request) {
	var payload generateRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil && !errors.Is(err, io.EOF) {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	var (
		results []diaryService.Result
		err     error
	)
	if len(payload.Messages) > 0 {
		msgs := make([]message.Message, 0, len(payload.Messages))
		for _, body := range payload.Messages {
			msgs = append(msgs, message.Message{Body: body})
		}
		results, err = h.pipeline.GenerateFromMessages(r.Context(), msgs)
	} else {
		results, err = h.pipeline.GenerateRecent(r.Context())
	}

	if err != nil {
		if errors.Is(err, diaryService.ErrNoMessages) {
			utils.RespondError(w, http.StatusBadRequest, "geen berichten ontvangen")
			return
		}
		log.Printf("[diary] pipeline failed: %v", err)
		utils.RespondError(w, http.StatusBadGateway, err.Error())
		return
	}

	entries := make([]personaEntry, 0, len(results))
	succeeded := 0
	for _, result := range results {
		item := personaEntry{Author: result.Persona.Name}
		if result.Err != nil {
			item.Error = result.Err.Error()
		} else {
			item.Entry = result.Entry.Body
			succeeded++
		}
		entries = append(entries, item)
	}

	// One persona failing must not fail the whole request; only report a
	// fault when nothing could be generated at all.
	status := http.StatusOK
	if succeeded == 0 {
		status = http.StatusBadGateway
	}
	utils.RespondJSON(w, status, map[string]any{"entries": entries})
}

func (h *Handler) handleListEntries(w http.ResponseWriter, r *http.Request) {
	entries, err := h.lister.ListEntries(r.Context())
	if err != nil {
		log.Printf("[diary] listing entries failed: %v", err)
		utils.RespondError(w, http.StatusInternalServerError, "failed to list entries")
		return
	}
	if entries == nil {
		entries = []diaryModel.Entry{}
	}
	utils.RespondJSON(w, http.StatusOK, entries)
}
