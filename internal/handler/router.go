package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	diaryHandler "github.com/martijnpeper/dagboek-bot/backend/internal/handler/diary"
	"github.com/martijnpeper/dagboek-bot/backend/internal/handler/messages"
	"github.com/martijnpeper/dagboek-bot/backend/internal/handler/webhook"
	diaryService "github.com/martijnpeper/dagboek-bot/backend/internal/service/diary"
)

// NewRouter wires HTTP routes to core services.
func NewRouter(pipeline *diaryService.Service, source diaryService.Source, lister diaryHandler.Lister, fetchLimit int) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	webhook.New().RegisterRoutes(r)
	messages.New(source, fetchLimit).RegisterRoutes(r)
	diaryHandler.New(pipeline, lister).RegisterRoutes(r)

	return r
}
