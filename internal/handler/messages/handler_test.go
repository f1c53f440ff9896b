package messages

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/martijnpeper/dagboek-bot/backend/internal/model/message"
)

type fakeSource struct {
	msgs []message.Message
	err  error
}

func (f *fakeSource) FetchRecent(_ context.Context, _ int) ([]message.Message, error) {
	return f.msgs, f.err
}

func setupRouter(source *fakeSource) *chi.Mux {
	r := chi.NewRouter()
	New(source, 50).RegisterRoutes(r)
	return r
}

func TestListMessages(t *testing.T) {
	sent := time.Date(2025, 3, 14, 16, 32, 1, 0, time.UTC)
	source := &fakeSource{msgs: []message.Message{
		{ID: "SM1", From: "whatsapp:+31600000001", Body: "hi", SentAt: sent},
		{ID: "SM2", From: "whatsapp:+14155238886", Body: "queued"},
	}}

	req := httptest.NewRequest(http.MethodGet, "/get_messages", nil)
	resp := httptest.NewRecorder()
	setupRouter(source).ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}

	var listed []map[string]string
	if err := json.Unmarshal(resp.Body.Bytes(), &listed); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(listed) != 2 {
		t.Fatalf("expected 2 messages, got %d", len(listed))
	}
	if listed[0]["date_sent"] != "2025-03-14T16:32:01Z" {
		t.Fatalf("unexpected date_sent: %q", listed[0]["date_sent"])
	}
	if listed[1]["date_sent"] != "" {
		t.Fatalf("expected empty date_sent for untimestamped message, got %q", listed[1]["date_sent"])
	}
}

func TestListMessagesFetchFailure(t *testing.T) {
	source := &fakeSource{err: fmt.Errorf("twilio returned status 503")}

	req := httptest.NewRequest(http.MethodGet, "/get_messages", nil)
	resp := httptest.NewRecorder()
	setupRouter(source).ServeHTTP(resp, req)

	if resp.Code != http.StatusBadGateway {
		t.Fatalf("expected 502, got %d", resp.Code)
	}
}
