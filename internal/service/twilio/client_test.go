package twilio

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/martijnpeper/dagboek-bot/backend/internal/config"
)

const sandbox = "whatsapp:+14155238886"

func newTestClient(serverURL string) *Client {
	return NewClient(config.TwilioConfig{
		AccountSID:    "AC00000000000000000000000000000000",
		AuthToken:     "token",
		SandboxNumber: sandbox,
		BaseURL:       serverURL,
	})
}

func TestFetchRecentFiltersToSandboxNumber(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, _, ok := r.BasicAuth(); !ok {
			t.Error("expected basic auth on request")
		}
		if got := r.URL.Query().Get("PageSize"); got != "50" {
			t.Errorf("expected PageSize=50, got %q", got)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"messages":[
			{"sid":"SM1","from":"whatsapp:+31600000001","to":"whatsapp:+14155238886","body":"hi","date_sent":"Fri, 14 Mar 2025 16:32:01 +0000"},
			{"sid":"SM2","from":"whatsapp:+14155238886","to":"whatsapp:+31600000001","body":"bye","date_sent":"Fri, 14 Mar 2025 17:05:44 +0000"},
			{"sid":"SM3","from":"whatsapp:+31699999999","to":"whatsapp:+31688888888","body":"unrelated","date_sent":"Fri, 14 Mar 2025 17:10:00 +0000"}
		]}`))
	}))
	defer server.Close()

	msgs, err := newTestClient(server.URL).FetchRecent(context.Background(), 50)
	if err != nil {
		t.Fatalf("FetchRecent err: %v", err)
	}

	if len(msgs) != 2 {
		t.Fatalf("expected 2 sandbox messages, got %d", len(msgs))
	}
	if msgs[0].Body != "hi" || msgs[1].Body != "bye" {
		t.Fatalf("unexpected bodies: %q, %q", msgs[0].Body, msgs[1].Body)
	}
	if msgs[0].SentAt.IsZero() {
		t.Fatal("expected parsed timestamp on first message")
	}
	if msgs[0].SentAt.Hour() != 16 || msgs[0].SentAt.Minute() != 32 {
		t.Fatalf("unexpected timestamp: %v", msgs[0].SentAt)
	}
}

func TestFetchRecentKeepsMessagesWithUnparseableDate(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"messages":[
			{"sid":"SM1","from":"whatsapp:+14155238886","to":"whatsapp:+31600000001","body":"queued","date_sent":""}
		]}`))
	}))
	defer server.Close()

	msgs, err := newTestClient(server.URL).FetchRecent(context.Background(), 10)
	if err != nil {
		t.Fatalf("FetchRecent err: %v", err)
	}

	if len(msgs) != 1 {
		t.Fatalf("expected 1 message, got %d", len(msgs))
	}
	if !msgs[0].SentAt.IsZero() {
		t.Fatalf("expected zero SentAt, got %v", msgs[0].SentAt)
	}
	if msgs[0].ID == "" {
		t.Fatal("expected message ID to be set")
	}
}

func TestFetchRecentErrorStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"code":20003,"message":"Authenticate"}`))
	}))
	defer server.Close()

	if _, err := newTestClient(server.URL).FetchRecent(context.Background(), 10); err == nil {
		t.Fatal("expected error for 401 response")
	}
}

func TestFetchRecentUnreachable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close()

	if _, err := newTestClient(server.URL).FetchRecent(context.Background(), 10); err == nil {
		t.Fatal("expected error when provider is unreachable")
	}
}
