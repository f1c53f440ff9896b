// Package twilio fetches recent WhatsApp sandbox messages over the Twilio
// Messages REST API. The client is read-only and never retries; a failed
// fetch is surfaced to the caller as-is.
package twilio

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/martijnpeper/dagboek-bot/backend/internal/config"
	"github.com/martijnpeper/dagboek-bot/backend/internal/model/message"
)

const defaultTimeout = 15 * time.Second

// Twilio reports DateSent in RFC 2822 format, e.g.
// "Fri, 14 Mar 2025 16:32:01 +0000".
const dateSentLayout = time.RFC1123Z

// Client talks to the Twilio Messages API for a single account.
type Client struct {
	baseURL       string
	accountSID    string
	authToken     string
	sandboxNumber string
	httpClient    *http.Client
}

// NewClient builds a Client from the Twilio configuration.
func NewClient(cfg config.TwilioConfig) *Client {
	return &Client{
		baseURL:       cfg.BaseURL,
		accountSID:    cfg.AccountSID,
		authToken:     cfg.AuthToken,
		sandboxNumber: cfg.SandboxNumber,
		httpClient: &http.Client{
			Timeout: defaultTimeout,
		},
	}
}

// messagePayload mirrors one element of the Twilio message list response.
type messagePayload struct {
	SID      string `json:"sid"`
	From     string `json:"from"`
	To       string `json:"to"`
	Body     string `json:"body"`
	DateSent string `json:"date_sent"`
}

type listResponse struct {
	Messages []messagePayload `json:"messages"`
}

// errorResponse is Twilio's error envelope for non-2xx responses.
type errorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// FetchRecent lists at most limit recent account messages and keeps only
// those sent from or to the sandbox number. Messages whose timestamp cannot
// be parsed are kept with a zero SentAt so downstream selection can skip
// them without losing the listing.
func (c *Client) FetchRecent(ctx context.Context, limit int) ([]message.Message, error) {
	endpoint := fmt.Sprintf("%s/2010-04-01/Accounts/%s/Messages.json", c.baseURL, url.PathEscape(c.accountSID))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("build message list request: %w", err)
	}
	req.SetBasicAuth(c.accountSID, c.authToken)

	q := req.URL.Query()
	q.Set("PageSize", strconv.Itoa(limit))
	req.URL.RawQuery = q.Encode()

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("list messages: %w", err)
	}
	defer resp.Body.Close()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read message list response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var errResp errorResponse
		if jsonErr := json.Unmarshal(bodyBytes, &errResp); jsonErr == nil && errResp.Message != "" {
			return nil, fmt.Errorf("twilio %d: %s", resp.StatusCode, errResp.Message)
		}
		return nil, fmt.Errorf("twilio returned status %d", resp.StatusCode)
	}

	var payload listResponse
	if err := json.Unmarshal(bodyBytes, &payload); err != nil {
		return nil, fmt.Errorf("decode message list: %w", err)
	}

	msgs := make([]message.Message, 0, len(payload.Messages))
	for _, item := range payload.Messages {
		if item.From != c.sandboxNumber && item.To != c.sandboxNumber {
			continue
		}
		msgs = append(msgs, normalize(item))
	}
	return msgs, nil
}

func normalize(item messagePayload) message.Message {
	msg := message.Message{
		ID:   item.SID,
		From: item.From,
		To:   item.To,
		Body: item.Body,
	}
	if msg.ID == "" {
		msg.ID = uuid.NewString()
	}
	if sentAt, err := time.Parse(dateSentLayout, item.DateSent); err == nil {
		msg.SentAt = sentAt
	}
	return msg
}
