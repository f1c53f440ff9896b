package message

import "time"

// Message is one inbound or outbound WhatsApp message as fetched from the
// provider. It only lives in memory for the duration of a single request.
// A zero SentAt means the provider exposed no parseable timestamp.
type Message struct {
	ID     string    `json:"id"`
	From   string    `json:"from"`
	To     string    `json:"to"`
	Body   string    `json:"body"`
	SentAt time.Time `json:"dateSent"`
}
