// Package responder holds the canned-reply logic for inbound webhook
// messages.
package responder

import "strings"

const (
	greetingReply = "Hey! Hoe gaat het vandaag?"
	fallbackReply = "Sorry, ik begrijp dat niet."
)

// Reply picks the canned response for one incoming message. The match is a
// case-insensitive substring check; no state is kept between calls.
func Reply(incoming string) string {
	if strings.Contains(strings.ToLower(incoming), "hallo") {
		return greetingReply
	}
	return fallbackReply
}
