package message

import "time"

// Within returns the messages sent strictly after ref-window, preserving
// their original relative order. Messages without a timestamp cannot be
// aged and are never selected.
func Within(msgs []Message, ref time.Time, window time.Duration) []Message {
	cutoff := ref.Add(-window)

	selected := make([]Message, 0, len(msgs))
	for _, msg := range msgs {
		if msg.SentAt.IsZero() {
			continue
		}
		if msg.SentAt.After(cutoff) {
			selected = append(selected, msg)
		}
	}
	return selected
}
