package diary

// Entry is one persisted diary record for a given date and author. Entries
// are written once by the generation pipeline and never mutated.
type Entry struct {
	ID     int64  `json:"id"`
	Date   string `json:"date"`
	Author string `json:"author"`
	Body   string `json:"entry"`
}
