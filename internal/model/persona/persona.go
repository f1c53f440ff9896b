package persona

// Persona is one participant of the monitored conversation for whom a
// separate diary entry is generated.
type Persona struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Partner string `json:"partner"`
}

// Seed provides the default persona pair sharing the sandbox conversation.
func Seed() []Persona {
	return []Persona{
		{
			ID:      "martijn",
			Name:    "Martijn",
			Partner: "Lisa",
		},
		{
			ID:      "lisa",
			Name:    "Lisa",
			Partner: "Martijn",
		},
	}
}
