package element

// ElementType is a categorical tag on a species. StrongAgainst is one-way:
// fire being strong against grass says nothing about grass.
type ElementType struct {
	ID            int      `json:"id"`
	Title         string   `json:"title"`
	Image         *string  `json:"image"`
	StrongAgainst []string `json:"strong_against"`
}
