package sighting

import "time"

// Stats are the battle figures of a sighting. Any of them may be unknown.
type Stats struct {
	Level    *int `json:"level"`
	Health   *int `json:"health"`
	Strength *int `json:"strength"`
	Defence  *int `json:"defence"`
	Stamina  *int `json:"stamina"`
}

// HasData mirrors the map popup rule: without a non-zero level there is
// nothing to show.
func (s Stats) HasData() bool {
	return s.Level != nil && *s.Level != 0
}

// Sighting is one observed occurrence of a species, joined with the
// species fields the map needs.
type Sighting struct {
	ID           int       `json:"id"`
	PokemonID    int       `json:"pokemon_id"`
	Latitude     float64   `json:"latitude"`
	Longitude    float64   `json:"longitude"`
	AppearAt     time.Time `json:"appear_at"`
	DisappearAt  time.Time `json:"disappear_at"`
	Stats        Stats     `json:"stats"`
	PokemonTitle string    `json:"pokemon_title"`
	PokemonImage *string   `json:"pokemon_image"`
}

// VisibleAt reports whether t falls inside [AppearAt, DisappearAt]. An
// inverted window is never visible.
func (s Sighting) VisibleAt(t time.Time) bool {
	return !t.Before(s.AppearAt) && !t.After(s.DisappearAt)
}

type CreateRequest struct {
	PokemonID   int
	Latitude    float64
	Longitude   float64
	AppearAt    time.Time
	DisappearAt time.Time
	Stats       Stats
}
