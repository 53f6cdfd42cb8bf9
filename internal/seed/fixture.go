// Package seed loads species, element types and sightings from a YAML
// fixture file into the database.
package seed

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"pokemon-map/internal/shared/errors"

	"gopkg.in/yaml.v3"
)

type Fixture struct {
	ElementTypes []ElementTypeFixture `yaml:"element_types"`
	Pokemons     []PokemonFixture     `yaml:"pokemons"`
}

type ElementTypeFixture struct {
	Title         string   `yaml:"title"`
	Image         *string  `yaml:"image"`
	StrongAgainst []string `yaml:"strong_against"`
}

type PokemonFixture struct {
	Title             string            `yaml:"title"`
	TitleEn           *string           `yaml:"title_en"`
	TitleJp           *string           `yaml:"title_jp"`
	Description       *string           `yaml:"description"`
	Image             *string           `yaml:"image"`
	PreviousEvolution string            `yaml:"previous_evolution"`
	ElementTypes      []string          `yaml:"element_types"`
	Sightings         []SightingFixture `yaml:"sightings"`
}

type SightingFixture struct {
	Lat         float64   `yaml:"lat"`
	Lon         float64   `yaml:"lon"`
	AppearAt    time.Time `yaml:"appear_at"`
	DisappearAt time.Time `yaml:"disappear_at"`
	Level       *int      `yaml:"level"`
	Health      *int      `yaml:"health"`
	Strength    *int      `yaml:"strength"`
	Defence     *int      `yaml:"defence"`
	Stamina     *int      `yaml:"stamina"`
}

// ReadFile parses and validates the fixture at path.
func ReadFile(path string) (*Fixture, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open fixture %s: %w", path, err)
	}
	defer f.Close()

	return Parse(f)
}

// Parse decodes a fixture, rejecting unknown keys, and validates it.
func Parse(r io.Reader) (*Fixture, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var fixture Fixture
	if err := dec.Decode(&fixture); err != nil {
		if err == io.EOF {
			return &fixture, nil
		}
		return nil, errors.Validationf("failed to decode fixture: %v", err)
	}

	if err := fixture.Validate(); err != nil {
		return nil, err
	}
	return &fixture, nil
}

// Validate trims every title and title reference in place, then checks
// that titles are unique and every reference resolves inside the fixture.
func (f *Fixture) Validate() error {
	f.normalize()

	elementTitles := make(map[string]bool, len(f.ElementTypes))
	for i, et := range f.ElementTypes {
		if et.Title == "" {
			return errors.Validationf("element type #%d has no title", i+1)
		}
		if len(et.Title) > 200 {
			return errors.Validationf("element type %q: title is longer than 200 characters", et.Title)
		}
		if elementTitles[et.Title] {
			return errors.Validationf("element type %q is defined twice", et.Title)
		}
		elementTitles[et.Title] = true
	}

	for _, et := range f.ElementTypes {
		for _, target := range et.StrongAgainst {
			if !elementTitles[target] {
				return errors.Validationf("element type %q is strong against unknown type %q", et.Title, target)
			}
		}
	}

	species := make(map[string]bool, len(f.Pokemons))
	for i, p := range f.Pokemons {
		if p.Title == "" {
			return errors.Validationf("pokemon #%d has no title", i+1)
		}
		if len(p.Title) > 200 {
			return errors.Validationf("pokemon %q: title is longer than 200 characters", p.Title)
		}
		if species[p.Title] {
			return errors.Validationf("pokemon %q is defined twice", p.Title)
		}
		species[p.Title] = true
	}

	for _, p := range f.Pokemons {
		if p.PreviousEvolution != "" {
			if p.PreviousEvolution == p.Title {
				return errors.Validationf("pokemon %q cannot evolve from itself", p.Title)
			}
			if !species[p.PreviousEvolution] {
				return errors.Validationf("pokemon %q evolves from unknown pokemon %q", p.Title, p.PreviousEvolution)
			}
		}

		for _, et := range p.ElementTypes {
			if !elementTitles[et] {
				return errors.Validationf("pokemon %q has unknown element type %q", p.Title, et)
			}
		}

		for j, s := range p.Sightings {
			if s.Lat < -90 || s.Lat > 90 || s.Lon < -180 || s.Lon > 180 {
				return errors.Validationf("pokemon %q sighting #%d: coordinates (%v, %v) out of range", p.Title, j+1, s.Lat, s.Lon)
			}
			if s.AppearAt.IsZero() || s.DisappearAt.IsZero() {
				return errors.Validationf("pokemon %q sighting #%d: appear_at and disappear_at are required", p.Title, j+1)
			}
		}
	}

	return nil
}

// normalize makes titles and the references to them compare equal to what
// gets stored, so " Weedle" and "Weedle" name the same species.
func (f *Fixture) normalize() {
	for i := range f.ElementTypes {
		et := &f.ElementTypes[i]
		et.Title = strings.TrimSpace(et.Title)
		trimAll(et.StrongAgainst)
	}

	for i := range f.Pokemons {
		p := &f.Pokemons[i]
		p.Title = strings.TrimSpace(p.Title)
		p.PreviousEvolution = strings.TrimSpace(p.PreviousEvolution)
		trimAll(p.ElementTypes)
	}
}

func trimAll(titles []string) {
	for i := range titles {
		titles[i] = strings.TrimSpace(titles[i])
	}
}

func (f *Fixture) sightingCount() int {
	n := 0
	for _, p := range f.Pokemons {
		n += len(p.Sightings)
	}
	return n
}
