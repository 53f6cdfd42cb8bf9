package pokemon

import (
	"time"

	"pokemon-map/internal/element"
)

// Pokemon is a species record.
type Pokemon struct {
	ID                  int       `json:"id"`
	Title               string    `json:"title"`
	TitleEn             *string   `json:"title_en"`
	TitleJp             *string   `json:"title_jp"`
	Description         *string   `json:"description"`
	Image               *string   `json:"image"`
	PreviousEvolutionID *int      `json:"previous_evolution_id"`
	CreatedAt           time.Time `json:"created_at"`
	UpdatedAt           time.Time `json:"updated_at"`
}

// Summary is the sidebar and evolution-link view of a species.
type Summary struct {
	PokemonID int    `json:"pokemon_id"`
	ImgURL    string `json:"img_url"`
	TitleRu   string `json:"title_ru"`
}

type ElementTypeView struct {
	Title         string   `json:"title"`
	Img           string   `json:"img"`
	StrongAgainst []string `json:"strong_against"`
}

// Detail is the shaped species page payload.
type Detail struct {
	PokemonID         int               `json:"pokemon_id"`
	TitleRu           string            `json:"title_ru"`
	TitleEn           string            `json:"title_en"`
	TitleJp           string            `json:"title_jp"`
	Description       string            `json:"description"`
	ImgURL            string            `json:"img_url"`
	Image             string            `json:"-"`
	PreviousEvolution *Summary          `json:"previous_evolution"`
	NextEvolution     *Summary          `json:"next_evolution"`
	ElementTypes      []ElementTypeView `json:"element_type"`
}

// CreateRequest describes a species to insert or update by title.
type CreateRequest struct {
	Title       string
	TitleEn     *string
	TitleJp     *string
	Description *string
	Image       *string
}

func viewOfElementType(et element.ElementType, imageURL func(string) string) ElementTypeView {
	view := ElementTypeView{
		Title:         et.Title,
		StrongAgainst: et.StrongAgainst,
	}
	if et.Image != nil {
		view.Img = imageURL(*et.Image)
	}
	if view.StrongAgainst == nil {
		view.StrongAgainst = []string{}
	}
	return view
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
