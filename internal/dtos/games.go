package dtos

import "github.com/shopspring/decimal"

// GameSummary is the list view of a game; the genre is flattened to its name.
type GameSummary struct {
	ID          int             `json:"id"`
	Name        string          `json:"name"`
	Genre       string          `json:"genre"`
	Price       decimal.Decimal `json:"price"`
	ReleaseDate string          `json:"releaseDate"`
}

// GameDetail is the single-game view.
type GameDetail struct {
	ID          int             `json:"id"`
	Name        string          `json:"name"`
	Genre       Genre           `json:"genre"`
	Price       decimal.Decimal `json:"price"`
	ReleaseDate string          `json:"releaseDate"`
}

// CreateGame is the POST /games payload. The genre is referenced either by
// id or by name; at least one must be present.
type CreateGame struct {
	Name        string          `json:"name"              validate:"required,max=50"`
	GenreID     *int            `json:"genreId,omitempty" validate:"required_without=Genre,omitempty,gt=0"`
	Genre       string          `json:"genre,omitempty"   validate:"required_without=GenreID,omitempty,max=30"`
	Price       decimal.Decimal `json:"price"             validate:"gte=1,lte=100,maxplaces=2"`
	ReleaseDate string          `json:"releaseDate"       validate:"required,datetime=2006-01-02"`
}

// UpdateGame is the PUT /games/{id} payload. It replaces every mutable field.
type UpdateGame struct {
	Name        string          `json:"name"              validate:"required,max=50"`
	GenreID     *int            `json:"genreId,omitempty" validate:"required_without=Genre,omitempty,gt=0"`
	Genre       string          `json:"genre,omitempty"   validate:"required_without=GenreID,omitempty,max=30"`
	Price       decimal.Decimal `json:"price"             validate:"gte=1,lte=100,maxplaces=2"`
	ReleaseDate string          `json:"releaseDate"       validate:"required,datetime=2006-01-02"`
}
