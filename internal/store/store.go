// Package store is the persistence context of the catalog: a request-scoped unit
// of work over the games and genres collections, with a memory and a gorm backend.
package store

import (
	"context"
	"errors"

	"github.com/preston-bernstein/game-store-service/internal/domain/games"
	"github.com/preston-bernstein/game-store-service/internal/domain/genres"
)

var (
	// ErrUnboundedDelete is returned when DeleteWhere is called without any filter.
	ErrUnboundedDelete = errors.New("delete requires a filter")
	// ErrConstraint wraps foreign key and uniqueness violations.
	ErrConstraint = errors.New("constraint violation")
)

// Catalog is the process-wide handle on the backing store.
type Catalog interface {
	// Begin opens a unit of work. It must not be shared across requests.
	Begin(ctx context.Context) UnitOfWork
	// Migrate applies pending schema changes.
	Migrate(ctx context.Context) error
	Ping(ctx context.Context) error
	Close() error
}

// UnitOfWork stages changes until Save commits them atomically.
type UnitOfWork interface {
	Games() GameSet
	Genres() GenreSet
	// Save commits staged inserts and replacements. Ids of added entities are
	// populated only after Save succeeds.
	Save(ctx context.Context) error
}

// GameFilter narrows a games query or delete. Zero fields are ignored.
type GameFilter struct {
	ID      int
	GenreID int
}

func (f GameFilter) empty() bool {
	return f.ID == 0 && f.GenreID == 0
}

// GenreFilter narrows a genres query or delete. Name matches case-insensitively.
type GenreFilter struct {
	ID   int
	Name string
}

func (f GenreFilter) empty() bool {
	return f.ID == 0 && f.Name == ""
}

// GameSet is the games collection inside a unit of work.
type GameSet interface {
	// Find returns nil, nil when no game has id.
	Find(ctx context.Context, id int) (*games.Game, error)
	// Add stages an insert. A zero GenreID is taken from game.Genre, which may
	// be a genre added earlier in the same unit of work.
	Add(game *games.Game)
	// Replace overwrites every mutable field of existing with next on Save.
	Replace(existing *games.Game, next games.Game)
	// DeleteWhere runs immediately and reports the number of rows removed.
	DeleteWhere(ctx context.Context, filter GameFilter) (int64, error)
	Query() GameQuery
}

// GameQuery is lazily evaluated; nothing reaches the store before All or Summaries.
type GameQuery interface {
	Where(filter GameFilter) GameQuery
	// WithGenre eager-loads the genre association.
	WithGenre() GameQuery
	All(ctx context.Context) ([]games.Game, error)
	// Summaries projects each row to its list shape inside the store round trip.
	Summaries(ctx context.Context) ([]games.Summary, error)
}

// GenreSet is the genres collection inside a unit of work.
type GenreSet interface {
	Find(ctx context.Context, id int) (*genres.Genre, error)
	Add(genre *genres.Genre)
	Replace(existing *genres.Genre, next genres.Genre)
	// DeleteWhere runs immediately. Games of a removed genre are removed with it.
	DeleteWhere(ctx context.Context, filter GenreFilter) (int64, error)
	Query() GenreQuery
}

// GenreQuery is lazily evaluated; nothing reaches the store before All.
type GenreQuery interface {
	Where(filter GenreFilter) GenreQuery
	All(ctx context.Context) ([]genres.Genre, error)
}

// stagedGenres maps genres added during the current Save to their new ids.
type stagedGenres map[*genres.Genre]int

func (s stagedGenres) genreID(game *games.Game) int {
	if game.GenreID != 0 || game.Genre == nil {
		return game.GenreID
	}
	if id, ok := s[game.Genre]; ok {
		return id
	}
	return game.Genre.ID
}
