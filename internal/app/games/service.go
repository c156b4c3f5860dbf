package games

import (
	"context"
	"errors"
	"fmt"

	"github.com/preston-bernstein/game-store-service/internal/domain/genres"
	"github.com/preston-bernstein/game-store-service/internal/dtos"
	"github.com/preston-bernstein/game-store-service/internal/mapping"
	"github.com/preston-bernstein/game-store-service/internal/store"
	"github.com/preston-bernstein/game-store-service/internal/validation"
)

var (
	// ErrNotFound is returned when no game has the requested id.
	ErrNotFound = errors.New("game not found")
	// ErrGenreNotFound matches payloads whose genre reference does not resolve.
	// The error also unwraps to validation.FieldErrors naming the offending field.
	ErrGenreNotFound = errors.New("genre not found")
)

// Service coordinates game operations over a store.Catalog.
type Service struct {
	catalog store.Catalog
}

// NewService constructs a Service with the provided Catalog.
func NewService(catalog store.Catalog) *Service {
	return &Service{catalog: catalog}
}

// List returns every game, projected to its summary inside the store query.
func (s *Service) List(ctx context.Context) ([]dtos.GameSummary, error) {
	rows, err := s.catalog.Begin(ctx).Games().Query().Summaries(ctx)
	if err != nil {
		return nil, fmt.Errorf("list games: %w", err)
	}
	return mapping.GameSummariesFromRows(rows), nil
}

// Get returns a single game with its genre.
func (s *Service) Get(ctx context.Context, id int) (dtos.GameDetail, error) {
	found, err := s.catalog.Begin(ctx).Games().Query().
		Where(store.GameFilter{ID: id}).
		WithGenre().
		All(ctx)
	if err != nil {
		return dtos.GameDetail{}, fmt.Errorf("get game %d: %w", id, err)
	}
	if len(found) == 0 {
		return dtos.GameDetail{}, ErrNotFound
	}
	return mapping.GameDetailFromEntity(found[0]), nil
}

// Create inserts a game and returns it with its assigned id. An unresolvable
// genre reference is reported as validation.FieldErrors.
func (s *Service) Create(ctx context.Context, in dtos.CreateGame) (dtos.GameDetail, error) {
	uow := s.catalog.Begin(ctx)
	genre, err := resolveGenre(ctx, uow, in.GenreID, in.Genre)
	if err != nil {
		return dtos.GameDetail{}, err
	}

	game := mapping.GameFromCreate(in)
	game.GenreID = genre.ID
	uow.Games().Add(&game)
	if err := uow.Save(ctx); err != nil {
		return dtos.GameDetail{}, fmt.Errorf("create game: %w", err)
	}

	game.Genre = genre
	return mapping.GameDetailFromEntity(game), nil
}

// Update replaces every mutable field of the game with id.
func (s *Service) Update(ctx context.Context, id int, in dtos.UpdateGame) error {
	uow := s.catalog.Begin(ctx)
	existing, err := uow.Games().Find(ctx, id)
	if err != nil {
		return fmt.Errorf("find game %d: %w", id, err)
	}
	if existing == nil {
		return ErrNotFound
	}

	genre, err := resolveGenre(ctx, uow, in.GenreID, in.Genre)
	if err != nil {
		return err
	}

	next := mapping.GameFromUpdate(id, in)
	next.GenreID = genre.ID
	uow.Games().Replace(existing, next)
	if err := uow.Save(ctx); err != nil {
		return fmt.Errorf("update game %d: %w", id, err)
	}
	return nil
}

// Delete removes the game with id. Missing ids are not an error.
func (s *Service) Delete(ctx context.Context, id int) error {
	if _, err := s.catalog.Begin(ctx).Games().DeleteWhere(ctx, store.GameFilter{ID: id}); err != nil {
		return fmt.Errorf("delete game %d: %w", id, err)
	}
	return nil
}

// resolveGenre looks the genre up by id when one was sent, by name otherwise.
func resolveGenre(ctx context.Context, uow store.UnitOfWork, id *int, name string) (*genres.Genre, error) {
	if id != nil {
		genre, err := uow.Genres().Find(ctx, *id)
		if err != nil {
			return nil, fmt.Errorf("find genre %d: %w", *id, err)
		}
		if genre == nil {
			return nil, unknownGenre("GenreID", fmt.Sprintf("The genre with id %d does not exist.", *id))
		}
		return genre, nil
	}
	if name == "" {
		return nil, unknownGenre("Genre", "The Genre field is required when GenreID is not present.")
	}

	found, err := uow.Genres().Query().Where(store.GenreFilter{Name: name}).All(ctx)
	if err != nil {
		return nil, fmt.Errorf("find genre %q: %w", name, err)
	}
	if len(found) == 0 {
		return nil, unknownGenre("Genre", fmt.Sprintf("The genre %q does not exist.", name))
	}
	return &found[0], nil
}

type genreNotFoundError struct {
	fields validation.FieldErrors
}

func unknownGenre(field, message string) error {
	fe := validation.FieldErrors{}
	fe.Add(field, message)
	return genreNotFoundError{fields: fe}
}

func (e genreNotFoundError) Error() string        { return ErrGenreNotFound.Error() + ": " + e.fields.Error() }
func (e genreNotFoundError) Is(target error) bool { return target == ErrGenreNotFound }
func (e genreNotFoundError) Unwrap() error        { return e.fields }
