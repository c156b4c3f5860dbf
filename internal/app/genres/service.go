package genres

import (
	"context"
	"errors"
	"fmt"

	"github.com/preston-bernstein/game-store-service/internal/dtos"
	"github.com/preston-bernstein/game-store-service/internal/mapping"
	"github.com/preston-bernstein/game-store-service/internal/store"
)

// ErrNotFound is returned when no genre has the requested id.
var ErrNotFound = errors.New("genre not found")

// Service coordinates genre operations over a store.Catalog.
type Service struct {
	catalog store.Catalog
}

func NewService(catalog store.Catalog) *Service {
	return &Service{catalog: catalog}
}

func (s *Service) List(ctx context.Context) ([]dtos.Genre, error) {
	found, err := s.catalog.Begin(ctx).Genres().Query().All(ctx)
	if err != nil {
		return nil, fmt.Errorf("list genres: %w", err)
	}
	return mapping.GenresFromEntities(found), nil
}

func (s *Service) Get(ctx context.Context, id int) (dtos.Genre, error) {
	genre, err := s.catalog.Begin(ctx).Genres().Find(ctx, id)
	if err != nil {
		return dtos.Genre{}, fmt.Errorf("get genre %d: %w", id, err)
	}
	if genre == nil {
		return dtos.Genre{}, ErrNotFound
	}
	return mapping.GenreFromEntity(*genre), nil
}

func (s *Service) Create(ctx context.Context, in dtos.CreateGenre) (dtos.Genre, error) {
	uow := s.catalog.Begin(ctx)
	genre := mapping.GenreFromCreate(in)
	uow.Genres().Add(&genre)
	if err := uow.Save(ctx); err != nil {
		return dtos.Genre{}, fmt.Errorf("create genre: %w", err)
	}
	return mapping.GenreFromEntity(genre), nil
}

// Update renames the genre with id.
func (s *Service) Update(ctx context.Context, id int, in dtos.UpdateGenre) error {
	uow := s.catalog.Begin(ctx)
	existing, err := uow.Genres().Find(ctx, id)
	if err != nil {
		return fmt.Errorf("find genre %d: %w", id, err)
	}
	if existing == nil {
		return ErrNotFound
	}

	uow.Genres().Replace(existing, mapping.GenreFromUpdate(id, in))
	if err := uow.Save(ctx); err != nil {
		return fmt.Errorf("update genre %d: %w", id, err)
	}
	return nil
}

// Delete removes the genre with id together with its games. A missing genre
// is not an error.
func (s *Service) Delete(ctx context.Context, id int) error {
	if _, err := s.catalog.Begin(ctx).Genres().DeleteWhere(ctx, store.GenreFilter{ID: id}); err != nil {
		return fmt.Errorf("delete genre %d: %w", id, err)
	}
	return nil
}
