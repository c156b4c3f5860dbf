// Package seed loads the default catalog used for local runs and demos.
package seed

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/shopspring/decimal"

	"github.com/preston-bernstein/game-store-service/internal/domain/games"
	"github.com/preston-bernstein/game-store-service/internal/domain/genres"
	"github.com/preston-bernstein/game-store-service/internal/logging"
	"github.com/preston-bernstein/game-store-service/internal/store"
	"github.com/preston-bernstein/game-store-service/internal/timeutil"
)

// GameFixture is a seed game that refers to its genre by name.
type GameFixture struct {
	Name        string
	Genre       string
	Price       string
	ReleaseDate string
}

// GenreNames returns the seeded genres in insertion order.
func GenreNames() []string {
	return []string{"Fighting", "Roleplaying", "Sports", "Racing", "Kids and Family", "Shooter"}
}

// Games returns the seeded games in insertion order.
func Games() []GameFixture {
	return []GameFixture{
		{Name: "Street Fighter II", Genre: "Fighting", Price: "19.99", ReleaseDate: "1992-07-15"},
		{Name: "Final Fantasy XIV", Genre: "Roleplaying", Price: "59.99", ReleaseDate: "2010-09-30"},
		{Name: "FIFA 23", Genre: "Sports", Price: "69.99", ReleaseDate: "2022-09-27"},
	}
}

// Apply inserts the fixtures when the catalog has no genres yet. It reports
// whether anything was written.
func Apply(ctx context.Context, catalog store.Catalog, logger *slog.Logger) (bool, error) {
	existing, err := catalog.Begin(ctx).Genres().Query().All(ctx)
	if err != nil {
		return false, fmt.Errorf("check existing genres: %w", err)
	}
	if len(existing) > 0 {
		logging.Debug(logger, "catalog already seeded", logging.FieldCount, len(existing))
		return false, nil
	}

	uow := catalog.Begin(ctx)
	byName := make(map[string]*genres.Genre)
	for _, name := range GenreNames() {
		g := &genres.Genre{Name: name}
		byName[name] = g
		uow.Genres().Add(g)
	}

	fixtures := Games()
	for _, f := range fixtures {
		game, err := f.toGame(byName)
		if err != nil {
			return false, err
		}
		uow.Games().Add(game)
	}
	if err := uow.Save(ctx); err != nil {
		return false, fmt.Errorf("seed catalog: %w", err)
	}

	logging.Info(logger, "catalog seeded",
		logging.FieldResource, "genres", logging.FieldCount, len(byName))
	logging.Info(logger, "catalog seeded",
		logging.FieldResource, "games", logging.FieldCount, len(fixtures))
	return true, nil
}

func (f GameFixture) toGame(byName map[string]*genres.Genre) (*games.Game, error) {
	genre, ok := byName[f.Genre]
	if !ok {
		return nil, fmt.Errorf("seed game %q: unknown genre %q", f.Name, f.Genre)
	}
	price, err := decimal.NewFromString(f.Price)
	if err != nil {
		return nil, fmt.Errorf("seed game %q: %w", f.Name, err)
	}
	released, err := timeutil.ParseDate(f.ReleaseDate)
	if err != nil {
		return nil, fmt.Errorf("seed game %q: %w", f.Name, err)
	}
	return &games.Game{
		Name:        f.Name,
		Genre:       genre,
		Price:       price,
		ReleaseDate: released,
	}, nil
}
