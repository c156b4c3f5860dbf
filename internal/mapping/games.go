package mapping

import (
	"github.com/preston-bernstein/game-store-service/internal/domain/games"
	"github.com/preston-bernstein/game-store-service/internal/dtos"
)

// GameFromCreate builds a new entity. The id is left for the store to assign and
// GenreID is only set when the payload referenced the genre by id.
func GameFromCreate(in dtos.CreateGame) games.Game {
	return games.Game{
		Name:        in.Name,
		GenreID:     derefID(in.GenreID),
		Price:       in.Price,
		ReleaseDate: parseDate(in.ReleaseDate),
	}
}

// GameFromUpdate builds the full replacement entity for id.
func GameFromUpdate(id int, in dtos.UpdateGame) games.Game {
	return games.Game{
		ID:          id,
		Name:        in.Name,
		GenreID:     derefID(in.GenreID),
		Price:       in.Price,
		ReleaseDate: parseDate(in.ReleaseDate),
	}
}

func GameSummaryFromEntity(g games.Game) dtos.GameSummary {
	return dtos.GameSummary{
		ID:          g.ID,
		Name:        g.Name,
		Genre:       g.GenreName(),
		Price:       g.Price,
		ReleaseDate: formatDate(g.ReleaseDate),
	}
}

func GameSummaryFromRow(s games.Summary) dtos.GameSummary {
	return dtos.GameSummary{
		ID:          s.ID,
		Name:        s.Name,
		Genre:       s.Genre,
		Price:       s.Price,
		ReleaseDate: formatDate(s.ReleaseDate),
	}
}

func GameSummariesFromRows(rows []games.Summary) []dtos.GameSummary {
	out := make([]dtos.GameSummary, 0, len(rows))
	for _, row := range rows {
		out = append(out, GameSummaryFromRow(row))
	}
	return out
}

// GameDetailFromEntity includes the genre id even when the association was not loaded.
func GameDetailFromEntity(g games.Game) dtos.GameDetail {
	return dtos.GameDetail{
		ID:          g.ID,
		Name:        g.Name,
		Genre:       dtos.Genre{ID: g.GenreID, Name: g.GenreName()},
		Price:       g.Price,
		ReleaseDate: formatDate(g.ReleaseDate),
	}
}

func derefID(id *int) int {
	if id == nil {
		return 0
	}
	return *id
}
