package mapping

import (
	"github.com/preston-bernstein/game-store-service/internal/domain/genres"
	"github.com/preston-bernstein/game-store-service/internal/dtos"
)

func GenreFromCreate(in dtos.CreateGenre) genres.Genre {
	return genres.Genre{Name: in.Name}
}

func GenreFromUpdate(id int, in dtos.UpdateGenre) genres.Genre {
	return genres.Genre{ID: id, Name: in.Name}
}

func GenreFromEntity(g genres.Genre) dtos.Genre {
	return dtos.Genre{ID: g.ID, Name: g.Name}
}

func GenresFromEntities(in []genres.Genre) []dtos.Genre {
	out := make([]dtos.Genre, 0, len(in))
	for _, g := range in {
		out = append(out, GenreFromEntity(g))
	}
	return out
}
