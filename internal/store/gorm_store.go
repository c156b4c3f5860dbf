package store

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/preston-bernstein/game-store-service/internal/domain/games"
	"github.com/preston-bernstein/game-store-service/internal/domain/genres"
)

// GormStore persists the catalog through gorm. Postgres and SQLite share it.
type GormStore struct {
	db *gorm.DB
}

type gormOp func(tx *gorm.DB, staged stagedGenres) (func(), error)

var _ Catalog = (*GormStore)(nil)

// NewGormStore wraps an opened gorm handle.
func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

// DB exposes the underlying handle for tests and tooling.
func (s *GormStore) DB() *gorm.DB {
	return s.db
}

func (s *GormStore) Begin(ctx context.Context) UnitOfWork {
	uow := &gormUnitOfWork{db: s.db.WithContext(ctx)}
	uow.games = &gormGameSet{uow: uow}
	uow.genres = &gormGenreSet{uow: uow}
	return uow
}

func (s *GormStore) Migrate(ctx context.Context) error {
	if err := s.db.WithContext(ctx).AutoMigrate(&genres.Genre{}, &games.Game{}); err != nil {
		return fmt.Errorf("migrate catalog schema: %w", err)
	}
	return nil
}

func (s *GormStore) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

func (s *GormStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

type gormUnitOfWork struct {
	db      *gorm.DB
	pending []gormOp
	games   *gormGameSet
	genres  *gormGenreSet
}

func (u *gormUnitOfWork) Games() GameSet   { return u.games }
func (u *gormUnitOfWork) Genres() GenreSet { return u.genres }

func (u *gormUnitOfWork) Save(ctx context.Context) error {
	if len(u.pending) == 0 {
		return ctx.Err()
	}

	afters := make([]func(), 0, len(u.pending))
	staged := make(stagedGenres)
	err := u.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, op := range u.pending {
			after, err := op(tx, staged)
			if err != nil {
				return err
			}
			if after != nil {
				afters = append(afters, after)
			}
		}
		return nil
	})
	if err != nil {
		return translateError(err)
	}

	u.pending = nil
	for _, after := range afters {
		after()
	}
	return nil
}

func (u *gormUnitOfWork) stage(op gormOp) {
	u.pending = append(u.pending, op)
}

type gormGameSet struct {
	uow *gormUnitOfWork
}

func (g *gormGameSet) Find(ctx context.Context, id int) (*games.Game, error) {
	var game games.Game
	res := g.uow.db.WithContext(ctx).Where("id = ?", id).Limit(1).Find(&game)
	if res.Error != nil {
		return nil, translateError(res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, nil
	}
	return &game, nil
}

func (g *gormGameSet) Add(game *games.Game) {
	g.uow.stage(func(tx *gorm.DB, staged stagedGenres) (func(), error) {
		row := *game
		row.ID = 0
		row.GenreID = staged.genreID(game)
		row.Genre = nil
		if err := tx.Omit(clause.Associations).Create(&row).Error; err != nil {
			return nil, err
		}
		return func() { game.ID, game.GenreID = row.ID, row.GenreID }, nil
	})
}

func (g *gormGameSet) Replace(existing *games.Game, next games.Game) {
	g.uow.stage(func(tx *gorm.DB, _ stagedGenres) (func(), error) {
		next.ID = existing.ID
		row := next
		row.Genre = nil
		err := tx.Model(&games.Game{ID: existing.ID}).
			Select("name", "genre_id", "price", "release_date").
			Updates(&row).Error
		if err != nil {
			return nil, err
		}
		return func() { *existing = next }, nil
	})
}

func (g *gormGameSet) DeleteWhere(ctx context.Context, filter GameFilter) (int64, error) {
	if filter.empty() {
		return 0, ErrUnboundedDelete
	}
	res := applyGameFilter(g.uow.db.WithContext(ctx), filter).Delete(&games.Game{})
	if res.Error != nil {
		return 0, translateError(res.Error)
	}
	return res.RowsAffected, nil
}

func (g *gormGameSet) Query() GameQuery {
	return &gormGameQuery{db: g.uow.db}
}

type gormGameQuery struct {
	db        *gorm.DB
	filters   []GameFilter
	withGenre bool
}

func (q *gormGameQuery) Where(filter GameFilter) GameQuery {
	next := *q
	next.filters = append(append([]GameFilter(nil), q.filters...), filter)
	return &next
}

func (q *gormGameQuery) WithGenre() GameQuery {
	next := *q
	next.withGenre = true
	return &next
}

func (q *gormGameQuery) build(ctx context.Context) *gorm.DB {
	db := q.db.WithContext(ctx).Model(&games.Game{})
	for _, f := range q.filters {
		db = applyGameFilter(db, f)
	}
	return db
}

func (q *gormGameQuery) All(ctx context.Context) ([]games.Game, error) {
	db := q.build(ctx)
	if q.withGenre {
		db = db.Preload("Genre")
	}
	var out []games.Game
	if err := db.Order("games.id").Find(&out).Error; err != nil {
		return nil, translateError(err)
	}
	return out, nil
}

func (q *gormGameQuery) Summaries(ctx context.Context) ([]games.Summary, error) {
	var out []games.Summary
	err := q.build(ctx).
		Select("games.id, games.name, COALESCE(genres.name, '') AS genre, games.price, games.release_date").
		Joins("LEFT JOIN genres ON genres.id = games.genre_id").
		Order("games.id").
		Scan(&out).Error
	if err != nil {
		return nil, translateError(err)
	}
	return out, nil
}

func applyGameFilter(db *gorm.DB, f GameFilter) *gorm.DB {
	if f.ID != 0 {
		db = db.Where("games.id = ?", f.ID)
	}
	if f.GenreID != 0 {
		db = db.Where("games.genre_id = ?", f.GenreID)
	}
	return db
}

type gormGenreSet struct {
	uow *gormUnitOfWork
}

func (g *gormGenreSet) Find(ctx context.Context, id int) (*genres.Genre, error) {
	var genre genres.Genre
	res := g.uow.db.WithContext(ctx).Where("id = ?", id).Limit(1).Find(&genre)
	if res.Error != nil {
		return nil, translateError(res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, nil
	}
	return &genre, nil
}

func (g *gormGenreSet) Add(genre *genres.Genre) {
	g.uow.stage(func(tx *gorm.DB, staged stagedGenres) (func(), error) {
		row := *genre
		row.ID = 0
		if err := tx.Create(&row).Error; err != nil {
			return nil, err
		}
		staged[genre] = row.ID
		return func() { genre.ID = row.ID }, nil
	})
}

func (g *gormGenreSet) Replace(existing *genres.Genre, next genres.Genre) {
	g.uow.stage(func(tx *gorm.DB, _ stagedGenres) (func(), error) {
		next.ID = existing.ID
		row := next
		err := tx.Model(&genres.Genre{ID: existing.ID}).Select("name").Updates(&row).Error
		if err != nil {
			return nil, err
		}
		return func() { *existing = next }, nil
	})
}

func (g *gormGenreSet) DeleteWhere(ctx context.Context, filter GenreFilter) (int64, error) {
	if filter.empty() {
		return 0, ErrUnboundedDelete
	}
	res := applyGenreFilter(g.uow.db.WithContext(ctx), filter).Delete(&genres.Genre{})
	if res.Error != nil {
		return 0, translateError(res.Error)
	}
	return res.RowsAffected, nil
}

func (g *gormGenreSet) Query() GenreQuery {
	return &gormGenreQuery{db: g.uow.db}
}

type gormGenreQuery struct {
	db      *gorm.DB
	filters []GenreFilter
}

func (q *gormGenreQuery) Where(filter GenreFilter) GenreQuery {
	next := *q
	next.filters = append(append([]GenreFilter(nil), q.filters...), filter)
	return &next
}

func (q *gormGenreQuery) All(ctx context.Context) ([]genres.Genre, error) {
	db := q.db.WithContext(ctx).Model(&genres.Genre{})
	for _, f := range q.filters {
		db = applyGenreFilter(db, f)
	}
	var out []genres.Genre
	if err := db.Order("genres.id").Find(&out).Error; err != nil {
		return nil, translateError(err)
	}
	return out, nil
}

func applyGenreFilter(db *gorm.DB, f GenreFilter) *gorm.DB {
	if f.ID != 0 {
		db = db.Where("genres.id = ?", f.ID)
	}
	if f.Name != "" {
		db = db.Where("LOWER(genres.name) = LOWER(?)", f.Name)
	}
	return db
}

// translateError folds driver constraint failures into ErrConstraint.
func translateError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrForeignKeyViolated) || errors.Is(err, gorm.ErrDuplicatedKey) {
		return fmt.Errorf("%w: %v", ErrConstraint, err)
	}
	// Not every sqlite build maps constraint codes for TranslateError.
	if strings.Contains(strings.ToLower(err.Error()), "constraint failed") {
		return fmt.Errorf("%w: %v", ErrConstraint, err)
	}
	return err
}
