package store

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/preston-bernstein/game-store-service/internal/domain/games"
	"github.com/preston-bernstein/game-store-service/internal/domain/genres"
)

// MemoryStore keeps the catalog in process memory. Ids come from monotonic
// counters and are never reused after a delete.
type MemoryStore struct {
	mu    sync.RWMutex
	state memoryState
}

type memoryState struct {
	games       map[int]games.Game
	genres      map[int]genres.Genre
	nextGameID  int
	nextGenreID int
	staged      stagedGenres
}

// memoryOp mutates a working copy of the state. The returned func runs only
// after the whole batch committed.
type memoryOp func(st *memoryState) (func(), error)

var _ Catalog = (*MemoryStore)(nil)

// NewMemoryStore constructs an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		state: memoryState{
			games:  make(map[int]games.Game),
			genres: make(map[int]genres.Genre),
		},
	}
}

func (s *MemoryStore) Begin(ctx context.Context) UnitOfWork {
	_ = ctx
	uow := &memoryUnitOfWork{store: s}
	uow.games = &memoryGameSet{uow: uow}
	uow.genres = &memoryGenreSet{uow: uow}
	return uow
}

// Migrate is a no-op; the memory layout is always current.
func (s *MemoryStore) Migrate(ctx context.Context) error {
	return ctx.Err()
}

func (s *MemoryStore) Ping(ctx context.Context) error {
	return ctx.Err()
}

func (s *MemoryStore) Close() error {
	return nil
}

func (st memoryState) clone() memoryState {
	out := memoryState{
		games:       make(map[int]games.Game, len(st.games)),
		genres:      make(map[int]genres.Genre, len(st.genres)),
		nextGameID:  st.nextGameID,
		nextGenreID: st.nextGenreID,
	}
	for id, g := range st.games {
		out.games[id] = g
	}
	for id, g := range st.genres {
		out.genres[id] = g
	}
	return out
}

func (s *MemoryStore) commit(ctx context.Context, ops []memoryOp) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	working := s.state.clone()
	working.staged = make(stagedGenres)
	afters := make([]func(), 0, len(ops))
	for _, op := range ops {
		after, err := op(&working)
		if err != nil {
			return err
		}
		if after != nil {
			afters = append(afters, after)
		}
	}

	working.staged = nil
	s.state = working
	for _, after := range afters {
		after()
	}
	return nil
}

type memoryUnitOfWork struct {
	store   *MemoryStore
	pending []memoryOp
	games   *memoryGameSet
	genres  *memoryGenreSet
}

func (u *memoryUnitOfWork) Games() GameSet   { return u.games }
func (u *memoryUnitOfWork) Genres() GenreSet { return u.genres }

func (u *memoryUnitOfWork) Save(ctx context.Context) error {
	if len(u.pending) == 0 {
		return ctx.Err()
	}
	if err := u.store.commit(ctx, u.pending); err != nil {
		return err
	}
	u.pending = nil
	return nil
}

func (u *memoryUnitOfWork) stage(op memoryOp) {
	u.pending = append(u.pending, op)
}

type memoryGameSet struct {
	uow *memoryUnitOfWork
}

func (m *memoryGameSet) Find(ctx context.Context, id int) (*games.Game, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s := m.uow.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	g, ok := s.state.games[id]
	if !ok {
		return nil, nil
	}
	return &g, nil
}

func (m *memoryGameSet) Add(game *games.Game) {
	m.uow.stage(func(st *memoryState) (func(), error) {
		genreID := st.staged.genreID(game)
		if _, ok := st.genres[genreID]; !ok {
			return nil, fmt.Errorf("%w: game references missing genre %d", ErrConstraint, genreID)
		}
		st.nextGameID++
		id := st.nextGameID
		stored := *game
		stored.ID = id
		stored.GenreID = genreID
		stored.Genre = nil
		st.games[id] = stored
		return func() { game.ID, game.GenreID = id, genreID }, nil
	})
}

func (m *memoryGameSet) Replace(existing *games.Game, next games.Game) {
	m.uow.stage(func(st *memoryState) (func(), error) {
		if _, ok := st.genres[next.GenreID]; !ok {
			return nil, fmt.Errorf("%w: game references missing genre %d", ErrConstraint, next.GenreID)
		}
		next.ID = existing.ID
		if _, ok := st.games[next.ID]; !ok {
			// Deleted by a concurrent request; nothing left to overwrite.
			return func() { *existing = next }, nil
		}
		stored := next
		stored.Genre = nil
		st.games[next.ID] = stored
		return func() { *existing = next }, nil
	})
}

func (m *memoryGameSet) DeleteWhere(ctx context.Context, filter GameFilter) (int64, error) {
	if filter.empty() {
		return 0, ErrUnboundedDelete
	}
	var removed int64
	err := m.uow.store.commit(ctx, []memoryOp{func(st *memoryState) (func(), error) {
		for id, g := range st.games {
			if matchGame(g, filter) {
				delete(st.games, id)
				removed++
			}
		}
		return nil, nil
	}})
	return removed, err
}

func (m *memoryGameSet) Query() GameQuery {
	return &memoryGameQuery{store: m.uow.store}
}

type memoryGameQuery struct {
	store     *MemoryStore
	filters   []GameFilter
	withGenre bool
}

func (q *memoryGameQuery) Where(filter GameFilter) GameQuery {
	next := *q
	next.filters = append(append([]GameFilter(nil), q.filters...), filter)
	return &next
}

func (q *memoryGameQuery) WithGenre() GameQuery {
	next := *q
	next.withGenre = true
	return &next
}

func (q *memoryGameQuery) All(ctx context.Context) ([]games.Game, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	q.store.mu.RLock()
	defer q.store.mu.RUnlock()

	out := make([]games.Game, 0, len(q.store.state.games))
	for _, id := range sortedKeys(q.store.state.games) {
		g := q.store.state.games[id]
		if !q.matches(g) {
			continue
		}
		if q.withGenre {
			if genre, ok := q.store.state.genres[g.GenreID]; ok {
				g.Genre = &genre
			}
		}
		out = append(out, g)
	}
	return out, nil
}

func (q *memoryGameQuery) Summaries(ctx context.Context) ([]games.Summary, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	q.store.mu.RLock()
	defer q.store.mu.RUnlock()

	out := make([]games.Summary, 0, len(q.store.state.games))
	for _, id := range sortedKeys(q.store.state.games) {
		g := q.store.state.games[id]
		if !q.matches(g) {
			continue
		}
		out = append(out, games.Summary{
			ID:          g.ID,
			Name:        g.Name,
			Genre:       q.store.state.genres[g.GenreID].Name,
			Price:       g.Price,
			ReleaseDate: g.ReleaseDate,
		})
	}
	return out, nil
}

func (q *memoryGameQuery) matches(g games.Game) bool {
	for _, f := range q.filters {
		if !matchGame(g, f) {
			return false
		}
	}
	return true
}

func matchGame(g games.Game, f GameFilter) bool {
	if f.ID != 0 && g.ID != f.ID {
		return false
	}
	if f.GenreID != 0 && g.GenreID != f.GenreID {
		return false
	}
	return true
}

type memoryGenreSet struct {
	uow *memoryUnitOfWork
}

func (m *memoryGenreSet) Find(ctx context.Context, id int) (*genres.Genre, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s := m.uow.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	g, ok := s.state.genres[id]
	if !ok {
		return nil, nil
	}
	return &g, nil
}

func (m *memoryGenreSet) Add(genre *genres.Genre) {
	m.uow.stage(func(st *memoryState) (func(), error) {
		st.nextGenreID++
		id := st.nextGenreID
		stored := *genre
		stored.ID = id
		st.genres[id] = stored
		st.staged[genre] = id
		return func() { genre.ID = id }, nil
	})
}

func (m *memoryGenreSet) Replace(existing *genres.Genre, next genres.Genre) {
	m.uow.stage(func(st *memoryState) (func(), error) {
		next.ID = existing.ID
		if _, ok := st.genres[next.ID]; ok {
			st.genres[next.ID] = next
		}
		return func() { *existing = next }, nil
	})
}

func (m *memoryGenreSet) DeleteWhere(ctx context.Context, filter GenreFilter) (int64, error) {
	if filter.empty() {
		return 0, ErrUnboundedDelete
	}
	var removed int64
	err := m.uow.store.commit(ctx, []memoryOp{func(st *memoryState) (func(), error) {
		for id, g := range st.genres {
			if !matchGenre(g, filter) {
				continue
			}
			for gameID, game := range st.games {
				if game.GenreID == id {
					delete(st.games, gameID)
				}
			}
			delete(st.genres, id)
			removed++
		}
		return nil, nil
	}})
	if err != nil {
		return 0, err
	}
	return removed, nil
}

func (m *memoryGenreSet) Query() GenreQuery {
	return &memoryGenreQuery{store: m.uow.store}
}

type memoryGenreQuery struct {
	store   *MemoryStore
	filters []GenreFilter
}

func (q *memoryGenreQuery) Where(filter GenreFilter) GenreQuery {
	next := *q
	next.filters = append(append([]GenreFilter(nil), q.filters...), filter)
	return &next
}

func (q *memoryGenreQuery) All(ctx context.Context) ([]genres.Genre, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	q.store.mu.RLock()
	defer q.store.mu.RUnlock()

	out := make([]genres.Genre, 0, len(q.store.state.genres))
	for _, id := range sortedKeys(q.store.state.genres) {
		g := q.store.state.genres[id]
		matched := true
		for _, f := range q.filters {
			if !matchGenre(g, f) {
				matched = false
				break
			}
		}
		if matched {
			out = append(out, g)
		}
	}
	return out, nil
}

func matchGenre(g genres.Genre, f GenreFilter) bool {
	if f.ID != 0 && g.ID != f.ID {
		return false
	}
	if f.Name != "" && !strings.EqualFold(g.Name, f.Name) {
		return false
	}
	return true
}

func sortedKeys[V any](m map[int]V) []int {
	keys := make([]int, 0, len(m))
	for id := range m {
		keys = append(keys, id)
	}
	sort.Ints(keys)
	return keys
}
