package handlers

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/preston-bernstein/game-store-service/internal/app/games"
	"github.com/preston-bernstein/game-store-service/internal/app/genres"
	"github.com/preston-bernstein/game-store-service/internal/dtos"
	"github.com/preston-bernstein/game-store-service/internal/store"
	"github.com/preston-bernstein/game-store-service/internal/testutil"
)

type errorResponse struct {
	Error     string              `json:"error"`
	RequestID string              `json:"requestId"`
	Errors    map[string][]string `json:"errors"`
}

func newTestRouter(cat store.Catalog) http.Handler {
	gh := NewGamesHandler(games.NewService(cat), nil, nil)
	nh := NewGenresHandler(genres.NewService(cat), nil, nil)

	r := chi.NewRouter()
	r.Route("/games", func(r chi.Router) {
		r.Get("/", gh.List)
		r.Post("/", gh.Create)
		r.Get("/{id}", gh.Get)
		r.Put("/{id}", gh.Update)
		r.Delete("/{id}", gh.Delete)
	})
	r.Route("/genres", func(r chi.Router) {
		r.Get("/", nh.List)
		r.Post("/", nh.Create)
		r.Get("/{id}", nh.Get)
		r.Put("/{id}", nh.Update)
		r.Delete("/{id}", nh.Delete)
	})
	return r
}

// forEachBackend runs fn against a freshly seeded catalog on every store backend.
func forEachBackend(t *testing.T, fn func(t *testing.T, cat store.Catalog)) {
	for name, open := range testutil.SeededBackends() {
		t.Run(name, func(t *testing.T) {
			fn(t, open(t))
		})
	}
}

func listIDs(t *testing.T, router http.Handler) []int {
	t.Helper()
	rr := testutil.Serve(router, http.MethodGet, "/games", nil)
	testutil.AssertStatus(t, rr, http.StatusOK)
	var list []dtos.GameSummary
	testutil.DecodeJSON(t, rr, &list)
	ids := make([]int, len(list))
	for i, g := range list {
		ids[i] = g.ID
	}
	return ids
}

func TestListGames(t *testing.T) {
	forEachBackend(t, func(t *testing.T, cat store.Catalog) {
		router := newTestRouter(cat)

		rr := testutil.Serve(router, http.MethodGet, "/games", nil)
		testutil.AssertStatus(t, rr, http.StatusOK)

		var list []dtos.GameSummary
		testutil.DecodeJSON(t, rr, &list)
		if len(list) != 3 {
			t.Fatalf("expected 3 games, got %d", len(list))
		}
		if list[0].ID != 1 || list[0].Genre != "Fighting" || list[0].ReleaseDate != "1992-07-15" {
			t.Fatalf("unexpected first game %+v", list[0])
		}
	})
}

func TestListGamesPriceIsNumber(t *testing.T) {
	forEachBackend(t, func(t *testing.T, cat store.Catalog) {
		rr := testutil.Serve(newTestRouter(cat), http.MethodGet, "/games", nil)
		if !strings.Contains(rr.Body.String(), `"price":19.99`) {
			t.Fatalf("expected unquoted price, got %s", rr.Body.String())
		}
	})
}

func TestGetGame(t *testing.T) {
	forEachBackend(t, func(t *testing.T, cat store.Catalog) {
		rr := testutil.Serve(newTestRouter(cat), http.MethodGet, "/games/2", nil)
		testutil.AssertStatus(t, rr, http.StatusOK)

		var game dtos.GameDetail
		testutil.DecodeJSON(t, rr, &game)
		if game.Name != "Final Fantasy XIV" || game.Genre.ID != 2 || game.Genre.Name != "Roleplaying" {
			t.Fatalf("unexpected game %+v", game)
		}
	})
}

func TestGetGameNotFound(t *testing.T) {
	forEachBackend(t, func(t *testing.T, cat store.Catalog) {
		rr := testutil.Serve(newTestRouter(cat), http.MethodGet, "/games/99", nil)
		testutil.AssertStatus(t, rr, http.StatusNotFound)

		var body errorResponse
		testutil.DecodeJSON(t, rr, &body)
		if body.Error != "game not found" {
			t.Fatalf("unexpected error %q", body.Error)
		}
	})
}

func TestGetGameInvalidID(t *testing.T) {
	router := newTestRouter(testutil.SeededCatalog(t))

	for _, path := range []string{"/games/abc", "/games/1.5"} {
		rr := testutil.Serve(router, http.MethodGet, path, nil)
		testutil.AssertStatus(t, rr, http.StatusBadRequest)
	}
}

func TestCreateGameByGenreName(t *testing.T) {
	forEachBackend(t, func(t *testing.T, cat store.Catalog) {
		router := newTestRouter(cat)

		body := `{"name":"Doom","genre":"Shooter","price":9.99,"releaseDate":"1993-12-10"}`
		rr := testutil.Serve(router, http.MethodPost, "/games", strings.NewReader(body))
		testutil.AssertStatus(t, rr, http.StatusCreated)

		if got := rr.Header().Get("Location"); got != "/games/4" {
			t.Fatalf("expected Location /games/4, got %q", got)
		}
		var created dtos.GameDetail
		testutil.DecodeJSON(t, rr, &created)
		if created.ID != 4 || created.Name != "Doom" || created.Genre.Name != "Shooter" || created.Genre.ID != 6 {
			t.Fatalf("unexpected created game %+v", created)
		}
		if created.Price.String() != "9.99" || created.ReleaseDate != "1993-12-10" {
			t.Fatalf("unexpected price or date %+v", created)
		}

		if ids := listIDs(t, router); len(ids) != 4 || ids[3] != 4 {
			t.Fatalf("expected Doom listed last, got %v", ids)
		}
	})
}

func TestCreateGameByGenreID(t *testing.T) {
	forEachBackend(t, func(t *testing.T, cat store.Catalog) {
		body := `{"name":"Gran Turismo","genreId":4,"price":39.99,"releaseDate":"1997-12-23"}`
		rr := testutil.Serve(newTestRouter(cat), http.MethodPost, "/games", strings.NewReader(body))
		testutil.AssertStatus(t, rr, http.StatusCreated)

		var created dtos.GameDetail
		testutil.DecodeJSON(t, rr, &created)
		if created.Genre.Name != "Racing" {
			t.Fatalf("expected Racing genre, got %+v", created.Genre)
		}
	})
}

func TestCreatedGameMatchesFetchedGame(t *testing.T) {
	prices := []string{"9.99", "24.5", "9.90", "33.33", "100"}

	forEachBackend(t, func(t *testing.T, cat store.Catalog) {
		router := newTestRouter(cat)

		for _, price := range prices {
			body := `{"name":"Pac-Man","genre":"Kids and Family","price":` + price + `,"releaseDate":"1980-05-22"}`
			created := testutil.Serve(router, http.MethodPost, "/games", strings.NewReader(body))
			testutil.AssertStatus(t, created, http.StatusCreated)

			fetched := testutil.Serve(router, http.MethodGet, created.Header().Get("Location"), nil)
			testutil.AssertStatus(t, fetched, http.StatusOK)
			if created.Body.String() != fetched.Body.String() {
				t.Fatalf("price %s: created %s, fetched %s", price, created.Body.String(), fetched.Body.String())
			}
		}
	})
}

func TestCreateGameValidationFailures(t *testing.T) {
	const valid = `"price":9.99,"releaseDate":"1993-12-10"`
	cases := []struct {
		name   string
		body   string
		fields []string
	}{
		{name: "missing name", body: `{"genre":"Shooter",` + valid + `}`, fields: []string{"Name"}},
		{name: "long name", body: `{"name":"` + strings.Repeat("x", 51) + `","genre":"Shooter",` + valid + `}`, fields: []string{"Name"}},
		{name: "missing genre", body: `{"name":"Doom",` + valid + `}`, fields: []string{"Genre", "GenreID"}},
		{name: "price too low", body: `{"name":"Doom","genre":"Shooter","price":0.5,"releaseDate":"1993-12-10"}`, fields: []string{"Price"}},
		{name: "price too high", body: `{"name":"Doom","genre":"Shooter","price":100.01,"releaseDate":"1993-12-10"}`, fields: []string{"Price"}},
		{name: "price too precise", body: `{"name":"Doom","genre":"Shooter","price":33.333333333333333,"releaseDate":"1993-12-10"}`, fields: []string{"Price"}},
		{name: "bad date", body: `{"name":"Doom","genre":"Shooter","price":9.99,"releaseDate":"12/10/1993"}`, fields: []string{"ReleaseDate"}},
		{name: "unknown genre", body: `{"name":"Tetris","genre":"Puzzle",` + valid + `}`, fields: []string{"Genre"}},
		{name: "unknown id", body: `{"name":"Tetris","genreId":42,` + valid + `}`, fields: []string{"GenreID"}},
	}

	forEachBackend(t, func(t *testing.T, cat store.Catalog) {
		router := newTestRouter(cat)

		for _, tc := range cases {
			t.Run(tc.name, func(t *testing.T) {
				rr := testutil.Serve(router, http.MethodPost, "/games", strings.NewReader(tc.body))
				testutil.AssertStatus(t, rr, http.StatusBadRequest)

				var body errorResponse
				testutil.DecodeJSON(t, rr, &body)
				for _, field := range tc.fields {
					if len(body.Errors[field]) == 0 {
						t.Fatalf("expected error for %s, got %+v", field, body.Errors)
					}
				}

				ctx := context.Background()
				rows, _ := cat.Begin(ctx).Games().Query().All(ctx)
				if len(rows) != 3 {
					t.Fatalf("expected nothing persisted, got %d games", len(rows))
				}
			})
		}
	})
}

func TestCreateGameMalformedJSON(t *testing.T) {
	router := newTestRouter(testutil.SeededCatalog(t))

	rr := testutil.Serve(router, http.MethodPost, "/games", strings.NewReader(`{"name":`))
	testutil.AssertStatus(t, rr, http.StatusBadRequest)

	var body errorResponse
	testutil.DecodeJSON(t, rr, &body)
	if body.Error != "invalid request body" {
		t.Fatalf("unexpected error %q", body.Error)
	}
}

func TestUpdateGameReplacesFields(t *testing.T) {
	forEachBackend(t, func(t *testing.T, cat store.Catalog) {
		router := newTestRouter(cat)

		body := `{"name":"Street Fighter II Turbo","genre":"Fighting","price":24.99,"releaseDate":"1993-07-11"}`
		rr := testutil.Serve(router, http.MethodPut, "/games/1", strings.NewReader(body))
		testutil.AssertStatus(t, rr, http.StatusNoContent)
		if rr.Body.Len() != 0 {
			t.Fatalf("expected empty body, got %s", rr.Body.String())
		}

		rr = testutil.Serve(router, http.MethodGet, "/games/1", nil)
		var game dtos.GameDetail
		testutil.DecodeJSON(t, rr, &game)
		if game.ID != 1 || game.Name != "Street Fighter II Turbo" || game.Price.String() != "24.99" || game.ReleaseDate != "1993-07-11" {
			t.Fatalf("unexpected game after update %+v", game)
		}
	})
}

func TestUpdateGameMovesGenre(t *testing.T) {
	forEachBackend(t, func(t *testing.T, cat store.Catalog) {
		router := newTestRouter(cat)

		body := `{"name":"FIFA 23","genreId":4,"price":69.99,"releaseDate":"2022-09-27"}`
		rr := testutil.Serve(router, http.MethodPut, "/games/3", strings.NewReader(body))
		testutil.AssertStatus(t, rr, http.StatusNoContent)

		rr = testutil.Serve(router, http.MethodGet, "/games/3", nil)
		var game dtos.GameDetail
		testutil.DecodeJSON(t, rr, &game)
		if game.Genre != (dtos.Genre{ID: 4, Name: "Racing"}) {
			t.Fatalf("expected Racing after update, got %+v", game.Genre)
		}
	})
}

func TestUpdateGameNotFound(t *testing.T) {
	forEachBackend(t, func(t *testing.T, cat store.Catalog) {
		body := `{"name":"Ghost","genre":"Fighting","price":5,"releaseDate":"2000-01-01"}`
		rr := testutil.Serve(newTestRouter(cat), http.MethodPut, "/games/99", strings.NewReader(body))
		testutil.AssertStatus(t, rr, http.StatusNotFound)
	})
}

func TestUpdateGameValidationRunsBeforeLookup(t *testing.T) {
	router := newTestRouter(testutil.SeededCatalog(t))

	rr := testutil.Serve(router, http.MethodPut, "/games/99", strings.NewReader(`{"genre":"Fighting","price":5,"releaseDate":"2000-01-01"}`))
	testutil.AssertStatus(t, rr, http.StatusBadRequest)
}

func TestDeleteGameIsIdempotent(t *testing.T) {
	forEachBackend(t, func(t *testing.T, cat store.Catalog) {
		router := newTestRouter(cat)

		for i := 0; i < 2; i++ {
			rr := testutil.Serve(router, http.MethodDelete, "/games/3", nil)
			testutil.AssertStatus(t, rr, http.StatusNoContent)
		}
		rr := testutil.Serve(router, http.MethodGet, "/games/3", nil)
		testutil.AssertStatus(t, rr, http.StatusNotFound)

		rr = testutil.Serve(router, http.MethodDelete, "/games/404", nil)
		testutil.AssertStatus(t, rr, http.StatusNoContent)
	})
}

func TestListingTracksLiveIDs(t *testing.T) {
	forEachBackend(t, func(t *testing.T, cat store.Catalog) {
		router := newTestRouter(cat)

		for _, name := range []string{"Doom", "Quake"} {
			rr := testutil.ServeJSON(t, router, http.MethodPost, "/games", testutil.SampleCreateGame(name, "Shooter"))
			testutil.AssertStatus(t, rr, http.StatusCreated)
		}
		for _, path := range []string{"/games/3", "/games/4"} {
			rr := testutil.Serve(router, http.MethodDelete, path, nil)
			testutil.AssertStatus(t, rr, http.StatusNoContent)
		}

		ids := listIDs(t, router)
		want := []int{1, 2, 5}
		if len(ids) != len(want) {
			t.Fatalf("expected ids %v, got %v", want, ids)
		}
		for i := range want {
			if ids[i] != want[i] {
				t.Fatalf("expected ids %v, got %v", want, ids)
			}
		}
	})
}

func TestGenresCRUD(t *testing.T) {
	forEachBackend(t, func(t *testing.T, cat store.Catalog) {
		router := newTestRouter(cat)

		rr := testutil.Serve(router, http.MethodPost, "/genres", strings.NewReader(`{"name":"Puzzle"}`))
		testutil.AssertStatus(t, rr, http.StatusCreated)
		if got := rr.Header().Get("Location"); got != "/genres/7" {
			t.Fatalf("expected Location /genres/7, got %q", got)
		}
		var created dtos.Genre
		testutil.DecodeJSON(t, rr, &created)
		if created != (dtos.Genre{ID: 7, Name: "Puzzle"}) {
			t.Fatalf("unexpected genre %+v", created)
		}

		rr = testutil.Serve(router, http.MethodPut, "/genres/7", strings.NewReader(`{"name":"Puzzle & Logic"}`))
		testutil.AssertStatus(t, rr, http.StatusNoContent)

		rr = testutil.Serve(router, http.MethodGet, "/genres/7", nil)
		testutil.AssertStatus(t, rr, http.StatusOK)
		var got dtos.Genre
		testutil.DecodeJSON(t, rr, &got)
		if got.Name != "Puzzle & Logic" {
			t.Fatalf("expected renamed genre, got %+v", got)
		}

		rr = testutil.Serve(router, http.MethodGet, "/genres", nil)
		var list []dtos.Genre
		testutil.DecodeJSON(t, rr, &list)
		if len(list) != 7 {
			t.Fatalf("expected 7 genres, got %d", len(list))
		}

		for i := 0; i < 2; i++ {
			rr = testutil.Serve(router, http.MethodDelete, "/genres/7", nil)
			testutil.AssertStatus(t, rr, http.StatusNoContent)
		}
		rr = testutil.Serve(router, http.MethodGet, "/genres/7", nil)
		testutil.AssertStatus(t, rr, http.StatusNotFound)
	})
}

func TestCreateGenreNameTooLong(t *testing.T) {
	router := newTestRouter(testutil.SeededCatalog(t))

	body := `{"name":"` + strings.Repeat("a", 31) + `"}`
	rr := testutil.Serve(router, http.MethodPost, "/genres", strings.NewReader(body))
	testutil.AssertStatus(t, rr, http.StatusBadRequest)

	var resp errorResponse
	testutil.DecodeJSON(t, rr, &resp)
	if len(resp.Errors["Name"]) == 0 {
		t.Fatalf("expected error naming Name, got %+v", resp.Errors)
	}
}

func TestCreateGenreNameAtLimit(t *testing.T) {
	forEachBackend(t, func(t *testing.T, cat store.Catalog) {
		body := `{"name":"` + strings.Repeat("a", 30) + `"}`
		rr := testutil.Serve(newTestRouter(cat), http.MethodPost, "/genres", strings.NewReader(body))
		testutil.AssertStatus(t, rr, http.StatusCreated)
	})
}

func TestCreateGenreMissingName(t *testing.T) {
	router := newTestRouter(testutil.SeededCatalog(t))

	rr := testutil.Serve(router, http.MethodPost, "/genres", strings.NewReader(`{}`))
	testutil.AssertStatus(t, rr, http.StatusBadRequest)

	var resp errorResponse
	testutil.DecodeJSON(t, rr, &resp)
	if len(resp.Errors["Name"]) == 0 {
		t.Fatalf("expected error naming Name, got %+v", resp.Errors)
	}
}

func TestUpdateGenreNotFound(t *testing.T) {
	forEachBackend(t, func(t *testing.T, cat store.Catalog) {
		rr := testutil.Serve(newTestRouter(cat), http.MethodPut, "/genres/99", strings.NewReader(`{"name":"Nope"}`))
		testutil.AssertStatus(t, rr, http.StatusNotFound)
	})
}

func TestDeleteReferencedGenreRemovesItsGames(t *testing.T) {
	forEachBackend(t, func(t *testing.T, cat store.Catalog) {
		router := newTestRouter(cat)

		rr := testutil.Serve(router, http.MethodDelete, "/genres/1", nil)
		testutil.AssertStatus(t, rr, http.StatusNoContent)

		rr = testutil.Serve(router, http.MethodGet, "/genres/1", nil)
		testutil.AssertStatus(t, rr, http.StatusNotFound)
		rr = testutil.Serve(router, http.MethodGet, "/games/1", nil)
		testutil.AssertStatus(t, rr, http.StatusNotFound)

		ids := listIDs(t, router)
		if len(ids) != 2 || ids[0] != 2 || ids[1] != 3 {
			t.Fatalf("expected games 2 and 3 to remain, got %v", ids)
		}
	})
}

type failingGameService struct {
	err error
}

func (f failingGameService) List(context.Context) ([]dtos.GameSummary, error) { return nil, f.err }
func (f failingGameService) Get(context.Context, int) (dtos.GameDetail, error) {
	return dtos.GameDetail{}, f.err
}
func (f failingGameService) Create(context.Context, dtos.CreateGame) (dtos.GameDetail, error) {
	return dtos.GameDetail{}, f.err
}
func (f failingGameService) Update(context.Context, int, dtos.UpdateGame) error { return f.err }
func (f failingGameService) Delete(context.Context, int) error                  { return f.err }

func TestGameStoreFailuresAreServerErrors(t *testing.T) {
	logger, buf := testutil.NewBufferLogger()
	h := NewGamesHandler(failingGameService{err: errors.New("db down")}, nil, logger)
	r := chi.NewRouter()
	r.Get("/games", h.List)
	r.Get("/games/{id}", h.Get)
	r.Delete("/games/{id}", h.Delete)

	for _, path := range []string{"/games", "/games/1"} {
		rr := testutil.Serve(r, http.MethodGet, path, nil)
		testutil.AssertStatus(t, rr, http.StatusInternalServerError)
	}
	rr := testutil.Serve(r, http.MethodDelete, "/games/1", nil)
	testutil.AssertStatus(t, rr, http.StatusInternalServerError)

	var resp errorResponse
	testutil.DecodeJSON(t, rr, &resp)
	if resp.Error != "internal server error" {
		t.Fatalf("unexpected error %q", resp.Error)
	}
	if !strings.Contains(buf.String(), "request failed") || !strings.Contains(buf.String(), "db down") {
		t.Fatalf("expected failure to be logged, got %s", buf.String())
	}
}

func TestHealth(t *testing.T) {
	h := NewHealthHandler(nil, nil)

	rr := testutil.Serve(http.HandlerFunc(h.Health), http.MethodGet, "/health", nil)
	testutil.AssertStatus(t, rr, http.StatusOK)

	var resp map[string]string
	testutil.DecodeJSON(t, rr, &resp)
	if resp["status"] != "ok" {
		t.Fatalf("expected status ok, got %s", resp["status"])
	}
}

func TestHealthShuttingDownReturnsServiceUnavailable(t *testing.T) {
	h := NewHealthHandler(nil, nil)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	ctx, cancel := context.WithCancel(req.Context())
	cancel()
	req = req.WithContext(ctx)
	rr := testutil.ServeRequest(http.HandlerFunc(h.Health), req)

	testutil.AssertStatus(t, rr, http.StatusServiceUnavailable)
	var resp map[string]string
	testutil.DecodeJSON(t, rr, &resp)
	if resp["error"] != "shutting down" {
		t.Fatalf("unexpected error %q", resp["error"])
	}
}

func TestReady(t *testing.T) {
	up := &testutil.StubPinger{}
	rr := testutil.Serve(http.HandlerFunc(NewHealthHandler(up, nil).Ready), http.MethodGet, "/ready", nil)
	testutil.AssertStatus(t, rr, http.StatusOK)
	if up.Calls != 1 {
		t.Fatalf("expected one ping, got %d", up.Calls)
	}

	down := &testutil.StubPinger{Err: errors.New("closed")}
	rr = testutil.Serve(http.HandlerFunc(NewHealthHandler(down, nil).Ready), http.MethodGet, "/ready", nil)
	testutil.AssertStatus(t, rr, http.StatusServiceUnavailable)

	var resp errorResponse
	testutil.DecodeJSON(t, rr, &resp)
	if resp.Error != "store unavailable" {
		t.Fatalf("unexpected error %q", resp.Error)
	}
}

func TestNotFoundAndMethodNotAllowed(t *testing.T) {
	rr := testutil.Serve(NotFound(nil), http.MethodGet, "/nope", nil)
	testutil.AssertStatus(t, rr, http.StatusNotFound)

	rr = testutil.Serve(MethodNotAllowed(nil), http.MethodPatch, "/games", nil)
	testutil.AssertStatus(t, rr, http.StatusMethodNotAllowed)
}
