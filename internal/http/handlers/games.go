package handlers

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/preston-bernstein/game-store-service/internal/app/games"
	"github.com/preston-bernstein/game-store-service/internal/dtos"
	"github.com/preston-bernstein/game-store-service/internal/logging"
	"github.com/preston-bernstein/game-store-service/internal/validation"
)

// GameService is the games use-case surface the handler depends on.
type GameService interface {
	List(ctx context.Context) ([]dtos.GameSummary, error)
	Get(ctx context.Context, id int) (dtos.GameDetail, error)
	Create(ctx context.Context, in dtos.CreateGame) (dtos.GameDetail, error)
	Update(ctx context.Context, id int, in dtos.UpdateGame) error
	Delete(ctx context.Context, id int) error
}

// GamesHandler serves the /games resource.
type GamesHandler struct {
	svc       GameService
	validator *validation.Validator
	logger    *slog.Logger
}

func NewGamesHandler(svc GameService, validator *validation.Validator, logger *slog.Logger) *GamesHandler {
	if validator == nil {
		validator = validation.New()
	}
	return &GamesHandler{svc: svc, validator: validator, logger: logger}
}

func (h *GamesHandler) List(w http.ResponseWriter, r *http.Request) {
	list, err := h.svc.List(r.Context())
	if err != nil {
		writeInternal(w, r, err, h.logger)
		return
	}
	writeJSON(w, http.StatusOK, list, h.logger)
}

func (h *GamesHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid game id", h.logger)
		return
	}

	game, err := h.svc.Get(r.Context(), id)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, game, h.logger)
}

func (h *GamesHandler) Create(w http.ResponseWriter, r *http.Request) {
	var in dtos.CreateGame
	if !decodeAndValidate(w, r, h.validator, &in, h.logger) {
		return
	}

	created, err := h.svc.Create(r.Context(), in)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	logging.Info(loggerFromContext(r, h.logger), "game created", logging.FieldID, created.ID)
	w.Header().Set("Location", fmt.Sprintf("/games/%d", created.ID))
	writeJSON(w, http.StatusCreated, created, h.logger)
}

func (h *GamesHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid game id", h.logger)
		return
	}

	var in dtos.UpdateGame
	if !decodeAndValidate(w, r, h.validator, &in, h.logger) {
		return
	}

	if err := h.svc.Update(r.Context(), id, in); err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Delete answers 204 whether or not the game existed.
func (h *GamesHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid game id", h.logger)
		return
	}

	if err := h.svc.Delete(r.Context(), id); err != nil {
		writeInternal(w, r, err, h.logger)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *GamesHandler) writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	var fields validation.FieldErrors
	switch {
	case errors.Is(err, games.ErrNotFound):
		writeError(w, r, http.StatusNotFound, games.ErrNotFound.Error(), h.logger)
	case errors.As(err, &fields):
		writeValidation(w, r, fields, h.logger)
	default:
		writeInternal(w, r, err, h.logger)
	}
}
