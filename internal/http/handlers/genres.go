package handlers

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/preston-bernstein/game-store-service/internal/app/genres"
	"github.com/preston-bernstein/game-store-service/internal/dtos"
	"github.com/preston-bernstein/game-store-service/internal/logging"
	"github.com/preston-bernstein/game-store-service/internal/validation"
)

// GenreService is the genres use-case surface the handler depends on.
type GenreService interface {
	List(ctx context.Context) ([]dtos.Genre, error)
	Get(ctx context.Context, id int) (dtos.Genre, error)
	Create(ctx context.Context, in dtos.CreateGenre) (dtos.Genre, error)
	Update(ctx context.Context, id int, in dtos.UpdateGenre) error
	Delete(ctx context.Context, id int) error
}

// GenresHandler serves the /genres resource.
type GenresHandler struct {
	svc       GenreService
	validator *validation.Validator
	logger    *slog.Logger
}

func NewGenresHandler(svc GenreService, validator *validation.Validator, logger *slog.Logger) *GenresHandler {
	if validator == nil {
		validator = validation.New()
	}
	return &GenresHandler{svc: svc, validator: validator, logger: logger}
}

func (h *GenresHandler) List(w http.ResponseWriter, r *http.Request) {
	list, err := h.svc.List(r.Context())
	if err != nil {
		writeInternal(w, r, err, h.logger)
		return
	}
	writeJSON(w, http.StatusOK, list, h.logger)
}

func (h *GenresHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid genre id", h.logger)
		return
	}

	genre, err := h.svc.Get(r.Context(), id)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, genre, h.logger)
}

func (h *GenresHandler) Create(w http.ResponseWriter, r *http.Request) {
	var in dtos.CreateGenre
	if !decodeAndValidate(w, r, h.validator, &in, h.logger) {
		return
	}

	created, err := h.svc.Create(r.Context(), in)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	logging.Info(loggerFromContext(r, h.logger), "genre created", logging.FieldID, created.ID)
	w.Header().Set("Location", fmt.Sprintf("/genres/%d", created.ID))
	writeJSON(w, http.StatusCreated, created, h.logger)
}

func (h *GenresHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid genre id", h.logger)
		return
	}

	var in dtos.UpdateGenre
	if !decodeAndValidate(w, r, h.validator, &in, h.logger) {
		return
	}

	if err := h.svc.Update(r.Context(), id, in); err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *GenresHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid genre id", h.logger)
		return
	}

	if err := h.svc.Delete(r.Context(), id); err != nil {
		writeInternal(w, r, err, h.logger)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *GenresHandler) writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, genres.ErrNotFound) {
		writeError(w, r, http.StatusNotFound, genres.ErrNotFound.Error(), h.logger)
		return
	}
	writeInternal(w, r, err, h.logger)
}
