package api

import (
	"encoding/json/v2"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/millukiapp/milluki-server/internal/http/response"
	"github.com/millukiapp/milluki-server/internal/service"
)

// handleCreateGenre adds a genre to the vocabulary.
func (s *Server) handleCreateGenre(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req service.GenreRequest
	if err := json.UnmarshalRead(r.Body, &req); err != nil {
		response.BadRequest(w, "Invalid request body", s.logger)
		return
	}

	genre, err := s.genreService.Create(ctx, req)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Created(w, genre, s.logger)
}

// handleListGenres returns every genre.
func (s *Server) handleListGenres(w http.ResponseWriter, r *http.Request) {
	genres, err := s.genreService.List(r.Context())
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Success(w, genres, s.logger)
}

// handleGetGenre returns a single genre.
func (s *Server) handleGetGenre(w http.ResponseWriter, r *http.Request) {
	genre, err := s.genreService.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Success(w, genre, s.logger)
}

// handleUpdateGenre renames a genre.
func (s *Server) handleUpdateGenre(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req service.GenreRequest
	if err := json.UnmarshalRead(r.Body, &req); err != nil {
		response.BadRequest(w, "Invalid request body", s.logger)
		return
	}

	genre, err := s.genreService.Update(ctx, chi.URLParam(r, "id"), req)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Success(w, genre, s.logger)
}

// handleDeleteGenre removes a genre and echoes its last state.
func (s *Server) handleDeleteGenre(w http.ResponseWriter, r *http.Request) {
	genre, err := s.genreService.Delete(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Success(w, genre, s.logger)
}
