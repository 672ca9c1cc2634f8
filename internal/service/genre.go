package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/millukiapp/milluki-server/internal/domain"
	domainerrors "github.com/millukiapp/milluki-server/internal/errors"
	"github.com/millukiapp/milluki-server/internal/genre"
	"github.com/millukiapp/milluki-server/internal/id"
	"github.com/millukiapp/milluki-server/internal/store"
)

// GenreService manages the genre vocabulary. Names are unique
// case-insensitively.
type GenreService struct {
	store  *store.Store
	logger *slog.Logger
}

// NewGenreService creates a new genre service.
func NewGenreService(store *store.Store, logger *slog.Logger) *GenreService {
	return &GenreService{store: store, logger: logger}
}

// GenreRequest contains genre data for create and update.
type GenreRequest struct {
	Name string `json:"name" validate:"required,min=4,max=15"`
}

// Create adds a genre.
func (s *GenreService) Create(ctx context.Context, req GenreRequest) (*domain.Genre, error) {
	if err := validate.Validate(req); err != nil {
		return nil, err
	}

	genreID, err := id.Generate("genre")
	if err != nil {
		return nil, fmt.Errorf("generate genre ID: %w", err)
	}

	genre := &domain.Genre{ID: genreID, Name: req.Name}
	genre.InitTimestamps()

	if err := s.store.Genres.Create(ctx, genreID, genre); err != nil {
		if errors.Is(err, store.ErrAlreadyExists) {
			return nil, domainerrors.Conflict("genre already exists")
		}
		return nil, fmt.Errorf("create genre: %w", err)
	}

	if s.logger != nil {
		s.logger.Info("Genre created", "genre_id", genreID, "name", genre.Name)
	}

	return genre, nil
}

// SeedDefaults inserts the built-in genre vocabulary, skipping names
// that already exist. Safe to run on every startup.
func (s *GenreService) SeedDefaults(ctx context.Context) error {
	seeded := 0
	for _, name := range genre.Defaults {
		genreID, err := id.Generate("genre")
		if err != nil {
			return fmt.Errorf("generate genre ID: %w", err)
		}

		g := &domain.Genre{ID: genreID, Name: name}
		g.InitTimestamps()

		if err := s.store.Genres.Create(ctx, genreID, g); err != nil {
			if errors.Is(err, store.ErrAlreadyExists) {
				continue
			}
			return fmt.Errorf("seed genre %q: %w", name, err)
		}
		seeded++
	}

	if seeded > 0 && s.logger != nil {
		s.logger.Info("Seeded default genres", "count", seeded)
	}
	return nil
}

// Get returns a single genre.
func (s *GenreService) Get(ctx context.Context, genreID string) (*domain.Genre, error) {
	genre, err := s.store.Genres.Get(ctx, genreID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, domainerrors.NotFound("genre not found")
		}
		return nil, fmt.Errorf("get genre: %w", err)
	}
	return genre, nil
}

// List returns every genre.
func (s *GenreService) List(ctx context.Context) ([]*domain.Genre, error) {
	genres := []*domain.Genre{}
	for genre, err := range s.store.Genres.List(ctx) {
		if err != nil {
			return nil, fmt.Errorf("list genres: %w", err)
		}
		genres = append(genres, genre)
	}
	return genres, nil
}

// Update renames a genre. Renaming to another genre's name is a conflict.
func (s *GenreService) Update(ctx context.Context, genreID string, req GenreRequest) (*domain.Genre, error) {
	if err := validate.Validate(req); err != nil {
		return nil, err
	}

	genre, err := s.Get(ctx, genreID)
	if err != nil {
		return nil, err
	}

	genre.Name = req.Name
	genre.Touch()

	if err := s.store.Genres.Update(ctx, genreID, genre); err != nil {
		if errors.Is(err, store.ErrAlreadyExists) {
			return nil, domainerrors.Conflict("genre already exists")
		}
		return nil, fmt.Errorf("update genre: %w", err)
	}

	return genre, nil
}

// Delete removes a genre and returns its last state. Books keep their
// free-text genre field; nothing cascades.
func (s *GenreService) Delete(ctx context.Context, genreID string) (*domain.Genre, error) {
	genre, err := s.Get(ctx, genreID)
	if err != nil {
		return nil, err
	}

	if err := s.store.Genres.Delete(ctx, genreID); err != nil {
		return nil, fmt.Errorf("delete genre: %w", err)
	}

	if s.logger != nil {
		s.logger.Info("Genre deleted", "genre_id", genreID)
	}

	return genre, nil
}
