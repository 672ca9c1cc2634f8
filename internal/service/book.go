package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/millukiapp/milluki-server/internal/domain"
	domainerrors "github.com/millukiapp/milluki-server/internal/errors"
	"github.com/millukiapp/milluki-server/internal/id"
	"github.com/millukiapp/milluki-server/internal/store"
)

// BookService manages the shared book catalog.
type BookService struct {
	store  *store.Store
	logger *slog.Logger
}

// NewBookService creates a new book service.
func NewBookService(store *store.Store, logger *slog.Logger) *BookService {
	return &BookService{store: store, logger: logger}
}

// CreateBookRequest contains new book data.
type CreateBookRequest struct {
	Title      string `json:"title" validate:"required,min=2,max=255"`
	Author     string `json:"author" validate:"omitempty,min=2,max=255"`
	Publisher  string `json:"publisher" validate:"omitempty,min=2,max=255"`
	Year       int    `json:"year" validate:"omitempty,gte=0"`
	Genre      string `json:"genre" validate:"omitempty,min=2,max=255"`
	Volume     int    `json:"volume" validate:"omitempty,gte=0"`
	PageNumber int    `json:"page_number" validate:"omitempty,gte=0"`
}

// UpdateBookRequest is a merge patch: nil fields are left unchanged.
type UpdateBookRequest struct {
	Title      *string `json:"title" validate:"omitempty,min=2,max=255"`
	Author     *string `json:"author" validate:"omitempty,min=2,max=255"`
	Publisher  *string `json:"publisher" validate:"omitempty,min=2,max=255"`
	Year       *int    `json:"year" validate:"omitempty,gte=0"`
	Genre      *string `json:"genre" validate:"omitempty,min=2,max=255"`
	Volume     *int    `json:"volume" validate:"omitempty,gte=0"`
	PageNumber *int    `json:"page_number" validate:"omitempty,gte=0"`
}

// Create adds a book to the catalog.
func (s *BookService) Create(ctx context.Context, req CreateBookRequest) (*domain.Book, error) {
	if err := validate.Validate(req); err != nil {
		return nil, err
	}

	bookID, err := id.Generate("book")
	if err != nil {
		return nil, fmt.Errorf("generate book ID: %w", err)
	}

	book := &domain.Book{
		ID:         bookID,
		Title:      req.Title,
		Author:     req.Author,
		Publisher:  req.Publisher,
		Year:       req.Year,
		Genre:      req.Genre,
		Volume:     req.Volume,
		PageNumber: req.PageNumber,
	}
	book.InitTimestamps()

	if err := s.store.Books.Create(ctx, bookID, book); err != nil {
		return nil, fmt.Errorf("create book: %w", err)
	}

	if s.logger != nil {
		s.logger.Info("Book created", "book_id", bookID, "title", book.Title)
	}

	return book, nil
}

// Get returns a single book.
func (s *BookService) Get(ctx context.Context, bookID string) (*domain.Book, error) {
	book, err := s.store.Books.Get(ctx, bookID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, domainerrors.NotFound("book not found")
		}
		return nil, fmt.Errorf("get book: %w", err)
	}
	return book, nil
}

// List returns every book in the catalog.
func (s *BookService) List(ctx context.Context) ([]*domain.Book, error) {
	books := []*domain.Book{}
	for book, err := range s.store.Books.List(ctx) {
		if err != nil {
			return nil, fmt.Errorf("list books: %w", err)
		}
		books = append(books, book)
	}
	return books, nil
}

// Update applies a merge patch to a book. Snapshots already embedded in
// collections are not refreshed.
func (s *BookService) Update(ctx context.Context, bookID string, req UpdateBookRequest) (*domain.Book, error) {
	if err := validate.Validate(req); err != nil {
		return nil, err
	}

	book, err := s.Get(ctx, bookID)
	if err != nil {
		return nil, err
	}

	if req.Title != nil {
		book.Title = *req.Title
	}
	if req.Author != nil {
		book.Author = *req.Author
	}
	if req.Publisher != nil {
		book.Publisher = *req.Publisher
	}
	if req.Year != nil {
		book.Year = *req.Year
	}
	if req.Genre != nil {
		book.Genre = *req.Genre
	}
	if req.Volume != nil {
		book.Volume = *req.Volume
	}
	if req.PageNumber != nil {
		book.PageNumber = *req.PageNumber
	}
	book.Touch()

	if err := s.store.Books.Update(ctx, bookID, book); err != nil {
		return nil, fmt.Errorf("update book: %w", err)
	}

	return book, nil
}

// Delete removes a book from the catalog and returns its last state.
// Snapshots of the book embedded in collections survive.
func (s *BookService) Delete(ctx context.Context, bookID string) (*domain.Book, error) {
	book, err := s.Get(ctx, bookID)
	if err != nil {
		return nil, err
	}

	if err := s.store.Books.Delete(ctx, bookID); err != nil {
		return nil, fmt.Errorf("delete book: %w", err)
	}

	if s.logger != nil {
		s.logger.Info("Book deleted", "book_id", bookID)
	}

	return book, nil
}
