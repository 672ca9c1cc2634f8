package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/millukiapp/milluki-server/internal/domain"
	domainerrors "github.com/millukiapp/milluki-server/internal/errors"
	"github.com/millukiapp/milluki-server/internal/id"
	"github.com/millukiapp/milluki-server/internal/policy"
	"github.com/millukiapp/milluki-server/internal/store"
)

// CollectionService manages collections: creation, visibility-gated reads,
// owner-gated mutation, and the embedded book snapshots.
type CollectionService struct {
	store  *store.Store
	logger *slog.Logger
}

// NewCollectionService creates a new collection service.
func NewCollectionService(store *store.Store, logger *slog.Logger) *CollectionService {
	return &CollectionService{store: store, logger: logger}
}

// CreateCollectionRequest contains new collection data.
// IsPublic defaults to true when omitted.
type CreateCollectionRequest struct {
	Name     string `json:"name" validate:"required,min=2,max=255"`
	IsPublic *bool  `json:"is_public"`
}

// UpdateCollectionRequest is a merge patch: nil fields are left unchanged.
type UpdateCollectionRequest struct {
	Name     *string `json:"name" validate:"omitempty,min=2,max=255"`
	IsPublic *bool   `json:"is_public"`
}

// Create stores a new collection owned by the requester.
func (s *CollectionService) Create(ctx context.Context, requesterEmail string, req CreateCollectionRequest) (*domain.Collection, error) {
	if !policy.CanCreate(requesterEmail) {
		return nil, domainerrors.Unauthenticated("authentication required")
	}
	if err := validate.Validate(req); err != nil {
		return nil, err
	}

	collID, err := id.Generate("coll")
	if err != nil {
		return nil, fmt.Errorf("generate collection ID: %w", err)
	}

	isPublic := true
	if req.IsPublic != nil {
		isPublic = *req.IsPublic
	}

	coll := &domain.Collection{
		ID:       collID,
		Name:     req.Name,
		Owner:    requesterEmail,
		IsPublic: isPublic,
		Books:    []domain.BookRef{},
	}
	coll.InitTimestamps()

	if err := s.store.Collections.Create(ctx, collID, coll); err != nil {
		return nil, fmt.Errorf("create collection: %w", err)
	}

	if s.logger != nil {
		s.logger.Info("Collection created", "collection_id", collID, "owner", requesterEmail)
	}

	return coll, nil
}

// Get returns a collection if the requester may read it.
// Private collections are visible to their owner only.
func (s *CollectionService) Get(ctx context.Context, requesterEmail, collID string) (*domain.Collection, error) {
	coll, err := s.getCollection(ctx, collID)
	if err != nil {
		return nil, err
	}
	if !policy.CanRead(coll, requesterEmail) {
		return nil, domainerrors.Forbidden("this collection is private")
	}
	return coll, nil
}

// ListForOwner returns every collection the requester owns, public and
// private alike.
func (s *CollectionService) ListForOwner(ctx context.Context, requesterEmail string) ([]*domain.Collection, error) {
	if requesterEmail == "" {
		return nil, domainerrors.Unauthenticated("authentication required")
	}
	colls, err := s.store.ListCollectionsByOwner(ctx, requesterEmail)
	if err != nil {
		return nil, fmt.Errorf("list collections: %w", err)
	}
	if colls == nil {
		colls = []*domain.Collection{}
	}
	return colls, nil
}

// Update applies a merge patch to a collection's name and visibility.
// Only the owner may update; the owner and the books are untouched.
func (s *CollectionService) Update(ctx context.Context, requesterEmail, collID string, req UpdateCollectionRequest) (*domain.Collection, error) {
	if err := validate.Validate(req); err != nil {
		return nil, err
	}

	coll, err := s.getOwnedCollection(ctx, requesterEmail, collID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		coll.Name = *req.Name
	}
	if req.IsPublic != nil {
		coll.IsPublic = *req.IsPublic
	}
	coll.Touch()

	if err := s.store.Collections.Update(ctx, collID, coll); err != nil {
		return nil, fmt.Errorf("update collection: %w", err)
	}

	return coll, nil
}

// AttachBook embeds a snapshot of the given catalog book into the
// collection. Attaching a book that is already present is a conflict.
func (s *CollectionService) AttachBook(ctx context.Context, requesterEmail, collID, bookID string) (*domain.Collection, error) {
	coll, err := s.getOwnedCollection(ctx, requesterEmail, collID)
	if err != nil {
		return nil, err
	}

	book, err := s.store.Books.Get(ctx, bookID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, domainerrors.NotFound("book not found")
		}
		return nil, fmt.Errorf("get book: %w", err)
	}

	if !coll.AddBook(book.Snapshot()) {
		return nil, domainerrors.Conflict("book is already in this collection")
	}
	coll.Touch()

	if err := s.store.Collections.Update(ctx, collID, coll); err != nil {
		return nil, fmt.Errorf("update collection: %w", err)
	}

	if s.logger != nil {
		s.logger.Info("Book attached to collection",
			"collection_id", collID, "book_id", bookID)
	}

	return coll, nil
}

// DetachBook removes the snapshot of the given book from the collection.
func (s *CollectionService) DetachBook(ctx context.Context, requesterEmail, collID, bookID string) (*domain.Collection, error) {
	coll, err := s.getOwnedCollection(ctx, requesterEmail, collID)
	if err != nil {
		return nil, err
	}

	if !coll.RemoveBook(bookID) {
		return nil, domainerrors.NotFound("book is not in this collection")
	}
	coll.Touch()

	if err := s.store.Collections.Update(ctx, collID, coll); err != nil {
		return nil, fmt.Errorf("update collection: %w", err)
	}

	return coll, nil
}

// Delete removes a collection and returns its last state.
// Only the owner may delete.
func (s *CollectionService) Delete(ctx context.Context, requesterEmail, collID string) (*domain.Collection, error) {
	coll, err := s.getOwnedCollection(ctx, requesterEmail, collID)
	if err != nil {
		return nil, err
	}

	if err := s.store.Collections.Delete(ctx, collID); err != nil {
		return nil, fmt.Errorf("delete collection: %w", err)
	}

	if s.logger != nil {
		s.logger.Info("Collection deleted", "collection_id", collID, "owner", requesterEmail)
	}

	return coll, nil
}

// getCollection loads a collection, translating missing rows to NotFound.
func (s *CollectionService) getCollection(ctx context.Context, collID string) (*domain.Collection, error) {
	coll, err := s.store.Collections.Get(ctx, collID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, domainerrors.NotFound("collection not found")
		}
		return nil, fmt.Errorf("get collection: %w", err)
	}
	return coll, nil
}

// getOwnedCollection loads a collection and checks the requester may
// write to it. Existence is checked before ownership, so a missing
// collection is 404 even for strangers.
func (s *CollectionService) getOwnedCollection(ctx context.Context, requesterEmail, collID string) (*domain.Collection, error) {
	coll, err := s.getCollection(ctx, collID)
	if err != nil {
		return nil, err
	}
	if !policy.CanWrite(coll, requesterEmail) {
		return nil, domainerrors.NotOwner("only the owner can modify this collection")
	}
	return coll, nil
}
