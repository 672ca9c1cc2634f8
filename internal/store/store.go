// Package store persists catalog entities in a Badger key-value database,
// with JSON document values and prefix-scoped keys per entity kind.
package store

import (
	"context"
	"log/slog"
	"strings"

	"github.com/dgraph-io/badger/v4"
	"github.com/millukiapp/milluki-server/internal/domain"
)

// Store wraps a Badger database instance.
type Store struct {
	db     *badger.DB
	logger *slog.Logger

	// Generic entities
	Users       *Entity[domain.User]
	Collections *Entity[domain.Collection]
	Books       *Entity[domain.Book]
	Genres      *Entity[domain.Genre]
}

// New opens the database at path and initializes the entity handles.
func New(path string, logger *slog.Logger) (*Store, error) {
	opts := badger.DefaultOptions(path)
	opts.Logger = nil            // Disable Badger's internal logging
	opts.SyncWrites = true       // Ensure writes are synced to disk to prevent corruption on crashes
	opts.CompactL0OnClose = true // Compact L0 tables on close for faster startup

	db, err := badger.Open(opts)
	if err != nil {
		return nil, err
	}

	store := &Store{
		db:     db,
		logger: logger,
	}

	store.initEntities()

	if logger != nil {
		logger.Info("Badger database opened successfully", "path", path)
	}

	return store, nil
}

// Close gracefully closes the database connection.
func (s *Store) Close() error {
	if s.logger != nil {
		s.logger.Info("Closing database connection")
	}
	return s.db.Close()
}

// initEntities wires up the entity handles and their secondary indexes.
// Users carry a unique, case-insensitive email index (login is by email,
// and registration must reject a second identity with the same address).
// Genres carry a unique, case-insensitive name index.
func (s *Store) initEntities() {
	s.Users = NewEntity[domain.User](s, "user:").
		WithIndexTransform("email",
			func(u *domain.User) []string {
				return []string{normalizeEmail(u.Email)}
			},
			normalizeEmail,
		)

	s.Collections = NewEntity[domain.Collection](s, "coll:")

	s.Books = NewEntity[domain.Book](s, "book:")

	s.Genres = NewEntity[domain.Genre](s, "genre:").
		WithIndexTransform("name",
			func(g *domain.Genre) []string {
				return []string{normalizeName(g.Name)}
			},
			normalizeName,
		)
}

// ListCollectionsByOwner returns every collection owned by the given email.
//
// Ownership is a derived query over the collections themselves rather than
// a stored list on the user record, so there is no second write to keep in
// sync on create and nothing to cascade on delete.
func (s *Store) ListCollectionsByOwner(ctx context.Context, ownerEmail string) ([]*domain.Collection, error) {
	var result []*domain.Collection
	for coll, err := range s.Collections.List(ctx) {
		if err != nil {
			return nil, err
		}
		if coll.Owner == ownerEmail {
			result = append(result, coll)
		}
	}
	return result, nil
}

// normalizeEmail lowercases and trims an email for index storage and lookup.
func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// normalizeName lowercases and trims a name for index storage and lookup.
func normalizeName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
