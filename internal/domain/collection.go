package domain

import (
	"slices"
	"time"
)

// BookRef is a denormalized snapshot of a Book embedded in a Collection.
type BookRef struct {
	BookID     string    `json:"book_id"`
	Title      string    `json:"title"`
	Author     string    `json:"author,omitempty"`
	Publisher  string    `json:"publisher,omitempty"`
	Year       int       `json:"year,omitempty"`
	Genre      string    `json:"genre,omitempty"`
	Volume     int       `json:"volume,omitempty"`
	PageNumber int       `json:"page_number,omitempty"`
	AddedAt    time.Time `json:"added_at"`
}

// Collection is a named, visibility-scoped grouping of books owned by one user.
//
// Owner is the owning user's email, set at creation and never reassigned.
// IsPublic gates reads only; every mutation is owner-gated regardless of
// visibility. Books holds embedded snapshots, preserving order of attachment.
type Collection struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Owner     string    `json:"owner"`
	IsPublic  bool      `json:"is_public"`
	Books     []BookRef `json:"books"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// InitTimestamps sets creation and update times for a new collection.
func (c *Collection) InitTimestamps() {
	now := time.Now()
	c.CreatedAt = now
	c.UpdatedAt = now
}

// Touch updates the modification timestamp.
func (c *Collection) Touch() {
	c.UpdatedAt = time.Now()
}

// ContainsBook checks whether a snapshot of the given book is in this collection.
func (c *Collection) ContainsBook(bookID string) bool {
	return slices.ContainsFunc(c.Books, func(ref BookRef) bool {
		return ref.BookID == bookID
	})
}

// AddBook appends a book snapshot if no snapshot of that book is present.
// Returns false if the book was already attached.
func (c *Collection) AddBook(ref BookRef) bool {
	if c.ContainsBook(ref.BookID) {
		return false
	}
	c.Books = append(c.Books, ref)
	return true
}

// RemoveBook removes the snapshot of the given book.
// Returns false if no snapshot of that book was attached.
func (c *Collection) RemoveBook(bookID string) bool {
	for i, ref := range c.Books {
		if ref.BookID == bookID {
			c.Books = append(c.Books[:i], c.Books[i+1:]...)
			return true
		}
	}
	return false
}
