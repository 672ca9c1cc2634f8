package domain

import "time"

// Book is a standalone catalog entity. Books are not owned by anyone;
// the current policy leaves the catalog globally readable and writable.
type Book struct {
	ID         string    `json:"id"`
	Title      string    `json:"title"`
	Author     string    `json:"author,omitempty"`
	Publisher  string    `json:"publisher,omitempty"`
	Year       int       `json:"year,omitempty"`
	Genre      string    `json:"genre,omitempty"`
	Volume     int       `json:"volume,omitempty"`
	PageNumber int       `json:"page_number,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// InitTimestamps sets creation and update times for a new book.
func (b *Book) InitTimestamps() {
	now := time.Now()
	b.CreatedAt = now
	b.UpdatedAt = now
}

// Touch updates the modification timestamp.
func (b *Book) Touch() {
	b.UpdatedAt = time.Now()
}

// Snapshot returns the denormalized copy of the book that gets embedded
// in a collection. Later edits to the catalog book do not propagate to
// snapshots already embedded; that staleness is accepted.
func (b *Book) Snapshot() BookRef {
	return BookRef{
		BookID:     b.ID,
		Title:      b.Title,
		Author:     b.Author,
		Publisher:  b.Publisher,
		Year:       b.Year,
		Genre:      b.Genre,
		Volume:     b.Volume,
		PageNumber: b.PageNumber,
		AddedAt:    time.Now(),
	}
}
