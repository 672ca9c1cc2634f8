package domain

import "time"

// Genre is a named category for classifying books. Names are unique.
type Genre struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// InitTimestamps sets creation and update times for a new genre.
func (g *Genre) InitTimestamps() {
	now := time.Now()
	g.CreatedAt = now
	g.UpdatedAt = now
}

// Touch updates the modification timestamp.
func (g *Genre) Touch() {
	g.UpdatedAt = time.Now()
}
