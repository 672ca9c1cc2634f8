// Package genre holds the built-in genre vocabulary seeded on first run.
package genre

// Defaults is the starter vocabulary. Users can rename or delete these
// after setup; seeding skips names that already exist.
var Defaults = []string{
	"Fiction",
	"Fantasy",
	"Mystery",
	"Thriller",
	"Romance",
	"Horror",
	"Biography",
	"History",
	"Poetry",
	"Science",
	"Adventure",
	"Philosophy",
}
