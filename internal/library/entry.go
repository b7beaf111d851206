package library

import (
	"time"

	"github.com/google/uuid"

	"tomgalvin.uk/monobmp/bitmap"
)

// Entry is a named bitmap kept in the library.
type Entry struct {
	Id        int
	Uuid      uuid.UUID
	Name      string
	CreatedAt time.Time
	Width     int
	Height    int
	// Inverted records the palette order the bitmap was uploaded with.
	Inverted bool
	// Grid is nil for entries returned by List.
	Grid *bitmap.Grid
}
