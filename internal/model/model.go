// Package model holds the JSON shapes exchanged with HTTP clients.
package model

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"tomgalvin.uk/monobmp/bitmap"
	"tomgalvin.uk/monobmp/internal/library"
)

// GridRequest is a bitmap sent by a client: row-major pixel values, top row
// first, each 0 or 1.
type GridRequest struct {
	Width    int   `json:"width"`
	Data     []int `json:"data"`
	Inverted bool  `json:"inverted"`
}

type GridResponse struct {
	Width    int   `json:"width"`
	Height   int   `json:"height"`
	Data     []int `json:"data"`
	Inverted bool  `json:"inverted"`
}

type EntryResponse struct {
	Uuid      uuid.UUID `json:"uuid"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"createdAt"`
	Width     int       `json:"width"`
	Height    int       `json:"height"`
	Inverted  bool      `json:"inverted"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}

// GridFromRequest validates the request's pixels and builds a grid from them.
func GridFromRequest(r *GridRequest) (*bitmap.Grid, error) {
	data := make([]bool, len(r.Data))
	for i, v := range r.Data {
		switch v {
		case 0:
		case 1:
			data[i] = true
		default:
			return nil, fmt.Errorf("%w: pixel %d has value %d, expecting 0 or 1", bitmap.ErrData, i, v)
		}
	}
	return bitmap.New(data, r.Width)
}

func FromGrid(g *bitmap.Grid, inverted bool) GridResponse {
	data := make([]int, 0, g.Width()*g.Height())
	for _, p := range g.Data() {
		if p {
			data = append(data, 1)
		} else {
			data = append(data, 0)
		}
	}
	return GridResponse{
		Width:    g.Width(),
		Height:   g.Height(),
		Data:     data,
		Inverted: inverted,
	}
}

func FromEntry(e *library.Entry) EntryResponse {
	return EntryResponse{
		Uuid:      e.Uuid,
		Name:      e.Name,
		CreatedAt: e.CreatedAt,
		Width:     e.Width,
		Height:    e.Height,
		Inverted:  e.Inverted,
	}
}
