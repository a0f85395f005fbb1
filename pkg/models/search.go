package models

import (
	"time"

	"github.com/google/uuid"
)

// SearchHistoryEntry is one append-only record of a user's search. MovieID is
// a weak reference to the user's saved copy of the title; it may be nil and
// may dangle after the movie is deleted.
type SearchHistoryEntry struct {
	ID         int64         `json:"id"`
	UserID     string        `json:"user_id"`
	Query      string        `json:"query"`
	MovieID    *uuid.UUID    `json:"movie_id,omitempty"`
	SearchedAt time.Time     `json:"searched_at"`
	Movie      *HistoryMovie `json:"movie,omitempty"`
}

// HistoryMovie carries the denormalized movie columns joined onto a history
// entry when the weak reference still resolves.
type HistoryMovie struct {
	Title     string `json:"title"`
	Year      string `json:"year"`
	PosterURL string `json:"poster_url"`
}
