package models

import (
	"time"

	"github.com/google/uuid"
)

// Movie is a saved title owned by a single user. The pair (UserID, IMDbID)
// is unique: a user cannot save the same title twice.
type Movie struct {
	ID         uuid.UUID `json:"id"`
	UserID     string    `json:"user_id"`
	IMDbID     string    `json:"imdb_id"`
	Title      string    `json:"title"`
	Year       string    `json:"year"`
	Plot       string    `json:"plot"`
	PosterURL  string    `json:"poster_url"`
	Genre      string    `json:"genre"`
	Director   string    `json:"director"`
	Actors     string    `json:"actors"`
	IMDbRating string    `json:"imdb_rating"`
	IMDbVotes  string    `json:"imdb_votes"`
	MediaType  string    `json:"media_type"`
	CreatedAt  time.Time `json:"created_at"`
	Ratings    []Rating  `json:"ratings"`
}

// Rating is a single review-source score attached to a saved movie.
// Ratings are owned by their movie and deleted with it.
type Rating struct {
	ID      int64     `json:"-"`
	MovieID uuid.UUID `json:"-"`
	UserID  string    `json:"-"`
	Source  string    `json:"Source"`
	Value   string    `json:"Value"`
}

// MovieMetadata is the normalized metadata record returned by search and
// accepted by save. Field names mirror what browser clients already exchange.
type MovieMetadata struct {
	Title      string   `json:"title"`
	Year       string   `json:"year"`
	Plot       string   `json:"plot"`
	Ratings    []Rating `json:"ratings"`
	Genre      string   `json:"genre"`
	Director   string   `json:"director"`
	Actors     string   `json:"actors"`
	IMDbRating string   `json:"imdbRating"`
	IMDbVotes  string   `json:"imdbVotes"`
	MediaType  string   `json:"type"`
	Poster     string   `json:"poster"`
	IMDbID     string   `json:"imdbID"`
}
