package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/bingeclub/bingeclub-engine/pkg/apperrors"
	"github.com/bingeclub/bingeclub-engine/pkg/database"
	"github.com/bingeclub/bingeclub-engine/pkg/models"
)

// MovieRepository defines the interface for saved movie data access.
// Every operation is scoped by an explicit owner id; there is no ambient
// session state inside the store.
type MovieRepository interface {
	// Insert stores a new movie for its owner and fills in the generated id
	// and creation time. A duplicate (owner, imdb id) pair yields
	// apperrors.ErrConflict.
	Insert(ctx context.Context, movie *models.Movie) error
	// InsertRatings attaches rating rows to a saved movie.
	InsertRatings(ctx context.Context, movieID uuid.UUID, ownerID string, ratings []models.Rating) error
	// GetByOwner returns the owner's movies with their ratings, newest first.
	GetByOwner(ctx context.Context, ownerID string) ([]*models.Movie, error)
	// GetByIMDbID returns the owner's copy of a title with its ratings, or
	// nil when the owner has not saved it.
	GetByIMDbID(ctx context.Context, ownerID, imdbID string) (*models.Movie, error)
	// Delete removes a movie and its ratings, scoped to the owner. Deleting
	// a movie the owner does not have matches zero rows and is not an error.
	Delete(ctx context.Context, movieID uuid.UUID, ownerID string) error
	// Exists reports whether the owner has saved the title.
	Exists(ctx context.Context, ownerID, imdbID string) (bool, error)
}

// movieRepository implements MovieRepository using PostgreSQL.
type movieRepository struct {
	db *database.DB
}

// NewMovieRepository creates a new movie repository on the given pool.
func NewMovieRepository(db *database.DB) MovieRepository {
	return &movieRepository{db: db}
}

// Insert stores a new movie for its owner.
func (r *movieRepository) Insert(ctx context.Context, movie *models.Movie) error {
	query := `
		INSERT INTO movies (user_id, imdb_id, title, year, plot, poster_url,
			genre, director, actors, imdb_rating, imdb_votes, media_type)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING id, created_at`

	err := r.db.QueryRow(ctx, query,
		movie.UserID,
		movie.IMDbID,
		movie.Title,
		movie.Year,
		movie.Plot,
		movie.PosterURL,
		movie.Genre,
		movie.Director,
		movie.Actors,
		movie.IMDbRating,
		movie.IMDbVotes,
		movie.MediaType,
	).Scan(&movie.ID, &movie.CreatedAt)
	if err != nil {
		// The store's uniqueness constraint resolves the save race: the
		// losing insert surfaces as 23505.
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return apperrors.ErrConflict
		}
		return fmt.Errorf("failed to insert movie: %w", err)
	}

	return nil
}

// InsertRatings attaches rating rows to a saved movie.
func (r *movieRepository) InsertRatings(ctx context.Context, movieID uuid.UUID, ownerID string, ratings []models.Rating) error {
	if len(ratings) == 0 {
		return nil
	}

	query := `INSERT INTO ratings (movie_id, user_id, source, value) VALUES ($1, $2, $3, $4)`

	batch := &pgx.Batch{}
	for _, rating := range ratings {
		batch.Queue(query, movieID, ownerID, rating.Source, rating.Value)
	}

	results := r.db.SendBatch(ctx, batch)
	defer results.Close()

	for range ratings {
		if _, err := results.Exec(); err != nil {
			return fmt.Errorf("failed to insert ratings: %w", err)
		}
	}

	return nil
}

// GetByOwner returns the owner's movies with their ratings, newest first.
func (r *movieRepository) GetByOwner(ctx context.Context, ownerID string) ([]*models.Movie, error) {
	query := `
		SELECT id, user_id, imdb_id, title, year, plot, poster_url,
			genre, director, actors, imdb_rating, imdb_votes, media_type, created_at
		FROM movies
		WHERE user_id = $1
		ORDER BY created_at DESC`

	rows, err := r.db.Query(ctx, query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to get movies: %w", err)
	}
	defer rows.Close()

	var movies []*models.Movie
	byID := make(map[uuid.UUID]*models.Movie)
	for rows.Next() {
		var movie models.Movie
		if err := scanMovie(rows, &movie); err != nil {
			return nil, fmt.Errorf("failed to scan movie: %w", err)
		}
		movie.Ratings = []models.Rating{}
		movies = append(movies, &movie)
		byID[movie.ID] = &movie
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating movies: %w", err)
	}

	if len(movies) == 0 {
		return []*models.Movie{}, nil
	}

	if err := r.attachRatings(ctx, ownerID, byID); err != nil {
		return nil, err
	}

	return movies, nil
}

// GetByIMDbID returns the owner's copy of a title with its ratings.
func (r *movieRepository) GetByIMDbID(ctx context.Context, ownerID, imdbID string) (*models.Movie, error) {
	query := `
		SELECT id, user_id, imdb_id, title, year, plot, poster_url,
			genre, director, actors, imdb_rating, imdb_votes, media_type, created_at
		FROM movies
		WHERE user_id = $1 AND imdb_id = $2`

	row := r.db.QueryRow(ctx, query, ownerID, imdbID)

	var movie models.Movie
	if err := scanMovie(row, &movie); err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get movie: %w", err)
	}

	movie.Ratings = []models.Rating{}
	byID := map[uuid.UUID]*models.Movie{movie.ID: &movie}
	if err := r.attachRatings(ctx, ownerID, byID); err != nil {
		return nil, err
	}

	return &movie, nil
}

// Delete removes a movie and its ratings, scoped to the owner.
func (r *movieRepository) Delete(ctx context.Context, movieID uuid.UUID, ownerID string) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
		}
	}()

	// Ratings first so the FK never blocks the movie delete.
	_, err = tx.Exec(ctx,
		`DELETE FROM ratings WHERE movie_id = $1 AND user_id = $2`,
		movieID, ownerID)
	if err != nil {
		return fmt.Errorf("failed to delete ratings: %w", err)
	}

	_, err = tx.Exec(ctx,
		`DELETE FROM movies WHERE id = $1 AND user_id = $2`,
		movieID, ownerID)
	if err != nil {
		return fmt.Errorf("failed to delete movie: %w", err)
	}

	err = tx.Commit(ctx)
	if err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// Exists reports whether the owner has saved the title.
func (r *movieRepository) Exists(ctx context.Context, ownerID, imdbID string) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM movies WHERE user_id = $1 AND imdb_id = $2)`

	var exists bool
	if err := r.db.QueryRow(ctx, query, ownerID, imdbID).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check movie existence: %w", err)
	}

	return exists, nil
}

// attachRatings loads ratings for the given movies and attaches them.
func (r *movieRepository) attachRatings(ctx context.Context, ownerID string, byID map[uuid.UUID]*models.Movie) error {
	ids := make([]uuid.UUID, 0, len(byID))
	for id := range byID {
		ids = append(ids, id)
	}

	query := `
		SELECT id, movie_id, user_id, source, value
		FROM ratings
		WHERE movie_id = ANY($1) AND user_id = $2
		ORDER BY id`

	rows, err := r.db.Query(ctx, query, ids, ownerID)
	if err != nil {
		return fmt.Errorf("failed to get ratings: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var rating models.Rating
		if err := rows.Scan(&rating.ID, &rating.MovieID, &rating.UserID, &rating.Source, &rating.Value); err != nil {
			return fmt.Errorf("failed to scan rating: %w", err)
		}
		if movie, ok := byID[rating.MovieID]; ok {
			movie.Ratings = append(movie.Ratings, rating)
		}
	}

	if err := rows.Err(); err != nil {
		return fmt.Errorf("error iterating ratings: %w", err)
	}

	return nil
}

// scanMovie scans one movies row into the given model.
func scanMovie(row pgx.Row, movie *models.Movie) error {
	return row.Scan(
		&movie.ID,
		&movie.UserID,
		&movie.IMDbID,
		&movie.Title,
		&movie.Year,
		&movie.Plot,
		&movie.PosterURL,
		&movie.Genre,
		&movie.Director,
		&movie.Actors,
		&movie.IMDbRating,
		&movie.IMDbVotes,
		&movie.MediaType,
		&movie.CreatedAt,
	)
}

// isNoRows reports whether err is pgx's no-rows sentinel.
func isNoRows(err error) bool {
	return errors.Is(err, pgx.ErrNoRows)
}

// Ensure movieRepository implements MovieRepository at compile time.
var _ MovieRepository = (*movieRepository)(nil)
