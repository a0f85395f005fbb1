package repositories

import (
	"context"
	"fmt"

	"github.com/bingeclub/bingeclub-engine/pkg/database"
	"github.com/bingeclub/bingeclub-engine/pkg/models"
)

// SearchHistoryRepository defines the interface for the append-only search
// log. Writes here are best-effort from the caller's point of view: the
// service layer logs and swallows failures.
type SearchHistoryRepository interface {
	// Append records one search, filling in the generated id and timestamp.
	Append(ctx context.Context, entry *models.SearchHistoryEntry) error
	// GetByOwner returns the owner's searches, newest first, each joined
	// with the referenced movie's display columns when the weak reference
	// still resolves.
	GetByOwner(ctx context.Context, ownerID string, limit int) ([]*models.SearchHistoryEntry, error)
}

// searchHistoryRepository implements SearchHistoryRepository using PostgreSQL.
type searchHistoryRepository struct {
	db *database.DB
}

// NewSearchHistoryRepository creates a new search history repository.
func NewSearchHistoryRepository(db *database.DB) SearchHistoryRepository {
	return &searchHistoryRepository{db: db}
}

// Append records one search.
func (r *searchHistoryRepository) Append(ctx context.Context, entry *models.SearchHistoryEntry) error {
	query := `
		INSERT INTO search_history (user_id, query, movie_id)
		VALUES ($1, $2, $3)
		RETURNING id, searched_at`

	err := r.db.QueryRow(ctx, query, entry.UserID, entry.Query, entry.MovieID).
		Scan(&entry.ID, &entry.SearchedAt)
	if err != nil {
		return fmt.Errorf("failed to append search history: %w", err)
	}

	return nil
}

// GetByOwner returns the owner's searches, newest first.
func (r *searchHistoryRepository) GetByOwner(ctx context.Context, ownerID string, limit int) ([]*models.SearchHistoryEntry, error) {
	// LEFT JOIN: the movie reference is weak and may dangle after a delete.
	query := `
		SELECT h.id, h.user_id, h.query, h.movie_id, h.searched_at,
			m.title, m.year, m.poster_url
		FROM search_history h
		LEFT JOIN movies m ON m.id = h.movie_id AND m.user_id = h.user_id
		WHERE h.user_id = $1
		ORDER BY h.searched_at DESC, h.id DESC
		LIMIT $2`

	rows, err := r.db.Query(ctx, query, ownerID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get search history: %w", err)
	}
	defer rows.Close()

	var entries []*models.SearchHistoryEntry
	for rows.Next() {
		var entry models.SearchHistoryEntry
		var title, year, posterURL *string
		err := rows.Scan(
			&entry.ID,
			&entry.UserID,
			&entry.Query,
			&entry.MovieID,
			&entry.SearchedAt,
			&title,
			&year,
			&posterURL,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan search history entry: %w", err)
		}

		if title != nil {
			entry.Movie = &models.HistoryMovie{
				Title:     *title,
				Year:      deref(year),
				PosterURL: deref(posterURL),
			}
		}
		entries = append(entries, &entry)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating search history: %w", err)
	}

	if entries == nil {
		entries = []*models.SearchHistoryEntry{}
	}

	return entries, nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// Ensure searchHistoryRepository implements SearchHistoryRepository at compile time.
var _ SearchHistoryRepository = (*searchHistoryRepository)(nil)
