// Package services holds the application logic between the HTTP handlers and
// the persistence store and lookup oracle.
package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/bingeclub/bingeclub-engine/pkg/apperrors"
	"github.com/bingeclub/bingeclub-engine/pkg/auth"
	"github.com/bingeclub/bingeclub-engine/pkg/models"
	"github.com/bingeclub/bingeclub-engine/pkg/omdb"
	"github.com/bingeclub/bingeclub-engine/pkg/repositories"
)

// SaveResult reports the outcome of a save operation. Created is false when
// the owner had already saved the title; that is a success, not an error.
type SaveResult struct {
	Movie   *models.Movie
	Created bool
}

// MovieService defines the operations the movie handlers expose. The caller
// identity is always an explicit argument; nothing here reads ambient user
// state.
type MovieService interface {
	// Search looks a title up with the metadata oracle and appends a search
	// history entry (best-effort).
	Search(ctx context.Context, identity auth.Identity, title string) (*models.MovieMetadata, error)
	// Save persists a title for the caller. Saving the same title twice
	// yields the existing record with Created=false.
	Save(ctx context.Context, identity auth.Identity, meta *models.MovieMetadata) (*SaveResult, error)
	// List returns the caller's saved movies, newest first.
	List(ctx context.Context, identity auth.Identity) ([]*models.Movie, error)
	// Delete removes one of the caller's saved movies. An id the caller does
	// not own is a no-op.
	Delete(ctx context.Context, identity auth.Identity, movieID uuid.UUID) error
	// Exists reports whether the caller has saved the title.
	Exists(ctx context.Context, identity auth.Identity, imdbID string) (bool, error)
	// History returns the caller's recent searches, newest first.
	History(ctx context.Context, identity auth.Identity, limit int) ([]*models.SearchHistoryEntry, error)
}

// DefaultHistoryLimit is the number of history entries returned when the
// caller does not ask for a specific limit.
const DefaultHistoryLimit = 10

// movieService implements MovieService.
type movieService struct {
	movies  repositories.MovieRepository
	users   repositories.UserRepository
	history repositories.SearchHistoryRepository
	lookup  omdb.Client
	logger  *zap.Logger
}

// NewMovieService creates a MovieService over the given repositories and
// lookup client.
func NewMovieService(
	movies repositories.MovieRepository,
	users repositories.UserRepository,
	history repositories.SearchHistoryRepository,
	lookup omdb.Client,
	logger *zap.Logger,
) MovieService {
	return &movieService{
		movies:  movies,
		users:   users,
		history: history,
		lookup:  lookup,
		logger:  logger,
	}
}

// Search looks a title up and records it in the caller's history.
func (s *movieService) Search(ctx context.Context, identity auth.Identity, title string) (*models.MovieMetadata, error) {
	meta, err := s.lookup.LookupByTitle(ctx, title)
	if err != nil {
		return nil, err
	}

	s.recordSearch(ctx, identity, title, meta.IMDbID)

	return meta, nil
}

// recordSearch appends a history entry. Failures are logged and swallowed so
// they never block the search itself.
func (s *movieService) recordSearch(ctx context.Context, identity auth.Identity, title, imdbID string) {
	entry := &models.SearchHistoryEntry{
		UserID: identity.UserID,
		Query:  title,
	}

	// Point the entry at the caller's saved copy of the title, if any. The
	// reference is weak; a later delete leaves it dangling.
	if saved, err := s.movies.GetByIMDbID(ctx, identity.UserID, imdbID); err != nil {
		s.logger.Warn("Failed to resolve saved movie for search history",
			zap.String("user_id", identity.UserID),
			zap.Error(err))
	} else if saved != nil {
		entry.MovieID = &saved.ID
	}

	if err := s.history.Append(ctx, entry); err != nil {
		s.logger.Warn("Failed to append search history",
			zap.String("user_id", identity.UserID),
			zap.String("query", title),
			zap.Error(err))
	}
}

// Save persists a title for the caller.
func (s *movieService) Save(ctx context.Context, identity auth.Identity, meta *models.MovieMetadata) (*SaveResult, error) {
	profile := &models.UserProfile{
		UserID:      identity.UserID,
		Email:       identity.Email,
		DisplayName: identity.Name,
		AvatarURL:   identity.Picture,
	}
	if err := s.users.Upsert(ctx, profile); err != nil {
		return nil, fmt.Errorf("upsert user profile: %w", err)
	}

	existing, err := s.movies.GetByIMDbID(ctx, identity.UserID, meta.IMDbID)
	if err != nil {
		return nil, fmt.Errorf("check existing movie: %w", err)
	}
	if existing != nil {
		return &SaveResult{Movie: existing, Created: false}, nil
	}

	movie := &models.Movie{
		UserID:     identity.UserID,
		IMDbID:     meta.IMDbID,
		Title:      meta.Title,
		Year:       meta.Year,
		Plot:       meta.Plot,
		PosterURL:  meta.Poster,
		Genre:      meta.Genre,
		Director:   meta.Director,
		Actors:     meta.Actors,
		IMDbRating: meta.IMDbRating,
		IMDbVotes:  meta.IMDbVotes,
		MediaType:  meta.MediaType,
		Ratings:    []models.Rating{},
	}

	if err := s.movies.Insert(ctx, movie); err != nil {
		// Two concurrent saves can both pass the existence check; the store's
		// uniqueness constraint picks the winner and the loser lands here.
		if errors.Is(err, apperrors.ErrConflict) {
			existing, lookupErr := s.movies.GetByIMDbID(ctx, identity.UserID, meta.IMDbID)
			if lookupErr != nil {
				return nil, fmt.Errorf("fetch movie after save race: %w", lookupErr)
			}
			if existing == nil {
				return nil, fmt.Errorf("movie vanished after save race")
			}
			return &SaveResult{Movie: existing, Created: false}, nil
		}
		return nil, fmt.Errorf("insert movie: %w", err)
	}

	// A ratings failure does not roll back the movie: the title counts as
	// saved even when its ratings are not.
	if err := s.movies.InsertRatings(ctx, movie.ID, identity.UserID, meta.Ratings); err != nil {
		s.logger.Warn("Failed to insert ratings for saved movie",
			zap.String("user_id", identity.UserID),
			zap.String("imdb_id", meta.IMDbID),
			zap.Error(err))
	} else {
		movie.Ratings = meta.Ratings
	}

	return &SaveResult{Movie: movie, Created: true}, nil
}

// List returns the caller's saved movies, newest first.
func (s *movieService) List(ctx context.Context, identity auth.Identity) ([]*models.Movie, error) {
	return s.movies.GetByOwner(ctx, identity.UserID)
}

// Delete removes one of the caller's saved movies.
func (s *movieService) Delete(ctx context.Context, identity auth.Identity, movieID uuid.UUID) error {
	return s.movies.Delete(ctx, movieID, identity.UserID)
}

// Exists reports whether the caller has saved the title.
func (s *movieService) Exists(ctx context.Context, identity auth.Identity, imdbID string) (bool, error) {
	return s.movies.Exists(ctx, identity.UserID, imdbID)
}

// History returns the caller's recent searches, newest first.
func (s *movieService) History(ctx context.Context, identity auth.Identity, limit int) ([]*models.SearchHistoryEntry, error) {
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}
	return s.history.GetByOwner(ctx, identity.UserID, limit)
}

// Ensure movieService implements MovieService at compile time.
var _ MovieService = (*movieService)(nil)
