package services

import (
	"context"

	"github.com/google/uuid"

	"github.com/bingeclub/bingeclub-engine/pkg/apperrors"
	"github.com/bingeclub/bingeclub-engine/pkg/models"
)

// mockMovieRepository is an in-memory MovieRepository with error injection.
type mockMovieRepository struct {
	movies  map[string]*models.Movie // keyed by owner + "|" + imdb id
	ratings map[uuid.UUID][]models.Rating

	insertErr  error
	ratingsErr error
	getErr     error
	deleteErr  error
	existsErr  error

	// insertConflictWith simulates a concurrent writer: the next Insert
	// stores this record and fails with ErrConflict.
	insertConflictWith *models.Movie

	deleteCalls []string // "movieID|ownerID"
}

func newMockMovieRepository() *mockMovieRepository {
	return &mockMovieRepository{
		movies:  make(map[string]*models.Movie),
		ratings: make(map[uuid.UUID][]models.Rating),
	}
}

func movieKey(ownerID, imdbID string) string {
	return ownerID + "|" + imdbID
}

func (m *mockMovieRepository) Insert(ctx context.Context, movie *models.Movie) error {
	if m.insertConflictWith != nil {
		winner := m.insertConflictWith
		m.insertConflictWith = nil
		m.movies[movieKey(winner.UserID, winner.IMDbID)] = winner
		return apperrors.ErrConflict
	}
	if m.insertErr != nil {
		return m.insertErr
	}
	if _, ok := m.movies[movieKey(movie.UserID, movie.IMDbID)]; ok {
		return apperrors.ErrConflict
	}
	movie.ID = uuid.New()
	m.movies[movieKey(movie.UserID, movie.IMDbID)] = movie
	return nil
}

func (m *mockMovieRepository) InsertRatings(ctx context.Context, movieID uuid.UUID, ownerID string, ratings []models.Rating) error {
	if m.ratingsErr != nil {
		return m.ratingsErr
	}
	m.ratings[movieID] = append(m.ratings[movieID], ratings...)
	return nil
}

func (m *mockMovieRepository) GetByOwner(ctx context.Context, ownerID string) ([]*models.Movie, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	out := []*models.Movie{}
	for _, movie := range m.movies {
		if movie.UserID == ownerID {
			out = append(out, movie)
		}
	}
	return out, nil
}

func (m *mockMovieRepository) GetByIMDbID(ctx context.Context, ownerID, imdbID string) (*models.Movie, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	movie, ok := m.movies[movieKey(ownerID, imdbID)]
	if !ok {
		return nil, nil
	}
	return movie, nil
}

func (m *mockMovieRepository) Delete(ctx context.Context, movieID uuid.UUID, ownerID string) error {
	m.deleteCalls = append(m.deleteCalls, movieID.String()+"|"+ownerID)
	if m.deleteErr != nil {
		return m.deleteErr
	}
	for key, movie := range m.movies {
		if movie.ID == movieID && movie.UserID == ownerID {
			delete(m.movies, key)
			delete(m.ratings, movieID)
		}
	}
	return nil
}

func (m *mockMovieRepository) Exists(ctx context.Context, ownerID, imdbID string) (bool, error) {
	if m.existsErr != nil {
		return false, m.existsErr
	}
	_, ok := m.movies[movieKey(ownerID, imdbID)]
	return ok, nil
}

// mockUserRepository is an in-memory UserRepository with error injection.
type mockUserRepository struct {
	profiles  map[string]*models.UserProfile
	upsertErr error
}

func newMockUserRepository() *mockUserRepository {
	return &mockUserRepository{profiles: make(map[string]*models.UserProfile)}
}

func (m *mockUserRepository) Upsert(ctx context.Context, profile *models.UserProfile) error {
	if m.upsertErr != nil {
		return m.upsertErr
	}
	m.profiles[profile.UserID] = profile
	return nil
}

func (m *mockUserRepository) GetByID(ctx context.Context, userID string) (*models.UserProfile, error) {
	return m.profiles[userID], nil
}

// mockHistoryRepository is an in-memory SearchHistoryRepository with error
// injection.
type mockHistoryRepository struct {
	entries   []*models.SearchHistoryEntry
	appendErr error
	getErr    error
}

func (m *mockHistoryRepository) Append(ctx context.Context, entry *models.SearchHistoryEntry) error {
	if m.appendErr != nil {
		return m.appendErr
	}
	entry.ID = int64(len(m.entries) + 1)
	m.entries = append(m.entries, entry)
	return nil
}

func (m *mockHistoryRepository) GetByOwner(ctx context.Context, ownerID string, limit int) ([]*models.SearchHistoryEntry, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	out := []*models.SearchHistoryEntry{}
	for i := len(m.entries) - 1; i >= 0 && len(out) < limit; i-- {
		if m.entries[i].UserID == ownerID {
			out = append(out, m.entries[i])
		}
	}
	return out, nil
}

// mockLookupClient is a configurable metadata oracle.
type mockLookupClient struct {
	meta *models.MovieMetadata
	err  error

	gotTitle string
}

func (m *mockLookupClient) LookupByTitle(ctx context.Context, title string) (*models.MovieMetadata, error) {
	m.gotTitle = title
	if m.err != nil {
		return nil, m.err
	}
	return m.meta, nil
}
