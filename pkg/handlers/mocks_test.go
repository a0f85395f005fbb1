package handlers

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"github.com/bingeclub/bingeclub-engine/pkg/auth"
	"github.com/bingeclub/bingeclub-engine/pkg/models"
	"github.com/bingeclub/bingeclub-engine/pkg/services"
)

// mockAuthService authenticates every request as a fixed identity, or fails
// every request when err is set.
type mockAuthService struct {
	identity auth.Identity
	err      error
}

func (m *mockAuthService) ValidateRequest(r *http.Request) (auth.Identity, error) {
	if m.err != nil {
		return auth.Identity{}, m.err
	}
	return m.identity, nil
}

// mockMovieService is a configurable MovieService for handler tests.
type mockMovieService struct {
	searchMeta    *models.MovieMetadata
	searchErr     error
	saveResult    *services.SaveResult
	saveErr       error
	listMovies    []*models.Movie
	listErr       error
	deleteErr     error
	exists        bool
	existsErr     error
	historyEntries []*models.SearchHistoryEntry
	historyErr    error

	calls        int
	gotIdentity  auth.Identity
	gotTitle     string
	gotMeta      *models.MovieMetadata
	gotMovieID   uuid.UUID
	gotIMDbID    string
	gotLimit     int
}

func (m *mockMovieService) Search(ctx context.Context, identity auth.Identity, title string) (*models.MovieMetadata, error) {
	m.calls++
	m.gotIdentity = identity
	m.gotTitle = title
	if m.searchErr != nil {
		return nil, m.searchErr
	}
	return m.searchMeta, nil
}

func (m *mockMovieService) Save(ctx context.Context, identity auth.Identity, meta *models.MovieMetadata) (*services.SaveResult, error) {
	m.calls++
	m.gotIdentity = identity
	m.gotMeta = meta
	if m.saveErr != nil {
		return nil, m.saveErr
	}
	return m.saveResult, nil
}

func (m *mockMovieService) List(ctx context.Context, identity auth.Identity) ([]*models.Movie, error) {
	m.calls++
	m.gotIdentity = identity
	if m.listErr != nil {
		return nil, m.listErr
	}
	return m.listMovies, nil
}

func (m *mockMovieService) Delete(ctx context.Context, identity auth.Identity, movieID uuid.UUID) error {
	m.calls++
	m.gotIdentity = identity
	m.gotMovieID = movieID
	return m.deleteErr
}

func (m *mockMovieService) Exists(ctx context.Context, identity auth.Identity, imdbID string) (bool, error) {
	m.calls++
	m.gotIdentity = identity
	m.gotIMDbID = imdbID
	if m.existsErr != nil {
		return false, m.existsErr
	}
	return m.exists, nil
}

func (m *mockMovieService) History(ctx context.Context, identity auth.Identity, limit int) ([]*models.SearchHistoryEntry, error) {
	m.calls++
	m.gotIdentity = identity
	m.gotLimit = limit
	if m.historyErr != nil {
		return nil, m.historyErr
	}
	return m.historyEntries, nil
}
