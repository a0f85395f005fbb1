//go:build integration

package repositories

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"

	"github.com/bingeclub/bingeclub-engine/pkg/apperrors"
	"github.com/bingeclub/bingeclub-engine/pkg/models"
	"github.com/bingeclub/bingeclub-engine/pkg/testhelpers"
)

// movieTestContext holds test dependencies for movie repository tests.
type movieTestContext struct {
	t      *testing.T
	testDB *testhelpers.TestDB
	repo   MovieRepository
}

// setupMovieTest initializes the test context with the shared testcontainer.
func setupMovieTest(t *testing.T) *movieTestContext {
	testDB := testhelpers.GetTestDB(t)
	testDB.TruncateAll(t)
	return &movieTestContext{
		t:      t,
		testDB: testDB,
		repo:   NewMovieRepository(testDB.DB),
	}
}

// insertMovie stores a movie and fails the test on error.
func (tc *movieTestContext) insertMovie(ctx context.Context, ownerID, imdbID, title string) *models.Movie {
	tc.t.Helper()
	movie := &models.Movie{
		UserID: ownerID,
		IMDbID: imdbID,
		Title:  title,
		Year:   "2010",
	}
	if err := tc.repo.Insert(ctx, movie); err != nil {
		tc.t.Fatalf("Insert failed: %v", err)
	}
	return movie
}

func TestMovieRepository_InsertFillsGeneratedColumns(t *testing.T) {
	tc := setupMovieTest(t)
	ctx := context.Background()

	movie := tc.insertMovie(ctx, "user-1", "tt1375666", "Inception")

	if movie.ID == uuid.Nil {
		t.Error("expected generated id")
	}
	if movie.CreatedAt.IsZero() {
		t.Error("expected created_at to be set")
	}
}

func TestMovieRepository_DuplicateInsertIsConflict(t *testing.T) {
	tc := setupMovieTest(t)
	ctx := context.Background()

	tc.insertMovie(ctx, "user-1", "tt1375666", "Inception")

	dup := &models.Movie{UserID: "user-1", IMDbID: "tt1375666", Title: "Inception"}
	err := tc.repo.Insert(ctx, dup)
	if !errors.Is(err, apperrors.ErrConflict) {
		t.Fatalf("expected ErrConflict, got %v", err)
	}
}

func TestMovieRepository_SameTitleDifferentOwners(t *testing.T) {
	tc := setupMovieTest(t)
	ctx := context.Background()

	tc.insertMovie(ctx, "user-1", "tt1375666", "Inception")
	tc.insertMovie(ctx, "user-2", "tt1375666", "Inception")

	for _, owner := range []string{"user-1", "user-2"} {
		exists, err := tc.repo.Exists(ctx, owner, "tt1375666")
		if err != nil {
			t.Fatalf("Exists failed: %v", err)
		}
		if !exists {
			t.Errorf("expected %s to have the title", owner)
		}
	}
}

func TestMovieRepository_GetByOwner_NewestFirstWithRatings(t *testing.T) {
	tc := setupMovieTest(t)
	ctx := context.Background()

	first := tc.insertMovie(ctx, "user-1", "tt1375666", "Inception")
	second := tc.insertMovie(ctx, "user-1", "tt0816692", "Interstellar")
	tc.insertMovie(ctx, "user-2", "tt0133093", "The Matrix")

	ratings := []models.Rating{
		{Source: "Internet Movie Database", Value: "8.8/10"},
		{Source: "Rotten Tomatoes", Value: "87%"},
	}
	if err := tc.repo.InsertRatings(ctx, first.ID, "user-1", ratings); err != nil {
		t.Fatalf("InsertRatings failed: %v", err)
	}

	movies, err := tc.repo.GetByOwner(ctx, "user-1")
	if err != nil {
		t.Fatalf("GetByOwner failed: %v", err)
	}
	if len(movies) != 2 {
		t.Fatalf("expected 2 movies, got %d", len(movies))
	}
	if movies[0].IMDbID != second.IMDbID {
		t.Errorf("expected newest movie first, got %s", movies[0].IMDbID)
	}
	if len(movies[1].Ratings) != 2 {
		t.Errorf("expected 2 ratings on %s, got %d", movies[1].Title, len(movies[1].Ratings))
	}
	if len(movies[0].Ratings) != 0 {
		t.Errorf("expected empty ratings slice, got %d", len(movies[0].Ratings))
	}
}

func TestMovieRepository_GetByOwner_Empty(t *testing.T) {
	tc := setupMovieTest(t)

	movies, err := tc.repo.GetByOwner(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("GetByOwner failed: %v", err)
	}
	if movies == nil {
		t.Fatal("expected empty slice, got nil")
	}
	if len(movies) != 0 {
		t.Errorf("expected 0 movies, got %d", len(movies))
	}
}

func TestMovieRepository_GetByIMDbID(t *testing.T) {
	tc := setupMovieTest(t)
	ctx := context.Background()

	saved := tc.insertMovie(ctx, "user-1", "tt1375666", "Inception")

	got, err := tc.repo.GetByIMDbID(ctx, "user-1", "tt1375666")
	if err != nil {
		t.Fatalf("GetByIMDbID failed: %v", err)
	}
	if got == nil || got.ID != saved.ID {
		t.Fatalf("expected saved movie back, got %+v", got)
	}

	// Another owner's copy is invisible.
	got, err = tc.repo.GetByIMDbID(ctx, "user-2", "tt1375666")
	if err != nil {
		t.Fatalf("GetByIMDbID failed: %v", err)
	}
	if got != nil {
		t.Errorf("expected nil for other owner, got %+v", got)
	}
}

func TestMovieRepository_Delete_RemovesMovieAndRatings(t *testing.T) {
	tc := setupMovieTest(t)
	ctx := context.Background()

	movie := tc.insertMovie(ctx, "user-1", "tt1375666", "Inception")
	err := tc.repo.InsertRatings(ctx, movie.ID, "user-1",
		[]models.Rating{{Source: "Metacritic", Value: "74/100"}})
	if err != nil {
		t.Fatalf("InsertRatings failed: %v", err)
	}

	if err := tc.repo.Delete(ctx, movie.ID, "user-1"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}

	exists, err := tc.repo.Exists(ctx, "user-1", "tt1375666")
	if err != nil {
		t.Fatalf("Exists failed: %v", err)
	}
	if exists {
		t.Error("expected movie to be gone")
	}

	var ratingCount int
	err = tc.testDB.DB.QueryRow(ctx,
		"SELECT COUNT(*) FROM ratings WHERE movie_id = $1", movie.ID).Scan(&ratingCount)
	if err != nil {
		t.Fatalf("rating count query failed: %v", err)
	}
	if ratingCount != 0 {
		t.Errorf("expected 0 ratings after delete, got %d", ratingCount)
	}
}

func TestMovieRepository_Delete_OtherOwnerIsNoop(t *testing.T) {
	tc := setupMovieTest(t)
	ctx := context.Background()

	movie := tc.insertMovie(ctx, "user-1", "tt1375666", "Inception")

	if err := tc.repo.Delete(ctx, movie.ID, "user-2"); err != nil {
		t.Fatalf("Delete for other owner failed: %v", err)
	}

	exists, err := tc.repo.Exists(ctx, "user-1", "tt1375666")
	if err != nil {
		t.Fatalf("Exists failed: %v", err)
	}
	if !exists {
		t.Error("expected owner's movie to survive another owner's delete")
	}
}

func TestMovieRepository_Delete_AbsentIDIsNoop(t *testing.T) {
	tc := setupMovieTest(t)

	if err := tc.repo.Delete(context.Background(), uuid.New(), "user-1"); err != nil {
		t.Fatalf("Delete of absent id failed: %v", err)
	}
}

func TestMovieRepository_Exists_ScopedToOwner(t *testing.T) {
	tc := setupMovieTest(t)
	ctx := context.Background()

	tc.insertMovie(ctx, "user-1", "tt1375666", "Inception")

	exists, err := tc.repo.Exists(ctx, "user-2", "tt1375666")
	if err != nil {
		t.Fatalf("Exists failed: %v", err)
	}
	if exists {
		t.Error("expected another owner's save to be invisible")
	}
}
