package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/bingeclub/bingeclub-engine/pkg/database"
	"github.com/bingeclub/bingeclub-engine/pkg/models"
)

// UserRepository defines the interface for user profile data access.
type UserRepository interface {
	// Upsert creates the profile on first save and refreshes the display
	// fields on every subsequent one.
	Upsert(ctx context.Context, profile *models.UserProfile) error
	// GetByID retrieves a profile, or nil when none exists.
	GetByID(ctx context.Context, userID string) (*models.UserProfile, error)
}

// userRepository implements UserRepository using PostgreSQL.
type userRepository struct {
	db *database.DB
}

// NewUserRepository creates a new user repository on the given pool.
func NewUserRepository(db *database.DB) UserRepository {
	return &userRepository{db: db}
}

// Upsert creates or refreshes a user profile.
func (r *userRepository) Upsert(ctx context.Context, profile *models.UserProfile) error {
	now := time.Now()

	query := `
		INSERT INTO user_profiles (user_id, email, display_name, avatar_url, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $5)
		ON CONFLICT (user_id) DO UPDATE
		SET email = EXCLUDED.email,
		    display_name = EXCLUDED.display_name,
		    avatar_url = EXCLUDED.avatar_url,
		    updated_at = EXCLUDED.updated_at`

	_, err := r.db.Exec(ctx, query,
		profile.UserID,
		profile.Email,
		profile.DisplayName,
		profile.AvatarURL,
		now,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert user profile: %w", err)
	}

	return nil
}

// GetByID retrieves a profile by user id. Absence is not an error.
func (r *userRepository) GetByID(ctx context.Context, userID string) (*models.UserProfile, error) {
	query := `
		SELECT user_id, email, display_name, avatar_url, created_at, updated_at
		FROM user_profiles
		WHERE user_id = $1`

	var profile models.UserProfile
	err := r.db.QueryRow(ctx, query, userID).Scan(
		&profile.UserID,
		&profile.Email,
		&profile.DisplayName,
		&profile.AvatarURL,
		&profile.CreatedAt,
		&profile.UpdatedAt,
	)
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get user profile: %w", err)
	}

	return &profile, nil
}

// Ensure userRepository implements UserRepository at compile time.
var _ UserRepository = (*userRepository)(nil)
