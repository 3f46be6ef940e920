package testhelpers

import (
	"fmt"
	"testing"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/personascape/backend/internal/models"
)

// CreateTestUser inserts a user with a bcrypt-hashed password.
func CreateTestUser(t *testing.T, db *gorm.DB, username string) *models.User {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}

	user := &models.User{
		Username:     username,
		Email:        fmt.Sprintf("%s@example.com", username),
		PasswordHash: string(hash),
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to create test user %s: %v", username, err)
	}
	return user
}

// CreateTestProfile inserts a profile owned by the given user.
func CreateTestProfile(t *testing.T, db *gorm.DB, userID uint) *models.Profile {
	t.Helper()

	profile := &models.Profile{
		UserID:      userID,
		Bio:         "test bio",
		Theme:       "default",
		SocialLinks: models.SocialLinks{},
	}
	if err := db.Create(profile).Error; err != nil {
		t.Fatalf("failed to create test profile for user %d: %v", userID, err)
	}
	return profile
}
