package users

import (
	"context"
	"fmt"
	"log"

	"reactodo/db"
	"reactodo/models"
)

type UsersService struct {
	usersRepo *db.PostgresUsersRepository
}

func NewUsersService(repo *db.PostgresUsersRepository) *UsersService {
	return &UsersService{usersRepo: repo}
}

func (s *UsersService) GetOrCreateUser(
	ctx context.Context,
	authProvider, authProviderID string,
) (*models.User, error) {
	log.Printf("📋 Starting to get or create user for provider: %s", authProvider)
	if authProvider == "" || authProviderID == "" {
		return nil, fmt.Errorf("auth provider and auth provider ID cannot be empty")
	}

	user, err := s.usersRepo.GetUserByAuthProvider(ctx, authProvider, authProviderID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user by auth provider: %w", err)
	}
	if user != nil {
		log.Printf("📋 Completed successfully - found existing user: %s", user.ID)
		return user, nil
	}

	user, err = s.usersRepo.CreateUser(ctx, authProvider, authProviderID)
	if err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	log.Printf("📋 Completed successfully - created user: %s", user.ID)
	return user, nil
}
