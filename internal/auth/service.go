package auth

import (
	"context"
	"errors"

	"github.com/rs/zerolog"

	"healthwatch/internal/apperr"
	"healthwatch/internal/models"
)

type UserRepository interface {
	GetUserBySubject(ctx context.Context, subject string) (*models.User, error)
	CreateUser(ctx context.Context, user *models.User) (*models.User, error)
}

// Identity is what the identity provider asserts about the caller.
type Identity struct {
	Subject   string
	Email     string
	FirstName string
	LastName  string
	Role      string
	Region    string
}

type Service struct {
	repo UserRepository
	log  zerolog.Logger
}

func NewService(repo UserRepository, log zerolog.Logger) *Service {
	return &Service{repo: repo, log: log.With().Str("component", "auth").Logger()}
}

// Resolve returns the stored user for id, creating it on first authentication.
// Once stored, the database owns role and region.
func (s *Service) Resolve(ctx context.Context, id Identity) (*models.User, error) {
	if id.Subject == "" {
		return nil, apperr.Unauthorized("token has no subject")
	}

	user, err := s.repo.GetUserBySubject(ctx, id.Subject)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, apperr.ErrNotFound) {
		return nil, err
	}

	role := id.Role
	if !models.ValidRole(role) {
		role = models.RolePublic
	}
	user, err = s.repo.CreateUser(ctx, &models.User{
		Subject:   id.Subject,
		Email:     id.Email,
		FirstName: id.FirstName,
		LastName:  id.LastName,
		Role:      role,
		Region:    id.Region,
		Level:     models.LevelForPoints(0),
	})
	if err != nil {
		return nil, err
	}
	s.log.Info().Uint("user_id", user.ID).Str("role", user.Role).Msg("provisioned user")
	return user, nil
}
