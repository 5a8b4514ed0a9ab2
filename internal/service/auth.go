package service

import (
	"context"
	"errors"
	"gig-marketplace-api/internal/entity"
	"gig-marketplace-api/internal/logger"
	"gig-marketplace-api/internal/repo"
	"gig-marketplace-api/internal/repo/repo_errors"
	"gig-marketplace-api/pkg/token"

	"golang.org/x/crypto/bcrypt"
)

type AuthService struct {
	userRepo repo.User
	tokens   *token.Issuer
	cost     int
}

func NewAuthService(repos *repo.Repositories, tokens *token.Issuer) *AuthService {
	return &AuthService{
		userRepo: repos.User,
		tokens:   tokens,
		cost:     bcrypt.DefaultCost,
	}
}

func (s *AuthService) Register(ctx context.Context, name, email, password string) (*entity.AuthOutputModel, error) {
	_, err := s.userRepo.GetUserByEmail(ctx, email)
	if err == nil {
		return nil, ErrEmailTaken
	}
	if !errors.Is(err, repo_errors.ErrNotFound) {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if err != nil {
		return nil, err
	}

	id, err := s.userRepo.CreateUser(ctx, &entity.CreateUserInput{
		Name:         name,
		Email:        email,
		PasswordHash: string(hash),
	})
	if err != nil {
		if errors.Is(err, repo_errors.ErrAlreadyExists) {
			return nil, ErrEmailTaken
		}

		return nil, err
	}

	user, err := s.userRepo.GetUserById(ctx, id.String())
	if err != nil {
		return nil, err
	}

	logger.FromContext(ctx).WithField("user_id", user.Id).Info("user registered")

	return s.session(user)
}

func (s *AuthService) Login(ctx context.Context, email, password string) (*entity.AuthOutputModel, error) {
	user, err := s.userRepo.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repo_errors.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}

		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	return s.session(user)
}

func (s *AuthService) Me(ctx context.Context, userId string) (*entity.UserSummaryOutput, error) {
	user, err := s.userRepo.GetUserById(ctx, userId)
	if err != nil {
		if errors.Is(err, repo_errors.ErrNotFound) {
			return nil, ErrUserNotFound
		}

		return nil, err
	}

	return mapUser(user), nil
}

// Authenticate returns token.ErrExpired or token.ErrInvalid for tokens that
// do not name a user.
func (s *AuthService) Authenticate(tokenString string) (string, error) {
	return s.tokens.Parse(tokenString)
}

func (s *AuthService) session(user *entity.User) (*entity.AuthOutputModel, error) {
	signed, _, err := s.tokens.Issue(user.Id.String())
	if err != nil {
		return nil, err
	}

	return &entity.AuthOutputModel{
		User:  *mapUser(user),
		Token: signed,
	}, nil
}
