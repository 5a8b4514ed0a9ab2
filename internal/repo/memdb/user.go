package memdb

import (
	"context"
	"gig-marketplace-api/internal/entity"
	"gig-marketplace-api/internal/repo/repo_errors"
	"strings"

	"github.com/google/uuid"
)

type UserRepo struct {
	*Store
}

func (r *UserRepo) CreateUser(_ context.Context, input *entity.CreateUserInput) (uuid.UUID, error) {
	email := strings.ToLower(input.Email)

	r.mu.Lock()
	defer r.mu.Unlock()

	for _, user := range r.users {
		if user.Email == email {
			return uuid.Nil, repo_errors.ErrAlreadyExists
		}
	}

	user := entity.User{
		Id:           uuid.New(),
		Name:         input.Name,
		Email:        email,
		PasswordHash: input.PasswordHash,
		CreatedAt:    r.tick(),
	}
	r.users[user.Id] = user

	return user.Id, nil
}

func (r *UserRepo) GetUserById(_ context.Context, id string) (*entity.User, error) {
	uuidForm, err := parseId(id)
	if err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	user, ok := r.users[uuidForm]
	if !ok {
		return nil, repo_errors.ErrNotFound
	}

	return &user, nil
}

func (r *UserRepo) GetUserByEmail(_ context.Context, email string) (*entity.User, error) {
	email = strings.ToLower(email)

	r.mu.Lock()
	defer r.mu.Unlock()

	for _, user := range r.users {
		if user.Email == email {
			u := user
			return &u, nil
		}
	}

	return nil, repo_errors.ErrNotFound
}

func (r *UserRepo) GetUserSummariesByIds(_ context.Context, ids []uuid.UUID) ([]entity.UserSummary, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	users := make([]entity.UserSummary, 0, len(ids))
	for _, id := range ids {
		if user, ok := r.users[id]; ok {
			users = append(users, entity.UserSummary{Id: user.Id, Name: user.Name, Email: user.Email})
		}
	}

	return users, nil
}
