package pgdb

import (
	"context"
	"database/sql"
	"errors"
	"gig-marketplace-api/internal/entity"
	"gig-marketplace-api/internal/repo/repo_errors"
	"gig-marketplace-api/pkg/postgres"
	"strings"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
)

type UserRepo struct {
	*postgres.Postgres
}

func NewUserRepo(pgdb *postgres.Postgres) *UserRepo {
	return &UserRepo{pgdb}
}

func (r *UserRepo) CreateUser(ctx context.Context, input *entity.CreateUserInput) (uuid.UUID, error) {
	userId := uuid.New()
	createUserSql, args, _ := r.SqlBuilder.
		Insert("users").
		Columns("id", "name", "email", "password_hash", "created_at").
		Values(userId, input.Name, strings.ToLower(input.Email), input.PasswordHash, time.Now().UTC()).
		ToSql()

	if _, err := r.Database.ExecContext(ctx, createUserSql, args...); err != nil {
		return uuid.Nil, translateError(err)
	}

	return userId, nil
}

func (r *UserRepo) GetUserById(ctx context.Context, id string) (*entity.User, error) {
	uuidForm, err := parseId(id)
	if err != nil {
		return nil, err
	}

	return r.getUser(ctx, squirrel.Eq{"id": uuidForm.String()})
}

func (r *UserRepo) GetUserByEmail(ctx context.Context, email string) (*entity.User, error) {
	return r.getUser(ctx, squirrel.Eq{"email": strings.ToLower(email)})
}

func (r *UserRepo) getUser(ctx context.Context, pred squirrel.Eq) (*entity.User, error) {
	sqlReq, args, _ := r.SqlBuilder.
		Select("id", "name", "email", "password_hash", "created_at").
		From("users").
		Where(pred).
		ToSql()

	var user entity.User
	err := r.Database.QueryRowContext(ctx, sqlReq, args...).
		Scan(&user.Id, &user.Name, &user.Email, &user.PasswordHash, &user.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repo_errors.ErrNotFound
		}

		return nil, err
	}

	return &user, nil
}

func (r *UserRepo) GetUserSummariesByIds(ctx context.Context, ids []uuid.UUID) ([]entity.UserSummary, error) {
	users := make([]entity.UserSummary, 0, len(ids))
	if len(ids) == 0 {
		return users, nil
	}

	idStrings := make([]string, 0, len(ids))
	for _, id := range ids {
		idStrings = append(idStrings, id.String())
	}

	sqlReq, args, _ := r.SqlBuilder.
		Select("id", "name", "email").
		From("users").
		Where(squirrel.Eq{"id": idStrings}).
		ToSql()

	rows, err := r.Database.QueryContext(ctx, sqlReq, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var user entity.UserSummary
		if err := rows.Scan(&user.Id, &user.Name, &user.Email); err != nil {
			return users, err
		}
		users = append(users, user)
	}
	if err = rows.Err(); err != nil {
		return users, err
	}

	return users, nil
}
