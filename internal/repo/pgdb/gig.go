package pgdb

import (
	"context"
	"database/sql"
	"errors"
	"gig-marketplace-api/internal/common"
	"gig-marketplace-api/internal/entity"
	"gig-marketplace-api/internal/repo/repo_errors"
	"gig-marketplace-api/pkg/postgres"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
)

type GigRepo struct {
	*postgres.Postgres
}

func NewGigRepo(pgdb *postgres.Postgres) *GigRepo {
	return &GigRepo{pgdb}
}

func (r *GigRepo) CreateGig(ctx context.Context, input *entity.CreateGigInput) (uuid.UUID, error) {
	ownerId, err := parseId(input.OwnerId)
	if err != nil {
		return uuid.Nil, err
	}

	gigId := uuid.New()
	now := time.Now().UTC()
	createGigSql, args, _ := r.SqlBuilder.
		Insert("gig").
		Columns("id", "title", "description", "budget", "status", "owner_id", "version", "created_at", "updated_at").
		Values(gigId, input.Title, input.Description, input.Budget, common.GigOpen, ownerId, 1, now, now).
		ToSql()

	if _, err = r.Database.ExecContext(ctx, createGigSql, args...); err != nil {
		return uuid.Nil, translateError(err)
	}

	return gigId, nil
}

func (r *GigRepo) GetGigById(ctx context.Context, id string) (*entity.Gig, error) {
	uuidForm, err := parseId(id)
	if err != nil {
		return nil, err
	}

	getGigSql, args, _ := r.SqlBuilder.
		Select(gigColumns).
		From("gig").
		Where("gig.id = ?", uuidForm).
		ToSql()

	gig, err := scanGig(r.Database.QueryRowContext(ctx, getGigSql, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repo_errors.ErrNotFound
		}

		return nil, err
	}

	return gig, nil
}

func (r *GigRepo) DoesOwnerHaveGigWithTitle(ctx context.Context, ownerId string, title string) (bool, error) {
	uuidForm, err := parseId(ownerId)
	if err != nil {
		return false, err
	}

	sqlReq, args, _ := r.SqlBuilder.
		Select("id").
		From("gig").
		Where("owner_id = ?", uuidForm).
		Where("lower(title) = lower(?)", title).
		Limit(1).
		ToSql()

	var id uuid.UUID
	err = r.Database.QueryRowContext(ctx, sqlReq, args...).Scan(&id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil
		}

		return false, err
	}

	return true, nil
}

func (r *GigRepo) CountOwnerGigsByStatus(ctx context.Context, ownerId string, status string) (int, error) {
	uuidForm, err := parseId(ownerId)
	if err != nil {
		return 0, err
	}

	countSql, args, _ := r.SqlBuilder.
		Select("count(*)").
		From("gig").
		Where("owner_id = ?", uuidForm).
		Where("status = ?", status).
		ToSql()

	var count int
	if err = r.Database.QueryRowContext(ctx, countSql, args...).Scan(&count); err != nil {
		return 0, err
	}

	return count, nil
}

func (r *GigRepo) GetGigs(ctx context.Context, filter *entity.GigFilter, pg *entity.PaginationInput) ([]entity.Gig, int, error) {
	conditions := squirrel.And{squirrel.Eq{"gig.status": filter.Status}}
	if filter.Search != "" {
		conditions = append(conditions, squirrel.ILike{"gig.title": containsPattern(filter.Search)})
	}

	countSql, args, err := r.SqlBuilder.
		Select("count(*)").
		From("gig").
		Where(conditions).
		ToSql()
	if err != nil {
		return nil, 0, err
	}

	var total int
	if err = r.Database.QueryRowContext(ctx, countSql, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	sqlReq, args, err := r.SqlBuilder.
		Select(gigColumns).
		From("gig").
		Where(conditions).
		OrderBy("gig.created_at DESC", "gig.id DESC").
		Offset(uint64(pg.Offset)).
		Limit(uint64(pg.Limit)).
		ToSql()
	if err != nil {
		return nil, 0, err
	}

	gigs, err := r.queryGigs(ctx, sqlReq, args)
	if err != nil {
		return nil, 0, err
	}

	return gigs, total, nil
}

func (r *GigRepo) GetGigsByOwnerId(ctx context.Context, ownerId string) ([]entity.Gig, error) {
	uuidForm, err := parseId(ownerId)
	if err != nil {
		return nil, err
	}

	sqlReq, args, _ := r.SqlBuilder.
		Select(gigColumns).
		From("gig").
		Where("gig.owner_id = ?", uuidForm).
		OrderBy("gig.created_at DESC", "gig.id DESC").
		ToSql()

	return r.queryGigs(ctx, sqlReq, args)
}

func (r *GigRepo) queryGigs(ctx context.Context, sqlReq string, args []any) ([]entity.Gig, error) {
	rows, err := r.Database.QueryContext(ctx, sqlReq, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	gigs := make([]entity.Gig, 0)
	for rows.Next() {
		gig, err := scanGig(rows)
		if err != nil {
			return gigs, err
		}
		gigs = append(gigs, *gig)
	}
	if err = rows.Err(); err != nil {
		return gigs, err
	}

	return gigs, nil
}
