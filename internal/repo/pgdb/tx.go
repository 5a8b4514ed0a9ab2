package pgdb

import (
	"context"
	"database/sql"
	"errors"
	"gig-marketplace-api/internal/common"
	"gig-marketplace-api/internal/entity"
	"gig-marketplace-api/internal/logger"
	"gig-marketplace-api/internal/repo"
	"gig-marketplace-api/internal/repo/repo_errors"
	"gig-marketplace-api/pkg/postgres"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
)

type Transactor struct {
	*postgres.Postgres
	maxRetries int
}

func NewTransactor(pgdb *postgres.Postgres, maxRetries int) *Transactor {
	if maxRetries < 0 {
		maxRetries = 0
	}

	return &Transactor{Postgres: pgdb, maxRetries: maxRetries}
}

// WithinTx reruns fn from scratch when Postgres aborts the transaction with a
// serialization failure or a deadlock. After maxRetries reruns the last
// repo_errors.ErrRetryable is returned to the caller.
func (t *Transactor) WithinTx(ctx context.Context, fn func(tx repo.Tx) error) error {
	var err error
	for attempt := 0; attempt <= t.maxRetries; attempt++ {
		err = t.runTx(ctx, fn)
		if !errors.Is(err, repo_errors.ErrRetryable) {
			return err
		}

		logger.FromContext(ctx).
			WithField("attempt", attempt+1).
			WithError(err).
			Warn("transaction aborted by store")
	}

	return err
}

func (t *Transactor) runTx(ctx context.Context, fn func(tx repo.Tx) error) error {
	tx, err := t.Database.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelReadCommitted})
	if err != nil {
		return err
	}

	if err = fn(&txRepo{tx: tx, builder: t.SqlBuilder}); err != nil {
		if e := tx.Rollback(); e != nil && !errors.Is(e, sql.ErrTxDone) {
			return errors.Join(err, e)
		}

		return err
	}

	if err = tx.Commit(); err != nil {
		return translateError(err)
	}

	return nil
}

type txRepo struct {
	tx      *sql.Tx
	builder squirrel.StatementBuilderType
}

func (r *txRepo) GetBidById(ctx context.Context, id string) (*entity.Bid, error) {
	uuidForm, err := parseId(id)
	if err != nil {
		return nil, err
	}

	getBidSql, args, _ := r.builder.
		Select(bidColumns).
		From("bid").
		Where("bid.id = ?", uuidForm).
		ToSql()

	bid, err := scanBid(r.tx.QueryRowContext(ctx, getBidSql, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repo_errors.ErrNotFound
		}

		return nil, translateError(err)
	}

	return bid, nil
}

func (r *txRepo) GetGigByIdForUpdate(ctx context.Context, id uuid.UUID) (*entity.Gig, error) {
	return r.getGigLocked(ctx, id, "FOR UPDATE")
}

// GetGigByIdForShare conflicts with the FOR UPDATE taken by a hire or a
// delete, so the status read here holds until the transaction ends.
func (r *txRepo) GetGigByIdForShare(ctx context.Context, id uuid.UUID) (*entity.Gig, error) {
	return r.getGigLocked(ctx, id, "FOR SHARE")
}

func (r *txRepo) getGigLocked(ctx context.Context, id uuid.UUID, lock string) (*entity.Gig, error) {
	getGigSql, args, _ := r.builder.
		Select(gigColumns).
		From("gig").
		Where("gig.id = ?", id).
		Suffix(lock).
		ToSql()

	gig, err := scanGig(r.tx.QueryRowContext(ctx, getGigSql, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repo_errors.ErrNotFound
		}

		return nil, translateError(err)
	}

	return gig, nil
}

func (r *txRepo) AssignGig(ctx context.Context, gig *entity.Gig, freelancerId uuid.UUID, bidId uuid.UUID) error {
	now := time.Now().UTC()
	assignSql, args, _ := r.builder.
		Update("gig").
		Set("status", common.GigAssigned).
		Set("hired_freelancer_id", freelancerId).
		Set("hired_bid_id", bidId).
		Set("version", squirrel.Expr("version + ?", 1)).
		Set("updated_at", now).
		Where("id = ?", gig.Id).
		Where("status = ?", common.GigOpen).
		Where("version = ?", gig.Version).
		ToSql()

	result, err := r.tx.ExecContext(ctx, assignSql, args...)
	if err != nil {
		return translateError(err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected != 1 {
		return repo_errors.ErrStaleState
	}

	gig.Status = common.GigAssigned
	gig.HiredFreelancerId = uuid.NullUUID{UUID: freelancerId, Valid: true}
	gig.HiredBidId = uuid.NullUUID{UUID: bidId, Valid: true}
	gig.Version++
	gig.UpdatedAt = now

	return nil
}

func (r *txRepo) UpdateBidStatusById(ctx context.Context, id uuid.UUID, status string) error {
	updateStatusSql, args, _ := r.builder.
		Update("bid").
		Set("status", status).
		Set("updated_at", time.Now().UTC()).
		Where("id = ?", id).
		ToSql()

	result, err := r.tx.ExecContext(ctx, updateStatusSql, args...)
	if err != nil {
		return translateError(err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return repo_errors.ErrNotFound
	}

	return nil
}

func (r *txRepo) RejectOtherGigBids(ctx context.Context, gigId uuid.UUID, hiredBidId uuid.UUID) (int64, error) {
	rejectSql, args, _ := r.builder.
		Update("bid").
		Set("status", common.BidRejected).
		Set("updated_at", time.Now().UTC()).
		Where("gig_id = ?", gigId).
		Where("id <> ?", hiredBidId).
		ToSql()

	result, err := r.tx.ExecContext(ctx, rejectSql, args...)
	if err != nil {
		return 0, translateError(err)
	}

	return result.RowsAffected()
}

func (r *txRepo) DeleteGigById(ctx context.Context, id uuid.UUID) (int64, error) {
	deleteBidsSql, args, _ := r.builder.
		Delete("bid").
		Where("gig_id = ?", id).
		ToSql()

	result, err := r.tx.ExecContext(ctx, deleteBidsSql, args...)
	if err != nil {
		return 0, translateError(err)
	}
	deletedBids, err := result.RowsAffected()
	if err != nil {
		return 0, err
	}

	deleteGigSql, args, _ := r.builder.
		Delete("gig").
		Where("id = ?", id).
		ToSql()

	result, err = r.tx.ExecContext(ctx, deleteGigSql, args...)
	if err != nil {
		return 0, translateError(err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return 0, err
	}
	if affected == 0 {
		return 0, repo_errors.ErrNotFound
	}

	return deletedBids, nil
}

func (r *txRepo) DoesBidExist(ctx context.Context, gigId uuid.UUID, freelancerId uuid.UUID) (bool, error) {
	sqlReq, args, _ := r.builder.
		Select("id").
		From("bid").
		Where("gig_id = ?", gigId).
		Where("freelancer_id = ?", freelancerId).
		ToSql()

	var id uuid.UUID
	err := r.tx.QueryRowContext(ctx, sqlReq, args...).Scan(&id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil
		}

		return false, translateError(err)
	}

	return true, nil
}

// CreateBid inserts only while the gig is open. The bid_gig_freelancer_unique
// index turns a second bid for the same pair into repo_errors.ErrAlreadyExists.
func (r *txRepo) CreateBid(ctx context.Context, gigId uuid.UUID, freelancerId uuid.UUID, message string, price float64) (uuid.UUID, error) {
	bidId := uuid.New()
	now := time.Now().UTC()
	openGig := squirrel.
		Select().
		Column("?::uuid", bidId).
		Column("gig.id").
		Column("?::uuid", freelancerId).
		Column("?::varchar", message).
		Column("?::double precision", price).
		Column("?::varchar", common.BidPending).
		Column("?::timestamp", now).
		Column("?::timestamp", now).
		From("gig").
		Where("gig.id = ?", gigId).
		Where("gig.status = ?", common.GigOpen)

	createBidSql, args, err := r.builder.
		Insert("bid").
		Columns("id", "gig_id", "freelancer_id", "message", "price", "status", "created_at", "updated_at").
		Select(openGig).
		ToSql()
	if err != nil {
		return uuid.Nil, err
	}

	result, err := r.tx.ExecContext(ctx, createBidSql, args...)
	if err != nil {
		return uuid.Nil, translateError(err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return uuid.Nil, err
	}
	if affected != 1 {
		return uuid.Nil, repo_errors.ErrStaleState
	}

	return bidId, nil
}
