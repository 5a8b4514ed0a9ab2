package pgdb

import (
	"context"
	"database/sql"
	"errors"
	"gig-marketplace-api/internal/entity"
	"gig-marketplace-api/internal/repo/repo_errors"
	"gig-marketplace-api/pkg/postgres"
)

type BidRepo struct {
	*postgres.Postgres
}

func NewBidRepo(pgdb *postgres.Postgres) *BidRepo {
	return &BidRepo{pgdb}
}

func (r *BidRepo) GetBidById(ctx context.Context, id string) (*entity.Bid, error) {
	uuidForm, err := parseId(id)
	if err != nil {
		return nil, err
	}

	getBidSql, args, _ := r.SqlBuilder.
		Select(bidColumns).
		From("bid").
		Where("bid.id = ?", uuidForm).
		ToSql()

	bid, err := scanBid(r.Database.QueryRowContext(ctx, getBidSql, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repo_errors.ErrNotFound
		}

		return nil, err
	}

	return bid, nil
}

func (r *BidRepo) GetGigBids(ctx context.Context, gigId string) ([]entity.Bid, error) {
	uuidForm, err := parseId(gigId)
	if err != nil {
		return nil, err
	}

	getGigBidsSql, args, _ := r.SqlBuilder.
		Select(bidColumns).
		From("bid").
		Where("bid.gig_id = ?", uuidForm).
		OrderBy("bid.created_at DESC", "bid.id DESC").
		ToSql()

	rows, err := r.Database.QueryContext(ctx, getGigBidsSql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	bids := make([]entity.Bid, 0)
	for rows.Next() {
		bid, err := scanBid(rows)
		if err != nil {
			return bids, err
		}
		bids = append(bids, *bid)
	}
	if err = rows.Err(); err != nil {
		return bids, err
	}

	return bids, nil
}

func (r *BidRepo) GetFreelancerBids(ctx context.Context, freelancerId string) ([]entity.FreelancerBid, error) {
	uuidForm, err := parseId(freelancerId)
	if err != nil {
		return nil, err
	}

	getFreelancerBidsSql, args, _ := r.SqlBuilder.
		Select(bidColumns, "gig.title", "gig.budget", "gig.status").
		From("bid").
		LeftJoin("gig on gig.id = bid.gig_id").
		Where("bid.freelancer_id = ?", uuidForm).
		OrderBy("bid.created_at DESC", "bid.id DESC").
		ToSql()

	rows, err := r.Database.QueryContext(ctx, getFreelancerBidsSql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	bids := make([]entity.FreelancerBid, 0)
	for rows.Next() {
		var bid entity.FreelancerBid
		var title, status sql.NullString
		var budget sql.NullInt64
		if err := rows.Scan(&bid.Id, &bid.GigId, &bid.FreelancerId, &bid.Message, &bid.Price, &bid.Status,
			&bid.CreatedAt, &bid.UpdatedAt, &title, &budget, &status); err != nil {
			return bids, err
		}
		bid.GigFound = title.Valid
		bid.GigTitle, bid.GigBudget, bid.GigStatus = title.String, budget.Int64, status.String
		bids = append(bids, bid)
	}
	if err = rows.Err(); err != nil {
		return bids, err
	}

	return bids, nil
}
