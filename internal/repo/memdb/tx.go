package memdb

import (
	"context"
	"gig-marketplace-api/internal/common"
	"gig-marketplace-api/internal/entity"
	"gig-marketplace-api/internal/repo"
	"gig-marketplace-api/internal/repo/repo_errors"

	"github.com/google/uuid"
)

type Transactor struct {
	*Store
}

// WithinTx holds the store lock for the whole of fn and puts back every row
// fn wrote if fn fails.
func (t *Transactor) WithinTx(ctx context.Context, fn func(tx repo.Tx) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	tx := &txRepo{Store: t.Store, undo: newUndoLog()}
	if err := fn(tx); err != nil {
		tx.undo.rollback(t.Store)

		return err
	}

	return nil
}

// txRepo runs with Store.mu already held.
type txRepo struct {
	*Store
	undo *undoLog
}

func (r *txRepo) GetBidById(_ context.Context, id string) (*entity.Bid, error) {
	uuidForm, err := parseId(id)
	if err != nil {
		return nil, err
	}

	bid, ok := r.bids[uuidForm]
	if !ok {
		return nil, repo_errors.ErrNotFound
	}

	return &bid, nil
}

func (r *txRepo) GetGigByIdForUpdate(_ context.Context, id uuid.UUID) (*entity.Gig, error) {
	gig, ok := r.gigs[id]
	if !ok {
		return nil, repo_errors.ErrNotFound
	}

	return &gig, nil
}

func (r *txRepo) GetGigByIdForShare(ctx context.Context, id uuid.UUID) (*entity.Gig, error) {
	return r.GetGigByIdForUpdate(ctx, id)
}

func (r *txRepo) AssignGig(_ context.Context, gig *entity.Gig, freelancerId uuid.UUID, bidId uuid.UUID) error {
	stored, ok := r.gigs[gig.Id]
	if !ok || stored.Status != common.GigOpen || stored.Version != gig.Version {
		return repo_errors.ErrStaleState
	}

	r.undo.saveGig(r.Store, gig.Id)
	stored.Status = common.GigAssigned
	stored.HiredFreelancerId = uuid.NullUUID{UUID: freelancerId, Valid: true}
	stored.HiredBidId = uuid.NullUUID{UUID: bidId, Valid: true}
	stored.Version++
	stored.UpdatedAt = r.tick()
	r.gigs[gig.Id] = stored
	*gig = stored

	return nil
}

func (r *txRepo) UpdateBidStatusById(_ context.Context, id uuid.UUID, status string) error {
	bid, ok := r.bids[id]
	if !ok {
		return repo_errors.ErrNotFound
	}

	if status == common.BidHired {
		for otherId, other := range r.bids {
			if otherId != id && other.GigId == bid.GigId && other.Status == common.BidHired {
				return repo_errors.ErrAlreadyExists
			}
		}
	}

	r.undo.saveBid(r.Store, id)
	bid.Status = status
	bid.UpdatedAt = r.tick()
	r.bids[id] = bid

	return nil
}

func (r *txRepo) RejectOtherGigBids(_ context.Context, gigId uuid.UUID, hiredBidId uuid.UUID) (int64, error) {
	var rejected int64
	now := r.tick()
	for id, bid := range r.bids {
		if bid.GigId != gigId || id == hiredBidId {
			continue
		}
		r.undo.saveBid(r.Store, id)
		bid.Status = common.BidRejected
		bid.UpdatedAt = now
		r.bids[id] = bid
		rejected++
	}

	return rejected, nil
}

func (r *txRepo) DeleteGigById(_ context.Context, id uuid.UUID) (int64, error) {
	if _, ok := r.gigs[id]; !ok {
		return 0, repo_errors.ErrNotFound
	}

	var deletedBids int64
	for bidId, bid := range r.bids {
		if bid.GigId == id {
			r.undo.saveBid(r.Store, bidId)
			delete(r.bids, bidId)
			deletedBids++
		}
	}
	r.undo.saveGig(r.Store, id)
	delete(r.gigs, id)

	return deletedBids, nil
}

func (r *txRepo) DoesBidExist(_ context.Context, gigId uuid.UUID, freelancerId uuid.UUID) (bool, error) {
	for _, bid := range r.bids {
		if bid.GigId == gigId && bid.FreelancerId == freelancerId {
			return true, nil
		}
	}

	return false, nil
}

func (r *txRepo) CreateBid(ctx context.Context, gigId uuid.UUID, freelancerId uuid.UUID, message string, price float64) (uuid.UUID, error) {
	gig, ok := r.gigs[gigId]
	if !ok {
		return uuid.Nil, repo_errors.ErrNotFound
	}
	if gig.Status != common.GigOpen {
		return uuid.Nil, repo_errors.ErrStaleState
	}
	if exists, _ := r.DoesBidExist(ctx, gigId, freelancerId); exists {
		return uuid.Nil, repo_errors.ErrAlreadyExists
	}

	now := r.tick()
	bid := entity.Bid{
		Id:           uuid.New(),
		GigId:        gigId,
		FreelancerId: freelancerId,
		Message:      message,
		Price:        price,
		Status:       common.BidPending,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	r.undo.saveBid(r.Store, bid.Id)
	r.bids[bid.Id] = bid

	return bid.Id, nil
}
