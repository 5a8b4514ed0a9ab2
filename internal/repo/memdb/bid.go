package memdb

import (
	"context"
	"gig-marketplace-api/internal/entity"
	"gig-marketplace-api/internal/repo/repo_errors"
	"sort"
)

type BidRepo struct {
	*Store
}

func (r *BidRepo) GetBidById(_ context.Context, id string) (*entity.Bid, error) {
	uuidForm, err := parseId(id)
	if err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	bid, ok := r.bids[uuidForm]
	if !ok {
		return nil, repo_errors.ErrNotFound
	}

	return &bid, nil
}

func (r *BidRepo) GetGigBids(_ context.Context, gigId string) ([]entity.Bid, error) {
	uuidForm, err := parseId(gigId)
	if err != nil {
		return nil, err
	}

	r.mu.Lock()
	bids := make([]entity.Bid, 0)
	for _, bid := range r.bids {
		if bid.GigId == uuidForm {
			bids = append(bids, bid)
		}
	}
	r.mu.Unlock()

	sort.Slice(bids, func(i, j int) bool {
		return bids[i].CreatedAt.After(bids[j].CreatedAt)
	})

	return bids, nil
}

func (r *BidRepo) GetFreelancerBids(_ context.Context, freelancerId string) ([]entity.FreelancerBid, error) {
	uuidForm, err := parseId(freelancerId)
	if err != nil {
		return nil, err
	}

	r.mu.Lock()
	bids := make([]entity.FreelancerBid, 0)
	for _, bid := range r.bids {
		if bid.FreelancerId != uuidForm {
			continue
		}
		fb := entity.FreelancerBid{Bid: bid}
		if gig, ok := r.gigs[bid.GigId]; ok {
			fb.GigFound = true
			fb.GigTitle, fb.GigBudget, fb.GigStatus = gig.Title, gig.Budget, gig.Status
		}
		bids = append(bids, fb)
	}
	r.mu.Unlock()

	sort.Slice(bids, func(i, j int) bool {
		return bids[i].CreatedAt.After(bids[j].CreatedAt)
	})

	return bids, nil
}
