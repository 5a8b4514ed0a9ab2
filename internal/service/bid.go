package service

import (
	"context"
	"errors"
	"gig-marketplace-api/internal/common"
	"gig-marketplace-api/internal/entity"
	"gig-marketplace-api/internal/logger"
	"gig-marketplace-api/internal/repo"
	"gig-marketplace-api/internal/repo/repo_errors"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

type BidService struct {
	bidRepo    repo.Bid
	gigRepo    repo.Gig
	transactor repo.Transactor
	directory  *Directory
}

func NewBidService(repos *repo.Repositories, directory *Directory) *BidService {
	return &BidService{
		bidRepo:    repos.Bid,
		gigRepo:    repos.Gig,
		transactor: repos.Transactor,
		directory:  directory,
	}
}

// CreateBid reads the gig under a shared lock and inserts the bid in the same
// transaction, so a hire committing meanwhile either waits for the bid and
// rejects it or makes the gig closed to it.
func (s *BidService) CreateBid(ctx context.Context, input *entity.CreateBidInput) (*entity.BidOutputModel, error) {
	gigId, err := uuid.Parse(input.GigId)
	if err != nil {
		return nil, ErrGigNotFound
	}
	freelancerId, err := uuid.Parse(input.FreelancerId)
	if err != nil {
		return nil, ErrUserNotFound
	}

	var bidId uuid.UUID
	err = s.transactor.WithinTx(ctx, func(tx repo.Tx) error {
		gig, err := tx.GetGigByIdForShare(ctx, gigId)
		if err != nil {
			if errors.Is(err, repo_errors.ErrNotFound) {
				return ErrGigNotFound
			}

			return err
		}

		if gig.Status != common.GigOpen {
			return ErrGigClosedForBids
		}

		if gig.OwnerId == freelancerId {
			return ErrBidOnOwnGig
		}

		exists, err := tx.DoesBidExist(ctx, gigId, freelancerId)
		if err != nil {
			return err
		}
		if exists {
			return ErrDuplicateBid
		}

		bidId, err = tx.CreateBid(ctx, gigId, freelancerId, input.Message, input.Price)
		if err != nil {
			switch {
			case errors.Is(err, repo_errors.ErrAlreadyExists):
				return ErrDuplicateBid
			case errors.Is(err, repo_errors.ErrStaleState):
				return ErrGigClosedForBids
			case errors.Is(err, repo_errors.ErrNotFound):
				return ErrGigNotFound
			}

			return err
		}

		return nil
	})
	if err != nil {
		return nil, storeError(err)
	}

	bid, err := s.bidRepo.GetBidById(ctx, bidId.String())
	if err != nil {
		return nil, err
	}

	logger.FromContext(ctx).WithFields(logrus.Fields{
		"bid_id": bid.Id,
		"gig_id": bid.GigId,
	}).Info("bid submitted")

	return mapBid(bid), nil
}

func (s *BidService) GetBidsForGig(ctx context.Context, gigId string, requesterId string) ([]entity.BidOutputModel, error) {
	gig, err := s.gigRepo.GetGigById(ctx, gigId)
	if err != nil {
		if errors.Is(err, repo_errors.ErrNotFound) {
			return nil, ErrGigNotFound
		}

		return nil, err
	}

	if gig.OwnerId.String() != requesterId {
		return nil, ErrOnlyOwnerSeeBids
	}

	bids, err := s.bidRepo.GetGigBids(ctx, gigId)
	if err != nil {
		return nil, err
	}

	freelancerIds := make([]uuid.UUID, 0, len(bids))
	for _, bid := range bids {
		freelancerIds = append(freelancerIds, bid.FreelancerId)
	}
	freelancers, err := s.directory.Summaries(ctx, freelancerIds)
	if err != nil {
		return nil, err
	}

	return mapGigBids(bids, freelancers), nil
}

func (s *BidService) GetMyBids(ctx context.Context, freelancerId string) ([]entity.BidOutputModel, error) {
	bids, err := s.bidRepo.GetFreelancerBids(ctx, freelancerId)
	if err != nil {
		if errors.Is(err, repo_errors.ErrNotFound) {
			return mapFreelancerBids(nil), nil
		}

		return nil, err
	}

	return mapFreelancerBids(bids), nil
}

// HireBid assigns the bid's gig to its freelancer, marks the bid hired and
// rejects every other bid of the gig. Either all three writes commit or
// none does.
func (s *BidService) HireBid(ctx context.Context, bidId string, requesterId string) (*entity.HireOutputModel, error) {
	var result *entity.HireOutputModel
	err := s.transactor.WithinTx(ctx, func(tx repo.Tx) error {
		bid, err := tx.GetBidById(ctx, bidId)
		if err != nil {
			if errors.Is(err, repo_errors.ErrNotFound) {
				return ErrBidNotFound
			}

			return err
		}

		gig, err := tx.GetGigByIdForUpdate(ctx, bid.GigId)
		if err != nil {
			if errors.Is(err, repo_errors.ErrNotFound) {
				return ErrGigNotFound
			}

			return err
		}

		if gig.OwnerId.String() != requesterId {
			return ErrOnlyOwnerCanHire
		}
		if gig.Status != common.GigOpen {
			return ErrGigAlreadyAssigned
		}

		if err := tx.AssignGig(ctx, gig, bid.FreelancerId, bid.Id); err != nil {
			if errors.Is(err, repo_errors.ErrStaleState) {
				return ErrGigAlreadyAssigned
			}

			return err
		}

		if err := tx.UpdateBidStatusById(ctx, bid.Id, common.BidHired); err != nil {
			switch {
			case errors.Is(err, repo_errors.ErrAlreadyExists):
				return ErrGigAlreadyAssigned
			case errors.Is(err, repo_errors.ErrNotFound):
				return ErrBidNotFound
			}

			return err
		}
		bid.Status = common.BidHired

		rejected, err := tx.RejectOtherGigBids(ctx, gig.Id, bid.Id)
		if err != nil {
			return err
		}

		result = mapHire(gig, bid, rejected)

		return nil
	})
	if err != nil {
		return nil, storeError(err)
	}

	logger.FromContext(ctx).WithFields(logrus.Fields{
		"gig_id":         result.Gig.Id,
		"bid_id":         result.HiredBid.Id,
		"rejected_count": result.RejectedCount,
	}).Info("freelancer hired")

	return result, nil
}
