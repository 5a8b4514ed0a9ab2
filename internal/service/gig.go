package service

import (
	"context"
	"errors"
	"fmt"
	"gig-marketplace-api/internal/common"
	"gig-marketplace-api/internal/entity"
	"gig-marketplace-api/internal/logger"
	"gig-marketplace-api/internal/repo"
	"gig-marketplace-api/internal/repo/repo_errors"
	"strings"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// Searches of this many characters or fewer are ignored.
const minSearchLength = 3

type GigService struct {
	gigRepo    repo.Gig
	transactor repo.Transactor
	directory  *Directory
	policy     entity.GigPolicy
}

func NewGigService(repos *repo.Repositories, directory *Directory, policy entity.GigPolicy) *GigService {
	return &GigService{
		gigRepo:    repos.Gig,
		transactor: repos.Transactor,
		directory:  directory,
		policy:     policy,
	}
}

// CreateGig checks the title and quota rules before the insert. Neither
// check is repeated by the store, so two concurrent creates by one owner may
// both pass.
func (s *GigService) CreateGig(ctx context.Context, input *entity.CreateGigInput) (*entity.GigOutputModel, error) {
	if s.policy.UniqueTitlesPerOwner {
		exists, err := s.gigRepo.DoesOwnerHaveGigWithTitle(ctx, input.OwnerId, input.Title)
		if err != nil {
			if errors.Is(err, repo_errors.ErrNotFound) {
				return nil, ErrUserNotFound
			}

			return nil, err
		}
		if exists {
			return nil, ErrDuplicateGigTitle
		}
	}

	openGigs, err := s.gigRepo.CountOwnerGigsByStatus(ctx, input.OwnerId, common.GigOpen)
	if err != nil {
		if errors.Is(err, repo_errors.ErrNotFound) {
			return nil, ErrUserNotFound
		}

		return nil, err
	}
	if openGigs >= s.policy.MaxOpenGigsPerOwner {
		return nil, ErrOpenGigQuota(s.policy.MaxOpenGigsPerOwner)
	}

	id, err := s.gigRepo.CreateGig(ctx, input)
	if err != nil {
		if errors.Is(err, repo_errors.ErrNotFound) {
			return nil, ErrUserNotFound
		}

		return nil, err
	}

	gig, err := s.gigRepo.GetGigById(ctx, id.String())
	if err != nil {
		return nil, err
	}

	logger.FromContext(ctx).WithField("gig_id", gig.Id).Info("gig created")

	return s.withOwner(ctx, gig)
}

func (s *GigService) GetGigById(ctx context.Context, gigId string) (*entity.GigOutputModel, error) {
	gig, err := s.gigRepo.GetGigById(ctx, gigId)
	if err != nil {
		if errors.Is(err, repo_errors.ErrNotFound) {
			return nil, ErrGigNotFound
		}

		return nil, err
	}

	return s.withOwner(ctx, gig)
}

// GetGigs lists open gigs unless filter asks for another status. A search
// is only applied when it is longer than minSearchLength.
func (s *GigService) GetGigs(ctx context.Context, filter *entity.GigFilter, pg *entity.PaginationInput) (*entity.GigPageOutputModel, error) {
	effective := entity.GigFilter{Status: common.GigOpen}
	if filter != nil {
		if filter.Status != "" {
			effective.Status = filter.Status
		}
		if search := strings.TrimSpace(filter.Search); len(search) > minSearchLength {
			effective.Search = search
		}
	}

	gigs, total, err := s.gigRepo.GetGigs(ctx, &effective, pg)
	if err != nil {
		return nil, err
	}

	owners, err := s.directory.Summaries(ctx, gigOwnerIds(gigs))
	if err != nil {
		return nil, err
	}

	return &entity.GigPageOutputModel{
		Gigs:       mapGigs(gigs, owners),
		Pagination: entity.NewPaginationOutputModel(pg, total),
	}, nil
}

func (s *GigService) GetMyGigs(ctx context.Context, ownerId string) ([]entity.GigOutputModel, error) {
	gigs, err := s.gigRepo.GetGigsByOwnerId(ctx, ownerId)
	if err != nil {
		if errors.Is(err, repo_errors.ErrNotFound) {
			return mapGigs(nil, nil), nil
		}

		return nil, err
	}

	owners, err := s.directory.Summaries(ctx, gigOwnerIds(gigs))
	if err != nil {
		return nil, err
	}

	return mapGigs(gigs, owners), nil
}

// DeleteGig removes an open gig and its bids. The gig is re-read under lock
// so a hire that commits first wins and the delete is refused.
func (s *GigService) DeleteGig(ctx context.Context, gigId string, requesterId string) error {
	id, err := uuid.Parse(gigId)
	if err != nil {
		return ErrGigNotFound
	}

	var deletedBids int64
	err = s.transactor.WithinTx(ctx, func(tx repo.Tx) error {
		gig, err := tx.GetGigByIdForUpdate(ctx, id)
		if err != nil {
			if errors.Is(err, repo_errors.ErrNotFound) {
				return ErrGigNotFound
			}

			return err
		}

		if gig.OwnerId.String() != requesterId {
			return ErrOnlyOwnerCanDelete
		}
		if gig.Status == common.GigAssigned {
			return ErrAssignedGigDelete
		}

		deletedBids, err = tx.DeleteGigById(ctx, gig.Id)
		if err != nil {
			if errors.Is(err, repo_errors.ErrNotFound) {
				return ErrGigNotFound
			}

			return err
		}

		return nil
	})
	if err != nil {
		return storeError(err)
	}

	logger.FromContext(ctx).WithFields(logrus.Fields{
		"gig_id":       id,
		"deleted_bids": deletedBids,
	}).Info("gig deleted")

	return nil
}

func (s *GigService) withOwner(ctx context.Context, gig *entity.Gig) (*entity.GigOutputModel, error) {
	owner, err := s.directory.Summary(ctx, gig.OwnerId)
	if err != nil {
		return nil, err
	}

	return mapGig(gig, owner), nil
}

func gigOwnerIds(gigs []entity.Gig) []uuid.UUID {
	ids := make([]uuid.UUID, 0, len(gigs))
	for _, gig := range gigs {
		ids = append(ids, gig.OwnerId)
	}

	return ids
}

// storeError turns exhausted transaction retries into an error the caller
// is told to retry.
func storeError(err error) error {
	if errors.Is(err, repo_errors.ErrRetryable) {
		return fmt.Errorf("%w: %w", ErrTemporarilyUnavailable, err)
	}

	return err
}
