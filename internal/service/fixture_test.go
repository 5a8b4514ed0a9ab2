package service_test

import (
	"context"
	"errors"
	"fmt"
	"gig-marketplace-api/internal/entity"
	"gig-marketplace-api/internal/repo"
	"gig-marketplace-api/internal/repo/memdb"
	"gig-marketplace-api/internal/repo/repo_errors"
	"gig-marketplace-api/internal/service"
	"gig-marketplace-api/pkg/token"
	"time"

	"github.com/google/uuid"
	. "github.com/onsi/gomega"
)

var defaultPolicy = entity.GigPolicy{MaxOpenGigsPerOwner: 10, UniqueTitlesPerOwner: true}

type fixture struct {
	ctx      context.Context
	repos    *repo.Repositories
	services *service.Services
}

func newFixture(policy entity.GigPolicy) *fixture {
	repos := memdb.NewRepositories(memdb.NewStore())

	return newFixtureWithRepos(repos, policy)
}

func newFixtureWithRepos(repos *repo.Repositories, policy entity.GigPolicy) *fixture {
	return &fixture{
		ctx:   context.Background(),
		repos: repos,
		services: service.NewServices(repos, service.Options{
			Policy:            policy,
			Tokens:            token.NewIssuer("test-secret", time.Hour),
			DirectoryCacheTTL: time.Minute,
		}),
	}
}

func (f *fixture) user(name string) string {
	id, err := f.repos.User.CreateUser(f.ctx, &entity.CreateUserInput{
		Name:         name,
		Email:        fmt.Sprintf("%s-%s@example.com", name, uuid.NewString()[:8]),
		PasswordHash: "unused",
	})
	Expect(err).To(BeNil())

	return id.String()
}

func (f *fixture) gig(ownerId string, title string) *entity.GigOutputModel {
	gig, err := f.services.Gig.CreateGig(f.ctx, &entity.CreateGigInput{
		Title:       title,
		Description: "A description that is long enough",
		Budget:      500,
		OwnerId:     ownerId,
	})
	Expect(err).To(BeNil())

	return gig
}

func (f *fixture) bid(gigId string, freelancerId string) *entity.BidOutputModel {
	bid, err := f.services.Bid.CreateBid(f.ctx, &entity.CreateBidInput{
		GigId:        gigId,
		FreelancerId: freelancerId,
		Message:      "I can do this quickly",
		Price:        250,
	})
	Expect(err).To(BeNil())

	return bid
}

func (f *fixture) storedGig(id string) *entity.Gig {
	gig, err := f.repos.Gig.GetGigById(f.ctx, id)
	Expect(err).To(BeNil())

	return gig
}

func (f *fixture) storedBids(gigId string) []entity.Bid {
	bids, err := f.repos.Bid.GetGigBids(f.ctx, gigId)
	Expect(err).To(BeNil())

	return bids
}

var errInjected = errors.New("injected store failure")

// faultyTransactor performs the named step and then fails, so the
// transaction must undo a write that did happen.
type faultyTransactor struct {
	repo.Transactor
	failAfter string
}

func (t *faultyTransactor) WithinTx(ctx context.Context, fn func(tx repo.Tx) error) error {
	return t.Transactor.WithinTx(ctx, func(tx repo.Tx) error {
		return fn(&faultyTx{Tx: tx, failAfter: t.failAfter})
	})
}

type faultyTx struct {
	repo.Tx
	failAfter string
}

func (tx *faultyTx) GetGigByIdForUpdate(ctx context.Context, id uuid.UUID) (*entity.Gig, error) {
	gig, err := tx.Tx.GetGigByIdForUpdate(ctx, id)
	if err == nil && tx.failAfter == "lock" {
		return nil, errInjected
	}

	return gig, err
}

func (tx *faultyTx) AssignGig(ctx context.Context, gig *entity.Gig, freelancerId uuid.UUID, bidId uuid.UUID) error {
	if err := tx.Tx.AssignGig(ctx, gig, freelancerId, bidId); err != nil {
		return err
	}
	if tx.failAfter == "assign" {
		return errInjected
	}

	return nil
}

func (tx *faultyTx) UpdateBidStatusById(ctx context.Context, id uuid.UUID, status string) error {
	if err := tx.Tx.UpdateBidStatusById(ctx, id, status); err != nil {
		return err
	}
	if tx.failAfter == "mark" {
		return errInjected
	}

	return nil
}

func (tx *faultyTx) RejectOtherGigBids(ctx context.Context, gigId uuid.UUID, hiredBidId uuid.UUID) (int64, error) {
	n, err := tx.Tx.RejectOtherGigBids(ctx, gigId, hiredBidId)
	if err == nil && tx.failAfter == "reject" {
		return 0, errInjected
	}

	return n, err
}

func (tx *faultyTx) CreateBid(ctx context.Context, gigId uuid.UUID, freelancerId uuid.UUID, message string, price float64) (uuid.UUID, error) {
	id, err := tx.Tx.CreateBid(ctx, gigId, freelancerId, message, price)
	if err == nil && tx.failAfter == "insert" {
		return uuid.Nil, errInjected
	}

	return id, err
}

func (tx *faultyTx) DeleteGigById(ctx context.Context, id uuid.UUID) (int64, error) {
	n, err := tx.Tx.DeleteGigById(ctx, id)
	if err == nil && tx.failAfter == "delete" {
		return 0, errInjected
	}

	return n, err
}

// interleavingTransactor calls between once, inside the next transaction that
// checks for an existing bid, after the gig was read and before the insert.
type interleavingTransactor struct {
	repo.Transactor
	between func()
}

func (t *interleavingTransactor) WithinTx(ctx context.Context, fn func(tx repo.Tx) error) error {
	return t.Transactor.WithinTx(ctx, func(tx repo.Tx) error {
		return fn(&interleavingTx{Tx: tx, owner: t})
	})
}

type interleavingTx struct {
	repo.Tx
	owner *interleavingTransactor
}

func (tx *interleavingTx) DoesBidExist(ctx context.Context, gigId uuid.UUID, freelancerId uuid.UUID) (bool, error) {
	if between := tx.owner.between; between != nil {
		tx.owner.between = nil
		between()
	}

	return tx.Tx.DoesBidExist(ctx, gigId, freelancerId)
}

// busyTransactor reports the store as busy on every attempt.
type busyTransactor struct{}

func (busyTransactor) WithinTx(context.Context, func(tx repo.Tx) error) error {
	return fmt.Errorf("%w: could not serialize access", repo_errors.ErrRetryable)
}
