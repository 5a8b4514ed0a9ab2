package repo

import (
	"context"
	"gig-marketplace-api/internal/entity"

	"github.com/google/uuid"
)

type Diagnostics interface {
	Ping(ctx context.Context) error
}

type User interface {
	CreateUser(ctx context.Context, input *entity.CreateUserInput) (uuid.UUID, error)
	GetUserById(ctx context.Context, id string) (*entity.User, error)
	GetUserByEmail(ctx context.Context, email string) (*entity.User, error)
	GetUserSummariesByIds(ctx context.Context, ids []uuid.UUID) ([]entity.UserSummary, error)
}

type Gig interface {
	CreateGig(ctx context.Context, input *entity.CreateGigInput) (uuid.UUID, error)
	GetGigById(ctx context.Context, id string) (*entity.Gig, error)
	DoesOwnerHaveGigWithTitle(ctx context.Context, ownerId string, title string) (bool, error)
	CountOwnerGigsByStatus(ctx context.Context, ownerId string, status string) (int, error)
	GetGigs(ctx context.Context, filter *entity.GigFilter, pg *entity.PaginationInput) ([]entity.Gig, int, error)
	GetGigsByOwnerId(ctx context.Context, ownerId string) ([]entity.Gig, error)
}

type Bid interface {
	GetBidById(ctx context.Context, id string) (*entity.Bid, error)
	GetGigBids(ctx context.Context, gigId string) ([]entity.Bid, error)
	GetFreelancerBids(ctx context.Context, freelancerId string) ([]entity.FreelancerBid, error)
}

// Tx holds every write to gigs and bids. Every call made on a Tx belongs to
// the same store transaction.
type Tx interface {
	GetBidById(ctx context.Context, id string) (*entity.Bid, error)
	// GetGigByIdForShare reads the gig and keeps its status from changing
	// until commit or rollback. Other shared readers are not blocked.
	GetGigByIdForShare(ctx context.Context, id uuid.UUID) (*entity.Gig, error)
	// GetGigByIdForUpdate reads the gig and keeps it locked against other
	// transactions until commit or rollback.
	GetGigByIdForUpdate(ctx context.Context, id uuid.UUID) (*entity.Gig, error)
	// AssignGig moves an open gig to assigned. It returns
	// repo_errors.ErrStaleState if the gig is no longer open at the version
	// that was read.
	AssignGig(ctx context.Context, gig *entity.Gig, freelancerId uuid.UUID, bidId uuid.UUID) error
	UpdateBidStatusById(ctx context.Context, id uuid.UUID, status string) error
	RejectOtherGigBids(ctx context.Context, gigId uuid.UUID, hiredBidId uuid.UUID) (int64, error)
	DoesBidExist(ctx context.Context, gigId uuid.UUID, freelancerId uuid.UUID) (bool, error)
	// CreateBid inserts a pending bid. A second bid by the same freelancer
	// fails with repo_errors.ErrAlreadyExists, a bid on a gig that is no
	// longer open with repo_errors.ErrStaleState.
	CreateBid(ctx context.Context, gigId uuid.UUID, freelancerId uuid.UUID, message string, price float64) (uuid.UUID, error)
	// DeleteGigById removes the gig together with its bids and returns the
	// number of bids removed.
	DeleteGigById(ctx context.Context, id uuid.UUID) (int64, error)
}

// Transactor runs fn in one transaction: everything fn did through tx is
// committed when fn returns nil and rolled back otherwise.
type Transactor interface {
	WithinTx(ctx context.Context, fn func(tx Tx) error) error
}

type Repositories struct {
	Diagnostics
	User
	Gig
	Bid
	Transactor
}
