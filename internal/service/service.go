package service

import (
	"context"
	"gig-marketplace-api/internal/entity"
	"gig-marketplace-api/internal/repo"
	"gig-marketplace-api/pkg/token"
	"time"
)

type Diagnostics interface {
	Ping(ctx context.Context) error
}

type Auth interface {
	Register(ctx context.Context, name, email, password string) (*entity.AuthOutputModel, error)
	Login(ctx context.Context, email, password string) (*entity.AuthOutputModel, error)
	Me(ctx context.Context, userId string) (*entity.UserSummaryOutput, error)
	// Authenticate resolves a session token to the id of its user.
	Authenticate(tokenString string) (string, error)
}

type Gig interface {
	CreateGig(ctx context.Context, input *entity.CreateGigInput) (*entity.GigOutputModel, error)
	GetGigById(ctx context.Context, gigId string) (*entity.GigOutputModel, error)
	GetGigs(ctx context.Context, filter *entity.GigFilter, pg *entity.PaginationInput) (*entity.GigPageOutputModel, error)
	GetMyGigs(ctx context.Context, ownerId string) ([]entity.GigOutputModel, error)
	DeleteGig(ctx context.Context, gigId string, requesterId string) error
}

type Bid interface {
	CreateBid(ctx context.Context, input *entity.CreateBidInput) (*entity.BidOutputModel, error)
	GetBidsForGig(ctx context.Context, gigId string, requesterId string) ([]entity.BidOutputModel, error)
	GetMyBids(ctx context.Context, freelancerId string) ([]entity.BidOutputModel, error)
	HireBid(ctx context.Context, bidId string, requesterId string) (*entity.HireOutputModel, error)
}

type Services struct {
	Diagnostics Diagnostics
	Auth        Auth
	Gig         Gig
	Bid         Bid
}

type Options struct {
	Policy            entity.GigPolicy
	Tokens            *token.Issuer
	DirectoryCacheTTL time.Duration
}

func NewServices(repos *repo.Repositories, opts Options) *Services {
	directory := NewDirectory(repos.User, opts.DirectoryCacheTTL)

	return &Services{
		Diagnostics: NewDiagnosticsService(repos),
		Auth:        NewAuthService(repos, opts.Tokens),
		Gig:         NewGigService(repos, directory, opts.Policy),
		Bid:         NewBidService(repos, directory),
	}
}
