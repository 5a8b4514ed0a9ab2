package entity

import (
	"time"

	"github.com/google/uuid"
)

// db model
type Gig struct {
	Id                uuid.UUID     `json:"id" db:"id"`
	Title             string        `json:"title" db:"title"`
	Description       string        `json:"description" db:"description"`
	Budget            int64         `json:"budget" db:"budget"`
	Status            string        `json:"status" db:"status"`
	OwnerId           uuid.UUID     `json:"ownerId" db:"owner_id"`
	HiredFreelancerId uuid.NullUUID `json:"hiredFreelancerId" db:"hired_freelancer_id"`
	HiredBidId        uuid.NullUUID `json:"hiredBidId" db:"hired_bid_id"`
	Version           int           `json:"version" db:"version"`
	CreatedAt         time.Time     `json:"createdAt" db:"created_at"`
	UpdatedAt         time.Time     `json:"updatedAt" db:"updated_at"`
}

// service + repo input model
type CreateGigInput struct {
	Title       string // given
	Description string // given
	Budget      int64  // given
	OwnerId     string // given, from the authenticated actor
	// Id, Status ("open"), Version (1) and timestamps are set by the store
}

type GigFilter struct {
	Status string
	Search string
}

// Limits a single owner's listings. Both rules are checked before insert and
// are not enforced by the store.
type GigPolicy struct {
	MaxOpenGigsPerOwner  int
	UniqueTitlesPerOwner bool
}

// controller model
type GigOutputModel struct {
	Id                string             `json:"id"`
	Title             string             `json:"title"`
	Description       string             `json:"description"`
	Budget            int64              `json:"budget"`
	Status            string             `json:"status"`
	OwnerId           string             `json:"ownerId"`
	Owner             *UserSummaryOutput `json:"owner,omitempty"`
	HiredFreelancerId *string            `json:"hiredFreelancerId"`
	HiredBidId        *string            `json:"hiredBidId"`
	CreatedAt         string             `json:"createdAt"`
	UpdatedAt         string             `json:"updatedAt"`
}

type GigPageOutputModel struct {
	Gigs       []GigOutputModel      `json:"gigs"`
	Pagination PaginationOutputModel `json:"pagination"`
}

type GigSummaryOutputModel struct {
	Id     string `json:"id"`
	Title  string `json:"title"`
	Budget int64  `json:"budget,omitempty"`
	Status string `json:"status"`
}
