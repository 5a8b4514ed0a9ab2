package entity

import (
	"time"

	"github.com/google/uuid"
)

type Bid struct {
	Id           uuid.UUID `json:"id" db:"id"`
	GigId        uuid.UUID `json:"gigId" db:"gig_id"`
	FreelancerId uuid.UUID `json:"freelancerId" db:"freelancer_id"`
	Message      string    `json:"message" db:"message"`
	Price        float64   `json:"price" db:"price"`
	Status       string    `json:"status" db:"status"`
	CreatedAt    time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt    time.Time `json:"updatedAt" db:"updated_at"`
}

// A bid joined with the parent gig columns shown in "my bids". Gig fields are
// empty when the gig row is gone.
type FreelancerBid struct {
	Bid
	GigTitle  string
	GigBudget int64
	GigStatus string
	GigFound  bool
}

// service + repo input model
type CreateBidInput struct {
	GigId        string  // given
	FreelancerId string  // given, from the authenticated actor
	Message      string  // given
	Price        float64 // given
	// Id, Status ("pending") and timestamps are set by the store
}

// controller model
type BidOutputModel struct {
	Id           string                 `json:"id"`
	GigId        string                 `json:"gigId"`
	FreelancerId string                 `json:"freelancerId"`
	Freelancer   *UserSummaryOutput     `json:"freelancer,omitempty"`
	Gig          *GigSummaryOutputModel `json:"gig,omitempty"`
	Message      string                 `json:"message"`
	Price        float64                `json:"price"`
	Status       string                 `json:"status"`
	CreatedAt    string                 `json:"createdAt"`
	UpdatedAt    string                 `json:"updatedAt"`
}

type HiredBidOutputModel struct {
	Id           string  `json:"id"`
	FreelancerId string  `json:"freelancerId"`
	Price        float64 `json:"price"`
	Status       string  `json:"status"`
}

type HireOutputModel struct {
	Gig           GigSummaryOutputModel `json:"gig"`
	HiredBid      HiredBidOutputModel   `json:"hiredBid"`
	RejectedCount int64                 `json:"rejectedCount"`
}
