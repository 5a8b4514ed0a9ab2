package service

import (
	"gig-marketplace-api/internal/entity"
	"time"

	"github.com/google/uuid"
)

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

func nullableId(id uuid.NullUUID) *string {
	if !id.Valid {
		return nil
	}
	s := id.UUID.String()

	return &s
}

func mapUserSummary(u *entity.UserSummary) *entity.UserSummaryOutput {
	if u == nil {
		return nil
	}

	return &entity.UserSummaryOutput{
		Id:    u.Id.String(),
		Name:  u.Name,
		Email: u.Email,
	}
}

func mapGig(g *entity.Gig, owner *entity.UserSummary) *entity.GigOutputModel {
	return &entity.GigOutputModel{
		Id:                g.Id.String(),
		Title:             g.Title,
		Description:       g.Description,
		Budget:            g.Budget,
		Status:            g.Status,
		OwnerId:           g.OwnerId.String(),
		Owner:             mapUserSummary(owner),
		HiredFreelancerId: nullableId(g.HiredFreelancerId),
		HiredBidId:        nullableId(g.HiredBidId),
		CreatedAt:         formatTime(g.CreatedAt),
		UpdatedAt:         formatTime(g.UpdatedAt),
	}
}

func mapGigs(g []entity.Gig, owners map[uuid.UUID]entity.UserSummary) []entity.GigOutputModel {
	s := make([]entity.GigOutputModel, 0)
	for _, gig := range g {
		var owner *entity.UserSummary
		if u, ok := owners[gig.OwnerId]; ok {
			owner = &u
		}
		s = append(s, *mapGig(&gig, owner))
	}

	return s
}

func mapBid(b *entity.Bid) *entity.BidOutputModel {
	return &entity.BidOutputModel{
		Id:           b.Id.String(),
		GigId:        b.GigId.String(),
		FreelancerId: b.FreelancerId.String(),
		Message:      b.Message,
		Price:        b.Price,
		Status:       b.Status,
		CreatedAt:    formatTime(b.CreatedAt),
		UpdatedAt:    formatTime(b.UpdatedAt),
	}
}

func mapGigBids(b []entity.Bid, freelancers map[uuid.UUID]entity.UserSummary) []entity.BidOutputModel {
	s := make([]entity.BidOutputModel, 0)
	for _, bid := range b {
		out := mapBid(&bid)
		if u, ok := freelancers[bid.FreelancerId]; ok {
			out.Freelancer = mapUserSummary(&u)
		}
		s = append(s, *out)
	}

	return s
}

func mapFreelancerBids(b []entity.FreelancerBid) []entity.BidOutputModel {
	s := make([]entity.BidOutputModel, 0)
	for _, fb := range b {
		out := mapBid(&fb.Bid)
		if fb.GigFound {
			out.Gig = &entity.GigSummaryOutputModel{
				Id:     fb.GigId.String(),
				Title:  fb.GigTitle,
				Budget: fb.GigBudget,
				Status: fb.GigStatus,
			}
		}
		s = append(s, *out)
	}

	return s
}

func mapHire(g *entity.Gig, b *entity.Bid, rejected int64) *entity.HireOutputModel {
	return &entity.HireOutputModel{
		Gig: entity.GigSummaryOutputModel{
			Id:     g.Id.String(),
			Title:  g.Title,
			Status: g.Status,
		},
		HiredBid: entity.HiredBidOutputModel{
			Id:           b.Id.String(),
			FreelancerId: b.FreelancerId.String(),
			Price:        b.Price,
			Status:       b.Status,
		},
		RejectedCount: rejected,
	}
}

func mapUser(u *entity.User) *entity.UserSummaryOutput {
	return &entity.UserSummaryOutput{
		Id:    u.Id.String(),
		Name:  u.Name,
		Email: u.Email,
	}
}
