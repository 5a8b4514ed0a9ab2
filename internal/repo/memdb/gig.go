package memdb

import (
	"context"
	"gig-marketplace-api/internal/common"
	"gig-marketplace-api/internal/entity"
	"gig-marketplace-api/internal/repo/repo_errors"
	"sort"
	"strings"

	"github.com/google/uuid"
)

type GigRepo struct {
	*Store
}

func (r *GigRepo) CreateGig(_ context.Context, input *entity.CreateGigInput) (uuid.UUID, error) {
	ownerId, err := parseId(input.OwnerId)
	if err != nil {
		return uuid.Nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.tick()
	gig := entity.Gig{
		Id:          uuid.New(),
		Title:       input.Title,
		Description: input.Description,
		Budget:      input.Budget,
		Status:      common.GigOpen,
		OwnerId:     ownerId,
		Version:     1,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	r.gigs[gig.Id] = gig

	return gig.Id, nil
}

func (r *GigRepo) GetGigById(_ context.Context, id string) (*entity.Gig, error) {
	uuidForm, err := parseId(id)
	if err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	gig, ok := r.gigs[uuidForm]
	if !ok {
		return nil, repo_errors.ErrNotFound
	}

	return &gig, nil
}

func (r *GigRepo) DoesOwnerHaveGigWithTitle(_ context.Context, ownerId string, title string) (bool, error) {
	uuidForm, err := parseId(ownerId)
	if err != nil {
		return false, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	for _, gig := range r.gigs {
		if gig.OwnerId == uuidForm && strings.EqualFold(gig.Title, title) {
			return true, nil
		}
	}

	return false, nil
}

func (r *GigRepo) CountOwnerGigsByStatus(_ context.Context, ownerId string, status string) (int, error) {
	uuidForm, err := parseId(ownerId)
	if err != nil {
		return 0, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	count := 0
	for _, gig := range r.gigs {
		if gig.OwnerId == uuidForm && gig.Status == status {
			count++
		}
	}

	return count, nil
}

func (r *GigRepo) GetGigs(_ context.Context, filter *entity.GigFilter, pg *entity.PaginationInput) ([]entity.Gig, int, error) {
	search := strings.ToLower(filter.Search)

	r.mu.Lock()
	matched := make([]entity.Gig, 0)
	for _, gig := range r.gigs {
		if gig.Status != filter.Status {
			continue
		}
		if search != "" && !strings.Contains(strings.ToLower(gig.Title), search) {
			continue
		}
		matched = append(matched, gig)
	}
	r.mu.Unlock()

	sortGigsNewestFirst(matched)

	total := len(matched)
	start := min(pg.Offset, total)
	end := min(start+pg.Limit, total)

	return matched[start:end], total, nil
}

func (r *GigRepo) GetGigsByOwnerId(_ context.Context, ownerId string) ([]entity.Gig, error) {
	uuidForm, err := parseId(ownerId)
	if err != nil {
		return nil, err
	}

	r.mu.Lock()
	gigs := make([]entity.Gig, 0)
	for _, gig := range r.gigs {
		if gig.OwnerId == uuidForm {
			gigs = append(gigs, gig)
		}
	}
	r.mu.Unlock()

	sortGigsNewestFirst(gigs)

	return gigs, nil
}

func sortGigsNewestFirst(gigs []entity.Gig) {
	sort.Slice(gigs, func(i, j int) bool {
		return gigs[i].CreatedAt.After(gigs[j].CreatedAt)
	})
}

func parseId(id string) (uuid.UUID, error) {
	uuidForm, err := uuid.Parse(id)
	if err != nil {
		return uuid.Nil, repo_errors.ErrNotFound
	}

	return uuidForm, nil
}
