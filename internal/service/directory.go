package service

import (
	"context"
	"gig-marketplace-api/internal/entity"
	"gig-marketplace-api/internal/repo"
	"time"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
)

// Directory looks up the display attributes shown next to gigs and bids.
// Names and emails never change after registration, so entries only expire.
type Directory struct {
	userRepo repo.User
	cache    *cache.Cache
}

func NewDirectory(userRepo repo.User, ttl time.Duration) *Directory {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}

	return &Directory{
		userRepo: userRepo,
		cache:    cache.New(ttl, 2*ttl),
	}
}

// Summaries returns the known users among ids. Unknown ids are left out of
// the map.
func (d *Directory) Summaries(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]entity.UserSummary, error) {
	found := make(map[uuid.UUID]entity.UserSummary, len(ids))
	missing := make([]uuid.UUID, 0)
	for _, id := range ids {
		if _, seen := found[id]; seen {
			continue
		}
		if v, ok := d.cache.Get(id.String()); ok {
			found[id] = v.(entity.UserSummary)
			continue
		}
		missing = append(missing, id)
	}

	if len(missing) == 0 {
		return found, nil
	}

	users, err := d.userRepo.GetUserSummariesByIds(ctx, dedupIds(missing))
	if err != nil {
		return nil, err
	}
	for _, u := range users {
		d.cache.SetDefault(u.Id.String(), u)
		found[u.Id] = u
	}

	return found, nil
}

func (d *Directory) Summary(ctx context.Context, id uuid.UUID) (*entity.UserSummary, error) {
	found, err := d.Summaries(ctx, []uuid.UUID{id})
	if err != nil {
		return nil, err
	}

	u, ok := found[id]
	if !ok {
		return nil, nil
	}

	return &u, nil
}

func dedupIds(ids []uuid.UUID) []uuid.UUID {
	seen := make(map[uuid.UUID]struct{}, len(ids))
	out := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}

	return out
}
