package memdb

import (
	"context"
	"gig-marketplace-api/internal/entity"
	"gig-marketplace-api/internal/repo"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Store keeps every table in process memory behind one mutex. A transaction
// holds the mutex from begin to commit, so transactions are serializable.
type Store struct {
	mu    sync.Mutex
	users map[uuid.UUID]entity.User
	gigs  map[uuid.UUID]entity.Gig
	bids  map[uuid.UUID]entity.Bid
	last  time.Time
	now   func() time.Time
}

func NewStore() *Store {
	return &Store{
		users: make(map[uuid.UUID]entity.User),
		gigs:  make(map[uuid.UUID]entity.Gig),
		bids:  make(map[uuid.UUID]entity.Bid),
		now:   func() time.Time { return time.Now().UTC() },
	}
}

func NewRepositories(s *Store) *repo.Repositories {
	return &repo.Repositories{
		Diagnostics: &DiagnosticsRepo{s},
		User:        &UserRepo{s},
		Gig:         &GigRepo{s},
		Bid:         &BidRepo{s},
		Transactor:  &Transactor{s},
	}
}

// tick returns a timestamp strictly after the previous one so that
// newest-first ordering is total. Callers hold s.mu.
func (s *Store) tick() time.Time {
	t := s.now()
	if !t.After(s.last) {
		t = s.last.Add(time.Microsecond)
	}
	s.last = t

	return t
}

// undoLog keeps the value each row had before a transaction first wrote it,
// nil for a row the transaction created.
type undoLog struct {
	gigs map[uuid.UUID]*entity.Gig
	bids map[uuid.UUID]*entity.Bid
}

func newUndoLog() *undoLog {
	return &undoLog{
		gigs: make(map[uuid.UUID]*entity.Gig),
		bids: make(map[uuid.UUID]*entity.Bid),
	}
}

func (u *undoLog) saveGig(s *Store, id uuid.UUID) {
	if _, seen := u.gigs[id]; seen {
		return
	}
	if gig, ok := s.gigs[id]; ok {
		u.gigs[id] = &gig
		return
	}
	u.gigs[id] = nil
}

func (u *undoLog) saveBid(s *Store, id uuid.UUID) {
	if _, seen := u.bids[id]; seen {
		return
	}
	if bid, ok := s.bids[id]; ok {
		u.bids[id] = &bid
		return
	}
	u.bids[id] = nil
}

func (u *undoLog) rollback(s *Store) {
	for id, gig := range u.gigs {
		if gig == nil {
			delete(s.gigs, id)
			continue
		}
		s.gigs[id] = *gig
	}
	for id, bid := range u.bids {
		if bid == nil {
			delete(s.bids, id)
			continue
		}
		s.bids[id] = *bid
	}
}

type DiagnosticsRepo struct {
	*Store
}

// Ping only fails for a caller that has already given up.
func (r *DiagnosticsRepo) Ping(ctx context.Context) error {
	return ctx.Err()
}
