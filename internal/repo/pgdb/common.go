package pgdb

import (
	"errors"
	"fmt"
	"gig-marketplace-api/internal/entity"
	"gig-marketplace-api/internal/repo"
	"gig-marketplace-api/internal/repo/repo_errors"
	"gig-marketplace-api/pkg/postgres"
	"strings"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

const (
	gigColumns = "gig.id, gig.title, gig.description, gig.budget, gig.status, gig.owner_id, " +
		"gig.hired_freelancer_id, gig.hired_bid_id, gig.version, gig.created_at, gig.updated_at"
	bidColumns = "bid.id, bid.gig_id, bid.freelancer_id, bid.message, bid.price, bid.status, bid.created_at, bid.updated_at"
)

const (
	pgForeignKeyViolation  = "23503"
	pgUniqueViolation      = "23505"
	pgSerializationFailure = "40001"
	pgDeadlockDetected     = "40P01"
)

func NewRepositories(p *postgres.Postgres, hireRetries int) *repo.Repositories {
	return &repo.Repositories{
		Diagnostics: NewDiagnosticsRepo(p),
		User:        NewUserRepo(p),
		Gig:         NewGigRepo(p),
		Bid:         NewBidRepo(p),
		Transactor:  NewTransactor(p, hireRetries),
	}
}

type rowScanner interface {
	Scan(dest ...any) error
}

// Ids come from URLs and tokens; one that is not a uuid cannot name a row.
func parseId(id string) (uuid.UUID, error) {
	uuidForm, err := uuid.Parse(id)
	if err != nil {
		return uuid.Nil, repo_errors.ErrNotFound
	}

	return uuidForm, nil
}

func translateError(err error) error {
	var pqErr *pq.Error
	if !errors.As(err, &pqErr) {
		return err
	}

	switch pqErr.Code {
	case pgForeignKeyViolation:
		return fmt.Errorf("%w: %s", repo_errors.ErrNotFound, pqErr.Constraint)
	case pgUniqueViolation:
		return fmt.Errorf("%w: %s", repo_errors.ErrAlreadyExists, pqErr.Constraint)
	case pgSerializationFailure, pgDeadlockDetected:
		return fmt.Errorf("%w: %s", repo_errors.ErrRetryable, pqErr.Message)
	}

	return err
}

func scanGig(row rowScanner) (*entity.Gig, error) {
	var gig entity.Gig
	err := row.Scan(&gig.Id, &gig.Title, &gig.Description, &gig.Budget, &gig.Status, &gig.OwnerId,
		&gig.HiredFreelancerId, &gig.HiredBidId, &gig.Version, &gig.CreatedAt, &gig.UpdatedAt)
	if err != nil {
		return nil, err
	}

	return &gig, nil
}

func scanBid(row rowScanner) (*entity.Bid, error) {
	var bid entity.Bid
	err := row.Scan(&bid.Id, &bid.GigId, &bid.FreelancerId, &bid.Message, &bid.Price, &bid.Status,
		&bid.CreatedAt, &bid.UpdatedAt)
	if err != nil {
		return nil, err
	}

	return &bid, nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func containsPattern(s string) string {
	return "%" + likeEscaper.Replace(s) + "%"
}
