package pgdb

import (
	"context"
	"gig-marketplace-api/pkg/postgres"
	"time"
)

const pingTimeout = 2 * time.Second

type DiagnosticsRepo struct {
	*postgres.Postgres
}

func NewDiagnosticsRepo(pgdb *postgres.Postgres) *DiagnosticsRepo {
	return &DiagnosticsRepo{pgdb}
}

func (r *DiagnosticsRepo) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()

	return r.Database.PingContext(ctx)
}
