// Package pgx provides a PostgreSQL implementation of the clavis storage
// ports on top of a pgx connection pool.
package pgx

import (
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/avelis/clavis"
)

type Adapter struct {
	pool *pgxpool.Pool
}

var _ clavis.CredentialStorage = (*Adapter)(nil)

func New(pool *pgxpool.Pool) *Adapter {
	return &Adapter{
		pool: pool,
	}
}
