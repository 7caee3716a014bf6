// Package qa implements the core of the Q&A domain: the vote ledger, the
// answer-acceptance state machine, and answer submission — the three places
// where concurrent user actions must still produce a consistent outcome.
package qa

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	"github.com/stackit-dev/stackit/backend/internal/notify"
)

type Service struct {
	db       *gorm.DB
	notifier *notify.Dispatcher
}

func New(db *gorm.DB, notifier *notify.Dispatcher) *Service {
	return &Service{db: db, notifier: notifier}
}

// isUniqueViolation reports a Postgres duplicate-key error (SQLSTATE 23505),
// which is how a lost race against the vote pair constraint surfaces.
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
