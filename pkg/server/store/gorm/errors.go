package gorm

import (
	"errors"

	"github.com/jackc/pgconn"
	"gorm.io/gorm"

	"github.com/loandesk/loandesk/pkg/server/store"
)

const pgUniqueViolation = "23505"

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation
}

// translate maps driver errors onto the store sentinels.
func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return store.ErrNotFound
	default:
		return err
	}
}
