// Package repository provides PostgreSQL persistence for users, teams and
// plan entries.
package repository

import (
	"database/sql"
	"errors"

	"github.com/lib/pq"
)

var (
	// ErrNotFound is returned when a referenced row does not exist.
	ErrNotFound = errors.New("not found")
	// ErrAlreadyUsed is returned when a unique name is taken.
	ErrAlreadyUsed = errors.New("already used")
)

const (
	uniqueViolation     = "23505"
	foreignKeyViolation = "23503"
)

// translate maps driver errors onto the repository sentinels.
func translate(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch pqErr.Code {
		case uniqueViolation:
			return ErrAlreadyUsed
		case foreignKeyViolation:
			return ErrNotFound
		}
	}
	return err
}

// affected turns "no row touched" into ErrNotFound.
func affected(res sql.Result, err error) error {
	if err != nil {
		return translate(err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

// leader holds the nullable columns of a LEFT JOINed team leader.
type leader struct {
	id        sql.NullInt64
	username  sql.NullString
	firstName sql.NullString
	lastName  sql.NullString
	role      sql.NullString
}
