package repository_test

import (
	"database/sql"
	"errors"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/scriba-dms/scriba/pkg/repository"
)

var (
	errMissing   = errors.New("missing")
	errDuplicate = errors.New("duplicate")
)

func TestMapErrorNil(t *testing.T) {
	if got := repository.MapError(nil, errMissing, errDuplicate); got != nil {
		t.Errorf("MapError(nil) = %v, want nil", got)
	}
}

func TestMapErrorNoRows(t *testing.T) {
	got := repository.MapError(sql.ErrNoRows, errMissing, errDuplicate)
	if !errors.Is(got, errMissing) {
		t.Errorf("MapError(ErrNoRows) = %v, want %v", got, errMissing)
	}
}

func TestMapErrorUniqueViolation(t *testing.T) {
	got := repository.MapError(&pgconn.PgError{Code: "23505"}, errMissing, errDuplicate)
	if !errors.Is(got, errDuplicate) {
		t.Errorf("MapError(23505) = %v, want %v", got, errDuplicate)
	}
}

func TestMapErrorOtherPgCode(t *testing.T) {
	pgErr := &pgconn.PgError{Code: "23503"}
	if got := repository.MapError(pgErr, errMissing, errDuplicate); got != pgErr {
		t.Errorf("MapError(23503) = %v, want passthrough", got)
	}
}

func TestMapErrorPassthrough(t *testing.T) {
	original := errors.New("network down")
	if got := repository.MapError(original, errMissing, errDuplicate); got != original {
		t.Errorf("MapError(other) = %v, want %v", got, original)
	}
}
