package faults

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"encoding/json"
	"errors"
	"io"
	"net"
	"regexp"
	"strconv"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/miyatoshi624/gote/client/internal/backend"
	"github.com/miyatoshi624/gote/client/internal/types"
)

var (
	// gotrue-go: "response status code 400: {...}"
	httpStatusPattern = regexp.MustCompile(`status code (\d{3})`)
	// postgrest-go: "(PGRST116) JSON object requested, ..." or "(23505) duplicate key ..."
	postgrestCodePattern = regexp.MustCompile(`\(([0-9A-Z]{5}|PGRST\d{3})\)`)
)

// Classify inspects err and reports what kind of fault it is. A nil err
// yields nil; anything unrecognised is an irrecoverable KindUnknown.
func Classify(err error) *ClassifiedError {
	if err == nil {
		return nil
	}
	var ce *ClassifiedError
	if errors.As(err, &ce) {
		return ce
	}

	switch {
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return &ClassifiedError{Kind: KindCanceled, Category: Irrecoverable, Underlying: err}
	case errors.Is(err, backend.ErrInvalidCredentials):
		return &ClassifiedError{Kind: KindInvalidCredentials, Category: Irrecoverable, Underlying: err}
	case errors.Is(err, backend.ErrAccountExists):
		return &ClassifiedError{Kind: KindAccountExists, Category: Irrecoverable, Underlying: err}
	case errors.Is(err, types.ErrValidation):
		return &ClassifiedError{Kind: KindValidation, Category: Irrecoverable, Underlying: err}
	case errors.Is(err, backend.ErrMalformed), isDecodeError(err):
		return &ClassifiedError{Kind: KindDecode, Category: Irrecoverable, Underlying: err}
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return &ClassifiedError{Kind: KindBackend, Category: sqlStateCategory(pgErr.Code), Code: pgErr.Code, Underlying: err}
	}

	if isTransportError(err) {
		return &ClassifiedError{Kind: KindTransport, Category: Recoverable, Underlying: err}
	}

	msg := err.Error()
	if m := postgrestCodePattern.FindStringSubmatch(msg); m != nil {
		return &ClassifiedError{Kind: KindBackend, Category: postgrestCategory(m[1]), Code: m[1], Underlying: err}
	}
	if m := httpStatusPattern.FindStringSubmatch(msg); m != nil {
		status, _ := strconv.Atoi(m[1])
		return ClassifyHTTPError(status, err)
	}

	return &ClassifiedError{Kind: KindUnknown, Category: Irrecoverable, Underlying: err}
}

func isDecodeError(err error) bool {
	var syntaxErr *json.SyntaxError
	var typeErr *json.UnmarshalTypeError
	return errors.As(err, &syntaxErr) || errors.As(err, &typeErr)
}

func isTransportError(err error) bool {
	var netErr net.Error
	switch {
	case errors.As(err, &netErr):
		return true
	case errors.Is(err, io.ErrUnexpectedEOF):
		return true
	case errors.Is(err, driver.ErrBadConn), errors.Is(err, sql.ErrConnDone):
		return true
	}
	return false
}

// sqlStateCategory treats connection exceptions (class 08), insufficient
// resources (53) and operator intervention (57) as transient.
func sqlStateCategory(code string) ErrorCategory {
	if len(code) < 2 {
		return Irrecoverable
	}
	switch code[:2] {
	case "08", "53", "57":
		return Recoverable
	}
	if code == "40001" || code == "40P01" {
		return Recoverable
	}
	return Irrecoverable
}

// PGRST000-PGRST003 are PostgREST's connection and pool errors.
func postgrestCategory(code string) ErrorCategory {
	switch code {
	case "PGRST000", "PGRST001", "PGRST002", "PGRST003":
		return Recoverable
	}
	if len(code) == 5 {
		return sqlStateCategory(code)
	}
	return Irrecoverable
}
