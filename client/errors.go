package client

import (
	"errors"
	"fmt"

	"github.com/miyatoshi624/gote/client/internal/faults"
)

// Error codes carried by Error.Code. Backend-supplied codes (SQLSTATE such as
// "23505", PostgREST "PGRST116", HTTP statuses such as "401") pass through
// unchanged.
const (
	CodeUnclassified       = ""
	CodeUnauthenticated    = "unauthenticated"
	CodeInvalidCredentials = "invalid_credentials"
	CodeAccountExists      = "account_exists"
	CodeInvalidArgument    = "invalid_argument"
	CodeTransport          = "transport"
	CodeDecode             = "decode"
	CodeCanceled           = "canceled"
	CodeNotConfigured      = "not_configured"
	CodeBackend            = "backend"
	CodeInternal           = "internal"
)

// Error is the failure payload of every remote-facing Client operation.
type Error struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (e Error) Error() string {
	if e.Code == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// ErrUnauthenticated is the failure returned when no session is held.
var ErrUnauthenticated = Error{Code: CodeUnauthenticated, Message: "not signed in"}

// AsError normalises any fault into an Error. An Error anywhere in the chain
// is returned as is.
func AsError(err error) Error {
	if err == nil {
		return Error{}
	}
	var e Error
	if errors.As(err, &e) {
		return e
	}
	var pe *Error
	if errors.As(err, &pe) && pe != nil {
		return *pe
	}

	c := faults.Classify(err)
	out := Error{Message: err.Error()}
	switch c.Kind {
	case faults.KindCanceled:
		out.Code = CodeCanceled
	case faults.KindInvalidCredentials:
		out.Code = CodeInvalidCredentials
	case faults.KindAccountExists:
		out.Code = CodeAccountExists
	case faults.KindValidation:
		out.Code = CodeInvalidArgument
	case faults.KindTransport:
		out.Code = CodeTransport
	case faults.KindDecode:
		out.Code = CodeDecode
	case faults.KindBackend:
		out.Code = CodeBackend
		if c.Code != "" {
			out.Code = c.Code
		}
	}
	return out
}

// IsCode reports whether err normalises to code.
func IsCode(err error, code string) bool {
	return err != nil && AsError(err).Code == code
}
