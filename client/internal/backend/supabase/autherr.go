package supabase

import (
	"encoding/json"
	"errors"
	"regexp"
	"strconv"
	"strings"

	"github.com/miyatoshi624/gote/client/internal/backend"
)

// gotrue-go reports failures as "response status code 422: <body>".
var statusPattern = regexp.MustCompile(`status code (\d{3}): ?`)

// authError is the part of a GoTrue error body the driver looks at. Older
// servers send OAuth-style error/error_description, newer ones error_code/msg.
type authError struct {
	Status           int    `json:"-"`
	ErrorCode        string `json:"error_code"`
	Msg              string `json:"msg"`
	Error            string `json:"error"`
	ErrorDescription string `json:"error_description"`
}

// parseAuthError extracts the status and body of a gotrue-go error. Status
// is 0 when err carries no HTTP response.
func parseAuthError(err error) authError {
	msg := err.Error()
	loc := statusPattern.FindStringSubmatchIndex(msg)
	if loc == nil {
		return authError{}
	}
	var ae authError
	_ = json.Unmarshal([]byte(strings.TrimSpace(msg[loc[1]:])), &ae)
	ae.Status, _ = strconv.Atoi(msg[loc[2]:loc[3]])
	return ae
}

func (ae authError) accountExists() bool {
	switch ae.ErrorCode {
	case "user_already_exists", "email_exists":
		return true
	}
	return strings.Contains(strings.ToLower(ae.Msg), "already registered")
}

func (ae authError) invalidCredentials() bool {
	return ae.ErrorCode == "invalid_credentials" || ae.Error == "invalid_grant"
}

// classifyAuthError tags the GoTrue failures that have a backend sentinel.
// Everything else (weak_password, email_not_confirmed, 5xx) is returned
// unchanged and classified by its HTTP status.
func classifyAuthError(err error) error {
	ae := parseAuthError(err)
	switch {
	case ae.Status == 0:
		return err
	case ae.accountExists():
		return errors.Join(backend.ErrAccountExists, err)
	case ae.invalidCredentials():
		return errors.Join(backend.ErrInvalidCredentials, err)
	}
	return err
}
