package directory

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	ErrUnauthorized  = errors.New("unauthorized")
	ErrNotFound      = errors.New("not found")
	ErrAlreadyExists = errors.New("already exists")
	// ErrAlreadyMember matches a join rejected because the user is already a member.
	ErrAlreadyMember = errors.New("already a member")
)

// DirectoryError is a non-success response (StatusCode set) or a transport
// failure (Err set, StatusCode zero) of one directory call.
type DirectoryError struct {
	Op         string
	StatusCode int
	Message    string
	Err        error
}

func (e *DirectoryError) Error() string {
	switch {
	case e.Err != nil:
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	case e.Message != "":
		return fmt.Sprintf("%s: %s (%d)", e.Op, e.Message, e.StatusCode)
	default:
		return fmt.Sprintf("%s: status %d", e.Op, e.StatusCode)
	}
}

func (e *DirectoryError) Unwrap() error { return e.Err }

// Transport reports whether the request was sent but no response was received.
func (e *DirectoryError) Transport() bool { return e.StatusCode == 0 && e.Err != nil }

func (e *DirectoryError) Is(target error) bool {
	switch target {
	case ErrUnauthorized:
		return e.StatusCode == http.StatusUnauthorized
	case ErrNotFound:
		return e.StatusCode == http.StatusNotFound
	case ErrAlreadyExists:
		return e.StatusCode == http.StatusConflict && e.Op != opJoinRoom
	case ErrAlreadyMember:
		return e.StatusCode == http.StatusConflict && e.Op == opJoinRoom
	}
	return false
}
