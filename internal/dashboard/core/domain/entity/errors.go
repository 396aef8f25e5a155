package entity

import "errors"

var (
	// ErrSourceUnavailable means the user/order source could not be fetched.
	ErrSourceUnavailable = errors.New("source unavailable")
	// ErrBusy means a status update for the same order is already in flight.
	ErrBusy = errors.New("status update already in flight")
	// ErrTransitionFailed means the backend rejected or failed the update.
	ErrTransitionFailed = errors.New("status transition failed")
	// ErrNoSelection means checkout was requested with no selected lines.
	ErrNoSelection = errors.New("no cart items selected")
	// ErrNotLoggedIn means no cart exists for the phone.
	ErrNotLoggedIn = errors.New("not logged in")

	ErrOrderNotFound   = errors.New("order not found")
	ErrInvalidStatus   = errors.New("invalid status")
	ErrItemNotFound    = errors.New("cart item not found")
	ErrProductNotFound = errors.New("product not found")
)

// BackendError carries the reason reported by a remote collaborator.
type BackendError struct {
	Op      string
	Message string
	Err     error
}

func (e *BackendError) Error() string {
	switch {
	case e.Message != "":
		return e.Op + ": " + e.Message
	case e.Err != nil:
		return e.Op + ": " + e.Err.Error()
	}
	return e.Op + ": backend error"
}

func (e *BackendError) Unwrap() error { return e.Err }
