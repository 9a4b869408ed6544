package entity

import "errors"

// ErrorKind is the coarse category the transport maps to a status code.
type ErrorKind string

const (
	KindNotFound     ErrorKind = "not_found"
	KindNotOrganizer ErrorKind = "not_organizer"
	KindValidation   ErrorKind = "validation"
	KindConflict     ErrorKind = "conflict"
)

// Error is an expected business-rule failure.
type Error struct {
	Kind    ErrorKind
	Code    string
	Message string
}

func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	return e.Message
}

var (
	ErrWebinarNotFound = &Error{Kind: KindNotFound, Code: "webinar_not_found",
		Message: "Webinar not found"}
	ErrWebinarNotOrganizer = &Error{Kind: KindNotOrganizer, Code: "webinar_not_organizer",
		Message: "User is not allowed to update this webinar"}
	ErrWebinarDatesTooSoon = &Error{Kind: KindValidation, Code: "webinar_dates_too_soon",
		Message: "Webinar must be scheduled at least 3 days in advance"}
	ErrWebinarTooManySeats = &Error{Kind: KindValidation, Code: "webinar_too_many_seats",
		Message: "Webinar must have at most 1000 seats"}
	ErrWebinarNotEnoughSeats = &Error{Kind: KindValidation, Code: "webinar_not_enough_seats",
		Message: "Webinar must have at least 1 seat"}
	ErrWebinarReduceSeats = &Error{Kind: KindValidation, Code: "webinar_reduce_seats",
		Message: "Webinar seats cannot be reduced"}
	ErrWebinarAlreadyExists = &Error{Kind: KindConflict, Code: "webinar_already_exists",
		Message: "Webinar already exists"}
	ErrWebinarConcurrentUpdate = &Error{Kind: KindConflict, Code: "webinar_concurrent_update",
		Message: "Webinar was modified concurrently"}
)

// KindOf reports the kind of err, or "" when err is not a domain error.
func KindOf(err error) ErrorKind {
	var de *Error
	if errors.As(err, &de) {
		return de.Kind
	}
	return ""
}

// IsKind helps callers classify errors without depending on infra packages.
func IsKind(err error, kind ErrorKind) bool {
	return err != nil && KindOf(err) == kind
}
