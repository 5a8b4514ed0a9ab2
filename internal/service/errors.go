package service

import (
	"errors"
	"fmt"
)

type Kind int

const (
	KindInfrastructure Kind = iota
	KindNotFound
	KindForbidden
	KindBadRequest
	KindConflict
	KindUnauthenticated
)

func (k Kind) String() string {
	switch k {
	case KindNotFound:
		return "not_found"
	case KindForbidden:
		return "forbidden"
	case KindBadRequest:
		return "bad_request"
	case KindConflict:
		return "conflict"
	case KindUnauthenticated:
		return "unauthenticated"
	}

	return "infrastructure"
}

// Error is a business rule violation that is safe to show to the caller.
type Error struct {
	Kind    Kind
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

func newError(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

var (
	ErrGigNotFound  = newError(KindNotFound, "Gig not found")
	ErrBidNotFound  = newError(KindNotFound, "Bid not found")
	ErrUserNotFound = newError(KindNotFound, "User not found")

	ErrDuplicateGigTitle  = newError(KindConflict, "You already have a gig with this title")
	ErrOnlyOwnerCanDelete = newError(KindForbidden, "You can only delete your own gigs")
	ErrAssignedGigDelete  = newError(KindBadRequest, "Cannot delete an assigned gig")

	ErrGigClosedForBids = newError(KindBadRequest, "This gig is no longer accepting bids")
	ErrBidOnOwnGig      = newError(KindForbidden, "You cannot bid on your own gig")
	ErrDuplicateBid     = newError(KindConflict, "You have already submitted a bid for this gig")
	ErrOnlyOwnerSeeBids = newError(KindForbidden, "Only the gig owner can view bids")

	ErrOnlyOwnerCanHire   = newError(KindForbidden, "Only the gig owner can hire freelancers")
	ErrGigAlreadyAssigned = newError(KindBadRequest, "This gig has already been assigned")

	ErrEmailTaken         = newError(KindConflict, "User with this email already exists")
	ErrInvalidCredentials = newError(KindUnauthenticated, "Invalid email or password")

	ErrTemporarilyUnavailable = newError(KindInfrastructure, "Service temporarily unavailable, please retry")
)

// ErrOpenGigQuota carries the configured limit in its message. Callers
// match it by KindOf rather than errors.Is.
func ErrOpenGigQuota(limit int) *Error {
	return newError(KindBadRequest, fmt.Sprintf(
		"You can only have %d open gigs at a time. Close some gigs first or Enroll for premium.", limit))
}

// KindOf reports the kind of err, or KindInfrastructure if err carries no
// *Error.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}

	return KindInfrastructure
}
