package coordinator

import "errors"

// Engine errors recovered locally and reported to the originating
// session as error messages. None of them terminate a connection.
var (
	ErrNotAuthenticated   = errors.New("not authenticated")
	ErrUnknownMessageType = errors.New("unknown message type")
	ErrMalformedMessage   = errors.New("malformed message")
	ErrConflictNotFound   = errors.New("conflict not found")
	// ErrConflictOutOfOrder is returned when an older conflict on the
	// same lesson is still open: conflicts resolve in the order their
	// commit attempts reached the version store.
	ErrConflictOutOfOrder = errors.New("an earlier conflict on this lesson must be resolved first")
	// ErrLockRequired is returned for commits without a held lock when
	// the engine is configured with authoritative locks.
	ErrLockRequired  = errors.New("lesson lock required to commit")
	ErrUnknownLesson = errors.New("unknown lesson")
)
