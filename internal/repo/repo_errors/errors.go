package repo_errors

import "errors"

var (
	ErrNotFound      = errors.New("not found")
	ErrAlreadyExists = errors.New("already exists")

	// ErrStaleState is returned when a conditional update matched no row
	// because the record changed since it was read.
	ErrStaleState = errors.New("record state changed concurrently")

	// ErrRetryable marks a transaction that was aborted by the store and
	// may succeed if the whole unit is run again.
	ErrRetryable = errors.New("transaction aborted, retry")
)
