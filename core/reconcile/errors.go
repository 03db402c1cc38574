package reconcile

import "errors"

var (
	// ErrSourceUnavailable reports that the event source could not be queried.
	// Nothing has been mutated when it is returned.
	ErrSourceUnavailable = errors.New("source unavailable")

	// ErrInvalidContext reports that the store context failed a precondition,
	// e.g. a period label that cannot be parsed.
	ErrInvalidContext = errors.New("invalid store context")

	// ErrEmptyStore reports that the store holds no usable data rows.
	ErrEmptyStore = errors.New("store has no usable rows")

	// ErrNoCandidateDates reports that no stored row carries an identity/date pair.
	ErrNoCandidateDates = errors.New("no candidate dates")
)
