package dawg

import "github.com/pkg/errors"

var (
	// ErrOutOfOrder is returned by Add in strict mode when a word is lower
	// than the previous word of the current session.
	ErrOutOfOrder = errors.New("dawg: word added out of order")

	// ErrInvalidWord is returned by Add for a word that is not valid UTF-8.
	ErrInvalidWord = errors.New("dawg: word is not valid UTF-8")

	// ErrWordNotFound is returned by Remove when the word is not stored.
	ErrWordNotFound = errors.New("dawg: word not found")

	// ErrInconsistentState indicates a broken internal invariant. It is
	// reported by Verify, and internal operations panic with it.
	ErrInconsistentState = errors.New("dawg: inconsistent state")

	// ErrInvalidFormat is returned when decoding a malformed file.
	ErrInvalidFormat = errors.New("dawg: invalid file format")

	errInvalidPath = errors.New("dawg: no such transition path")
)

func inconsistent(format string, args ...interface{}) {
	panic(errors.Wrapf(ErrInconsistentState, format, args...))
}
