package adapter

import (
	"github.com/cockroachdb/errors"
)

var (
	// ErrNilParent is returned when a composed layer is given no parent.
	ErrNilParent = errors.New("cannot create an adapter with a nil parent adapter")

	// ErrUnimplemented is returned by decisions that have no baseline answer
	// when no layer of the chain implements them.
	ErrUnimplemented = errors.New("unimplemented behavior")

	// ErrNilContext is returned when a root layer is created without a context.
	ErrNilContext = errors.New("cannot create a root adapter without a context")
)

// IsConfigurationError reports whether err is one of the fatal setup errors
// of this package.
func IsConfigurationError(err error) bool {
	return errors.IsAny(err, ErrNilParent, ErrUnimplemented, ErrNilContext)
}
