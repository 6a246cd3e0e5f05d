package roi

import "errors"

var (
	// ErrArgument reports an invalid, missing, or mismatched-length
	// argument, such as a labels slice whose length does not match the
	// region count.
	ErrArgument = errors.New("invalid argument")

	// ErrShape reports a dimension mismatch between region
	// representations or between elements of a mask list.
	ErrShape = errors.New("array shape mismatch")

	// ErrType reports an unsupported representation passed to a
	// polymorphic operation.
	ErrType = errors.New("unsupported region representation")
)
