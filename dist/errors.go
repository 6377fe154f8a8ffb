package dist

import "errors"

var (
	// ErrInfiniteSupport is returned by Enumerate for leaves without a finite table.
	ErrInfiniteSupport = errors.New("infinite support")
	// ErrNoSamples is returned when a normalizer or estimator receives no input.
	ErrNoSamples       = errors.New("no samples")
	// ErrZeroWeight is returned when the total sample weight is zero.
	ErrZeroWeight      = errors.New("total weight is zero")
	ErrInvalidArgument = errors.New("invalid argument")
	ErrUnknownStrategy = errors.New("unknown sampling strategy")
)
