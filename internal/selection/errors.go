package selection

import "errors"

// ErrInvalidArgument indicates a missing buffer or seed span, or a seed span
// whose bounds do not fit the buffer.
var ErrInvalidArgument = errors.New("invalid argument")
