package engine

import "errors"

// ErrInvalidSample is returned when a sample is rejected. The engine state is
// left untouched and no event is emitted.
var ErrInvalidSample = errors.New("invalid sample")
