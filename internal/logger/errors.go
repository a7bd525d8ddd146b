package logger

import "errors"

// ErrInvalidFormat is returned when the configured encoding is neither console nor json.
var ErrInvalidFormat = errors.New("invalid log format")
