package mavlink

import "errors"

// ErrTooLong reports that a payload exceeds the 255-byte MAVLink limit.
var ErrTooLong = errors.New("mavlink: payload too long")
