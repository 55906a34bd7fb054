package lifecycle

import "errors"

var ErrInvalidSecurityCode = errors.New("invalid security code")
