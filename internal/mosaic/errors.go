package mosaic

import "errors"

// ErrInvalidParameter is wrapped by every precondition failure raised by
// the mosaic and scan generators. A generator call that returns it produced
// no partial result.
var ErrInvalidParameter = errors.New("invalid parameter")
