package ranking

import "errors"

// Sentinel kinds for ranking errors.
var (
	ErrNotFound     = errors.New("site not found")
	ErrInvalidLimit = errors.New("invalid ranking limit")
)
