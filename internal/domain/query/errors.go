package query

import "errors"

var (
	ErrQueryNotFound     = errors.New("query not found")
	ErrInvalidTransition = errors.New("query is not in a completable state")
	ErrInvalidType       = errors.New("invalid query type")
	ErrInvalidStatus     = errors.New("invalid query status")
	ErrProAccessDisabled = errors.New("pro access disabled for officer")
	ErrRateLimited       = errors.New("hourly query limit reached")
)
