package officer

import "errors"

var (
	ErrOfficerNotFound    = errors.New("officer not found")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrOfficerSuspended   = errors.New("officer suspended")
	ErrMobileTaken        = errors.New("mobile number already registered")
	ErrOfficerReferenced  = errors.New("officer has ledger or query history")
	ErrInvalidStatus      = errors.New("invalid officer status")
)
