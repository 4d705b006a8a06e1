package waitercall

import "errors"

// Domain errors for waiter-call operations
var (
	ErrTableNotFound = errors.New("waitercall.errors.table_not_found")

	ErrInvalidInterval = errors.New("waitercall.errors.invalid_interval")

	// System errors (store failures, never coerced into a verdict)
	ErrFailedToAdmit         = errors.New("waitercall.errors.failed_to_admit")
	ErrFailedToCreateRequest = errors.New("waitercall.errors.failed_to_create_request")
)
