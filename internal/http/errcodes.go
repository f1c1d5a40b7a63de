package http

const (
	ErrCodeBadRequest       = "BAD_REQUEST"
	ErrCodeInternal         = "INTERNAL"
	ErrCodeValidation       = "VALIDATION"
	ErrCodeNotFound         = "NOT_FOUND"
	ErrCodeUnauthenticated  = "UNAUTHENTICATED"
	ErrCodePermissionDenied = "PERMISSION_DENIED"
	ErrCodeAlreadyMember    = "ALREADY_MEMBER"
	ErrCodeLastOwner        = "LAST_OWNER"
	ErrCodeInvalidState     = "INVALID_STATE"
	ErrCodeEmailMismatch    = "EMAIL_MISMATCH"
)
