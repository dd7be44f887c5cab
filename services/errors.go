package services

// Error codes returned to callers. Validation, auth, not-found and conflict
// errors are never retried automatically; provider and internal errors are
// surfaced as retryable.
const (
	CodeInvalidPayload      = "INVALID_PAYLOAD"
	CodeInvalidTransition   = "INVALID_TRANSITION"
	CodeReasonRequired      = "REASON_REQUIRED"
	CodeForbidden           = "FORBIDDEN"
	CodeUnauthorized        = "UNAUTHORIZED"
	CodeNotFound            = "NOT_FOUND"
	CodeConflict            = "CONFLICT"
	CodeAmountMismatch      = "AMOUNT_MISMATCH"
	CodeProviderUnavailable = "PROVIDER_UNAVAILABLE"
	CodeCaptureFailed       = "CAPTURE_FAILED"
	CodeInternal            = "INTERNAL"
)

// ServiceError is a typed error with an HTTP status code and a stable
// machine-readable code.
type ServiceError struct {
	StatusCode int
	Code       string
	Message    string
}

func (e *ServiceError) Error() string { return e.Message }

func newError(statusCode int, code, message string) *ServiceError {
	return &ServiceError{StatusCode: statusCode, Code: code, Message: message}
}
