package response

// ErrCode is a typed error code enum for consistent API error identification.
type ErrCode string

const (
	// ─── Authentication ────────────────────────────────────────────────
	ErrInvalidCredentials ErrCode = "INVALID_CREDENTIALS"
	ErrTokenRequired      ErrCode = "TOKEN_REQUIRED"
	ErrTokenInvalid       ErrCode = "TOKEN_INVALID"
	ErrTokenRevoked       ErrCode = "TOKEN_REVOKED"
	ErrTokenUnknown       ErrCode = "TOKEN_UNKNOWN"

	// ─── Validation ────────────────────────────────────────────────────
	ErrValidation     ErrCode = "VALIDATION_ERROR"
	ErrInvalidID      ErrCode = "INVALID_ID"
	ErrInvalidPayload ErrCode = "INVALID_PAYLOAD"

	// ─── Resources ─────────────────────────────────────────────────────
	ErrNotFound          ErrCode = "NOT_FOUND"
	ErrUsernameTaken     ErrCode = "USERNAME_TAKEN"
	ErrEmailTaken        ErrCode = "EMAIL_TAKEN"
	ErrExamNotFound      ErrCode = "EXAM_NOT_FOUND"
	ErrNoQuestions       ErrCode = "NO_QUESTIONS"
	ErrFeatureNotReady   ErrCode = "FEATURE_NOT_AVAILABLE"
	ErrRateLimitExceeded ErrCode = "RATE_LIMIT_EXCEEDED"

	// ─── Server ────────────────────────────────────────────────────────
	ErrInternal ErrCode = "INTERNAL_ERROR"
)

// GetMessage returns a human-readable message for a given error code.
// Messages never reveal internals; in particular, INVALID_CREDENTIALS does
// not distinguish an unknown username from a wrong password.
func GetMessage(code ErrCode) string {
	switch code {
	case ErrInvalidCredentials:
		return "Invalid credentials."
	case ErrTokenRequired:
		return "Authentication token is required."
	case ErrTokenInvalid:
		return "Authentication token is invalid."
	case ErrTokenRevoked:
		return "Authentication token has been revoked."
	case ErrTokenUnknown:
		return "Token not found."
	case ErrValidation:
		return "Validation failed. Please check your input."
	case ErrInvalidID:
		return "Invalid ID format."
	case ErrInvalidPayload:
		return "Invalid request payload."
	case ErrNotFound:
		return "Resource not found."
	case ErrUsernameTaken:
		return "Username already exists."
	case ErrEmailTaken:
		return "Email already exists."
	case ErrExamNotFound:
		return "Exam not found."
	case ErrNoQuestions:
		return "No questions found for this exam."
	case ErrFeatureNotReady:
		return "This feature is not available yet."
	case ErrRateLimitExceeded:
		return "Too many requests. Please try again later."
	case ErrInternal:
		return "An internal server error occurred."
	default:
		return "An unexpected error occurred."
	}
}
