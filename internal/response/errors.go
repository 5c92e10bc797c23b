package response

// ErrCode is a typed error code enum for consistent API error identification.
type ErrCode string

const (
	// ─── Authentication ────────────────────────────────────────────────
	ErrTokenRequired ErrCode = "TOKEN_REQUIRED"
	ErrTokenInvalid  ErrCode = "TOKEN_INVALID"

	// ─── Authorization ─────────────────────────────────────────────────
	ErrForbidden       ErrCode = "FORBIDDEN"
	ErrAdminAccessOnly ErrCode = "ADMIN_ACCESS_ONLY"

	// ─── Validation ────────────────────────────────────────────────────
	ErrValidation     ErrCode = "VALIDATION_ERROR"
	ErrInvalidID      ErrCode = "INVALID_ID"
	ErrInvalidPayload ErrCode = "INVALID_PAYLOAD"

	// ─── Resources ─────────────────────────────────────────────────────
	ErrNotFound ErrCode = "NOT_FOUND"
	ErrConflict ErrCode = "CONFLICT"

	// ─── Intake ────────────────────────────────────────────────────────
	ErrUnknownSection ErrCode = "UNKNOWN_SECTION"
	ErrInvalidAnswers ErrCode = "INVALID_ANSWERS"
	ErrSaveFailed     ErrCode = "SAVE_FAILED"

	// ─── Profile ───────────────────────────────────────────────────────
	ErrNoSections      ErrCode = "NO_SECTIONS"
	ErrProfileNotFound ErrCode = "PROFILE_NOT_FOUND"
	ErrProfileBusy     ErrCode = "PROFILE_BUSY"

	// ─── Narrative ─────────────────────────────────────────────────────
	ErrNarrativeDisabled ErrCode = "NARRATIVE_DISABLED"
	ErrNarrativePartial  ErrCode = "NARRATIVE_PARTIAL"
	ErrNarrativeFailed   ErrCode = "NARRATIVE_FAILED"

	// ─── Rate Limiting ─────────────────────────────────────────────────
	ErrRateLimitExceeded ErrCode = "RATE_LIMIT_EXCEEDED"

	// ─── Server ────────────────────────────────────────────────────────
	ErrInternal ErrCode = "INTERNAL_ERROR"
)

// GetMessage returns a human-readable message for a given error code.
func GetMessage(code ErrCode) string {
	switch code {
	// ─── Authentication ────────────────────────────────────────────────
	case ErrTokenRequired:
		return "Authentication token is required."
	case ErrTokenInvalid:
		return "Authentication token is invalid or expired."

	// ─── Authorization ─────────────────────────────────────────────────
	case ErrForbidden:
		return "You are not allowed to access this resource."
	case ErrAdminAccessOnly:
		return "This resource is restricted to administrators."

	// ─── Validation ────────────────────────────────────────────────────
	case ErrValidation:
		return "Validation failed. Please check your input."
	case ErrInvalidID:
		return "Invalid ID format."
	case ErrInvalidPayload:
		return "Invalid request payload."

	// ─── Resources ─────────────────────────────────────────────────────
	case ErrNotFound:
		return "Resource not found."
	case ErrConflict:
		return "Resource already exists."

	// ─── Intake ────────────────────────────────────────────────────────
	case ErrUnknownSection:
		return "The assessment has no such section."
	case ErrInvalidAnswers:
		return "One or more answers are invalid."
	case ErrSaveFailed:
		return "Your answers could not be saved. Please try again."

	// ─── Profile ───────────────────────────────────────────────────────
	case ErrNoSections:
		return "No answers have been saved for this assessment yet."
	case ErrProfileNotFound:
		return "No profile has been computed for this user."
	case ErrProfileBusy:
		return "The profile is already being processed. Please try again shortly."

	// ─── Narrative ─────────────────────────────────────────────────────
	case ErrNarrativeDisabled:
		return "Narrative generation is not configured."
	case ErrNarrativePartial:
		return "Only part of the narrative could be generated."
	case ErrNarrativeFailed:
		return "The narrative could not be generated."

	// ─── Rate Limiting ─────────────────────────────────────────────────
	case ErrRateLimitExceeded:
		return "Too many requests. Please try again later."

	// ─── Server ────────────────────────────────────────────────────────
	case ErrInternal:
		return "Internal server error."
	default:
		return "An unexpected error occurred."
	}
}
