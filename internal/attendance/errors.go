package attendance

import "errors"

// Kind classifies a domain failure. The HTTP layer owns the mapping to
// status codes; redemption-terminal states (expired, used) are kept apart
// from generic invalid-state because the client's recovery differs.
type Kind int

const (
	KindInvalid Kind = iota + 1
	KindNotFound
	KindConflict
	KindForbidden
	KindExpired
	KindAlreadyUsed
	KindExhausted
)

type Error struct {
	Kind    Kind
	Code    string
	Message string
}

func (e *Error) Error() string {
	return e.Code + ": " + e.Message
}

func AsError(err error) (*Error, bool) {
	var domainErr *Error
	if errors.As(err, &domainErr) {
		return domainErr, true
	}
	return nil, false
}

func errInvalid(code, message string) *Error {
	return &Error{Kind: KindInvalid, Code: code, Message: message}
}

func errNotFound(code, message string) *Error {
	return &Error{Kind: KindNotFound, Code: code, Message: message}
}

func errConflict(code, message string) *Error {
	return &Error{Kind: KindConflict, Code: code, Message: message}
}

func errForbidden(code, message string) *Error {
	return &Error{Kind: KindForbidden, Code: code, Message: message}
}

var (
	ErrNoActiveSession = errNotFound("no_active_session", "No active session found. Please wait for a session to start.")
	ErrAlreadyMarked   = errConflict("already_marked", "Attendance already marked for this session")
	ErrSessionNotFound = errNotFound("session_not_found", "Attendance session not found or access denied")
	ErrAlreadyStopped  = errInvalid("session_already_stopped", "Session is already stopped")
	ErrActiveExists    = errConflict("active_session_exists", "You already have an active session running")
	ErrSessionInactive = errInvalid("session_not_active", "Attendance session is not active")
	ErrCompanyInactive = errNotFound("company_inactive", "Company not found or inactive")
	ErrCourseNotFound  = errInvalid("course_not_found", "Course not found or you don't have access to it")
	ErrMeetingNotFound = errNotFound("meeting_not_found", "Meeting not found")

	ErrTokenNotFound = errNotFound("token_not_found", "Invalid QR token or code")
	ErrTokenExpired  = &Error{Kind: KindExpired, Code: "token_expired", Message: "QR token has expired"}
	ErrTokenUsed     = &Error{Kind: KindAlreadyUsed, Code: "token_used", Message: "QR token has already been used"}
	ErrCodeExhausted = &Error{Kind: KindExhausted, Code: "code_exhausted", Message: "Unable to generate unique code after maximum attempts"}

	ErrQrTokenRequired = errInvalid("qr_token_required", "QR token is required for qr_mark method")
	ErrCodeRequired    = errInvalid("code_required", "Code is required for code_mark method")
	ErrMeetingRequired = errInvalid("meeting_required", "Meeting ID is required for jitsi_join method")
	ErrInvalidMethod   = errInvalid("invalid_method", "Unknown attendance method")

	ErrNotCorporate    = errForbidden("not_corporate", "Sign in/out is only available for corporate accounts")
	ErrAlreadySignedIn = errConflict("already_signed_in", "Already signed in. Please sign out first.")
	ErrSignInCompleted = errConflict("sign_in_out_completed", "You have already completed your sign in/out for this session.")
	ErrNoOpenSignIn    = errNotFound("no_open_sign_in", "No active sign-in found. Please sign in first.")

	ErrSyncSessionClosed = errInvalid("sync_session_closed", "Session not found or already closed. Record removed from queue.")
	ErrSyncAlreadyMarked = errConflict("sync_already_marked", "Attendance already recorded for this session.")
)
