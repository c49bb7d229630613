// Package apperr defines the coded error taxonomy shared by the services and
// the transport layer. Each error carries a stable code and a human-readable
// description; codes form the wire contract, descriptions may vary per call
// site. Callers match errors with errors.Is, which compares kind and code
// but ignores the description.
package apperr

// Kind classifies an error for status-code mapping and flow control.
type Kind int

const (
	KindAuthentication Kind = iota + 1 // login failures
	KindAuthorization                  // token resolution / policy denials
	KindSignOut                        // sign-out of an unusable token
	KindNotFound                       // referenced entity does not exist
	KindConflict                       // signup uniqueness violations
	KindInvalidInput                   // malformed input to a core primitive
)

// Error is a coded application error.
type Error struct {
	Kind        Kind
	Code        string
	Description string
}

func (e *Error) Error() string {
	return e.Code + ": " + e.Description
}

// Is reports whether target is an *Error with the same kind and code.
// Descriptions are intentionally not compared.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Kind == e.Kind && t.Code == e.Code
}

// WithDescription returns a copy of e carrying a call-site specific
// description under the same kind and code.
func (e *Error) WithDescription(description string) *Error {
	return &Error{Kind: e.Kind, Code: e.Code, Description: description}
}

// Authentication errors (login).
var (
	ErrUnknownUser = &Error{KindAuthentication, "ATH-001", "This username does not exist"}
	ErrBadPassword = &Error{KindAuthentication, "ATH-002", "Password failed"}
)

// Authorization errors (token resolution and policy checks).
var (
	ErrNotSignedIn = &Error{KindAuthorization, "ATHR-001", "User has not signed in"}
	ErrSignedOut   = &Error{KindAuthorization, "ATHR-002", "User is signed out"}
	ErrForbidden   = &Error{KindAuthorization, "ATHR-003", "User is not authorized for this action"}
)

// ErrSignOutNotSignedIn is returned when signing out an unknown or already
// unusable token. The code collides with the signup username conflict in the
// original wire contract; the kinds keep them distinguishable.
var ErrSignOutNotSignedIn = &Error{KindSignOut, "SGR-001", "User is not Signed in"}

// Signup conflicts.
var (
	ErrDuplicateUsername = &Error{KindConflict, "SGR-001", "Try any other Username, this Username has already been taken"}
	ErrDuplicateEmail    = &Error{KindConflict, "SGR-002", "This user has already been registered, try with any other emailId"}
)

// Not-found errors for referenced entities.
var (
	ErrUserNotFound     = &Error{KindNotFound, "USR-001", "User with entered uuid does not exist"}
	ErrQuestionNotFound = &Error{KindNotFound, "QUES-001", "Entered question uuid does not exist"}
	ErrAnswerNotFound   = &Error{KindNotFound, "ANS-001", "Entered answer uuid does not exist"}
)

// ErrInvalidInput signals malformed (empty/nil) input to a core primitive
// such as the password hasher. It never crosses the wire.
var ErrInvalidInput = &Error{KindInvalidInput, "INP-001", "invalid input"}
