// Package contact implements the contact-form submission pipeline:
// validate untrusted input, compose an email, and relay it through the
// configured mail transport.
package contact

// Submission is the untrusted contact-form input. It lives for a
// single request and is never persisted.
type Submission struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Message string `json:"message"`
}

// Email is a transport-agnostic composed message ready for submission
type Email struct {
	From     string
	To       string
	ReplyTo  string
	Subject  string
	HTMLBody string
	TextBody string
}

// ValidationError is a caller-correctable input error carrying the
// user-facing reason returned in the HTTP response.
type ValidationError struct {
	Code   string
	Reason string
}

func (e *ValidationError) Error() string {
	return e.Reason
}

// Validation failures, in the order they are checked. The reasons
// match the contract the front-end renders verbatim.
var (
	ErrMissingField = &ValidationError{
		Code:   "missing_field",
		Reason: "All fields are required",
	}
	ErrInvalidEmailFormat = &ValidationError{
		Code:   "invalid_email",
		Reason: "Please provide a valid email address",
	}
	ErrMessageTooLong = &ValidationError{
		Code:   "message_too_long",
		Reason: "Message is too long (max 1000 characters)",
	}
)
