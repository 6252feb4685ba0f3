package contact

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

// MaxMessageLength is the service-level cap on message length. The UI
// caps earlier, but this boundary is the contract.
const MaxMessageLength = 1000

// emailPattern is deliberately permissive: something before an @,
// something after it, and a dot in the domain. Full RFC 5322
// validation is explicitly not attempted.
var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// validate is the shared validator instance
var validate *validator.Validate

var maxMessageTag = fmt.Sprintf("max=%d", MaxMessageLength)

func init() {
	validate = validator.New()
	if err := validate.RegisterValidation("contact_email", func(fl validator.FieldLevel) bool {
		return emailPattern.MatchString(fl.Field().String())
	}); err != nil {
		panic(err)
	}
}

// Validate checks a submission against the structural rules, short-
// circuiting on the first failure. On success it returns a normalized
// copy with name and email trimmed; the message body is kept verbatim.
// Validation is stateless: re-validating a valid submission yields the
// same result.
func Validate(sub Submission) (Submission, error) {
	sub.Name = strings.TrimSpace(sub.Name)
	sub.Email = strings.TrimSpace(sub.Email)

	if sub.Name == "" || sub.Email == "" || strings.TrimSpace(sub.Message) == "" {
		return sub, ErrMissingField
	}
	if err := validate.Var(sub.Email, "contact_email"); err != nil {
		return sub, ErrInvalidEmailFormat
	}
	// max on a string compares rune count, not bytes
	if err := validate.Var(sub.Message, maxMessageTag); err != nil {
		return sub, ErrMessageTooLong
	}
	return sub, nil
}
