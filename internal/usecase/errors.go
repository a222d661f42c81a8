package usecase

// Error codes surfaced by the intake and portal use cases.
const (
	CodeMalformedInput  = "MALFORMED_INPUT"
	CodeValidationError = "VALIDATION_ERROR"
	CodeInternalError   = "INTERNAL_ERROR"
)

// DomainError is a caller mistake: bad or missing input. Maps to 400.
type DomainError struct {
	Code    string
	Message string
}

func (e *DomainError) Error() string {
	return e.Message
}

func IsDomainError(err error) bool {
	_, ok := err.(*DomainError)
	return ok
}

// TechnicalError is an internal fault. The Message is safe to log, never to
// return to the caller. Maps to 500 with a generic body.
type TechnicalError struct {
	Code    string
	Message string
}

func (e *TechnicalError) Error() string {
	return e.Message
}

func IsTechnicalError(err error) bool {
	_, ok := err.(*TechnicalError)
	return ok
}
