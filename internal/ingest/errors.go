package ingest

// Kind classifies why a submission failed.
type Kind string

const (
	KindMissingField Kind = "missing_field"
	KindInvalidType  Kind = "invalid_type"
	KindNotFound     Kind = "not_found"
	KindInternal     Kind = "internal"
)

// Client-facing messages.
const (
	MsgLightIDRequired = "lightId is required"
	MsgDateType        = "date must be an array of strings"
	MsgLatencyType     = "latency must be a number"
	MsgErrorType       = "error must be a boolean"
	MsgInvalidPayload  = "invalid JSON payload"
	MsgInternal        = "Internal server error"
)

// Error is a classified submission failure. Message is safe to return to
// the caller; Err holds the underlying cause for internal failures.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

func newError(kind Kind, msg string) *Error {
	return &Error{Kind: kind, Message: msg}
}
