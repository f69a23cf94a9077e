package inference

import "fmt"

type ErrorKind string

const (
	// KindTransport covers unreachable services and non-2xx statuses.
	KindTransport ErrorKind = "transport"
	// KindService is a 2xx response whose body reports failure.
	KindService ErrorKind = "service"
	// KindParse is a body that is not JSON or lacks the expected fields.
	KindParse ErrorKind = "parse"
)

type Error struct {
	Kind     ErrorKind
	Endpoint string
	Status   int
	// Message is text provided by the service, if any.
	Message string
	Err     error
}

func (e *Error) Error() string {
	msg := fmt.Sprintf("%s error calling %s", e.Kind, e.Endpoint)
	if e.Status != 0 {
		msg += fmt.Sprintf(" (status %d)", e.Status)
	}
	if e.Message != "" {
		msg += ": " + e.Message
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

func (e *Error) DisplayMessage() string {
	return e.Message
}
