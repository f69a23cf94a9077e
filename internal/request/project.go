package request

import (
	"errors"
	"strings"
)

// displayer is implemented by errors that carry text meant for the user,
// such as the error string a service put in its response body.
type displayer interface {
	DisplayMessage() string
}

// Project maps the outcome of a transport call to the next state. Every
// outcome lands in Succeeded or Failed.
func Project[R any](result R, err error, fallback string) State[R] {
	if err == nil {
		return SucceededState(result)
	}

	var d displayer
	if errors.As(err, &d) {
		if msg := strings.TrimSpace(d.DisplayMessage()); msg != "" {
			return FailedState[R](msg)
		}
	}

	return FailedState[R](fallback)
}
