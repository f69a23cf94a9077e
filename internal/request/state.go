package request

type Status int

const (
	Idle Status = iota
	Pending
	Succeeded
	Failed
)

func (s Status) String() string {
	switch s {
	case Idle:
		return "idle"
	case Pending:
		return "pending"
	case Succeeded:
		return "succeeded"
	case Failed:
		return "failed"
	}
	return "unknown"
}

// State is the lifecycle of one controller's request. Exactly one variant is
// active; the result is only reachable when Succeeded and the message only
// when Failed.
type State[R any] struct {
	status  Status
	result  R
	message string
}

func IdleState[R any]() State[R] { return State[R]{status: Idle} }

func PendingState[R any]() State[R] { return State[R]{status: Pending} }

func SucceededState[R any](result R) State[R] {
	return State[R]{status: Succeeded, result: result}
}

func FailedState[R any](message string) State[R] {
	return State[R]{status: Failed, message: message}
}

func (s State[R]) Status() Status { return s.status }

func (s State[R]) IsPending() bool { return s.status == Pending }

func (s State[R]) Result() (R, bool) {
	if s.status != Succeeded {
		var zero R
		return zero, false
	}
	return s.result, true
}

func (s State[R]) Message() (string, bool) {
	if s.status != Failed {
		return "", false
	}
	return s.message, true
}
