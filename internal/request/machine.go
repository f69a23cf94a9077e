package request

import (
	"context"
	"sync"
)

// Ticket identifies the submit that moved a machine into Pending. Only the
// holder of the current ticket can settle it.
type Ticket uint64

// Machine owns the State of one controller instance.
type Machine[R any] struct {
	mu        sync.Mutex
	state     State[R]
	ticket    Ticket
	settled   chan struct{}
	unmounted bool

	watchers  map[int]func(State[R])
	nextWatch int
}

func NewMachine[R any]() *Machine[R] {
	return &Machine[R]{
		state:    IdleState[R](),
		watchers: make(map[int]func(State[R])),
	}
}

func (m *Machine[R]) State() State[R] {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// Begin moves the machine to Pending, discarding any previous result or
// error. It refuses while a request is already in flight or after Unmount.
func (m *Machine[R]) Begin() (Ticket, bool) {
	m.mu.Lock()
	if m.unmounted || m.state.IsPending() {
		m.mu.Unlock()
		return 0, false
	}

	m.ticket++
	ticket := m.ticket
	m.state = PendingState[R]()
	m.settled = make(chan struct{})
	state, watchers := m.state, m.snapshotWatchers()
	m.mu.Unlock()

	notify(watchers, state)
	return ticket, true
}

// UnsettledMessage is shown when Settle is handed a state that is not
// terminal.
const UnsettledMessage = "The request did not complete."

// Settle applies the terminal state for ticket. It reports false when the
// outcome was discarded: the machine was unmounted, or the ticket is stale.
func (m *Machine[R]) Settle(ticket Ticket, next State[R]) bool {
	m.mu.Lock()
	if m.unmounted || ticket != m.ticket || !m.state.IsPending() {
		m.mu.Unlock()
		return false
	}

	if next.status != Succeeded && next.status != Failed {
		next = FailedState[R](UnsettledMessage)
	}

	m.state = next
	close(m.settled)
	m.settled = nil
	state, watchers := m.state, m.snapshotWatchers()
	m.mu.Unlock()

	notify(watchers, state)
	return true
}

// Wait blocks until no request is in flight, the machine is unmounted, or
// ctx is done.
func (m *Machine[R]) Wait(ctx context.Context) (State[R], error) {
	m.mu.Lock()
	settled := m.settled
	m.mu.Unlock()

	if settled != nil {
		select {
		case <-settled:
		case <-ctx.Done():
			return m.State(), ctx.Err()
		}
	}

	return m.State(), nil
}

// Unmount detaches the machine from its owner. Outcomes that arrive later
// are dropped and waiters are released.
func (m *Machine[R]) Unmount() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.unmounted {
		return
	}
	m.unmounted = true
	if m.settled != nil {
		close(m.settled)
		m.settled = nil
	}
	m.watchers = make(map[int]func(State[R]))
}

func (m *Machine[R]) Unmounted() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.unmounted
}

// Watch registers fn to be called after every transition. The returned
// function removes it.
func (m *Machine[R]) Watch(fn func(State[R])) func() {
	m.mu.Lock()
	defer m.mu.Unlock()

	id := m.nextWatch
	m.nextWatch++
	m.watchers[id] = fn

	return func() {
		m.mu.Lock()
		delete(m.watchers, id)
		m.mu.Unlock()
	}
}

func (m *Machine[R]) snapshotWatchers() []func(State[R]) {
	watchers := make([]func(State[R]), 0, len(m.watchers))
	for _, fn := range m.watchers {
		watchers = append(watchers, fn)
	}
	return watchers
}

func notify[R any](watchers []func(State[R]), state State[R]) {
	for _, fn := range watchers {
		fn(state)
	}
}
