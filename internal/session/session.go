package session

import (
	"errors"
	"sync"
	"time"

	"stocklens/internal/controller"
)

var ErrNoView = errors.New("no view mounted")

// Mounter creates the controller for a view.
type Mounter interface {
	Mount(view string) (controller.Controller, error)
	Views() []string
}

// Session is one page load of a shell: it owns the controller of the active
// view and nothing else.
type Session struct {
	ID string

	mounter Mounter

	mu          sync.Mutex
	view        string
	active      controller.Controller
	stopWatch   func()
	lastSeen    time.Time
	closed      bool
	subscribers map[int]func(controller.View)
	nextSub     int
}

func newSession(id string, mounter Mounter, now time.Time) *Session {
	return &Session{
		ID:          id,
		mounter:     mounter,
		lastSeen:    now,
		subscribers: make(map[int]func(controller.View)),
	}
}

// Mount makes view the active one. The previous controller is unmounted, so a
// response it is still waiting for is dropped. Mounting the active view again
// keeps its controller and input.
func (s *Session) Mount(view string) (controller.Controller, error) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil, ErrNotFound
	}
	if s.active != nil && s.view == view {
		active := s.active
		s.mu.Unlock()
		return active, nil
	}
	s.mu.Unlock()

	next, err := s.mounter.Mount(view)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		next.Unmount()
		return nil, ErrNotFound
	}
	prev, prevStop := s.active, s.stopWatch
	s.view = view
	s.active = next
	s.stopWatch = next.Watch(s.publish)
	s.mu.Unlock()

	if prev != nil {
		prevStop()
		prev.Unmount()
	}

	s.publish(next.View())
	return next, nil
}

func (s *Session) Active() (controller.Controller, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.active == nil {
		return nil, ErrNoView
	}
	return s.active, nil
}

func (s *Session) ActiveView() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.view
}

// Subscribe calls fn with the active view after every change until the
// returned function is called or the session is closed.
func (s *Session) Subscribe(fn func(controller.View)) func() {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextSub
	s.nextSub++
	s.subscribers[id] = fn

	return func() {
		s.mu.Lock()
		delete(s.subscribers, id)
		s.mu.Unlock()
	}
}

func (s *Session) publish(v controller.View) {
	s.mu.Lock()
	subs := make([]func(controller.View), 0, len(s.subscribers))
	for _, fn := range s.subscribers {
		subs = append(subs, fn)
	}
	s.mu.Unlock()

	for _, fn := range subs {
		fn(v)
	}
}

func (s *Session) touch(now time.Time) {
	s.mu.Lock()
	s.lastSeen = now
	s.mu.Unlock()
}

func (s *Session) LastSeen() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastSeen
}

// Close unmounts the active controller and drops all subscribers.
func (s *Session) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	active, stop := s.active, s.stopWatch
	s.active = nil
	s.subscribers = make(map[int]func(controller.View))
	s.mu.Unlock()

	if active != nil {
		stop()
		active.Unmount()
	}
}
