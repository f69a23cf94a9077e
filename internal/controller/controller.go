package controller

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"

	"stocklens/internal/model"
	"stocklens/internal/request"
)

// Controller is the view-facing surface shared by every request controller.
type Controller interface {
	Name() string
	Fields() []model.Field
	Set(field, raw string) error
	SetAll(values map[string]string) error
	Submit(ctx context.Context) bool
	View() View
	Wait(ctx context.Context) (View, error)
	Watch(fn func(View)) (cancel func())
	Unmount()
}

// View is everything a shell needs to render a controller.
type View struct {
	Controller    string         `json:"controller"`
	Status        string         `json:"status"`
	SubmitEnabled bool           `json:"submit_enabled"`
	Input         map[string]any `json:"input"`
	Result        any            `json:"result,omitempty"`
	Error         string         `json:"error,omitempty"`
}

type form interface {
	Fields() []model.Field
}

// core implements Controller for an input model In and result type R.
type core[In form, R any] struct {
	name     string
	fallback string
	call     func(context.Context, In) (R, error)
	fields   func(In) []model.Field
	logger   *slog.Logger

	mu    sync.Mutex
	input In

	machine *request.Machine[R]

	watchMu   sync.Mutex
	watchers  map[int]func(View)
	nextWatch int
}

func newCore[In form, R any](name, fallback string, input In, call func(context.Context, In) (R, error), logger *slog.Logger) *core[In, R] {
	if logger == nil {
		logger = slog.Default()
	}

	c := &core[In, R]{
		name:     name,
		fallback: fallback,
		call:     call,
		fields:   func(in In) []model.Field { return in.Fields() },
		logger:   logger.With("controller", name),
		input:    input,
		machine:  request.NewMachine[R](),
		watchers: make(map[int]func(View)),
	}
	c.machine.Watch(func(request.State[R]) { c.notify() })
	return c
}

func (c *core[In, R]) Name() string { return c.name }

func (c *core[In, R]) State() request.State[R] { return c.machine.State() }

func (c *core[In, R]) Fields() []model.Field {
	return c.fields(c.snapshot())
}

func (c *core[In, R]) snapshot() In {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.input
}

// update edits the input model. Edits never touch the request state.
func (c *core[In, R]) update(fn func(*In)) {
	c.mu.Lock()
	fn(&c.input)
	c.mu.Unlock()
	c.notify()
}

func (c *core[In, R]) Set(field, raw string) error {
	var err error

	c.mu.Lock()
	setter, ok := any(&c.input).(model.Setter)
	if !ok {
		err = fmt.Errorf("%s input is read-only", c.name)
	} else {
		err = setter.Set(field, raw)
	}
	c.mu.Unlock()

	if err != nil {
		return err
	}
	c.notify()
	return nil
}

// SetAll applies every value or none of them. Fields are applied in name
// order and the first error leaves the input unchanged.
func (c *core[In, R]) SetAll(values map[string]string) error {
	names := make([]string, 0, len(values))
	for name := range values {
		names = append(names, name)
	}
	sort.Strings(names)

	c.mu.Lock()
	next := c.input
	setter, ok := any(&next).(model.Setter)
	if !ok {
		c.mu.Unlock()
		return fmt.Errorf("%s input is read-only", c.name)
	}
	for _, name := range names {
		if err := setter.Set(name, values[name]); err != nil {
			c.mu.Unlock()
			return err
		}
	}
	c.input = next
	c.mu.Unlock()

	c.notify()
	return nil
}

// Submit starts one transport call with the current input. It returns false
// without calling the backend while a request is in flight or after Unmount.
// The call keeps ctx's values but not its cancellation: once issued, a
// request runs until the service answers.
func (c *core[In, R]) Submit(ctx context.Context) bool {
	ticket, ok := c.machine.Begin()
	if !ok {
		c.logger.Debug("submit ignored, request in flight or controller unmounted")
		return false
	}

	input := c.snapshot()
	go c.run(context.WithoutCancel(ctx), ticket, input)
	return true
}

func (c *core[In, R]) run(ctx context.Context, ticket request.Ticket, input In) {
	next := request.FailedState[R](c.fallback)

	defer func() {
		if r := recover(); r != nil {
			c.logger.Error("transport call panicked", "panic", r)
			next = request.FailedState[R](c.fallback)
		}
		if !c.machine.Settle(ticket, next) {
			c.logger.Info("response discarded, controller unmounted")
		}
	}()

	result, err := c.call(ctx, input)
	if err != nil {
		c.logger.Error("request failed", "error", err)
	}
	next = request.Project(result, err, c.fallback)
}

func (c *core[In, R]) View() View {
	return c.view(c.machine.State())
}

func (c *core[In, R]) view(state request.State[R]) View {
	v := View{
		Controller:    c.name,
		Status:        state.Status().String(),
		SubmitEnabled: !state.IsPending(),
		Input:         model.Values(c.Fields()),
	}
	if result, ok := state.Result(); ok {
		v.Result = result
	}
	if msg, ok := state.Message(); ok {
		v.Error = msg
	}
	return v
}

func (c *core[In, R]) Wait(ctx context.Context) (View, error) {
	state, err := c.machine.Wait(ctx)
	return c.view(state), err
}

func (c *core[In, R]) Watch(fn func(View)) func() {
	c.watchMu.Lock()
	defer c.watchMu.Unlock()

	id := c.nextWatch
	c.nextWatch++
	c.watchers[id] = fn

	return func() {
		c.watchMu.Lock()
		delete(c.watchers, id)
		c.watchMu.Unlock()
	}
}

func (c *core[In, R]) notify() {
	if c.machine.Unmounted() {
		return
	}

	c.watchMu.Lock()
	watchers := make([]func(View), 0, len(c.watchers))
	for _, fn := range c.watchers {
		watchers = append(watchers, fn)
	}
	c.watchMu.Unlock()

	if len(watchers) == 0 {
		return
	}

	v := c.View()
	for _, fn := range watchers {
		fn(v)
	}
}

// Unmount detaches the controller. An in-flight request keeps running on
// the service side but its response is dropped.
func (c *core[In, R]) Unmount() {
	c.machine.Unmount()

	c.watchMu.Lock()
	c.watchers = make(map[int]func(View))
	c.watchMu.Unlock()
}
