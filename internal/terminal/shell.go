package terminal

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"

	"stocklens/internal/controller"
	"stocklens/internal/model"
	"stocklens/pkg/inference"
)

const quit = "Quit"

// Mounter creates the controller for a view.
type Mounter interface {
	Mount(view string) (controller.Controller, error)
	Views() []string
}

// Shell runs the terminal loop: pick a view, fill its fields, submit, show
// the outcome, repeat.
type Shell struct {
	mounter  Mounter
	prompter Prompter
	out      io.Writer
	logger   *slog.Logger
}

func NewShell(mounter Mounter, prompter Prompter, out io.Writer, logger *slog.Logger) *Shell {
	if logger == nil {
		logger = slog.Default()
	}
	return &Shell{mounter: mounter, prompter: prompter, out: out, logger: logger}
}

// Run returns nil when the user quits or aborts at the view menu.
func (s *Shell) Run(ctx context.Context) error {
	for {
		options := append(s.mounter.Views(), quit)

		idx, err := s.prompter.Select(ctx, SelectConfig{Message: "Choose a view", Options: options})
		if errors.Is(err, ErrAborted) {
			return nil
		}
		if err != nil {
			return err
		}
		if idx < 0 || options[idx] == quit {
			return nil
		}

		if err := s.runView(ctx, options[idx]); err != nil {
			return err
		}
	}
}

func (s *Shell) runView(ctx context.Context, view string) error {
	ctrl, err := s.mounter.Mount(view)
	if err != nil {
		return err
	}
	defer ctrl.Unmount()

	s.logger.Debug("view mounted", "view", view)

	for _, f := range ctrl.Fields() {
		if err := s.askField(ctx, ctrl, f); err != nil {
			if errors.Is(err, ErrAborted) {
				return nil
			}
			return err
		}
	}

	if !ctrl.Submit(ctx) {
		fmt.Fprintln(s.out, "A request is already in progress.")
		return nil
	}
	fmt.Fprintln(s.out, "Working...")

	v, err := ctrl.Wait(ctx)
	if err != nil {
		return err
	}

	s.render(v)
	return nil
}

// askField prompts until the controller accepts the value.
func (s *Shell) askField(ctx context.Context, ctrl controller.Controller, f model.Field) error {
	for {
		raw, err := s.ask(ctx, f)
		if err != nil {
			return err
		}

		err = ctrl.Set(f.Name, raw)
		if err == nil {
			return nil
		}
		fmt.Fprintf(s.out, "%s: %v\n", f.Label, err)
	}
}

func (s *Shell) ask(ctx context.Context, f model.Field) (string, error) {
	current := fmt.Sprint(f.Value)

	switch f.Kind {
	case model.KindTextArea:
		return s.prompter.TextArea(ctx, TextAreaConfig{Message: f.Label, Default: current})
	case model.KindChoice:
		idx, err := s.prompter.Select(ctx, SelectConfig{
			Message:      f.Label,
			Options:      f.Options,
			DefaultIndex: indexOf(f.Options, current),
		})
		if err != nil {
			return "", err
		}
		if idx < 0 || idx >= len(f.Options) {
			return current, nil
		}
		return f.Options[idx], nil
	default:
		return s.prompter.Input(ctx, InputConfig{Message: f.Label, Default: current})
	}
}

func (s *Shell) render(v controller.View) {
	if v.Error != "" {
		fmt.Fprintf(s.out, "Error: %s\n", v.Error)
		return
	}

	switch result := v.Result.(type) {
	case string:
		fmt.Fprintln(s.out, result)
	case float64:
		fmt.Fprintln(s.out, strconv.FormatFloat(result, 'f', -1, 64))
	case []inference.Article:
		if len(result) == 0 {
			fmt.Fprintln(s.out, "No articles found.")
			return
		}
		for _, a := range result {
			fmt.Fprintf(s.out, "%s (%s)\n", a.Title, a.DatePublished)
			if a.Summary != "" {
				fmt.Fprintf(s.out, "  %s\n", a.Summary)
			}
			if a.URL != "" {
				fmt.Fprintf(s.out, "  %s\n", a.URL)
			}
		}
	default:
		fmt.Fprintln(s.out, result)
	}
}
