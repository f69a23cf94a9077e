package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"stocklens/internal/config"
	"stocklens/internal/controller"
	"stocklens/internal/terminal"
	"stocklens/pkg/inference"

	"github.com/joho/godotenv"
)

func main() {

	godotenv.Load()

	cfg, err := config.Load(config.Path())
	if err != nil {
		log.Fatalf("error loading config: %v", err)
	}

	level, _ := config.ParseLevel(cfg.LogLevel)
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	client := inference.NewClient(cfg.Endpoints(), cfg.RequestTimeout)
	factory := controller.NewFactory(client, cfg.Shape(), slog.Default())

	shell := terminal.NewShell(factory, terminal.NewSurveyPrompter(), os.Stdout, slog.Default())

	if err := shell.Run(ctx); err != nil {
		log.Fatalf("error running shell: %v", err)
	}
}
