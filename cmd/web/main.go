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
	"stocklens/internal/handler"
	"stocklens/internal/session"
	"stocklens/pkg/inference"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func main() {

	godotenv.Load()

	cfg, err := config.Load(config.Path())
	if err != nil {
		log.Fatalf("error loading config: %v", err)
	}

	level, _ := config.ParseLevel(cfg.LogLevel)
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level})))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	client := inference.NewClient(cfg.Endpoints(), cfg.RequestTimeout)
	factory := controller.NewFactory(client, cfg.Shape(), slog.Default())

	registry := session.NewRegistry(factory, cfg.SessionTTL)
	go registry.Run(ctx, cfg.SweepInterval)

	sessionHandler := handler.NewSessionHandler(registry, cfg.AllowedOrigins)

	r := gin.Default()

	slog.Info("AllowOrigins URL:", "urls", cfg.AllowedOrigins)

	r.Use(cors.New(cors.Config{
		AllowOrigins: cfg.AllowedOrigins,
		AllowMethods: []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders: []string{"Origin", "Content-Type"},
	}))

	r.GET("/health", sessionHandler.GetHealth)
	r.GET("/views", sessionHandler.GetViews)
	r.POST("/sessions", sessionHandler.CreateSession)
	r.DELETE("/sessions/:id", sessionHandler.DeleteSession)
	r.PUT("/sessions/:id/view/:name", sessionHandler.MountView)
	r.GET("/sessions/:id/view", sessionHandler.GetView)
	r.PATCH("/sessions/:id/view/fields", sessionHandler.UpdateFields)
	r.POST("/sessions/:id/view/submit", sessionHandler.Submit)
	r.GET("/sessions/:id/view/wait", sessionHandler.WaitView)
	r.GET("/sessions/:id/events", sessionHandler.StreamEvents)

	slog.Info("starting web shell", "addr", cfg.ListenAddr, "summary_shape", cfg.Shape())

	err = r.Run(cfg.ListenAddr)
	if err != nil {
		log.Fatalf("error starting server: %v", err)
	}
}
