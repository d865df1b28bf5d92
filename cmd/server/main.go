package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/oplens/oplens/config"
	"github.com/oplens/oplens/internal/clients"
	"github.com/oplens/oplens/internal/export"
	"github.com/oplens/oplens/internal/logging"
	"github.com/oplens/oplens/internal/processing"
	"github.com/oplens/oplens/internal/server"
)

func main() {
	config.LoadEnv()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("[Main] Failed to load configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}
	logging.InitLogger(cfg.LogLevel)

	ark, err := clients.NewArkClient(clients.ArkOptions{
		APIKey:  cfg.Ark.APIKey,
		BaseURL: cfg.Ark.BaseURL,
		Model:   cfg.Ark.Model,
		Timeout: cfg.Ark.Timeout,
	})
	if err != nil {
		slog.Error("[Main] Failed to build Ark client", slog.String("error", err.Error()))
		os.Exit(1)
	}

	pipeline := processing.NewPipeline(
		processing.NewTranscriber(ark),
		processing.NewSentimentAnalyzer(ark),
		processing.NewReportBuilder(processing.NewInsightGenerator(ark)),
	)

	handler := server.NewHandler(pipeline, export.NewExcelExporter(), cfg.Upload.MaxImages)

	srv := server.New(cfg.Server, server.CORS(server.RequestLogger(handler.Routes())))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := srv.Run(ctx); err != nil {
		slog.Error("[Main] Server exited with error", slog.String("error", err.Error()))
		os.Exit(1)
	}
	slog.Info("[Main] Server stopped")
}
