package main

import (
	"context"
	"log/slog"
	"os"

	"leavedesk/internal/app/server"
	"leavedesk/internal/platform/config"
)

func main() {
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, nil)))

	cfg := config.Load()
	if err := server.Run(context.Background(), cfg); err != nil {
		slog.Error("server exited", "error", err)
		os.Exit(1)
	}
}
