package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/miradorstack/enginewatch/cmd/enginewatch/app"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := app.NewEnginewatchCommand(ctx).Execute(); err != nil {
		slog.Error("enginewatch failed", slog.Any("error", err))
		stop()
		os.Exit(1)
	}
}
