package main

import (
	"context"
	"fmt"
	"os"
	"taskManager/internal/app"
	"taskManager/internal/config"
	"taskManager/internal/logger"

	gfshutdown "github.com/gelmium/graceful-shutdown"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Ошибка конфигурации: %v\n", err)
		os.Exit(1)
	}

	application := app.New(cfg)
	if err := application.Init(context.Background()); err != nil {
		logger.Error("Не удалось запустить приложение", err)
		_ = application.Shutdown(context.Background())
		os.Exit(1)
	}

	go func() {
		if err := application.Run(); err != nil {
			logger.Error("HTTP сервер упал", err)
			_ = application.Shutdown(context.Background())
			os.Exit(1)
		}
	}()

	wait := gfshutdown.GracefulShutdown(context.Background(), cfg.Server.ShutdownTimeout, map[string]gfshutdown.Operation{
		"api": application.Shutdown,
	})
	os.Exit(<-wait)
}
