package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"taskManager/internal/client"
	"taskManager/internal/config"
	"taskManager/internal/logger"
	"taskManager/internal/ui"
	"time"

	gfshutdown "github.com/gelmium/graceful-shutdown"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Ошибка конфигурации: %v\n", err)
		os.Exit(1)
	}

	if err := logger.Init(cfg.Logging.Development); err != nil {
		fmt.Fprintf(os.Stderr, "Ошибка логгера: %v\n", err)
		os.Exit(1)
	}

	api := client.New(cfg.Client.BaseURL, cfg.Client.Timeout)
	handler, err := ui.NewServer(ui.NewController(api))
	if err != nil {
		logger.Fatal("Не удалось разобрать шаблоны", err)
	}

	server := &http.Server{
		Addr:              cfg.GetWebAddr(),
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("UI started", zap.String("addr", server.Addr), zap.String("api", cfg.Client.BaseURL))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("UI сервер упал", err)
		}
	}()

	wait := gfshutdown.GracefulShutdown(context.Background(), cfg.Server.ShutdownTimeout, map[string]gfshutdown.Operation{
		"web": func(ctx context.Context) error {
			logger.Info("Остановка UI сервера...")
			return server.Shutdown(ctx)
		},
	})
	code := <-wait
	logger.Sync()
	os.Exit(code)
}
