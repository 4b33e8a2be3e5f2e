package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"taskManager/internal/config"
	"taskManager/internal/handlers"
	"taskManager/internal/logger"
	"taskManager/internal/middleware"
	"taskManager/internal/repository"
	"taskManager/internal/service"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

type App struct {
	config     *config.Config
	server     *http.Server
	router     *chi.Mux
	repository service.TaskRepository // интерфейс!
	service    handlers.Service
	shutdowns  []func(context.Context) error // функции для graceful shutdown, выполняются в обратном порядке
	tracer     trace.TracerProvider
}

type Option func(*App)

// WithTracerProvider задаёт провайдер для спанов HTTP запросов.
// По умолчанию берётся глобальный otel.GetTracerProvider(): пока оператор
// не установил SDK через otel.SetTracerProvider, спаны не экспортируются
func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(a *App) {
		a.tracer = tp
	}
}

func New(cfg *config.Config, opts ...Option) *App {
	a := &App{
		config:    cfg,
		shutdowns: make([]func(context.Context) error, 0),
	}
	for _, opt := range opts {
		opt(a)
	}
	if a.tracer == nil {
		a.tracer = otel.GetTracerProvider()
	}
	return a
}

// Init поднимает логгер и хранилище; ошибка хранилища фатальна для процесса
func (a *App) Init(ctx context.Context) error {
	if err := logger.Init(a.config.Logging.Development); err != nil {
		return fmt.Errorf("инициализация логгера: %w", err)
	}

	a.shutdowns = append(a.shutdowns, func(context.Context) error {
		logger.Info("Завершение работы логгирования...")
		logger.Sync()
		return nil
	})

	repo, err := repository.Open(ctx, a.config.Database)
	if err != nil {
		return fmt.Errorf("подключение к хранилищу: %w", err)
	}
	a.repository = repo

	a.shutdowns = append(a.shutdowns, func(ctx context.Context) error {
		logger.Info("Закрытие соединения с хранилищем...")
		return a.repository.Close(ctx)
	})

	a.service = service.NewTaskService(a.repository)
	a.router = a.newRouter()

	handler := otelhttp.NewHandler(a.router, "task-api", otelhttp.WithTracerProvider(a.tracer))

	a.server = &http.Server{
		Addr:              a.config.GetServerAddr(),
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	a.shutdowns = append(a.shutdowns, func(ctx context.Context) error {
		logger.Info("Остановка HTTP сервера...")
		return a.server.Shutdown(ctx)
	})

	return nil
}

func (a *App) newRouter() *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.Logging)
	r.Use(middleware.Recover)
	r.Use(middleware.SecureHeaders)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-ID"},
		ExposedHeaders: []string{"X-Request-ID"},
		MaxAge:         300,
	}))
	r.Use(middleware.RateLimit(a.config.Server.RateLimitRPM))

	handlers.NewTaskHandler(a.service, a.config.Logging.Development).Routes(r)
	return r
}

// Handler - полный обработчик API, используется в тестах
func (a *App) Handler() http.Handler {
	return a.server.Handler
}

// Run блокируется до остановки сервера
func (a *App) Run() error {
	logger.Info("Server started", zap.String("addr", a.server.Addr))

	if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("запуск HTTP сервера: %w", err)
	}
	return nil
}

// Shutdown: сначала перестаём принимать соединения, потом закрываем хранилище
func (a *App) Shutdown(ctx context.Context) error {
	var errs []error
	for i := len(a.shutdowns) - 1; i >= 0; i-- {
		if err := a.shutdowns[i](ctx); err != nil {
			logger.Error("Ошибка при остановке", err)
			errs = append(errs, err)
		}
	}
	a.shutdowns = nil
	return errors.Join(errs...)
}
