package repository

import (
	"context"
	"fmt"
	"net/url"
	"taskManager/internal/config"
	"taskManager/internal/logger"
	"taskManager/internal/repository/task/inmemory"
	"taskManager/internal/repository/task/mongodb"
	"taskManager/internal/repository/task/postgres"
	"taskManager/internal/service"

	"go.uber.org/zap"
)

type Type string

const (
	MongoType    Type = "mongodb"
	PostgresType Type = "postgres"
	InMemoryType Type = "inmemory"
)

// TypeOf определяет хранилище по схеме строки подключения
func TypeOf(connString string) (Type, error) {
	u, err := url.Parse(connString)
	if err != nil {
		return "", fmt.Errorf("разбор строки подключения: %w", err)
	}

	switch u.Scheme {
	case "mongodb", "mongodb+srv":
		return MongoType, nil
	case "postgres", "postgresql":
		return PostgresType, nil
	case "memory":
		return InMemoryType, nil
	default:
		return "", fmt.Errorf("неизвестная схема хранилища %q", u.Scheme)
	}
}

// Open подключается к хранилищу и проверяет соединение
func Open(ctx context.Context, cfg config.DatabaseConfig) (service.TaskRepository, error) {
	repoType, err := TypeOf(cfg.URL)
	if err != nil {
		return nil, err
	}

	if cfg.ConnectTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.ConnectTimeout)
		defer cancel()
	}

	logger.Info("Repository: Подключение к хранилищу", zap.String("type", string(repoType)))

	switch repoType {
	case MongoType:
		storage, err := mongodb.New(ctx, cfg.URL)
		if err != nil {
			return nil, err
		}
		return storage, nil
	case PostgresType:
		storage, err := postgres.New(ctx, cfg.URL, postgres.PoolOptions{
			MaxConns:    cfg.MaxConnections,
			MinConns:    cfg.MinConnections,
			IdleTimeout: cfg.IdleTimeout,
		})
		if err != nil {
			return nil, err
		}
		if err := storage.Migrate(ctx); err != nil {
			_ = storage.Close(ctx)
			return nil, err
		}
		return storage, nil
	default:
		return inmemory.NewTaskStorage(), nil
	}
}
