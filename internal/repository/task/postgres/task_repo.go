package postgres

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"taskManager/internal/logger"
	"taskManager/internal/models/task"
	"time"

	"github.com/golang-migrate/migrate/v4"
	migratepgx "github.com/golang-migrate/migrate/v4/database/pgx/v5"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"go.uber.org/zap"
)

//go:embed migrations/*.sql
var migrations embed.FS

const selectColumns = `id::text, title, description, status, created_at`

type Storage struct {
	pool *pgxpool.Pool
}

type PoolOptions struct {
	MaxConns    int32
	MinConns    int32
	IdleTimeout time.Duration
}

func New(ctx context.Context, connString string, poolOpts PoolOptions) (*Storage, error) {
	config, err := pgxpool.ParseConfig(connString)
	if err != nil {
		logger.Error("Repository: Ошибка загрузки конфига", err)
		return nil, fmt.Errorf("загрузка конфига: %w", err)
	}

	config.MaxConns = 10
	config.MinConns = 2
	config.MaxConnIdleTime = time.Minute * 5
	if poolOpts.MaxConns > 0 {
		config.MaxConns = poolOpts.MaxConns
	}
	if poolOpts.MinConns > 0 {
		config.MinConns = poolOpts.MinConns
	}
	if poolOpts.IdleTimeout > 0 {
		config.MaxConnIdleTime = poolOpts.IdleTimeout
	}

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		logger.Error("Repository: Ошибка создания пула", err)
		return nil, fmt.Errorf("создание пула: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		logger.Error("Repository: Неудачная проверка ping", err)
		return nil, fmt.Errorf("проверка соединения ping: %w", err)
	}

	logger.Info("Repository: Успешное создание подключения к PostgreSQL")
	return &Storage{pool: pool}, nil
}

func (s *Storage) Close(ctx context.Context) error {
	s.pool.Close()
	logger.Info("Repository: Закрытие всех соединений PostgreSQL")
	return nil
}

func (s *Storage) HealthCheck(ctx context.Context) error {
	if err := s.pool.Ping(ctx); err != nil {
		logger.Error("Repository: Неудачная проверка ping", err)
		return fmt.Errorf("проверка соединения ping: %w", err)
	}
	return nil
}

func (s *Storage) ValidID(id string) bool {
	parsed, err := uuid.Parse(id)
	if err != nil {
		return false
	}
	return parsed != uuid.Nil && parsed.String() == id
}

func (s *Storage) Create(ctx context.Context, draft task.Draft) (*task.Task, error) {
	start := time.Now()

	query := `INSERT INTO tasks
				(id, title, description, status, created_at)
				VALUES ($1::uuid, $2, $3, $4, $5)
				RETURNING ` + selectColumns

	row := s.pool.QueryRow(ctx, query,
		uuid.New().String(),
		draft.Title,
		draft.Description,
		string(draft.Status),
		task.CreatedNow(time.Microsecond),
	)

	created, err := scanTask(row)
	if err != nil {
		logger.Error("Repository: Не удалось добавить задачу", err, zap.Duration("ms", time.Since(start)))
		return nil, fmt.Errorf("добавление задачи: %w", err)
	}

	warnSlow(start, time.Millisecond*50)
	return created, nil
}

// все задачи, новые первыми
func (s *Storage) List(ctx context.Context) ([]*task.Task, error) {
	start := time.Now()

	query := `SELECT ` + selectColumns + `
				FROM tasks
				ORDER BY created_at DESC, seq DESC`

	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		logger.Error("Repository: Не удалось получить задачи", err, zap.Duration("ms", time.Since(start)))
		return nil, fmt.Errorf("получение задач: %w", err)
	}
	defer rows.Close()

	tasks := []*task.Task{}
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			logger.Error("Repository: Ошибка сканирования задачи", err)
			return nil, fmt.Errorf("сканирование задачи: %w", err)
		}
		tasks = append(tasks, t)
	}

	if err := rows.Err(); err != nil {
		logger.Error("Repository: Ошибка итерации по строкам", err)
		return nil, fmt.Errorf("итерация по строкам: %w", err)
	}

	warnSlow(start, time.Millisecond*50+time.Millisecond*time.Duration(len(tasks)))
	return tasks, nil
}

func (s *Storage) GetByID(ctx context.Context, id string) (*task.Task, error) {
	start := time.Now()

	query := `SELECT ` + selectColumns + `
				FROM tasks
				WHERE id = $1::uuid`

	t, err := scanTask(s.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		logger.Error("Repository: Не удалось получить задачу", err, zap.Duration("ms", time.Since(start)))
		return nil, fmt.Errorf("получение задачи: %w", err)
	}

	warnSlow(start, time.Millisecond*100)
	return t, nil
}

// обновляются только переданные поля, NULL оставляет значение как есть
func (s *Storage) Update(ctx context.Context, id string, patch task.Patch) (*task.Task, error) {
	start := time.Now()

	query := `UPDATE tasks
			SET title = COALESCE($2, title),
				description = COALESCE($3, description),
				status = COALESCE($4, status)
			WHERE id = $1::uuid
			RETURNING ` + selectColumns

	var status *string
	if patch.Status != nil {
		st := string(*patch.Status)
		status = &st
	}

	t, err := scanTask(s.pool.QueryRow(ctx, query, id, patch.Title, patch.Description, status))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		logger.Error("Repository: Не удалось обновить задачу", err, zap.Duration("ms", time.Since(start)))
		return nil, fmt.Errorf("обновление задачи: %w", err)
	}

	warnSlow(start, time.Millisecond*100)
	return t, nil
}

// полное удаление из БД
func (s *Storage) Delete(ctx context.Context, id string) (bool, error) {
	start := time.Now()

	query := `DELETE FROM tasks
				WHERE id = $1::uuid`

	tag, err := s.pool.Exec(ctx, query, id)
	if err != nil {
		logger.Error("Repository: Полное удаление задачи", err, zap.Duration("ms", time.Since(start)))
		return false, fmt.Errorf("полное удаление: %w", err)
	}

	warnSlow(start, time.Millisecond*100)
	return tag.RowsAffected() > 0, nil
}

func (s *Storage) Migrate(ctx context.Context) error {
	logger.Info("Repository: Применение миграций")

	m, err := s.migrator()
	if err != nil {
		return err
	}
	defer m.Close()

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		logger.Error("Repository: Не удалось применить миграции", err)
		return fmt.Errorf("применение миграций: %w", err)
	}

	logger.Info("Repository: Миграции применены")
	return nil
}

func (s *Storage) Down(ctx context.Context) error {
	logger.Info("Repository: Откат миграций")

	m, err := s.migrator()
	if err != nil {
		return err
	}
	defer m.Close()

	if err := m.Down(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		logger.Error("Repository: Не удалось откатить миграции", err)
		return fmt.Errorf("откат миграций: %w", err)
	}

	logger.Info("Repository: Миграции откачены")
	return nil
}

func (s *Storage) migrator() (*migrate.Migrate, error) {
	src, err := iofs.New(migrations, "migrations")
	if err != nil {
		return nil, fmt.Errorf("чтение миграций: %w", err)
	}

	driver, err := migratepgx.WithInstance(stdlib.OpenDBFromPool(s.pool), &migratepgx.Config{})
	if err != nil {
		return nil, fmt.Errorf("драйвер миграций: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", src, "pgx5", driver)
	if err != nil {
		return nil, fmt.Errorf("инициализация миграций: %w", err)
	}
	return m, nil
}

func scanTask(row pgx.Row) (*task.Task, error) {
	t := &task.Task{}
	var status string
	if err := row.Scan(&t.ID, &t.Title, &t.Description, &status, &t.CreatedAt); err != nil {
		return nil, err
	}
	t.Status = task.Status(status)
	t.CreatedAt = t.CreatedAt.UTC()
	return t, nil
}

func warnSlow(start time.Time, threshold time.Duration) {
	if elapsed := time.Since(start); elapsed > threshold {
		logger.Warn("Repository: Медленная операция", zap.Duration("ms", elapsed))
	}
}
