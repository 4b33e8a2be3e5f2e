package mongodb

import (
	"context"
	"errors"
	"fmt"
	"taskManager/internal/logger"
	"taskManager/internal/models/task"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.mongodb.org/mongo-driver/x/mongo/driver/connstring"
	"go.uber.org/zap"
)

const (
	DefaultDatabase = "task_manager"
	collectionName  = "tasks"

	slowQuery = 100 * time.Millisecond
)

type taskDocument struct {
	ID          primitive.ObjectID `bson:"_id"`
	Title       string             `bson:"title"`
	Description string             `bson:"description"`
	Status      task.Status        `bson:"status"`
	CreatedAt   time.Time          `bson:"createdAt"`
}

func (d *taskDocument) toTask() *task.Task {
	return &task.Task{
		ID:          d.ID.Hex(),
		Title:       d.Title,
		Description: d.Description,
		Status:      d.Status,
		CreatedAt:   d.CreatedAt.UTC(),
	}
}

type Storage struct {
	client     *mongo.Client
	collection *mongo.Collection
}

func New(ctx context.Context, uri string) (*Storage, error) {
	cs, err := connstring.ParseAndValidate(uri)
	if err != nil {
		logger.Error("Repository: Ошибка разбора строки подключения", err)
		return nil, fmt.Errorf("разбор строки подключения: %w", err)
	}

	dbName := cs.Database
	if dbName == "" {
		dbName = DefaultDatabase
	}

	opts := options.Client().
		ApplyURI(uri).
		SetServerSelectionTimeout(5 * time.Second)

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		logger.Error("Repository: Ошибка создания клиента", err)
		return nil, fmt.Errorf("создание клиента: %w", err)
	}

	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		logger.Error("Repository: Неудачная проверка ping", err)
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("проверка соединения ping: %w", err)
	}

	collection := client.Database(dbName).Collection(collectionName)

	_, err = collection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "createdAt", Value: -1}},
	})
	if err != nil {
		logger.Error("Repository: Не удалось создать индекс", err)
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("создание индекса: %w", err)
	}

	logger.Info("Repository: Успешное создание подключения к MongoDB", zap.String("database", dbName))
	return &Storage{client: client, collection: collection}, nil
}

func (s *Storage) Close(ctx context.Context) error {
	if err := s.client.Disconnect(ctx); err != nil {
		logger.Error("Repository: Ошибка закрытия соединения MongoDB", err)
		return fmt.Errorf("закрытие соединения: %w", err)
	}
	logger.Info("Repository: Закрытие соединения MongoDB")
	return nil
}

func (s *Storage) HealthCheck(ctx context.Context) error {
	if err := s.client.Ping(ctx, readpref.Primary()); err != nil {
		logger.Error("Repository: Неудачная проверка ping", err)
		return fmt.Errorf("проверка соединения ping: %w", err)
	}
	return nil
}

func (s *Storage) ValidID(id string) bool {
	return primitive.IsValidObjectID(id)
}

func (s *Storage) Create(ctx context.Context, draft task.Draft) (*task.Task, error) {
	start := time.Now()

	doc := &taskDocument{
		ID:          primitive.NewObjectID(),
		Title:       draft.Title,
		Description: draft.Description,
		Status:      draft.Status,
		CreatedAt:   task.CreatedNow(time.Millisecond),
	}

	if _, err := s.collection.InsertOne(ctx, doc); err != nil {
		logger.Error("Repository: Не удалось добавить задачу", err, zap.Duration("ms", time.Since(start)))
		return nil, fmt.Errorf("добавление задачи: %w", err)
	}

	warnSlow(start, slowQuery)
	return doc.toTask(), nil
}

func (s *Storage) List(ctx context.Context) ([]*task.Task, error) {
	start := time.Now()

	opts := options.Find().SetSort(bson.D{
		{Key: "createdAt", Value: -1},
		{Key: "_id", Value: -1},
	})

	cursor, err := s.collection.Find(ctx, bson.D{}, opts)
	if err != nil {
		logger.Error("Repository: Не удалось получить задачи", err, zap.Duration("ms", time.Since(start)))
		return nil, fmt.Errorf("получение задач: %w", err)
	}

	var docs []taskDocument
	if err := cursor.All(ctx, &docs); err != nil {
		logger.Error("Repository: Ошибка итерации по документам", err)
		return nil, fmt.Errorf("итерация по документам: %w", err)
	}

	tasks := make([]*task.Task, 0, len(docs))
	for i := range docs {
		tasks = append(tasks, docs[i].toTask())
	}

	warnSlow(start, slowQuery)
	return tasks, nil
}

func (s *Storage) GetByID(ctx context.Context, id string) (*task.Task, error) {
	start := time.Now()

	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("разбор id %q: %w", id, err)
	}

	var doc taskDocument
	err = s.collection.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		logger.Error("Repository: Не удалось получить задачу", err, zap.Duration("ms", time.Since(start)))
		return nil, fmt.Errorf("получение задачи: %w", err)
	}

	warnSlow(start, slowQuery)
	return doc.toTask(), nil
}

func (s *Storage) Update(ctx context.Context, id string, patch task.Patch) (*task.Task, error) {
	if patch.Empty() {
		return s.GetByID(ctx, id)
	}

	start := time.Now()

	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("разбор id %q: %w", id, err)
	}

	set := bson.M{}
	if patch.Title != nil {
		set["title"] = *patch.Title
	}
	if patch.Description != nil {
		set["description"] = *patch.Description
	}
	if patch.Status != nil {
		set["status"] = *patch.Status
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var doc taskDocument
	err = s.collection.FindOneAndUpdate(ctx, bson.M{"_id": oid}, bson.M{"$set": set}, opts).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		logger.Error("Repository: Не удалось обновить задачу", err, zap.Duration("ms", time.Since(start)))
		return nil, fmt.Errorf("обновление задачи: %w", err)
	}

	warnSlow(start, slowQuery)
	return doc.toTask(), nil
}

func (s *Storage) Delete(ctx context.Context, id string) (bool, error) {
	start := time.Now()

	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return false, fmt.Errorf("разбор id %q: %w", id, err)
	}

	res, err := s.collection.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		logger.Error("Repository: Не удалось удалить задачу", err, zap.Duration("ms", time.Since(start)))
		return false, fmt.Errorf("удаление задачи: %w", err)
	}

	warnSlow(start, slowQuery)
	return res.DeletedCount > 0, nil
}

func warnSlow(start time.Time, threshold time.Duration) {
	if elapsed := time.Since(start); elapsed > threshold {
		logger.Warn("Repository: Медленная операция", zap.Duration("ms", elapsed))
	}
}
