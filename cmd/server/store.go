package main

import (
	"context"
	"fmt"

	"github.com/St1cky1/todo-service/internal/config"
	"github.com/St1cky1/todo-service/internal/infrastructure/client"
	"github.com/St1cky1/todo-service/internal/repository"
	mongorepo "github.com/St1cky1/todo-service/internal/repository/mongo"
	pgrepo "github.com/St1cky1/todo-service/internal/repository/postgres"
	sqliterepo "github.com/St1cky1/todo-service/internal/repository/sqlite"
)

// storeBundle - репозитории выбранного драйвера и его клиент
type storeBundle struct {
	tasks  repository.ITaskRepository
	users  repository.IUserRepository
	health repository.HealthChecker
	close  func(ctx context.Context) error
}

func newStore(cfg config.StoreConfig) (*storeBundle, error) {
	switch cfg.Driver {
	case config.DriverMongo:
		c := client.NewMongoClient(client.MongoConfig{
			URI:      cfg.Mongo.URI,
			Database: cfg.Mongo.Database,
		}, mongorepo.EnsureIndexes)
		return &storeBundle{
			tasks:  mongorepo.NewTaskRepository(c),
			users:  mongorepo.NewUserRepository(c),
			health: c,
			close:  c.Close,
		}, nil

	case config.DriverPostgres:
		c := client.NewPostgresClient(client.PostgresConfig{DSN: cfg.Postgres.DSN}, pgrepo.Migrate)
		return &storeBundle{
			tasks:  pgrepo.NewTaskRepository(c),
			users:  pgrepo.NewUserRepository(c),
			health: c,
			close:  c.Close,
		}, nil

	case config.DriverSQLite:
		c := client.NewSQLiteClient(client.SQLiteConfig{Path: cfg.SQLite.Path}, sqliterepo.AutoMigrate)
		return &storeBundle{
			tasks:  sqliterepo.NewTaskRepository(c),
			users:  sqliterepo.NewUserRepository(c),
			health: c,
			close:  c.Close,
		}, nil

	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.Driver)
	}
}
