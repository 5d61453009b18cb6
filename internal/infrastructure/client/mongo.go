package client

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

type MongoConfig struct {
	URI      string
	Database string
	Timeout  time.Duration
}

// MongoHook выполняется один раз после подключения (создание индексов)
type MongoHook func(ctx context.Context, db *mongo.Database) error

type MongoClient struct {
	database string
	client   *Lazy[*mongo.Client]
}

func NewMongoClient(cfg MongoConfig, hooks ...MongoHook) *MongoClient {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	connect := func(ctx context.Context) (*mongo.Client, error) {
		opts := options.Client().
			ApplyURI(cfg.URI).
			SetConnectTimeout(timeout).
			SetServerSelectionTimeout(timeout)

		client, err := mongo.Connect(ctx, opts)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to mongo: %w", err)
		}

		pingCtx, cancel := context.WithTimeout(ctx, timeout)
		defer cancel()

		if err := client.Ping(pingCtx, readpref.Primary()); err != nil {
			_ = client.Disconnect(context.Background())
			return nil, fmt.Errorf("failed to ping mongo: %w", err)
		}

		db := client.Database(cfg.Database)
		for _, hook := range hooks {
			if err := hook(ctx, db); err != nil {
				_ = client.Disconnect(context.Background())
				return nil, err
			}
		}

		return client, nil
	}

	return &MongoClient{
		database: cfg.Database,
		client: NewLazy("mongo", connect, func(ctx context.Context, client *mongo.Client) error {
			return client.Disconnect(ctx)
		}),
	}
}

// Database возвращает базу, подключаясь при первом вызове
func (c *MongoClient) Database(ctx context.Context) (*mongo.Database, error) {
	client, err := c.client.Get(ctx)
	if err != nil {
		return nil, err
	}
	return client.Database(c.database), nil
}

// Collection - короткий путь для репозиториев
func (c *MongoClient) Collection(ctx context.Context, name string) (*mongo.Collection, error) {
	db, err := c.Database(ctx)
	if err != nil {
		return nil, err
	}
	return db.Collection(name), nil
}

func (c *MongoClient) HealthCheck(ctx context.Context) error {
	client, err := c.client.Get(ctx)
	if err != nil {
		return err
	}
	return client.Ping(ctx, readpref.Primary())
}

func (c *MongoClient) Close(ctx context.Context) error {
	return c.client.Close(ctx)
}
