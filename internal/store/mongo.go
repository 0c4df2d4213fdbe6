package store

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"tick-recorder/internal/config"
	"tick-recorder/internal/model"
)

// tickDocument is the MongoDB document shape for one tick.
type tickDocument struct {
	Ticker string  `bson:"ticker"`
	Date   string  `bson:"date"`
	Time   string  `bson:"time"`
	LTP    float64 `bson:"ltp"`
	LTQ    int64   `bson:"ltq"`
}

// MongoStore inserts one document per tick into a per-ticker
// collection (ticker name with "." replaced by "_").
type MongoStore struct {
	client *mongo.Client
	db     *mongo.Database
	logger *slog.Logger
}

// NewMongoStore connects and pings the database.
func NewMongoStore(ctx context.Context, cfg config.MongoConfig, logger *slog.Logger) (*MongoStore, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, fmt.Errorf("connect to mongodb: %w", err)
	}

	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("ping mongodb: %w", err)
	}

	logger.Info("mongodb connected", "database", cfg.Database)

	return &MongoStore{
		client: client,
		db:     client.Database(cfg.Database),
		logger: logger,
	}, nil
}

// Append inserts one tick document into the ticker's collection.
func (s *MongoStore) Append(ctx context.Context, ticker string, tick model.Tick) error {
	collection := s.db.Collection(collectionName(ticker))

	doc := tickDocument{
		Ticker: strings.ToUpper(ticker),
		Date:   tick.Date(),
		Time:   tick.Clock(),
		LTP:    tick.LTP,
		LTQ:    tick.LTQ,
	}

	if _, err := collection.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("insert tick: %w", err)
	}
	return nil
}

// Close disconnects the client.
func (s *MongoStore) Close(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	return s.client.Disconnect(ctx)
}

// collectionName maps "TCS.NSE" to "TCS_NSE".
func collectionName(ticker string) string {
	return strings.ReplaceAll(strings.ToUpper(ticker), ".", "_")
}
