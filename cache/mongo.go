package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	realincome "github.com/malusev998/real-income"
)

type (
	MongoCache struct {
		client     *mongo.Client
		collection *mongo.Collection
	}

	mongoEntry struct {
		Key       string    `bson:"key"`
		Payload   string    `bson:"payload"`
		FetchedAt time.Time `bson:"fetchedAt"`
	}
)

func NewMongoCache(config MongoDBConfig) (*MongoCache, error) {
	ctx := config.Ctx

	if ctx == nil {
		ctx = context.Background()
	}

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(config.ConnectionString))
	if err != nil {
		return nil, err
	}

	return &MongoCache{
		client:     client,
		collection: client.Database(config.Database).Collection(config.Collection),
	}, nil
}

func (m *MongoCache) Lookup(ctx context.Context, key realincome.Key) (realincome.CacheEntry, bool, error) {
	var entry mongoEntry

	err := m.collection.FindOne(ctx, bson.M{"key": key.String()}).Decode(&entry)

	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return realincome.CacheEntry{}, false, nil
		}

		return realincome.CacheEntry{}, false, err
	}

	var series realincome.Series

	if err := json.Unmarshal([]byte(entry.Payload), &series); err != nil || len(series) == 0 {
		// corrupted document, drop it and treat as a miss
		_, _ = m.collection.DeleteOne(ctx, bson.M{"key": key.String()})
		return realincome.CacheEntry{}, false, nil
	}

	return realincome.CacheEntry{Key: key, Series: series, FetchedAt: entry.FetchedAt}, true, nil
}

func (m *MongoCache) Store(ctx context.Context, key realincome.Key, series realincome.Series) error {
	payload, err := json.Marshal(series)
	if err != nil {
		return err
	}

	upsert := true
	_, err = m.collection.ReplaceOne(ctx, bson.M{"key": key.String()}, mongoEntry{
		Key:       key.String(),
		Payload:   string(payload),
		FetchedAt: time.Now().UTC(),
	}, &options.ReplaceOptions{Upsert: &upsert})

	return err
}

func (m *MongoCache) Close() error {
	if m == nil || m.client == nil {
		return nil
	}

	return m.client.Disconnect(context.Background())
}
