package cache

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoCache stores entries as documents keyed by _id. A TTL index on
// expires_at lets the server reap old entries; Get also checks expiry since
// the reaper runs only once a minute.
type MongoCache struct {
	client *mongo.Client
	coll   *mongo.Collection
	now    func() time.Time
}

// MongoOptions configures NewMongoCache.
type MongoOptions struct {
	URI        string
	Database   string // default "basecracker"
	Collection string // default "cache"
	Timeout    time.Duration
}

type mongoEntry struct {
	Key       string     `bson:"_id"`
	Data      []byte     `bson:"data"`
	ExpiresAt *time.Time `bson:"expires_at,omitempty"`
}

// NewMongoCache connects to MongoDB and ensures the TTL index exists.
func NewMongoCache(ctx context.Context, opts MongoOptions) (*MongoCache, error) {
	if opts.Database == "" {
		opts.Database = "basecracker"
	}
	if opts.Collection == "" {
		opts.Collection = "cache"
	}
	co := options.Client().ApplyURI(opts.URI)
	if opts.Timeout > 0 {
		co.SetServerSelectionTimeout(opts.Timeout).SetConnectTimeout(opts.Timeout)
	}
	client, err := mongo.Connect(ctx, co)
	if err != nil {
		return nil, netErr("mongo connect", err)
	}

	coll := client.Database(opts.Database).Collection(opts.Collection)
	_, err = coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "expires_at", Value: 1}},
		Options: options.Index().SetExpireAfterSeconds(0),
	})
	if err != nil {
		_ = client.Disconnect(context.Background())
		return nil, netErr("mongo index", err)
	}
	return &MongoCache{client: client, coll: coll, now: time.Now}, nil
}

func (c *MongoCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	var e mongoEntry
	err := c.coll.FindOne(ctx, bson.M{"_id": key}).Decode(&e)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, netErr("mongo find", err)
	}
	if e.ExpiresAt != nil && c.now().After(*e.ExpiresAt) {
		return nil, false, nil
	}
	return e.Data, true, nil
}

func (c *MongoCache) Set(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	e := mongoEntry{Key: key, Data: data}
	if ttl > 0 {
		exp := c.now().Add(ttl).UTC()
		e.ExpiresAt = &exp
	}
	_, err := c.coll.ReplaceOne(ctx, bson.M{"_id": key}, e, options.Replace().SetUpsert(true))
	if err != nil {
		return netErr("mongo replace", err)
	}
	return nil
}

func (c *MongoCache) Delete(ctx context.Context, key string) error {
	if _, err := c.coll.DeleteOne(ctx, bson.M{"_id": key}); err != nil {
		return netErr("mongo delete", err)
	}
	return nil
}

func (c *MongoCache) Close() error {
	return c.client.Disconnect(context.Background())
}

var _ Cache = (*MongoCache)(nil)
