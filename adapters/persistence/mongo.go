package persistence

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/khoahotran/devconnector/internal/config"
	"github.com/khoahotran/devconnector/pkg/logger"
)

const (
	usersCollection    = "users"
	profilesCollection = "profiles"
)

// NewMongoDatabase connects, pings and makes sure the unique indexes the
// repositories rely on exist.
func NewMongoDatabase(ctx context.Context, cfg config.Config, log logger.Logger) (*mongo.Database, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.Mongo.URI))
	if err != nil {
		return nil, fmt.Errorf("do not create mongo client: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("ping mongo failed: %w", err)
	}

	db := client.Database(cfg.Mongo.Database)
	if err := ensureMongoIndexes(ctx, db); err != nil {
		_ = client.Disconnect(ctx)
		return nil, err
	}

	log.Info("Connect MongoDB successfully.")
	return db, nil
}

func ensureMongoIndexes(ctx context.Context, db *mongo.Database) error {
	_, err := db.Collection(usersCollection).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return fmt.Errorf("create users email index failed: %w", err)
	}

	_, err = db.Collection(profilesCollection).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "createdAt", Value: 1}},
	})
	if err != nil {
		return fmt.Errorf("create profiles createdAt index failed: %w", err)
	}
	return nil
}
