package config

import (
	"context"
	"os"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// Store wraps the Mongo connection and is passed explicitly to everything
// that persists data. No package-level client.
type Store struct {
	Client   *mongo.Client
	Database string
}

func ConnectDB(ctx context.Context) (*Store, error) {
	uri := os.Getenv("MONGODB_URI")
	if uri == "" {
		uri = "mongodb://localhost:27017"
	}
	dbName := os.Getenv("MONGODB_DATABASE")
	if dbName == "" {
		dbName = "task_db"
	}

	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, err
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		return nil, err
	}

	return &Store{Client: client, Database: dbName}, nil
}

func (s *Store) Disconnect(ctx context.Context) error {
	return s.Client.Disconnect(ctx)
}

func (s *Store) Tasks() *mongo.Collection {
	return s.Client.Database(s.Database).Collection("tasks")
}

func (s *Store) Users() *mongo.Collection {
	return s.Client.Database(s.Database).Collection("users")
}

func (s *Store) Notifications() *mongo.Collection {
	return s.Client.Database(s.Database).Collection("notifications")
}
