package session

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

var ErrNotFound = errors.New("session not found")

// Store persists sessions. The Mongo implementation is the production one;
// tests substitute an in-memory fake.
type Store interface {
	Find(ctx context.Context, id string) (*Session, error)
	Save(ctx context.Context, s *Session) error
	Delete(ctx context.Context, id string) error
}

type MongoStore struct {
	collection *mongo.Collection
	logger     *zap.Logger
}

// NewMongoStore ensures the TTL index so MongoDB reaps expired sessions
// itself.
func NewMongoStore(db *mongo.Database, logger *zap.Logger) *MongoStore {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	collection := db.Collection("sessions")
	index := mongo.IndexModel{
		Keys:    bson.D{{Key: "expires_at", Value: 1}},
		Options: options.Index().SetExpireAfterSeconds(0),
	}
	if _, err := collection.Indexes().CreateOne(ctx, index); err != nil {
		logger.Warn("Failed to create TTL index for sessions collection", zap.Error(err))
	}

	return &MongoStore{
		collection: collection,
		logger:     logger.Named("SessionStore"),
	}
}

func (s *MongoStore) Find(ctx context.Context, id string) (*Session, error) {
	var sess Session
	err := s.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&sess)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		s.logger.Error("Failed to fetch session", zap.Error(err))
		return nil, err
	}
	// The TTL monitor runs on a delay; treat expired documents as gone.
	if time.Now().After(sess.ExpiresAt) {
		return nil, ErrNotFound
	}
	return &sess, nil
}

func (s *MongoStore) Save(ctx context.Context, sess *Session) error {
	opts := options.Replace().SetUpsert(true)
	_, err := s.collection.ReplaceOne(ctx, bson.M{"_id": sess.ID}, sess, opts)
	if err != nil {
		s.logger.Error("Failed to save session", zap.Error(err))
	}
	return err
}

func (s *MongoStore) Delete(ctx context.Context, id string) error {
	_, err := s.collection.DeleteOne(ctx, bson.M{"_id": id})
	return err
}
