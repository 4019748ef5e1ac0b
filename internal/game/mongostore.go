package game

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoStore persists lobbies in a MongoDB collection, one document per
// lobby keyed by _id.
type MongoStore struct {
	coll *mongo.Collection
}

func NewMongoStore(db *mongo.Database) *MongoStore {
	return &MongoStore{coll: db.Collection("lobbies")}
}

func (s *MongoStore) Load(ctx context.Context, id string) (*Lobby, error) {
	var l Lobby
	err := s.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&l)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrLobbyNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load lobby %s: %w", id, err)
	}
	return &l, nil
}

func (s *MongoStore) Save(ctx context.Context, l *Lobby) error {
	opts := options.Replace().SetUpsert(true)
	if _, err := s.coll.ReplaceOne(ctx, bson.M{"_id": l.ID}, l, opts); err != nil {
		return fmt.Errorf("save lobby %s: %w", l.ID, err)
	}
	return nil
}

func (s *MongoStore) Delete(ctx context.Context, id string) error {
	if _, err := s.coll.DeleteOne(ctx, bson.M{"_id": id}); err != nil {
		return fmt.Errorf("delete lobby %s: %w", id, err)
	}
	return nil
}
