package ledger

import (
	"context"
	"errors"
	"fmt"

	"github.com/creatorstation/postdesk/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const postsCollection = "posts"

// MongoStore keeps posts as documents keyed by post id.
type MongoStore struct {
	*ImageDir

	collection *mongo.Collection
}

func NewMongoStore(db *mongo.Database, images *ImageDir) *MongoStore {
	return &MongoStore{ImageDir: images, collection: db.Collection(postsCollection)}
}

func (s *MongoStore) Initialize(ctx context.Context) error {
	if err := s.ensure(); err != nil {
		return err
	}
	_, err := s.collection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{bson.E{Key: "status", Value: 1}},
	})
	if err != nil {
		return unavailable("create status index", err)
	}
	return nil
}

func (s *MongoStore) LoadAll(ctx context.Context) ([]models.Post, error) {
	opts := options.Find().SetSort(bson.D{
		bson.E{Key: "created_at", Value: 1},
		bson.E{Key: "_id", Value: 1},
	})

	cursor, err := s.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, unavailable("find posts", err)
	}
	defer cursor.Close(ctx)

	posts := []models.Post{}
	if err := cursor.All(ctx, &posts); err != nil {
		return nil, unavailable("decode posts", err)
	}
	return posts, nil
}

func (s *MongoStore) Append(ctx context.Context, post models.Post) error {
	post.Text = NormalizeText(post.Text)
	if err := s.requireImage(post.Image); err != nil {
		return err
	}

	_, err := s.collection.InsertOne(ctx, post)
	if mongo.IsDuplicateKeyError(err) {
		return fmt.Errorf("%w: %s", ErrDuplicateID, post.ID)
	}
	if err != nil {
		return unavailable("insert post", err)
	}
	return nil
}

func (s *MongoStore) UpdateStatus(ctx context.Context, id string, status models.Status) error {
	if err := checkTransition(models.StatusPending, status); err != nil {
		return err
	}

	filter := bson.M{"_id": id, "status": models.StatusPending}
	update := bson.M{"$set": bson.M{"status": status}}

	result, err := s.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return unavailable("update status", err)
	}
	if result.MatchedCount > 0 {
		return nil
	}

	var post models.Post
	err = s.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&post)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return fmt.Errorf("%w: %s", ErrRecordNotFound, id)
	}
	if err != nil {
		return unavailable("load post", err)
	}
	return checkTransition(post.Status, status)
}
