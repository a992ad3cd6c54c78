package store

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	driver "go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/DeSent79/miku-bot/internal/mongo"
)

// TrackRepository is the persistence contract for the track catalog.
type TrackRepository interface {
	FindAll(ctx context.Context) ([]Track, error)
	FindByTitle(ctx context.Context, title string) (*Track, error)
	Create(ctx context.Context, track *Track) error
	Save(ctx context.Context, track *Track) error
	Count(ctx context.Context) (int64, error)
}

type trackRepository struct {
	db         mongo.Database
	collection string
}

func NewTrackRepository(db mongo.Database) TrackRepository {
	return &trackRepository{
		db:         db,
		collection: CollectionTracks,
	}
}

func (r *trackRepository) FindAll(ctx context.Context) ([]Track, error) {
	coll := r.db.Collection(r.collection)

	cursor, err := coll.Find(ctx, bson.M{})
	if err != nil {
		return nil, unavailable("find tracks", err)
	}

	var tracks []Track
	if err := cursor.All(ctx, &tracks); err != nil {
		return nil, unavailable("decode tracks", err)
	}

	return tracks, nil
}

// FindByTitle returns nil without an error when no track carries the title.
func (r *trackRepository) FindByTitle(ctx context.Context, title string) (*Track, error) {
	coll := r.db.Collection(r.collection)

	var track Track
	err := coll.FindOne(ctx, bson.M{"title": title}).Decode(&track)
	if err != nil {
		if errors.Is(err, driver.ErrNoDocuments) {
			return nil, nil
		}
		return nil, unavailable("find track by title", err)
	}

	return &track, nil
}

func (r *trackRepository) Create(ctx context.Context, track *Track) error {
	if track.UploadedOn.IsZero() {
		track.UploadedOn = time.Now()
	}
	if track.Likes == nil {
		track.Likes = []string{}
	}
	if track.Dislikes == nil {
		track.Dislikes = []string{}
	}

	coll := r.db.Collection(r.collection)
	id, err := coll.InsertOne(ctx, track)
	if err != nil {
		return unavailable("create track", err)
	}

	if oid, ok := id.(primitive.ObjectID); ok {
		track.ID = oid
	}

	return nil
}

// Save upserts the track's mutated counters and rating sets.
func (r *trackRepository) Save(ctx context.Context, track *Track) error {
	coll := r.db.Collection(r.collection)

	filter := bson.M{"_id": track.ID}
	update := bson.M{"$set": track}
	opts := options.Update().SetUpsert(true)

	if _, err := coll.UpdateOne(ctx, filter, update, opts); err != nil {
		return unavailable("save track", err)
	}

	return nil
}

func (r *trackRepository) Count(ctx context.Context) (int64, error) {
	coll := r.db.Collection(r.collection)

	count, err := coll.CountDocuments(ctx, bson.M{})
	if err != nil {
		return 0, unavailable("count tracks", err)
	}

	return count, nil
}
