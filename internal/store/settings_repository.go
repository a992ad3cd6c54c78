package store

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	driver "go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/DeSent79/miku-bot/internal/mongo"
)

// SettingsRepository manages the singleton settings document.
type SettingsRepository interface {
	// Load fetches the settings document, creating an empty one on first
	// boot when none exists yet.
	Load(ctx context.Context) (*Settings, error)
	Save(ctx context.Context, settings *Settings) error
}

type settingsRepository struct {
	db         mongo.Database
	collection string
}

func NewSettingsRepository(db mongo.Database) SettingsRepository {
	return &settingsRepository{
		db:         db,
		collection: CollectionSettings,
	}
}

func (r *settingsRepository) Load(ctx context.Context) (*Settings, error) {
	coll := r.db.Collection(r.collection)

	var settings Settings
	err := coll.FindOne(ctx, bson.M{}).Decode(&settings)
	if err == nil {
		return &settings, nil
	}

	if !errors.Is(err, driver.ErrNoDocuments) {
		return nil, unavailable("load settings", err)
	}

	settings = Settings{
		Whitelist:           []string{},
		MusicChannels:       []string{},
		MusicUploadChannels: []string{},
	}

	id, err := coll.InsertOne(ctx, &settings)
	if err != nil {
		return nil, unavailable("create settings", err)
	}

	if oid, ok := id.(primitive.ObjectID); ok {
		settings.ID = oid
	}

	return &settings, nil
}

func (r *settingsRepository) Save(ctx context.Context, settings *Settings) error {
	coll := r.db.Collection(r.collection)

	filter := bson.M{"_id": settings.ID}
	update := bson.M{"$set": settings}
	opts := options.Update().SetUpsert(true)

	if _, err := coll.UpdateOne(ctx, filter, update, opts); err != nil {
		return unavailable("save settings", err)
	}

	return nil
}
