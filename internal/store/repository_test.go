package store

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	driver "go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/DeSent79/miku-bot/internal/mongo"
)

// Fakes for the mongo wrapper interfaces, so repository behavior is tested
// without a running database.

type fakeDB struct {
	coll *fakeCollection
}

func (f *fakeDB) Collection(string) mongo.Collection { return f.coll }

type updateCall struct {
	filter interface{}
	update interface{}
	upsert bool
}

type fakeCollection struct {
	docs       []Track
	findErr    error
	findOneDoc interface{}
	findOneErr error
	inserted   []interface{}
	insertErrs []error
	insertedID interface{}
	updates    []updateCall
	updateErr  error
	count      int64
	countErr   error
}

func (f *fakeCollection) FindOne(ctx context.Context, filter interface{}) mongo.SingleResult {
	return &fakeSingleResult{doc: f.findOneDoc, err: f.findOneErr}
}

func (f *fakeCollection) Find(ctx context.Context, filter interface{}, opts ...*options.FindOptions) (mongo.Cursor, error) {
	if f.findErr != nil {
		return nil, f.findErr
	}
	return &fakeCursor{docs: f.docs}, nil
}

func (f *fakeCollection) InsertOne(ctx context.Context, document interface{}) (interface{}, error) {
	if len(f.insertErrs) > 0 {
		err := f.insertErrs[0]
		f.insertErrs = f.insertErrs[1:]
		if err != nil {
			return nil, err
		}
	}
	f.inserted = append(f.inserted, document)
	if f.insertedID == nil {
		return primitive.NewObjectID(), nil
	}
	return f.insertedID, nil
}

func (f *fakeCollection) UpdateOne(ctx context.Context, filter interface{}, update interface{}, opts ...*options.UpdateOptions) (*driver.UpdateResult, error) {
	if f.updateErr != nil {
		return nil, f.updateErr
	}
	upsert := false
	for _, opt := range opts {
		if opt.Upsert != nil && *opt.Upsert {
			upsert = true
		}
	}
	f.updates = append(f.updates, updateCall{filter: filter, update: update, upsert: upsert})
	return &driver.UpdateResult{MatchedCount: 1, ModifiedCount: 1}, nil
}

func (f *fakeCollection) CountDocuments(ctx context.Context, filter interface{}, opts ...*options.CountOptions) (int64, error) {
	if f.countErr != nil {
		return 0, f.countErr
	}
	return f.count, nil
}

type fakeSingleResult struct {
	doc interface{}
	err error
}

func (f *fakeSingleResult) Decode(v interface{}) error {
	if f.err != nil {
		return f.err
	}
	switch target := v.(type) {
	case *Track:
		*target = *f.doc.(*Track)
	case *Settings:
		*target = *f.doc.(*Settings)
	}
	return nil
}

type fakeCursor struct {
	docs []Track
	pos  int
}

func (f *fakeCursor) Close(ctx context.Context) error { return nil }

func (f *fakeCursor) Next(ctx context.Context) bool {
	if f.pos >= len(f.docs) {
		return false
	}
	f.pos++
	return true
}

func (f *fakeCursor) Decode(v interface{}) error {
	*(v.(*Track)) = f.docs[f.pos-1]
	return nil
}

func (f *fakeCursor) All(ctx context.Context, result interface{}) error {
	*(result.(*[]Track)) = append([]Track(nil), f.docs...)
	return nil
}

func newTrackRepo(coll *fakeCollection) TrackRepository {
	return NewTrackRepository(&fakeDB{coll: coll})
}

func TestTrackFindAll(t *testing.T) {
	coll := &fakeCollection{docs: []Track{{Title: "A - B"}, {Title: "C - D"}}}

	tracks, err := newTrackRepo(coll).FindAll(context.Background())

	require.NoError(t, err)
	require.Len(t, tracks, 2)
	assert.Equal(t, "A - B", tracks[0].Title)
}

func TestTrackFindAllUnavailable(t *testing.T) {
	coll := &fakeCollection{findErr: errors.New("connection reset")}

	_, err := newTrackRepo(coll).FindAll(context.Background())

	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestTrackFindByTitle(t *testing.T) {
	coll := &fakeCollection{findOneDoc: &Track{Title: "A - B"}}

	track, err := newTrackRepo(coll).FindByTitle(context.Background(), "A - B")

	require.NoError(t, err)
	require.NotNil(t, track)
	assert.Equal(t, "A - B", track.Title)
}

func TestTrackFindByTitleMissing(t *testing.T) {
	coll := &fakeCollection{findOneErr: driver.ErrNoDocuments}

	track, err := newTrackRepo(coll).FindByTitle(context.Background(), "missing")

	require.NoError(t, err)
	assert.Nil(t, track)
}

func TestTrackFindByTitleUnavailable(t *testing.T) {
	coll := &fakeCollection{findOneErr: errors.New("connection reset")}

	_, err := newTrackRepo(coll).FindByTitle(context.Background(), "A - B")

	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestTrackCreate(t *testing.T) {
	id := primitive.NewObjectID()
	coll := &fakeCollection{insertedID: id}

	track := &Track{Title: "A - B", FName: "tracks/x.mp3"}
	err := newTrackRepo(coll).Create(context.Background(), track)

	require.NoError(t, err)
	assert.Equal(t, id, track.ID)
	assert.False(t, track.UploadedOn.IsZero())
	assert.NotNil(t, track.Likes)
	assert.NotNil(t, track.Dislikes)
	require.Len(t, coll.inserted, 1)
}

func TestTrackSaveUpserts(t *testing.T) {
	coll := &fakeCollection{}

	track := &Track{ID: primitive.NewObjectID(), Title: "A - B", Plays: 3}
	err := newTrackRepo(coll).Save(context.Background(), track)

	require.NoError(t, err)
	require.Len(t, coll.updates, 1)
	assert.True(t, coll.updates[0].upsert)
}

func TestTrackCount(t *testing.T) {
	coll := &fakeCollection{count: 7}

	count, err := newTrackRepo(coll).Count(context.Background())

	require.NoError(t, err)
	assert.Equal(t, int64(7), count)
}

func TestSettingsLoadExisting(t *testing.T) {
	coll := &fakeCollection{findOneDoc: &Settings{Whitelist: []string{"g1"}}}

	settings, err := NewSettingsRepository(&fakeDB{coll: coll}).Load(context.Background())

	require.NoError(t, err)
	assert.Equal(t, []string{"g1"}, settings.Whitelist)
	assert.Empty(t, coll.inserted)
}

func TestSettingsLoadCreatesSingleton(t *testing.T) {
	coll := &fakeCollection{findOneErr: driver.ErrNoDocuments}

	settings, err := NewSettingsRepository(&fakeDB{coll: coll}).Load(context.Background())

	require.NoError(t, err)
	assert.Empty(t, settings.Whitelist)
	assert.Empty(t, settings.MusicChannels)
	assert.Empty(t, settings.MusicUploadChannels)
	require.Len(t, coll.inserted, 1)
}

func TestSettingsLoadUnavailable(t *testing.T) {
	coll := &fakeCollection{findOneErr: errors.New("connection reset")}

	_, err := NewSettingsRepository(&fakeDB{coll: coll}).Load(context.Background())

	assert.ErrorIs(t, err, ErrUnavailable)
}
