package store

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Track is one uploaded audio track and its engagement counters.
type Track struct {
	ID             primitive.ObjectID `bson:"_id,omitempty"`
	Title          string             `bson:"title"`
	FName          string             `bson:"fname"`
	Likes          []string           `bson:"likes"`
	Dislikes       []string           `bson:"dislikes"`
	Plays          int                `bson:"plays"`
	Skips          int                `bson:"skips"`
	UploadedServer string             `bson:"uploadedServer"`
	UploadedBy     string             `bson:"uploadedBy"`
	UploadedOn     time.Time          `bson:"uploadedOn"`
}

// Like records an upvote from userID. A user sits in at most one of
// Likes/Dislikes, so an existing downvote is dropped.
func (t *Track) Like(userID string) {
	if !contains(t.Likes, userID) {
		t.Likes = append(t.Likes, userID)
	}
	t.Dislikes = remove(t.Dislikes, userID)
}

// Dislike records a downvote from userID, dropping any existing upvote.
func (t *Track) Dislike(userID string) {
	if !contains(t.Dislikes, userID) {
		t.Dislikes = append(t.Dislikes, userID)
	}
	t.Likes = remove(t.Likes, userID)
}

func contains(ids []string, id string) bool {
	for _, x := range ids {
		if x == id {
			return true
		}
	}
	return false
}

func remove(ids []string, id string) []string {
	for i, x := range ids {
		if x == id {
			return append(ids[:i], ids[i+1:]...)
		}
	}
	return ids
}
