package mongo

import (
	"context"
	"errors"
	"os"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"notes/collab/internal/store"
)

// noteDoc mirrors the fields of the web app's Note schema that the
// collaboration layer touches.
type noteDoc struct {
	ID              primitive.ObjectID   `bson:"_id"`
	User            primitive.ObjectID   `bson:"user"`
	Collaborators   []primitive.ObjectID `bson:"collaborators"`
	IsCollabEnabled bool                 `bson:"isCollabEnabled"`
	Body            string               `bson:"body"`
}

// NotesRepo implements store.NoteStore against the web app's notes
// collection.
type NotesRepo struct{ col *mongo.Collection }

func NewNotesRepo(c *Client) (*NotesRepo, error) {
	db, err := c.DB()
	if err != nil {
		return nil, err
	}
	colName := os.Getenv("NOTES_COLLECTION")
	if colName == "" {
		colName = "notes"
	}
	return &NotesRepo{col: db.Collection(colName)}, nil
}

func (r *NotesRepo) GetAccessInfo(ctx context.Context, noteID string) (*store.AccessInfo, error) {
	oid, err := primitive.ObjectIDFromHex(noteID)
	if err != nil {
		return nil, store.ErrNotFound
	}

	var doc noteDoc
	err = r.col.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	collaborators := make([]string, 0, len(doc.Collaborators))
	for _, id := range doc.Collaborators {
		collaborators = append(collaborators, id.Hex())
	}
	return &store.AccessInfo{
		OwnerID:         doc.User.Hex(),
		CollaboratorIDs: collaborators,
		IsCollabEnabled: doc.IsCollabEnabled,
		Body:            doc.Body,
	}, nil
}

func (r *NotesRepo) WriteNote(ctx context.Context, noteID, ownerID string, upd store.NoteUpdate) error {
	noteOID, err := primitive.ObjectIDFromHex(noteID)
	if err != nil {
		return store.ErrNotFound
	}
	ownerOID, err := primitive.ObjectIDFromHex(ownerID)
	if err != nil {
		return store.ErrNotFound
	}

	set := bson.M{
		"body":      upd.Body,
		"updatedAt": time.Now().UTC(),
	}
	if title := strings.TrimSpace(upd.Title); title != "" {
		set["title"] = title
	}

	res, err := r.col.UpdateOne(ctx,
		bson.M{"_id": noteOID, "user": ownerOID},
		bson.M{"$set": set},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return store.ErrNotFound
	}
	return nil
}
