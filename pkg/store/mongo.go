package store

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/bleviet/regcraft/pkg/errors"
)

// MongoLibrary is a MongoDB-backed map library for shared team collections.
type MongoLibrary struct {
	client *mongo.Client
	coll   *mongo.Collection
}

// MongoConfig configures the MongoDB connection.
type MongoConfig struct {
	URI        string // e.g. "mongodb://localhost:27017"
	Database   string // defaults to "regcraft"
	Collection string // defaults to "documents"
}

// mongoDoc is the stored document shape.
type mongoDoc struct {
	Name      string    `bson:"name"`
	Text      []byte    `bson:"text"`
	UpdatedAt time.Time `bson:"updated_at"`
}

// NewMongoLibrary connects to MongoDB and verifies the connection.
func NewMongoLibrary(ctx context.Context, cfg MongoConfig) (*MongoLibrary, error) {
	if cfg.Database == "" {
		cfg.Database = "regcraft"
	}
	if cfg.Collection == "" {
		cfg.Collection = "documents"
	}

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeStore, err, "connect to %s", cfg.URI)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, errors.Wrap(errors.ErrCodeStore, err, "ping %s", cfg.URI)
	}

	return &MongoLibrary{
		client: client,
		coll:   client.Database(cfg.Database).Collection(cfg.Collection),
	}, nil
}

// Save upserts the document under name.
func (l *MongoLibrary) Save(ctx context.Context, name string, text []byte) error {
	if err := errors.ValidateEntityName(name); err != nil {
		return err
	}
	doc := mongoDoc{Name: name, Text: text, UpdatedAt: time.Now().UTC()}
	_, err := l.coll.ReplaceOne(ctx, bson.M{"name": name}, doc,
		options.Replace().SetUpsert(true))
	if err != nil {
		return errors.Wrap(errors.ErrCodeStore, err, "save document %q", name)
	}
	return nil
}

// Load returns the stored text for name.
func (l *MongoLibrary) Load(ctx context.Context, name string) ([]byte, error) {
	if err := errors.ValidateEntityName(name); err != nil {
		return nil, err
	}
	var doc mongoDoc
	err := l.coll.FindOne(ctx, bson.M{"name": name}).Decode(&doc)
	if err == mongo.ErrNoDocuments {
		return nil, errors.New(errors.ErrCodeNotFound, "document %q not found", name)
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeStore, err, "load document %q", name)
	}
	return doc.Text, nil
}

// List returns all entries sorted by name.
func (l *MongoLibrary) List(ctx context.Context) ([]Entry, error) {
	opts := options.Find().
		SetProjection(bson.M{"name": 1, "updated_at": 1}).
		SetSort(bson.M{"name": 1})
	cur, err := l.coll.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeStore, err, "list documents")
	}
	defer cur.Close(ctx)

	var entries []Entry
	for cur.Next(ctx) {
		var doc mongoDoc
		if err := cur.Decode(&doc); err != nil {
			return nil, errors.Wrap(errors.ErrCodeStore, err, "decode entry")
		}
		entries = append(entries, Entry{Name: doc.Name, UpdatedAt: doc.UpdatedAt})
	}
	if err := cur.Err(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeStore, err, "iterate documents")
	}
	return entries, nil
}

// Delete removes a document.
func (l *MongoLibrary) Delete(ctx context.Context, name string) error {
	if err := errors.ValidateEntityName(name); err != nil {
		return err
	}
	if _, err := l.coll.DeleteOne(ctx, bson.M{"name": name}); err != nil {
		return errors.Wrap(errors.ErrCodeStore, err, "delete document %q", name)
	}
	return nil
}

// Close disconnects from MongoDB.
func (l *MongoLibrary) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return l.client.Disconnect(ctx)
}

// Ensure MongoLibrary implements Library.
var _ Library = (*MongoLibrary)(nil)
