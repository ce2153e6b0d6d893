package source

import (
	"context"

	"github.com/morikuni/failure"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// storedPost is the Mongo representation of a post source.
type storedPost struct {
	ID  string `bson:"_id"`
	Raw string `bson:"raw"`
}

// Mongo loads sources from a collection of {_id: slug, raw: text}.
type Mongo struct {
	col *mongo.Collection
}

func NewMongo(col *mongo.Collection) *Mongo {
	return &Mongo{col: col}
}

func (m *Mongo) Load(ctx context.Context) ([]Raw, error) {
	opts := options.Find().SetSort(bson.D{{Key: "_id", Value: 1}})
	cur, err := m.col.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, failure.Wrap(err, failure.Context{"collection": m.col.Name()})
	}
	defer cur.Close(ctx)
	out := []Raw{}
	for cur.Next(ctx) {
		var sp storedPost
		if err := cur.Decode(&sp); err != nil {
			return nil, failure.Wrap(err, failure.Context{"collection": m.col.Name()})
		}
		if sp.ID == "" {
			continue
		}
		out = append(out, Raw{ID: sp.ID, Text: sp.Raw})
	}
	if err := cur.Err(); err != nil {
		return nil, failure.Wrap(err, failure.Context{"collection": m.col.Name()})
	}
	sortByID(out)
	return out, nil
}

// Save upserts raws into the collection keyed by id. Used by blogctl push.
func (m *Mongo) Save(ctx context.Context, raws []Raw) error {
	opts := options.Update().SetUpsert(true)
	for _, r := range raws {
		filter := bson.M{"_id": r.ID}
		rec := bson.M{"$set": bson.M{"raw": r.Text}}
		if _, err := m.col.UpdateOne(ctx, filter, rec, opts); err != nil {
			return failure.Wrap(err, failure.Context{"id": r.ID})
		}
	}
	return nil
}
