package mongodb

import (
	// Go Internal Packages
	"context"
	"time"

	// Local Packages
	errors "aether/errors"
	models "aether/models"

	// External Packages
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type TxRepository struct {
	client     *mongo.Client
	database   string
	collection string
}

func NewTxRepository(client *mongo.Client, database string) *TxRepository {
	return &TxRepository{client: client, database: database, collection: "transactions"}
}

func (r *TxRepository) coll() *mongo.Collection {
	return r.client.Database(r.database).Collection(r.collection)
}

// InsertTransaction inserts a single transaction into the database. A
// duplicate identity is treated as already inserted so that a replayed
// ingest batch does not wedge on records it persisted before the replay.
func (r *TxRepository) InsertTransaction(ctx context.Context, tx models.Transaction) error {
	_, err := r.coll().InsertOne(ctx, tx)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil
		}
		return err
	}
	return nil
}

// MarkProcessed advances every listed transaction from pending to processed
// inside one session transaction, in the order given. The status filter makes
// each update idempotent: an unknown or already-processed identity matches
// nothing and is not an error. On any failure the whole batch is rolled back.
func (r *TxRepository) MarkProcessed(ctx context.Context, ids []string) error {
	if len(ids) == 0 {
		return nil
	}

	session, err := r.client.StartSession()
	if err != nil {
		return errors.BatchApplyErr(err)
	}
	defer session.EndSession(ctx)

	_, err = session.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		for _, id := range ids {
			filter := bson.M{"_id": id, "status": models.StatusPending}
			update := bson.M{"$set": bson.M{"status": models.StatusProcessed}}
			if _, err := r.coll().UpdateOne(sc, filter, update); err != nil {
				return nil, err
			}
		}
		return nil, nil
	})
	if err != nil {
		return errors.BatchApplyErr(err)
	}
	return nil
}

// QueryByTimeRange returns all transactions created at or after since,
// ordered by creation time ascending.
func (r *TxRepository) QueryByTimeRange(ctx context.Context, since time.Time) ([]models.Transaction, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}})
	cursor, err := r.coll().Find(ctx, bson.M{"created_at": bson.M{"$gte": since}}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var txs []models.Transaction
	if err := cursor.All(ctx, &txs); err != nil {
		return nil, err
	}
	return txs, nil
}
