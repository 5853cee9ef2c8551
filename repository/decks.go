package repository

import (
	"context"

	"studyflow/model"
	"studyflow/utils"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type DeckRepo struct {
	MongoCollection *mongo.Collection
}

func GetDeckRepo(db *mongo.Database) *DeckRepo {
	return &DeckRepo{MongoCollection: db.Collection(DecksCollection)}
}

func (r *DeckRepo) ListDecks(ctx context.Context, userID string) ([]*model.FlashcardDeck, error) {
	timer := utils.TrackDBOperation("find", DecksCollection)
	defer timer.ObserveDuration()

	opts := options.Find().SetSort(bson.D{{Key: "updated_at", Value: -1}})
	cursor, err := r.MongoCollection.Find(ctx, bson.M{"user_id": userID}, opts)
	if err != nil {
		return nil, wrap(err, DecksCollection, "deck_fetch_failed")
	}
	defer cursor.Close(ctx)

	decks := []*model.FlashcardDeck{}
	if err := cursor.All(ctx, &decks); err != nil {
		return nil, wrap(err, DecksCollection, "deck_decode_failed")
	}
	return decks, nil
}

func (r *DeckRepo) CreateDeck(ctx context.Context, d *model.FlashcardDeck) error {
	timer := utils.TrackDBOperation("insert", DecksCollection)
	defer timer.ObserveDuration()

	d.Recount()
	_, err := r.MongoCollection.InsertOne(ctx, d)
	return wrap(err, DecksCollection, "deck_creation_failed")
}

func (r *DeckRepo) GetDeck(ctx context.Context, userID, deckID string) (*model.FlashcardDeck, error) {
	timer := utils.TrackDBOperation("find", DecksCollection)
	defer timer.ObserveDuration()

	var d model.FlashcardDeck
	err := r.MongoCollection.FindOne(ctx, bson.M{"_id": deckID, "user_id": userID}).Decode(&d)
	if err != nil {
		return nil, wrap(err, DecksCollection, "deck_lookup_error")
	}
	return &d, nil
}

func (r *DeckRepo) GetDeckByShareCode(ctx context.Context, code string) (*model.FlashcardDeck, error) {
	timer := utils.TrackDBOperation("find", DecksCollection)
	defer timer.ObserveDuration()

	var d model.FlashcardDeck
	if err := r.MongoCollection.FindOne(ctx, bson.M{"share_code": code}).Decode(&d); err != nil {
		return nil, wrap(err, DecksCollection, "deck_lookup_error")
	}
	return &d, nil
}

// SaveDeck replaces the deck, recomputing its counters first.
func (r *DeckRepo) SaveDeck(ctx context.Context, d *model.FlashcardDeck) error {
	timer := utils.TrackDBOperation("update", DecksCollection)
	defer timer.ObserveDuration()

	d.Recount()
	res, err := r.MongoCollection.ReplaceOne(ctx, bson.M{"_id": d.ID, "user_id": d.UserID}, d)
	if err != nil {
		return wrap(err, DecksCollection, "deck_update_failed")
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *DeckRepo) DeleteDeck(ctx context.Context, userID, deckID string) error {
	timer := utils.TrackDBOperation("delete", DecksCollection)
	defer timer.ObserveDuration()

	res, err := r.MongoCollection.DeleteOne(ctx, bson.M{"_id": deckID, "user_id": userID})
	if err != nil {
		return wrap(err, DecksCollection, "deck_deletion_failed")
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

type DeckTotals struct {
	Decks   int `bson:"decks"`
	Cards   int `bson:"cards"`
	Learned int `bson:"learned"`
}

func (r *DeckRepo) DeckTotals(ctx context.Context, userID string) (*DeckTotals, error) {
	timer := utils.TrackDBOperation("aggregate", DecksCollection)
	defer timer.ObserveDuration()

	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"user_id": userID}}},
		{{Key: "$group", Value: bson.M{
			"_id":     nil,
			"decks":   bson.M{"$sum": 1},
			"cards":   bson.M{"$sum": "$total"},
			"learned": bson.M{"$sum": "$learned"},
		}}},
	}
	cursor, err := r.MongoCollection.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, wrap(err, DecksCollection, "deck_aggregate_failed")
	}
	defer cursor.Close(ctx)

	var totals []DeckTotals
	if err := cursor.All(ctx, &totals); err != nil {
		return nil, wrap(err, DecksCollection, "deck_decode_failed")
	}
	if len(totals) == 0 {
		return &DeckTotals{}, nil
	}
	return &totals[0], nil
}

func (r *DeckRepo) DeleteByUser(ctx context.Context, userID string) error {
	timer := utils.TrackDBOperation("delete", DecksCollection)
	defer timer.ObserveDuration()

	_, err := r.MongoCollection.DeleteMany(ctx, bson.M{"user_id": userID})
	return wrap(err, DecksCollection, "deck_deletion_failed")
}
