package repository

import (
	"context"

	"studyflow/model"
	"studyflow/utils"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type ProfileRepo struct {
	MongoCollection *mongo.Collection
}

func GetProfileRepo(db *mongo.Database) *ProfileRepo {
	return &ProfileRepo{MongoCollection: db.Collection(ProfilesCollection)}
}

func (r *ProfileRepo) GetProfile(ctx context.Context, userID string) (*model.Profile, error) {
	timer := utils.TrackDBOperation("find", ProfilesCollection)
	defer timer.ObserveDuration()

	var p model.Profile
	if err := r.MongoCollection.FindOne(ctx, bson.M{"user_id": userID}).Decode(&p); err != nil {
		return nil, wrap(err, ProfilesCollection, "profile_lookup_error")
	}
	return &p, nil
}

// SaveProfile replaces the whole profile document, creating it if needed.
func (r *ProfileRepo) SaveProfile(ctx context.Context, p *model.Profile) error {
	timer := utils.TrackDBOperation("upsert", ProfilesCollection)
	defer timer.ObserveDuration()

	_, err := r.MongoCollection.ReplaceOne(ctx,
		bson.M{"user_id": p.UserID}, p, options.Replace().SetUpsert(true))
	return wrap(err, ProfilesCollection, "profile_save_failed")
}

func (r *ProfileRepo) DeleteProfile(ctx context.Context, userID string) error {
	timer := utils.TrackDBOperation("delete", ProfilesCollection)
	defer timer.ObserveDuration()

	_, err := r.MongoCollection.DeleteOne(ctx, bson.M{"user_id": userID})
	return wrap(err, ProfilesCollection, "profile_deletion_failed")
}
