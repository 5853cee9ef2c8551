package repository

import (
	"context"
	"errors"

	"studyflow/model"
	"studyflow/utils"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

type UserRepo struct {
	MongoCollection *mongo.Collection
}

func GetUserRepo(db *mongo.Database) *UserRepo {
	return &UserRepo{MongoCollection: db.Collection(UsersCollection)}
}

func (r *UserRepo) AddUser(ctx context.Context, user *model.User) error {
	timer := utils.TrackDBOperation("insert", UsersCollection)
	defer timer.ObserveDuration()

	if user.Username == "" || user.Password == "" {
		utils.TrackError("database", "invalid_user_data")
		return errors.New("username and password required")
	}

	_, err := r.MongoCollection.InsertOne(ctx, user)
	return wrap(err, UsersCollection, "user_creation_failed")
}

func (r *UserRepo) FindUserByUsername(ctx context.Context, username string) (*model.User, error) {
	timer := utils.TrackDBOperation("find", UsersCollection)
	defer timer.ObserveDuration()

	var user model.User
	err := r.MongoCollection.FindOne(ctx, bson.D{{Key: "username", Value: username}}).Decode(&user)
	if err != nil {
		return nil, wrap(err, UsersCollection, "user_lookup_error")
	}
	return &user, nil
}

func (r *UserRepo) FindUser(ctx context.Context, userID string) (*model.User, error) {
	timer := utils.TrackDBOperation("find", UsersCollection)
	defer timer.ObserveDuration()

	var user model.User
	err := r.MongoCollection.FindOne(ctx, bson.D{{Key: "user_id", Value: userID}}).Decode(&user)
	if err != nil {
		return nil, wrap(err, UsersCollection, "user_lookup_error")
	}
	return &user, nil
}

func (r *UserRepo) UpdateTwoFactor(ctx context.Context, userID, secret string, enabled bool) error {
	timer := utils.TrackDBOperation("update", UsersCollection)
	defer timer.ObserveDuration()

	update := bson.M{"$set": bson.M{
		"two_factor_secret":  secret,
		"two_factor_enabled": enabled,
	}}
	res, err := r.MongoCollection.UpdateOne(ctx, bson.M{"user_id": userID}, update)
	if err != nil {
		return wrap(err, UsersCollection, "two_factor_update_failed")
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *UserRepo) DeleteUser(ctx context.Context, userID string) error {
	timer := utils.TrackDBOperation("delete", UsersCollection)
	defer timer.ObserveDuration()

	res, err := r.MongoCollection.DeleteOne(ctx, bson.M{"user_id": userID})
	if err != nil {
		return wrap(err, UsersCollection, "user_deletion_failed")
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}
