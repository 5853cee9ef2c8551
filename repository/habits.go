package repository

import (
	"context"

	"studyflow/model"
	"studyflow/utils"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type HabitRepo struct {
	MongoCollection *mongo.Collection
}

func GetHabitRepo(db *mongo.Database) *HabitRepo {
	return &HabitRepo{MongoCollection: db.Collection(HabitsCollection)}
}

func (r *HabitRepo) ListHabits(ctx context.Context, userID string) ([]*model.Habit, error) {
	timer := utils.TrackDBOperation("find", HabitsCollection)
	defer timer.ObserveDuration()

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}})
	cursor, err := r.MongoCollection.Find(ctx, bson.M{"user_id": userID}, opts)
	if err != nil {
		return nil, wrap(err, HabitsCollection, "habit_fetch_failed")
	}
	defer cursor.Close(ctx)

	habits := []*model.Habit{}
	if err := cursor.All(ctx, &habits); err != nil {
		return nil, wrap(err, HabitsCollection, "habit_decode_failed")
	}
	return habits, nil
}

func (r *HabitRepo) CreateHabit(ctx context.Context, h *model.Habit) error {
	timer := utils.TrackDBOperation("insert", HabitsCollection)
	defer timer.ObserveDuration()

	_, err := r.MongoCollection.InsertOne(ctx, h)
	return wrap(err, HabitsCollection, "habit_creation_failed")
}

func (r *HabitRepo) GetHabit(ctx context.Context, userID, habitID string) (*model.Habit, error) {
	timer := utils.TrackDBOperation("find", HabitsCollection)
	defer timer.ObserveDuration()

	var h model.Habit
	err := r.MongoCollection.FindOne(ctx, bson.M{"_id": habitID, "user_id": userID}).Decode(&h)
	if err != nil {
		return nil, wrap(err, HabitsCollection, "habit_lookup_error")
	}
	return &h, nil
}

func (r *HabitRepo) SaveHabit(ctx context.Context, h *model.Habit) error {
	timer := utils.TrackDBOperation("update", HabitsCollection)
	defer timer.ObserveDuration()

	res, err := r.MongoCollection.ReplaceOne(ctx, bson.M{"_id": h.ID, "user_id": h.UserID}, h)
	if err != nil {
		return wrap(err, HabitsCollection, "habit_update_failed")
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *HabitRepo) DeleteHabit(ctx context.Context, userID, habitID string) error {
	timer := utils.TrackDBOperation("delete", HabitsCollection)
	defer timer.ObserveDuration()

	res, err := r.MongoCollection.DeleteOne(ctx, bson.M{"_id": habitID, "user_id": userID})
	if err != nil {
		return wrap(err, HabitsCollection, "habit_deletion_failed")
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *HabitRepo) DeleteByUser(ctx context.Context, userID string) error {
	timer := utils.TrackDBOperation("delete", HabitsCollection)
	defer timer.ObserveDuration()

	_, err := r.MongoCollection.DeleteMany(ctx, bson.M{"user_id": userID})
	return wrap(err, HabitsCollection, "habit_deletion_failed")
}
