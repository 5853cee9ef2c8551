package repository

import (
	"context"
	"time"

	"studyflow/model"
	"studyflow/utils"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type TaskRepo struct {
	MongoCollection *mongo.Collection
}

func GetTaskRepo(db *mongo.Database) *TaskRepo {
	return &TaskRepo{MongoCollection: db.Collection(HabitTasksCollection)}
}

// ListTasks returns open tasks before completed ones, newest first.
func (r *TaskRepo) ListTasks(ctx context.Context, userID string) ([]*model.HabitTask, error) {
	timer := utils.TrackDBOperation("find", HabitTasksCollection)
	defer timer.ObserveDuration()

	opts := options.Find().SetSort(bson.D{
		{Key: "completed", Value: 1},
		{Key: "created_at", Value: -1},
	})
	cursor, err := r.MongoCollection.Find(ctx, bson.M{"user_id": userID}, opts)
	if err != nil {
		return nil, wrap(err, HabitTasksCollection, "task_fetch_failed")
	}
	defer cursor.Close(ctx)

	tasks := []*model.HabitTask{}
	if err := cursor.All(ctx, &tasks); err != nil {
		return nil, wrap(err, HabitTasksCollection, "task_decode_failed")
	}
	return tasks, nil
}

func (r *TaskRepo) CreateTask(ctx context.Context, t *model.HabitTask) error {
	timer := utils.TrackDBOperation("insert", HabitTasksCollection)
	defer timer.ObserveDuration()

	_, err := r.MongoCollection.InsertOne(ctx, t)
	return wrap(err, HabitTasksCollection, "task_creation_failed")
}

func (r *TaskRepo) GetTask(ctx context.Context, userID, taskID string) (*model.HabitTask, error) {
	timer := utils.TrackDBOperation("find", HabitTasksCollection)
	defer timer.ObserveDuration()

	var t model.HabitTask
	err := r.MongoCollection.FindOne(ctx, bson.M{"_id": taskID, "user_id": userID}).Decode(&t)
	if err != nil {
		return nil, wrap(err, HabitTasksCollection, "task_lookup_error")
	}
	return &t, nil
}

func (r *TaskRepo) SaveTask(ctx context.Context, t *model.HabitTask) error {
	timer := utils.TrackDBOperation("update", HabitTasksCollection)
	defer timer.ObserveDuration()

	res, err := r.MongoCollection.ReplaceOne(ctx, bson.M{"_id": t.ID, "user_id": t.UserID}, t)
	if err != nil {
		return wrap(err, HabitTasksCollection, "task_update_failed")
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *TaskRepo) DeleteTask(ctx context.Context, userID, taskID string) error {
	timer := utils.TrackDBOperation("delete", HabitTasksCollection)
	defer timer.ObserveDuration()

	res, err := r.MongoCollection.DeleteOne(ctx, bson.M{"_id": taskID, "user_id": userID})
	if err != nil {
		return wrap(err, HabitTasksCollection, "task_deletion_failed")
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *TaskRepo) DeleteTasksByHabit(ctx context.Context, userID, habitID string) error {
	timer := utils.TrackDBOperation("delete", HabitTasksCollection)
	defer timer.ObserveDuration()

	_, err := r.MongoCollection.DeleteMany(ctx, bson.M{"user_id": userID, "habit_id": habitID})
	return wrap(err, HabitTasksCollection, "task_deletion_failed")
}

// RenameHabit keeps the copied habit title on linked tasks current.
func (r *TaskRepo) RenameHabit(ctx context.Context, userID, habitID, title string, at time.Time) error {
	timer := utils.TrackDBOperation("update", HabitTasksCollection)
	defer timer.ObserveDuration()

	_, err := r.MongoCollection.UpdateMany(ctx,
		bson.M{"user_id": userID, "habit_id": habitID},
		bson.M{"$set": bson.M{"habit_title": title, "updated_at": at}})
	return wrap(err, HabitTasksCollection, "task_update_failed")
}

func (r *TaskRepo) CountPending(ctx context.Context, userID string) (int64, error) {
	timer := utils.TrackDBOperation("count", HabitTasksCollection)
	defer timer.ObserveDuration()

	n, err := r.MongoCollection.CountDocuments(ctx, bson.M{"user_id": userID, "completed": false})
	return n, wrap(err, HabitTasksCollection, "task_count_failed")
}

func (r *TaskRepo) DeleteByUser(ctx context.Context, userID string) error {
	timer := utils.TrackDBOperation("delete", HabitTasksCollection)
	defer timer.ObserveDuration()

	_, err := r.MongoCollection.DeleteMany(ctx, bson.M{"user_id": userID})
	return wrap(err, HabitTasksCollection, "task_deletion_failed")
}
