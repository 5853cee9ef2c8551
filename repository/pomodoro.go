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

type PomodoroRepo struct {
	States   *mongo.Collection
	Sessions *mongo.Collection
}

func GetPomodoroRepo(db *mongo.Database) *PomodoroRepo {
	return &PomodoroRepo{
		States:   db.Collection(PomodoroStatesCollection),
		Sessions: db.Collection(PomodoroSessionsCollection),
	}
}

func (r *PomodoroRepo) GetState(ctx context.Context, userID string) (*model.PomodoroState, error) {
	timer := utils.TrackDBOperation("find", PomodoroStatesCollection)
	defer timer.ObserveDuration()

	var s model.PomodoroState
	if err := r.States.FindOne(ctx, bson.M{"user_id": userID}).Decode(&s); err != nil {
		return nil, wrap(err, PomodoroStatesCollection, "timer_lookup_error")
	}
	return &s, nil
}

func (r *PomodoroRepo) SaveState(ctx context.Context, s *model.PomodoroState) error {
	timer := utils.TrackDBOperation("upsert", PomodoroStatesCollection)
	defer timer.ObserveDuration()

	_, err := r.States.ReplaceOne(ctx, bson.M{"user_id": s.UserID}, s, options.Replace().SetUpsert(true))
	return wrap(err, PomodoroStatesCollection, "timer_save_failed")
}

func (r *PomodoroRepo) AddSession(ctx context.Context, s *model.PomodoroSession) error {
	timer := utils.TrackDBOperation("insert", PomodoroSessionsCollection)
	defer timer.ObserveDuration()

	_, err := r.Sessions.InsertOne(ctx, s)
	return wrap(err, PomodoroSessionsCollection, "pomodoro_log_failed")
}

// CountFocusSince counts focus sessions completed at or after since.
func (r *PomodoroRepo) CountFocusSince(ctx context.Context, userID string, since time.Time) (int64, error) {
	timer := utils.TrackDBOperation("count", PomodoroSessionsCollection)
	defer timer.ObserveDuration()

	n, err := r.Sessions.CountDocuments(ctx, bson.M{
		"user_id":      userID,
		"mode":         model.ModePomodoro,
		"completed_at": bson.M{"$gte": since},
	})
	return n, wrap(err, PomodoroSessionsCollection, "pomodoro_count_failed")
}

// DeleteByUser drops the timer and its session log.
func (r *PomodoroRepo) DeleteByUser(ctx context.Context, userID string) error {
	timer := utils.TrackDBOperation("delete", PomodoroStatesCollection)
	defer timer.ObserveDuration()

	if _, err := r.Sessions.DeleteMany(ctx, bson.M{"user_id": userID}); err != nil {
		return wrap(err, PomodoroSessionsCollection, "pomodoro_log_deletion_failed")
	}
	_, err := r.States.DeleteOne(ctx, bson.M{"user_id": userID})
	return wrap(err, PomodoroStatesCollection, "timer_deletion_failed")
}
