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

type SessionRepo struct {
	MongoCollection *mongo.Collection
}

func GetSessionRepo(db *mongo.Database) *SessionRepo {
	return &SessionRepo{MongoCollection: db.Collection(AuthSessionsCollection)}
}

func (r *SessionRepo) CreateSession(ctx context.Context, s *model.AuthSession) error {
	timer := utils.TrackDBOperation("insert", AuthSessionsCollection)
	defer timer.ObserveDuration()

	_, err := r.MongoCollection.InsertOne(ctx, s)
	return wrap(err, AuthSessionsCollection, "session_creation_failed")
}

func (r *SessionRepo) GetSession(ctx context.Context, sessionID string) (*model.AuthSession, error) {
	timer := utils.TrackDBOperation("find", AuthSessionsCollection)
	defer timer.ObserveDuration()

	var s model.AuthSession
	if err := r.MongoCollection.FindOne(ctx, bson.M{"session_id": sessionID}).Decode(&s); err != nil {
		return nil, wrap(err, AuthSessionsCollection, "session_lookup_error")
	}
	return &s, nil
}

func (r *SessionRepo) GetActiveSessions(ctx context.Context, userID string) ([]*model.AuthSession, error) {
	timer := utils.TrackDBOperation("find", AuthSessionsCollection)
	defer timer.ObserveDuration()

	opts := options.Find().SetSort(bson.D{{Key: "last_seen_at", Value: -1}})
	cursor, err := r.MongoCollection.Find(ctx, bson.M{"user_id": userID, "is_active": true}, opts)
	if err != nil {
		return nil, wrap(err, AuthSessionsCollection, "session_fetch_failed")
	}
	defer cursor.Close(ctx)

	sessions := []*model.AuthSession{}
	if err := cursor.All(ctx, &sessions); err != nil {
		return nil, wrap(err, AuthSessionsCollection, "session_decode_failed")
	}
	return sessions, nil
}

func (r *SessionRepo) TouchSession(ctx context.Context, sessionID string, at time.Time) error {
	timer := utils.TrackDBOperation("update", AuthSessionsCollection)
	defer timer.ObserveDuration()

	_, err := r.MongoCollection.UpdateOne(ctx,
		bson.M{"session_id": sessionID},
		bson.M{"$set": bson.M{"last_seen_at": at}})
	return wrap(err, AuthSessionsCollection, "session_touch_failed")
}

func (r *SessionRepo) DeactivateSession(ctx context.Context, sessionID string) error {
	timer := utils.TrackDBOperation("update", AuthSessionsCollection)
	defer timer.ObserveDuration()

	_, err := r.MongoCollection.UpdateOne(ctx,
		bson.M{"session_id": sessionID},
		bson.M{"$set": bson.M{"is_active": false}})
	return wrap(err, AuthSessionsCollection, "session_deactivation_failed")
}

// DeactivateAllSessions ends every active session of the user and returns
// their ids.
func (r *SessionRepo) DeactivateAllSessions(ctx context.Context, userID string) ([]string, error) {
	active, err := r.GetActiveSessions(ctx, userID)
	if err != nil {
		return nil, err
	}

	timer := utils.TrackDBOperation("update", AuthSessionsCollection)
	defer timer.ObserveDuration()

	_, err = r.MongoCollection.UpdateMany(ctx,
		bson.M{"user_id": userID, "is_active": true},
		bson.M{"$set": bson.M{"is_active": false}})
	if err != nil {
		return nil, wrap(err, AuthSessionsCollection, "session_deactivation_failed")
	}

	ids := make([]string, len(active))
	for i, s := range active {
		ids[i] = s.SessionID
	}
	return ids, nil
}
