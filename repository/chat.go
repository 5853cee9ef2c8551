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

type ChatRepo struct {
	Sessions *mongo.Collection
	Messages *mongo.Collection
}

func GetChatRepo(db *mongo.Database) *ChatRepo {
	return &ChatRepo{
		Sessions: db.Collection(ChatSessionsCollection),
		Messages: db.Collection(ChatMessagesCollection),
	}
}

func (r *ChatRepo) ListSessions(ctx context.Context, userID string) ([]*model.ChatSession, error) {
	timer := utils.TrackDBOperation("find", ChatSessionsCollection)
	defer timer.ObserveDuration()

	opts := options.Find().SetSort(bson.D{{Key: "updated_at", Value: -1}})
	cursor, err := r.Sessions.Find(ctx, bson.M{"user_id": userID}, opts)
	if err != nil {
		return nil, wrap(err, ChatSessionsCollection, "chat_fetch_failed")
	}
	defer cursor.Close(ctx)

	sessions := []*model.ChatSession{}
	if err := cursor.All(ctx, &sessions); err != nil {
		return nil, wrap(err, ChatSessionsCollection, "chat_decode_failed")
	}
	return sessions, nil
}

func (r *ChatRepo) CountSessions(ctx context.Context, userID string) (int64, error) {
	timer := utils.TrackDBOperation("count", ChatSessionsCollection)
	defer timer.ObserveDuration()

	n, err := r.Sessions.CountDocuments(ctx, bson.M{"user_id": userID})
	return n, wrap(err, ChatSessionsCollection, "chat_count_failed")
}

func (r *ChatRepo) CreateSession(ctx context.Context, s *model.ChatSession) error {
	timer := utils.TrackDBOperation("insert", ChatSessionsCollection)
	defer timer.ObserveDuration()

	_, err := r.Sessions.InsertOne(ctx, s)
	return wrap(err, ChatSessionsCollection, "chat_creation_failed")
}

func (r *ChatRepo) GetSession(ctx context.Context, userID, sessionID string) (*model.ChatSession, error) {
	timer := utils.TrackDBOperation("find", ChatSessionsCollection)
	defer timer.ObserveDuration()

	var s model.ChatSession
	err := r.Sessions.FindOne(ctx, bson.M{"_id": sessionID, "user_id": userID}).Decode(&s)
	if err != nil {
		return nil, wrap(err, ChatSessionsCollection, "chat_lookup_error")
	}
	return &s, nil
}

func (r *ChatRepo) UpdateTitle(ctx context.Context, userID, sessionID, title string, at time.Time) error {
	timer := utils.TrackDBOperation("update", ChatSessionsCollection)
	defer timer.ObserveDuration()

	res, err := r.Sessions.UpdateOne(ctx,
		bson.M{"_id": sessionID, "user_id": userID},
		bson.M{"$set": bson.M{"title": title, "updated_at": at}})
	if err != nil {
		return wrap(err, ChatSessionsCollection, "chat_update_failed")
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// IncrementMessageCount bumps message_count by n and sets updated_at.
func (r *ChatRepo) IncrementMessageCount(ctx context.Context, sessionID string, n int, at time.Time) error {
	timer := utils.TrackDBOperation("update", ChatSessionsCollection)
	defer timer.ObserveDuration()

	_, err := r.Sessions.UpdateOne(ctx,
		bson.M{"_id": sessionID},
		bson.M{
			"$inc": bson.M{"message_count": n},
			"$set": bson.M{"updated_at": at},
		})
	return wrap(err, ChatSessionsCollection, "chat_update_failed")
}

// DeleteSession removes the messages first, then the session.
func (r *ChatRepo) DeleteSession(ctx context.Context, userID, sessionID string) error {
	timer := utils.TrackDBOperation("delete", ChatSessionsCollection)
	defer timer.ObserveDuration()

	if _, err := r.Messages.DeleteMany(ctx, bson.M{"session_id": sessionID, "user_id": userID}); err != nil {
		return wrap(err, ChatMessagesCollection, "chat_messages_deletion_failed")
	}
	res, err := r.Sessions.DeleteOne(ctx, bson.M{"_id": sessionID, "user_id": userID})
	if err != nil {
		return wrap(err, ChatSessionsCollection, "chat_deletion_failed")
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *ChatRepo) AddMessage(ctx context.Context, m *model.Message) error {
	timer := utils.TrackDBOperation("insert", ChatMessagesCollection)
	defer timer.ObserveDuration()

	_, err := r.Messages.InsertOne(ctx, m)
	return wrap(err, ChatMessagesCollection, "message_creation_failed")
}

// ListMessages returns the session's messages oldest first. A positive limit
// keeps only the newest limit messages.
func (r *ChatRepo) ListMessages(ctx context.Context, sessionID string, limit int) ([]*model.Message, error) {
	timer := utils.TrackDBOperation("find", ChatMessagesCollection)
	defer timer.ObserveDuration()

	opts := options.Find().SetSort(bson.D{{Key: "timestamp", Value: 1}})
	if limit > 0 {
		opts = options.Find().SetSort(bson.D{{Key: "timestamp", Value: -1}}).SetLimit(int64(limit))
	}
	cursor, err := r.Messages.Find(ctx, bson.M{"session_id": sessionID}, opts)
	if err != nil {
		return nil, wrap(err, ChatMessagesCollection, "message_fetch_failed")
	}
	defer cursor.Close(ctx)

	messages := []*model.Message{}
	if err := cursor.All(ctx, &messages); err != nil {
		return nil, wrap(err, ChatMessagesCollection, "message_decode_failed")
	}
	if limit > 0 {
		for i, j := 0, len(messages)-1; i < j; i, j = i+1, j-1 {
			messages[i], messages[j] = messages[j], messages[i]
		}
	}
	return messages, nil
}

func (r *ChatRepo) CountUserMessages(ctx context.Context, sessionID string) (int64, error) {
	timer := utils.TrackDBOperation("count", ChatMessagesCollection)
	defer timer.ObserveDuration()

	n, err := r.Messages.CountDocuments(ctx, bson.M{"session_id": sessionID, "sender": model.SenderUser})
	return n, wrap(err, ChatMessagesCollection, "message_count_failed")
}

// DeleteByUser removes every chat session and message owned by the user.
func (r *ChatRepo) DeleteByUser(ctx context.Context, userID string) error {
	timer := utils.TrackDBOperation("delete", ChatSessionsCollection)
	defer timer.ObserveDuration()

	if _, err := r.Messages.DeleteMany(ctx, bson.M{"user_id": userID}); err != nil {
		return wrap(err, ChatMessagesCollection, "chat_messages_deletion_failed")
	}
	_, err := r.Sessions.DeleteMany(ctx, bson.M{"user_id": userID})
	return wrap(err, ChatSessionsCollection, "chat_deletion_failed")
}
