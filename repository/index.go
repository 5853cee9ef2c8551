package repository

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func userDateIndex(name, field string, order int) mongo.IndexModel {
	return mongo.IndexModel{
		Keys: bson.D{
			{Key: "user_id", Value: 1},
			{Key: field, Value: order},
		},
		Options: options.Index().SetName(name),
	}
}

func SetupIndexes(ctx context.Context, db *mongo.Database) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := map[string][]mongo.IndexModel{
		UsersCollection: {
			{
				Keys:    bson.D{{Key: "user_id", Value: 1}},
				Options: options.Index().SetName("user_id_unique").SetUnique(true),
			},
			{
				Keys:    bson.D{{Key: "username", Value: 1}},
				Options: options.Index().SetName("username_unique").SetUnique(true),
			},
		},
		ProfilesCollection: {
			{
				Keys:    bson.D{{Key: "user_id", Value: 1}},
				Options: options.Index().SetName("user_id_unique").SetUnique(true),
			},
		},
		AuthSessionsCollection: {
			{
				Keys:    bson.D{{Key: "session_id", Value: 1}},
				Options: options.Index().SetName("session_id_unique").SetUnique(true),
			},
			{
				Keys: bson.D{
					{Key: "user_id", Value: 1},
					{Key: "is_active", Value: 1},
				},
				Options: options.Index().SetName("user_active_sessions"),
			},
		},
		ChatSessionsCollection: {
			userDateIndex("user_chats_updated", "updated_at", -1),
		},
		ChatMessagesCollection: {
			{
				Keys: bson.D{
					{Key: "session_id", Value: 1},
					{Key: "timestamp", Value: 1},
				},
				Options: options.Index().SetName("session_messages_time"),
			},
		},
		DecksCollection: {
			userDateIndex("user_decks_updated", "updated_at", -1),
			{
				Keys: bson.D{{Key: "share_code", Value: 1}},
				Options: options.Index().
					SetName("share_code_unique").
					SetUnique(true).
					SetPartialFilterExpression(bson.M{"share_code": bson.M{"$type": "string"}}),
			},
		},
		HabitsCollection: {
			userDateIndex("user_habits_created", "created_at", 1),
		},
		HabitTasksCollection: {
			userDateIndex("user_tasks_created", "created_at", -1),
			{
				Keys: bson.D{
					{Key: "user_id", Value: 1},
					{Key: "habit_id", Value: 1},
				},
				Options: options.Index().SetName("user_habit_tasks"),
			},
		},
		PomodoroStatesCollection: {
			{
				Keys:    bson.D{{Key: "user_id", Value: 1}},
				Options: options.Index().SetName("user_id_unique").SetUnique(true),
			},
		},
		PomodoroSessionsCollection: {
			userDateIndex("user_sessions_completed", "completed_at", -1),
		},
	}

	for collection, models := range indexes {
		if _, err := db.Collection(collection).Indexes().CreateMany(ctx, models); err != nil {
			return fmt.Errorf("failed to create %s indexes: %w", collection, err)
		}
	}

	slog.Info("successfully created all indexes", "collections", len(indexes))
	return nil
}
