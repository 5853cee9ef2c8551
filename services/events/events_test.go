package events

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecorder(t *testing.T) {
	var r Recorder
	require.NoError(t, r.Publish(context.Background(), New(LevelUp, "u1", map[string]any{"level": 2})))
	require.NoError(t, Noop{}.Publish(context.Background(), New(LevelUp, "u1", nil)))

	require.Len(t, r.Events, 1)
	assert.Equal(t, LevelUp, r.Events[0].Type)
	assert.Equal(t, "u1", r.Events[0].UserID)
	assert.False(t, r.Events[0].OccurredAt.IsZero())
}

func TestAMQPRoundTrip(t *testing.T) {
	url := os.Getenv("AMQP_TEST_URL")
	if url == "" {
		t.Skip("AMQP_TEST_URL not set")
	}

	broker, err := DialAMQP(url, "studyflow.test."+uuid.NewString())
	require.NoError(t, err)
	defer broker.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	stream, err := broker.Consume(ctx, "pomodoro.*")
	require.NoError(t, err)

	require.NoError(t, broker.Publish(ctx, New(HabitCompleted, "u1", nil)))
	require.NoError(t, broker.Publish(ctx, New(FocusCompleted, "u1", map[string]any{"minutes": 25})))

	select {
	case e := <-stream:
		assert.Equal(t, FocusCompleted, e.Type)
		assert.Equal(t, float64(25), e.Data["minutes"])
	case <-ctx.Done():
		t.Fatal("no event received")
	}
}
