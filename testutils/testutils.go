package testutils

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"studyflow/services/ai"
	"studyflow/services/storage"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Clock is a settable time source for tests.
type Clock struct {
	mu  sync.Mutex
	now time.Time
}

func NewClock(t time.Time) *Clock {
	return &Clock{now: t}
}

func (c *Clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *Clock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func (c *Clock) Set(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = t
}

var loadEnvOnce sync.Once

// LoadTestEnv loads .env.test or .env from the module root, once.
func LoadTestEnv() {
	loadEnvOnce.Do(func() {
		root := findProjectRoot()
		if root == "" {
			return
		}
		for _, name := range []string{".env.test", ".env"} {
			if err := godotenv.Load(filepath.Join(root, name)); err == nil {
				return
			}
		}
	})
}

func findProjectRoot() string {
	dir, err := os.Getwd()
	if err != nil {
		return ""
	}
	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return ""
		}
		dir = parent
	}
}

// TestDatabase connects to MONGO_TEST_URI and returns a throwaway database
// that is dropped when the test ends. The test is skipped when the variable
// is not set.
func TestDatabase(t *testing.T) *mongo.Database {
	t.Helper()
	LoadTestEnv()

	uri := os.Getenv("MONGO_TEST_URI")
	if uri == "" {
		t.Skip("MONGO_TEST_URI not set, skipping MongoDB integration test")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		t.Fatalf("connecting to test database: %v", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		t.Fatalf("pinging test database: %v", err)
	}

	name := fmt.Sprintf("studyflow_test_%d", time.Now().UnixNano())
	db := client.Database(name)
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = db.Drop(ctx)
		_ = client.Disconnect(ctx)
	})
	return db
}

// TestRedis connects to REDIS_TEST_URL and flushes the selected database
// before and after the test. The test is skipped when the variable is not set.
func TestRedis(t *testing.T) *redis.Client {
	t.Helper()
	LoadTestEnv()

	url := os.Getenv("REDIS_TEST_URL")
	if url == "" {
		t.Skip("REDIS_TEST_URL not set, skipping Redis integration test")
	}
	opts, err := redis.ParseURL(url)
	if err != nil {
		t.Fatalf("parsing REDIS_TEST_URL: %v", err)
	}
	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.FlushDB(ctx).Err(); err != nil {
		t.Fatalf("flushing test redis: %v", err)
	}
	t.Cleanup(func() {
		_ = client.FlushDB(context.Background()).Err()
		_ = client.Close()
	})
	return client
}

// StubGenerator returns canned replies in order, then repeats the last one.
// Err, when set, is returned instead.
type StubGenerator struct {
	mu      sync.Mutex
	Replies []string
	Err     error
	Prompts []ai.Prompt
}

func (g *StubGenerator) Generate(_ context.Context, p ai.Prompt) (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.Prompts = append(g.Prompts, p)
	if g.Err != nil {
		return "", g.Err
	}
	if len(g.Replies) == 0 {
		return "", ai.ErrEmptyResponse
	}
	reply := g.Replies[0]
	if len(g.Replies) > 1 {
		g.Replies = g.Replies[1:]
	}
	return reply, nil
}

func (g *StubGenerator) Calls() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.Prompts)
}

// MemoryStorage keeps objects in a map.
type MemoryStorage struct {
	mu      sync.Mutex
	Objects map[string][]byte
}

func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{Objects: make(map[string][]byte)}
}

func (m *MemoryStorage) Save(_ context.Context, key string, body io.Reader, _ string) error {
	data, err := io.ReadAll(body)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Objects[key] = data
	return nil
}

func (m *MemoryStorage) Read(_ context.Context, key string, maxBytes int64) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	data, ok := m.Objects[key]
	if !ok {
		return nil, fmt.Errorf("object %s not found", key)
	}
	return io.ReadAll(io.LimitReader(bytes.NewReader(data), maxBytes))
}

func (m *MemoryStorage) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.Objects, key)
	return nil
}

func (m *MemoryStorage) PresignedURL(_ context.Context, key string) (string, error) {
	return "https://storage.test/" + strings.TrimPrefix(key, "/"), nil
}

var _ storage.Storage = (*MemoryStorage)(nil)
