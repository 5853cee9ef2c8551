package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"studyflow/config"
	"studyflow/handler"
	"studyflow/middleware"
	"studyflow/repository"
	"studyflow/services"
	"studyflow/services/ai"
	"studyflow/services/events"
	"studyflow/services/storage"
	"studyflow/usecase"
	"studyflow/utils"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

const maxRequestBytes = 1 << 20

type app struct {
	router  *gin.Engine
	closers []io.Closer
}

func (a *app) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i].Close(); err != nil {
			slog.Warn("closing resource", "error", err)
		}
	}
}

type closeFunc func() error

func (f closeFunc) Close() error { return f() }

// newApp connects the infrastructure and assembles the router. Redis, the
// broker, object storage and Gemini are optional and degrade to in-process
// fallbacks when unset.
func newApp(ctx context.Context, cfg *config.Config) (*app, error) {
	a := &app{}

	mongoClient, err := cfg.Database.Connect(ctx)
	if err != nil {
		return nil, err
	}
	a.closers = append(a.closers, closeFunc(func() error {
		return mongoClient.Disconnect(context.Background())
	}))
	db := mongoClient.Database(cfg.Database.DatabaseName)
	if err := repository.SetupIndexes(ctx, db); err != nil {
		a.Close()
		return nil, fmt.Errorf("creating indexes: %w", err)
	}

	var redisClient *redis.Client
	if cfg.RedisURL != "" {
		redisClient, err = services.NewRedisClient(ctx, cfg.RedisURL)
		if err != nil {
			a.Close()
			return nil, err
		}
		a.closers = append(a.closers, redisClient)
	} else {
		slog.Warn("REDIS_URL not set, using in-process locks and rate limits")
	}

	var publisher events.Publisher = events.Noop{}
	if cfg.AMQPURL != "" {
		broker, err := events.DialAMQP(cfg.AMQPURL, cfg.AMQPExchange)
		if err != nil {
			a.Close()
			return nil, err
		}
		a.closers = append(a.closers, broker)
		publisher = broker
	}

	var files storage.Storage
	if cfg.S3Enabled() {
		s3, err := storage.NewS3Storage(ctx, storage.S3Config{
			Region:        cfg.S3Region,
			Bucket:        cfg.S3Bucket,
			AccessKey:     cfg.S3AccessKey,
			SecretKey:     cfg.S3SecretKey,
			Endpoint:      cfg.S3Endpoint,
			PresignExpiry: cfg.S3PresignExpiry,
		})
		if err != nil {
			a.Close()
			return nil, err
		}
		files = s3
	}

	var generator ai.Generator = ai.LocalResponder{}
	gemini, err := ai.NewGemini(ctx, cfg.GeminiAPIKey, cfg.GeminiModel, cfg.AITimeout)
	switch {
	case err == nil:
		generator = gemini
	case errors.Is(err, ai.ErrNotConfigured):
		slog.Warn("GEMINI_API_KEY not set, using local responder")
	default:
		a.Close()
		return nil, err
	}

	tokens := services.NewTokenService(cfg.JWTSecret, cfg.JWTIssuer, cfg.AccessTokenExpiry, cfg.RefreshTokenExpiry)
	blacklist := services.NewTokenBlacklist(redisClient)
	sessionCache := services.NewSessionCache(redisClient)
	locker := services.NewLocker(redisClient)
	aiLimiter := services.NewRateLimiter(redisClient, cfg.AIRateLimit, time.Minute)

	userRepo := repository.GetUserRepo(db)
	sessionRepo := repository.GetSessionRepo(db)
	profileRepo := repository.GetProfileRepo(db)
	chatRepo := repository.GetChatRepo(db)
	deckRepo := repository.GetDeckRepo(db)
	habitRepo := repository.GetHabitRepo(db)
	taskRepo := repository.GetTaskRepo(db)
	pomodoroRepo := repository.GetPomodoroRepo(db)

	profiles := usecase.NewProfileService(profileRepo, publisher, locker)
	chats := usecase.NewChatService(chatRepo, generator, locker, profiles)
	cards := usecase.NewFlashcardService(deckRepo, generator, files, profiles, publisher)
	habits := usecase.NewHabitService(habitRepo, taskRepo, profiles, publisher)
	tasks := usecase.NewTaskService(taskRepo, habitRepo)
	timer := usecase.NewPomodoroService(pomodoroRepo, taskRepo, habits, profiles, publisher, locker)
	users := usecase.NewUserService(userRepo, sessionRepo, profileRepo, tokens, blacklist, sessionCache,
		chatRepo, cards, habitRepo, taskRepo, pomodoroRepo)
	stats := usecase.NewStatsService(profiles, chatRepo, deckRepo, habits, taskRepo, timer)

	checks := map[string]handler.Pinger{"mongodb": mongoPinger(mongoClient)}
	if redisClient != nil {
		checks["redis"] = handler.PingFunc(func(ctx context.Context) error {
			return redisClient.Ping(ctx).Err()
		})
	}

	utils.InitValidator()
	a.router = setupRouter(cfg, handler.Routes{
		Auth:          handler.NewAuthHandler(users),
		Profile:       handler.NewProfileHandler(profiles, stats),
		Chat:          handler.NewChatHandler(chats),
		Flashcards:    handler.NewFlashcardHandler(cards, cfg.MaxUploadBytes),
		Habits:        handler.NewHabitHandler(habits),
		Tasks:         handler.NewTaskHandler(tasks),
		Pomodoro:      handler.NewPomodoroHandler(timer),
		Health:        handler.NewHealthHandler(version, checks),
		Authenticator: users,
		AILimiter:     aiLimiter,
	})
	return a, nil
}

func mongoPinger(client *mongo.Client) handler.Pinger {
	return handler.PingFunc(func(ctx context.Context) error {
		return client.Ping(ctx, readpref.Primary())
	})
}

func setupRouter(cfg *config.Config, routes handler.Routes) *gin.Engine {
	if !cfg.IsDev() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(
		middleware.RequestTracingMiddleware(),
		middleware.RecoveryMiddleware(),
		middleware.MetricsMiddleware(),
		middleware.CORSMiddleware(cfg.CORSOrigins),
		middleware.SecurityHeaders(),
		middleware.RequestSizeLimiter(maxRequestBytes),
	)

	routes.Register(router)
	return router
}
