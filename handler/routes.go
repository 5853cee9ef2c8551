package handler

import (
	"studyflow/middleware"
	"studyflow/utils"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Routes groups the handlers mounted on the API.
type Routes struct {
	Auth       *AuthHandler
	Profile    *ProfileHandler
	Chat       *ChatHandler
	Flashcards *FlashcardHandler
	Habits     *HabitHandler
	Tasks      *TaskHandler
	Pomodoro   *PomodoroHandler
	Health     *HealthHandler

	Authenticator middleware.Authenticator
	// AILimiter throttles endpoints that call the language model. Nil
	// disables it.
	AILimiter middleware.Limiter
}

func (r Routes) Register(router *gin.Engine) {
	if r.Health != nil {
		router.GET("/health", r.Health.Health)
	}
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := router.Group("/api")
	api.Use(middleware.CacheControlMiddleware("no-store"))

	auth := api.Group("/auth")
	{
		auth.POST("/register", r.Auth.Register)
		auth.POST("/login", r.Auth.Login)
		auth.POST("/refresh", r.Auth.Refresh)
	}

	protected := api.Group("")
	protected.Use(middleware.AuthMiddleware(r.Authenticator))

	ai := func(scope string) gin.HandlerFunc {
		if r.AILimiter == nil {
			return func(c *gin.Context) { c.Next() }
		}
		return middleware.RateLimit(r.AILimiter, scope)
	}

	user := protected.Group("/user")
	{
		user.GET("/me", r.Auth.Me)
		user.POST("/logout", r.Auth.Logout)
		user.DELETE("", r.Auth.DeleteAccount)
		user.GET("/sessions", r.Auth.ListSessions)
		user.POST("/sessions/logout-all", r.Auth.RevokeAllSessions)
		user.POST("/2fa/setup", r.Auth.Setup2FA)
		user.POST("/2fa/enable", r.Auth.Enable2FA)
		user.POST("/2fa/disable", r.Auth.Disable2FA)
	}

	profile := protected.Group("/profile")
	{
		profile.GET("", r.Profile.GetProfile)
		profile.PATCH("", r.Profile.UpdateProfile)
	}
	protected.GET("/stats", r.Profile.GetStats)

	chats := protected.Group("/chats")
	{
		chats.GET("", r.Chat.ListSessions)
		chats.POST("", r.Chat.CreateSession)
		chats.GET("/:id", r.Chat.GetSession)
		chats.PATCH("/:id", r.Chat.RenameSession)
		chats.DELETE("/:id", r.Chat.DeleteSession)
		chats.GET("/:id/messages", r.Chat.ListMessages)
		chats.POST("/:id/messages", ai("chat"), r.Chat.SendMessage)
	}

	decks := protected.Group("/decks")
	{
		decks.GET("", r.Flashcards.ListDecks)
		decks.POST("", r.Flashcards.CreateDeck)
		decks.POST("/import", r.Flashcards.ImportDeck)
		decks.GET("/:id", r.Flashcards.GetDeck)
		decks.PATCH("/:id", r.Flashcards.UpdateDeck)
		decks.DELETE("/:id", r.Flashcards.DeleteDeck)
		decks.POST("/:id/cards", r.Flashcards.AddCard)
		decks.PUT("/:id/cards/:cardId", r.Flashcards.UpdateCard)
		decks.DELETE("/:id/cards/:cardId", r.Flashcards.DeleteCard)
		decks.PUT("/:id/cards/:cardId/learned", r.Flashcards.SetLearned)
		decks.POST("/:id/reset", r.Flashcards.ResetProgress)
		decks.POST("/:id/generate", ai("flashcards"), r.Flashcards.GenerateCards)
		decks.POST("/:id/share", r.Flashcards.ShareDeck)
		decks.POST("/:id/material", r.Flashcards.UploadMaterial)
		decks.POST("/:id/material/generate", ai("flashcards"), r.Flashcards.GenerateFromMaterial)
	}

	habits := protected.Group("/habits")
	{
		habits.GET("", r.Habits.ListHabits)
		habits.POST("", r.Habits.CreateHabit)
		habits.GET("/:id", r.Habits.GetHabit)
		habits.PATCH("/:id", r.Habits.UpdateHabit)
		habits.DELETE("/:id", r.Habits.DeleteHabit)
		habits.POST("/:id/toggle", r.Habits.ToggleToday)
	}

	tasks := protected.Group("/tasks")
	{
		tasks.GET("", r.Tasks.ListTasks)
		tasks.POST("", r.Tasks.CreateTask)
		tasks.POST("/from-habit", r.Tasks.CreateFromHabit)
		tasks.PATCH("/:id", r.Tasks.UpdateTask)
		tasks.POST("/:id/toggle", r.Tasks.ToggleTask)
		tasks.DELETE("/:id", r.Tasks.DeleteTask)
	}

	timer := protected.Group("/pomodoro")
	{
		timer.GET("", r.Pomodoro.GetState())
		timer.POST("/start", r.Pomodoro.Start())
		timer.POST("/pause", r.Pomodoro.Pause())
		timer.POST("/reset", r.Pomodoro.Reset())
		timer.POST("/skip", r.Pomodoro.Skip())
		timer.POST("/complete", r.Pomodoro.Complete())
		timer.POST("/mode", r.Pomodoro.SwitchMode)
		timer.PUT("/task", r.Pomodoro.SelectTask)
		timer.PUT("/durations", r.Pomodoro.UpdateDurations)
	}

	router.NoRoute(func(c *gin.Context) {
		utils.NotFound(c, "Route not found")
	})
}
