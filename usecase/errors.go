package usecase

import "errors"

var (
	ErrUsernameTaken      = errors.New("username already taken")
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrInvalid2FACode     = errors.New("invalid two-factor code")
	Err2FANotSetup        = errors.New("two-factor authentication not set up")
	Err2FAAlreadyEnabled  = errors.New("two-factor authentication already enabled")
	ErrSessionRevoked     = errors.New("session is no longer active")
	ErrUserNotFound       = errors.New("user not found")

	ErrInvalidTimezone  = errors.New("invalid timezone")
	ErrInvalidDailyGoal = errors.New("daily goal must be between 1 and 50")

	ErrChatNotFound = errors.New("chat session not found")
	ErrEmptyMessage = errors.New("message content is empty")
	ErrChatBusy     = errors.New("a reply is already being generated for this chat")

	ErrDeckNotFound      = errors.New("deck not found")
	ErrCardNotFound      = errors.New("card not found")
	ErrDuplicateCard     = errors.New("a card with this front already exists")
	ErrInvalidCard       = errors.New("card front and back are required")
	ErrEmptyTitle        = errors.New("title is required")
	ErrEmptyTopic        = errors.New("topic is required")
	ErrShareCodeNotFound = errors.New("shared deck not found")
	ErrNoMaterial        = errors.New("deck has no uploaded material")
	ErrStorageDisabled   = errors.New("file storage is not configured")
	ErrUnsupportedFile   = errors.New("only plain text and markdown files are supported")
	ErrAIUnavailable     = errors.New("ai service unavailable")
	ErrGenerationFailed  = errors.New("could not read flashcards from ai response")
	ErrNoNewCards        = errors.New("all generated cards already exist in the deck")

	ErrHabitNotFound = errors.New("habit not found")

	ErrTaskNotFound      = errors.New("task not found")
	ErrInvalidPriority   = errors.New("priority must be low, medium or high")
	ErrInvalidEstimate   = errors.New("estimated pomodoros must be between 1 and 20")
	ErrTaskAlreadyClosed = errors.New("task is already completed")
)
