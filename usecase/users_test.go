package usecase

import (
	"context"
	"strings"
	"testing"
	"time"

	"studyflow/model"
	"studyflow/repository"
	"studyflow/services"
	"studyflow/testutils/memstore"

	"github.com/pquerna/otp/totp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestUserService(t *testing.T) (*UserService, *memstore.AuthSessions, *memstore.Profiles) {
	t.Helper()
	sessions := memstore.NewAuthSessions()
	profiles := memstore.NewProfiles()
	tokens := services.NewTokenService("test-secret", "studyflow-test", time.Hour, 24*time.Hour)
	svc := NewUserService(memstore.NewUsers(), sessions, profiles, tokens,
		services.NewTokenBlacklist(nil), services.NewSessionCache(nil))
	return svc, sessions, profiles
}

var testClient = ClientInfo{
	UserAgent: "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/17.0 Safari/605.1.15",
	IPAddress: "203.0.113.7",
}

func register(t *testing.T, svc *UserService) *AuthResult {
	t.Helper()
	res, err := svc.Register(context.Background(), RegisterInput{
		Username: "learner",
		Email:    "Learner@Example.com",
		Password: "Secret123!",
	}, testClient)
	require.NoError(t, err)
	return res
}

func TestRegisterCreatesProfileAndSession(t *testing.T) {
	svc, sessions, profiles := newTestUserService(t)
	ctx := context.Background()

	res := register(t, svc)
	assert.Equal(t, "learner@example.com", res.User.Email)
	assert.NotEqual(t, "Secret123!", res.User.Password)
	require.NotNil(t, res.Tokens)

	p, err := profiles.GetProfile(ctx, res.User.UserID)
	require.NoError(t, err)
	assert.Equal(t, "learner", p.Name, "name defaults to the username")
	assert.Equal(t, 1, p.Level)

	active, err := sessions.GetActiveSessions(ctx, res.User.UserID)
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, "203.0.113.7", active[0].IPAddress)

	_, err = svc.Register(ctx, RegisterInput{Username: "learner", Email: "x@example.com", Password: "Other123!"}, testClient)
	assert.ErrorIs(t, err, ErrUsernameTaken)
}

func TestLoginAndAuthenticate(t *testing.T) {
	svc, _, _ := newTestUserService(t)
	ctx := context.Background()
	register(t, svc)

	_, err := svc.Login(ctx, model.LoginRequest{Username: "learner", Password: "wrong"}, testClient)
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, err = svc.Login(ctx, model.LoginRequest{Username: "nobody", Password: "Secret123!"}, testClient)
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	res, err := svc.Login(ctx, model.LoginRequest{Username: "learner", Password: "Secret123!"}, testClient)
	require.NoError(t, err)

	claims, err := svc.Authenticate(ctx, res.Tokens.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, res.User.UserID, claims.UserID)

	_, err = svc.Authenticate(ctx, res.Tokens.RefreshToken)
	assert.ErrorIs(t, err, services.ErrWrongTokenType)
}

func TestRefreshRotatesTokens(t *testing.T) {
	svc, _, _ := newTestUserService(t)
	ctx := context.Background()
	res := register(t, svc)

	pair, err := svc.Refresh(ctx, res.Tokens.RefreshToken)
	require.NoError(t, err)
	assert.NotEqual(t, res.Tokens.RefreshToken, pair.RefreshToken)

	_, err = svc.Refresh(ctx, res.Tokens.RefreshToken)
	assert.ErrorIs(t, err, services.ErrInvalidToken, "a refresh token is single use")

	_, err = svc.Refresh(ctx, pair.RefreshToken)
	assert.NoError(t, err)
}

func TestLogoutRevokesSession(t *testing.T) {
	svc, sessions, _ := newTestUserService(t)
	ctx := context.Background()
	res := register(t, svc)

	claims, err := svc.Authenticate(ctx, res.Tokens.AccessToken)
	require.NoError(t, err)
	require.NoError(t, svc.Logout(ctx, claims, res.Tokens.RefreshToken))

	_, err = svc.Authenticate(ctx, res.Tokens.AccessToken)
	assert.Error(t, err)
	_, err = svc.Refresh(ctx, res.Tokens.RefreshToken)
	assert.Error(t, err)

	active, err := sessions.GetActiveSessions(ctx, res.User.UserID)
	require.NoError(t, err)
	assert.Empty(t, active)
}

func TestRevokeAllSessions(t *testing.T) {
	svc, _, _ := newTestUserService(t)
	ctx := context.Background()
	first := register(t, svc)
	second, err := svc.Login(ctx, model.LoginRequest{Username: "learner", Password: "Secret123!"}, testClient)
	require.NoError(t, err)

	claims, err := svc.Authenticate(ctx, first.Tokens.AccessToken)
	require.NoError(t, err)
	n, err := svc.RevokeAllSessions(ctx, claims)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	_, err = svc.Authenticate(ctx, second.Tokens.AccessToken)
	assert.ErrorIs(t, err, ErrSessionRevoked)
}

func TestTwoFactorLogin(t *testing.T) {
	svc, _, _ := newTestUserService(t)
	ctx := context.Background()
	res := register(t, svc)
	userID := res.User.UserID

	assert.ErrorIs(t, svc.Enable2FA(ctx, userID, "123456"), Err2FANotSetup)

	setup, err := svc.Setup2FA(ctx, userID)
	require.NoError(t, err)
	assert.Contains(t, setup.URL, "otpauth://")

	assert.ErrorIs(t, svc.Enable2FA(ctx, userID, "000000"), ErrInvalid2FACode)
	code, err := totp.GenerateCode(setup.Secret, time.Now())
	require.NoError(t, err)
	require.NoError(t, svc.Enable2FA(ctx, userID, code))

	pending, err := svc.Login(ctx, model.LoginRequest{Username: "learner", Password: "Secret123!"}, testClient)
	require.NoError(t, err)
	assert.True(t, pending.Requires2FA)
	assert.Nil(t, pending.Tokens)

	_, err = svc.Login(ctx, model.LoginRequest{Username: "learner", Password: "Secret123!", TwoFactorCode: "000000"}, testClient)
	assert.ErrorIs(t, err, ErrInvalid2FACode)

	ok, err := svc.Login(ctx, model.LoginRequest{Username: "learner", Password: "Secret123!", TwoFactorCode: code}, testClient)
	require.NoError(t, err)
	assert.NotNil(t, ok.Tokens)

	_, err = svc.Setup2FA(ctx, userID)
	assert.ErrorIs(t, err, Err2FAAlreadyEnabled)
	require.NoError(t, svc.Disable2FA(ctx, userID, code))
}

func TestDeleteAccount(t *testing.T) {
	svc, _, profiles := newTestUserService(t)
	ctx := context.Background()
	res := register(t, svc)
	claims, err := svc.Authenticate(ctx, res.Tokens.AccessToken)
	require.NoError(t, err)

	assert.ErrorIs(t, svc.DeleteAccount(ctx, claims, "wrong"), ErrInvalidCredentials)
	require.NoError(t, svc.DeleteAccount(ctx, claims, "Secret123!"))

	_, err = svc.GetUser(ctx, res.User.UserID)
	assert.ErrorIs(t, err, ErrUserNotFound)
	_, err = profiles.GetProfile(ctx, res.User.UserID)
	assert.Error(t, err)
}

func TestDeleteAccountErasesUserData(t *testing.T) {
	env := newTestEnv(testNow)
	ctx := context.Background()
	tokens := services.NewTokenService("test-secret", "studyflow-test", time.Hour, 24*time.Hour)
	svc := NewUserService(env.users, env.auth, env.profiles, tokens,
		services.NewTokenBlacklist(nil), services.NewSessionCache(nil),
		env.chats, env.cardSvc, env.habits, env.tasks, env.timers)

	res := register(t, svc)
	uid := res.User.UserID

	session, err := env.chatSvc.CreateSession(ctx, uid, "")
	require.NoError(t, err)
	env.gen.Replies = []string{"Xin chào!"}
	_, err = env.chatSvc.SendMessage(ctx, uid, session.ID, "hello")
	require.NoError(t, err)

	deck, err := env.cardSvc.CreateDeck(ctx, uid, "Notes", "", nil)
	require.NoError(t, err)
	_, err = env.cardSvc.UploadMaterial(ctx, uid, deck.ID, "chapter1.md", strings.NewReader("Cells are the basic unit of life."))
	require.NoError(t, err)
	require.NotEmpty(t, env.files.Objects)

	_, err = env.habitSvc.CreateHabit(ctx, uid, "Read", "")
	require.NoError(t, err)
	kept, err := env.habitSvc.CreateHabit(ctx, "other", "Run", "")
	require.NoError(t, err)
	_, err = env.taskSvc.CreateTask(ctx, uid, TaskInput{Text: "Essay", EstimatedPomodoros: 2})
	require.NoError(t, err)

	_, err = env.pomodoroSvc.Start(ctx, uid)
	require.NoError(t, err)
	env.clock.Advance(25 * time.Minute)
	_, err = env.pomodoroSvc.GetState(ctx, uid)
	require.NoError(t, err)
	require.NotEmpty(t, env.timers.Sessions())

	claims, err := svc.Authenticate(ctx, res.Tokens.AccessToken)
	require.NoError(t, err)
	require.NoError(t, svc.DeleteAccount(ctx, claims, "Secret123!"))

	chats, err := env.chats.ListSessions(ctx, uid)
	require.NoError(t, err)
	assert.Empty(t, chats)
	assert.Empty(t, env.chats.Messages())

	decks, err := env.decks.ListDecks(ctx, uid)
	require.NoError(t, err)
	assert.Empty(t, decks)
	assert.Empty(t, env.files.Objects)

	habits, err := env.habits.ListHabits(ctx, uid)
	require.NoError(t, err)
	assert.Empty(t, habits)
	tasks, err := env.tasks.ListTasks(ctx, uid)
	require.NoError(t, err)
	assert.Empty(t, tasks)

	_, err = env.timers.GetState(ctx, uid)
	assert.ErrorIs(t, err, repository.ErrNotFound)
	assert.Empty(t, env.timers.Sessions())

	_, err = env.habits.GetHabit(ctx, "other", kept.ID)
	assert.NoError(t, err, "other users keep their data")
}
