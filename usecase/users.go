package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"studyflow/model"
	"studyflow/repository"
	"studyflow/services"
	"studyflow/utils"

	"github.com/google/uuid"
	"github.com/pquerna/otp/totp"
)

const totpIssuer = "StudyFlow"

type ClientInfo struct {
	UserAgent string
	IPAddress string
}

type AuthResult struct {
	User        *model.User
	Tokens      *services.TokenPair
	Requires2FA bool
}

type TwoFactorSetup struct {
	Secret string `json:"secret"`
	URL    string `json:"url"`
}

type UserService struct {
	users     UserStore
	sessions  AuthSessionStore
	profiles  ProfileStore
	tokens    *services.TokenService
	blacklist *services.TokenBlacklist
	cache     *services.SessionCache
	erasers   []UserDataEraser
	now       func() time.Time
}

func NewUserService(
	users UserStore,
	sessions AuthSessionStore,
	profiles ProfileStore,
	tokens *services.TokenService,
	blacklist *services.TokenBlacklist,
	cache *services.SessionCache,
	erasers ...UserDataEraser,
) *UserService {
	return &UserService{
		users:     users,
		sessions:  sessions,
		profiles:  profiles,
		tokens:    tokens,
		blacklist: blacklist,
		cache:     cache,
		erasers:   erasers,
		now:       time.Now,
	}
}

type RegisterInput struct {
	Username string
	Email    string
	Password string
	Name     string
}

func (svc *UserService) Register(ctx context.Context, in RegisterInput, client ClientInfo) (*AuthResult, error) {
	username := strings.TrimSpace(in.Username)
	if _, err := svc.users.FindUserByUsername(ctx, username); err == nil {
		utils.TrackAuthAttempt("failure", "register")
		return nil, ErrUsernameTaken
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	hashed, err := services.HashPassword(in.Password)
	if err != nil {
		return nil, err
	}

	now := svc.now().UTC()
	user := &model.User{
		UserID:    uuid.NewString(),
		Username:  username,
		Email:     strings.ToLower(strings.TrimSpace(in.Email)),
		Password:  hashed,
		CreatedAt: now,
	}
	if err := svc.users.AddUser(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrUsernameTaken
		}
		return nil, fmt.Errorf("creating user: %w", err)
	}

	name := strings.TrimSpace(in.Name)
	if name == "" {
		name = username
	}
	if err := svc.profiles.SaveProfile(ctx, model.NewProfile(user.UserID, name, user.Email, now)); err != nil {
		return nil, fmt.Errorf("creating profile: %w", err)
	}

	tokens, err := svc.startSession(ctx, user.UserID, client)
	if err != nil {
		return nil, err
	}
	utils.TrackAuthAttempt("success", "register")
	return &AuthResult{User: user, Tokens: tokens}, nil
}

func (svc *UserService) Login(ctx context.Context, req model.LoginRequest, client ClientInfo) (*AuthResult, error) {
	user, err := svc.users.FindUserByUsername(ctx, strings.TrimSpace(req.Username))
	if errors.Is(err, repository.ErrNotFound) {
		utils.TrackAuthAttempt("failure", "login")
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}
	if !services.ComparePasswords(user.Password, req.Password) {
		utils.TrackAuthAttempt("failure", "login")
		return nil, ErrInvalidCredentials
	}

	if user.TwoFactorEnabled {
		if req.TwoFactorCode == "" {
			return &AuthResult{User: user, Requires2FA: true}, nil
		}
		if !totp.Validate(req.TwoFactorCode, user.TwoFactorSecret) {
			utils.TrackAuthAttempt("failure", "2fa")
			return nil, ErrInvalid2FACode
		}
	}

	tokens, err := svc.startSession(ctx, user.UserID, client)
	if err != nil {
		return nil, err
	}
	utils.TrackAuthAttempt("success", "login")
	return &AuthResult{User: user, Tokens: tokens}, nil
}

func (svc *UserService) startSession(ctx context.Context, userID string, client ClientInfo) (*services.TokenPair, error) {
	now := svc.now().UTC()
	session := &model.AuthSession{
		SessionID:  uuid.NewString(),
		UserID:     userID,
		DeviceInfo: utils.DeviceInfo(client.UserAgent),
		IPAddress:  client.IPAddress,
		CreatedAt:  now,
		LastSeenAt: now,
		IsActive:   true,
	}
	if err := svc.sessions.CreateSession(ctx, session); err != nil {
		return nil, fmt.Errorf("creating session: %w", err)
	}
	if err := svc.cache.Set(ctx, session); err != nil {
		slog.Warn("failed to cache session", "error", err)
	}
	return svc.tokens.IssuePair(userID, session.SessionID)
}

// Authenticate validates an access token and its session.
func (svc *UserService) Authenticate(ctx context.Context, accessToken string) (*services.Claims, error) {
	claims, err := svc.tokens.Parse(accessToken, services.AccessToken)
	if err != nil {
		return nil, err
	}
	if svc.blacklist.IsRevoked(ctx, claims.ID) {
		return nil, services.ErrInvalidToken
	}
	if err := svc.checkSession(ctx, claims); err != nil {
		return nil, err
	}
	return claims, nil
}

func (svc *UserService) checkSession(ctx context.Context, claims *services.Claims) error {
	session, err := svc.cache.Get(ctx, claims.SessionID)
	if err != nil {
		slog.Warn("session cache lookup failed", "error", err)
	}
	if session == nil {
		session, err = svc.sessions.GetSession(ctx, claims.SessionID)
		if errors.Is(err, repository.ErrNotFound) {
			return ErrSessionRevoked
		}
		if err != nil {
			return err
		}
		if session.IsActive {
			_ = svc.cache.Set(ctx, session)
		}
	}
	if !session.IsActive || session.UserID != claims.UserID {
		return ErrSessionRevoked
	}
	return nil
}

// Refresh rotates a refresh token: the old one is revoked and a new pair is
// issued for the same session.
func (svc *UserService) Refresh(ctx context.Context, refreshToken string) (*services.TokenPair, error) {
	claims, err := svc.tokens.Parse(refreshToken, services.RefreshToken)
	if err != nil {
		utils.TrackAuthAttempt("failure", "refresh")
		return nil, err
	}
	if svc.blacklist.IsRevoked(ctx, claims.ID) {
		utils.TrackAuthAttempt("failure", "refresh")
		return nil, services.ErrInvalidToken
	}
	if err := svc.checkSession(ctx, claims); err != nil {
		return nil, err
	}

	if err := svc.blacklist.Revoke(ctx, claims); err != nil {
		return nil, fmt.Errorf("revoking refresh token: %w", err)
	}
	if err := svc.sessions.TouchSession(ctx, claims.SessionID, svc.now().UTC()); err != nil {
		slog.Warn("failed to touch session", "session_id", claims.SessionID, "error", err)
	}
	utils.TrackAuthAttempt("success", "refresh")
	return svc.tokens.IssuePair(claims.UserID, claims.SessionID)
}

// Logout revokes the access token, the refresh token when it belongs to the
// same session, and ends the session.
func (svc *UserService) Logout(ctx context.Context, access *services.Claims, refreshToken string) error {
	if err := svc.blacklist.Revoke(ctx, access); err != nil {
		return fmt.Errorf("revoking access token: %w", err)
	}
	if refreshToken != "" {
		refresh, err := svc.tokens.Parse(refreshToken, services.RefreshToken)
		if err == nil && refresh.SessionID == access.SessionID {
			if err := svc.blacklist.Revoke(ctx, refresh); err != nil {
				return fmt.Errorf("revoking refresh token: %w", err)
			}
		}
	}
	if err := svc.sessions.DeactivateSession(ctx, access.SessionID); err != nil {
		return err
	}
	return svc.cache.Delete(ctx, access.SessionID)
}

func (svc *UserService) ListSessions(ctx context.Context, userID string) ([]*model.AuthSession, error) {
	return svc.sessions.GetActiveSessions(ctx, userID)
}

// RevokeAllSessions signs the user out everywhere, including the caller.
func (svc *UserService) RevokeAllSessions(ctx context.Context, access *services.Claims) (int, error) {
	ids, err := svc.sessions.DeactivateAllSessions(ctx, access.UserID)
	if err != nil {
		return 0, err
	}
	if err := svc.cache.Delete(ctx, ids...); err != nil {
		slog.Warn("failed to evict sessions from cache", "error", err)
	}
	if err := svc.blacklist.Revoke(ctx, access); err != nil {
		return 0, err
	}
	return len(ids), nil
}

func (svc *UserService) GetUser(ctx context.Context, userID string) (*model.User, error) {
	user, err := svc.users.FindUser(ctx, userID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrUserNotFound
	}
	return user, err
}

// DeleteAccount removes the user and everything they own after re-checking
// the password.
func (svc *UserService) DeleteAccount(ctx context.Context, access *services.Claims, password string) error {
	user, err := svc.GetUser(ctx, access.UserID)
	if err != nil {
		return err
	}
	if !services.ComparePasswords(user.Password, password) {
		return ErrInvalidCredentials
	}
	if _, err := svc.RevokeAllSessions(ctx, access); err != nil {
		return err
	}
	for _, eraser := range svc.erasers {
		if err := eraser.DeleteByUser(ctx, user.UserID); err != nil {
			return fmt.Errorf("deleting user data: %w", err)
		}
	}
	if err := svc.profiles.DeleteProfile(ctx, user.UserID); err != nil {
		return err
	}
	return svc.users.DeleteUser(ctx, user.UserID)
}

// Setup2FA creates a new TOTP secret. It takes effect once confirmed with
// Enable2FA.
func (svc *UserService) Setup2FA(ctx context.Context, userID string) (*TwoFactorSetup, error) {
	user, err := svc.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user.TwoFactorEnabled {
		return nil, Err2FAAlreadyEnabled
	}

	key, err := totp.Generate(totp.GenerateOpts{
		Issuer:      totpIssuer,
		AccountName: user.Username,
	})
	if err != nil {
		return nil, fmt.Errorf("generating totp secret: %w", err)
	}
	if err := svc.users.UpdateTwoFactor(ctx, userID, key.Secret(), false); err != nil {
		return nil, err
	}
	return &TwoFactorSetup{Secret: key.Secret(), URL: key.URL()}, nil
}

func (svc *UserService) Enable2FA(ctx context.Context, userID, code string) error {
	user, err := svc.GetUser(ctx, userID)
	if err != nil {
		return err
	}
	if user.TwoFactorEnabled {
		return Err2FAAlreadyEnabled
	}
	if user.TwoFactorSecret == "" {
		return Err2FANotSetup
	}
	if !totp.Validate(code, user.TwoFactorSecret) {
		return ErrInvalid2FACode
	}
	return svc.users.UpdateTwoFactor(ctx, userID, user.TwoFactorSecret, true)
}

func (svc *UserService) Disable2FA(ctx context.Context, userID, code string) error {
	user, err := svc.GetUser(ctx, userID)
	if err != nil {
		return err
	}
	if !user.TwoFactorEnabled {
		return Err2FANotSetup
	}
	if !totp.Validate(code, user.TwoFactorSecret) {
		return ErrInvalid2FACode
	}
	return svc.users.UpdateTwoFactor(ctx, userID, "", false)
}
