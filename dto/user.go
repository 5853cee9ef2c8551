package dto

import (
	"time"

	"studyflow/model"
	"studyflow/services"
)

type RegisterRequest struct {
	Username string `json:"username" binding:"required,min=4,max=20"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,password"`
	Name     string `json:"name" binding:"max=80"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

type LogoutRequest struct {
	RefreshToken string `json:"refresh_token"`
}

type TwoFactorCodeRequest struct {
	Code string `json:"code" binding:"required,len=6,numeric"`
}

type DeleteAccountRequest struct {
	Password string `json:"password" binding:"required"`
}

type UserResponse struct {
	UserID           string    `json:"user_id"`
	Username         string    `json:"username"`
	Email            string    `json:"email"`
	TwoFactorEnabled bool      `json:"two_factor_enabled"`
	CreatedAt        time.Time `json:"created_at"`
}

func ToUserResponse(user *model.User) UserResponse {
	return UserResponse{
		UserID:           user.UserID,
		Username:         user.Username,
		Email:            user.Email,
		TwoFactorEnabled: user.TwoFactorEnabled,
		CreatedAt:        user.CreatedAt,
	}
}

type AuthResponse struct {
	User         UserResponse `json:"user"`
	AccessToken  string       `json:"access_token,omitempty"`
	RefreshToken string       `json:"refresh_token,omitempty"`
	ExpiresAt    *time.Time   `json:"expires_at,omitempty"`
	Requires2FA  bool         `json:"requires_2fa,omitempty"`
}

func ToAuthResponse(user *model.User, tokens *services.TokenPair, requires2FA bool) AuthResponse {
	resp := AuthResponse{User: ToUserResponse(user), Requires2FA: requires2FA}
	if tokens != nil {
		resp.AccessToken = tokens.AccessToken
		resp.RefreshToken = tokens.RefreshToken
		expires := tokens.ExpiresAt
		resp.ExpiresAt = &expires
	}
	return resp
}

type SessionResponse struct {
	SessionID  string    `json:"session_id"`
	DeviceInfo string    `json:"device_info"`
	IPAddress  string    `json:"ip_address"`
	CreatedAt  time.Time `json:"created_at"`
	LastSeenAt time.Time `json:"last_seen_at"`
	Current    bool      `json:"current"`
}

// ToSessionResponses marks the session the request came from as current.
func ToSessionResponses(sessions []*model.AuthSession, currentID string) []SessionResponse {
	out := make([]SessionResponse, len(sessions))
	for i, s := range sessions {
		out[i] = SessionResponse{
			SessionID:  s.SessionID,
			DeviceInfo: s.DeviceInfo,
			IPAddress:  s.IPAddress,
			CreatedAt:  s.CreatedAt,
			LastSeenAt: s.LastSeenAt,
			Current:    s.SessionID == currentID,
		}
	}
	return out
}

type UpdateProfileRequest struct {
	Name      *string `json:"name" binding:"omitempty,max=80"`
	DailyGoal *int    `json:"daily_goal"`
	Timezone  *string `json:"timezone"`
}
