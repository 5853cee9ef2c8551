package handler

import (
	"bytes"
	"encoding/base64"
	"image/png"
	"log/slog"

	"studyflow/dto"
	"studyflow/middleware"
	"studyflow/utils"

	"github.com/gin-gonic/gin"
	"github.com/pquerna/otp"
)

type Setup2FAResponse struct {
	Secret string `json:"secret"`
	URL    string `json:"url"`
	QRCode string `json:"qr_code,omitempty"`
}

func (h *AuthHandler) Setup2FA(c *gin.Context) {
	setup, err := h.users.Setup2FA(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		respondError(c, err)
		return
	}

	resp := Setup2FAResponse{Secret: setup.Secret, URL: setup.URL}
	if qr, err := qrCodeDataURL(setup.URL); err == nil {
		resp.QRCode = qr
	} else {
		slog.Warn("failed to render 2fa qr code", "error", err)
	}
	utils.Success(c, resp)
}

func (h *AuthHandler) Enable2FA(c *gin.Context) {
	var req dto.TwoFactorCodeRequest
	if !bindJSON(c, &req) {
		return
	}
	if err := h.users.Enable2FA(c.Request.Context(), middleware.UserID(c), req.Code); err != nil {
		respondError(c, err)
		return
	}
	utils.TrackAuthAttempt("success", "2fa_enable")
	utils.Message(c, "Two-factor authentication enabled")
}

func (h *AuthHandler) Disable2FA(c *gin.Context) {
	var req dto.TwoFactorCodeRequest
	if !bindJSON(c, &req) {
		return
	}
	if err := h.users.Disable2FA(c.Request.Context(), middleware.UserID(c), req.Code); err != nil {
		respondError(c, err)
		return
	}
	utils.Message(c, "Two-factor authentication disabled")
}

// qrCodeDataURL renders the otpauth URL as a PNG data URL.
func qrCodeDataURL(url string) (string, error) {
	key, err := otp.NewKeyFromURL(url)
	if err != nil {
		return "", err
	}
	img, err := key.Image(200, 200)
	if err != nil {
		return "", err
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return "", err
	}
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}
