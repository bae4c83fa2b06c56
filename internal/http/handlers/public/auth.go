package public

import (
	"errors"
	"time"

	"github.com/onlinestore/internal/constants"
	handlershared "github.com/onlinestore/internal/http/handlers/shared"
	"github.com/onlinestore/internal/http/response"
	"github.com/onlinestore/internal/i18n"
	"github.com/onlinestore/internal/models"
	"github.com/onlinestore/internal/service"

	"github.com/gin-gonic/gin"
)

// RegisterRequest 注册请求
type RegisterRequest struct {
	FullName        string `json:"full_name" binding:"required"`
	Email           string `json:"email" binding:"required"`
	Password        string `json:"password" binding:"required"`
	ConfirmPassword string `json:"confirm_password" binding:"required"`
}

// LoginRequest 登录请求
type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// RefreshTokenRequest 刷新/登出请求
type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

// UpdateProfileRequest 资料更新请求
type UpdateProfileRequest struct {
	FullName string `json:"full_name" binding:"required"`
	Email    string `json:"email" binding:"required"`
}

// ChangePasswordRequest 修改密码请求
type ChangePasswordRequest struct {
	CurrentPassword    string `json:"current_password" binding:"required"`
	NewPassword        string `json:"new_password" binding:"required"`
	ConfirmNewPassword string `json:"confirm_new_password" binding:"required"`
}

// AuthResponse 令牌响应
type AuthResponse struct {
	Token        string    `json:"token"`
	RefreshToken string    `json:"refresh_token"`
	ExpiresAt    time.Time `json:"expires_at"`
	Role         string    `json:"role"`
	UserID       uint      `json:"user_id"`
	FullName     string    `json:"full_name"`
	Email        string    `json:"email"`
}

// ProfileResponse 用户资料响应
type ProfileResponse struct {
	UserID    uint      `json:"user_id"`
	FullName  string    `json:"full_name"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func newAuthResponse(result *service.AuthResult) AuthResponse {
	return AuthResponse{
		Token:        result.AccessToken,
		RefreshToken: result.RefreshToken,
		ExpiresAt:    result.ExpiresAt,
		Role:         result.Role,
		UserID:       result.User.ID,
		FullName:     result.User.FullName,
		Email:        result.User.Email,
	}
}

func newProfileResponse(user *models.User, role string) ProfileResponse {
	return ProfileResponse{
		UserID:    user.ID,
		FullName:  user.FullName,
		Email:     user.Email,
		Role:      role,
		CreatedAt: user.CreatedAt,
		UpdatedAt: user.UpdatedAt,
	}
}

// Register 用户注册
func (h *Handler) Register(c *gin.Context) {
	var req RegisterRequest
	if !handlershared.BindJSON(c, &req) {
		return
	}

	result, err := h.AuthService.Register(c.Request.Context(), service.RegisterInput{
		FullName:        req.FullName,
		Email:           req.Email,
		Password:        req.Password,
		ConfirmPassword: req.ConfirmPassword,
	})
	if err != nil {
		respondWithMappedError(c, err, registerErrorRules)
		return
	}

	response.Created(c, newAuthResponse(result))
}

// Login 用户登录，成功与失败均写入登录日志
func (h *Handler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.recordLogin(c, 0, req.Email, constants.LoginLogFailReasonBadRequest, constants.LoginLogSourceWeb)
		handlershared.RespondAppError(c, response.BadRequestError("error.bad_request", err))
		return
	}

	result, err := h.AuthService.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		var userID uint
		if result != nil && result.User != nil {
			userID = result.User.ID
		}
		h.recordLogin(c, userID, req.Email, loginFailReason(err), constants.LoginLogSourceWeb)
		respondWithMappedError(c, err, loginErrorRules)
		return
	}

	h.recordLogin(c, result.User.ID, result.User.Email, "", constants.LoginLogSourceWeb)
	response.Success(c, newAuthResponse(result))
}

// Refresh 轮换刷新令牌
func (h *Handler) Refresh(c *gin.Context) {
	var req RefreshTokenRequest
	if !handlershared.BindJSON(c, &req) {
		return
	}

	result, err := h.AuthService.Refresh(c.Request.Context(), req.RefreshToken)
	if err != nil {
		respondWithMappedError(c, err, refreshErrorRules)
		return
	}

	h.recordLogin(c, result.User.ID, result.User.Email, "", constants.LoginLogSourceRefresh)
	response.Success(c, newAuthResponse(result))
}

// Logout 吊销刷新令牌
func (h *Handler) Logout(c *gin.Context) {
	var req RefreshTokenRequest
	if !handlershared.BindJSON(c, &req) {
		return
	}
	if err := h.AuthService.Logout(req.RefreshToken); err != nil {
		respondError(c, response.CodeInternal, "error.internal", err)
		return
	}
	msg := i18n.T(i18n.ResolveLocale(c), "message.logout_success")
	response.SuccessWithMsg(c, msg, nil)
}

// GetProfile 获取当前用户资料
func (h *Handler) GetProfile(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	user, role, err := h.AuthService.GetProfile(uid)
	if err != nil {
		respondWithMappedError(c, err, profileErrorRules)
		return
	}
	response.Success(c, newProfileResponse(user, role))
}

// UpdateProfile 更新当前用户资料
func (h *Handler) UpdateProfile(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	var req UpdateProfileRequest
	if !handlershared.BindJSON(c, &req) {
		return
	}
	user, role, err := h.AuthService.UpdateProfile(uid, service.UpdateProfileInput{
		FullName: req.FullName,
		Email:    req.Email,
	})
	if err != nil {
		respondWithMappedError(c, err, profileErrorRules)
		return
	}
	response.Success(c, newProfileResponse(user, role))
}

// ChangePassword 修改密码，成功后所有会话失效
func (h *Handler) ChangePassword(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	var req ChangePasswordRequest
	if !handlershared.BindJSON(c, &req) {
		return
	}
	err := h.AuthService.ChangePassword(c.Request.Context(), uid, service.ChangePasswordInput{
		CurrentPassword:    req.CurrentPassword,
		NewPassword:        req.NewPassword,
		ConfirmNewPassword: req.ConfirmNewPassword,
	})
	if err != nil {
		respondWithMappedError(c, err, changePasswordErrorRules)
		return
	}
	msg := i18n.T(i18n.ResolveLocale(c), "message.password_changed")
	response.SuccessWithMsg(c, msg, nil)
}

func (h *Handler) recordLogin(c *gin.Context, userID uint, email, failReason, source string) {
	status := constants.LoginLogStatusSuccess
	if failReason != "" {
		status = constants.LoginLogStatusFailed
	}
	err := h.UserLoginLogService.Record(service.RecordUserLoginInput{
		UserID:      userID,
		Email:       email,
		Status:      status,
		FailReason:  failReason,
		ClientIP:    c.ClientIP(),
		UserAgent:   c.Request.UserAgent(),
		LoginSource: source,
		RequestID:   response.RequestID(c),
	})
	if err != nil {
		requestLog(c).Warnw("user_login_log_record_failed", "user_id", userID, "error", err)
	}
}

func loginFailReason(err error) string {
	switch {
	case errors.Is(err, service.ErrInvalidEmail):
		return constants.LoginLogFailReasonInvalidEmail
	case errors.Is(err, service.ErrInvalidCredentials):
		return constants.LoginLogFailReasonInvalidCredentials
	case errors.Is(err, service.ErrUserDisabled):
		return constants.LoginLogFailReasonUserDisabled
	default:
		return constants.LoginLogFailReasonInternalError
	}
}
