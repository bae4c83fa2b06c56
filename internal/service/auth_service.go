package service

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/onlinestore/internal/cache"
	"github.com/onlinestore/internal/config"
	"github.com/onlinestore/internal/constants"
	"github.com/onlinestore/internal/models"
	"github.com/onlinestore/internal/repository"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const (
	fullNameMinLength = 2
	fullNameMaxLength = 100
	emailMaxLength    = 256
	refreshTokenBytes = 32
)

// RoleManager 用户角色授予与查询
type RoleManager interface {
	GrantUserRole(userID uint, role string) error
	PrimaryUserRole(userID uint) (string, error)
}

// AuthService 用户认证服务
type AuthService struct {
	cfg         *config.Config
	userRepo    repository.UserRepository
	refreshRepo repository.RefreshTokenRepository
	roles       RoleManager
}

// NewAuthService 创建用户认证服务
func NewAuthService(cfg *config.Config, userRepo repository.UserRepository, refreshRepo repository.RefreshTokenRepository, roles RoleManager) *AuthService {
	return &AuthService{
		cfg:         cfg,
		userRepo:    userRepo,
		refreshRepo: refreshRepo,
		roles:       roles,
	}
}

// UserJWTClaims 用户 JWT 声明
type UserJWTClaims struct {
	UserID       uint   `json:"user_id"`
	Email        string `json:"email"`
	Role         string `json:"role"`
	TokenVersion uint64 `json:"token_version"`
	jwt.RegisteredClaims
}

// AuthResult 登录、注册、刷新的结果
type AuthResult struct {
	User         *models.User
	Role         string
	AccessToken  string
	ExpiresAt    time.Time
	RefreshToken string
}

// RegisterInput 注册输入
type RegisterInput struct {
	FullName        string
	Email           string
	Password        string
	ConfirmPassword string
}

// UpdateProfileInput 资料更新输入
type UpdateProfileInput struct {
	FullName string
	Email    string
}

// ChangePasswordInput 修改密码输入
type ChangePasswordInput struct {
	CurrentPassword    string
	NewPassword        string
	ConfirmNewPassword string
}

// GenerateUserJWT 生成访问令牌
func (s *AuthService) GenerateUserJWT(user *models.User, role string) (string, time.Time, error) {
	now := time.Now()
	expiresAt := now.Add(s.cfg.JWT.AccessTokenTTL())
	claims := UserJWTClaims{
		UserID:       user.ID,
		Email:        user.Email,
		Role:         role,
		TokenVersion: user.TokenVersion,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    s.cfg.JWT.Issuer,
			Subject:   fmt.Sprintf("%d", user.ID),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString([]byte(s.cfg.JWT.SecretKey))
	if err != nil {
		return "", time.Time{}, err
	}
	return tokenString, expiresAt, nil
}

// ParseUserJWT 解析访问令牌
func (s *AuthService) ParseUserJWT(tokenString string) (*UserJWTClaims, error) {
	parser := jwt.NewParser(jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	claims := &UserJWTClaims{}
	token, err := parser.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		return []byte(s.cfg.JWT.SecretKey), nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if claims, ok := token.Claims.(*UserJWTClaims); ok && token.Valid {
		return claims, nil
	}
	return nil, ErrInvalidToken
}

// AuthenticateAccessToken 校验访问令牌并核对用户当前鉴权状态
func (s *AuthService) AuthenticateAccessToken(ctx context.Context, tokenString string) (*UserJWTClaims, error) {
	claims, err := s.ParseUserJWT(tokenString)
	if err != nil {
		return nil, err
	}
	state, err := s.loadAuthState(ctx, claims.UserID)
	if err != nil {
		return nil, err
	}
	if state == nil || state.Status != constants.UserStatusActive {
		return nil, ErrInvalidToken
	}
	if state.TokenVersion != claims.TokenVersion {
		return nil, ErrInvalidToken
	}
	if state.TokenInvalidBefore > 0 && claims.IssuedAt != nil && claims.IssuedAt.Unix() < state.TokenInvalidBefore {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

func (s *AuthService) loadAuthState(ctx context.Context, userID uint) (*cache.UserAuthState, error) {
	if state, hit, err := cache.GetUserAuthState(ctx, userID); err == nil && hit {
		return state, nil
	}
	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, nil
	}
	state := cache.BuildUserAuthState(user)
	_ = cache.SetUserAuthState(ctx, state)
	return state, nil
}

// Register 用户注册，默认授予 customer 角色
func (s *AuthService) Register(ctx context.Context, input RegisterInput) (*AuthResult, error) {
	fullName, err := normalizeFullName(input.FullName)
	if err != nil {
		return nil, err
	}
	email, err := normalizeEmail(input.Email)
	if err != nil {
		return nil, err
	}
	if err := validatePassword(s.cfg.Security.PasswordPolicy, input.Password); err != nil {
		return nil, err
	}
	if input.Password != input.ConfirmPassword {
		return nil, ErrPasswordMismatch
	}

	exist, err := s.userRepo.GetByEmail(email)
	if err != nil {
		return nil, err
	}
	if exist != nil {
		return nil, ErrEmailExists
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	user := &models.User{
		Email:        email,
		FullName:     fullName,
		PasswordHash: string(hashedPassword),
		Status:       constants.UserStatusActive,
	}
	if err := s.userRepo.Create(user); err != nil {
		if again, lookupErr := s.userRepo.GetByEmail(email); lookupErr == nil && again != nil {
			return nil, ErrEmailExists
		}
		return nil, err
	}
	if s.roles != nil {
		if err := s.roles.GrantUserRole(user.ID, constants.RoleCustomer); err != nil {
			return nil, fmt.Errorf("grant customer role: %w", err)
		}
	}
	_ = cache.SetUserAuthState(ctx, cache.BuildUserAuthState(user))

	return s.issueTokens(user, constants.RoleCustomer)
}

// Login 用户登录；未知用户、密码错误与禁用账号对外统一为凭证无效
func (s *AuthService) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	normalized, err := normalizeEmail(email)
	if err != nil {
		return nil, err
	}
	user, err := s.userRepo.GetByEmail(normalized)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	if strings.ToLower(user.Status) != constants.UserStatusActive {
		return &AuthResult{User: user}, ErrUserDisabled
	}

	role, err := s.resolveRole(user.ID)
	if err != nil {
		return nil, err
	}
	now := time.Now()
	if err := s.userRepo.UpdateLastLogin(user.ID, now); err != nil {
		return nil, err
	}
	user.LastLoginAt = &now
	_ = cache.SetUserAuthState(ctx, cache.BuildUserAuthState(user))

	return s.issueTokens(user, role)
}

// Refresh 用刷新令牌换取新的令牌对，旧令牌只能使用一次
func (s *AuthService) Refresh(ctx context.Context, rawToken string) (*AuthResult, error) {
	rawToken = strings.TrimSpace(rawToken)
	if rawToken == "" {
		return nil, ErrInvalidRefreshToken
	}
	now := time.Now()
	stored, err := s.refreshRepo.GetByHash(hashRefreshToken(rawToken))
	if err != nil {
		return nil, err
	}
	if !stored.IsActive(now) {
		return nil, ErrInvalidRefreshToken
	}
	user, err := s.userRepo.GetByID(stored.UserID)
	if err != nil {
		return nil, err
	}
	if user == nil || strings.ToLower(user.Status) != constants.UserStatusActive {
		return nil, ErrInvalidRefreshToken
	}
	role, err := s.resolveRole(user.ID)
	if err != nil {
		return nil, err
	}

	nextRaw, nextHash, err := newRefreshToken()
	if err != nil {
		return nil, err
	}
	err = models.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		refreshRepo := s.refreshRepo.WithTx(tx)
		affected, err := refreshRepo.Revoke(stored.ID, nextHash, now)
		if err != nil {
			return err
		}
		if affected != 1 {
			return ErrInvalidRefreshToken
		}
		return refreshRepo.Create(&models.RefreshToken{
			UserID:    user.ID,
			TokenHash: nextHash,
			ExpiresAt: now.Add(s.cfg.JWT.RefreshTokenTTL()),
		})
	})
	if err != nil {
		return nil, err
	}

	accessToken, expiresAt, err := s.GenerateUserJWT(user, role)
	if err != nil {
		return nil, err
	}
	_ = cache.SetUserAuthState(ctx, cache.BuildUserAuthState(user))
	return &AuthResult{
		User:         user,
		Role:         role,
		AccessToken:  accessToken,
		ExpiresAt:    expiresAt,
		RefreshToken: nextRaw,
	}, nil
}

// Logout 吊销刷新令牌，未知或已吊销的令牌同样视为成功
func (s *AuthService) Logout(rawToken string) error {
	rawToken = strings.TrimSpace(rawToken)
	if rawToken == "" {
		return nil
	}
	_, err := s.refreshRepo.RevokeByHash(hashRefreshToken(rawToken), time.Now())
	return err
}

// GetProfile 获取用户资料及主角色
func (s *AuthService) GetProfile(userID uint) (*models.User, string, error) {
	user, err := s.getActiveUser(userID)
	if err != nil {
		return nil, "", err
	}
	role, err := s.resolveRole(user.ID)
	if err != nil {
		return nil, "", err
	}
	return user, role, nil
}

// UpdateProfile 更新姓名与邮箱，邮箱需保持唯一
func (s *AuthService) UpdateProfile(userID uint, input UpdateProfileInput) (*models.User, string, error) {
	fullName, err := normalizeFullName(input.FullName)
	if err != nil {
		return nil, "", err
	}
	email, err := normalizeEmail(input.Email)
	if err != nil {
		return nil, "", err
	}
	user, err := s.getActiveUser(userID)
	if err != nil {
		return nil, "", err
	}
	if email != user.Email {
		exist, err := s.userRepo.GetByEmail(email)
		if err != nil {
			return nil, "", err
		}
		if exist != nil && exist.ID != user.ID {
			return nil, "", ErrEmailExists
		}
	}

	user.FullName = fullName
	user.Email = email
	user.UpdatedAt = time.Now()
	if err := s.userRepo.Update(user); err != nil {
		return nil, "", err
	}
	role, err := s.resolveRole(user.ID)
	if err != nil {
		return nil, "", err
	}
	return user, role, nil
}

// ChangePassword 修改密码，成功后使所有已签发令牌失效
func (s *AuthService) ChangePassword(ctx context.Context, userID uint, input ChangePasswordInput) error {
	user, err := s.getActiveUser(userID)
	if err != nil {
		return err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(input.CurrentPassword)); err != nil {
		return ErrInvalidPassword
	}
	if err := validatePassword(s.cfg.Security.PasswordPolicy, input.NewPassword); err != nil {
		return err
	}
	if input.NewPassword != input.ConfirmNewPassword {
		return ErrPasswordMismatch
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(input.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	now := time.Now()
	err = models.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		userRepo := s.userRepo.WithTx(tx)
		user.PasswordHash = string(hashedPassword)
		user.UpdatedAt = now
		if err := userRepo.Update(user); err != nil {
			return err
		}
		if err := userRepo.InvalidateTokens(user.ID, now); err != nil {
			return err
		}
		_, err := s.refreshRepo.WithTx(tx).RevokeAllByUser(user.ID, now)
		return err
	})
	if err != nil {
		return err
	}
	_ = cache.DelUserAuthState(ctx, user.ID)
	return nil
}

// PurgeStaleRefreshTokens 清理过期或早已吊销的刷新令牌
func (s *AuthService) PurgeStaleRefreshTokens(retention time.Duration) (int64, error) {
	now := time.Now()
	return s.refreshRepo.PurgeStale(now, now.Add(-retention))
}

func (s *AuthService) issueTokens(user *models.User, role string) (*AuthResult, error) {
	accessToken, expiresAt, err := s.GenerateUserJWT(user, role)
	if err != nil {
		return nil, err
	}
	raw, hash, err := newRefreshToken()
	if err != nil {
		return nil, err
	}
	if err := s.refreshRepo.Create(&models.RefreshToken{
		UserID:    user.ID,
		TokenHash: hash,
		ExpiresAt: time.Now().Add(s.cfg.JWT.RefreshTokenTTL()),
	}); err != nil {
		return nil, err
	}
	return &AuthResult{
		User:         user,
		Role:         role,
		AccessToken:  accessToken,
		ExpiresAt:    expiresAt,
		RefreshToken: raw,
	}, nil
}

func (s *AuthService) getActiveUser(userID uint) (*models.User, error) {
	if userID == 0 {
		return nil, ErrUserNotFound
	}
	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	if strings.ToLower(user.Status) != constants.UserStatusActive {
		return nil, ErrUserDisabled
	}
	return user, nil
}

func (s *AuthService) resolveRole(userID uint) (string, error) {
	if s.roles == nil {
		return constants.RoleCustomer, nil
	}
	role, err := s.roles.PrimaryUserRole(userID)
	if err != nil {
		return "", err
	}
	if role == "" {
		return constants.RoleCustomer, nil
	}
	return role, nil
}

func newRefreshToken() (raw string, hash string, err error) {
	buf := make([]byte, refreshTokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", "", err
	}
	raw = base64.RawURLEncoding.EncodeToString(buf)
	return raw, hashRefreshToken(raw), nil
}

func hashRefreshToken(raw string) string {
	sum := sha256.Sum256([]byte(raw))
	return hex.EncodeToString(sum[:])
}

func normalizeEmail(email string) (string, error) {
	normalized := strings.ToLower(strings.TrimSpace(email))
	if normalized == "" || len(normalized) > emailMaxLength {
		return "", ErrInvalidEmail
	}
	addr, err := mail.ParseAddress(normalized)
	if err != nil || addr.Address != normalized {
		return "", ErrInvalidEmail
	}
	return normalized, nil
}

func normalizeFullName(name string) (string, error) {
	trimmed := strings.TrimSpace(name)
	length := len([]rune(trimmed))
	if length < fullNameMinLength || length > fullNameMaxLength {
		return "", ErrInvalidFullName
	}
	return trimmed, nil
}
