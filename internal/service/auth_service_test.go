package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/onlinestore/internal/constants"
	"github.com/onlinestore/internal/models"
	"github.com/onlinestore/internal/repository"

	"gorm.io/gorm"
)

type fakeRoleManager struct {
	roles map[uint]string
}

func (f *fakeRoleManager) GrantUserRole(userID uint, role string) error {
	if f.roles == nil {
		f.roles = make(map[uint]string)
	}
	if _, ok := f.roles[userID]; !ok {
		f.roles[userID] = role
	}
	return nil
}

func (f *fakeRoleManager) PrimaryUserRole(userID uint) (string, error) {
	return f.roles[userID], nil
}

func setupAuthServiceTest(t *testing.T) (*AuthService, *fakeRoleManager, *gorm.DB) {
	t.Helper()
	db := setupServiceTestDB(t, "auth_service_test")
	roles := &fakeRoleManager{}
	svc := NewAuthService(testConfig(), repository.NewUserRepository(db), repository.NewRefreshTokenRepository(db), roles)
	return svc, roles, db
}

func registerTestUser(t *testing.T, svc *AuthService, email string) *AuthResult {
	t.Helper()
	result, err := svc.Register(context.Background(), RegisterInput{
		FullName:        "Jane Doe",
		Email:           email,
		Password:        "secret1!",
		ConfirmPassword: "secret1!",
	})
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}
	return result
}

func TestAuthServiceRegisterGrantsCustomerRole(t *testing.T) {
	svc, roles, _ := setupAuthServiceTest(t)

	result := registerTestUser(t, svc, "  Jane@Example.COM ")
	if result.User.Email != "jane@example.com" {
		t.Fatalf("expected normalized email, got %s", result.User.Email)
	}
	if result.Role != constants.RoleCustomer {
		t.Fatalf("expected customer role, got %s", result.Role)
	}
	if roles.roles[result.User.ID] != constants.RoleCustomer {
		t.Fatalf("expected customer role granted")
	}
	if result.AccessToken == "" || result.RefreshToken == "" {
		t.Fatalf("expected token pair")
	}
	if result.User.PasswordHash == "secret1!" {
		t.Fatalf("password must be hashed")
	}
}

func TestAuthServiceRegisterValidation(t *testing.T) {
	svc, _, _ := setupAuthServiceTest(t)
	registerTestUser(t, svc, "taken@example.com")

	cases := []struct {
		name  string
		input RegisterInput
		want  error
	}{
		{"short name", RegisterInput{FullName: "J", Email: "a@example.com", Password: "secret1!", ConfirmPassword: "secret1!"}, ErrInvalidFullName},
		{"bad email", RegisterInput{FullName: "Jane", Email: "not-an-email", Password: "secret1!", ConfirmPassword: "secret1!"}, ErrInvalidEmail},
		{"weak password", RegisterInput{FullName: "Jane", Email: "a@example.com", Password: "abc", ConfirmPassword: "abc"}, ErrWeakPassword},
		{"mismatch", RegisterInput{FullName: "Jane", Email: "a@example.com", Password: "secret1!", ConfirmPassword: "secret2!"}, ErrPasswordMismatch},
		{"duplicate", RegisterInput{FullName: "Jane", Email: "TAKEN@example.com", Password: "secret1!", ConfirmPassword: "secret1!"}, ErrEmailExists},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Register(context.Background(), tc.input)
			if !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
		})
	}
}

func TestAuthServiceLogin(t *testing.T) {
	svc, _, db := setupAuthServiceTest(t)
	registered := registerTestUser(t, svc, "login@example.com")

	result, err := svc.Login(context.Background(), "LOGIN@example.com", "secret1!")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if result.User.LastLoginAt == nil {
		t.Fatalf("expected last login to be set")
	}

	if _, err := svc.Login(context.Background(), "login@example.com", "wrong1!"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected invalid credentials, got %v", err)
	}
	if _, err := svc.Login(context.Background(), "nobody@example.com", "secret1!"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected invalid credentials for unknown user, got %v", err)
	}

	if err := db.Model(&models.User{}).Where("id = ?", registered.User.ID).
		Update("status", constants.UserStatusDisabled).Error; err != nil {
		t.Fatalf("disable user failed: %v", err)
	}
	disabled, err := svc.Login(context.Background(), "login@example.com", "secret1!")
	if !errors.Is(err, ErrUserDisabled) {
		t.Fatalf("expected user disabled, got %v", err)
	}
	if disabled == nil || disabled.User == nil || disabled.User.ID != registered.User.ID {
		t.Fatalf("expected disabled result to carry user for login log")
	}
	if disabled.AccessToken != "" {
		t.Fatalf("disabled user must not receive tokens")
	}
}

func TestAuthServiceRefreshRotatesToken(t *testing.T) {
	svc, _, db := setupAuthServiceTest(t)
	registered := registerTestUser(t, svc, "refresh@example.com")

	rotated, err := svc.Refresh(context.Background(), registered.RefreshToken)
	if err != nil {
		t.Fatalf("refresh failed: %v", err)
	}
	if rotated.RefreshToken == registered.RefreshToken {
		t.Fatalf("expected a new refresh token")
	}

	if _, err := svc.Refresh(context.Background(), registered.RefreshToken); !errors.Is(err, ErrInvalidRefreshToken) {
		t.Fatalf("expected reused token to be rejected, got %v", err)
	}
	if _, err := svc.Refresh(context.Background(), rotated.RefreshToken); err != nil {
		t.Fatalf("rotated token should be usable once: %v", err)
	}

	var old models.RefreshToken
	if err := db.Where("token_hash = ?", hashRefreshToken(registered.RefreshToken)).First(&old).Error; err != nil {
		t.Fatalf("load old token failed: %v", err)
	}
	if !old.IsRevoked || old.ReplacedByHash != hashRefreshToken(rotated.RefreshToken) {
		t.Fatalf("expected old token revoked and linked to replacement: %+v", old)
	}
}

func TestAuthServiceRefreshRejectsExpiredAndUnknown(t *testing.T) {
	svc, _, db := setupAuthServiceTest(t)
	registered := registerTestUser(t, svc, "expired@example.com")

	if err := db.Model(&models.RefreshToken{}).
		Where("token_hash = ?", hashRefreshToken(registered.RefreshToken)).
		Update("expires_at", time.Now().Add(-time.Minute)).Error; err != nil {
		t.Fatalf("expire token failed: %v", err)
	}
	if _, err := svc.Refresh(context.Background(), registered.RefreshToken); !errors.Is(err, ErrInvalidRefreshToken) {
		t.Fatalf("expected expired token rejected, got %v", err)
	}
	if _, err := svc.Refresh(context.Background(), "unknown-token"); !errors.Is(err, ErrInvalidRefreshToken) {
		t.Fatalf("expected unknown token rejected, got %v", err)
	}
	if _, err := svc.Refresh(context.Background(), "  "); !errors.Is(err, ErrInvalidRefreshToken) {
		t.Fatalf("expected blank token rejected, got %v", err)
	}
}

func TestAuthServiceLogoutIsIdempotent(t *testing.T) {
	svc, _, _ := setupAuthServiceTest(t)
	registered := registerTestUser(t, svc, "logout@example.com")

	if err := svc.Logout(registered.RefreshToken); err != nil {
		t.Fatalf("logout failed: %v", err)
	}
	if err := svc.Logout(registered.RefreshToken); err != nil {
		t.Fatalf("second logout should succeed: %v", err)
	}
	if err := svc.Logout("never-issued"); err != nil {
		t.Fatalf("unknown token logout should succeed: %v", err)
	}
	if _, err := svc.Refresh(context.Background(), registered.RefreshToken); !errors.Is(err, ErrInvalidRefreshToken) {
		t.Fatalf("expected revoked token rejected, got %v", err)
	}
}

func TestAuthServiceAuthenticateAccessToken(t *testing.T) {
	svc, _, _ := setupAuthServiceTest(t)
	registered := registerTestUser(t, svc, "access@example.com")

	claims, err := svc.AuthenticateAccessToken(context.Background(), registered.AccessToken)
	if err != nil {
		t.Fatalf("authenticate failed: %v", err)
	}
	if claims.UserID != registered.User.ID || claims.Role != constants.RoleCustomer {
		t.Fatalf("unexpected claims: %+v", claims)
	}

	if _, err := svc.AuthenticateAccessToken(context.Background(), registered.AccessToken+"x"); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected tampered token rejected, got %v", err)
	}

	other := testConfig()
	other.JWT.SecretKey = "another-secret"
	foreign := &AuthService{cfg: other}
	token, _, err := foreign.GenerateUserJWT(registered.User, constants.RoleAdmin)
	if err != nil {
		t.Fatalf("generate token failed: %v", err)
	}
	if _, err := svc.AuthenticateAccessToken(context.Background(), token); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected foreign signature rejected, got %v", err)
	}
}

func TestAuthServiceChangePasswordInvalidatesSessions(t *testing.T) {
	svc, _, _ := setupAuthServiceTest(t)
	registered := registerTestUser(t, svc, "change@example.com")
	ctx := context.Background()

	err := svc.ChangePassword(ctx, registered.User.ID, ChangePasswordInput{
		CurrentPassword:    "wrong1!",
		NewPassword:        "newpass1!",
		ConfirmNewPassword: "newpass1!",
	})
	if !errors.Is(err, ErrInvalidPassword) {
		t.Fatalf("expected invalid password, got %v", err)
	}

	err = svc.ChangePassword(ctx, registered.User.ID, ChangePasswordInput{
		CurrentPassword:    "secret1!",
		NewPassword:        "newpass1!",
		ConfirmNewPassword: "newpass2!",
	})
	if !errors.Is(err, ErrPasswordMismatch) {
		t.Fatalf("expected mismatch, got %v", err)
	}

	if err := svc.ChangePassword(ctx, registered.User.ID, ChangePasswordInput{
		CurrentPassword:    "secret1!",
		NewPassword:        "newpass1!",
		ConfirmNewPassword: "newpass1!",
	}); err != nil {
		t.Fatalf("change password failed: %v", err)
	}

	if _, err := svc.AuthenticateAccessToken(ctx, registered.AccessToken); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected old access token rejected, got %v", err)
	}
	if _, err := svc.Refresh(ctx, registered.RefreshToken); !errors.Is(err, ErrInvalidRefreshToken) {
		t.Fatalf("expected old refresh token rejected, got %v", err)
	}
	if _, err := svc.Login(ctx, "change@example.com", "secret1!"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected old password rejected, got %v", err)
	}
	relogin, err := svc.Login(ctx, "change@example.com", "newpass1!")
	if err != nil {
		t.Fatalf("login with new password failed: %v", err)
	}
	if _, err := svc.AuthenticateAccessToken(ctx, relogin.AccessToken); err != nil {
		t.Fatalf("new access token should be valid: %v", err)
	}
}

func TestAuthServiceUpdateProfile(t *testing.T) {
	svc, _, _ := setupAuthServiceTest(t)
	first := registerTestUser(t, svc, "first@example.com")
	registerTestUser(t, svc, "second@example.com")

	if _, _, err := svc.UpdateProfile(first.User.ID, UpdateProfileInput{FullName: "First User", Email: "second@example.com"}); !errors.Is(err, ErrEmailExists) {
		t.Fatalf("expected email exists, got %v", err)
	}

	user, role, err := svc.UpdateProfile(first.User.ID, UpdateProfileInput{FullName: " First User ", Email: "First.New@Example.com"})
	if err != nil {
		t.Fatalf("update profile failed: %v", err)
	}
	if user.FullName != "First User" || user.Email != "first.new@example.com" {
		t.Fatalf("unexpected profile: %+v", user)
	}
	if role != constants.RoleCustomer {
		t.Fatalf("unexpected role: %s", role)
	}

	if _, _, err := svc.GetProfile(9999); !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("expected user not found, got %v", err)
	}
}

func TestAuthServicePurgeStaleRefreshTokens(t *testing.T) {
	svc, _, db := setupAuthServiceTest(t)
	registered := registerTestUser(t, svc, "purge@example.com")

	if err := db.Model(&models.RefreshToken{}).
		Where("token_hash = ?", hashRefreshToken(registered.RefreshToken)).
		Update("expires_at", time.Now().Add(-time.Hour)).Error; err != nil {
		t.Fatalf("expire token failed: %v", err)
	}
	purged, err := svc.PurgeStaleRefreshTokens(24 * time.Hour)
	if err != nil {
		t.Fatalf("purge failed: %v", err)
	}
	if purged != 1 {
		t.Fatalf("expected one purged token, got %d", purged)
	}
}

func TestDetailedErrorMatchesSentinel(t *testing.T) {
	err := validatePassword(testConfig().Security.PasswordPolicy, "abc")
	if !errors.Is(err, ErrWeakPassword) {
		t.Fatalf("expected weak password, got %v", err)
	}
	var detailed *DetailedError
	if !errors.As(err, &detailed) {
		t.Fatalf("expected detailed error")
	}
	if detailed.Key() != "error.password_too_short" {
		t.Fatalf("unexpected key: %s", detailed.Key())
	}
	if len(detailed.Args()) != 1 || detailed.Args()[0] != 6 {
		t.Fatalf("unexpected args: %v", detailed.Args())
	}
	if err := validatePassword(testConfig().Security.PasswordPolicy, "abcdef1!"); err != nil {
		t.Fatalf("expected valid password, got %v", err)
	}
}
