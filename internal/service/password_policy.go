package service

import (
	"unicode"

	"github.com/onlinestore/internal/config"
)

func validatePassword(policy config.PasswordPolicyConfig, password string) error {
	if policy.MinLength <= 0 &&
		!policy.RequireUpper &&
		!policy.RequireLower &&
		!policy.RequireNumber &&
		!policy.RequireSpecial {
		return nil
	}

	if policy.MinLength > 0 {
		if len([]rune(password)) < policy.MinLength {
			return newDetailedError(ErrWeakPassword, "error.password_too_short", policy.MinLength)
		}
	}

	var hasUpper, hasLower, hasNumber, hasSpecial bool
	for _, r := range password {
		switch {
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsLower(r):
			hasLower = true
		case unicode.IsDigit(r):
			hasNumber = true
		default:
			hasSpecial = true
		}
	}

	if policy.RequireUpper && !hasUpper {
		return newDetailedError(ErrWeakPassword, "error.password_require_upper")
	}
	if policy.RequireLower && !hasLower {
		return newDetailedError(ErrWeakPassword, "error.password_require_lower")
	}
	if policy.RequireNumber && !hasNumber {
		return newDetailedError(ErrWeakPassword, "error.password_require_number")
	}
	if policy.RequireSpecial && !hasSpecial {
		return newDetailedError(ErrWeakPassword, "error.password_require_special")
	}

	return nil
}
