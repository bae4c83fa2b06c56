package models

import (
	"errors"
	"strings"

	"github.com/onlinestore/internal/constants"
	"github.com/onlinestore/internal/logger"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const defaultAdminPassword = "Admin123!"

// InitDefaultAdmin 初始化默认管理员账号，已存在时直接返回
func InitDefaultAdmin(db *gorm.DB, email, password, fullName string) (*User, error) {
	if db == nil {
		return nil, errors.New("database not initialized")
	}
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		email = "admin@onlinestore.com"
	}

	var existing User
	err := db.Where("email = ?", email).First(&existing).Error
	if err == nil {
		return &existing, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	if strings.TrimSpace(fullName) == "" {
		fullName = "Administrator"
	}
	usedDefault := password == ""
	if usedDefault {
		password = defaultAdminPassword
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	admin := User{
		Email:        email,
		FullName:     fullName,
		PasswordHash: string(hash),
		Status:       constants.UserStatusActive,
	}
	if err := db.Create(&admin).Error; err != nil {
		return nil, err
	}

	if usedDefault {
		logger.Warnw("default_admin_created_with_default_password", "email", email)
		logger.Warnw("default_admin_password_change_required", "email", email)
	} else {
		logger.Warnw("default_admin_created", "email", email, "password_hidden", true)
	}
	return &admin, nil
}
