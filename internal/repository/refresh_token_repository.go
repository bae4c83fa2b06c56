package repository

import (
	"errors"
	"time"

	"github.com/onlinestore/internal/models"

	"gorm.io/gorm"
)

// RefreshTokenRepository 刷新令牌数据访问接口
type RefreshTokenRepository interface {
	Create(token *models.RefreshToken) error
	GetByHash(hash string) (*models.RefreshToken, error)
	Revoke(id uint, replacedByHash string, at time.Time) (int64, error)
	RevokeByHash(hash string, at time.Time) (int64, error)
	RevokeAllByUser(userID uint, at time.Time) (int64, error)
	PurgeStale(now time.Time, revokedBefore time.Time) (int64, error)
	WithTx(tx *gorm.DB) *GormRefreshTokenRepository
}

// GormRefreshTokenRepository GORM 实现
type GormRefreshTokenRepository struct {
	db *gorm.DB
}

// NewRefreshTokenRepository 创建刷新令牌仓库
func NewRefreshTokenRepository(db *gorm.DB) *GormRefreshTokenRepository {
	return &GormRefreshTokenRepository{db: db}
}

// WithTx 绑定事务
func (r *GormRefreshTokenRepository) WithTx(tx *gorm.DB) *GormRefreshTokenRepository {
	if tx == nil {
		return r
	}
	return &GormRefreshTokenRepository{db: tx}
}

// Create 保存刷新令牌
func (r *GormRefreshTokenRepository) Create(token *models.RefreshToken) error {
	return r.db.Create(token).Error
}

// GetByHash 根据摘要查询令牌
func (r *GormRefreshTokenRepository) GetByHash(hash string) (*models.RefreshToken, error) {
	var token models.RefreshToken
	if err := r.db.Where("token_hash = ?", hash).First(&token).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &token, nil
}

// Revoke 条件吊销，仅在令牌仍有效时生效，返回影响行数
func (r *GormRefreshTokenRepository) Revoke(id uint, replacedByHash string, at time.Time) (int64, error) {
	result := r.db.Model(&models.RefreshToken{}).
		Where("id = ? AND is_revoked = ?", id, false).
		Updates(map[string]interface{}{
			"is_revoked":       true,
			"revoked_at":       at,
			"replaced_by_hash": replacedByHash,
		})
	return result.RowsAffected, result.Error
}

// RevokeByHash 按摘要吊销
func (r *GormRefreshTokenRepository) RevokeByHash(hash string, at time.Time) (int64, error) {
	result := r.db.Model(&models.RefreshToken{}).
		Where("token_hash = ? AND is_revoked = ?", hash, false).
		Updates(map[string]interface{}{
			"is_revoked": true,
			"revoked_at": at,
		})
	return result.RowsAffected, result.Error
}

// RevokeAllByUser 吊销用户全部令牌
func (r *GormRefreshTokenRepository) RevokeAllByUser(userID uint, at time.Time) (int64, error) {
	result := r.db.Model(&models.RefreshToken{}).
		Where("user_id = ? AND is_revoked = ?", userID, false).
		Updates(map[string]interface{}{
			"is_revoked": true,
			"revoked_at": at,
		})
	return result.RowsAffected, result.Error
}

// PurgeStale 删除已过期或早于 revokedBefore 吊销的令牌
func (r *GormRefreshTokenRepository) PurgeStale(now time.Time, revokedBefore time.Time) (int64, error) {
	result := r.db.
		Where("expires_at < ? OR (is_revoked = ? AND revoked_at < ?)", now, true, revokedBefore).
		Delete(&models.RefreshToken{})
	return result.RowsAffected, result.Error
}
