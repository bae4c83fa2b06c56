package models

import "time"

// RefreshToken 刷新令牌表，仅保存令牌摘要
type RefreshToken struct {
	ID             uint       `gorm:"primarykey" json:"id"`                           // 主键
	UserID         uint       `gorm:"index;not null" json:"user_id"`                  // 用户ID
	TokenHash      string     `gorm:"type:varchar(64);uniqueIndex;not null" json:"-"` // 令牌 SHA-256 摘要
	ExpiresAt      time.Time  `gorm:"index;not null" json:"expires_at"`               // 过期时间
	IsRevoked      bool       `gorm:"index;not null;default:false" json:"is_revoked"` // 是否已吊销
	RevokedAt      *time.Time `json:"revoked_at"`                                     // 吊销时间
	ReplacedByHash string     `gorm:"type:varchar(64)" json:"-"`                      // 轮换后的新令牌摘要
	CreatedAt      time.Time  `gorm:"index" json:"created_at"`                        // 创建时间
}

// TableName 指定表名
func (RefreshToken) TableName() string {
	return "refresh_tokens"
}

// IsActive 未吊销且未过期
func (t *RefreshToken) IsActive(now time.Time) bool {
	if t == nil {
		return false
	}
	return !t.IsRevoked && now.Before(t.ExpiresAt)
}
