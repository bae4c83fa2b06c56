package models

import "time"

// Category 商品分类表
type Category struct {
	ID          uint      `gorm:"primarykey" json:"id"`                               // 主键
	Name        string    `gorm:"type:varchar(100);uniqueIndex;not null" json:"name"` // 分类名称
	Description string    `gorm:"type:varchar(500)" json:"description"`               // 分类描述
	CreatedAt   time.Time `gorm:"index" json:"created_at"`                            // 创建时间
	UpdatedAt   time.Time `json:"updated_at"`                                         // 更新时间
}

// TableName 指定表名
func (Category) TableName() string {
	return "categories"
}
