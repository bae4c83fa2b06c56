package models

import "time"

// Product 商品表
type Product struct {
	ID            uint      `gorm:"primarykey" json:"id"`                               // 主键
	Name          string    `gorm:"type:varchar(200);uniqueIndex;not null" json:"name"` // 商品名称
	Description   string    `gorm:"type:varchar(1000)" json:"description"`              // 商品描述
	Price         Money     `gorm:"type:decimal(20,2);not null" json:"price"`           // 单价
	ImageURL      string    `gorm:"type:varchar(500)" json:"image_url"`                 // 图片地址
	StockQuantity int       `gorm:"not null;default:0;index" json:"stock_quantity"`     // 库存数量
	CategoryID    uint      `gorm:"index;not null" json:"category_id"`                  // 分类ID
	CreatedAt     time.Time `gorm:"index" json:"created_at"`                            // 创建时间
	UpdatedAt     time.Time `json:"updated_at"`                                         // 更新时间

	Category *Category `gorm:"foreignKey:CategoryID" json:"category,omitempty"` // 关联分类
}

// TableName 指定表名
func (Product) TableName() string {
	return "products"
}
