package models

import "time"

// Cart 购物车表，每个用户一条
type Cart struct {
	ID        uint      `gorm:"primarykey" json:"id"`                // 主键
	UserID    uint      `gorm:"uniqueIndex;not null" json:"user_id"` // 用户ID
	CreatedAt time.Time `json:"created_at"`                          // 创建时间
	UpdatedAt time.Time `json:"updated_at"`                          // 更新时间

	Items []CartItem `gorm:"foreignKey:CartID" json:"items,omitempty"` // 购物车项
}

// TableName 指定表名
func (Cart) TableName() string {
	return "carts"
}

// CartItem 购物车项
type CartItem struct {
	ID        uint      `gorm:"primarykey" json:"id"`                                         // 主键
	CartID    uint      `gorm:"not null;uniqueIndex:idx_cart_item_product" json:"cart_id"`    // 购物车ID
	ProductID uint      `gorm:"not null;uniqueIndex:idx_cart_item_product" json:"product_id"` // 商品ID
	Quantity  int       `gorm:"not null" json:"quantity"`                                     // 数量
	CreatedAt time.Time `json:"created_at"`                                                   // 创建时间
	UpdatedAt time.Time `json:"updated_at"`                                                   // 更新时间
}

// TableName 指定表名
func (CartItem) TableName() string {
	return "cart_items"
}
