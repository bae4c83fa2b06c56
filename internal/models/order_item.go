package models

import "time"

// OrderItem 订单项表，单价与名称均为下单时快照
type OrderItem struct {
	ID          uint      `gorm:"primarykey" json:"id"`                           // 主键
	OrderID     uint      `gorm:"index;not null" json:"order_id"`                 // 订单ID
	ProductID   uint      `gorm:"index;not null" json:"product_id"`               // 商品ID
	ProductName string    `gorm:"type:varchar(200);not null" json:"product_name"` // 商品名称快照
	UnitPrice   Money     `gorm:"type:decimal(20,2);not null" json:"unit_price"`  // 单价快照
	Quantity    int       `gorm:"not null" json:"quantity"`                       // 数量
	Subtotal    Money     `gorm:"type:decimal(20,2);not null" json:"subtotal"`    // 小计
	CreatedAt   time.Time `json:"created_at"`                                     // 创建时间
}

// TableName 指定表名
func (OrderItem) TableName() string {
	return "order_items"
}
