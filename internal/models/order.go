package models

import "time"

// Order 订单表
type Order struct {
	ID              uint      `gorm:"primarykey" json:"id"`                                      // 主键
	UserID          uint      `gorm:"index;not null" json:"user_id"`                             // 用户ID
	OrderDate       time.Time `gorm:"index;not null" json:"order_date"`                          // 下单时间（UTC）
	Status          string    `gorm:"type:varchar(20);index;not null" json:"status"`             // 订单状态
	ShippingAddress string    `gorm:"type:varchar(500);not null" json:"shipping_address"`        // 收货地址
	TotalAmount     Money     `gorm:"type:decimal(20,2);not null;default:0" json:"total_amount"` // 订单总额
	CreatedAt       time.Time `json:"created_at"`                                                // 创建时间
	UpdatedAt       time.Time `json:"updated_at"`                                                // 更新时间

	Items []OrderItem `gorm:"foreignKey:OrderID" json:"items,omitempty"` // 订单项
	User  *User       `gorm:"foreignKey:UserID" json:"user,omitempty"`   // 下单用户
}

// TableName 指定表名
func (Order) TableName() string {
	return "orders"
}
