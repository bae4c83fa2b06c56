package events

import "time"

// OrderPlacedItem 下单事件中的订单项
type OrderPlacedItem struct {
	ProductID   uint   `json:"product_id"`
	ProductName string `json:"product_name"`
	Quantity    int    `json:"quantity"`
	UnitPrice   string `json:"unit_price"`
	Subtotal    string `json:"subtotal"`
}

// OrderPlaced 下单成功事件载荷
type OrderPlaced struct {
	OrderID     uint              `json:"order_id"`
	UserID      uint              `json:"user_id"`
	Status      string            `json:"status"`
	TotalAmount string            `json:"total_amount"`
	OrderDate   time.Time         `json:"order_date"`
	Items       []OrderPlacedItem `json:"items"`
}
