package service

import (
	"context"

	"github.com/onlinestore/internal/logger"
	"github.com/onlinestore/internal/repository"
)

// OrderNotifier 订单确认通知，由后台任务调用
type OrderNotifier struct {
	orderRepo repository.OrderRepository
	email     *EmailService
	locale    string
}

// NewOrderNotifier 创建订单通知服务
func NewOrderNotifier(orderRepo repository.OrderRepository, email *EmailService, locale string) *OrderNotifier {
	return &OrderNotifier{orderRepo: orderRepo, email: email, locale: locale}
}

// SendOrderConfirmation 发送下单确认邮件；邮件未启用时跳过
func (n *OrderNotifier) SendOrderConfirmation(ctx context.Context, orderID uint, requestID string) error {
	log := logger.ForRequest(requestID)
	if n == nil || !n.email.Enabled() {
		log.Debugw("order_confirmation_email_skipped", "order_id", orderID, "reason", "email_disabled")
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	order, err := n.orderRepo.GetByID(orderID)
	if err != nil {
		return err
	}
	if order == nil || order.User == nil {
		return ErrNotFound
	}

	lines := make([]OrderConfirmationLine, 0, len(order.Items))
	for _, item := range order.Items {
		lines = append(lines, OrderConfirmationLine{
			ProductName: item.ProductName,
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice,
			Subtotal:    item.Subtotal,
		})
	}
	input := OrderConfirmationEmailInput{
		OrderID:         order.ID,
		FullName:        order.User.FullName,
		Status:          order.Status,
		ShippingAddress: order.ShippingAddress,
		TotalAmount:     order.TotalAmount,
		Lines:           lines,
	}
	if err := n.email.SendOrderConfirmation(order.User.Email, input, n.locale); err != nil {
		return err
	}
	log.Infow("order_confirmation_email_sent", "order_id", order.ID, "user_id", order.UserID)
	return nil
}
