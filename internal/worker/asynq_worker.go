package worker

import (
	"context"
	"errors"

	"github.com/onlinestore/internal/logger"
	"github.com/onlinestore/internal/provider"
	"github.com/onlinestore/internal/queue"
	"github.com/onlinestore/internal/service"

	"github.com/hibiken/asynq"
)

// OrderConfirmationSender 下单确认邮件发送
type OrderConfirmationSender interface {
	SendOrderConfirmation(ctx context.Context, orderID uint, requestID string) error
}

// Consumer 异步任务消费者
type Consumer struct {
	notifier OrderConfirmationSender
}

// NewConsumer 创建消费者
func NewConsumer(c *provider.Container) *Consumer {
	if c == nil || c.OrderNotifier == nil {
		return &Consumer{}
	}
	return &Consumer{notifier: c.OrderNotifier}
}

// Register 注册消费者
func (c *Consumer) Register(mux *asynq.ServeMux) {
	if c == nil || mux == nil {
		logger.Debugw("worker_register_skip_nil", "consumer_nil", c == nil, "mux_nil", mux == nil)
		return
	}
	mux.HandleFunc(queue.TaskOrderConfirmationEmail, c.handleOrderConfirmationEmail)
}

func (c *Consumer) handleOrderConfirmationEmail(ctx context.Context, task *asynq.Task) error {
	if c == nil || task == nil {
		logger.Debugw("worker_order_confirmation_email_skip_nil", "consumer_nil", c == nil, "task_nil", task == nil)
		return nil
	}
	payload, err := queue.ParseOrderConfirmationEmailPayload(task)
	if err != nil {
		logger.Warnw("worker_order_confirmation_email_invalid_payload", "error", err)
		return errors.Join(err, asynq.SkipRetry)
	}
	log := logger.ForRequest(payload.RequestID)
	if c.notifier == nil {
		log.Warnw("worker_order_confirmation_email_skip_notifier_nil", "order_id", payload.OrderID)
		return nil
	}

	err = c.notifier.SendOrderConfirmation(ctx, payload.OrderID, payload.RequestID)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, service.ErrNotFound):
		log.Debugw("worker_order_confirmation_email_skip_order_not_found", "order_id", payload.OrderID)
		return nil
	case errors.Is(err, service.ErrEmailRecipientRejected):
		log.Warnw("worker_order_confirmation_email_recipient_rejected", "order_id", payload.OrderID, "error", err)
		return nil
	default:
		log.Warnw("worker_order_confirmation_email_send_failed", "order_id", payload.OrderID, "error", err)
		return err
	}
}
