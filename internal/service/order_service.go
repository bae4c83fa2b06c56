package service

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/onlinestore/internal/constants"
	"github.com/onlinestore/internal/events"
	"github.com/onlinestore/internal/logger"
	"github.com/onlinestore/internal/models"
	"github.com/onlinestore/internal/queue"
	"github.com/onlinestore/internal/repository"

	"github.com/hibiken/asynq"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const (
	shippingAddressMinLength = 10
	shippingAddressMaxLength = 500
)

// OrderTaskQueue 订单异步任务投递
type OrderTaskQueue interface {
	EnqueueOrderConfirmationEmail(ctx context.Context, payload queue.OrderConfirmationEmailPayload, opts ...asynq.Option) error
}

// OrderEventPublisher 订单领域事件发布
type OrderEventPublisher interface {
	PublishOrderPlaced(ctx context.Context, traceID string, event events.OrderPlaced) error
}

// OrderService 下单与订单查询服务
type OrderService struct {
	orderRepo   repository.OrderRepository
	cartRepo    repository.CartRepository
	productRepo repository.ProductRepository
	tasks       OrderTaskQueue
	publisher   OrderEventPublisher
}

// NewOrderService 创建订单服务，tasks 与 publisher 可为 nil
func NewOrderService(orderRepo repository.OrderRepository, cartRepo repository.CartRepository, productRepo repository.ProductRepository, tasks OrderTaskQueue, publisher OrderEventPublisher) *OrderService {
	return &OrderService{
		orderRepo:   orderRepo,
		cartRepo:    cartRepo,
		productRepo: productRepo,
		tasks:       tasks,
		publisher:   publisher,
	}
}

// CheckoutInput 结账输入
type CheckoutInput struct {
	UserID          uint
	ShippingAddress string
	RequestID       string
}

// AdminOrderQuery 管理端订单查询条件，日期为 UTC 自然日
type AdminOrderQuery struct {
	Email    string
	DateFrom *time.Time
	DateTo   *time.Time
	Page     int
	PageSize int
}

// Checkout 将购物车转换为订单；库存扣减、订单写入与清空购物车在同一事务内完成
func (s *OrderService) Checkout(ctx context.Context, input CheckoutInput) (*models.Order, error) {
	address := strings.TrimSpace(input.ShippingAddress)
	if n := len([]rune(address)); n < shippingAddressMinLength || n > shippingAddressMaxLength {
		return nil, ErrInvalidShippingAddress
	}

	var order *models.Order
	err := models.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		cartRepo := s.cartRepo.WithTx(tx)
		productRepo := s.productRepo.WithTx(tx)
		orderRepo := s.orderRepo.WithTx(tx)

		cart, err := cartRepo.GetByUser(input.UserID)
		if err != nil {
			return err
		}
		if cart == nil || len(cart.Items) == 0 {
			return ErrCartEmpty
		}

		lines := make([]models.CartItem, len(cart.Items))
		copy(lines, cart.Items)
		sort.Slice(lines, func(i, j int) bool { return lines[i].ProductID < lines[j].ProductID })

		ids := make([]uint, 0, len(lines))
		for _, line := range lines {
			ids = append(ids, line.ProductID)
		}
		products, err := productRepo.ListByIDs(ids)
		if err != nil {
			return err
		}
		productMap := make(map[uint]models.Product, len(products))
		for _, product := range products {
			productMap[product.ID] = product
		}

		total := decimal.Zero
		items := make([]models.OrderItem, 0, len(lines))
		for _, line := range lines {
			product, ok := productMap[line.ProductID]
			if !ok {
				return newDetailedError(ErrProductNotFound, "error.product_not_found_id", line.ProductID)
			}
			if product.StockQuantity < line.Quantity {
				return newDetailedError(ErrInsufficientStock, "error.insufficient_stock", product.Name)
			}
			affected, err := productRepo.DecrementStock(product.ID, line.Quantity)
			if err != nil {
				return err
			}
			if affected == 0 {
				return newDetailedError(ErrInsufficientStock, "error.insufficient_stock", product.Name)
			}

			subtotal := product.Price.Decimal.Mul(decimal.NewFromInt(int64(line.Quantity)))
			total = total.Add(subtotal)
			items = append(items, models.OrderItem{
				ProductID:   product.ID,
				ProductName: product.Name,
				UnitPrice:   product.Price,
				Quantity:    line.Quantity,
				Subtotal:    models.NewMoneyFromDecimal(subtotal),
			})
		}

		order = &models.Order{
			UserID:          input.UserID,
			OrderDate:       time.Now().UTC(),
			Status:          constants.OrderStatusPending,
			ShippingAddress: address,
			TotalAmount:     models.NewMoneyFromDecimal(total),
		}
		if err := orderRepo.Create(order, items); err != nil {
			return err
		}
		if err := cartRepo.ClearItems(cart.ID); err != nil {
			return err
		}
		return cartRepo.Touch(cart.ID, time.Now())
	})
	if err != nil {
		return nil, err
	}

	log := logger.ForRequest(input.RequestID)
	log.Infow("checkout_committed",
		"order_id", order.ID,
		"user_id", order.UserID,
		"item_count", len(order.Items),
		"total_amount", order.TotalAmount.String(),
	)
	s.afterCheckout(ctx, order, input.RequestID)
	return order, nil
}

func (s *OrderService) afterCheckout(ctx context.Context, order *models.Order, requestID string) {
	log := logger.ForRequest(requestID)
	if s.tasks != nil {
		payload := queue.OrderConfirmationEmailPayload{OrderID: order.ID, RequestID: requestID}
		if err := s.tasks.EnqueueOrderConfirmationEmail(ctx, payload); err != nil {
			log.Warnw("checkout_enqueue_confirmation_email_failed", "order_id", order.ID, "error", err)
		}
	}
	if s.publisher != nil {
		if err := s.publisher.PublishOrderPlaced(ctx, requestID, buildOrderPlacedEvent(order)); err != nil {
			log.Warnw("checkout_publish_order_placed_failed", "order_id", order.ID, "error", err)
		}
	}
}

func buildOrderPlacedEvent(order *models.Order) events.OrderPlaced {
	items := make([]events.OrderPlacedItem, 0, len(order.Items))
	for _, item := range order.Items {
		items = append(items, events.OrderPlacedItem{
			ProductID:   item.ProductID,
			ProductName: item.ProductName,
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice.String(),
			Subtotal:    item.Subtotal.String(),
		})
	}
	return events.OrderPlaced{
		OrderID:     order.ID,
		UserID:      order.UserID,
		Status:      order.Status,
		TotalAmount: order.TotalAmount.String(),
		OrderDate:   order.OrderDate,
		Items:       items,
	}
}

// ListMyOrders 查询当前用户订单，新订单在前
func (s *OrderService) ListMyOrders(userID uint, page, pageSize int) (PageResult[models.Order], error) {
	page, pageSize = normalizePage(page, pageSize, constants.DefaultMyOrderPageSize)
	orders, total, err := s.orderRepo.ListByUser(repository.OrderListFilter{
		Page:     page,
		PageSize: pageSize,
		UserID:   userID,
	})
	if err != nil {
		return PageResult[models.Order]{}, err
	}
	return PageResult[models.Order]{Items: orders, Page: page, PageSize: pageSize, Total: total}, nil
}

// ListAdminOrders 管理端订单查询，DateTo 包含当天全天
func (s *OrderService) ListAdminOrders(query AdminOrderQuery) (PageResult[models.Order], error) {
	page, pageSize := normalizePage(query.Page, query.PageSize, constants.DefaultAdminOrderPageSize)
	filter := repository.OrderListFilter{
		Page:     page,
		PageSize: pageSize,
		Email:    strings.TrimSpace(query.Email),
		WithUser: true,
	}
	if query.DateFrom != nil {
		from := startOfDayUTC(*query.DateFrom)
		filter.OrderFrom = &from
	}
	if query.DateTo != nil {
		to := startOfDayUTC(*query.DateTo).AddDate(0, 0, 1).Add(-time.Nanosecond)
		filter.OrderTo = &to
	}
	if filter.OrderFrom != nil && filter.OrderTo != nil && filter.OrderFrom.After(*filter.OrderTo) {
		return PageResult[models.Order]{}, ErrInvalidDateRange
	}

	orders, total, err := s.orderRepo.ListAdmin(filter)
	if err != nil {
		return PageResult[models.Order]{}, err
	}
	return PageResult[models.Order]{Items: orders, Page: page, PageSize: pageSize, Total: total}, nil
}

// GetOrder 获取订单（含订单项与下单用户）
func (s *OrderService) GetOrder(id uint) (*models.Order, error) {
	order, err := s.orderRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, ErrNotFound
	}
	return order, nil
}

func startOfDayUTC(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
}
