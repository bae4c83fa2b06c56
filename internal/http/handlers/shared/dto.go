package shared

import (
	"time"

	"github.com/onlinestore/internal/http/response"
	"github.com/onlinestore/internal/models"
	"github.com/onlinestore/internal/service"
)

// CategoryResponse 分类响应
type CategoryResponse struct {
	ID          uint      `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// ProductResponse 商品响应
type ProductResponse struct {
	ID            uint         `json:"id"`
	Name          string       `json:"name"`
	Description   string       `json:"description"`
	Price         models.Money `json:"price"`
	ImageURL      string       `json:"image_url"`
	StockQuantity int          `json:"stock_quantity"`
	CategoryID    uint         `json:"category_id"`
	CategoryName  string       `json:"category_name"`
	CreatedAt     time.Time    `json:"created_at"`
	UpdatedAt     time.Time    `json:"updated_at"`
}

// OrderItemResponse 订单项响应
type OrderItemResponse struct {
	ProductID   uint         `json:"product_id"`
	ProductName string       `json:"product_name"`
	UnitPrice   models.Money `json:"unit_price"`
	Quantity    int          `json:"quantity"`
	Subtotal    models.Money `json:"subtotal"`
}

// OrderResponse 订单响应，后台查询时附带下单人信息
type OrderResponse struct {
	ID              uint                `json:"id"`
	UserID          uint                `json:"user_id"`
	OrderDate       time.Time           `json:"order_date"`
	Status          string              `json:"status"`
	ShippingAddress string              `json:"shipping_address"`
	TotalAmount     models.Money        `json:"total_amount"`
	Items           []OrderItemResponse `json:"items"`
	CustomerEmail   string              `json:"customer_email,omitempty"`
	CustomerName    string              `json:"customer_name,omitempty"`
}

// NewCategoryResponse 构建分类响应
func NewCategoryResponse(category *models.Category) CategoryResponse {
	return CategoryResponse{
		ID:          category.ID,
		Name:        category.Name,
		Description: category.Description,
		CreatedAt:   category.CreatedAt,
		UpdatedAt:   category.UpdatedAt,
	}
}

// NewCategoryResponses 批量构建分类响应
func NewCategoryResponses(categories []models.Category) []CategoryResponse {
	items := make([]CategoryResponse, 0, len(categories))
	for i := range categories {
		items = append(items, NewCategoryResponse(&categories[i]))
	}
	return items
}

// NewProductResponse 构建商品响应
func NewProductResponse(product *models.Product) ProductResponse {
	resp := ProductResponse{
		ID:            product.ID,
		Name:          product.Name,
		Description:   product.Description,
		Price:         product.Price,
		ImageURL:      product.ImageURL,
		StockQuantity: product.StockQuantity,
		CategoryID:    product.CategoryID,
		CreatedAt:     product.CreatedAt,
		UpdatedAt:     product.UpdatedAt,
	}
	if product.Category != nil {
		resp.CategoryName = product.Category.Name
	}
	return resp
}

// NewOrderResponse 构建订单响应
func NewOrderResponse(order *models.Order, withCustomer bool) OrderResponse {
	items := make([]OrderItemResponse, 0, len(order.Items))
	for _, item := range order.Items {
		items = append(items, OrderItemResponse{
			ProductID:   item.ProductID,
			ProductName: item.ProductName,
			UnitPrice:   item.UnitPrice,
			Quantity:    item.Quantity,
			Subtotal:    item.Subtotal,
		})
	}
	resp := OrderResponse{
		ID:              order.ID,
		UserID:          order.UserID,
		OrderDate:       order.OrderDate,
		Status:          order.Status,
		ShippingAddress: order.ShippingAddress,
		TotalAmount:     order.TotalAmount,
		Items:           items,
	}
	if withCustomer && order.User != nil {
		resp.CustomerEmail = order.User.Email
		resp.CustomerName = order.User.FullName
	}
	return resp
}

// BuildPagination 由分页结果构建分页信息
func BuildPagination[T any](result service.PageResult[T]) response.Pagination {
	return response.Pagination{
		Page:      result.Page,
		PageSize:  result.PageSize,
		Total:     result.Total,
		TotalPage: result.TotalPage(),
	}
}
