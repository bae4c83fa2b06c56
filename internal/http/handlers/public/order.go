package public

import (
	"github.com/onlinestore/internal/constants"
	handlershared "github.com/onlinestore/internal/http/handlers/shared"
	"github.com/onlinestore/internal/http/response"
	"github.com/onlinestore/internal/service"

	"github.com/gin-gonic/gin"
)

// CheckoutRequest 下单请求
type CheckoutRequest struct {
	ShippingAddress string `json:"shipping_address" binding:"required"`
}

// Checkout 将购物车转为订单
func (h *Handler) Checkout(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	var req CheckoutRequest
	if !handlershared.BindJSON(c, &req) {
		return
	}

	order, err := h.OrderService.Checkout(c.Request.Context(), service.CheckoutInput{
		UserID:          uid,
		ShippingAddress: req.ShippingAddress,
		RequestID:       response.RequestID(c),
	})
	if err != nil {
		respondWithMappedError(c, err, checkoutErrorRules)
		return
	}
	response.Created(c, handlershared.NewOrderResponse(order, false))
}

// ListMyOrders 我的订单（按下单时间倒序）
func (h *Handler) ListMyOrders(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	page, pageSize := handlershared.ParsePagination(c, constants.DefaultMyOrderPageSize)
	result, err := h.OrderService.ListMyOrders(uid, page, pageSize)
	if err != nil {
		respondError(c, response.CodeInternal, "error.internal", err)
		return
	}

	items := make([]handlershared.OrderResponse, 0, len(result.Items))
	for i := range result.Items {
		items = append(items, handlershared.NewOrderResponse(&result.Items[i], false))
	}
	response.SuccessWithPage(c, items, handlershared.BuildPagination(result))
}
