package public

import (
	handlershared "github.com/onlinestore/internal/http/handlers/shared"
	"github.com/onlinestore/internal/http/response"

	"github.com/gin-gonic/gin"
)

// AddCartItemRequest 加入购物车请求
type AddCartItemRequest struct {
	ProductID uint `json:"product_id" binding:"required"`
	Quantity  int  `json:"quantity"`
}

// UpdateCartItemRequest 修改购物车数量请求，数量为 0 时移除
type UpdateCartItemRequest struct {
	Quantity *int `json:"quantity" binding:"required"`
}

// GetCart 获取购物车
func (h *Handler) GetCart(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	view, err := h.CartService.Get(uid)
	if err != nil {
		respondWithMappedError(c, err, cartErrorRules)
		return
	}
	response.Success(c, view)
}

// AddCartItem 加入购物车，已存在时累加数量
func (h *Handler) AddCartItem(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	var req AddCartItemRequest
	if !handlershared.BindJSON(c, &req) {
		return
	}
	view, err := h.CartService.AddItem(uid, req.ProductID, req.Quantity)
	if err != nil {
		respondWithMappedError(c, err, cartErrorRules)
		return
	}
	response.Success(c, view)
}

// UpdateCartItem 设置购物车行数量
func (h *Handler) UpdateCartItem(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	productID, ok := handlershared.ParseUintParam(c, "productId")
	if !ok {
		return
	}
	var req UpdateCartItemRequest
	if !handlershared.BindJSON(c, &req) {
		return
	}
	view, err := h.CartService.UpdateItem(uid, productID, *req.Quantity)
	if err != nil {
		respondWithMappedError(c, err, cartErrorRules)
		return
	}
	response.Success(c, view)
}

// RemoveCartItem 移除购物车行
func (h *Handler) RemoveCartItem(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	productID, ok := handlershared.ParseUintParam(c, "productId")
	if !ok {
		return
	}
	view, err := h.CartService.RemoveItem(uid, productID)
	if err != nil {
		respondWithMappedError(c, err, cartErrorRules)
		return
	}
	response.Success(c, view)
}

// ClearCart 清空购物车
func (h *Handler) ClearCart(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	view, err := h.CartService.Clear(uid)
	if err != nil {
		respondWithMappedError(c, err, cartErrorRules)
		return
	}
	response.Success(c, view)
}
