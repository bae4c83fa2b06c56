package admin

import (
	handlershared "github.com/onlinestore/internal/http/handlers/shared"
	"github.com/onlinestore/internal/http/response"
	"github.com/onlinestore/internal/i18n"
	"github.com/onlinestore/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// CategoryRequest 分类创建/更新请求
type CategoryRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
}

// ProductRequest 商品创建/更新请求
type ProductRequest struct {
	Name          string          `json:"name" binding:"required"`
	Description   string          `json:"description"`
	Price         decimal.Decimal `json:"price"`
	ImageURL      string          `json:"image_url"`
	StockQuantity int             `json:"stock_quantity"`
	CategoryID    uint            `json:"category_id" binding:"required"`
}

func (r ProductRequest) toInput() service.ProductInput {
	return service.ProductInput{
		Name:          r.Name,
		Description:   r.Description,
		Price:         r.Price,
		ImageURL:      r.ImageURL,
		StockQuantity: r.StockQuantity,
		CategoryID:    r.CategoryID,
	}
}

// CreateCategory 创建分类
func (h *Handler) CreateCategory(c *gin.Context) {
	var req CategoryRequest
	if !handlershared.BindJSON(c, &req) {
		return
	}
	category, err := h.CategoryService.Create(c.Request.Context(), service.CategoryInput{
		Name:        req.Name,
		Description: req.Description,
	})
	if err != nil {
		respondWithMappedError(c, err, categoryErrorRules)
		return
	}
	response.Created(c, handlershared.NewCategoryResponse(category))
}

// UpdateCategory 更新分类
func (h *Handler) UpdateCategory(c *gin.Context) {
	id, ok := handlershared.ParseUintParam(c, "id")
	if !ok {
		return
	}
	var req CategoryRequest
	if !handlershared.BindJSON(c, &req) {
		return
	}
	category, err := h.CategoryService.Update(c.Request.Context(), id, service.CategoryInput{
		Name:        req.Name,
		Description: req.Description,
	})
	if err != nil {
		respondWithMappedError(c, err, categoryErrorRules)
		return
	}
	response.Success(c, handlershared.NewCategoryResponse(category))
}

// DeleteCategory 删除分类，仍有商品时拒绝
func (h *Handler) DeleteCategory(c *gin.Context) {
	id, ok := handlershared.ParseUintParam(c, "id")
	if !ok {
		return
	}
	if err := h.CategoryService.Delete(c.Request.Context(), id); err != nil {
		respondWithMappedError(c, err, categoryErrorRules)
		return
	}
	response.SuccessWithMsg(c, i18n.T(i18n.ResolveLocale(c), "message.category_deleted"), nil)
}

// CreateProduct 创建商品
func (h *Handler) CreateProduct(c *gin.Context) {
	var req ProductRequest
	if !handlershared.BindJSON(c, &req) {
		return
	}
	product, err := h.ProductService.Create(req.toInput())
	if err != nil {
		respondWithMappedError(c, err, productErrorRules)
		return
	}
	response.Created(c, handlershared.NewProductResponse(product))
}

// UpdateProduct 更新商品
func (h *Handler) UpdateProduct(c *gin.Context) {
	id, ok := handlershared.ParseUintParam(c, "id")
	if !ok {
		return
	}
	var req ProductRequest
	if !handlershared.BindJSON(c, &req) {
		return
	}
	product, err := h.ProductService.Update(id, req.toInput())
	if err != nil {
		respondWithMappedError(c, err, productErrorRules)
		return
	}
	response.Success(c, handlershared.NewProductResponse(product))
}

// DeleteProduct 删除商品，已被下单时拒绝
func (h *Handler) DeleteProduct(c *gin.Context) {
	id, ok := handlershared.ParseUintParam(c, "id")
	if !ok {
		return
	}
	if err := h.ProductService.Delete(id); err != nil {
		respondWithMappedError(c, err, productErrorRules)
		return
	}
	response.SuccessWithMsg(c, i18n.T(i18n.ResolveLocale(c), "message.product_deleted"), nil)
}
