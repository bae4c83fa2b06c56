package public

import (
	"strconv"
	"strings"

	"github.com/onlinestore/internal/constants"
	handlershared "github.com/onlinestore/internal/http/handlers/shared"
	"github.com/onlinestore/internal/http/response"
	"github.com/onlinestore/internal/service"

	"github.com/gin-gonic/gin"
)

// ListProducts 公开商品列表（仅有库存）
func (h *Handler) ListProducts(c *gin.Context) {
	page, pageSize := handlershared.ParsePagination(c, constants.DefaultProductPageSize)
	var categoryID uint
	if raw := strings.TrimSpace(c.Query("categoryId")); raw != "" {
		parsed, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			respondError(c, response.CodeBadRequest, "error.invalid_id", nil)
			return
		}
		categoryID = uint(parsed)
	}

	result, err := h.ProductService.ListPublic(service.ListProductsInput{
		CategoryID: categoryID,
		Keyword:    c.Query("q"),
		Page:       page,
		PageSize:   pageSize,
	})
	if err != nil {
		respondError(c, response.CodeInternal, "error.internal", err)
		return
	}

	items := make([]handlershared.ProductResponse, 0, len(result.Items))
	for i := range result.Items {
		items = append(items, handlershared.NewProductResponse(&result.Items[i]))
	}
	response.SuccessWithPage(c, items, handlershared.BuildPagination(result))
}

// GetProduct 商品详情
func (h *Handler) GetProduct(c *gin.Context) {
	id, ok := handlershared.ParseUintParam(c, "id")
	if !ok {
		return
	}
	product, err := h.ProductService.Get(id)
	if err != nil {
		respondWithMappedError(c, err, catalogReadErrorRules)
		return
	}
	response.Success(c, handlershared.NewProductResponse(product))
}

// ListCategories 分类列表
func (h *Handler) ListCategories(c *gin.Context) {
	categories, err := h.CategoryService.List(c.Request.Context())
	if err != nil {
		respondError(c, response.CodeInternal, "error.internal", err)
		return
	}
	response.Success(c, handlershared.NewCategoryResponses(categories))
}

// GetCategory 分类详情
func (h *Handler) GetCategory(c *gin.Context) {
	id, ok := handlershared.ParseUintParam(c, "id")
	if !ok {
		return
	}
	category, err := h.CategoryService.Get(id)
	if err != nil {
		respondWithMappedError(c, err, catalogReadErrorRules)
		return
	}
	response.Success(c, handlershared.NewCategoryResponse(category))
}
