package admin

import (
	handlershared "github.com/onlinestore/internal/http/handlers/shared"
	"github.com/onlinestore/internal/http/response"
	"github.com/onlinestore/internal/service"

	"github.com/gin-gonic/gin"
)

type mappedHandlerError = handlershared.MappedError

var categoryErrorRules = []mappedHandlerError{
	{Target: service.ErrInvalidCategoryName, Code: response.CodeBadRequest, Key: "error.category_name_invalid"},
	{Target: service.ErrInvalidCategoryDescription, Code: response.CodeBadRequest, Key: "error.category_desc_invalid"},
	{Target: service.ErrCategoryNotFound, Code: response.CodeNotFound, Key: "error.category_not_found"},
	{Target: service.ErrCategoryNameExists, Code: response.CodeConflict, Key: "error.category_name_exists"},
	{Target: service.ErrCategoryInUse, Code: response.CodeConflict, Key: "error.category_in_use"},
}

var productErrorRules = []mappedHandlerError{
	{Target: service.ErrInvalidProductName, Code: response.CodeBadRequest, Key: "error.product_name_invalid"},
	{Target: service.ErrInvalidProductDescription, Code: response.CodeBadRequest, Key: "error.product_desc_invalid"},
	{Target: service.ErrInvalidProductImageURL, Code: response.CodeBadRequest, Key: "error.product_image_invalid"},
	{Target: service.ErrInvalidProductPrice, Code: response.CodeBadRequest, Key: "error.product_price_invalid"},
	{Target: service.ErrInvalidProductStock, Code: response.CodeBadRequest, Key: "error.product_stock_invalid"},
	{Target: service.ErrCategoryNotFound, Code: response.CodeBadRequest, Key: "error.category_not_found"},
	{Target: service.ErrProductNotFound, Code: response.CodeNotFound, Key: "error.product_not_found"},
	{Target: service.ErrProductNameExists, Code: response.CodeConflict, Key: "error.product_name_exists"},
	{Target: service.ErrProductInUse, Code: response.CodeConflict, Key: "error.product_in_use"},
}

var adminOrderErrorRules = []mappedHandlerError{
	{Target: service.ErrInvalidDateRange, Code: response.CodeBadRequest, Key: "error.invalid_date_range"},
}

func respondWithMappedError(c *gin.Context, err error, rules []mappedHandlerError) {
	handlershared.RespondWithMappedError(c, err, rules)
}

func respondError(c *gin.Context, code int, key string, err error) {
	handlershared.RespondError(c, code, key, err)
}
