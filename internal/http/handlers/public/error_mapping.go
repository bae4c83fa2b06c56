package public

import (
	handlershared "github.com/onlinestore/internal/http/handlers/shared"
	"github.com/onlinestore/internal/http/response"
	"github.com/onlinestore/internal/service"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type mappedHandlerError = handlershared.MappedError

var passwordErrorRules = []mappedHandlerError{
	{Target: service.ErrWeakPassword, Code: response.CodeBadRequest, Key: "error.validation"},
	{Target: service.ErrPasswordMismatch, Code: response.CodeBadRequest, Key: "error.password_mismatch"},
}

var registerErrorRules = handlershared.ConcatMappedErrors([]mappedHandlerError{
	{Target: service.ErrInvalidFullName, Code: response.CodeBadRequest, Key: "error.full_name_invalid"},
	{Target: service.ErrInvalidEmail, Code: response.CodeBadRequest, Key: "error.email_invalid"},
	{Target: service.ErrEmailExists, Code: response.CodeConflict, Key: "error.email_exists"},
}, passwordErrorRules)

var loginErrorRules = []mappedHandlerError{
	{Target: service.ErrInvalidEmail, Code: response.CodeBadRequest, Key: "error.email_invalid"},
	{Target: service.ErrInvalidCredentials, Code: response.CodeUnauthorized, Key: "error.invalid_credentials"},
	{Target: service.ErrUserDisabled, Code: response.CodeUnauthorized, Key: "error.invalid_credentials"},
}

var refreshErrorRules = []mappedHandlerError{
	{Target: service.ErrInvalidRefreshToken, Code: response.CodeUnauthorized, Key: "error.invalid_refresh_token"},
}

var profileErrorRules = []mappedHandlerError{
	{Target: service.ErrUserNotFound, Code: response.CodeNotFound, Key: "error.user_not_found"},
	{Target: service.ErrInvalidFullName, Code: response.CodeBadRequest, Key: "error.full_name_invalid"},
	{Target: service.ErrInvalidEmail, Code: response.CodeBadRequest, Key: "error.email_invalid"},
	{Target: service.ErrEmailExists, Code: response.CodeConflict, Key: "error.email_exists"},
}

var changePasswordErrorRules = handlershared.ConcatMappedErrors([]mappedHandlerError{
	{Target: service.ErrUserNotFound, Code: response.CodeNotFound, Key: "error.user_not_found"},
	{Target: service.ErrInvalidPassword, Code: response.CodeBadRequest, Key: "error.current_password_incorrect"},
}, passwordErrorRules)

var catalogReadErrorRules = []mappedHandlerError{
	{Target: service.ErrProductNotFound, Code: response.CodeNotFound, Key: "error.product_not_found"},
	{Target: service.ErrCategoryNotFound, Code: response.CodeNotFound, Key: "error.category_not_found"},
	{Target: service.ErrNotFound, Code: response.CodeNotFound, Key: "error.not_found"},
}

var cartErrorRules = []mappedHandlerError{
	{Target: service.ErrInvalidQuantity, Code: response.CodeBadRequest, Key: "error.quantity_invalid"},
	{Target: service.ErrProductNotFound, Code: response.CodeNotFound, Key: "error.product_not_found"},
	{Target: service.ErrCartItemNotFound, Code: response.CodeNotFound, Key: "error.cart_item_not_found"},
	{Target: service.ErrInsufficientStock, Code: response.CodeConflict, Key: "error.insufficient_stock"},
}

var checkoutErrorRules = []mappedHandlerError{
	{Target: service.ErrInvalidShippingAddress, Code: response.CodeBadRequest, Key: "error.shipping_address_invalid"},
	{Target: service.ErrCartEmpty, Code: response.CodeBadRequest, Key: "error.cart_empty"},
	{Target: service.ErrProductNotFound, Code: response.CodeNotFound, Key: "error.product_not_found"},
	{Target: service.ErrInsufficientStock, Code: response.CodeConflict, Key: "error.insufficient_stock"},
}

func respondWithMappedError(c *gin.Context, err error, rules []mappedHandlerError) {
	handlershared.RespondWithMappedError(c, err, rules)
}

func respondError(c *gin.Context, code int, key string, err error) {
	handlershared.RespondError(c, code, key, err)
}

func requestLog(c *gin.Context) *zap.SugaredLogger {
	return handlershared.RequestLog(c)
}
