package service

import "errors"

// 通用
var (
	ErrNotFound = errors.New("not found")
)

// 认证与用户
var (
	ErrInvalidEmail        = errors.New("invalid email")
	ErrEmailExists         = errors.New("email already exists")
	ErrInvalidFullName     = errors.New("invalid full name")
	ErrInvalidCredentials  = errors.New("invalid credentials")
	ErrUserDisabled        = errors.New("user disabled")
	ErrUserNotFound        = errors.New("user not found")
	ErrInvalidToken        = errors.New("invalid token")
	ErrInvalidRefreshToken = errors.New("invalid refresh token")
	ErrInvalidPassword     = errors.New("current password incorrect")
	ErrPasswordMismatch    = errors.New("password confirmation mismatch")
	ErrWeakPassword        = errors.New("weak password")
)

// 商品目录
var (
	ErrCategoryNotFound           = errors.New("category not found")
	ErrCategoryNameExists         = errors.New("category name already exists")
	ErrCategoryInUse              = errors.New("category has products")
	ErrInvalidCategoryName        = errors.New("invalid category name")
	ErrInvalidCategoryDescription = errors.New("invalid category description")
	ErrProductNotFound            = errors.New("product not found")
	ErrProductNameExists          = errors.New("product name already exists")
	ErrProductInUse               = errors.New("product has been ordered")
	ErrInvalidProductName         = errors.New("invalid product name")
	ErrInvalidProductDescription  = errors.New("invalid product description")
	ErrInvalidProductImageURL     = errors.New("invalid product image url")
	ErrInvalidProductPrice        = errors.New("invalid product price")
	ErrInvalidProductStock        = errors.New("invalid product stock")
)

// 购物车与订单
var (
	ErrInvalidQuantity        = errors.New("quantity must be at least 1")
	ErrInsufficientStock      = errors.New("insufficient stock")
	ErrCartEmpty              = errors.New("cart is empty")
	ErrCartItemNotFound       = errors.New("cart item not found")
	ErrInvalidShippingAddress = errors.New("invalid shipping address")
	ErrInvalidDateRange       = errors.New("invalid date range")
)

// 邮件
var (
	ErrEmailServiceDisabled      = errors.New("email service disabled")
	ErrEmailServiceNotConfigured = errors.New("email service not configured")
	ErrEmailRecipientRejected    = errors.New("email recipient rejected")
)

// DetailedError 携带文案 key 与参数的业务错误，errors.Is 可匹配到对应哨兵错误
type DetailedError struct {
	target error
	key    string
	args   []interface{}
}

func newDetailedError(target error, key string, args ...interface{}) *DetailedError {
	return &DetailedError{target: target, key: key, args: args}
}

func (e *DetailedError) Error() string {
	if e.target == nil {
		return e.key
	}
	return e.target.Error()
}

// Unwrap 返回哨兵错误
func (e *DetailedError) Unwrap() error {
	return e.target
}

// Key 文案 key
func (e *DetailedError) Key() string {
	return e.key
}

// Args 文案参数
func (e *DetailedError) Args() []interface{} {
	return e.args
}
