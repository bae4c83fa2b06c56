package constants

// 角色常量
const (
	RoleAdmin    = "admin"
	RoleCustomer = "customer"
)

// 订单状态常量
const (
	OrderStatusPending    = "pending"
	OrderStatusProcessing = "processing"
	OrderStatusShipped    = "shipped"
	OrderStatusDelivered  = "delivered"
	OrderStatusCancelled  = "cancelled"
)

// 用户状态常量
const (
	UserStatusActive   = "active"
	UserStatusDisabled = "disabled"
)

// 登录日志状态常量
const (
	LoginLogStatusSuccess = "success"
	LoginLogStatusFailed  = "failed"
)

// 登录失败原因常量
const (
	LoginLogFailReasonBadRequest         = "bad_request"
	LoginLogFailReasonInvalidEmail       = "invalid_email"
	LoginLogFailReasonInvalidCredentials = "invalid_credentials"
	LoginLogFailReasonUserDisabled       = "user_disabled"
	LoginLogFailReasonInternalError      = "internal_error"
)

// 登录来源常量
const (
	LoginLogSourceWeb     = "web"
	LoginLogSourceRefresh = "refresh"
)

// 分页默认值
const (
	DefaultProductPageSize    = 20
	DefaultMyOrderPageSize    = 10
	DefaultAdminOrderPageSize = 20
	DefaultLoginLogPageSize   = 20
	MaxPageSize               = 100
)

// 队列与任务常量
const (
	QueueDefault               = "default"
	QueueCritical              = "critical"
	TaskOrderConfirmationEmail = "order:confirmation_email"
)

// 领域事件常量
const (
	EventTypeOrderPlaced    = "order.placed"
	EventVersionOrderPlaced = 1
)
