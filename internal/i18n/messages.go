package i18n

var messagesEN = map[string]string{
	"error.bad_request":                 "Invalid request.",
	"error.validation":                  "One or more validation errors occurred.",
	"error.unauthorized":                "Unauthorized.",
	"error.token_invalid":               "Invalid or expired token.",
	"error.forbidden":                   "You do not have permission to perform this action.",
	"error.not_found":                   "Resource not found.",
	"error.internal":                    "An error occurred while processing your request.",
	"error.too_many_requests":           "Too many requests, please try again later.",
	"error.login_too_many_attempts":     "Too many login attempts, please try again later.",
	"error.register_too_many_attempts":  "Too many registration attempts, please try again later.",
	"error.invalid_id":                  "Invalid id.",
	"error.invalid_date":                "Invalid date, expected YYYY-MM-DD.",
	"error.invalid_date_range":          "Start date must not be after end date.",
	"error.auth_header_missing":         "Authorization header is required.",
	"error.auth_header_invalid":         "Authorization header must use the Bearer scheme.",
	"error.rate_limit_unavailable":      "Rate limiter unavailable, please try again later.",
	"error.invalid_credentials":         "Invalid credentials.",
	"error.email_invalid":               "A valid email address is required.",
	"error.email_exists":                "User with this email already exists.",
	"error.full_name_invalid":           "Full name must be between 2 and 100 characters.",
	"error.invalid_refresh_token":       "Invalid refresh token.",
	"error.current_password_incorrect":  "Current password is incorrect.",
	"error.password_mismatch":           "Passwords do not match.",
	"error.password_too_short":          "Password must be at least %d characters long.",
	"error.password_require_upper":      "Password must contain at least one uppercase letter.",
	"error.password_require_lower":      "Password must contain at least one lowercase letter.",
	"error.password_require_number":     "Password must contain at least one number.",
	"error.password_require_special":    "Password must contain at least one special character.",
	"error.user_not_found":              "User not found.",
	"error.category_not_found":          "Category not found.",
	"error.category_name_exists":        "Category name already exists.",
	"error.category_in_use":             "Cannot delete category that has products.",
	"error.category_name_invalid":       "Category name is required and must be at most 100 characters.",
	"error.category_desc_invalid":       "Category description must be at most 500 characters.",
	"error.product_not_found":           "Product not found.",
	"error.product_not_found_id":        "Product %d not found.",
	"error.product_name_exists":         "Product name already exists.",
	"error.product_in_use":              "Cannot delete product that has been ordered.",
	"error.product_name_invalid":        "Product name is required and must be at most 200 characters.",
	"error.product_desc_invalid":        "Product description must be at most 1000 characters.",
	"error.product_image_invalid":       "Image URL must be at most 500 characters.",
	"error.product_price_invalid":       "Price must be greater than 0.",
	"error.product_stock_invalid":       "Stock quantity cannot be negative.",
	"error.insufficient_stock":          "Insufficient stock for product %s.",
	"error.cart_empty":                  "Cart is empty.",
	"error.cart_item_not_found":         "Item not found in cart.",
	"error.quantity_invalid":            "Quantity must be greater than 0.",
	"error.shipping_address_invalid":    "Shipping address must be between 10 and 500 characters.",
	"message.logout_success":            "Logged out successfully",
	"message.password_changed":          "Password changed successfully",
	"message.category_deleted":          "Category deleted successfully",
	"message.product_deleted":           "Product deleted successfully",
	"email.order_confirmation.subject":  "Order #%d confirmed",
	"email.order_confirmation.greeting": "Hi %s,",
	"email.order_confirmation.intro":    "Thank you for your order. We have received it and it is now %s.",
	"email.order_confirmation.line":     "- %s x %d @ %s = %s",
	"email.order_confirmation.total":    "Total: %s",
	"email.order_confirmation.address":  "Shipping to: %s",
	"order.status.pending":              "pending",
	"order.status.processing":           "processing",
	"order.status.shipped":              "shipped",
	"order.status.delivered":            "delivered",
	"order.status.cancelled":            "cancelled",
}

var messagesZH = map[string]string{
	"error.bad_request":                 "请求参数错误",
	"error.validation":                  "请求参数校验失败",
	"error.unauthorized":                "未登录或登录已失效",
	"error.token_invalid":               "令牌无效或已过期",
	"error.forbidden":                   "没有权限执行该操作",
	"error.not_found":                   "资源不存在",
	"error.internal":                    "服务器处理请求时发生错误",
	"error.too_many_requests":           "请求过于频繁，请稍后再试",
	"error.login_too_many_attempts":     "登录尝试次数过多，请稍后再试",
	"error.register_too_many_attempts":  "注册尝试次数过多，请稍后再试",
	"error.invalid_id":                  "ID 无效",
	"error.invalid_date":                "日期格式错误，应为 YYYY-MM-DD",
	"error.invalid_date_range":          "开始日期不能晚于结束日期",
	"error.auth_header_missing":         "缺少 Authorization 请求头",
	"error.auth_header_invalid":         "Authorization 请求头需使用 Bearer 格式",
	"error.rate_limit_unavailable":      "限流服务不可用，请稍后再试",
	"error.invalid_credentials":         "账号或密码错误",
	"error.email_invalid":               "邮箱格式不正确",
	"error.email_exists":                "该邮箱已被注册",
	"error.full_name_invalid":           "姓名长度需在 2 到 100 个字符之间",
	"error.invalid_refresh_token":       "刷新令牌无效",
	"error.current_password_incorrect":  "当前密码错误",
	"error.password_mismatch":           "两次输入的密码不一致",
	"error.password_too_short":          "密码长度至少为 %d 位",
	"error.password_require_upper":      "密码必须包含大写字母",
	"error.password_require_lower":      "密码必须包含小写字母",
	"error.password_require_number":     "密码必须包含数字",
	"error.password_require_special":    "密码必须包含特殊字符",
	"error.user_not_found":              "用户不存在",
	"error.category_not_found":          "分类不存在",
	"error.category_name_exists":        "分类名称已存在",
	"error.category_in_use":             "分类下仍有商品，无法删除",
	"error.category_name_invalid":       "分类名称不能为空且不超过 100 个字符",
	"error.category_desc_invalid":       "分类描述不超过 500 个字符",
	"error.product_not_found":           "商品不存在",
	"error.product_not_found_id":        "商品 %d 不存在",
	"error.product_name_exists":         "商品名称已存在",
	"error.product_in_use":              "商品已有订单记录，无法删除",
	"error.product_name_invalid":        "商品名称不能为空且不超过 200 个字符",
	"error.product_desc_invalid":        "商品描述不超过 1000 个字符",
	"error.product_image_invalid":       "图片地址不超过 500 个字符",
	"error.product_price_invalid":       "价格必须大于 0",
	"error.product_stock_invalid":       "库存数量不能为负数",
	"error.insufficient_stock":          "商品 %s 库存不足",
	"error.cart_empty":                  "购物车为空",
	"error.cart_item_not_found":         "购物车中没有该商品",
	"error.quantity_invalid":            "数量必须大于 0",
	"error.shipping_address_invalid":    "收货地址长度需在 10 到 500 个字符之间",
	"message.logout_success":            "已退出登录",
	"message.password_changed":          "密码修改成功",
	"message.category_deleted":          "分类已删除",
	"message.product_deleted":           "商品已删除",
	"email.order_confirmation.subject":  "订单 #%d 已确认",
	"email.order_confirmation.greeting": "%s，您好：",
	"email.order_confirmation.intro":    "感谢您的订购，我们已收到订单，当前状态：%s。",
	"email.order_confirmation.line":     "- %s x %d @ %s = %s",
	"email.order_confirmation.total":    "合计：%s",
	"email.order_confirmation.address":  "收货地址：%s",
	"order.status.pending":              "待处理",
	"order.status.processing":           "处理中",
	"order.status.shipped":              "已发货",
	"order.status.delivered":            "已送达",
	"order.status.cancelled":            "已取消",
}
