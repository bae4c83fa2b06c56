package public

import "github.com/onlinestore/internal/provider"

// Handler 前台/公开接口处理器入口
// 说明：该处理器用于认证、商品浏览、购物车与个人订单 API。
type Handler struct {
	*provider.Container
}

// New 创建前台处理器
func New(c *provider.Container) *Handler {
	return &Handler{Container: c}
}
