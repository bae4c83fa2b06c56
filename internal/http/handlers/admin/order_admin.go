package admin

import (
	"strings"
	"time"

	"github.com/onlinestore/internal/constants"
	handlershared "github.com/onlinestore/internal/http/handlers/shared"
	"github.com/onlinestore/internal/http/response"
	"github.com/onlinestore/internal/service"

	"github.com/gin-gonic/gin"
)

const dateLayout = "2006-01-02"

// ListOrders 后台订单列表，支持邮箱与日期筛选
func (h *Handler) ListOrders(c *gin.Context) {
	page, pageSize := handlershared.ParsePagination(c, constants.DefaultAdminOrderPageSize)
	dateFrom, err := parseDateNullable(c.Query("dateFrom"))
	if err != nil {
		respondWithMappedError(c, err, adminOrderErrorRules)
		return
	}
	dateTo, err := parseDateNullable(c.Query("dateTo"))
	if err != nil {
		respondWithMappedError(c, err, adminOrderErrorRules)
		return
	}

	result, err := h.OrderService.ListAdminOrders(service.AdminOrderQuery{
		Email:    c.Query("email"),
		DateFrom: dateFrom,
		DateTo:   dateTo,
		Page:     page,
		PageSize: pageSize,
	})
	if err != nil {
		respondWithMappedError(c, err, adminOrderErrorRules)
		return
	}

	items := make([]handlershared.OrderResponse, 0, len(result.Items))
	for i := range result.Items {
		items = append(items, handlershared.NewOrderResponse(&result.Items[i], true))
	}
	response.SuccessWithPage(c, items, handlershared.BuildPagination(result))
}

func parseDateNullable(raw string) (*time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	parsed, err := time.ParseInLocation(dateLayout, raw, time.UTC)
	if err != nil {
		return nil, response.BadRequestError("error.invalid_date", err)
	}
	return &parsed, nil
}
