package admin

import (
	"strconv"
	"strings"

	"github.com/onlinestore/internal/constants"
	handlershared "github.com/onlinestore/internal/http/handlers/shared"
	"github.com/onlinestore/internal/http/response"
	"github.com/onlinestore/internal/models"
	"github.com/onlinestore/internal/repository"
	"github.com/onlinestore/internal/service"

	"github.com/gin-gonic/gin"
)

// GetUserLoginLogs 获取用户登录日志列表
func (h *Handler) GetUserLoginLogs(c *gin.Context) {
	page, pageSize := handlershared.ParsePagination(c, constants.DefaultLoginLogPageSize)

	var userID uint
	if raw := strings.TrimSpace(c.Query("user_id")); raw != "" {
		parsed, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			respondError(c, response.CodeBadRequest, "error.invalid_id", nil)
			return
		}
		userID = uint(parsed)
	}

	logs, total, err := h.UserLoginLogService.ListForAdmin(repository.UserLoginLogListFilter{
		Page:     page,
		PageSize: pageSize,
		UserID:   userID,
		Email:    strings.TrimSpace(c.Query("email")),
		Status:   strings.TrimSpace(c.Query("status")),
	})
	if err != nil {
		respondError(c, response.CodeInternal, "error.internal", err)
		return
	}

	response.SuccessWithPage(c, logs, handlershared.BuildPagination(service.PageResult[models.UserLoginLog]{
		Items:    logs,
		Page:     page,
		PageSize: pageSize,
		Total:    total,
	}))
}
