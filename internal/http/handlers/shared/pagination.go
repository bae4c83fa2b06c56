package shared

import (
	"strconv"
	"strings"

	"github.com/onlinestore/internal/constants"
	"github.com/onlinestore/internal/http/response"

	"github.com/gin-gonic/gin"
)

// NormalizePagination 归一化分页参数。
func NormalizePagination(page, pageSize, defaultSize int) (int, int) {
	if page < 1 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = defaultSize
	}
	if pageSize > constants.MaxPageSize {
		pageSize = constants.MaxPageSize
	}
	return page, pageSize
}

// ParsePagination 读取 pageNumber/pageSize 查询参数，非法值按默认处理
func ParsePagination(c *gin.Context, defaultSize int) (int, int) {
	page, _ := strconv.Atoi(strings.TrimSpace(c.Query("pageNumber")))
	pageSize, _ := strconv.Atoi(strings.TrimSpace(c.Query("pageSize")))
	return NormalizePagination(page, pageSize, defaultSize)
}

// ParseUintParam 解析路径中的 uint 参数
func ParseUintParam(c *gin.Context, name string) (uint, bool) {
	raw, err := strconv.ParseUint(strings.TrimSpace(c.Param(name)), 10, 64)
	if err != nil || raw == 0 {
		RespondError(c, response.CodeBadRequest, "error.invalid_id", nil)
		return 0, false
	}
	return uint(raw), true
}
