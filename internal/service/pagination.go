package service

import "github.com/onlinestore/internal/constants"

// PageResult 分页查询结果
type PageResult[T any] struct {
	Items    []T
	Page     int
	PageSize int
	Total    int64
}

// TotalPage 总页数
func (p PageResult[T]) TotalPage() int64 {
	if p.PageSize <= 0 {
		return 0
	}
	return (p.Total + int64(p.PageSize) - 1) / int64(p.PageSize)
}

func normalizePage(page, pageSize, defaultSize int) (int, int) {
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
