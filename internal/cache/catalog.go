package cache

import (
	"context"
	"time"

	"github.com/onlinestore/internal/models"
)

const categoryListKey = "catalog:categories"

// GetCategoryList 读取分类列表缓存
func GetCategoryList(ctx context.Context) ([]models.Category, bool, error) {
	var categories []models.Category
	hit, err := GetJSON(ctx, categoryListKey, &categories)
	if err != nil || !hit {
		return nil, hit, err
	}
	return categories, true, nil
}

// SetCategoryList 写入分类列表缓存
func SetCategoryList(ctx context.Context, categories []models.Category, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	return SetJSON(ctx, categoryListKey, categories, ttl)
}

// InvalidateCategoryList 分类变更后清理缓存
func InvalidateCategoryList(ctx context.Context) error {
	return Del(ctx, categoryListKey)
}
