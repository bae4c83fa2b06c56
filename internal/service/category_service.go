package service

import (
	"context"
	"strings"
	"time"

	"github.com/onlinestore/internal/cache"
	"github.com/onlinestore/internal/logger"
	"github.com/onlinestore/internal/models"
	"github.com/onlinestore/internal/repository"
)

const (
	categoryNameMaxLength        = 100
	categoryDescriptionMaxLength = 500
)

// CategoryService 分类业务服务
type CategoryService struct {
	repo     repository.CategoryRepository
	cacheTTL time.Duration
}

// NewCategoryService 创建分类服务，cacheTTL 为 0 时不缓存列表
func NewCategoryService(repo repository.CategoryRepository, cacheTTL time.Duration) *CategoryService {
	return &CategoryService{repo: repo, cacheTTL: cacheTTL}
}

// CategoryInput 创建/更新分类输入
type CategoryInput struct {
	Name        string
	Description string
}

// List 获取分类列表（按名称排序），Redis 可用时走缓存
func (s *CategoryService) List(ctx context.Context) ([]models.Category, error) {
	if cached, hit, err := cache.GetCategoryList(ctx); err == nil && hit {
		return cached, nil
	} else if err != nil {
		logger.Warnw("category_cache_read_failed", "error", err)
	}
	categories, err := s.repo.List()
	if err != nil {
		return nil, err
	}
	if err := cache.SetCategoryList(ctx, categories, s.cacheTTL); err != nil {
		logger.Warnw("category_cache_write_failed", "error", err)
	}
	return categories, nil
}

// Get 获取分类
func (s *CategoryService) Get(id uint) (*models.Category, error) {
	category, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if category == nil {
		return nil, ErrCategoryNotFound
	}
	return category, nil
}

// Create 创建分类
func (s *CategoryService) Create(ctx context.Context, input CategoryInput) (*models.Category, error) {
	name, description, err := normalizeCategoryInput(input)
	if err != nil {
		return nil, err
	}
	exists, err := s.repo.ExistsByName(name, 0)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrCategoryNameExists
	}

	category := models.Category{
		Name:        name,
		Description: description,
	}
	if err := s.repo.Create(&category); err != nil {
		return nil, err
	}
	s.invalidate(ctx)
	return &category, nil
}

// Update 更新分类
func (s *CategoryService) Update(ctx context.Context, id uint, input CategoryInput) (*models.Category, error) {
	category, err := s.Get(id)
	if err != nil {
		return nil, err
	}
	name, description, err := normalizeCategoryInput(input)
	if err != nil {
		return nil, err
	}
	exists, err := s.repo.ExistsByName(name, category.ID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrCategoryNameExists
	}

	category.Name = name
	category.Description = description
	if err := s.repo.Update(category); err != nil {
		return nil, err
	}
	s.invalidate(ctx)
	return category, nil
}

// Delete 删除分类，仍有商品时拒绝
func (s *CategoryService) Delete(ctx context.Context, id uint) error {
	if _, err := s.Get(id); err != nil {
		return err
	}
	count, err := s.repo.CountProducts(id)
	if err != nil {
		return err
	}
	if count > 0 {
		return ErrCategoryInUse
	}
	if err := s.repo.Delete(id); err != nil {
		return err
	}
	s.invalidate(ctx)
	return nil
}

func (s *CategoryService) invalidate(ctx context.Context) {
	if err := cache.InvalidateCategoryList(ctx); err != nil {
		logger.Warnw("category_cache_invalidate_failed", "error", err)
	}
}

func normalizeCategoryInput(input CategoryInput) (string, string, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" || len([]rune(name)) > categoryNameMaxLength {
		return "", "", ErrInvalidCategoryName
	}
	description := strings.TrimSpace(input.Description)
	if len([]rune(description)) > categoryDescriptionMaxLength {
		return "", "", ErrInvalidCategoryDescription
	}
	return name, description, nil
}
