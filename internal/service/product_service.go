package service

import (
	"strings"

	"github.com/onlinestore/internal/constants"
	"github.com/onlinestore/internal/models"
	"github.com/onlinestore/internal/repository"

	"github.com/shopspring/decimal"
)

const (
	productNameMaxLength        = 200
	productDescriptionMaxLength = 1000
	productImageURLMaxLength    = 500
)

// ProductService 商品业务服务
type ProductService struct {
	repo         repository.ProductRepository
	categoryRepo repository.CategoryRepository
	orderRepo    repository.OrderRepository
}

// NewProductService 创建商品服务
func NewProductService(repo repository.ProductRepository, categoryRepo repository.CategoryRepository, orderRepo repository.OrderRepository) *ProductService {
	return &ProductService{
		repo:         repo,
		categoryRepo: categoryRepo,
		orderRepo:    orderRepo,
	}
}

// ProductInput 创建/更新商品输入
type ProductInput struct {
	Name          string
	Description   string
	Price         decimal.Decimal
	ImageURL      string
	StockQuantity int
	CategoryID    uint
}

// ListProductsInput 公开商品列表查询
type ListProductsInput struct {
	CategoryID uint
	Keyword    string
	Page       int
	PageSize   int
}

// ListPublic 查询有库存的商品，按名称排序
func (s *ProductService) ListPublic(input ListProductsInput) (PageResult[models.Product], error) {
	page, pageSize := normalizePage(input.Page, input.PageSize, constants.DefaultProductPageSize)
	products, total, err := s.repo.List(repository.ProductListFilter{
		Page:         page,
		PageSize:     pageSize,
		CategoryID:   input.CategoryID,
		Keyword:      strings.TrimSpace(input.Keyword),
		OnlyInStock:  true,
		WithCategory: true,
	})
	if err != nil {
		return PageResult[models.Product]{}, err
	}
	return PageResult[models.Product]{Items: products, Page: page, PageSize: pageSize, Total: total}, nil
}

// Get 获取商品详情（含分类）
func (s *ProductService) Get(id uint) (*models.Product, error) {
	product, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, ErrProductNotFound
	}
	return product, nil
}

// Create 创建商品
func (s *ProductService) Create(input ProductInput) (*models.Product, error) {
	product := &models.Product{}
	if err := s.apply(product, input); err != nil {
		return nil, err
	}
	if err := s.repo.Create(product); err != nil {
		return nil, err
	}
	return s.Get(product.ID)
}

// Update 更新商品
func (s *ProductService) Update(id uint, input ProductInput) (*models.Product, error) {
	product, err := s.Get(id)
	if err != nil {
		return nil, err
	}
	if err := s.apply(product, input); err != nil {
		return nil, err
	}
	if err := s.repo.Update(product); err != nil {
		return nil, err
	}
	return s.Get(product.ID)
}

// Delete 删除商品，已被下单的商品不可删除
func (s *ProductService) Delete(id uint) error {
	if _, err := s.Get(id); err != nil {
		return err
	}
	count, err := s.orderRepo.CountItemsByProduct(id)
	if err != nil {
		return err
	}
	if count > 0 {
		return ErrProductInUse
	}
	return s.repo.Delete(id)
}

func (s *ProductService) apply(product *models.Product, input ProductInput) error {
	name := strings.TrimSpace(input.Name)
	description := strings.TrimSpace(input.Description)
	imageURL := strings.TrimSpace(input.ImageURL)
	if name == "" || len([]rune(name)) > productNameMaxLength {
		return ErrInvalidProductName
	}
	if len([]rune(description)) > productDescriptionMaxLength {
		return ErrInvalidProductDescription
	}
	if len(imageURL) > productImageURLMaxLength {
		return ErrInvalidProductImageURL
	}
	// 按入库精度（2 位小数）校验
	price := models.NewMoneyFromDecimal(input.Price)
	if !price.IsPositive() {
		return ErrInvalidProductPrice
	}
	if input.StockQuantity < 0 {
		return ErrInvalidProductStock
	}

	category, err := s.categoryRepo.GetByID(input.CategoryID)
	if err != nil {
		return err
	}
	if category == nil {
		return ErrCategoryNotFound
	}
	exists, err := s.repo.ExistsByName(name, product.ID)
	if err != nil {
		return err
	}
	if exists {
		return ErrProductNameExists
	}

	product.Name = name
	product.Description = description
	product.Price = price
	product.ImageURL = imageURL
	product.StockQuantity = input.StockQuantity
	product.CategoryID = category.ID
	product.Category = nil
	return nil
}
