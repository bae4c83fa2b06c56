package models

import (
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// SeedProduct 示例商品
type SeedProduct struct {
	Name          string
	Description   string
	Price         string
	StockQuantity int
	Category      string
	ImageURL      string
}

// SampleCategories 示例分类
func SampleCategories() []Category {
	return []Category{
		{Name: "Electronics", Description: "Electronic devices and gadgets"},
		{Name: "Clothing", Description: "Apparel and fashion items"},
		{Name: "Groceries", Description: "Everyday food and household goods"},
	}
}

// SampleProducts 示例商品
func SampleProducts() []SeedProduct {
	return []SeedProduct{
		{Name: "Smartphone", Description: "Latest model smartphone with advanced features", Price: "999.99", StockQuantity: 50, Category: "Electronics", ImageURL: "https://via.placeholder.com/300x300?text=Smartphone"},
		{Name: "Laptop", Description: "High-performance laptop for work and gaming", Price: "1299.99", StockQuantity: 25, Category: "Electronics", ImageURL: "https://via.placeholder.com/300x300?text=Laptop"},
		{Name: "T-Shirt", Description: "Comfortable cotton t-shirt", Price: "29.99", StockQuantity: 100, Category: "Clothing", ImageURL: "https://via.placeholder.com/300x300?text=T-Shirt"},
		{Name: "Jeans", Description: "Classic blue denim jeans", Price: "79.99", StockQuantity: 75, Category: "Clothing", ImageURL: "https://via.placeholder.com/300x300?text=Jeans"},
		{Name: "Organic Apples", Description: "Fresh organic apples, 1kg bag", Price: "4.99", StockQuantity: 200, Category: "Groceries", ImageURL: "https://via.placeholder.com/300x300?text=Apples"},
	}
}

// SeedResult 示例数据写入统计
type SeedResult struct {
	CategoriesCreated int
	ProductsCreated   int
}

// SeedSampleCatalog 写入示例分类与商品，按名称跳过已存在记录
func SeedSampleCatalog(db *gorm.DB) (SeedResult, error) {
	var result SeedResult
	err := db.Transaction(func(tx *gorm.DB) error {
		categoryIDs := make(map[string]uint)
		for _, seed := range SampleCategories() {
			category := seed
			res := tx.Where("name = ?", category.Name).FirstOrCreate(&category)
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected > 0 {
				result.CategoriesCreated++
			}
			categoryIDs[category.Name] = category.ID
		}

		for _, seed := range SampleProducts() {
			price, err := decimal.NewFromString(seed.Price)
			if err != nil {
				return err
			}
			product := Product{
				Name:          seed.Name,
				Description:   seed.Description,
				Price:         NewMoneyFromDecimal(price),
				ImageURL:      seed.ImageURL,
				StockQuantity: seed.StockQuantity,
				CategoryID:    categoryIDs[seed.Category],
			}
			res := tx.Where("name = ?", product.Name).FirstOrCreate(&product)
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected > 0 {
				result.ProductsCreated++
			}
		}
		return nil
	})
	return result, err
}
