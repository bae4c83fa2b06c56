package main

import (
	"github.com/onlinestore/internal/config"
	"github.com/onlinestore/internal/logger"
	"github.com/onlinestore/internal/models"
)

func main() {
	// 连接数据库
	cfg := config.Load()
	logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	defer logger.Sync()
	stdLog := logger.StdLogger()
	if err := models.InitDB(cfg.Database.Driver, cfg.Database.DSN, cfg.Server.Mode, models.DBPoolConfig{
		MaxOpenConns:           cfg.Database.Pool.MaxOpenConns,
		MaxIdleConns:           cfg.Database.Pool.MaxIdleConns,
		ConnMaxLifetimeSeconds: cfg.Database.Pool.ConnMaxLifetimeSeconds,
		ConnMaxIdleTimeSeconds: cfg.Database.Pool.ConnMaxIdleTimeSeconds,
	}); err != nil {
		stdLog.Fatalf("Failed to connect database: %v", err)
	}

	// 自动迁移
	if err := models.AutoMigrate(); err != nil {
		stdLog.Fatalf("Failed to migrate database: %v", err)
	}

	result, err := models.SeedSampleCatalog(models.DB)
	if err != nil {
		stdLog.Fatalf("Failed to seed catalog: %v", err)
	}
	logger.Infow("seed_catalog_completed",
		"categories_created", result.CategoriesCreated,
		"products_created", result.ProductsCreated,
	)
}
