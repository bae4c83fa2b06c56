package provider

import (
	"time"

	"github.com/onlinestore/internal/authz"
	"github.com/onlinestore/internal/cache"
	"github.com/onlinestore/internal/config"
	"github.com/onlinestore/internal/events"
	"github.com/onlinestore/internal/logger"
	"github.com/onlinestore/internal/models"
	"github.com/onlinestore/internal/queue"
	"github.com/onlinestore/internal/repository"
	"github.com/onlinestore/internal/service"
)

// Container 依赖注入容器
type Container struct {
	Config         *config.Config
	QueueClient    *queue.Client
	EventPublisher *events.Publisher

	// Repositories
	UserRepo         repository.UserRepository
	RefreshTokenRepo repository.RefreshTokenRepository
	UserLoginLogRepo repository.UserLoginLogRepository
	CategoryRepo     repository.CategoryRepository
	ProductRepo      repository.ProductRepository
	CartRepo         repository.CartRepository
	OrderRepo        repository.OrderRepository

	// Services
	AuthzService        *authz.Service
	AuthService         *service.AuthService
	UserLoginLogService *service.UserLoginLogService
	EmailService        *service.EmailService
	CategoryService     *service.CategoryService
	ProductService      *service.ProductService
	CartService         *service.CartService
	OrderService        *service.OrderService
	OrderNotifier       *service.OrderNotifier
}

// NewContainer 初始化容器
func NewContainer(cfg *config.Config) *Container {
	// 初始化缓存
	if err := cache.InitRedis(&cfg.Redis); err != nil {
		logger.Warnw("provider_init_redis_failed", "error", err)
	}

	// 初始化队列客户端
	var queueClient *queue.Client
	if cfg.Queue.Enabled {
		qc, err := queue.NewClient(&cfg.Queue)
		if err != nil {
			logger.Errorw("provider_init_queue_client_failed", "error", err)
		} else {
			queueClient = qc
		}
	}

	c := &Container{
		Config:         cfg,
		QueueClient:    queueClient,
		EventPublisher: events.NewPublisher(&cfg.Kafka),
	}

	// 1. 初始化 Repositories
	c.initRepositories()

	// 2. 初始化 Services
	c.initServices()

	// 3. 预置角色与管理员
	c.bootstrapAdmin()

	return c
}

func (c *Container) initRepositories() {
	db := models.DB
	c.UserRepo = repository.NewUserRepository(db)
	c.RefreshTokenRepo = repository.NewRefreshTokenRepository(db)
	c.UserLoginLogRepo = repository.NewUserLoginLogRepository(db)
	c.CategoryRepo = repository.NewCategoryRepository(db)
	c.ProductRepo = repository.NewProductRepository(db)
	c.CartRepo = repository.NewCartRepository(db)
	c.OrderRepo = repository.NewOrderRepository(db)
}

func (c *Container) initServices() {
	authzService, err := authz.NewService(models.DB)
	if err != nil {
		logger.Errorw("provider_init_authz_failed", "error", err)
		panic(err)
	}
	c.AuthzService = authzService
	if err := c.AuthzService.BootstrapBuiltinRoles(); err != nil {
		logger.Errorw("provider_bootstrap_builtin_roles_failed", "error", err)
		panic(err)
	}

	categoryCacheTTL := time.Duration(c.Config.Catalog.CategoryCacheSeconds) * time.Second

	c.EmailService = service.NewEmailService(&c.Config.Email)
	c.AuthService = service.NewAuthService(c.Config, c.UserRepo, c.RefreshTokenRepo, c.AuthzService)
	c.UserLoginLogService = service.NewUserLoginLogService(c.UserLoginLogRepo)
	c.CategoryService = service.NewCategoryService(c.CategoryRepo, categoryCacheTTL)
	c.ProductService = service.NewProductService(c.ProductRepo, c.CategoryRepo, c.OrderRepo)
	c.CartService = service.NewCartService(c.CartRepo, c.ProductRepo)
	c.OrderService = service.NewOrderService(c.OrderRepo, c.CartRepo, c.ProductRepo, c.orderTaskQueue(), c.orderEventPublisher())
	c.OrderNotifier = service.NewOrderNotifier(c.OrderRepo, c.EmailService, c.Config.Email.Locale)
}

// 队列或 Kafka 未启用时返回 nil 接口，下单后跳过对应投递
func (c *Container) orderTaskQueue() service.OrderTaskQueue {
	if c.QueueClient == nil || !c.QueueClient.Enabled() {
		return nil
	}
	return c.QueueClient
}

func (c *Container) orderEventPublisher() service.OrderEventPublisher {
	if c.EventPublisher == nil || !c.EventPublisher.Enabled() {
		return nil
	}
	return c.EventPublisher
}

func (c *Container) bootstrapAdmin() {
	admin, err := models.InitDefaultAdmin(models.DB, c.Config.Admin.Email, c.Config.Admin.Password, c.Config.Admin.FullName)
	if err != nil {
		logger.Errorw("provider_init_default_admin_failed", "error", err)
		panic(err)
	}
	if err := c.AuthzService.SetUserRoles(admin.ID, []string{authz.RoleAdmin, authz.RoleCustomer}); err != nil {
		logger.Errorw("provider_assign_admin_role_failed", "user_id", admin.ID, "error", err)
		panic(err)
	}
}

// Close 释放外部连接
func (c *Container) Close() {
	if c == nil {
		return
	}
	if c.QueueClient != nil {
		if err := c.QueueClient.Close(); err != nil {
			logger.Warnw("provider_close_queue_client_failed", "error", err)
		}
	}
	if c.EventPublisher != nil {
		if err := c.EventPublisher.Close(); err != nil {
			logger.Warnw("provider_close_event_publisher_failed", "error", err)
		}
	}
	if err := cache.Close(); err != nil {
		logger.Warnw("provider_close_redis_failed", "error", err)
	}
}
