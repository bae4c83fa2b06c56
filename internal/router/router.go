package router

import (
	"context"
	"fmt"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/onlinestore/internal/authz"
	"github.com/onlinestore/internal/cache"
	"github.com/onlinestore/internal/config"
	adminhandlers "github.com/onlinestore/internal/http/handlers/admin"
	publichandlers "github.com/onlinestore/internal/http/handlers/public"
	"github.com/onlinestore/internal/http/response"
	"github.com/onlinestore/internal/i18n"
	"github.com/onlinestore/internal/logger"
	"github.com/onlinestore/internal/models"
	"github.com/onlinestore/internal/provider"

	"github.com/gin-gonic/gin"
)

const healthCheckTimeout = 2 * time.Second

// SetupRouter 初始化路由
func SetupRouter(cfg *config.Config, c *provider.Container) *gin.Engine {
	log := logger.L
	if log == nil {
		log = logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	}
	r := gin.New()

	// 初始化 Handler（按前台/后台分组）
	publicHandler := publichandlers.New(c)
	adminHandler := adminhandlers.New(c)
	redisClient := cache.Client()
	loginRule, registerRule := authRateLimitRules(cfg)

	// 中间件
	r.Use(RequestIDMiddleware())
	r.Use(RecoveryMiddleware(log))
	r.Use(LoggerMiddleware(log))
	r.Use(CORSMiddleware(cfg.CORS))

	bearer := []gin.HandlerFunc{
		UserJWTAuthMiddleware(c.AuthService),
		RBACMiddleware(c.AuthzService),
	}

	api := r.Group("/api")
	{
		// 认证接口
		auth := api.Group("/Auth")
		{
			auth.POST("/register", RateLimitMiddleware(redisClient, registerRule, KeyByIP), publicHandler.Register)
			auth.POST("/login", RateLimitMiddleware(redisClient, loginRule, KeyByIPAndJSONField("email")), publicHandler.Login)
			auth.POST("/refresh", publicHandler.Refresh)
			auth.POST("/logout", publicHandler.Logout)

			account := auth.Group("", bearer...)
			account.GET("/profile", publicHandler.GetProfile)
			account.PUT("/profile", publicHandler.UpdateProfile)
			account.POST("/change-password", publicHandler.ChangePassword)
		}

		// 公开商品目录
		api.GET("/Products", publicHandler.ListProducts)
		api.GET("/Products/:id", publicHandler.GetProduct)
		api.GET("/Categories", publicHandler.ListCategories)
		api.GET("/Categories/:id", publicHandler.GetCategory)

		// 需鉴权接口，权限由 Casbin 按路由模板判定
		authorized := api.Group("", bearer...)
		{
			// 商品与分类管理
			authorized.POST("/Products", adminHandler.CreateProduct)
			authorized.PUT("/Products/:id", adminHandler.UpdateProduct)
			authorized.DELETE("/Products/:id", adminHandler.DeleteProduct)
			authorized.POST("/Categories", adminHandler.CreateCategory)
			authorized.PUT("/Categories/:id", adminHandler.UpdateCategory)
			authorized.DELETE("/Categories/:id", adminHandler.DeleteCategory)

			// 购物车
			authorized.GET("/Cart", publicHandler.GetCart)
			authorized.DELETE("/Cart", publicHandler.ClearCart)
			authorized.POST("/Cart/items", publicHandler.AddCartItem)
			authorized.PUT("/Cart/items/:productId", publicHandler.UpdateCartItem)
			authorized.DELETE("/Cart/items/:productId", publicHandler.RemoveCartItem)

			// 订单
			authorized.POST("/Orders/checkout", publicHandler.Checkout)
			authorized.GET("/Orders/my", publicHandler.ListMyOrders)
			authorized.GET("/Orders/admin", adminHandler.ListOrders)

			// 后台审计
			authorized.GET("/Admin/login-logs", adminHandler.GetUserLoginLogs)
			authorized.GET("/Admin/permissions", func(ctx *gin.Context) {
				catalog, err := buildPermissionCatalog(r, c.AuthzService)
				if err != nil {
					requestID := getRequestID(ctx)
					logger.ForRequest(requestID).Errorw("permission_catalog_failed", "error", err)
					response.InternalError(ctx, requestID, i18n.T(i18n.ResolveLocale(ctx), "error.internal"))
					return
				}
				response.Success(ctx, catalog)
			})
		}
	}

	// 健康检查
	r.GET("/health", healthHandler)

	return r
}

func healthHandler(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), healthCheckTimeout)
	defer cancel()

	checks := gin.H{"database": "ok", "redis": "disabled"}
	healthy := true
	if err := pingDatabase(ctx); err != nil {
		checks["database"] = err.Error()
		healthy = false
	}
	if cache.Enabled() {
		checks["redis"] = "ok"
		if err := cache.Ping(ctx); err != nil {
			checks["redis"] = err.Error()
			healthy = false
		}
	}

	if !healthy {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded", "checks": checks})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok", "checks": checks})
}

func pingDatabase(ctx context.Context) error {
	if models.DB == nil {
		return fmt.Errorf("database not initialized")
	}
	sqlDB, err := models.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// RolePolicyReader 列出角色并按角色判定授权
type RolePolicyReader interface {
	ListRoles() ([]string, error)
	Enforce(sub, obj, act string) (bool, error)
}

type permissionCatalogItem struct {
	Module     string   `json:"module"`
	Method     string   `json:"method"`
	Object     string   `json:"object"`
	Permission string   `json:"permission"`
	SkipAuthz  bool     `json:"skip_authz"`
	Roles      []string `json:"roles"`
}

// buildPermissionCatalog 汇总 /api 路由对应的授权对象及授予它的角色，匿名路由标记 skip_authz
func buildPermissionCatalog(engine *gin.Engine, policies RolePolicyReader) ([]permissionCatalogItem, error) {
	if engine == nil {
		return []permissionCatalogItem{}, nil
	}
	var roles []string
	if policies != nil {
		listed, err := policies.ListRoles()
		if err != nil {
			return nil, err
		}
		roles = listed
	}

	routes := engine.Routes()
	seen := make(map[string]struct{}, len(routes))
	items := make([]permissionCatalogItem, 0, len(routes))

	for _, item := range routes {
		method := strings.ToUpper(strings.TrimSpace(item.Method))
		if method == "" || method == http.MethodOptions || method == http.MethodHead {
			continue
		}
		if !strings.HasPrefix(item.Path, "/api/") {
			continue
		}
		object := authz.NormalizeObject(item.Path)
		permission := method + ":" + object
		if _, exists := seen[permission]; exists {
			continue
		}
		seen[permission] = struct{}{}
		entry := permissionCatalogItem{
			Module:     derivePermissionModule(object),
			Method:     method,
			Object:     object,
			Permission: permission,
			SkipAuthz:  isAnonymousRoute(method, item.Path),
			Roles:      []string{},
		}
		if !entry.SkipAuthz {
			for _, role := range roles {
				allowed, err := policies.Enforce(role, object, method)
				if err != nil {
					return nil, err
				}
				if allowed {
					entry.Roles = append(entry.Roles, authz.RoleName(role))
				}
			}
		}
		items = append(items, entry)
	}

	sort.Slice(items, func(i, j int) bool {
		if items[i].Module == items[j].Module {
			if items[i].Object == items[j].Object {
				return items[i].Method < items[j].Method
			}
			return items[i].Object < items[j].Object
		}
		return items[i].Module < items[j].Module
	})

	return items, nil
}

func isAnonymousRoute(method, path string) bool {
	switch path {
	case "/api/Auth/register", "/api/Auth/login", "/api/Auth/refresh", "/api/Auth/logout":
		return true
	case "/api/Products", "/api/Products/:id", "/api/Categories", "/api/Categories/:id":
		return method == http.MethodGet
	}
	return false
}

func derivePermissionModule(object string) string {
	normalized := strings.TrimPrefix(strings.TrimSpace(object), "/")
	if normalized == "" {
		return "system"
	}
	segments := strings.Split(normalized, "/")
	if len(segments) > 1 && segments[0] == "admin" {
		return segments[1]
	}
	return segments[0]
}
