package router

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/onlinestore/internal/authz"
	"github.com/onlinestore/internal/config"
	"github.com/onlinestore/internal/http/response"
	"github.com/onlinestore/internal/i18n"
	"github.com/onlinestore/internal/logger"
	"github.com/onlinestore/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const requestIDKey = "request_id"
const requestIDHeader = "X-Request-ID"

// 鉴权通过后写入上下文的键
const (
	userIDKey    = "user_id"
	userEmailKey = "user_email"
	userRoleKey  = "user_role"
)

// CORSMiddleware 跨域中间件
func CORSMiddleware(cfg config.CORSConfig) gin.HandlerFunc {
	allowedOrigins := cfg.AllowedOrigins
	if len(allowedOrigins) == 0 {
		allowedOrigins = []string{"*"}
	}
	allowedMethods := cfg.AllowedMethods
	if len(allowedMethods) == 0 {
		allowedMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}
	}
	allowedHeaders := cfg.AllowedHeaders
	if len(allowedHeaders) == 0 {
		allowedHeaders = []string{
			"Content-Type",
			"Content-Length",
			"Accept-Encoding",
			"Authorization",
			"Cache-Control",
			"X-Requested-With",
			"X-CSRF-Token",
		}
	}
	methodsHeader := strings.Join(allowedMethods, ", ")
	headersHeader := strings.Join(allowedHeaders, ", ")

	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")
		allowedOrigin := resolveAllowedOrigin(origin, allowedOrigins, cfg.AllowCredentials)
		if allowedOrigin != "" {
			c.Writer.Header().Set("Access-Control-Allow-Origin", allowedOrigin)
			if allowedOrigin != "*" {
				c.Writer.Header().Add("Vary", "Origin")
			}
		}
		if cfg.AllowCredentials {
			c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		}
		c.Writer.Header().Set("Access-Control-Allow-Headers", headersHeader)
		c.Writer.Header().Set("Access-Control-Allow-Methods", methodsHeader)
		if cfg.MaxAge > 0 {
			c.Writer.Header().Set("Access-Control-Max-Age", strconv.Itoa(cfg.MaxAge))
		}

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}

func resolveAllowedOrigin(origin string, allowedOrigins []string, allowCredentials bool) string {
	if len(allowedOrigins) == 0 {
		return ""
	}
	for _, allowed := range allowedOrigins {
		if allowed == "*" {
			if allowCredentials && origin != "" {
				return origin
			}
			return "*"
		}
	}
	if origin == "" {
		return ""
	}
	for _, allowed := range allowedOrigins {
		if strings.EqualFold(allowed, origin) {
			return origin
		}
	}
	return ""
}

// RequestIDMiddleware 请求 ID 中间件
func RequestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := strings.TrimSpace(c.GetHeader(requestIDHeader))
		if requestID == "" {
			requestID = uuid.NewString()
		}
		c.Set(requestIDKey, requestID)
		c.Writer.Header().Set(requestIDHeader, requestID)
		c.Next()
	}
}

// LoggerMiddleware 结构化请求日志中间件
func LoggerMiddleware(logger *zap.Logger) gin.HandlerFunc {
	if logger == nil {
		logger = zap.L()
	}
	sugar := logger.Sugar()
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		log := sugar.With(
			"request_id", getRequestID(c),
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"latency_ms", time.Since(start).Milliseconds(),
			"client_ip", c.ClientIP(),
		)
		if route := c.FullPath(); route != "" {
			log = log.With("route", route)
		}
		if len(c.Errors) > 0 {
			log.Errorw("request_completed", "errors", c.Errors.String())
			return
		}
		log.Infow("request_completed")
	}
}

func getRequestID(c *gin.Context) string {
	value, ok := c.Get(requestIDKey)
	if !ok {
		return ""
	}
	if requestID, ok := value.(string); ok {
		return requestID
	}
	return ""
}

// RecoveryMiddleware 捕获 panic，返回带 trace_id 的统一 500 响应
func RecoveryMiddleware(log *zap.Logger) gin.HandlerFunc {
	if log == nil {
		log = zap.L()
	}
	sugar := log.Sugar()
	return gin.CustomRecovery(func(c *gin.Context, recovered any) {
		requestID := getRequestID(c)
		sugar.Errorw("request_panic_recovered",
			"request_id", requestID,
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"panic", recovered,
			zap.Stack("stack"),
		)
		msg := i18n.T(i18n.ResolveLocale(c), "error.internal")
		response.InternalError(c, requestID, msg)
	})
}

// AccessTokenAuthenticator 访问令牌校验能力
type AccessTokenAuthenticator interface {
	AuthenticateAccessToken(ctx context.Context, tokenString string) (*service.UserJWTClaims, error)
}

// PolicyEnforcer 按用户判定路由权限
type PolicyEnforcer interface {
	EnforceUser(userID uint, obj, act string) (bool, error)
}

// UserJWTAuthMiddleware 用户 Bearer 令牌鉴权中间件
func UserJWTAuthMiddleware(auth AccessTokenAuthenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		if auth == nil {
			abortUnauthorized(c, "error.token_invalid")
			return
		}
		authHeader := strings.TrimSpace(c.GetHeader("Authorization"))
		if authHeader == "" {
			abortUnauthorized(c, "error.auth_header_missing")
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || strings.TrimSpace(parts[1]) == "" {
			abortUnauthorized(c, "error.auth_header_invalid")
			return
		}

		claims, err := auth.AuthenticateAccessToken(c.Request.Context(), strings.TrimSpace(parts[1]))
		if err != nil {
			if !errors.Is(err, service.ErrInvalidToken) {
				logger.ForRequest(getRequestID(c)).Errorw("user_auth_state_load_failed", "error", err)
				msg := i18n.T(i18n.ResolveLocale(c), "error.internal")
				response.InternalError(c, getRequestID(c), msg)
				return
			}
			abortUnauthorized(c, "error.token_invalid")
			return
		}

		c.Set(userIDKey, claims.UserID)
		c.Set(userEmailKey, claims.Email)
		c.Set(userRoleKey, claims.Role)
		c.Next()
	}
}

// RBACMiddleware 基于路由模板与请求方法的 Casbin 鉴权
func RBACMiddleware(enforcer PolicyEnforcer) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetUint(userIDKey)
		if userID == 0 {
			abortUnauthorized(c, "error.unauthorized")
			return
		}
		if enforcer == nil {
			logger.Errorw("rbac_service_unavailable")
			abortForbidden(c)
			return
		}

		resource := c.FullPath()
		if strings.TrimSpace(resource) == "" {
			resource = c.Request.URL.Path
		}

		allowed, err := enforcer.EnforceUser(userID, resource, c.Request.Method)
		if err != nil {
			logger.ForRequest(getRequestID(c)).Errorw("rbac_enforce_failed",
				"user_id", userID,
				"method", c.Request.Method,
				"path", c.Request.URL.Path,
				"error", err,
			)
			abortForbidden(c)
			return
		}
		if !allowed {
			logger.ForRequest(getRequestID(c)).Warnw("rbac_permission_denied",
				"user_id", userID,
				"method", c.Request.Method,
				"resource", authz.NormalizeObject(resource),
			)
			abortForbidden(c)
			return
		}

		c.Next()
	}
}

func abortUnauthorized(c *gin.Context, key string) {
	response.Unauthorized(c, i18n.T(i18n.ResolveLocale(c), key))
	c.Abort()
}

func abortForbidden(c *gin.Context) {
	response.Forbidden(c, i18n.T(i18n.ResolveLocale(c), "error.forbidden"))
	c.Abort()
}
