package shared

import (
	"errors"

	"github.com/onlinestore/internal/http/response"
	"github.com/onlinestore/internal/i18n"
	"github.com/onlinestore/internal/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// MappedError 业务错误到接口错误响应的映射
type MappedError struct {
	Target error
	Code   int
	Key    string
}

// localizedError 携带消息键与参数的业务错误
type localizedError interface {
	Key() string
	Args() []interface{}
}

// RequestLog 提供携带 request_id 的日志实例。
func RequestLog(c *gin.Context) *zap.SugaredLogger {
	if c == nil {
		return logger.S()
	}
	return logger.ForRequest(response.RequestID(c))
}

// RespondError 返回国际化错误响应，并在有原始错误时记录日志。
func RespondError(c *gin.Context, code int, key string, err error) {
	RespondAppError(c, response.NewAppError(code, key, err))
}

// RespondAppError 输出接口层错误。
// 500 统一走 InternalError，以请求 ID 作为 trace_id。
func RespondAppError(c *gin.Context, appErr *response.AppError) {
	if appErr == nil {
		appErr = response.InternalAppError(nil)
	}
	if appErr.Err != nil {
		log := RequestLog(c)
		if appErr.Code >= response.CodeInternal {
			log.Errorw("handler_error", "code", appErr.Code, "key", appErr.Key, "error", appErr.Err)
		} else {
			log.Debugw("handler_rejected", "code", appErr.Code, "key", appErr.Key, "error", appErr.Err)
		}
	}
	locale := i18n.ResolveLocale(c)
	if appErr.Code >= response.CodeInternal {
		response.InternalError(c, response.RequestID(c), i18n.T(locale, "error.internal"))
		return
	}
	response.Error(c, appErr.Code, i18n.Sprintf(locale, appErr.Key, appErr.Args...))
}

// MapError 按映射表把业务错误转换为接口层错误；未命中规则时按 500 处理
func MapError(err error, rules []MappedError) *response.AppError {
	var appErr *response.AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	for _, rule := range rules {
		if !errors.Is(err, rule.Target) {
			continue
		}
		mapped := response.NewAppError(rule.Code, rule.Key, nil)
		var detailed localizedError
		if errors.As(err, &detailed) && detailed.Key() != "" {
			mapped.Key = detailed.Key()
			mapped.Args = detailed.Args()
		}
		return mapped
	}
	return response.InternalAppError(err)
}

// RespondWithMappedError 按映射表返回错误
func RespondWithMappedError(c *gin.Context, err error, rules []MappedError) {
	RespondAppError(c, MapError(err, rules))
}

// BindJSON 绑定 JSON 请求体，失败时直接返回 400
func BindJSON(c *gin.Context, dest interface{}) bool {
	if err := c.ShouldBindJSON(dest); err != nil {
		RespondAppError(c, response.BadRequestError("error.bad_request", err))
		return false
	}
	return true
}

// ConcatMappedErrors 合并多组映射规则
func ConcatMappedErrors(groups ...[]MappedError) []MappedError {
	total := 0
	for _, group := range groups {
		total += len(group)
	}
	result := make([]MappedError, 0, total)
	for _, group := range groups {
		result = append(result, group...)
	}
	return result
}
