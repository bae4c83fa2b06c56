package response

import "net/http"

const (
	CodeOK              = 0
	CodeBadRequest      = 400
	CodeUnauthorized    = 401
	CodeForbidden       = 403
	CodeNotFound        = 404
	CodeConflict        = 409
	CodeTooManyRequests = 429
	CodeInternal        = 500
)

// InternalErrorCode 500 响应中的错误标识
const InternalErrorCode = "INTERNAL_ERROR"

// HTTPStatus 将业务状态码映射为 HTTP 状态码
func HTTPStatus(code int) int {
	switch code {
	case CodeOK:
		return http.StatusOK
	case CodeBadRequest, CodeUnauthorized, CodeForbidden, CodeNotFound, CodeConflict, CodeTooManyRequests:
		return code
	default:
		return http.StatusInternalServerError
	}
}
