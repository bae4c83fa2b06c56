package response

import "fmt"

// AppError 接口层错误，Key 为 i18n 消息键，Err 为需要记录的原始错误
type AppError struct {
	Code int
	Key  string
	Args []interface{}
	Err  error
}

func (e *AppError) Error() string {
	label := fmt.Sprintf("%d %s", e.Code, e.Key)
	if e.Err == nil {
		return label
	}
	return label + ": " + e.Err.Error()
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// NewAppError 创建接口层错误
func NewAppError(code int, key string, err error) *AppError {
	return &AppError{Code: code, Key: key, Err: err}
}

// WithArgs 附加消息格式化参数
func (e *AppError) WithArgs(args ...interface{}) *AppError {
	e.Args = args
	return e
}

// BadRequestError 请求参数错误
func BadRequestError(key string, err error) *AppError {
	return NewAppError(CodeBadRequest, key, err)
}

// InternalAppError 未归类的服务端错误
func InternalAppError(err error) *AppError {
	return NewAppError(CodeInternal, "error.internal", err)
}
