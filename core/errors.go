package core

import "errors"

// DomainError 是领域层的统一错误类型，也是对调用方暴露的结构化错误。
//
// 设计原则：
//   - 所有领域层错误都使用此类型
//   - 提供错误代码（Code）和消息（Message）
//   - 支持错误检查函数（IsXXX）
//   - Cause 保留底层错误，errors.Is / errors.As 可穿透
//
// 使用场景：
//   - 请求校验：INVALID_INPUT
//   - 数据源 / 投递不可用：UNAVAILABLE
//   - 目录过大无法放进内存：RESOURCE_EXHAUSTED
type DomainError struct {
	Code    string `json:"code"`    // 错误代码（如 "INVALID_INPUT", "UNAVAILABLE"）
	Message string `json:"message"` // 错误消息
	Module  string `json:"module"`  // 模块名称（如 "request", "catalog", "store"）
	Cause   error  `json:"-"`
}

func (e *DomainError) Error() string {
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return e.Message
}

func (e *DomainError) Unwrap() error {
	return e.Cause
}

// IsDomainError 检查错误链上是否有 DomainError
func IsDomainError(err error) bool {
	return GetDomainError(err) != nil
}

// GetDomainError 获取错误链上的第一个 DomainError，如果没有则返回 nil
func GetDomainError(err error) *DomainError {
	if err == nil {
		return nil
	}
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr
	}
	return nil
}

// NewDomainError 创建新的领域错误
func NewDomainError(module, code, message string) *DomainError {
	return &DomainError{
		Module:  module,
		Code:    code,
		Message: message,
	}
}

// WrapDomainError 创建包装底层错误的领域错误。
func WrapDomainError(module, code, message string, cause error) *DomainError {
	return &DomainError{
		Module:  module,
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

// 错误代码常量
const (
	ErrorCodeNotFound          = "NOT_FOUND"          // 资源不存在
	ErrorCodeNotSupported      = "NOT_SUPPORTED"      // 操作不支持
	ErrorCodeUnavailable       = "UNAVAILABLE"        // 下游不可用
	ErrorCodeInvalidInput      = "INVALID_INPUT"      // 输入无效
	ErrorCodeResourceExhausted = "RESOURCE_EXHAUSTED" // 超出可用内存预算
	ErrorCodeInternalError     = "INTERNAL_ERROR"     // 内部错误
)

// 模块名称常量
const (
	ModuleRequest  = "request"  // 请求校验
	ModuleCatalog  = "catalog"  // 目录加载
	ModuleBehavior = "behavior" // 交互事件
	ModuleScorer   = "scorer"   // 相关性打分
	ModuleStore    = "store"    // 存储模块
	ModuleDelivery = "delivery" // 结果投递
	ModulePipeline = "pipeline" // 编排
)

func hasCode(err error, code string) bool {
	domainErr := GetDomainError(err)
	return domainErr != nil && domainErr.Code == code
}

// IsNotFound 检查错误是否为 NOT_FOUND
func IsNotFound(err error) bool {
	return hasCode(err, ErrorCodeNotFound)
}

// IsNotSupported 检查错误是否为 NOT_SUPPORTED
func IsNotSupported(err error) bool {
	return hasCode(err, ErrorCodeNotSupported)
}

// IsUnavailable 检查错误是否为 UNAVAILABLE
func IsUnavailable(err error) bool {
	return hasCode(err, ErrorCodeUnavailable)
}

// IsInvalidInput 检查错误是否为 INVALID_INPUT
func IsInvalidInput(err error) bool {
	return hasCode(err, ErrorCodeInvalidInput)
}

// IsResourceExhausted 检查错误是否为 RESOURCE_EXHAUSTED
func IsResourceExhausted(err error) bool {
	return hasCode(err, ErrorCodeResourceExhausted)
}
