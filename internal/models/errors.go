package models

import (
	"errors"
	"fmt"
)

var (
	ErrEmptyQueue     = errors.New("Please enter at least one URL!")
	ErrQueueIndex     = errors.New("队列游标越界")
	ErrTimeout        = errors.New("等待超时")
	ErrRunnerLocked   = errors.New("另一个删除进程正在运行")
	ErrSiteNotAllowed = errors.New("站点不在允许列表中")
	ErrNoLinks        = errors.New("No torrent links found on this page!")
	ErrInvalidURL     = errors.New("无效的URL")
	ErrQueueChanged   = errors.New("队列已被停止或替换")
	ErrElementMissing = errors.New("元素不存在")
)

// OutcomeError 执行器的硬失败
// 携带失败类型、页面URL和诊断信息,用于操作员提示
type OutcomeError struct {
	Kind    OutcomeKind
	URL     string
	Message string
}

// Error 实现error接口
func (e *OutcomeError) Error() string {
	return fmt.Sprintf("Failed to delete: %s\nError: %s", e.URL, e.Message)
}

// ValidationError 请求头验证错误
type ValidationError struct {
	// Field 出错的字段 ("name" 或 "value")
	Field string

	// HeaderName 头部名称
	HeaderName string

	// Reason 错误原因
	Reason string

	// Suggestion 修复建议
	Suggestion string
}

// Error 实现error接口
func (e *ValidationError) Error() string {
	msg := fmt.Sprintf("头部验证失败 [%s] (%s): %s", e.HeaderName, e.Field, e.Reason)
	if e.Suggestion != "" {
		msg += "\n建议: " + e.Suggestion
	}
	return msg
}

// ConfigError 配置文件错误
type ConfigError struct {
	// FilePath 配置文件路径
	FilePath string

	// Cause 底层错误
	Cause error
}

// Error 实现error接口
func (e *ConfigError) Error() string {
	return fmt.Sprintf("配置文件错误 [%s]: %v", e.FilePath, e.Cause)
}

// Unwrap 支持errors.Unwrap
func (e *ConfigError) Unwrap() error {
	return e.Cause
}
