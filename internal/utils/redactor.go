package utils

import (
	"sort"
	"strings"
)

var (
	// SensitiveKeywords 敏感头部名称关键字
	SensitiveKeywords = []string{
		"authorization",
		"token",
		"key",
		"secret",
		"password",
		"credential",
		"session",
	}
)

// HeaderRedactor 头部脱敏器,用于日志输出
type HeaderRedactor struct {
	sensitiveKeywords []string
}

// NewHeaderRedactor 创建头部脱敏器
func NewHeaderRedactor() *HeaderRedactor {
	return &HeaderRedactor{
		sensitiveKeywords: SensitiveKeywords,
	}
}

// IsSensitiveHeader 根据名称关键字判断是否为敏感头部
func (hr *HeaderRedactor) IsSensitiveHeader(name string) bool {
	nameLower := strings.ToLower(name)
	for _, keyword := range hr.sensitiveKeywords {
		if strings.Contains(nameLower, keyword) {
			return true
		}
	}
	return false
}

// RedactHeaderValue 脱敏单个头部值
func (hr *HeaderRedactor) RedactHeaderValue(name, value string) string {
	if !hr.IsSensitiveHeader(name) {
		return value
	}

	if strings.HasPrefix(value, "Bearer ") {
		return "Bearer ***"
	}

	// 足够长时保留首尾4位
	if len(value) > 8 {
		return value[:4] + "***" + value[len(value)-4:]
	}

	return "***"
}

// Redact 返回脱敏后的副本
func (hr *HeaderRedactor) Redact(headers map[string]string) map[string]string {
	result := make(map[string]string, len(headers))
	for name, value := range headers {
		result[name] = hr.RedactHeaderValue(name, value)
	}
	return result
}

// RedactToString 格式: "Header1: value1, Header2: value2"
func (hr *HeaderRedactor) RedactToString(headers map[string]string) string {
	redacted := hr.Redact(headers)
	parts := make([]string, 0, len(redacted))
	for name, value := range redacted {
		parts = append(parts, name+": "+value)
	}
	sort.Strings(parts)
	return strings.Join(parts, ", ")
}
