package models

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// ValidateURL 验证URL
func ValidateURL(urlStr string) error {
	parsed, err := url.Parse(urlStr)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidURL, err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return fmt.Errorf("%w: 必须是HTTP或HTTPS协议", ErrInvalidURL)
	}
	if parsed.Host == "" {
		return fmt.Errorf("%w: 必须包含主机名", ErrInvalidURL)
	}
	return nil
}

// SameTarget 判断两个URL是否指向同一页面
// 忽略查询参数、片段、主机名大小写和路径末尾的斜杠
func SameTarget(a, b string) bool {
	ua, err := url.Parse(strings.TrimSpace(a))
	if err != nil {
		return false
	}
	ub, err := url.Parse(strings.TrimSpace(b))
	if err != nil {
		return false
	}
	if !strings.EqualFold(ua.Host, ub.Host) {
		return false
	}
	return strings.TrimSuffix(ua.Path, "/") == strings.TrimSuffix(ub.Path, "/")
}

// CacheBust 去掉查询参数并追加cacheBuster,强制刷新当前页面
func CacheBust(rawURL string, now time.Time) string {
	base, _, _ := strings.Cut(rawURL, "?")
	return base + "?cacheBuster=" + strconv.FormatInt(now.UnixMilli(), 10)
}

// generateID 生成唯一ID
func generateID() string {
	return uuid.New().String()
}
