package main

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/RecoveryAshes/unit3d-autodelete/internal/models"
	"github.com/RecoveryAshes/unit3d-autodelete/internal/storage"
)

// ValidateFlags 验证命令行标志
func ValidateFlags(backend string, remoteURL string) error {
	validBackends := map[string]bool{
		storage.BackendFile:   true,
		storage.BackendSQLite: true,
		storage.BackendMemory: true,
	}
	if !validBackends[backend] {
		return fmt.Errorf("无效的存储后端: %s (有效值: file, sqlite, memory)", backend)
	}

	if remoteURL != "" {
		parsed, err := url.Parse(remoteURL)
		if err != nil {
			return fmt.Errorf("无效的浏览器地址: %w", err)
		}
		switch parsed.Scheme {
		case "ws", "wss", "http", "https":
		default:
			return fmt.Errorf("浏览器地址必须是ws/wss/http/https协议: %s", remoteURL)
		}
	}

	return nil
}

// NormalizeURL 规范化URL
// 没有协议时默认使用https
func NormalizeURL(urlStr string) (string, error) {
	urlStr = strings.TrimSpace(urlStr)
	if !strings.Contains(urlStr, "://") {
		urlStr = "https://" + urlStr
	}

	if err := models.ValidateURL(urlStr); err != nil {
		return "", err
	}

	parsed, err := url.Parse(urlStr)
	if err != nil {
		return "", err
	}
	return parsed.String(), nil
}
