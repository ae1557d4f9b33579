package config

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/RecoveryAshes/unit3d-autodelete/internal/models"
)

// DefaultConfigFile 默认配置文件路径
const DefaultConfigFile = "configs/config.yaml"

//go:embed config_template.yaml
var defaultTemplate string

// Template 返回内置的配置模板
func Template() string {
	return defaultTemplate
}

// EnsureConfigFile 配置文件不存在时写入模板
// 返回是否新建了文件
func EnsureConfigFile(path string, force bool) (bool, error) {
	if path == "" {
		path = DefaultConfigFile
	}

	if _, err := os.Stat(path); err == nil && !force {
		return false, nil
	} else if err != nil && !errors.Is(err, os.ErrNotExist) {
		return false, &models.ConfigError{FilePath: path, Cause: err}
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return false, &models.ConfigError{FilePath: path, Cause: fmt.Errorf("无法创建配置目录 [%s]: %w", dir, err)}
	}

	if err := os.WriteFile(path, []byte(defaultTemplate), 0644); err != nil {
		return false, &models.ConfigError{FilePath: path, Cause: fmt.Errorf("无法生成配置文件: %w", err)}
	}
	return true, nil
}
