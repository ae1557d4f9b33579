package core

import (
	"fmt"
	"net/textproto"
	"sort"
	"strings"

	"github.com/RecoveryAshes/unit3d-autodelete/internal/utils"
)

// HeaderManager 管理浏览器会话的额外请求头部
// 优先级: 配置文件 < 命令行
type HeaderManager struct {
	// config 配置文件 browser.headers
	config map[string]string

	// cli 命令行 -H 参数
	cli map[string]string

	validator *utils.HeaderValidator
	redactor  *utils.HeaderRedactor
}

// NewHeaderManager 创建头部管理器
// cliHeaders 格式为 "Name: Value"
func NewHeaderManager(configHeaders map[string]string, cliHeaders []string) (*HeaderManager, error) {
	hm := &HeaderManager{
		config:    make(map[string]string, len(configHeaders)),
		cli:       make(map[string]string, len(cliHeaders)),
		validator: utils.NewHeaderValidator(),
		redactor:  utils.NewHeaderRedactor(),
	}

	for name, value := range configHeaders {
		hm.config[textproto.CanonicalMIMEHeaderKey(name)] = value
	}

	for _, raw := range cliHeaders {
		name, value, err := ParseHeader(raw)
		if err != nil {
			return nil, err
		}
		hm.cli[name] = value
	}

	return hm, nil
}

// ParseHeader 解析 "Name: Value" 格式的头部
func ParseHeader(raw string) (string, string, error) {
	name, value, ok := strings.Cut(raw, ":")
	if !ok {
		return "", "", fmt.Errorf("头部格式错误 %q, 应为 \"Name: Value\"", raw)
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return "", "", fmt.Errorf("头部格式错误 %q, 名称为空", raw)
	}
	return textproto.CanonicalMIMEHeaderKey(name), strings.TrimSpace(value), nil
}

// Headers 验证并返回合并后的头部
func (hm *HeaderManager) Headers() (map[string]string, error) {
	if err := hm.validator.Validate(hm.config); err != nil {
		utils.Errorf("配置文件头部验证失败: %v", err)
		return nil, err
	}
	if err := hm.validator.Validate(hm.cli); err != nil {
		utils.Errorf("命令行头部验证失败: %v", err)
		return nil, err
	}

	merged := make(map[string]string, len(hm.config)+len(hm.cli))
	for name, value := range hm.config {
		merged[name] = value
	}
	for name, value := range hm.cli {
		merged[name] = value
	}

	if len(merged) > 0 {
		utils.Debugf("额外请求头部: %s", hm.redactor.RedactToString(merged))
	}
	return merged, nil
}

// Pairs 返回 [name, value, name, value...] 形式,按名称排序
func (hm *HeaderManager) Pairs() ([]string, error) {
	headers, err := hm.Headers()
	if err != nil {
		return nil, err
	}

	names := make([]string, 0, len(headers))
	for name := range headers {
		names = append(names, name)
	}
	sort.Strings(names)

	pairs := make([]string, 0, len(headers)*2)
	for _, name := range names {
		pairs = append(pairs, name, headers[name])
	}
	return pairs, nil
}

// SafeHeaders 返回脱敏后的头部,用于日志和status输出
func (hm *HeaderManager) SafeHeaders() map[string]string {
	merged := make(map[string]string, len(hm.config)+len(hm.cli))
	for name, value := range hm.config {
		merged[name] = value
	}
	for name, value := range hm.cli {
		merged[name] = value
	}
	return hm.redactor.Redact(merged)
}
