package config

import (
	"fmt"
	"strings"

	"github.com/RecoveryAshes/unit3d-autodelete/internal/models"
	"github.com/gobwas/glob"
)

// SiteMatcher 站点允许列表
// 模式与用户脚本的匹配规则一致,如 "https://blutopia.cc/*"
type SiteMatcher struct {
	patterns []string
	globs    []glob.Glob
}

// NewSiteMatcher 编译站点模式
func NewSiteMatcher(patterns []string) (*SiteMatcher, error) {
	m := &SiteMatcher{
		patterns: make([]string, 0, len(patterns)),
		globs:    make([]glob.Glob, 0, len(patterns)),
	}

	for _, p := range patterns {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		g, err := glob.Compile(p)
		if err != nil {
			return nil, fmt.Errorf("站点模式无效 %q: %w", p, err)
		}
		m.patterns = append(m.patterns, p)
		m.globs = append(m.globs, g)
	}

	if len(m.globs) == 0 {
		return nil, fmt.Errorf("站点列表为空")
	}
	return m, nil
}

// Allowed 判断URL是否属于允许的站点
func (m *SiteMatcher) Allowed(rawURL string) bool {
	for _, g := range m.globs {
		if g.Match(rawURL) {
			return true
		}
	}
	return false
}

// Check 校验队列中所有URL,返回第一个不被允许的URL
func (m *SiteMatcher) Check(urls []string) error {
	for _, u := range urls {
		if err := models.ValidateURL(u); err != nil {
			return fmt.Errorf("%s: %w", u, err)
		}
		if !m.Allowed(u) {
			return fmt.Errorf("%w: %s", models.ErrSiteNotAllowed, u)
		}
	}
	return nil
}

// Patterns 返回已编译的模式
func (m *SiteMatcher) Patterns() []string {
	return m.patterns
}
