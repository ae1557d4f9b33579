package browser

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/RecoveryAshes/unit3d-autodelete/internal/core"
	"github.com/RecoveryAshes/unit3d-autodelete/internal/utils"
	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
)

// Session 浏览器会话
type Session struct {
	browser  *rod.Browser
	page     *rod.Page
	launcher *launcher.Launcher

	// remote 连接的是已运行的浏览器,关闭时不结束浏览器进程
	remote bool

	clearHeaders func()
}

// Launch 启动或连接浏览器,并选取工作标签页
func Launch(ctx context.Context, cfg core.BrowserConfig) (*Session, error) {
	s := &Session{}

	controlURL := cfg.RemoteURL
	if controlURL != "" {
		s.remote = true
		utils.Infof("🔌 连接已运行的浏览器: %s", controlURL)
	} else {
		l := launcher.New().Headless(cfg.Headless)

		bin := cfg.Bin
		if bin == "" {
			if path, ok := launcher.LookPath(); ok {
				bin = path
			}
		}
		if bin != "" {
			l = l.Bin(bin)
		}

		if cfg.UserDataDir != "" {
			dir, err := filepath.Abs(cfg.UserDataDir)
			if err != nil {
				return nil, fmt.Errorf("解析浏览器用户目录失败: %w", err)
			}
			l = l.UserDataDir(dir)
		}

		url, err := l.Launch()
		if err != nil {
			return nil, fmt.Errorf("启动浏览器失败: %w", err)
		}
		s.launcher = l
		controlURL = url
		utils.Debugf("浏览器已启动: %s", controlURL)
	}

	s.browser = rod.New().ControlURL(controlURL).Context(ctx)
	if err := s.browser.Connect(); err != nil {
		s.kill()
		return nil, fmt.Errorf("连接浏览器失败: %w", err)
	}

	page, err := s.workPage()
	if err != nil {
		s.Close()
		return nil, err
	}
	s.page = page

	if cfg.StartURL != "" {
		if err := page.Navigate(cfg.StartURL); err != nil {
			s.Close()
			return nil, fmt.Errorf("打开起始页面失败: %w", err)
		}
	}

	return s, nil
}

// workPage 优先复用已打开的标签页
func (s *Session) workPage() (*rod.Page, error) {
	pages, err := s.browser.Pages()
	if err != nil {
		return nil, fmt.Errorf("获取标签页失败: %w", err)
	}
	if len(pages) > 0 {
		return pages.First(), nil
	}

	page, err := s.browser.Page(proto.TargetCreateTarget{URL: "about:blank"})
	if err != nil {
		return nil, fmt.Errorf("创建标签页失败: %w", err)
	}
	return page, nil
}

// Page 工作标签页
func (s *Session) Page() *rod.Page {
	return s.page
}

// SetHeaders 为后续请求设置额外头部
// pairs格式为 [name, value, name, value...]
func (s *Session) SetHeaders(pairs []string) error {
	if len(pairs) == 0 {
		return nil
	}
	cleanup, err := s.page.SetExtraHeaders(pairs)
	if err != nil {
		return fmt.Errorf("设置请求头部失败: %w", err)
	}
	s.clearHeaders = cleanup
	return nil
}

// Close 关闭会话
// 连接的远程浏览器只断开连接
func (s *Session) Close() {
	if s.clearHeaders != nil {
		s.clearHeaders()
		s.clearHeaders = nil
	}
	if s.browser != nil && !s.remote {
		if err := s.browser.Close(); err != nil {
			utils.Debugf("关闭浏览器失败: %v", err)
		}
	}
	s.kill()
	utils.Debugf("浏览器会话已关闭")
}

func (s *Session) kill() {
	if s.launcher != nil {
		s.launcher.Kill()
		s.launcher = nil
	}
}
