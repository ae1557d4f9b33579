package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/RecoveryAshes/unit3d-autodelete/internal/config"
	"github.com/RecoveryAshes/unit3d-autodelete/internal/core"
	"github.com/RecoveryAshes/unit3d-autodelete/internal/storage"
	"github.com/RecoveryAshes/unit3d-autodelete/internal/utils"
	"github.com/atotto/clipboard"
)

// readClipboard 读取系统剪贴板,测试中可替换
var readClipboard = clipboard.ReadAll

// app 命令共用的依赖
type app struct {
	cfg        *core.Config
	backend    storage.Backend
	queue      *storage.QueueStore
	drafts     *storage.DraftStore
	sites      *config.SiteMatcher
	controller *core.Controller
	notifier   *utils.Notifier
}

// openApp 打开存储并创建控制器
func openApp(cfg *core.Config) (*app, error) {
	sites, err := config.NewSiteMatcher(cfg.Sites)
	if err != nil {
		return nil, err
	}

	backend, err := storage.Open(cfg.Storage.Backend, cfg.Storage.StateDir)
	if err != nil {
		return nil, fmt.Errorf("打开存储失败: %w", err)
	}

	queue := storage.NewQueueStore(backend)
	drafts := storage.NewDraftStore(backend)

	return &app{
		cfg:        cfg,
		backend:    backend,
		queue:      queue,
		drafts:     drafts,
		sites:      sites,
		controller: core.NewController(queue, drafts, sites),
		notifier:   utils.NewNotifier(os.Stderr),
	}, nil
}

// Close 关闭存储
func (a *app) Close() {
	if err := a.backend.Close(); err != nil {
		utils.Warnf("关闭存储失败: %v", err)
	}
}

// signalContext Ctrl+C或SIGTERM时取消
func signalContext() (context.Context, context.CancelFunc) {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	go func() {
		<-ctx.Done()
		utils.Warn("收到中断信号, 正在优雅关闭...")
	}()
	return ctx, cancel
}

// inputSource URL输入来源
type inputSource struct {
	args      []string
	file      string
	clipboard bool
	stdin     io.Reader
}

// collect 按 参数 → 文件 → 剪贴板 的顺序收集URL
// 参数为 "-" 时从标准输入读取
func (s inputSource) collect() ([]string, error) {
	urls := make([]string, 0)

	for _, arg := range s.args {
		if arg == "-" {
			fromStdin, err := utils.ReadURLs(s.stdin)
			if err != nil {
				return nil, err
			}
			urls = append(urls, fromStdin...)
			continue
		}
		for _, token := range utils.SplitTokens(arg) {
			normalized, err := NormalizeURL(token)
			if err != nil {
				return nil, fmt.Errorf("%s: %w", token, err)
			}
			urls = append(urls, normalized)
		}
	}

	if s.file != "" {
		fromFile, err := utils.ReadURLsFromFile(s.file)
		if err != nil {
			return nil, err
		}
		urls = append(urls, fromFile...)
	}

	if s.clipboard {
		text, err := readClipboard()
		if err != nil {
			return nil, fmt.Errorf("读取剪贴板失败: %w", err)
		}
		urls = append(urls, utils.SplitTokens(text)...)
	}

	return urls, nil
}
