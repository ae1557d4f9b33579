package main

import (
	"fmt"
	"os"

	"github.com/RecoveryAshes/unit3d-autodelete/internal/browser"
	"github.com/RecoveryAshes/unit3d-autodelete/internal/core"
	"github.com/RecoveryAshes/unit3d-autodelete/internal/storage"
	"github.com/RecoveryAshes/unit3d-autodelete/internal/utils"
	"github.com/spf13/cobra"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "启动浏览器并处理删除队列",
	Long: `启动(或连接)浏览器并持续处理删除队列。

队列为空时保持空闲,每秒检查一次存储,因此可以在另一个终端中使用
start/stop/add 等命令,或直接使用页面右下角的控制面板。
按 Ctrl+C 退出,未完成的队列会在下次运行时继续。`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := signalContext()
		defer cancel()

		cfg := appConfig

		lock, err := storage.AcquireRunnerLock(cfg.Storage.StateDir)
		if err != nil {
			return err
		}
		defer lock.Release()

		a, err := openApp(cfg)
		if err != nil {
			return err
		}
		defer a.Close()

		headerManager, err := core.NewHeaderManager(cfg.Browser.Headers, headers)
		if err != nil {
			return fmt.Errorf("创建头部管理器失败: %w", err)
		}
		pairs, err := headerManager.Pairs()
		if err != nil {
			return err
		}

		session, err := browser.Launch(ctx, cfg.Browser)
		if err != nil {
			return err
		}
		defer session.Close()

		if err := session.SetHeaders(pairs); err != nil {
			return err
		}

		if cfg.Browser.Panel {
			panel := browser.NewPanel(a.controller, a.sites, cfg.Selectors.ListLinks, a.notifier)
			remove, err := panel.Install(ctx, session.Page())
			if err != nil {
				return err
			}
			defer remove()
		}

		driver := browser.NewRodDriver(session.Page(), cfg.Timing.LoadTimeout)
		runner := core.NewRunner(cfg, driver, a.queue, a.notifier, a.sites, utils.NewReporter(cfg.Storage.StateDir))

		q, err := a.queue.Load(ctx)
		if err != nil {
			return err
		}
		if q != nil {
			utils.Infof("📋 继续未完成的队列: %s", q.ProgressText())
		} else {
			fmt.Fprintln(os.Stderr, "队列为空, 使用 'autodelete start' 或页面中的控制面板开始删除")
		}

		if err := runner.Run(ctx); err != nil {
			return fmt.Errorf("运行失败: %w", err)
		}

		utils.Info("✨ 已退出")
		return nil
	},
}
