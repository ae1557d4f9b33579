package main

import (
	"fmt"
	"os"

	"github.com/RecoveryAshes/unit3d-autodelete/internal/browser"
	"github.com/RecoveryAshes/unit3d-autodelete/internal/models"
	"github.com/RecoveryAshes/unit3d-autodelete/internal/utils"
	"github.com/spf13/cobra"
)

var (
	inputFile    string
	useClipboard bool
	htmlFile     string
	baseURL      string
)

var startCmd = &cobra.Command{
	Use:   "start [urls...]",
	Short: "用URL列表创建删除队列",
	Long: `用URL列表创建删除队列,游标从第一个开始。已有队列会被替换。

URL来源: 命令行参数、--file 文件、"-" 标准输入、--clipboard 剪贴板。
都没有提供时使用 add/add-all 累积的输入缓冲区。`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		a, err := openApp(appConfig)
		if err != nil {
			return err
		}
		defer a.Close()

		urls, err := inputSource{args: args, file: inputFile, clipboard: useClipboard, stdin: os.Stdin}.collect()
		if err != nil {
			return err
		}

		var q *models.Queue
		if len(urls) > 0 {
			q, err = a.controller.Submit(ctx, urls)
		} else {
			q, err = a.controller.SubmitDraft(ctx)
		}
		if err != nil {
			return err
		}

		a.notifier.Message("✅ 已创建删除队列: %d 个种子, 第一个: %s", q.Total(), q.URLs[0])
		a.notifier.Message("运行中的 'autodelete run' 会自动开始处理")
		return nil
	},
}

var stopCmd = &cobra.Command{
	Use:   "stop",
	Short: "停止并清除删除队列",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp(appConfig)
		if err != nil {
			return err
		}
		defer a.Close()

		if err := a.controller.Stop(cmd.Context()); err != nil {
			return err
		}
		a.notifier.Message(utils.MsgStopped)
		return nil
	},
}

var newListCmd = &cobra.Command{
	Use:   "new-list",
	Short: "清除删除队列和输入缓冲区",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp(appConfig)
		if err != nil {
			return err
		}
		defer a.Close()

		if err := a.controller.NewList(cmd.Context()); err != nil {
			return err
		}
		a.notifier.Message("已清除队列和输入缓冲区")
		return nil
	},
}

var addCmd = &cobra.Command{
	Use:   "add [urls...]",
	Short: "将URL追加到输入缓冲区",
	Long: `将URL追加到输入缓冲区,按空白拆分,每行一个。
之后使用 'autodelete start' 以缓冲区内容创建队列。`,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp(appConfig)
		if err != nil {
			return err
		}
		defer a.Close()

		urls, err := inputSource{args: args, file: inputFile, clipboard: useClipboard, stdin: os.Stdin}.collect()
		if err != nil {
			return err
		}
		if len(urls) == 0 {
			return models.ErrEmptyQueue
		}

		draft, err := a.controller.AddAll(cmd.Context(), urls)
		if err != nil {
			return err
		}
		a.notifier.Message("已添加 %d 个URL, 缓冲区共 %d 行", len(urls), len(utils.SplitTokens(draft)))
		return nil
	},
}

var addAllCmd = &cobra.Command{
	Use:   "add-all [list-url]",
	Short: "收集列表页中的所有种子链接并追加到输入缓冲区",
	Long: `收集上传列表页中的所有种子链接(a.user-uploads__name)并追加到输入缓冲区。

  # 在浏览器中打开列表页收集 (需要已登录的浏览器用户目录或 --remote)
  autodelete add-all https://blutopia.cc/users/bob/uploads

  # 从保存的页面HTML收集
  autodelete add-all --html uploads.html --base https://blutopia.cc/`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		cfg := appConfig

		a, err := openApp(cfg)
		if err != nil {
			return err
		}
		defer a.Close()

		var urls []string
		switch {
		case htmlFile != "":
			file, err := os.Open(htmlFile)
			if err != nil {
				return fmt.Errorf("打开HTML文件失败: %w", err)
			}
			defer file.Close()

			urls, err = browser.HarvestHTML(file, baseURL, cfg.Selectors.ListLinks)
			if err != nil {
				return err
			}

		case len(args) == 1:
			listURL, err := NormalizeURL(args[0])
			if err != nil {
				return err
			}
			if !a.sites.Allowed(listURL) {
				return fmt.Errorf("%w: %s", models.ErrSiteNotAllowed, listURL)
			}

			sigCtx, cancel := signalContext()
			defer cancel()

			session, err := browser.Launch(sigCtx, cfg.Browser)
			if err != nil {
				return err
			}
			defer session.Close()

			driver := browser.NewRodDriver(session.Page(), cfg.Timing.LoadTimeout)
			if err := driver.Navigate(sigCtx, listURL); err != nil {
				return fmt.Errorf("打开列表页失败: %w", err)
			}

			urls, err = browser.HarvestLinks(sigCtx, session.Page(), cfg.Selectors.ListLinks)
			if err != nil {
				return err
			}

		default:
			return fmt.Errorf("请指定列表页URL或 --html 文件")
		}

		draft, err := a.controller.AddAll(ctx, urls)
		if err != nil {
			return err
		}
		a.notifier.Message("已收集 %d 个种子链接, 缓冲区共 %d 行", len(urls), len(utils.SplitTokens(draft)))
		return nil
	},
}

func init() {
	for _, cmd := range []*cobra.Command{startCmd, addCmd} {
		cmd.Flags().StringVarP(&inputFile, "file", "f", "", "包含URL列表的文件路径")
		cmd.Flags().BoolVar(&useClipboard, "clipboard", false, "从系统剪贴板读取URL")
	}

	addAllCmd.Flags().StringVar(&htmlFile, "html", "", "保存的列表页HTML文件")
	addAllCmd.Flags().StringVar(&baseURL, "base", "", "HTML文件中相对链接的基准URL")
}
