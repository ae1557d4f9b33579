package main

import (
	"fmt"
	"os"

	"github.com/RecoveryAshes/unit3d-autodelete/internal/core"
	"github.com/RecoveryAshes/unit3d-autodelete/internal/utils"
	"github.com/spf13/cobra"
)

var (
	Version   = "dev"
	BuildTime = "unknown"
)

// 命令行参数
var (
	// 全局参数
	configFile string
	verbose    bool
	logLevel   string

	// 浏览器参数
	headers   []string // 额外请求头部
	headless  bool
	remoteURL string

	// 存储参数
	stateDir string
	backend  string
)

// appConfig 在PersistentPreRunE中加载
var appConfig *core.Config

var rootCmd = &cobra.Command{
	Use:   "autodelete",
	Short: "UNIT3D种子批量自动删除工具",
	Long: `autodelete - UNIT3D站点种子批量自动删除工具

驱动真实的浏览器标签页,按队列依次打开种子详情页,完成删除对话框
(填写原因、确认)并以404页面作为删除成功的信号。队列进度持久化保存,
浏览器跳转、进程重启后都会从中断处继续。

常用流程:
  # 启动浏览器并处理队列 (首次运行请在浏览器中登录站点)
  autodelete run

  # 在另一个终端中收集链接并开始删除
  autodelete add-all https://blutopia.cc/users/bob/uploads
  autodelete start

  # 直接指定链接
  autodelete start https://blutopia.cc/torrents/1 https://blutopia.cc/torrents/2

  # 停止
  autodelete stop

版本: ` + Version + `
构建时间: ` + BuildTime,
	Version:       Version,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// 加载配置
		config, err := core.LoadConfig(configFile)
		if err != nil {
			return fmt.Errorf("加载配置失败: %w", err)
		}

		// 命令行参数覆盖配置文件
		var headlessFlag *bool
		if cmd.Flags().Changed("headless") {
			headlessFlag = &headless
		}
		config.MergeCLIFlags(headlessFlag, remoteURL, stateDir, backend)

		if err := ValidateFlags(config.Storage.Backend, config.Browser.RemoteURL); err != nil {
			return err
		}

		// 初始化日志系统
		logConfig := utils.LogConfig{
			Level:      config.Logging.Level,
			LogDir:     config.Logging.LogDir,
			MaxSize:    config.Logging.Rotation.MaxSize,
			MaxBackups: config.Logging.Rotation.MaxBackups,
			MaxAge:     config.Logging.Rotation.MaxAge,
			Compress:   config.Logging.Rotation.Compress,
		}

		if logLevel != "" {
			logConfig.Level = logLevel
		}
		if verbose {
			logConfig.Level = "debug"
		}

		if err := utils.InitLogger(logConfig); err != nil {
			return fmt.Errorf("初始化日志系统失败: %w", err)
		}

		if verbose {
			utils.Info("详细模式已启用")
		}

		appConfig = config
		return nil
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "显示版本信息",
	// 不需要加载配置
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error { return nil },
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("autodelete %s\n", Version)
		fmt.Printf("构建时间: %s\n", BuildTime)
	},
}

func init() {
	// 全局参数
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "配置文件路径")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "详细输出模式")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "日志级别 (trace|debug|info|warn|error)")

	// 浏览器参数
	rootCmd.PersistentFlags().StringArrayVarP(&headers, "header", "H", []string{}, "额外请求头部,格式: 'Name: Value',可多次指定")
	rootCmd.PersistentFlags().BoolVar(&headless, "headless", false, "无头浏览器模式")
	rootCmd.PersistentFlags().StringVar(&remoteURL, "remote", "", "连接已运行的浏览器 (DevTools websocket地址)")

	// 存储参数
	rootCmd.PersistentFlags().StringVar(&stateDir, "state-dir", "", "状态目录")
	rootCmd.PersistentFlags().StringVar(&backend, "backend", "", "存储后端 (file|sqlite|memory)")

	// 添加子命令
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(startCmd, stopCmd, newListCmd, addCmd, addAllCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(doctorCmd)
	rootCmd.AddCommand(configCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "错误: %v\n", err)
		os.Exit(1)
	}
}
