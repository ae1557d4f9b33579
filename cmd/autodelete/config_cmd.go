package main

import (
	"fmt"
	"sort"

	"github.com/RecoveryAshes/unit3d-autodelete/internal/config"
	"github.com/RecoveryAshes/unit3d-autodelete/internal/core"
	"github.com/RecoveryAshes/unit3d-autodelete/internal/utils"
	"github.com/spf13/cobra"
)

var forceInit bool

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "配置文件管理",
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "生成默认配置文件",
	// 生成配置时不需要加载已有配置
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error { return nil },
	RunE: func(cmd *cobra.Command, args []string) error {
		path := configFile
		if path == "" {
			path = config.DefaultConfigFile
		}

		created, err := config.EnsureConfigFile(path, forceInit)
		if err != nil {
			return err
		}
		if !created {
			fmt.Fprintf(cmd.OutOrStdout(), "配置文件已存在: %s (使用 --force 覆盖)\n", path)
			return nil
		}
		fmt.Fprintf(cmd.OutOrStdout(), "✅ 已生成配置文件: %s\n", path)
		return nil
	},
}

var configValidateCmd = &cobra.Command{
	Use:   "validate",
	Short: "验证配置文件和请求头",
	RunE: func(cmd *cobra.Command, args []string) error {
		utils.Info("🔍 验证配置...")

		if _, err := config.NewSiteMatcher(appConfig.Sites); err != nil {
			return fmt.Errorf("站点配置无效: %w", err)
		}

		headerManager, err := core.NewHeaderManager(appConfig.Browser.Headers, headers)
		if err != nil {
			return fmt.Errorf("创建请求头管理器失败: %w", err)
		}
		if _, err := headerManager.Headers(); err != nil {
			return fmt.Errorf("配置验证失败: %w", err)
		}

		utils.Info("✅ 配置验证通过!")

		safe := headerManager.SafeHeaders()
		names := make([]string, 0, len(safe))
		for name := range safe {
			names = append(names, name)
		}
		sort.Strings(names)

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "当前有效的请求头 (%d个):\n", len(names))
		for _, name := range names {
			fmt.Fprintf(out, "  %s: %s\n", name, safe[name])
		}
		fmt.Fprintf(out, "站点 (%d个):\n", len(appConfig.Sites))
		for _, site := range appConfig.Sites {
			fmt.Fprintf(out, "  %s\n", site)
		}
		return nil
	},
}

func init() {
	configInitCmd.Flags().BoolVar(&forceInit, "force", false, "覆盖已存在的配置文件")
	configCmd.AddCommand(configInitCmd, configValidateCmd)
}
