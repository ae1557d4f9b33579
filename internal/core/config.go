package core

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config 应用程序配置
type Config struct {
	Browser   BrowserConfig  `mapstructure:"browser"`
	Sites     []string       `mapstructure:"sites"`
	Selectors SelectorConfig `mapstructure:"selectors"`
	Timing    TimingConfig   `mapstructure:"timing"`
	Storage   StorageConfig  `mapstructure:"storage"`
	Logging   LoggingConfig  `mapstructure:"logging"`
}

// BrowserConfig 浏览器配置
type BrowserConfig struct {
	Headless    bool              `mapstructure:"headless"`      // 无头模式(默认关闭,方便操作员观察)
	Bin         string            `mapstructure:"bin"`           // 浏览器可执行文件,为空时自动查找
	UserDataDir string            `mapstructure:"user_data_dir"` // 用户数据目录,保存站点登录会话
	RemoteURL   string            `mapstructure:"remote_url"`    // 连接已运行的浏览器(DevTools websocket地址)
	StartURL    string            `mapstructure:"start_url"`     // 启动后打开的页面
	Panel       bool              `mapstructure:"panel"`         // 是否注入页面内控制面板
	Headers     map[string]string `mapstructure:"headers"`       // 额外请求头
}

// SelectorConfig 与站点页面约定的DOM选择器和文本标记
type SelectorConfig struct {
	DeleteTrigger   string `mapstructure:"delete_trigger"`   // 删除按钮内的图标
	TriggerAncestor string `mapstructure:"trigger_ancestor"` // 实际点击的祖先元素
	Dialog          string `mapstructure:"dialog"`           // 已打开的确认对话框
	Form            string `mapstructure:"form"`             // 对话框中的表单
	Reason          string `mapstructure:"reason"`           // 表单内的删除原因输入框
	ReasonText      string `mapstructure:"reason_text"`      // 删除原因
	FlagField       string `mapstructure:"flag_field"`       // 表单必需的隐藏字段名
	FlagValue       string `mapstructure:"flag_value"`       // 隐藏字段取值
	Confirm         string `mapstructure:"confirm"`          // 表单内的最终删除按钮
	HomeLink        string `mapstructure:"home_link"`        // 404页面的返回首页按钮
	ListLinks       string `mapstructure:"list_links"`       // 列表页的种子链接
	NotFoundTitle   string `mapstructure:"not_found_title"`  // 标题中的404标记
	NotFoundBody    string `mapstructure:"not_found_body"`   // 正文中的404标记
}

// TimingConfig 等待和延迟配置
type TimingConfig struct {
	ElementTimeout   time.Duration `mapstructure:"element_timeout"`   // 等待元素出现的上限
	PollInterval     time.Duration `mapstructure:"poll_interval"`     // 轮询间隔
	SettleDelay      time.Duration `mapstructure:"settle_delay"`      // 填写表单后的稳定等待
	ConfirmDelay     time.Duration `mapstructure:"confirm_delay"`     // 点击确认前的等待
	PostSubmitDelay  time.Duration `mapstructure:"post_submit_delay"` // 提交后等待页面跳转
	HomeDelay        time.Duration `mapstructure:"home_delay"`        // 点击返回首页后的等待
	RetryDelay       time.Duration `mapstructure:"retry_delay"`       // 仍在详情页时刷新前的等待
	IdlePoll         time.Duration `mapstructure:"idle_poll"`         // 空闲时检查队列的间隔
	LoadTimeout      time.Duration `mapstructure:"load_timeout"`      // 等待页面加载的上限
	ExecutorDeadline time.Duration `mapstructure:"executor_deadline"` // 单页执行期限,0表示不限制
}

// StorageConfig 存储配置
type StorageConfig struct {
	Backend  string `mapstructure:"backend"`   // file | sqlite | memory
	StateDir string `mapstructure:"state_dir"` // 状态目录
}

// LoggingConfig 日志配置
type LoggingConfig struct {
	Level    string         `mapstructure:"level"`
	LogDir   string         `mapstructure:"log_dir"`
	Rotation RotationConfig `mapstructure:"rotation"`
}

// RotationConfig 日志轮转配置
type RotationConfig struct {
	MaxSize    int  `mapstructure:"max_size"`
	MaxBackups int  `mapstructure:"max_backups"`
	MaxAge     int  `mapstructure:"max_age"`
	Compress   bool `mapstructure:"compress"`
}

// DefaultSites 默认启用的UNIT3D站点
var DefaultSites = []string{
	"https://privatesilverscreen.cc/*",
	"https://onlyencodes.cc/*",
	"https://blutopia.cc/*",
	"https://yu-scene.net/*",
	"https://fearnopeer.com/*",
	"https://aither.cc/*",
	"https://capybarabr.com/*",
	"https://locadora.cc/*",
}

// DefaultSelectors 默认DOM约定
func DefaultSelectors() SelectorConfig {
	return SelectorConfig{
		DeleteTrigger:   "button.form__button--outlined i.fa-times",
		TriggerAncestor: "button",
		Dialog:          "dialog[open]",
		Form:            "dialog[open] form",
		Reason:          "textarea#message",
		ReasonText:      "sorry, file deleted !",
		FlagField:       "bon",
		FlagValue:       "0",
		Confirm:         "button.form__button--filled",
		HomeLink:        ".error__home-link",
		ListLinks:       "a.user-uploads__name",
		NotFoundTitle:   "404",
		NotFoundBody:    "404: Page Not Found",
	}
}

// DefaultTiming 默认时间参数
func DefaultTiming() TimingConfig {
	return TimingConfig{
		ElementTimeout:  5000 * time.Millisecond,
		PollInterval:    100 * time.Millisecond,
		SettleDelay:     500 * time.Millisecond,
		ConfirmDelay:    10000 * time.Millisecond,
		PostSubmitDelay: 10000 * time.Millisecond,
		HomeDelay:       10000 * time.Millisecond,
		RetryDelay:      3000 * time.Millisecond,
		IdlePoll:        1000 * time.Millisecond,
		LoadTimeout:     30 * time.Second,
	}
}

// LoadConfig 加载配置文件
func LoadConfig(configPath string) (*Config, error) {
	v := viper.New()

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")

		v.AddConfigPath("./configs")
		v.AddConfigPath(".")

		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".autodelete"))
		}
	}

	// 环境变量覆盖: AUTODELETE_STORAGE_BACKEND 等
	v.SetEnvPrefix("AUTODELETE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		// 配置文件不存在时使用默认值
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("读取配置文件失败: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("解析配置文件失败: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &config, nil
}

// setDefaults 设置默认配置值
func setDefaults(v *viper.Viper) {
	// 浏览器
	v.SetDefault("browser.headless", false)
	v.SetDefault("browser.user_data_dir", "profile")
	v.SetDefault("browser.panel", true)

	// 站点
	v.SetDefault("sites", DefaultSites)

	// 选择器
	sel := DefaultSelectors()
	v.SetDefault("selectors.delete_trigger", sel.DeleteTrigger)
	v.SetDefault("selectors.trigger_ancestor", sel.TriggerAncestor)
	v.SetDefault("selectors.dialog", sel.Dialog)
	v.SetDefault("selectors.form", sel.Form)
	v.SetDefault("selectors.reason", sel.Reason)
	v.SetDefault("selectors.reason_text", sel.ReasonText)
	v.SetDefault("selectors.flag_field", sel.FlagField)
	v.SetDefault("selectors.flag_value", sel.FlagValue)
	v.SetDefault("selectors.confirm", sel.Confirm)
	v.SetDefault("selectors.home_link", sel.HomeLink)
	v.SetDefault("selectors.list_links", sel.ListLinks)
	v.SetDefault("selectors.not_found_title", sel.NotFoundTitle)
	v.SetDefault("selectors.not_found_body", sel.NotFoundBody)

	// 时间
	timing := DefaultTiming()
	v.SetDefault("timing.element_timeout", timing.ElementTimeout)
	v.SetDefault("timing.poll_interval", timing.PollInterval)
	v.SetDefault("timing.settle_delay", timing.SettleDelay)
	v.SetDefault("timing.confirm_delay", timing.ConfirmDelay)
	v.SetDefault("timing.post_submit_delay", timing.PostSubmitDelay)
	v.SetDefault("timing.home_delay", timing.HomeDelay)
	v.SetDefault("timing.retry_delay", timing.RetryDelay)
	v.SetDefault("timing.idle_poll", timing.IdlePoll)
	v.SetDefault("timing.load_timeout", timing.LoadTimeout)
	v.SetDefault("timing.executor_deadline", time.Duration(0))

	// 存储
	v.SetDefault("storage.backend", "file")
	v.SetDefault("storage.state_dir", "state")

	// 日志
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.log_dir", "logs")
	v.SetDefault("logging.rotation.max_size", 10)
	v.SetDefault("logging.rotation.max_backups", 3)
	v.SetDefault("logging.rotation.max_age", 28)
	v.SetDefault("logging.rotation.compress", true)
}

// Validate 验证配置
func (c *Config) Validate() error {
	if len(c.Sites) == 0 {
		return fmt.Errorf("sites不能为空")
	}
	if c.Timing.PollInterval <= 0 {
		return fmt.Errorf("timing.poll_interval必须大于0")
	}
	if c.Timing.ElementTimeout < c.Timing.PollInterval {
		return fmt.Errorf("timing.element_timeout不能小于poll_interval")
	}
	if c.Timing.IdlePoll <= 0 {
		return fmt.Errorf("timing.idle_poll必须大于0")
	}
	if c.Selectors.DeleteTrigger == "" || c.Selectors.Dialog == "" || c.Selectors.Form == "" ||
		c.Selectors.Reason == "" || c.Selectors.Confirm == "" {
		return fmt.Errorf("删除流程所需的选择器不能为空")
	}
	return nil
}

// MergeCLIFlags 合并命令行参数到配置
func (c *Config) MergeCLIFlags(headless *bool, remoteURL string, stateDir string, backend string) {
	// 命令行参数优先于配置文件
	if headless != nil {
		c.Browser.Headless = *headless
	}
	if remoteURL != "" {
		c.Browser.RemoteURL = remoteURL
	}
	if stateDir != "" {
		c.Storage.StateDir = stateDir
	}
	if backend != "" {
		c.Storage.Backend = backend
	}
}
