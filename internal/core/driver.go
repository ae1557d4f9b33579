package core

import (
	"context"

	"github.com/RecoveryAshes/unit3d-autodelete/internal/models"
)

// Driver 对当前浏览器标签页中已渲染文档的操作
// 所有交互都通过操作DOM完成,不直接访问站点HTTP接口
type Driver interface {
	// Location 当前文档的URL
	Location(ctx context.Context) (string, error)

	// Snapshot 读取标题、正文文本以及返回首页按钮是否存在
	Snapshot(ctx context.Context, homeSelector string) (models.DocumentState, error)

	// Exists 立即检查选择器是否匹配到元素(不等待)
	Exists(ctx context.Context, selector string) (bool, error)

	// ClickClosest 点击匹配元素最近的ancestor祖先,ancestor为空时点击元素本身
	ClickClosest(ctx context.Context, selector, ancestor string) error

	// Click 点击匹配元素
	Click(ctx context.Context, selector string) error

	// SetValue 设置输入框的值并派发冒泡的input事件
	SetValue(ctx context.Context, selector, value string) error

	// EnsureField 确保表单中存在name字段且值为value
	// 不存在时创建隐藏input,存在时赋值并派发input事件
	EnsureField(ctx context.Context, formSelector, name, value string) error

	// Navigate 跳转到url并等待加载
	Navigate(ctx context.Context, url string) error

	// Reload 刷新当前页面并等待加载
	Reload(ctx context.Context) error
}

// Notifier 面向操作员的提示
type Notifier interface {
	// Progress 队列进度更新
	Progress(q *models.Queue)

	// Alert 硬失败提示,携带失败URL和诊断信息
	Alert(err error)

	// Completed 队列全部处理完毕
	Completed(report *models.RunReport)

	// Stopped 队列被操作员停止
	Stopped()
}
