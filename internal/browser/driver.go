package browser

import (
	"context"
	"fmt"
	"time"

	"github.com/RecoveryAshes/unit3d-autodelete/internal/models"
	"github.com/go-rod/rod"
)

// 页面内脚本
const (
	jsSnapshot = `(home) => ({
		title: document.title || "",
		body: document.body ? document.body.innerText : "",
		home: !!(home && document.querySelector(home))
	})`

	jsClickClosest = `(selector, ancestor) => {
		const el = document.querySelector(selector);
		if (!el) return false;
		const target = ancestor ? el.closest(ancestor) : el;
		if (!target) return false;
		target.click();
		return true;
	}`

	jsSetValue = `(selector, value) => {
		const el = document.querySelector(selector);
		if (!el) return false;
		el.value = value;
		el.dispatchEvent(new Event('input', { bubbles: true }));
		return true;
	}`

	jsEnsureField = `(formSelector, name, value) => {
		const form = document.querySelector(formSelector);
		if (!form) return false;
		let input = form.querySelector('input[name="' + name + '"]');
		if (!input) {
			input = document.createElement('input');
			input.type = 'hidden';
			input.name = name;
			input.value = value;
			form.appendChild(input);
		} else {
			input.value = value;
			input.dispatchEvent(new Event('input', { bubbles: true }));
		}
		return true;
	}`
)

// RodDriver core.Driver的go-rod实现
type RodDriver struct {
	page        *rod.Page
	loadTimeout time.Duration
}

// NewRodDriver 创建驱动
func NewRodDriver(page *rod.Page, loadTimeout time.Duration) *RodDriver {
	return &RodDriver{
		page:        page,
		loadTimeout: loadTimeout,
	}
}

// Location 当前文档的URL
func (d *RodDriver) Location(ctx context.Context) (string, error) {
	info, err := d.page.Context(ctx).Info()
	if err != nil {
		return "", err
	}
	return info.URL, nil
}

// Snapshot 读取标题、正文和返回首页按钮
func (d *RodDriver) Snapshot(ctx context.Context, homeSelector string) (models.DocumentState, error) {
	res, err := d.page.Context(ctx).Eval(jsSnapshot, homeSelector)
	if err != nil {
		return models.DocumentState{}, err
	}
	return models.DocumentState{
		Title:       res.Value.Get("title").Str(),
		BodyText:    res.Value.Get("body").Str(),
		HasHomeLink: res.Value.Get("home").Bool(),
	}, nil
}

// Exists 立即检查元素是否存在
func (d *RodDriver) Exists(ctx context.Context, selector string) (bool, error) {
	has, _, err := d.page.Context(ctx).Has(selector)
	return has, err
}

// ClickClosest 点击元素最近的ancestor祖先
func (d *RodDriver) ClickClosest(ctx context.Context, selector, ancestor string) error {
	return d.call(ctx, jsClickClosest, selector, selector, ancestor)
}

// Click 点击元素
func (d *RodDriver) Click(ctx context.Context, selector string) error {
	return d.call(ctx, jsClickClosest, selector, selector, "")
}

// SetValue 赋值并派发input事件
func (d *RodDriver) SetValue(ctx context.Context, selector, value string) error {
	return d.call(ctx, jsSetValue, selector, selector, value)
}

// EnsureField 确保表单中存在隐藏字段
func (d *RodDriver) EnsureField(ctx context.Context, formSelector, name, value string) error {
	return d.call(ctx, jsEnsureField, formSelector, formSelector, name, value)
}

// Navigate 跳转并等待加载
func (d *RodDriver) Navigate(ctx context.Context, url string) error {
	page := d.page.Context(ctx).Timeout(d.loadTimeout)
	if err := page.Navigate(url); err != nil {
		return err
	}
	return page.WaitLoad()
}

// Reload 刷新并等待加载
func (d *RodDriver) Reload(ctx context.Context) error {
	page := d.page.Context(ctx).Timeout(d.loadTimeout)
	if err := page.Reload(); err != nil {
		return err
	}
	return page.WaitLoad()
}

// call 执行返回布尔值的页面脚本,false时返回models.ErrElementMissing
func (d *RodDriver) call(ctx context.Context, js, selector string, args ...interface{}) error {
	res, err := d.page.Context(ctx).Eval(js, args...)
	if err != nil {
		return err
	}
	if !res.Value.Bool() {
		return fmt.Errorf("%w: %s", models.ErrElementMissing, selector)
	}
	return nil
}
