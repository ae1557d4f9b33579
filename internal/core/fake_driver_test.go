package core

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/RecoveryAshes/unit3d-autodelete/internal/models"
)

// fakePage 模拟的一个页面
type fakePage struct {
	title    string
	body     string
	elements map[string]bool
}

// fakeDriver 按URL脚本化的页面状态
type fakeDriver struct {
	mu sync.Mutex

	url   string
	pages map[string]*fakePage

	// onConfirm 点击确认删除后切换到的页面状态
	onConfirm func(d *fakeDriver)

	// appearAfter 选择器在指定时间后才出现
	appearAfter map[string]time.Time

	// navigateFailures 前N次跳转返回错误
	navigateFailures int

	// failOn 对指定选择器的点击/赋值操作返回的错误
	failOn map[string]error

	clicks     []string
	values     map[string]string
	fields     map[string]string
	navigates  []string
	reloads    int
	fieldCalls int
}

func newFakeDriver(start string) *fakeDriver {
	return &fakeDriver{
		url:         start,
		pages:       make(map[string]*fakePage),
		appearAfter: make(map[string]time.Time),
		values:      make(map[string]string),
		fields:      make(map[string]string),
		failOn:      make(map[string]error),
	}
}

func (d *fakeDriver) page(url string) *fakePage {
	p, ok := d.pages[url]
	if !ok {
		p = &fakePage{elements: make(map[string]bool)}
		d.pages[url] = p
	}
	return p
}

// detailPage 设置完整的删除表单
func (d *fakeDriver) detailPage(url string, sel SelectorConfig) *fakePage {
	p := d.page(url)
	p.title = "Torrent - UNIT3D"
	for _, s := range []string{
		sel.DeleteTrigger,
		sel.Dialog,
		sel.Form,
		sel.Form + " " + sel.Reason,
		sel.Form + " " + sel.Confirm,
	} {
		p.elements[s] = true
	}
	return p
}

// notFoundPage 设置404页面
func (d *fakeDriver) notFoundPage(url string, home bool, sel SelectorConfig) *fakePage {
	p := d.page(url)
	p.title = "Error 404 - UNIT3D"
	p.body = "404: Page Not Found"
	p.elements = map[string]bool{sel.HomeLink: home}
	return p
}

func (d *fakeDriver) current() *fakePage {
	return d.page(d.url)
}

func (d *fakeDriver) Location(ctx context.Context) (string, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.url, nil
}

func (d *fakeDriver) Snapshot(ctx context.Context, homeSelector string) (models.DocumentState, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	p := d.current()
	return models.DocumentState{Title: p.title, BodyText: p.body, HasHomeLink: p.elements[homeSelector]}, nil
}

func (d *fakeDriver) Exists(ctx context.Context, selector string) (bool, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if at, ok := d.appearAfter[selector]; ok && time.Now().Before(at) {
		return false, nil
	}
	return d.current().elements[selector], nil
}

func (d *fakeDriver) ClickClosest(ctx context.Context, selector, ancestor string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.clicks = append(d.clicks, selector+" < "+ancestor)
	return d.failOn[selector]
}

func (d *fakeDriver) Click(ctx context.Context, selector string) error {
	d.mu.Lock()
	d.clicks = append(d.clicks, selector)
	onConfirm := d.onConfirm
	err := d.failOn[selector]
	d.mu.Unlock()

	if err != nil {
		return err
	}

	if strings.HasSuffix(selector, "button.form__button--filled") && onConfirm != nil {
		d.mu.Lock()
		onConfirm(d)
		d.mu.Unlock()
	}
	return nil
}

func (d *fakeDriver) SetValue(ctx context.Context, selector, value string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if err := d.failOn[selector]; err != nil {
		return err
	}
	d.values[selector] = value
	return nil
}

func (d *fakeDriver) EnsureField(ctx context.Context, formSelector, name, value string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.fieldCalls++
	if err := d.failOn[formSelector]; err != nil {
		return err
	}
	d.fields[name] = value
	return nil
}

func (d *fakeDriver) Navigate(ctx context.Context, url string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.navigates = append(d.navigates, url)
	if d.navigateFailures > 0 {
		d.navigateFailures--
		return errors.New("navigation timeout")
	}
	d.url = url
	return nil
}

func (d *fakeDriver) Reload(ctx context.Context) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.reloads++
	return nil
}

// fakeNotifier 记录提示
type fakeNotifier struct {
	mu        sync.Mutex
	progress  []string
	alerts    []error
	completed int
	stopped   int
	report    *models.RunReport
}

func (n *fakeNotifier) Progress(q *models.Queue) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.progress = append(n.progress, q.ProgressText())
}

func (n *fakeNotifier) Alert(err error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.alerts = append(n.alerts, err)
}

func (n *fakeNotifier) Completed(report *models.RunReport) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.completed++
	n.report = report
}

func (n *fakeNotifier) Stopped() {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.stopped++
}

// fakeSink 记录保存的报告
type fakeSink struct {
	reports []*models.RunReport
}

func (s *fakeSink) Save(report *models.RunReport) (string, error) {
	s.reports = append(s.reports, report)
	return "reports/run_" + report.RunID + ".json", nil
}

// fastConfig 毫秒级时间参数
func fastConfig() *Config {
	return &Config{
		Sites:     DefaultSites,
		Selectors: DefaultSelectors(),
		Timing: TimingConfig{
			ElementTimeout:  30 * time.Millisecond,
			PollInterval:    5 * time.Millisecond,
			SettleDelay:     time.Millisecond,
			ConfirmDelay:    time.Millisecond,
			PostSubmitDelay: time.Millisecond,
			HomeDelay:       time.Millisecond,
			RetryDelay:      time.Millisecond,
			IdlePoll:        5 * time.Millisecond,
			LoadTimeout:     time.Second,
		},
	}
}
