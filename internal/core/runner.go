package core

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/RecoveryAshes/unit3d-autodelete/internal/models"
	"github.com/RecoveryAshes/unit3d-autodelete/internal/storage"
	"github.com/RecoveryAshes/unit3d-autodelete/internal/utils"
)

// SiteFilter 站点允许列表
type SiteFilter interface {
	Allowed(rawURL string) bool
}

// ReportSink 运行报告的保存位置
type ReportSink interface {
	Save(report *models.RunReport) (string, error)
}

// Runner 队列处理主循环
// 每次迭代对应一次页面加载: 读取存储 → 分类 → 执行 → 解析 → 导航
type Runner struct {
	driver     Driver
	store      storage.Store
	classifier *Classifier
	executor   *Executor
	resolver   *Resolver
	notifier   Notifier
	sites      SiteFilter
	sink       ReportSink
	sel        SelectorConfig
	timing     TimingConfig

	// 当前运行的状态
	report      *models.RunReport
	fingerprint string
	lastIndex   int
	reloads     int
}

// NewRunner 创建运行器
// sites为nil时不限制站点,sink为nil时不保存报告
func NewRunner(cfg *Config, driver Driver, store storage.Store, notifier Notifier, sites SiteFilter, sink ReportSink) *Runner {
	return &Runner{
		driver:     driver,
		store:      store,
		classifier: NewClassifier(cfg.Selectors),
		executor:   NewExecutor(driver, cfg.Selectors, cfg.Timing),
		resolver:   NewResolver(store, notifier, cfg.Timing),
		notifier:   notifier,
		sites:      sites,
		sink:       sink,
		sel:        cfg.Selectors,
		timing:     cfg.Timing,
		lastIndex:  -1,
	}
}

// Run 持续处理队列直到ctx取消
// Step返回的错误只记录日志, 等待RetryDelay后重试
// 空闲时按IdlePoll间隔检查存储,以便响应其他进程的start/stop
func (r *Runner) Run(ctx context.Context) error {
	utils.Info("🚀 删除队列运行器已启动")

	for {
		navigated, err := r.Step(ctx)
		if err != nil {
			if ctx.Err() != nil {
				r.interrupt()
				return nil
			}
			// 页面加载超时等错误不终止运行, 等待后从存储重新开始
			utils.Error(err, "处理页面失败")
			if err := Sleep(ctx, r.timing.RetryDelay); err != nil {
				r.interrupt()
				return nil
			}
			continue
		}

		if navigated {
			continue
		}

		if err := Sleep(ctx, r.timing.IdlePoll); err != nil {
			r.interrupt()
			return nil
		}
	}
}

// Step 处理一次页面加载
// 返回是否触发了导航(触发时应立即处理下一次加载)
func (r *Runner) Step(ctx context.Context) (bool, error) {
	q, err := r.store.Load(ctx)
	if err != nil {
		return false, fmt.Errorf("读取队列失败: %w", err)
	}

	if q == nil {
		r.stopped()
		return false, nil
	}

	r.track(q)

	if q.Done() {
		// 上次运行在清除前退出
		utils.Warnf("队列游标已到末尾 (%d/%d), 清除队列", q.Index, q.Total())
		if err := r.store.Clear(ctx); err != nil {
			return false, fmt.Errorf("清除已完成队列失败: %w", err)
		}
		r.completed()
		return false, nil
	}

	location, err := r.driver.Location(ctx)
	if err != nil {
		return false, fmt.Errorf("读取当前页面地址失败: %w", err)
	}

	head, _ := q.Current()
	r.notifier.Progress(q)

	if r.sites != nil && !r.sites.Allowed(location) {
		utils.Logger.Debug().Str("url", location).Msg("当前页面不在站点列表中, 跳转到队列头部")
		return r.apply(ctx, r.resolver.Resume(q))
	}

	doc, err := r.driver.Snapshot(ctx, r.sel.HomeLink)
	if err != nil {
		return false, fmt.Errorf("读取页面内容失败: %w", err)
	}
	cls := r.classifier.Classify(location, doc)

	entry := utils.Entry(location, q.Index, q.Total())
	entry.Debug().Str("page", cls.Kind.String()).Msg("页面分类")

	isHead := models.SameTarget(location, head)

	switch {
	case cls.Kind == models.PageNotFound && isHead:
		r.recordDeleted(q.Index, head)
		action, err := r.resolver.OnNotFound(ctx, q, cls.HasHomeLink)
		return r.follow(ctx, action, err)

	case cls.Kind == models.PageDetail && isHead:
		return r.attempt(ctx, q, location)

	default:
		// 列表页、无关页面以及不属于队列头部的详情页/404页面
		return r.apply(ctx, r.resolver.Resume(q))
	}
}

// attempt 在队列头部详情页上执行删除
func (r *Runner) attempt(ctx context.Context, q *models.Queue, location string) (bool, error) {
	utils.Infof("🗑️  正在删除 #%d/%d: %s", q.Index+1, q.Total(), location)

	outcome, err := r.executor.Execute(ctx, location)
	if err != nil {
		return false, fmt.Errorf("执行删除失败: %w", err)
	}

	// 执行期间队列可能已被停止或替换
	current, err := r.store.Load(ctx)
	if err != nil {
		return false, fmt.Errorf("读取队列失败: %w", err)
	}
	if current == nil || fingerprint(current) != r.fingerprint || current.Index != q.Index {
		utils.Warn("执行期间队列已变更, 放弃本次结果")
		return false, nil
	}

	if outcome.Failed() {
		r.recordFailed(q.Index, outcome)
		action, err := r.resolver.OnFailure(ctx, q, outcome)
		return r.follow(ctx, action, err)
	}

	after, err := r.driver.Location(ctx)
	if err != nil {
		return false, fmt.Errorf("读取当前页面地址失败: %w", err)
	}
	doc, err := r.driver.Snapshot(ctx, r.sel.HomeLink)
	if err != nil {
		return false, fmt.Errorf("读取页面内容失败: %w", err)
	}
	cls := r.classifier.Classify(after, doc)

	head, _ := q.Current()
	if cls.Kind == models.PageNotFound && models.SameTarget(after, head) {
		r.recordDeleted(q.Index, head)
	}

	action, err := r.resolver.AfterAttempt(ctx, q, after, cls)
	return r.follow(ctx, action, err)
}

// follow 执行解析结果,队列已被停止或替换时放弃
func (r *Runner) follow(ctx context.Context, action Action, err error) (bool, error) {
	if errors.Is(err, models.ErrQueueChanged) {
		utils.Warn("队列已被停止或替换, 放弃本次结果")
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return r.apply(ctx, action)
}

// apply 执行解析器给出的动作
func (r *Runner) apply(ctx context.Context, action Action) (bool, error) {
	switch action.Kind {
	case ActionNavigate:
		utils.Logger.Debug().Str("url", action.URL).Msg("跳转")
		if err := r.driver.Navigate(ctx, action.URL); err != nil {
			return false, fmt.Errorf("跳转到 %s 失败: %w", action.URL, err)
		}
		return true, nil

	case ActionReload:
		r.reloads++
		if r.report != nil {
			r.report.Stats.Reloads++
		}
		utils.Logger.Warn().Int("attempt", r.reloads).Msg("仍在详情页, 稍后刷新重试")
		if err := Sleep(ctx, action.Delay); err != nil {
			return false, err
		}
		if err := r.driver.Reload(ctx); err != nil {
			return false, fmt.Errorf("刷新页面失败: %w", err)
		}
		return true, nil

	case ActionGoHome:
		if err := r.driver.Click(ctx, r.sel.HomeLink); err != nil {
			return false, fmt.Errorf("点击返回首页失败: %w", err)
		}
		if err := Sleep(ctx, action.Delay); err != nil {
			return false, err
		}
		return true, nil

	case ActionComplete:
		r.completed()
		return false, nil
	}
	return false, nil
}

// track 识别新的队列运行并维护重试计数
func (r *Runner) track(q *models.Queue) {
	fp := fingerprint(q)
	if r.report != nil && fp != r.fingerprint {
		// 队列被直接替换(未经stop)
		r.finish(models.RunStatusStopped)
	}
	if r.report == nil {
		r.report = models.NewRunReport(q.Total())
		r.fingerprint = fp
		utils.Logger.Info().
			Str("run_id", r.report.RunID).
			Int("index", q.Index).
			Int("total", q.Total()).
			Msg("📋 开始处理删除队列")
	}
	if q.Index != r.lastIndex {
		r.lastIndex = q.Index
		r.reloads = 0
	}
}

func (r *Runner) recordDeleted(index int, url string) {
	total := 0
	if r.report != nil {
		total = r.report.Stats.Total
	}
	entry := utils.Entry(url, index, total)
	entry.Info().Msg("✅ 删除成功")
	if r.report == nil {
		return
	}
	r.report.Stats.Deleted++
	r.report.Entries = append(r.report.Entries, models.EntryReport{
		Index:      index,
		URL:        url,
		Result:     models.EntryDeleted,
		Reloads:    r.reloads,
		FinishedAt: time.Now(),
	})
}

func (r *Runner) recordFailed(index int, outcome models.Outcome) {
	if r.report == nil {
		return
	}
	r.report.Stats.Failed++
	r.report.Entries = append(r.report.Entries, models.EntryReport{
		Index:      index,
		URL:        outcome.URL,
		Result:     models.EntryFailed,
		ErrorType:  outcome.Kind.String(),
		ErrorMsg:   outcome.Message,
		Reloads:    r.reloads,
		FinishedAt: time.Now(),
	})
}

// completed 完成信号,每次运行只触发一次
func (r *Runner) completed() {
	report := r.report
	if report == nil {
		report = models.NewRunReport(0)
	}
	report.Finish(models.RunStatusCompleted)
	r.notifier.Completed(report)
	r.save(report)
	r.reset()
}

// stopped 队列在运行中被清除
func (r *Runner) stopped() {
	if r.report == nil {
		return
	}
	r.notifier.Stopped()
	r.finish(models.RunStatusStopped)
}

// interrupt 进程退出时队列仍未完成
func (r *Runner) interrupt() {
	if r.report == nil {
		return
	}
	utils.Warn("进程退出, 队列进度已保存, 下次运行将继续")
	r.finish(models.RunStatusInterrupted)
}

func (r *Runner) finish(status models.RunStatus) {
	r.report.Finish(status)
	r.save(r.report)
	r.reset()
}

func (r *Runner) save(report *models.RunReport) {
	if r.sink == nil {
		return
	}
	path, err := r.sink.Save(report)
	if err != nil {
		utils.Logger.Error().Err(err).Str("run_id", report.RunID).Msg("保存运行报告失败")
		return
	}
	utils.Infof("📄 运行报告已保存: %s", path)
}

func (r *Runner) reset() {
	r.report = nil
	r.fingerprint = ""
	r.lastIndex = -1
	r.reloads = 0
}

// Report 当前运行的报告,空闲时为nil
func (r *Runner) Report() *models.RunReport {
	return r.report
}

// fingerprint 队列内容标识,用于识别被替换的队列
func fingerprint(q *models.Queue) string {
	return strings.Join(q.URLs, "\n")
}
