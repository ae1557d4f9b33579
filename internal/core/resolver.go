package core

import (
	"context"
	"fmt"
	"time"

	"github.com/RecoveryAshes/unit3d-autodelete/internal/models"
	"github.com/RecoveryAshes/unit3d-autodelete/internal/storage"
	"github.com/RecoveryAshes/unit3d-autodelete/internal/utils"
)

// ActionKind 解析器给出的下一步动作
type ActionKind int

const (
	ActionNone     ActionKind = iota // 不做任何事
	ActionNavigate                   // 跳转到URL
	ActionReload                     // 等待Delay后刷新当前页
	ActionGoHome                     // 点击返回首页,等待Delay
	ActionComplete                   // 队列已清除,触发完成信号
)

// String 返回动作名称
func (k ActionKind) String() string {
	switch k {
	case ActionNavigate:
		return "navigate"
	case ActionReload:
		return "reload"
	case ActionGoHome:
		return "go_home"
	case ActionComplete:
		return "complete"
	default:
		return "none"
	}
}

// Action 下一步动作
type Action struct {
	Kind  ActionKind
	URL   string
	Delay time.Duration
}

// Resolver 根据页面分类和执行结果推进队列
// 所有对队列游标的修改都在这里完成,并在决定导航之前持久化
type Resolver struct {
	store    storage.Store
	notifier Notifier
	timing   TimingConfig
}

// NewResolver 创建结果解析器
func NewResolver(store storage.Store, notifier Notifier, timing TimingConfig) *Resolver {
	return &Resolver{
		store:    store,
		notifier: notifier,
		timing:   timing,
	}
}

// Resume 从列表页或无关页面恢复: 跳转到队列头部
func (r *Resolver) Resume(q *models.Queue) Action {
	head, ok := q.Current()
	if !ok {
		return Action{Kind: ActionComplete}
	}
	return Action{Kind: ActionNavigate, URL: head}
}

// OnNotFound 队列头部出现404,视为删除成功
func (r *Resolver) OnNotFound(ctx context.Context, q *models.Queue, hasHomeLink bool) (Action, error) {
	done, err := r.advance(ctx, q)
	if err != nil {
		return Action{}, err
	}
	if done {
		return Action{Kind: ActionComplete}, nil
	}
	if hasHomeLink {
		return Action{Kind: ActionGoHome, Delay: r.timing.HomeDelay}, nil
	}
	return r.Resume(q), nil
}

// OnFailure 硬失败: 提示操作员,跳过当前条目
func (r *Resolver) OnFailure(ctx context.Context, q *models.Queue, outcome models.Outcome) (Action, error) {
	err := outcome.Err()
	if err == nil {
		return Action{}, fmt.Errorf("结果 %s 不是硬失败", outcome.Kind)
	}

	entry := utils.Entry(outcome.URL, q.Index, q.Total())
	entry.Error().Str("kind", outcome.Kind.String()).Msg(outcome.Message)
	r.notifier.Alert(err)

	done, err := r.advance(ctx, q)
	if err != nil {
		return Action{}, err
	}
	if done {
		return Action{Kind: ActionComplete}, nil
	}
	return r.Resume(q), nil
}

// AfterAttempt 执行器完成一次尝试(已删除或对话框未出现)后,根据当前页面决定下一步
// current为重新采集的当前URL
func (r *Resolver) AfterAttempt(ctx context.Context, q *models.Queue, current string, cls models.Classification) (Action, error) {
	head, ok := q.Current()
	if !ok {
		return Action{Kind: ActionComplete}, nil
	}

	switch {
	case cls.Kind == models.PageNotFound && models.SameTarget(current, head):
		return r.OnNotFound(ctx, q, cls.HasHomeLink)
	case cls.Kind == models.PageDetail:
		// 仍停留在详情页: 删除尚未生效,稍后刷新重试
		return Action{Kind: ActionReload, Delay: r.timing.RetryDelay}, nil
	default:
		return r.Resume(q), nil
	}
}

// advance 游标前进一位并持久化,返回队列是否已完成
// 存储中的队列已被停止或替换时返回models.ErrQueueChanged,不写入
func (r *Resolver) advance(ctx context.Context, q *models.Queue) (bool, error) {
	stored, err := r.store.Load(ctx)
	if err != nil {
		return false, fmt.Errorf("读取队列失败: %w", err)
	}
	if stored == nil || fingerprint(stored) != fingerprint(q) || stored.Index != q.Index {
		return false, models.ErrQueueChanged
	}

	q.Advance()

	if q.Done() {
		if err := r.store.Clear(ctx); err != nil {
			return false, fmt.Errorf("清除已完成队列失败: %w", err)
		}
		r.notifier.Progress(q)
		return true, nil
	}

	if err := r.store.Save(ctx, q); err != nil {
		return false, fmt.Errorf("保存队列进度失败: %w", err)
	}
	r.notifier.Progress(q)
	return false, nil
}
