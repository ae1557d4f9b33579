package core

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/RecoveryAshes/unit3d-autodelete/internal/models"
	"github.com/RecoveryAshes/unit3d-autodelete/internal/utils"
)

// ExecState 单次删除交互的状态
type ExecState int

const (
	StateIdle ExecState = iota
	StateAwaitingControl
	StateAwaitingDialog
	StateFillingForm
	StateAwaitingConfirmDelay
	StateSubmitted
	StateAwaitingResultNavigation
	StateSuccess
	StateFailed
)

var execStateNames = map[ExecState]string{
	StateIdle:                     "idle",
	StateAwaitingControl:          "awaiting_control",
	StateAwaitingDialog:           "awaiting_dialog",
	StateFillingForm:              "filling_form",
	StateAwaitingConfirmDelay:     "awaiting_confirm_delay",
	StateSubmitted:                "submitted",
	StateAwaitingResultNavigation: "awaiting_result_navigation",
	StateSuccess:                  "success",
	StateFailed:                   "failed",
}

// String 返回状态名称
func (s ExecState) String() string {
	if name, ok := execStateNames[s]; ok {
		return name
	}
	return "unknown"
}

// Executor 在种子详情页上执行删除交互
// 打开删除对话框 → 填写原因 → 确认 → 等待跳转
type Executor struct {
	driver Driver
	sel    SelectorConfig
	timing TimingConfig

	// sleep 固定延迟,测试中可替换
	sleep func(context.Context, time.Duration) error
}

// NewExecutor 创建执行器
func NewExecutor(driver Driver, sel SelectorConfig, timing TimingConfig) *Executor {
	return &Executor{
		driver: driver,
		sel:    sel,
		timing: timing,
		sleep:  Sleep,
	}
}

// run 单次执行的上下文
type run struct {
	*Executor
	url   string
	state ExecState
}

// Execute 执行一次删除交互
// 硬失败和软失败都通过Outcome返回;只有浏览器通信失败或ctx被取消时返回error
func (e *Executor) Execute(ctx context.Context, pageURL string) (models.Outcome, error) {
	parent := ctx
	if e.timing.ExecutorDeadline > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.timing.ExecutorDeadline)
		defer cancel()
	}

	r := &run{Executor: e, url: pageURL, state: StateIdle}
	outcome, err := r.execute(ctx)
	if err != nil && parent.Err() == nil && errors.Is(err, context.DeadlineExceeded) {
		r.enter(StateFailed)
		return r.outcome(models.OutcomeTimedOut, fmt.Sprintf("超过单页执行期限 %s (状态: %s)", e.timing.ExecutorDeadline, r.state)), nil
	}
	return outcome, err
}

func (r *run) execute(ctx context.Context) (models.Outcome, error) {
	sel := r.sel

	// 1. 等待删除按钮
	r.enter(StateAwaitingControl)
	if err := r.await(ctx, sel.DeleteTrigger); err != nil {
		if errors.Is(err, models.ErrTimeout) {
			r.enter(StateFailed)
			return r.outcome(models.OutcomeControlNotFound, "Element not found: "+sel.DeleteTrigger), nil
		}
		return models.Outcome{}, err
	}
	if err := r.driver.ClickClosest(ctx, sel.DeleteTrigger, sel.TriggerAncestor); err != nil {
		return r.missing(err, models.OutcomeControlNotFound, "Element not found: "+sel.TriggerAncestor, "点击删除按钮失败")
	}

	// 2. 等待确认对话框,超时视为软跳过
	r.enter(StateAwaitingDialog)
	if err := r.await(ctx, sel.Dialog); err != nil {
		if errors.Is(err, models.ErrTimeout) {
			utils.Logger.Warn().Str("url", r.url).Str("selector", sel.Dialog).
				Msg("Deletion dialog not found. Skipping deletion for this torrent and moving on.")
			return r.outcome(models.OutcomeDialogNotPresented, "Element not found: "+sel.Dialog), nil
		}
		return models.Outcome{}, err
	}

	// 3. 填写表单
	r.enter(StateFillingForm)
	ok, err := r.driver.Exists(ctx, sel.Form)
	if err != nil {
		return models.Outcome{}, err
	}
	if !ok {
		r.enter(StateFailed)
		return r.outcome(models.OutcomeFormFieldMissing, "Deletion form not found in dialog"), nil
	}

	reasonSel := sel.Form + " " + sel.Reason
	ok, err = r.driver.Exists(ctx, reasonSel)
	if err != nil {
		return models.Outcome{}, err
	}
	if !ok {
		r.enter(StateFailed)
		return r.outcome(models.OutcomeFormFieldMissing, "Deletion reason textarea not found"), nil
	}
	if err := r.driver.SetValue(ctx, reasonSel, sel.ReasonText); err != nil {
		return r.missing(err, models.OutcomeFormFieldMissing, "Deletion reason textarea not found", "填写删除原因失败")
	}

	if sel.FlagField != "" {
		if err := r.driver.EnsureField(ctx, sel.Form, sel.FlagField, sel.FlagValue); err != nil {
			return r.missing(err, models.OutcomeFormFieldMissing, "Deletion form not found in dialog", "设置"+sel.FlagField+"字段失败")
		}
	}

	// 4. 等待监听器更新状态
	r.enter(StateAwaitingConfirmDelay)
	if err := r.sleep(ctx, r.timing.SettleDelay); err != nil {
		return models.Outcome{}, err
	}

	confirmSel := sel.Form + " " + sel.Confirm
	ok, err = r.driver.Exists(ctx, confirmSel)
	if err != nil {
		return models.Outcome{}, err
	}
	if !ok {
		r.enter(StateFailed)
		return r.outcome(models.OutcomeControlNotFound, "Final delete button not found in deletion form"), nil
	}

	// 5. 确认前等待站点动画/校验
	if err := r.sleep(ctx, r.timing.ConfirmDelay); err != nil {
		return models.Outcome{}, err
	}
	if err := r.driver.Click(ctx, confirmSel); err != nil {
		return r.missing(err, models.OutcomeControlNotFound, "Final delete button not found in deletion form", "点击确认删除失败")
	}
	r.enter(StateSubmitted)

	// 6. 无条件等待结果页面跳转
	r.enter(StateAwaitingResultNavigation)
	if err := r.sleep(ctx, r.timing.PostSubmitDelay); err != nil {
		return models.Outcome{}, err
	}

	r.enter(StateSuccess)
	return r.outcome(models.OutcomeDeleted, ""), nil
}

// await 轮询等待选择器出现
func (r *run) await(ctx context.Context, selector string) error {
	return AwaitCondition(ctx, func(ctx context.Context) (bool, error) {
		return r.driver.Exists(ctx, selector)
	}, r.timing.ElementTimeout, r.timing.PollInterval)
}

// missing 页面内元素已消失时转换为硬失败,其他错误按通信失败返回
func (r *run) missing(err error, kind models.OutcomeKind, msg, action string) (models.Outcome, error) {
	if errors.Is(err, models.ErrElementMissing) {
		r.enter(StateFailed)
		return r.outcome(kind, msg), nil
	}
	return models.Outcome{}, fmt.Errorf("%s: %w", action, err)
}

func (r *run) enter(state ExecState) {
	utils.Logger.Debug().Str("url", r.url).Str("from", r.state.String()).Str("to", state.String()).Msg("执行器状态切换")
	r.state = state
}

func (r *run) outcome(kind models.OutcomeKind, msg string) models.Outcome {
	return models.Outcome{Kind: kind, URL: r.url, Message: msg}
}
