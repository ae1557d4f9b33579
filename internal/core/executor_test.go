package core

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/RecoveryAshes/unit3d-autodelete/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const detailURL = "https://blutopia.cc/torrents/10"

func TestExecutor_Deleted(t *testing.T) {
	cfg := fastConfig()
	sel := cfg.Selectors
	d := newFakeDriver(detailURL)
	d.detailPage(detailURL, sel)

	outcome, err := NewExecutor(d, sel, cfg.Timing).Execute(context.Background(), detailURL)
	require.NoError(t, err)

	assert.Equal(t, models.OutcomeDeleted, outcome.Kind)
	assert.Equal(t, detailURL, outcome.URL)
	assert.Equal(t, "sorry, file deleted !", d.values["dialog[open] form textarea#message"])
	assert.Equal(t, "0", d.fields["bon"])
	assert.Equal(t, []string{
		"button.form__button--outlined i.fa-times < button",
		"dialog[open] form button.form__button--filled",
	}, d.clicks)
}

func TestExecutor_WaitsForLateElements(t *testing.T) {
	cfg := fastConfig()
	sel := cfg.Selectors
	d := newFakeDriver(detailURL)
	d.detailPage(detailURL, sel)
	d.appearAfter[sel.Dialog] = time.Now().Add(12 * time.Millisecond)

	outcome, err := NewExecutor(d, sel, cfg.Timing).Execute(context.Background(), detailURL)
	require.NoError(t, err)
	assert.Equal(t, models.OutcomeDeleted, outcome.Kind)
}

func TestExecutor_Failures(t *testing.T) {
	cfg := fastConfig()
	sel := cfg.Selectors

	tests := []struct {
		name    string
		missing string
		want    models.OutcomeKind
		msg     string
		clicks  int
	}{
		{"删除按钮不存在", sel.DeleteTrigger, models.OutcomeControlNotFound, "Element not found: " + sel.DeleteTrigger, 0},
		{"对话框未出现", sel.Dialog, models.OutcomeDialogNotPresented, "Element not found: " + sel.Dialog, 1},
		{"表单不存在", sel.Form, models.OutcomeFormFieldMissing, "Deletion form not found in dialog", 1},
		{"原因输入框不存在", sel.Form + " " + sel.Reason, models.OutcomeFormFieldMissing, "Deletion reason textarea not found", 1},
		{"确认按钮不存在", sel.Form + " " + sel.Confirm, models.OutcomeControlNotFound, "Final delete button not found in deletion form", 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := newFakeDriver(detailURL)
			d.detailPage(detailURL, sel).elements[tt.missing] = false

			outcome, err := NewExecutor(d, sel, cfg.Timing).Execute(context.Background(), detailURL)
			require.NoError(t, err)

			assert.Equal(t, tt.want, outcome.Kind)
			assert.Equal(t, tt.msg, outcome.Message)
			assert.Len(t, d.clicks, tt.clicks, "不应点击确认按钮")
		})
	}
}

func TestExecutor_ElementGoneDuringInteraction(t *testing.T) {
	cfg := fastConfig()
	sel := cfg.Selectors
	gone := fmt.Errorf("%w: %s", models.ErrElementMissing, "x")

	tests := []struct {
		name     string
		selector string
		want     models.OutcomeKind
		msg      string
	}{
		{"删除按钮没有button祖先", sel.DeleteTrigger, models.OutcomeControlNotFound, "Element not found: " + sel.TriggerAncestor},
		{"原因输入框消失", sel.Form + " " + sel.Reason, models.OutcomeFormFieldMissing, "Deletion reason textarea not found"},
		{"表单在设置隐藏字段时消失", sel.Form, models.OutcomeFormFieldMissing, "Deletion form not found in dialog"},
		{"确认按钮在等待期间消失", sel.Form + " " + sel.Confirm, models.OutcomeControlNotFound, "Final delete button not found in deletion form"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := newFakeDriver(detailURL)
			d.detailPage(detailURL, sel)
			d.failOn[tt.selector] = gone

			outcome, err := NewExecutor(d, sel, cfg.Timing).Execute(context.Background(), detailURL)
			require.NoError(t, err)

			assert.Equal(t, tt.want, outcome.Kind)
			assert.Equal(t, tt.msg, outcome.Message)
			assert.True(t, outcome.Failed())
		})
	}
}

func TestExecutor_DriverErrorIsReturned(t *testing.T) {
	cfg := fastConfig()
	d := newFakeDriver(detailURL)
	d.detailPage(detailURL, cfg.Selectors)
	d.failOn[cfg.Selectors.DeleteTrigger] = errors.New("websocket closed")

	_, err := NewExecutor(d, cfg.Selectors, cfg.Timing).Execute(context.Background(), detailURL)
	require.Error(t, err)
	assert.False(t, errors.Is(err, models.ErrElementMissing))
}

func TestExecutor_DeadlineIsTimedOut(t *testing.T) {
	cfg := fastConfig()
	cfg.Timing.ConfirmDelay = time.Second
	cfg.Timing.ExecutorDeadline = 20 * time.Millisecond

	d := newFakeDriver(detailURL)
	d.detailPage(detailURL, cfg.Selectors)

	outcome, err := NewExecutor(d, cfg.Selectors, cfg.Timing).Execute(context.Background(), detailURL)
	require.NoError(t, err)
	assert.Equal(t, models.OutcomeTimedOut, outcome.Kind)
	assert.True(t, outcome.Failed())
}

func TestExecutor_CanceledContextIsError(t *testing.T) {
	cfg := fastConfig()
	d := newFakeDriver(detailURL)
	d.detailPage(detailURL, cfg.Selectors).elements[cfg.Selectors.DeleteTrigger] = false

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewExecutor(d, cfg.Selectors, cfg.Timing).Execute(ctx, detailURL)
	assert.True(t, errors.Is(err, context.Canceled), "得到 %v", err)
}

func TestExecState_String(t *testing.T) {
	assert.Equal(t, "awaiting_dialog", StateAwaitingDialog.String())
	assert.Equal(t, "unknown", ExecState(99).String())
}
