package models

// OutcomeKind 执行器结果类型
type OutcomeKind int

const (
	OutcomeDeleted            OutcomeKind = iota // 已提交删除
	OutcomeDialogNotPresented                    // 确认对话框未出现(软失败)
	OutcomeControlNotFound                       // 删除按钮或确认按钮不存在
	OutcomeFormFieldMissing                      // 表单或原因输入框不存在
	OutcomeTimedOut                              // 超过执行期限
)

// String 返回结果类型名称
func (k OutcomeKind) String() string {
	switch k {
	case OutcomeDeleted:
		return "deleted"
	case OutcomeDialogNotPresented:
		return "dialog_not_presented"
	case OutcomeControlNotFound:
		return "control_not_found"
	case OutcomeFormFieldMissing:
		return "form_field_missing"
	case OutcomeTimedOut:
		return "timed_out"
	default:
		return "unknown"
	}
}

// Outcome 执行器单次运行的结果
type Outcome struct {
	Kind    OutcomeKind
	URL     string
	Message string
}

// Failed 是否为硬失败
func (o Outcome) Failed() bool {
	switch o.Kind {
	case OutcomeControlNotFound, OutcomeFormFieldMissing, OutcomeTimedOut:
		return true
	}
	return false
}

// Err 将硬失败转换为OutcomeError,非硬失败返回nil
func (o Outcome) Err() error {
	if !o.Failed() {
		return nil
	}
	return &OutcomeError{Kind: o.Kind, URL: o.URL, Message: o.Message}
}
