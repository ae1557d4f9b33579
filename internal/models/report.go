package models

import (
	"encoding/json"
	"time"
)

// RunStatus 运行状态
type RunStatus string

const (
	RunStatusRunning     RunStatus = "running"     // 执行中
	RunStatusCompleted   RunStatus = "completed"   // 队列处理完毕
	RunStatusStopped     RunStatus = "stopped"     // 操作员停止
	RunStatusInterrupted RunStatus = "interrupted" // 进程退出时队列未完成
)

// EntryResult 单个队列条目的处理结果
type EntryResult string

const (
	EntryDeleted EntryResult = "deleted" // 出现404,视为删除成功
	EntryFailed  EntryResult = "failed"  // 硬失败,已跳过
)

// RunStats 运行统计
type RunStats struct {
	Total   int `json:"total"`   // 队列总数
	Deleted int `json:"deleted"` // 删除成功数
	Failed  int `json:"failed"`  // 硬失败数
	Reloads int `json:"reloads"` // 详情页重试刷新次数
}

// EntryReport 条目处理记录
type EntryReport struct {
	Index      int         `json:"index"`
	URL        string      `json:"url"`
	Result     EntryResult `json:"result"`
	ErrorType  string      `json:"error_type,omitempty"` // control_not_found, form_field_missing等
	ErrorMsg   string      `json:"error_msg,omitempty"`
	Reloads    int         `json:"reloads"`
	FinishedAt time.Time   `json:"finished_at"`
}

// RunReport 一次队列运行的报告
type RunReport struct {
	// 运行信息
	RunID  string    `json:"run_id"`
	Status RunStatus `json:"status"`

	// 时间信息
	StartTime time.Time `json:"start_time"`
	EndTime   time.Time `json:"end_time"`
	Duration  float64   `json:"duration"` // 秒

	// 统计信息
	Stats RunStats `json:"stats"`

	// 条目列表
	Entries []EntryReport `json:"entries"`
}

// NewRunReport 创建运行报告
func NewRunReport(total int) *RunReport {
	return &RunReport{
		RunID:     generateID(),
		Status:    RunStatusRunning,
		StartTime: time.Now(),
		Stats:     RunStats{Total: total},
		Entries:   make([]EntryReport, 0, total),
	}
}

// FailedURLs 返回所有失败条目的URL,便于重新加入队列
func (r *RunReport) FailedURLs() []string {
	urls := make([]string, 0, r.Stats.Failed)
	for _, e := range r.Entries {
		if e.Result == EntryFailed {
			urls = append(urls, e.URL)
		}
	}
	return urls
}

// Finish 结束报告并计算耗时
func (r *RunReport) Finish(status RunStatus) {
	r.Status = status
	r.EndTime = time.Now()
	r.Duration = r.EndTime.Sub(r.StartTime).Seconds()
}

// ToJSON 序列化为JSON
func (r *RunReport) ToJSON() ([]byte, error) {
	return json.MarshalIndent(r, "", "  ")
}

// FromJSON 从JSON反序列化
func (r *RunReport) FromJSON(data []byte) error {
	return json.Unmarshal(data, r)
}
