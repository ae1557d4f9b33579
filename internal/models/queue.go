package models

import (
	"encoding/json"
	"fmt"
	"strings"
)

// QueueStorageKey 队列记录在存储中的键名
const QueueStorageKey = "autoDeleteQueue"

// DraftStorageKey 待提交输入缓冲区在存储中的键名
const DraftStorageKey = "autoDeleteDraft"

// Queue 持久化的删除队列
// 不变量:
//   - 0 <= Index <= len(URLs)
//   - Index 只增不减
//   - Index == len(URLs) 时队列视为完成,应从存储中清除
type Queue struct {
	// URLs 待删除的种子详情页URL,顺序有意义,允许重复
	URLs []string `json:"urls"`

	// Index 当前处理位置
	Index int `json:"index"`
}

// NewQueue 从用户输入的URL列表创建队列
// 会去掉每行首尾空白并丢弃空行,结果为空时返回ErrEmptyQueue
func NewQueue(urls []string) (*Queue, error) {
	cleaned := make([]string, 0, len(urls))
	for _, u := range urls {
		u = strings.TrimSpace(u)
		if u != "" {
			cleaned = append(cleaned, u)
		}
	}
	if len(cleaned) == 0 {
		return nil, ErrEmptyQueue
	}
	return &Queue{URLs: cleaned, Index: 0}, nil
}

// Total 返回队列总长度
func (q *Queue) Total() int {
	if q == nil {
		return 0
	}
	return len(q.URLs)
}

// Pending 是否还有待处理的条目
func (q *Queue) Pending() bool {
	return q != nil && q.Index >= 0 && q.Index < len(q.URLs)
}

// Done 队列是否已经处理完毕
func (q *Queue) Done() bool {
	return q != nil && q.Index >= len(q.URLs)
}

// Current 返回当前队首URL
func (q *Queue) Current() (string, bool) {
	if !q.Pending() {
		return "", false
	}
	return q.URLs[q.Index], true
}

// Advance 游标前进一位,已完成的队列保持不变
func (q *Queue) Advance() {
	if q.Index < len(q.URLs) {
		q.Index++
	}
}

// Validate 检查不变量
func (q *Queue) Validate() error {
	if len(q.URLs) == 0 {
		return ErrEmptyQueue
	}
	if q.Index < 0 || q.Index > len(q.URLs) {
		return fmt.Errorf("%w: index=%d, total=%d", ErrQueueIndex, q.Index, len(q.URLs))
	}
	return nil
}

// Clone 返回深拷贝
func (q *Queue) Clone() *Queue {
	if q == nil {
		return nil
	}
	urls := make([]string, len(q.URLs))
	copy(urls, q.URLs)
	return &Queue{URLs: urls, Index: q.Index}
}

// ProgressText 进度描述,与面板上显示的文字一致
func (q *Queue) ProgressText() string {
	if q.Pending() {
		return fmt.Sprintf("Processing link #%d of %d", q.Index+1, len(q.URLs))
	}
	return "Queue completed."
}

// ToJSON 序列化为JSON
func (q *Queue) ToJSON() ([]byte, error) {
	return json.Marshal(q)
}

// QueueFromJSON 从JSON反序列化
// 存储中的null表示空闲状态,返回(nil, nil)
func QueueFromJSON(data []byte) (*Queue, error) {
	trimmed := strings.TrimSpace(string(data))
	if trimmed == "" || trimmed == "null" {
		return nil, nil
	}

	var q Queue
	if err := json.Unmarshal(data, &q); err != nil {
		return nil, fmt.Errorf("解析队列记录失败: %w", err)
	}
	if err := q.Validate(); err != nil {
		return nil, err
	}
	return &q, nil
}
