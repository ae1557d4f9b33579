package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/RecoveryAshes/unit3d-autodelete/internal/models"
)

// Store 队列存储接口: load / save / clear
type Store interface {
	Load(ctx context.Context) (*models.Queue, error)
	Save(ctx context.Context, q *models.Queue) error
	Clear(ctx context.Context) error
}

// QueueStore 将队列记录保存在后端的autoDeleteQueue键下
type QueueStore struct {
	backend Backend
	key     string
}

// NewQueueStore 创建队列存储
func NewQueueStore(backend Backend) *QueueStore {
	return &QueueStore{backend: backend, key: models.QueueStorageKey}
}

// Load 读取队列,空闲时返回(nil, nil)
func (s *QueueStore) Load(ctx context.Context) (*models.Queue, error) {
	data, ok, err := s.backend.Get(ctx, s.key)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, nil
	}
	return models.QueueFromJSON(data)
}

// Save 保存队列
func (s *QueueStore) Save(ctx context.Context, q *models.Queue) error {
	if q == nil {
		return s.Clear(ctx)
	}
	if err := q.Validate(); err != nil {
		return fmt.Errorf("拒绝保存无效队列: %w", err)
	}
	data, err := q.ToJSON()
	if err != nil {
		return fmt.Errorf("序列化队列失败: %w", err)
	}
	return s.backend.Put(ctx, s.key, data)
}

// Clear 清除队列
// 与原脚本一致,写入null而不是删除键
func (s *QueueStore) Clear(ctx context.Context) error {
	return s.backend.Put(ctx, s.key, []byte("null"))
}

// DraftStore 待提交的URL输入缓冲区
type DraftStore struct {
	backend Backend
	key     string
}

// NewDraftStore 创建输入缓冲区存储
func NewDraftStore(backend Backend) *DraftStore {
	return &DraftStore{backend: backend, key: models.DraftStorageKey}
}

// Load 读取缓冲区文本
func (s *DraftStore) Load(ctx context.Context) (string, error) {
	data, ok, err := s.backend.Get(ctx, s.key)
	if err != nil || !ok {
		return "", err
	}
	var text string
	if err := json.Unmarshal(data, &text); err != nil {
		return "", fmt.Errorf("解析输入缓冲区失败: %w", err)
	}
	return text, nil
}

// Save 保存缓冲区文本
func (s *DraftStore) Save(ctx context.Context, text string) error {
	data, err := json.Marshal(text)
	if err != nil {
		return err
	}
	return s.backend.Put(ctx, s.key, data)
}

// Clear 清空缓冲区
func (s *DraftStore) Clear(ctx context.Context) error {
	return s.backend.Delete(ctx, s.key)
}

// Lines 按行拆分缓冲区,去掉空行
func (s *DraftStore) Lines(ctx context.Context) ([]string, error) {
	text, err := s.Load(ctx)
	if err != nil {
		return nil, err
	}
	lines := make([]string, 0)
	for _, line := range strings.Split(text, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			lines = append(lines, line)
		}
	}
	return lines, nil
}
