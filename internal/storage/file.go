package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/gofrs/flock"
)

const (
	stateFileName = "state.json"
	lockRetry     = 50 * time.Millisecond
)

// FileBackend 基于单个JSON文件的存储
// 每次读改写都持有文件锁,写入通过临时文件+rename完成
type FileBackend struct {
	path string

	// mu 串行化同一进程内的访问, flock对同一实例的重复加锁直接成功
	mu   sync.Mutex
	lock *flock.Flock
}

// OpenFile 打开(必要时创建)状态目录下的JSON存储
func OpenFile(stateDir string) (*FileBackend, error) {
	if err := os.MkdirAll(stateDir, 0755); err != nil {
		return nil, fmt.Errorf("创建状态目录失败: %w", err)
	}
	path := filepath.Join(stateDir, stateFileName)
	return &FileBackend{
		path: path,
		lock: flock.New(path + ".lock"),
	}, nil
}

// Path 返回状态文件路径
func (b *FileBackend) Path() string {
	return b.path
}

// Get 读取键值
func (b *FileBackend) Get(ctx context.Context, key string) ([]byte, bool, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	ok, err := b.lock.TryRLockContext(ctx, lockRetry)
	if err != nil {
		return nil, false, fmt.Errorf("获取读锁失败: %w", err)
	}
	if !ok {
		return nil, false, fmt.Errorf("获取读锁失败: %s", b.lock.Path())
	}
	defer b.lock.Unlock()

	records, err := b.read()
	if err != nil {
		return nil, false, err
	}
	value, exists := records[key]
	if !exists {
		return nil, false, nil
	}
	return []byte(value), true, nil
}

// Put 写入键值
func (b *FileBackend) Put(ctx context.Context, key string, value []byte) error {
	if !json.Valid(value) {
		return fmt.Errorf("键 %s 的值不是合法JSON", key)
	}
	return b.update(ctx, func(records map[string]json.RawMessage) {
		records[key] = json.RawMessage(value)
	})
}

// Delete 删除键
func (b *FileBackend) Delete(ctx context.Context, key string) error {
	return b.update(ctx, func(records map[string]json.RawMessage) {
		delete(records, key)
	})
}

// Close 文件后端无需释放资源
func (b *FileBackend) Close() error {
	return nil
}

// update 在写锁内执行读改写
func (b *FileBackend) update(ctx context.Context, mutate func(map[string]json.RawMessage)) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	ok, err := b.lock.TryLockContext(ctx, lockRetry)
	if err != nil {
		return fmt.Errorf("获取写锁失败: %w", err)
	}
	if !ok {
		return fmt.Errorf("获取写锁失败: %s", b.lock.Path())
	}
	defer b.lock.Unlock()

	records, err := b.read()
	if err != nil {
		return err
	}
	mutate(records)
	return b.write(records)
}

func (b *FileBackend) read() (map[string]json.RawMessage, error) {
	records := make(map[string]json.RawMessage)

	data, err := os.ReadFile(b.path)
	if errors.Is(err, os.ErrNotExist) {
		return records, nil
	}
	if err != nil {
		return nil, fmt.Errorf("读取状态文件失败: %w", err)
	}
	if len(data) == 0 {
		return records, nil
	}
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("解析状态文件失败 [%s]: %w", b.path, err)
	}
	return records, nil
}

func (b *FileBackend) write(records map[string]json.RawMessage) error {
	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("序列化状态失败: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(b.path), ".state-*.json")
	if err != nil {
		return fmt.Errorf("创建临时文件失败: %w", err)
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("写入临时文件失败: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("关闭临时文件失败: %w", err)
	}
	if err := os.Rename(tmpPath, b.path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("替换状态文件失败: %w", err)
	}
	return nil
}
