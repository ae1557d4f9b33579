package storage

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/RecoveryAshes/unit3d-autodelete/internal/models"
	"github.com/gofrs/flock"
)

const runnerLockName = "runner.lock"

// RunnerLock 保证同一状态目录只有一个进程在驱动队列
// 多个标签页/进程同时处理同一队列会破坏index语义
type RunnerLock struct {
	lock *flock.Flock
}

// AcquireRunnerLock 非阻塞获取运行锁,已被占用时返回ErrRunnerLocked
func AcquireRunnerLock(stateDir string) (*RunnerLock, error) {
	if err := os.MkdirAll(stateDir, 0755); err != nil {
		return nil, fmt.Errorf("创建状态目录失败: %w", err)
	}

	lock := flock.New(filepath.Join(stateDir, runnerLockName))
	ok, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("获取运行锁失败: %w", err)
	}
	if !ok {
		return nil, fmt.Errorf("%w: %s", models.ErrRunnerLocked, lock.Path())
	}
	return &RunnerLock{lock: lock}, nil
}

// Release 释放运行锁
func (l *RunnerLock) Release() error {
	if l == nil || l.lock == nil {
		return nil
	}
	return l.lock.Unlock()
}
