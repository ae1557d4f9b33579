package core

import (
	"context"
	"fmt"
	"time"

	"github.com/RecoveryAshes/unit3d-autodelete/internal/models"
)

// AwaitCondition 有界轮询: 每interval检查一次predicate,直到返回true
// 超过timeout返回ErrTimeout; predicate返回错误或ctx取消时立即返回
func AwaitCondition(ctx context.Context, predicate func(context.Context) (bool, error), timeout, interval time.Duration) error {
	ok, err := predicate(ctx)
	if err != nil {
		return err
	}
	if ok {
		return nil
	}

	deadline := time.NewTimer(timeout)
	defer deadline.Stop()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-deadline.C:
			return fmt.Errorf("%w (%s)", models.ErrTimeout, timeout)
		case <-ticker.C:
			ok, err := predicate(ctx)
			if err != nil {
				return err
			}
			if ok {
				return nil
			}
		}
	}
}

// Sleep 可被ctx取消的固定延迟
func Sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
