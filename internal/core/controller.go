package core

import (
	"context"
	"fmt"

	"github.com/RecoveryAshes/unit3d-autodelete/internal/models"
	"github.com/RecoveryAshes/unit3d-autodelete/internal/storage"
	"github.com/RecoveryAshes/unit3d-autodelete/internal/utils"
)

// URLChecker 校验待加入队列的URL
type URLChecker interface {
	Check(urls []string) error
}

// Controller 操作界面(CLI和页面面板)对队列的操作
// 队列游标只由Resolver推进,这里只负责创建、清除队列和维护输入缓冲区
type Controller struct {
	queue   storage.Store
	drafts  *storage.DraftStore
	checker URLChecker
}

// NewController 创建控制器,checker为nil时不校验站点
func NewController(queue storage.Store, drafts *storage.DraftStore, checker URLChecker) *Controller {
	return &Controller{
		queue:   queue,
		drafts:  drafts,
		checker: checker,
	}
}

// Submit 用URL列表创建新队列,游标从0开始
// 已有队列会被替换
func (c *Controller) Submit(ctx context.Context, urls []string) (*models.Queue, error) {
	q, err := models.NewQueue(urls)
	if err != nil {
		return nil, err
	}
	if c.checker != nil {
		if err := c.checker.Check(q.URLs); err != nil {
			return nil, err
		}
	}
	if err := c.queue.Save(ctx, q); err != nil {
		return nil, fmt.Errorf("保存队列失败: %w", err)
	}

	utils.Logger.Info().Int("total", q.Total()).Str("first", q.URLs[0]).Msg("Queue set")
	return q, nil
}

// SubmitDraft 用输入缓冲区的内容创建队列
func (c *Controller) SubmitDraft(ctx context.Context) (*models.Queue, error) {
	lines, err := c.drafts.Lines(ctx)
	if err != nil {
		return nil, err
	}
	return c.Submit(ctx, lines)
}

// Stop 清除队列,运行器在下一次加载时变为空闲
func (c *Controller) Stop(ctx context.Context) error {
	if err := c.queue.Clear(ctx); err != nil {
		return fmt.Errorf("清除队列失败: %w", err)
	}
	utils.Info("Auto Delete stopped by user.")
	return nil
}

// NewList 清除队列和输入缓冲区
func (c *Controller) NewList(ctx context.Context) error {
	if err := c.Stop(ctx); err != nil {
		return err
	}
	if err := c.drafts.Clear(ctx); err != nil {
		return fmt.Errorf("清除输入缓冲区失败: %w", err)
	}
	return nil
}

// AddAll 将链接追加到输入缓冲区,返回新的缓冲区内容
func (c *Controller) AddAll(ctx context.Context, urls []string) (string, error) {
	if len(urls) == 0 {
		return "", models.ErrNoLinks
	}
	draft, err := c.drafts.Load(ctx)
	if err != nil {
		return "", err
	}
	draft = utils.Append(draft, urls)
	if err := c.drafts.Save(ctx, draft); err != nil {
		return "", err
	}
	return draft, nil
}

// Draft 读取输入缓冲区
func (c *Controller) Draft(ctx context.Context) (string, error) {
	return c.drafts.Load(ctx)
}

// SetDraft 覆盖输入缓冲区
func (c *Controller) SetDraft(ctx context.Context, text string) error {
	return c.drafts.Save(ctx, text)
}

// Queue 读取当前队列,空闲时为nil
func (c *Controller) Queue(ctx context.Context) (*models.Queue, error) {
	return c.queue.Load(ctx)
}
