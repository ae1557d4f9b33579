package utils

import (
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/RecoveryAshes/unit3d-autodelete/internal/models"
	"github.com/fatih/color"
	"github.com/schollz/progressbar/v3"
)

// 提示文本
const (
	MsgCompleted = "All torrents deleted successfully!"
	MsgStopped   = "Auto Delete stopped."
)

var (
	alertColor   = color.New(color.FgRed, color.Bold)
	successColor = color.New(color.FgGreen, color.Bold)
	warnColor    = color.New(color.FgYellow)
)

// Notifier 终端提示: 进度条和彩色提示框
type Notifier struct {
	mu    sync.Mutex
	out   io.Writer
	bar   *progressbar.ProgressBar
	total int

	// pending 尚未被页面面板取走的提示
	pending []string
}

// NewNotifier 创建终端提示器,out为nil时使用标准错误
func NewNotifier(out io.Writer) *Notifier {
	if out == nil {
		out = os.Stderr
	}
	return &Notifier{out: out}
}

// Progress 更新进度条
func (n *Notifier) Progress(q *models.Queue) {
	n.mu.Lock()
	defer n.mu.Unlock()

	if n.bar == nil || n.total != q.Total() {
		n.total = q.Total()
		n.bar = NewProgressBar(n.out, n.total, "删除进度")
	}
	_ = n.bar.Set(q.Index)

	Logger.Info().Int("index", q.Index).Int("total", q.Total()).Msg(q.ProgressText())
}

// Alert 硬失败提示
func (n *Notifier) Alert(err error) {
	n.mu.Lock()
	defer n.mu.Unlock()

	fmt.Fprintln(n.out)
	alertColor.Fprintf(n.out, "⚠️  %v\n", err)
	n.pending = append(n.pending, err.Error())
}

// Completed 队列完成提示
func (n *Notifier) Completed(report *models.RunReport) {
	n.mu.Lock()
	defer n.mu.Unlock()

	n.finishBar()
	successColor.Fprintf(n.out, "✅ %s\n", MsgCompleted)
	n.pending = append(n.pending, MsgCompleted)
	Logger.Info().
		Str("run_id", report.RunID).
		Int("deleted", report.Stats.Deleted).
		Int("failed", report.Stats.Failed).
		Msg(MsgCompleted)

	if failed := report.FailedURLs(); len(failed) > 0 {
		warnColor.Fprintf(n.out, "以下 %d 个种子删除失败, 可重新加入队列:\n", len(failed))
		for _, u := range failed {
			fmt.Fprintf(n.out, "  %s\n", u)
		}
	}
}

// Stopped 停止提示
func (n *Notifier) Stopped() {
	n.mu.Lock()
	defer n.mu.Unlock()

	n.finishBar()
	warnColor.Fprintf(n.out, "⏹  %s\n", MsgStopped)
	Logger.Info().Msg("Auto Delete stopped by user.")
}

// Drain 取走待显示的提示, 每条只返回一次
func (n *Notifier) Drain() []string {
	n.mu.Lock()
	defer n.mu.Unlock()

	alerts := n.pending
	n.pending = nil
	return alerts
}

// Message 普通提示,用于CLI命令的结果
func (n *Notifier) Message(format string, args ...interface{}) {
	n.mu.Lock()
	defer n.mu.Unlock()
	fmt.Fprintf(n.out, format+"\n", args...)
}

func (n *Notifier) finishBar() {
	if n.bar != nil {
		_ = n.bar.Finish()
		fmt.Fprintln(n.out)
	}
	n.bar = nil
	n.total = 0
}

// NewProgressBar 创建进度条
func NewProgressBar(out io.Writer, max int, description string) *progressbar.ProgressBar {
	return progressbar.NewOptions(max,
		progressbar.OptionSetWriter(out),
		progressbar.OptionSetDescription(description),
		progressbar.OptionShowCount(),
		progressbar.OptionSetWidth(40),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "=",
			SaucerHead:    ">",
			SaucerPadding: " ",
			BarStart:      "[",
			BarEnd:        "]",
		}),
	)
}
