package main

import (
	"fmt"
	"strconv"

	"github.com/RecoveryAshes/unit3d-autodelete/internal/models"
	"github.com/RecoveryAshes/unit3d-autodelete/internal/utils"
	"github.com/spf13/cobra"
)

var (
	showAll    bool
	showFailed bool
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "显示队列进度和最近一次运行报告",
	Long: `显示当前删除队列的进度、输入缓冲区和最近一次运行报告。

  # 列出最近一次运行中失败的URL,可直接重新加入队列
  autodelete status --failed | autodelete start -`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		out := cmd.OutOrStdout()

		a, err := openApp(appConfig)
		if err != nil {
			return err
		}
		defer a.Close()

		latest, err := utils.NewReporter(a.cfg.Storage.StateDir).Latest()
		if err != nil {
			return fmt.Errorf("读取运行报告失败: %w", err)
		}

		if showFailed {
			if latest == nil {
				return nil
			}
			for _, u := range latest.FailedURLs() {
				fmt.Fprintln(out, u)
			}
			return nil
		}

		q, err := a.controller.Queue(ctx)
		if err != nil {
			return err
		}
		draft, err := a.drafts.Lines(ctx)
		if err != nil {
			return err
		}

		fmt.Fprintln(out, renderTable(
			[]string{"项目", "值"},
			queueRows(q, len(draft), a.cfg.Storage.Backend),
			nil,
		))

		if q != nil && showAll {
			fmt.Fprintln(out, renderTable(
				[]string{"#", "URL", "状态"},
				entryRows(q),
				[]columnAlignment{alignRight, alignLeft, alignLeft},
			))
		}

		if latest != nil {
			fmt.Fprintln(out, renderTable(
				[]string{"最近运行", "状态", "删除", "失败", "刷新", "耗时"},
				[][]string{reportRow(latest)},
				[]columnAlignment{alignLeft, alignLeft, alignRight, alignRight, alignRight, alignRight},
			))
		}
		return nil
	},
}

// queueRows 队列概况
func queueRows(q *models.Queue, draftLines int, backend string) [][]string {
	rows := [][]string{{"存储后端", backend}}
	if q == nil {
		rows = append(rows, []string{"队列", "空闲"})
	} else {
		rows = append(rows,
			[]string{"队列", q.ProgressText()},
			[]string{"游标", fmt.Sprintf("%d/%d", q.Index, q.Total())},
		)
		if cur, ok := q.Current(); ok {
			rows = append(rows, []string{"当前", cur})
		}
	}
	return append(rows, []string{"输入缓冲区", fmt.Sprintf("%d 行", draftLines)})
}

// entryRows 队列条目,游标之前的视为已处理
func entryRows(q *models.Queue) [][]string {
	rows := make([][]string, 0, q.Total())
	for i, u := range q.URLs {
		state := "待处理"
		switch {
		case i < q.Index:
			state = "已处理"
		case i == q.Index:
			state = "当前"
		}
		rows = append(rows, []string{strconv.Itoa(i + 1), u, state})
	}
	return rows
}

func reportRow(r *models.RunReport) []string {
	return []string{
		r.RunID,
		string(r.Status),
		strconv.Itoa(r.Stats.Deleted),
		strconv.Itoa(r.Stats.Failed),
		strconv.Itoa(r.Stats.Reloads),
		fmt.Sprintf("%.1fs", r.Duration),
	}
}

func init() {
	statusCmd.Flags().BoolVar(&showAll, "all", false, "列出队列中的所有条目")
	statusCmd.Flags().BoolVar(&showFailed, "failed", false, "只输出最近一次运行中失败的URL")
}
