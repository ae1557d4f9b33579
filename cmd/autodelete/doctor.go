package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/RecoveryAshes/unit3d-autodelete/internal/core"
	"github.com/RecoveryAshes/unit3d-autodelete/internal/models"
	"github.com/RecoveryAshes/unit3d-autodelete/internal/storage"
	"github.com/fatih/color"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/mem"
	"github.com/spf13/cobra"
)

// checkStatus 检查结果等级
type checkStatus int

const (
	checkOK checkStatus = iota
	checkWarn
	checkFail
)

func (s checkStatus) label() string {
	switch s {
	case checkOK:
		return color.GreenString("OK")
	case checkWarn:
		return color.YellowString("WARN")
	default:
		return color.RedString("FAIL")
	}
}

// doctorCheck 单项环境检查
type doctorCheck struct {
	Name   string
	Status checkStatus
	Detail string
}

// minFreeMemory 浏览器运行所需的最小可用内存
const minFreeMemory = 512 * 1024 * 1024

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "检查运行环境",
	Long:  `检查浏览器、状态目录、存储后端、运行锁、系统资源和站点配置。`,
	RunE: func(cmd *cobra.Command, args []string) error {
		checks := runChecks(cmd.Context(), appConfig)

		rows := make([][]string, 0, len(checks))
		failed := 0
		for _, c := range checks {
			if c.Status == checkFail {
				failed++
			}
			rows = append(rows, []string{c.Name, c.Status.label(), c.Detail})
		}
		fmt.Fprintln(cmd.OutOrStdout(), renderTable([]string{"检查项", "状态", "详情"}, rows, nil))

		if failed > 0 {
			return fmt.Errorf("%d 项检查未通过", failed)
		}
		return nil
	},
}

// runChecks 依次执行所有检查
func runChecks(ctx context.Context, cfg *core.Config) []doctorCheck {
	return []doctorCheck{
		checkBrowser(cfg.Browser),
		checkStateDir(cfg.Storage.StateDir),
		checkBackend(ctx, cfg.Storage),
		checkRunnerLock(cfg.Storage.StateDir),
		checkMemory(),
		checkCPU(),
		checkSites(cfg.Sites),
	}
}

func checkBrowser(cfg core.BrowserConfig) doctorCheck {
	c := doctorCheck{Name: "浏览器"}
	switch {
	case cfg.RemoteURL != "":
		c.Detail = "远程: " + cfg.RemoteURL
	case cfg.Bin != "":
		if _, err := os.Stat(cfg.Bin); err != nil {
			c.Status = checkFail
			c.Detail = fmt.Sprintf("%s 不存在", cfg.Bin)
			return c
		}
		c.Detail = cfg.Bin
	default:
		bin, found := launcher.LookPath()
		if !found {
			c.Status = checkWarn
			c.Detail = "未找到本地浏览器, 首次运行时将自动下载"
			return c
		}
		c.Detail = bin
	}
	return c
}

func checkStateDir(dir string) doctorCheck {
	c := doctorCheck{Name: "状态目录", Detail: absPath(dir)}
	if err := os.MkdirAll(dir, 0755); err != nil {
		c.Status = checkFail
		c.Detail = err.Error()
		return c
	}

	tmp, err := os.CreateTemp(dir, ".write-check-*")
	if err != nil {
		c.Status = checkFail
		c.Detail = fmt.Sprintf("%s 不可写: %v", dir, err)
		return c
	}
	tmp.Close()
	os.Remove(tmp.Name())
	return c
}

func checkBackend(ctx context.Context, cfg core.StorageConfig) doctorCheck {
	c := doctorCheck{Name: "存储后端", Detail: cfg.Backend}
	backend, err := storage.Open(cfg.Backend, cfg.StateDir)
	if err != nil {
		c.Status = checkFail
		c.Detail = err.Error()
		return c
	}
	defer backend.Close()

	q, err := storage.NewQueueStore(backend).Load(ctx)
	if err != nil {
		c.Status = checkFail
		c.Detail = fmt.Sprintf("读取队列失败: %v", err)
		return c
	}
	if q != nil {
		c.Detail = fmt.Sprintf("%s, %s", cfg.Backend, q.ProgressText())
	}
	return c
}

func checkRunnerLock(dir string) doctorCheck {
	c := doctorCheck{Name: "运行锁"}
	lock, err := storage.AcquireRunnerLock(dir)
	if errors.Is(err, models.ErrRunnerLocked) {
		c.Status = checkWarn
		c.Detail = "已有 'autodelete run' 进程在运行"
		return c
	}
	if err != nil {
		c.Status = checkFail
		c.Detail = err.Error()
		return c
	}
	lock.Release()
	c.Detail = "空闲"
	return c
}

func checkMemory() doctorCheck {
	c := doctorCheck{Name: "内存"}
	vm, err := mem.VirtualMemory()
	if err != nil {
		c.Status = checkWarn
		c.Detail = fmt.Sprintf("获取系统内存失败: %v", err)
		return c
	}
	c.Detail = fmt.Sprintf("可用 %.2f GB / 共 %.2f GB", gib(vm.Available), gib(vm.Total))
	if vm.Available < minFreeMemory {
		c.Status = checkWarn
	}
	return c
}

func checkCPU() doctorCheck {
	c := doctorCheck{Name: "CPU"}
	percentages, err := cpu.Percent(100*time.Millisecond, false)
	if err != nil || len(percentages) == 0 {
		c.Status = checkWarn
		c.Detail = "获取CPU使用率失败"
		return c
	}
	c.Detail = fmt.Sprintf("使用率 %.1f%%", percentages[0])
	return c
}

func checkSites(sites []string) doctorCheck {
	c := doctorCheck{Name: "站点", Detail: fmt.Sprintf("%d 个匹配规则", len(sites))}
	if len(sites) == 0 {
		c.Status = checkFail
		c.Detail = "未配置任何站点"
	}
	return c
}

func gib(b uint64) float64 {
	return float64(b) / (1024 * 1024 * 1024)
}

// absPath 用于显示的绝对路径
func absPath(p string) string {
	if abs, err := filepath.Abs(p); err == nil {
		return abs
	}
	return p
}
