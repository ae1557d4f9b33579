package utils

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/RecoveryAshes/unit3d-autodelete/internal/models"
)

// Reporter 运行报告生成器
// 报告保存在 <state_dir>/reports/run_<id>.json
type Reporter struct {
	reportsDir string
}

// NewReporter 创建报告生成器
func NewReporter(stateDir string) *Reporter {
	return &Reporter{
		reportsDir: filepath.Join(stateDir, "reports"),
	}
}

// Save 保存运行报告,返回文件路径
func (r *Reporter) Save(report *models.RunReport) (string, error) {
	if err := os.MkdirAll(r.reportsDir, 0755); err != nil {
		return "", fmt.Errorf("创建报告目录失败: %w", err)
	}

	path := filepath.Join(r.reportsDir, "run_"+report.RunID+".json")
	if err := r.saveJSONReport(path, report); err != nil {
		return "", err
	}
	return path, nil
}

// Latest 读取最近一次运行的报告,没有报告时返回nil
func (r *Reporter) Latest() (*models.RunReport, error) {
	paths, err := filepath.Glob(filepath.Join(r.reportsDir, "run_*.json"))
	if err != nil {
		return nil, err
	}
	if len(paths) == 0 {
		return nil, nil
	}

	reports := make([]*models.RunReport, 0, len(paths))
	for _, p := range paths {
		data, err := os.ReadFile(p)
		if err != nil {
			return nil, fmt.Errorf("读取报告失败: %w", err)
		}
		report := &models.RunReport{}
		if err := report.FromJSON(data); err != nil {
			Warnf("跳过无法解析的报告: %s - %v", p, err)
			continue
		}
		reports = append(reports, report)
	}
	if len(reports) == 0 {
		return nil, nil
	}

	sort.Slice(reports, func(i, j int) bool {
		return reports[i].EndTime.After(reports[j].EndTime)
	})
	return reports[0], nil
}

// saveJSONReport 保存JSON报告
func (r *Reporter) saveJSONReport(path string, data interface{}) error {
	jsonData, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return fmt.Errorf("序列化JSON失败: %w", err)
	}

	if err := os.WriteFile(path, jsonData, 0644); err != nil {
		return fmt.Errorf("写入报告文件失败: %w", err)
	}

	Debugf("保存报告: %s", path)
	return nil
}
