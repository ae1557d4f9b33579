package utils

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// initTestLogger 初始化写入临时目录的日志器
func initTestLogger(t *testing.T, level string) string {
	t.Helper()

	dir := t.TempDir()
	err := InitLogger(LogConfig{
		Level:      level,
		LogDir:     dir,
		MaxSize:    1,
		MaxBackups: 1,
		Console:    io.Discard,
	})
	if err != nil {
		t.Fatalf("初始化日志器失败: %v", err)
	}
	return dir
}

func readLog(t *testing.T, dir, name string) string {
	t.Helper()
	content, err := os.ReadFile(filepath.Join(dir, name))
	if err != nil && !os.IsNotExist(err) {
		t.Fatalf("读取 %s 失败: %v", name, err)
	}
	return string(content)
}

func TestInitLogger_Levels(t *testing.T) {
	tests := []struct {
		level     string
		wantDebug bool
	}{
		{"debug", true},
		{"info", false},
		{"", false},
		{"bogus", false},
	}

	for _, tt := range tests {
		t.Run("level="+tt.level, func(t *testing.T) {
			dir := initTestLogger(t, tt.level)

			Info("正在删除种子 #1/3")
			Debugf("页面分类: %s", "detail")

			main := readLog(t, dir, MainLogFile)
			if !strings.Contains(main, "正在删除种子 #1/3") {
				t.Errorf("主日志缺少info消息: %q", main)
			}
			if got := strings.Contains(main, "页面分类: detail"); got != tt.wantDebug {
				t.Errorf("debug消息写入 = %v, want %v", got, tt.wantDebug)
			}
		})
	}
}

func TestErrorLogOnlyErrors(t *testing.T) {
	dir := initTestLogger(t, "info")

	Info("普通信息")
	Warnf("仍在详情页, 第%d次刷新", 2)
	Errorf("Failed to delete: %s", "https://blutopia.cc/torrents/1")
	Error(errors.New("websocket closed"), "处理页面失败")

	content := readLog(t, dir, ErrorLogFile)
	for _, want := range []string{"Failed to delete", "websocket closed"} {
		if !strings.Contains(content, want) {
			t.Errorf("错误日志缺少 %q", want)
		}
	}
	for _, unwanted := range []string{"普通信息", "第2次刷新"} {
		if strings.Contains(content, unwanted) {
			t.Errorf("错误日志不应包含 %q", unwanted)
		}
	}

	if main := readLog(t, dir, MainLogFile); !strings.Contains(main, "第2次刷新") {
		t.Error("主日志应包含warn消息")
	}
}

func TestEntry_Fields(t *testing.T) {
	dir := initTestLogger(t, "info")

	logger := Entry("https://blutopia.cc/torrents/10", 1, 3)
	logger.Info().Msg("✅ 删除成功")

	main := readLog(t, dir, MainLogFile)
	for _, want := range []string{`"url":"https://blutopia.cc/torrents/10"`, `"index":1`, `"total":3`} {
		if !strings.Contains(main, want) {
			t.Errorf("日志缺少字段 %s: %q", want, main)
		}
	}
}
