package utils

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/RecoveryAshes/unit3d-autodelete/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadURLs(t *testing.T) {
	input := `# 待删除
https://blutopia.cc/torrents/1

https://blutopia.cc/torrents/2 https://blutopia.cc/torrents/3
not-a-url
`
	urls, err := ReadURLs(strings.NewReader(input))
	require.NoError(t, err)
	assert.Equal(t, []string{
		"https://blutopia.cc/torrents/1",
		"https://blutopia.cc/torrents/2",
		"https://blutopia.cc/torrents/3",
	}, urls)
}

func TestReadURLsFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "urls.txt")
	require.NoError(t, os.WriteFile(path, []byte("https://aither.cc/torrents/9\n"), 0644))

	urls, err := ReadURLsFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"https://aither.cc/torrents/9"}, urls)

	_, err = ReadURLsFromFile(filepath.Join(t.TempDir(), "missing.txt"))
	assert.Error(t, err)
}

func TestReporter_SaveAndLatest(t *testing.T) {
	reporter := NewReporter(t.TempDir())

	latest, err := reporter.Latest()
	require.NoError(t, err)
	assert.Nil(t, latest)

	older := models.NewRunReport(1)
	older.Finish(models.RunStatusStopped)
	_, err = reporter.Save(older)
	require.NoError(t, err)

	newer := models.NewRunReport(2)
	newer.Stats.Deleted = 2
	newer.Finish(models.RunStatusCompleted)
	newer.EndTime = older.EndTime.Add(time.Minute)
	path, err := reporter.Save(newer)
	require.NoError(t, err)
	assert.Equal(t, "run_"+newer.RunID+".json", filepath.Base(path))

	latest, err = reporter.Latest()
	require.NoError(t, err)
	require.NotNil(t, latest)
	assert.Equal(t, newer.RunID, latest.RunID)
	assert.Equal(t, 2, latest.Stats.Deleted)
}

func TestNotifier(t *testing.T) {
	var out bytes.Buffer
	n := NewNotifier(&out)

	q := &models.Queue{URLs: []string{"https://a/1", "https://a/2"}}
	n.Progress(q)
	q.Advance()
	n.Progress(q)

	n.Alert(&models.OutcomeError{Kind: models.OutcomeFormFieldMissing, URL: "https://a/2", Message: "Deletion reason textarea not found"})
	assert.Contains(t, out.String(), "Failed to delete: https://a/2\nError: Deletion reason textarea not found")

	report := models.NewRunReport(2)
	report.Entries = append(report.Entries, models.EntryReport{URL: "https://a/2", Result: models.EntryFailed})
	report.Stats.Failed = 1
	n.Completed(report)
	assert.Contains(t, out.String(), MsgCompleted)
	assert.Contains(t, out.String(), "  https://a/2\n")

	n.Stopped()
	assert.Contains(t, out.String(), MsgStopped)
}

func TestNotifier_DrainPendingAlerts(t *testing.T) {
	var out bytes.Buffer
	n := NewNotifier(&out)

	assert.Empty(t, n.Drain())

	n.Alert(&models.OutcomeError{Kind: models.OutcomeControlNotFound, URL: "https://a/1", Message: "Element not found: .torrent__buttons"})
	n.Stopped()
	n.Completed(models.NewRunReport(1))

	assert.Equal(t, []string{
		"Failed to delete: https://a/1\nError: Element not found: .torrent__buttons",
		MsgCompleted,
	}, n.Drain(), "停止提示由面板自己显示, 不重复排队")
	assert.Empty(t, n.Drain(), "每条提示只取走一次")
}

func TestHeaderValidator(t *testing.T) {
	hv := NewHeaderValidator()

	tests := []struct {
		name    string
		header  string
		value   string
		wantErr bool
	}{
		{"合法头部", "Accept-Language", "zh-CN", false},
		{"禁止头部", "host", "x", true},
		{"非法名称", "X Bad", "x", true},
		{"控制字符", "X-Test", "a\r\nb", true},
		{"值过长", "X-Test", strings.Repeat("a", MaxHeaderValueLength+1), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := hv.ValidateHeader(tt.header, tt.value)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ValidateHeader() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil {
				var verr *models.ValidationError
				assert.True(t, errors.As(err, &verr))
			}
		})
	}
}

func TestHeaderRedactor(t *testing.T) {
	hr := NewHeaderRedactor()

	assert.Equal(t, "Bearer ***", hr.RedactHeaderValue("Authorization", "Bearer abc"))
	assert.Equal(t, "abcd***mnop", hr.RedactHeaderValue("X-Api-Key", "abcdefghijklmnop"))
	assert.Equal(t, "***", hr.RedactHeaderValue("X-Secret", "short"))
	assert.Equal(t, "zh-CN", hr.RedactHeaderValue("Accept-Language", "zh-CN"))
	assert.Equal(t, "Accept-Language: zh-CN, X-Token: ***", hr.RedactToString(map[string]string{
		"X-Token":         "1234",
		"Accept-Language": "zh-CN",
	}))
}
