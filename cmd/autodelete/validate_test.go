package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateFlags(t *testing.T) {
	tests := []struct {
		name      string
		backend   string
		remoteURL string
		wantErr   bool
	}{
		{"文件后端", "file", "", false},
		{"sqlite后端", "sqlite", "", false},
		{"内存后端", "memory", "", false},
		{"未知后端", "redis", "", true},
		{"websocket远程地址", "file", "ws://127.0.0.1:9222/devtools/browser/abc", false},
		{"http远程地址", "file", "http://127.0.0.1:9222", false},
		{"无效协议", "file", "ftp://127.0.0.1:9222", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateFlags(tt.backend, tt.remoteURL)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestNormalizeURL(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{"完整URL", "https://blutopia.cc/torrents/10", "https://blutopia.cc/torrents/10", false},
		{"补全协议", "blutopia.cc/torrents/10", "https://blutopia.cc/torrents/10", false},
		{"去除空白", "  https://aither.cc/torrents/3 ", "https://aither.cc/torrents/3", false},
		{"不支持的协议", "ftp://aither.cc/torrents/3", "", true},
		{"空输入", "", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NormalizeURL(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
