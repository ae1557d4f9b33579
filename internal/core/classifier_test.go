package core

import (
	"testing"

	"github.com/RecoveryAshes/unit3d-autodelete/internal/models"
)

func TestClassifier_Classify(t *testing.T) {
	c := NewClassifier(DefaultSelectors())

	tests := []struct {
		name   string
		url    string
		doc    models.DocumentState
		want   models.PageKind
		wantID string
	}{
		{"详情页", "https://blutopia.cc/torrents/12345", models.DocumentState{Title: "Movie"}, models.PageDetail, "12345"},
		{"详情页带斜杠", "https://aither.cc/torrents/7/", models.DocumentState{}, models.PageDetail, "7"},
		{"列表页", "https://blutopia.cc/torrents", models.DocumentState{}, models.PageList, ""},
		{"上传列表", "https://blutopia.cc/users/bob/torrents?page=2", models.DocumentState{}, models.PageList, ""},
		{"非数字段", "https://blutopia.cc/torrents/create", models.DocumentState{}, models.PageList, ""},
		{"首页", "https://blutopia.cc/", models.DocumentState{}, models.PageNotRelevant, ""},
		{"标题404", "https://blutopia.cc/torrents/1", models.DocumentState{Title: "Error 404"}, models.PageNotFound, ""},
		{"正文404", "https://blutopia.cc/x", models.DocumentState{BodyText: "oops\n404: Page Not Found"}, models.PageNotFound, ""},
		{"无法解析", "://bad", models.DocumentState{}, models.PageNotRelevant, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := c.Classify(tt.url, tt.doc)
			if got.Kind != tt.want {
				t.Errorf("Classify() kind = %s, want %s", got.Kind, tt.want)
			}
			if got.TorrentID != tt.wantID {
				t.Errorf("Classify() id = %q, want %q", got.TorrentID, tt.wantID)
			}
			// 相同输入结果不变
			if again := c.Classify(tt.url, tt.doc); again != got {
				t.Errorf("Classify() 不是幂等的: %+v != %+v", again, got)
			}
		})
	}
}

func TestClassifier_HomeLinkCarried(t *testing.T) {
	c := NewClassifier(DefaultSelectors())
	got := c.Classify("https://blutopia.cc/torrents/1", models.DocumentState{Title: "404", HasHomeLink: true})
	if got.Kind != models.PageNotFound || !got.HasHomeLink {
		t.Errorf("Classify() = %+v", got)
	}
}

func TestIsDetailURL(t *testing.T) {
	if !IsDetailURL("https://blutopia.cc/torrents/10") {
		t.Error("应识别为详情页")
	}
	if IsDetailURL("https://blutopia.cc/torrents") {
		t.Error("列表页不是详情页")
	}
}
