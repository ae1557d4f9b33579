package core

import (
	"net/url"
	"regexp"
	"strings"

	"github.com/RecoveryAshes/unit3d-autodelete/internal/models"
)

// detailPathRe 路径中 "torrents" 段后紧跟数字段
var detailPathRe = regexp.MustCompile(`(?:^|/)torrents/(\d+)(?:/|$)`)

// Classifier 页面分类器
// 纯函数: 相同输入总是得到相同结果,不读取任何外部状态
type Classifier struct {
	notFoundTitle string
	notFoundBody  string
}

// NewClassifier 根据选择器配置创建分类器
func NewClassifier(sel SelectorConfig) *Classifier {
	return &Classifier{
		notFoundTitle: sel.NotFoundTitle,
		notFoundBody:  sel.NotFoundBody,
	}
}

// Classify 根据当前URL和文档快照对页面分类
// 优先级: 404 > 详情页 > 列表页 > 无关页面
func (c *Classifier) Classify(rawURL string, doc models.DocumentState) models.Classification {
	if c.isNotFound(doc) {
		return models.Classification{Kind: models.PageNotFound, HasHomeLink: doc.HasHomeLink}
	}

	parsed, err := url.Parse(rawURL)
	if err != nil {
		return models.Classification{Kind: models.PageNotRelevant}
	}

	if m := detailPathRe.FindStringSubmatch(parsed.Path); m != nil {
		return models.Classification{Kind: models.PageDetail, TorrentID: m[1]}
	}

	if strings.Contains(parsed.Path, "/torrents") {
		return models.Classification{Kind: models.PageList}
	}

	return models.Classification{Kind: models.PageNotRelevant}
}

func (c *Classifier) isNotFound(doc models.DocumentState) bool {
	if c.notFoundTitle != "" && strings.Contains(doc.Title, c.notFoundTitle) {
		return true
	}
	return c.notFoundBody != "" && strings.Contains(doc.BodyText, c.notFoundBody)
}

// IsDetailURL 判断URL是否为种子详情页
func IsDetailURL(rawURL string) bool {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return false
	}
	return detailPathRe.MatchString(parsed.Path)
}
