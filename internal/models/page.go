package models

// PageKind 页面分类
type PageKind int

const (
	PageNotRelevant PageKind = iota // 与队列无关的页面
	PageList                        // 种子列表页
	PageDetail                      // 种子详情页
	PageNotFound                    // 404页面(删除成功的信号)
)

// String 返回分类名称
func (k PageKind) String() string {
	switch k {
	case PageList:
		return "list"
	case PageDetail:
		return "detail"
	case PageNotFound:
		return "not_found"
	default:
		return "not_relevant"
	}
}

// Classification 单次页面加载的分类结果
type Classification struct {
	Kind PageKind

	// TorrentID 详情页路径中的数字ID,仅PageDetail时有值
	TorrentID string

	// HasHomeLink 404页面是否带有"返回首页"按钮,仅PageNotFound时有意义
	HasHomeLink bool
}

// DocumentState 分类器所需的文档快照
type DocumentState struct {
	Title       string
	BodyText    string
	HasHomeLink bool
}
