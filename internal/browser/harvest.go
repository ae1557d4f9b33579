package browser

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/RecoveryAshes/unit3d-autodelete/internal/models"
	"github.com/go-rod/rod"
)

const jsHarvest = `(selector) => {
	const links = document.querySelectorAll(selector);
	const urls = [];
	for (let i = 0; i < links.length; i++) {
		const href = (links[i].href || "").trim();
		if (href) urls.push(href);
	}
	return urls;
}`

// HarvestLinks 从当前页面收集匹配selector的链接
// 浏览器已将href解析为绝对地址
func HarvestLinks(ctx context.Context, page *rod.Page, selector string) ([]string, error) {
	res, err := page.Context(ctx).Eval(jsHarvest, selector)
	if err != nil {
		return nil, fmt.Errorf("执行JavaScript收集链接失败: %w", err)
	}

	urls := make([]string, 0)
	for _, item := range res.Value.Arr() {
		if s := item.Str(); s != "" {
			urls = append(urls, s)
		}
	}
	if len(urls) == 0 {
		return nil, models.ErrNoLinks
	}
	return urls, nil
}

// HarvestHTML 从保存的页面HTML中收集链接
// 相对地址根据baseURL转换为绝对地址
func HarvestHTML(r io.Reader, baseURL, selector string) ([]string, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("解析HTML失败: %w", err)
	}

	var base *url.URL
	if baseURL != "" {
		base, err = url.Parse(baseURL)
		if err != nil {
			return nil, fmt.Errorf("解析baseURL失败: %w", err)
		}
	}

	urls := make([]string, 0)
	doc.Find(selector).Each(func(_ int, s *goquery.Selection) {
		href, ok := s.Attr("href")
		if !ok {
			return
		}
		href = strings.TrimSpace(href)
		if href == "" {
			return
		}

		link, err := url.Parse(href)
		if err != nil {
			return
		}
		if base != nil {
			link = base.ResolveReference(link)
		}
		if !link.IsAbs() {
			return
		}
		urls = append(urls, link.String())
	})

	if len(urls) == 0 {
		return nil, models.ErrNoLinks
	}
	return urls, nil
}
