package parser

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"resume-fit-go/internal/logger"
)

const (
	jobFetchTimeout   = 10 * time.Second
	jobFetchUserAgent = "Mozilla/5.0 (compatible; ResumeFitBot/1.0)"
)

// jobNoiseSelector 与正文无关的页面元素，提取前统一移除
const jobNoiseSelector = "nav, footer, header, aside, script, style, noscript, form"

// jobContentSelectors 按优先级尝试的正文容器选择器，全部未命中时退回body
var jobContentSelectors = []string{"main", "article", ".job-description", "#job-description", ".content", "#content"}

var jobFetchClient = &http.Client{Timeout: jobFetchTimeout}

// IsURLSource 判断岗位来源是URL还是纯文本
func IsURLSource(source string) bool {
	return strings.HasPrefix(strings.TrimSpace(source), "http")
}

// FetchJobText 抓取岗位页面并提取可读正文。
// 返回的文本按行组织：标题和段落各占一行，列表项加 "-" 前缀，
// 结果可以直接交给 ParseJob。
func FetchJobText(ctx context.Context, rawURL string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, strings.TrimSpace(rawURL), nil)
	if err != nil {
		return "", fmt.Errorf("创建岗位页面请求失败: %w", err)
	}
	req.Header.Set("User-Agent", jobFetchUserAgent)

	resp, err := jobFetchClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("抓取岗位页面失败: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("岗位页面返回错误状态码: %d", resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return "", fmt.Errorf("解析岗位页面HTML失败: %w", err)
	}
	doc.Find(jobNoiseSelector).Remove()

	content := doc.Find("body")
	for _, selector := range jobContentSelectors {
		if sel := doc.Find(selector); sel.Length() > 0 {
			content = sel.First()
			break
		}
	}

	var lines []string
	content.Find("h1, h2, h3, h4, p, li").Each(func(_ int, s *goquery.Selection) {
		text := strings.TrimSpace(s.Text())
		if text == "" {
			return
		}
		if s.Is("li") {
			text = "- " + text
		}
		lines = append(lines, text)
	})
	if len(lines) == 0 {
		// 页面没有块级结构时退回整体文本
		for _, line := range strings.Split(content.Text(), "\n") {
			if trimmed := strings.TrimSpace(line); trimmed != "" {
				lines = append(lines, trimmed)
			}
		}
	}
	if len(lines) == 0 {
		return "", fmt.Errorf("岗位页面没有可读正文: %s", rawURL)
	}

	logger.Debug().
		Str("url", rawURL).
		Int("lines", len(lines)).
		Msg("岗位页面抓取完成")
	return strings.Join(lines, "\n"), nil
}
