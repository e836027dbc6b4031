package service

import (
	"bytes"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"
)

const (
	ContentFormatHTML     = "html"
	ContentFormatMarkdown = "markdown"

	readingRunesPerMinute = 400
)

var (
	markdownEngine = goldmark.New(
		goldmark.WithExtensions(extension.GFM, extension.Linkify, extension.Table),
		goldmark.WithRendererOptions(html.WithHardWraps(), html.WithXHTML()),
	)
	contentPolicy = bluemonday.UGCPolicy()
	textPolicy    = bluemonday.StrictPolicy()
)

// RenderContent 将提交的正文转为可安全输出的 HTML。
// markdown 先经 goldmark 渲染，所有格式最终都经过 UGC 策略清洗。
func RenderContent(format, raw string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "", ContentFormatHTML:
		return strings.TrimSpace(contentPolicy.Sanitize(raw)), nil
	case ContentFormatMarkdown:
		var buf bytes.Buffer
		if err := markdownEngine.Convert([]byte(raw), &buf); err != nil {
			return "", err
		}
		return strings.TrimSpace(contentPolicy.Sanitize(buf.String())), nil
	default:
		return "", invalidf("unsupported content format %q", format)
	}
}

// PlainText 去掉所有标签，仅保留文本。
func PlainText(htmlContent string) string {
	return strings.TrimSpace(textPolicy.Sanitize(htmlContent))
}

func calculateReadingTime(htmlContent string) int {
	trimmed := PlainText(htmlContent)
	if trimmed == "" {
		return 0
	}

	runes := []rune(trimmed)
	minutes := len(runes) / readingRunesPerMinute
	if len(runes)%readingRunesPerMinute != 0 {
		minutes++
	}
	if minutes < 1 {
		minutes = 1
	}
	return minutes
}
