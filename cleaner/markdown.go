package cleaner

import (
	"github.com/JohannesKaufmann/html-to-markdown/v2/converter"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/base"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/commonmark"
)

// mdConverter is created once and reused; the converter is goroutine-safe.
//
//   - base plugin: strips script, style, iframe, noscript, head, meta and
//     other non-content elements.
//   - commonmark plugin: standard Markdown rendering.
var mdConverter = converter.NewConverter(
	converter.WithPlugins(
		base.NewBasePlugin(),
		commonmark.NewCommonmarkPlugin(),
	),
)

// ToMarkdown converts sanitized page HTML to Markdown. The domain resolves
// relative URLs into absolute ones so the output is self-contained.
func ToMarkdown(htmlContent, domain string) (string, error) {
	return mdConverter.ConvertString(htmlContent, converter.WithDomain(domain))
}
