package view

import (
	"unicode/utf8"

	g "github.com/maragudk/gomponents"
	. "github.com/maragudk/gomponents/html"
)

const descriptionMaxRunes = 160

// PostPageProps 是分享页渲染所需的数据，Content 必须是已清洗的 HTML。
type PostPageProps struct {
	SiteName    string
	Title       string
	URL         string
	Category    string
	Image       string
	Author      string
	Description string
	Content     string
	ReadingTime int
	PublishedAt string
}

// PostPage renders a standalone HTML page for a single post, used for link previews.
func PostPage(props PostPageProps) g.Node {
	description := truncateRunes(props.Description, descriptionMaxRunes)

	return Doctype(
		HTML(
			Lang("en"),
			Head(
				Meta(Charset("utf-8")),
				Meta(Name("viewport"), Content("width=device-width, initial-scale=1")),
				TitleEl(g.Textf("%s | %s", props.Title, props.SiteName)),
				Meta(Name("description"), Content(description)),
				openGraph("og:type", "article"),
				openGraph("og:title", props.Title),
				openGraph("og:description", description),
				g.If(props.URL != "", openGraph("og:url", props.URL)),
				g.If(props.Image != "", openGraph("og:image", props.Image)),
			),
			Body(
				Main(Class("post"),
					Article(
						Header(
							H1(g.Text(props.Title)),
							P(Class("post-meta"),
								g.If(props.Author != "", Span(Class("post-author"), g.Textf("by %s", props.Author))),
								g.If(props.PublishedAt != "", Span(Class("post-date"), g.Text(" · "+props.PublishedAt))),
								g.If(props.ReadingTime > 0, Span(Class("post-reading-time"), g.Textf(" · %d min read", props.ReadingTime))),
							),
							g.If(props.Category != "", Span(Class("post-category"), g.Text(props.Category))),
						),
						g.If(props.Image != "", Img(Class("post-cover"), Src(props.Image), Alt(props.Title))),
						Div(Class("post-content"), g.Raw(props.Content)),
					),
				),
			),
		),
	)
}

func openGraph(property, value string) g.Node {
	return Meta(g.Attr("property", property), Content(value))
}

func truncateRunes(text string, limit int) string {
	if utf8.RuneCountInString(text) <= limit {
		return text
	}
	runes := []rune(text)
	return string(runes[:limit-1]) + "…"
}
