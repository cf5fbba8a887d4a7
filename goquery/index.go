package goquery

import (
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/blogtext"
)

var _ blogtext.IndexParser = (*IndexParser)(nil)

// Link texts that mark a pagination link when no structural selector matches.
var (
	nextTextContains = []string{"older posts", "older entries", "next page"}
	nextTextEquals   = []string{"next", "next ›", "next »", "older", "›", "»"}
)

// IndexParser extracts post links and the next-page link from blog
// index pages.
type IndexParser struct {
	detector *Detector
}

// NewIndexParser creates a new IndexParser.
func NewIndexParser() *IndexParser {
	return &IndexParser{detector: NewDetector()}
}

// ParseIndex returns the posts linked from an index page in document order
// and the URL of the next (older) page, if any. Only same-host http(s)
// links are returned.
func (p *IndexParser) ParseIndex(html, pageURL string) (*blogtext.IndexPage, error) {
	base, err := url.Parse(pageURL)
	if err != nil || base.Host == "" {
		return nil, blogtext.Errorf(blogtext.EINVALID, "invalid page URL: %s", pageURL)
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, blogtext.Errorf(blogtext.EINVALID, "failed to parse HTML: %v", err)
	}

	platform := p.detector.detect(doc)
	page := &blogtext.IndexPage{
		Next: findNext(doc, base, selectorsFor(platform, func(pr profile) []string { return pr.Next }, genericNextSelectors)),
	}

	for _, selector := range selectorsFor(platform, func(pr profile) []string { return pr.Posts }, genericPostSelectors) {
		page.Posts = postLinks(doc, base, selector, page.Next)
		if len(page.Posts) > 0 {
			break
		}
	}

	return page, nil
}

// postLinks collects the links matched by one selector group, keeping the
// first occurrence of each URL.
func postLinks(doc *goquery.Document, base *url.URL, selector, next string) []blogtext.PostReference {
	seen := make(map[string]bool)
	var posts []blogtext.PostReference

	doc.Find(selector).Each(func(_ int, sel *goquery.Selection) {
		href, _ := sel.Attr("href")
		resolved := resolveURL(base, href)
		if resolved == "" || resolved == next || !isSameHost(base, resolved) {
			return
		}
		if seen[resolved] {
			return
		}
		seen[resolved] = true
		posts = append(posts, blogtext.PostReference{
			Title: linkTitle(sel),
			URL:   resolved,
		})
	})

	return posts
}

// linkTitle prefers a heading nested in the anchor, as card layouts wrap
// the title and excerpt in one link.
func linkTitle(sel *goquery.Selection) string {
	if heading := sel.Find("h1, h2, h3, h4, .post-card-title").First(); heading.Length() > 0 {
		if title := collapseSpace(heading.Text()); title != "" {
			return title
		}
	}
	if title := collapseSpace(sel.Text()); title != "" {
		return title
	}
	return collapseSpace(sel.AttrOr("title", ""))
}

// findNext returns the first usable pagination link, trying structural
// selectors before matching on link text.
func findNext(doc *goquery.Document, base *url.URL, selectors []string) string {
	for _, selector := range selectors {
		var next string
		doc.Find(selector).EachWithBreak(func(_ int, sel *goquery.Selection) bool {
			next = nextCandidate(base, sel)
			return next == ""
		})
		if next != "" {
			return next
		}
	}

	var next string
	doc.Find("a[href]").EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		if !isNextText(collapseSpace(sel.Text())) {
			return true
		}
		next = nextCandidate(base, sel)
		return next == ""
	})
	return next
}

func nextCandidate(base *url.URL, sel *goquery.Selection) string {
	href, ok := sel.Attr("href")
	if !ok {
		// Selector matched a wrapper; look for the anchor inside.
		href, ok = sel.Find("a[href]").First().Attr("href")
		if !ok {
			return ""
		}
	}
	resolved := resolveURL(base, href)
	if resolved == "" || !isSameHost(base, resolved) {
		return ""
	}
	return resolved
}

func isNextText(text string) bool {
	text = strings.ToLower(text)
	for _, s := range nextTextContains {
		if strings.Contains(text, s) {
			return true
		}
	}
	for _, s := range nextTextEquals {
		if text == s {
			return true
		}
	}
	return false
}
