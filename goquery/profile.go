package goquery

import "github.com/fwojciec/blogtext"

// profile holds the selectors that find posts, pagination and content on
// one platform. Platform selectors are tried before the generic ones.
type profile struct {
	Posts   []string
	Next    []string
	Content []string
}

var profiles = map[blogtext.Platform]profile{
	blogtext.PlatformWordPress: {
		Posts:   []string{".entry-title a[href], .wp-block-post-title a[href]"},
		Next:    []string{".nav-previous a[href]", "a.next.page-numbers", ".wp-block-query-pagination-next"},
		Content: []string{".entry-content", ".wp-block-post-content"},
	},
	blogtext.PlatformBlogger: {
		Posts:   []string{".post-title a[href]", "h3.post-title a[href], h2.post-title a[href]"},
		Next:    []string{"a.blog-pager-older-link", "#blog-pager-older-link a"},
		Content: []string{".post-body"},
	},
	blogtext.PlatformGhost: {
		Posts:   []string{"a.post-card-content-link", "a.gh-card-link"},
		Next:    []string{"a.older-posts"},
		Content: []string{".gh-content", ".post-full-content", ".post-content"},
	},
	blogtext.PlatformSquarespace: {
		Posts:   []string{".BlogList-item-title[href], .blog-title a[href]"},
		Next:    []string{".BlogList-pagination-link", ".blog-list-pagination .older a"},
		Content: []string{".blog-item-content", ".sqs-layout"},
	},
	blogtext.PlatformSubstack: {
		Posts:   []string{"a.post-preview-title"},
		Content: []string{".available-content .body", ".body.markup"},
	},
	blogtext.PlatformGoDaddy: {
		Posts:   []string{"[data-aid^='BLOG_POST_TITLE'] a[href], a[data-aid^='BLOG_POST_TITLE']"},
		Content: []string{"[data-aid^='BLOG_POST_CONTENT']", ".widget-content"},
	},
}

// Generic post link groups in priority order. The first group that yields
// any link wins.
var genericPostSelectors = []string{
	".entry-title a[href], .post-title a[href], .blog-post-title a[href]",
	"article h1 a[href], article h2 a[href], article h3 a[href]",
	"a[rel~='bookmark']",
	"main h2 a[href], main h3 a[href]",
	"h2 a[href], h3 a[href]",
}

// Generic structural pagination selectors.
var genericNextSelectors = []string{
	"link[rel~='next']",
	"a[rel~='next']",
	".nav-previous a[href]",
	".pagination .next a[href], .pagination a.next",
	".pager .next a[href], .pager-next a[href]",
	"a.older-posts, .older a[href]",
	".next a[href], a.next",
}

// Generic content containers in priority order.
var genericContentSelectors = []string{
	".entry-content",
	".post-content",
	".post-body",
	".widget-content",
	"article",
	"[role='article']",
	"#main-content",
	"main",
	"#content",
}

// Elements removed before content extraction.
var noiseSelectors = []string{
	"script", "style", "link", "meta", "noscript", "template", "iframe", "svg", "form",
	"header", "footer", "nav", "aside",
	"[role='navigation']", "[role='banner']", "[role='contentinfo']", "[role='complementary']",
	".sidebar", "#sidebar", ".widget-area",
	".comments", "#comments", ".comment-respond",
	".share", ".sharing", ".social", ".social-share", ".sharedaddy",
	".post-meta", ".entry-meta", ".post-footer", ".entry-footer",
	".related-posts", ".jp-relatedposts", ".author-bio",
	".navigation", ".post-navigation", ".pagination",
	"[data-aid='FOOTER_SECTION']", "[data-aid^='HEADER']",
}

// selectorsFor returns platform selectors followed by the generic ones.
func selectorsFor(platform blogtext.Platform, pick func(profile) []string, generic []string) []string {
	p, ok := profiles[platform]
	if !ok {
		return generic
	}
	own := pick(p)
	out := make([]string, 0, len(own)+len(generic))
	out = append(out, own...)
	return append(out, generic...)
}
