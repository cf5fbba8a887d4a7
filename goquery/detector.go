package goquery

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/blogtext"
)

var _ blogtext.PlatformDetector = (*Detector)(nil)

// Detector identifies blogging platforms from HTML content.
// It checks the meta generator tag first, then asset URLs and
// structural markers that are unique to each platform.
type Detector struct{}

// NewDetector creates a new Detector.
func NewDetector() *Detector {
	return &Detector{}
}

// Detect analyzes HTML and returns the identified platform.
// Returns PlatformUnknown if the platform cannot be determined.
func (d *Detector) Detect(html string) blogtext.Platform {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return blogtext.PlatformUnknown
	}
	return d.detect(doc)
}

func (d *Detector) detect(doc *goquery.Document) blogtext.Platform {
	// Meta generator tags are the most reliable signal when present
	if platform := d.detectFromMetaGenerator(doc); platform != blogtext.PlatformUnknown {
		return platform
	}

	if d.hasSelector(doc, "link[href*='/wp-content/']") ||
		d.hasSelector(doc, "script[src*='/wp-includes/']") ||
		d.hasSelector(doc, "link[rel='https://api.w.org/']") {
		return blogtext.PlatformWordPress
	}

	if d.hasSelector(doc, "link[href*='blogger.com']") ||
		d.hasSelector(doc, "script[src*='blogger.com']") ||
		d.hasSelector(doc, "#blog-pager") {
		return blogtext.PlatformBlogger
	}

	if d.hasSelector(doc, "script[src*='/ghost/']") ||
		d.hasSelector(doc, ".gh-content") ||
		d.hasSelector(doc, ".post-card-content-link") {
		return blogtext.PlatformGhost
	}

	if d.hasSelector(doc, "script[src*='squarespace']") ||
		d.hasSelector(doc, ".sqs-block") {
		return blogtext.PlatformSquarespace
	}

	if d.hasSelector(doc, "link[href*='substackcdn.com']") ||
		d.hasSelector(doc, "script[src*='substackcdn.com']") {
		return blogtext.PlatformSubstack
	}

	// GoDaddy's builder tags nearly every element with data-aid
	if d.hasSelector(doc, "[data-aid='FOOTER_SECTION']") ||
		d.hasSelector(doc, "script[src*='img1.wsimg.com']") {
		return blogtext.PlatformGoDaddy
	}

	return blogtext.PlatformUnknown
}

// detectFromMetaGenerator checks the meta generator tag for platform identification.
func (d *Detector) detectFromMetaGenerator(doc *goquery.Document) blogtext.Platform {
	generator, exists := doc.Find("meta[name='generator']").Attr("content")
	if !exists {
		return blogtext.PlatformUnknown
	}

	generator = strings.ToLower(generator)

	switch {
	case strings.Contains(generator, "wordpress"):
		return blogtext.PlatformWordPress
	case strings.Contains(generator, "blogger"):
		return blogtext.PlatformBlogger
	case strings.Contains(generator, "ghost"):
		return blogtext.PlatformGhost
	case strings.Contains(generator, "squarespace"):
		return blogtext.PlatformSquarespace
	case strings.Contains(generator, "go daddy"), strings.Contains(generator, "godaddy"),
		strings.Contains(generator, "starfield"):
		return blogtext.PlatformGoDaddy
	}

	return blogtext.PlatformUnknown
}

// hasSelector checks if the document contains at least one element matching the selector.
func (d *Detector) hasSelector(doc *goquery.Document, selector string) bool {
	return doc.Find(selector).Length() > 0
}
