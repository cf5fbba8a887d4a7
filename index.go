package blogtext

// IndexPage is one parsed page of a blog's post listing.
type IndexPage struct {
	// Posts are the post links found on the page, in document order.
	Posts []PostReference

	// Next is the absolute URL of the following index page, or empty.
	Next string
}

// IndexParser extracts post links and the next-page link from index pages.
type IndexParser interface {
	// ParseIndex parses an index page. Links are resolved against pageURL.
	ParseIndex(html string, pageURL string) (*IndexPage, error)
}

// Platform identifies a blogging platform.
type Platform string

// Recognized blogging platforms.
const (
	PlatformUnknown     Platform = ""
	PlatformWordPress   Platform = "wordpress"
	PlatformBlogger     Platform = "blogger"
	PlatformGhost       Platform = "ghost"
	PlatformSquarespace Platform = "squarespace"
	PlatformSubstack    Platform = "substack"
	PlatformGoDaddy     Platform = "godaddy"
)

// PlatformDetector identifies blogging platforms from HTML.
type PlatformDetector interface {
	// Detect analyzes HTML and returns the identified platform.
	// Returns PlatformUnknown if the platform cannot be determined.
	Detect(html string) Platform
}
