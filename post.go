package blogtext

import (
	"net/url"
	"strings"
)

// MaxPostLimit is the largest accepted ScrapeRequest.Limit.
const MaxPostLimit = 1000

// UntitledPost is the title given to posts whose source carries none.
const UntitledPost = "Untitled"

// PostReference is a discovered post prior to content extraction.
// URL is absolute and serves as the deduplication key.
type PostReference struct {
	Title string
	URL   string

	// Date is an optional RFC 3339 publication timestamp taken from a feed.
	Date string

	// ContentHTML is optional inline content carried by a feed entry.
	ContentHTML string
}

// ExtractedPost is the unit of output: one article's clean text.
type ExtractedPost struct {
	Title   string `json:"title"`
	Content string `json:"content"`
	Date    string `json:"date,omitempty"`
	URL     string `json:"url,omitempty"`
}

// ScrapeRequest is the input to a scraping run.
// A Limit of zero or less means unbounded.
type ScrapeRequest struct {
	BaseURL string
	Limit   int
}

// Validate returns an error if the request cannot start a run.
func (r *ScrapeRequest) Validate() error {
	if strings.TrimSpace(r.BaseURL) == "" {
		return Errorf(EINVALID, "base URL required")
	}
	u, err := url.Parse(r.BaseURL)
	if err != nil {
		return Errorf(EINVALID, "invalid base URL: %v", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return Errorf(EINVALID, "base URL must use http or https: %q", r.BaseURL)
	}
	if u.Host == "" {
		return Errorf(EINVALID, "base URL must be absolute: %q", r.BaseURL)
	}
	if r.Limit > MaxPostLimit {
		return Errorf(EINVALID, "limit cannot exceed %d posts", MaxPostLimit)
	}
	return nil
}
