// Package fs writes extracted posts to disk as Markdown files.
package fs

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/cespare/xxhash/v2"
	"github.com/fwojciec/blogtext"
	"gopkg.in/yaml.v3"
)

// maxSlugLen caps the title-derived part of a file name.
const maxSlugLen = 60

// frontMatter is the YAML header written above each post.
type frontMatter struct {
	Title    string `yaml:"title"`
	Date     string `yaml:"date,omitempty"`
	Source   string `yaml:"source,omitempty"`
	Language string `yaml:"language,omitempty"`
}

// formatPost renders a post as Markdown with YAML front matter.
func formatPost(post *blogtext.ExtractedPost, language string) (string, error) {
	header, err := yaml.Marshal(frontMatter{
		Title:    post.Title,
		Date:     post.Date,
		Source:   post.URL,
		Language: language,
	})
	if err != nil {
		return "", fmt.Errorf("marshal front matter: %w", err)
	}

	var b strings.Builder
	b.WriteString("---\n")
	b.Write(header)
	b.WriteString("---\n\n")
	b.WriteString(strings.TrimSpace(post.Content))
	b.WriteString("\n")
	return b.String(), nil
}

// FileName returns the file name for a post: a slug of its title followed
// by eight hex digits of the xxhash of its URL (or title, when the post
// has no URL), so posts with equal titles do not collide.
func FileName(post *blogtext.ExtractedPost) string {
	key := post.URL
	if key == "" {
		key = post.Title
	}
	return fmt.Sprintf("%s-%08x.md", Slug(post.Title), uint32(xxhash.Sum64String(key)))
}

// Slug lowercases s and joins its runs of letters and digits with hyphens.
func Slug(s string) string {
	var b strings.Builder
	hyphen := false
	for _, r := range strings.ToLower(s) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			if hyphen && b.Len() > 0 {
				b.WriteByte('-')
			}
			hyphen = false
			b.WriteRune(r)
			continue
		}
		hyphen = true
	}

	slug := b.String()
	if len(slug) > maxSlugLen {
		slug = strings.TrimRight(truncate(slug, maxSlugLen), "-")
	}
	if slug == "" {
		return "post"
	}
	return slug
}

// truncate cuts s to at most n bytes without splitting a rune.
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	cut := 0
	for i := range s {
		if i > n {
			break
		}
		cut = i
	}
	return s[:cut]
}
