package feed

import (
	"net/url"
	"strings"

	"github.com/beevik/etree"
	"github.com/fwojciec/blogtext"
	"golang.org/x/net/html/charset"
)

func parseXML(body string, base *url.URL) ([]blogtext.PostReference, error) {
	doc := etree.NewDocument()
	doc.ReadSettings.CharsetReader = charset.NewReaderLabel
	doc.ReadSettings.Permissive = true
	if err := doc.ReadFromString(body); err != nil {
		return nil, blogtext.Errorf(blogtext.EFEEDPARSE, "invalid XML feed: %v", err)
	}

	root := doc.Root()
	if root == nil {
		return nil, blogtext.Errorf(blogtext.EFEEDPARSE, "empty XML feed")
	}

	switch root.Tag {
	case "feed":
		return parseAtom(root, base), nil
	case "rss", "RDF":
		return parseRSS(root, base), nil
	default:
		return nil, blogtext.Errorf(blogtext.EFEEDPARSE, "unrecognized feed root <%s>", root.Tag)
	}
}

// parseRSS handles RSS 2.0 and RSS 1.0 (RDF) items.
func parseRSS(root *etree.Element, base *url.URL) []blogtext.PostReference {
	var refs []blogtext.PostReference
	for _, item := range root.FindElements("//item") {
		link := resolveItemURL(base, rssLink(item))
		if link == "" {
			if guid := item.SelectElement("guid"); guid != nil && guid.SelectAttrValue("isPermaLink", "true") == "true" {
				link = resolveItemURL(base, guid.Text())
			}
		}
		if link == "" {
			continue
		}
		refs = append(refs, blogtext.PostReference{
			Title:       strings.TrimSpace(childText(item, "title")),
			URL:         link,
			Date:        normalizeDate(firstText(item, "pubDate", "dc:date")),
			ContentHTML: firstText(item, "content:encoded", "description"),
		})
	}
	return refs
}

// rssLink reads the item's own unprefixed link element, by text or href.
// Prefixed siblings such as atom:link are skipped.
func rssLink(item *etree.Element) string {
	for _, el := range item.ChildElements() {
		if el.Tag != "link" || el.Space != "" {
			continue
		}
		if text := strings.TrimSpace(el.Text()); text != "" {
			return text
		}
		return el.SelectAttrValue("href", "")
	}
	return ""
}

func parseAtom(root *etree.Element, base *url.URL) []blogtext.PostReference {
	var refs []blogtext.PostReference
	for _, entry := range root.SelectElements("entry") {
		link := resolveItemURL(base, atomLink(entry))
		if link == "" {
			continue
		}
		refs = append(refs, blogtext.PostReference{
			Title:       strings.TrimSpace(childText(entry, "title")),
			URL:         link,
			Date:        normalizeDate(firstText(entry, "published", "updated")),
			ContentHTML: atomContent(entry),
		})
	}
	return refs
}

// atomLink returns the href of the first alternate link. A link without
// rel counts as alternate.
func atomLink(entry *etree.Element) string {
	for _, link := range entry.SelectElements("link") {
		rel := link.SelectAttrValue("rel", "alternate")
		if rel == "alternate" {
			return link.SelectAttrValue("href", "")
		}
	}
	return ""
}

// atomContent prefers content over summary. XHTML content is serialized
// back to markup.
func atomContent(entry *etree.Element) string {
	for _, tag := range []string{"content", "summary"} {
		el := entry.SelectElement(tag)
		if el == nil {
			continue
		}
		if el.SelectAttrValue("type", "") == "xhtml" {
			if markup := innerXML(el); strings.TrimSpace(markup) != "" {
				return markup
			}
			continue
		}
		if text := el.Text(); strings.TrimSpace(text) != "" {
			return text
		}
	}
	return ""
}

func innerXML(el *etree.Element) string {
	doc := etree.NewDocument()
	for _, child := range el.ChildElements() {
		doc.AddChild(child.Copy())
	}
	out, err := doc.WriteToString()
	if err != nil {
		return ""
	}
	return out
}

func childText(el *etree.Element, tag string) string {
	child := el.SelectElement(tag)
	if child == nil {
		return ""
	}
	return child.Text()
}

// firstText returns the text of the first named child with content.
func firstText(el *etree.Element, tags ...string) string {
	for _, tag := range tags {
		if text := childText(el, tag); strings.TrimSpace(text) != "" {
			return text
		}
	}
	return ""
}
