package blogtext

// Converter turns the HTML of an extracted article body into Markdown.
// Extractors use it when posts should keep headings, links and code.
type Converter interface {
	Convert(html string) (string, error)
}
