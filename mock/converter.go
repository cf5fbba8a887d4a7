package mock

import "github.com/fwojciec/blogtext"

var _ blogtext.Converter = (*Converter)(nil)

// Converter is a mock implementation of blogtext.Converter.
type Converter struct {
	ConvertFn func(html string) (string, error)
}

func (c *Converter) Convert(html string) (string, error) {
	return c.ConvertFn(html)
}

var _ blogtext.LanguageDetector = (*LanguageDetector)(nil)

// LanguageDetector is a mock implementation of blogtext.LanguageDetector.
type LanguageDetector struct {
	DetectLanguageFn func(text string) string
}

func (d *LanguageDetector) DetectLanguage(text string) string {
	return d.DetectLanguageFn(text)
}
