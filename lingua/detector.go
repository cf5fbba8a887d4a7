// Package lingua detects the language of extracted posts.
package lingua

import (
	"strings"

	"github.com/fwojciec/blogtext"
	"github.com/pemistahl/lingua-go"
)

// sampleLen bounds how much of a post is inspected.
const sampleLen = 2000

// minRelativeDistance rejects texts where the top two languages score
// too close to call.
const minRelativeDistance = 0.1

// Ensure Detector implements blogtext.LanguageDetector at compile time.
var _ blogtext.LanguageDetector = (*Detector)(nil)

// Detector wraps a lingua language detector. Models load lazily on first
// use, so construction is cheap.
type Detector struct {
	detector lingua.LanguageDetector
}

// NewDetector creates a Detector over the given languages, or over every
// language lingua supports when fewer than two are given.
func NewDetector(languages ...lingua.Language) *Detector {
	builder := lingua.NewLanguageDetectorBuilder().FromAllLanguages()
	if len(languages) >= 2 {
		builder = lingua.NewLanguageDetectorBuilder().FromLanguages(languages...)
	}
	return &Detector{
		detector: builder.WithMinimumRelativeDistance(minRelativeDistance).Build(),
	}
}

// DetectLanguage returns the ISO 639-1 code of text's language, or "".
func (d *Detector) DetectLanguage(text string) string {
	text = strings.TrimSpace(text)
	if text == "" {
		return ""
	}
	if len(text) > sampleLen {
		text = strings.ToValidUTF8(text[:sampleLen], "")
	}

	language, ok := d.detector.DetectLanguageOf(text)
	if !ok {
		return ""
	}
	return strings.ToLower(language.IsoCode639_1().String())
}
