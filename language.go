package blogtext

// LanguageDetector identifies the natural language of a text.
type LanguageDetector interface {
	// DetectLanguage returns the lowercase ISO 639-1 code of the text's
	// language, or "" when it cannot be determined with confidence.
	DetectLanguage(text string) string
}
