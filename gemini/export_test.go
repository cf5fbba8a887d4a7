package gemini

// Prompt exposes prompt budgeting to tests.
var Prompt = (*Extractor).prompt
