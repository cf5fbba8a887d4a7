// Package blogtext discovers and extracts the full text of every article on a
// blog given only its base URL. It locates post URLs through syndication feeds
// or paginated index pages, fetches each post through a chain of relay routes,
// and extracts clean article text as an ordered stream of events.
//
// This package contains domain types and interfaces following Ben Johnson's
// Standard Package Layout. Implementations live in subdirectories named
// after their primary dependency (e.g., goquery/, feed/, gemini/).
package blogtext
