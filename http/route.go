package http

import (
	"net/url"
	"strings"
)

// Route placeholders substituted with the target URL.
const (
	placeholderRaw     = "{url}"
	placeholderEncoded = "{url_encoded}"
)

// Route rewrites a target URL into a request URL for one relay endpoint.
type Route struct {
	Name     string `yaml:"name"`
	Template string `yaml:"template"`
}

// Rewrite returns the request URL for target.
func (r Route) Rewrite(target string) string {
	s := strings.ReplaceAll(r.Template, placeholderEncoded, url.QueryEscape(target))
	return strings.ReplaceAll(s, placeholderRaw, target)
}

// Host returns the host the route sends requests to.
// For the direct route this is the target's own host.
func (r Route) Host(target string) string {
	u, err := url.Parse(r.Rewrite(target))
	if err != nil {
		return ""
	}
	return u.Host
}

// DefaultRoutes returns the built-in route chain: a direct request first,
// then public CORS relays ordered by observed reliability.
func DefaultRoutes() []Route {
	return []Route{
		{Name: "direct", Template: "{url}"},
		{Name: "thingproxy", Template: "https://thingproxy.freeboard.io/fetch/{url}"},
		{Name: "cors.eu.org", Template: "https://cors.eu.org/{url}"},
		{Name: "allorigins", Template: "https://api.allorigins.win/raw?url={url_encoded}"},
		{Name: "corsproxy", Template: "https://corsproxy.io/?{url_encoded}"},
	}
}
