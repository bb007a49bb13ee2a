package query

import (
	"net/url"
	"strings"
)

// Reserved query parameter names.
const (
	ParamSearch = "q"
	ParamPage   = "_page"
	ParamLimit  = "_limit"
	ParamExpand = "_expand"
	ParamEmbed  = "_embed"
)

// Filter is one equality filter, field=value.
type Filter struct {
	Field string
	Value string
}

// Query is a parsed request query string.
type Query struct {
	// Search is the q directive; empty means no search.
	Search string
	// Page and Limit are the raw pagination directives; empty means absent.
	Page  string
	Limit string
	// Expand and Embed keep every occurrence in request order.
	Expand []string
	Embed  []string
	// Filters are all non-reserved parameters in first-seen order. A
	// repeated field keeps its first position and its last value.
	Filters []Filter
}

type param struct {
	key, value string
}

// ParseQuery parses a raw (still encoded) query string.
func ParseQuery(rawQuery string) Query {
	pairs := parsePairs(rawQuery)

	q := Query{
		Expand:  make([]string, 0),
		Embed:   make([]string, 0),
		Filters: make([]Filter, 0),
	}

	last := make(map[string]string, len(pairs))
	var order []string
	for _, p := range pairs {
		switch p.key {
		case ParamExpand:
			q.Expand = append(q.Expand, p.value)
		case ParamEmbed:
			q.Embed = append(q.Embed, p.value)
		}
		if _, seen := last[p.key]; !seen {
			order = append(order, p.key)
		}
		last[p.key] = p.value
	}

	for _, key := range order {
		value := last[key]
		switch key {
		case ParamSearch:
			q.Search = value
		case ParamPage:
			q.Page = value
		case ParamLimit:
			q.Limit = value
		case ParamExpand, ParamEmbed:
		default:
			q.Filters = append(q.Filters, Filter{Field: key, Value: value})
		}
	}
	return q
}

// parsePairs splits an application/x-www-form-urlencoded string keeping
// order. Undecodable escapes are kept verbatim.
func parsePairs(rawQuery string) []param {
	var pairs []param
	for _, part := range strings.Split(rawQuery, "&") {
		if part == "" {
			continue
		}
		key, value, _ := strings.Cut(part, "=")
		pairs = append(pairs, param{key: unescape(key), value: unescape(value)})
	}
	return pairs
}

func unescape(s string) string {
	if u, err := url.QueryUnescape(s); err == nil {
		return u
	}
	return strings.ReplaceAll(s, "+", " ")
}
