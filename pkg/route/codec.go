package route

import (
	"net/url"
	"strconv"
	"strings"
)

const (
	keyPage     = "page"
	keySearch   = "search"
	keySort     = "sort"
	keyOrder    = "order"
	keyGroupBy  = "group_by"
	keyPageSize = "page_size"
	keySwimlane = "swimlane"
)

const taskPrefix = "/task/"

// Decode parses a fragment, with or without its leading '#'. The boolean is
// false when the fragment did not name a known view; the returned route is
// then the default list.
func Decode(fragment string) (Route, bool) {
	fragment = strings.TrimPrefix(fragment, "#")
	path, rawQuery, _ := strings.Cut(fragment, "?")

	switch {
	case path == "" || path == "/" || path == "/list":
		return ListRoute(decodeListState(parseQuery(rawQuery))), true
	case path == "/overview":
		return OverviewRoute(), true
	case path == "/board":
		sw := Swimlane(first(parseQuery(rawQuery), keySwimlane))
		if !sw.Valid() {
			sw = SwimlaneStatus
		}
		return BoardRoute(sw), true
	case strings.HasPrefix(path, taskPrefix):
		seg, _, _ := strings.Cut(path[len(taskPrefix):], "/")
		id, err := url.PathUnescape(seg)
		if err != nil || id == "" {
			return DefaultRoute(), false
		}
		return TaskRoute(id), true
	}
	return DefaultRoute(), false
}

// Encode serializes r as a fragment without the leading '#'. Keys equal to
// their defaults are omitted, so the default list encodes as "/list".
func Encode(r Route) string {
	switch r.Kind {
	case KindOverview:
		return "/overview"
	case KindBoard:
		if r.Swimlane == SwimlaneStatus {
			return "/board"
		}
		return "/board?" + keySwimlane + "=" + url.QueryEscape(string(r.Swimlane))
	case KindTask:
		return taskPrefix + escapeComponent(r.TaskID)
	default:
		if q := encodeListState(r.List); q != "" {
			return "/list?" + q
		}
		return "/list"
	}
}

// escapeComponent percent-encodes every byte except ASCII letters, digits and
// -_.!~*'(), the same set a browser's encodeURIComponent leaves alone.
func escapeComponent(s string) string {
	const hex = "0123456789ABCDEF"
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case 'a' <= c && c <= 'z', 'A' <= c && c <= 'Z', '0' <= c && c <= '9':
			b.WriteByte(c)
		case strings.IndexByte("-_.!~*'()", c) >= 0:
			b.WriteByte(c)
		default:
			b.WriteByte('%')
			b.WriteByte(hex[c>>4])
			b.WriteByte(hex[c&0x0f])
		}
	}
	return b.String()
}

// Href returns the fragment for r with its leading '#'.
func Href(r Route) string {
	return "#" + Encode(r)
}

// Canonical reports whether fragment is already the encoding of what it decodes to.
func Canonical(fragment string) bool {
	r, ok := Decode(fragment)
	return ok && strings.TrimPrefix(fragment, "#") == Encode(r)
}

// WithPageSize gives a list address that does not name a page size the
// given one. Other addresses are returned unchanged.
func WithPageSize(fragment string, size int) string {
	r, ok := Decode(fragment)
	if !ok || r.Kind != KindList || size < 1 || size == DefaultPageSize {
		return fragment
	}
	_, rawQuery, _ := strings.Cut(strings.TrimPrefix(fragment, "#"), "?")
	if parseQuery(rawQuery).Has(keyPageSize) {
		return fragment
	}
	r.List.PageSize = size
	return Href(r)
}

// parseQuery ignores malformed pairs; url.ParseQuery keeps the rest.
func parseQuery(raw string) url.Values {
	if raw == "" {
		return url.Values{}
	}
	v, _ := url.ParseQuery(raw)
	return v
}

// first returns the first value for key, matching URLSearchParams.get.
func first(v url.Values, key string) string {
	if vs := v[key]; len(vs) > 0 {
		return vs[0]
	}
	return ""
}

func positiveInt(v url.Values, key string, def int) int {
	n, err := strconv.Atoi(first(v, key))
	if err != nil || n < 1 {
		return def
	}
	return n
}

func decodeListState(v url.Values) ListState {
	s := DefaultListState()
	for _, key := range FilterKeys {
		if f, ok := s.Filters.With(key, first(v, string(key))); ok {
			s.Filters = f
		}
	}
	s.Search = first(v, keySearch)
	if sf := SortField(first(v, keySort)); sf.Valid() {
		s.Sort = sf
	}
	if o := SortOrder(first(v, keyOrder)); o.Valid() {
		s.Order = o
	}
	if g := GroupBy(first(v, keyGroupBy)); g.Valid() {
		s.GroupBy = g
	}
	s.Page = positiveInt(v, keyPage, DefaultPage)
	s.PageSize = positiveInt(v, keyPageSize, DefaultPageSize)
	return s
}

// encodeListState writes the non-default keys in a fixed order so that equal
// states always produce identical strings.
func encodeListState(s ListState) string {
	var b strings.Builder
	add := func(key, value string) {
		if b.Len() > 0 {
			b.WriteByte('&')
		}
		b.WriteString(key)
		b.WriteByte('=')
		b.WriteString(url.QueryEscape(value))
	}

	if s.Page > DefaultPage {
		add(keyPage, strconv.Itoa(s.Page))
	}
	for _, key := range FilterKeys {
		if val := s.Filters.Get(key); val != "" {
			add(string(key), val)
		}
	}
	if s.Search != "" {
		add(keySearch, s.Search)
	}
	if s.Sort != DefaultSort && s.Sort != "" {
		add(keySort, string(s.Sort))
	}
	if s.Order != DefaultOrder && s.Order != "" {
		add(keyOrder, string(s.Order))
	}
	if s.GroupBy != GroupNone {
		add(keyGroupBy, string(s.GroupBy))
	}
	if s.PageSize != DefaultPageSize && s.PageSize > 0 {
		add(keyPageSize, strconv.Itoa(s.PageSize))
	}
	return b.String()
}
