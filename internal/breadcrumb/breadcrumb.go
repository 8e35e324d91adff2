package breadcrumb

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// Item is one labelled link in a trail.
type Item struct {
	Label string
	Path  string
}

// Home is always the first item of a trail.
var Home = Item{Label: "Home", Path: "/"}

// routeNames maps known path segments to display labels.
var routeNames = map[string]string{
	"dashboard":   "Dashboard",
	"clients":     "Clients",
	"companies":   "Companies",
	"contacts":    "Contacts",
	"projects":    "Projects",
	"briefs":      "Briefs",
	"datasources": "Data Sources",
	"paragraphs":  "Paragraphs",
	"settings":    "Settings",
	"new":         "New",
	"edit":        "Edit",
}

// RouteName returns the static label for a segment.
func RouteName(segment string) (string, bool) {
	label, ok := routeNames[segment]
	return label, ok
}

// FromPath builds a trail from path without resolving entity IDs. Labels come
// from customLabels (keyed by accumulated path), then the static route table,
// then TitleCase of the raw segment. Blank custom labels are ignored, as in
// WithLabels.
func FromPath(path string, customLabels map[string]string) []Item {
	segs := Segments(path)
	items := make([]Item, 0, len(segs)+1)
	items = append(items, Home)

	current := ""
	for _, seg := range segs {
		current += "/" + seg
		label, ok := customLabel(customLabels, current)
		if !ok {
			label, ok = routeNames[seg]
		}
		if !ok {
			label = TitleCase(seg)
		}
		items = append(items, Item{Label: label, Path: current})
	}
	return items
}

// Segments splits path on "/" and drops empty segments.
func Segments(path string) []string {
	parts := strings.Split(path, "/")
	out := parts[:0]
	for _, p := range parts {
		if p == "" {
			continue
		}
		out = append(out, p)
	}
	return out
}

// Clean returns path in canonical "/a/b" form.
func Clean(path string) string {
	return "/" + strings.Join(Segments(path), "/")
}

// TitleCase upper-cases the first rune and turns hyphens into spaces.
func TitleCase(segment string) string {
	if segment == "" {
		return ""
	}
	r, size := utf8.DecodeRuneInString(segment)
	rest := strings.ReplaceAll(segment[size:], "-", " ")
	if r == '-' {
		return " " + rest
	}
	return string(unicode.ToUpper(r)) + rest
}

// Render joins labels with sep.
func Render(items []Item, sep string) string {
	labels := make([]string, len(items))
	for i, item := range items {
		labels[i] = item.Label
	}
	return strings.Join(labels, sep)
}

// Parent returns the path one level above the last item, or "/" at the root.
func Parent(items []Item) string {
	if len(items) < 2 {
		return Home.Path
	}
	return items[len(items)-2].Path
}

// WithLabels returns a copy of items with labels overridden by path. Blank
// overrides are ignored.
func WithLabels(items []Item, labels map[string]string) []Item {
	if len(labels) == 0 {
		return items
	}
	out := make([]Item, len(items))
	for i, item := range items {
		if label, ok := customLabel(labels, item.Path); ok {
			item.Label = label
		}
		out[i] = item
	}
	return out
}

func customLabel(labels map[string]string, path string) (string, bool) {
	label, ok := labels[path]
	if !ok || strings.TrimSpace(label) == "" {
		return "", false
	}
	return label, true
}
