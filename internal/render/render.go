// Package render turns paragraph and brief bodies into terminal text.
//
// Bodies arrive either as markdown or as HTML scraped from websites. HTML is
// converted to markdown first, then everything goes through glamour.
package render

import (
	"fmt"
	"regexp"
	"strings"
	"sync"

	htmltomarkdown "github.com/JohannesKaufmann/html-to-markdown/v2"
	"github.com/charmbracelet/glamour"
)

const (
	defaultWidth = 80
	minWidth     = 20
)

var htmlTag = regexp.MustCompile(`</?[a-zA-Z][a-zA-Z0-9]*(\s[^<>]*)?/?>`)

// LooksLikeHTML reports whether body contains HTML tags.
func LooksLikeHTML(body string) bool {
	return htmlTag.MatchString(body)
}

// ToMarkdown converts HTML bodies to markdown and returns markdown unchanged.
func ToMarkdown(body string) (string, error) {
	if !LooksLikeHTML(body) {
		return strings.TrimSpace(body), nil
	}
	md, err := htmltomarkdown.ConvertString(body)
	if err != nil {
		return "", fmt.Errorf("convert html: %w", err)
	}
	return strings.TrimSpace(md), nil
}

// Renderer renders markdown for a fixed width and style. It rebuilds its
// glamour renderer only when the width changes.
type Renderer struct {
	style string

	mu    sync.Mutex
	width int
	term  *glamour.TermRenderer
}

// New returns a Renderer. style is a glamour style name ("dark", "light",
// "notty"); empty picks dark.
func New(style string, width int) *Renderer {
	if style == "" {
		style = "dark"
	}
	return &Renderer{style: style, width: width}
}

// SetWidth changes the wrap width for subsequent renders.
func (r *Renderer) SetWidth(width int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if width != r.width {
		r.width = width
		r.term = nil
	}
}

// Render converts body to markdown if needed and renders it.
func (r *Renderer) Render(body string) (string, error) {
	md, err := ToMarkdown(body)
	if err != nil {
		return "", err
	}
	if md == "" {
		return "", nil
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.term == nil {
		width := r.width
		if width <= 0 {
			width = defaultWidth
		}
		width = max(width, minWidth)
		term, err := glamour.NewTermRenderer(
			glamour.WithStylePath(r.style),
			glamour.WithWordWrap(width),
		)
		if err != nil {
			return "", fmt.Errorf("init markdown renderer: %w", err)
		}
		r.term = term
	}

	out, err := r.term.Render(md)
	if err != nil {
		return "", fmt.Errorf("render markdown: %w", err)
	}
	return strings.TrimRight(out, "\n"), nil
}

// RenderOrPlain renders body and falls back to the converted markdown, or the
// raw body, when rendering fails.
func (r *Renderer) RenderOrPlain(body string) string {
	if out, err := r.Render(body); err == nil {
		return out
	}
	if md, err := ToMarkdown(body); err == nil {
		return md
	}
	return body
}
