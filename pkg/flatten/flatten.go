// Package flatten rewrites opening tags whose attribute lists span several
// lines so that every attribute sits on the tag's first line.
//
// The transform is pure: text outside matched tags is copied verbatim, tag
// names and delimiters are never touched and attributes keep their order.
// A Flattener holds no mutable state and may be shared between goroutines.
package flatten

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// DefaultExcludedTags lists tag names whose attributes usually carry geometry
// data (path commands, coordinate lists) and are therefore left alone.
var DefaultExcludedTags = []string{"svg", "path", "g"}

// Result is the outcome of a single Apply call.
type Result struct {
	Text string
	// Tags is the number of tags whose attribute span was rewritten.
	Tags int
}

// Changed reports whether at least one tag was rewritten.
func (r Result) Changed() bool {
	return r.Tags > 0
}

// Option configures a Flattener.
type Option func(*Flattener)

// WithExcludedTags replaces the exclusion set. Names match exactly and are
// case-sensitive. Calling it with no names disables exclusion.
func WithExcludedTags(names ...string) Option {
	return func(f *Flattener) {
		f.excluded = make(map[string]struct{}, len(names))
		for _, name := range names {
			f.excluded[name] = struct{}{}
		}
	}
}

// WithQuoteAware makes the scanner ignore '>' inside quoted attribute values
// and inside balanced {...} expressions. It is off by default: a plain
// scanner ends the tag at the first '>' after the tag name.
func WithQuoteAware(enabled bool) Option {
	return func(f *Flattener) {
		f.quoteAware = enabled
	}
}

// Flattener collapses multi-line attribute spans.
type Flattener struct {
	excluded   map[string]struct{}
	quoteAware bool
}

// New creates a Flattener. Without options it excludes DefaultExcludedTags
// and uses the plain first-'>' matching rule.
func New(opts ...Option) *Flattener {
	f := &Flattener{}
	WithExcludedTags(DefaultExcludedTags...)(f)
	for _, opt := range opts {
		opt(f)
	}
	return f
}

var defaultFlattener = New()

// Flatten applies the default Flattener to text.
func Flatten(text string) string {
	return defaultFlattener.Flatten(text)
}

// Flatten returns text with every qualifying tag rewritten onto one line.
func (f *Flattener) Flatten(text string) string {
	return f.Apply(text).Text
}

// Excluded reports whether tags named name are never rewritten.
func (f *Flattener) Excluded(name string) bool {
	_, ok := f.excluded[name]
	return ok
}

// Apply rewrites text and reports how many tags changed.
func (f *Flattener) Apply(text string) Result {
	var b strings.Builder
	tags := 0
	copied := 0
	pos := 0
	for {
		lt := strings.IndexByte(text[pos:], '<')
		if lt < 0 {
			break
		}
		start := pos + lt
		t, status := f.scan(text, start)
		switch status {
		case scanNoTag:
			pos = start + 1
			continue
		case scanUnterminated:
			if !f.quoteAware {
				// no '>' remains, so no later '<' can open a tag either
				pos = len(text)
			} else {
				pos = start + 1
			}
			continue
		}
		pos = t.end
		if f.Excluded(t.name) || !strings.Contains(t.attrs, "\n") {
			continue
		}
		if b.Len() == 0 {
			b.Grow(len(text))
		}
		b.WriteString(text[copied:t.attrStart])
		b.WriteString(collapse(t.attrs))
		copied = t.attrStart + len(t.attrs)
		tags++
	}
	if tags == 0 {
		return Result{Text: text}
	}
	b.WriteString(text[copied:])
	return Result{Text: b.String(), Tags: tags}
}

// collapse turns every whitespace run that contains a newline, and every
// run of two or more whitespace characters, into a single space. A single
// trailing space is then dropped so the closing delimiter follows the last
// attribute directly.
func collapse(span string) string {
	var b strings.Builder
	b.Grow(len(span))
	for i := 0; i < len(span); {
		r, size := utf8.DecodeRuneInString(span[i:])
		if !unicode.IsSpace(r) {
			b.WriteString(span[i : i+size])
			i += size
			continue
		}
		j := i
		runes := 0
		newline := false
		for j < len(span) {
			r, size := utf8.DecodeRuneInString(span[j:])
			if !unicode.IsSpace(r) {
				break
			}
			if r == '\n' {
				newline = true
			}
			runes++
			j += size
		}
		if newline || runes > 1 {
			b.WriteByte(' ')
		} else {
			b.WriteString(span[i:j])
		}
		i = j
	}
	return strings.TrimSuffix(b.String(), " ")
}
