package flatten

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

type mode int

const (
	outsideTag mode = iota
	inTagName
	inAttributes
	inQuotedValue
	inExpression
)

func (m mode) String() string {
	switch m {
	case outsideTag:
		return "outside-tag"
	case inTagName:
		return "in-tag-name"
	case inAttributes:
		return "in-attributes"
	case inQuotedValue:
		return "in-quoted-value"
	case inExpression:
		return "in-expression"
	default:
		return "unknown"
	}
}

type scanStatus int

const (
	scanMatched scanStatus = iota
	// scanNoTag means the '<' is not followed by a tag-name character.
	scanNoTag
	// scanUnterminated means a tag name was found but no closing '>'.
	scanUnterminated
)

// tag is a matched opening tag. attrs excludes the '/' of a self-closing tag.
type tag struct {
	start       int
	name        string
	attrStart   int
	attrs       string
	selfClosing bool
	end         int
}

// scanner walks a single opening tag starting at a '<'.
type scanner struct {
	text       string
	pos        int
	mode       mode
	quote      byte
	depth      int
	quoteAware bool
}

func isNameRune(r rune) bool {
	return r != '/' && r != '>' && !unicode.IsSpace(r)
}

func (f *Flattener) scan(text string, start int) (tag, scanStatus) {
	s := scanner{text: text, pos: start + 1, mode: inTagName, quoteAware: f.quoteAware}
	nameEnd := s.scanName()
	if nameEnd == start+1 {
		return tag{}, scanNoTag
	}
	s.mode = inAttributes
	gt, ok := s.scanAttributes()
	if !ok {
		return tag{}, scanUnterminated
	}
	attrs := text[nameEnd:gt]
	selfClosing := strings.HasSuffix(attrs, "/")
	if selfClosing {
		attrs = attrs[:len(attrs)-1]
	}
	return tag{
		start:       start,
		name:        text[start+1 : nameEnd],
		attrStart:   nameEnd,
		attrs:       attrs,
		selfClosing: selfClosing,
		end:         gt + 1,
	}, scanMatched
}

// scanName consumes the tag name and returns the index just past it.
func (s *scanner) scanName() int {
	for s.pos < len(s.text) {
		r, size := utf8.DecodeRuneInString(s.text[s.pos:])
		if !isNameRune(r) {
			break
		}
		s.pos += size
	}
	return s.pos
}

// scanAttributes returns the index of the '>' closing the tag.
//
// Without quote awareness this is the first '>' after the name, even when it
// sits inside a quoted value or an expression such as {a > b}; those tags end
// early and the remainder is treated as ordinary text.
func (s *scanner) scanAttributes() (int, bool) {
	if !s.quoteAware {
		gt := strings.IndexByte(s.text[s.pos:], '>')
		if gt < 0 {
			return 0, false
		}
		s.mode = outsideTag
		return s.pos + gt, true
	}
	for ; s.pos < len(s.text); s.pos++ {
		c := s.text[s.pos]
		switch s.mode {
		case inQuotedValue:
			switch c {
			case '\\':
				s.pos++
			case s.quote:
				s.quote = 0
				s.mode = s.resume()
			}
		case inExpression, inAttributes:
			switch c {
			case '"', '\'', '`':
				s.quote = c
				s.mode = inQuotedValue
			case '{':
				s.depth++
				s.mode = inExpression
			case '}':
				if s.depth > 0 {
					s.depth--
				}
				s.mode = s.resume()
			case '>':
				if s.mode == inAttributes {
					s.mode = outsideTag
					return s.pos, true
				}
			}
		}
	}
	return 0, false
}

func (s *scanner) resume() mode {
	if s.depth > 0 {
		return inExpression
	}
	return inAttributes
}
