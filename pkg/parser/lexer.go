package parser

import (
	"sort"
	"strings"
	"unicode/utf8"
)

type tokenKind int

const (
	tokEOF tokenKind = iota
	tokName
	tokNumber
	tokString
	tokOperator
	tokOpen
	tokClose
)

type token struct {
	kind   tokenKind
	text   string
	style  string // string handler name for tokString
	offset int
}

var closers = map[string]string{"(": ")", "[": "]", "{": "}"}

type lexer struct {
	src     string
	pos     int
	symbols []string
	grammar *Grammar
}

func newLexer(src string, g *Grammar) *lexer {
	symbols := make([]string, 0, len(g.Operators))
	for _, op := range g.Operators {
		symbols = append(symbols, op.Symbol)
	}
	// longest match first
	sort.SliceStable(symbols, func(i, j int) bool { return len(symbols[i]) > len(symbols[j]) })
	return &lexer{src: src, symbols: symbols, grammar: g}
}

func (l *lexer) tokens() ([]token, error) {
	var out []token
	for {
		tok, err := l.next()
		if err != nil {
			return nil, err
		}
		out = append(out, tok)
		if tok.kind == tokEOF {
			return out, nil
		}
	}
}

func (l *lexer) skipSpaceAndComments() {
	for l.pos < len(l.src) {
		c := l.src[l.pos]
		switch {
		case c == ' ' || c == '\t' || c == '\n' || c == '\r':
			l.pos++
		case c == '#':
			for l.pos < len(l.src) && l.src[l.pos] != '\n' {
				l.pos++
			}
		default:
			return
		}
	}
}

func (l *lexer) next() (token, error) {
	l.skipSpaceAndComments()
	start := l.pos
	if l.pos >= len(l.src) {
		return token{kind: tokEOF, offset: start}, nil
	}
	c := l.src[l.pos]
	switch {
	case isNameStart(c):
		for l.pos < len(l.src) && isNamePart(l.src[l.pos]) {
			l.pos++
		}
		return token{kind: tokName, text: l.src[start:l.pos], offset: start}, nil
	case isDigit(c):
		return l.number(), nil
	case c == '`':
		return l.template()
	case c == '\'':
		return l.raw()
	case c == '"':
		return l.plain()
	case c == '(' || c == '[' || c == '{':
		l.pos++
		return token{kind: tokOpen, text: string(c), offset: start}, nil
	case c == ')' || c == ']' || c == '}':
		l.pos++
		return token{kind: tokClose, text: string(c), offset: start}, nil
	}
	for _, sym := range l.symbols {
		if strings.HasPrefix(l.src[l.pos:], sym) {
			l.pos += len(sym)
			return token{kind: tokOperator, text: sym, offset: start}, nil
		}
	}
	r, _ := utf8.DecodeRuneInString(l.src[l.pos:])
	return token{}, newSyntaxError(l.src, start, false, "unexpected character %q", r)
}

func (l *lexer) number() token {
	start := l.pos
	l.digits()
	if l.pos+1 < len(l.src) && l.src[l.pos] == '.' && isDigit(l.src[l.pos+1]) {
		l.pos++
		l.digits()
	}
	if l.pos < len(l.src) && (l.src[l.pos] == 'e' || l.src[l.pos] == 'E') {
		mark := l.pos
		l.pos++
		if l.pos < len(l.src) && (l.src[l.pos] == '+' || l.src[l.pos] == '-') {
			l.pos++
		}
		if l.pos < len(l.src) && isDigit(l.src[l.pos]) {
			l.digits()
		} else {
			l.pos = mark
		}
	}
	return token{kind: tokNumber, text: l.src[start:l.pos], offset: start}
}

func (l *lexer) digits() {
	for l.pos < len(l.src) && isDigit(l.src[l.pos]) {
		l.pos++
	}
}

// template scans a backtick string. Backticks inside ${...} spans do not
// terminate it.
func (l *lexer) template() (token, error) {
	start := l.pos
	end := templateEnd(l.src, start+1)
	if end < 0 {
		l.pos = len(l.src)
		return token{}, newSyntaxError(l.src, start, true, "unterminated template string")
	}
	l.pos = end + 1
	return token{kind: tokString, text: l.src[start+1 : end], style: l.grammar.TemplateString, offset: start}, nil
}

// InterpolationEnd returns the index of the brace closing a ${ span whose
// body starts at from, or -1. Braces inside string literals do not count.
func InterpolationEnd(s string, from int) int {
	depth := 1
	for k := from; k < len(s); k++ {
		switch s[k] {
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return k
			}
		case '\'':
			end := strings.IndexByte(s[k+1:], '\'')
			if end < 0 {
				return -1
			}
			k += end + 1
		case '"':
			if k = plainEnd(s, k+1); k < 0 {
				return -1
			}
		case '`':
			if k = templateEnd(s, k+1); k < 0 {
				return -1
			}
		}
	}
	return -1
}

// plainEnd returns the index of the quote closing a "..." body that starts
// at from, or -1.
func plainEnd(s string, from int) int {
	for k := from; k < len(s); k++ {
		switch s[k] {
		case '\\':
			k++
		case '"':
			return k
		}
	}
	return -1
}

// templateEnd returns the index of the backtick closing a template body that
// starts at from, or -1.
func templateEnd(s string, from int) int {
	for k := from; k < len(s); k++ {
		switch {
		case s[k] == '`':
			return k
		case s[k] == '$' && k+1 < len(s) && s[k+1] == '{':
			if k = InterpolationEnd(s, k+2); k < 0 {
				return -1
			}
		}
	}
	return -1
}

func (l *lexer) raw() (token, error) {
	start := l.pos
	end := strings.IndexByte(l.src[start+1:], '\'')
	if end < 0 {
		l.pos = len(l.src)
		return token{}, newSyntaxError(l.src, start, true, "unterminated string")
	}
	l.pos = start + 1 + end + 1
	return token{kind: tokString, text: l.src[start+1 : start+1+end], style: l.grammar.RawString, offset: start}, nil
}

func (l *lexer) plain() (token, error) {
	start := l.pos
	l.pos++
	var b strings.Builder
	for l.pos < len(l.src) {
		c := l.src[l.pos]
		switch c {
		case '"':
			l.pos++
			return token{kind: tokString, text: b.String(), style: l.grammar.PlainString, offset: start}, nil
		case '\\':
			if l.pos+1 >= len(l.src) {
				l.pos++
				continue
			}
			b.WriteString(unescape(l.src[l.pos+1]))
			l.pos += 2
		default:
			b.WriteByte(c)
			l.pos++
		}
	}
	return token{}, newSyntaxError(l.src, start, true, "unterminated string")
}

func unescape(c byte) string {
	switch c {
	case 'n':
		return "\n"
	case 't':
		return "\t"
	case 'r':
		return "\r"
	case '0':
		return "\x00"
	default:
		return string(c)
	}
}

func isNameStart(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isNamePart(c byte) bool {
	return isNameStart(c) || isDigit(c)
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}
