package parser

import (
	"errors"
	"testing"

	"swan/interpreter-go/pkg/ast"
)

func mustParse(t *testing.T, src string) ast.Node {
	t.Helper()
	node, err := Parse(src)
	if err != nil {
		t.Fatalf("parse %q: %v", src, err)
	}
	return node
}

func TestParsePrecedenceAndAssociativity(t *testing.T) {
	cases := map[string]string{
		"1 + 2 * 3":       `(sum (number "1") (mul (number "2") (number "3")))`,
		"1 - 2 - 3":       `(sub (sub (number "1") (number "2")) (number "3"))`,
		"2 ^ 3 * 4":       `(mul (pow (number "2") (number "3")) (number "4"))`,
		"f = x -> x + 1":  `(assign (name "f") (define (name "x") (sum (name "x") (number "1"))))`,
		"a -> b -> c":     `(define (name "a") (define (name "b") (name "c")))`,
		"f x y":           `(apply (apply (name "f") (name "x")) (name "y"))`,
		"f(x)":            `(apply (name "f") (name "x"))`,
		"a.b c":           `(apply (subcontext (name "a") (name "b")) (name "c"))`,
		"x > 0 ? 1 ; 2":   `(else (if (gt (name "x") (number "0")) (number "1")) (number "2"))`,
		"a | b & c":       `(and (or (name "a") (name "b")) (name "c"))`,
		"a, b = 1, 2":     `(pair (pair (name "a") (assign (name "b") (number "1"))) (number "2"))`,
		"f << g >> h":     `(pipe (compose (name "f") (name "g")) (name "h"))`,
		"x : 1 + 2":       `(label (name "x") (sum (number "1") (number "2")))`,
		"a == b != c":     `(ne (eq (name "a") (name "b")) (name "c"))`,
		"1 # comment\n+2": `(sum (number "1") (number "2"))`,
	}
	for src, want := range cases {
		if got := ast.Format(mustParse(t, src)); got != want {
			t.Fatalf("parse %q:\nexpected %s\ngot      %s", src, want, got)
		}
	}
}

func TestParseVoidOperands(t *testing.T) {
	cases := map[string]string{
		"":       `(void)`,
		"()":     `(void)`,
		"-3":     `(sub (void) (number "3"))`,
		"2 * -3": `(mul (number "2") (sub (void) (number "3")))`,
		"(1,)":   `(pair (number "1") (void))`,
		"f ()":   `(apply (name "f") (void))`,
	}
	for src, want := range cases {
		if got := ast.Format(mustParse(t, src)); got != want {
			t.Fatalf("parse %q: expected %s, got %s", src, want, got)
		}
	}
}

func TestParseGroups(t *testing.T) {
	cases := map[string]string{
		"[]":             `(list)`,
		"[1,(2,3),4]":    `(list (number "1") (pair (number "2") (number "3")) (number "4"))`,
		"[1, 2,]":        `(list (number "1") (number "2"))`,
		"{a = 1, b = 2}": `(namespace (assign (name "a") (number "1")) (assign (name "b") (number "2")))`,
		"{}":             `(namespace)`,
		"[f << g, h]":    `(list (compose (name "f") (name "g")) (name "h"))`,
	}
	for src, want := range cases {
		if got := ast.Format(mustParse(t, src)); got != want {
			t.Fatalf("parse %q: expected %s, got %s", src, want, got)
		}
	}
}

func TestParseLiterals(t *testing.T) {
	cases := []struct {
		src     string
		handler string
		text    string
	}{
		{`"a\nb\"c"`, "string", "a\nb\"c"},
		{`'a\nb'`, "rawString", `a\nb`},
		{"`x = ${ `inner` + y }`", "template", "x = ${ `inner` + y }"},
		{"`a${ '}' }b`", "template", "a${ '}' }b"},
		{"`${ \"`}\" }`", "template", "${ \"`}\" }"},
		{"1.5e3", "number", "1.5e3"},
		{"__hidden", "name", "__hidden"},
	}
	for _, tc := range cases {
		lit, ok := mustParse(t, tc.src).(*ast.Literal)
		if !ok {
			t.Fatalf("parse %q: expected literal", tc.src)
		}
		if lit.Handler != tc.handler || lit.Text != tc.text {
			t.Fatalf("parse %q: expected %s %q, got %s %q", tc.src, tc.handler, tc.text, lit.Handler, lit.Text)
		}
	}
}

func TestParseErrors(t *testing.T) {
	cases := []struct {
		src        string
		incomplete bool
	}{
		{"(1 + 2", true},
		{"[1, 2", true},
		{`"abc`, true},
		{"`abc ${x", true},
		{"`abc ${ '}", true},
		{"1)", false},
		{"(1]", false},
		{"1 $ 2", false},
	}
	for _, tc := range cases {
		_, err := Parse(tc.src)
		var syntaxErr *SyntaxError
		if !errors.As(err, &syntaxErr) {
			t.Fatalf("parse %q: expected SyntaxError, got %#v", tc.src, err)
		}
		if syntaxErr.Incomplete != tc.incomplete {
			t.Fatalf("parse %q: expected incomplete=%v, got %v", tc.src, tc.incomplete, syntaxErr.Incomplete)
		}
	}
}

func TestSyntaxErrorPosition(t *testing.T) {
	_, err := Parse("1 +\n  $")
	var syntaxErr *SyntaxError
	if !errors.As(err, &syntaxErr) {
		t.Fatalf("expected SyntaxError, got %#v", err)
	}
	if syntaxErr.Line != 2 || syntaxErr.Column != 3 {
		t.Fatalf("expected 2:3, got %d:%d", syntaxErr.Line, syntaxErr.Column)
	}
}

func TestCustomGrammar(t *testing.T) {
	g := DefaultGrammar()
	g.Operators = append(g.Operators, Operator{Symbol: "++", Handler: "concat", Precedence: 80})
	node, err := New(g).Parse("a ++ b + c")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := `(sum (concat (name "a") (name "b")) (name "c"))`
	if got := ast.Format(node); got != want {
		t.Fatalf("expected %s, got %s", want, got)
	}
}

func TestInterpolationEnd(t *testing.T) {
	cases := map[string]int{
		"a}":        1,
		"{a}}":      3,
		"'}'}":      3,
		`"\"}"}`:    5,
		"`${'}'}`}": 8,
		"`}`}":      3,
		"'}":        -1,
		`"}`:        -1,
		"{}":        -1,
	}
	for body, want := range cases {
		if got := InterpolationEnd(body, 0); got != want {
			t.Fatalf("InterpolationEnd(%q): expected %d, got %d", body, want, got)
		}
	}
}
