package parser

import (
	"swan/interpreter-go/pkg/ast"
)

// Parser turns source text into an operator tree according to a Grammar.
// A Parser is immutable and safe for concurrent use.
type Parser struct {
	grammar   Grammar
	operators map[string]Operator
}

func New(g Grammar) *Parser {
	ops := make(map[string]Operator, len(g.Operators))
	for _, op := range g.Operators {
		ops[op.Symbol] = op
	}
	return &Parser{grammar: g, operators: ops}
}

// Parse parses src with the default grammar.
func Parse(src string) (ast.Node, error) {
	return New(DefaultGrammar()).Parse(src)
}

// Grammar returns the table the parser was built from.
func (p *Parser) Grammar() Grammar {
	return p.grammar
}

// Parse parses a complete expression. Empty source parses to the void
// literal.
func (p *Parser) Parse(src string) (ast.Node, error) {
	toks, err := newLexer(src, &p.grammar).tokens()
	if err != nil {
		return nil, err
	}
	st := &state{Parser: p, src: src, toks: toks}
	node, err := st.expression(0)
	if err != nil {
		return nil, err
	}
	if tok := st.peek(); tok.kind != tokEOF {
		return nil, newSyntaxError(src, tok.offset, false, "unexpected %q", tok.text)
	}
	return node, nil
}

type state struct {
	*Parser
	src  string
	toks []token
	pos  int
}

func (s *state) peek() token {
	return s.toks[s.pos]
}

func (s *state) advance() token {
	tok := s.toks[s.pos]
	if tok.kind != tokEOF {
		s.pos++
	}
	return tok
}

func (s *state) separatorPrecedence() int {
	return s.operators[s.grammar.Separator].Precedence
}

// infix returns the operator the next token continues an expression with.
// Operands following an operand are juxtaposition.
func (s *state) infix(tok token) (Operator, bool, bool) {
	switch tok.kind {
	case tokOperator:
		op, ok := s.operators[tok.text]
		return op, ok, false
	case tokName, tokNumber, tokString, tokOpen:
		return Operator{Handler: s.grammar.Apply, Precedence: s.grammar.ApplyPrecedence}, true, true
	default:
		return Operator{}, false, false
	}
}

// expression parses operators binding tighter than limit. A
// right-associative operator at exactly limit is also absorbed.
func (s *state) expression(limit int) (ast.Node, error) {
	left, err := s.operand()
	if err != nil {
		return nil, err
	}
	for {
		tok := s.peek()
		op, ok, juxtaposed := s.infix(tok)
		if !ok {
			return left, nil
		}
		if op.Precedence < limit || (op.Precedence == limit && !op.RightAssociative) {
			return left, nil
		}
		if !juxtaposed {
			s.advance()
		}
		right, err := s.expression(op.Precedence)
		if err != nil {
			return nil, err
		}
		left = ast.NewBinary(op.Handler, op.Symbol, left, right, tok.offset)
	}
}

// operand parses a leaf or bracketed form. A missing operand is the void
// literal; an operator in operand position applies to a void left side.
func (s *state) operand() (ast.Node, error) {
	tok := s.peek()
	switch tok.kind {
	case tokName:
		s.advance()
		return ast.NewLiteral(s.grammar.Name, tok.text, tok.offset), nil
	case tokNumber:
		s.advance()
		return ast.NewLiteral(s.grammar.Number, tok.text, tok.offset), nil
	case tokString:
		s.advance()
		return ast.NewLiteral(tok.style, tok.text, tok.offset), nil
	case tokOpen:
		return s.bracketed()
	case tokOperator:
		op, ok := s.operators[tok.text]
		if ok && tok.text != s.grammar.Separator {
			s.advance()
			right, err := s.expression(op.Precedence)
			if err != nil {
				return nil, err
			}
			void := ast.NewLiteral(s.grammar.Void, "", tok.offset)
			return ast.NewBinary(op.Handler, op.Symbol, void, right, tok.offset), nil
		}
	}
	return ast.NewLiteral(s.grammar.Void, "", tok.offset), nil
}

func (s *state) bracketed() (ast.Node, error) {
	open := s.advance()
	closer := closers[open.text]
	if open.text == "(" {
		inner, err := s.expression(0)
		if err != nil {
			return nil, err
		}
		if err := s.expect(closer, open); err != nil {
			return nil, err
		}
		return inner, nil
	}

	handler := s.grammar.List
	if open.text == "{" {
		handler = s.grammar.Namespace
	}
	var items []ast.Node
	if tok := s.peek(); tok.kind == tokClose && tok.text == closer {
		s.advance()
		return ast.NewGroup(handler, items, open.offset), nil
	}
	for {
		item, err := s.expression(s.separatorPrecedence() + 1)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
		tok := s.peek()
		if tok.kind == tokOperator && tok.text == s.grammar.Separator {
			s.advance()
			if next := s.peek(); next.kind == tokClose && next.text == closer {
				break
			}
			continue
		}
		break
	}
	if err := s.expect(closer, open); err != nil {
		return nil, err
	}
	return ast.NewGroup(handler, items, open.offset), nil
}

func (s *state) expect(closer string, open token) error {
	tok := s.peek()
	if tok.kind == tokClose && tok.text == closer {
		s.advance()
		return nil
	}
	if tok.kind == tokEOF {
		return newSyntaxError(s.src, open.offset, true, "unclosed %q", open.text)
	}
	return newSyntaxError(s.src, tok.offset, false, "expected %q, got %q", closer, tok.text)
}
