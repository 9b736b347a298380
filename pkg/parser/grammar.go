package parser

// Operator describes one binary operator token.
type Operator struct {
	Symbol           string
	Handler          string
	Precedence       int
	RightAssociative bool
}

// Grammar is the table the parser is driven by. Operators with a higher
// precedence bind tighter. The string fields name the handlers emitted for
// literals, groups and juxtaposition.
type Grammar struct {
	Operators []Operator

	// Separator is the operator symbol that splits group bodies into items.
	Separator string

	Apply           string
	ApplyPrecedence int

	Void           string
	Name           string
	Number         string
	TemplateString string
	RawString      string
	PlainString    string
	List           string
	Namespace      string
}

// DefaultGrammar returns the operator table of the swan language.
func DefaultGrammar() Grammar {
	return Grammar{
		Operators: []Operator{
			{Symbol: ",", Handler: "pair", Precedence: 10},

			{Symbol: "<<", Handler: "compose", Precedence: 20},
			{Symbol: ">>", Handler: "pipe", Precedence: 20},

			{Symbol: ":", Handler: "label", Precedence: 30},
			{Symbol: "=", Handler: "assign", Precedence: 30},
			{Symbol: "->", Handler: "define", Precedence: 30, RightAssociative: true},

			{Symbol: ";", Handler: "else", Precedence: 40},
			{Symbol: "?", Handler: "if", Precedence: 50},

			{Symbol: "|", Handler: "or", Precedence: 60},
			{Symbol: "&", Handler: "and", Precedence: 60},

			{Symbol: "==", Handler: "eq", Precedence: 70},
			{Symbol: "!=", Handler: "ne", Precedence: 70},
			{Symbol: "<", Handler: "lt", Precedence: 70},
			{Symbol: "<=", Handler: "le", Precedence: 70},
			{Symbol: ">", Handler: "gt", Precedence: 70},
			{Symbol: ">=", Handler: "ge", Precedence: 70},

			{Symbol: "+", Handler: "sum", Precedence: 80},
			{Symbol: "-", Handler: "sub", Precedence: 80},

			{Symbol: "*", Handler: "mul", Precedence: 90},
			{Symbol: "/", Handler: "div", Precedence: 90},
			{Symbol: "%", Handler: "mod", Precedence: 90},

			{Symbol: "^", Handler: "pow", Precedence: 100},

			{Symbol: ".", Handler: "subcontext", Precedence: 110},
		},
		Separator:       ",",
		Apply:           "apply",
		ApplyPrecedence: 110,
		Void:            "void",
		Name:            "name",
		Number:          "number",
		TemplateString:  "template",
		RawString:       "rawString",
		PlainString:     "string",
		List:            "list",
		Namespace:       "namespace",
	}
}
