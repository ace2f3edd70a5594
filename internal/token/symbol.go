// Package token defines the terminal/non-terminal symbol enumeration and the
// Token record produced by the lexer and consumed by the grammar, table
// builder, and parser driver.
package token

// Symbol is a discriminated grammar symbol: exactly one terminal or
// non-terminal kind. Terminals and non-terminals are disjoint ranges of the
// same underlying int, so IsTerminal/IsNonTerminal never need a lookup.
type Symbol int

const (
	// Terminals.
	NUMBER Symbol = iota
	IDENTIFIER
	VARIABLE
	TRUE
	FALSE
	IF
	PLUS
	MINUS
	MULTIPLY
	DIVIDE
	MODULO
	POWER
	EQUAL
	NOT_EQUAL
	LESS
	LESS_EQUAL
	GREATER
	GREATER_EQUAL
	AND
	OR
	NOT
	LEFT_PAREN
	RIGHT_PAREN
	COMMA
	DOLLAR
	EPSILON

	firstNonTerminal // sentinel: marks the terminal/non-terminal boundary
)

const (
	// Non-terminals. START is the augmented start symbol (production -1's
	// left side); it is not one of the grammar's "real" non-terminals but
	// shares the same kind.
	START Symbol = firstNonTerminal + iota
	EXPR
	AND_EXPR
	COMP_EXPR
	ARITH_EXPR
	TERM
	FACTOR
	PRIMARY
	ARGS
)

// IsTerminal reports whether s is one of the terminal symbols.
func (s Symbol) IsTerminal() bool {
	return s < firstNonTerminal
}

// IsNonTerminal reports whether s is one of the non-terminal symbols.
func (s Symbol) IsNonTerminal() bool {
	return s >= firstNonTerminal
}

var symbolNames = map[Symbol]string{
	NUMBER:        "NUMBER",
	IDENTIFIER:    "IDENTIFIER",
	VARIABLE:      "VARIABLE",
	TRUE:          "TRUE",
	FALSE:         "FALSE",
	IF:            "IF",
	PLUS:          "PLUS",
	MINUS:         "MINUS",
	MULTIPLY:      "MULTIPLY",
	DIVIDE:        "DIVIDE",
	MODULO:        "MODULO",
	POWER:         "POWER",
	EQUAL:         "EQUAL",
	NOT_EQUAL:     "NOT_EQUAL",
	LESS:          "LESS",
	LESS_EQUAL:    "LESS_EQUAL",
	GREATER:       "GREATER",
	GREATER_EQUAL: "GREATER_EQUAL",
	AND:           "AND",
	OR:            "OR",
	NOT:           "NOT",
	LEFT_PAREN:    "LEFT_PAREN",
	RIGHT_PAREN:   "RIGHT_PAREN",
	COMMA:         "COMMA",
	DOLLAR:        "DOLLAR",
	EPSILON:       "EPSILON",
	START:         "START",
	EXPR:          "EXPR",
	AND_EXPR:      "AND_EXPR",
	COMP_EXPR:     "COMP_EXPR",
	ARITH_EXPR:    "ARITH_EXPR",
	TERM:          "TERM",
	FACTOR:        "FACTOR",
	PRIMARY:       "PRIMARY",
	ARGS:          "ARGS",
}

func (s Symbol) String() string {
	if name, ok := symbolNames[s]; ok {
		return name
	}
	return "SYMBOL<?>"
}
