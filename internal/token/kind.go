package token

// Kind represents the category of a source token.
type Kind uint8

const (
	// Invalid indicates an erroneous token.
	Invalid Kind = iota
	// EOF marks the end of the source input.
	EOF

	// Ident represents an identifier token.
	Ident
	// KwUnion represents the 'union' keyword.
	KwUnion // union

	// IntLit represents an integer literal token.
	IntLit
	// StringLit represents a string literal token.
	StringLit

	// At represents '@'.
	At // @
	// Amp represents '&'.
	Amp // &
	// Dot represents '.'.
	Dot // .
	// Comma represents ','.
	Comma // ,
	// LParen represents '('.
	LParen // (
	// RParen represents ')'.
	RParen // )
	// LBrace represents '{'.
	LBrace // {
	// RBrace represents '}'.
	RBrace // }
	// LBracket represents '['.
	LBracket // [
	// RBracket represents ']'.
	RBracket // ]
)

var kindNames = map[Kind]string{
	Invalid:   "invalid",
	EOF:       "eof",
	Ident:     "ident",
	KwUnion:   "union",
	IntLit:    "int",
	StringLit: "string",
	At:        "@",
	Amp:       "&",
	Dot:       ".",
	Comma:     ",",
	LParen:    "(",
	RParen:    ")",
	LBrace:    "{",
	RBrace:    "}",
	LBracket:  "[",
	RBracket:  "]",
}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return "unknown"
}
