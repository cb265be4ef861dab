package token

// Type identifies the category of a token.
type Type string

// Token carries the lexical item along with its source position.
// Literal is the exact source span of the token; for Error tokens it spans
// the offending text and Message holds the diagnostic.
type Token struct {
	Type    Type
	Literal string
	Message string
	Pos     Position
}

// Position describes a byte offset and 1-based line/column.
type Position struct {
	Offset int
	Line   int
	Column int
}

// End returns the byte offset just past the token's span.
func (t Token) End() int {
	return t.Pos.Offset + len(t.Literal)
}

const (
	Error Type = "ERROR"
	EOF   Type = "EOF"

	// identifiers and literals
	Ident  Type = "IDENT"
	Number Type = "NUMBER"
	String Type = "STRING"

	// keywords
	And    Type = "AND"
	Class  Type = "CLASS"
	Else   Type = "ELSE"
	False  Type = "FALSE"
	For    Type = "FOR"
	Fun    Type = "FUN"
	If     Type = "IF"
	Nil    Type = "NIL"
	Or     Type = "OR"
	Print  Type = "PRINT"
	Return Type = "RETURN"
	Super  Type = "SUPER"
	This   Type = "THIS"
	True   Type = "TRUE"
	Var    Type = "VAR"
	While  Type = "WHILE"

	// operators
	Assign       Type = "ASSIGN"       // =
	Plus         Type = "PLUS"         // +
	Minus        Type = "MINUS"        // -
	Star         Type = "STAR"         // *
	Slash        Type = "SLASH"        // /
	Bang         Type = "BANG"         // !
	Equal        Type = "EQUAL"        // ==
	NotEqual     Type = "NOTEQUAL"     // !=
	Less         Type = "LESS"         // <
	LessEqual    Type = "LESSEQUAL"    // <=
	Greater      Type = "GREATER"      // >
	GreaterEqual Type = "GREATEREQUAL" // >=

	// delimiters
	Comma     Type = "COMMA"
	Dot       Type = "DOT"
	Semicolon Type = "SEMICOLON"
	LParen    Type = "LPAREN"
	RParen    Type = "RPAREN"
	LBrace    Type = "LBRACE"
	RBrace    Type = "RBRACE"
)

// LookupIdent returns the keyword token type or Ident.
// Keywords are matched by dispatching on the first letter (and the second
// where several keywords share one) and comparing the remaining bytes.
func LookupIdent(ident string) Type {
	if len(ident) == 0 {
		return Ident
	}
	switch ident[0] {
	case 'a':
		return checkKeyword(ident, 1, "nd", And)
	case 'c':
		return checkKeyword(ident, 1, "lass", Class)
	case 'e':
		return checkKeyword(ident, 1, "lse", Else)
	case 'f':
		if len(ident) > 1 {
			switch ident[1] {
			case 'a':
				return checkKeyword(ident, 2, "lse", False)
			case 'o':
				return checkKeyword(ident, 2, "r", For)
			case 'u':
				return checkKeyword(ident, 2, "n", Fun)
			}
		}
	case 'i':
		return checkKeyword(ident, 1, "f", If)
	case 'n':
		return checkKeyword(ident, 1, "il", Nil)
	case 'o':
		return checkKeyword(ident, 1, "r", Or)
	case 'p':
		return checkKeyword(ident, 1, "rint", Print)
	case 'r':
		return checkKeyword(ident, 1, "eturn", Return)
	case 's':
		return checkKeyword(ident, 1, "uper", Super)
	case 't':
		if len(ident) > 1 {
			switch ident[1] {
			case 'h':
				return checkKeyword(ident, 2, "is", This)
			case 'r':
				return checkKeyword(ident, 2, "ue", True)
			}
		}
	case 'v':
		return checkKeyword(ident, 1, "ar", Var)
	case 'w':
		return checkKeyword(ident, 1, "hile", While)
	}
	return Ident
}

func checkKeyword(ident string, start int, rest string, t Type) Type {
	if len(ident) == start+len(rest) && ident[start:] == rest {
		return t
	}
	return Ident
}

// IsStatementStart reports whether t begins a statement or declaration.
// The compiler resynchronises on these after a syntax error.
func IsStatementStart(t Type) bool {
	switch t {
	case Class, Fun, Var, For, If, While, Print, Return:
		return true
	default:
		return false
	}
}
