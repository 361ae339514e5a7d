package token

// Kind represents the category of a source token.
type Kind uint8

const (
	// Invalid indicates an erroneous token.
	Invalid Kind = iota

	// KwAsm represents the 'asm' keyword.
	KwAsm // asm
	// KwAttribute represents the '__attribute__' keyword.
	KwAttribute // __attribute__
	// KwBreak represents the 'break' keyword.
	KwBreak // break
	// KwCase represents the 'case' keyword.
	KwCase // case
	// KwChar represents the 'char' type specifier.
	KwChar // char
	// KwConst represents the 'const' qualifier.
	KwConst // const
	// KwContinue represents the 'continue' keyword.
	KwContinue // continue
	// KwDefault represents the 'default' keyword.
	KwDefault // default
	// KwDo represents the 'do' keyword.
	KwDo // do
	// KwDouble represents the 'double' type specifier.
	KwDouble // double
	// KwElse represents the 'else' keyword.
	KwElse // else
	// KwEnum represents the 'enum' type specifier.
	KwEnum // enum
	// KwExtern represents the 'extern' storage class.
	KwExtern // extern
	// KwFloat represents the 'float' type specifier.
	KwFloat // float
	// KwFor represents the 'for' keyword.
	KwFor // for
	// KwGoto represents the 'goto' keyword.
	KwGoto // goto
	// KwIf represents the 'if' keyword.
	KwIf // if
	// KwInline represents the 'inline' storage class.
	KwInline // inline
	// KwInt represents the 'int' type specifier.
	KwInt // int
	// KwLong represents the 'long' type specifier.
	KwLong // long
	// KwRegister represents the 'register' storage class.
	KwRegister // register
	// KwRestrict represents the 'restrict' qualifier.
	KwRestrict // restrict
	// KwReturn represents the 'return' keyword.
	KwReturn // return
	// KwShort represents the 'short' type specifier.
	KwShort // short
	// KwSigned represents the 'signed' type specifier.
	KwSigned // signed
	// KwSizeof represents the 'sizeof' operator.
	KwSizeof // sizeof
	// KwStatic represents the 'static' storage class.
	KwStatic // static
	// KwStruct represents the 'struct' type specifier.
	KwStruct // struct
	// KwSwitch represents the 'switch' keyword.
	KwSwitch // switch
	// KwTypedef represents the 'typedef' keyword.
	KwTypedef // typedef
	// KwUnion represents the 'union' type specifier.
	KwUnion // union
	// KwUnsigned represents the 'unsigned' type specifier.
	KwUnsigned // unsigned
	// KwVoid represents the 'void' type specifier.
	KwVoid // void
	// KwVolatile represents the 'volatile' qualifier.
	KwVolatile // volatile
	// KwWhile represents the 'while' keyword.
	KwWhile // while

	LSquare             // [
	RSquare             // ]
	LParen              // (
	RParen              // )
	LBrace              // {
	RBrace              // }
	Period              // .
	Ellipsis            // ...
	Amp                 // &
	AmpAmp              // &&
	AmpEqual            // &=
	Star                // *
	StarEqual           // *=
	Plus                // +
	PlusPlus            // ++
	PlusEqual           // +=
	Minus               // -
	Arrow               // ->
	MinusMinus          // --
	MinusEqual          // -=
	Tilde               // ~
	Exclaim             // !
	ExclaimEqual        // !=
	Slash               // /
	SlashEqual          // /=
	Percent             // %
	PercentEqual        // %=
	Less                // <
	LessLess            // <<
	LessEqual           // <=
	LessLessEqual       // <<=
	Greater             // >
	GreaterGreater      // >>
	GreaterEqual        // >=
	GreaterGreaterEqual // >>=
	Caret               // ^
	CaretEqual          // ^=
	Pipe                // |
	PipePipe            // ||
	PipeEqual           // |=
	Question            // ?
	Colon               // :
	Semi                // ;
	Equal               // =
	EqualEqual          // ==
	Comma               // ,
	Backslash           // \

	// Comment is a line or block comment, only found among fixups.
	Comment
	// Cpp is a preprocessor directive that takes no part in branch linking.
	Cpp
	// CppElse is an #else or #elif directive.
	CppElse
	// CppEndif is an #endif directive.
	CppEndif
	// CppIf is an #if, #ifdef or #ifndef directive.
	CppIf
	// CppInclude is an #include directive.
	CppInclude
	// Ident represents an identifier token.
	Ident
	// Literal is a numeric or character literal.
	Literal
	// Space is whitespace kept as a fixup.
	Space
	// String is a string literal.
	String
	// EOF marks the end of the source input.
	EOF

	numKinds
)

var kindNames = [numKinds]string{
	Invalid:             "INVALID",
	KwAsm:               "ASSEMBLY",
	KwAttribute:         "ATTRIBUTE",
	KwBreak:             "BREAK",
	KwCase:              "CASE",
	KwChar:              "CHAR",
	KwConst:             "CONST",
	KwContinue:          "CONTINUE",
	KwDefault:           "DEFAULT",
	KwDo:                "DO",
	KwDouble:            "DOUBLE",
	KwElse:              "ELSE",
	KwEnum:              "ENUM",
	KwExtern:            "EXTERN",
	KwFloat:             "FLOAT",
	KwFor:               "FOR",
	KwGoto:              "GOTO",
	KwIf:                "IF",
	KwInline:            "INLINE",
	KwInt:               "INT",
	KwLong:              "LONG",
	KwRegister:          "REGISTER",
	KwRestrict:          "RESTRICT",
	KwReturn:            "RETURN",
	KwShort:             "SHORT",
	KwSigned:            "SIGNED",
	KwSizeof:            "SIZEOF",
	KwStatic:            "STATIC",
	KwStruct:            "STRUCT",
	KwSwitch:            "SWITCH",
	KwTypedef:           "TYPEDEF",
	KwUnion:             "UNION",
	KwUnsigned:          "UNSIGNED",
	KwVoid:              "VOID",
	KwVolatile:          "VOLATILE",
	KwWhile:             "WHILE",
	LSquare:             "LSQUARE",
	RSquare:             "RSQUARE",
	LParen:              "LPAREN",
	RParen:              "RPAREN",
	LBrace:              "LBRACE",
	RBrace:              "RBRACE",
	Period:              "PERIOD",
	Ellipsis:            "ELLIPSIS",
	Amp:                 "AMP",
	AmpAmp:              "AMPAMP",
	AmpEqual:            "AMPEQUAL",
	Star:                "STAR",
	StarEqual:           "STAREQUAL",
	Plus:                "PLUS",
	PlusPlus:            "PLUSPLUS",
	PlusEqual:           "PLUSEQUAL",
	Minus:               "MINUS",
	Arrow:               "ARROW",
	MinusMinus:          "MINUSMINUS",
	MinusEqual:          "MINUSEQUAL",
	Tilde:               "TILDE",
	Exclaim:             "EXCLAIM",
	ExclaimEqual:        "EXCLAIMEQUAL",
	Slash:               "SLASH",
	SlashEqual:          "SLASHEQUAL",
	Percent:             "PERCENT",
	PercentEqual:        "PERCENTEQUAL",
	Less:                "LESS",
	LessLess:            "LESSLESS",
	LessEqual:           "LESSEQUAL",
	LessLessEqual:       "LESSLESSEQUAL",
	Greater:             "GREATER",
	GreaterGreater:      "GREATERGREATER",
	GreaterEqual:        "GREATEREQUAL",
	GreaterGreaterEqual: "GREATERGREATEREQUAL",
	Caret:               "CARET",
	CaretEqual:          "CARETEQUAL",
	Pipe:                "PIPE",
	PipePipe:            "PIPEPIPE",
	PipeEqual:           "PIPEEQUAL",
	Question:            "QUESTION",
	Colon:               "COLON",
	Semi:                "SEMI",
	Equal:               "EQUAL",
	EqualEqual:          "EQUALEQUAL",
	Comma:               "COMMA",
	Backslash:           "BACKSLASH",
	Comment:             "COMMENT",
	Cpp:                 "CPP",
	CppElse:             "CPP_ELSE",
	CppEndif:            "CPP_ENDIF",
	CppIf:               "CPP_IF",
	CppInclude:          "CPP_INCLUDE",
	Ident:               "IDENT",
	Literal:             "LITERAL",
	Space:               "SPACE",
	String:              "STRING",
	EOF:                 "EOF",
}

// String returns the serialized name of the kind, e.g. "LESSEQUAL".
func (k Kind) String() string {
	if k < numKinds {
		return kindNames[k]
	}
	return "INVALID"
}

// IsKeyword reports whether k is a reserved word.
func (k Kind) IsKeyword() bool { return k >= KwAsm && k <= KwWhile }

// IsPunct reports whether k is an operator or punctuator.
func (k Kind) IsPunct() bool { return k >= LSquare && k <= Backslash }

// IsCpp reports whether k is one of the preprocessor directive kinds.
func (k Kind) IsCpp() bool { return k >= Cpp && k <= CppInclude }

// IsFixup reports whether k only appears as a prefix or suffix.
func (k Kind) IsFixup() bool { return k == Comment || k == Space || k.IsCpp() }

// KindByName resolves a serialized kind name back to its Kind.
func KindByName(name string) (Kind, bool) {
	for k := range numKinds {
		if kindNames[k] == name {
			return k, true
		}
	}
	return Invalid, false
}
