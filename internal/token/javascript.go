package token

import (
	"strings"
	"unicode/utf8"

	"github.com/alecthomas/chroma/v2"
)

var jsFunctionNames = []string{"t"}

// JavaScript is the client-side language. It has no explanation functions.
type JavaScript struct {
	lexer *lexerAdapter
}

// NewJavaScript creates the JavaScript tokenizer and classifier.
func NewJavaScript() *JavaScript {
	return &JavaScript{
		lexer: newLexerAdapter(registeredLexer("javascript"), jsStringPart),
	}
}

func jsStringPart(tt chroma.TokenType) bool {
	return tt == chroma.LiteralStringBacktick || tt == chroma.LiteralStringInterpol
}

func (j *JavaScript) ID() string { return LanguageJavaScript }

func (j *JavaScript) Extensions() []string { return []string{"js"} }

// Tokenize lexes src. The identifier of a function declaration is retagged as
// NameFunction so that declaring t() is not mistaken for calling it.
func (j *JavaScript) Tokenize(src string) ([]Token, error) {
	tokens, err := j.lexer.tokenize(src)
	if err != nil {
		return nil, err
	}
	for i := 1; i < len(tokens); i++ {
		prev := tokens[i-1]
		if prev.Kind == chroma.KeywordDeclaration.String() && prev.Value == "function" &&
			tokens[i].Kind == chroma.NameOther.String() {
			tokens[i].Kind = chroma.NameFunction.String()
		}
	}
	return tokens, nil
}

func (j *JavaScript) IsOpeningFuncParams(t Token) bool { return isPunct(t, "(") }

func (j *JavaScript) IsClosingFuncParams(t Token) bool { return isPunct(t, ")") }

func (j *JavaScript) IsArgumentSeparator(t Token) bool { return isPunct(t, ",") }

func (j *JavaScript) IsEncapsedString(t Token) bool {
	switch t.Kind {
	case chroma.LiteralStringSingle.String(),
		chroma.LiteralStringDouble.String(),
		chroma.LiteralStringBacktick.String():
		return true
	}
	return false
}

func (j *JavaScript) IsVariableOrFunction(t Token) bool {
	switch t.Kind {
	case chroma.NameOther.String(), chroma.NameBuiltin.String(), chroma.LiteralStringInterpol.String():
		return true
	case chroma.KeywordDeclaration.String():
		return t.Value == "function"
	case chroma.Keyword.String():
		return t.Value == "this"
	}
	return false
}

func (j *JavaScript) IsTranslationFunction(t Token) bool {
	return t.Kind == chroma.NameOther.String() && containsName(jsFunctionNames, t.Value)
}

func (j *JavaScript) IsExplanationFunction(Token) bool { return false }

func (j *JavaScript) FunctionNames() []string { return copyNames(jsFunctionNames) }

// StringValue unquotes a quoted or template JavaScript literal.
func (j *JavaScript) StringValue(t Token) string {
	return unescapeJS(stripQuotes(t.Value))
}

func unescapeJS(s string) string {
	if !strings.Contains(s, `\`) {
		return s
	}
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c != '\\' || i+1 >= len(s) {
			b.WriteByte(c)
			continue
		}
		next := s[i+1]
		switch next {
		case 'n':
			b.WriteByte('\n')
		case 't':
			b.WriteByte('\t')
		case 'r':
			b.WriteByte('\r')
		case 'b':
			b.WriteByte('\b')
		case 'f':
			b.WriteByte('\f')
		case 'v':
			b.WriteByte('\v')
		case '0':
			b.WriteByte(0)
		case '\n':
			// line continuation
		case 'x':
			if n, width := hexPrefix(s[i+2:], 2); width == 2 {
				b.WriteRune(rune(n))
				i += 3
				continue
			}
			b.WriteByte('x')
		case 'u':
			if r, width := jsUnicodeEscape(s[i+2:]); width > 0 {
				b.WriteRune(r)
				i += 1 + width
				continue
			}
			b.WriteByte('u')
		default:
			// \' \" \\ \` and any other escaped character stand for themselves.
			r, size := utf8.DecodeRuneInString(s[i+1:])
			b.WriteRune(r)
			i += size
			continue
		}
		i++
	}
	return b.String()
}

// jsUnicodeEscape decodes the part after \u: either four hex digits or {hex}.
func jsUnicodeEscape(s string) (rune, int) {
	if strings.HasPrefix(s, "{") {
		end := strings.IndexByte(s, '}')
		if end < 2 {
			return 0, 0
		}
		n, width := hexPrefix(s[1:end], 6)
		if width != end-1 {
			return 0, 0
		}
		return rune(n), end + 1
	}
	n, width := hexPrefix(s, 4)
	if width != 4 {
		return 0, 0
	}
	return rune(n), 4
}
