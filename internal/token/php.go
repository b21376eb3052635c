package token

import (
	"strconv"
	"strings"
	"sync"

	"github.com/alecthomas/chroma/v2"
)

var phpFunctionNames = []string{"t", "pt", "pts", "tex", "ptex", "ptexs"}

var phpExplanationFunctionNames = []string{"tex", "ptex", "ptexs"}

var (
	phpInlineOnce  sync.Once
	phpInlineLexer chroma.Lexer
)

// phpInline returns a lexer that treats everything outside <?php ... ?> as
// inline HTML (emitted as chroma.Other) and lexes the tag contents as PHP.
func phpInline() chroma.Lexer {
	phpInlineOnce.Do(func() {
		base := registeredLexer("php").(*chroma.RegexLexer)
		phpInlineLexer = chroma.MustNewLexer(
			&chroma.Config{
				Name:            "PHP inline",
				DotAll:          true,
				CaseInsensitive: true,
				EnsureNL:        true,
			},
			func() chroma.Rules {
				return base.MustRules().
					Rename("root", "php").
					Merge(chroma.Rules{
						"root": {
							{Pattern: `<\?(php|=)?`, Type: chroma.CommentPreproc, Mutator: chroma.Push("php")},
							{Pattern: `[^<]+`, Type: chroma.Other},
							{Pattern: `<`, Type: chroma.Other},
						},
					})
			},
		)
	})
	return phpInlineLexer
}

// PHP is the server-side language.
type PHP struct {
	code   *lexerAdapter
	inline *lexerAdapter
}

// NewPHP creates the PHP tokenizer and classifier.
func NewPHP() *PHP {
	return &PHP{
		code:   newLexerAdapter(registeredLexer("php"), phpStringPart),
		inline: newLexerAdapter(phpInline(), phpStringPart),
	}
}

func phpStringPart(tt chroma.TokenType) bool {
	return tt == chroma.LiteralStringDouble ||
		tt == chroma.LiteralStringEscape ||
		tt == chroma.LiteralStringInterpol
}

func (p *PHP) ID() string { return LanguagePHP }

func (p *PHP) Extensions() []string { return []string{"php"} }

// Tokenize lexes src. Sources holding an open tag are treated as files with
// inline HTML around the code, anything else as a bare code snippet.
func (p *PHP) Tokenize(src string) ([]Token, error) {
	adapter := p.code
	if strings.Contains(src, "<?") {
		adapter = p.inline
	}
	tokens, err := adapter.tokenize(src)
	if err != nil {
		return nil, err
	}
	return phpMemberNames(tokens), nil
}

// phpMemberNames retags method and static names ($this->t, Foo::t) as plain
// names, the kind chroma gives to function names.
func phpMemberNames(tokens []Token) []Token {
	for i := 1; i < len(tokens); i++ {
		prev := tokens[i-1]
		if tokens[i].Kind != chroma.NameAttribute.String() || prev.Kind != chroma.Operator.String() {
			continue
		}
		if strings.HasSuffix(prev.Value, "->") || strings.HasSuffix(prev.Value, "::") {
			tokens[i].Kind = chroma.NameOther.String()
		}
	}
	return tokens
}

func (p *PHP) IsOpeningFuncParams(t Token) bool { return isPunct(t, "(") }

func (p *PHP) IsClosingFuncParams(t Token) bool { return isPunct(t, ")") }

func (p *PHP) IsArgumentSeparator(t Token) bool { return isPunct(t, ",") }

func (p *PHP) IsEncapsedString(t Token) bool {
	switch t.Kind {
	case chroma.LiteralStringSingle.String(), chroma.LiteralStringDouble.String():
		return true
	}
	return false
}

func (p *PHP) IsVariableOrFunction(t Token) bool {
	switch t.Kind {
	case chroma.NameVariable.String(), chroma.LiteralStringInterpol.String():
		return true
	case chroma.Keyword.String():
		return strings.EqualFold(t.Value, "function")
	}
	return false
}

func (p *PHP) IsTranslationFunction(t Token) bool {
	return t.Kind == chroma.NameOther.String() && containsName(phpFunctionNames, phpName(t.Value))
}

func (p *PHP) IsExplanationFunction(t Token) bool {
	return t.Kind == chroma.NameOther.String() && containsName(phpExplanationFunctionNames, phpName(t.Value))
}

func (p *PHP) FunctionNames() []string { return copyNames(phpFunctionNames) }

// StringValue unquotes a single or double quoted PHP literal.
func (p *PHP) StringValue(t Token) string {
	if strings.HasPrefix(t.Value, "'") {
		return unescapePHPSingle(stripQuotes(t.Value))
	}
	return unescapePHPDouble(stripQuotes(t.Value))
}

// phpName drops a leading namespace separator from a function name.
func phpName(name string) string {
	return strings.TrimPrefix(name, `\`)
}

func unescapePHPSingle(s string) string {
	if !strings.Contains(s, `\`) {
		return s
	}
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		if s[i] == '\\' && i+1 < len(s) && (s[i+1] == '\'' || s[i+1] == '\\') {
			i++
		}
		b.WriteByte(s[i])
	}
	return b.String()
}

func unescapePHPDouble(s string) string {
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
		case 'v':
			b.WriteByte('\v')
		case 'f':
			b.WriteByte('\f')
		case 'e':
			b.WriteByte(0x1b)
		case '\\', '$', '"':
			b.WriteByte(next)
		case 'x':
			if n, width := hexPrefix(s[i+2:], 2); width > 0 {
				b.WriteByte(byte(n))
				i += 1 + width
				continue
			}
			b.WriteString(`\x`)
		case 'u':
			if r, width := phpUnicodeEscape(s[i+2:]); width > 0 {
				b.WriteRune(r)
				i += 1 + width
				continue
			}
			b.WriteString(`\u`)
		default:
			if next >= '0' && next <= '7' {
				n, width := octalPrefix(s[i+1:], 3)
				b.WriteByte(byte(n))
				i += width
				continue
			}
			// Unknown escapes are kept verbatim.
			b.WriteByte('\\')
			b.WriteByte(next)
		}
		i++
	}
	return b.String()
}

// phpUnicodeEscape decodes the "{1F600}" part of a \u{1F600} escape.
func phpUnicodeEscape(s string) (rune, int) {
	if !strings.HasPrefix(s, "{") {
		return 0, 0
	}
	end := strings.IndexByte(s, '}')
	if end < 2 {
		return 0, 0
	}
	n, err := strconv.ParseUint(s[1:end], 16, 32)
	if err != nil {
		return 0, 0
	}
	return rune(n), end + 1
}

func hexPrefix(s string, limit int) (int, int) {
	n, width := 0, 0
	for width < limit && width < len(s) {
		d := hexDigit(s[width])
		if d < 0 {
			break
		}
		n = n*16 + d
		width++
	}
	return n, width
}

func octalPrefix(s string, limit int) (int, int) {
	n, width := 0, 0
	for width < limit && width < len(s) && s[width] >= '0' && s[width] <= '7' {
		n = n*8 + int(s[width]-'0')
		width++
	}
	return n, width
}

func hexDigit(c byte) int {
	switch {
	case c >= '0' && c <= '9':
		return int(c - '0')
	case c >= 'a' && c <= 'f':
		return int(c-'a') + 10
	case c >= 'A' && c <= 'F':
		return int(c-'A') + 10
	}
	return -1
}
