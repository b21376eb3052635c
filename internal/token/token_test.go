package token

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func kinds(tokens []Token) []string {
	out := make([]string, len(tokens))
	for i, t := range tokens {
		out[i] = t.Kind
	}
	return out
}

func TestPHPTokenizeSplitsPunctuation(t *testing.T) {
	php := NewPHP()

	tokens, err := php.Tokenize(`t('Hello');`)
	require.NoError(t, err)

	assert.Equal(t, []Token{
		{Kind: "NameOther", Value: "t", Line: 1},
		{Kind: "(", Value: "(", Line: 1},
		{Kind: "LiteralStringSingle", Value: "'Hello'", Line: 1},
		{Kind: ")", Value: ")", Line: 1},
		{Kind: ";", Value: ";", Line: 1},
	}, tokens)
}

func TestPHPTokenizeTracksLines(t *testing.T) {
	php := NewPHP()

	src := "<?php\n\n// a comment\nt(\"Hi\");\n"
	tokens, err := php.Tokenize(src)
	require.NoError(t, err)
	require.NotEmpty(t, tokens)

	assert.Equal(t, "t", tokens[0].Value)
	assert.Equal(t, 4, tokens[0].Line)
	for _, tok := range tokens {
		assert.Equal(t, 4, tok.Line, tok.Value)
	}
}

func TestPHPTokenizeSkipsInlineHTML(t *testing.T) {
	php := NewPHP()

	src := "<p>t('html')</p>\n<?php t('code'); ?>\n<div></div>"
	tokens, err := php.Tokenize(src)
	require.NoError(t, err)

	var strs []string
	for _, tok := range tokens {
		if php.IsEncapsedString(tok) {
			strs = append(strs, php.StringValue(tok))
			assert.Equal(t, 2, tok.Line)
		}
	}
	assert.Equal(t, []string{"code"}, strs)
}

func TestPHPInterpolatedStringIsVariable(t *testing.T) {
	php := NewPHP()

	tokens, err := php.Tokenize(`t("Hello $name");`)
	require.NoError(t, err)
	require.Greater(t, len(tokens), 2)

	assert.True(t, php.IsVariableOrFunction(tokens[2]))
	assert.False(t, php.IsEncapsedString(tokens[2]))
}

func TestPHPClassifier(t *testing.T) {
	php := NewPHP()

	tests := []struct {
		name  string
		token Token
		check func(Token) bool
		want  bool
	}{
		{"opening paren", Token{Kind: "("}, php.IsOpeningFuncParams, true},
		{"closing paren", Token{Kind: ")"}, php.IsClosingFuncParams, true},
		{"separator", Token{Kind: ","}, php.IsArgumentSeparator, true},
		{"paren is not separator", Token{Kind: "("}, php.IsArgumentSeparator, false},
		{"single quoted", Token{Kind: "LiteralStringSingle", Value: "'a'"}, php.IsEncapsedString, true},
		{"double quoted", Token{Kind: "LiteralStringDouble", Value: `"a"`}, php.IsEncapsedString, true},
		{"identifier is no string", Token{Kind: "NameOther", Value: "a"}, php.IsEncapsedString, false},
		{"variable", Token{Kind: "NameVariable", Value: "$a"}, php.IsVariableOrFunction, true},
		{"closure keyword", Token{Kind: "Keyword", Value: "function"}, php.IsVariableOrFunction, true},
		{"other keyword", Token{Kind: "Keyword", Value: "return"}, php.IsVariableOrFunction, false},
		{"t", Token{Kind: "NameOther", Value: "t"}, php.IsTranslationFunction, true},
		{"ptexs", Token{Kind: "NameOther", Value: "ptexs"}, php.IsTranslationFunction, true},
		{"namespaced", Token{Kind: "NameOther", Value: `\pt`}, php.IsTranslationFunction, true},
		{"unknown function", Token{Kind: "NameOther", Value: "strtoupper"}, php.IsTranslationFunction, false},
		{"declared function", Token{Kind: "NameFunction", Value: "t"}, php.IsTranslationFunction, false},
		{"tex explains", Token{Kind: "NameOther", Value: "tex"}, php.IsExplanationFunction, true},
		{"ptex explains", Token{Kind: "NameOther", Value: "ptex"}, php.IsExplanationFunction, true},
		{"t does not explain", Token{Kind: "NameOther", Value: "t"}, php.IsExplanationFunction, false},
		{"pts does not explain", Token{Kind: "NameOther", Value: "pts"}, php.IsExplanationFunction, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.check(tt.token))
		})
	}
}

func TestPHPMemberCallNames(t *testing.T) {
	php := NewPHP()

	for _, src := range []string{
		`<?php echo $this->t('Hello');`,
		`<?php echo $this -> t('Hello');`,
		`<?php echo Lang::t('Hello');`,
		`$this->t('Hello');`,
	} {
		t.Run(src, func(t *testing.T) {
			tokens, err := php.Tokenize(src)
			require.NoError(t, err)

			var names []Token
			for _, tok := range tokens {
				if tok.Value == "t" {
					names = append(names, tok)
				}
			}
			require.Len(t, names, 1)
			assert.Equal(t, "NameOther", names[0].Kind)
			assert.True(t, php.IsTranslationFunction(names[0]))
		})
	}
}

func TestPHPPropertyAfterOtherOperatorKeepsKind(t *testing.T) {
	tokens := phpMemberNames([]Token{
		{Kind: "Operator", Value: "+"},
		{Kind: "NameAttribute", Value: "t"},
	})
	assert.Equal(t, "NameAttribute", tokens[1].Kind)
}

func TestPHPStringValue(t *testing.T) {
	php := NewPHP()

	tests := map[string]string{
		`'plain'`:      "plain",
		`'It\'s'`:      "It's",
		`'a\\b'`:       `a\b`,
		`'no\nescape'`: `no\nescape`,
		`"tab\there"`:  "tab\there",
		`"say \"hi\""`: `say "hi"`,
		`"\x41\101"`:   "AA",
		`"\u{263A}"`:   "☺",
		`"keep \q"`:    `keep \q`,
		`"costs \$5"`:  "costs $5",
		`""`:           "",
	}
	for raw, want := range tests {
		kind := "LiteralStringDouble"
		if raw[0] == '\'' {
			kind = "LiteralStringSingle"
		}
		assert.Equal(t, want, php.StringValue(Token{Kind: kind, Value: raw}), raw)
	}
}

func TestPHPFunctionNamesAreCopied(t *testing.T) {
	php := NewPHP()

	names := php.FunctionNames()
	assert.Equal(t, []string{"t", "pt", "pts", "tex", "ptex", "ptexs"}, names)

	names[0] = "changed"
	assert.Equal(t, "t", php.FunctionNames()[0])
}

func TestJavaScriptTokenize(t *testing.T) {
	js := NewJavaScript()

	tokens, err := js.Tokenize("var a = 1;\nt('Hello ' + 'World');")
	require.NoError(t, err)

	var line2 []Token
	for _, tok := range tokens {
		if tok.Line == 2 {
			line2 = append(line2, tok)
		}
	}
	assert.Equal(t, []string{"NameOther", "(", "LiteralStringSingle", "Operator", "LiteralStringSingle", ")", ";"}, kinds(line2))
	assert.Equal(t, "Hello ", js.StringValue(line2[2]))
	assert.Equal(t, "World", js.StringValue(line2[4]))
}

func TestJavaScriptFunctionDeclarationIsNotACall(t *testing.T) {
	js := NewJavaScript()

	tokens, err := js.Tokenize("function t(text) { return text; }")
	require.NoError(t, err)
	require.Greater(t, len(tokens), 1)

	assert.Equal(t, "NameFunction", tokens[1].Kind)
	assert.False(t, js.IsTranslationFunction(tokens[1]))
}

func TestJavaScriptTemplateLiterals(t *testing.T) {
	js := NewJavaScript()

	tokens, err := js.Tokenize("t(`Plain`);")
	require.NoError(t, err)
	require.Greater(t, len(tokens), 2)
	assert.True(t, js.IsEncapsedString(tokens[2]))
	assert.Equal(t, "Plain", js.StringValue(tokens[2]))

	tokens, err = js.Tokenize("t(`Hi ${name}`);")
	require.NoError(t, err)
	require.Greater(t, len(tokens), 2)
	assert.True(t, js.IsVariableOrFunction(tokens[2]))
}

func TestJavaScriptClassifier(t *testing.T) {
	js := NewJavaScript()

	assert.True(t, js.IsTranslationFunction(Token{Kind: "NameOther", Value: "t"}))
	assert.False(t, js.IsTranslationFunction(Token{Kind: "NameOther", Value: "tex"}))
	assert.False(t, js.IsExplanationFunction(Token{Kind: "NameOther", Value: "t"}))
	assert.True(t, js.IsVariableOrFunction(Token{Kind: "NameOther", Value: "label"}))
	assert.True(t, js.IsVariableOrFunction(Token{Kind: "KeywordDeclaration", Value: "function"}))
	assert.False(t, js.IsVariableOrFunction(Token{Kind: "KeywordDeclaration", Value: "var"}))
	assert.True(t, js.IsEncapsedString(Token{Kind: "LiteralStringDouble", Value: `"x"`}))
	assert.Equal(t, []string{"t"}, js.FunctionNames())
}

func TestJavaScriptStringValue(t *testing.T) {
	js := NewJavaScript()

	tests := map[string]string{
		`'don\'t'`:       "don't",
		`"A\x42"`:        "AB",
		`"\u{1F600}"`:    "😀",
		`"line\nbreak"`:  "line\nbreak",
		`'back\\slash'`:  `back\slash`,
		"`tpl \\` tick`": "tpl ` tick",
	}
	for raw, want := range tests {
		assert.Equal(t, want, js.StringValue(Token{Kind: "LiteralStringDouble", Value: raw}), raw)
	}
}

func TestLanguagesRegistry(t *testing.T) {
	langs := Languages()
	require.Len(t, langs, 2)
	assert.Equal(t, LanguagePHP, langs[0].ID())
	assert.Equal(t, []string{"php"}, langs[0].Extensions())
	assert.Equal(t, LanguageJavaScript, langs[1].ID())
	assert.Equal(t, []string{"js"}, langs[1].Extensions())
}
