// Package token turns source code into a uniform token stream and classifies
// single tokens for the translation-function walker.
package token

import "strings"

// Language identifiers, also used as the languageType of extracted strings.
const (
	LanguagePHP        = "PHP"
	LanguageJavaScript = "JavaScript"
)

// Token is one entry of a tokenized source unit.
type Token struct {
	// Kind is the language-specific tag. Punctuation uses the character itself.
	Kind string
	// Value is the raw source text of the token.
	Value string
	// Line is the 1-based line the token starts on.
	Line int
}

// Tokenizer produces the token stream of a whole source unit.
type Tokenizer interface {
	Tokenize(src string) ([]Token, error)
}

// Classifier answers questions about a single token.
type Classifier interface {
	IsOpeningFuncParams(t Token) bool
	IsClosingFuncParams(t Token) bool
	IsArgumentSeparator(t Token) bool
	IsEncapsedString(t Token) bool
	IsVariableOrFunction(t Token) bool
	IsTranslationFunction(t Token) bool
	// IsExplanationFunction is asked about the token that started the call.
	IsExplanationFunction(t Token) bool
	// StringValue returns the literal content of an encapsed string token.
	StringValue(t Token) string
	// FunctionNames lists the recognized translation functions.
	FunctionNames() []string
}

// Language bundles the tokenizer and classifier of one source language.
type Language interface {
	Tokenizer
	Classifier
	ID() string
	// Extensions lists file extensions without the leading dot.
	Extensions() []string
}

// Languages returns every supported language, in a fixed order.
func Languages() []Language {
	return []Language{NewPHP(), NewJavaScript()}
}

func isPunct(t Token, p string) bool {
	return t.Kind == p
}

func containsName(names []string, name string) bool {
	for _, n := range names {
		if n == name {
			return true
		}
	}
	return false
}

func copyNames(names []string) []string {
	out := make([]string, len(names))
	copy(out, names)
	return out
}

// stripQuotes removes one pair of matching surrounding quote characters.
func stripQuotes(s string) string {
	if len(s) < 2 {
		return s
	}
	first, last := s[0], s[len(s)-1]
	if first == last && strings.IndexByte("'\"`", first) >= 0 {
		return s[1 : len(s)-1]
	}
	return s
}
