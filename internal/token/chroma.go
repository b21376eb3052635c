package token

import (
	"fmt"
	"strings"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/lexers"
)

// lexerAdapter wraps a chroma lexer and normalizes its output into Tokens.
//
// Whitespace and comments are dropped. Punctuation chroma emits in bulk ("));")
// is split into one token per character. Consecutive pieces of a string that
// chroma lexes in several parts (escapes, interpolation) are joined into a
// single token; when interpolation was part of it the token kind becomes
// LiteralStringInterpol.
type lexerAdapter struct {
	lexer chroma.Lexer
	// stringPart reports whether a chroma token type belongs to a multi-part string.
	stringPart func(chroma.TokenType) bool
}

func newLexerAdapter(lexer chroma.Lexer, stringPart func(chroma.TokenType) bool) *lexerAdapter {
	return &lexerAdapter{
		lexer:      chroma.Coalesce(lexer),
		stringPart: stringPart,
	}
}

// registeredLexer looks up a lexer of the chroma registry by name or alias.
func registeredLexer(name string) chroma.Lexer {
	lexer := lexers.Get(name)
	if lexer == nil {
		panic(fmt.Sprintf("token: no chroma lexer registered for %q", name))
	}
	return lexer
}

func (a *lexerAdapter) tokenize(src string) (tokens []Token, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("tokenize: %v", r)
		}
	}()

	it, err := a.lexer.Tokenise(&chroma.TokeniseOptions{State: "root", EnsureLF: true}, src)
	if err != nil {
		return nil, fmt.Errorf("tokenize: %w", err)
	}

	line := 1
	var (
		part       strings.Builder
		partLine   int
		partActive bool
		partInterp bool
		partKind   chroma.TokenType
	)

	flush := func() {
		if !partActive {
			return
		}
		kind := partKind.String()
		if partInterp {
			kind = chroma.LiteralStringInterpol.String()
		}
		tokens = append(tokens, Token{Kind: kind, Value: part.String(), Line: partLine})
		part.Reset()
		partActive = false
		partInterp = false
	}

	for t := it(); t != chroma.EOF; t = it() {
		if a.stringPart(t.Type) {
			if !partActive {
				partActive = true
				partLine = line
				partKind = t.Type
			}
			if t.Type == chroma.LiteralStringInterpol {
				partInterp = true
			}
			part.WriteString(t.Value)
			line += strings.Count(t.Value, "\n")
			continue
		}
		flush()

		switch {
		case skipped(t.Type):
		case t.Type == chroma.Punctuation:
			for _, r := range t.Value {
				p := string(r)
				tokens = append(tokens, Token{Kind: p, Value: p, Line: line})
			}
		default:
			tokens = append(tokens, Token{Kind: t.Type.String(), Value: t.Value, Line: line})
		}
		line += strings.Count(t.Value, "\n")
	}
	flush()

	return tokens, nil
}

// skipped reports token types carrying no meaning for the walker. Other marks
// text outside of code regions (inline HTML around PHP tags).
func skipped(tt chroma.TokenType) bool {
	return tt == chroma.Other ||
		tt.InCategory(chroma.Text) ||
		tt.InCategory(chroma.Comment) ||
		tt == chroma.LiteralStringDoc
}
