package parser

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"l10n-scanner/internal/textutil"
	"l10n-scanner/internal/token"

	"github.com/rs/zerolog/log"
	"github.com/spf13/afero"
)

// Window is the number of tokens looked at after a translation function name
// before the call is given up.
const Window = 200

// MsgUnsupportedArgument is the warning recorded for dynamic arguments.
const MsgUnsupportedArgument = "variables or functions are not supported in translation functions"

// Walker finds translation function calls in the token stream of one language.
type Walker struct {
	fs   afero.Fs
	lang token.Language
}

// NewWalker creates a Walker reading files from fs.
func NewWalker(fs afero.Fs, lang token.Language) *Walker {
	return &Walker{fs: fs, lang: lang}
}

// Language returns the language the walker handles.
func (w *Walker) Language() token.Language { return w.lang }

// ParseFile reads and walks a file. Warnings are attributed to path.
func (w *Walker) ParseFile(path string) (*ParseResult, error) {
	data, err := afero.ReadFile(w.fs, path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrFileNotFound, path)
		}
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	result, err := w.walk(string(data), path)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	log.Debug().
		Str("file", path).
		Str("language", w.lang.ID()).
		Int("texts", len(result.Texts)).
		Int("warnings", len(result.Warnings)).
		Msg("Parsed file")
	return result, nil
}

// ParseString walks code held in memory.
func (w *Walker) ParseString(code string) (*ParseResult, error) {
	return w.walk(code, "")
}

func (w *Walker) walk(src, path string) (*ParseResult, error) {
	tokens, err := w.lang.Tokenize(src)
	if err != nil {
		return nil, err
	}

	result := &ParseResult{
		FilePath:   path,
		LanguageID: w.lang.ID(),
	}

	for i, tok := range tokens {
		if !w.lang.IsTranslationFunction(tok) {
			continue
		}
		text, warning := w.call(tokens, i)
		if warning != nil {
			warning.File = path
			result.Warnings = append(result.Warnings, *warning)
		}
		if text != nil {
			result.Texts = append(result.Texts, *text)
		}
	}

	return result, nil
}

// call extracts the first argument of the call whose name is tokens[at].
// A nil text means nothing was extracted.
func (w *Walker) call(tokens []token.Token, at int) (*Text, *Warning) {
	fn := tokens[at]
	if at+1 >= len(tokens) || !w.lang.IsOpeningFuncParams(tokens[at+1]) {
		return nil, nil
	}

	var fragments []string
	end := min(at+1+Window, len(tokens))
	for i := at + 2; i < end; i++ {
		tok := tokens[i]
		switch {
		case w.lang.IsClosingFuncParams(tok):
			return newText(fragments, fn.Line, ""), nil

		case w.lang.IsArgumentSeparator(tok):
			if !w.lang.IsExplanationFunction(fn) {
				return newText(fragments, fn.Line, ""), nil
			}
			explanation, warning := w.explanation(tokens, i+1)
			return newText(fragments, fn.Line, explanation), warning

		case w.lang.IsVariableOrFunction(tok):
			return nil, w.warning(tok.Line)

		case w.lang.IsEncapsedString(tok):
			fragments = append(fragments, w.lang.StringValue(tok))
		}
	}

	// Window exhausted without the call closing.
	return nil, nil
}

// explanation collects the second argument of an explanation function.
func (w *Walker) explanation(tokens []token.Token, from int) (string, *Warning) {
	var fragments []string
	end := min(from+Window, len(tokens))
	for i := from; i < end; i++ {
		tok := tokens[i]
		switch {
		case w.lang.IsClosingFuncParams(tok), w.lang.IsArgumentSeparator(tok):
			return textutil.SanitizeExplanation(strings.Join(fragments, "")), nil
		case w.lang.IsVariableOrFunction(tok):
			return "", w.warning(tok.Line)
		case w.lang.IsEncapsedString(tok):
			fragments = append(fragments, w.lang.StringValue(tok))
		}
	}
	return "", nil
}

func (w *Walker) warning(line int) *Warning {
	return &Warning{
		LanguageID: w.lang.ID(),
		Line:       line,
		Message:    MsgUnsupportedArgument,
	}
}

func newText(fragments []string, line int, explanation string) *Text {
	if len(fragments) == 0 {
		return nil
	}
	return &Text{
		Text:        strings.Join(fragments, ""),
		Line:        line,
		Explanation: explanation,
	}
}
