package parser

import (
	"fmt"
	"path/filepath"
	"strings"
	"sync"

	"l10n-scanner/internal/token"

	"github.com/spf13/afero"
)

// languageFactories maps a language id to its constructor. The order of
// LanguageIDs follows this list.
var languageFactories = []struct {
	id         string
	extensions []string
	create     func() token.Language
}{
	{token.LanguagePHP, []string{"php"}, func() token.Language { return token.NewPHP() }},
	{token.LanguageJavaScript, []string{"js"}, func() token.Language { return token.NewJavaScript() }},
}

// Registry dispatches files and code snippets to the walker of their language.
// Walkers are created on first use and reused afterwards.
type Registry struct {
	fs      afero.Fs
	mu      sync.Mutex
	walkers map[string]*Walker
}

// NewRegistry creates a Registry reading files from fs.
func NewRegistry(fs afero.Fs) *Registry {
	return &Registry{
		fs:      fs,
		walkers: make(map[string]*Walker),
	}
}

// LanguageIDs lists the ids of all supported languages.
func (r *Registry) LanguageIDs() []string {
	ids := make([]string, len(languageFactories))
	for i, f := range languageFactories {
		ids[i] = f.id
	}
	return ids
}

// IsSupported reports whether a file name or bare extension can be parsed.
func (r *Registry) IsSupported(name string) bool {
	_, ok := r.idForExtension(extension(name))
	return ok
}

// LanguageForFile returns the language id responsible for path.
func (r *Registry) LanguageForFile(path string) (string, error) {
	id, ok := r.idForExtension(extension(path))
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrUnsupportedExtension, path)
	}
	return id, nil
}

// LanguageByID resolves a language id or extension alias, ignoring case.
func (r *Registry) LanguageByID(id string) (string, error) {
	for _, f := range languageFactories {
		if strings.EqualFold(f.id, id) {
			return f.id, nil
		}
	}
	if canonical, ok := r.idForExtension(strings.TrimPrefix(id, ".")); ok {
		return canonical, nil
	}
	return "", fmt.Errorf("%w: %s", ErrUnknownLanguage, id)
}

// Walker returns the cached walker for a canonical language id.
func (r *Registry) Walker(id string) (*Walker, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if w, ok := r.walkers[id]; ok {
		return w, nil
	}
	for _, f := range languageFactories {
		if f.id == id {
			w := NewWalker(r.fs, f.create())
			r.walkers[id] = w
			return w, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrUnknownLanguage, id)
}

// ParseFile parses a file with the walker matching its extension.
func (r *Registry) ParseFile(path string) (*ParseResult, error) {
	id, err := r.LanguageForFile(path)
	if err != nil {
		return nil, err
	}
	w, err := r.Walker(id)
	if err != nil {
		return nil, err
	}
	return w.ParseFile(path)
}

// ParseCode parses code written in the given language id or alias.
func (r *Registry) ParseCode(languageID, code string) (*ParseResult, error) {
	id, err := r.LanguageByID(languageID)
	if err != nil {
		return nil, err
	}
	w, err := r.Walker(id)
	if err != nil {
		return nil, err
	}
	return w.ParseString(code)
}

// FunctionNames lists the translation functions of every language by id.
func (r *Registry) FunctionNames() (map[string][]string, error) {
	out := make(map[string][]string, len(languageFactories))
	for _, f := range languageFactories {
		w, err := r.Walker(f.id)
		if err != nil {
			return nil, err
		}
		out[f.id] = w.Language().FunctionNames()
	}
	return out, nil
}

func (r *Registry) idForExtension(ext string) (string, bool) {
	ext = strings.ToLower(ext)
	for _, f := range languageFactories {
		for _, e := range f.extensions {
			if e == ext {
				return f.id, true
			}
		}
	}
	return "", false
}

// extension returns the extension of name without the dot. A name without a
// dot is taken to be an extension itself.
func extension(name string) string {
	if ext := filepath.Ext(name); ext != "" {
		return ext[1:]
	}
	return name
}
