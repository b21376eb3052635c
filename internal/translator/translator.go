// Package translator looks up stored translations by the hash of the
// original text and keeps the per-locale storage files.
package translator

import (
	"errors"
	"fmt"
	"io"
	"maps"

	"l10n-scanner/internal/collection"
	"l10n-scanner/internal/interpolation"
	"l10n-scanner/internal/textutil"
	"l10n-scanner/internal/token"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/rs/zerolog/log"
	"github.com/spf13/afero"
	"golang.org/x/text/language"
)

var (
	// ErrTranslationFormat is returned when a string does not take the
	// arguments supplied.
	ErrTranslationFormat = errors.New("malformed translated string")
	ErrInvalidLocale     = errors.New("invalid locale")
	ErrNoTargetLocale    = errors.New("no target locale set")
)

// DefaultCacheSize bounds the reverse text to hash cache.
const DefaultCacheSize = 4096

// Source is the part of a source the translator needs.
type Source interface {
	ID() string
	Alias() string
	StorageFolder() string
}

// Options configures a Translator.
type Options struct {
	// NativeLocale is the locale the source code is written in.
	NativeLocale string
	// Locales are the target locales translations are kept for.
	Locales []string
	Sources []Source
	// CacheSize bounds the reverse cache. Zero uses DefaultCacheSize.
	CacheSize int
}

// Translator translates texts into one target locale at a time.
type Translator struct {
	fs      afero.Fs
	native  string
	locales []string
	sources []Source

	locale  string
	strings map[string]map[string]string // locale -> hash -> translated text
	reverse *lru.Cache[string, string]   // text -> hash
}

// New creates a Translator. No locale is active until SetTargetLocale.
func New(fs afero.Fs, opts Options) (*Translator, error) {
	size := opts.CacheSize
	if size <= 0 {
		size = DefaultCacheSize
	}
	reverse, err := lru.New[string, string](size)
	if err != nil {
		return nil, fmt.Errorf("create reverse cache: %w", err)
	}
	if opts.NativeLocale != "" {
		if err := ValidateLocale(opts.NativeLocale); err != nil {
			return nil, err
		}
	}
	return &Translator{
		fs:      fs,
		native:  opts.NativeLocale,
		locales: opts.Locales,
		sources: opts.Sources,
		strings: make(map[string]map[string]string),
		reverse: reverse,
	}, nil
}

// ValidateLocale checks that locale is a well-formed BCP 47 tag such as
// "de" or "pt-BR".
func ValidateLocale(locale string) error {
	if _, err := language.Parse(locale); err != nil {
		return fmt.Errorf("%w: %q: %w", ErrInvalidLocale, locale, err)
	}
	return nil
}

// Locales lists the configured target locales.
func (t *Translator) Locales() []string {
	out := make([]string, len(t.locales))
	copy(out, t.locales)
	return out
}

func (t *Translator) NativeLocale() string { return t.native }

// Locale returns the active target locale.
func (t *Translator) Locale() string { return t.locale }

// SetTargetLocale activates a locale, reading its files the first time.
func (t *Translator) SetTargetLocale(locale string) error {
	if locale == t.locale {
		return nil
	}
	if err := ValidateLocale(locale); err != nil {
		return err
	}
	if _, ok := t.strings[locale]; !ok {
		loaded, err := t.load(locale)
		if err != nil {
			return err
		}
		t.strings[locale] = loaded
	}
	t.locale = locale
	return nil
}

func (t *Translator) load(locale string) (map[string]string, error) {
	merged := make(map[string]string)
	for _, src := range t.sources {
		entries, err := readLocaleFile(t.fs, LocaleFile(src, locale, AudienceServer))
		if err != nil {
			return nil, fmt.Errorf("load locale %s of %s: %w", locale, src.Alias(), err)
		}
		maps.Copy(merged, entries)
	}
	log.Debug().Str("locale", locale).Int("strings", len(merged)).Msg("Loaded locale")
	return merged, nil
}

// Translate returns the translation of text in the active locale, or text
// itself when there is none, with args substituted.
func (t *Translator) Translate(text string, args ...any) (string, error) {
	out := text
	if t.lookupsEnabled() {
		if v, ok := t.strings[t.locale][t.hash(text)]; ok && v != "" {
			out = v
		}
	}
	if len(args) == 0 {
		return out, nil
	}

	formatted, err := interpolation.Format(out, args...)
	if err != nil {
		return "", fmt.Errorf("%w: %q with arguments %v: %w", ErrTranslationFormat, out, args, err)
	}
	return formatted, nil
}

func (t *Translator) lookupsEnabled() bool {
	return t.locale != "" && t.locale != t.native
}

// hash returns the content hash of text, remembering it for repeated lookups.
func (t *Translator) hash(text string) string {
	if h, ok := t.reverse.Get(text); ok {
		return h
	}
	h := textutil.Hash(text)
	t.reverse.Add(text, h)
	return h
}

// T is Translate.
func (t *Translator) T(text string, args ...any) (string, error) {
	return t.Translate(text, args...)
}

// Tex translates text. The explanation only documents the string for
// translators and does not change the result.
func (t *Translator) Tex(text, explanation string, args ...any) (string, error) {
	return t.Translate(text, args...)
}

// Pt writes the translation of text to w.
func (t *Translator) Pt(w io.Writer, text string, args ...any) error {
	return t.print(w, "", text, args)
}

// Pts writes the translation of text to w followed by a space.
func (t *Translator) Pts(w io.Writer, text string, args ...any) error {
	return t.print(w, " ", text, args)
}

// Ptex is Pt with an explanation.
func (t *Translator) Ptex(w io.Writer, text, explanation string, args ...any) error {
	return t.print(w, "", text, args)
}

// Ptexs is Pts with an explanation.
func (t *Translator) Ptexs(w io.Writer, text, explanation string, args ...any) error {
	return t.print(w, " ", text, args)
}

func (t *Translator) print(w io.Writer, suffix, text string, args []any) error {
	out, err := t.Translate(text, args...)
	if err != nil {
		return err
	}
	_, err = io.WriteString(w, out+suffix)
	return err
}

// Translation returns the stored translation of a hash in the active locale.
func (t *Translator) Translation(hash string) (string, bool) {
	v, ok := t.strings[t.locale][hash]
	return v, ok && v != ""
}

func (t *Translator) IsTranslated(hash string) bool {
	_, ok := t.Translation(hash)
	return ok
}

// Strings returns a copy of all translations of the active locale.
func (t *Translator) Strings() map[string]string {
	return maps.Clone(t.strings[t.locale])
}

// SetTranslation stores a translation in memory. Save persists it.
func (t *Translator) SetTranslation(hash, text string) error {
	if t.locale == "" {
		return ErrNoTargetLocale
	}
	t.strings[t.locale][hash] = text
	return nil
}

// ClearTranslation removes a translation from memory. Save persists it.
func (t *Translator) ClearTranslation(hash string) error {
	if t.locale == "" {
		return ErrNoTargetLocale
	}
	delete(t.strings[t.locale], hash)
	return nil
}

// ClientStrings returns the translations of src needed by JavaScript code.
func (t *Translator) ClientStrings(src Source, coll *collection.Collection) map[string]string {
	_, client := t.partition(src, coll)
	out := make(map[string]string, len(client))
	for _, h := range client {
		out[h] = t.strings[t.locale][h]
	}
	return out
}

// Save writes the server and client files of src for the active locale.
func (t *Translator) Save(src Source, coll *collection.Collection) error {
	if t.locale == "" {
		return ErrNoTargetLocale
	}
	server, client := t.partition(src, coll)
	entries := t.strings[t.locale]

	if err := writeLocaleFile(t.fs, LocaleFile(src, t.locale, AudienceServer), server, entries); err != nil {
		return err
	}
	if err := writeLocaleFile(t.fs, LocaleFile(src, t.locale, AudienceClient), client, entries); err != nil {
		return err
	}

	log.Info().
		Str("locale", t.locale).
		Str("source", src.Alias()).
		Int("server", len(server)).
		Int("client", len(client)).
		Msg("Saved translations")
	return nil
}

// partition returns the translated hashes of src, all of them and those used
// by JavaScript, in collection order.
func (t *Translator) partition(src Source, coll *collection.Collection) (server, client []string) {
	entries := t.strings[t.locale]
	for _, h := range coll.HashesBySourceID(src.ID()) {
		if entries[h.Hash()] == "" {
			continue
		}
		server = append(server, h.Hash())
		if h.HasLanguageType(token.LanguageJavaScript) {
			client = append(client, h.Hash())
		}
	}
	return server, client
}
