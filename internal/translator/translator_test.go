package translator

import (
	"bytes"
	"testing"

	"l10n-scanner/internal/collection"
	"l10n-scanner/internal/parser"
	"l10n-scanner/internal/textutil"
	"l10n-scanner/internal/token"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testSource struct {
	id, alias, folder string
}

func (s testSource) ID() string            { return s.id }
func (s testSource) Alias() string         { return s.alias }
func (s testSource) StorageFolder() string { return s.folder }

var app = testSource{id: "app-id", alias: "app", folder: "/locales"}

func newTranslator(t *testing.T, fs afero.Fs) *Translator {
	t.Helper()
	tr, err := New(fs, Options{NativeLocale: "en", Locales: []string{"de", "fr"}, Sources: []Source{app}})
	require.NoError(t, err)
	return tr
}

func writeLocale(t *testing.T, fs afero.Fs, path string, entries map[string]string) {
	t.Helper()
	keys := make([]string, 0, len(entries))
	for k := range entries {
		keys = append(keys, k)
	}
	require.NoError(t, writeLocaleFile(fs, path, keys, entries))
}

func TestTranslateFallsBackToText(t *testing.T) {
	tr := newTranslator(t, afero.NewMemMapFs())
	require.NoError(t, tr.SetTargetLocale("de"))

	got, err := tr.Translate("Hello %s", "Ann")
	require.NoError(t, err)
	assert.Equal(t, "Hello Ann", got)

	got, err = tr.Translate("100% sure")
	require.NoError(t, err)
	assert.Equal(t, "100% sure", got)
}

func TestTranslateUsesStoredTranslation(t *testing.T) {
	fs := afero.NewMemMapFs()
	writeLocale(t, fs, LocaleFile(app, "de", AudienceServer), map[string]string{
		textutil.Hash("Hello %s"): "Hallo %s",
	})
	writeLocale(t, fs, LocaleFile(app, "fr", AudienceServer), map[string]string{
		textutil.Hash("Hello %s"): "Bonjour %s",
	})
	tr := newTranslator(t, fs)

	require.NoError(t, tr.SetTargetLocale("de"))
	got, err := tr.Translate("Hello %s", "Ann")
	require.NoError(t, err)
	assert.Equal(t, "Hallo Ann", got)

	require.NoError(t, tr.SetTargetLocale("fr"))
	got, err = tr.T("Hello %s", "Ann")
	require.NoError(t, err)
	assert.Equal(t, "Bonjour Ann", got)
	assert.Equal(t, 1, tr.reverse.Len())

	require.NoError(t, tr.SetTargetLocale("en"))
	got, err = tr.Translate("Hello %s", "Ann")
	require.NoError(t, err)
	assert.Equal(t, "Hello Ann", got)
}

func TestTranslatePlaceholderMismatch(t *testing.T) {
	fs := afero.NewMemMapFs()
	writeLocale(t, fs, LocaleFile(app, "de", AudienceServer), map[string]string{
		textutil.Hash("%d files"): "%d Dateien in %s",
	})
	tr := newTranslator(t, fs)
	require.NoError(t, tr.SetTargetLocale("de"))

	_, err := tr.Translate("%d files", 3)
	assert.ErrorIs(t, err, ErrTranslationFormat)
	assert.Contains(t, err.Error(), "%d Dateien in %s")
	assert.Contains(t, err.Error(), "[3]")
}

func TestSetTargetLocale(t *testing.T) {
	tr := newTranslator(t, afero.NewMemMapFs())

	assert.ErrorIs(t, tr.SetTargetLocale("not a locale!"), ErrInvalidLocale)
	assert.Empty(t, tr.Locale())

	require.NoError(t, tr.SetTargetLocale("pt-BR"))
	assert.Equal(t, "pt-BR", tr.Locale())
	assert.Equal(t, []string{"de", "fr"}, tr.Locales())
	assert.Equal(t, "en", tr.NativeLocale())
}

func TestSetTargetLocaleIsMemoized(t *testing.T) {
	fs := afero.NewMemMapFs()
	path := LocaleFile(app, "de", AudienceServer)
	writeLocale(t, fs, path, map[string]string{"h1": "eins"})
	tr := newTranslator(t, fs)

	require.NoError(t, tr.SetTargetLocale("de"))
	require.NoError(t, tr.SetTargetLocale("fr"))
	require.NoError(t, fs.Remove(path))
	require.NoError(t, tr.SetTargetLocale("de"))

	v, ok := tr.Translation("h1")
	assert.True(t, ok)
	assert.Equal(t, "eins", v)
}

func TestSetAndClearTranslation(t *testing.T) {
	tr := newTranslator(t, afero.NewMemMapFs())
	assert.ErrorIs(t, tr.SetTranslation("h", "x"), ErrNoTargetLocale)

	require.NoError(t, tr.SetTargetLocale("de"))
	require.NoError(t, tr.SetTranslation(textutil.Hash("Save"), "Speichern"))
	assert.True(t, tr.IsTranslated(textutil.Hash("Save")))

	got, err := tr.Translate("Save")
	require.NoError(t, err)
	assert.Equal(t, "Speichern", got)
	assert.Equal(t, map[string]string{textutil.Hash("Save"): "Speichern"}, tr.Strings())

	require.NoError(t, tr.ClearTranslation(textutil.Hash("Save")))
	assert.False(t, tr.IsTranslated(textutil.Hash("Save")))
	got, err = tr.Translate("Save")
	require.NoError(t, err)
	assert.Equal(t, "Save", got)
}

func TestPrintHelpers(t *testing.T) {
	tr := newTranslator(t, afero.NewMemMapFs())
	require.NoError(t, tr.SetTargetLocale("de"))
	require.NoError(t, tr.SetTranslation(textutil.Hash("Open %s"), "%s öffnen"))

	var buf bytes.Buffer
	require.NoError(t, tr.Pts(&buf, "Open %s", "file"))
	require.NoError(t, tr.Ptex(&buf, "Close", "toolbar button"))
	assert.Equal(t, "file öffnen Close", buf.String())

	got, err := tr.Tex("Open %s", "menu entry", "x")
	require.NoError(t, err)
	assert.Equal(t, "x öffnen", got)

	assert.ErrorIs(t, tr.Pt(&buf, "Open %s"+" %s", "only one"), ErrTranslationFormat)
}

func saveFixture() *collection.Collection {
	coll := collection.New()
	coll.AddFromFile(app.ID(), "a.php", token.LanguagePHP, parser.Text{Text: "Server only", Line: 1})
	coll.AddFromFile(app.ID(), "a.js", token.LanguageJavaScript, parser.Text{Text: "Shared", Line: 1})
	coll.AddFromFile(app.ID(), "b.php", token.LanguagePHP, parser.Text{Text: "Shared", Line: 2})
	coll.AddFromFile(app.ID(), "c.js", token.LanguageJavaScript, parser.Text{Text: "Untranslated", Line: 1})
	coll.AddFromFile("other", "x.php", token.LanguagePHP, parser.Text{Text: "Foreign", Line: 1})
	return coll
}

func TestSavePartitionsServerAndClient(t *testing.T) {
	fs := afero.NewMemMapFs()
	tr := newTranslator(t, fs)
	require.NoError(t, tr.SetTargetLocale("de"))

	quoted := `Sag "Hallo"; #1 = 'ok'` + "\n`zwei`"
	require.NoError(t, tr.SetTranslation(textutil.Hash("Server only"), "Nur Server"))
	require.NoError(t, tr.SetTranslation(textutil.Hash("Shared"), quoted))
	require.NoError(t, tr.SetTranslation(textutil.Hash("Foreign"), "Fremd"))

	coll := saveFixture()
	assert.Equal(t, map[string]string{textutil.Hash("Shared"): quoted}, tr.ClientStrings(app, coll))
	require.NoError(t, tr.Save(app, coll))

	server, err := readLocaleFile(fs, "/locales/de-app-server.ini")
	require.NoError(t, err)
	assert.Equal(t, map[string]string{
		textutil.Hash("Server only"): "Nur Server",
		textutil.Hash("Shared"):      quoted,
	}, server)

	client, err := readLocaleFile(fs, "/locales/de-app-client.ini")
	require.NoError(t, err)
	assert.Equal(t, map[string]string{textutil.Hash("Shared"): quoted}, client)

	// A new translator reads the saved values back.
	fresh := newTranslator(t, fs)
	require.NoError(t, fresh.SetTargetLocale("de"))
	got, err := fresh.Translate("Shared")
	require.NoError(t, err)
	assert.Equal(t, quoted, got)
}

func TestReadLocaleFileAcceptsPlainValues(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/l/de-app-server.ini", []byte("abc = Hallo Welt\n"), 0o644))

	entries, err := readLocaleFile(fs, "/l/de-app-server.ini")
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"abc": "Hallo Welt"}, entries)

	entries, err = readLocaleFile(fs, "/l/missing.ini")
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestSaveRequiresLocale(t *testing.T) {
	tr := newTranslator(t, afero.NewMemMapFs())
	assert.ErrorIs(t, tr.Save(app, collection.New()), ErrNoTargetLocale)
}
