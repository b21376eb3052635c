package cli

import (
	"bytes"
	"context"
	"testing"

	"l10n-scanner/internal/graph"
	"l10n-scanner/internal/textutil"
	"l10n-scanner/internal/translator"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testConfig = `
storage_file: /data/strings.json
native_locale: en
locales: [de]
sources:
  - alias: app
    label: Application
    path: /app
    exclude_folders: [vendor]
`

func run(t *testing.T, fs afero.Fs, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd(fs)
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func testFs(t *testing.T) afero.Fs {
	t.Helper()
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/cfg/l10n.yaml", []byte(testConfig), 0o644))
	require.NoError(t, afero.WriteFile(fs, "/app/index.php", []byte("<?php\necho t('Hello');\necho t($name);\n"), 0o644))
	require.NoError(t, afero.WriteFile(fs, "/app/main.js", []byte("t('Hello');\nt('Bye');"), 0o644))
	require.NoError(t, afero.WriteFile(fs, "/app/vendor/lib.php", []byte("<?php t('Vendor');"), 0o644))
	return fs
}

func TestLanguagesCommand(t *testing.T) {
	out, err := run(t, afero.NewMemMapFs(), "languages")
	require.NoError(t, err)
	assert.Contains(t, out, "PHP")
	assert.Contains(t, out, "t, pt, pts, tex, ptex, ptexs")
	assert.Contains(t, out, "JavaScript")
}

func TestParseCodeCommand(t *testing.T) {
	out, err := run(t, afero.NewMemMapFs(), "parse-code", "php", "<?php echo t('Sa' . 've'); t($x);")
	require.NoError(t, err)
	assert.Contains(t, out, `"Save"`)
	assert.Contains(t, out, textutil.Hash("Save"))
	assert.Contains(t, out, "variables or functions are not supported")
}

func TestParseCodeUnknownLanguage(t *testing.T) {
	_, err := run(t, afero.NewMemMapFs(), "parse-code", "python", "t('x')")
	assert.Error(t, err)
}

func TestScanAndTranslateCommands(t *testing.T) {
	fs := testFs(t)

	out, err := run(t, fs, "--config", "/cfg/l10n.yaml", "scan")
	require.NoError(t, err)
	assert.Contains(t, out, "Application")

	out, err = run(t, fs, "--config", "/cfg/l10n.yaml", "strings", "--files")
	require.NoError(t, err)
	assert.Contains(t, out, "Hello")
	assert.Contains(t, out, "Bye")
	assert.Contains(t, out, "index.php")
	assert.NotContains(t, out, "Vendor")

	out, err = run(t, fs, "--config", "/cfg/l10n.yaml", "warnings")
	require.NoError(t, err)
	assert.Contains(t, out, "/app/index.php:3")

	_, err = run(t, fs, "--config", "/cfg/l10n.yaml", "set-translation",
		"--locale", "de", "--hash", textutil.Hash("Hello"), "--text", "Hallo")
	require.NoError(t, err)

	ok, err := afero.Exists(fs, "/app/locales/de-app-server.ini")
	require.NoError(t, err)
	assert.True(t, ok)

	out, err = run(t, fs, "--config", "/cfg/l10n.yaml", "translate", "--locale", "de", "Hello")
	require.NoError(t, err)
	assert.Equal(t, "Hallo\n", out)

	_, err = run(t, fs, "--config", "/cfg/l10n.yaml", "clear-translation",
		"--locale", "de", "--hash", textutil.Hash("Hello"))
	require.NoError(t, err)

	out, err = run(t, fs, "--config", "/cfg/l10n.yaml", "translate", "--locale", "de", "Hello")
	require.NoError(t, err)
	assert.Equal(t, "Hello\n", out)
}

func TestSetTranslationUnknownHash(t *testing.T) {
	fs := testFs(t)
	_, err := run(t, fs, "--config", "/cfg/l10n.yaml", "scan")
	require.NoError(t, err)

	_, err = run(t, fs, "--config", "/cfg/l10n.yaml", "set-translation",
		"--locale", "de", "--hash", "0123", "--text", "x")
	assert.Error(t, err)
}

type mapLookup map[string]string

func (m mapLookup) Get(_ context.Context, locale, hash string) (string, bool) {
	v, ok := m[locale+"/"+hash]
	return v, ok
}

func TestFillFromLookup(t *testing.T) {
	tr, err := translator.New(afero.NewMemMapFs(), translator.Options{NativeLocale: "en", Locales: []string{"de"}})
	require.NoError(t, err)
	require.NoError(t, tr.SetTargetLocale("de"))
	require.NoError(t, tr.SetTranslation(textutil.Hash("Open"), "Öffnen"))

	lookup := mapLookup{
		"de/" + textutil.Hash("Save"): "Speichern",
		"de/" + textutil.Hash("Open"): "Aufmachen",
	}
	ctx := context.Background()

	filled, err := fillFromLookup(ctx, tr, lookup, "Save")
	require.NoError(t, err)
	assert.True(t, filled)
	out, err := tr.Translate("Save")
	require.NoError(t, err)
	assert.Equal(t, "Speichern", out)

	// Locale files win over the lookup.
	filled, err = fillFromLookup(ctx, tr, lookup, "Open")
	require.NoError(t, err)
	assert.False(t, filled)
	out, err = tr.Translate("Open")
	require.NoError(t, err)
	assert.Equal(t, "Öffnen", out)

	filled, err = fillFromLookup(ctx, tr, lookup, "Close")
	require.NoError(t, err)
	assert.False(t, filled)
}

func TestPrintFiles(t *testing.T) {
	var out bytes.Buffer
	printFiles(&out, []graph.FileResult{
		{SourceID: "id-app", Path: "index.php", Line: 3},
		{SourceID: "id-gone", Path: "main.js", Line: 9},
	}, map[string]string{"id-app": "app"})

	assert.Contains(t, out.String(), "app index.php:3")
	assert.Contains(t, out.String(), "id-gone main.js:9")
	assert.Contains(t, out.String(), "2 files")
}

func TestWhereRequiresGraph(t *testing.T) {
	t.Setenv("NEO4J_URI", "")
	t.Setenv("L10N_NEO4J_URI", "")
	_, err := run(t, testFs(t), "--config", "/cfg/l10n.yaml", "where", textutil.Hash("Hello"))
	assert.ErrorContains(t, err, "neo4j_uri is not configured")
}

func TestTranslateFromDatabaseRequiresURL(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	t.Setenv("L10N_DATABASE_URL", "")
	_, err := run(t, testFs(t), "--config", "/cfg/l10n.yaml", "translate", "--db", "--locale", "de", "Hello")
	assert.ErrorContains(t, err, "database_url is not configured")
}
