package translator

import (
	"bytes"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/afero"
	"gopkg.in/ini.v1"
)

// Audiences of locale files. Client files only hold strings used by
// JavaScript code.
const (
	AudienceServer = "server"
	AudienceClient = "client"
)

var iniOptions = ini.LoadOptions{
	IgnoreInlineComment:     true,
	IgnoreContinuation:      true,
	PreserveSurroundedQuote: true,
}

// LocaleFile returns the path of the locale file of a source and audience.
func LocaleFile(src Source, locale, audience string) string {
	name := fmt.Sprintf("%s-%s-%s.ini", locale, src.Alias(), audience)
	return filepath.Join(src.StorageFolder(), name)
}

// readLocaleFile returns the hash to text map of a locale file. A missing
// file yields an empty map.
func readLocaleFile(fs afero.Fs, path string) (map[string]string, error) {
	out := make(map[string]string)

	exists, err := afero.Exists(fs, path)
	if err != nil || !exists {
		return out, err
	}
	data, err := afero.ReadFile(fs, path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	cfg, err := ini.LoadSources(iniOptions, data)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	for _, key := range cfg.Section(ini.DefaultSection).Keys() {
		out[key.Name()] = decodeValue(key.Value())
	}
	return out, nil
}

// writeLocaleFile writes entries in the given key order.
func writeLocaleFile(fs afero.Fs, path string, keys []string, entries map[string]string) error {
	cfg := ini.Empty(iniOptions)
	sec := cfg.Section(ini.DefaultSection)
	for _, k := range keys {
		if _, err := sec.NewKey(k, encodeValue(entries[k])); err != nil {
			return fmt.Errorf("add key %s: %w", k, err)
		}
	}

	var buf bytes.Buffer
	if _, err := cfg.WriteTo(&buf); err != nil {
		return fmt.Errorf("encode %s: %w", path, err)
	}
	if err := fs.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create locale folder: %w", err)
	}
	if err := afero.WriteFile(fs, path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// encodeValue quotes a value so that quotes, newlines and comment characters
// survive the ini format. Backticks are escaped because the writer treats
// them as quoting.
func encodeValue(v string) string {
	return strings.ReplaceAll(strconv.Quote(v), "`", `\x60`)
}

// decodeValue reverses encodeValue. Values that are not quoted, as in hand
// edited files, are returned as they are.
func decodeValue(v string) string {
	if s, err := strconv.Unquote(v); err == nil {
		return s
	}
	return v
}
