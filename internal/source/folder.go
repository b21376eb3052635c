// Package source provides the folder source that feeds files into a scan.
package source

import (
	"fmt"
	"path"
	"path/filepath"
	"strings"

	"l10n-scanner/internal/scanner"
	"l10n-scanner/internal/textutil"

	"github.com/gobwas/glob"
	"github.com/rs/zerolog/log"
	"github.com/spf13/afero"
)

// FolderOptions configures a Folder.
type FolderOptions struct {
	Alias string
	Label string
	// Path is the root folder scanned.
	Path          string
	StorageFolder string
	// ExcludeFolders are folder names or paths relative to Path that are skipped.
	ExcludeFolders []string
	// ExcludeFiles are glob patterns matched against the file name and the
	// path relative to Path.
	ExcludeFiles []string
}

// Folder is a source made of all supported files below a folder. Entries are
// visited depth-first in lexical order.
type Folder struct {
	fs             afero.Fs
	id             string
	alias          string
	label          string
	path           string
	storageFolder  string
	excludeFolders []string
	excludeFiles   []glob.Glob
}

var _ scanner.Source = (*Folder)(nil)

// NewFolder creates a Folder source. Its id is derived from the alias.
func NewFolder(fs afero.Fs, opts FolderOptions) (*Folder, error) {
	if opts.Alias == "" {
		return nil, fmt.Errorf("source alias is required")
	}
	if opts.Path == "" {
		return nil, fmt.Errorf("source %s: path is required", opts.Alias)
	}

	f := &Folder{
		fs:            fs,
		id:            textutil.Hash(opts.Alias),
		alias:         opts.Alias,
		label:         opts.Label,
		path:          filepath.Clean(opts.Path),
		storageFolder: opts.StorageFolder,
	}
	if f.label == "" {
		f.label = opts.Alias
	}
	if f.storageFolder == "" {
		f.storageFolder = filepath.Join(f.path, "locales")
	}

	for _, dir := range opts.ExcludeFolders {
		f.excludeFolders = append(f.excludeFolders, strings.Trim(filepath.ToSlash(dir), "/"))
	}
	for _, pattern := range opts.ExcludeFiles {
		g, err := glob.Compile(pattern, '/')
		if err != nil {
			return nil, fmt.Errorf("source %s: exclude pattern %q: %w", opts.Alias, pattern, err)
		}
		f.excludeFiles = append(f.excludeFiles, g)
	}
	return f, nil
}

func (f *Folder) ID() string            { return f.id }
func (f *Folder) Alias() string         { return f.alias }
func (f *Folder) Label() string         { return f.label }
func (f *Folder) BasePath() string      { return f.path }
func (f *Folder) StorageFolder() string { return f.storageFolder }

// Scan hands every eligible file to h.
func (f *Folder) Scan(h scanner.Handle) error {
	info, err := f.fs.Stat(f.path)
	if err != nil {
		return fmt.Errorf("stat source root: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("source root is not a directory: %s", f.path)
	}
	return f.walk(h, f.path, "")
}

func (f *Folder) walk(h scanner.Handle, dir, rel string) error {
	entries, err := afero.ReadDir(f.fs, dir)
	if err != nil {
		return fmt.Errorf("read folder %s: %w", dir, err)
	}

	for _, entry := range entries {
		full := filepath.Join(dir, entry.Name())
		entryRel := path.Join(rel, entry.Name())

		if entry.IsDir() {
			if f.isExcludedFolder(entry.Name(), entryRel) {
				log.Debug().Str("path", full).Msg("Skipping excluded folder")
				continue
			}
			if err := f.walk(h, full, entryRel); err != nil {
				return err
			}
			continue
		}

		if f.isExcludedFile(entry.Name(), entryRel) || !h.IsSupported(full) {
			continue
		}
		if err := h.ParseFile(full); err != nil {
			return err
		}
	}
	return nil
}

func (f *Folder) isExcludedFolder(name, rel string) bool {
	for _, ex := range f.excludeFolders {
		if ex == rel || (!strings.Contains(ex, "/") && ex == name) {
			return true
		}
	}
	return false
}

func (f *Folder) isExcludedFile(name, rel string) bool {
	for _, g := range f.excludeFiles {
		if g.Match(name) || g.Match(rel) {
			return true
		}
	}
	return false
}
