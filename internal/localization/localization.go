// Package localization builds the objects a scan or a translation run needs
// from a configuration and hands them out together.
package localization

import (
	"fmt"

	"l10n-scanner/internal/config"
	"l10n-scanner/internal/parser"
	"l10n-scanner/internal/scanner"
	"l10n-scanner/internal/source"
	"l10n-scanner/internal/translator"

	"github.com/spf13/afero"
)

// Context holds everything created from one configuration. Create one per
// run and pass it to whatever needs it.
type Context struct {
	Config     *config.Config
	FS         afero.Fs
	Registry   *parser.Registry
	Sources    []*source.Folder
	Scanner    *scanner.Scanner
	Translator *translator.Translator
}

// New wires a Context. Files are read and written through fs.
func New(fs afero.Fs, cfg *config.Config) (*Context, error) {
	ctx := &Context{
		Config:   cfg,
		FS:       fs,
		Registry: parser.NewRegistry(fs),
	}

	scanSources := make([]scanner.Source, 0, len(cfg.Sources))
	translatorSources := make([]translator.Source, 0, len(cfg.Sources))
	for _, sc := range cfg.Sources {
		folder, err := source.NewFolder(fs, source.FolderOptions{
			Alias:          sc.Alias,
			Label:          sc.Label,
			Path:           sc.Path,
			StorageFolder:  sc.StorageFolder,
			ExcludeFolders: sc.ExcludeFolders,
			ExcludeFiles:   sc.ExcludeFiles,
		})
		if err != nil {
			return nil, err
		}
		ctx.Sources = append(ctx.Sources, folder)
		scanSources = append(scanSources, folder)
		translatorSources = append(translatorSources, folder)
	}

	ctx.Scanner = scanner.New(fs, cfg.StorageFile, ctx.Registry, scanSources)
	ctx.Scanner.SetWorkers(cfg.ScanWorkers)

	tr, err := translator.New(fs, translator.Options{
		NativeLocale: cfg.NativeLocale,
		Locales:      cfg.Locales,
		Sources:      translatorSources,
		CacheSize:    cfg.ReverseCacheSize,
	})
	if err != nil {
		return nil, err
	}
	ctx.Translator = tr

	return ctx, nil
}

// Source returns the source with the given alias.
func (c *Context) Source(alias string) (*source.Folder, error) {
	for _, s := range c.Sources {
		if s.Alias() == alias {
			return s, nil
		}
	}
	return nil, fmt.Errorf("unknown source %q", alias)
}

// SaveTranslations writes the locale files of every source for the active
// target locale.
func (c *Context) SaveTranslations() error {
	coll, err := c.Scanner.Collection()
	if err != nil {
		return err
	}
	for _, s := range c.Sources {
		if err := c.Translator.Save(s, coll); err != nil {
			return fmt.Errorf("save %s: %w", s.Alias(), err)
		}
	}
	return nil
}
