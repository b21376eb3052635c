package scanner

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"l10n-scanner/internal/collection"
	"l10n-scanner/internal/parser"
	"l10n-scanner/internal/worker"

	"github.com/rs/zerolog/log"
)

// Handle is handed to a source while it scans. The source calls ParseFile for
// every file it wants extracted.
type Handle interface {
	// IsSupported reports whether a file has a parseable extension.
	IsSupported(path string) bool
	ParseFile(path string) error
}

// Source is a configured origin of translatable text.
type Source interface {
	ID() string
	Alias() string
	Label() string
	// BasePath is the root that relative paths of found strings refer to.
	BasePath() string
	// StorageFolder is where the locale files of the source are kept.
	StorageFolder() string
	// Scan walks the source and calls h.ParseFile for each eligible file.
	Scan(h Handle) error
}

// SourceScanner feeds the files of one source into a collection. Files handed
// to ParseFile are queued and parsed by Flush.
type SourceScanner struct {
	source     Source
	registry   *parser.Registry
	collection *collection.Collection
	queue      []string
	files      int
}

// NewSourceScanner creates the handle a source scans with.
func NewSourceScanner(source Source, registry *parser.Registry, coll *collection.Collection) *SourceScanner {
	return &SourceScanner{
		source:     source,
		registry:   registry,
		collection: coll,
	}
}

func (s *SourceScanner) IsSupported(path string) bool {
	return s.registry.IsSupported(path)
}

// ParseFile queues a file for extraction.
func (s *SourceScanner) ParseFile(path string) error {
	if _, err := s.registry.LanguageForFile(path); err != nil {
		return err
	}
	s.queue = append(s.queue, path)
	return nil
}

// Flush parses the queued files on the given number of workers and adds
// their texts and warnings to the collection in queue order. Nothing is added
// when any file fails.
func (s *SourceScanner) Flush(ctx context.Context, workers int) error {
	pool := worker.NewPool(workers, func(_ context.Context, path string) (*parser.ParseResult, error) {
		return s.registry.ParseFile(path)
	})
	tasks := pool.Execute(ctx, s.queue)
	if err := worker.FirstError(tasks); err != nil {
		return err
	}

	for _, task := range tasks {
		s.add(task.Input, task.Result)
	}
	s.files += len(tasks)
	s.queue = nil
	return nil
}

func (s *SourceScanner) add(path string, result *parser.ParseResult) {
	rel := s.relativePath(path)
	for _, text := range result.Texts {
		s.collection.AddFromFile(s.source.ID(), rel, result.LanguageID, text)
	}
	for _, w := range result.Warnings {
		log.Warn().
			Str("file", w.File).
			Int("line", w.Line).
			Str("language", w.LanguageID).
			Msg(w.Message)
		s.collection.AddWarning(w)
	}
}

// Files returns the number of files parsed so far.
func (s *SourceScanner) Files() int { return s.files }

func (s *SourceScanner) relativePath(path string) string {
	base := s.source.BasePath()
	if base == "" {
		return filepath.ToSlash(path)
	}
	rel, err := filepath.Rel(base, path)
	if err != nil || strings.HasPrefix(rel, "..") {
		return filepath.ToSlash(path)
	}
	return filepath.ToSlash(rel)
}

func describe(s Source) string {
	return fmt.Sprintf("%s (%s)", s.Label(), s.Alias())
}
