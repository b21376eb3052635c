// Package scanner runs full scans over all sources and keeps the resulting
// collection in a JSON snapshot.
package scanner

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"l10n-scanner/internal/collection"
	"l10n-scanner/internal/parser"

	"github.com/rs/zerolog/log"
	"github.com/spf13/afero"
)

// snapshotFile is the on-disk form of a scan.
type snapshotFile struct {
	collection.Snapshot
	ScannedAt  time.Time `json:"scannedAt"`
	DurationMS int64     `json:"durationMs"`
}

// Scanner owns the snapshot file and the collection loaded from it.
type Scanner struct {
	fs          afero.Fs
	storageFile string
	registry    *parser.Registry
	sources     []Source
	workers     int

	collection *collection.Collection
	loaded     bool
	lastScan   time.Time
	duration   time.Duration
}

// New creates a Scanner. Nothing is read until Load or Collection is called.
func New(fs afero.Fs, storageFile string, registry *parser.Registry, sources []Source) *Scanner {
	return &Scanner{
		fs:          fs,
		storageFile: storageFile,
		registry:    registry,
		sources:     sources,
		workers:     1,
	}
}

// SetWorkers sets how many files of a source are parsed at the same time.
// Results are added in traversal order whatever the value.
func (s *Scanner) SetWorkers(n int) {
	if n > 0 {
		s.workers = n
	}
}

func (s *Scanner) StorageFile() string { return s.storageFile }

func (s *Scanner) Sources() []Source { return s.sources }

// Scan rebuilds the collection from all sources, one after the other, and
// writes the snapshot. The previous snapshot is kept when any source fails.
func (s *Scanner) Scan(ctx context.Context) error {
	coll := collection.New()
	start := time.Now()

	for _, src := range s.sources {
		h := NewSourceScanner(src, s.registry, coll)
		if err := src.Scan(h); err != nil {
			return fmt.Errorf("scan source %s: %w", describe(src), err)
		}
		if err := h.Flush(ctx, s.workers); err != nil {
			return fmt.Errorf("scan source %s: %w", describe(src), err)
		}
		log.Info().
			Str("source", src.Alias()).
			Int("files", h.Files()).
			Msg("Scanned source")
	}

	s.collection = coll
	s.loaded = true
	s.lastScan = start
	s.duration = time.Since(start)

	if err := s.save(); err != nil {
		return err
	}

	log.Info().
		Int("hashes", coll.CountHashes()).
		Int("warnings", coll.CountWarnings()).
		Dur("duration", s.duration).
		Str("file", s.storageFile).
		Msg("Scan complete")
	return nil
}

// Load reads the snapshot once per Scanner. A snapshot of another format
// version, or one that cannot be decoded, is deleted and the collection stays
// empty until the next scan.
func (s *Scanner) Load() error {
	if s.loaded {
		return nil
	}
	s.collection = collection.New()
	s.loaded = true

	if !s.IsScanAvailable() {
		return nil
	}

	data, err := afero.ReadFile(s.fs, s.storageFile)
	if err != nil {
		return fmt.Errorf("read snapshot: %w", err)
	}

	var snap snapshotFile
	if err := json.Unmarshal(data, &snap); err != nil {
		return s.discard(err)
	}
	coll, err := collection.FromArray(snap.Snapshot)
	if err != nil {
		if errors.Is(err, collection.ErrFormatVersion) {
			return s.discard(err)
		}
		return err
	}

	s.collection = coll
	s.lastScan = snap.ScannedAt
	s.duration = time.Duration(snap.DurationMS) * time.Millisecond
	log.Debug().Int("hashes", coll.CountHashes()).Str("file", s.storageFile).Msg("Loaded snapshot")
	return nil
}

func (s *Scanner) discard(reason error) error {
	log.Warn().Err(reason).Str("file", s.storageFile).Msg("Deleting stale snapshot, a new scan is required")
	if err := s.fs.Remove(s.storageFile); err != nil {
		return fmt.Errorf("delete stale snapshot: %w", err)
	}
	return nil
}

// IsScanAvailable reports whether a snapshot file exists.
func (s *Scanner) IsScanAvailable() bool {
	ok, err := afero.Exists(s.fs, s.storageFile)
	return err == nil && ok
}

// Collection returns the current collection, loading the snapshot first.
func (s *Scanner) Collection() (*collection.Collection, error) {
	if err := s.Load(); err != nil {
		return nil, err
	}
	return s.collection, nil
}

func (s *Scanner) Warnings() ([]parser.Warning, error) {
	coll, err := s.Collection()
	if err != nil {
		return nil, err
	}
	return coll.Warnings(), nil
}

func (s *Scanner) HasWarnings() (bool, error) {
	coll, err := s.Collection()
	if err != nil {
		return false, err
	}
	return coll.HasWarnings(), nil
}

// LastScan returns when the current collection was scanned.
func (s *Scanner) LastScan() time.Time { return s.lastScan }

func (s *Scanner) Duration() time.Duration { return s.duration }

func (s *Scanner) save() error {
	snap := snapshotFile{
		Snapshot:   s.collection.ToArray(),
		ScannedAt:  s.lastScan.UTC(),
		DurationMS: s.duration.Milliseconds(),
	}
	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}

	if dir := filepath.Dir(s.storageFile); dir != "." {
		if err := s.fs.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create snapshot folder: %w", err)
		}
	}
	if err := afero.WriteFile(s.fs, s.storageFile, data, 0o644); err != nil {
		return fmt.Errorf("write snapshot: %w", err)
	}
	return nil
}
