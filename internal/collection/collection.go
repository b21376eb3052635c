// Package collection aggregates extracted texts by content hash.
package collection

import (
	"errors"
	"fmt"
	"strings"

	"l10n-scanner/internal/parser"
)

// FormatVersion is the snapshot format written by ToArray. Snapshots of any
// other version are rejected.
const FormatVersion = 1

var (
	ErrHashNotFound  = errors.New("hash not found")
	ErrFormatVersion = errors.New("snapshot format version mismatch")
)

// Snapshot is the serialized form of a Collection.
type Snapshot struct {
	FormatVersion int              `json:"formatVersion"`
	Hashes        []StringInfo     `json:"hashes"`
	Warnings      []parser.Warning `json:"warnings"`
}

// Collection holds every occurrence of every text found by one scan.
type Collection struct {
	hashes   map[string]*StringHash
	order    []string
	warnings []parser.Warning
}

// New creates an empty collection.
func New() *Collection {
	return &Collection{hashes: make(map[string]*StringHash)}
}

// AddFromFile records a text found in a file of a source.
func (c *Collection) AddFromFile(sourceID, relativePath, languageType string, text parser.Text) {
	c.add(StringInfo{
		SourceType: SourceTypeFile,
		SourceID:   sourceID,
		Text:       text,
		Properties: map[string]string{
			PropLanguageType: languageType,
			PropRelativePath: relativePath,
		},
	})
}

// AddWarning records a parser warning.
func (c *Collection) AddWarning(w parser.Warning) {
	c.warnings = append(c.warnings, w)
}

func (c *Collection) add(info StringInfo) {
	hash := info.Hash()
	h, ok := c.hashes[hash]
	if !ok {
		h = newStringHash(hash)
		c.hashes[hash] = h
		c.order = append(c.order, hash)
	}
	h.add(info)
}

// Hash returns the StringHash of a content hash.
func (c *Collection) Hash(hash string) (*StringHash, error) {
	h, ok := c.hashes[hash]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrHashNotFound, hash)
	}
	return h, nil
}

func (c *Collection) HashExists(hash string) bool {
	_, ok := c.hashes[hash]
	return ok
}

func (c *Collection) CountHashes() int { return len(c.order) }

// Hashes returns all StringHashes in order of first occurrence.
func (c *Collection) Hashes() []*StringHash {
	return c.filter(func(*StringHash) bool { return true })
}

func (c *Collection) HashesBySourceID(sourceID string) []*StringHash {
	return c.filter(func(h *StringHash) bool { return h.HasSourceID(sourceID) })
}

func (c *Collection) HashesByLanguageID(languageID string) []*StringHash {
	return c.filter(func(h *StringHash) bool { return h.HasLanguageType(languageID) })
}

// Search returns the hashes whose text contains term, ignoring case.
func (c *Collection) Search(term string) []*StringHash {
	term = strings.ToLower(term)
	return c.filter(func(h *StringHash) bool {
		return strings.Contains(strings.ToLower(h.Text()), term)
	})
}

func (c *Collection) filter(keep func(*StringHash) bool) []*StringHash {
	var out []*StringHash
	for _, hash := range c.order {
		if h := c.hashes[hash]; keep(h) {
			out = append(out, h)
		}
	}
	return out
}

// Warnings returns a copy of the recorded warnings.
func (c *Collection) Warnings() []parser.Warning {
	out := make([]parser.Warning, len(c.warnings))
	copy(out, c.warnings)
	return out
}

func (c *Collection) HasWarnings() bool { return len(c.warnings) > 0 }

func (c *Collection) CountWarnings() int { return len(c.warnings) }

// ToArray serializes the collection. Occurrences are listed hash by hash in
// insertion order so that snapshots diff cleanly.
func (c *Collection) ToArray() Snapshot {
	snap := Snapshot{
		FormatVersion: FormatVersion,
		Hashes:        []StringInfo{},
		Warnings:      c.Warnings(),
	}
	for _, hash := range c.order {
		snap.Hashes = append(snap.Hashes, c.hashes[hash].Infos()...)
	}
	return snap
}

// FromArray rebuilds a collection from a snapshot of the current format.
func FromArray(snap Snapshot) (*Collection, error) {
	if snap.FormatVersion != FormatVersion {
		return nil, fmt.Errorf("%w: got %d, want %d", ErrFormatVersion, snap.FormatVersion, FormatVersion)
	}
	c := New()
	for _, info := range snap.Hashes {
		if info.Properties == nil {
			info.Properties = map[string]string{}
		}
		c.add(info)
	}
	for _, w := range snap.Warnings {
		c.AddWarning(w)
	}
	return c, nil
}
