// Package store mirrors scanned strings and translations into PostgreSQL.
package store

import (
	"context"
	"fmt"
	"sync"

	"l10n-scanner/internal/collection"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog/log"
)

const schema = `
CREATE TABLE IF NOT EXISTS l10n_strings (
	hash          TEXT    NOT NULL,
	source_id     TEXT    NOT NULL,
	source_type   TEXT    NOT NULL,
	relative_path TEXT    NOT NULL,
	line          INTEGER NOT NULL,
	language_type TEXT    NOT NULL,
	text          TEXT    NOT NULL,
	explanation   TEXT    NOT NULL DEFAULT '',
	PRIMARY KEY (hash, source_id, relative_path, line)
);
CREATE TABLE IF NOT EXISTS l10n_translations (
	locale     TEXT NOT NULL,
	hash       TEXT NOT NULL,
	text       TEXT NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now(),
	PRIMARY KEY (locale, hash)
);
`

const upsertString = `
INSERT INTO l10n_strings (hash, source_id, source_type, relative_path, line, language_type, text, explanation)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
ON CONFLICT (hash, source_id, relative_path, line)
DO UPDATE SET language_type = EXCLUDED.language_type, text = EXCLUDED.text, explanation = EXCLUDED.explanation`

const upsertTranslation = `
INSERT INTO l10n_translations (locale, hash, text)
VALUES ($1, $2, $3)
ON CONFLICT (locale, hash)
DO UPDATE SET text = EXCLUDED.text, updated_at = now()`

// StringRow is one row of l10n_strings.
type StringRow struct {
	Hash         string
	SourceID     string
	SourceType   string
	RelativePath string
	Line         int
	LanguageType string
	Text         string
	Explanation  string
}

func (r StringRow) args() []any {
	return []any{r.Hash, r.SourceID, r.SourceType, r.RelativePath, r.Line, r.LanguageType, r.Text, r.Explanation}
}

// StringRows flattens a collection into table rows.
func StringRows(coll *collection.Collection) []StringRow {
	var rows []StringRow
	for _, h := range coll.Hashes() {
		for _, info := range h.Infos() {
			rows = append(rows, StringRow{
				Hash:         h.Hash(),
				SourceID:     info.SourceID,
				SourceType:   info.SourceType,
				RelativePath: info.RelativePath(),
				Line:         info.Text.Line,
				LanguageType: info.LanguageType(),
				Text:         info.Text.Text,
				Explanation:  info.Text.Explanation,
			})
		}
	}
	return rows
}

// TranslationStore provides in-memory + PostgreSQL-backed storage of
// translations keyed by locale and hash.
type TranslationStore struct {
	pool   *pgxpool.Pool
	mu     sync.RWMutex
	memory map[string]map[string]string // locale -> hash -> translated text
}

// Connect opens a connection pool and checks it.
func Connect(ctx context.Context, databaseURL string) (*pgxpool.Pool, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return pool, nil
}

// NewTranslationStore creates a store backed by PostgreSQL.
func NewTranslationStore(pool *pgxpool.Pool) *TranslationStore {
	return &TranslationStore{
		pool:   pool,
		memory: make(map[string]map[string]string),
	}
}

// EnsureSchema creates the tables if they do not exist.
func (s *TranslationStore) EnsureSchema(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}
	return nil
}

// UpsertStrings writes every occurrence of coll in one batch.
func (s *TranslationStore) UpsertStrings(ctx context.Context, coll *collection.Collection) (int, error) {
	rows := StringRows(coll)
	batch := &pgx.Batch{}
	for _, r := range rows {
		batch.Queue(upsertString, r.args()...)
	}
	if err := s.pool.SendBatch(ctx, batch).Close(); err != nil {
		return 0, fmt.Errorf("upsert strings: %w", err)
	}

	log.Info().Int("rows", len(rows)).Msg("Exported strings")
	return len(rows), nil
}

// Get retrieves a translation. Returns empty string and false if not found.
func (s *TranslationStore) Get(ctx context.Context, locale, hash string) (string, bool) {
	s.mu.RLock()
	if v, ok := s.memory[locale][hash]; ok {
		s.mu.RUnlock()
		return v, true
	}
	s.mu.RUnlock()

	var translated string
	err := s.pool.QueryRow(ctx,
		`SELECT text FROM l10n_translations WHERE locale = $1 AND hash = $2`,
		locale, hash).Scan(&translated)
	if err != nil {
		return "", false
	}

	s.remember(locale, hash, translated)
	return translated, true
}

// UpsertTranslations stores translations of one locale in memory and in
// PostgreSQL. Empty values are skipped.
func (s *TranslationStore) UpsertTranslations(ctx context.Context, locale string, entries map[string]string) (int, error) {
	batch := &pgx.Batch{}
	for hash, text := range entries {
		if text == "" {
			continue
		}
		s.remember(locale, hash, text)
		batch.Queue(upsertTranslation, locale, hash, text)
	}
	if err := s.pool.SendBatch(ctx, batch).Close(); err != nil {
		return 0, fmt.Errorf("upsert translations: %w", err)
	}

	log.Info().Str("locale", locale).Int("count", batch.Len()).Msg("Exported translations")
	return batch.Len(), nil
}

// Preload loads all translations of a locale into memory.
func (s *TranslationStore) Preload(ctx context.Context, locale string) error {
	rows, err := s.pool.Query(ctx, `SELECT hash, text FROM l10n_translations WHERE locale = $1`, locale)
	if err != nil {
		return fmt.Errorf("preload translations: %w", err)
	}
	defer rows.Close()

	count := 0
	for rows.Next() {
		var hash, text string
		if err := rows.Scan(&hash, &text); err != nil {
			return fmt.Errorf("scan translation: %w", err)
		}
		s.remember(locale, hash, text)
		count++
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("preload translations: %w", err)
	}

	log.Info().Str("locale", locale).Int("count", count).Msg("Preloaded translations")
	return nil
}

func (s *TranslationStore) remember(locale, hash, text string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.memory[locale] == nil {
		s.memory[locale] = make(map[string]string)
	}
	s.memory[locale][hash] = text
}
