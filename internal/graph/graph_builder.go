package graph

import (
	"context"
	"fmt"

	"l10n-scanner/internal/collection"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"github.com/rs/zerolog/log"
)

// Occurrence is one edge of the graph: a string found in a file of a source.
type Occurrence struct {
	Hash         string
	Text         string
	SourceID     string
	RelativePath string
	LanguageType string
	Line         int
}

// Occurrences flattens a collection into graph edges, in collection order.
func Occurrences(coll *collection.Collection) []Occurrence {
	var out []Occurrence
	for _, h := range coll.Hashes() {
		for _, info := range h.Infos() {
			out = append(out, Occurrence{
				Hash:         h.Hash(),
				Text:         info.Text.Text,
				SourceID:     info.SourceID,
				RelativePath: info.RelativePath(),
				LanguageType: info.LanguageType(),
				Line:         info.Text.Line,
			})
		}
	}
	return out
}

// GraphBuilder writes the strings of a scan as an occurrence graph:
// (:String)-[:OCCURS_IN {line}]->(:File)-[:PART_OF]->(:Source).
type GraphBuilder struct {
	driver neo4j.DriverWithContext
}

// NewGraphBuilder creates a new graph builder.
func NewGraphBuilder(driver neo4j.DriverWithContext) *GraphBuilder {
	return &GraphBuilder{driver: driver}
}

// EnsureSchema creates constraints on the Neo4j database.
func (gb *GraphBuilder) EnsureSchema(ctx context.Context) error {
	session := gb.driver.NewSession(ctx, neo4j.SessionConfig{})
	defer session.Close(ctx)

	constraints := []string{
		"CREATE CONSTRAINT IF NOT EXISTS FOR (s:String) REQUIRE s.hash IS UNIQUE",
		"CREATE CONSTRAINT IF NOT EXISTS FOR (s:Source) REQUIRE s.id IS UNIQUE",
		"CREATE CONSTRAINT IF NOT EXISTS FOR (f:File) REQUIRE (f.source, f.path) IS UNIQUE",
	}

	for _, c := range constraints {
		if _, err := session.Run(ctx, c, nil); err != nil {
			return fmt.Errorf("create constraint: %w", err)
		}
	}

	log.Info().Msg("Graph schema ensured")
	return nil
}

// UpsertCollection merges every occurrence of coll into the graph. Aliases
// maps source ids to their aliases for the Source nodes.
func (gb *GraphBuilder) UpsertCollection(ctx context.Context, coll *collection.Collection, aliases map[string]string) (int, error) {
	session := gb.driver.NewSession(ctx, neo4j.SessionConfig{})
	defer session.Close(ctx)

	for id, alias := range aliases {
		_, err := session.Run(ctx, `
			MERGE (s:Source {id: $id})
			SET s.alias = $alias
		`, map[string]any{"id": id, "alias": alias})
		if err != nil {
			return 0, fmt.Errorf("upsert source %s: %w", alias, err)
		}
	}

	occurrences := Occurrences(coll)
	for _, o := range occurrences {
		_, err := session.Run(ctx, `
			MERGE (s:String {hash: $hash})
			SET s.text = $text
			MERGE (src:Source {id: $source})
			MERGE (f:File {source: $source, path: $path})
			SET f.languageType = $languageType
			MERGE (f)-[:PART_OF]->(src)
			MERGE (s)-[r:OCCURS_IN {line: $line}]->(f)
		`, map[string]any{
			"hash":         o.Hash,
			"text":         o.Text,
			"source":       o.SourceID,
			"path":         o.RelativePath,
			"languageType": o.LanguageType,
			"line":         o.Line,
		})
		if err != nil {
			return 0, fmt.Errorf("upsert occurrence %s in %s: %w", o.Hash, o.RelativePath, err)
		}
	}

	log.Info().Int("occurrences", len(occurrences)).Msg("Graph updated")
	return len(occurrences), nil
}
