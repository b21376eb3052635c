package graph

import (
	"context"
	"fmt"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"github.com/rs/zerolog/log"
)

// FileResult is a file a string occurs in.
type FileResult struct {
	SourceID string
	Path     string
	Line     int
}

// GraphQuerier reads the occurrence graph.
type GraphQuerier struct {
	driver neo4j.DriverWithContext
}

// NewGraphQuerier creates a new graph querier.
func NewGraphQuerier(driver neo4j.DriverWithContext) *GraphQuerier {
	return &GraphQuerier{driver: driver}
}

// FilesForHash lists where the string with the given hash occurs.
func (gq *GraphQuerier) FilesForHash(ctx context.Context, hash string) ([]FileResult, error) {
	session := gq.driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeRead})
	defer session.Close(ctx)

	result, err := session.Run(ctx, `
		MATCH (s:String {hash: $hash})-[r:OCCURS_IN]->(f:File)
		RETURN f.source AS source, f.path AS path, r.line AS line
		ORDER BY f.path, r.line
	`, map[string]any{"hash": hash})
	if err != nil {
		return nil, fmt.Errorf("query files for %s: %w", hash, err)
	}

	var files []FileResult
	for result.Next(ctx) {
		record := result.Record()
		source, _ := record.Get("source")
		path, _ := record.Get("path")
		line, _ := record.Get("line")

		files = append(files, FileResult{
			SourceID: fmt.Sprintf("%v", source),
			Path:     fmt.Sprintf("%v", path),
			Line:     toInt(line),
		})
	}
	if err := result.Err(); err != nil {
		return nil, fmt.Errorf("read files for %s: %w", hash, err)
	}

	log.Debug().Str("hash", hash).Int("files", len(files)).Msg("Graph query complete")
	return files, nil
}

// SharedStrings returns the hashes of strings that occur in more than one
// file, with their file count.
func (gq *GraphQuerier) SharedStrings(ctx context.Context) (map[string]int, error) {
	session := gq.driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeRead})
	defer session.Close(ctx)

	result, err := session.Run(ctx, `
		MATCH (s:String)-[:OCCURS_IN]->(f:File)
		WITH s, count(DISTINCT f) AS files
		WHERE files > 1
		RETURN s.hash AS hash, files
	`, nil)
	if err != nil {
		return nil, fmt.Errorf("query shared strings: %w", err)
	}

	shared := make(map[string]int)
	for result.Next(ctx) {
		record := result.Record()
		hash, _ := record.Get("hash")
		files, _ := record.Get("files")
		shared[fmt.Sprintf("%v", hash)] = toInt(files)
	}
	return shared, result.Err()
}

func toInt(v any) int {
	switch n := v.(type) {
	case int64:
		return int(n)
	case int:
		return n
	case float64:
		return int(n)
	}
	return 0
}
