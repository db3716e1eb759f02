package store

import (
	"strings"

	"github.com/scribe-audio/scribe/internal/constants"
	"github.com/scribe-audio/scribe/internal/domain"
)

// SearchCollection runs a ranked full-text search over entry contents,
// restricted to transcripts that are members of the given collection.
// Matched terms in the returned snippet are wrapped in highlight markers.
func (db *DB) SearchCollection(collectionID, query string, limit int) ([]domain.SearchResult, error) {
	match := ftsQuery(query)
	if match == "" {
		return nil, nil
	}
	if limit <= 0 || limit > constants.MaxSearchResults {
		limit = constants.MaxSearchResults
	}

	sqlQuery := `SELECT
			entries.transcript_id,
			transcripts.title AS video_title,
			transcripts.url AS video_url,
			entries.speaker,
			entries.started_at,
			entries.contents,
			snippet(entries_fts, 0, ?, ?, '…', 16) AS highlighted_contents
		FROM entries_fts
		JOIN transcription_entries AS entries ON entries.rowid = entries_fts.rowid
		JOIN transcripts ON transcripts.id = entries.transcript_id
		JOIN collection_members ON collection_members.transcript_id = transcripts.id
		WHERE entries_fts MATCH ? AND collection_members.collection_id = ?
		ORDER BY bm25(entries_fts)
		LIMIT ?`

	var results []domain.SearchResult
	err := db.Select(&results, sqlQuery,
		constants.HighlightOpen, constants.HighlightClose, match, collectionID, limit)
	return results, err
}

// ftsQuery turns raw user input into a safe FTS5 MATCH expression: each
// whitespace token becomes a quoted phrase, tokens are implicitly ANDed.
func ftsQuery(raw string) string {
	fields := strings.Fields(raw)
	if len(fields) == 0 {
		return ""
	}
	quoted := make([]string, 0, len(fields))
	for _, field := range fields {
		quoted = append(quoted, `"`+strings.ReplaceAll(field, `"`, `""`)+`"`)
	}
	return strings.Join(quoted, " ")
}
