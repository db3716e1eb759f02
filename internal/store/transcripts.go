package store

import (
	"database/sql"
	"errors"

	"github.com/scribe-audio/scribe/internal/domain"
)

func (db *DB) GetTranscript(id string) (*domain.Transcript, error) {
	query := `SELECT id, job_id, url, title, duration, meta FROM transcripts WHERE id = ?`

	transcript := &domain.Transcript{}
	err := db.Get(transcript, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return transcript, nil
}

// ListEntries returns a transcript's entries in playback order.
func (db *DB) ListEntries(transcriptID string) ([]domain.Entry, error) {
	query := `SELECT transcript_id, speaker, started_at, ended_at, contents
		FROM transcription_entries
		WHERE transcript_id = ?
		ORDER BY started_at ASC, rowid ASC`

	var entries []domain.Entry
	err := db.Select(&entries, query, transcriptID)
	return entries, err
}

// TranscriptCollections returns the collections a transcript belongs to.
func (db *DB) TranscriptCollections(transcriptID string) ([]domain.CollectionTag, error) {
	query := `SELECT collection_members.collection_id, collections.name
		FROM collection_members
		JOIN collections ON collections.key = collection_members.collection_id
		WHERE collection_members.transcript_id = ?
		ORDER BY collections.name ASC`

	var tags []domain.CollectionTag
	err := db.Select(&tags, query, transcriptID)
	return tags, err
}
