package store

import (
	"database/sql"
	"errors"

	"github.com/scribe-audio/scribe/internal/domain"
)

func (db *DB) CreateCollection(collection *domain.Collection) error {
	query := `INSERT INTO collections (key, name, description) VALUES (:key, :name, :description)`

	_, err := db.NamedExec(query, collection)
	return err
}

func (db *DB) GetCollection(key string) (*domain.Collection, error) {
	query := `SELECT key, name, description FROM collections WHERE key = ?`

	collection := &domain.Collection{}
	err := db.Get(collection, query, key)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return collection, nil
}

func (db *DB) ListCollections() ([]domain.Collection, error) {
	query := `SELECT key, name, description FROM collections ORDER BY name ASC`

	var collections []domain.Collection
	err := db.Select(&collections, query)
	return collections, err
}

// TranscriptRef is the compact transcript reference inside a collection view.
type TranscriptRef struct {
	ID    string  `json:"id" db:"id"`
	Title *string `json:"title" db:"title"`
	URL   string  `json:"url" db:"url"`
}

// CollectionTranscripts returns the member transcripts of a collection.
func (db *DB) CollectionTranscripts(key string) ([]TranscriptRef, error) {
	query := `SELECT transcripts.id, transcripts.title, transcripts.url
		FROM collection_members
		JOIN transcripts ON transcripts.id = collection_members.transcript_id
		WHERE collection_members.collection_id = ?
		ORDER BY transcripts.id ASC`

	var refs []TranscriptRef
	err := db.Select(&refs, query, key)
	return refs, err
}

// AddMember links a transcript into a collection. Re-adding an existing
// pair is a no-op.
func (db *DB) AddMember(collectionID, transcriptID string) error {
	query := `INSERT OR IGNORE INTO collection_members (collection_id, transcript_id) VALUES (?, ?)`
	_, err := db.Exec(query, collectionID, transcriptID)
	return err
}

// RemoveMember deletes a (collection, transcript) pair.
func (db *DB) RemoveMember(collectionID, transcriptID string) error {
	query := `DELETE FROM collection_members WHERE collection_id = ? AND transcript_id = ?`
	_, err := db.Exec(query, collectionID, transcriptID)
	return err
}
