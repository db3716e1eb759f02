package app

import (
	"strings"

	"github.com/google/uuid"

	"github.com/scribe-audio/scribe/internal/constants"
	"github.com/scribe-audio/scribe/internal/domain"
	"github.com/scribe-audio/scribe/internal/logger"
	"github.com/scribe-audio/scribe/internal/store"
)

type CollectionService struct {
	Registry *store.Registry
	Logger   *logger.Logger
}

func NewCollectionService(registry *store.Registry, log *logger.Logger) *CollectionService {
	return &CollectionService{Registry: registry, Logger: log}
}

// Create makes a new collection. The name must be non-blank after
// trimming; nothing is persisted otherwise.
func (s *CollectionService) Create(dbName, name, description string) (*domain.Collection, error) {
	db, err := s.Registry.Get(dbName)
	if err != nil {
		return nil, err
	}

	name = strings.TrimSpace(name)
	if name == "" {
		return nil, &domain.ValidationError{Field: "name", Message: "must not be blank"}
	}

	collection := &domain.Collection{
		Key:  uuid.New().String(),
		Name: name,
	}
	if description = strings.TrimSpace(description); description != "" {
		collection.Description = &description
	}

	if err := db.CreateCollection(collection); err != nil {
		return nil, err
	}
	s.Logger.WithDatabase(dbName).Info("Collection created", "collection_id", collection.Key, "name", name)
	return collection, nil
}

func (s *CollectionService) List(dbName string) ([]domain.Collection, error) {
	db, err := s.Registry.Get(dbName)
	if err != nil {
		return nil, err
	}
	return db.ListCollections()
}

// CollectionDetail is a collection with its member transcripts.
type CollectionDetail struct {
	Collection  *domain.Collection    `json:"collection"`
	Transcripts []store.TranscriptRef `json:"transcripts"`
}

func (s *CollectionService) Get(dbName, key string) (*CollectionDetail, error) {
	db, err := s.Registry.Get(dbName)
	if err != nil {
		return nil, err
	}

	collection, err := db.GetCollection(key)
	if err != nil {
		return nil, err
	}
	transcripts, err := db.CollectionTranscripts(key)
	if err != nil {
		return nil, err
	}
	return &CollectionDetail{Collection: collection, Transcripts: transcripts}, nil
}

// AddVideo links a transcript into a collection; adding it twice is a no-op.
func (s *CollectionService) AddVideo(dbName, collectionID, transcriptID string) error {
	db, err := s.Registry.Get(dbName)
	if err != nil {
		return err
	}
	if _, err := db.GetCollection(collectionID); err != nil {
		return err
	}
	if _, err := db.GetTranscript(transcriptID); err != nil {
		return err
	}
	return db.AddMember(collectionID, transcriptID)
}

// RemoveVideo removes a (collection, transcript) pair.
func (s *CollectionService) RemoveVideo(dbName, collectionID, transcriptID string) error {
	db, err := s.Registry.Get(dbName)
	if err != nil {
		return err
	}
	if _, err := db.GetCollection(collectionID); err != nil {
		return err
	}
	return db.RemoveMember(collectionID, transcriptID)
}

// Search runs a ranked full-text search over a collection's transcripts.
// A blank query returns no results.
func (s *CollectionService) Search(dbName, collectionID, query string) ([]domain.SearchResult, error) {
	db, err := s.Registry.Get(dbName)
	if err != nil {
		return nil, err
	}
	if _, err := db.GetCollection(collectionID); err != nil {
		return nil, err
	}
	return db.SearchCollection(collectionID, query, constants.MaxSearchResults)
}
