package store

import (
	"testing"

	"github.com/scribe-audio/scribe/internal/domain"
)

func TestDB_Collections(t *testing.T) {
	db := setupTestDB(t)

	desc := "talks from 2026"
	collection := &domain.Collection{Key: "col1", Name: "Talks", Description: &desc}
	if err := db.CreateCollection(collection); err != nil {
		t.Fatalf("CreateCollection failed: %v", err)
	}

	fetched, err := db.GetCollection("col1")
	if err != nil {
		t.Fatalf("GetCollection failed: %v", err)
	}
	if fetched.Name != "Talks" {
		t.Errorf("Expected name Talks, got %s", fetched.Name)
	}
	if fetched.Description == nil || *fetched.Description != desc {
		t.Errorf("Expected description to round-trip, got %v", fetched.Description)
	}

	if _, err := db.GetCollection("missing"); err != domain.ErrNotFound {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}

	all, err := db.ListCollections()
	if err != nil {
		t.Fatalf("ListCollections failed: %v", err)
	}
	if len(all) != 1 {
		t.Errorf("Expected 1 collection, got %d", len(all))
	}
}

func TestDB_Membership(t *testing.T) {
	db := setupTestDB(t)

	transcriptID := mustCompleteJob(t, db, "job1", "https://example.com/a", []domain.Segment{
		{Speaker: "A", StartedAt: 0, EndedAt: 1, Text: "hi"},
	})
	if err := db.CreateCollection(&domain.Collection{Key: "col1", Name: "Talks"}); err != nil {
		t.Fatalf("CreateCollection failed: %v", err)
	}

	if err := db.AddMember("col1", transcriptID); err != nil {
		t.Fatalf("AddMember failed: %v", err)
	}
	// Adding the same pair again is a no-op, not a duplicate row.
	if err := db.AddMember("col1", transcriptID); err != nil {
		t.Fatalf("Second AddMember failed: %v", err)
	}

	members, err := db.CollectionTranscripts("col1")
	if err != nil {
		t.Fatalf("CollectionTranscripts failed: %v", err)
	}
	if len(members) != 1 {
		t.Fatalf("Expected 1 member, got %d", len(members))
	}
	if members[0].ID != transcriptID {
		t.Errorf("Expected member %s, got %s", transcriptID, members[0].ID)
	}

	tags, err := db.TranscriptCollections(transcriptID)
	if err != nil {
		t.Fatalf("TranscriptCollections failed: %v", err)
	}
	if len(tags) != 1 || tags[0].CollectionID != "col1" || tags[0].Name != "Talks" {
		t.Errorf("Unexpected tags: %+v", tags)
	}

	// Add then remove leaves membership absent.
	if err := db.RemoveMember("col1", transcriptID); err != nil {
		t.Fatalf("RemoveMember failed: %v", err)
	}
	members, err = db.CollectionTranscripts("col1")
	if err != nil {
		t.Fatalf("CollectionTranscripts failed: %v", err)
	}
	if len(members) != 0 {
		t.Errorf("Expected no members after removal, got %d", len(members))
	}
}
