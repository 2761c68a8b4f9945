package post

import (
	"testing"
	"time"
)

func reconstructSample() Post {
	return Reconstruct(
		"p1", "Title", "Body", "http://img", "alice",
		time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC), "[0.1,0.2]",
	)
}

func TestReconstructAccessors(t *testing.T) {
	// Accessors must work on plain values, including ones returned straight
	// from a function call.
	if got := reconstructSample().ID(); got != "p1" {
		t.Errorf("ID() = %q, want p1", got)
	}
	if got := reconstructSample().Title(); got != "Title" {
		t.Errorf("Title() = %q, want Title", got)
	}
	if got := reconstructSample().AuthorID(); got != "alice" {
		t.Errorf("AuthorID() = %q, want alice", got)
	}
	if !reconstructSample().HasEmbedding() {
		t.Error("HasEmbedding() = false, want true")
	}
}

func TestHasEmbeddingEmpty(t *testing.T) {
	p := Reconstruct("p2", "t", "c", "", "", time.Time{}, "")
	if p.HasEmbedding() {
		t.Error("HasEmbedding() = true for empty raw embedding")
	}
}

func TestCandidateAccessors(t *testing.T) {
	c := NewCandidate(reconstructSample(), []float32{0.1, 0.2}, 0.83)

	if got := c.Post().ID(); got != "p1" {
		t.Errorf("Post().ID() = %q, want p1", got)
	}
	if got := c.Similarity(); got != 0.83 {
		t.Errorf("Similarity() = %v, want 0.83", got)
	}
	if got := len(c.Vector()); got != 2 {
		t.Errorf("len(Vector()) = %d, want 2", got)
	}
}
