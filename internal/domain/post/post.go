// Package post holds the corpus entity read by the graph engine.
package post

import "time"

// Post is a single corpus item. The engine reads posts, never mutates them.
type Post struct {
	id           string
	title        string
	content      string
	imageURL     string
	authorID     string
	createdAt    time.Time
	rawEmbedding string
}

// Reconstruct rebuilds a post from stored fields.
// rawEmbedding is the stored embedding in whatever encoding the writer used
// (JSON array string, provider payload, or empty when never embedded).
func Reconstruct(
	id, title, content, imageURL, authorID string,
	createdAt time.Time, rawEmbedding string,
) Post {
	return Post{
		id: id, title: title, content: content,
		imageURL: imageURL, authorID: authorID,
		createdAt: createdAt, rawEmbedding: rawEmbedding,
	}
}

// ID returns the post identifier.
func (p Post) ID() string { return p.id }

// Title returns the post title.
func (p Post) Title() string { return p.title }

// Content returns the post body.
func (p Post) Content() string { return p.content }

// ImageURL returns the attached image URL, if any.
func (p Post) ImageURL() string { return p.imageURL }

// AuthorID returns the author identifier.
func (p Post) AuthorID() string { return p.authorID }

// CreatedAt returns the creation timestamp.
func (p Post) CreatedAt() time.Time { return p.createdAt }

// RawEmbedding returns the stored embedding in its original encoding.
func (p Post) RawEmbedding() string { return p.rawEmbedding }

// HasEmbedding reports whether any stored embedding is present.
func (p Post) HasEmbedding() bool { return p.rawEmbedding != "" }

// Candidate is a post admitted into a search result: the post, its decoded
// vector, and its similarity to the query. Built fresh per request.
type Candidate struct {
	post       Post
	vector     []float32
	similarity float64
}

// NewCandidate creates a candidate.
func NewCandidate(p Post, vec []float32, similarity float64) Candidate {
	return Candidate{post: p, vector: vec, similarity: similarity}
}

// Post returns the underlying post.
func (c Candidate) Post() Post { return c.post }

// Vector returns the decoded embedding.
func (c Candidate) Vector() []float32 { return c.vector }

// Similarity returns the similarity to the query.
func (c Candidate) Similarity() float64 { return c.similarity }
