package graph

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/curio-social/semgraph/internal/domain"
	domgraph "github.com/curio-social/semgraph/internal/domain/graph"
	dompost "github.com/curio-social/semgraph/internal/domain/post"
	"github.com/curio-social/semgraph/internal/domain/search/request"
	"github.com/curio-social/semgraph/internal/domain/vector"
	"github.com/curio-social/semgraph/internal/usecase/annotate"
)

// Service builds similarity graphs.
type Service struct {
	embedder  domain.Embedder
	retriever Retriever
	corpus    Corpus
	annotator Annotator
	logger    *zap.Logger
}

// New creates the graph service.
func New(
	embedder domain.Embedder,
	retriever Retriever,
	corpus Corpus,
	annotator Annotator,
	logger *zap.Logger,
) *Service {
	return &Service{
		embedder:  embedder,
		retriever: retriever,
		corpus:    corpus,
		annotator: annotator,
		logger:    logger,
	}
}

// Search embeds the query, retrieves candidates above the match threshold and
// assembles the query-centered graph. Embedding failure is terminal: without
// a query vector there is no graph to build.
func (s *Service) Search(ctx context.Context, req request.Request) (domgraph.Graph, error) {
	res, err := s.embedder.Embed(ctx, req.Query())
	if err != nil {
		return domgraph.Graph{}, fmt.Errorf("embed query %q: %w", req.Query(), err)
	}
	if len(res.Embedding) == 0 {
		return domgraph.Graph{}, fmt.Errorf("embed query %q: %w", req.Query(), domain.ErrEmbeddingUnavailable)
	}

	candidates, err := s.retriever.Retrieve(ctx, res.Embedding, req.MatchThreshold(), req.Limit())
	if err != nil {
		return domgraph.Graph{}, fmt.Errorf("retrieve candidates: %w", err)
	}

	return s.assemble(ctx, req, candidates), nil
}

// assemble builds the graph: query node first, one node and one query edge
// per candidate, then annotated item pairs above the edge threshold.
func (s *Service) assemble(ctx context.Context, req request.Request, candidates []dompost.Candidate) domgraph.Graph {
	nodes := make([]domgraph.Node, 0, len(candidates)+1)
	nodes = append(nodes, domgraph.NewNode(
		domgraph.QueryNodeID, domgraph.KindQuery, "Query: "+req.Query(), req.Query(), "", "",
	))

	edges := make([]domgraph.Edge, 0, len(candidates))
	queryLabel := fmt.Sprintf("Query: '%s' matched this post", req.Query())

	for i := range candidates {
		p := candidates[i].Post()
		nodes = append(nodes, domgraph.NewNode(
			p.ID(), domgraph.KindItem, p.Title(), p.Content(), p.ImageURL(), p.AuthorID(),
		))
		edges = append(edges, domgraph.NewEdge(
			domgraph.QueryNodeID, p.ID(), domgraph.KindQueryItem,
			candidates[i].Similarity(), queryLabel,
		))
	}

	edges = append(edges, s.itemEdges(ctx, candidates, req.EdgeThreshold(), true)...)

	return domgraph.Graph{Nodes: nodes, Edges: edges}
}

// itemEdges computes pairwise item edges above threshold. When annotated is
// false the label comes from the similarity heuristic alone.
func (s *Service) itemEdges(ctx context.Context, candidates []dompost.Candidate, threshold float64, annotated bool) []domgraph.Edge {
	var edges []domgraph.Edge

	for i := 0; i < len(candidates); i++ {
		for j := i + 1; j < len(candidates); j++ {
			sim, err := vector.Cosine(candidates[i].Vector(), candidates[j].Vector())
			if err != nil {
				s.logger.Warn("Skipping incomparable pair",
					zap.String("post_a", candidates[i].Post().ID()),
					zap.String("post_b", candidates[j].Post().ID()),
					zap.Error(err))
				continue
			}
			if sim <= threshold {
				continue
			}

			a, b := candidates[i].Post(), candidates[j].Post()
			label := annotate.HeuristicLabel(sim)
			if annotated {
				label = s.annotator.Describe(ctx, a.Content(), b.Content(), sim)
			}

			edges = append(edges, domgraph.NewEdge(
				a.ID(), b.ID(), domgraph.KindItemItem, sim, label,
			))
		}
	}

	return edges
}

// GraphData builds a corpus-wide graph with no query node: the latest limit
// posts are nodes, and embedded pairs above edgeThreshold get
// heuristic-labeled edges. Unembedded posts still appear as isolated nodes.
func (s *Service) GraphData(ctx context.Context, limit int, edgeThreshold float64) (domgraph.Graph, error) {
	posts, err := s.corpus.ListRecent(ctx, limit)
	if err != nil {
		return domgraph.Graph{}, fmt.Errorf("list corpus: %w", err)
	}

	nodes := make([]domgraph.Node, 0, len(posts))
	candidates := make([]dompost.Candidate, 0, len(posts))
	for i := range posts {
		p := posts[i]
		nodes = append(nodes, domgraph.NewNode(
			p.ID(), domgraph.KindItem, p.Title(), p.Content(), p.ImageURL(), p.AuthorID(),
		))

		if !p.HasEmbedding() {
			continue
		}
		vec, err := vector.ParseJSON(p.RawEmbedding())
		if err != nil {
			s.logger.Warn("Excluding post with undecodable embedding from edges",
				zap.String("post_id", p.ID()), zap.Error(err))
			continue
		}
		candidates = append(candidates, dompost.NewCandidate(p, vec, 0))
	}

	edges := s.itemEdges(ctx, candidates, edgeThreshold, false)

	return domgraph.Graph{Nodes: nodes, Edges: edges}, nil
}

// Details is the outcome of a pairwise relationship analysis.
type Details struct {
	Similarity float64
	Analysis   string
}

// RelationshipDetails compares two posts in depth. Missing posts surface as
// domain.ErrPostNotFound; an undecodable embedding on either side yields
// similarity 0 rather than an error, the analysis text still runs.
func (s *Service) RelationshipDetails(ctx context.Context, id1, id2 string) (Details, error) {
	p1, err := s.corpus.Get(ctx, id1)
	if err != nil {
		return Details{}, fmt.Errorf("post %s: %w", id1, err)
	}
	p2, err := s.corpus.Get(ctx, id2)
	if err != nil {
		return Details{}, fmt.Errorf("post %s: %w", id2, err)
	}

	var similarity float64
	v1, err1 := vector.ParseJSON(p1.RawEmbedding())
	v2, err2 := vector.ParseJSON(p2.RawEmbedding())
	if err1 == nil && err2 == nil {
		if sim, err := vector.Cosine(v1, v2); err == nil {
			similarity = sim
		} else {
			s.logger.Warn("Incomparable embeddings in detail lookup",
				zap.String("post_a", id1), zap.String("post_b", id2), zap.Error(err))
		}
	}

	return Details{
		Similarity: similarity,
		Analysis:   s.annotator.Analyze(ctx, p1.Content(), p2.Content()),
	}, nil
}
