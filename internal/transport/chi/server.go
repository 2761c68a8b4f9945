// Package chi exposes the graph engine over HTTP.
package chi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	chiv5 "github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/curio-social/semgraph/internal/domain"
	domgraph "github.com/curio-social/semgraph/internal/domain/graph"
	dompost "github.com/curio-social/semgraph/internal/domain/post"
	"github.com/curio-social/semgraph/internal/domain/search/request"
	graphuc "github.com/curio-social/semgraph/internal/usecase/graph"
	healthuc "github.com/curio-social/semgraph/internal/usecase/health"
)

// GraphService builds similarity graphs and pairwise analyses.
type GraphService interface {
	Search(ctx context.Context, req request.Request) (domgraph.Graph, error)
	GraphData(ctx context.Context, limit int, edgeThreshold float64) (domgraph.Graph, error)
	RelationshipDetails(ctx context.Context, id1, id2 string) (graphuc.Details, error)
}

// PostService creates and lists corpus posts.
type PostService interface {
	Create(ctx context.Context, title, content, imageURL, authorID string) (dompost.Post, error)
	List(ctx context.Context, limit int) ([]dompost.Post, error)
}

// HealthService reports component liveness.
type HealthService interface {
	Check(ctx context.Context) healthuc.Report
}

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error, msg string) bool

// Defaults holds per-endpoint defaults sourced from configuration.
type Defaults struct {
	GraphDataEdgeThreshold float64
	ListLimit              int
}

// Server hosts the HTTP API handlers.
type Server struct {
	graph         GraphService
	posts         PostService
	health        HealthService
	defaults      Defaults
	logger        *zap.Logger
	errorHandlers []errorHandler
}

// NewServer creates an HTTP API server.
func NewServer(
	graph GraphService,
	posts PostService,
	health HealthService,
	defaults Defaults,
	logger *zap.Logger,
) *Server {
	if defaults.GraphDataEdgeThreshold <= 0 {
		defaults.GraphDataEdgeThreshold = 0.60
	}
	if defaults.ListLimit <= 0 {
		defaults.ListLimit = request.DefaultLimit
	}

	s := &Server{
		graph:    graph,
		posts:    posts,
		health:   health,
		defaults: defaults,
		logger:   logger,
	}
	s.errorHandlers = []errorHandler{
		sentinelHandler(domain.ErrPostNotFound, http.StatusNotFound, codePostNotFound),
		sentinelHandler(domain.ErrNotFound, http.StatusNotFound, codePostNotFound),
		sentinelHandler(domain.ErrVectorDimMismatch, http.StatusBadRequest, codeVectorDimMismatch),
		sentinelHandler(domain.ErrEmbeddingUnavailable, http.StatusServiceUnavailable, codeEmbeddingUnavailable),
		sentinelHandler(domain.ErrEmbeddingProviderError, http.StatusBadGateway, codeEmbeddingProviderError),
		sentinelHandler(domain.ErrChatProviderError, http.StatusBadGateway, codeChatProviderError),
	}
	return s
}

// Register mounts the API routes on the router.
func (s *Server) Register(r chiv5.Router) {
	r.Route("/api", func(r chiv5.Router) {
		r.Route("/graph", func(r chiv5.Router) {
			r.Post("/semantic-search", s.SemanticSearch)
			r.Get("/graph-data", s.GraphData)
			r.Post("/relationship-details", s.RelationshipDetails)
		})
		r.Route("/posts", func(r chiv5.Router) {
			r.Post("/", s.CreatePost)
			r.Get("/", s.ListPosts)
		})
	})
	r.Get("/health", s.HealthCheck)
}

// SemanticSearch handles POST /api/graph/semantic-search.
func (s *Server) SemanticSearch(w http.ResponseWriter, r *http.Request) {
	var req semanticSearchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "Invalid request body: "+err.Error())
		return
	}

	matchThreshold, edgeThreshold := -1.0, -1.0
	if t := req.matchThreshold(); t != nil {
		matchThreshold = *t
	}
	if req.EdgeThreshold != nil {
		edgeThreshold = *req.EdgeThreshold
	}

	searchReq, err := request.New(req.Query, req.Limit, matchThreshold, edgeThreshold)
	if err != nil {
		writeError(w, http.StatusBadRequest, codeValidationFailed, err.Error())
		return
	}

	g, err := s.graph.Search(r.Context(), searchReq)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, graphToResponse(g))
}

// GraphData handles GET /api/graph/graph-data.
func (s *Server) GraphData(w http.ResponseWriter, r *http.Request) {
	limit := s.defaults.ListLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil || v <= 0 || v > request.MaxLimit {
			writeError(w, http.StatusBadRequest, codeValidationFailed,
				"limit must be between 1 and "+strconv.Itoa(request.MaxLimit))
			return
		}
		limit = v
	}

	edgeThreshold := s.defaults.GraphDataEdgeThreshold
	if raw := r.URL.Query().Get("edge_threshold"); raw != "" {
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil || v < 0 || v > 1 {
			writeError(w, http.StatusBadRequest, codeValidationFailed,
				"edge_threshold must be between 0 and 1")
			return
		}
		edgeThreshold = v
	}

	g, err := s.graph.GraphData(r.Context(), limit, edgeThreshold)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, graphToResponse(g))
}

// RelationshipDetails handles POST /api/graph/relationship-details.
func (s *Server) RelationshipDetails(w http.ResponseWriter, r *http.Request) {
	var req relationshipDetailsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "Invalid request body: "+err.Error())
		return
	}
	if req.Post1ID == "" || req.Post2ID == "" {
		writeError(w, http.StatusBadRequest, codeValidationFailed, "post1_id and post2_id are required")
		return
	}

	details, err := s.graph.RelationshipDetails(r.Context(), req.Post1ID, req.Post2ID)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, relationshipDetailsResponse{
		Post1ID:    req.Post1ID,
		Post2ID:    req.Post2ID,
		Similarity: details.Similarity,
		Analysis:   details.Analysis,
	})
}

// CreatePost handles POST /api/posts.
func (s *Server) CreatePost(w http.ResponseWriter, r *http.Request) {
	var req createPostRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "Invalid request body: "+err.Error())
		return
	}
	if req.Title == "" && req.Content == "" {
		writeError(w, http.StatusBadRequest, codeValidationFailed, "title or content is required")
		return
	}

	p, err := s.posts.Create(r.Context(), req.Title, req.Content, req.ImageURL, req.AuthorID)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, postToItem(&p))
}

// ListPosts handles GET /api/posts.
func (s *Server) ListPosts(w http.ResponseWriter, r *http.Request) {
	limit := s.defaults.ListLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil || v <= 0 || v > request.MaxLimit {
			writeError(w, http.StatusBadRequest, codeValidationFailed,
				"limit must be between 1 and "+strconv.Itoa(request.MaxLimit))
			return
		}
		limit = v
	}

	posts, err := s.posts.List(r.Context(), limit)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	items := make([]postItem, len(posts))
	for i := range posts {
		items[i] = postToItem(&posts[i])
	}

	writeJSON(w, http.StatusOK, postListResponse{Posts: items})
}

// HealthCheck handles GET /health.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	checks := make(map[string]string, len(report.Checks))
	for k, v := range report.Checks {
		checks[k] = string(v)
	}

	httpStatus := http.StatusOK
	if report.Status == healthuc.Unhealthy {
		httpStatus = http.StatusServiceUnavailable
	}

	writeJSON(w, httpStatus, healthResponse{
		Status: string(report.Status),
		Checks: checks,
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, errorResponse{
		Code:    code,
		Message: message,
	})
}

// safeDomainMessage returns a sentinel error message for the client without
// exposing internals.
func safeDomainMessage(err error) string {
	sentinels := []error{
		domain.ErrPostNotFound,
		domain.ErrNotFound,
		domain.ErrVectorDimMismatch,
		domain.ErrEmbeddingUnavailable,
		domain.ErrEmbeddingProviderError,
		domain.ErrChatProviderError,
	}
	for _, s := range sentinels {
		if errors.Is(err, s) {
			return s.Error()
		}
	}
	return "internal error"
}

// sentinelHandler returns an errorHandler that matches a single sentinel error.
func sentinelHandler(sentinel error, status int, code string) errorHandler {
	return func(w http.ResponseWriter, err error, msg string) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		writeError(w, status, code, msg)
		return true
	}
}

func (s *Server) handleDomainError(w http.ResponseWriter, err error) {
	s.logger.Warn("domain error", zap.Error(err))
	msg := safeDomainMessage(err)
	for _, h := range s.errorHandlers {
		if h(w, err, msg) {
			return
		}
	}
	s.logger.Error("internal error", zap.Error(err))
	writeError(w, http.StatusInternalServerError, codeInternalError, "internal error")
}
