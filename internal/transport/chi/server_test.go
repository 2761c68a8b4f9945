package chi

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/curio-social/semgraph/internal/domain"
	dompost "github.com/curio-social/semgraph/internal/domain/post"
	graphuc "github.com/curio-social/semgraph/internal/usecase/graph"
	healthuc "github.com/curio-social/semgraph/internal/usecase/health"
)

func doJSON(t *testing.T, handler http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var rd *strings.Reader
	if body == "" {
		rd = strings.NewReader("")
	} else {
		rd = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, rd)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)
	return rr
}

func TestSemanticSearch_ResponseContract(t *testing.T) {
	g := &mockGraphService{graph: sampleGraph()}
	router := newTestRouter(t, g, nil, nil)

	rr := doJSON(t, router, "POST", "/api/graph/semantic-search", `{"query":"test query"}`)
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rr.Code, rr.Body.String())
	}

	var resp graphResponse
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}

	if len(resp.Posts) != 3 || len(resp.Edges) != 3 {
		t.Fatalf("posts = %d, edges = %d, want 3/3", len(resp.Posts), len(resp.Edges))
	}
	if resp.Posts[0].ID != "query_node" || !resp.Posts[0].IsQuery {
		t.Errorf("first post = %+v, want query node", resp.Posts[0])
	}
	if resp.Posts[0].Similarity != nil {
		t.Error("query node must not carry a similarity")
	}
	if resp.Posts[1].Similarity == nil || *resp.Posts[1].Similarity != 1.0 {
		t.Errorf("post a similarity = %v", resp.Posts[1].Similarity)
	}
	if resp.Edges[2].ID != "ea-b" {
		t.Errorf("item edge id = %q", resp.Edges[2].ID)
	}

	// Request defaults flow through to the service.
	if g.lastRequest.Limit() != 50 {
		t.Errorf("limit = %d", g.lastRequest.Limit())
	}
	if g.lastRequest.MatchThreshold() != 0.60 {
		t.Errorf("match threshold = %v", g.lastRequest.MatchThreshold())
	}
}

func TestSemanticSearch_CustomThresholds(t *testing.T) {
	g := &mockGraphService{}
	router := newTestRouter(t, g, nil, nil)

	rr := doJSON(t, router, "POST", "/api/graph/semantic-search",
		`{"query":"q","limit":10,"threshold":0.8,"edge_threshold":0.3}`)
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rr.Code, rr.Body.String())
	}
	if g.lastRequest.MatchThreshold() != 0.8 || g.lastRequest.EdgeThreshold() != 0.3 {
		t.Errorf("thresholds = %v/%v", g.lastRequest.MatchThreshold(), g.lastRequest.EdgeThreshold())
	}
	if g.lastRequest.Limit() != 10 {
		t.Errorf("limit = %d", g.lastRequest.Limit())
	}
}

func TestSemanticSearch_MatchThresholdAlias(t *testing.T) {
	g := &mockGraphService{}
	router := newTestRouter(t, g, nil, nil)

	rr := doJSON(t, router, "POST", "/api/graph/semantic-search",
		`{"query":"q","match_threshold":0.95}`)
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rr.Code, rr.Body.String())
	}
	if g.lastRequest.MatchThreshold() != 0.95 {
		t.Errorf("match threshold = %v, want 0.95", g.lastRequest.MatchThreshold())
	}

	// threshold wins over the alias when both are present.
	rr = doJSON(t, router, "POST", "/api/graph/semantic-search",
		`{"query":"q","threshold":0.7,"match_threshold":0.9}`)
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d", rr.Code)
	}
	if g.lastRequest.MatchThreshold() != 0.7 {
		t.Errorf("match threshold = %v, want 0.7", g.lastRequest.MatchThreshold())
	}
}

func TestSemanticSearch_EmptyQuery_400(t *testing.T) {
	router := newTestRouter(t, nil, nil, nil)

	rr := doJSON(t, router, "POST", "/api/graph/semantic-search", `{"query":""}`)
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("status = %d", rr.Code)
	}

	var errResp errorResponse
	if err := json.NewDecoder(rr.Body).Decode(&errResp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if errResp.Code != codeValidationFailed {
		t.Errorf("code = %q", errResp.Code)
	}
}

func TestSemanticSearch_InvalidBody_400(t *testing.T) {
	router := newTestRouter(t, nil, nil, nil)

	rr := doJSON(t, router, "POST", "/api/graph/semantic-search", `{not json`)
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("status = %d", rr.Code)
	}
}

func TestSemanticSearch_ThresholdOutOfRange_400(t *testing.T) {
	router := newTestRouter(t, nil, nil, nil)

	rr := doJSON(t, router, "POST", "/api/graph/semantic-search",
		`{"query":"q","threshold":1.5}`)
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("status = %d", rr.Code)
	}
}

func TestSemanticSearch_ProviderError_502(t *testing.T) {
	g := &mockGraphService{err: domain.ErrEmbeddingProviderError}
	router := newTestRouter(t, g, nil, nil)

	rr := doJSON(t, router, "POST", "/api/graph/semantic-search", `{"query":"q"}`)
	if rr.Code != http.StatusBadGateway {
		t.Fatalf("status = %d, want 502", rr.Code)
	}
}

func TestSemanticSearch_EmbeddingUnavailable_503(t *testing.T) {
	g := &mockGraphService{err: domain.ErrEmbeddingUnavailable}
	router := newTestRouter(t, g, nil, nil)

	rr := doJSON(t, router, "POST", "/api/graph/semantic-search", `{"query":"q"}`)
	if rr.Code != http.StatusServiceUnavailable {
		t.Fatalf("status = %d, want 503", rr.Code)
	}
}

func TestGraphData_Defaults(t *testing.T) {
	g := &mockGraphService{}
	router := newTestRouter(t, g, nil, nil)

	rr := doJSON(t, router, "GET", "/api/graph/graph-data", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d", rr.Code)
	}
	if g.lastLimit != 50 || g.lastEdgeThreshold != 0.60 {
		t.Errorf("defaults = %d/%v", g.lastLimit, g.lastEdgeThreshold)
	}
}

func TestGraphData_QueryParams(t *testing.T) {
	g := &mockGraphService{}
	router := newTestRouter(t, g, nil, nil)

	rr := doJSON(t, router, "GET", "/api/graph/graph-data?limit=20&edge_threshold=0.3", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d", rr.Code)
	}
	if g.lastLimit != 20 || g.lastEdgeThreshold != 0.3 {
		t.Errorf("params = %d/%v", g.lastLimit, g.lastEdgeThreshold)
	}
}

func TestGraphData_BadEdgeThreshold_400(t *testing.T) {
	router := newTestRouter(t, nil, nil, nil)

	for _, q := range []string{"edge_threshold=2", "edge_threshold=abc", "limit=0", "limit=9999"} {
		rr := doJSON(t, router, "GET", "/api/graph/graph-data?"+q, "")
		if rr.Code != http.StatusBadRequest {
			t.Errorf("%s: status = %d, want 400", q, rr.Code)
		}
	}
}

func TestRelationshipDetails(t *testing.T) {
	g := &mockGraphService{details: graphuc.Details{Similarity: 0.87, Analysis: "SUMMARY: related."}}
	router := newTestRouter(t, g, nil, nil)

	rr := doJSON(t, router, "POST", "/api/graph/relationship-details",
		`{"post1_id":"a","post2_id":"b"}`)
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d", rr.Code)
	}

	var resp relationshipDetailsResponse
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Similarity != 0.87 || resp.Analysis != "SUMMARY: related." {
		t.Errorf("resp = %+v", resp)
	}
	if g.lastID1 != "a" || g.lastID2 != "b" {
		t.Errorf("ids = %s/%s", g.lastID1, g.lastID2)
	}
}

func TestRelationshipDetails_MissingIDs_400(t *testing.T) {
	router := newTestRouter(t, nil, nil, nil)

	rr := doJSON(t, router, "POST", "/api/graph/relationship-details", `{"post1_id":"a"}`)
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("status = %d", rr.Code)
	}
}

func TestRelationshipDetails_NotFound_404(t *testing.T) {
	g := &mockGraphService{err: domain.ErrPostNotFound}
	router := newTestRouter(t, g, nil, nil)

	rr := doJSON(t, router, "POST", "/api/graph/relationship-details",
		`{"post1_id":"a","post2_id":"missing"}`)
	if rr.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rr.Code)
	}
}

func TestCreatePost(t *testing.T) {
	p := &mockPostService{post: samplePost("p1")}
	router := newTestRouter(t, nil, p, nil)

	rr := doJSON(t, router, "POST", "/api/posts/", `{"title":"T","content":"B","author_id":"a"}`)
	if rr.Code != http.StatusCreated {
		t.Fatalf("status = %d, body = %s", rr.Code, rr.Body.String())
	}

	var item postItem
	if err := json.NewDecoder(rr.Body).Decode(&item); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if item.ID != "p1" || item.CreatedAt == "" {
		t.Errorf("item = %+v", item)
	}
}

func TestCreatePost_Empty_400(t *testing.T) {
	router := newTestRouter(t, nil, nil, nil)

	rr := doJSON(t, router, "POST", "/api/posts/", `{}`)
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("status = %d", rr.Code)
	}
}

func TestListPosts(t *testing.T) {
	p := &mockPostService{posts: []dompost.Post{samplePost("p1"), samplePost("p2")}}
	router := newTestRouter(t, nil, p, nil)

	rr := doJSON(t, router, "GET", "/api/posts/", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d", rr.Code)
	}

	var resp postListResponse
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(resp.Posts) != 2 {
		t.Fatalf("posts = %d", len(resp.Posts))
	}
}

func TestHealthCheck_Degraded_200(t *testing.T) {
	h := &mockHealthService{report: healthuc.Report{
		Status: healthuc.Degraded,
		Checks: map[string]healthuc.CheckResult{"store": healthuc.CheckOK, "embedding": healthuc.CheckError},
	}}
	router := newTestRouter(t, nil, nil, h)

	rr := doJSON(t, router, "GET", "/health", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d (degraded still serves)", rr.Code)
	}

	var resp healthResponse
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Status != "degraded" || resp.Checks["embedding"] != "error" {
		t.Errorf("resp = %+v", resp)
	}
}

func TestHealthCheck_Unhealthy_503(t *testing.T) {
	h := &mockHealthService{report: healthuc.Report{
		Status: healthuc.Unhealthy,
		Checks: map[string]healthuc.CheckResult{"store": healthuc.CheckError},
	}}
	router := newTestRouter(t, nil, nil, h)

	rr := doJSON(t, router, "GET", "/health", "")
	if rr.Code != http.StatusServiceUnavailable {
		t.Fatalf("status = %d, want 503", rr.Code)
	}
}
